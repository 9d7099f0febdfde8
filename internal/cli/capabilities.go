package cli

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/andaru/escl/model"
	"github.com/andaru/escl/schema"
)

func (a *app) capabilitiesCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "capabilities",
		Aliases: []string{"caps"},
		Short:   "Show what the scanner can do",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}
			res, err := c.Capabilities(cmd.Context())
			if err != nil {
				return err
			}
			v := struct {
				Capabilities *model.ScannerCapabilities `json:"capabilities"`
				Unknown      []string                   `json:"unknown,omitempty"`
			}{res.Value, unknownStrings(res.Unknown)}
			return a.output(cmd.OutOrStdout(), v, func(w io.Writer) {
				printCapabilities(w, res.Value, len(res.Unknown))
			})
		},
	}
}

func unknownStrings(in []schema.UnknownInput) (out []string) {
	for _, u := range in {
		out = append(out, u.String())
	}
	return out
}

func printCapabilities(w io.Writer, c *model.ScannerCapabilities, unknown int) {
	fmt.Fprintf(w, "%s (eSCL %s)\n", c.MakeAndModel, c.Version)
	if c.UUID != nil {
		fmt.Fprintf(w, "UUID: %s\n", *c.UUID)
	}
	if c.SerialNumber != "" {
		fmt.Fprintf(w, "Serial number: %s\n", c.SerialNumber)
	}
	if c.AdminURI != nil {
		fmt.Fprintf(w, "Admin: %s\n", *c.AdminURI)
	}
	for _, src := range []struct {
		name string
		caps *model.InputSourceCaps
	}{
		{"Platen", c.Platen},
		{"Feeder", adfSimplex(c.Adf)},
		{"Feeder (duplex)", adfDuplex(c.Adf)},
	} {
		if src.caps != nil {
			printSource(w, src.name, src.caps)
		}
	}
	if c.Adf != nil && c.Adf.FeederCapacity != nil {
		fmt.Fprintf(w, "Feeder capacity: %d sheets\n", *c.Adf.FeederCapacity)
	}
	if unknown > 0 {
		fmt.Fprintf(w, "Unrecognised input: %d (see --json)\n", unknown)
	}
}

func adfSimplex(a *model.AdfCaps) *model.InputSourceCaps {
	if a == nil {
		return nil
	}
	return &a.Simplex
}

func adfDuplex(a *model.AdfCaps) *model.InputSourceCaps {
	if a == nil {
		return nil
	}
	return a.Duplex
}

func printSource(w io.Writer, name string, sc *model.InputSourceCaps) {
	fmt.Fprintf(w, "%s: up to %.1f x %.1f mm\n", name,
		float64(sc.MaxWidth.Millimeters()), float64(sc.MaxHeight.Millimeters()))

	var modes, formats, res []string
	for _, sp := range sc.SettingProfiles {
		for _, m := range sp.ColorModes {
			modes = appendUnique(modes, m.String())
		}
		for _, f := range sp.DocumentFormats.All() {
			formats = appendUnique(formats, f)
		}
		for _, r := range sp.SupportedResolutions {
			res = appendUnique(res, resolutionString(r))
		}
	}
	printList(w, "color modes", modes)
	printList(w, "formats", formats)
	printList(w, "resolutions", res)
	var intents []string
	for _, i := range sc.SupportedIntents {
		intents = append(intents, i.String())
	}
	printList(w, "intents", intents)
}

func resolutionString(r model.DiscreteResolution) string {
	if r.XResolution == r.YResolution {
		return fmt.Sprint(r.XResolution)
	}
	return fmt.Sprintf("%dx%d", r.XResolution, r.YResolution)
}

func appendUnique(list []string, s string) []string {
	if slices.Contains(list, s) {
		return list
	}
	return append(list, s)
}

func printList(w io.Writer, label string, list []string) {
	if len(list) > 0 {
		fmt.Fprintf(w, "  %s: %s\n", label, strings.Join(list, ", "))
	}
}
