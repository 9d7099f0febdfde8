package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/andaru/escl/discovery"
)

func (a *app) discoverCommand() *cobra.Command {
	var opts discovery.Options
	cmd := &cobra.Command{
		Use:   "discover",
		Short: "Find scanners on the local network",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Logger = a.logger
			scanners, err := discovery.Browse(cmd.Context(), opts)
			if err != nil {
				return err
			}
			return a.output(cmd.OutOrStdout(), discovered(scanners), func(w io.Writer) {
				printScanners(w, scanners)
			})
		},
	}
	cmd.Flags().DurationVar(&opts.Timeout, "timeout", discovery.DefaultTimeout, "how long to listen")
	cmd.Flags().BoolVar(&opts.Secure, "secure", false, "also look for HTTPS scanners")
	return cmd
}

type discoveredScanner struct {
	Name   string   `json:"name"`
	URL    string   `json:"url"`
	UUID   string   `json:"uuid,omitempty"`
	Model  string   `json:"model,omitempty"`
	Source []string `json:"sources,omitempty"`
	Duplex bool     `json:"duplex"`
}

func discovered(scanners []discovery.Scanner) []discoveredScanner {
	out := make([]discoveredScanner, 0, len(scanners))
	for _, s := range scanners {
		out = append(out, discoveredScanner{
			Name:   s.Instance,
			URL:    s.BaseURL(),
			UUID:   s.UUID,
			Model:  s.Model,
			Source: s.InputSources,
			Duplex: s.Duplex,
		})
	}
	return out
}

func printScanners(w io.Writer, scanners []discovery.Scanner) {
	if len(scanners) == 0 {
		fmt.Fprintln(w, "No scanners found.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tURL\tUUID")
	for _, s := range scanners {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", s.Instance, s.BaseURL(), s.UUID)
	}
	tw.Flush()
}
