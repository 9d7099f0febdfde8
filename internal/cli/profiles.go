package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func (a *app) profilesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "profiles",
		Short: "List the scan profiles in the configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.output(cmd.OutOrStdout(), a.cfg.Profiles, func(w io.Writer) {
				tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "PROFILE\tSOURCE\tRESOLUTION\tCOLOR\tFORMAT")
				for _, name := range a.cfg.ProfileNames() {
					p := a.cfg.Profiles[name]
					fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n", name, p.Source, p.Resolution, p.ColorMode, p.Format)
				}
				tw.Flush()
			})
		},
	}
}
