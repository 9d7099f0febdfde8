package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/andaru/escl/model"
)

func (a *app) statusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the scanner state and its jobs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}
			res, err := c.Status(cmd.Context())
			if err != nil {
				return err
			}
			v := struct {
				Status  *model.ScannerStatus `json:"status"`
				Unknown []string             `json:"unknown,omitempty"`
			}{res.Value, unknownStrings(res.Unknown)}
			return a.output(cmd.OutOrStdout(), v, func(w io.Writer) {
				printStatus(w, res.Value)
			})
		},
	}
}

func printStatus(w io.Writer, s *model.ScannerStatus) {
	fmt.Fprintf(w, "State: %s\n", s.State)
	if s.AdfState != nil {
		fmt.Fprintf(w, "Feeder: %s\n", *s.AdfState)
	}
	if len(s.Jobs) == 0 {
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "JOB\tSTATE\tIMAGES\tAGE")
	for _, j := range s.Jobs {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%ds\n", j.JobURI, j.JobState, j.ImagesCompleted, j.Age)
	}
	tw.Flush()
}
