package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/nbrumont/fly/internal/config"
	"github.com/nbrumont/fly/internal/input/tapdance"
)

type classifyJSON struct {
	Count       int    `json:"count"`
	Interrupted bool   `json:"interrupted"`
	Pressed     bool   `json:"pressed"`
	Outcome     string `json:"outcome"`
}

// tableCounts are the tap counts listed by classify --table.
const tableCounts = 4

func newClassifyCmd(o *options) *cobra.Command {
	var (
		st    tapdance.State
		table bool
	)

	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Classify a tap-dance gesture",
		Long: `Print the outcome of a closed tap-dance window: single-hold, single-tap,
double-tap, triple-tap or unknown.

Examples:
  fly classify --count 1 --pressed
  fly classify -n 2 --interrupted
  fly classify --table`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			states := []tapdance.State{st}
			if table {
				states = states[:0]
				for n := 1; n <= tableCounts; n++ {
					for _, interrupted := range []bool{false, true} {
						for _, pressed := range []bool{false, true} {
							states = append(states, tapdance.State{Count: n, Interrupted: interrupted, Pressed: pressed})
						}
					}
				}
			}

			out := cmd.OutOrStdout()
			if o.config.Output.Format == config.OutputJSON {
				rows := make([]classifyJSON, len(states))
				for i, s := range states {
					rows[i] = classifyJSON{s.Count, s.Interrupted, s.Pressed, tapdance.Classify(s).String()}
				}
				if !table {
					return printJSON(out, rows[0])
				}
				return printJSON(out, rows)
			}

			if !table {
				_, err := fmt.Fprintln(out, tapdance.Classify(st))
				return err
			}
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "COUNT\tINTERRUPTED\tPRESSED\tOUTCOME")
			for _, s := range states {
				fmt.Fprintf(tw, "%d\t%t\t%t\t%s\n", s.Count, s.Interrupted, s.Pressed, tapdance.Classify(s))
			}
			return tw.Flush()
		},
	}

	cmd.Flags().IntVarP(&st.Count, "count", "n", 1, "number of taps in the window")
	cmd.Flags().BoolVarP(&st.Interrupted, "interrupted", "i", false, "another key was pressed before the window closed")
	cmd.Flags().BoolVarP(&st.Pressed, "pressed", "p", false, "the key is still held")
	cmd.Flags().BoolVar(&table, "table", false, "print every outcome for 1-4 taps")
	return cmd
}
