package cli

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/nbrumont/fly/internal/config"
	"github.com/nbrumont/fly/internal/input"
	"github.com/nbrumont/fly/internal/input/key"
	"github.com/nbrumont/fly/internal/input/report"
	"github.com/nbrumont/fly/internal/input/tapdance"
	"github.com/nbrumont/fly/internal/input/tapping"
)

type termJSON struct {
	Keycode string  `json:"keycode"`
	TermMs  float64 `json:"term_ms"`
	Quick   bool    `json:"quick"`
}

func newTermCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "term [KEYCODE...]",
		Short: "Print the tapping term of keycodes",
		Long: `Print how long the host waits before deciding between tap and hold for
each keycode, after clamping to host.min_term and host.max_term. Without
arguments the keys with a shorter built-in term are listed.

Examples:
  fly term 'LT(1, KC_TAB)' 'LCTL_T(KC_SPC)'
  fly term TD(0)`,
		RunE: func(cmd *cobra.Command, args []string) error {
			codes := tapping.QuickKeys()
			if len(args) > 0 {
				codes = codes[:0]
				for _, arg := range args {
					code, err := key.Parse(arg)
					if err != nil {
						return err
					}
					codes = append(codes, code)
				}
			}

			km, err := o.loadKeymap()
			if err != nil {
				return err
			}
			h, err := input.NewHandler(o.handlerConfig(o.logger(cmd)), km, tapdance.DefaultSet(), report.NewReporter(report.NewBuffer()))
			if err != nil {
				return err
			}
			defer h.Close()

			out := cmd.OutOrStdout()
			if o.config.Output.Format == config.OutputJSON {
				rows := make([]termJSON, len(codes))
				for i, code := range codes {
					rows[i] = termJSON{
						Keycode: code.String(),
						TermMs:  float64(h.Term(code)) / float64(time.Millisecond),
						Quick:   tapping.IsQuick(code),
					}
				}
				return printJSON(out, rows)
			}

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			for _, code := range codes {
				note := ""
				if tapping.IsQuick(code) {
					note = "quick"
				}
				fmt.Fprintf(tw, "%s\t%v\t%s\n", code, h.Term(code), note)
			}
			return tw.Flush()
		},
	}
}
