package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/nbrumont/fly/internal/scenario"
)

func newRunCmd(o *options) *cobra.Command {
	var (
		timeout time.Duration
		trace   bool
	)

	cmd := &cobra.Command{
		Use:   "run SCRIPT",
		Short: "Run a Lua scenario and print the HID reports",
		Long: `Run a Lua scenario against the keymap on a virtual clock and print the
reports the keyboard sends. SCRIPT is a file, a name looked up in
scenario.dir, or "-" for stdin.

Scenario functions:
  press(p) release(p) tap(p [, hold_ms]) wait(ms)
  pos(name) reports() layer() now() print(...)

Example:
  press("t2") wait(300) tap("KC_Q") release("t2")`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log := o.logger(cmd).WithComponent("scenario")

			km, err := o.loadKeymap()
			if err != nil {
				return err
			}
			runner, err := scenario.NewRunner(
				scenario.WithKeymap(km),
				scenario.WithHandlerConfig(o.handlerConfig(log)),
				scenario.WithDir(o.config.Scenario.Dir),
				scenario.WithCacheSize(o.config.Scenario.CacheSize),
				scenario.WithTimeout(timeout),
			)
			if err != nil {
				return err
			}

			var res *scenario.Result
			if args[0] == "-" {
				res, err = runner.RunReader(cmd.Context(), "stdin", cmd.InOrStdin())
			} else {
				res, err = runner.RunFile(cmd.Context(), args[0])
			}
			if err != nil {
				return err
			}

			log.WithFields(map[string]any{
				"reports":   len(res.Frames),
				"decisions": len(res.Resolutions),
			}).Debug("%s covered %v", res.Name, res.Elapsed)
			return writeResult(cmd.OutOrStdout(), o.config.Output.Format, res, trace)
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", scenario.DefaultTimeout, "wall-clock limit for the script, 0 for none")
	cmd.Flags().BoolVar(&trace, "trace", false, "also print every key decision")
	return cmd
}
