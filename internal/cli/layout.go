package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nbrumont/fly/internal/config"
	"github.com/nbrumont/fly/internal/input/keymap"
)

func newLayoutCmd(o *options) *cobra.Command {
	var (
		layer  int
		export string
	)

	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Print the keymap layers",
		Long: `Print every layer of the keymap as a split grid: what each key sends when
tapped, then what dual-role keys do when held.

With --export the keymap is written as a keymap file instead, which is a
starting point for a custom keymap.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			km, err := o.loadKeymap()
			if err != nil {
				return err
			}
			o.logger(cmd).WithComponent("layout").
				WithField("source", km.Source).
				Debug("keymap %s has %d layers", km.Name, km.LayerCount())

			out := cmd.OutOrStdout()
			if export != "" {
				return km.Encode(out, keymap.Format(export))
			}
			if o.config.Output.Format == config.OutputJSON {
				return km.Encode(out, keymap.FormatJSON)
			}

			if layer < 0 {
				return keymap.RenderKeymap(out, km)
			}
			if layer >= km.LayerCount() {
				return fmt.Errorf("layer %d out of range: keymap %s has %d layers", layer, km.Name, km.LayerCount())
			}
			if _, err := fmt.Fprintf(out, "L%d\n", layer); err != nil {
				return err
			}
			return keymap.Render(out, km.Layers[layer])
		},
	}

	cmd.Flags().IntVarP(&layer, "layer", "l", -1, "print only this layer")
	cmd.Flags().StringVar(&export, "export", "", "write the keymap as toml, yaml or json")
	return cmd
}
