package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/nbrumont/fly/internal/config"
)

func newConfigCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Long: `Print the settings after merging the config file, FLY_ environment
variables and flags, as YAML (or JSON with --format json).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			settings := effectiveSettings(o.config)
			if o.config.Output.Format == config.OutputJSON {
				return printJSON(out, settings)
			}

			source := o.config.Path()
			if source == "" {
				source = "built-in defaults"
			}
			if _, err := fmt.Fprintf(out, "# %s\n", source); err != nil {
				return err
			}
			enc := yaml.NewEncoder(out)
			enc.SetIndent(2)
			if err := enc.Encode(settings); err != nil {
				return err
			}
			return enc.Close()
		},
	}
}

// effectiveSettings lays cfg out by setting key, durations as strings.
func effectiveSettings(cfg *config.Config) map[string]map[string]any {
	return map[string]map[string]any{
		"host": {
			"tapping_term": cfg.Host.TappingTerm.String(),
			"min_term":     cfg.Host.MinTerm.String(),
			"max_term":     cfg.Host.MaxTerm.String(),
		},
		"log": {
			"level":  cfg.Log.Level,
			"file":   cfg.Log.File,
			"format": cfg.Log.Format,
		},
		"keymap": {
			"file":  cfg.Keymap.File,
			"watch": cfg.Keymap.Watch,
		},
		"output": {
			"format": cfg.Output.Format,
		},
		"scenario": {
			"cache_size": cfg.Scenario.CacheSize,
			"dir":        cfg.Scenario.Dir,
		},
	}
}
