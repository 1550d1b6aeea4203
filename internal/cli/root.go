// Package cli implements the fly command line.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/nbrumont/fly/internal/app"
	"github.com/nbrumont/fly/internal/config"
	"github.com/nbrumont/fly/internal/input"
	"github.com/nbrumont/fly/internal/input/keymap"
)

// Version information, set by main.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// SetVersion records the build version shown by --version.
func SetVersion(v, c, d string) {
	version, commit, date = v, c, d
}

// options holds the persistent flags and the configuration they select.
type options struct {
	configFile string
	verbose    bool

	viper  *viper.Viper
	config *config.Config
}

// NewRootCommand builds the fly command tree.
func NewRootCommand() *cobra.Command {
	o := &options{viper: config.NewViper()}

	root := &cobra.Command{
		Use:   "fly",
		Short: "Keymap and tap-dance host for a 3x10+6 split keyboard",
		Long: `fly runs the keymap of a 36-key split keyboard on the host side: it
resolves mod-tap, layer-tap and tap-dance keys and produces the HID reports
the keyboard would send.

Settings are read from fly.toml (or .yaml/.json) in the working directory
or the user config directory, then FLY_ environment variables, then flags.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return o.load()
		},
	}
	root.SetVersionTemplate(fmt.Sprintf("fly %s (commit %s, built %s)\n", version, commit, date))

	flags := root.PersistentFlags()
	flags.StringVarP(&o.configFile, "config", "c", "", "config file (default fly.toml in . or the user config dir)")
	flags.String("log-level", "", "log level: debug, info, warn, error")
	flags.StringP("format", "o", "", "output format: text, hex, json")
	flags.StringP("keymap", "k", "", "keymap file (.toml, .yaml or .json)")
	flags.BoolVarP(&o.verbose, "verbose", "v", false, "enable debug logging")

	_ = o.viper.BindPFlag(config.KeyLogLevel, flags.Lookup("log-level"))
	_ = o.viper.BindPFlag(config.KeyOutputFormat, flags.Lookup("format"))
	_ = o.viper.BindPFlag(config.KeyKeymapFile, flags.Lookup("keymap"))

	root.AddCommand(
		newLayoutCmd(o),
		newTermCmd(o),
		newClassifyCmd(o),
		newRunCmd(o),
		newViewCmd(o),
		newConfigCmd(o),
	)
	return root
}

// Execute runs the command line with ctx.
func Execute(ctx context.Context) error {
	return NewRootCommand().ExecuteContext(ctx)
}

func (o *options) load() error {
	cfg, err := config.Load(o.viper, o.configFile)
	if err != nil {
		return err
	}
	if o.verbose {
		cfg.Log.Level = "debug"
	}
	o.config = cfg
	return nil
}

// logger returns a logger writing to cmd's stderr.
func (o *options) logger(cmd *cobra.Command) *app.Logger {
	cfg := app.DefaultLoggerConfig()
	cfg.Level = app.ParseLogLevel(o.config.Log.Level)
	cfg.JSON = o.config.Log.Format == "json"
	cfg.Output = cmd.ErrOrStderr()
	return app.NewLogger(cfg)
}

// loadKeymap returns the configured keymap, or the built-in one.
func (o *options) loadKeymap() (*keymap.Keymap, error) {
	path := o.config.Keymap.File
	if path == "" {
		return keymap.Default(), nil
	}
	return keymap.NewLoader().LoadFile(path)
}

// handlerConfig returns the input handler settings from the host section.
func (o *options) handlerConfig(log *app.Logger) input.Config {
	hc := input.DefaultConfig()
	hc.TappingTerm = o.config.Host.TappingTerm
	hc.MinTerm = o.config.Host.MinTerm
	hc.MaxTerm = o.config.Host.MaxTerm
	hc.Logger = log.WithComponent("input").Entry()
	return hc
}
