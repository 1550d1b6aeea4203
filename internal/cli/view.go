package cli

import (
	"context"
	"errors"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"github.com/nbrumont/fly/internal/app"
	"github.com/nbrumont/fly/internal/config"
	"github.com/nbrumont/fly/internal/input/key"
	"github.com/nbrumont/fly/internal/view"
)

// viewQueue is the number of key events buffered between the terminal and
// the host.
const viewQueue = 64

func newViewCmd(o *options) *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "view",
		Short: "Type on the keymap in an interactive terminal view",
		Long: `Open a terminal view of the keymap. The letter rows of the terminal
keyboard play the three main rows and 1-6 the thumb keys; shifted keys hold
a key down until it is typed again. The live HID report and the recent
reports and key decisions are shown below the keymap.

With --watch the keymap file is reloaded whenever it changes. Logs go to
log.file; without one they are discarded.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := *o.config
			if watch {
				cfg.Keymap.Watch = true
			}

			screen, err := tcell.NewScreen()
			if err != nil {
				return err
			}
			return runView(cmd.Context(), screen, &cfg)
		},
	}

	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "reload the keymap file when it changes")
	return cmd
}

func runView(ctx context.Context, screen tcell.Screen, cfg *config.Config) error {
	v := view.New(screen, view.Options{})

	opts := app.Options{Config: cfg, Sink: v}
	if cfg.Log.File == "" {
		opts.Logger = app.NullLogger
	}
	application, err := app.New(opts)
	if err != nil {
		return err
	}
	defer application.Shutdown()
	application.System().Hooks().RegisterNamed(v, "view")

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	events := make(chan key.Event, viewQueue)
	done := make(chan error, 1)
	go func() { done <- application.Run(ctx, events) }()

	viewErr := v.Run(ctx, application, events)
	cancel()
	return errors.Join(viewErr, <-done)
}
