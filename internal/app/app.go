// Package app provides the main application structure and coordination
// for fly. It wires the configuration, logging, keymap, and input system
// together and manages their lifecycle.
package app

import (
	"context"
	"errors"
	"io"
	"sync"
	"sync/atomic"

	"github.com/nbrumont/fly/internal/config"
	"github.com/nbrumont/fly/internal/config/watcher"
	"github.com/nbrumont/fly/internal/input"
	"github.com/nbrumont/fly/internal/input/key"
	"github.com/nbrumont/fly/internal/input/keymap"
	"github.com/nbrumont/fly/internal/input/report"
	"github.com/nbrumont/fly/internal/input/tapdance"
)

// Application is the central coordinator for all fly components.
type Application struct {
	mu sync.RWMutex

	// Core infrastructure
	config  *config.Config
	logger  *Logger
	logFile io.Closer
	metrics *Metrics

	// Keyboard
	loader *keymap.Loader
	dances *tapdance.Set
	system *input.System
	buffer *report.Buffer

	// Live reload
	watcher *watcher.Watcher

	// State
	running atomic.Bool
	closed  atomic.Bool

	// Options
	opts Options
}

// Options configures the application.
type Options struct {
	// Config is the loaded configuration. Nil uses config.Default().
	Config *config.Config

	// Sink receives HID reports. Nil collects them in memory; see Reports.
	Sink report.Sink

	// Logger overrides the logger built from Config.Log.
	Logger *Logger

	// Dances overrides the built-in tap dances.
	Dances *tapdance.Set

	// OnBootloader is called when the bootloader key is pressed.
	OnBootloader func()
}

// New creates a new Application with the given options.
func New(opts Options) (*Application, error) {
	if opts.Config == nil {
		opts.Config = config.Default()
	}

	app := &Application{
		opts:    opts,
		config:  opts.Config,
		metrics: NewMetrics(),
	}

	if err := newBootstrapper(app, opts).bootstrap(); err != nil {
		return nil, err
	}
	return app, nil
}

// Run feeds events to the input system until ctx is done or events is
// closed. Held keys are released before Run returns. Cancellation is a
// normal exit.
func (app *Application) Run(ctx context.Context, events <-chan key.Event) error {
	if app.closed.Load() {
		return ErrNotRunning
	}
	if !app.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer app.running.Store(false)

	app.metrics.RecordRun()

	if w := app.Watcher(); w != nil {
		if err := w.Start(); err != nil {
			return NewComponentError("watcher", "start", err)
		}
		defer w.Stop()
	}

	app.LogDebug("input loop started")
	err := app.system.Run(ctx, events)
	app.LogDebug("input loop stopped")

	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// HandleKeyEvent sends a single event to the input system.
func (app *Application) HandleKeyEvent(event key.Event) error {
	return app.system.HandleKeyEvent(event)
}

// ReloadKeymap reloads the configured keymap file. On failure the current
// keymap stays in place.
func (app *Application) ReloadKeymap() error {
	path := app.config.Keymap.File
	if path == "" {
		return ErrNoKeymapFile
	}

	timer := StartTimer()
	km, err := app.loader.LoadFile(path)
	if err == nil {
		err = app.system.Handler().SetKeymap(km)
	}
	app.metrics.RecordReload(timer.Elapsed(), err)

	if err != nil {
		opErr := NewOperationError("reload", path, err)
		app.logComponentError("keymap", opErr)
		return opErr
	}

	app.Logger().WithComponent("keymap").WithField("keymap", km.Name).Info("reloaded in %.1fms", timer.ElapsedMs())
	return nil
}

// onKeymapChange reloads the keymap when the watcher reports a change.
func (app *Application) onKeymapChange(event watcher.Event) {
	if event.Op == watcher.OpRemove || event.Op == watcher.OpRename {
		app.Logger().WithComponent("keymap").Warn("%s %s, keeping current keymap", event.Path, event.Op)
		return
	}
	_ = app.ReloadKeymap()
}

// Shutdown releases held keys and stops every component. It is safe to
// call more than once.
func (app *Application) Shutdown() error {
	if !app.closed.CompareAndSwap(false, true) {
		return nil
	}

	var errs ErrorList

	if w := app.Watcher(); w != nil {
		w.Stop()
	}
	if app.system != nil {
		app.system.Close()
		if err := app.system.Reporter().Err(); err != nil {
			errs.Add(NewComponentError("sink", "send", err))
		}
	}
	if app.logFile != nil {
		errs.Add(app.logFile.Close())
	}

	return errs.AsError()
}

// IsRunning returns true if the input loop is running.
func (app *Application) IsRunning() bool {
	return app.running.Load()
}

// Config returns the configuration.
func (app *Application) Config() *config.Config {
	return app.config
}

// System returns the input system.
func (app *Application) System() *input.System {
	return app.system
}

// Keymap returns the keymap in use.
func (app *Application) Keymap() *keymap.Keymap {
	return app.system.Handler().Keymap()
}

// Dances returns the tap dance set.
func (app *Application) Dances() *tapdance.Set {
	return app.dances
}

// Reports returns the in-memory report buffer, or nil when Options.Sink
// was given.
func (app *Application) Reports() *report.Buffer {
	return app.buffer
}

// Watcher returns the keymap watcher, or nil when live reload is off.
func (app *Application) Watcher() *watcher.Watcher {
	app.mu.RLock()
	defer app.mu.RUnlock()
	return app.watcher
}

// Layers returns the active layers.
func (app *Application) Layers() keymap.LayerMask {
	return app.system.Layers()
}

// Pending returns the number of keys still waiting for a decision.
func (app *Application) Pending() int {
	return app.system.Pending()
}

// Report returns the HID state the host currently sees.
func (app *Application) Report() report.Frame {
	return app.system.Report()
}
