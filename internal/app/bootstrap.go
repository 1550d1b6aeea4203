package app

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/nbrumont/fly/internal/config"
	"github.com/nbrumont/fly/internal/config/watcher"
	"github.com/nbrumont/fly/internal/input"
	"github.com/nbrumont/fly/internal/input/keymap"
	"github.com/nbrumont/fly/internal/input/report"
	"github.com/nbrumont/fly/internal/input/tapdance"
)

// bootstrapper handles component initialization with proper cleanup on failure.
type bootstrapper struct {
	app       *Application
	opts      Options
	initOrder []string
}

// newBootstrapper creates a new bootstrapper for the application.
func newBootstrapper(app *Application, opts Options) *bootstrapper {
	return &bootstrapper{
		app:       app,
		opts:      opts,
		initOrder: make([]string, 0, 4),
	}
}

// bootstrap initializes all components in dependency order.
// On failure, it cleans up already-initialized components.
func (b *bootstrapper) bootstrap() error {
	steps := []func() error{
		b.initLogger,
		b.initKeymap,
		b.initInput,
		b.initWatcher,
	}

	for _, step := range steps {
		if err := step(); err != nil {
			b.cleanup()
			return err
		}
	}
	return nil
}

// initLogger builds the logger from the log settings.
func (b *bootstrapper) initLogger() error {
	if b.opts.Logger != nil {
		b.app.logger = b.opts.Logger
		b.initOrder = append(b.initOrder, "logger")
		return nil
	}

	cfg := b.app.config.Log
	logCfg := DefaultLoggerConfig()
	logCfg.Level = ParseLogLevel(cfg.Level)
	logCfg.JSON = cfg.Format == "json"

	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0755); err != nil {
			return &InitError{Component: "logger", Err: err}
		}
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return &InitError{Component: "logger", Err: err}
		}
		logCfg.Output = f
		b.app.logFile = f
	}

	b.app.logger = NewLogger(logCfg)
	b.initOrder = append(b.initOrder, "logger")
	return nil
}

// initKeymap prepares the keymap loader and the tap dances.
func (b *bootstrapper) initKeymap() error {
	b.app.loader = keymap.NewLoader()
	if dir := config.UserConfigDir(); dir != "" {
		b.app.loader.AddSearchPath(dir)
	}

	b.app.dances = b.opts.Dances
	if b.app.dances == nil {
		b.app.dances = tapdance.DefaultSet()
	}

	b.initOrder = append(b.initOrder, "keymap")
	return nil
}

// loadKeymap returns the keymap named by the configuration.
func (b *bootstrapper) loadKeymap() (*keymap.Keymap, error) {
	path := b.app.config.Keymap.File
	if path == "" {
		return keymap.Default(), nil
	}

	km, err := b.app.loader.LoadFile(path)
	if err != nil {
		return nil, &InitError{Component: "keymap", Err: NewOperationError("load", path, err)}
	}
	return km, nil
}

// initInput creates the input system and its HID sink.
func (b *bootstrapper) initInput() error {
	km, err := b.loadKeymap()
	if err != nil {
		return err
	}

	sink := b.opts.Sink
	if sink == nil {
		b.app.buffer = report.NewBuffer()
		sink = b.app.buffer
	}
	metrics := b.app.metrics
	metered := report.SinkFunc(func(f report.Frame) error {
		err := sink.Send(f)
		metrics.RecordFrame(err)
		return err
	})

	host := b.app.config.Host
	log := b.app.logger.WithComponent("input")

	sysCfg := input.DefaultSystemConfig()
	sysCfg.Handler.TappingTerm = host.TappingTerm
	sysCfg.Handler.MinTerm = host.MinTerm
	sysCfg.Handler.MaxTerm = host.MaxTerm
	sysCfg.Handler.Logger = log.Entry()
	sysCfg.Handler.OnBootloader = func() {
		log.Warn("bootloader requested")
		if b.opts.OnBootloader != nil {
			b.opts.OnBootloader()
		}
	}

	system, err := input.NewSystem(sysCfg, km, b.app.dances, metered)
	if err != nil {
		return &InitError{Component: "input", Err: err}
	}

	if log.Level() == LogLevelDebug {
		system.Hooks().RegisterWithOptions(input.LoggingHook{Logger: log.Debug}, "log", input.HookPriorityLowest)
	}

	b.app.system = system
	b.initOrder = append(b.initOrder, "input")
	log.WithField("keymap", km.Name).Info("ready with %d layers", km.LayerCount())
	return nil
}

// initWatcher sets up live reload of the keymap file.
func (b *bootstrapper) initWatcher() error {
	cfg := b.app.config.Keymap
	if !cfg.Watch || cfg.File == "" {
		return nil
	}

	log := b.app.logger.WithComponent("watcher")
	w := watcher.New(watcher.WithErrorHandler(func(err error) {
		log.Error("%v", err)
	}))
	if err := w.Watch(cfg.File); err != nil {
		return &InitError{Component: "watcher", Err: fmt.Errorf("watch %s: %w", cfg.File, err)}
	}
	w.OnChange(b.app.onKeymapChange)

	b.app.mu.Lock()
	b.app.watcher = w
	b.app.mu.Unlock()

	b.initOrder = append(b.initOrder, "watcher")
	return nil
}

// cleanup performs cleanup in reverse initialization order.
// Called when bootstrap fails partway through.
func (b *bootstrapper) cleanup() {
	for i := len(b.initOrder) - 1; i >= 0; i-- {
		b.cleanupComponent(b.initOrder[i])
	}
}

// cleanupComponent cleans up a single component.
func (b *bootstrapper) cleanupComponent(component string) {
	switch component {
	case "logger":
		if b.app.logFile != nil {
			_ = b.app.logFile.Close()
			b.app.logFile = nil
		}
	case "keymap":
		b.app.loader = nil
	case "input":
		if b.app.system != nil {
			b.app.system.Close()
			b.app.system = nil
		}
	case "watcher":
		b.app.mu.Lock()
		if b.app.watcher != nil {
			b.app.watcher.Stop()
			b.app.watcher = nil
		}
		b.app.mu.Unlock()
	}
}
