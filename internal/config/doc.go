// Package config provides the configuration system for fly.
//
// Settings are resolved by viper with higher sources overriding lower:
//
//	┌─────────────────────────────┐
//	│  4. Command Line Flags      │  ← Highest priority
//	├─────────────────────────────┤
//	│  3. FLY_* Environment       │
//	├─────────────────────────────┤
//	│  2. fly.{toml,yaml,json}    │  ← ./ then ~/.config/fly/
//	├─────────────────────────────┤
//	│  1. Built-in Defaults       │  ← Lowest priority
//	└─────────────────────────────┘
//
// Environment names are the setting key upper-cased with dots replaced by
// underscores: host.tapping_term becomes FLY_HOST_TAPPING_TERM.
//
// # Sub-packages
//
//   - watcher: File watching for keymap live reload
//
// # Basic Usage
//
//	v := config.NewViper()
//	cfg, err := config.Load(v, "")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Host.TappingTerm)
//
// # Example File
//
//	[host]
//	tapping_term = "250ms"
//	min_term = "10ms"
//	max_term = "1s"
//
//	[log]
//	level = "debug"
//
//	[keymap]
//	file = "keymap.toml"
//	watch = true
//
// # Validation
//
// Load validates the decoded settings and returns every problem at once,
// joined with errors.Join. Each problem is a *ValidationError and matches
// ErrValidationFailed with errors.Is.
package config
