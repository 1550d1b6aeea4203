package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

const (
	// EnvPrefix prefixes every environment override, e.g. FLY_HOST_TAPPING_TERM.
	EnvPrefix = "FLY"

	// FileName is the configuration file name without extension.
	FileName = "fly"

	// AppDir is the directory under the user config dir.
	AppDir = "fly"
)

// Setting keys.
const (
	KeyTappingTerm  = "host.tapping_term"
	KeyMinTerm      = "host.min_term"
	KeyMaxTerm      = "host.max_term"
	KeyLogLevel     = "log.level"
	KeyLogFile      = "log.file"
	KeyLogFormat    = "log.format"
	KeyKeymapFile   = "keymap.file"
	KeyKeymapWatch  = "keymap.watch"
	KeyOutputFormat = "output.format"
	KeyCacheSize    = "scenario.cache_size"
	KeyScenarioDir  = "scenario.dir"
)

// Output formats for HID reports.
const (
	OutputText = "text"
	OutputHex  = "hex"
	OutputJSON = "json"
)

// Config is the full fly configuration.
type Config struct {
	Host     HostConfig     `mapstructure:"host"`
	Log      LogConfig      `mapstructure:"log"`
	Keymap   KeymapConfig   `mapstructure:"keymap"`
	Output   OutputConfig   `mapstructure:"output"`
	Scenario ScenarioConfig `mapstructure:"scenario"`

	path string
}

// HostConfig configures the keyboard host.
type HostConfig struct {
	// TappingTerm is the term for keys without an override.
	TappingTerm time.Duration `mapstructure:"tapping_term"`

	// MinTerm and MaxTerm clamp every term. Zero disables the bound.
	MinTerm time.Duration `mapstructure:"min_term"`
	MaxTerm time.Duration `mapstructure:"max_term"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	File   string `mapstructure:"file"`
	Format string `mapstructure:"format"`
}

// KeymapConfig selects the keymap.
type KeymapConfig struct {
	// File is a TOML, YAML or JSON keymap. Empty means the built-in keymap.
	File string `mapstructure:"file"`

	// Watch reloads File when it changes.
	Watch bool `mapstructure:"watch"`
}

// OutputConfig controls how reports are printed.
type OutputConfig struct {
	Format string `mapstructure:"format"`
}

// ScenarioConfig configures the scenario runner.
type ScenarioConfig struct {
	// CacheSize is the number of compiled scripts kept in memory.
	CacheSize int `mapstructure:"cache_size"`

	// Dir is searched for scripts given by bare name.
	Dir string `mapstructure:"dir"`
}

// SetDefaults registers the default value of every setting.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyTappingTerm, 250*time.Millisecond)
	v.SetDefault(KeyMinTerm, 10*time.Millisecond)
	v.SetDefault(KeyMaxTerm, time.Second)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFile, "")
	v.SetDefault(KeyLogFormat, "text")
	v.SetDefault(KeyKeymapFile, "")
	v.SetDefault(KeyKeymapWatch, false)
	v.SetDefault(KeyOutputFormat, OutputText)
	v.SetDefault(KeyCacheSize, 32)
	v.SetDefault(KeyScenarioDir, "")
}

// NewViper returns a viper instance with defaults, FLY_ environment
// overrides, and the standard search paths.
func NewViper() *viper.Viper {
	v := viper.New()
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigName(FileName)
	v.AddConfigPath(".")
	if dir := UserConfigDir(); dir != "" {
		v.AddConfigPath(dir)
	}
	return v
}

// UserConfigDir returns $XDG_CONFIG_HOME/fly or its platform equivalent.
func UserConfigDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, AppDir)
}

// Load reads the configuration. With an empty path the search paths are
// tried and a missing file is not an error.
func Load(v *viper.Viper, path string) (*Config, error) {
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			if os.IsNotExist(err) {
				return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
			}
			return nil, err
		}
		v.SetConfigFile(path)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, &ParseError{Path: configPath(v, path), Message: err.Error(), Err: err}
		}
	}

	cfg, err := decode(v)
	if err != nil {
		return nil, err
	}
	cfg.path = v.ConfigFileUsed()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func configPath(v *viper.Viper, path string) string {
	if path != "" {
		return path
	}
	return v.ConfigFileUsed()
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, &ParseError{Path: v.ConfigFileUsed(), Message: "decode settings", Err: err}
	}
	return &cfg, nil
}

// Default returns the built-in configuration.
func Default() *Config {
	v := viper.New()
	SetDefaults(v)
	cfg, err := decode(v)
	if err != nil {
		panic("config: invalid defaults: " + err.Error())
	}
	return cfg
}

// Path returns the file the configuration was read from, if any.
func (c *Config) Path() string {
	return c.path
}

// LogLevel returns the parsed log level.
func (c *Config) LogLevel() logrus.Level {
	level, err := logrus.ParseLevel(c.Log.Level)
	if err != nil {
		return logrus.InfoLevel
	}
	return level
}

// Validate checks every setting and returns all problems found.
func (c *Config) Validate() error {
	var errs []error

	if c.Host.TappingTerm <= 0 {
		errs = append(errs, &ValidationError{Path: KeyTappingTerm, Message: "must be positive", Value: c.Host.TappingTerm, Code: ErrCodeOutOfRange})
	}
	if c.Host.MinTerm < 0 {
		errs = append(errs, &ValidationError{Path: KeyMinTerm, Message: "must not be negative", Value: c.Host.MinTerm, Code: ErrCodeOutOfRange})
	}
	if c.Host.MaxTerm < 0 {
		errs = append(errs, &ValidationError{Path: KeyMaxTerm, Message: "must not be negative", Value: c.Host.MaxTerm, Code: ErrCodeOutOfRange})
	}
	if c.Host.MinTerm > 0 && c.Host.MaxTerm > 0 && c.Host.MinTerm > c.Host.MaxTerm {
		errs = append(errs, &ValidationError{Path: KeyMinTerm, Message: "exceeds " + KeyMaxTerm, Value: c.Host.MinTerm, Code: ErrCodeOutOfRange})
	}

	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, &ValidationError{Path: KeyLogLevel, Message: "unknown level", Value: c.Log.Level, Code: ErrCodeInvalidEnum})
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		errs = append(errs, &ValidationError{Path: KeyLogFormat, Message: "want text or json", Value: c.Log.Format, Code: ErrCodeInvalidEnum})
	}

	switch c.Output.Format {
	case OutputText, OutputHex, OutputJSON:
	default:
		errs = append(errs, &ValidationError{Path: KeyOutputFormat, Message: "want text, hex or json", Value: c.Output.Format, Code: ErrCodeInvalidEnum})
	}

	if c.Scenario.CacheSize <= 0 {
		errs = append(errs, &ValidationError{Path: KeyCacheSize, Message: "must be positive", Value: c.Scenario.CacheSize, Code: ErrCodeOutOfRange})
	}

	return errors.Join(errs...)
}
