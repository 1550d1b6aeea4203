package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// isolate points the search paths at empty temp directories.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "xdg"))
	chdir(t, dir)
	return dir
}

// chdir changes the working directory for the duration of the test
// (equivalent of testing.T.Chdir, which needs Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatal(err)
		}
	})
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestDefault(t *testing.T) {
	c := Default()

	if c.Host.TappingTerm != 250*time.Millisecond {
		t.Errorf("TappingTerm = %v, want 250ms", c.Host.TappingTerm)
	}
	if c.Host.MinTerm != 10*time.Millisecond {
		t.Errorf("MinTerm = %v, want 10ms", c.Host.MinTerm)
	}
	if c.Host.MaxTerm != time.Second {
		t.Errorf("MaxTerm = %v, want 1s", c.Host.MaxTerm)
	}
	if c.Log.Level != "info" || c.LogLevel() != logrus.InfoLevel {
		t.Errorf("Log.Level = %q, want info", c.Log.Level)
	}
	if c.Output.Format != OutputText {
		t.Errorf("Output.Format = %q, want %q", c.Output.Format, OutputText)
	}
	if c.Scenario.CacheSize != 32 {
		t.Errorf("Scenario.CacheSize = %d, want 32", c.Scenario.CacheSize)
	}
	if err := c.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoad_NoFile(t *testing.T) {
	isolate(t)

	c, err := Load(NewViper(), "")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if c.Path() != "" {
		t.Errorf("Path() = %q, want empty", c.Path())
	}
	if c.Host.TappingTerm != 250*time.Millisecond {
		t.Errorf("TappingTerm = %v, want default", c.Host.TappingTerm)
	}
}

func TestLoad_SearchPath(t *testing.T) {
	dir := isolate(t)
	writeFile(t, filepath.Join(dir, "fly.toml"), `
[host]
tapping_term = "180ms"

[log]
level = "debug"
`)

	c, err := Load(NewViper(), "")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if c.Host.TappingTerm != 180*time.Millisecond {
		t.Errorf("TappingTerm = %v, want 180ms", c.Host.TappingTerm)
	}
	if c.LogLevel() != logrus.DebugLevel {
		t.Errorf("LogLevel() = %v, want debug", c.LogLevel())
	}
	if filepath.Base(c.Path()) != "fly.toml" {
		t.Errorf("Path() = %q", c.Path())
	}
	if c.Host.MaxTerm != time.Second {
		t.Errorf("unset MaxTerm = %v, want default", c.Host.MaxTerm)
	}
}

func TestLoad_UserConfigDir(t *testing.T) {
	dir := isolate(t)
	writeFile(t, filepath.Join(dir, "xdg", "fly", "fly.yaml"), `
keymap:
  file: /tmp/mine.toml
  watch: true
output:
  format: hex
`)

	c, err := Load(NewViper(), "")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if c.Keymap.File != "/tmp/mine.toml" || !c.Keymap.Watch {
		t.Errorf("Keymap = %+v", c.Keymap)
	}
	if c.Output.Format != OutputHex {
		t.Errorf("Output.Format = %q, want hex", c.Output.Format)
	}
}

func TestLoad_ExplicitFile(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "custom.toml")
	writeFile(t, path, `
[scenario]
cache_size = 4
dir = "scripts"
`)

	c, err := Load(NewViper(), path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if c.Scenario.CacheSize != 4 || c.Scenario.Dir != "scripts" {
		t.Errorf("Scenario = %+v", c.Scenario)
	}
	if c.Path() != path {
		t.Errorf("Path() = %q, want %q", c.Path(), path)
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	isolate(t)

	_, err := Load(NewViper(), "nope.toml")
	if !errors.Is(err, ErrFileNotFound) {
		t.Errorf("Load() error = %v, want ErrFileNotFound", err)
	}
}

func TestLoad_ParseError(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "bad.toml")
	writeFile(t, path, "[host\ntapping_term = ")

	_, err := Load(NewViper(), path)
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("Load() error = %v, want *ParseError", err)
	}
	if perr.Path != path {
		t.Errorf("ParseError.Path = %q, want %q", perr.Path, path)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	isolate(t)
	t.Setenv("FLY_HOST_TAPPING_TERM", "300ms")
	t.Setenv("FLY_OUTPUT_FORMAT", "json")

	c, err := Load(NewViper(), "")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if c.Host.TappingTerm != 300*time.Millisecond {
		t.Errorf("TappingTerm = %v, want 300ms", c.Host.TappingTerm)
	}
	if c.Output.Format != OutputJSON {
		t.Errorf("Output.Format = %q, want json", c.Output.Format)
	}
}

func TestLoad_Invalid(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "fly.toml")
	writeFile(t, path, `
[host]
min_term = "2s"
max_term = "1s"

[log]
level = "chatty"
`)

	_, err := Load(NewViper(), path)
	if !errors.Is(err, ErrValidationFailed) {
		t.Fatalf("Load() error = %v, want ErrValidationFailed", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		path   string
		code   ValidationErrorCode
	}{
		{"zero term", func(c *Config) { c.Host.TappingTerm = 0 }, KeyTappingTerm, ErrCodeOutOfRange},
		{"negative min", func(c *Config) { c.Host.MinTerm = -1 }, KeyMinTerm, ErrCodeOutOfRange},
		{"negative max", func(c *Config) { c.Host.MaxTerm = -1 }, KeyMaxTerm, ErrCodeOutOfRange},
		{"min above max", func(c *Config) { c.Host.MinTerm = 2 * time.Second }, KeyMinTerm, ErrCodeOutOfRange},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }, KeyLogLevel, ErrCodeInvalidEnum},
		{"bad log format", func(c *Config) { c.Log.Format = "xml" }, KeyLogFormat, ErrCodeInvalidEnum},
		{"bad output", func(c *Config) { c.Output.Format = "csv" }, KeyOutputFormat, ErrCodeInvalidEnum},
		{"no cache", func(c *Config) { c.Scenario.CacheSize = 0 }, KeyCacheSize, ErrCodeOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.modify(c)

			err := c.Validate()
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Validate() = %v, want *ValidationError", err)
			}
			if verr.Path != tt.path {
				t.Errorf("Path = %q, want %q", verr.Path, tt.path)
			}
			if verr.Code != tt.code {
				t.Errorf("Code = %v, want %v", verr.Code, tt.code)
			}
		})
	}

	c := Default()
	c.Host.MinTerm, c.Host.MaxTerm = 0, 0
	if err := c.Validate(); err != nil {
		t.Errorf("zero bounds disable clamping and are valid: %v", err)
	}
}

func TestErrors(t *testing.T) {
	inner := errors.New("boom")
	perr := &ParseError{Path: "fly.toml", Message: "bad", Err: inner}
	if perr.Error() != "parse error in fly.toml: bad" {
		t.Errorf("Error() = %q", perr.Error())
	}
	if !errors.Is(perr, inner) {
		t.Error("ParseError should unwrap to its cause")
	}

	verr := &ValidationError{Path: KeyLogLevel, Message: "unknown level", Value: "x", Code: ErrCodeInvalidEnum}
	if verr.Error() != "log.level: unknown level (value: x)" {
		t.Errorf("Error() = %q", verr.Error())
	}
	if ErrCodeInvalidEnum.String() != "invalid_enum" || ValidationErrorCode(9).String() != "unknown" {
		t.Error("unexpected code names")
	}
}

func TestSetDefaults(t *testing.T) {
	v := viper.New()
	SetDefaults(v)

	if v.GetDuration(KeyTappingTerm) != 250*time.Millisecond {
		t.Errorf("%s = %v", KeyTappingTerm, v.GetDuration(KeyTappingTerm))
	}
	if v.GetString(KeyLogFormat) != "text" {
		t.Errorf("%s = %q", KeyLogFormat, v.GetString(KeyLogFormat))
	}
}
