package app

import (
	"errors"
	"io/fs"
	"strings"
	"testing"
)

func TestOperationError_Error(t *testing.T) {
	baseErr := errors.New("base error")

	tests := []struct {
		name     string
		err      *OperationError
		expected string
	}{
		{
			name:     "op only",
			err:      &OperationError{Op: "reload"},
			expected: "reload",
		},
		{
			name:     "op and target",
			err:      &OperationError{Op: "load", Target: "keymap.toml"},
			expected: "load keymap.toml",
		},
		{
			name:     "op target and error",
			err:      &OperationError{Op: "load", Target: "keymap.toml", Err: baseErr},
			expected: "load keymap.toml: base error",
		},
		{
			name:     "with context",
			err:      &OperationError{Op: "load", Target: "keymap.toml", Context: "watch", Err: baseErr},
			expected: "load keymap.toml (watch): base error",
		},
		{
			name:     "nil receiver",
			err:      nil,
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %q, expected %q", got, tt.expected)
			}
		})
	}
}

func TestOperationError_WithContext(t *testing.T) {
	err := NewOperationError("reload", "keymap.toml", nil).WithContext("file changed")
	if err.Context != "file changed" {
		t.Errorf("Context = %q", err.Context)
	}

	var nilErr *OperationError
	if nilErr.WithContext("x") != nil {
		t.Error("WithContext on nil should return nil")
	}
}

func TestOperationError_Unwrap(t *testing.T) {
	err := NewOperationError("load", "missing.toml", fs.ErrNotExist)
	if !errors.Is(err, fs.ErrNotExist) {
		t.Error("expected errors.Is to find the wrapped error")
	}

	var nilErr *OperationError
	if nilErr.Unwrap() != nil {
		t.Error("Unwrap on nil should return nil")
	}
}

func TestComponentError_Error(t *testing.T) {
	baseErr := errors.New("device busy")

	tests := []struct {
		name     string
		err      *ComponentError
		expected string
	}{
		{"component only", &ComponentError{Component: "sink"}, "sink"},
		{"with action", &ComponentError{Component: "sink", Action: "send"}, "sink: send"},
		{"with error", &ComponentError{Component: "sink", Err: baseErr}, "sink: device busy"},
		{"all fields", &ComponentError{Component: "sink", Action: "send", Err: baseErr}, "sink: send: device busy"},
		{"nil receiver", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %q, expected %q", got, tt.expected)
			}
		})
	}
}

func TestComponentError_Unwrap(t *testing.T) {
	baseErr := errors.New("base")
	err := NewComponentError("watcher", "start", baseErr)
	if !errors.Is(err, baseErr) {
		t.Error("expected errors.Is to find the wrapped error")
	}

	var target *ComponentError
	wrapped := WrapError(err, "bootstrap")
	if !errors.As(wrapped, &target) || target.Component != "watcher" {
		t.Error("expected errors.As to find the component error")
	}
}

func TestInitError(t *testing.T) {
	err := &InitError{Component: "input", Err: ErrNotRunning}
	if err.Error() != "init input: application not running" {
		t.Errorf("Error() = %q", err.Error())
	}
	if !errors.Is(err, ErrNotRunning) {
		t.Error("InitError should unwrap")
	}
}

func TestRecoveredPanicError_Error(t *testing.T) {
	err := NewRecoveredPanicError("boom", "")
	if err.Error() != "panic: boom" {
		t.Errorf("Error() = %q", err.Error())
	}

	err = NewRecoveredPanicError("boom", "goroutine 1")
	if !strings.HasPrefix(err.Error(), "panic: boom\ngoroutine 1") {
		t.Errorf("Error() = %q", err.Error())
	}

	var nilErr *RecoveredPanicError
	if nilErr.Error() != "" {
		t.Error("nil receiver should return empty string")
	}
}

func TestErrorList(t *testing.T) {
	var list ErrorList

	if list.HasErrors() || list.AsError() != nil || list.Error() != "" {
		t.Error("empty list should report no errors")
	}
	if list.Errors() != nil {
		t.Error("Errors() on empty list should be nil")
	}

	first := errors.New("first")
	list.Add(nil)
	list.Add(first)
	if list.Len() != 1 {
		t.Errorf("Len() = %d, want 1", list.Len())
	}
	if list.Error() != "first" {
		t.Errorf("Error() = %q", list.Error())
	}

	list.Add(ErrShutdownTimeout)
	if list.Error() != "2 errors: first: first" {
		t.Errorf("Error() = %q", list.Error())
	}

	err := list.AsError()
	if !errors.Is(err, ErrShutdownTimeout) {
		t.Error("errors.Is should see every collected error")
	}

	errs := list.Errors()
	errs[0] = nil
	if list.Errors()[0] == nil {
		t.Error("Errors() should return a copy")
	}
}

func TestWrapError(t *testing.T) {
	if WrapError(nil, "ignored") != nil {
		t.Error("WrapError(nil) should be nil")
	}

	err := WrapError(ErrNoKeymapFile, "reload %d", 2)
	if err.Error() != "reload 2: no keymap file configured" {
		t.Errorf("Error() = %q", err.Error())
	}
	if !errors.Is(err, ErrNoKeymapFile) {
		t.Error("WrapError should preserve the chain")
	}
}
