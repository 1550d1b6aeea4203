package input

import (
	"sort"
	"sync"

	"github.com/nbrumont/fly/internal/input/key"
)

// Hook allows interception and observation of key handling.
type Hook interface {
	// PreKeyEvent is called before processing a key event.
	// Return true to consume the event (stop further processing).
	PreKeyEvent(event *key.Event, ctx *Context) bool

	// PostKeyEvent is called after processing a key event.
	PostKeyEvent(event *key.Event, ctx *Context)

	// Resolved is called whenever a key press is decided.
	Resolved(res *Resolution, ctx *Context)
}

// HookPriority defines the execution order for hooks.
// Lower values execute first.
type HookPriority int

const (
	// HookPriorityHighest runs before all other hooks.
	HookPriorityHighest HookPriority = -1000
	// HookPriorityHigh runs early in the hook chain.
	HookPriorityHigh HookPriority = -100
	// HookPriorityNormal is the default priority.
	HookPriorityNormal HookPriority = 0
	// HookPriorityLow runs late in the hook chain.
	HookPriorityLow HookPriority = 100
	// HookPriorityLowest runs after all other hooks.
	HookPriorityLowest HookPriority = 1000
)

// HookID uniquely identifies a registered hook.
type HookID uint64

// HookRegistration holds metadata about a registered hook.
type HookRegistration struct {
	ID       HookID
	Name     string
	Priority HookPriority
	Hook     Hook
}

// HookManager manages hooks with support for priorities and named registration.
type HookManager struct {
	mu      sync.RWMutex
	hooks   []HookRegistration
	nextID  HookID
	sorted  bool
	enabled bool
}

// NewHookManager creates a new hook manager.
func NewHookManager() *HookManager {
	return &HookManager{
		hooks:   make([]HookRegistration, 0),
		sorted:  true,
		enabled: true,
	}
}

// Register adds a hook with default priority and no name.
func (m *HookManager) Register(hook Hook) HookID {
	return m.RegisterWithOptions(hook, "", HookPriorityNormal)
}

// RegisterWithPriority adds a hook with specified priority.
func (m *HookManager) RegisterWithPriority(hook Hook, priority HookPriority) HookID {
	return m.RegisterWithOptions(hook, "", priority)
}

// RegisterNamed adds a hook with a name for later reference.
func (m *HookManager) RegisterNamed(hook Hook, name string) HookID {
	return m.RegisterWithOptions(hook, name, HookPriorityNormal)
}

// RegisterWithOptions adds a hook with all options specified. A named hook
// replaces any earlier hook with the same name.
func (m *HookManager) RegisterWithOptions(hook Hook, name string, priority HookPriority) HookID {
	m.mu.Lock()
	defer m.mu.Unlock()

	if name != "" {
		m.removeWhere(func(r HookRegistration) bool { return r.Name == name })
	}

	m.nextID++
	m.hooks = append(m.hooks, HookRegistration{
		ID:       m.nextID,
		Name:     name,
		Priority: priority,
		Hook:     hook,
	})
	m.sorted = false
	return m.nextID
}

// Unregister removes a hook by ID.
func (m *HookManager) Unregister(id HookID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.removeWhere(func(r HookRegistration) bool { return r.ID == id })
}

// UnregisterByName removes a hook by name.
func (m *HookManager) UnregisterByName(name string) bool {
	if name == "" {
		return false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.removeWhere(func(r HookRegistration) bool { return r.Name == name })
}

func (m *HookManager) removeWhere(match func(HookRegistration) bool) bool {
	for i := range m.hooks {
		if match(m.hooks[i]) {
			m.hooks = append(m.hooks[:i], m.hooks[i+1:]...)
			return true
		}
	}
	return false
}

// Get returns a hook registration by ID.
func (m *HookManager) Get(id HookID) (HookRegistration, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, r := range m.hooks {
		if r.ID == id {
			return r, true
		}
	}
	return HookRegistration{}, false
}

// GetByName returns a hook registration by name.
func (m *HookManager) GetByName(name string) (HookRegistration, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, r := range m.hooks {
		if name != "" && r.Name == name {
			return r, true
		}
	}
	return HookRegistration{}, false
}

// SetEnabled enables or disables all hooks.
func (m *HookManager) SetEnabled(enabled bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.enabled = enabled
}

// IsEnabled returns whether hooks are enabled.
func (m *HookManager) IsEnabled() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.enabled
}

// Count returns the number of registered hooks.
func (m *HookManager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.hooks)
}

// List returns all hook registrations in execution order.
func (m *HookManager) List() []HookRegistration {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ensureSorted()
	result := make([]HookRegistration, len(m.hooks))
	copy(result, m.hooks)
	return result
}

// ensureSorted sorts hooks by priority if needed. Equal priorities keep
// registration order.
func (m *HookManager) ensureSorted() {
	if m.sorted {
		return
	}
	sort.SliceStable(m.hooks, func(i, j int) bool {
		return m.hooks[i].Priority < m.hooks[j].Priority
	})
	m.sorted = true
}

// snapshot returns the hooks to run, or nil when disabled.
func (m *HookManager) snapshot() []Hook {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.enabled || len(m.hooks) == 0 {
		return nil
	}
	m.ensureSorted()

	// Copy hooks for iteration outside lock
	hooks := make([]Hook, len(m.hooks))
	for i := range m.hooks {
		hooks[i] = m.hooks[i].Hook
	}
	return hooks
}

// RunPreKeyEvent runs all PreKeyEvent hooks in priority order.
// Returns true if any hook consumed the event.
func (m *HookManager) RunPreKeyEvent(event *key.Event, ctx *Context) bool {
	for _, hook := range m.snapshot() {
		if hook.PreKeyEvent(event, ctx) {
			return true
		}
	}
	return false
}

// RunPostKeyEvent runs all PostKeyEvent hooks in priority order.
func (m *HookManager) RunPostKeyEvent(event *key.Event, ctx *Context) {
	for _, hook := range m.snapshot() {
		hook.PostKeyEvent(event, ctx)
	}
}

// RunResolved runs all Resolved hooks in priority order.
func (m *HookManager) RunResolved(res *Resolution, ctx *Context) {
	for _, hook := range m.snapshot() {
		hook.Resolved(res, ctx)
	}
}

// Clear removes all hooks.
func (m *HookManager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.hooks = make([]HookRegistration, 0)
	m.sorted = true
}

// BaseHook provides a default implementation of the Hook interface.
// Embed this in custom hooks to only implement the methods you need.
type BaseHook struct{}

// PreKeyEvent is a no-op that does not consume events.
func (BaseHook) PreKeyEvent(*key.Event, *Context) bool {
	return false
}

// PostKeyEvent is a no-op.
func (BaseHook) PostKeyEvent(*key.Event, *Context) {}

// Resolved is a no-op.
func (BaseHook) Resolved(*Resolution, *Context) {}

// FuncHook wraps functions into a Hook interface implementation.
type FuncHook struct {
	PreKeyEventFunc  func(*key.Event, *Context) bool
	PostKeyEventFunc func(*key.Event, *Context)
	ResolvedFunc     func(*Resolution, *Context)
}

// PreKeyEvent calls the PreKeyEventFunc if set.
func (h FuncHook) PreKeyEvent(event *key.Event, ctx *Context) bool {
	if h.PreKeyEventFunc != nil {
		return h.PreKeyEventFunc(event, ctx)
	}
	return false
}

// PostKeyEvent calls the PostKeyEventFunc if set.
func (h FuncHook) PostKeyEvent(event *key.Event, ctx *Context) {
	if h.PostKeyEventFunc != nil {
		h.PostKeyEventFunc(event, ctx)
	}
}

// Resolved calls the ResolvedFunc if set.
func (h FuncHook) Resolved(res *Resolution, ctx *Context) {
	if h.ResolvedFunc != nil {
		h.ResolvedFunc(res, ctx)
	}
}

// LoggingHook logs all key events and resolutions.
// Useful for debugging and development.
type LoggingHook struct {
	BaseHook
	Logger func(format string, args ...interface{})
}

// PreKeyEvent logs the key event.
func (h LoggingHook) PreKeyEvent(event *key.Event, ctx *Context) bool {
	if h.Logger != nil {
		h.Logger("[input] key event: %s (layers=%s)", event.String(), ctx.Layers)
	}
	return false
}

// Resolved logs the decision.
func (h LoggingHook) Resolved(res *Resolution, ctx *Context) {
	if h.Logger != nil {
		h.Logger("[input] -> %s after %s", res.String(), res.Latency)
	}
}

// FilterHook drops key events matching a predicate.
type FilterHook struct {
	BaseHook

	// KeyEventFilter returns true to block/consume a key event.
	KeyEventFilter func(*key.Event, *Context) bool
}

// PreKeyEvent applies the key event filter.
func (h FilterHook) PreKeyEvent(event *key.Event, ctx *Context) bool {
	if h.KeyEventFilter != nil {
		return h.KeyEventFilter(event, ctx)
	}
	return false
}
