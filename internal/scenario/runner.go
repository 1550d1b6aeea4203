package scenario

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	lua "github.com/yuin/gopher-lua"
	"github.com/yuin/gopher-lua/parse"

	"github.com/nbrumont/fly/internal/input"
	"github.com/nbrumont/fly/internal/input/keymap"
	"github.com/nbrumont/fly/internal/input/report"
	"github.com/nbrumont/fly/internal/input/tapdance"
)

// Defaults for a Runner.
const (
	DefaultCacheSize = 32
	DefaultTimeout   = 5 * time.Second

	// MaxElapsed is the most virtual time one scenario may cover.
	MaxElapsed = 24 * time.Hour

	// maxFlush bounds the number of terms closed after a script ends.
	maxFlush = 64
)

// Epoch is the virtual time at which every scenario starts.
var Epoch = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

// Errors returned by the runner.
var (
	ErrNotFound = errors.New("scenario not found")
	ErrCompile  = errors.New("scenario does not compile")
)

// ScriptError is a Lua runtime error raised by a scenario.
type ScriptError struct {
	Name string
	Err  error
}

func (e *ScriptError) Error() string {
	return fmt.Sprintf("scenario %s: %v", e.Name, e.Err)
}

func (e *ScriptError) Unwrap() error {
	return e.Err
}

// Result is what a scenario produced.
type Result struct {
	// Name is the script name.
	Name string

	// Frames are the HID reports in the order they were sent.
	Frames []report.Frame

	// Resolutions are the key decisions in the order they were made.
	Resolutions []input.Resolution

	// Output holds lines written with print.
	Output []string

	// Elapsed is the virtual time the scenario covered.
	Elapsed time.Duration

	// Layers is the layer state when the scenario ended.
	Layers keymap.LayerMask
}

// Strings returns the frames rendered with Frame.String.
func (r *Result) Strings() []string {
	out := make([]string, len(r.Frames))
	for i, f := range r.Frames {
		out[i] = f.String()
	}
	return out
}

// Runner compiles and runs scenario scripts. Each run gets a fresh handler
// and Lua state, so a Runner may be shared between goroutines.
type Runner struct {
	keymap  *keymap.Keymap
	dances  *tapdance.Set
	config  input.Config
	dir     string
	timeout time.Duration

	cacheSize int
	cache     *lru.Cache[string, *lua.FunctionProto]
	hits      atomic.Uint64
	misses    atomic.Uint64
}

// Option configures a Runner.
type Option func(*Runner)

// WithKeymap sets the keymap scenarios run against.
func WithKeymap(km *keymap.Keymap) Option {
	return func(r *Runner) {
		r.keymap = km
	}
}

// WithDances sets the tap dances. Each run works on a clone of the set.
func WithDances(dances *tapdance.Set) Option {
	return func(r *Runner) {
		r.dances = dances
	}
}

// WithHandlerConfig sets the input handler configuration.
func WithHandlerConfig(cfg input.Config) Option {
	return func(r *Runner) {
		r.config = cfg
	}
}

// WithDir sets the directory searched for scripts given by bare name.
func WithDir(dir string) Option {
	return func(r *Runner) {
		r.dir = dir
	}
}

// WithCacheSize sets the number of compiled scripts kept.
func WithCacheSize(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.cacheSize = n
		}
	}
}

// WithTimeout bounds the wall time of a single run. Zero disables it.
func WithTimeout(d time.Duration) Option {
	return func(r *Runner) {
		r.timeout = d
	}
}

// NewRunner creates a runner. Without options it uses the default keymap
// and tap dances.
func NewRunner(opts ...Option) (*Runner, error) {
	r := &Runner{
		config:    input.DefaultConfig(),
		timeout:   DefaultTimeout,
		cacheSize: DefaultCacheSize,
	}
	for _, opt := range opts {
		opt(r)
	}

	if r.keymap == nil {
		r.keymap = keymap.Default()
	}
	if r.dances == nil {
		r.dances = tapdance.DefaultSet()
	}

	cache, err := lru.New[string, *lua.FunctionProto](r.cacheSize)
	if err != nil {
		return nil, err
	}
	r.cache = cache
	return r, nil
}

// Resolve returns the path of a script. Bare names without an extension
// are looked up in the scenario directory with ".lua" appended.
func (r *Runner) Resolve(name string) (string, error) {
	candidates := []string{name}
	if r.dir != "" && !filepath.IsAbs(name) && !strings.ContainsRune(name, filepath.Separator) {
		candidates = append(candidates, filepath.Join(r.dir, name))
		if filepath.Ext(name) == "" {
			candidates = append(candidates, filepath.Join(r.dir, name+".lua"))
		}
	}

	for _, path := range candidates {
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrNotFound, name)
}

// RunFile runs the script at path, or found by name in the scenario
// directory.
func (r *Runner) RunFile(ctx context.Context, name string) (*Result, error) {
	path, err := r.Resolve(name)
	if err != nil {
		return nil, err
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return r.RunString(ctx, filepath.Base(path), string(src))
}

// RunReader runs a script read from rd.
func (r *Runner) RunReader(ctx context.Context, name string, rd io.Reader) (*Result, error) {
	src, err := io.ReadAll(rd)
	if err != nil {
		return nil, err
	}
	return r.RunString(ctx, name, string(src))
}

// RunString runs the script src.
func (r *Runner) RunString(ctx context.Context, name, src string) (*Result, error) {
	proto, err := r.compile(name, src)
	if err != nil {
		return nil, err
	}

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	s, err := newSession(r, name)
	if err != nil {
		return nil, err
	}
	defer s.close()

	return s.run(ctx, proto)
}

// compile returns the compiled chunk for src, from the cache when the same
// name and source were compiled before.
func (r *Runner) compile(name, src string) (*lua.FunctionProto, error) {
	sum := sha256.Sum256([]byte(src))
	cacheKey := name + "\x00" + hex.EncodeToString(sum[:])

	if proto, ok := r.cache.Get(cacheKey); ok {
		r.hits.Add(1)
		return proto, nil
	}
	r.misses.Add(1)

	chunk, err := parse.Parse(strings.NewReader(src), name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCompile, name, err)
	}
	proto, err := lua.Compile(chunk, name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCompile, name, err)
	}

	r.cache.Add(cacheKey, proto)
	return proto, nil
}

// CacheStats returns the compile cache hits, misses and size.
func (r *Runner) CacheStats() (hits, misses uint64, size int) {
	return r.hits.Load(), r.misses.Load(), r.cache.Len()
}

// Keymap returns the keymap scenarios run against.
func (r *Runner) Keymap() *keymap.Keymap {
	return r.keymap
}
