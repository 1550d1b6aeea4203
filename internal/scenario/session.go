package scenario

import (
	"context"
	"math"
	"strings"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/nbrumont/fly/internal/input"
	"github.com/nbrumont/fly/internal/input/key"
	"github.com/nbrumont/fly/internal/input/keymap"
	"github.com/nbrumont/fly/internal/input/report"
)

// session is one run of a script: a handler on a virtual clock and the Lua
// state driving it. It is used from a single goroutine.
type session struct {
	runner  *Runner
	name    string
	L       *lua.LState
	handler *input.Handler
	frames  *report.Buffer
	now     time.Time

	resolutions []input.Resolution
	output      []string
}

func newSession(r *Runner, name string) (*session, error) {
	frames := report.NewBuffer()
	handler, err := input.NewHandler(r.config, r.keymap, r.dances.Clone(), report.NewReporter(frames))
	if err != nil {
		return nil, err
	}

	s := &session{
		runner:  r,
		name:    name,
		handler: handler,
		frames:  frames,
		now:     Epoch,
	}

	handler.Hooks().RegisterNamed(input.FuncHook{
		ResolvedFunc: func(res *input.Resolution, _ *input.Context) {
			s.resolutions = append(s.resolutions, *res)
		},
	}, "scenario")

	s.L = lua.NewState(lua.Options{SkipOpenLibs: true})
	openSafeLibraries(s.L)
	s.register()
	return s, nil
}

// openSafeLibraries opens the libraries a scenario may use.
func openSafeLibraries(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)

	for _, name := range []string{"dofile", "loadfile", "load", "loadstring"} {
		L.SetGlobal(name, lua.LNil)
	}
}

func (s *session) register() {
	api := map[string]lua.LGFunction{
		"press":   s.luaPress,
		"release": s.luaRelease,
		"tap":     s.luaTap,
		"wait":    s.luaWait,
		"pos":     s.luaPos,
		"reports": s.luaReports,
		"layer":   s.luaLayer,
		"now":     s.luaNow,
		"print":   s.luaPrint,
	}
	for name, fn := range api {
		s.L.SetGlobal(name, s.L.NewFunction(fn))
	}
}

func (s *session) run(ctx context.Context, proto *lua.FunctionProto) (*Result, error) {
	s.L.SetContext(ctx)
	s.L.Push(s.L.NewFunctionFromProto(proto))
	if err := s.L.PCall(0, lua.MultRet, nil); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = ctxErr
		}
		return nil, &ScriptError{Name: s.name, Err: err}
	}

	s.flush()

	return &Result{
		Name:        s.name,
		Frames:      s.frames.Frames(),
		Resolutions: s.resolutions,
		Output:      s.output,
		Elapsed:     s.now.Sub(Epoch),
		Layers:      s.handler.Layers(),
	}, nil
}

// flush lets every open tapping term run out. Held keys stay held.
func (s *session) flush() {
	for i := 0; i < maxFlush; i++ {
		deadline, ok := s.handler.Deadline()
		if !ok {
			return
		}
		if deadline.After(s.now) {
			s.now = deadline
		}
		_ = s.handler.Tick(s.now)
	}
}

func (s *session) close() {
	s.L.Close()
}

// advance moves the virtual clock forward by d.
func (s *session) advance(d time.Duration) {
	if s.now.Sub(Epoch)+d > MaxElapsed {
		s.L.RaiseError("scenario covers more than %v of virtual time", MaxElapsed)
	}
	s.now = s.now.Add(d)
	if err := s.handler.Tick(s.now); err != nil {
		s.L.RaiseError("%v", err)
	}
}

func (s *session) send(ev key.Event) {
	if err := s.handler.HandleKeyEvent(ev); err != nil {
		s.L.RaiseError("%v", err)
	}
}

// checkPos reads argument n as a position number, a position name like
// "r0c4" or "t2", or a keycode found on the base layer.
func (s *session) checkPos(n int) key.Position {
	switch v := s.L.Get(n).(type) {
	case lua.LNumber:
		p := int(v)
		if p < 0 || p >= keymap.KeyCount || float64(p) != float64(v) {
			s.L.ArgError(n, "position out of range")
		}
		return key.Position(p)
	case lua.LString:
		pos, ok := s.lookup(string(v))
		if !ok {
			s.L.ArgError(n, "unknown key "+string(v))
		}
		return pos
	default:
		s.L.TypeError(n, lua.LTNumber)
		return 0
	}
}

func (s *session) lookup(name string) (key.Position, bool) {
	if pos, ok := keymap.ParsePosition(name); ok {
		return pos, true
	}
	code, err := key.Parse(name)
	if err != nil {
		return 0, false
	}
	return s.runner.keymap.Find(code)
}

func (s *session) checkMillis(n int) time.Duration {
	ms := s.L.CheckNumber(n)
	switch {
	case ms < 0:
		s.L.ArgError(n, "negative duration")
	case math.IsNaN(float64(ms)) || float64(ms) > float64(MaxElapsed/time.Millisecond):
		s.L.ArgError(n, "duration too long")
	}
	return time.Duration(float64(ms) * float64(time.Millisecond))
}

// press(p)
func (s *session) luaPress(L *lua.LState) int {
	s.send(key.NewPress(s.checkPos(1), s.now))
	return 0
}

// release(p)
func (s *session) luaRelease(L *lua.LState) int {
	s.send(key.NewRelease(s.checkPos(1), s.now))
	return 0
}

// tap(p [, hold_ms])
func (s *session) luaTap(L *lua.LState) int {
	pos := s.checkPos(1)
	var hold time.Duration
	if L.GetTop() >= 2 {
		hold = s.checkMillis(2)
	}

	s.send(key.NewPress(pos, s.now))
	if hold > 0 {
		s.advance(hold)
	}
	s.send(key.NewRelease(pos, s.now))
	return 0
}

// wait(ms)
func (s *session) luaWait(L *lua.LState) int {
	s.advance(s.checkMillis(1))
	return 0
}

// pos(name) -> number
func (s *session) luaPos(L *lua.LState) int {
	name := L.CheckString(1)
	pos, ok := s.lookup(name)
	if !ok {
		L.ArgError(1, "unknown key "+name)
	}
	L.Push(lua.LNumber(pos))
	return 1
}

// reports() -> {string...}
func (s *session) luaReports(L *lua.LState) int {
	tbl := L.NewTable()
	for _, str := range s.frames.Strings() {
		tbl.Append(lua.LString(str))
	}
	L.Push(tbl)
	return 1
}

// layer() -> number
func (s *session) luaLayer(L *lua.LState) int {
	L.Push(lua.LNumber(s.handler.Layers().Highest()))
	return 1
}

// now() -> elapsed virtual milliseconds
func (s *session) luaNow(L *lua.LState) int {
	L.Push(lua.LNumber(float64(s.now.Sub(Epoch)) / float64(time.Millisecond)))
	return 1
}

func (s *session) luaPrint(L *lua.LState) int {
	parts := make([]string, L.GetTop())
	for i := range parts {
		parts[i] = L.ToStringMeta(L.Get(i + 1)).String()
	}
	s.output = append(s.output, strings.Join(parts, "\t"))
	return 0
}
