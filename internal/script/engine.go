package script

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/keygrid/internal/grid"
)

// DefaultTimeout bounds a single script run.
const DefaultTimeout = 5 * time.Second

// Engine executes Lua scripts against a grid model.
//
// The Lua state is not goroutine-safe; the engine serializes runs.
type Engine struct {
	mu sync.Mutex

	L       *lua.LState
	model   *grid.Model
	timeout time.Duration
	output  io.Writer

	closed bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithTimeout sets the maximum duration of one run. Zero disables the
// timeout.
func WithTimeout(d time.Duration) Option {
	return func(e *Engine) {
		if d >= 0 {
			e.timeout = d
		}
	}
}

// WithOutput sends print output to w instead of discarding it.
func WithOutput(w io.Writer) Option {
	return func(e *Engine) {
		e.output = w
	}
}

// New creates a sandboxed engine bound to model.
func New(model *grid.Model, opts ...Option) *Engine {
	e := &Engine{
		model:   model,
		timeout: DefaultTimeout,
		output:  io.Discard,
	}
	for _, opt := range opts {
		opt(e)
	}

	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	openSafeLibraries(L)
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring"} {
		L.SetGlobal(name, lua.LNil)
	}
	L.SetGlobal("print", L.NewFunction(e.print))
	L.SetGlobal("grid", newModule(model).table(L))

	e.L = L
	return e
}

// openSafeLibraries opens only the libraries with no host access.
func openSafeLibraries(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
}

// Run executes code. name identifies the chunk in error messages.
func (e *Engine) Run(ctx context.Context, name, code string) error {
	return e.do(ctx, func(L *lua.LState) error {
		fn, err := L.Load(strings.NewReader(code), name)
		if err != nil {
			return err
		}
		L.Push(fn)
		return L.PCall(0, lua.MultRet, nil)
	})
}

// RunFile executes the script at path.
func (e *Engine) RunFile(ctx context.Context, path string) error {
	return e.do(ctx, func(L *lua.LState) error {
		return L.DoFile(path)
	})
}

func (e *Engine) do(ctx context.Context, fn func(*lua.LState) error) (err error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return ErrEngineClosed
	}

	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}
	e.L.SetContext(ctx)
	defer e.L.RemoveContext()

	top := e.L.GetTop()
	defer e.L.SetTop(top)

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lua panic: %v", r)
		}
	}()

	if err := fn(e.L); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return fmt.Errorf("%w: %v", ErrExecutionTimeout, err)
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}
	return nil
}

// Close releases the Lua state. Further runs return ErrEngineClosed.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return nil
	}
	e.L.Close()
	e.closed = true
	return nil
}

// print writes its arguments, tab separated, to the engine output.
func (e *Engine) print(L *lua.LState) int {
	n := L.GetTop()
	parts := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		parts = append(parts, L.ToStringMeta(L.Get(i)).String())
	}
	fmt.Fprintln(e.output, strings.Join(parts, "\t"))
	return 0
}
