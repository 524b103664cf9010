// Package scripting embeds a Lua VM that loads levels and drives per-entity
// update scripts.
package scripting

import (
	"github.com/plus3/skirmish/ecs"
	"github.com/rotisserie/eris"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// Engine owns one Lua state bound to a registry. It is not safe for
// concurrent use.
type Engine struct {
	vm       *lua.LState
	registry *ecs.Registry
	log      *zap.Logger
}

var libs = []struct {
	name string
	open lua.LGFunction
}{
	{lua.BaseLibName, lua.OpenBase},
	{lua.TabLibName, lua.OpenTable},
	{lua.StringLibName, lua.OpenString},
	{lua.MathLibName, lua.OpenMath},
	{lua.OsLibName, lua.OpenOs},
}

// NewEngine creates a Lua state with the base, table, string, math and os
// libraries plus the entity bindings.
func NewEngine(r *ecs.Registry, log *zap.Logger) *Engine {
	vm := lua.NewState(lua.Options{SkipOpenLibs: true})
	for _, lib := range libs {
		vm.Push(vm.NewFunction(lib.open))
		vm.Push(lua.LString(lib.name))
		vm.Call(1, 0)
	}

	e := &Engine{vm: vm, registry: r, log: log.Named("lua")}
	e.registerBindings()
	return e
}

// State exposes the underlying Lua state.
func (e *Engine) State() *lua.LState {
	return e.vm
}

func (e *Engine) Close() {
	e.vm.Close()
}

// DoString executes a chunk of Lua source.
func (e *Engine) DoString(src string) error {
	if err := e.vm.DoString(src); err != nil {
		return eris.Wrap(err, "run lua chunk")
	}
	return nil
}

// DoFile executes a Lua file.
func (e *Engine) DoFile(path string) error {
	if err := e.vm.DoFile(path); err != nil {
		return eris.Wrapf(err, "run lua file %s", path)
	}
	e.log.Debug("script loaded", zap.String("path", path))
	return nil
}

// Call invokes fn in protected mode, discarding any return values.
func (e *Engine) Call(fn *lua.LFunction, args ...lua.LValue) error {
	return e.vm.CallByParam(lua.P{Fn: fn, NRet: 0, Protect: true}, args...)
}
