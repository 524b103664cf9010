package scripting

import (
	"github.com/plus3/skirmish/ecs"
	"github.com/plus3/skirmish/internal/components"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// ScriptSystem calls every entity's update script once per frame as
// fn(entity, delta_time, elapsed_ms). A failing script is logged and the
// frame continues.
type ScriptSystem struct {
	ecs.System

	engine *Engine
}

func NewScriptSystem(engine *Engine) *ScriptSystem {
	s := &ScriptSystem{engine: engine}
	ecs.Require[components.Script](&s.System)
	return s
}

func (s *ScriptSystem) Execute(frame *ecs.UpdateFrame) {
	elapsedMs := lua.LNumber(frame.Elapsed.Milliseconds())
	dt := lua.LNumber(frame.DeltaTime)

	for _, e := range s.Entities() {
		script := ecs.GetComponent[components.Script](frame.Registry, e)
		if script.Func == nil {
			continue
		}
		if err := s.engine.Call(script.Func, s.engine.PushEntity(e), dt, elapsedMs); err != nil {
			s.engine.log.Error("update script failed", zap.Stringer("entity", e), zap.Error(err))
		}
	}
}
