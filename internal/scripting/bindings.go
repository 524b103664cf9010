package scripting

import (
	"github.com/plus3/skirmish/ecs"
	"github.com/plus3/skirmish/internal/components"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

const entityTypeName = "entity"

func (e *Engine) registerBindings() {
	mt := e.vm.NewTypeMetatable(entityTypeName)
	e.vm.SetField(mt, "__index", e.vm.SetFuncs(e.vm.NewTable(), map[string]lua.LGFunction{
		"get_id":           e.entityGetId,
		"destroy":          e.entityDestroy,
		"has_tag":          e.entityHasTag,
		"belongs_to_group": e.entityBelongsToGroup,
	}))
	e.vm.SetField(mt, "__tostring", e.vm.NewFunction(e.entityToString))
	e.vm.SetField(mt, "__eq", e.vm.NewFunction(e.entityEqual))
	e.vm.SetGlobal(entityTypeName, mt)

	for name, fn := range map[string]lua.LGFunction{
		"get_position":            e.getPosition,
		"get_velocity":            e.getVelocity,
		"set_position":            e.setPosition,
		"set_velocity":            e.setVelocity,
		"set_rotation":            e.setRotation,
		"set_animation_frame":     e.setAnimationFrame,
		"set_projectile_velocity": e.setProjectileVelocity,
	} {
		e.vm.SetGlobal(name, e.vm.NewFunction(fn))
	}
}

// PushEntity wraps entity as a Lua userdata value.
func (e *Engine) PushEntity(entity ecs.Entity) *lua.LUserData {
	ud := e.vm.NewUserData()
	ud.Value = entity
	e.vm.SetMetatable(ud, e.vm.GetTypeMetatable(entityTypeName))
	return ud
}

func checkEntity(L *lua.LState, n int) ecs.Entity {
	ud := L.CheckUserData(n)
	entity, ok := ud.Value.(ecs.Entity)
	if !ok {
		L.ArgError(n, "entity expected")
	}
	return entity
}

// lookup is LookupComponent that treats a dead entity as having no
// components, since scripts may hold handles across kills.
func lookup[T any](r *ecs.Registry, entity ecs.Entity) (*T, bool) {
	if !r.IsAlive(entity) {
		return nil, false
	}
	return ecs.LookupComponent[T](r, entity)
}

func (e *Engine) missing(op string, entity ecs.Entity, component string) {
	e.log.Error("entity has no "+component+" component",
		zap.String("op", op),
		zap.Stringer("entity", entity))
}

func (e *Engine) entityGetId(L *lua.LState) int {
	L.Push(lua.LNumber(checkEntity(L, 1).Id))
	return 1
}

func (e *Engine) entityDestroy(L *lua.LState) int {
	e.registry.KillEntity(checkEntity(L, 1))
	return 0
}

func (e *Engine) entityHasTag(L *lua.LState) int {
	L.Push(lua.LBool(e.registry.HasTag(checkEntity(L, 1), L.CheckString(2))))
	return 1
}

func (e *Engine) entityBelongsToGroup(L *lua.LState) int {
	L.Push(lua.LBool(e.registry.BelongsToGroup(checkEntity(L, 1), L.CheckString(2))))
	return 1
}

func (e *Engine) entityToString(L *lua.LState) int {
	L.Push(lua.LString("entity " + checkEntity(L, 1).String()))
	return 1
}

func (e *Engine) entityEqual(L *lua.LState) int {
	L.Push(lua.LBool(checkEntity(L, 1) == checkEntity(L, 2)))
	return 1
}

func (e *Engine) getPosition(L *lua.LState) int {
	entity := checkEntity(L, 1)
	var x, y float64
	if t, ok := lookup[components.Transform](e.registry, entity); ok {
		x, y = t.Position.X, t.Position.Y
	} else {
		e.missing("get_position", entity, "transform")
	}
	L.Push(lua.LNumber(x))
	L.Push(lua.LNumber(y))
	return 2
}

func (e *Engine) getVelocity(L *lua.LState) int {
	entity := checkEntity(L, 1)
	var x, y float64
	if rb, ok := lookup[components.RigidBody](e.registry, entity); ok {
		x, y = rb.Velocity.X, rb.Velocity.Y
	} else {
		e.missing("get_velocity", entity, "rigid body")
	}
	L.Push(lua.LNumber(x))
	L.Push(lua.LNumber(y))
	return 2
}

func (e *Engine) setPosition(L *lua.LState) int {
	entity := checkEntity(L, 1)
	x, y := float64(L.CheckNumber(2)), float64(L.CheckNumber(3))
	if t, ok := lookup[components.Transform](e.registry, entity); ok {
		t.Position = components.Vec2{X: x, Y: y}
	} else {
		e.missing("set_position", entity, "transform")
	}
	return 0
}

func (e *Engine) setVelocity(L *lua.LState) int {
	entity := checkEntity(L, 1)
	x, y := float64(L.CheckNumber(2)), float64(L.CheckNumber(3))
	if rb, ok := lookup[components.RigidBody](e.registry, entity); ok {
		rb.Velocity = components.Vec2{X: x, Y: y}
	} else {
		e.missing("set_velocity", entity, "rigid body")
	}
	return 0
}

func (e *Engine) setRotation(L *lua.LState) int {
	entity := checkEntity(L, 1)
	angle := float64(L.CheckNumber(2))
	if t, ok := lookup[components.Transform](e.registry, entity); ok {
		t.Rotation = angle
	} else {
		e.missing("set_rotation", entity, "transform")
	}
	return 0
}

func (e *Engine) setAnimationFrame(L *lua.LState) int {
	entity := checkEntity(L, 1)
	frame := L.CheckInt(2)
	if a, ok := lookup[components.Animation](e.registry, entity); ok {
		a.CurrentFrame = frame
	} else {
		e.missing("set_animation_frame", entity, "animation")
	}
	return 0
}

func (e *Engine) setProjectileVelocity(L *lua.LState) int {
	entity := checkEntity(L, 1)
	x, y := float64(L.CheckNumber(2)), float64(L.CheckNumber(3))
	if pe, ok := lookup[components.ProjectileEmitter](e.registry, entity); ok {
		pe.ProjectileVelocity = components.Vec2{X: x, Y: y}
	} else {
		e.missing("set_projectile_velocity", entity, "projectile emitter")
	}
	return 0
}
