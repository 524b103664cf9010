package systems

import (
	"image"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/skirmish/ecs"
	"github.com/plus3/skirmish/eventbus"
	"github.com/plus3/skirmish/internal/components"
	"github.com/plus3/skirmish/internal/events"
)

// KeyboardControlSystem steers keyboard-controlled entities with the arrow
// keys and picks the matching sprite sheet row.
type KeyboardControlSystem struct {
	ecs.System

	registry *ecs.Registry
}

func NewKeyboardControlSystem(r *ecs.Registry) *KeyboardControlSystem {
	s := &KeyboardControlSystem{registry: r}
	ecs.Require[components.KeyboardControlled](&s.System)
	ecs.Require[components.Sprite](&s.System)
	ecs.Require[components.RigidBody](&s.System)
	return s
}

func (s *KeyboardControlSystem) SubscribeToEvents(bus *eventbus.Bus) {
	eventbus.Subscribe(bus, s.onKeyPressed)
}

func (s *KeyboardControlSystem) onKeyPressed(ev *events.KeyPressedEvent) {
	for _, e := range s.Entities() {
		control := ecs.GetComponent[components.KeyboardControlled](s.registry, e)
		sprite := ecs.GetComponent[components.Sprite](s.registry, e)
		rb := ecs.GetComponent[components.RigidBody](s.registry, e)

		var row int
		switch ev.Key {
		case ebiten.KeyArrowUp:
			rb.Velocity, row = control.UpVelocity, 0
		case ebiten.KeyArrowRight:
			rb.Velocity, row = control.RightVelocity, 1
		case ebiten.KeyArrowDown:
			rb.Velocity, row = control.DownVelocity, 2
		case ebiten.KeyArrowLeft:
			rb.Velocity, row = control.LeftVelocity, 3
		default:
			continue
		}

		y := sprite.Height * row
		sprite.SrcRect = image.Rect(sprite.SrcRect.Min.X, y, sprite.SrcRect.Min.X+sprite.Width, y+sprite.Height)
	}
}

func (s *KeyboardControlSystem) Execute(*ecs.UpdateFrame) {}
