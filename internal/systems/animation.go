package systems

import (
	"image"

	"github.com/plus3/skirmish/ecs"
	"github.com/plus3/skirmish/internal/components"
)

// AnimationSystem advances sprite sheet frames from elapsed time.
type AnimationSystem struct {
	ecs.System
}

func NewAnimationSystem() *AnimationSystem {
	s := &AnimationSystem{}
	ecs.Require[components.Sprite](&s.System)
	ecs.Require[components.Animation](&s.System)
	return s
}

func (s *AnimationSystem) Execute(frame *ecs.UpdateFrame) {
	for _, e := range s.Entities() {
		anim := ecs.GetComponent[components.Animation](frame.Registry, e)
		sprite := ecs.GetComponent[components.Sprite](frame.Registry, e)
		if anim.NumFrames <= 0 {
			continue
		}

		ticks := int((frame.Elapsed - anim.StartTime).Milliseconds()) * anim.FrameSpeedRate / 1000
		if !anim.IsLoop && ticks >= anim.NumFrames {
			anim.CurrentFrame = anim.NumFrames - 1
		} else {
			anim.CurrentFrame = ticks % anim.NumFrames
		}

		x := anim.CurrentFrame * sprite.Width
		sprite.SrcRect = image.Rect(x, sprite.SrcRect.Min.Y, x+sprite.Width, sprite.SrcRect.Min.Y+sprite.Height)
	}
}
