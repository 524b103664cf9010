package systems

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/plus3/skirmish/ecs"
	"github.com/plus3/skirmish/ecs/debugui"
	"github.com/plus3/skirmish/eventbus"
	"github.com/plus3/skirmish/internal/events"
)

// KeySource appends the keys that went down this frame to keys.
type KeySource func(keys []ebiten.Key) []ebiten.Key

// InputSystem turns newly pressed keys into KeyPressedEvents. Keys are
// swallowed while the debug GUI has keyboard focus.
type InputSystem struct {
	ImguiInput ecs.Singleton[debugui.ImguiInputState]

	source KeySource
	keys   []ebiten.Key
}

// NewInputSystem reads keys from source, or from ebiten when source is nil.
func NewInputSystem(source KeySource) *InputSystem {
	if source == nil {
		source = inpututil.AppendJustPressedKeys
	}
	return &InputSystem{source: source}
}

func (s *InputSystem) Execute(frame *ecs.UpdateFrame) {
	s.keys = s.source(s.keys[:0])
	if state := s.ImguiInput.Get(); state != nil && state.WantCaptureKeyboard {
		return
	}
	for _, key := range s.keys {
		eventbus.Emit(frame.Events, events.KeyPressedEvent{Key: key})
	}
}
