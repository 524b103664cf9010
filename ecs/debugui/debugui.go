// Package debugui provides immediate-mode GUI integration for ECS applications using Dear ImGui.
// It manages ImGui rendering and input state through ECS components and systems.
package debugui

import (
	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/skirmish/ecs"
)

// ImguiItem is a component that holds a Dear ImGui render function.
// Attach this to entities that should render ImGui widgets each frame.
type ImguiItem struct {
	Render func()
}

// ImguiInputState tracks Dear ImGui's input capture state as a singleton.
// Use this to determine if ImGui is consuming mouse or keyboard input.
type ImguiInputState struct {
	WantCaptureMouse    bool
	WantCaptureKeyboard bool
}

// Overlay switches the whole debug GUI on and off. It is a singleton; when
// absent the GUI is always shown.
type Overlay struct {
	Visible bool
}

// Shown reports whether o allows drawing. A nil overlay is shown.
func (o *Overlay) Shown() bool {
	return o == nil || o.Visible
}

// ImguiSystem defers the render function of every ImguiItem entity so it
// runs after the frame's systems. It also updates the ImguiInputState
// singleton with the current input capture state.
type ImguiSystem struct {
	ecs.System
	InputState ecs.Singleton[ImguiInputState]
	Overlay    ecs.Singleton[Overlay]

	// CaptureState reads ImGui's capture flags. Nil uses the current ImGui
	// context.
	CaptureState func() ImguiInputState
}

func NewImguiSystem() *ImguiSystem {
	s := &ImguiSystem{}
	ecs.Require[ImguiItem](&s.System)
	return s
}

func currentCaptureState() ImguiInputState {
	io := imgui.CurrentIO()
	return ImguiInputState{
		WantCaptureMouse:    io.WantCaptureMouse(),
		WantCaptureKeyboard: io.WantCaptureKeyboard(),
	}
}

// Execute updates input state and queues all ImGui render functions for execution.
func (i *ImguiSystem) Execute(frame *ecs.UpdateFrame) {
	state := i.InputState.Get()
	if !i.Overlay.Get().Shown() {
		if state != nil {
			*state = ImguiInputState{}
		}
		return
	}

	if state != nil {
		capture := i.CaptureState
		if capture == nil {
			capture = currentCaptureState
		}
		*state = capture()
	}

	for _, e := range i.Entities() {
		item := ecs.GetComponent[ImguiItem](frame.Registry, e)
		if item.Render != nil {
			frame.Commands.Defer(item.Render)
		}
	}
}
