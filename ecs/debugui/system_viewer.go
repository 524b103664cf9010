package debugui

import (
	"fmt"
	"strings"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/skirmish/ecs"
)

func NewSystemViewerComponent() SystemViewerComponent {
	return SystemViewerComponent{
		selectedComponentTypes: make(map[string]bool),
	}
}

func (sv *SystemViewerComponent) Render(r *ecs.Registry) {
	if !imgui.BeginV("System Viewer", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg
	if imgui.BeginTableV("SystemTable", 3, tableFlags, imgui.NewVec2(0, 0), 0) {
		imgui.TableSetupColumn("System")
		imgui.TableSetupColumn("Requires")
		imgui.TableSetupColumn("Entities")
		imgui.TableHeadersRow()

		for _, info := range r.Systems() {
			imgui.TableNextRow()

			imgui.TableSetColumnIndex(0)
			imgui.Text(info.Name)

			imgui.TableSetColumnIndex(1)
			imgui.Text(strings.Join(info.Required, ", "))

			imgui.TableSetColumnIndex(2)
			imgui.Text(fmt.Sprintf("%d", info.EntityCount))
		}

		imgui.EndTable()
	}

	if imgui.TreeNodeStr("Signature Tester") {
		if imgui.Button("Clear All") {
			sv.selectedComponentTypes = make(map[string]bool)
		}

		components := r.Components()
		for id := range components.Len() {
			name := components.Type(ecs.ComponentId(id)).String()
			selected := sv.selectedComponentTypes[name]
			if imgui.Checkbox(name, &selected) {
				if selected {
					sv.selectedComponentTypes[name] = true
				} else {
					delete(sv.selectedComponentTypes, name)
				}
			}
		}

		imgui.Separator()
		imgui.Text(fmt.Sprintf("Matching Entities: %d", sv.matchingEntities(r)))
		imgui.TreePop()
	}

	imgui.End()
}

// requiredSignature builds the signature of the checked component types.
func (sv *SystemViewerComponent) requiredSignature(components *ecs.ComponentRegistry) ecs.Signature {
	var sig ecs.Signature
	for id := range components.Len() {
		cid := ecs.ComponentId(id)
		if sv.selectedComponentTypes[components.Type(cid).String()] {
			sig.Set(cid)
		}
	}
	return sig
}

// matchingEntities counts entities a system requiring the checked types
// would hold.
func (sv *SystemViewerComponent) matchingEntities(r *ecs.Registry) int {
	required := sv.requiredSignature(r.Components())
	n := 0
	for e := range r.Entities() {
		if r.Signature(e).Contains(required) {
			n++
		}
	}
	return n
}
