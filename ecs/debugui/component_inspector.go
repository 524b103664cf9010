package debugui

import (
	"fmt"
	"reflect"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/skirmish/ecs"
)

func NewComponentInspectorComponent() ComponentInspectorComponent {
	return ComponentInspectorComponent{}
}

// Render shows every component of the selected entity. Edits are written
// straight through the component pointer.
func (ci *ComponentInspectorComponent) Render(r *ecs.Registry, selected ecs.Entity, ok bool) {
	if !imgui.BeginV("Component Inspector", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	if !ok {
		imgui.Text("No entity selected")
		imgui.End()
		return
	}

	if !r.IsAlive(selected) {
		imgui.Text(fmt.Sprintf("Entity %s is no longer alive", selected))
		imgui.End()
		return
	}

	imgui.Text(fmt.Sprintf("Entity: %s", selected))
	if tag, ok := r.TagOf(selected); ok {
		imgui.Text(fmt.Sprintf("Tag: %s", tag))
	}
	if group, ok := r.GroupOf(selected); ok {
		imgui.Text(fmt.Sprintf("Group: %s", group))
	}
	imgui.Text(fmt.Sprintf("Signature: %s", r.Signature(selected)))
	imgui.Separator()

	if imgui.Button("Kill") {
		r.KillEntity(selected)
	}

	for _, compType := range r.ComponentsOf(selected) {
		component := r.ComponentByType(selected, compType)
		if component == nil {
			continue
		}

		if imgui.TreeNodeStr(compType.String()) {
			renderComponent(component)
			imgui.TreePop()
		}
	}

	imgui.End()
}

type fieldInfo struct {
	Name      string
	Index     int
	IsPointer bool
}

// fieldCache holds the exported fields of every component type rendered so
// far. It is only touched from the render loop.
var fieldCache = make(map[reflect.Type][]fieldInfo)

func exportedFields(t reflect.Type) []fieldInfo {
	if fields, ok := fieldCache[t]; ok {
		return fields
	}

	var fields []fieldInfo
	if t.Kind() == reflect.Struct {
		for i := range t.NumField() {
			field := t.Field(i)
			if !field.IsExported() {
				continue
			}
			fields = append(fields, fieldInfo{
				Name:      field.Name,
				Index:     i,
				IsPointer: field.Type.Kind() == reflect.Ptr,
			})
		}
	}

	fieldCache[t] = fields
	return fields
}

func renderComponent(component any) {
	val := reflect.ValueOf(component)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}
	renderFields(val)
}

func renderFields(val reflect.Value) {
	for _, field := range exportedFields(val.Type()) {
		fieldVal := val.Field(field.Index)
		if field.IsPointer && !fieldVal.IsNil() {
			fieldVal = fieldVal.Elem()
		}
		renderField(field.Name, fieldVal, field)
	}
}

func renderField(name string, val reflect.Value, field fieldInfo) {
	if !val.IsValid() {
		imgui.Text(fmt.Sprintf("%s: <invalid>", name))
		return
	}

	if field.IsPointer && val.Kind() == reflect.Ptr && val.IsNil() {
		imgui.Text(fmt.Sprintf("%s: nil", name))
		return
	}

	switch val.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		v := int32(val.Int())
		imgui.Text(fmt.Sprintf("%s:", name))
		imgui.SameLine()
		imgui.SetNextItemWidth(150)
		if imgui.InputInt(fmt.Sprintf("##%s", name), &v) {
			setInt(val, int64(v))
		}

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		v := int32(val.Uint())
		imgui.Text(fmt.Sprintf("%s:", name))
		imgui.SameLine()
		imgui.SetNextItemWidth(150)
		if imgui.InputInt(fmt.Sprintf("##%s", name), &v) && v >= 0 {
			setUint(val, uint64(v))
		}

	case reflect.Float32, reflect.Float64:
		v := float32(val.Float())
		imgui.Text(fmt.Sprintf("%s:", name))
		imgui.SameLine()
		imgui.SetNextItemWidth(150)
		if imgui.InputFloat(fmt.Sprintf("##%s", name), &v) {
			setFloat(val, float64(v))
		}

	case reflect.Bool:
		v := val.Bool()
		if imgui.Checkbox(name, &v) && val.CanSet() {
			val.SetBool(v)
		}

	case reflect.String:
		v := val.String()
		imgui.Text(fmt.Sprintf("%s:", name))
		imgui.SameLine()
		imgui.SetNextItemWidth(200)
		if imgui.InputTextWithHint(fmt.Sprintf("##%s", name), "", &v, imgui.InputTextFlagsNone, nil) && val.CanSet() {
			val.SetString(v)
		}

	case reflect.Struct:
		if imgui.TreeNodeStr(name) {
			renderFields(val)
			imgui.TreePop()
		}

	case reflect.Slice:
		imgui.Text(fmt.Sprintf("%s: [%d items]", name, val.Len()))

	case reflect.Map:
		imgui.Text(fmt.Sprintf("%s: map[%d items]", name, val.Len()))

	case reflect.Func:
		imgui.Text(fmt.Sprintf("%s: func", name))

	default:
		if val.CanInterface() {
			imgui.Text(fmt.Sprintf("%s: %v", name, val.Interface()))
		} else {
			imgui.Text(fmt.Sprintf("%s: %s", name, val.Type()))
		}
	}
}

// setInt, setUint and setFloat ignore values that would overflow the field.
func setInt(field reflect.Value, value int64) {
	if field.CanSet() && !field.OverflowInt(value) {
		field.SetInt(value)
	}
}

func setUint(field reflect.Value, value uint64) {
	if field.CanSet() && !field.OverflowUint(value) {
		field.SetUint(value)
	}
}

func setFloat(field reflect.Value, value float64) {
	if field.CanSet() && !field.OverflowFloat(value) {
		field.SetFloat(value)
	}
}
