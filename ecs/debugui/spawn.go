package debugui

import "github.com/plus3/skirmish/ecs"

// SpawnDebugUI creates one entity carrying every inspector panel and an
// ImguiItem that renders them. Clicking a pool row filters the entity
// browser by that component type.
func SpawnDebugUI(r *ecs.Registry, source StatsSource) ecs.Entity {
	e := r.CreateEntity()

	browser := ecs.AddComponent(r, e, NewEntityBrowserComponent(100))
	inspector := ecs.AddComponent(r, e, NewComponentInspectorComponent())
	pools := ecs.AddComponent(r, e, NewPoolViewerComponent())
	perf := ecs.AddComponent(r, e, NewPerformanceStatsComponent(120))
	systems := ecs.AddComponent(r, e, NewSystemViewerComponent())
	timer := ecs.AddComponent(r, e, *NewFrameTimer())

	ecs.AddComponent(r, e, ImguiItem{
		Render: func() {
			browser.Render(r)
			selected, ok := browser.GetSelectedEntity()
			inspector.Render(r, selected, ok)
			if typeName, clicked := pools.Render(r); clicked {
				browser.filterText = typeName
				browser.currentPage = 0
			}
			perf.Render(r, source, timer.GetDeltaTime())
			systems.Render(r)
		},
	})
	return e
}

func RegisterDebugUIComponents(registry *ecs.ComponentRegistry) {
	ecs.RegisterComponent[ImguiItem](registry)
	ecs.RegisterComponent[EntityBrowserComponent](registry)
	ecs.RegisterComponent[ComponentInspectorComponent](registry)
	ecs.RegisterComponent[PoolViewerComponent](registry)
	ecs.RegisterComponent[PerformanceStatsComponent](registry)
	ecs.RegisterComponent[SystemViewerComponent](registry)
	ecs.RegisterComponent[FrameTimer](registry)
}
