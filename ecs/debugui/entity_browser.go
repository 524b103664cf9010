package debugui

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/skirmish/ecs"
)

type EntityInfo struct {
	Entity         ecs.Entity
	Tag            string
	Group          string
	Pending        bool
	ComponentTypes []string
	ComponentCount int
}

type EntityBrowserCache struct {
	entities      []EntityInfo
	sortColumn    int
	sortAscending bool
}

func NewEntityBrowserComponent(maxEntitiesPerPage int) EntityBrowserComponent {
	return EntityBrowserComponent{
		cache: &EntityBrowserCache{
			sortColumn:    0,
			sortAscending: true,
		},
		maxEntitiesPerPage: maxEntitiesPerPage,
	}
}

func (eb *EntityBrowserComponent) Render(r *ecs.Registry) {
	if !imgui.BeginV("Entity Browser", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	eb.rebuildCache(r)

	imgui.InputTextWithHint("##search", "Search...", &eb.filterText, imgui.InputTextFlagsNone, nil)
	imgui.SameLine()
	if imgui.Button("Clear Filter") {
		eb.filterText = ""
	}

	filteredEntities := eb.getFilteredEntities()

	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg | imgui.TableFlagsSortable | imgui.TableFlagsScrollY
	if imgui.BeginTableV("EntityTable", 4, tableFlags, imgui.NewVec2(0, 0), 0) {
		imgui.TableSetupColumn("Entity")
		imgui.TableSetupColumn("Tag / Group")
		imgui.TableSetupColumn("Components")
		imgui.TableSetupColumn("Count")
		imgui.TableHeadersRow()

		sortSpecs := imgui.TableGetSortSpecs()
		if sortSpecs.SpecsDirty() && sortSpecs.SpecsCount() > 0 {
			spec := sortSpecs.Specs()
			eb.cache.sortColumn = int(spec.ColumnIndex())
			eb.cache.sortAscending = spec.SortDirection() == imgui.SortDirectionAscending
			eb.sortEntities()
			filteredEntities = eb.getFilteredEntities()
			sortSpecs.SetSpecsDirty(false)
		}

		startIdx := min(eb.currentPage*eb.maxEntitiesPerPage, len(filteredEntities))
		endIdx := min(startIdx+eb.maxEntitiesPerPage, len(filteredEntities))

		for _, entity := range filteredEntities[startIdx:endIdx] {
			imgui.TableNextRow()

			imgui.TableNextColumn()
			isSelected := eb.hasSelection && eb.selected == entity.Entity
			label := entity.Entity.String()
			if entity.Pending {
				label += " (pending)"
			}
			if imgui.SelectableBoolV(label, isSelected, imgui.SelectableFlagsSpanAllColumns, imgui.NewVec2(0, 0)) {
				eb.selected = entity.Entity
				eb.hasSelection = true
			}

			imgui.TableNextColumn()
			imgui.Text(tagAndGroup(entity))

			imgui.TableNextColumn()
			imgui.Text(strings.Join(entity.ComponentTypes, ", "))

			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d", entity.ComponentCount))
		}

		imgui.EndTable()
	}

	if len(filteredEntities) > eb.maxEntitiesPerPage {
		totalPages := (len(filteredEntities) + eb.maxEntitiesPerPage - 1) / eb.maxEntitiesPerPage
		imgui.Text(fmt.Sprintf("Page %d / %d (%d entities)", eb.currentPage+1, totalPages, len(filteredEntities)))
		imgui.SameLine()
		if imgui.Button("Prev") && eb.currentPage > 0 {
			eb.currentPage--
		}
		imgui.SameLine()
		if imgui.Button("Next") && eb.currentPage < totalPages-1 {
			eb.currentPage++
		}
	} else {
		eb.currentPage = 0
		imgui.Text(fmt.Sprintf("Total: %d entities", len(filteredEntities)))
	}

	imgui.End()
}

func tagAndGroup(info EntityInfo) string {
	switch {
	case info.Tag != "" && info.Group != "":
		return info.Tag + " / " + info.Group
	case info.Tag != "":
		return info.Tag
	}
	return info.Group
}

// rebuildCache snapshots every entity. Entities churn without changing the
// total count, so the snapshot is taken on every render.
func (eb *EntityBrowserComponent) rebuildCache(r *ecs.Registry) {
	eb.cache.entities = eb.cache.entities[:0]

	for e := range r.Entities() {
		types := r.ComponentsOf(e)
		names := make([]string, len(types))
		for i, t := range types {
			names[i] = t.String()
		}
		tag, _ := r.TagOf(e)
		group, _ := r.GroupOf(e)

		eb.cache.entities = append(eb.cache.entities, EntityInfo{
			Entity:         e,
			Tag:            tag,
			Group:          group,
			Pending:        r.IsPending(e),
			ComponentTypes: names,
			ComponentCount: len(names),
		})
	}

	if eb.hasSelection && !r.IsAlive(eb.selected) {
		eb.hasSelection = false
	}

	eb.sortEntities()
}

func (eb *EntityBrowserComponent) sortEntities() {
	slices.SortStableFunc(eb.cache.entities, func(a, b EntityInfo) int {
		var c int
		switch eb.cache.sortColumn {
		case 1:
			c = cmp.Compare(tagAndGroup(a), tagAndGroup(b))
		case 2:
			c = cmp.Compare(strings.Join(a.ComponentTypes, ","), strings.Join(b.ComponentTypes, ","))
		case 3:
			c = cmp.Compare(a.ComponentCount, b.ComponentCount)
		}
		if c == 0 {
			c = cmp.Compare(a.Entity.Id, b.Entity.Id)
		}
		if !eb.cache.sortAscending {
			return -c
		}
		return c
	})
}

func (eb *EntityBrowserComponent) getFilteredEntities() []EntityInfo {
	if eb.filterText == "" {
		return eb.cache.entities
	}

	filtered := make([]EntityInfo, 0, len(eb.cache.entities))
	filterLower := strings.ToLower(eb.filterText)

	for _, entity := range eb.cache.entities {
		idStr := fmt.Sprintf("%d", entity.Entity.Id)
		nameStr := strings.ToLower(tagAndGroup(entity))
		componentsStr := strings.ToLower(strings.Join(entity.ComponentTypes, " "))

		if !strings.Contains(idStr, filterLower) &&
			!strings.Contains(nameStr, filterLower) &&
			!strings.Contains(componentsStr, filterLower) {
			continue
		}

		filtered = append(filtered, entity)
	}

	return filtered
}

// GetSelectedEntity returns the entity picked in the table, if any.
func (eb *EntityBrowserComponent) GetSelectedEntity() (ecs.Entity, bool) {
	return eb.selected, eb.hasSelection
}
