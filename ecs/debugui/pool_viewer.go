package debugui

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/skirmish/ecs"
)

type PoolViewerCache struct {
	pools         []ecs.PoolStats
	groups        []ecs.GroupStats
	sortColumn    int
	sortAscending bool
}

func NewPoolViewerComponent() PoolViewerComponent {
	return PoolViewerComponent{
		cache: &PoolViewerCache{
			sortColumn:    2,
			sortAscending: false,
		},
		sortColumn:    2,
		sortAscending: false,
	}
}

// Render draws one row per component pool and returns the type name of the
// row clicked this frame, if any.
func (pv *PoolViewerComponent) Render(r *ecs.Registry) (string, bool) {
	if !imgui.BeginV("Pool Viewer", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return "", false
	}

	pv.rebuildCache(r.CollectStats())

	maxEntityCount := 0
	for _, pool := range pv.cache.pools {
		maxEntityCount = max(maxEntityCount, pool.EntityCount)
	}

	var clicked string
	var ok bool

	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg | imgui.TableFlagsSortable | imgui.TableFlagsScrollY
	if imgui.BeginTableV("PoolTable", 4, tableFlags, imgui.NewVec2(0, 0), 0) {
		imgui.TableSetupColumn("Id")
		imgui.TableSetupColumn("Component")
		imgui.TableSetupColumn("Entities")
		imgui.TableSetupColumn("Slots")
		imgui.TableHeadersRow()

		sortSpecs := imgui.TableGetSortSpecs()
		if sortSpecs.SpecsDirty() && sortSpecs.SpecsCount() > 0 {
			spec := sortSpecs.Specs()
			pv.cache.sortColumn = int(spec.ColumnIndex())
			pv.cache.sortAscending = spec.SortDirection() == imgui.SortDirectionAscending
			pv.sortColumn = pv.cache.sortColumn
			pv.sortAscending = pv.cache.sortAscending
			pv.sortPools()
			sortSpecs.SetSpecsDirty(false)
		}

		for _, pool := range pv.cache.pools {
			imgui.TableNextRow()

			imgui.TableNextColumn()
			if imgui.SelectableBoolV(fmt.Sprintf("%d", pool.Id), false, imgui.SelectableFlagsSpanAllColumns, imgui.NewVec2(0, 0)) {
				clicked, ok = pool.Type, true
			}

			imgui.TableNextColumn()
			imgui.Text(pool.Type)

			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d", pool.EntityCount))

			if maxEntityCount > 0 {
				barWidth := float32(pool.EntityCount) / float32(maxEntityCount) * 80.0
				imgui.SameLine()
				drawList := imgui.WindowDrawList()
				pos := imgui.CursorScreenPos()
				color := imgui.ColorU32Vec4(imgui.NewVec4(0.2, 0.6, 0.8, 0.6))
				drawList.AddRectFilled(pos, imgui.NewVec2(pos.X+barWidth, pos.Y+10), color)
			}

			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d / %d", pool.Len, pool.Capacity))
		}

		imgui.EndTable()
	}

	if len(pv.cache.groups) > 0 && imgui.TreeNodeStr("Groups") {
		for _, group := range pv.cache.groups {
			imgui.BulletText(fmt.Sprintf("%s: %d", group.Name, group.EntityCount))
		}
		imgui.TreePop()
	}

	imgui.End()
	return clicked, ok
}

func (pv *PoolViewerComponent) rebuildCache(stats ecs.RegistryStats) {
	pv.cache.pools = stats.Pools
	pv.cache.groups = stats.Groups
	pv.sortPools()
}

func (pv *PoolViewerComponent) sortPools() {
	slices.SortStableFunc(pv.cache.pools, func(a, b ecs.PoolStats) int {
		var c int
		switch pv.cache.sortColumn {
		case 0:
			c = cmp.Compare(a.Id, b.Id)
		case 1:
			c = cmp.Compare(a.Type, b.Type)
		case 3:
			c = cmp.Compare(a.Len, b.Len)
		default:
			c = cmp.Compare(a.EntityCount, b.EntityCount)
		}
		if !pv.cache.sortAscending {
			return -c
		}
		return c
	})
}
