package ecs

import "sort"

// RegistryStats is a snapshot of registry occupancy for diagnostics.
type RegistryStats struct {
	LiveEntityCount    int
	PendingAddCount    int
	PendingKillCount   int
	FreeIdCount        int
	IdCapacity         int
	ComponentTypeCount int
	SystemCount        int
	TagCount           int
	GroupCount         int
	SingletonCount     int
	SingletonTypes     []string
	Pools              []PoolStats
	Groups             []GroupStats
	Systems            []SystemInfo
}

// PoolStats describes one component pool.
type PoolStats struct {
	Id          ComponentId
	Type        string
	EntityCount int
	Len         int
	Capacity    int
}

// GroupStats describes one entity group.
type GroupStats struct {
	Name        string
	EntityCount int
}

// CollectStats gathers a RegistryStats snapshot. It walks every signature
// and is meant for tooling, not per-entity hot paths.
func (r *Registry) CollectStats() RegistryStats {
	stats := RegistryStats{
		PendingAddCount:    len(r.pendingAdd),
		PendingKillCount:   len(r.pendingKill),
		FreeIdCount:        len(r.freeIds),
		IdCapacity:         int(r.numEntities),
		ComponentTypeCount: r.components.Len(),
		SystemCount:        len(r.systemOrder),
		TagCount:           len(r.tags.byName),
		GroupCount:         len(r.groups.members),
		SingletonCount:     len(r.singletons),
		SingletonTypes:     r.SingletonTypes(),
		Systems:            r.Systems(),
	}
	sort.Strings(stats.SingletonTypes)

	counts := make([]int, r.components.Len())
	for i, state := range r.states {
		if state == stateFree {
			continue
		}
		if state == stateLive {
			stats.LiveEntityCount++
		}
		for id := range r.signatures[i].Ids() {
			counts[id]++
		}
	}

	for id, t := range r.components.types {
		ps := PoolStats{
			Id:          ComponentId(id),
			Type:        t.String(),
			EntityCount: counts[id],
		}
		if id < len(r.pools) && r.pools[id] != nil {
			ps.Len = r.pools[id].Len()
			ps.Capacity = r.pools[id].Len()
			if c, ok := r.pools[id].(interface{ Cap() int }); ok {
				ps.Capacity = c.Cap()
			}
		}
		stats.Pools = append(stats.Pools, ps)
	}

	for name, set := range r.groups.members {
		stats.Groups = append(stats.Groups, GroupStats{Name: name, EntityCount: set.Len()})
	}
	sort.Slice(stats.Groups, func(i, j int) bool {
		return stats.Groups[i].Name < stats.Groups[j].Name
	})

	return stats
}
