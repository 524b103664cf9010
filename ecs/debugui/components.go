package debugui

import (
	"github.com/plus3/skirmish/ecs"
)

type EntityBrowserComponent struct {
	cache              *EntityBrowserCache
	selected           ecs.Entity
	hasSelection       bool
	filterText         string
	maxEntitiesPerPage int
	currentPage        int
}

type ComponentInspectorComponent struct{}

type PoolViewerComponent struct {
	cache         *PoolViewerCache
	sortColumn    int
	sortAscending bool
}

type PerformanceStatsComponent struct {
	historyFrames int
	frameHistory  []float32
	frameIndex    int
}

type SystemViewerComponent struct {
	selectedComponentTypes map[string]bool
}
