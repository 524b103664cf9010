package debugui

import (
	"fmt"
	"time"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/skirmish/ecs"
)

// StatsSource supplies per-system timings, usually an *ecs.Scheduler.
type StatsSource interface {
	GetStats() *ecs.SchedulerStats
}

func NewPerformanceStatsComponent(historyFrames int) PerformanceStatsComponent {
	return PerformanceStatsComponent{
		historyFrames: historyFrames,
		frameHistory:  make([]float32, historyFrames),
		frameIndex:    0,
	}
}

// record stores a frame time and returns the mean over the history window in
// milliseconds.
func (ps *PerformanceStatsComponent) record(deltaTime float32) float32 {
	ps.frameHistory[ps.frameIndex] = deltaTime * 1000.0
	ps.frameIndex = (ps.frameIndex + 1) % ps.historyFrames

	var avgFrameTime float32
	for _, ft := range ps.frameHistory {
		avgFrameTime += ft
	}
	return avgFrameTime / float32(ps.historyFrames)
}

func (ps *PerformanceStatsComponent) Render(r *ecs.Registry, source StatsSource, deltaTime float32) {
	if !imgui.BeginV("Performance Stats", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	avgFrameTime := ps.record(deltaTime)
	stats := r.CollectStats()

	imgui.Text(fmt.Sprintf("Live Entities: %d", stats.LiveEntityCount))
	imgui.Text(fmt.Sprintf("Pending: +%d / -%d", stats.PendingAddCount, stats.PendingKillCount))
	imgui.Text(fmt.Sprintf("Ids: %d allocated, %d free", stats.IdCapacity, stats.FreeIdCount))
	imgui.Text(fmt.Sprintf("Tags: %d  Groups: %d  Singletons: %d", stats.TagCount, stats.GroupCount, stats.SingletonCount))

	if avgFrameTime > 0 {
		imgui.Text(fmt.Sprintf("Avg Frame Time: %.2f ms (%.0f FPS)", avgFrameTime, 1000.0/avgFrameTime))
	}

	imgui.Separator()
	imgui.Text("Frame Time Graph (ms)")
	imgui.PlotLinesFloatPtr("##frametime", &ps.frameHistory[0], int32(len(ps.frameHistory)))

	if source != nil && imgui.TreeNodeStr("System Timings") {
		sched := source.GetStats()
		imgui.Text(fmt.Sprintf("Frames: %d  Elapsed: %s", sched.Frames, sched.Elapsed.Truncate(time.Millisecond)))

		const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg
		if imgui.BeginTableV("SystemTimingTable", 5, tableFlags, imgui.NewVec2(0, 0), 0) {
			imgui.TableSetupColumn("System")
			imgui.TableSetupColumn("Phase")
			imgui.TableSetupColumn("Last")
			imgui.TableSetupColumn("Avg")
			imgui.TableSetupColumn("Max")
			imgui.TableHeadersRow()

			for _, sys := range sched.Systems {
				imgui.TableNextRow()
				imgui.TableNextColumn()
				imgui.Text(sys.Name)
				imgui.TableNextColumn()
				imgui.Text(sys.Phase.String())
				imgui.TableNextColumn()
				imgui.Text(sys.LastDuration.String())
				imgui.TableNextColumn()
				imgui.Text(sys.AvgDuration.String())
				imgui.TableNextColumn()
				imgui.Text(sys.MaxDuration.String())
			}

			imgui.EndTable()
		}
		imgui.TreePop()
	}

	if imgui.TreeNodeStr("Singleton Details") {
		for _, singletonType := range stats.SingletonTypes {
			imgui.BulletText(singletonType)
		}
		imgui.TreePop()
	}

	imgui.End()
}

type FrameTimer struct {
	lastFrameTime time.Time
}

func NewFrameTimer() *FrameTimer {
	return &FrameTimer{
		lastFrameTime: time.Now(),
	}
}

func (ft *FrameTimer) GetDeltaTime() float32 {
	now := time.Now()
	delta := float32(now.Sub(ft.lastFrameTime).Seconds())
	ft.lastFrameTime = now
	return delta
}
