package main

import (
	"fmt"
	"io"
	"runtime"
	"slices"
	"text/template"
	"time"

	"github.com/goccy/go-json"
)

type Report struct {
	// Configuration
	Duration       time.Duration `json:"duration"`
	Entities       int           `json:"entities"`
	Components     int           `json:"components"`
	Systems        int           `json:"systems"`
	OpsPerFrame    int           `json:"opsPerFrame"`
	Seed           uint64        `json:"seed"`
	GCPauseMetrics bool          `json:"-"`

	// Results
	TotalUpdates  int64            `json:"totalUpdates"`
	TotalTime     time.Duration    `json:"totalTime"`
	UpdateTime    Stats            `json:"updateTime"`
	Churn         Churn            `json:"churn"`
	FinalEntities int              `json:"finalEntities"`
	MemStatsStart runtime.MemStats `json:"-"`
	MemStatsEnd   runtime.MemStats `json:"-"`
}

type Stats struct {
	Min     time.Duration   `json:"min"`
	Max     time.Duration   `json:"max"`
	Avg     time.Duration   `json:"avg"`
	P99     time.Duration   `json:"p99"`
	Samples []time.Duration `json:"-"`
}

func (s *Stats) Finalize() {
	if len(s.Samples) == 0 {
		return
	}

	var total time.Duration
	s.Min = s.Samples[0]
	s.Max = s.Samples[0]

	for _, sample := range s.Samples {
		if sample < s.Min {
			s.Min = sample
		}
		if sample > s.Max {
			s.Max = sample
		}
		total += sample
	}
	s.Avg = total / time.Duration(len(s.Samples))

	sorted := slices.Clone(s.Samples)
	slices.Sort(sorted)
	s.P99 = sorted[(len(sorted)-1)*99/100]
}

type memoryReport struct {
	HeapAllocDelta  int64  `json:"heapAllocDelta"`
	TotalAllocDelta int64  `json:"totalAllocDelta"`
	SysDelta        int64  `json:"sysDelta"`
	NumGC           uint32 `json:"numGC"`
	PauseTotal      string `json:"pauseTotal,omitempty"`
}

func (r *Report) memory() memoryReport {
	m := memoryReport{
		HeapAllocDelta:  int64(r.MemStatsEnd.HeapAlloc) - int64(r.MemStatsStart.HeapAlloc),
		TotalAllocDelta: int64(r.MemStatsEnd.TotalAlloc) - int64(r.MemStatsStart.TotalAlloc),
		SysDelta:        int64(r.MemStatsEnd.Sys) - int64(r.MemStatsStart.Sys),
		NumGC:           r.MemStatsEnd.NumGC - r.MemStatsStart.NumGC,
	}
	if r.GCPauseMetrics {
		m.PauseTotal = time.Duration(r.MemStatsEnd.PauseTotalNs - r.MemStatsStart.PauseTotalNs).String()
	}
	return m
}

// WriteJSON encodes the report with its memory deltas.
func (r *Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(struct {
		*Report
		Memory memoryReport `json:"memory"`
	}{r, r.memory()})
}

func (r *Report) Generate(w io.Writer) error {
	const reportTemplate = `
# ECS Stress Test Report

## Test Configuration
- **Run Duration:** {{.Duration}}
- **Initial Entities:** {{.Entities}}
- **Component Types:** {{.Components}}
- **Systems:** {{.Systems}}
- **Operations per Frame:** {{.OpsPerFrame}}
- **Seed:** {{.Seed}}

## Performance Results
- **Total Updates:** {{.TotalUpdates}}
- **Total Test Time:** {{.TotalTime}}
- **Update Time (Frame):**
  - **Avg:** {{.UpdateTime.Avg}}
  - **Min:** {{.UpdateTime.Min}}
  - **Max:** {{.UpdateTime.Max}}
  - **P99:** {{.UpdateTime.P99}}

## Churn
- Created: {{.Churn.Created}}
- Killed:  {{.Churn.Killed}}
- Added:   {{.Churn.Added}}
- Removed: {{.Churn.Removed}}
- Live at end: {{.FinalEntities}}

## Memory Usage (Raw Bytes)
- Heap Alloc:     {{.MemStatsStart.HeapAlloc}} (start) -> {{.MemStatsEnd.HeapAlloc}} (end) -> delta: {{bsub .MemStatsEnd.HeapAlloc .MemStatsStart.HeapAlloc}} ({{mb .MemStatsEnd.HeapAlloc}} MiB)
- Total Alloc:    {{.MemStatsStart.TotalAlloc}} (start) -> {{.MemStatsEnd.TotalAlloc}} (end) -> delta: {{bsub .MemStatsEnd.TotalAlloc .MemStatsStart.TotalAlloc}}
- Sys Memory:     {{.MemStatsStart.Sys}} (start) -> {{.MemStatsEnd.Sys}} (end) -> delta: {{bsub .MemStatsEnd.Sys .MemStatsStart.Sys}}
- Num GC:         {{.MemStatsStart.NumGC}} (start) -> {{.MemStatsEnd.NumGC}} (end) -> delta: {{usub .MemStatsEnd.NumGC .MemStatsStart.NumGC}}

{{if .GCPauseMetrics}}
## GC Pause Durations
- **Total GC Pause:** {{.MemStatsEnd.PauseTotalNs | ns}}
- **Num GC Cycles:** {{ usub .MemStatsEnd.NumGC .MemStatsStart.NumGC }}
{{end}}
`

	fm := template.FuncMap{
		"mb": func(v any) string {
			switch val := v.(type) {
			case uint64:
				return fmt.Sprintf("%.2f", float64(val)/1024/1024)
			case int64:
				return fmt.Sprintf("%.2f", float64(val)/1024/1024)
			default:
				return "N/A"
			}
		},
		"bsub": func(a, b uint64) int64 {
			return int64(a) - int64(b)
		},
		"usub": func(a, b uint32) uint32 {
			return a - b
		},
		"ns": func(ns uint64) string {
			return time.Duration(ns).String()
		},
	}

	tmpl, err := template.New("report").Funcs(fm).Parse(reportTemplate)
	if err != nil {
		return err
	}

	return tmpl.Execute(w, r)
}
