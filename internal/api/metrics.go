package api

import (
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/annel0/map-editor/internal/project"
	"github.com/annel0/map-editor/internal/world"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/process"
)

// ServerStats снимок состояния редактора для GET /api/server
type ServerStats struct {
	Uptime        string       `json:"uptime"`
	UptimeSeconds int64        `json:"uptimeSeconds"`
	Started       time.Time    `json:"started"`
	Process       ProcessStats `json:"process"`
	Project       ProjectStats `json:"project"`
	ExportCache   CacheStats   `json:"exportCache"`
}

// ProcessStats память и CPU процесса редактора
type ProcessStats struct {
	AllocMB    float64  `json:"allocMb"`
	HeapMB     float64  `json:"heapMb"`
	SysMB      float64  `json:"sysMb"`
	NumGC      uint32   `json:"numGc"`
	Goroutines int      `json:"goroutines"`
	CPUPercent *float64 `json:"cpuPercent,omitempty"`
}

// ProjectStats объём открытого проекта по слоям
type ProjectStats struct {
	Name       string `json:"name"`
	Revision   uint64 `json:"revision"`
	Chunks     int    `json:"chunks"`
	Heightmaps int    `json:"heightmaps"`
	Attributes int    `json:"attributes"`
	Objects    int    `json:"objects"`
	Spawns     int    `json:"spawns"`
	UndoSteps  int    `json:"undoSteps"`
	RedoSteps  int    `json:"redoSteps"`
}

// CacheStats попадания в кэш экспорта файлов чанков
type CacheStats struct {
	Hits     uint64  `json:"hits"`
	Misses   uint64  `json:"misses"`
	HitRatio float64 `json:"hitRatio"`
}

// ServerMetrics считает сведения о процессе и проекте
type ServerMetrics struct {
	StartTime time.Time
}

// NewServerMetrics фиксирует момент запуска
func NewServerMetrics() *ServerMetrics {
	return &ServerMetrics{StartTime: time.Now()}
}

// GetUptime время работы в виде "1д 2ч 3м 4с"
func (sm *ServerMetrics) GetUptime() string {
	uptime := time.Since(sm.StartTime)

	days := int(uptime.Hours()) / 24
	hours := int(uptime.Hours()) % 24
	minutes := int(uptime.Minutes()) % 60
	seconds := int(uptime.Seconds()) % 60

	switch {
	case days > 0:
		return fmt.Sprintf("%dд %dч %dм %dс", days, hours, minutes, seconds)
	case hours > 0:
		return fmt.Sprintf("%dч %dм %dс", hours, minutes, seconds)
	case minutes > 0:
		return fmt.Sprintf("%dм %dс", minutes, seconds)
	default:
		return fmt.Sprintf("%dс", seconds)
	}
}

// AllocMB занятая куча в мегабайтах
func (sm *ServerMetrics) AllocMB() float64 {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return toMB(m.Alloc)
}

// processCPU загрузка CPU процессом; при ошибке берётся системная
func processCPU() (float64, bool) {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err == nil {
		if percent, err := proc.CPUPercent(); err == nil {
			return percent, true
		}
	}
	percents, err := cpu.Percent(100*time.Millisecond, false)
	if err != nil || len(percents) == 0 {
		return 0, false
	}
	return percents[0], true
}

// Snapshot собирает сведения о процессе, проекте p и кэше экспорта
func (sm *ServerMetrics) Snapshot(p *project.Project, cache *ExportCache) ServerStats {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	stats := ServerStats{
		Uptime:        sm.GetUptime(),
		UptimeSeconds: int64(time.Since(sm.StartTime).Seconds()),
		Started:       sm.StartTime.UTC(),
		Process: ProcessStats{
			AllocMB:    toMB(m.Alloc),
			HeapMB:     toMB(m.HeapAlloc),
			SysMB:      toMB(m.Sys),
			NumGC:      m.NumGC,
			Goroutines: runtime.NumGoroutine(),
		},
		Project: projectStats(p),
	}
	if percent, ok := processCPU(); ok {
		stats.Process.CPUPercent = &percent
	}
	if cache != nil {
		hits, misses := cache.Stats()
		stats.ExportCache = CacheStats{Hits: hits, Misses: misses}
		if total := hits + misses; total > 0 {
			stats.ExportCache.HitRatio = float64(hits) / float64(total)
		}
	}
	return stats
}

func projectStats(p *project.Project) ProjectStats {
	out := ProjectStats{Name: p.Name, Revision: p.Revision}
	for _, key := range p.ChunkKeys() {
		chunk := p.Chunk(key)
		out.Chunks++
		if chunk.Heightmap != nil {
			out.Heightmaps++
		}
		if chunk.Attributes != nil {
			out.Attributes++
		}
		out.Objects += len(chunk.Objects)
		out.UndoSteps += p.UndoDepth(key)
		out.RedoSteps += p.RedoDepth(key)
	}
	for _, c := range world.AllCategories {
		out.Spawns += len(p.Spawns.Get(c))
	}
	return out
}

func toMB(b uint64) float64 {
	return float64(b) / 1024 / 1024
}
