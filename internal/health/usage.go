// Package health reports process resource usage for the health endpoint.
package health

import (
	"os"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"
)

// ResourceUsage is a point-in-time view of the service's footprint
type ResourceUsage struct {
	UptimeSeconds        float64 `json:"uptime_seconds"`
	RSSBytes             uint64  `json:"rss_bytes"`
	HeapAllocBytes       uint64  `json:"heap_alloc_bytes"`
	Goroutines           int     `json:"goroutines"`
	GCCount              uint32  `json:"gc_count"`
	SystemMemUsedPercent float64 `json:"system_mem_used_percent"`
}

// Monitor samples resource usage relative to a start time.
type Monitor struct {
	startedAt time.Time
	proc      *process.Process
}

// NewMonitor starts the uptime clock for the current process.
func NewMonitor() *Monitor {
	m := &Monitor{startedAt: time.Now()}
	// RSS is omitted when the process handle is unavailable on this platform.
	if p, err := process.NewProcess(int32(os.Getpid())); err == nil {
		m.proc = p
	}
	return m
}

// Usage returns current resource usage
func (m *Monitor) Usage() ResourceUsage {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	usage := ResourceUsage{
		UptimeSeconds:  time.Since(m.startedAt).Seconds(),
		HeapAllocBytes: ms.HeapAlloc,
		Goroutines:     runtime.NumGoroutine(),
		GCCount:        ms.NumGC,
	}

	if m.proc != nil {
		if info, err := m.proc.MemoryInfo(); err == nil {
			usage.RSSBytes = info.RSS
		}
	}

	if vm, err := mem.VirtualMemory(); err == nil {
		usage.SystemMemUsedPercent = vm.UsedPercent
	}

	return usage
}
