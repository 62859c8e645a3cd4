package server

import (
	"os"
	"runtime"

	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"

	"github.com/teranos/tagweb/errors"
	"github.com/teranos/tagweb/logger"
	"github.com/teranos/tagweb/version"
)

const bytesPerMB = 1024 * 1024

// Metrics is the live view status reported by /health
type Metrics struct {
	Status         string  `json:"status"`
	Version        string  `json:"version"`
	Clients        int     `json:"clients"`
	FramesSent     int64   `json:"frames_sent"`
	BroadcastDrops int64   `json:"broadcast_drops"`
	Steps          int64   `json:"steps"`      // Simulation steps at the last frame
	Generation     uint64  `json:"generation"` // Graph rebuilds at the last frame
	Goroutines     int     `json:"goroutines"`
	ProcessRSSMB   float64 `json:"process_rss_mb"`  // Zero when unavailable
	MemoryUsedMB   float64 `json:"memory_used_mb"`  // System-wide, zero when unavailable
	MemoryTotalMB  float64 `json:"memory_total_mb"` // System-wide, zero when unavailable
	MemoryPercent  float64 `json:"memory_percent"`
}

// Metrics collects server counters and memory usage. Memory probes that
// fail leave their fields at zero.
func (s *Server) Metrics() Metrics {
	m := Metrics{
		Status:         s.State().String(),
		Version:        version.Get().Label(),
		Clients:        s.ClientCount(),
		FramesSent:     s.framesSent.Load(),
		BroadcastDrops: s.broadcastDrops.Load(),
		Goroutines:     runtime.NumGoroutine(),
	}

	s.mu.RLock()
	if s.lastFrame != nil {
		m.Steps = s.lastFrame.Steps
		m.Generation = s.lastFrame.Generation
	}
	s.mu.RUnlock()

	if rss, err := processRSS(); err == nil {
		m.ProcessRSSMB = float64(rss) / bytesPerMB
	} else {
		s.logger.Debugw("Process memory unavailable", logger.FieldError, err)
	}
	if total, available, err := systemMemory(); err == nil && total > 0 {
		m.MemoryTotalMB = float64(total) / bytesPerMB
		m.MemoryUsedMB = float64(total-available) / bytesPerMB
		m.MemoryPercent = m.MemoryUsedMB / m.MemoryTotalMB * 100
	} else if err != nil {
		s.logger.Debugw("System memory unavailable", logger.FieldError, err)
	}
	return m
}

func systemMemory() (total, available uint64, err error) {
	v, err := mem.VirtualMemory()
	if err != nil {
		return 0, 0, errors.Wrap(err, "failed to get memory stats")
	}
	return v.Total, v.Available, nil
}

func processRSS() (uint64, error) {
	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return 0, errors.Wrap(err, "failed to open own process")
	}
	info, err := p.MemoryInfo()
	if err != nil {
		return 0, errors.Wrap(err, "failed to get process memory")
	}
	return info.RSS, nil
}
