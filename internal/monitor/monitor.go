// Package monitor samples process heap usage on an interval and on demand,
// raising a fatal error when usage exceeds a configured ceiling (spec.md
// §4.4). Every sample reads runtime.ReadMemStats, which Go always
// provides, so the package has no fallback path for hosts without a heap
// introspection facility.
package monitor

import (
	"runtime"
	"sync"
	"time"

	"github.com/scriptlab/engine/internal/enginerr"
)

// Stats is the snapshot returned by (*ResourceMonitor).Stats.
type Stats struct {
	SampleCount  int
	MaxUsedBytes uint64
	LastUsed     uint64
	MaxBytes     uint64
}

// ResourceMonitor samples heap usage at CheckIntervalMs and on every manual
// Check call (used by importScript per spec.md §4.9).
type ResourceMonitor struct {
	maxMemoryBytes  uint64
	checkIntervalMs int

	mu          sync.Mutex
	running     bool
	sampleCount int
	maxUsed     uint64
	lastUsed    uint64
	stopCh      chan struct{}
	wg          sync.WaitGroup

	onWarning func(usedBytes, maxBytes uint64)
}

// New constructs a ResourceMonitor. onWarning, if non-nil, is invoked every
// fifth sample at >=80% utilisation (spec.md §4.4).
func New(maxMemoryBytes uint64, checkIntervalMs int, onWarning func(usedBytes, maxBytes uint64)) *ResourceMonitor {
	return &ResourceMonitor{
		maxMemoryBytes:  maxMemoryBytes,
		checkIntervalMs: checkIntervalMs,
		onWarning:       onWarning,
	}
}

// Start begins periodic sampling. Calling Start on an already-running
// monitor is a no-op.
func (m *ResourceMonitor) Start() {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return
	}
	m.running = true
	m.stopCh = make(chan struct{})
	stopCh := m.stopCh
	m.mu.Unlock()

	interval := time.Duration(m.checkIntervalMs) * time.Millisecond
	if interval <= 0 {
		interval = time.Second
	}

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				_ = m.sample()
			case <-stopCh:
				return
			}
		}
	}()
}

// Stop halts periodic sampling. Safe to call multiple times.
func (m *ResourceMonitor) Stop() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	m.running = false
	close(m.stopCh)
	m.mu.Unlock()
	m.wg.Wait()
}

// Check triggers a manual sample, used by importScript on every entry
// (spec.md §4.9 "Manual resource sample via the monitor").
func (m *ResourceMonitor) Check() error {
	return m.sample()
}

func (m *ResourceMonitor) sample() error {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)
	used := memStats.HeapAlloc

	m.mu.Lock()
	m.sampleCount++
	count := m.sampleCount
	m.lastUsed = used
	if used > m.maxUsed {
		m.maxUsed = used
	}
	m.mu.Unlock()

	if m.maxMemoryBytes > 0 && count%5 == 0 {
		ratio := float64(used) / float64(m.maxMemoryBytes)
		if ratio >= 0.8 && m.onWarning != nil {
			m.onWarning(used, m.maxMemoryBytes)
		}
	}

	if m.maxMemoryBytes > 0 && used > m.maxMemoryBytes {
		return enginerr.New(enginerr.Resource, "memory limit exceeded: used %.2fMiB, limit %.2fMiB", toMiB(used), toMiB(m.maxMemoryBytes))
	}
	return nil
}

// Stats returns a snapshot of observed usage.
func (m *ResourceMonitor) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Stats{
		SampleCount:  m.sampleCount,
		MaxUsedBytes: m.maxUsed,
		LastUsed:     m.lastUsed,
		MaxBytes:     m.maxMemoryBytes,
	}
}

// Dispose stops the monitor and releases its resources. Safe to call
// without a prior Start.
func (m *ResourceMonitor) Dispose() {
	m.Stop()
}

func toMiB(b uint64) float64 {
	return float64(b) / (1024 * 1024)
}
