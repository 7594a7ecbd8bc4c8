// Package memoryreader implements ports.MemoryReader against the Go
// runtime's own heap statistics, for demo wiring where no host-level
// memory API is available.
package memoryreader

import (
	"runtime"
	"time"

	"github.com/streamcore/playback/internal/domain"
)

// RuntimeMemoryReader samples runtime.MemStats and reports heap usage
// against a configured budget, in the shape a MemoryReader implementation
// expects: available/total/used bytes.
type RuntimeMemoryReader struct {
	budgetBytes uint64
}

// New creates a RuntimeMemoryReader treating budgetBytes as the ceiling
// against which heap usage is measured.
func New(budgetBytes uint64) *RuntimeMemoryReader {
	return &RuntimeMemoryReader{budgetBytes: budgetBytes}
}

// Read implements ports.MemoryReader.
func (r *RuntimeMemoryReader) Read() domain.MemoryState {
	var stats runtime.MemStats
	runtime.ReadMemStats(&stats)

	used := stats.HeapAlloc
	total := r.budgetBytes
	var available uint64
	if total > used {
		available = total - used
	}

	return domain.MemoryState{
		AvailableBytes: available,
		TotalBytes:     total,
		UsedBytes:      used,
		Timestamp:      time.Now(),
	}
}
