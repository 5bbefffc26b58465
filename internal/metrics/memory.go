package metrics

import (
	"runtime"

	"github.com/agbru/bootload/internal/logging"
)

// MemorySnapshot holds a point-in-time memory reading.
type MemorySnapshot struct {
	HeapAlloc    uint64 // bytes in use by the client
	Sys          uint64 // total bytes obtained from the OS
	NumGC        uint32 // completed GC cycles
	HeapObjects  uint64 // allocated heap objects
	NumGoroutine int
}

// MemoryCollector reads runtime memory statistics.
type MemoryCollector struct{}

// NewMemoryCollector creates a new memory collector.
func NewMemoryCollector() *MemoryCollector {
	return &MemoryCollector{}
}

// Snapshot reads current memory statistics.
func (mc *MemoryCollector) Snapshot() MemorySnapshot {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return MemorySnapshot{
		HeapAlloc:    m.HeapAlloc,
		Sys:          m.Sys,
		NumGC:        m.NumGC,
		HeapObjects:  m.HeapObjects,
		NumGoroutine: runtime.NumGoroutine(),
	}
}

// Fields renders the snapshot as log fields, logged next to the load
// outcome.
func (s MemorySnapshot) Fields() []logging.Field {
	return []logging.Field{
		logging.Uint64("heap_alloc_bytes", s.HeapAlloc),
		logging.Uint64("sys_bytes", s.Sys),
		logging.Int("num_gc", int(s.NumGC)),
		logging.Uint64("heap_objects", s.HeapObjects),
		logging.Int("goroutines", s.NumGoroutine),
	}
}
