// Package memprofile measures how much memory a loaded dataset occupies, so
// different in-memory representations of the same file can be compared.
package memprofile

import (
	"os"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"
	"go.uber.org/zap"

	"github.com/ajitpratap0/tabula/pkg/errors"
)

// Snapshot is the memory state of the process at one instant
type Snapshot struct {
	HeapAlloc     uint64  // live heap bytes
	TotalAlloc    uint64  // cumulative bytes allocated
	Mallocs       uint64  // cumulative heap objects allocated
	RSS           uint64  // resident set size, 0 when unavailable
	SystemPercent float64 // system memory in use, 0 when unavailable
}

// ResourceMonitor reads runtime and OS memory figures for this process
type ResourceMonitor struct {
	process *process.Process
	logger  *zap.Logger
}

// NewResourceMonitor creates a monitor for the current process. OS figures
// are skipped when the process cannot be inspected.
func NewResourceMonitor(log *zap.Logger) *ResourceMonitor {
	if log == nil {
		log = zap.NewNop()
	}
	proc, err := process.NewProcess(int32(os.Getpid())) //nolint:gosec // pid fits in int32
	if err != nil {
		log.Debug("process stats unavailable", zap.Error(err))
	}
	return &ResourceMonitor{process: proc, logger: log}
}

// Snapshot collects garbage first so HeapAlloc reflects live data only
func (rm *ResourceMonitor) Snapshot() Snapshot {
	runtime.GC()

	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	s := Snapshot{
		HeapAlloc:  ms.HeapAlloc,
		TotalAlloc: ms.TotalAlloc,
		Mallocs:    ms.Mallocs,
	}

	if rm.process != nil {
		if info, err := rm.process.MemoryInfo(); err == nil {
			s.RSS = info.RSS
		} else {
			rm.logger.Debug("rss unavailable", zap.Error(err))
		}
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		s.SystemPercent = vm.UsedPercent
	}
	return s
}

// Result reports the cost of holding one loaded dataset
type Result struct {
	Representation string        `json:"representation" table:"representation"`
	Records        int           `json:"records" table:"records"`
	Retained       int64         `json:"retained_bytes" table:"retained"`
	Allocated      uint64        `json:"allocated_bytes" table:"allocated"`
	Objects        uint64        `json:"objects" table:"objects"`
	RSSDelta       int64         `json:"rss_delta_bytes" table:"rss_delta"`
	Elapsed        time.Duration `json:"elapsed_ns" table:"elapsed"`
}

// PerRecord is the retained heap divided by the number of records
func (r Result) PerRecord() float64 {
	if r.Records == 0 {
		return 0
	}
	return float64(r.Retained) / float64(r.Records)
}

// Loader produces a dataset. The returned value is kept reachable until the
// measurement is taken; if it has a Release method, that is called after.
type Loader struct {
	Name string
	Load func() (any, int, error)
}

type releaser interface {
	Release()
}

// Measure runs l and reports the memory its result retains
func (rm *ResourceMonitor) Measure(l Loader) (Result, error) {
	before := rm.Snapshot()
	start := time.Now()

	data, n, err := l.Load()
	if err != nil {
		return Result{}, errors.Wrap(err, errors.ErrorTypeInternal, "loader failed").
			WithDetail("representation", l.Name)
	}
	elapsed := time.Since(start)
	after := rm.Snapshot()
	runtime.KeepAlive(data)

	if r, ok := data.(releaser); ok {
		r.Release()
	}

	res := Result{
		Representation: l.Name,
		Records:        n,
		Retained:       int64(after.HeapAlloc) - int64(before.HeapAlloc), //nolint:gosec // heap sizes fit in int64
		Allocated:      after.TotalAlloc - before.TotalAlloc,
		Objects:        after.Mallocs - before.Mallocs,
		RSSDelta:       int64(after.RSS) - int64(before.RSS), //nolint:gosec // rss fits in int64
		Elapsed:        elapsed,
	}
	rm.logger.Debug("measured representation",
		zap.String("representation", l.Name),
		zap.Int("records", n),
		zap.Int64("retained", res.Retained),
		zap.Duration("elapsed", elapsed))
	return res, nil
}

// Compare measures each loader in turn. The first failing loader stops the
// comparison.
func (rm *ResourceMonitor) Compare(loaders []Loader) ([]Result, error) {
	results := make([]Result, 0, len(loaders))
	for _, l := range loaders {
		res, err := rm.Measure(l)
		if err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, nil
}
