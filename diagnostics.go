package lgca

import (
	"math"
	"sync/atomic"
	"time"
	"unsafe"
)

// diagnostics holds ambient run instrumentation — not simulated physics,
// just step/timing counters a caller can poll without touching the
// density/velocity mutexes. The step counter uses the stdlib's typed
// atomic.Int64; the running average step duration uses a float64
// compare-and-swap loop grounded in niceyeti-tabular/atomic_helpers'
// AtomicAdd/AtomicSet (the stdlib has no atomic.Float64), since a plain
// mutex here would serialize against the hot per-step path for no
// benefit over a lock-free CAS.
type diagnostics struct {
	steps      atomic.Int64
	avgStepSec float64
}

func (d *diagnostics) recordStep(dur time.Duration) {
	n := d.steps.Add(1)
	sample := dur.Seconds()
	for {
		old := atomicReadFloat64(&d.avgStepSec)
		next := old + (sample-old)/float64(n)
		if atomicCASFloat64(&d.avgStepSec, old, next) {
			return
		}
	}
}

// Stats is a snapshot of a SimRunner's ambient diagnostics.
type Stats struct {
	Steps          int64
	AvgStepSeconds float64
}

func (d *diagnostics) snapshot() Stats {
	return Stats{
		Steps:          d.steps.Load(),
		AvgStepSeconds: atomicReadFloat64(&d.avgStepSec),
	}
}

func atomicReadFloat64(val *float64) float64 {
	return math.Float64frombits(atomic.LoadUint64((*uint64)(unsafe.Pointer(val))))
}

func atomicCASFloat64(val *float64, old, new float64) bool {
	return atomic.CompareAndSwapUint64(
		(*uint64)(unsafe.Pointer(val)),
		math.Float64bits(old),
		math.Float64bits(new),
	)
}
