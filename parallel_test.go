package lgca

import (
	"sync/atomic"
	"testing"
)

func TestThreadFanOutCoversAllRowsExactlyOnce(t *testing.T) {
	const total = 37
	hits := make([]int32, total)

	err := ThreadFanOut(4, total, func(_, from, to int) {
		for y := from; y < to; y++ {
			atomic.AddInt32(&hits[y], 1)
		}
	})
	if err != nil {
		t.Fatalf("ThreadFanOut: %v", err)
	}
	for y, h := range hits {
		if h != 1 {
			t.Errorf("row %d hit %d times, want 1", y, h)
		}
	}
}

func TestThreadFanOutLastBandAbsorbsRemainder(t *testing.T) {
	var maxTo int32
	err := ThreadFanOut(3, 10, func(_, from, to int) {
		if int32(to) > atomic.LoadInt32(&maxTo) {
			atomic.StoreInt32(&maxTo, int32(to))
		}
	})
	if err != nil {
		t.Fatalf("ThreadFanOut: %v", err)
	}
	if maxTo != 10 {
		t.Errorf("max band end = %d, want 10", maxTo)
	}
}

func TestThreadFanOutJoinsWorkerPanics(t *testing.T) {
	err := ThreadFanOut(2, 4, func(band, from, to int) {
		panic("boom")
	})
	if err == nil {
		t.Fatal("expected a joined error from panicking workers")
	}
}

func TestThreadFanOutZeroTotalIsNoop(t *testing.T) {
	called := false
	err := ThreadFanOut(4, 0, func(_, _, _ int) { called = true })
	if err != nil {
		t.Fatalf("ThreadFanOut: %v", err)
	}
	if called {
		t.Fatal("work should not be called for zero-length range")
	}
}

func TestThreadFanOutCapsWorkersToTotal(t *testing.T) {
	var bands int32
	err := ThreadFanOut(100, 3, func(_, _, _ int) {
		atomic.AddInt32(&bands, 1)
	})
	if err != nil {
		t.Fatalf("ThreadFanOut: %v", err)
	}
	if bands != 3 {
		t.Errorf("bands invoked = %d, want 3 (capped to total)", bands)
	}
}
