package testkit

import (
	"sync"
	"testing"
	"time"
)

var (
	nowFn       = func() int { return 1 }
	swapTargetI = 10
)

func TestSwapRestores(t *testing.T) {
	t.Run("swap", func(t *testing.T) {
		Swap(t, &nowFn, func() int { return 99 })
		Swap(t, &swapTargetI, 42)
		if nowFn() != 99 || swapTargetI != 42 {
			t.Fatalf("swap did not take effect")
		}
	})
	if nowFn() != 1 || swapTargetI != 10 {
		t.Fatalf("swap did not restore originals")
	}
}

func TestSerialGroupsSubtests(t *testing.T) {
	var mu sync.Mutex
	var seq []string
	record := func(s string) {
		mu.Lock()
		seq = append(seq, s)
		mu.Unlock()
	}

	t.Run("group", func(t *testing.T) {
		for _, name := range []string{"A", "B"} {
			t.Run(name, func(t *testing.T) {
				t.Parallel()
				Serial(t)
				record(name + "-start")
				time.Sleep(20 * time.Millisecond)
				record(name + "-end")
			})
		}
	})

	if len(seq) != 4 {
		t.Fatalf("unexpected sequence %v", seq)
	}
	// each start must be followed by its own end
	if seq[0][:1] != seq[1][:1] || seq[2][:1] != seq[3][:1] {
		t.Fatalf("expected grouped execution, got %v", seq)
	}
}
