package registry

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"
)

// ── identifier tests ──────────────────────────────────────────

func TestParseIdentifier(t *testing.T) {
	tests := []struct {
		raw string
		ok  bool
	}{
		{"mymod:ruby_block", true},
		{"a:b", true},
		{"my.mod-1:path_2.x", true},
		{"noseparator", false},
		{"too:many:colons", false},
		{":path", false},
		{"ns:", false},
		{"", false},
		{"UpperCase:path", false},
		{"ns:pa th", false},
		{"ns:påth", false},
	}
	for _, tc := range tests {
		_, err := ParseIdentifier(tc.raw)
		if (err == nil) != tc.ok {
			t.Errorf("ParseIdentifier(%q) err = %v, want ok=%v", tc.raw, err, tc.ok)
		}
	}
}

// ── queue tests ───────────────────────────────────────────────

func TestHandlerIDsStartAtOneAndIncrease(t *testing.T) {
	q := NewQueue()
	id1, err := q.EnqueueBlock("mymod:one", DefaultBlockSettings())
	if err != nil {
		t.Fatal(err)
	}
	if id1 != 1 {
		t.Errorf("first id = %d, want 1", id1)
	}
	id2, _ := q.EnqueueItem("mymod:two", DefaultItemSettings())
	id3, _ := q.EnqueueEntity("mymod:three", DefaultEntitySettings())
	if !(id1 < id2 && id2 < id3) {
		t.Errorf("ids not strictly increasing: %d %d %d", id1, id2, id3)
	}
}

func TestHandlerIDsUniqueAcrossKinds(t *testing.T) {
	q := NewQueue()
	seen := make(map[int64]bool)
	for i := 0; i < 30; i++ {
		var id int64
		var err error
		switch i % 3 {
		case 0:
			id, err = q.EnqueueBlock(fmt.Sprintf("m:b%d", i), DefaultBlockSettings())
		case 1:
			id, err = q.EnqueueItem(fmt.Sprintf("m:i%d", i), DefaultItemSettings())
		case 2:
			id, err = q.EnqueueEntity(fmt.Sprintf("m:e%d", i), DefaultEntitySettings())
		}
		if err != nil {
			t.Fatal(err)
		}
		if id == 0 {
			t.Fatal("got sentinel id 0 for a valid registration")
		}
		if seen[id] {
			t.Fatalf("id %d issued twice", id)
		}
		seen[id] = true
	}
}

func TestHandlerIDsUniqueUnderConcurrency(t *testing.T) {
	q := NewQueue()
	const workers, per = 8, 50

	var mu sync.Mutex
	seen := make(map[int64]bool)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < per; i++ {
				id, err := q.EnqueueBlock(fmt.Sprintf("m:w%d_n%d", w, i), DefaultBlockSettings())
				if err != nil {
					t.Error(err)
					return
				}
				mu.Lock()
				if seen[id] {
					t.Errorf("id %d issued twice", id)
				}
				seen[id] = true
				mu.Unlock()
			}
		}(w)
	}
	wg.Wait()
	if got := len(seen); got != workers*per {
		t.Errorf("issued %d ids, want %d", got, workers*per)
	}
}

func TestMalformedIDRejectedWithoutEnqueue(t *testing.T) {
	q := NewQueue()
	if _, err := q.EnqueueBlock("bad id", DefaultBlockSettings()); err == nil {
		t.Fatal("want error for malformed id")
	}
	if q.HasPending(KindBlock) {
		t.Error("malformed id must not be enqueued")
	}
	// The allocator must not burn an id on a failed registration.
	id, err := q.EnqueueBlock("m:good", DefaultBlockSettings())
	if err != nil {
		t.Fatal(err)
	}
	if id != 1 {
		t.Errorf("id after rejection = %d, want 1", id)
	}
}

func TestDuplicateIDRejectedAcrossKinds(t *testing.T) {
	q := NewQueue()
	if _, err := q.EnqueueBlock("m:thing", DefaultBlockSettings()); err != nil {
		t.Fatal(err)
	}
	_, err := q.EnqueueItem("m:thing", DefaultItemSettings())
	if !errors.Is(err, ErrDuplicateID) {
		t.Errorf("err = %v, want ErrDuplicateID", err)
	}
}

func TestDrainIsFIFOAndDestructive(t *testing.T) {
	q := NewQueue()
	want := []string{"m:a", "m:b", "m:c"}
	for _, raw := range want {
		if _, err := q.EnqueueBlock(raw, DefaultBlockSettings()); err != nil {
			t.Fatal(err)
		}
	}
	regs := q.DrainAll(KindBlock)
	if len(regs) != len(want) {
		t.Fatalf("drained %d, want %d", len(regs), len(want))
	}
	for i, reg := range regs {
		if reg.ID.String() != want[i] {
			t.Errorf("drain[%d] = %s, want %s", i, reg.ID, want[i])
		}
	}
	if got := q.DrainAll(KindBlock); len(got) != 0 {
		t.Errorf("second drain returned %d entries, want 0", len(got))
	}
}

func TestDrainEmptyQueue(t *testing.T) {
	q := NewQueue()
	if got := q.DrainAll(KindEntity); len(got) != 0 {
		t.Errorf("drain of empty lane returned %d entries", len(got))
	}
}

func TestEnqueueAfterClose(t *testing.T) {
	q := NewQueue()
	q.Close()
	_, err := q.EnqueueItem("m:late", DefaultItemSettings())
	if !errors.Is(err, ErrClosed) {
		t.Errorf("err = %v, want ErrClosed", err)
	}
}

// ── barrier tests ─────────────────────────────────────────────

func TestBarrierSignal(t *testing.T) {
	b := NewBarrier()
	if b.Signaled() {
		t.Fatal("new barrier already signaled")
	}
	b.Signal()
	b.Signal() // second signal is a no-op
	if !b.Signaled() {
		t.Fatal("barrier not signaled after Signal")
	}
	if !b.Wait(time.Second) {
		t.Error("Wait on signaled barrier returned false")
	}
}

func TestBarrierTimeout(t *testing.T) {
	b := NewBarrier()
	start := time.Now()
	if b.Wait(20 * time.Millisecond) {
		t.Fatal("Wait returned true without a signal")
	}
	if time.Since(start) < 20*time.Millisecond {
		t.Error("Wait returned before the timeout elapsed")
	}
}

func TestBarrierSignalWhileWaiting(t *testing.T) {
	b := NewBarrier()
	go func() {
		time.Sleep(10 * time.Millisecond)
		b.Signal()
	}()
	if !b.Wait(2 * time.Second) {
		t.Error("Wait missed the signal")
	}
}

// ── lookup tests ──────────────────────────────────────────────

func TestLookup(t *testing.T) {
	l := NewLookup()
	reg := &Registration{HandlerID: 7, Kind: KindBlock, ID: Identifier{Namespace: "m", Path: "x"}}
	l.Put(reg)

	got, ok := l.Get(7)
	if !ok || got != reg {
		t.Fatalf("Get(7) = %v, %v", got, ok)
	}
	if _, ok := l.Get(99); ok {
		t.Error("Get(99) found a missing id")
	}
	if l.Len() != 1 {
		t.Errorf("Len = %d, want 1", l.Len())
	}
}
