package script

import (
	"testing"

	"go.uber.org/zap"
)

func newScheduler() *Scheduler {
	return NewScheduler(zap.NewNop())
}

func TestTasksRunOnlyWhenPumped(t *testing.T) {
	s := newScheduler()
	ran := 0
	s.Post(func() { ran++ })
	if ran != 0 {
		t.Fatal("task ran before the pump")
	}
	s.Pump()
	if ran != 1 {
		t.Fatalf("ran = %d, want 1", ran)
	}
	s.Pump()
	if ran != 1 {
		t.Fatal("task ran twice")
	}
}

func TestTasksPostedDuringPumpRunSamePump(t *testing.T) {
	s := newScheduler()
	var order []string
	s.Post(func() {
		order = append(order, "outer")
		s.Post(func() { order = append(order, "inner") })
	})
	s.Pump()
	if len(order) != 2 || order[1] != "inner" {
		t.Fatalf("order = %v", order)
	}
}

func TestAfterFiresOnce(t *testing.T) {
	s := newScheduler()
	fired := 0
	s.After(2, func() { fired++ })

	s.Pump()
	if fired != 0 {
		t.Fatal("one-shot fired early")
	}
	s.Pump()
	if fired != 1 {
		t.Fatalf("fired = %d after due tick, want 1", fired)
	}
	s.Pump()
	if fired != 1 {
		t.Fatal("one-shot fired again")
	}
}

func TestEveryRepeatsUntilCancelled(t *testing.T) {
	s := newScheduler()
	fired := 0
	id := s.Every(1, func() { fired++ })

	s.Pump()
	s.Pump()
	if fired != 2 {
		t.Fatalf("fired = %d, want 2", fired)
	}
	s.Cancel(id)
	s.Pump()
	if fired != 2 {
		t.Fatal("timer fired after cancel")
	}
}

func TestDrainRunsTasksWithoutAdvancingTimers(t *testing.T) {
	s := newScheduler()
	ran := false
	fired := 0
	s.Post(func() { ran = true })
	s.After(1, func() { fired++ })

	s.Drain()
	if !ran {
		t.Fatal("drain skipped the posted task")
	}
	if fired != 0 {
		t.Fatal("drain advanced the timer clock")
	}
	s.Pump()
	if fired != 1 {
		t.Fatalf("fired = %d after one pump, want 1", fired)
	}
}

// The host flushes the task queue twice per server tick, once before
// and once after the tick handler. Timer delays must still count
// server ticks.
func TestTimersCountServerTicksUnderDoubleDrain(t *testing.T) {
	s := newScheduler()
	const delay = 10
	fired := false
	s.After(delay, func() { fired = true })

	ticks := 0
	for !fired && ticks < delay*2 {
		ticks++
		s.Pump()
		s.Drain()
	}
	if ticks != delay {
		t.Fatalf("one-shot fired after %d server ticks, want %d", ticks, delay)
	}
}

func TestPanickingTaskDoesNotStopOthers(t *testing.T) {
	s := newScheduler()
	ran := false
	s.Post(func() { panic("bad mod") })
	s.Post(func() { ran = true })
	s.Pump()
	if !ran {
		t.Fatal("second task skipped after panic")
	}
}

func TestPendingCount(t *testing.T) {
	s := newScheduler()
	s.Post(func() {})
	s.After(5, func() {})
	if got := s.Pending(); got != 2 {
		t.Fatalf("Pending = %d, want 2", got)
	}
}
