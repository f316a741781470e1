// Package script hosts the cooperative scheduler the mod programs run
// on. Nothing here executes autonomously: queued work only runs when
// the host pumps the scheduler, once per server tick.
package script

import (
	"sync"

	"go.uber.org/zap"
)

// Task is a unit of deferred script work.
type Task func()

type timer struct {
	id       int64
	dueTick  int64
	interval int64 // 0 for one-shot
	task     Task
	stopped  bool
}

// Scheduler is a tick-driven task queue. Post and the timer methods
// may be called from any goroutine; Pump runs everything on the
// pumping goroutine, which the dispatch engine serializes.
type Scheduler struct {
	log *zap.Logger

	mu      sync.Mutex
	tasks   []Task
	timers  map[int64]*timer
	nextID  int64
	tick    int64
	pumping bool
}

// NewScheduler returns an empty scheduler.
func NewScheduler(log *zap.Logger) *Scheduler {
	return &Scheduler{log: log, timers: make(map[int64]*timer)}
}

// Post queues a task for the next pump.
func (s *Scheduler) Post(t Task) {
	s.mu.Lock()
	s.tasks = append(s.tasks, t)
	s.mu.Unlock()
}

// After schedules a one-shot task delay ticks from now. A delay of 0
// or less runs on the next pump. Returns the timer id.
func (s *Scheduler) After(delay int64, t Task) int64 {
	return s.addTimer(delay, 0, t)
}

// Every schedules a repeating task with the given tick interval. An
// interval below 1 is clamped to 1.
func (s *Scheduler) Every(interval int64, t Task) int64 {
	if interval < 1 {
		interval = 1
	}
	return s.addTimer(interval, interval, t)
}

func (s *Scheduler) addTimer(delay, interval int64, t Task) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	id := s.nextID
	s.timers[id] = &timer{id: id, dueTick: s.tick + delay, interval: interval, task: t}
	return id
}

// Cancel stops a timer. Unknown ids are ignored.
func (s *Scheduler) Cancel(id int64) {
	s.mu.Lock()
	if tm, ok := s.timers[id]; ok {
		tm.stopped = true
		delete(s.timers, id)
	}
	s.mu.Unlock()
}

// Pending reports queued tasks plus live timers.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks) + len(s.timers)
}

// Pump advances one tick and drains the queue: first every posted
// task, including tasks posted while draining, then the due timers.
// Each task runs with panic containment so one broken mod cannot
// starve the rest. Reentrant pumping is rejected.
//
// The host may drain the task queue more than once per server tick;
// only Pump advances the timer clock, so extra drains go through
// Drain and timers keep counting real ticks.
func (s *Scheduler) Pump() {
	s.mu.Lock()
	if s.pumping {
		s.mu.Unlock()
		s.log.Error("nested scheduler pump rejected")
		return
	}
	s.pumping = true
	s.tick++
	now := s.tick
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.pumping = false
		s.mu.Unlock()
	}()

	s.drainTasks()

	for _, tm := range s.dueTimers(now) {
		s.runTask(tm.task)
	}
}

// Drain runs the posted tasks without touching the timer clock.
func (s *Scheduler) Drain() {
	s.mu.Lock()
	if s.pumping {
		s.mu.Unlock()
		s.log.Error("nested scheduler pump rejected")
		return
	}
	s.pumping = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.pumping = false
		s.mu.Unlock()
	}()

	s.drainTasks()
}

func (s *Scheduler) drainTasks() {
	for {
		s.mu.Lock()
		if len(s.tasks) == 0 {
			s.mu.Unlock()
			break
		}
		batch := s.tasks
		s.tasks = nil
		s.mu.Unlock()

		for _, t := range batch {
			s.runTask(t)
		}
	}
}

func (s *Scheduler) dueTimers(now int64) []*timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	var due []*timer
	for id, tm := range s.timers {
		if tm.dueTick > now || tm.stopped {
			continue
		}
		due = append(due, tm)
		if tm.interval > 0 {
			tm.dueTick = now + tm.interval
		} else {
			delete(s.timers, id)
		}
	}
	return due
}

func (s *Scheduler) runTask(t Task) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("script task panicked", zap.Any("panic", r))
		}
	}()
	t()
}
