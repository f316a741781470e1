package runtime

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/redstonemc/redstone/internal/marshal"
	"github.com/redstonemc/redstone/internal/modules/metrics"
)

// Handler is an installed script-side event handler. Args arrive
// boundary-marshaled; the result is marshaled back the same way. An
// error return is treated exactly like a panic: logged, replaced by
// the kind's default.
type Handler func(args []marshal.Value) (marshal.Value, error)

// ============================================================
// Handler Table
// ============================================================

// Table holds the installed handlers: one global slot per event kind,
// plus per-handler-id routes for the kinds that demultiplex by
// content object. Installation always succeeds and overwrites; there
// is no uninstall during a session.
type Table struct {
	mu     sync.RWMutex
	slots  [numEventKinds]Handler
	routes map[EventKind]map[int64]Handler
}

// NewTable returns an empty handler table.
func NewTable() *Table {
	return &Table{routes: make(map[EventKind]map[int64]Handler)}
}

// Install sets the global slot for a kind. Last writer wins.
func (t *Table) Install(kind EventKind, h Handler) {
	t.mu.Lock()
	t.slots[kind] = h
	t.mu.Unlock()
}

// InstallRoute sets the per-object handler for (kind, handlerID).
func (t *Table) InstallRoute(kind EventKind, handlerID int64, h Handler) {
	t.mu.Lock()
	m := t.routes[kind]
	if m == nil {
		m = make(map[int64]Handler)
		t.routes[kind] = m
	}
	m[handlerID] = h
	t.mu.Unlock()
}

// lookup resolves the handler for a dispatch. Routed kinds consult
// the per-object table first and fall back to the global slot.
func (t *Table) lookup(kind EventKind, handlerID int64) Handler {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if kind.routed() && handlerID != 0 {
		if h, ok := t.routes[kind][handlerID]; ok {
			return h
		}
	}
	return t.slots[kind]
}

// Installed reports whether any handler would answer the dispatch.
func (t *Table) Installed(kind EventKind, handlerID int64) bool {
	return t.lookup(kind, handlerID) != nil
}

// ============================================================
// Dispatch Engine
// ============================================================

// Pump drains the script scheduler. Installed by the script runtime
// in two flavors: the per-tick pump that advances the timer clock,
// and the task-only drain for extra flushes within the same tick.
type Pump func()

// Resolver translates a handler id back to the content identifier it
// was stamped on. Returns "" for ids it does not know.
type Resolver func(handlerID int64) string

// Engine performs boundary dispatches. All handler invocation and
// scheduler pumping is serialized on one mutex, matching the script
// runtime's single-threaded execution model. Dispatch is therefore
// not reentrant: handlers must never dispatch events themselves.
type Engine struct {
	table *Table
	log   *zap.Logger

	mu      sync.Mutex
	pump    Pump
	drain   Pump
	resolve Resolver
}

// NewEngine returns an engine over the given handler table.
func NewEngine(table *Table, log *zap.Logger) *Engine {
	return &Engine{table: table, log: log}
}

// Table returns the engine's handler table.
func (e *Engine) Table() *Table { return e.table }

// SetPump installs the scheduler hooks: pump advances the timer clock
// and drains, drain runs queued tasks only.
func (e *Engine) SetPump(pump, drain Pump) {
	e.mu.Lock()
	e.pump = pump
	e.drain = drain
	e.mu.Unlock()
}

// SetResolver installs the handler-id resolver used to name the
// failing content object in dispatch logs.
func (e *Engine) SetResolver(r Resolver) {
	e.mu.Lock()
	e.resolve = r
	e.mu.Unlock()
}

// Dispatch invokes the handler for kind, passing handlerID 0 for
// global kinds. It always returns a usable result: the handler's on
// success, the kind's documented default on a missing handler, an
// error, or a panic. It never panics itself.
func (e *Engine) Dispatch(kind EventKind, handlerID int64, args ...marshal.Value) marshal.Value {
	h := e.table.lookup(kind, handlerID)
	if h == nil {
		metrics.ObserveDispatch(kind.String(), metrics.OutcomeDefaulted)
		return DefaultResult(kind)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	result, err := e.invoke(kind, h, args)
	if err != nil {
		object := zap.Skip()
		if e.resolve != nil && handlerID != 0 {
			if id := e.resolve(handlerID); id != "" {
				object = zap.String("object", id)
			}
		}
		e.log.Error("event handler failed",
			zap.String("event", kind.String()),
			zap.Int64("handlerId", handlerID),
			object,
			zap.Error(err))
		metrics.ObserveDispatch(kind.String(), metrics.OutcomeError)
		return DefaultResult(kind)
	}
	metrics.ObserveDispatch(kind.String(), metrics.OutcomeHandled)
	return result
}

// invoke runs the handler with panic containment.
func (e *Engine) invoke(kind EventKind, h Handler, args []marshal.Value) (result marshal.Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			metrics.ObservePanic(kind.String())
			logRecovered(e.log, "dispatch "+kind.String(), r)
			result = DefaultResult(kind)
			err = nil
		}
	}()
	return h(args)
}

// DispatchTick runs one server tick: pump the scheduler so queued
// script work and due timers run before the tick handler, dispatch
// the tick event, then drain once more for work the handler queued.
// Only the first pump advances the timer clock, so timers count
// server ticks, not drains.
func (e *Engine) DispatchTick(tick int64) {
	e.PumpScheduler()
	e.Dispatch(EventTick, 0, marshal.Int64(tick))
	e.DrainScheduler()
}

// PumpScheduler advances the scheduler one tick and drains it under
// the engine lock.
func (e *Engine) PumpScheduler() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.runPump(e.pump)
}

// DrainScheduler flushes queued tasks without advancing timers.
func (e *Engine) DrainScheduler() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.runPump(e.drain)
}

func (e *Engine) runPump(p Pump) {
	if p == nil {
		return
	}
	start := time.Now()
	SafeCall(e.log, "scheduler pump", p)
	metrics.ObservePump(time.Since(start).Seconds())
}
