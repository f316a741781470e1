// Package bridge is the boundary between the script side and the host
// engine. The host calls the Dispatch methods; mods reach the engine
// through the registration and packet methods. Everything the bridge
// owns hangs off one Bridge value, so tests and datagen runs can hold
// several side by side.
package bridge

import (
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/redstonemc/redstone/internal/datagen"
	"github.com/redstonemc/redstone/internal/marshal"
	"github.com/redstonemc/redstone/internal/modules/metrics"
	"github.com/redstonemc/redstone/internal/packet"
	"github.com/redstonemc/redstone/internal/registry"
	"github.com/redstonemc/redstone/internal/runtime"
	"github.com/redstonemc/redstone/internal/script"
)

// ABIVersion is bumped whenever the dispatch surface changes shape.
const ABIVersion = 3

// Bridge wires the registration queue, handler table, dispatch
// engine, scheduler, and packet channel together.
type Bridge struct {
	log     *zap.Logger
	queue   *registry.Queue
	lookup  *registry.Lookup
	barrier *registry.Barrier
	table   *runtime.Table
	engine  *runtime.Engine
	sched   *script.Scheduler
	packets *packet.Channel
	gen     *datagen.Collector // non-nil only in datagen mode

	cmdID   atomic.Int64
	cmdMu   sync.Mutex
	cmdDefs []registry.Command

	ready atomic.Bool
}

// New builds a live-mode bridge.
func New(log *zap.Logger) *Bridge {
	return build(log, nil)
}

// NewDatagen builds a datagen-mode bridge: registrations feed the
// collector instead of the queue, and dispatches answer with defaults
// without running handlers.
func NewDatagen(log *zap.Logger) *Bridge {
	return build(log, datagen.NewCollector())
}

func build(log *zap.Logger, gen *datagen.Collector) *Bridge {
	table := runtime.NewTable()
	b := &Bridge{
		log:     log,
		queue:   registry.NewQueue(),
		lookup:  registry.NewLookup(),
		barrier: registry.NewBarrier(),
		table:   table,
		engine:  runtime.NewEngine(table, log),
		sched:   script.NewScheduler(log),
		packets: packet.NewChannel(log),
		gen:     gen,
	}
	b.engine.SetPump(b.sched.Pump, b.sched.Drain)
	b.engine.SetResolver(func(handlerID int64) string {
		if reg, ok := b.lookup.Get(handlerID); ok {
			return reg.ID.String()
		}
		return ""
	})

	// Inbound packets flow through the engine like any other event,
	// then fan out by packet type inside the channel.
	ch := b.packets
	table.Install(runtime.EventPacketReceived, func(args []marshal.Value) (marshal.Value, error) {
		ch.Deliver(args[0].AsInt32(), args[1].AsInt32(), args[2].AsBytes())
		return marshal.Null(), nil
	})

	b.cmdID.Store(1)
	b.ready.Store(true)
	return b
}

// Ready reports whether the bridge accepts boundary calls.
func (b *Bridge) Ready() bool { return b.ready.Load() }

// Datagen reports whether the bridge runs in datagen mode.
func (b *Bridge) Datagen() bool { return b.gen != nil }

// Close rejects further boundary calls and registrations.
func (b *Bridge) Close() {
	b.ready.Store(false)
	b.queue.Close()
}

// Engine returns the dispatch engine.
func (b *Bridge) Engine() *runtime.Engine { return b.engine }

// Scheduler returns the script scheduler.
func (b *Bridge) Scheduler() *script.Scheduler { return b.sched }

// Packets returns the packet channel.
func (b *Bridge) Packets() *packet.Channel { return b.packets }

// Queue returns the registration queue.
func (b *Bridge) Queue() *registry.Queue { return b.queue }

// Lookup returns the applied-registration table.
func (b *Bridge) Lookup() *registry.Lookup { return b.lookup }

// Barrier returns the registration barrier.
func (b *Bridge) Barrier() *registry.Barrier { return b.barrier }

// Collector returns the datagen collector, nil in live mode.
func (b *Bridge) Collector() *datagen.Collector { return b.gen }

// ============================================================
// Handler installation (script side)
// ============================================================

// InstallHandler sets the global handler for an event kind.
func (b *Bridge) InstallHandler(kind runtime.EventKind, h runtime.Handler) {
	b.table.Install(kind, h)
}

// InstallRoute sets the per-object handler for (kind, handlerID).
func (b *Bridge) InstallRoute(kind runtime.EventKind, handlerID int64, h runtime.Handler) {
	b.table.InstallRoute(kind, handlerID, h)
}

// ============================================================
// Registration (script side)
// ============================================================

// RegisterBlock validates and queues a block definition, returning
// its handler id, or 0 on failure.
func (b *Bridge) RegisterBlock(rawID string, s registry.BlockSettings) int64 {
	if !b.ready.Load() {
		return 0
	}
	if b.gen != nil {
		return b.registerDatagen(rawID, b.gen.AddBlock)
	}
	id, err := b.queue.EnqueueBlock(rawID, s)
	if err != nil {
		b.log.Error("block registration rejected", zap.String("id", rawID), zap.Error(err))
		return 0
	}
	b.noteRegistration("block")
	return id
}

// RegisterItem validates and queues an item definition.
func (b *Bridge) RegisterItem(rawID string, s registry.ItemSettings) int64 {
	if !b.ready.Load() {
		return 0
	}
	if b.gen != nil {
		return b.registerDatagen(rawID, b.gen.AddItem)
	}
	id, err := b.queue.EnqueueItem(rawID, s)
	if err != nil {
		b.log.Error("item registration rejected", zap.String("id", rawID), zap.Error(err))
		return 0
	}
	b.noteRegistration("item")
	return id
}

// RegisterEntity validates and queues an entity definition.
func (b *Bridge) RegisterEntity(rawID string, s registry.EntitySettings) int64 {
	if !b.ready.Load() {
		return 0
	}
	if b.gen != nil {
		return b.registerDatagen(rawID, b.gen.AddEntity)
	}
	id, err := b.queue.EnqueueEntity(rawID, s)
	if err != nil {
		b.log.Error("entity registration rejected", zap.String("id", rawID), zap.Error(err))
		return 0
	}
	b.noteRegistration("entity")
	return id
}

// registerDatagen still validates the id so datagen surfaces the same
// naming mistakes a live run would.
func (b *Bridge) registerDatagen(rawID string, add func(string) int64) int64 {
	if _, err := registry.ParseIdentifier(rawID); err != nil {
		b.log.Error("registration rejected", zap.String("id", rawID), zap.Error(err))
		return 0
	}
	return add(rawID)
}

func (b *Bridge) noteRegistration(kind string) {
	metrics.ObserveRegistration(kind)
	metrics.SetQueueDepth(b.queue.PendingCount())
}

// RegisterCommand assigns a command id, remembers the definition for
// the host's command dispatcher, and routes executions to h. Returns
// 0 when the name is invalid or the bridge is closed. In datagen mode
// the id is assigned but nothing is recorded; command handlers never
// run there.
func (b *Bridge) RegisterCommand(name, description, argsJSON string, permission int32, h runtime.Handler) int64 {
	if !b.ready.Load() {
		return 0
	}
	if err := registry.ValidateCommandName(name); err != nil {
		b.log.Error("command registration rejected", zap.String("name", name), zap.Error(err))
		return 0
	}
	id := b.cmdID.Add(1) - 1
	if b.gen != nil {
		return id
	}
	b.cmdMu.Lock()
	b.cmdDefs = append(b.cmdDefs, registry.Command{
		ID:          id,
		Name:        name,
		Description: description,
		ArgsJSON:    argsJSON,
		Permission:  permission,
	})
	b.cmdMu.Unlock()
	b.table.InstallRoute(runtime.EventCommandExecute, id, h)
	metrics.ObserveRegistration("command")
	return id
}

// DrainCommands hands the queued command definitions to the host.
// Destructive, like the registration drain.
func (b *Bridge) DrainCommands() []registry.Command {
	b.cmdMu.Lock()
	defer b.cmdMu.Unlock()
	defs := b.cmdDefs
	b.cmdDefs = nil
	return defs
}

// SignalRegistrationsQueued tells the host every registration is in.
// Safe to call more than once; only the first signal counts.
func (b *Bridge) SignalRegistrationsQueued() {
	b.barrier.Signal()
	b.log.Info("registrations queued", zap.Int("pending", b.queue.PendingCount()))
}

// ============================================================
// Packets (script side)
// ============================================================

// SendPacket queues a payload for a player. Callable any time from
// any goroutine; delivery happens on the host's network pump.
func (b *Bridge) SendPacket(targetID, packetType int32, payload []byte) {
	if !b.ready.Load() {
		return
	}
	if b.gen != nil {
		return
	}
	b.packets.Send(targetID, packetType, payload)
}
