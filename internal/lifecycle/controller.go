// Package lifecycle drives the bridge through its session: script
// runtime start, the registration window, the drain, the running
// tick loop, and shutdown. Datagen runs short-circuit after the
// registration window.
package lifecycle

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/redstonemc/redstone/internal/bridge"
	"github.com/redstonemc/redstone/internal/host"
	"github.com/redstonemc/redstone/internal/manager"
	"github.com/redstonemc/redstone/internal/modules/metrics"
	"github.com/redstonemc/redstone/internal/modules/store"
	"github.com/redstonemc/redstone/internal/packet"
	"github.com/redstonemc/redstone/internal/registry"
	"github.com/redstonemc/redstone/internal/shared"
)

// State is the controller's lifecycle position.
type State int

const (
	StateUninitialized State = iota
	StateRuntimeStarted
	StateRegistryOpenSignaled
	StateRegistrationsQueued
	StateDraining
	StateRunning
	StateShuttingDown
	StateStopped
)

// String returns the state name
func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "Uninitialized"
	case StateRuntimeStarted:
		return "RuntimeStarted"
	case StateRegistryOpenSignaled:
		return "RegistryOpenSignaled"
	case StateRegistrationsQueued:
		return "RegistrationsQueued"
	case StateDraining:
		return "Draining"
	case StateRunning:
		return "Running"
	case StateShuttingDown:
		return "ShuttingDown"
	case StateStopped:
		return "Stopped"
	default:
		return "Unknown"
	}
}

// Controller owns one bridge session end to end.
type Controller struct {
	log   *zap.Logger
	cfg   shared.Config
	brd   *bridge.Bridge
	mods  *manager.Manager
	eng   host.Engine
	data  *store.Store
	msrv  *metrics.Server
	sessn string

	mu    sync.Mutex
	state State

	// exit terminates the process after a datagen run. Swapped out
	// in tests.
	exit func(code int)
}

// New assembles a controller. The host engine may be nil in datagen
// mode, where no registration ever reaches it.
func New(log *zap.Logger, cfg shared.Config, eng host.Engine) (*Controller, error) {
	var brd *bridge.Bridge
	storePath := cfg.StorePath
	if cfg.Datagen {
		brd = bridge.NewDatagen(log)
		storePath = ":memory:"
	} else {
		brd = bridge.New(log)
		if eng == nil {
			return nil, fmt.Errorf("host engine required outside datagen mode")
		}
	}

	data, err := store.Open(storePath)
	if err != nil {
		return nil, fmt.Errorf("open mod store: %w", err)
	}

	return &Controller{
		log:   log,
		cfg:   cfg,
		brd:   brd,
		mods:  manager.New(log, cfg),
		eng:   eng,
		data:  data,
		sessn: uuid.NewString(),
		state: StateUninitialized,
		exit:  os.Exit,
	}, nil
}

// Bridge exposes the session's bridge for the host's event wiring.
func (c *Controller) Bridge() *bridge.Bridge { return c.brd }

// Mods exposes the mod manager.
func (c *Controller) Mods() *manager.Manager { return c.mods }

// Store exposes the mod data store.
func (c *Controller) Store() *store.Store { return c.data }

// State reports the current lifecycle state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Controller) setState(s State) {
	c.mu.Lock()
	prev := c.state
	c.state = s
	c.mu.Unlock()
	c.log.Info("lifecycle transition",
		zap.String("from", prev.String()),
		zap.String("to", s.String()))
}

// Start runs the session up to Running: load mods (the script runtime
// start; failure here is fatal), open the registration window, wait
// behind the barrier, drain the queues into the engine registries.
//
// Call from the engine's main thread: the drain applies registrations
// through the host engine, which expects main-thread affinity. In
// datagen mode Start writes the manifest and terminates the process
// instead of returning.
func (c *Controller) Start(ctx context.Context) error {
	if st := c.State(); st != StateUninitialized {
		return fmt.Errorf("start from state %s", st)
	}
	c.log.Info("bridge session starting",
		zap.String("session", c.sessn),
		zap.Bool("datagen", c.cfg.Datagen),
		zap.Int("abi", bridge.ABIVersion))

	if c.cfg.MetricsAddr != "" && !c.cfg.Datagen {
		c.msrv = metrics.Serve(c.cfg.MetricsAddr)
	}

	env := &manager.Env{Bridge: c.brd, Store: c.data, Log: c.log}

	// Mod loading is the runtime start. A runtime that cannot start
	// leaves the server without its scripted content, so this error
	// is fatal to the process.
	loadErr := make(chan error, 1)
	c.setState(StateRuntimeStarted)
	c.setState(StateRegistryOpenSignaled)
	go func() {
		err := c.mods.LoadAll(env)
		if err == nil {
			c.brd.SignalRegistrationsQueued()
		}
		loadErr <- err
	}()

	// A dead runtime must not sit out the registration timeout, so
	// the load result races the barrier wait.
	barrierDone := make(chan bool, 1)
	go func() {
		barrierDone <- c.brd.Barrier().Wait(c.cfg.RegistrationTimeout())
	}()

	var signaled bool
	select {
	case err := <-loadErr:
		if err != nil {
			c.close()
			return fmt.Errorf("script runtime start: %w", err)
		}
		// Loading finished and signaled the barrier; the wait
		// resolves promptly.
		signaled = <-barrierDone
	case signaled = <-barrierDone:
		// Surface a fatal load error if it already happened; a mod
		// still stuck past the timeout reports on its own time.
		select {
		case err := <-loadErr:
			if err != nil {
				c.close()
				return fmt.Errorf("script runtime start: %w", err)
			}
		default:
		}
	}

	if signaled {
		c.setState(StateRegistrationsQueued)
	} else {
		c.log.Warn("registration window timed out, proceeding with queued content",
			zap.Duration("timeout", c.cfg.RegistrationTimeout()),
			zap.Int("pending", c.brd.Queue().PendingCount()))
	}

	if c.cfg.Datagen {
		return c.finishDatagen()
	}

	c.setState(StateDraining)
	if err := c.drain(); err != nil {
		c.close()
		return err
	}
	c.setState(StateRunning)
	return ctx.Err()
}

// drain empties all three lanes into the engine registries, blocks
// first, then items, then entities. One bad registration is logged
// and skipped, the rest still apply.
func (c *Controller) drain() error {
	apply := func(kind registry.ContentKind, fn func(*registry.Registration) error) {
		for _, reg := range c.brd.Queue().DrainAll(kind) {
			if err := fn(reg); err != nil {
				c.log.Error("registration failed to apply",
					zap.String("kind", kind.String()),
					zap.String("id", reg.ID.String()),
					zap.Int64("handlerId", reg.HandlerID),
					zap.Error(err))
				continue
			}
			c.brd.Lookup().Put(reg)
		}
	}
	apply(registry.KindBlock, c.eng.ApplyBlock)
	apply(registry.KindItem, c.eng.ApplyItem)
	apply(registry.KindEntity, c.eng.ApplyEntity)

	for _, cmd := range c.brd.DrainCommands() {
		if err := c.eng.RegisterCommand(cmd); err != nil {
			c.log.Error("command failed to register",
				zap.String("name", cmd.Name),
				zap.Int64("commandId", cmd.ID),
				zap.Error(err))
		}
	}

	metrics.SetQueueDepth(0)
	c.log.Info("registrations applied", zap.Int("count", c.brd.Lookup().Len()))
	return nil
}

func (c *Controller) finishDatagen() error {
	col := c.brd.Collector()
	if err := col.Write(c.cfg.DatagenOutput); err != nil {
		c.close()
		return fmt.Errorf("write datagen manifest: %w", err)
	}
	c.log.Info("datagen manifest written",
		zap.String("path", c.cfg.DatagenOutput),
		zap.Int("entries", col.Count()))
	c.close()
	c.setState(StateStopped)
	c.exit(0)
	return nil
}

// Tick runs one server tick and flushes outbound packets to the
// engine. Call from the engine's main thread, once per tick.
func (c *Controller) Tick(tick int64) {
	if c.State() != StateRunning {
		return
	}
	c.brd.DispatchTick(tick)
	c.brd.Packets().FlushOutbound(func(env packet.Envelope) {
		if err := c.eng.DeliverPacket(env.PlayerID, env.Type, env.Payload); err != nil {
			c.log.Warn("packet delivery failed",
				zap.Int32("target", env.PlayerID),
				zap.Int32("type", env.Type),
				zap.Error(err))
		}
	})
}

// Shutdown dispatches server-stopping, unloads mods in reverse order,
// and releases the session's resources.
func (c *Controller) Shutdown(ctx context.Context) error {
	if st := c.State(); st != StateRunning {
		return fmt.Errorf("shutdown from state %s", st)
	}
	c.setState(StateShuttingDown)

	c.brd.DispatchServerStopping()
	c.brd.Engine().DrainScheduler()
	c.mods.UnloadAll()
	c.close()
	c.setState(StateStopped)
	return ctx.Err()
}

func (c *Controller) close() {
	c.brd.Close()
	if c.data != nil {
		if err := c.data.Close(); err != nil {
			c.log.Warn("store close failed", zap.Error(err))
		}
	}
	if err := c.msrv.Close(); err != nil {
		c.log.Warn("metrics listener close failed", zap.Error(err))
	}
}
