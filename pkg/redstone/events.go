package redstone

import (
	"sync"

	"github.com/redstonemc/redstone/internal/bridge"
	"github.com/redstonemc/redstone/internal/marshal"
	"github.com/redstonemc/redstone/internal/runtime"
)

// ============================================================
// Fan-out
// ============================================================

// hooks composes the handlers of every mod sharing a bridge into the
// bridge's single global slot per event kind. Handlers run in
// registration order; the last one to answer with something other
// than the kind's default has the last word.
type hooks struct {
	b *bridge.Bridge

	mu        sync.Mutex
	byKind    map[runtime.EventKind][]runtime.Handler
	goals     map[string]Goal
	goalSlots bool
}

var (
	hooksMu  sync.Mutex
	allHooks = map[*bridge.Bridge]*hooks{}
)

// hooksFor returns the shared fan-out for a bridge, creating it on
// first use. Bridges live for the whole process, so the map only
// grows in tests that build several.
func hooksFor(b *bridge.Bridge) *hooks {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	h := allHooks[b]
	if h == nil {
		h = &hooks{
			b:      b,
			byKind: make(map[runtime.EventKind][]runtime.Handler),
			goals:  make(map[string]Goal),
		}
		allHooks[b] = h
	}
	return h
}

func (h *hooks) add(kind runtime.EventKind, fn runtime.Handler) {
	h.mu.Lock()
	first := len(h.byKind[kind]) == 0
	h.byKind[kind] = append(h.byKind[kind], fn)
	h.mu.Unlock()
	if first {
		h.b.InstallHandler(kind, func(args []marshal.Value) (marshal.Value, error) {
			return h.fan(kind, args)
		})
	}
}

func (h *hooks) fan(kind runtime.EventKind, args []marshal.Value) (marshal.Value, error) {
	h.mu.Lock()
	list := make([]runtime.Handler, len(h.byKind[kind]))
	copy(list, h.byKind[kind])
	h.mu.Unlock()

	def := runtime.DefaultResult(kind)
	result := def
	for _, fn := range list {
		v, err := fn(args)
		if err != nil {
			return v, err
		}
		if !v.Equal(def) {
			result = v
		}
	}
	return result, nil
}

// ============================================================
// Event types
// ============================================================

// BlockBreakEvent fires for every block break in any world.
type BlockBreakEvent struct {
	X, Y, Z   int32
	PlayerID  int64
	cancelled bool
}

// Cancel keeps the block in place.
func (e *BlockBreakEvent) Cancel() { e.cancelled = true }

// BlockInteractEvent fires for every block right-click.
type BlockInteractEvent struct {
	X, Y, Z   int32
	PlayerID  int64
	Hand      int32
	cancelled bool
}

// Cancel suppresses the interaction.
func (e *BlockInteractEvent) Cancel() { e.cancelled = true }

// BlockPlaceEvent fires before a player places any block.
type BlockPlaceEvent struct {
	PlayerID  int32
	X, Y, Z   int32
	BlockID   string
	cancelled bool
}

// Cancel keeps the block out of the world.
func (e *BlockPlaceEvent) Cancel() { e.cancelled = true }

// ChatEvent fires for every player chat message.
type ChatEvent struct {
	PlayerID int32
	Message  string

	replaced *string
}

// SetMessage replaces the message other players will see.
func (e *ChatEvent) SetMessage(msg string) { e.replaced = &msg }

// PlayerDeathEvent fires when a player dies.
type PlayerDeathEvent struct {
	PlayerID     int32
	DamageSource string

	replaced *string
}

// SetMessage replaces the death message.
func (e *PlayerDeathEvent) SetMessage(msg string) { e.replaced = &msg }

// PlayerCommandEvent fires for slash input before the vanilla
// dispatcher sees it.
type PlayerCommandEvent struct {
	PlayerID  int32
	Command   string
	cancelled bool
}

// Cancel suppresses the command.
func (e *PlayerCommandEvent) Cancel() { e.cancelled = true }

// AttackEntityEvent fires when a player melee-attacks an entity.
type AttackEntityEvent struct {
	PlayerID  int32
	TargetID  int32
	cancelled bool
}

// Cancel negates the attack.
func (e *AttackEntityEvent) Cancel() { e.cancelled = true }

// PickupItemEvent fires before an item entity is collected.
type PickupItemEvent struct {
	PlayerID     int32
	ItemEntityID int32
	cancelled    bool
}

// Cancel leaves the item on the ground.
func (e *PickupItemEvent) Cancel() { e.cancelled = true }

// DropItemEvent fires before a stack is tossed.
type DropItemEvent struct {
	PlayerID  int32
	ItemID    string
	Count     int32
	cancelled bool
}

// Cancel keeps the stack in the inventory.
func (e *DropItemEvent) Cancel() { e.cancelled = true }

// EntityDamageEvent fires for damage to any entity.
type EntityDamageEvent struct {
	EntityID  int32
	Source    string
	Amount    float64
	cancelled bool
}

// Cancel negates the damage.
func (e *EntityDamageEvent) Cancel() { e.cancelled = true }

// ItemUseEvent fires on right-click with any item.
type ItemUseEvent struct {
	PlayerID  int32
	ItemID    string
	Count     int32
	Hand      int32
	cancelled bool
}

// Cancel suppresses the use.
func (e *ItemUseEvent) Cancel() { e.cancelled = true }

// ItemUseOnBlockEvent fires when any item is used on a block.
type ItemUseOnBlockEvent struct {
	PlayerID  int32
	ItemID    string
	Count     int32
	Hand      int32
	X, Y, Z   int32
	Face      int32
	cancelled bool
}

// Cancel suppresses the use.
func (e *ItemUseOnBlockEvent) Cancel() { e.cancelled = true }

// ItemUseOnEntityEvent fires when any item is used on an entity.
type ItemUseOnEntityEvent struct {
	PlayerID  int32
	ItemID    string
	Count     int32
	Hand      int32
	TargetID  int32
	cancelled bool
}

// Cancel suppresses the use.
func (e *ItemUseOnEntityEvent) Cancel() { e.cancelled = true }

// ============================================================
// Handler registration
// ============================================================

// OnServerStarting registers a handler that runs before the first
// world loads.
func (c *Context) OnServerStarting(fn func()) {
	c.hooks.add(runtime.EventServerStarting, voidHandler(fn))
}

// OnServerStarted registers a handler that runs once the server
// accepts players.
func (c *Context) OnServerStarted(fn func()) {
	c.hooks.add(runtime.EventServerStarted, voidHandler(fn))
}

// OnServerStopping registers a handler that runs at the start of
// shutdown.
func (c *Context) OnServerStopping(fn func()) {
	c.hooks.add(runtime.EventServerStopping, voidHandler(fn))
}

// OnTick registers a handler that runs every server tick.
func (c *Context) OnTick(fn func(tick int64)) {
	c.hooks.add(runtime.EventTick, func(args []marshal.Value) (marshal.Value, error) {
		fn(args[0].AsInt64())
		return marshal.Null(), nil
	})
}

// OnBlockBreak registers a handler for every block break.
func (c *Context) OnBlockBreak(fn func(e *BlockBreakEvent)) {
	c.hooks.add(runtime.EventAnyBlockBreak, func(args []marshal.Value) (marshal.Value, error) {
		e := &BlockBreakEvent{
			X: args[0].AsInt32(), Y: args[1].AsInt32(), Z: args[2].AsInt32(),
			PlayerID: args[3].AsInt64(),
		}
		fn(e)
		if e.cancelled {
			return marshal.Int32(0), nil
		}
		return marshal.Int32(1), nil
	})
}

// OnBlockInteract registers a handler for every block interaction.
func (c *Context) OnBlockInteract(fn func(e *BlockInteractEvent)) {
	c.hooks.add(runtime.EventAnyBlockInteract, func(args []marshal.Value) (marshal.Value, error) {
		e := &BlockInteractEvent{
			X: args[0].AsInt32(), Y: args[1].AsInt32(), Z: args[2].AsInt32(),
			PlayerID: args[3].AsInt64(), Hand: args[4].AsInt32(),
		}
		fn(e)
		if e.cancelled {
			return marshal.Int32(0), nil
		}
		return marshal.Int32(1), nil
	})
}

// OnBlockPlace registers a handler for block placement.
func (c *Context) OnBlockPlace(fn func(e *BlockPlaceEvent)) {
	c.hooks.add(runtime.EventBlockPlace, func(args []marshal.Value) (marshal.Value, error) {
		e := &BlockPlaceEvent{
			PlayerID: args[0].AsInt32(),
			X:        args[1].AsInt32(), Y: args[2].AsInt32(), Z: args[3].AsInt32(),
			BlockID: args[4].AsString(),
		}
		fn(e)
		return marshal.Bool(!e.cancelled), nil
	})
}

// OnPlayerJoin registers a handler for player connections.
func (c *Context) OnPlayerJoin(fn func(playerID int32)) {
	c.hooks.add(runtime.EventPlayerJoin, playerHandler(fn))
}

// OnPlayerLeave registers a handler for player disconnections.
func (c *Context) OnPlayerLeave(fn func(playerID int32)) {
	c.hooks.add(runtime.EventPlayerLeave, playerHandler(fn))
}

// OnPlayerRespawn registers a handler for respawns.
func (c *Context) OnPlayerRespawn(fn func(playerID int32, endConquered bool)) {
	c.hooks.add(runtime.EventPlayerRespawn, func(args []marshal.Value) (marshal.Value, error) {
		fn(args[0].AsInt32(), args[1].AsBool())
		return marshal.Null(), nil
	})
}

// OnPlayerDeath registers a handler for player deaths. The handler
// may replace the death message.
func (c *Context) OnPlayerDeath(fn func(e *PlayerDeathEvent)) {
	c.hooks.add(runtime.EventPlayerDeath, func(args []marshal.Value) (marshal.Value, error) {
		e := &PlayerDeathEvent{PlayerID: args[0].AsInt32(), DamageSource: args[1].AsString()}
		fn(e)
		if e.replaced != nil {
			return marshal.String(*e.replaced), nil
		}
		return marshal.Null(), nil
	})
}

// OnPlayerChat registers a handler for chat messages. The handler may
// rewrite the message.
func (c *Context) OnPlayerChat(fn func(e *ChatEvent)) {
	c.hooks.add(runtime.EventPlayerChat, func(args []marshal.Value) (marshal.Value, error) {
		e := &ChatEvent{PlayerID: args[0].AsInt32(), Message: args[1].AsString()}
		fn(e)
		if e.replaced != nil {
			return marshal.String(*e.replaced), nil
		}
		return marshal.Null(), nil
	})
}

// OnPlayerCommand registers a handler for raw slash input.
func (c *Context) OnPlayerCommand(fn func(e *PlayerCommandEvent)) {
	c.hooks.add(runtime.EventPlayerCommand, func(args []marshal.Value) (marshal.Value, error) {
		e := &PlayerCommandEvent{PlayerID: args[0].AsInt32(), Command: args[1].AsString()}
		fn(e)
		return marshal.Bool(!e.cancelled), nil
	})
}

// OnPlayerAttackEntity registers a handler for melee attacks.
func (c *Context) OnPlayerAttackEntity(fn func(e *AttackEntityEvent)) {
	c.hooks.add(runtime.EventPlayerAttackEntity, func(args []marshal.Value) (marshal.Value, error) {
		e := &AttackEntityEvent{PlayerID: args[0].AsInt32(), TargetID: args[1].AsInt32()}
		fn(e)
		return marshal.Bool(!e.cancelled), nil
	})
}

// OnPlayerPickupItem registers a handler for item pickups.
func (c *Context) OnPlayerPickupItem(fn func(e *PickupItemEvent)) {
	c.hooks.add(runtime.EventPlayerPickupItem, func(args []marshal.Value) (marshal.Value, error) {
		e := &PickupItemEvent{PlayerID: args[0].AsInt32(), ItemEntityID: args[1].AsInt32()}
		fn(e)
		return marshal.Bool(!e.cancelled), nil
	})
}

// OnPlayerDropItem registers a handler for item drops.
func (c *Context) OnPlayerDropItem(fn func(e *DropItemEvent)) {
	c.hooks.add(runtime.EventPlayerDropItem, func(args []marshal.Value) (marshal.Value, error) {
		e := &DropItemEvent{PlayerID: args[0].AsInt32(), ItemID: args[1].AsString(), Count: args[2].AsInt32()}
		fn(e)
		return marshal.Bool(!e.cancelled), nil
	})
}

// OnEntityDamage registers a handler for damage to any entity.
func (c *Context) OnEntityDamage(fn func(e *EntityDamageEvent)) {
	c.hooks.add(runtime.EventEntityDamage, func(args []marshal.Value) (marshal.Value, error) {
		e := &EntityDamageEvent{EntityID: args[0].AsInt32(), Source: args[1].AsString(), Amount: args[2].AsFloat64()}
		fn(e)
		return marshal.Bool(!e.cancelled), nil
	})
}

// OnEntityDeath registers a handler that runs after any entity dies.
func (c *Context) OnEntityDeath(fn func(entityID int32, source string)) {
	c.hooks.add(runtime.EventEntityDeath, func(args []marshal.Value) (marshal.Value, error) {
		fn(args[0].AsInt32(), args[1].AsString())
		return marshal.Null(), nil
	})
}

// OnItemUse registers a handler for right-clicks with any item.
func (c *Context) OnItemUse(fn func(e *ItemUseEvent)) {
	c.hooks.add(runtime.EventItemUse, func(args []marshal.Value) (marshal.Value, error) {
		e := &ItemUseEvent{
			PlayerID: args[0].AsInt32(), ItemID: args[1].AsString(),
			Count: args[2].AsInt32(), Hand: args[3].AsInt32(),
		}
		fn(e)
		return marshal.Bool(!e.cancelled), nil
	})
}

// OnItemUseOnBlock registers a handler for item-on-block uses.
func (c *Context) OnItemUseOnBlock(fn func(e *ItemUseOnBlockEvent)) {
	c.hooks.add(runtime.EventItemUseOnBlock, func(args []marshal.Value) (marshal.Value, error) {
		e := &ItemUseOnBlockEvent{
			PlayerID: args[0].AsInt32(), ItemID: args[1].AsString(),
			Count: args[2].AsInt32(), Hand: args[3].AsInt32(),
			X: args[4].AsInt32(), Y: args[5].AsInt32(), Z: args[6].AsInt32(),
			Face: args[7].AsInt32(),
		}
		fn(e)
		if e.cancelled {
			return marshal.Int32(0), nil
		}
		return marshal.Int32(1), nil
	})
}

// OnItemUseOnEntity registers a handler for item-on-entity uses.
func (c *Context) OnItemUseOnEntity(fn func(e *ItemUseOnEntityEvent)) {
	c.hooks.add(runtime.EventItemUseOnEntity, func(args []marshal.Value) (marshal.Value, error) {
		e := &ItemUseOnEntityEvent{
			PlayerID: args[0].AsInt32(), ItemID: args[1].AsString(),
			Count: args[2].AsInt32(), Hand: args[3].AsInt32(),
			TargetID: args[4].AsInt32(),
		}
		fn(e)
		if e.cancelled {
			return marshal.Int32(0), nil
		}
		return marshal.Int32(1), nil
	})
}

func voidHandler(fn func()) runtime.Handler {
	return func([]marshal.Value) (marshal.Value, error) {
		fn()
		return marshal.Null(), nil
	}
}

func playerHandler(fn func(playerID int32)) runtime.Handler {
	return func(args []marshal.Value) (marshal.Value, error) {
		fn(args[0].AsInt32())
		return marshal.Null(), nil
	}
}
