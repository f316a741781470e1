package redstone

import (
	"encoding/json"
	"fmt"

	"github.com/redstonemc/redstone/internal/marshal"
	"github.com/redstonemc/redstone/internal/registry"
	"github.com/redstonemc/redstone/internal/runtime"
)

// Settings types are re-exported so mods never import internal
// packages directly.
type (
	BlockSettings  = registry.BlockSettings
	ItemSettings   = registry.ItemSettings
	EntitySettings = registry.EntitySettings
)

// DefaultBlockSettings returns stone-like block defaults.
func DefaultBlockSettings() BlockSettings { return registry.DefaultBlockSettings() }

// DefaultItemSettings returns plain-item defaults.
func DefaultItemSettings() ItemSettings { return registry.DefaultItemSettings() }

// DefaultEntitySettings returns generic-mob defaults.
func DefaultEntitySettings() EntitySettings { return registry.DefaultEntitySettings() }

// BlockAction is the result of a block use hook.
type BlockAction int32

const (
	BlockActionSuccess        BlockAction = 0
	BlockActionConsume        BlockAction = 1
	BlockActionConsumePartial BlockAction = 2
	BlockActionPass           BlockAction = 3 // fall through to vanilla behavior
	BlockActionFail           BlockAction = 4
)

// ItemAction is the result of an item use hook. Note the ordinals
// differ from BlockAction; the engine's tables are not aligned.
type ItemAction int32

const (
	ItemActionSuccess        ItemAction = 0
	ItemActionConsumePartial ItemAction = 1
	ItemActionConsume        ItemAction = 2
	ItemActionFail           ItemAction = 3
	ItemActionPass           ItemAction = 4 // fall through to vanilla behavior
)

// ============================================================
// Blocks
// ============================================================

// BlockHooks are per-object callbacks: they fire only for the block
// they are registered with, never for other content.
type BlockHooks struct {
	// OnBreak fires before the block is destroyed. False cancels.
	OnBreak func(worldID int64, x, y, z int32, playerID int64) bool

	// OnUse fires on right-click.
	OnUse func(worldID int64, x, y, z int32, playerID int64, hand int32) BlockAction

	OnSteppedOn       func(worldID int64, x, y, z, entityID int32)
	OnFallenUpon      func(worldID int64, x, y, z, entityID int32, fallDistance float32)
	OnRandomTick      func(worldID int64, x, y, z int32)
	OnPlaced          func(worldID int64, x, y, z int32, playerID int64)
	OnRemoved         func(worldID int64, x, y, z int32)
	OnNeighborChanged func(worldID int64, x, y, z, nx, ny, nz int32)
	OnEntityInside    func(worldID int64, x, y, z, entityID int32)
}

// BlockDefinition describes one block to register.
type BlockDefinition struct {
	ID       string // "namespace:path"
	Settings BlockSettings
	Hooks    BlockHooks
}

// Block is a registered block.
type Block struct {
	ID        string
	HandlerID int64
}

// RegisterBlock queues a block for registration and binds its hooks.
// Must be called during Load.
func (c *Context) RegisterBlock(def BlockDefinition) (*Block, error) {
	id := c.env.Bridge.RegisterBlock(def.ID, def.Settings)
	if id == 0 {
		return nil, fmt.Errorf("block %q rejected", def.ID)
	}
	b := c.env.Bridge
	h := def.Hooks

	if fn := h.OnBreak; fn != nil {
		b.InstallRoute(runtime.EventCustomBlockBreak, id, func(args []marshal.Value) (marshal.Value, error) {
			return marshal.Bool(fn(args[0].AsHandle(), args[1].AsInt32(), args[2].AsInt32(), args[3].AsInt32(), args[4].AsInt64())), nil
		})
	}
	if fn := h.OnUse; fn != nil {
		b.InstallRoute(runtime.EventCustomBlockUse, id, func(args []marshal.Value) (marshal.Value, error) {
			a := fn(args[0].AsHandle(), args[1].AsInt32(), args[2].AsInt32(), args[3].AsInt32(),
				args[4].AsInt64(), args[5].AsInt32())
			return marshal.Int32(int32(a)), nil
		})
	}
	if fn := h.OnSteppedOn; fn != nil {
		b.InstallRoute(runtime.EventCustomBlockSteppedOn, id, blockEntityRoute(fn))
	}
	if fn := h.OnFallenUpon; fn != nil {
		b.InstallRoute(runtime.EventCustomBlockFallenUpon, id, func(args []marshal.Value) (marshal.Value, error) {
			fn(args[0].AsHandle(), args[1].AsInt32(), args[2].AsInt32(), args[3].AsInt32(),
				args[4].AsInt32(), args[5].AsFloat32())
			return marshal.Null(), nil
		})
	}
	if fn := h.OnRandomTick; fn != nil {
		b.InstallRoute(runtime.EventCustomBlockRandomTick, id, blockPosRoute(fn))
	}
	if fn := h.OnPlaced; fn != nil {
		b.InstallRoute(runtime.EventCustomBlockPlaced, id, func(args []marshal.Value) (marshal.Value, error) {
			fn(args[0].AsHandle(), args[1].AsInt32(), args[2].AsInt32(), args[3].AsInt32(), args[4].AsInt64())
			return marshal.Null(), nil
		})
	}
	if fn := h.OnRemoved; fn != nil {
		b.InstallRoute(runtime.EventCustomBlockRemoved, id, blockPosRoute(fn))
	}
	if fn := h.OnNeighborChanged; fn != nil {
		b.InstallRoute(runtime.EventCustomBlockNeighborChanged, id, func(args []marshal.Value) (marshal.Value, error) {
			fn(args[0].AsHandle(), args[1].AsInt32(), args[2].AsInt32(), args[3].AsInt32(),
				args[4].AsInt32(), args[5].AsInt32(), args[6].AsInt32())
			return marshal.Null(), nil
		})
	}
	if fn := h.OnEntityInside; fn != nil {
		b.InstallRoute(runtime.EventCustomBlockEntityInside, id, blockEntityRoute(fn))
	}

	return &Block{ID: def.ID, HandlerID: id}, nil
}

func blockPosRoute(fn func(worldID int64, x, y, z int32)) runtime.Handler {
	return func(args []marshal.Value) (marshal.Value, error) {
		fn(args[0].AsHandle(), args[1].AsInt32(), args[2].AsInt32(), args[3].AsInt32())
		return marshal.Null(), nil
	}
}

func blockEntityRoute(fn func(worldID int64, x, y, z, entityID int32)) runtime.Handler {
	return func(args []marshal.Value) (marshal.Value, error) {
		fn(args[0].AsHandle(), args[1].AsInt32(), args[2].AsInt32(), args[3].AsInt32(), args[4].AsInt32())
		return marshal.Null(), nil
	}
}

// ============================================================
// Items
// ============================================================

// ItemHooks are per-object item callbacks.
type ItemHooks struct {
	// OnAttackEntity fires after a hit with this item. False cancels
	// follow-on effects.
	OnAttackEntity func(worldID int64, attackerID, targetID int32) bool

	OnUse         func(worldID int64, playerID, hand int32) ItemAction
	OnUseOnBlock  func(worldID int64, x, y, z, playerID, hand int32) ItemAction
	OnUseOnEntity func(worldID int64, entityID, playerID, hand int32) ItemAction
}

// ItemDefinition describes one item to register.
type ItemDefinition struct {
	ID       string
	Settings ItemSettings
	Hooks    ItemHooks
}

// Item is a registered item.
type Item struct {
	ID        string
	HandlerID int64
}

// RegisterItem queues an item for registration and binds its hooks.
// Must be called during Load.
func (c *Context) RegisterItem(def ItemDefinition) (*Item, error) {
	id := c.env.Bridge.RegisterItem(def.ID, def.Settings)
	if id == 0 {
		return nil, fmt.Errorf("item %q rejected", def.ID)
	}
	b := c.env.Bridge
	h := def.Hooks

	if fn := h.OnAttackEntity; fn != nil {
		b.InstallRoute(runtime.EventCustomItemAttackEntity, id, func(args []marshal.Value) (marshal.Value, error) {
			return marshal.Bool(fn(args[0].AsHandle(), args[1].AsInt32(), args[2].AsInt32())), nil
		})
	}
	if fn := h.OnUse; fn != nil {
		b.InstallRoute(runtime.EventCustomItemUse, id, func(args []marshal.Value) (marshal.Value, error) {
			return marshal.Int32(int32(fn(args[0].AsHandle(), args[1].AsInt32(), args[2].AsInt32()))), nil
		})
	}
	if fn := h.OnUseOnBlock; fn != nil {
		b.InstallRoute(runtime.EventCustomItemUseOnBlock, id, func(args []marshal.Value) (marshal.Value, error) {
			return marshal.Int32(int32(fn(args[0].AsHandle(), args[1].AsInt32(), args[2].AsInt32(),
				args[3].AsInt32(), args[4].AsInt32(), args[5].AsInt32()))), nil
		})
	}
	if fn := h.OnUseOnEntity; fn != nil {
		b.InstallRoute(runtime.EventCustomItemUseOnEntity, id, func(args []marshal.Value) (marshal.Value, error) {
			return marshal.Int32(int32(fn(args[0].AsHandle(), args[1].AsInt32(), args[2].AsInt32(),
				args[3].AsInt32()))), nil
		})
	}

	return &Item{ID: def.ID, HandlerID: id}, nil
}

// ============================================================
// Entities
// ============================================================

// EntityHooks are per-object entity callbacks.
type EntityHooks struct {
	OnSpawn func(entityID int32, worldID int64)
	OnTick  func(entityID int32)
	OnDeath func(entityID int32, source string)

	// OnDamage fires when this entity takes damage. False cancels.
	OnDamage func(entityID int32, source string, amount float64) bool

	OnAttack func(entityID, targetID int32)
	OnTarget func(entityID, targetID int32)

	// Projectile hooks fire for entities with a projectile base type.
	OnProjectileHitEntity func(projectileID, targetID int32)
	OnProjectileHitBlock  func(projectileID, x, y, z int32, side string)

	// OnBreed fires when two of this entity produce offspring.
	OnBreed func(entityID, partnerID, babyID int32)
}

// GoalSpec is one entry in an entity's goal selector, rendered to the
// JSON the engine's goal factory parses. Use CustomGoal for scripted
// goals and BuiltinGoal for engine-side ones.
type GoalSpec map[string]any

// BuiltinGoal builds a selector entry for an engine-side goal type
// (for example "melee_attack" or "random_stroll"). Extra knobs like
// "speedModifier" go in opts.
func BuiltinGoal(priority int, goalType string, opts map[string]any) GoalSpec {
	g := GoalSpec{"type": goalType, "priority": priority}
	for k, v := range opts {
		g[k] = v
	}
	return g
}

// CustomGoal builds a selector entry that drives a Goal registered
// with RegisterGoal under the same id.
func CustomGoal(priority int, goalID string) GoalSpec {
	return GoalSpec{"type": "custom", "priority": priority, "goalId": goalID}
}

// marshalGoals renders selector entries to the opaque descriptor
// string the engine parses. Empty input stays empty.
func marshalGoals(specs []GoalSpec) (string, error) {
	if len(specs) == 0 {
		return "", nil
	}
	raw, err := json.Marshal(specs)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// EntityDefinition describes one entity type to register.
type EntityDefinition struct {
	ID       string
	Settings EntitySettings

	// Goals and TargetGoals populate the settings' descriptor JSON;
	// leave them empty to pass Settings.GoalsJSON through untouched.
	Goals       []GoalSpec
	TargetGoals []GoalSpec

	Hooks EntityHooks
}

// Entity is a registered entity type.
type Entity struct {
	ID        string
	HandlerID int64
}

// RegisterEntity queues an entity type for registration and binds its
// hooks. Must be called during Load.
func (c *Context) RegisterEntity(def EntityDefinition) (*Entity, error) {
	s := def.Settings
	if len(def.Goals) > 0 {
		goals, err := marshalGoals(def.Goals)
		if err != nil {
			return nil, fmt.Errorf("entity %q goals: %w", def.ID, err)
		}
		s.GoalsJSON = goals
	}
	if len(def.TargetGoals) > 0 {
		goals, err := marshalGoals(def.TargetGoals)
		if err != nil {
			return nil, fmt.Errorf("entity %q target goals: %w", def.ID, err)
		}
		s.TargetGoalsJSON = goals
	}

	id := c.env.Bridge.RegisterEntity(def.ID, s)
	if id == 0 {
		return nil, fmt.Errorf("entity %q rejected", def.ID)
	}
	b := c.env.Bridge
	h := def.Hooks

	if fn := h.OnSpawn; fn != nil {
		b.InstallRoute(runtime.EventCustomEntitySpawn, id, func(args []marshal.Value) (marshal.Value, error) {
			fn(args[0].AsInt32(), args[1].AsHandle())
			return marshal.Null(), nil
		})
	}
	if fn := h.OnTick; fn != nil {
		b.InstallRoute(runtime.EventCustomEntityTick, id, func(args []marshal.Value) (marshal.Value, error) {
			fn(args[0].AsInt32())
			return marshal.Null(), nil
		})
	}
	if fn := h.OnDeath; fn != nil {
		b.InstallRoute(runtime.EventCustomEntityDeath, id, func(args []marshal.Value) (marshal.Value, error) {
			fn(args[0].AsInt32(), args[1].AsString())
			return marshal.Null(), nil
		})
	}
	if fn := h.OnDamage; fn != nil {
		b.InstallRoute(runtime.EventCustomEntityDamage, id, func(args []marshal.Value) (marshal.Value, error) {
			return marshal.Bool(fn(args[0].AsInt32(), args[1].AsString(), args[2].AsFloat64())), nil
		})
	}
	if fn := h.OnAttack; fn != nil {
		b.InstallRoute(runtime.EventCustomEntityAttack, id, entityPairRoute(fn))
	}
	if fn := h.OnTarget; fn != nil {
		b.InstallRoute(runtime.EventCustomEntityTarget, id, entityPairRoute(fn))
	}
	if fn := h.OnProjectileHitEntity; fn != nil {
		b.InstallRoute(runtime.EventProjectileHitEntity, id, entityPairRoute(fn))
	}
	if fn := h.OnProjectileHitBlock; fn != nil {
		b.InstallRoute(runtime.EventProjectileHitBlock, id, func(args []marshal.Value) (marshal.Value, error) {
			fn(args[0].AsInt32(), args[1].AsInt32(), args[2].AsInt32(), args[3].AsInt32(), args[4].AsString())
			return marshal.Null(), nil
		})
	}
	if fn := h.OnBreed; fn != nil {
		b.InstallRoute(runtime.EventAnimalBreed, id, func(args []marshal.Value) (marshal.Value, error) {
			fn(args[0].AsInt32(), args[1].AsInt32(), args[2].AsInt32())
			return marshal.Null(), nil
		})
	}

	return &Entity{ID: def.ID, HandlerID: id}, nil
}

func entityPairRoute(fn func(a, b int32)) runtime.Handler {
	return func(args []marshal.Value) (marshal.Value, error) {
		fn(args[0].AsInt32(), args[1].AsInt32())
		return marshal.Null(), nil
	}
}
