// Package runtime provides the event dispatch engine: the handler
// slot table, per-object routing, the default-result policy, and the
// tick pump that drives the script scheduler.
package runtime

import "github.com/redstonemc/redstone/internal/marshal"

// EventKind enumerates every boundary event. The set is fixed at
// compile time; the engine and the script SDK agree on it through the
// typed dispatch surface, never through raw kind numbers.
type EventKind int

const (
	// Server lifecycle and the global tick.
	EventServerStarting EventKind = iota
	EventServerStarted
	EventServerStopping
	EventTick

	// World-wide events, fired for any block regardless of origin.
	EventAnyBlockBreak
	EventAnyBlockInteract
	EventBlockPlace

	// Player events.
	EventPlayerJoin
	EventPlayerLeave
	EventPlayerRespawn
	EventPlayerDeath
	EventPlayerChat
	EventPlayerCommand
	EventPlayerAttackEntity
	EventPlayerPickupItem
	EventPlayerDropItem

	// World-wide entity and item events.
	EventEntityDamage
	EventEntityDeath
	EventItemUse
	EventItemUseOnBlock
	EventItemUseOnEntity

	// Command and packet plumbing.
	EventCommandExecute
	EventPacketReceived

	// Per-object block events, routed by handler id.
	EventCustomBlockBreak
	EventCustomBlockUse
	EventCustomBlockSteppedOn
	EventCustomBlockFallenUpon
	EventCustomBlockRandomTick
	EventCustomBlockPlaced
	EventCustomBlockRemoved
	EventCustomBlockNeighborChanged
	EventCustomBlockEntityInside

	// Per-object entity events.
	EventCustomEntitySpawn
	EventCustomEntityTick
	EventCustomEntityDeath
	EventCustomEntityDamage
	EventCustomEntityAttack
	EventCustomEntityTarget

	// Per-object projectile and breeding events.
	EventProjectileHitEntity
	EventProjectileHitBlock
	EventAnimalBreed

	// Per-object item events.
	EventCustomItemAttackEntity
	EventCustomItemUse
	EventCustomItemUseOnBlock
	EventCustomItemUseOnEntity

	// Scripted AI goal hooks, routed by handler id.
	EventGoalCanUse
	EventGoalCanContinue
	EventGoalStart
	EventGoalTick
	EventGoalStop

	numEventKinds
)

// Block interaction results, as the host maps them.
const (
	BlockActionSuccess        = 0
	BlockActionConsume        = 1
	BlockActionConsumePartial = 2
	BlockActionPass           = 3
	BlockActionFail           = 4
)

// Item interaction results. The ordinals differ from the block table;
// the host maintains separate mappings for the two.
const (
	ItemActionSuccess        = 0
	ItemActionConsumePartial = 1
	ItemActionConsume        = 2
	ItemActionFail           = 3
	ItemActionPass           = 4
)

var eventNames = map[EventKind]string{
	EventServerStarting:             "serverStarting",
	EventServerStarted:              "serverStarted",
	EventServerStopping:             "serverStopping",
	EventTick:                       "tick",
	EventAnyBlockBreak:              "anyBlockBreak",
	EventAnyBlockInteract:           "anyBlockInteract",
	EventBlockPlace:                 "blockPlace",
	EventPlayerJoin:                 "playerJoin",
	EventPlayerLeave:                "playerLeave",
	EventPlayerRespawn:              "playerRespawn",
	EventPlayerDeath:                "playerDeath",
	EventPlayerChat:                 "playerChat",
	EventPlayerCommand:              "playerCommand",
	EventPlayerAttackEntity:         "playerAttackEntity",
	EventPlayerPickupItem:           "playerPickupItem",
	EventPlayerDropItem:             "playerDropItem",
	EventEntityDamage:               "entityDamage",
	EventEntityDeath:                "entityDeath",
	EventItemUse:                    "itemUse",
	EventItemUseOnBlock:             "itemUseOnBlock",
	EventItemUseOnEntity:            "itemUseOnEntity",
	EventCommandExecute:             "commandExecute",
	EventPacketReceived:             "packetReceived",
	EventCustomBlockBreak:           "customBlockBreak",
	EventCustomBlockUse:             "customBlockUse",
	EventCustomBlockSteppedOn:       "customBlockSteppedOn",
	EventCustomBlockFallenUpon:      "customBlockFallenUpon",
	EventCustomBlockRandomTick:      "customBlockRandomTick",
	EventCustomBlockPlaced:          "customBlockPlaced",
	EventCustomBlockRemoved:         "customBlockRemoved",
	EventCustomBlockNeighborChanged: "customBlockNeighborChanged",
	EventCustomBlockEntityInside:    "customBlockEntityInside",
	EventCustomEntitySpawn:          "customEntitySpawn",
	EventCustomEntityTick:           "customEntityTick",
	EventCustomEntityDeath:          "customEntityDeath",
	EventCustomEntityDamage:         "customEntityDamage",
	EventCustomEntityAttack:         "customEntityAttack",
	EventCustomEntityTarget:         "customEntityTarget",
	EventProjectileHitEntity:        "projectileHitEntity",
	EventProjectileHitBlock:         "projectileHitBlock",
	EventAnimalBreed:                "animalBreed",
	EventCustomItemAttackEntity:     "customItemAttackEntity",
	EventCustomItemUse:              "customItemUse",
	EventCustomItemUseOnBlock:       "customItemUseOnBlock",
	EventCustomItemUseOnEntity:      "customItemUseOnEntity",
	EventGoalCanUse:                 "goalCanUse",
	EventGoalCanContinue:            "goalCanContinue",
	EventGoalStart:                  "goalStart",
	EventGoalTick:                   "goalTick",
	EventGoalStop:                   "goalStop",
}

// String returns the event name
func (k EventKind) String() string {
	if n, ok := eventNames[k]; ok {
		return n
	}
	return "unknown"
}

// routed reports whether the kind is demultiplexed by handler id.
// Goal hooks are not: they carry a string goal id and the script side
// routes them itself. Command execution routes on the command id.
func (k EventKind) routed() bool {
	if k == EventCommandExecute {
		return true
	}
	return k >= EventCustomBlockBreak && k <= EventCustomItemUseOnEntity
}

// defaultResults is the per-kind result used when no handler is
// installed, or when one fails. These values are load-bearing: a
// wrong default silently breaks vanilla behavior, so change them only
// with the host-side tables in view.
var defaultResults = map[EventKind]marshal.Value{
	// Gameplay "allow" defaults.
	EventAnyBlockBreak:    marshal.Int32(1),
	EventAnyBlockInteract: marshal.Int32(1),
	EventItemUseOnBlock:   marshal.Int32(1),
	EventItemUseOnEntity:  marshal.Int32(1),

	EventCustomBlockBreak:       marshal.Bool(true),
	EventEntityDamage:           marshal.Bool(true),
	EventCustomEntityDamage:     marshal.Bool(true),
	EventPlayerAttackEntity:     marshal.Bool(true),
	EventPlayerCommand:          marshal.Bool(true),
	EventPlayerPickupItem:       marshal.Bool(true),
	EventPlayerDropItem:         marshal.Bool(true),
	EventItemUse:                marshal.Bool(true),
	EventBlockPlace:             marshal.Bool(true),
	EventCustomItemAttackEntity: marshal.Bool(true),

	// Action-result "pass" defaults, letting vanilla handling run.
	EventCustomBlockUse:        marshal.Int32(BlockActionPass),
	EventCustomItemUse:         marshal.Int32(ItemActionPass),
	EventCustomItemUseOnBlock:  marshal.Int32(ItemActionPass),
	EventCustomItemUseOnEntity: marshal.Int32(ItemActionPass),

	// 0 tells the command system the command is unknown.
	EventCommandExecute: marshal.Int32(0),

	// An unscripted goal never runs.
	EventGoalCanUse:      marshal.Bool(false),
	EventGoalCanContinue: marshal.Bool(false),

	// Optional-string events: null means keep the original text.
	EventPlayerChat:  marshal.Null(),
	EventPlayerDeath: marshal.Null(),
}

// DefaultResult returns the documented fallback for a kind. Kinds not
// in the table are notifications and default to null.
func DefaultResult(kind EventKind) marshal.Value {
	if v, ok := defaultResults[kind]; ok {
		return v
	}
	return marshal.Null()
}
