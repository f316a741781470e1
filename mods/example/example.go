// Package example provides an example Redstone mod demonstrating the
// SDK features: content registration, per-block and per-item hooks,
// scripted AI goals, commands, packets, timers, and the data store.
package example

import (
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/redstonemc/redstone/pkg/redstone"
)

// Packet types this mod exchanges with its client counterpart.
const (
	packetOreMined int32 = 0x52 // server -> client: ore break notification
	packetPing     int32 = 0x53 // client -> server: latency probe
)

// ExampleMod demonstrates Redstone SDK usage
type ExampleMod struct {
	redstone.BaseMod
	ctx *redstone.Context

	minedTotal int
	greetTimer *redstone.Timer
}

// Slug returns the mod's unique identifier. It namespaces the mod's
// store keys and its config entry.
func (m *ExampleMod) Slug() string {
	return "example"
}

// Name returns the mod name
func (m *ExampleMod) Name() string {
	return "Example Mod"
}

// Version returns the mod version
func (m *ExampleMod) Version() string {
	return "1.0.0"
}

// Load is called once during startup, inside the registration window.
func (m *ExampleMod) Load(ctx *redstone.Context) error {
	m.ctx = ctx

	if err := m.registerContent(); err != nil {
		return err
	}
	if err := m.registerCommands(); err != nil {
		return err
	}
	m.registerEvents()
	m.registerPackets()

	// Restore the lifetime mining counter from the store.
	if v, ok, err := ctx.StoreGet("mined_total"); err == nil && ok {
		m.minedTotal, _ = strconv.Atoi(v)
	}

	// Periodic server-side heartbeat, every 30 seconds of ticks.
	m.greetTimer = ctx.Every(600, func() {
		ctx.Log().Debug("example mod heartbeat")
	})

	ctx.Log().Info("example mod loaded")
	return nil
}

// Unload is called at shutdown.
func (m *ExampleMod) Unload() error {
	m.greetTimer.Stop()
	return m.ctx.StorePut("mined_total", strconv.Itoa(m.minedTotal))
}

// registerContent queues the mod's block, item, and entity.
func (m *ExampleMod) registerContent() error {
	blockSettings := redstone.DefaultBlockSettings()
	blockSettings.Hardness = 3.0
	blockSettings.Resistance = 3.0
	blockSettings.RequiresTool = true

	_, err := m.ctx.RegisterBlock(redstone.BlockDefinition{
		ID:       "example:ruby_ore",
		Settings: blockSettings,
		Hooks: redstone.BlockHooks{
			OnBreak: func(worldID int64, x, y, z int32, playerID int64) bool {
				m.minedTotal++
				m.ctx.SendPacket(int32(playerID), packetOreMined,
					[]byte(fmt.Sprintf("%d,%d,%d", x, y, z)))
				return true
			},
		},
	})
	if err != nil {
		return err
	}

	itemSettings := redstone.DefaultItemSettings()
	itemSettings.MaxStackSize = 1
	itemSettings.MaxDamage = 128

	_, err = m.ctx.RegisterItem(redstone.ItemDefinition{
		ID:       "example:ruby_wand",
		Settings: itemSettings,
		Hooks: redstone.ItemHooks{
			OnUse: func(worldID int64, playerID, hand int32) redstone.ItemAction {
				m.ctx.Log().Info("wand used")
				return redstone.ItemActionConsumePartial
			},
		},
	})
	if err != nil {
		return err
	}

	if err := m.ctx.RegisterGoal("example:guard_patrol", &patrolGoal{}); err != nil {
		return err
	}

	entitySettings := redstone.DefaultEntitySettings()
	entitySettings.MaxHealth = 30
	entitySettings.BaseType = "pathfinder"
	entitySettings.TexturePath = "example:textures/entity/ruby_golem.png"

	_, err = m.ctx.RegisterEntity(redstone.EntityDefinition{
		ID:       "example:ruby_golem",
		Settings: entitySettings,
		Goals: []redstone.GoalSpec{
			redstone.BuiltinGoal(0, "float", nil),
			redstone.BuiltinGoal(1, "melee_attack", map[string]any{"speedModifier": 1.1}),
			redstone.CustomGoal(2, "example:guard_patrol"),
			redstone.BuiltinGoal(3, "look_at_player", nil),
		},
		Hooks: redstone.EntityHooks{
			OnDamage: func(entityID int32, source string, amount float64) bool {
				// Golems shrug off fall damage.
				return source != "fall"
			},
		},
	})
	return err
}

// registerCommands wires the mod's slash commands.
func (m *ExampleMod) registerCommands() error {
	return m.ctx.RegisterCommand(redstone.CommandInfo{
		Name:        "rubystats",
		Description: "Show ruby ore mining statistics",
		Args: []redstone.CommandArg{
			{Name: "verbose", Type: redstone.ArgBool, Required: false},
		},
		Callback: func(inv *redstone.CommandInvocation) error {
			if inv.ArgBool("verbose", false) {
				m.ctx.Log().Info("rubystats requested",
					zap.Int32("player", inv.PlayerID), zap.Int("total", m.minedTotal))
			}
			m.ctx.SendPacket(inv.PlayerID, packetOreMined,
				[]byte(strconv.Itoa(m.minedTotal)))
			return nil
		},
	})
}

// registerEvents installs the mod's world event handlers.
func (m *ExampleMod) registerEvents() {
	m.ctx.OnPlayerJoin(func(playerID int32) {
		m.ctx.Log().Info("player joined", zap.Int32("player", playerID))
	})

	m.ctx.OnPlayerChat(func(e *redstone.ChatEvent) {
		if e.Message == "ping" {
			e.SetMessage("pong")
		}
	})
}

// registerPackets wires the mod's client channel.
func (m *ExampleMod) registerPackets() {
	m.ctx.OnPacket(packetPing, func(senderID int32, payload []byte) {
		// Echo the probe straight back.
		m.ctx.SendPacket(senderID, packetPing, payload)
	})
}

// patrolGoal walks a guard entity in a loop while nothing is nearby.
type patrolGoal struct {
	ticks int
}

func (g *patrolGoal) CanUse(entityID int32) bool      { return true }
func (g *patrolGoal) CanContinue(entityID int32) bool { return g.ticks < 200 }
func (g *patrolGoal) Start(entityID int32)            { g.ticks = 0 }
func (g *patrolGoal) Tick(entityID int32)             { g.ticks++ }
func (g *patrolGoal) Stop(entityID int32)             {}

func init() {
	redstone.Register(&ExampleMod{})
}
