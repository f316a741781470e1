// Package host declares the surface the game engine exposes to the
// bridge. The engine itself lives in another process layer; the
// bridge only ever talks to it through this interface.
package host

import "github.com/redstonemc/redstone/internal/registry"

// Engine applies drained registrations to the live registries and
// moves packets onto the wire. Registration methods are only legal
// during the engine's registry-freeze window, on its main thread; the
// lifecycle controller guarantees the bridge calls them exactly then.
type Engine interface {
	// ApplyBlock materializes a queued block. The engine keeps the
	// handler id on its side for per-object event callbacks.
	ApplyBlock(reg *registry.Registration) error

	// ApplyItem materializes a queued item.
	ApplyItem(reg *registry.Registration) error

	// ApplyEntity materializes a queued entity, including its goal
	// descriptors.
	ApplyEntity(reg *registry.Registration) error

	// RegisterCommand wires a scripted command into the engine's
	// command dispatcher. Executions come back with the command id.
	RegisterCommand(cmd registry.Command) error

	// DeliverPacket hands an outbound packet to a player connection.
	DeliverPacket(targetID, packetType int32, payload []byte) error
}
