package bridge

import (
	"github.com/redstonemc/redstone/internal/marshal"
	"github.com/redstonemc/redstone/internal/runtime"
)

// Host-facing dispatch surface. One method per event kind, with fixed
// typed signatures; the set only grows, existing signatures never
// change (see ABIVersion). Every method is safe to call at any time:
// before init, in datagen mode, or after a handler blew up, the
// caller gets the kind's documented default.

// guard reports whether handlers may run at all.
func (b *Bridge) guard() bool {
	return b.ready.Load() && b.gen == nil
}

func (b *Bridge) dispatch(kind runtime.EventKind, handlerID int64, args ...marshal.Value) marshal.Value {
	if !b.guard() {
		return runtime.DefaultResult(kind)
	}
	return b.engine.Dispatch(kind, handlerID, args...)
}

// ── lifecycle and tick ────────────────────────────────────────

// DispatchServerStarting fires before the first world loads.
func (b *Bridge) DispatchServerStarting() {
	b.dispatch(runtime.EventServerStarting, 0)
}

// DispatchServerStarted fires once the server accepts players.
func (b *Bridge) DispatchServerStarted() {
	b.dispatch(runtime.EventServerStarted, 0)
}

// DispatchServerStopping fires at the start of shutdown.
func (b *Bridge) DispatchServerStopping() {
	b.dispatch(runtime.EventServerStopping, 0)
}

// DispatchTick runs one server tick: the scheduler drains before the
// tick handler runs, and again after.
func (b *Bridge) DispatchTick(tick int64) {
	if !b.guard() {
		return
	}
	b.engine.DispatchTick(tick)
}

// ── world-wide block events ───────────────────────────────────

// DispatchBlockBreak fires for any block break. Non-1 cancels.
func (b *Bridge) DispatchBlockBreak(x, y, z int32, playerID int64) int32 {
	return b.dispatch(runtime.EventAnyBlockBreak, 0,
		marshal.Int32(x), marshal.Int32(y), marshal.Int32(z), marshal.Int64(playerID)).AsInt32()
}

// DispatchBlockInteract fires for any block interaction.
func (b *Bridge) DispatchBlockInteract(x, y, z int32, playerID int64, hand int32) int32 {
	return b.dispatch(runtime.EventAnyBlockInteract, 0,
		marshal.Int32(x), marshal.Int32(y), marshal.Int32(z), marshal.Int64(playerID), marshal.Int32(hand)).AsInt32()
}

// DispatchBlockPlace fires when a player places a block. False cancels.
func (b *Bridge) DispatchBlockPlace(playerID, x, y, z int32, blockID string) bool {
	return b.dispatch(runtime.EventBlockPlace, 0,
		marshal.Int32(playerID), marshal.Int32(x), marshal.Int32(y), marshal.Int32(z), marshal.String(blockID)).AsBool()
}

// ── player events ─────────────────────────────────────────────

// DispatchPlayerJoin fires after a player finishes connecting.
func (b *Bridge) DispatchPlayerJoin(playerID int32) {
	b.dispatch(runtime.EventPlayerJoin, 0, marshal.Int32(playerID))
}

// DispatchPlayerLeave fires when a player disconnects.
func (b *Bridge) DispatchPlayerLeave(playerID int32) {
	b.dispatch(runtime.EventPlayerLeave, 0, marshal.Int32(playerID))
}

// DispatchPlayerRespawn fires on respawn.
func (b *Bridge) DispatchPlayerRespawn(playerID int32, endConquered bool) {
	b.dispatch(runtime.EventPlayerRespawn, 0, marshal.Int32(playerID), marshal.Bool(endConquered))
}

// DispatchPlayerDeath may replace the death message. ok is false when
// the original message should be used unchanged.
func (b *Bridge) DispatchPlayerDeath(playerID int32, damageSource string) (msg string, ok bool) {
	v := b.dispatch(runtime.EventPlayerDeath, 0, marshal.Int32(playerID), marshal.String(damageSource))
	if v.IsNull() {
		return "", false
	}
	return v.AsString(), true
}

// DispatchPlayerChat may rewrite a chat message. ok is false when the
// message should pass through unchanged.
func (b *Bridge) DispatchPlayerChat(playerID int32, message string) (msg string, ok bool) {
	v := b.dispatch(runtime.EventPlayerChat, 0, marshal.Int32(playerID), marshal.String(message))
	if v.IsNull() {
		return "", false
	}
	return v.AsString(), true
}

// DispatchPlayerCommand fires for slash input. False suppresses it.
func (b *Bridge) DispatchPlayerCommand(playerID int32, command string) bool {
	return b.dispatch(runtime.EventPlayerCommand, 0, marshal.Int32(playerID), marshal.String(command)).AsBool()
}

// DispatchPlayerAttackEntity fires on melee attacks. False cancels.
func (b *Bridge) DispatchPlayerAttackEntity(playerID, targetID int32) bool {
	return b.dispatch(runtime.EventPlayerAttackEntity, 0, marshal.Int32(playerID), marshal.Int32(targetID)).AsBool()
}

// DispatchPlayerPickupItem fires before an item entity is collected.
func (b *Bridge) DispatchPlayerPickupItem(playerID, itemEntityID int32) bool {
	return b.dispatch(runtime.EventPlayerPickupItem, 0, marshal.Int32(playerID), marshal.Int32(itemEntityID)).AsBool()
}

// DispatchPlayerDropItem fires before a stack is tossed.
func (b *Bridge) DispatchPlayerDropItem(playerID int32, itemID string, count int32) bool {
	return b.dispatch(runtime.EventPlayerDropItem, 0,
		marshal.Int32(playerID), marshal.String(itemID), marshal.Int32(count)).AsBool()
}

// ── world-wide entity and item events ─────────────────────────

// DispatchEntityDamage fires for any entity damage. False cancels.
func (b *Bridge) DispatchEntityDamage(entityID int32, damageSource string, amount float64) bool {
	return b.dispatch(runtime.EventEntityDamage, 0,
		marshal.Int32(entityID), marshal.String(damageSource), marshal.Float64(amount)).AsBool()
}

// DispatchEntityDeath fires after any entity dies.
func (b *Bridge) DispatchEntityDeath(entityID int32, damageSource string) {
	b.dispatch(runtime.EventEntityDeath, 0, marshal.Int32(entityID), marshal.String(damageSource))
}

// DispatchItemUse fires on right-click with any item. False cancels.
func (b *Bridge) DispatchItemUse(playerID int32, itemID string, count, hand int32) bool {
	return b.dispatch(runtime.EventItemUse, 0,
		marshal.Int32(playerID), marshal.String(itemID), marshal.Int32(count), marshal.Int32(hand)).AsBool()
}

// DispatchItemUseOnBlock fires when any item is used on a block.
func (b *Bridge) DispatchItemUseOnBlock(playerID int32, itemID string, count, hand, x, y, z, face int32) int32 {
	return b.dispatch(runtime.EventItemUseOnBlock, 0,
		marshal.Int32(playerID), marshal.String(itemID), marshal.Int32(count), marshal.Int32(hand),
		marshal.Int32(x), marshal.Int32(y), marshal.Int32(z), marshal.Int32(face)).AsInt32()
}

// DispatchItemUseOnEntity fires when any item is used on an entity.
func (b *Bridge) DispatchItemUseOnEntity(playerID int32, itemID string, count, hand, targetID int32) int32 {
	return b.dispatch(runtime.EventItemUseOnEntity, 0,
		marshal.Int32(playerID), marshal.String(itemID), marshal.Int32(count), marshal.Int32(hand),
		marshal.Int32(targetID)).AsInt32()
}

// ── commands and packets ──────────────────────────────────────

// DispatchCommandExecute runs a scripted command, routed by the id
// handed out at registration. 0 means unknown command, 1 means
// success.
func (b *Bridge) DispatchCommandExecute(commandID int64, playerID int32, argsJSON string) int32 {
	return b.dispatch(runtime.EventCommandExecute, commandID,
		marshal.Int64(commandID), marshal.Int32(playerID), marshal.String(argsJSON)).AsInt32()
}

// DispatchPacketReceived routes an inbound packet. The payload is
// cloned before any handler sees it.
func (b *Bridge) DispatchPacketReceived(senderID, packetType int32, payload []byte) {
	b.dispatch(runtime.EventPacketReceived, 0,
		marshal.Int32(senderID), marshal.Int32(packetType), marshal.Bytes(payload))
}

// ── per-object block events ───────────────────────────────────

// DispatchCustomBlockBreak fires for a scripted block. False cancels.
func (b *Bridge) DispatchCustomBlockBreak(handlerID, worldID int64, x, y, z int32, playerID int64) bool {
	return b.dispatch(runtime.EventCustomBlockBreak, handlerID,
		marshal.Handle(worldID), marshal.Int32(x), marshal.Int32(y), marshal.Int32(z), marshal.Int64(playerID)).AsBool()
}

// DispatchCustomBlockUse fires on right-click; returns a block action
// ordinal.
func (b *Bridge) DispatchCustomBlockUse(handlerID, worldID int64, x, y, z int32, playerID int64, hand int32) int32 {
	return b.dispatch(runtime.EventCustomBlockUse, handlerID,
		marshal.Handle(worldID), marshal.Int32(x), marshal.Int32(y), marshal.Int32(z),
		marshal.Int64(playerID), marshal.Int32(hand)).AsInt32()
}

// DispatchCustomBlockSteppedOn fires when an entity stands on the block.
func (b *Bridge) DispatchCustomBlockSteppedOn(handlerID, worldID int64, x, y, z, entityID int32) {
	b.dispatch(runtime.EventCustomBlockSteppedOn, handlerID,
		marshal.Handle(worldID), marshal.Int32(x), marshal.Int32(y), marshal.Int32(z), marshal.Int32(entityID))
}

// DispatchCustomBlockFallenUpon fires on landing impact.
func (b *Bridge) DispatchCustomBlockFallenUpon(handlerID, worldID int64, x, y, z, entityID int32, fallDistance float32) {
	b.dispatch(runtime.EventCustomBlockFallenUpon, handlerID,
		marshal.Handle(worldID), marshal.Int32(x), marshal.Int32(y), marshal.Int32(z),
		marshal.Int32(entityID), marshal.Float32(fallDistance))
}

// DispatchCustomBlockRandomTick fires for blocks registered with
// random ticking.
func (b *Bridge) DispatchCustomBlockRandomTick(handlerID, worldID int64, x, y, z int32) {
	b.dispatch(runtime.EventCustomBlockRandomTick, handlerID,
		marshal.Handle(worldID), marshal.Int32(x), marshal.Int32(y), marshal.Int32(z))
}

// DispatchCustomBlockPlaced fires after placement.
func (b *Bridge) DispatchCustomBlockPlaced(handlerID, worldID int64, x, y, z int32, playerID int64) {
	b.dispatch(runtime.EventCustomBlockPlaced, handlerID,
		marshal.Handle(worldID), marshal.Int32(x), marshal.Int32(y), marshal.Int32(z), marshal.Int64(playerID))
}

// DispatchCustomBlockRemoved fires after the block leaves the world.
func (b *Bridge) DispatchCustomBlockRemoved(handlerID, worldID int64, x, y, z int32) {
	b.dispatch(runtime.EventCustomBlockRemoved, handlerID,
		marshal.Handle(worldID), marshal.Int32(x), marshal.Int32(y), marshal.Int32(z))
}

// DispatchCustomBlockNeighborChanged fires when an adjacent block
// updates.
func (b *Bridge) DispatchCustomBlockNeighborChanged(handlerID, worldID int64, x, y, z, nx, ny, nz int32) {
	b.dispatch(runtime.EventCustomBlockNeighborChanged, handlerID,
		marshal.Handle(worldID), marshal.Int32(x), marshal.Int32(y), marshal.Int32(z),
		marshal.Int32(nx), marshal.Int32(ny), marshal.Int32(nz))
}

// DispatchCustomBlockEntityInside fires each tick an entity overlaps
// the block.
func (b *Bridge) DispatchCustomBlockEntityInside(handlerID, worldID int64, x, y, z, entityID int32) {
	b.dispatch(runtime.EventCustomBlockEntityInside, handlerID,
		marshal.Handle(worldID), marshal.Int32(x), marshal.Int32(y), marshal.Int32(z), marshal.Int32(entityID))
}

// ── per-object entity events ──────────────────────────────────

// DispatchCustomEntitySpawn fires when a scripted entity enters a world.
func (b *Bridge) DispatchCustomEntitySpawn(handlerID int64, entityID int32, worldID int64) {
	b.dispatch(runtime.EventCustomEntitySpawn, handlerID,
		marshal.Int32(entityID), marshal.Handle(worldID))
}

// DispatchCustomEntityTick fires every tick for a scripted entity.
func (b *Bridge) DispatchCustomEntityTick(handlerID int64, entityID int32) {
	b.dispatch(runtime.EventCustomEntityTick, handlerID, marshal.Int32(entityID))
}

// DispatchCustomEntityDeath fires when a scripted entity dies.
func (b *Bridge) DispatchCustomEntityDeath(handlerID int64, entityID int32, damageSource string) {
	b.dispatch(runtime.EventCustomEntityDeath, handlerID,
		marshal.Int32(entityID), marshal.String(damageSource))
}

// DispatchCustomEntityDamage fires when a scripted entity takes
// damage. False cancels.
func (b *Bridge) DispatchCustomEntityDamage(handlerID int64, entityID int32, damageSource string, amount float64) bool {
	return b.dispatch(runtime.EventCustomEntityDamage, handlerID,
		marshal.Int32(entityID), marshal.String(damageSource), marshal.Float64(amount)).AsBool()
}

// DispatchCustomEntityAttack fires when a scripted entity lands a hit.
func (b *Bridge) DispatchCustomEntityAttack(handlerID int64, entityID, targetID int32) {
	b.dispatch(runtime.EventCustomEntityAttack, handlerID,
		marshal.Int32(entityID), marshal.Int32(targetID))
}

// DispatchCustomEntityTarget fires when a scripted entity acquires a
// target.
func (b *Bridge) DispatchCustomEntityTarget(handlerID int64, entityID, targetID int32) {
	b.dispatch(runtime.EventCustomEntityTarget, handlerID,
		marshal.Int32(entityID), marshal.Int32(targetID))
}

// ── projectiles and breeding ──────────────────────────────────

// DispatchProjectileHitEntity fires when a scripted projectile
// connects.
func (b *Bridge) DispatchProjectileHitEntity(handlerID int64, projectileID, targetID int32) {
	b.dispatch(runtime.EventProjectileHitEntity, handlerID,
		marshal.Int32(projectileID), marshal.Int32(targetID))
}

// DispatchProjectileHitBlock fires when a scripted projectile lands.
func (b *Bridge) DispatchProjectileHitBlock(handlerID int64, projectileID, x, y, z int32, side string) {
	b.dispatch(runtime.EventProjectileHitBlock, handlerID,
		marshal.Int32(projectileID), marshal.Int32(x), marshal.Int32(y), marshal.Int32(z), marshal.String(side))
}

// DispatchAnimalBreed fires when two scripted animals produce
// offspring.
func (b *Bridge) DispatchAnimalBreed(handlerID int64, entityID, partnerID, babyID int32) {
	b.dispatch(runtime.EventAnimalBreed, handlerID,
		marshal.Int32(entityID), marshal.Int32(partnerID), marshal.Int32(babyID))
}

// ── per-object item events ────────────────────────────────────

// DispatchCustomItemAttackEntity fires after a hit with a scripted
// item. False cancels follow-on effects.
func (b *Bridge) DispatchCustomItemAttackEntity(handlerID, worldID int64, attackerID, targetID int32) bool {
	return b.dispatch(runtime.EventCustomItemAttackEntity, handlerID,
		marshal.Handle(worldID), marshal.Int32(attackerID), marshal.Int32(targetID)).AsBool()
}

// DispatchCustomItemUse fires on right-click with a scripted item;
// returns an item action ordinal.
func (b *Bridge) DispatchCustomItemUse(handlerID, worldID int64, playerID, hand int32) int32 {
	return b.dispatch(runtime.EventCustomItemUse, handlerID,
		marshal.Handle(worldID), marshal.Int32(playerID), marshal.Int32(hand)).AsInt32()
}

// DispatchCustomItemUseOnBlock fires when a scripted item is used on
// a block.
func (b *Bridge) DispatchCustomItemUseOnBlock(handlerID, worldID int64, x, y, z, playerID, hand int32) int32 {
	return b.dispatch(runtime.EventCustomItemUseOnBlock, handlerID,
		marshal.Handle(worldID), marshal.Int32(x), marshal.Int32(y), marshal.Int32(z),
		marshal.Int32(playerID), marshal.Int32(hand)).AsInt32()
}

// DispatchCustomItemUseOnEntity fires when a scripted item is used on
// an entity.
func (b *Bridge) DispatchCustomItemUseOnEntity(handlerID, worldID int64, entityID, playerID, hand int32) int32 {
	return b.dispatch(runtime.EventCustomItemUseOnEntity, handlerID,
		marshal.Handle(worldID), marshal.Int32(entityID), marshal.Int32(playerID), marshal.Int32(hand)).AsInt32()
}

// ── scripted AI goals ─────────────────────────────────────────

// DispatchGoalCanUse asks whether a scripted goal should activate.
func (b *Bridge) DispatchGoalCanUse(goalID string, entityID int32) bool {
	return b.dispatch(runtime.EventGoalCanUse, 0,
		marshal.String(goalID), marshal.Int32(entityID)).AsBool()
}

// DispatchGoalCanContinue asks whether an active goal should keep
// running.
func (b *Bridge) DispatchGoalCanContinue(goalID string, entityID int32) bool {
	return b.dispatch(runtime.EventGoalCanContinue, 0,
		marshal.String(goalID), marshal.Int32(entityID)).AsBool()
}

// DispatchGoalStart fires when a goal activates.
func (b *Bridge) DispatchGoalStart(goalID string, entityID int32) {
	b.dispatch(runtime.EventGoalStart, 0, marshal.String(goalID), marshal.Int32(entityID))
}

// DispatchGoalTick fires every tick while a goal is active.
func (b *Bridge) DispatchGoalTick(goalID string, entityID int32) {
	b.dispatch(runtime.EventGoalTick, 0, marshal.String(goalID), marshal.Int32(entityID))
}

// DispatchGoalStop fires when a goal deactivates.
func (b *Bridge) DispatchGoalStop(goalID string, entityID int32) {
	b.dispatch(runtime.EventGoalStop, 0, marshal.String(goalID), marshal.Int32(entityID))
}
