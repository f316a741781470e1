package redstone

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/redstonemc/redstone/internal/manager"
)

// Context is a mod's handle on the framework. One is created per mod
// at load time; it stays valid for the life of the session.
type Context struct {
	slug  string
	env   *manager.Env
	hooks *hooks
}

func newContext(slug string, env *manager.Env) *Context {
	return &Context{slug: slug, env: env, hooks: hooksFor(env.Bridge)}
}

// Slug returns the owning mod's slug.
func (c *Context) Slug() string { return c.slug }

// Log returns a logger named after the mod.
func (c *Context) Log() *zap.Logger { return c.env.Log }

// ============================================================
// Data store
// ============================================================

// StoreGet reads a value from the mod's store namespace.
func (c *Context) StoreGet(key string) (string, bool, error) {
	if c.env.Store == nil {
		return "", false, fmt.Errorf("store unavailable")
	}
	return c.env.Store.Get(c.slug, key)
}

// StorePut writes a value to the mod's store namespace.
func (c *Context) StorePut(key, value string) error {
	if c.env.Store == nil {
		return fmt.Errorf("store unavailable")
	}
	return c.env.Store.Put(c.slug, key, value)
}

// StoreDelete removes a key from the mod's store namespace.
func (c *Context) StoreDelete(key string) error {
	if c.env.Store == nil {
		return fmt.Errorf("store unavailable")
	}
	return c.env.Store.Delete(c.slug, key)
}

// StoreKeys lists the keys in the mod's store namespace, sorted.
func (c *Context) StoreKeys() ([]string, error) {
	if c.env.Store == nil {
		return nil, fmt.Errorf("store unavailable")
	}
	return c.env.Store.Keys(c.slug)
}

// ============================================================
// Packets
// ============================================================

// SendPacket queues a payload for delivery to one player's client.
func (c *Context) SendPacket(targetID, packetType int32, payload []byte) {
	c.env.Bridge.SendPacket(targetID, packetType, payload)
}

// OnPacket registers a handler for one inbound packet type.
func (c *Context) OnPacket(packetType int32, fn func(senderID int32, payload []byte)) {
	c.env.Bridge.Packets().OnType(packetType, func(senderID, _ int32, payload []byte) {
		fn(senderID, payload)
	})
}

// OnAnyPacket registers a catch-all for packet types with no typed
// handler.
func (c *Context) OnAnyPacket(fn func(senderID, packetType int32, payload []byte)) {
	c.env.Bridge.Packets().OnAny(fn)
}
