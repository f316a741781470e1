// Package redstone provides the public SDK for Redstone mods.
//
// A mod is a struct implementing Mod, registered from its init()
// function with Register. During Load it receives a Context, which is
// the only handle it needs: content registration, event handlers,
// commands, packets, scheduling, and the data store all hang off it.
package redstone

import (
	"github.com/redstonemc/redstone/internal/manager"
)

// Mod is the interface all Redstone mods must implement.
type Mod interface {
	// Slug returns the mod's identifier: lowercase, starts with a
	// letter, 2-32 chars. It doubles as the store namespace and the
	// config key.
	Slug() string

	// Name returns the mod's display name
	Name() string

	// Version returns the mod's version string
	Version() string

	// Load is called once during startup, inside the registration
	// window. All content registration must happen here.
	Load(ctx *Context) error

	// Unload is called at shutdown, in reverse load order.
	Unload() error
}

// BaseMod provides default implementations of the optional Mod
// methods. Embed it and implement Slug and Load.
type BaseMod struct{}

// Name returns the mod's display name
func (BaseMod) Name() string { return "Unnamed Mod" }

// Version returns the mod's version string
func (BaseMod) Version() string { return "0.0.0" }

// Unload is called at shutdown
func (BaseMod) Unload() error { return nil }

// Register adds a mod to the framework. Call from the mod's init()
// function.
func Register(m Mod) {
	manager.Register(&modAdapter{mod: m})
}

// modAdapter presents a Mod to the manager, translating the manager's
// environment into a Context at load time.
type modAdapter struct {
	mod Mod
}

func (a *modAdapter) Slug() string    { return a.mod.Slug() }
func (a *modAdapter) Name() string    { return a.mod.Name() }
func (a *modAdapter) Version() string { return a.mod.Version() }
func (a *modAdapter) Unload() error   { return a.mod.Unload() }

func (a *modAdapter) Load(env *manager.Env) error {
	return a.mod.Load(newContext(a.mod.Slug(), env))
}
