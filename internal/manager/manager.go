// Package manager owns the mod programs: registration at init time,
// slug validation, load order, and the load-state machine.
package manager

import (
	"fmt"
	"regexp"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/redstonemc/redstone/internal/bridge"
	"github.com/redstonemc/redstone/internal/modules/store"
	"github.com/redstonemc/redstone/internal/shared"
)

// slugRegex validates mod slugs: must start with a letter, contain only
// lowercase letters/numbers/underscores, 2-32 chars. The slug doubles
// as the mod's store namespace and its config key.
var slugRegex = regexp.MustCompile(`^[a-z][a-z0-9_]{1,31}$`)

// reservedSlugs cannot be used by mods.
var reservedSlugs = []string{"core", "system", "redstone", "internal", "minecraft", "mod", "mods"}

// validateSlug checks if a slug is usable as a mod identifier.
func validateSlug(slug string) error {
	if slug == "" {
		return fmt.Errorf("slug cannot be empty")
	}
	if !slugRegex.MatchString(slug) {
		return fmt.Errorf("invalid slug %q: must start with a letter, lowercase letters/numbers/underscores, 2-32 chars", slug)
	}
	for _, reserved := range reservedSlugs {
		if strings.ToLower(slug) == reserved {
			return fmt.Errorf("slug %q is reserved", slug)
		}
	}
	return nil
}

// Env is everything a mod may touch while loading: the bridge for
// registrations and handlers, the store for durable state, and a
// logger named after the mod.
type Env struct {
	Bridge *bridge.Bridge
	Store  *store.Store
	Log    *zap.Logger
}

// Mod is one mod program. Load runs during startup inside the
// registration window; registrations and handler installs must happen
// there. Unload runs in reverse order at shutdown.
type Mod interface {
	Slug() string
	Name() string
	Version() string
	Load(env *Env) error
	Unload() error
}

// ModState represents the current state of a mod
type ModState int

const (
	ModStateRegistered ModState = iota
	ModStateLoading
	ModStateLoaded
	ModStateUnloading
	ModStateUnloaded
	ModStateFailed
	ModStateDisabled // disabled via config
)

// String returns the state name
func (s ModState) String() string {
	switch s {
	case ModStateRegistered:
		return "Registered"
	case ModStateLoading:
		return "Loading"
	case ModStateLoaded:
		return "Loaded"
	case ModStateUnloading:
		return "Unloading"
	case ModStateUnloaded:
		return "Unloaded"
	case ModStateFailed:
		return "Failed"
	case ModStateDisabled:
		return "Disabled"
	default:
		return "Unknown"
	}
}

// registered collects mods queued via Register before the manager
// starts, in registration order.
var (
	registered   []Mod
	registeredMu sync.Mutex
)

// Register queues a mod. Called from mod init() functions.
func Register(m Mod) {
	registeredMu.Lock()
	registered = append(registered, m)
	registeredMu.Unlock()
}

type modEntry struct {
	mod   Mod
	state ModState
	err   error
}

// Manager drives the registered mods through their lifecycle.
type Manager struct {
	log *zap.Logger
	cfg shared.Config

	mu      sync.RWMutex
	entries []*modEntry
}

// New builds a manager over the globally registered mods.
func New(log *zap.Logger, cfg shared.Config) *Manager {
	m := &Manager{log: log, cfg: cfg}

	registeredMu.Lock()
	mods := make([]Mod, len(registered))
	copy(mods, registered)
	registeredMu.Unlock()

	for _, mod := range mods {
		m.entries = append(m.entries, &modEntry{mod: mod, state: ModStateRegistered})
	}
	return m
}

// Add registers a mod on this manager only. Used by tests and by
// hosts that assemble mods without init() side effects.
func (m *Manager) Add(mod Mod) {
	m.mu.Lock()
	m.entries = append(m.entries, &modEntry{mod: mod, state: ModStateRegistered})
	m.mu.Unlock()
}

// LoadAll loads every enabled mod in registration order. A mod that
// fails or panics is marked Failed and skipped; the rest still load.
// The returned error is non-nil only when no mod could load at all
// despite some being enabled.
func (m *Manager) LoadAll(env *Env) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	enabled, loaded := 0, 0
	for _, entry := range m.entries {
		slug := entry.mod.Slug()
		if err := validateSlug(slug); err != nil {
			entry.state = ModStateFailed
			entry.err = err
			m.log.Error("mod rejected", zap.Error(err))
			continue
		}
		if !m.cfg.ModEnabled(slug) {
			entry.state = ModStateDisabled
			m.log.Info("mod disabled by config", zap.String("mod", slug))
			continue
		}
		enabled++
		entry.state = ModStateLoading
		m.log.Info("loading mod",
			zap.String("mod", slug),
			zap.String("version", entry.mod.Version()))

		modEnv := &Env{Bridge: env.Bridge, Store: env.Store, Log: env.Log.Named(slug)}
		if err := loadOne(entry.mod, modEnv); err != nil {
			entry.state = ModStateFailed
			entry.err = err
			m.log.Error("mod failed to load", zap.String("mod", slug), zap.Error(err))
			continue
		}
		entry.state = ModStateLoaded
		loaded++
	}

	if enabled > 0 && loaded == 0 {
		return fmt.Errorf("all %d enabled mods failed to load", enabled)
	}
	return nil
}

// loadOne runs Load with panic containment.
func loadOne(mod Mod, env *Env) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic during load: %v", r)
		}
	}()
	return mod.Load(env)
}

// UnloadAll unloads loaded mods in reverse load order.
func (m *Manager) UnloadAll() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := len(m.entries) - 1; i >= 0; i-- {
		entry := m.entries[i]
		if entry.state != ModStateLoaded {
			continue
		}
		entry.state = ModStateUnloading
		func() {
			defer func() {
				if r := recover(); r != nil {
					m.log.Error("mod panicked during unload",
						zap.String("mod", entry.mod.Slug()), zap.Any("panic", r))
				}
			}()
			if err := entry.mod.Unload(); err != nil {
				m.log.Error("mod failed to unload",
					zap.String("mod", entry.mod.Slug()), zap.Error(err))
			}
		}()
		entry.state = ModStateUnloaded
	}
}

// State reports a mod's state by slug.
func (m *Manager) State(slug string) (ModState, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, entry := range m.entries {
		if entry.mod.Slug() == slug {
			return entry.state, true
		}
	}
	return 0, false
}

// LoadedCount reports how many mods are currently loaded.
func (m *Manager) LoadedCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	for _, entry := range m.entries {
		if entry.state == ModStateLoaded {
			n++
		}
	}
	return n
}
