package redstone

import (
	"fmt"

	"github.com/redstonemc/redstone/internal/marshal"
	"github.com/redstonemc/redstone/internal/runtime"
)

// Goal is a scripted AI goal. The engine consults it through the goal
// events for every entity whose selector references its id via
// CustomGoal. All methods run on the dispatch thread.
type Goal interface {
	// CanUse reports whether the goal should activate.
	CanUse(entityID int32) bool

	// CanContinue reports whether an active goal should keep running.
	CanContinue(entityID int32) bool

	Start(entityID int32)
	Tick(entityID int32)
	Stop(entityID int32)
}

// RegisterGoal makes a scripted goal available under an id. Entities
// reference it with CustomGoal in their definitions. Registering the
// same id twice is an error.
func (c *Context) RegisterGoal(goalID string, g Goal) error {
	if goalID == "" {
		return fmt.Errorf("goal id cannot be empty")
	}
	h := c.hooks

	h.mu.Lock()
	if _, dup := h.goals[goalID]; dup {
		h.mu.Unlock()
		return fmt.Errorf("goal %q already registered", goalID)
	}
	h.goals[goalID] = g
	install := !h.goalSlots
	h.goalSlots = true
	h.mu.Unlock()

	if install {
		h.installGoalSlots()
	}
	return nil
}

// installGoalSlots wires the five goal event kinds once per bridge.
// Each dispatch carries the goal id as its first argument; unknown
// ids get the kind's default (inactive).
func (h *hooks) installGoalSlots() {
	lookup := func(args []marshal.Value) Goal {
		h.mu.Lock()
		defer h.mu.Unlock()
		return h.goals[args[0].AsString()]
	}

	h.b.InstallHandler(runtime.EventGoalCanUse, func(args []marshal.Value) (marshal.Value, error) {
		if g := lookup(args); g != nil {
			return marshal.Bool(g.CanUse(args[1].AsInt32())), nil
		}
		return marshal.Bool(false), nil
	})
	h.b.InstallHandler(runtime.EventGoalCanContinue, func(args []marshal.Value) (marshal.Value, error) {
		if g := lookup(args); g != nil {
			return marshal.Bool(g.CanContinue(args[1].AsInt32())), nil
		}
		return marshal.Bool(false), nil
	})
	h.b.InstallHandler(runtime.EventGoalStart, func(args []marshal.Value) (marshal.Value, error) {
		if g := lookup(args); g != nil {
			g.Start(args[1].AsInt32())
		}
		return marshal.Null(), nil
	})
	h.b.InstallHandler(runtime.EventGoalTick, func(args []marshal.Value) (marshal.Value, error) {
		if g := lookup(args); g != nil {
			g.Tick(args[1].AsInt32())
		}
		return marshal.Null(), nil
	})
	h.b.InstallHandler(runtime.EventGoalStop, func(args []marshal.Value) (marshal.Value, error) {
		if g := lookup(args); g != nil {
			g.Stop(args[1].AsInt32())
		}
		return marshal.Null(), nil
	})
}
