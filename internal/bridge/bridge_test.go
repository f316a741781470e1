package bridge

import (
	"bytes"
	"testing"

	"go.uber.org/zap"

	"github.com/redstonemc/redstone/internal/marshal"
	"github.com/redstonemc/redstone/internal/registry"
	"github.com/redstonemc/redstone/internal/runtime"
)

func testBridge() *Bridge {
	return New(zap.NewNop())
}

// ── registration surface ──────────────────────────────────────

func TestRegisterAssignsSequentialIDs(t *testing.T) {
	b := testBridge()
	id1 := b.RegisterBlock("mymod:ruby_block", registry.DefaultBlockSettings())
	id2 := b.RegisterItem("mymod:ruby", registry.DefaultItemSettings())
	id3 := b.RegisterEntity("mymod:ruby_golem", registry.DefaultEntitySettings())

	if id1 != 1 || id2 != 2 || id3 != 3 {
		t.Errorf("ids = %d %d %d, want 1 2 3", id1, id2, id3)
	}
	if b.Queue().PendingCount() != 3 {
		t.Errorf("pending = %d, want 3", b.Queue().PendingCount())
	}
}

func TestRegisterMalformedIDReturnsZero(t *testing.T) {
	b := testBridge()
	for _, raw := range []string{"", "noseparator", "a:b:c", "UPPER:case"} {
		if id := b.RegisterBlock(raw, registry.DefaultBlockSettings()); id != 0 {
			t.Errorf("RegisterBlock(%q) = %d, want 0", raw, id)
		}
	}
	if b.Queue().PendingCount() != 0 {
		t.Error("rejected registrations must not enqueue")
	}
}

func TestRegisterDuplicateReturnsZero(t *testing.T) {
	b := testBridge()
	if id := b.RegisterBlock("m:thing", registry.DefaultBlockSettings()); id == 0 {
		t.Fatal("first registration failed")
	}
	if id := b.RegisterItem("m:thing", registry.DefaultItemSettings()); id != 0 {
		t.Errorf("duplicate id accepted with handler id %d", id)
	}
}

func TestRegisterAfterClose(t *testing.T) {
	b := testBridge()
	b.Close()
	if id := b.RegisterBlock("m:late", registry.DefaultBlockSettings()); id != 0 {
		t.Errorf("closed bridge accepted registration, id %d", id)
	}
}

func TestSignalRegistrationsQueued(t *testing.T) {
	b := testBridge()
	if b.Barrier().Signaled() {
		t.Fatal("barrier signaled before any signal")
	}
	b.SignalRegistrationsQueued()
	b.SignalRegistrationsQueued() // idempotent
	if !b.Barrier().Signaled() {
		t.Fatal("barrier not signaled")
	}
}

// ── datagen isolation ─────────────────────────────────────────

func TestDatagenRegistrationsBypassQueue(t *testing.T) {
	b := NewDatagen(zap.NewNop())
	id1 := b.RegisterBlock("m:a", registry.DefaultBlockSettings())
	id2 := b.RegisterItem("m:b", registry.DefaultItemSettings())

	if id1 != 1 || id2 != 2 {
		t.Errorf("datagen ids = %d %d, want 1 2", id1, id2)
	}
	if b.Queue().PendingCount() != 0 {
		t.Error("datagen registrations leaked into the live queue")
	}
	if b.Collector().Count() != 2 {
		t.Errorf("collector holds %d entries, want 2", b.Collector().Count())
	}
}

func TestDatagenStillValidatesIDs(t *testing.T) {
	b := NewDatagen(zap.NewNop())
	if id := b.RegisterBlock("bad id", registry.DefaultBlockSettings()); id != 0 {
		t.Errorf("datagen accepted malformed id, got %d", id)
	}
}

func TestDatagenDispatchesReturnDefaults(t *testing.T) {
	b := NewDatagen(zap.NewNop())
	called := false
	b.InstallHandler(runtime.EventEntityDamage, func([]marshal.Value) (marshal.Value, error) {
		called = true
		return marshal.Bool(false), nil
	})

	if !b.DispatchEntityDamage(1, "generic", 2.0) {
		t.Error("datagen dispatch should return the default (allow)")
	}
	if called {
		t.Error("handlers must not run in datagen mode")
	}
}

// ── dispatch surface ──────────────────────────────────────────

func TestDispatchDefaultsThroughTypedSurface(t *testing.T) {
	b := testBridge()
	if got := b.DispatchBlockBreak(0, 64, 0, 7); got != 1 {
		t.Errorf("block break default = %d, want 1", got)
	}
	if got := b.DispatchCustomBlockUse(1, 1, 0, 0, 0, 7, 0); got != 3 {
		t.Errorf("custom block use default = %d, want 3 (pass)", got)
	}
	if got := b.DispatchCustomItemUse(1, 1, 7, 0); got != 4 {
		t.Errorf("custom item use default = %d, want 4 (pass)", got)
	}
	if got := b.DispatchCommandExecute(1, 7, "[]"); got != 0 {
		t.Errorf("command default = %d, want 0", got)
	}
	if b.DispatchGoalCanUse("m:patrol", 3) {
		t.Error("goal canUse default must be false")
	}
	if _, ok := b.DispatchPlayerChat(7, "hello"); ok {
		t.Error("chat default must pass the original through")
	}
}

func TestDispatchRoutesToInstalledRoute(t *testing.T) {
	b := testBridge()
	b.InstallRoute(runtime.EventCustomBlockBreak, 5, func(args []marshal.Value) (marshal.Value, error) {
		return marshal.Bool(false), nil
	})

	if b.DispatchCustomBlockBreak(5, 1, 0, 0, 0, 7) {
		t.Error("routed handler should cancel the break")
	}
	if !b.DispatchCustomBlockBreak(6, 1, 0, 0, 0, 7) {
		t.Error("unrouted id should fall back to allow")
	}
}

func TestDispatchPlayerChatRewrite(t *testing.T) {
	b := testBridge()
	b.InstallHandler(runtime.EventPlayerChat, func(args []marshal.Value) (marshal.Value, error) {
		return marshal.String("[mod] " + args[1].AsString()), nil
	})

	msg, ok := b.DispatchPlayerChat(7, "hi")
	if !ok || msg != "[mod] hi" {
		t.Errorf("chat = %q, %v", msg, ok)
	}
}

func TestDispatchAfterCloseReturnsDefaults(t *testing.T) {
	b := testBridge()
	b.InstallHandler(runtime.EventPlayerCommand, func([]marshal.Value) (marshal.Value, error) {
		return marshal.Bool(false), nil
	})
	b.Close()
	if !b.DispatchPlayerCommand(7, "/home") {
		t.Error("closed bridge must answer with the default")
	}
}

// ── packets ───────────────────────────────────────────────────

func TestPacketRoundTrip(t *testing.T) {
	b := testBridge()

	var gotSender int32
	var gotPayload []byte
	b.Packets().OnType(9, func(sender, _ int32, payload []byte) {
		gotSender = sender
		gotPayload = payload
	})

	b.DispatchPacketReceived(3, 9, []byte{1, 2, 3})
	if gotSender != 3 || !bytes.Equal(gotPayload, []byte{1, 2, 3}) {
		t.Errorf("received (%d, %v)", gotSender, gotPayload)
	}

	b.SendPacket(3, 9, []byte{4})
	if b.Packets().OutboundLen() != 1 {
		t.Errorf("outbound = %d, want 1", b.Packets().OutboundLen())
	}
}

// ── tick ──────────────────────────────────────────────────────

func TestDispatchTickDrainsSchedulerFirst(t *testing.T) {
	b := testBridge()
	var order []string
	b.Scheduler().Post(func() { order = append(order, "task") })
	b.InstallHandler(runtime.EventTick, func([]marshal.Value) (marshal.Value, error) {
		order = append(order, "tick")
		return marshal.Null(), nil
	})

	b.DispatchTick(1)
	if len(order) != 2 || order[0] != "task" || order[1] != "tick" {
		t.Errorf("order = %v, want [task tick]", order)
	}
}

func TestTimerDelaysMatchServerTicks(t *testing.T) {
	b := testBridge()
	const delay = 10
	fired := false
	b.Scheduler().After(delay, func() { fired = true })

	for tick := int64(1); tick < delay; tick++ {
		b.DispatchTick(tick)
		if fired {
			t.Fatalf("one-shot fired on tick %d, want %d", tick, delay)
		}
	}
	b.DispatchTick(delay)
	if !fired {
		t.Fatalf("one-shot not fired after %d ticks", delay)
	}
}

// ── commands ──────────────────────────────────────────────────

func TestRegisterCommandRoutesExecution(t *testing.T) {
	b := testBridge()
	id := b.RegisterCommand("home", "teleport home", "[]", 0, func(args []marshal.Value) (marshal.Value, error) {
		if got := args[1].AsInt32(); got != 7 {
			t.Errorf("player = %d, want 7", got)
		}
		return marshal.Int32(1), nil
	})
	if id == 0 {
		t.Fatal("registration failed")
	}

	if got := b.DispatchCommandExecute(id, 7, "[]"); got != 1 {
		t.Errorf("command result = %d, want 1", got)
	}
	if got := b.DispatchCommandExecute(id+1, 7, "[]"); got != 0 {
		t.Errorf("unknown command result = %d, want 0", got)
	}

	defs := b.DrainCommands()
	if len(defs) != 1 || defs[0].Name != "home" || defs[0].ID != id {
		t.Errorf("drained %+v, want one def named home with id %d", defs, id)
	}
	if len(b.DrainCommands()) != 0 {
		t.Error("second drain should be empty")
	}
}

func TestRegisterCommandRejectsBadNames(t *testing.T) {
	b := testBridge()
	for _, name := range []string{"", "/home", "Home", "with space"} {
		if id := b.RegisterCommand(name, "", "[]", 0, nil); id != 0 {
			t.Errorf("name %q accepted with id %d", name, id)
		}
	}
}

func TestRegisterCommandInDatagen(t *testing.T) {
	b := NewDatagen(zap.NewNop())
	if id := b.RegisterCommand("home", "", "[]", 0, nil); id == 0 {
		t.Fatal("datagen should still hand out ids")
	}
	if len(b.DrainCommands()) != 0 {
		t.Error("datagen must not record command defs")
	}
}
