package lifecycle

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/redstonemc/redstone/internal/manager"
	"github.com/redstonemc/redstone/internal/marshal"
	"github.com/redstonemc/redstone/internal/registry"
	"github.com/redstonemc/redstone/internal/runtime"
	"github.com/redstonemc/redstone/internal/shared"
)

// fakeEngine records everything the drain applies.
type fakeEngine struct {
	applied  []string
	packets  []int32
	commands []string
	failOn   string
}

func (f *fakeEngine) ApplyBlock(reg *registry.Registration) error  { return f.apply(reg) }
func (f *fakeEngine) ApplyItem(reg *registry.Registration) error   { return f.apply(reg) }
func (f *fakeEngine) ApplyEntity(reg *registry.Registration) error { return f.apply(reg) }

func (f *fakeEngine) apply(reg *registry.Registration) error {
	if reg.ID.String() == f.failOn {
		return fmt.Errorf("engine rejected %s", reg.ID)
	}
	f.applied = append(f.applied, reg.ID.String())
	return nil
}

func (f *fakeEngine) RegisterCommand(cmd registry.Command) error {
	f.commands = append(f.commands, cmd.Name)
	return nil
}

func (f *fakeEngine) DeliverPacket(targetID, packetType int32, payload []byte) error {
	f.packets = append(f.packets, packetType)
	return nil
}

// contentMod queues registrations during load.
type contentMod struct {
	slug  string
	block string
	err   error
	ready chan struct{} // when set, Load blocks until closed
}

func (m *contentMod) Slug() string    { return m.slug }
func (m *contentMod) Name() string    { return m.slug }
func (m *contentMod) Version() string { return "1.0.0" }
func (m *contentMod) Unload() error   { return nil }

func (m *contentMod) Load(env *manager.Env) error {
	if m.ready != nil {
		<-m.ready
	}
	if m.err != nil {
		return m.err
	}
	if m.block != "" {
		if id := env.Bridge.RegisterBlock(m.block, registry.DefaultBlockSettings()); id == 0 {
			return fmt.Errorf("registration failed")
		}
	}
	return nil
}

func testConfig(t *testing.T) shared.Config {
	cfg := shared.DefaultConfig()
	cfg.StorePath = ":memory:"
	cfg.RegistrationTimeoutMs = 2000
	cfg.DatagenOutput = filepath.Join(t.TempDir(), "content.json")
	return cfg
}

func newController(t *testing.T, cfg shared.Config, eng *fakeEngine, mods ...manager.Mod) *Controller {
	t.Helper()
	c, err := New(zap.NewNop(), cfg, eng)
	if err != nil {
		t.Fatal(err)
	}
	for _, m := range mods {
		c.Mods().Add(m)
	}
	return c
}

func TestStartDrainsIntoEngine(t *testing.T) {
	eng := &fakeEngine{}
	c := newController(t, testConfig(t), eng,
		&contentMod{slug: "aa", block: "aa:stone"},
		&contentMod{slug: "bb", block: "bb:dirt"})

	if err := c.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer c.Shutdown(context.Background())

	if c.State() != StateRunning {
		t.Fatalf("state = %v, want Running", c.State())
	}
	if len(eng.applied) != 2 {
		t.Fatalf("applied = %v", eng.applied)
	}
	if c.Bridge().Lookup().Len() != 2 {
		t.Errorf("lookup holds %d, want 2", c.Bridge().Lookup().Len())
	}
	if c.Bridge().Queue().PendingCount() != 0 {
		t.Error("queue not drained")
	}
}

func TestStartFatalWhenRuntimeFails(t *testing.T) {
	cfg := testConfig(t)
	c := newController(t, cfg, &fakeEngine{},
		&contentMod{slug: "only_mod", err: fmt.Errorf("boom")})

	if err := c.Start(context.Background()); err == nil {
		t.Fatal("want fatal error when no mod loads")
	}
}

func TestStartFailsFastWhenLoadDies(t *testing.T) {
	cfg := testConfig(t)
	cfg.RegistrationTimeoutMs = 30000
	c := newController(t, cfg, &fakeEngine{},
		&contentMod{slug: "only_mod", err: fmt.Errorf("boom")})

	begin := time.Now()
	if err := c.Start(context.Background()); err == nil {
		t.Fatal("want fatal error when no mod loads")
	}
	if elapsed := time.Since(begin); elapsed > 5*time.Second {
		t.Fatalf("failed start took %v, should not wait out the registration window", elapsed)
	}
}

func TestStartProceedsAfterBarrierTimeout(t *testing.T) {
	cfg := testConfig(t)
	cfg.RegistrationTimeoutMs = 50
	ready := make(chan struct{})
	defer close(ready)

	eng := &fakeEngine{}
	c := newController(t, cfg, eng, &contentMod{slug: "slow_mod", ready: ready})

	if err := c.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	if c.State() != StateRunning {
		t.Fatalf("state = %v, want Running despite timeout", c.State())
	}
	if len(eng.applied) != 0 {
		t.Errorf("applied = %v, want none", eng.applied)
	}
}

func TestDrainSkipsRejectedRegistration(t *testing.T) {
	eng := &fakeEngine{failOn: "bb:cursed"}
	c := newController(t, testConfig(t), eng,
		&contentMod{slug: "aa", block: "aa:fine"},
		&contentMod{slug: "bb", block: "bb:cursed"})

	if err := c.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer c.Shutdown(context.Background())

	if len(eng.applied) != 1 || eng.applied[0] != "aa:fine" {
		t.Errorf("applied = %v", eng.applied)
	}
	if c.Bridge().Lookup().Len() != 1 {
		t.Errorf("lookup holds %d, want 1", c.Bridge().Lookup().Len())
	}
}

func TestDatagenWritesManifestAndExits(t *testing.T) {
	cfg := testConfig(t)
	cfg.Datagen = true
	c := newController(t, cfg, nil, &contentMod{slug: "aa", block: "aa:stone"})

	exited := -1
	c.exit = func(code int) { exited = code }

	if err := c.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	if exited != 0 {
		t.Errorf("exit code = %d, want 0", exited)
	}
	if c.State() != StateStopped {
		t.Errorf("state = %v, want Stopped", c.State())
	}
	if _, err := os.Stat(cfg.DatagenOutput); err != nil {
		t.Errorf("manifest missing: %v", err)
	}
}

func TestTickFlushesPackets(t *testing.T) {
	eng := &fakeEngine{}
	c := newController(t, testConfig(t), eng, &contentMod{slug: "aa"})
	if err := c.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer c.Shutdown(context.Background())

	c.Bridge().SendPacket(1, 77, []byte{1})
	c.Tick(1)

	if len(eng.packets) != 1 || eng.packets[0] != 77 {
		t.Errorf("delivered packets = %v", eng.packets)
	}
}

func TestShutdownDispatchesServerStopping(t *testing.T) {
	eng := &fakeEngine{}
	c := newController(t, testConfig(t), eng, &contentMod{slug: "aa"})
	if err := c.Start(context.Background()); err != nil {
		t.Fatal(err)
	}

	stopped := false
	c.Bridge().InstallHandler(runtime.EventServerStopping, func([]marshal.Value) (marshal.Value, error) {
		stopped = true
		return marshal.Null(), nil
	})

	if err := c.Shutdown(context.Background()); err != nil {
		t.Fatal(err)
	}
	if !stopped {
		t.Error("server-stopping handler never ran")
	}
	if c.State() != StateStopped {
		t.Errorf("state = %v, want Stopped", c.State())
	}
	if err := c.Shutdown(context.Background()); err == nil {
		t.Error("second shutdown should fail")
	}
}
