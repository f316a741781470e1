// Package main is the standalone Redstone host. The default mode runs
// a loopback engine with a 20 TPS tick loop, which is enough to
// exercise mods end to end without a game server; datagen mode runs
// headless registration and writes the content manifest.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/redstonemc/redstone/internal/host"
	"github.com/redstonemc/redstone/internal/lifecycle"
	"github.com/redstonemc/redstone/internal/registry"
	"github.com/redstonemc/redstone/internal/shared"

	// Mods register themselves via init().
	_ "github.com/redstonemc/redstone/mods/example"
)

func main() {
	configPath := flag.String("config", "", "path to config file (default: search standard locations)")
	datagen := flag.Bool("datagen", false, "run headless registration and write the content manifest")
	datagenOut := flag.String("datagen-out", "", "override the manifest output path")
	flag.Parse()

	cfg, err := shared.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	if *datagen {
		cfg.Datagen = true
	}
	if *datagenOut != "" {
		cfg.DatagenOutput = *datagenOut
	}

	log := shared.NewLog(cfg.LogFile)
	defer log.Sync()

	var eng host.Engine
	if !cfg.Datagen {
		eng = &loopbackEngine{log: log.Named("engine")}
	}

	ctl, err := lifecycle.New(log, cfg, eng)
	if err != nil {
		log.Fatal("startup failed", zap.Error(err))
	}

	// In datagen mode Start writes the manifest and exits the process.
	if err := ctl.Start(context.Background()); err != nil {
		log.Fatal("session start failed", zap.Error(err))
	}

	runTickLoop(log, ctl)
}

// runTickLoop drives the controller at 20 TPS until SIGINT/SIGTERM.
func runTickLoop(log *zap.Logger, ctl *lifecycle.Controller) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	var tick int64
	for {
		select {
		case <-ticker.C:
			tick++
			ctl.Tick(tick)
		case sig := <-stop:
			log.Info("shutting down", zap.String("signal", sig.String()))
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := ctl.Shutdown(ctx); err != nil {
				log.Error("shutdown failed", zap.Error(err))
			}
			return
		}
	}
}

// loopbackEngine is the in-process stand-in for a real game engine:
// registrations are accepted and logged, outbound packets discarded.
type loopbackEngine struct {
	log *zap.Logger
}

func (e *loopbackEngine) ApplyBlock(reg *registry.Registration) error {
	e.log.Info("block applied", zap.String("id", reg.ID.String()), zap.Int64("handlerId", reg.HandlerID))
	return nil
}

func (e *loopbackEngine) ApplyItem(reg *registry.Registration) error {
	e.log.Info("item applied", zap.String("id", reg.ID.String()), zap.Int64("handlerId", reg.HandlerID))
	return nil
}

func (e *loopbackEngine) ApplyEntity(reg *registry.Registration) error {
	e.log.Info("entity applied", zap.String("id", reg.ID.String()), zap.Int64("handlerId", reg.HandlerID))
	return nil
}

func (e *loopbackEngine) RegisterCommand(cmd registry.Command) error {
	e.log.Info("command registered", zap.String("name", cmd.Name), zap.Int64("commandId", cmd.ID))
	return nil
}

func (e *loopbackEngine) DeliverPacket(targetID, packetType int32, payload []byte) error {
	e.log.Debug("packet dropped on loopback",
		zap.Int32("target", targetID), zap.Int32("type", packetType), zap.Int("bytes", len(payload)))
	return nil
}
