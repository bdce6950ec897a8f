package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hakoniwa/officesim/config"
	"github.com/hakoniwa/officesim/game/appliance"
	"github.com/hakoniwa/officesim/game/world"
	"github.com/hakoniwa/officesim/scheduler"
)

func main() {
	cfgPath := "config/config.yaml"
	if len(os.Args) > 1 {
		cfgPath = os.Args[1]
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	// ---- Logger ----
	var logger *zap.Logger
	var logErr error
	if cfg.Server.Debug {
		logger, logErr = zap.NewDevelopment()
	} else {
		logger, logErr = zap.NewProduction()
	}
	if logErr != nil {
		log.Fatalf("logger: %v", logErr)
	}
	defer logger.Sync()

	// ---- Floor ----
	floor := world.NewFloor(cfg.Game, logger)
	defer floor.Stop()

	espresso := floor.AddAppliance("espresso_machine", 160, 0)
	floor.AddAppliance("drip_machine", 150, 120)
	mug := floor.AddProp("mug", 80, 20)
	floor.AddProp("stapler", -60, 40)
	worker := floor.AddAgent("worker", 0, 0, 1, 0)

	// Event logging: the floor is headless, so the log is the UI.
	espresso.OnStateChanged(func(id uuid.UUID, old, new appliance.State) {
		logger.Info("machine state",
			zap.String("machine", id.String()),
			zap.Stringer("from", old), zap.Stringer("to", new))
	})
	espresso.OnBrewed(func(id uuid.UUID, count int) {
		logger.Info("coffee ready",
			zap.String("machine", id.String()), zap.Int("count", count))
	})
	worker.Targeter.OnTargetStarted(func(id uuid.UUID) {
		logger.Info("target acquired", zap.String("entity", id.String()))
	})
	worker.Targeter.OnTargetEnded(func(id uuid.UUID) {
		logger.Info("target lost", zap.String("entity", id.String()))
	})

	// Interaction policy: dispatch only routes; the application advances the
	// machine from the notification based on its current state.
	worker.Dispatcher.OnInteractionStarted(func(id uuid.UUID) {
		m := espresso
		if id != m.EntityID() {
			return
		}
		switch m.State() {
		case appliance.StateIdle:
			m.StartBrewing()
		case appliance.StateReady:
			m.AddSugar()
		case appliance.StateNeedsSugar:
			m.Collect()
		}
	})

	go floor.Run()

	// ---- Scheduler: status reporting + scripted demo inputs ----
	sched := scheduler.New(logger)
	defer sched.Stop()

	workerID := worker.Entity.ID
	sched.AddTicker("floor_status", 2*time.Second, func() {
		st, _ := floor.MachineState(espresso.EntityID())
		logger.Info("floor status",
			zap.Int("entities", floor.EntityCount()),
			zap.Stringer("espresso", st),
			zap.String("target", floor.CurrentTarget(workerID).String()),
			zap.String("held", floor.HeldEntity(workerID).String()))
	})

	brewWait := time.Duration(cfg.Game.BrewTimeS*1000)*time.Millisecond + time.Second
	sched.AddDelay("brew", 500*time.Millisecond, func() {
		floor.Interact(workerID) // idle machine: starts a brew
	})
	sched.AddDelay("sugar", 500*time.Millisecond+brewWait, func() {
		floor.Interact(workerID) // ready machine: adds sugar
	})
	sched.AddDelay("collect", time.Second+brewWait, func() {
		floor.Interact(workerID) // needs-sugar machine: collects
	})
	sched.AddDelay("grab_mug", 2*time.Second+brewWait, func() {
		floor.ToggleGrab(workerID)
	})
	sched.AddDelay("drop_mug", 4*time.Second+brewWait, func() {
		floor.Release(workerID)
		logger.Info("mug back on the desk",
			zap.String("prop", mug.ID.String()))
	})

	logger.Info("office floor running", zap.Int("tick_ms", cfg.Game.TickMs))

	// ---- Shutdown ----
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	logger.Info("shutting down")
}
