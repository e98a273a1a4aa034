package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/heliodyne/orrery-simulator/core"
	"github.com/heliodyne/orrery-simulator/internal/logging"
	"github.com/heliodyne/orrery-simulator/internal/observability"
	"github.com/heliodyne/orrery-simulator/internal/server"
	"github.com/heliodyne/orrery-simulator/state"
	"github.com/heliodyne/orrery-simulator/timectrl"
)

func main() {
	configPath := flag.String("config", "configs/server.yaml", "server configuration file")
	flag.Parse()

	log := logging.NewFromEnv()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := server.LoadConfig(*configPath)
	if err != nil {
		log.Error(ctx, "load config failed", logging.String("error", err.Error()))
		os.Exit(1)
	}

	shutdownTracing, err := observability.InitTracing(ctx, observability.TracingConfigFromEnv(), log)
	if err != nil {
		log.Error(ctx, "init tracing failed", logging.String("error", err.Error()))
		os.Exit(1)
	}
	defer observability.ShutdownWithTimeout(context.Background(), shutdownTracing, log)

	f, err := os.Open(cfg.ScenarioPath)
	if err != nil {
		log.Error(ctx, "open scenario failed", logging.String("error", err.Error()))
		os.Exit(1)
	}
	defs, scenario, err := core.LoadSystemScenario(f)
	f.Close()
	if err != nil {
		log.Error(ctx, "load scenario failed", logging.String("error", err.Error()))
		os.Exit(1)
	}

	clock, err := core.NewOrbitalClock(defs)
	if err != nil {
		log.Error(ctx, "invalid catalog", logging.String("error", err.Error()))
		os.Exit(1)
	}
	log.Info(ctx, "scenario loaded",
		logging.String("path", cfg.ScenarioPath),
		logging.Int("bodies", len(scenario.BodyIDs)),
	)

	metrics, err := observability.NewSimCollector(nil)
	if err != nil {
		log.Error(ctx, "register metrics failed", logging.String("error", err.Error()))
		os.Exit(1)
	}
	metrics.Bodies.Set(float64(clock.Len()))

	engine := core.NewSimulationEngine(clock, core.Viewpoint{
		Position: core.Vec3{X: cfg.Camera.Position.X, Y: cfg.Camera.Position.Y, Z: cfg.Camera.Position.Z},
		Target:   core.Vec3{X: cfg.Camera.Target.X, Y: cfg.Camera.Target.Y, Z: cfg.Camera.Target.Z},
	})
	engine.SetTimeSpeed(cfg.TimeSpeed)
	engine.SetPaused(cfg.StartPaused)
	engine.OnPauseChanged(func(paused bool) {
		metrics.SetPaused(paused)
		log.Info(ctx, "pause state changed", logging.Bool("paused", paused))
	})
	metrics.SetPaused(engine.Paused())

	store := state.NewStore()
	hub := server.NewHub(store, engine, cfg.FocusDurationMs, log, metrics)
	defer hub.Close()

	driver := timectrl.NewFrameDriver(time.Duration(cfg.FrameIntervalMs) * time.Millisecond)
	driver.AddListener(func(delta, nowMs float64) {
		frameStart := time.Now()
		if err := engine.Step(delta, nowMs); err != nil {
			// A mid-run invariant violation (e.g. missing satellite
			// parent) is not recoverable; stop the process.
			log.Error(ctx, "simulation step failed", logging.String("error", err.Error()))
			stop()
			return
		}
		store.Publish(state.SnapshotEngine(engine, nowMs))
		metrics.TimeSpeed.Set(engine.TimeSpeed())
		metrics.ObserveFrame(time.Since(frameStart).Seconds())
	})

	wsMux := http.NewServeMux()
	wsMux.HandleFunc("/ws", hub.HandleWS)
	wsSrv := &http.Server{Addr: cfg.ListenAddr, Handler: wsMux}

	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", metrics.Handler())
	metricsSrv := &http.Server{Addr: cfg.MetricsAddr, Handler: metricsMux}

	go func() {
		log.Info(ctx, "websocket server listening", logging.String("addr", cfg.ListenAddr))
		if err := wsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error(ctx, "websocket server failed", logging.String("error", err.Error()))
			stop()
		}
	}()
	go func() {
		log.Info(ctx, "metrics server listening", logging.String("addr", cfg.MetricsAddr))
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error(ctx, "metrics server failed", logging.String("error", err.Error()))
			stop()
		}
	}()

	done := driver.Start(0)
	log.Info(ctx, "frame loop running",
		logging.Int("interval_ms", cfg.FrameIntervalMs),
		logging.Float64("time_speed", cfg.TimeSpeed),
	)

	<-ctx.Done()
	log.Info(context.Background(), "shutting down")

	driver.Stop()
	<-done

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = wsSrv.Shutdown(shutdownCtx)
	_ = metricsSrv.Shutdown(shutdownCtx)
}
