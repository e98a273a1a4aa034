package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/heliodyne/orrery-simulator/core"
	"github.com/heliodyne/orrery-simulator/internal/logging"
	"github.com/heliodyne/orrery-simulator/state"
	"github.com/heliodyne/orrery-simulator/timectrl"
)

func main() {
	scenarioPath := flag.String("scenario", "configs/solar_system.json", "body catalog JSON")
	duration := flag.Duration("duration", 10*time.Second, "total run time")
	tick := flag.Duration("tick", 250*time.Millisecond, "frame interval")
	speed := flag.Float64("speed", 10, "simulated days per real second")
	focusBody := flag.String("focus", "earth", "body to focus on after two seconds (empty to skip)")
	flag.Parse()

	log := logging.NewFromEnv()
	ctx := context.Background()

	f, err := os.Open(*scenarioPath)
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
	log.Info(ctx, "scenario loaded",
		logging.String("path", *scenarioPath),
		logging.Int("bodies", len(scenario.BodyIDs)),
	)

	clock, err := core.NewOrbitalClock(defs)
	if err != nil {
		log.Error(ctx, "invalid catalog", logging.String("error", err.Error()))
		os.Exit(1)
	}

	engine := core.NewSimulationEngine(clock, core.Viewpoint{
		Position: core.Vec3{Y: 150, Z: 280},
	})
	engine.SetTimeSpeed(*speed)
	engine.OnPauseChanged(func(paused bool) {
		log.Info(ctx, "pause state changed", logging.Bool("paused", paused))
	})

	started := time.Now()
	focused := false

	driver := timectrl.NewFrameDriver(*tick)
	driver.AddListener(func(delta, nowMs float64) {
		if err := engine.Step(delta, nowMs); err != nil {
			log.Error(ctx, "step failed", logging.String("error", err.Error()))
			os.Exit(1)
		}

		if *focusBody != "" && !focused && time.Since(started) > 2*time.Second {
			focused = true
			if ok, err := engine.FocusOn(*focusBody, 1500, nowMs); err != nil {
				log.Warn(ctx, "focus failed", logging.String("error", err.Error()))
			} else if ok {
				log.Info(ctx, "focusing", logging.String("body", *focusBody))
			}
		}

		frame := state.SnapshotEngine(engine, nowMs)
		for _, b := range frame.Bodies {
			fmt.Printf("  %-10s %-9s pos=(%7.2f, %5.2f, %7.2f) orbit=%5.2f rad spin=%5.2f rad\n",
				b.ID, b.Kind, b.Position.X, b.Position.Y, b.Position.Z, b.OrbitAngle, b.RotationAngle)
		}
		fmt.Printf("  camera pos=(%.1f, %.1f, %.1f) target=(%.1f, %.1f, %.1f) animating=%v\n\n",
			frame.Camera.Position.X, frame.Camera.Position.Y, frame.Camera.Position.Z,
			frame.Camera.Target.X, frame.Camera.Target.Y, frame.Camera.Target.Z,
			frame.Camera.Animating,
		)
	})

	fmt.Printf("Starting orrery: duration=%s, tick=%s, speed=%.1f d/s\n", *duration, *tick, *speed)
	done := driver.Start(*duration)
	<-done
	fmt.Println("Simulation complete.")
}
