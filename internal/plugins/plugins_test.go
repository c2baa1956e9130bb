package plugins

import (
	"testing"
	"time"

	"github.com/danmuck/framegraph/internal/framegraph"
	"github.com/danmuck/framegraph/internal/geom"
	"github.com/rs/zerolog"
)

func TestRegistryRegisterGetUnregister(t *testing.T) {
	r := NewRegistry()
	src := NewOdometrySource("/a", geom.NewDiffDriveOdometry(4))
	r.Register(src)

	got, ok := r.Get("/a")
	if !ok || got != src {
		t.Fatalf("Get(/a) = %v, %v, want the registered source", got, ok)
	}
	if len(r.All()) != 1 {
		t.Fatalf("All() = %v, want one source", r.All())
	}

	r.Unregister("/a")
	if _, ok := r.Get("/a"); ok {
		t.Fatalf("expected /a to be gone after Unregister")
	}
}

func TestOdometrySourceNotReadyUntilFirstUpdate(t *testing.T) {
	src := NewOdometrySource("/robot", geom.NewDiffDriveOdometry(4))
	if _, ok := src.Sample(); ok {
		t.Fatalf("expected Sample to report not-ready before any Update")
	}

	now := time.Now()
	src.Update(0, 0, now)
	if _, ok := src.Sample(); ok {
		t.Fatalf("expected Sample to still be not-ready after the Init-only first Update")
	}

	src.Update(1, 1, now.Add(time.Second))
	pose, ok := src.Sample()
	if !ok {
		t.Fatalf("expected Sample to be ready after a real Update")
	}
	if pose.Pos.X <= 0 {
		t.Fatalf("expected forward motion, got pose %v", pose)
	}
}

func TestPumpTickAppliesSamplesToGraph(t *testing.T) {
	g := framegraph.New()
	if _, err := g.AddFrame("/", "robot", geom.IdentityPose3); err != nil {
		t.Fatalf("AddFrame error: %v", err)
	}

	odo := geom.NewDiffDriveOdometry(4)
	now := time.Now()

	src := NewOdometrySource("/robot", odo)
	src.Update(0, 0, now)
	src.Update(2, 2, now.Add(time.Second))
	reg := NewRegistry()
	reg.Register(src)

	pump := NewPump(g, reg, zerolog.Nop())
	pump.Tick()

	pose, err := g.LocalPose("/robot")
	if err != nil {
		t.Fatalf("LocalPose error: %v", err)
	}
	if !pose.Equal(odo.Pose()) {
		t.Fatalf("LocalPose(/robot) = %v, want %v", pose, odo.Pose())
	}
}

func TestPumpTickSkipsFrameThatNoLongerExists(t *testing.T) {
	g := framegraph.New()
	odo := geom.NewDiffDriveOdometry(4)
	now := time.Now()

	src := NewOdometrySource("/gone", odo)
	src.Update(0, 0, now)
	src.Update(1, 1, now.Add(time.Second))
	reg := NewRegistry()
	reg.Register(src)

	pump := NewPump(g, reg, zerolog.Nop())
	pump.Tick() // must not panic even though /gone was never added
}
