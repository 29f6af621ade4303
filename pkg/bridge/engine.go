package bridge

import (
	"github.com/matzehuels/forcegraph/pkg/config"
	"github.com/matzehuels/forcegraph/pkg/physics"
)

// Engine is the physics engine as the bridge sees it.
// *physics.Simulation satisfies it.
type Engine interface {
	On(event string, fn func())
	Stop()
	Restart()
	AlphaTarget(v float64)
	Tick()
	Running() bool
}

// Factory builds an engine over the given datums.
type Factory func(bodies []*physics.Body, springs []*physics.Spring) Engine

// Force names registered by [PhysicsFactory].
const (
	ForceCharge  = "charge"
	ForceLink    = "link"
	ForceCollide = "collide"
	ForceX       = "x"
	ForceY       = "y"
	ForceCenter  = "center"
)

// Pull toward the centre of the frame.
const (
	forceXStrength = 0.06
	forceYStrength = 0.06
)

// PhysicsFactory returns a factory for [physics.Simulation] engines tuned by cfg.
func PhysicsFactory(cfg config.Config) Factory {
	cx, cy := cfg.Width/2, cfg.Height/2
	return func(bodies []*physics.Body, springs []*physics.Spring) Engine {
		sim := physics.New(bodies, physics.WithSeed(cfg.Sim.Seed), physics.WithOrigin(cx, cy))
		sim.Force(ForceCharge, physics.NewManyBody(cfg.Sim.Gravity))
		if !cfg.Sim.DisableLinkForce {
			sim.Force(ForceLink, physics.NewLink(springs, cfg.Sim.LinkLength, cfg.Sim.LinkStrength))
		}
		if cfg.Sim.PaddingRadius > 0 {
			sim.Force(ForceCollide, physics.NewCollide(cfg.Sim.PaddingRadius))
		}
		sim.Force(ForceX, physics.NewPositionX(cx, forceXStrength))
		sim.Force(ForceY, physics.NewPositionY(cy, forceYStrength))
		sim.Force(ForceCenter, physics.NewCenter(cx, cy))
		return sim
	}
}
