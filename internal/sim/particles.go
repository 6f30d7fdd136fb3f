package sim

import "math/rand"

const (
	burstSize       = 18
	particleGravity = 260.0
)

// Particle is a short-lived resolution spark.
type Particle struct {
	Pos     Point
	VX, VY  float64
	Life    float64
	MaxLife float64
}

// Fade returns the remaining opacity in [0,1].
func (p Particle) Fade() float64 {
	return clampF(1-p.Life/p.MaxLife, 0, 1)
}

// Particles holds every live particle.
type Particles struct {
	P []Particle
}

// Burst spawns a fixed-size spray of sparks at pos.
func (ps *Particles) Burst(rng *rand.Rand, pos Point) {
	for range burstSize {
		ps.P = append(ps.P, Particle{
			Pos:     pos,
			VX:      (rng.Float64()*2 - 1) * (60 + rng.Float64()*120),
			VY:      (rng.Float64()*2 - 1) * (60 + rng.Float64()*120),
			MaxLife: 0.55 + rng.Float64()*0.25,
		})
	}
}

// Update ages, moves and prunes particles.
func (ps *Particles) Update(dt float64) {
	for i := 0; i < len(ps.P); {
		p := &ps.P[i]
		p.Life += dt
		if p.Life >= p.MaxLife {
			ps.P[i] = ps.P[len(ps.P)-1]
			ps.P = ps.P[:len(ps.P)-1]
			continue
		}
		p.Pos.X += p.VX * dt
		p.Pos.Y += p.VY * dt
		p.VY += particleGravity * dt
		i++
	}
}

// Clear drops every particle.
func (ps *Particles) Clear() { ps.P = ps.P[:0] }
