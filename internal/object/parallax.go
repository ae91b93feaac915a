package object

import (
	"math"
	"time"
)

// Layer is one band of background stars scrolling left at a fixed speed.
type Layer struct {
	Speed float64 // Units per second
	Stars []Vec
}

// Parallax scrolls star layers at different speeds to fake depth.
// It keeps its own clock so it can be updated from any tick.
type Parallax struct {
	Layers []Layer
	view   Vec
	last   time.Time
}

// NewParallax scatters count stars per layer at random positions.
func NewParallax(view Vec, rng Rand, count int, speeds ...float64) *Parallax {
	p := &Parallax{view: view}
	for _, speed := range speeds {
		layer := Layer{Speed: speed, Stars: make([]Vec, count)}
		for i := range layer.Stars {
			layer.Stars[i] = Vec{
				X: Between(rng, 0, view.X),
				Y: Between(rng, 0, view.Y),
			}
		}
		p.Layers = append(p.Layers, layer)
	}
	return p
}

// Update scrolls every layer by the time elapsed since the previous call.
// Stars leaving the left edge re-enter on the right.
func (p *Parallax) Update(now time.Time) {
	if p.last.IsZero() {
		p.last = now
		return
	}
	dt := now.Sub(p.last).Seconds()
	p.last = now
	if dt <= 0 || p.view.X <= 0 {
		return
	}

	for li := range p.Layers {
		layer := &p.Layers[li]
		for i := range layer.Stars {
			x := math.Mod(layer.Stars[i].X-layer.Speed*dt, p.view.X)
			if x < 0 {
				x += p.view.X
			}
			layer.Stars[i].X = x
		}
	}
}
