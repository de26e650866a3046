// Package selection implements the two-stage effect lottery.
//
// Stage one decides whether anything happens to a word: a uniform draw is
// compared with the position-driven fire probability. Stage two decides
// which effect: a second, independent draw walks the registered effects in
// registry order, weighted by their current progression weights.
//
// The outcome is a [Choice], which is either skipped or carries the applied
// effect. Callers branch on [Choice.Applied] rather than comparing effects.
package selection

import (
	"github.com/matzehuels/glitchzine/pkg/effect"
)

// missingWeight is used for an effect the weight table does not know.
// A state seeded from the same registry never hits it.
const missingWeight = 0.5

// Source yields uniform draws in [0, 1). *rand.Rand satisfies it.
type Source interface {
	Float64() float64
}

// Weights exposes the current per-effect weights.
// *progression.State satisfies it.
type Weights interface {
	Weight(name string) (float64, bool)
}

// Choice is the outcome of one selection.
type Choice struct {
	applied bool
	effect  effect.Effect
}

// Skip returns the "no effect" outcome.
func Skip() Choice {
	return Choice{effect: effect.None}
}

// Apply returns an outcome that applies e.
func Apply(e effect.Effect) Choice {
	return Choice{applied: true, effect: e}
}

// Applied reports whether an effect was chosen.
func (c Choice) Applied() bool {
	return c.applied
}

// Effect returns the chosen effect, or effect.None when skipped.
func (c Choice) Effect() effect.Effect {
	if !c.applied {
		return effect.None
	}
	return c.effect
}

// Name returns the chosen effect's name ("none" when skipped).
func (c Choice) Name() string {
	return c.Effect().Name
}

// Selector draws effects from a registry.
// It is not safe for concurrent use; one selector serves one run.
type Selector struct {
	effects []effect.Effect
	src     Source
}

// New creates a selector over the effects of reg, drawing from src.
func New(reg *effect.Registry, src Source) *Selector {
	return &Selector{effects: reg.Effects(), src: src}
}

// Select runs the lottery for one word.
//
// The word is skipped when the first draw exceeds globalProbability, when
// globalProbability is not positive, or when no effect carries weight.
// Otherwise the second draw, scaled to the total weight, picks the first
// effect whose running weight meets it. Effects without weight never
// match, and rounding that leaves the draw unmatched falls back to the last
// effect carrying weight.
func (s *Selector) Select(globalProbability float64, w Weights) Choice {
	if globalProbability <= 0 {
		return Skip()
	}
	if r := s.src.Float64(); r > globalProbability {
		return Skip()
	}

	weights := make([]float64, len(s.effects))
	total := 0.0
	last := -1
	for i, e := range s.effects {
		weight, ok := w.Weight(e.Name)
		if !ok {
			weight = missingWeight
		}
		if weight <= 0 {
			continue
		}
		weights[i] = weight
		total += weight
		last = i
	}
	if last < 0 {
		return Skip()
	}

	draw := s.src.Float64() * total
	cumulative := 0.0
	for i, weight := range weights {
		if weight <= 0 {
			continue
		}
		cumulative += weight
		if draw <= cumulative {
			return Apply(s.effects[i])
		}
	}
	return Apply(s.effects[last])
}
