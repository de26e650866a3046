// Package progression models how glitching intensifies through a document.
//
// Two quantities grow as the reader advances:
//
//   - The fire probability: the chance that any effect is applied to the word
//     at a given position. It rises linearly and saturates at
//     [Curve.MaxChance] once [Curve.Threshold] of the document has been read.
//   - The per-effect weights held in [State]: each starts at its effect's base
//     probability and grows by step*progress after every word, capped at 1.
//
// A State lives for exactly one document run and is mutated only by the
// sequential bookkeeping of that run.
package progression

import (
	"math"

	"github.com/matzehuels/glitchzine/pkg/effect"
	"github.com/matzehuels/glitchzine/pkg/errors"
)

const (
	// DefaultThreshold is the fraction of the document at which the fire
	// probability saturates.
	DefaultThreshold = 0.75

	// DefaultMaxChance is the ceiling of the fire probability.
	DefaultMaxChance = 1.0

	// maxWeight caps every per-effect weight.
	maxWeight = 1.0
)

// Curve maps document position to fire probability.
type Curve struct {
	Threshold float64 // Fraction of the document where the ceiling is reached, in (0, 1]
	MaxChance float64 // Ceiling of the fire probability, in [0, 1]
}

// DefaultCurve returns the curve with DefaultThreshold and DefaultMaxChance.
func DefaultCurve() Curve {
	return Curve{Threshold: DefaultThreshold, MaxChance: DefaultMaxChance}
}

// Validate checks the curve parameters.
func (c Curve) Validate() error {
	if math.IsNaN(c.Threshold) || c.Threshold <= 0 || c.Threshold > 1 {
		return errors.New(errors.ErrCodeInvalidConfig,
			"progression_threshold must be in (0, 1], got %v", c.Threshold)
	}
	if math.IsNaN(c.MaxChance) || c.MaxChance < 0 || c.MaxChance > 1 {
		return errors.New(errors.ErrCodeInvalidConfig,
			"max_effect_chance must be in [0, 1], got %v", c.MaxChance)
	}
	return nil
}

// FireProbability returns the chance that the word at position (1-based
// count of words processed so far) gets any effect, out of total words.
// The result is in [0, MaxChance] and non-decreasing in position.
// Degenerate input (total or position <= 0) yields 0.
func (c Curve) FireProbability(position, total int) float64 {
	if total <= 0 || position <= 0 {
		return 0
	}
	progress := min(float64(position)/float64(total)/c.Threshold, 1.0)
	return progress * c.MaxChance
}

// SaturationPosition returns the first position at which FireProbability
// reaches MaxChance for a document of total words.
func (c Curve) SaturationPosition(total int) int {
	if total <= 0 {
		return 0
	}
	if c.MaxChance <= 0 {
		return 1
	}
	for pos := max(int(math.Floor(c.Threshold*float64(total))), 1); pos <= total; pos++ {
		if c.FireProbability(pos, total) >= c.MaxChance {
			return pos
		}
	}
	return total
}

// State is the per-effect weight table of one run.
type State struct {
	order   []string
	steps   map[string]float64
	weights map[string]float64
}

// NewState seeds every registered effect with its base probability.
func NewState(reg *effect.Registry) *State {
	s := &State{
		steps:   make(map[string]float64, reg.Len()),
		weights: make(map[string]float64, reg.Len()),
	}
	for _, e := range reg.Effects() {
		s.order = append(s.order, e.Name)
		s.steps[e.Name] = e.Step
		s.weights[e.Name] = min(e.Probability, maxWeight)
	}
	return s
}

// Weight returns the current weight of the named effect.
func (s *State) Weight(name string) (float64, bool) {
	w, ok := s.weights[name]
	return w, ok
}

// Advance grows every effect with a positive step by step*position/total,
// clamped to 1. It must run after the word at position has been assigned
// its effect, so the selection sees pre-advance weights.
func (s *State) Advance(position, total int) {
	if total <= 0 || position <= 0 {
		return
	}
	progress := float64(position) / float64(total)
	for _, name := range s.order {
		step := s.steps[name]
		if step <= 0 {
			continue
		}
		s.weights[name] = min(s.weights[name]+step*progress, maxWeight)
	}
}

// Snapshot returns a copy of the current weights.
func (s *State) Snapshot() map[string]float64 {
	out := make(map[string]float64, len(s.weights))
	for k, v := range s.weights {
		out[k] = v
	}
	return out
}
