// Package effect defines word effects and the registry that catalogs them.
//
// An effect is a named transformation of a single word together with a base
// selection weight (Probability) and a per-word progression Step. The
// registry keeps effects in a fixed order; order is only used as the
// tie-break fallback of weighted selection, never as a probability.
//
// Effects are opaque to the selection engine: the engine decides which
// effect applies to a word and calls [Effect.Apply] with a random source that
// belongs to that call alone, so effects may run concurrently.
package effect

import (
	"context"
	"math/rand/v2"

	"github.com/matzehuels/glitchzine/pkg/errors"
)

// NoneName is the name of the no-effect outcome.
const NoneName = "none"

// Func transforms a single word. rng is owned by the call and must not be
// retained. The returned string may contain markup.
type Func func(ctx context.Context, word string, rng *rand.Rand) (string, error)

// Effect is a named word transform with its selection parameters.
type Effect struct {
	Name        string  // Unique key, also used as CSS class suffix
	Apply       Func    // Transform applied to selected words
	Probability float64 // Base weight in [0, 1]
	Step        float64 // Per-word weight increase, scaled by progress
}

// None is the sentinel "no effect applied" outcome. It is never part of a
// registry and never takes part in weighted selection.
var None = Effect{
	Name:        NoneName,
	Apply:       identity,
	Probability: 0,
}

func identity(_ context.Context, word string, _ *rand.Rand) (string, error) {
	return word, nil
}

// Validate checks the effect's configuration.
func (e Effect) Validate() error {
	if err := errors.ValidateEffectName(e.Name); err != nil {
		return err
	}
	if e.Apply == nil {
		return errors.New(errors.ErrCodeInvalidEffect, "effect %q has no transform", e.Name)
	}
	if err := errors.ValidateProbability(e.Name+".probability", e.Probability); err != nil {
		return err
	}
	return errors.ValidateStep(e.Name+".step", e.Step)
}

// Registry is an ordered, immutable catalog of effects.
// It is safe for concurrent use.
type Registry struct {
	effects []Effect
	index   map[string]int
}

// New builds a registry from effects, in the given order.
// Every effect is validated; names must be unique.
func New(effects ...Effect) (*Registry, error) {
	r := &Registry{
		effects: make([]Effect, 0, len(effects)),
		index:   make(map[string]int, len(effects)),
	}
	for _, e := range effects {
		if err := e.Validate(); err != nil {
			return nil, err
		}
		if _, dup := r.index[e.Name]; dup {
			return nil, errors.New(errors.ErrCodeInvalidEffect, "duplicate effect %q", e.Name)
		}
		r.index[e.Name] = len(r.effects)
		r.effects = append(r.effects, e)
	}
	return r, nil
}

// MustNew is like New but panics on error. Intended for package-level
// catalogs and tests.
func MustNew(effects ...Effect) *Registry {
	r, err := New(effects...)
	if err != nil {
		panic(err)
	}
	return r
}

// Effects returns the effects in registry order. The slice is a copy.
func (r *Registry) Effects() []Effect {
	out := make([]Effect, len(r.effects))
	copy(out, r.effects)
	return out
}

// Len returns the number of registered effects.
func (r *Registry) Len() int {
	return len(r.effects)
}

// Lookup returns the effect registered under name.
func (r *Registry) Lookup(name string) (Effect, bool) {
	i, ok := r.index[name]
	if !ok {
		return Effect{}, false
	}
	return r.effects[i], true
}

// Names returns effect names in registry order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.effects))
	for i, e := range r.effects {
		names[i] = e.Name
	}
	return names
}
