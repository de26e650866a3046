package selection

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/glitchzine/pkg/effect"
	"github.com/matzehuels/glitchzine/pkg/progression"
)

// scripted replays fixed draws in order.
type scripted struct {
	t     *testing.T
	draws []float64
}

func (s *scripted) Float64() float64 {
	s.t.Helper()
	if len(s.draws) == 0 {
		s.t.Fatal("scripted source exhausted")
	}
	d := s.draws[0]
	s.draws = s.draws[1:]
	return d
}

func (s *scripted) remaining() int { return len(s.draws) }

type fixedWeights map[string]float64

func (w fixedWeights) Weight(name string) (float64, bool) {
	v, ok := w[name]
	return v, ok
}

func testRegistry() *effect.Registry {
	return effect.MustNew(
		effect.Effect{Name: "alpha", Apply: effect.ReverseWord, Probability: 0.2},
		effect.Effect{Name: "beta", Apply: effect.ReverseWord, Probability: 0.3},
		effect.Effect{Name: "gamma", Apply: effect.ReverseWord, Probability: 0.5},
	)
}

func TestSelectSkipsWhenFireDrawExceedsProbability(t *testing.T) {
	reg := testRegistry()
	w := progression.NewState(reg)

	for _, p := range []float64{0.01, 0.3, 0.5, 0.99} {
		src := &scripted{t: t, draws: []float64{p + 0.001}}
		c := New(reg, src).Select(p, w)
		assert.False(t, c.Applied(), "p=%v", p)
		assert.Equal(t, effect.NoneName, c.Name())
		assert.Zero(t, src.remaining(), "stage two must not draw when skipped")
	}
}

func TestSelectFireDrawEqualToProbabilityFires(t *testing.T) {
	reg := testRegistry()
	src := &scripted{t: t, draws: []float64{0.4, 0}}
	c := New(reg, src).Select(0.4, progression.NewState(reg))
	assert.True(t, c.Applied())
}

func TestSelectZeroProbabilityNeverFires(t *testing.T) {
	reg := testRegistry()
	src := &scripted{t: t}
	c := New(reg, src).Select(0, progression.NewState(reg))
	assert.False(t, c.Applied())
}

func TestSelectZeroDrawPicksFirstWeightedEffect(t *testing.T) {
	reg := testRegistry()

	src := &scripted{t: t, draws: []float64{0, 0}}
	c := New(reg, src).Select(1, progression.NewState(reg))
	require.True(t, c.Applied())
	assert.Equal(t, "alpha", c.Name())

	// A zero-weight leader is passed over.
	src = &scripted{t: t, draws: []float64{0, 0}}
	c = New(reg, src).Select(1, fixedWeights{"alpha": 0, "beta": 0.3, "gamma": 0.5})
	require.True(t, c.Applied())
	assert.Equal(t, "beta", c.Name())
}

func TestSelectWalksCumulativeWeights(t *testing.T) {
	reg := testRegistry()
	weights := fixedWeights{"alpha": 0.2, "beta": 0.3, "gamma": 0.5} // total 1.0

	tests := []struct {
		draw float64
		want string
	}{
		{0.1, "alpha"},
		{0.2, "alpha"}, // meets the running total exactly
		{0.21, "beta"},
		{0.5, "beta"},
		{0.51, "gamma"},
		{0.999, "gamma"},
	}

	for _, tt := range tests {
		src := &scripted{t: t, draws: []float64{0, tt.draw}}
		c := New(reg, src).Select(1, weights)
		assert.Equal(t, tt.want, c.Name(), "draw=%v", tt.draw)
	}
}

func TestSelectAllZeroWeightsSkips(t *testing.T) {
	reg := testRegistry()
	src := &scripted{t: t, draws: []float64{0}}
	c := New(reg, src).Select(1, fixedWeights{"alpha": 0, "beta": 0, "gamma": 0})
	assert.False(t, c.Applied())
}

func TestSelectMissingWeightDefaultsToHalf(t *testing.T) {
	reg := testRegistry()
	// alpha missing => 0.5; total = 0.5 + 0.5 = 1.0 (gamma weight 0).
	weights := fixedWeights{"beta": 0.5, "gamma": 0}

	src := &scripted{t: t, draws: []float64{0, 0.49}}
	assert.Equal(t, "alpha", New(reg, src).Select(1, weights).Name())

	src = &scripted{t: t, draws: []float64{0, 0.51}}
	assert.Equal(t, "beta", New(reg, src).Select(1, weights).Name())
}

func TestSelectFallsBackToLastWeightedEffect(t *testing.T) {
	reg := testRegistry()
	// An out-of-range draw never meets the running total.
	src := &scripted{t: t, draws: []float64{0, 1.5}}
	c := New(reg, src).Select(1, fixedWeights{"alpha": 0.2, "beta": 0.3, "gamma": 0})
	require.True(t, c.Applied())
	assert.Equal(t, "beta", c.Name())
}

func TestSelectDistributionFollowsWeights(t *testing.T) {
	reg := testRegistry()
	rng := rand.New(rand.NewPCG(42, 42^0xdeadbeef))
	sel := New(reg, rng)
	weights := fixedWeights{"alpha": 0.2, "beta": 0.3, "gamma": 0.5}

	const n = 20000
	counts := map[string]int{}
	for range n {
		counts[sel.Select(1, weights).Name()]++
	}

	assert.InDelta(t, 0.2, float64(counts["alpha"])/n, 0.02)
	assert.InDelta(t, 0.3, float64(counts["beta"])/n, 0.02)
	assert.InDelta(t, 0.5, float64(counts["gamma"])/n, 0.02)
	assert.Zero(t, counts[effect.NoneName])
}

func TestSelectFireRateFollowsProbability(t *testing.T) {
	reg := testRegistry()
	rng := rand.New(rand.NewPCG(7, 7^0xdeadbeef))
	sel := New(reg, rng)
	w := progression.NewState(reg)

	const n = 20000
	fired := 0
	for range n {
		if sel.Select(0.25, w).Applied() {
			fired++
		}
	}
	assert.InDelta(t, 0.25, float64(fired)/n, 0.02)
}

func TestChoice(t *testing.T) {
	skip := Skip()
	assert.False(t, skip.Applied())
	assert.Equal(t, effect.NoneName, skip.Effect().Name)

	var zero Choice
	assert.False(t, zero.Applied())
	assert.Equal(t, effect.NoneName, zero.Name())

	e, _ := testRegistry().Lookup("beta")
	c := Apply(e)
	assert.True(t, c.Applied())
	assert.Equal(t, "beta", c.Name())
}
