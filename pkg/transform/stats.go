package transform

// Stats summarizes one run.
type Stats struct {
	Words      int            // Words that took part in selection
	Affected   int            // Words that received an effect
	Emphasized int            // Words of Words inside emphasis regions
	Protected  int            // Words passed through because they hold markup
	Regions    int            // Transformable regions in the document
	PerEffect  map[string]int // Affected words per effect name

	order []string
}

// EffectCount is the share of one effect in a run.
type EffectCount struct {
	Name    string
	Count   int
	Percent float64 // of affected words
}

func newStats(order []string) Stats {
	s := Stats{PerEffect: make(map[string]int, len(order)), order: order}
	for _, name := range order {
		s.PerEffect[name] = 0
	}
	return s
}

func (s *Stats) record(name string, applied bool) {
	s.Words++
	if !applied {
		return
	}
	s.Affected++
	s.PerEffect[name]++
}

// AffectedPercent returns the share of words that received an effect.
func (s Stats) AffectedPercent() float64 {
	if s.Words == 0 {
		return 0
	}
	return float64(s.Affected) / float64(s.Words) * 100
}

// Percent returns the share of the named effect among affected words.
func (s Stats) Percent(name string) float64 {
	if s.Affected == 0 {
		return 0
	}
	return float64(s.PerEffect[name]) / float64(s.Affected) * 100
}

// Distribution returns per-effect counts in registry order, skipping
// effects that were never applied.
func (s Stats) Distribution() []EffectCount {
	var out []EffectCount
	for _, name := range s.order {
		n := s.PerEffect[name]
		if n == 0 {
			continue
		}
		out = append(out, EffectCount{Name: name, Count: n, Percent: s.Percent(name)})
	}
	return out
}

// Add accumulates other into s. Used to total several documents.
func (s *Stats) Add(other Stats) {
	if s.PerEffect == nil {
		s.PerEffect = make(map[string]int)
	}
	s.Words += other.Words
	s.Affected += other.Affected
	s.Emphasized += other.Emphasized
	s.Protected += other.Protected
	s.Regions += other.Regions
	for _, name := range other.order {
		if _, seen := s.PerEffect[name]; !seen {
			s.order = append(s.order, name)
		}
		s.PerEffect[name] += other.PerEffect[name]
	}
}
