package transform

import (
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"runtime"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/glitchzine/pkg/effect"
	"github.com/matzehuels/glitchzine/pkg/errors"
	"github.com/matzehuels/glitchzine/pkg/observability"
	"github.com/matzehuels/glitchzine/pkg/progression"
	"github.com/matzehuels/glitchzine/pkg/selection"
)

// Options tunes an Engine.
type Options struct {
	// Concurrency bounds concurrent effect applications. 0 means NumCPU.
	Concurrency int

	// Verbose logs every word's probability and selection at debug level.
	Verbose bool

	// Logger receives run progress. nil discards output.
	Logger *log.Logger
}

// Engine transforms documents with a fixed effect catalog and curve.
// An Engine holds the run's random stream and is not safe for concurrent
// use; documents are transformed one at a time.
type Engine struct {
	reg    *effect.Registry
	curve  progression.Curve
	rng    *rand.Rand
	opts   Options
	logger *log.Logger
}

// NewEngine creates an engine. rng drives both the lottery and the seeds
// handed to effects.
func NewEngine(reg *effect.Registry, curve progression.Curve, rng *rand.Rand, opts Options) (*Engine, error) {
	if reg == nil {
		return nil, errors.New(errors.ErrCodeInvalidEffect, "effect registry is required")
	}
	if err := curve.Validate(); err != nil {
		return nil, err
	}
	if opts.Concurrency < 0 {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "concurrency must be >= 0, got %d", opts.Concurrency)
	}
	if opts.Concurrency == 0 {
		opts.Concurrency = runtime.NumCPU()
	}
	if rng == nil {
		seed := rand.Uint64()
		rng = NewRand(seed)
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Engine{reg: reg, curve: curve, rng: rng, opts: opts, logger: logger}, nil
}

// NewRand returns the PCG generator used for a seed.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
}

// Output is the result of transforming one document.
type Output struct {
	Document string
	Text     string
	Stats    Stats
	Duration time.Duration
}

// Transform runs doc through every phase and returns the rendered text.
// An effect error aborts the run and is returned as TRANSFORM_FAILED.
func (e *Engine) Transform(ctx context.Context, doc *Document) (*Output, error) {
	run := e.NewRun(doc)
	if err := run.Count(); err != nil {
		return nil, err
	}
	if err := run.Process(ctx); err != nil {
		return nil, err
	}
	return run.Finish()
}

// =============================================================================
// Run State Machine
// =============================================================================

// Phase is the lifecycle stage of a Run.
type Phase int

const (
	PhaseInit Phase = iota
	PhaseCounting
	PhaseProcessing
	PhaseDone
)

func (p Phase) String() string {
	switch p {
	case PhaseInit:
		return "init"
	case PhaseCounting:
		return "counting"
	case PhaseProcessing:
		return "processing"
	case PhaseDone:
		return "done"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// Run is one document transformation. Its progression state is created in
// NewRun and discarded with the run.
type Run struct {
	eng      *Engine
	doc      *Document
	phase    Phase
	state    *progression.State
	selector *selection.Selector

	regions  map[int][]Token // segment index -> tokens
	total    int
	position int
	pieces   []string
	stats    Stats
	start    time.Time
	text     string
}

// NewRun seeds a fresh progression state for doc.
func (e *Engine) NewRun(doc *Document) *Run {
	return &Run{
		eng:      e,
		doc:      doc,
		phase:    PhaseInit,
		state:    progression.NewState(e.reg),
		selector: selection.New(e.reg, e.rng),
		stats:    newStats(e.reg.Names()),
		start:    time.Now(),
	}
}

// Phase returns the current phase.
func (r *Run) Phase() Phase {
	return r.phase
}

// Total returns the number of words counted in the counting phase.
func (r *Run) Total() int {
	return r.total
}

func (r *Run) enter(from, to Phase) error {
	if r.phase != from {
		return errors.New(errors.ErrCodeInternal, "run %s: cannot enter %s from %s", r.doc.Name, to, r.phase)
	}
	r.phase = to
	return nil
}

// Count tokenizes every region and counts the words that will take part
// in selection. The total must be known before processing starts.
func (r *Run) Count() error {
	if err := r.enter(PhaseInit, PhaseCounting); err != nil {
		return err
	}

	r.regions = make(map[int][]Token)
	for i, seg := range r.doc.Segments {
		if !seg.Region {
			continue
		}
		tokens := Tokenize(seg.Text)
		r.regions[i] = tokens
		r.stats.Regions++
		for _, tok := range tokens {
			switch {
			case tok.Space:
			case Protected(tok.Text):
				r.stats.Protected++
			default:
				r.total++
				if seg.Emphasis {
					r.stats.Emphasized++
				}
			}
		}
	}

	logger := r.eng.logger
	if r.doc.Format == FormatHTML && r.stats.Regions == 0 {
		logger.Warn("no speech regions found", "document", r.doc.Name)
	}
	logger.Debug("counted words",
		"document", r.doc.Name,
		"words", r.total,
		"regions", r.stats.Regions,
		"emphasized", r.stats.Emphasized,
		"protected", r.stats.Protected,
		"saturates_at", r.eng.curve.SaturationPosition(r.total))
	return nil
}

// job is one word scheduled for an effect.
type job struct {
	slot     int
	position int
	word     string
	choice   selection.Choice
	seed     uint64
}

// Process selects an effect for every word in document order, then applies
// the selected effects concurrently and reassembles the text in order.
func (r *Run) Process(ctx context.Context) error {
	if err := r.enter(PhaseCounting, PhaseProcessing); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	hooks := observability.Transform()
	hooks.OnRunStart(ctx, r.doc.Name, r.total)

	jobs := r.plan(ctx)
	if r.position != r.total {
		return errors.New(errors.ErrCodeInternal,
			"run %s: processed %d words, counted %d", r.doc.Name, r.position, r.total)
	}

	if err := r.apply(ctx, jobs); err != nil {
		hooks.OnRunComplete(ctx, r.doc.Name, r.stats.Words, r.stats.Affected, time.Since(r.start), err)
		return err
	}
	r.text = strings.Join(r.pieces, "")
	hooks.OnRunComplete(ctx, r.doc.Name, r.stats.Words, r.stats.Affected, time.Since(r.start), nil)
	return nil
}

// plan performs the sequential bookkeeping: position, probability,
// selection and weight advancement, in document order. Words that need no
// effect are rendered directly.
func (r *Run) plan(ctx context.Context) []job {
	var (
		jobs    []job
		isHTML  = r.doc.Format == FormatHTML
		logger  = r.eng.logger
		verbose = r.eng.opts.Verbose
		hooks   = observability.Transform()
	)

	for i, seg := range r.doc.Segments {
		if !seg.Region {
			r.pieces = append(r.pieces, seg.Text)
			continue
		}
		for _, tok := range r.regions[i] {
			if tok.Space {
				r.pieces = append(r.pieces, tok.Text)
				continue
			}
			if Protected(tok.Text) {
				r.pieces = append(r.pieces, protectedText(tok.Text, isHTML))
				continue
			}

			r.position++
			p := r.eng.curve.FireProbability(r.position, r.total)
			// Selection sees the weights as they were before this word.
			choice := r.selector.Select(p, r.state)
			r.state.Advance(r.position, r.total)
			r.stats.record(choice.Name(), choice.Applied())

			hooks.OnWordSelected(ctx, r.doc.Name, r.position, p, choice.Name())
			if verbose {
				logger.Debug("word",
					"position", fmt.Sprintf("%d/%d", r.position, r.total),
					"probability", fmt.Sprintf("%.4f", p),
					"effect", choice.Name())
			}

			slot := len(r.pieces)
			r.pieces = append(r.pieces, "")
			if !choice.Applied() {
				r.pieces[slot] = Result{Rendered: tok.Text, Effect: choice.Name(), Original: tok.Text}.HTML()
				continue
			}
			jobs = append(jobs, job{
				slot:     slot,
				position: r.position,
				word:     tok.Text,
				choice:   choice,
				seed:     r.eng.rng.Uint64(),
			})
		}
	}
	return jobs
}

// apply runs the planned effects concurrently. Each job writes only its own
// slot, so reassembly order is independent of completion order.
func (r *Run) apply(ctx context.Context, jobs []job) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.eng.opts.Concurrency)

	logger := r.eng.logger
	verbose := r.eng.opts.Verbose
	for _, j := range jobs {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			start := time.Now()
			e := j.choice.Effect()
			out, err := e.Apply(gctx, j.word, NewRand(j.seed))
			if err != nil {
				return errors.Wrap(errors.ErrCodeTransform, err,
					"%s: effect %q on word %d (%q)", r.doc.Name, e.Name, j.position, j.word)
			}
			if verbose {
				logger.Debug("applied",
					"effect", e.Name,
					"word", j.word,
					"result", out,
					"duration", time.Since(start))
			}
			r.pieces[j.slot] = Result{Rendered: out, Effect: e.Name, Original: j.word}.HTML()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

// Finish closes the run and reports its statistics.
func (r *Run) Finish() (*Output, error) {
	if err := r.enter(PhaseProcessing, PhaseDone); err != nil {
		return nil, err
	}

	out := &Output{
		Document: r.doc.Name,
		Text:     r.text,
		Stats:    r.stats,
		Duration: time.Since(r.start),
	}

	logger := r.eng.logger
	logger.Info("transformed",
		"document", r.doc.Name,
		"words", r.stats.Words,
		"affected", r.stats.Affected,
		"percent", fmt.Sprintf("%.0f%%", r.stats.AffectedPercent()))
	if dist := r.stats.Distribution(); len(dist) > 0 {
		parts := make([]string, len(dist))
		for i, d := range dist {
			parts[i] = fmt.Sprintf("%s: %d (%.0f%%)", d.Name, d.Count, d.Percent)
		}
		logger.Debug("effect distribution", "document", r.doc.Name, "effects", strings.Join(parts, ", "))
	}
	if r.eng.opts.Verbose {
		logger.Debug("final weights", "document", r.doc.Name, "weights", r.state.Snapshot())
	}
	return out, nil
}
