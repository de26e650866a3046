package pipeline

import (
	"context"
	"io"
	"math/rand/v2"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/glitchzine/pkg/config"
	"github.com/matzehuels/glitchzine/pkg/errors"
	"github.com/matzehuels/glitchzine/pkg/observability"
	"github.com/matzehuels/glitchzine/pkg/page"
	"github.com/matzehuels/glitchzine/pkg/transform"
)

// Runner executes builds. It holds no per-build state, so one Runner can
// serve several builds in sequence.
type Runner struct {
	Logger *log.Logger
}

// NewRunner creates a runner. A nil logger discards output.
func NewRunner(logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Runner{Logger: logger}
}

// NewEngine builds the transform engine described by cfg. A zero seed
// draws a fresh one.
func (r *Runner) NewEngine(cfg *config.Config, logger *log.Logger) (*transform.Engine, error) {
	reg, err := cfg.Registry()
	if err != nil {
		return nil, err
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	if logger == nil {
		logger = r.Logger
	}
	return transform.NewEngine(reg, cfg.Curve(), transform.NewRand(seed), transform.Options{
		Concurrency: cfg.Concurrency,
		Verbose:     cfg.DebugVerbose,
		Logger:      logger,
	})
}

// Execute runs a complete build. cfg is validated first; nothing is read
// or written when it is invalid. The page is written only after every
// issue transformed successfully.
func (r *Runner) Execute(ctx context.Context, cfg *config.Config) (*Result, error) {
	start := time.Now()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	result := &Result{RunID: uuid.NewString(), Output: cfg.Output}
	logger := r.Logger.With("run", result.RunID[:8])

	eng, err := r.NewEngine(cfg, logger)
	if err != nil {
		return nil, err
	}

	// Stage 1: Read
	readStart := time.Now()
	tpl, err := r.readTemplate(ctx, cfg)
	if err != nil {
		return nil, err
	}
	present := page.Placeholders(tpl)
	for _, name := range cfg.Placeholders() {
		if !slices.Contains(present, name) {
			return nil, errors.New(errors.ErrCodeInvalidTemplate,
				"template has no {{%s}} placeholder", name)
		}
	}
	result.Timings.Read = time.Since(readStart)

	// Stage 2: Transform
	transformStart := time.Now()
	values := make(map[string]string, len(cfg.Issues))
	for _, issue := range cfg.Issues {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		text, ir, err := r.processIssue(ctx, eng, issue)
		if err != nil {
			return nil, err
		}
		values[issue.Placeholder] = text
		result.Issues = append(result.Issues, ir)
		result.Stats.Add(ir.Stats)
	}
	result.Timings.Transform = time.Since(transformStart)

	// Stage 3: Assemble
	html, err := page.Assemble(tpl, values)
	if err != nil {
		return nil, err
	}
	if result.Unfilled = page.Unfilled(tpl, values); len(result.Unfilled) > 0 {
		logger.Warn("template placeholders left unfilled", "placeholders", result.Unfilled)
	}

	// Stage 4: Write
	writeStart := time.Now()
	err = page.Write(cfg.Output, html)
	observability.File().OnWrite(ctx, cfg.Output, len(html), err)
	observability.Pipeline().OnPageComplete(ctx, cfg.Output, len(html), time.Since(start), err)
	if err != nil {
		return nil, err
	}
	result.Bytes = len(html)
	result.Timings.Write = time.Since(writeStart)
	result.Timings.Total = time.Since(start)

	logger.Info("wrote page",
		"path", cfg.Output,
		"bytes", result.Bytes,
		"duration", result.Timings.Total)
	return result, nil
}

func (r *Runner) readTemplate(ctx context.Context, cfg *config.Config) (string, error) {
	tpl, err := cfg.TemplateSource()
	if cfg.Template != "" {
		observability.File().OnRead(ctx, cfg.Template, len(tpl), err)
	}
	return tpl, err
}

// processIssue reads one issue and transforms it, or passes it through
// unchanged when the issue opts out.
func (r *Runner) processIssue(ctx context.Context, eng *transform.Engine, issue config.Issue) (string, IssueResult, error) {
	hooks := observability.Pipeline()
	hooks.OnIssueStart(ctx, issue.Placeholder, issue.Path)
	start := time.Now()

	format, err := transform.ParseFormat(issue.Format)
	if err != nil {
		return "", IssueResult{}, err
	}
	ir := IssueResult{
		Placeholder: issue.Placeholder,
		Path:        issue.Path,
		Format:      transform.DetectFormat(issue.Path, format),
		Transformed: issue.Transforms(),
	}

	var text string
	if ir.Transformed {
		var out *transform.Output
		out, err = r.TransformFile(ctx, eng, issue.Path, format)
		if out != nil {
			text, ir.Stats = out.Text, out.Stats
		}
	} else {
		text, err = r.readFile(ctx, issue.Path)
	}
	ir.Duration = time.Since(start)
	hooks.OnIssueComplete(ctx, issue.Placeholder, ir.Stats.Words, ir.Stats.Affected, ir.Duration, err)
	if err != nil {
		return "", IssueResult{}, err
	}

	r.Logger.Debug("issue ready",
		"placeholder", issue.Placeholder,
		"path", issue.Path,
		"transformed", ir.Transformed,
		"duration", ir.Duration)
	return text, ir, nil
}

// TransformFile reads the document at path and runs it through eng.
func (r *Runner) TransformFile(ctx context.Context, eng *transform.Engine, path string, format transform.Format) (*transform.Output, error) {
	src, err := r.readFile(ctx, path)
	if err != nil {
		return nil, err
	}
	doc, err := transform.NewDocument(path, src, format)
	if err != nil {
		return nil, err
	}
	return eng.Transform(ctx, doc)
}

func (r *Runner) readFile(ctx context.Context, path string) (string, error) {
	text, err := page.Read(path)
	observability.File().OnRead(ctx, path, len(text), err)
	if err != nil {
		return "", err
	}
	r.Logger.Debug("read input", "path", path, "chars", len([]rune(text)))
	return text, nil
}
