package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/glitchzine/pkg/buildinfo"
	"github.com/matzehuels/glitchzine/pkg/config"
	"github.com/matzehuels/glitchzine/pkg/observability"
)

// buildOpts holds the command-line flags for the build command.
type buildOpts struct {
	output   string
	template string
	curve    curveFlags
}

// buildCommand creates the build command, which runs the whole pipeline.
func (c *CLI) buildCommand() *cobra.Command {
	opts := buildOpts{}

	cmd := &cobra.Command{
		Use:   "build [config]",
		Short: "Build the zine page from a config file",
		Long: `Build reads every issue listed in the config file, glitches it, and writes the
assembled page.

The config file defaults to ` + config.DefaultFile + ` in the current directory.
TOML (.toml) and YAML (.yaml, .yml) are supported.`,
		Example: `  # Build with ./glitchzine.toml
  glitchzine build

  # Build a YAML config into a custom location
  glitchzine build zine.yaml -o dist/index.html

  # Reproduce a run while tuning the curve
  glitchzine build --seed 42 --threshold 0.5 --trace -v`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.DefaultFile
			if len(args) == 1 {
				path = args[0]
			}
			return c.runBuild(cmd, path, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: from config, "+config.DefaultOutput+")")
	cmd.Flags().StringVar(&opts.template, "template", "", "page template with {{placeholder}} slots (default: built-in page)")
	opts.curve.register(cmd)

	return cmd
}

func (c *CLI) runBuild(cmd *cobra.Command, path string, opts buildOpts) error {
	ctx := cmd.Context()

	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	if opts.output != "" {
		cfg.Output = opts.output
	}
	if opts.template != "" {
		cfg.Template = opts.template
	}
	opts.curve.apply(cmd, cfg)
	c.applyDebug(cfg)

	logger := loggerFromContext(ctx)
	logger.Debug(appName, "version", buildinfo.Short())
	logger.Debug("loaded config",
		"path", path,
		"issues", len(cfg.Issues),
		"effects", len(cfg.Effects),
		"threshold", cfg.ProgressionThreshold,
		"max_chance", cfg.MaxEffectChance)

	var spinner *Spinner
	if c.Logger.GetLevel() > LogDebug {
		spinner = newSpinner(ctx, c.Status, "reading issues")
		spinner.Start()
		observability.SetPipelineHooks(spinnerHooks{spinner})
		defer observability.Reset()
	}

	prog := newProgress(logger)
	result, err := c.newRunner().Execute(ctx, cfg)
	if err != nil {
		switch {
		case spinner == nil:
		case spinner.Cancelled():
			spinner.Stop()
		default:
			spinner.StopWithError("build failed")
		}
		return err
	}
	if spinner != nil {
		spinner.StopWithSuccess(fmt.Sprintf("%d issues transformed", len(result.Issues)))
	}
	prog.done("built page", "issues", len(result.Issues), "words", result.Stats.Words)

	out := c.Out
	printSuccess(out, "Built %s", StyleTitle.Render(filepath.Base(result.Output)))
	printFile(out, result.Output)
	printKeyValue(out, "size", fmt.Sprintf("%d bytes", result.Bytes))
	printKeyValue(out, "time", result.Timings.Total.Round(time.Millisecond).String())
	fmt.Fprintln(out, issuesTable(result))
	if result.Stats.Affected > 0 {
		fmt.Fprintln(out, distributionTable(result.Stats))
	}
	if len(result.Unfilled) > 0 {
		printWarning(out, "unfilled placeholders: %s", strings.Join(result.Unfilled, ", "))
	}
	return nil
}

// spinnerHooks reports issue progress on the build spinner.
type spinnerHooks struct {
	s *Spinner
}

func (h spinnerHooks) OnIssueStart(_ context.Context, placeholder, path string) {
	h.s.Update(fmt.Sprintf("transforming %s (%s)", placeholder, filepath.Base(path)))
}

func (h spinnerHooks) OnIssueComplete(context.Context, string, int, int, time.Duration, error) {}

func (h spinnerHooks) OnPageComplete(_ context.Context, path string, _ int, _ time.Duration, err error) {
	if err == nil {
		h.s.Update("wrote " + filepath.Base(path))
	}
}
