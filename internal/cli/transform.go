package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/glitchzine/pkg/config"
	"github.com/matzehuels/glitchzine/pkg/page"
	"github.com/matzehuels/glitchzine/pkg/transform"
)

// transformOpts holds the command-line flags for the transform command.
type transformOpts struct {
	output string
	format string
	config string
	curve  curveFlags
}

// transformCommand glitches a single document without a template.
func (c *CLI) transformCommand() *cobra.Command {
	opts := transformOpts{}

	cmd := &cobra.Command{
		Use:   "transform <file>",
		Short: "Glitch a single document",
		Long: `Transform runs one document through the glitch engine and prints the rendered
words. Plain text is glitched as a whole; in HTML, only text inside
<div class="speech"> elements is touched.

No template is applied. Effects come from --config when given, otherwise the
default catalog is used.`,
		Example: `  # Print a glitched text file
  glitchzine transform input/kotel_2.txt

  # Glitch the speech bubbles of an HTML page into a file
  glitchzine transform issue.html -o public/issue.html

  # Force plain-text handling with a reproducible seed
  glitchzine transform notes.html --format text --seed 7`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runTransform(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().StringVar(&opts.format, "format", string(transform.FormatAuto), "input format: auto, text or html")
	cmd.Flags().StringVarP(&opts.config, "config", "c", "", "config file to take effects and curve from")
	opts.curve.register(cmd)

	return cmd
}

func (c *CLI) runTransform(cmd *cobra.Command, path string, opts transformOpts) error {
	ctx := cmd.Context()

	format, err := transform.ParseFormat(opts.format)
	if err != nil {
		return err
	}

	cfg := config.Default()
	if opts.config != "" {
		if cfg, err = config.Load(opts.config); err != nil {
			return err
		}
	}
	cfg.SetDefaults()
	opts.curve.apply(cmd, cfg)
	c.applyDebug(cfg)

	logger := loggerFromContext(ctx)
	runner := c.newRunner()
	eng, err := runner.NewEngine(cfg, logger)
	if err != nil {
		return err
	}

	prog := newProgress(logger)
	out, err := runner.TransformFile(ctx, eng, path, format)
	if err != nil {
		return err
	}
	prog.done("transformed",
		"path", path,
		"words", out.Stats.Words,
		"affected", out.Stats.Affected)

	if opts.output == "" {
		_, err := fmt.Fprintln(c.Out, out.Text)
		return err
	}
	if err := page.Write(opts.output, out.Text); err != nil {
		return err
	}
	printSuccess(c.Out, "Wrote %s", opts.output)
	return nil
}
