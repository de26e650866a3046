// Package cli implements the glitchzine command-line interface.
//
// This package provides commands for building the zine page from a
// configuration file, glitching a single document, and listing the effect
// catalog. The CLI is built using cobra and logs through charmbracelet/log.
//
// # Commands
//
// The main commands are:
//   - build: Read every issue, transform it and write the page
//   - transform: Glitch one document and print the result
//   - effects: Show the effect catalog with its selection parameters
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context so commands and the pipeline share one
// logger.
//
// # Example
//
//	import "github.com/matzehuels/glitchzine/internal/cli"
//
//	func main() {
//	    c := cli.New(os.Stderr, cli.LogInfo)
//	    if err := c.RootCommand().Execute(); err != nil {
//	        os.Exit(1)
//	    }
//	}
package cli

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/glitchzine/pkg/buildinfo"
	"github.com/matzehuels/glitchzine/pkg/config"
	"github.com/matzehuels/glitchzine/pkg/errors"
	"github.com/matzehuels/glitchzine/pkg/pipeline"
	"github.com/matzehuels/glitchzine/pkg/progression"
)

// =============================================================================
// Constants
// =============================================================================

const appName = "glitchzine"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Out receives command results (tables, transformed text).
	Out io.Writer

	// Status receives transient progress output.
	Status io.Writer
}

// New creates a new CLI instance logging to w. Results go to stdout.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level), Out: os.Stdout, Status: w}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Glitchzine turns prose into a progressively glitched web page",
		Long: `Glitchzine reads zine issues (plain text or HTML), applies word-level glitch
effects to a share of the words that grows as the text goes on, and writes the
result into an HTML page.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.buildCommand())
	root.AddCommand(c.transformCommand())
	root.AddCommand(c.effectsCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Errors
// =============================================================================

// FormatError renders err for the terminal: the message without its code,
// plus a hint for errors the user can fix.
func FormatError(err error) string {
	msg := styleIconError.Render(iconError) + " " + errors.UserMessage(err)
	switch errors.GetCode(err) {
	case errors.ErrCodeFileNotFound:
		msg += "\n  " + StyleDim.Render("check the path, or pass a config file: glitchzine build <config>")
	case errors.ErrCodeInvalidEffect:
		msg += "\n  " + StyleDim.Render("run 'glitchzine effects' to list the available effects")
	}
	return msg
}

// =============================================================================
// Runner Factory
// =============================================================================

func (c *CLI) newRunner() *pipeline.Runner {
	return pipeline.NewRunner(c.Logger)
}

// =============================================================================
// Shared Flags
// =============================================================================

// curveFlags are the selection flags shared by build and transform.
// Only flags given on the command line override the configuration.
type curveFlags struct {
	seed        uint64
	threshold   float64
	maxChance   float64
	concurrency int
	trace       bool
}

func (f *curveFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.Uint64Var(&f.seed, "seed", 0, "random seed for a reproducible run (debugging only)")
	fl.Float64Var(&f.threshold, "threshold", progression.DefaultThreshold, "fraction of the text at which the effect chance peaks")
	fl.Float64Var(&f.maxChance, "max-chance", progression.DefaultMaxChance, "peak chance that a word gets an effect")
	fl.IntVar(&f.concurrency, "concurrency", 0, "concurrent effect applications (0 = number of CPUs)")
	fl.BoolVar(&f.trace, "trace", false, "log every word's probability and selected effect")
}

// apply copies the flags that were set on cmd onto cfg.
func (f *curveFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	fl := cmd.Flags()
	if fl.Changed("seed") {
		cfg.Seed = f.seed
	}
	if fl.Changed("threshold") {
		cfg.ProgressionThreshold = f.threshold
	}
	if fl.Changed("max-chance") {
		cfg.MaxEffectChance = f.maxChance
	}
	if fl.Changed("concurrency") {
		cfg.Concurrency = f.concurrency
	}
	if f.trace {
		cfg.DebugVerbose = true
	}
}

// applyDebug raises the log level when the configuration asks for it.
func (c *CLI) applyDebug(cfg *config.Config) {
	if cfg.Debug || cfg.DebugVerbose {
		c.SetLogLevel(LogDebug)
	}
}
