// Package pipeline builds the zine page from a configuration.
//
// This package implements the read → transform → assemble → write pipeline
// that the CLI runs for every build. Keeping it out of the CLI lets tests
// and other entry points drive a complete build with a plain
// [config.Config].
//
// # Stages
//
//  1. Read: load the template and every issue document
//  2. Transform: run each issue through its own transform run, sharing one
//     engine so the random stream continues across issues
//  3. Assemble: substitute the rendered issues into the template
//  4. Write: store the page at the configured output path
//
// Issues are processed in configuration order, one at a time.
//
// # Usage
//
//	cfg, err := config.Load("glitchzine.toml")
//	if err != nil {
//	    return err
//	}
//	runner := pipeline.NewRunner(logger)
//	result, err := runner.Execute(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(result.Output, result.Stats.Affected)
package pipeline

import (
	"time"

	"github.com/matzehuels/glitchzine/pkg/transform"
)

// Result contains the outputs of a build.
type Result struct {
	// RunID identifies the build in log lines.
	RunID string

	// Output is the path the page was written to.
	Output string

	// Bytes is the size of the written page.
	Bytes int

	// Issues holds per-issue results in configuration order.
	Issues []IssueResult

	// Unfilled lists template placeholders no issue provided.
	Unfilled []string

	// Stats totals the transform statistics of all issues.
	Stats transform.Stats

	// Timings records how long each stage took.
	Timings Timings
}

// IssueResult describes one processed issue.
type IssueResult struct {
	Placeholder string
	Path        string
	Format      transform.Format
	Transformed bool // false when the issue was passed through raw
	Stats       transform.Stats
	Duration    time.Duration
}

// Timings contains stage durations of a build.
type Timings struct {
	Read      time.Duration
	Transform time.Duration
	Write     time.Duration
	Total     time.Duration
}
