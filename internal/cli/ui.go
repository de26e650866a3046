package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/glitchzine/pkg/effect"
	"github.com/matzehuels/glitchzine/pkg/pipeline"
	"github.com/matzehuels/glitchzine/pkg/transform"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Styles
// =============================================================================

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleNumber for numeric values.
	StyleNumber = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)

	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleHeader = lipgloss.NewStyle().Bold(true).Foreground(colorCyan).Padding(0, 1)
	styleCell   = lipgloss.NewStyle().Foreground(colorGray).Padding(0, 1)
	styleTotal  = lipgloss.NewStyle().Bold(true).Foreground(colorWhite).Padding(0, 1)
)

// =============================================================================
// Icons
// =============================================================================

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconArrow   = "→"
)

// =============================================================================
// Status Output
// =============================================================================

func printSuccess(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconSuccess.Render(iconSuccess)+" "+fmt.Sprintf(format, args...))
}

func printError(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconError.Render(iconError)+" "+fmt.Sprintf(format, args...))
}

func printWarning(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconWarning.Render(iconWarning)+" "+StyleWarning.Render(fmt.Sprintf(format, args...)))
}

// printFile prints a file output line.
func printFile(w io.Writer, path string) {
	fmt.Fprintln(w, "  "+StyleDim.Render(iconArrow)+" "+StyleValue.Render(path))
}

// printKeyValue prints a labeled value.
func printKeyValue(w io.Writer, key, value string) {
	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(12)
	fmt.Fprintln(w, keyStyle.Render(key)+" "+StyleValue.Render(value))
}

// =============================================================================
// Tables
// =============================================================================

// headerRow is the row index lipgloss tables pass to StyleFunc for headers.
const headerRow = -1

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...)
}

func percent(v float64) string {
	return strconv.FormatFloat(v, 'f', 0, 64) + "%"
}

// issuesTable renders one row per issue plus a total row.
func issuesTable(result *pipeline.Result) string {
	rows := make([][]string, 0, len(result.Issues)+1)
	for _, ir := range result.Issues {
		affected := "raw"
		if ir.Transformed {
			affected = fmt.Sprintf("%d (%s)", ir.Stats.Affected, percent(ir.Stats.AffectedPercent()))
		}
		rows = append(rows, []string{
			ir.Placeholder,
			ir.Path,
			string(ir.Format),
			strconv.Itoa(ir.Stats.Words),
			affected,
		})
	}
	total := result.Stats
	rows = append(rows, []string{
		"total", "", "",
		strconv.Itoa(total.Words),
		fmt.Sprintf("%d (%s)", total.Affected, percent(total.AffectedPercent())),
	})
	last := len(rows) - 1

	return newTable("Placeholder", "Source", "Format", "Words", "Affected").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == headerRow:
				return styleHeader
			case row == last:
				return styleTotal
			default:
				return styleCell
			}
		}).
		String()
}

// distributionTable renders the per-effect share of affected words.
func distributionTable(stats transform.Stats) string {
	dist := stats.Distribution()
	rows := make([][]string, len(dist))
	for i, d := range dist {
		rows[i] = []string{d.Name, strconv.Itoa(d.Count), percent(d.Percent)}
	}
	return newTable("Effect", "Words", "Share").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == headerRow {
				return styleHeader
			}
			return styleCell
		}).
		String()
}

// effectsTable renders a registry in selection order.
func effectsTable(reg *effect.Registry) string {
	effects := reg.Effects()
	rows := make([][]string, len(effects))
	for i, e := range effects {
		rows[i] = []string{
			strconv.Itoa(i + 1),
			e.Name,
			strconv.FormatFloat(e.Probability, 'f', -1, 64),
			strconv.FormatFloat(e.Step, 'f', -1, 64),
		}
	}
	return newTable("#", "Effect", "Probability", "Step").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == headerRow {
				return styleHeader
			}
			if col == 1 {
				return styleCell.Foreground(colorWhite)
			}
			return styleCell
		}).
		String()
}
