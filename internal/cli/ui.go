package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/pamladder/pkg/ladder"
	"github.com/matzehuels/pamladder/pkg/updater"
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
// Public Styles
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

	// StyleSuccess for success messages.
	StyleSuccess = lipgloss.NewStyle().Foreground(colorGreen)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

// =============================================================================
// Internal Styles
// =============================================================================

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)

	styleKey    = lipgloss.NewStyle().Foreground(colorGray).Width(12)
	styleHeader = lipgloss.NewStyle().Bold(true).Foreground(colorGray)
	styleError  = lipgloss.NewStyle().Foreground(colorRed)
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

func printWarning(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconWarning.Render(iconWarning)+" "+StyleWarning.Render(fmt.Sprintf(format, args...)))
}

// printFile prints a file output line.
func printFile(w io.Writer, path string) {
	fmt.Fprintln(w, "  "+StyleDim.Render(iconArrow)+" "+StyleValue.Render(path))
}

// printKeyValue prints a labeled value.
func printKeyValue(w io.Writer, key, value string) {
	fmt.Fprintln(w, styleKey.Render(key)+" "+StyleValue.Render(value))
}

// =============================================================================
// Ladder Summary
// =============================================================================

// printStats prints pass statistics on a single line.
func printStats(w io.Writer, res *updater.Result) {
	parts := []string{
		fmt.Sprintf("%d ladders", len(res.Ladders)),
		fmt.Sprintf("%d chunks", res.Chunks),
		fmt.Sprintf("%d merges", res.Merges),
	}
	if res.Invalidated > 0 {
		parts = append(parts, fmt.Sprintf("%d invalidated", res.Invalidated))
	}
	line := "  "
	for i, part := range parts {
		if i > 0 {
			line += StyleDim.Render(" · ")
		}
		line += StyleDim.Render(part)
	}
	fmt.Fprintln(w, line)
}

// printLadders prints one row per ladder: handle, kind, length, strands and
// flags, followed by the error reasons of flagged ladders.
func printLadders(w io.Writer, ladders []*ladder.Ladder) {
	cols := []int{6, 20, 8, 8}
	row := func(cells ...string) string {
		var b strings.Builder
		for i, c := range cells {
			if i < len(cols) {
				c = lipgloss.NewStyle().Width(cols[i]).Render(c)
			}
			b.WriteString(c)
		}
		return b.String()
	}

	fmt.Fprintln(w, styleHeader.Render(row("ID", "KIND", "LENGTH", "STRANDS", "FLAGS")))
	for _, l := range ladders {
		var flags []string
		if l.IsRing() {
			flags = append(flags, "ring")
		}
		if l.Error() {
			flags = append(flags, styleError.Render("error"))
		}
		fmt.Fprintln(w, row(
			StyleNumber.Render(strconv.Itoa(int(l.Handle()))),
			l.Kind().String(),
			strconv.Itoa(l.BaseLength()),
			strconv.Itoa(l.NumStrands()),
			strings.Join(flags, ","),
		))
		for _, reason := range l.ErrorReasons() {
			fmt.Fprintln(w, "  "+styleIconError.Render(iconError)+" "+StyleDim.Render(reason))
		}
	}
}

// printChunks prints one row per chunk: ID, owning ladder, slot and size.
func printChunks(w io.Writer, chunks []*updater.Chunk) {
	for _, c := range chunks {
		fmt.Fprintf(w, "%s  %s  %-8s %s\n",
			StyleValue.Render(c.ID.String()),
			StyleNumber.Render(fmt.Sprintf("ladder %d", c.Ladder)),
			c.Slot,
			StyleDim.Render(fmt.Sprintf("%d atoms", c.Len())))
	}
}

// countErrors returns the number of flagged ladders.
func countErrors(ladders []*ladder.Ladder) int {
	n := 0
	for _, l := range ladders {
		if l.Error() {
			n++
		}
	}
	return n
}
