package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/budgetdash/internal/tui/theme"
)

// Series is one named set of values plotted by ColumnChart.
type Series struct {
	Name   string
	Color  lipgloss.Color
	Values []float64
}

var sparkBlocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Sparkline renders values as a one-line unicode sparkline scaled between
// the smallest and largest value, so negative amounts still plot.
func Sparkline(values []float64, color lipgloss.Color) string {
	if len(values) == 0 {
		return ""
	}
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	span := hi - lo

	var buf strings.Builder
	buf.Grow(len(values) * 3)
	for _, v := range values {
		idx := len(sparkBlocks) / 2
		if span > 0 {
			idx = int((v - lo) / span * float64(len(sparkBlocks)-1))
		}
		buf.WriteRune(sparkBlocks[idx])
	}
	return lipgloss.NewStyle().Foreground(color).Background(theme.Active.Surface).Render(buf.String())
}

// ColumnChart renders grouped vertical bars, one group per label and one
// bar per series inside each group. Negative values plot as zero.
func ColumnChart(series []Series, labels []string, width, height int) string {
	if len(series) == 0 || len(labels) == 0 {
		return ""
	}
	t := theme.Active
	n := len(labels)

	maxVal := 0.0
	for _, s := range series {
		for _, v := range s.Values {
			maxVal = math.Max(maxVal, v)
		}
	}
	if maxVal == 0 {
		maxVal = 1
	}

	if height < 3 {
		height = 3
	}
	tickStep := chartTickStep(maxVal)
	for math.Ceil(maxVal/tickStep) > float64(max(2, height/2)) {
		tickStep *= 2
	}
	ceiling := math.Ceil(maxVal/tickStep) * tickStep
	intervals := max(1, int(math.Round(ceiling/tickStep)))
	rowsPerTick := max(1, height/intervals)
	chartH := rowsPerTick * intervals

	yLabelW := max(4, len(formatChartLabel(ceiling))+1)
	tickLabels := make(map[int]string, intervals)
	for i := 1; i <= intervals; i++ {
		tickLabels[i*rowsPerTick] = formatChartLabel(tickStep * float64(i))
	}

	// Each group is len(series) bars wide plus one gap column.
	chartW := max(5, width-yLabelW-1)
	groupW := chartW / n
	barW := max(1, (groupW-1)/len(series))
	if barW > 4 {
		barW = 4
	}
	groupW = barW*len(series) + 1
	if groupW*n > chartW {
		n = max(1, chartW/groupW)
		labels = labels[len(labels)-n:]
	}
	offset := len(series[0].Values) - n

	axisStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	blank := lipgloss.NewStyle().Background(t.Surface)
	partial := []rune{' ', '▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	var b strings.Builder
	for _, s := range series {
		b.WriteString(lipgloss.NewStyle().Foreground(s.Color).Background(t.Surface).Render("■ " + s.Name))
		b.WriteString(blank.Render("  "))
	}
	b.WriteString("\n")

	for row := chartH; row >= 1; row-- {
		top := ceiling * float64(row) / float64(chartH)
		bottom := ceiling * float64(row-1) / float64(chartH)

		b.WriteString(axisStyle.Render(fmt.Sprintf("%*s│", yLabelW, tickLabels[row])))
		for i := 0; i < n; i++ {
			for _, s := range series {
				v := 0.0
				if idx := offset + i; idx >= 0 && idx < len(s.Values) {
					v = s.Values[idx]
				}
				style := lipgloss.NewStyle().Foreground(s.Color).Background(t.Surface)
				switch {
				case v >= top:
					b.WriteString(style.Render(strings.Repeat("█", barW)))
				case v > bottom:
					frac := (v - bottom) / (top - bottom)
					idx := min(8, max(1, int(frac*8)))
					b.WriteString(style.Render(strings.Repeat(string(partial[idx]), barW)))
				default:
					b.WriteString(blank.Render(strings.Repeat(" ", barW)))
				}
			}
			b.WriteString(blank.Render(" "))
		}
		b.WriteString("\n")
	}

	axisLen := n * groupW
	b.WriteString(axisStyle.Render(fmt.Sprintf("%*s└%s", yLabelW, "0", strings.Repeat("─", axisLen))))
	b.WriteString("\n")

	row := []rune(strings.Repeat(" ", axisLen))
	lastEnd := -1
	for i, lbl := range labels {
		pos := i * groupW
		r := []rune(lbl)
		if pos <= lastEnd || pos+len(r) > axisLen {
			continue
		}
		copy(row[pos:], r)
		lastEnd = pos + len(r)
	}
	b.WriteString(blank.Render(strings.Repeat(" ", yLabelW+1)))
	b.WriteString(axisStyle.Render(strings.TrimRight(string(row), " ")))
	return b.String()
}

// chartTickStep computes a round tick interval targeting about 5 ticks.
func chartTickStep(maxVal float64) float64 {
	if maxVal <= 0 {
		return 1
	}
	rough := maxVal / 5
	base := math.Pow(10, math.Floor(math.Log10(rough)))
	switch frac := rough / base; {
	case frac < 1.5:
		return base
	case frac < 3.5:
		return 2 * base
	default:
		return 5 * base
	}
}

func formatChartLabel(v float64) string {
	switch {
	case v >= 1e6:
		return trimZero(fmt.Sprintf("%.1f", v/1e6)) + "M"
	case v >= 1e3:
		return trimZero(fmt.Sprintf("%.1f", v/1e3)) + "k"
	default:
		return fmt.Sprintf("%.0f", v)
	}
}

func trimZero(s string) string {
	return strings.TrimSuffix(s, ".0")
}
