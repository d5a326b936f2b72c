package monitor

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Braille patterns give each cell a 2x4 dot matrix:
//
//	  Col 0  Col 1
//	Row 0:   ⠁      ⠈     (dots 1, 4)
//	Row 1:   ⠂      ⠐     (dots 2, 5)
//	Row 2:   ⠄      ⠠     (dots 3, 6)
//	Row 3:   ⡀      ⢀     (dots 7, 8)
//
// U+2800 is the empty cell; dots are bits 0-7 in the order 1..8.
const brailleBase = '⠀'

// brailleDots maps [row][col] inside a cell to its bit offset.
var brailleDots = [4][2]uint8{
	{0, 3},
	{1, 4},
	{2, 5},
	{6, 7},
}

// sparkBlocks are the 8 vertical levels of a single-row sparkline.
var sparkBlocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Scale is the value range a graph maps onto its vertical axis.
type Scale struct {
	Min, Max float64
}

// PercentScale is the fixed 0-100 range used for utilization metrics.
var PercentScale = Scale{Min: 0, Max: 100}

// AutoScale returns a 0-based scale reaching the largest value in data.
// Rates use it so an idle link draws flat instead of stretching noise.
func AutoScale(data []float64) Scale {
	s := Scale{}
	for _, v := range data {
		if v > s.Max {
			s.Max = v
		}
	}
	return s
}

// normalize maps v into [0, 1]. A degenerate scale maps everything to 0.
func (s Scale) normalize(v float64) float64 {
	if s.Max <= s.Min || v != v {
		return 0
	}
	n := (v - s.Min) / (s.Max - s.Min)
	if n < 0 {
		return 0
	}
	if n > 1 {
		return 1
	}
	return n
}

func clampInt(val, maxVal int) int {
	if val < 0 {
		return 0
	}
	if val > maxVal {
		return maxVal
	}
	return val
}

// ColorFunc picks the color for a plotted value.
type ColorFunc func(value float64) lipgloss.Color

// KindColor colors values by their alert level for kind.
func KindColor(kind MetricKind) ColorFunc {
	return func(v float64) lipgloss.Color {
		return AlertColor(Classify(kind, v))
	}
}

// SolidColor colors every value the same.
func SolidColor(c lipgloss.Color) ColorFunc {
	return func(float64) lipgloss.Color { return c }
}

// RenderBrailleSparkline draws data as a braille graph width cells wide and
// height rows tall. Each cell holds two samples; when there are fewer
// samples than the graph holds, the graph fills from the right so the
// newest sample is always at the right edge. Each cell is colored by the
// largest value plotted in it.
func RenderBrailleSparkline(data []float64, width, height int, scale Scale, color ColorFunc) string {
	if len(data) == 0 || width <= 0 || height <= 0 {
		return ""
	}

	totalDots := height * 4
	points := width * 2

	plotted := data
	if len(data) > points {
		plotted = resampleData(data, points)
	}

	grid := make([][]rune, height)
	for i := range grid {
		grid[i] = make([]rune, width)
		for j := range grid[i] {
			grid[i][j] = brailleBase
		}
	}

	colMax := make([]float64, width)
	offset := points - len(plotted)

	for i, v := range plotted {
		col := (i + offset) / 2
		sub := (i + offset) % 2
		if v > colMax[col] {
			colMax[col] = v
		}

		dots := clampInt(int(scale.normalize(v)*float64(totalDots)), totalDots)
		for dot := 0; dot < dots; dot++ {
			row := height - 1 - dot/4
			subRow := 3 - dot%4
			grid[row][col] |= rune(1) << brailleDots[subRow][sub]
		}
	}

	lines := make([]string, height)
	for r, row := range grid {
		var b strings.Builder
		for c, ch := range row {
			b.WriteString(lipgloss.NewStyle().Foreground(color(colMax[c])).Render(string(ch)))
		}
		lines[r] = b.String()
	}
	return strings.Join(lines, "\n")
}

// RenderMiniSparkline draws data as a single row of block characters,
// resampled to width.
func RenderMiniSparkline(data []float64, width int, scale Scale) string {
	if len(data) == 0 || width <= 0 {
		return ""
	}

	var b strings.Builder
	for _, v := range resampleData(data, width) {
		idx := clampInt(int(scale.normalize(v)*float64(len(sparkBlocks)-1)), len(sparkBlocks)-1)
		b.WriteRune(sparkBlocks[idx])
	}
	return b.String()
}

// resampleData fits data to targetSize points. Downsampling keeps the
// maximum of each bucket so spikes survive; upsampling interpolates.
func resampleData(data []float64, targetSize int) []float64 {
	if len(data) == 0 || targetSize <= 0 {
		return nil
	}
	if len(data) == targetSize {
		return data
	}

	result := make([]float64, targetSize)

	if len(data) == 1 {
		for i := range result {
			result[i] = data[0]
		}
		return result
	}

	if len(data) > targetSize {
		bucket := float64(len(data)) / float64(targetSize)
		for i := 0; i < targetSize; i++ {
			start := int(float64(i) * bucket)
			end := int(float64(i+1) * bucket)
			if end > len(data) {
				end = len(data)
			}
			if start >= end {
				start = end - 1
			}

			peak := data[start]
			for _, v := range data[start+1 : end] {
				if v > peak {
					peak = v
				}
			}
			result[i] = peak
		}
		return result
	}

	step := float64(len(data)-1) / float64(targetSize-1)
	for i := 0; i < targetSize; i++ {
		pos := float64(i) * step
		idx := int(pos)
		if idx >= len(data)-1 {
			result[i] = data[len(data)-1]
			continue
		}
		frac := pos - float64(idx)
		result[i] = data[idx]*(1-frac) + data[idx+1]*frac
	}
	return result
}
