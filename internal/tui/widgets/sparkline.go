// ABOUTME: Sparkline renders a daily sales trend with block characters
// ABOUTME: Values are resampled to the requested width, most recent last

package widgets

import (
	"github.com/charmbracelet/lipgloss"
)

// SparklineBlocks are ordered from lowest to highest.
var SparklineBlocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Sparkline scales values between their min and max.
func Sparkline(values []float64, width int, color lipgloss.Color) string {
	if len(values) == 0 || width <= 0 {
		return ""
	}
	sampled := resample(values, width)

	lo, hi := sampled[0], sampled[0]
	for _, v := range sampled {
		lo = min(lo, v)
		hi = max(hi, v)
	}

	out := make([]rune, len(sampled))
	for i, v := range sampled {
		out[i] = block(v, lo, hi)
	}

	style := lipgloss.NewStyle()
	if color != "" {
		style = style.Foreground(color)
	}
	return style.Render(string(out))
}

// resample left-pads short series with zeros and picks evenly spaced points
// from long ones.
func resample(values []float64, width int) []float64 {
	if len(values) == width {
		return values
	}
	out := make([]float64, width)
	if len(values) < width {
		copy(out[width-len(values):], values)
		return out
	}
	ratio := float64(len(values)) / float64(width)
	for i := range out {
		idx := min(int(float64(i)*ratio), len(values)-1)
		out[i] = values[idx]
	}
	return out
}

func block(v, lo, hi float64) rune {
	if hi == lo {
		return SparklineBlocks[len(SparklineBlocks)/2]
	}
	idx := int((v - lo) / (hi - lo) * float64(len(SparklineBlocks)-1))
	idx = max(0, min(idx, len(SparklineBlocks)-1))
	return SparklineBlocks[idx]
}
