package formatter

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// RenderBox wraps content in a rounded-border box with an optional title.
func RenderBox(title string, content string) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		PaddingLeft(2).
		PaddingRight(2).
		PaddingTop(1).
		PaddingBottom(1)

	if title != "" {
		inner := StyleHeader.Render(strings.ToUpper(title)) + "\n\n" + content
		return boxStyle.Render(inner)
	}
	return boxStyle.Render(content)
}

// FormatValue renders a metric value without trailing zero noise.
func FormatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FormatOptional renders a nullable metric value, dimming absence.
func FormatOptional(v *float64) string {
	if v == nil {
		return Dim("—")
	}
	return FormatValue(*v)
}

// FormatDate renders a timestamp as a short date, dimming absence.
func FormatDate(t *time.Time) string {
	if t == nil {
		return Dim("—")
	}
	return t.Local().Format("2006-01-02")
}

// FormatDateTime renders a timestamp with time of day.
func FormatDateTime(t time.Time) string {
	return t.Local().Format("2006-01-02 15:04")
}

// Percent renders a ratio as "NN.N%".
func Percent(v float64) string {
	return fmt.Sprintf("%.1f%%", v)
}

// Truncate shortens s to max visible characters with an ellipsis.
func Truncate(s string, max int) string {
	if max <= 1 || len(s) <= max {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}
