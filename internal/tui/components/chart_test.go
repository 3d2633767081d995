package components

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestSparklineScalesToPeak(t *testing.T) {
	got := Sparkline([]float64{0, 5, 10}, lipgloss.Color("2"))
	if !strings.Contains(got, "▁") || !strings.Contains(got, "█") {
		t.Errorf("Sparkline = %q, want lowest and highest blocks", got)
	}
	if Sparkline(nil, lipgloss.Color("2")) != "" {
		t.Error("empty input should render nothing")
	}
}

func TestBarChartAxisAndLabels(t *testing.T) {
	chart := BarChart([]float64{30, 32, 28}, []string{"Jan", "Feb", "Mar"}, lipgloss.Color("4"), 40, 6)
	if !strings.Contains(chart, "└") {
		t.Error("missing x axis")
	}
	if !strings.Contains(chart, "Jan") || !strings.Contains(chart, "Mar") {
		t.Errorf("missing labels:\n%s", chart)
	}
}

func TestStackedBarWidth(t *testing.T) {
	bar := StackedBar(60, 40, 100, 20)
	if w := lipgloss.Width(bar); w != 20 {
		t.Errorf("width = %d, want 20", w)
	}
	if StackedBar(1, 1, 0, 20) != "" {
		t.Error("zero peak should render nothing")
	}
}

func TestChartTickStep(t *testing.T) {
	tests := []struct {
		max  float64
		want float64
	}{
		{100, 20},
		{40, 5},
		{7, 1},
		{0, 1},
	}
	for _, tt := range tests {
		if got := chartTickStep(tt.max); got != tt.want {
			t.Errorf("chartTickStep(%v) = %v, want %v", tt.max, got, tt.want)
		}
	}
}
