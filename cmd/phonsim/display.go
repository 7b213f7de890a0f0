package main

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/phonsim/internal/config"
	"github.com/san-kum/phonsim/internal/phonon"
)

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(18)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	panelStyle  = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 2)
)

// driftWarn flags a sum-rule correction large enough to suggest a
// displacement or cutoff problem.
const driftWarn = 1e-3

func row(label, value string) string {
	return labelStyle.Render(label) + valueStyle.Render(value)
}

func renderSummary(runID string, cfg *config.Config, m *phonon.Matrix, values map[string]float64, gamma []float64, elapsed time.Duration) string {
	var lines []string
	lines = append(lines, headerStyle.Render("phonsim: "+cfg.Name))
	lines = append(lines,
		row("run", runID),
		row("supercell", fmt.Sprintf("%dx%dx%d", m.Sup[0], m.Sup[1], m.Sup[2])),
		row("modes", fmt.Sprintf("%d", m.NModes())),
		row("cells", fmt.Sprintf("%d", len(m.Cells))),
		row("elapsed", elapsed.Round(time.Millisecond).String()),
	)

	drift := fmt.Sprintf("%.3e", m.Drift)
	if m.Drift > driftWarn {
		drift = warnStyle.Render(drift + " (large)")
	}
	lines = append(lines, row("sum-rule drift", drift))

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		lines = append(lines, row(k, fmt.Sprintf("%.4e", values[k])))
	}

	freqs := make([]string, len(gamma))
	for i, w := range gamma {
		freqs[i] = fmt.Sprintf("%.2f", w*hartreeToInvCm)
	}
	lines = append(lines, row("ω(Γ) [cm⁻¹]", strings.Join(freqs, " ")))

	return panelStyle.Render(strings.Join(lines, "\n"))
}
