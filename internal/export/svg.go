package export

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strings"
)

var ErrNoBranches = errors.New("export: no branches to draw")

var palette = []string{"#00ff9f", "#ff5f87", "#5fafff", "#ffd75f", "#af87ff", "#87d7d7"}

type bounds struct {
	minY, maxY float64
	n          int
}

func branchBounds(branches [][]float64) (bounds, error) {
	if len(branches) == 0 || len(branches[0]) < 2 {
		return bounds{}, ErrNoBranches
	}
	b := bounds{minY: math.Inf(1), maxY: math.Inf(-1), n: len(branches[0])}
	for _, br := range branches {
		if len(br) != b.n {
			return bounds{}, fmt.Errorf("export: branch has %d points, want %d", len(br), b.n)
		}
		for _, y := range br {
			b.minY = math.Min(b.minY, y)
			b.maxY = math.Max(b.maxY, y)
		}
	}
	// Zero is always on the axis so acoustic branches touch the bottom.
	b.minY = math.Min(b.minY, 0)
	span := b.maxY - b.minY
	if span == 0 {
		span = 1
	}
	b.maxY += span * 0.05
	return b, nil
}

// BandsSVG draws phonon branches sampled on a common path. Vertical
// guides are placed at the given path indices (segment ends).
func BandsSVG(w io.Writer, branches [][]float64, ticks []int, width, height int) error {
	b, err := branchBounds(branches)
	if err != nil {
		return err
	}
	sx := float64(width) / float64(b.n-1)
	sy := float64(height) / (b.maxY - b.minY)
	px := func(i int) float64 { return float64(i) * sx }
	py := func(y float64) float64 { return float64(height) - (y-b.minY)*sy }

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height)

	for _, t := range ticks {
		if t < 0 || t >= b.n {
			continue
		}
		fmt.Fprintf(&sb, `<line x1="%.1f" y1="0" x2="%.1f" y2="%d" stroke="#303030"/>
`, px(t), px(t), height)
	}
	fmt.Fprintf(&sb, `<line x1="0" y1="%.1f" x2="%d" y2="%.1f" stroke="#505050" stroke-dasharray="4"/>
`, py(0), width, py(0))

	for k, br := range branches {
		fmt.Fprintf(&sb, `<path fill="none" stroke="%s" stroke-width="1.5" d="M`, palette[k%len(palette)])
		for i, y := range br {
			if i > 0 {
				sb.WriteString(" L")
			}
			fmt.Fprintf(&sb, "%.1f,%.1f", px(i), py(y))
		}
		sb.WriteString("\"/>\n")
	}
	sb.WriteString("</svg>\n")

	_, err = io.WriteString(w, sb.String())
	return err
}
