package export

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBandsSVG(t *testing.T) {
	branches := [][]float64{
		{0, 1, 2, 1, 0},
		{3, 3.5, 4, 3.5, 3},
	}
	var sb strings.Builder
	require.NoError(t, BandsSVG(&sb, branches, []int{0, 2, 4}, 200, 100))

	out := sb.String()
	assert.True(t, strings.HasPrefix(out, "<?xml"))
	assert.Equal(t, 2, strings.Count(out, "<path"))
	// three guides plus the zero line
	assert.Equal(t, 4, strings.Count(out, "<line"))
	// first branch starts at the zero line on the left edge
	assert.Contains(t, out, `d="M0.0,100.0`)
	assert.True(t, strings.HasSuffix(out, "</svg>\n"))
}

func TestBandsSVGRejectsRaggedBranches(t *testing.T) {
	var sb strings.Builder
	assert.ErrorIs(t, BandsSVG(&sb, nil, nil, 10, 10), ErrNoBranches)
	assert.Error(t, BandsSVG(&sb, [][]float64{{0, 1}, {0}}, nil, 10, 10))
	assert.Empty(t, sb.String())
}
