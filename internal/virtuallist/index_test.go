package virtuallist

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGlobalIndexTotals(t *testing.T) {
	g := newGlobalIndex([]float64{40, 40, 20})

	assert.Equal(t, 3, g.numChunks())
	assert.Equal(t, 100.0, g.grandTotal())
	assert.Equal(t, 0.0, g.prefixBefore(0))
	assert.Equal(t, 40.0, g.prefixBefore(1))
	assert.Equal(t, 80.0, g.prefixBefore(2))
}

func TestGlobalIndexRecomputeFor(t *testing.T) {
	g := newGlobalIndex([]float64{40, 40, 20})

	g.recomputeFor(1, 70)
	assert.Equal(t, 70.0, g.chunkTotal(1))
	assert.Equal(t, 130.0, g.grandTotal())
	assert.Equal(t, 110.0, g.prefixBefore(2))

	g.recomputeFor(0, 0)
	assert.Equal(t, 90.0, g.grandTotal())
	assert.Equal(t, 0.0, g.prefixBefore(1))
}

func TestGlobalIndexFindChunk(t *testing.T) {
	g := newGlobalIndex([]float64{40, 40, 40, 40})

	tests := []struct {
		offset   float64
		chunk    int
		residual float64
	}{
		{0, 0, 0},
		{39, 0, 39},
		{40, 1, 0}, // boundary belongs to the next chunk
		{119, 2, 39},
		{120, 3, 0},
		{159, 3, 39},
		{160, 3, 40}, // at or past the end clamps to the last chunk's end
		{500, 3, 40},
	}
	for _, tt := range tests {
		c, residual := g.findChunk(tt.offset)
		assert.Equal(t, tt.chunk, c, "offset %v", tt.offset)
		assert.Equal(t, tt.residual, residual, "offset %v", tt.offset)
	}
}

func TestGlobalIndexFindChunkRoundTrip(t *testing.T) {
	g := newGlobalIndex([]float64{25, 75, 10, 40, 50, 5, 95, 60})

	for c := 0; c < g.numChunks(); c++ {
		found, residual := g.findChunk(g.prefixBefore(c))
		assert.Equal(t, c, found)
		assert.Equal(t, 0.0, residual)
	}
}

func TestGlobalIndexSingleChunk(t *testing.T) {
	g := newGlobalIndex([]float64{30})

	c, residual := g.findChunk(10)
	assert.Equal(t, 0, c)
	assert.Equal(t, 10.0, residual)

	c, residual = g.findChunk(30)
	assert.Equal(t, 0, c)
	assert.Equal(t, 30.0, residual)
}

func TestGlobalIndexManyChunks(t *testing.T) {
	totals := make([]float64, 10000)
	for i := range totals {
		totals[i] = 2000
	}
	g := newGlobalIndex(totals)

	assert.Equal(t, 20000000.0, g.grandTotal())

	c, residual := g.findChunk(2000 * 7321)
	assert.Equal(t, 7321, c)
	assert.Equal(t, 0.0, residual)

	g.recomputeFor(7321, 2005)
	assert.Equal(t, 20000005.0, g.grandTotal())
	c, residual = g.findChunk(2000*7321 + 2004)
	assert.Equal(t, 7321, c)
	assert.Equal(t, 2004.0, residual)
}
