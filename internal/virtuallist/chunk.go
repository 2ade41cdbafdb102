package virtuallist

import "sort"

// chunk stores a fixed run of consecutive item sizes together with a prefix
// sum array for fast offset lookups. The prefix is rebuilt lazily: mutations
// only flip prefixValid, and the next query pays a single left-to-right pass.
// Summation order is fixed so that two chunks that saw the same sequence of
// writes hold bit-identical prefix arrays.
type chunk struct {
	sizes       []float64
	prefix      []float64 // len(sizes)+1 entries, prefix[0] == 0
	prefixValid bool
}

// newChunk creates a chunk of length items, every size set to the given
// default. The prefix is computed eagerly so a fresh chunk is query-ready.
func newChunk(length int, defaultSize float64) *chunk {
	sizes := make([]float64, length)
	for i := range sizes {
		sizes[i] = defaultSize
	}
	c := &chunk{sizes: sizes, prefix: make([]float64, length+1)}
	c.rebuild()
	return c
}

func (c *chunk) length() int {
	return len(c.sizes)
}

func (c *chunk) rebuild() {
	if cap(c.prefix) < len(c.sizes)+1 {
		c.prefix = make([]float64, len(c.sizes)+1)
	} else {
		c.prefix = c.prefix[:len(c.sizes)+1]
	}
	c.prefix[0] = 0
	var cum float64
	for i, s := range c.sizes {
		cum += s
		c.prefix[i+1] = cum
	}
	c.prefixValid = true
}

func (c *chunk) ensurePrefix() {
	if !c.prefixValid {
		c.rebuild()
	}
}

// getSize returns the size of the item at the intra-chunk index.
func (c *chunk) getSize(intra int) (float64, error) {
	if intra < 0 || intra >= len(c.sizes) {
		return 0, outOfBounds("intra index %d outside chunk of length %d", intra, len(c.sizes))
	}
	return c.sizes[intra], nil
}

// setSize updates one item size and returns the delta against the old value.
// The prefix is invalidated, not repaired.
func (c *chunk) setSize(intra int, newSize float64) (float64, error) {
	if intra < 0 || intra >= len(c.sizes) {
		return 0, outOfBounds("intra index %d outside chunk of length %d", intra, len(c.sizes))
	}
	if err := checkSize(newSize); err != nil {
		return 0, err
	}
	delta := newSize - c.sizes[intra]
	c.sizes[intra] = newSize
	c.prefixValid = false
	return delta, nil
}

// intraUpdate is a pre-validated size revision addressed within one chunk.
type intraUpdate struct {
	intra int
	size  float64
}

// batchSet applies multiple pre-validated updates in input order (last write
// wins for duplicate indices), invalidating the prefix once. Returns the sum
// of the deltas.
func (c *chunk) batchSet(updates []intraUpdate) float64 {
	var delta float64
	for _, u := range updates {
		delta += u.size - c.sizes[u.intra]
		c.sizes[u.intra] = u.size
	}
	if len(updates) > 0 {
		c.prefixValid = false
	}
	return delta
}

// offsetAt returns the pixel offset of the item at the intra-chunk index.
// intra == length is allowed and yields the chunk total.
func (c *chunk) offsetAt(intra int) float64 {
	c.ensurePrefix()
	return c.prefix[intra]
}

// findIntra locates the item containing the given intra-chunk offset.
// It returns the largest index whose prefix is at or below the offset, with
// ties resolved toward the lower index so that an item boundary belongs to
// the item starting there. Offsets at or past the chunk total clamp to the
// last item.
func (c *chunk) findIntra(offset float64) (int, float64) {
	c.ensurePrefix()
	i := sort.SearchFloat64s(c.prefix, offset)
	var intra int
	if i < len(c.prefix) && c.prefix[i] == offset {
		intra = i
	} else {
		intra = i - 1
	}
	if intra >= len(c.sizes) {
		intra = len(c.sizes) - 1
	}
	if intra < 0 {
		intra = 0
	}
	return intra, offset - c.prefix[intra]
}

// total returns the chunk's pixel extent.
func (c *chunk) total() float64 {
	c.ensurePrefix()
	return c.prefix[len(c.sizes)]
}

// resize grows or shrinks the chunk to the given length, filling new slots
// with the default size. Used when the list's total item count changes.
func (c *chunk) resize(length int, fill float64) {
	if length <= len(c.sizes) {
		c.sizes = c.sizes[:length]
	} else {
		for len(c.sizes) < length {
			c.sizes = append(c.sizes, fill)
		}
	}
	c.prefixValid = false
}
