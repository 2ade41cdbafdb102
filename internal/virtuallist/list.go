package virtuallist

import (
	"fmt"
	"math"
)

// List is an in-memory index over a very large ordered sequence of
// variable-sized items. Per-item sizes start as an estimate and are revised
// as the host measures real items; the list answers viewport queries in
// sublinear time while keeping at most a bounded working set of measured
// chunks resident.
//
// All operations are synchronous and run to completion on the caller's
// goroutine; the host is expected to serialize calls.
type List struct {
	totalItems    int
	chunkCapacity int
	estimatedSize float64
	orientation   Orientation
	config        Config

	store *chunkStore
	index *globalIndex
}

// VisibleRange is the half-open index interval intersecting a viewport,
// plus the exact pixel offsets of its endpoints. StartOffset is the global
// offset of item Start; EndOffset is the global offset of item End, i.e.
// one past the last visible item.
type VisibleRange struct {
	Start       int
	End         int
	StartOffset float64
	EndOffset   float64
}

// SizeUpdate is one entry of a batch size revision.
type SizeUpdate struct {
	Index int
	Size  float64
}

func checkSize(size float64) error {
	if math.IsNaN(size) || math.IsInf(size, 0) || size < 0 {
		return invalidSize("size must be finite and non-negative, got %v", size)
	}
	return nil
}

// New constructs a list of totalItems items split into chunks of
// chunkCapacity, every item initially estimatedSize pixels along the
// orientation axis.
func New(totalItems, chunkCapacity int, estimatedSize float64, orientation Orientation, config Config) (*List, error) {
	if totalItems < 0 {
		return nil, invalidArgument("total items must be non-negative, got %d", totalItems)
	}
	if chunkCapacity < 1 {
		return nil, invalidArgument("chunk capacity must be at least 1, got %d", chunkCapacity)
	}
	if math.IsNaN(estimatedSize) || math.IsInf(estimatedSize, 0) || estimatedSize <= 0 {
		return nil, invalidArgument("estimated size must be finite and positive, got %v", estimatedSize)
	}
	if err := config.validate(); err != nil {
		return nil, err
	}

	l := &List{
		totalItems:    totalItems,
		chunkCapacity: chunkCapacity,
		estimatedSize: estimatedSize,
		orientation:   orientation,
		config:        config,
		store:         newChunkStore(totalItems, chunkCapacity, config.MaxResidentChunks, estimatedSize),
	}
	l.index = newGlobalIndex(l.virtualTotals(totalItems))
	return l, nil
}

// virtualTotals computes per-chunk estimated totals for a list of n items.
func (l *List) virtualTotals(n int) []float64 {
	numChunks := (n + l.chunkCapacity - 1) / l.chunkCapacity
	totals := make([]float64, numChunks)
	for c := range totals {
		length := l.chunkCapacity
		if c == numChunks-1 {
			length = n - c*l.chunkCapacity
		}
		totals[c] = float64(length) * l.estimatedSize
	}
	return totals
}

// TotalItems returns the current item count.
func (l *List) TotalItems() int {
	return l.totalItems
}

// NumChunks returns the current chunk count.
func (l *List) NumChunks() int {
	return l.index.numChunks()
}

// ChunkCapacity returns the fixed number of item slots per chunk.
func (l *List) ChunkCapacity() int {
	return l.chunkCapacity
}

// Orientation returns the axis tag chosen at construction.
func (l *List) Orientation() Orientation {
	return l.orientation
}

// ResidentChunks returns how many chunks of measured sizes are in memory.
func (l *List) ResidentChunks() int {
	return l.store.residentCount()
}

// TotalSize returns the summed extent of all items without touching any
// chunk, so it never perturbs recency.
func (l *List) TotalSize() float64 {
	return l.index.grandTotal()
}

// touch fetches the chunk, reconciling the totals of anything the resident
// cap pushed out.
func (l *List) touch(c int) *chunk {
	ch, evicted := l.store.touch(c)
	for _, e := range evicted {
		l.index.recomputeFor(e, float64(l.store.chunkLength(e))*l.estimatedSize)
	}
	return ch
}

// reconcile folds chunk c's current total back into the global index.
func (l *List) reconcile(c int) error {
	ch := l.store.peek(c)
	if ch == nil {
		return internalInvariant("reconcile of non-resident chunk %d", c)
	}
	l.index.recomputeFor(c, ch.total())
	if l.index.grandTotal() < 0 {
		return internalInvariant("grand total became negative after updating chunk %d", c)
	}
	return nil
}

// UpdateItemSize revises the measured size of a single item.
func (l *List) UpdateItemSize(index int, size float64) error {
	if index < 0 || index >= l.totalItems {
		return outOfBounds("item index %d outside list of %d items", index, l.totalItems)
	}
	if err := checkSize(size); err != nil {
		return err
	}
	c := index / l.chunkCapacity
	ch := l.touch(c)
	if _, err := ch.setSize(index%l.chunkCapacity, size); err != nil {
		return fmt.Errorf("chunk %d: %w", c, err)
	}
	return l.reconcile(c)
}

// BatchUpdateSizes applies many size revisions, touching each affected
// chunk once. Updates within a chunk apply in input order, so the last
// write wins for duplicate indices. The batch is all-or-nothing: if any
// entry fails validation, no chunk is modified.
func (l *List) BatchUpdateSizes(updates []SizeUpdate) error {
	for i, u := range updates {
		if u.Index < 0 || u.Index >= l.totalItems {
			return outOfBounds("update %d: item index %d outside list of %d items", i, u.Index, l.totalItems)
		}
		if err := checkSize(u.Size); err != nil {
			return fmt.Errorf("update %d: %w", i, err)
		}
	}

	groups := make(map[int][]intraUpdate)
	var order []int
	for _, u := range updates {
		c := u.Index / l.chunkCapacity
		if _, seen := groups[c]; !seen {
			order = append(order, c)
		}
		groups[c] = append(groups[c], intraUpdate{intra: u.Index % l.chunkCapacity, size: u.Size})
	}

	for _, c := range order {
		ch := l.touch(c)
		ch.batchSet(groups[c])
		if err := l.reconcile(c); err != nil {
			return err
		}
	}
	return nil
}

// OffsetOfItem returns the global pixel offset of an item's leading edge.
// index may equal TotalItems, in which case the grand total is returned.
func (l *List) OffsetOfItem(index int) (float64, error) {
	if index < 0 || index > l.totalItems {
		return 0, outOfBounds("item index %d outside list of %d items", index, l.totalItems)
	}
	if index == l.totalItems {
		return l.index.grandTotal(), nil
	}
	c := index / l.chunkCapacity
	ch := l.touch(c)
	return l.index.prefixBefore(c) + ch.offsetAt(index%l.chunkCapacity), nil
}

// ItemSize returns the current size of an item: the measured value when its
// chunk is resident, the estimate otherwise. Reading a size counts as an
// access, so it touches the chunk.
func (l *List) ItemSize(index int) (float64, error) {
	if index < 0 || index >= l.totalItems {
		return 0, outOfBounds("item index %d outside list of %d items", index, l.totalItems)
	}
	c := index / l.chunkCapacity
	ch := l.touch(c)
	size, err := ch.getSize(index % l.chunkCapacity)
	if err != nil {
		return 0, fmt.Errorf("chunk %d: %w", c, err)
	}
	return size, nil
}

// floorItem returns the item containing the global offset; a boundary
// offset belongs to the item starting there. Offsets at or past the grand
// total map to TotalItems.
func (l *List) floorItem(offset float64) int {
	if offset >= l.index.grandTotal() {
		return l.totalItems
	}
	c, residual := l.index.findChunk(offset)
	intra, _ := l.touch(c).findIntra(residual)
	item := c*l.chunkCapacity + intra
	if item > l.totalItems-1 {
		item = l.totalItems - 1
	}
	return item
}

// ceilItem returns the exclusive end index for the global offset: the
// smallest index whose leading edge is at or past the offset.
func (l *List) ceilItem(offset float64) int {
	if offset >= l.index.grandTotal() {
		return l.totalItems
	}
	c, residual := l.index.findChunk(offset)
	intra, rem := l.touch(c).findIntra(residual)
	item := c*l.chunkCapacity + intra
	if rem > 0 {
		item++
	}
	if item > l.totalItems {
		item = l.totalItems
	}
	return item
}

// GetVisibleRange resolves the half-open item range intersecting the
// viewport at the given scroll position, widened by the configured buffer
// and overscan, together with the exact pixel offsets of its endpoints.
func (l *List) GetVisibleRange(scroll, viewport float64) (VisibleRange, error) {
	if math.IsNaN(scroll) || math.IsInf(scroll, 0) || scroll < 0 {
		return VisibleRange{}, invalidArgument("scroll position must be finite and non-negative, got %v", scroll)
	}
	if math.IsNaN(viewport) || math.IsInf(viewport, 0) || viewport < 0 {
		return VisibleRange{}, invalidArgument("viewport extent must be finite and non-negative, got %v", viewport)
	}
	if l.totalItems == 0 {
		return VisibleRange{}, nil
	}

	maxScroll := l.index.grandTotal() - viewport
	if maxScroll < 0 {
		maxScroll = 0
	}
	if scroll > maxScroll {
		scroll = maxScroll
	}
	top := scroll
	bottom := scroll + viewport

	first := l.floorItem(top)
	end := l.ceilItem(bottom)
	if end < first {
		end = first
	}

	widen := l.config.BufferItems + l.config.OverscanItems
	start := first - widen
	if start < 0 {
		start = 0
	}
	end += widen
	if end > l.totalItems {
		end = l.totalItems
	}

	startOffset, err := l.OffsetOfItem(start)
	if err != nil {
		return VisibleRange{}, err
	}
	endOffset, err := l.OffsetOfItem(end)
	if err != nil {
		return VisibleRange{}, err
	}
	return VisibleRange{Start: start, End: end, StartOffset: startOffset, EndOffset: endOffset}, nil
}

// SetTotalItems grows or shrinks the list to n items. Growth appends
// virtual chunks (extending a short resident last chunk with estimates);
// shrinking truncates, dropping resident chunks past the new end and
// re-totaling a surviving resident last chunk over its remaining prefix.
func (l *List) SetTotalItems(n int) error {
	if n < 0 {
		return invalidArgument("total items must be non-negative, got %d", n)
	}
	if n == l.totalItems {
		return nil
	}

	numChunks := (n + l.chunkCapacity - 1) / l.chunkCapacity
	l.totalItems = n
	l.store.totalItems = n
	l.store.removeAbove(numChunks)

	totals := make([]float64, numChunks)
	for c := range totals {
		length := l.store.chunkLength(c)
		if ch := l.store.peek(c); ch != nil {
			if ch.length() != length {
				ch.resize(length, l.estimatedSize)
			}
			totals[c] = ch.total()
		} else {
			totals[c] = float64(length) * l.estimatedSize
		}
	}
	l.index = newGlobalIndex(totals)
	return nil
}

// UnloadChunk drops a resident chunk, reverting its total to the estimate.
// Silent no-op when the chunk is not resident or the index is out of range.
func (l *List) UnloadChunk(c int) {
	if c < 0 || c >= l.index.numChunks() {
		return
	}
	if l.store.unload(c) {
		l.index.recomputeFor(c, float64(l.store.chunkLength(c))*l.estimatedSize)
	}
}
