package virtuallist

import "container/list"

// residentChunk pairs a chunk with its index for the recency list.
type residentChunk struct {
	index int
	chunk *chunk
}

// chunkStore is the sparse mapping from chunk index to resident chunk. A
// recency list (front = most recent) backs LRU eviction against the resident
// cap. Chunks not in the store behave as if every item had the estimated
// size; they materialize on first touch.
type chunkStore struct {
	resident      map[int]*list.Element
	recency       *list.List // of *residentChunk
	estimatedSize float64
	chunkCapacity int
	maxResident   int
	totalItems    int
}

func newChunkStore(totalItems, chunkCapacity, maxResident int, estimatedSize float64) *chunkStore {
	return &chunkStore{
		resident:      make(map[int]*list.Element),
		recency:       list.New(),
		estimatedSize: estimatedSize,
		chunkCapacity: chunkCapacity,
		maxResident:   maxResident,
		totalItems:    totalItems,
	}
}

// chunkLength returns the item count of the chunk at the given index; the
// last chunk may be short.
func (s *chunkStore) chunkLength(index int) int {
	remain := s.totalItems - index*s.chunkCapacity
	if remain > s.chunkCapacity {
		return s.chunkCapacity
	}
	return remain
}

// materialize creates a fresh chunk of the correct length for its position,
// every size equal to the estimated default.
func (s *chunkStore) materialize(index int) *chunk {
	return newChunk(s.chunkLength(index), s.estimatedSize)
}

// touch returns the resident chunk for the index, materializing it if
// absent, and moves it to the front of the recency list. When
// materialization pushes the store over the resident cap, chunks are evicted
// from the recency tail; their indices are returned so the caller can
// reconcile their totals back to estimates.
func (s *chunkStore) touch(index int) (*chunk, []int) {
	if el, ok := s.resident[index]; ok {
		s.recency.MoveToFront(el)
		return el.Value.(*residentChunk).chunk, nil
	}
	ch := s.materialize(index)
	s.resident[index] = s.recency.PushFront(&residentChunk{index: index, chunk: ch})
	var evicted []int
	for len(s.resident) > s.maxResident {
		tail := s.recency.Back()
		rc := tail.Value.(*residentChunk)
		s.recency.Remove(tail)
		delete(s.resident, rc.index)
		evicted = append(evicted, rc.index)
	}
	return ch, evicted
}

// peek returns the resident chunk without perturbing recency, or nil.
func (s *chunkStore) peek(index int) *chunk {
	if el, ok := s.resident[index]; ok {
		return el.Value.(*residentChunk).chunk
	}
	return nil
}

// unload drops the chunk if resident and reports whether it was.
func (s *chunkStore) unload(index int) bool {
	el, ok := s.resident[index]
	if !ok {
		return false
	}
	s.recency.Remove(el)
	delete(s.resident, index)
	return true
}

// removeAbove drops every resident chunk with index >= limit. Used when the
// list shrinks; the dropped chunks no longer exist, so no reconciliation.
func (s *chunkStore) removeAbove(limit int) {
	for index, el := range s.resident {
		if index >= limit {
			s.recency.Remove(el)
			delete(s.resident, index)
		}
	}
}

// residentCount returns how many chunks are currently resident.
func (s *chunkStore) residentCount() int {
	return len(s.resident)
}
