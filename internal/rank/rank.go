// Package rank scores catalog vectors against a query and selects the top N.
//
// Scoring is a full linear scan with cosine similarity. Results are ordered by
// descending score; equal scores keep their catalog order, so the output is
// fully determined by the inputs.
package rank

import (
	"container/heap"
	"fmt"
	"sort"
)

// Hit is one ranked catalog entry.
type Hit struct {
	Index int
	Score float64
}

// before reports whether a ranks ahead of b.
func before(a, b Hit) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	return a.Index < b.Index
}

// Rank scores every vector against query and returns at most topN hits.
//
// topN <= 0 and an empty catalog both yield an empty slice. Every vector must
// have the query's length, otherwise ErrDimensionMismatch is returned.
func Rank(query []float32, vectors [][]float32, topN int) ([]Hit, error) {
	if topN <= 0 || len(vectors) == 0 {
		return []Hit{}, nil
	}

	if topN >= len(vectors) {
		hits := make([]Hit, len(vectors))
		for i, v := range vectors {
			s, err := score(query, v, i)
			if err != nil {
				return nil, err
			}
			hits[i] = Hit{Index: i, Score: s}
		}
		sort.SliceStable(hits, func(i, j int) bool { return hits[i].Score > hits[j].Score })
		return hits, nil
	}

	// Keep the best topN seen so far; the root is the weakest of them.
	h := make(minHeap, 0, topN)
	for i, v := range vectors {
		s, err := score(query, v, i)
		if err != nil {
			return nil, err
		}
		hit := Hit{Index: i, Score: s}
		if len(h) < topN {
			heap.Push(&h, hit)
			continue
		}
		if before(hit, h[0]) {
			h[0] = hit
			heap.Fix(&h, 0)
		}
	}

	hits := make([]Hit, len(h))
	for i := len(h) - 1; i >= 0; i-- {
		hits[i] = heap.Pop(&h).(Hit)
	}
	return hits, nil
}

func score(query, v []float32, i int) (float64, error) {
	s, err := Cosine(query, v)
	if err != nil {
		return 0, fmt.Errorf("catalog vector %d has dim %d, query has %d: %w", i, len(v), len(query), err)
	}
	return s, nil
}

// minHeap orders hits worst-first.
type minHeap []Hit

func (h minHeap) Len() int           { return len(h) }
func (h minHeap) Less(i, j int) bool { return before(h[j], h[i]) }
func (h minHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *minHeap) Push(x any) { *h = append(*h, x.(Hit)) }

func (h *minHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}
