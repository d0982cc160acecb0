package service

import (
	"container/heap"

	"wordpred/internal/model/bigram"
)

// DefaultLimit is how many predictions are returned when no limit is given
const DefaultLimit = 5

type rankedEntry struct {
	scored bigram.ScoredBigram
	seq    int // insertion order, breaks probability ties
}

// rankHeap is a max-heap on probability; equal probabilities pop in insertion order
type rankHeap []rankedEntry

func (h rankHeap) Len() int { return len(h) }

func (h rankHeap) Less(i, j int) bool {
	if h[i].scored.Probability != h[j].scored.Probability {
		return h[i].scored.Probability > h[j].scored.Probability
	}
	return h[i].seq < h[j].seq
}

func (h rankHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *rankHeap) Push(x any) { *h = append(*h, x.(rankedEntry)) }

func (h *rankHeap) Pop() any {
	old := *h
	n := len(old)
	entry := old[n-1]
	*h = old[:n-1]
	return entry
}

// Ranker orders scored bigrams for a single prediction request
type Ranker struct {
	entries rankHeap
	nextSeq int
}

func NewRanker() *Ranker {
	return &Ranker{}
}

// Reset clears the ranker so it can be refilled
func (r *Ranker) Reset() {
	r.entries = r.entries[:0]
	r.nextSeq = 0
}

// Push inserts a scored bigram
func (r *Ranker) Push(scored bigram.ScoredBigram) {
	heap.Push(&r.entries, rankedEntry{scored: scored, seq: r.nextSeq})
	r.nextSeq++
}

// PopMax removes and returns the highest-probability entry
func (r *Ranker) PopMax() (bigram.ScoredBigram, bool) {
	if r.entries.Len() == 0 {
		return bigram.ScoredBigram{}, false
	}
	entry := heap.Pop(&r.entries).(rankedEntry)
	return entry.scored, true
}

func (r *Ranker) Len() int {
	return r.entries.Len()
}

// Rank resets the ranker, inserts scored and extracts up to limit entries,
// highest probability first.
func (r *Ranker) Rank(scored []bigram.ScoredBigram, limit int) []bigram.ScoredBigram {
	if limit <= 0 {
		limit = DefaultLimit
	}

	r.Reset()
	for _, s := range scored {
		r.Push(s)
	}

	top := make([]bigram.ScoredBigram, 0, min(limit, r.Len()))
	for len(top) < limit {
		s, ok := r.PopMax()
		if !ok {
			break
		}
		top = append(top, s)
	}
	return top
}
