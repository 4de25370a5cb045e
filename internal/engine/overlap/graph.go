// Package overlap builds a directed overlap graph over distinct reads and
// derives a greedy layout and assembly from it.
package overlap

import (
	"sync"

	coreerrors "readsanalyzer/internal/core/errors"
	"readsanalyzer/internal/engine/reads"
	"readsanalyzer/internal/engine/stats"
	"readsanalyzer/internal/shared/observability"
)

// Edge records that the suffix of Source matches the prefix of Destination
// over Overlap bases.
type Edge struct {
	Source      string
	Destination string
	Overlap     int
}

// Graph is built online: every new distinct read is compared against all
// reads accepted before it, once, and the resulting edges are never
// revisited.
//
// The empty sequence is never a node. An empty read is dropped before it is
// counted, so it appears in neither the abundances nor Ingested, and the
// node and abundance queries only ever report non-empty sequences.
type Graph struct {
	mu sync.RWMutex

	minOverlap int

	counts    map[string]int    // sequence -> times ingested
	order     []string          // distinct sequences in first-ingested order
	adjacency map[string][]Edge // sequence -> outgoing edges
	edgeCount int
	ingested  int
}

func NewGraph(minOverlap int) (*Graph, error) {
	if minOverlap <= 0 {
		return nil, coreerrors.Newf(coreerrors.CodeValidationError, "minimum overlap must be positive, got %d", minOverlap)
	}
	return &Graph{
		minOverlap: minOverlap,
		counts:     make(map[string]int),
		adjacency:  make(map[string][]Edge),
	}, nil
}

func (g *Graph) MinOverlap() int {
	return g.minOverlap
}

// ProcessRead adds read to the graph. A sequence seen before only has its
// count bumped; a new one gets its edges to and from every earlier sequence.
// Empty reads are ignored.
func (g *Graph) ProcessRead(read reads.Read) {
	seq := read.Sequence
	if seq == "" {
		return
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	g.ingested++
	observability.ReadsIngestedTotal.WithLabelValues("overlap").Inc()

	if _, ok := g.counts[seq]; ok {
		g.counts[seq]++
		observability.RepeatReadsTotal.Inc()
		return
	}
	g.counts[seq] = 1

	var successors []Edge
	for _, existing := range g.order {
		if n := Length(seq, existing); n >= g.minOverlap {
			successors = append(successors, Edge{Source: seq, Destination: existing, Overlap: n})
		}
		if n := Length(existing, seq); n >= g.minOverlap {
			g.adjacency[existing] = append(g.adjacency[existing], Edge{Source: existing, Destination: seq, Overlap: n})
			g.edgeCount++
		}
	}
	g.adjacency[seq] = successors
	g.edgeCount += len(successors)
	g.order = append(g.order, seq)

	observability.GraphNodes.Set(float64(len(g.order)))
	observability.GraphEdges.Set(float64(g.edgeCount))
}

// Length returns the largest L such that the last L bases of seq1 equal the
// first L bases of seq2, or 0. Every L up to the shorter length is tried, so
// a long match is found even when shorter lengths do not match.
func Length(seq1, seq2 string) int {
	limit := min(len(seq1), len(seq2))
	best := 0
	for l := 1; l <= limit; l++ {
		if seq1[len(seq1)-l:] == seq2[:l] {
			best = l
		}
	}
	return best
}

// Len returns the number of distinct sequences.
func (g *Graph) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.order)
}

// Ingested returns the number of non-empty reads processed, repeats included.
func (g *Graph) Ingested() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.ingested
}

func (g *Graph) EdgeCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.edgeCount
}

// DistinctSequences returns the sequences in first-ingested order.
func (g *Graph) DistinctSequences() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]string, len(g.order))
	copy(out, g.order)
	return out
}

// SequenceAbundance returns how many times seq was ingested, 0 if never.
func (g *Graph) SequenceAbundance(seq string) int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.counts[seq]
}

// Edges returns a copy of the outgoing edges of seq.
func (g *Graph) Edges(seq string) []Edge {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]Edge, len(g.adjacency[seq]))
	copy(out, g.adjacency[seq])
	return out
}

// AllEdges returns every edge, grouped by source in first-ingested order.
func (g *Graph) AllEdges() []Edge {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]Edge, 0, g.edgeCount)
	for _, seq := range g.order {
		out = append(out, g.adjacency[seq]...)
	}
	return out
}

// AbundanceDistribution returns d where d[c] is the number of distinct
// sequences ingested exactly c times.
func (g *Graph) AbundanceDistribution() []int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	values := make([]int, 0, len(g.order))
	for _, seq := range g.order {
		values = append(values, g.counts[seq])
	}
	return stats.Histogram(values)
}

// OverlapDistribution returns d where d[n] is the number of distinct
// sequences with exactly n outgoing edges.
func (g *Graph) OverlapDistribution() []int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	values := make([]int, 0, len(g.order))
	for _, seq := range g.order {
		values = append(values, len(g.adjacency[seq]))
	}
	return stats.Histogram(values)
}
