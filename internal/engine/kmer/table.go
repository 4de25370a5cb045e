// Package kmer counts fixed-length substrings across a stream of reads.
package kmer

import (
	"sync"

	coreerrors "readsanalyzer/internal/core/errors"
	"readsanalyzer/internal/engine/reads"
	"readsanalyzer/internal/engine/stats"
	"readsanalyzer/internal/shared/observability"
)

// Table stores the abundance of every k-mer extracted so far.
type Table struct {
	mu sync.RWMutex

	size   int
	counts map[string]int
	order  []string // first-seen order of distinct k-mers
	total  int
}

func NewTable(size int) (*Table, error) {
	if size <= 0 {
		return nil, coreerrors.Newf(coreerrors.CodeValidationError, "k-mer size must be positive, got %d", size)
	}
	return &Table{
		size:   size,
		counts: make(map[string]int),
	}, nil
}

// ProcessRead extracts the k-mers starting at positions k through len-k of
// the read and counts each one. Reads shorter than 2k contribute nothing.
func (t *Table) ProcessRead(read reads.Read) {
	seq := read.Sequence
	k := t.size

	t.mu.Lock()
	defer t.mu.Unlock()

	for i := k; i <= len(seq)-k; i++ {
		kmer := seq[i : i+k]
		if _, ok := t.counts[kmer]; !ok {
			t.order = append(t.order, kmer)
		}
		t.counts[kmer]++
		t.total++
	}

	observability.ReadsIngestedTotal.WithLabelValues("kmer").Inc()
	observability.DistinctKmers.Set(float64(len(t.counts)))
}

func (t *Table) Size() int {
	return t.size
}

// Len returns the number of distinct k-mers.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.counts)
}

// Total returns the number of k-mers extracted, repeats included.
func (t *Table) Total() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.total
}

// DistinctKmers returns every k-mer seen so far in first-seen order.
func (t *Table) DistinctKmers() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]string, len(t.order))
	copy(out, t.order)
	return out
}

// Abundance returns how many times kmer was extracted, 0 if never.
func (t *Table) Abundance(kmer string) int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.counts[kmer]
}

// AbundanceDistribution returns d where d[c] is the number of distinct
// k-mers seen exactly c times. len(d) is max count + 1, so an empty table
// yields [0].
func (t *Table) AbundanceDistribution() []int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	values := make([]int, 0, len(t.counts))
	for _, c := range t.counts {
		values = append(values, c)
	}
	return stats.Histogram(values)
}
