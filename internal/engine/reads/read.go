// Package reads turns FASTA, FASTQ and plain-text files into a stream of
// sequencing reads for the analyzers.
package reads

import "strings"

// Read is one input sequence. Sequence is upper-cased on the way in; the
// analyzers compare it byte for byte.
type Read struct {
	ID       string
	Sequence string
}

func NewRead(id, sequence string) Read {
	return Read{ID: id, Sequence: strings.ToUpper(strings.TrimSpace(sequence))}
}

func (r Read) Len() int {
	return len(r.Sequence)
}
