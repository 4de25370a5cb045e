package history

import "time"

// SchemaVersion is the newest migration this build knows how to apply.
const SchemaVersion = 2

// Run is one persisted assembly: the analyzer parameters, the sizes of the
// structures at assembly time and the assembled sequence itself.
type Run struct {
	ID             string        `json:"id"`
	ProjectKey     string        `json:"project_key"`
	Timestamp      time.Time     `json:"timestamp"`
	KmerSize       int           `json:"kmer_size"`
	MinOverlap     int           `json:"min_overlap"`
	Reads          int           `json:"reads"`
	DistinctReads  int           `json:"distinct_reads"`
	DistinctKmers  int           `json:"distinct_kmers"`
	Edges          int           `json:"edges"`
	LayoutLength   int           `json:"layout_length"`
	AssemblyLength int           `json:"assembly_length"`
	Assembly       string        `json:"assembly"`
	Duration       time.Duration `json:"duration"`
}
