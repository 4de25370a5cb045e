package output

import (
	"fmt"
	"strings"

	"readsanalyzer/internal/engine/overlap"
)

const maxLabelLength = 24

type DOTGenerator struct {
	graph *overlap.Graph
}

func NewDOTGenerator(g *overlap.Graph) *DOTGenerator {
	return &DOTGenerator{graph: g}
}

// Generate renders the overlap graph with the edges of path highlighted.
// Nodes are numbered by insertion order.
func (d *DOTGenerator) Generate(path []overlap.Edge) (string, error) {
	var buf strings.Builder

	buf.WriteString("digraph overlaps {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  node [shape=box, style=rounded, fontname=\"Helvetica\", fontsize=10];\n")
	buf.WriteString("  edge [fontname=\"Helvetica\", fontsize=8, penwidth=1.2];\n")
	buf.WriteString("  nodesep=0.6;\n")
	buf.WriteString("  overlap=false;\n\n")

	// Build layout edge set for highlighting
	layoutEdges := make(map[string]map[string]bool)
	onPath := make(map[string]bool)
	for _, e := range path {
		onPath[e.Destination] = true
		if e.Source == "" {
			continue
		}
		if layoutEdges[e.Source] == nil {
			layoutEdges[e.Source] = make(map[string]bool)
		}
		layoutEdges[e.Source][e.Destination] = true
	}

	sequences := d.graph.DistinctSequences()
	ids := make(map[string]string, len(sequences))
	for i, seq := range sequences {
		id := fmt.Sprintf("n%d", i)
		ids[seq] = id
		label := fmt.Sprintf("%s\\n(x%d)", shorten(seq), d.graph.SequenceAbundance(seq))

		if onPath[seq] {
			buf.WriteString(fmt.Sprintf("  %s [label=\"%s\", fillcolor=\"mistyrose\", color=\"red\", style=\"rounded,filled\", penwidth=2.0];\n", id, label))
		} else {
			buf.WriteString(fmt.Sprintf("  %s [label=\"%s\", color=\"darkslategrey\"];\n", id, label))
		}
	}
	buf.WriteString("\n")

	for _, e := range d.graph.AllEdges() {
		from, to := ids[e.Source], ids[e.Destination]
		if layoutEdges[e.Source][e.Destination] {
			buf.WriteString(fmt.Sprintf("  %s -> %s [color=\"red\", penwidth=3.0, label=\"%d\"];\n", from, to, e.Overlap))
		} else {
			buf.WriteString(fmt.Sprintf("  %s -> %s [color=\"grey\", label=\"%d\"];\n", from, to, e.Overlap))
		}
	}

	buf.WriteString("}\n")

	return buf.String(), nil
}

func shorten(seq string) string {
	if len(seq) <= maxLabelLength {
		return seq
	}
	half := (maxLabelLength - 3) / 2
	return seq[:half] + "..." + seq[len(seq)-half:]
}
