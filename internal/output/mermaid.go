package output

import (
	"fmt"
	"strings"

	"readsanalyzer/internal/engine/overlap"
)

// MermaidGenerator renders a layout path as a Mermaid flowchart, suitable for
// embedding in markdown notes next to an assembly.
type MermaidGenerator struct{}

func NewMermaidGenerator() *MermaidGenerator {
	return &MermaidGenerator{}
}

func (m *MermaidGenerator) Generate(path []overlap.Edge) (string, error) {
	var buf strings.Builder

	buf.WriteString("flowchart LR\n")
	if len(path) == 0 {
		buf.WriteString("  empty[\"no reads\"]\n")
		return buf.String(), nil
	}

	for i, e := range path {
		buf.WriteString(fmt.Sprintf("  s%d[\"%s\"]\n", i, shorten(e.Destination)))
	}
	for i := 1; i < len(path); i++ {
		buf.WriteString(fmt.Sprintf("  s%d -->|%d| s%d\n", i-1, path[i].Overlap, i))
	}

	return buf.String(), nil
}
