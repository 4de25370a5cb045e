package output

import (
	"fmt"
	"strings"

	"readsanalyzer/internal/engine/overlap"
)

type TSVGenerator struct{}

func NewTSVGenerator() *TSVGenerator {
	return &TSVGenerator{}
}

// Distribution renders a histogram as index/count rows, one per index.
func (t *TSVGenerator) Distribution(label string, dist []int) (string, error) {
	var buf strings.Builder

	buf.WriteString(fmt.Sprintf("%s\tCount\n", label))
	for i, count := range dist {
		buf.WriteString(fmt.Sprintf("%d\t%d\n", i, count))
	}

	return buf.String(), nil
}

// Layout renders a layout path. The seed edge has an empty source, written
// as "-".
func (t *TSVGenerator) Layout(path []overlap.Edge) (string, error) {
	var buf strings.Builder

	buf.WriteString("Step\tSource\tDestination\tOverlap\n")
	for i, e := range path {
		source := e.Source
		if source == "" {
			source = "-"
		}
		buf.WriteString(fmt.Sprintf("%d\t%s\t%s\t%d\n", i, source, e.Destination, e.Overlap))
	}

	return buf.String(), nil
}
