package overlap

import "strings"

// InDegree returns how many edges end at seq.
func (g *Graph) InDegree(seq string) int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.inDegreesLocked()[seq]
}

func (g *Graph) inDegreesLocked() map[string]int {
	inDegree := make(map[string]int, len(g.order))
	for _, seq := range g.order {
		for _, e := range g.adjacency[seq] {
			inDegree[e.Destination]++
		}
	}
	return inDegree
}

// SourceSequence picks the sequence with the lowest in-degree as the left
// end of the assembly. Ties go to the earliest ingested sequence. It
// reports false when the graph is empty.
func (g *Graph) SourceSequence() (string, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.sourceLocked()
}

func (g *Graph) sourceLocked() (string, bool) {
	if len(g.order) == 0 {
		return "", false
	}
	inDegree := g.inDegreesLocked()
	best := g.order[0]
	bestDegree := inDegree[best]
	for _, seq := range g.order[1:] {
		if d := inDegree[seq]; d < bestDegree {
			best, bestDegree = seq, d
		}
	}
	return best, true
}

// LayoutPath walks greedily from the source, always taking the unvisited
// successor with the strictly largest overlap (the first such edge wins a
// tie) and stopping at the first node without one. The first element is a
// zero-overlap edge from "" into the source. An empty graph has an empty
// path.
func (g *Graph) LayoutPath() []Edge {
	g.mu.RLock()
	defer g.mu.RUnlock()

	current, ok := g.sourceLocked()
	if !ok {
		return nil
	}

	visited := map[string]bool{current: true}
	path := []Edge{{Source: "", Destination: current, Overlap: 0}}
	for {
		best := -1
		edges := g.adjacency[current]
		for i, e := range edges {
			if visited[e.Destination] {
				continue
			}
			if best < 0 || e.Overlap > edges[best].Overlap {
				best = i
			}
		}
		if best < 0 {
			return path
		}

		next := edges[best]
		path = append(path, next)
		visited[next.Destination] = true
		current = next.Destination
	}
}

// Assemble stitches the layout path into one sequence.
func (g *Graph) Assemble() string {
	return Stitch(g.LayoutPath())
}

// Stitch concatenates the part of each destination that lies to the right of
// its overlap.
func Stitch(path []Edge) string {
	var b strings.Builder
	for _, e := range path {
		b.WriteString(e.Destination[e.Overlap:])
	}
	return b.String()
}
