// Package stats holds small numeric helpers shared by the analyzers.
package stats

// Histogram returns h where h[v] counts how many entries of values equal v.
// len(h) is max(values)+1; empty input yields [0]. Negative values are
// ignored.
func Histogram(values []int) []int {
	biggest := 0
	for _, v := range values {
		if v > biggest {
			biggest = v
		}
	}
	h := make([]int, biggest+1)
	for _, v := range values {
		if v >= 0 {
			h[v]++
		}
	}
	return h
}

// Sum adds up values.
func Sum(values []int) int {
	total := 0
	for _, v := range values {
		total += v
	}
	return total
}
