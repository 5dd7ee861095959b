package benchmark

import "fmt"

// Comparison pairs one measurement across two runs.
type Comparison struct {
	Key        string
	MillisDiff float64 // percentage change, negative is faster
	Prev       Result
	Curr       Result
}

// Compare returns comparisons for successful measurements present in both
// runs, in curr's order.
func Compare(prev, curr Run) []Comparison {
	prevMap := make(map[string]Result, len(prev.Results))
	for _, r := range prev.Results {
		if !r.Failed() {
			prevMap[r.Key()] = r
		}
	}

	var comparisons []Comparison
	for _, c := range curr.Results {
		p, ok := prevMap[c.Key()]
		if !ok || c.Failed() {
			continue
		}
		comp := Comparison{Key: c.Key(), Prev: p, Curr: c}
		if p.Millis > 0 {
			comp.MillisDiff = (c.Millis - p.Millis) / p.Millis * 100
		}
		comparisons = append(comparisons, comp)
	}
	return comparisons
}

func (c Comparison) String() string {
	return fmt.Sprintf("%s: %+.2f%% ms", c.Key, c.MillisDiff)
}
