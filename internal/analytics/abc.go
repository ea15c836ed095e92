package analytics

import (
	"sort"

	"github.com/stockcast-app/stockcast/internal/domain"
)

// Cumulative-value cutoffs for ABC segmentation (80/15/5).
const (
	classACutoff = 0.8
	classBCutoff = 0.95
)

// ClassifyABC buckets items by cumulative share of total value: A while
// the running share stays within 80%, B within 95%, C for the tail.
// Ties keep input order (stable sort) so the assignment is deterministic,
// and re-running on already annotated output yields identical classes.
// A zero total value leaves every share undefined; all items are
// classified C in that case.
//
// The returned slice preserves the input item order.
func ClassifyABC(items []domain.ABCItem) []domain.ABCItem {
	out := make([]domain.ABCItem, len(items))
	copy(out, items)

	var total float64
	for _, item := range out {
		total += item.Value
	}

	if total == 0 {
		for i := range out {
			out[i].Class = domain.ClassC
		}
		return out
	}

	// Rank by value descending, stable on input position.
	order := make([]int, len(out))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return out[order[a]].Value > out[order[b]].Value
	})

	var cumulative float64
	for _, idx := range order {
		cumulative += out[idx].Value
		share := cumulative / total
		switch {
		case share <= classACutoff:
			out[idx].Class = domain.ClassA
		case share <= classBCutoff:
			out[idx].Class = domain.ClassB
		default:
			out[idx].Class = domain.ClassC
		}
	}

	return out
}
