// Package merge resolves overlapping matches into a non-overlapping set.
// The same sweep serves a single detector's output, the union of all
// detectors in one pass, and the per-chunk results of a streaming run.
package merge

import (
	"sort"

	"github.com/redactyl/anonymizer/internal/types"
)

// Priority ranks entity types for overlap resolution. PERSON beats
// SINGLE_NAME, which beats everything else.
func Priority(t types.EntityType) int {
	switch t {
	case types.EntityPerson:
		return 2
	case types.EntitySingleName:
		return 1
	}
	return 0
}

// Wins reports whether candidate should replace existing when they overlap.
// Ties keep existing.
func Wins(candidate, existing types.Match) bool {
	pc, pe := Priority(candidate.Type), Priority(existing.Type)
	if pc != pe {
		return pc > pe
	}
	return candidate.Confidence > existing.Confidence
}

// Sort orders matches by start offset. Equal starts are ordered longest first
// and then by type and detector so the sweep is deterministic.
func Sort(ms []types.Match) {
	sort.SliceStable(ms, func(i, j int) bool {
		a, b := ms[i], ms[j]
		if a.Start != b.Start {
			return a.Start < b.Start
		}
		if a.End != b.End {
			return a.End > b.End
		}
		if a.Type != b.Type {
			return a.Type < b.Type
		}
		return a.Detector < b.Detector
	})
}

// Resolve returns a sorted, non-overlapping subset of ms. The input slice is
// not modified.
func Resolve(ms []types.Match) []types.Match {
	if len(ms) == 0 {
		return nil
	}
	sorted := make([]types.Match, 0, len(ms))
	for _, m := range ms {
		if m.Start < m.End {
			sorted = append(sorted, m)
		}
	}
	Sort(sorted)

	out := make([]types.Match, 0, len(sorted))
	for _, m := range sorted {
		// accepted spans are disjoint and sorted, and m starts at or after
		// every accepted start, so only the last one can overlap m
		if n := len(out); n > 0 && out[n-1].Overlaps(m) {
			if Wins(m, out[n-1]) {
				out[n-1] = m
			}
			continue
		}
		out = append(out, m)
	}
	return out
}

// Shift returns a copy of ms with every offset moved by delta.
func Shift(ms []types.Match, delta int) []types.Match {
	out := make([]types.Match, len(ms))
	for i, m := range ms {
		m.Start += delta
		m.End += delta
		out[i] = m
	}
	return out
}

// NonOverlapping reports whether no two matches in ms share a byte.
func NonOverlapping(ms []types.Match) bool {
	for i := range ms {
		for j := i + 1; j < len(ms); j++ {
			if ms[i].Overlaps(ms[j]) {
				return false
			}
		}
	}
	return true
}
