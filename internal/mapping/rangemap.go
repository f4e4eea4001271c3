package mapping

import "sort"

// RangeMap answers offset translations between an original template and
// the emitted program. Both directions resolve in O(log n) over parallel
// sorted correspondence slices: byEmit keeps the builder's emission order
// (already ascending by emit start), byOrig is re-sorted by origin start.
// Gaps on either side are synthesized scaffolding and map to nothing.
type RangeMap struct {
	byEmit []Correspondence
	byOrig []Correspondence
	embed  int
}

func newRangeMap(corrs []Correspondence, embedStart int) *RangeMap {
	byOrig := make([]Correspondence, len(corrs))
	copy(byOrig, corrs)
	sort.SliceStable(byOrig, func(i, j int) bool {
		return byOrig[i].Orig.Start < byOrig[j].Orig.Start
	})
	return &RangeMap{byEmit: corrs, byOrig: byOrig, embed: embedStart}
}

// Correspondences returns the mappings in emission order. Callers must not
// mutate the returned slice.
func (m *RangeMap) Correspondences() []Correspondence {
	return m.byEmit
}

// OriginalToEmitted translates a host-file offset inside a mapped template
// token to the matching emitted offset.
func (m *RangeMap) OriginalToEmitted(offset int) (int, bool) {
	offset -= m.embed
	i := sort.Search(len(m.byOrig), func(i int) bool {
		return m.byOrig[i].Orig.Start > offset
	}) - 1
	if i < 0 {
		return 0, false
	}
	// Origin token spans are disjoint or identical (a token re-emitted as
	// a bare reference repeats its span), never nested, so the candidate
	// with the greatest start is the only one that can contain the offset.
	c := m.byOrig[i]
	if !c.Orig.Contains(offset) {
		return 0, false
	}
	return c.Emit.Start + clampDelta(offset-c.Orig.Start, c.Emit.Len()), true
}

// EmittedToOriginal translates an emitted offset back to a host-file offset.
func (m *RangeMap) EmittedToOriginal(offset int) (int, bool) {
	i := sort.Search(len(m.byEmit), func(i int) bool {
		return m.byEmit[i].Emit.Start > offset
	}) - 1
	if i < 0 {
		return 0, false
	}
	c := m.byEmit[i]
	if !c.Emit.Contains(offset) {
		return 0, false
	}
	return c.Orig.Start + clampDelta(offset-c.Emit.Start, c.Orig.Len()) + m.embed, true
}

// clampDelta keeps an intra-span delta inside a counterpart span whose
// length may differ (a dashed segment emits longer than its token).
func clampDelta(delta, limit int) int {
	if limit > 0 && delta >= limit {
		return limit - 1
	}
	return delta
}
