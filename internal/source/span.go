package source

import "sort"

// Span is a half-open byte range [Start, End) into a source string.
type Span struct {
	Start int
	End   int
}

func (s Span) Len() int {
	return s.End - s.Start
}

// Contains reports whether the offset falls inside the span.
func (s Span) Contains(offset int) bool {
	return offset >= s.Start && offset < s.End
}

// Shift returns the span moved by delta bytes.
func (s Span) Shift(delta int) Span {
	return Span{Start: s.Start + delta, End: s.End + delta}
}

// LineIndex converts byte offsets to 1-based line/column positions.
// Columns count bytes, matching what editors receive for ASCII-dominant
// template sources.
type LineIndex struct {
	starts []int // byte offset of each line start
}

func NewLineIndex(src string) *LineIndex {
	starts := []int{0}
	for i := 0; i < len(src); i++ {
		if src[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &LineIndex{starts: starts}
}

// Position returns the 1-based line and column of offset.
func (ix *LineIndex) Position(offset int) (line, col int) {
	i := sort.Search(len(ix.starts), func(i int) bool { return ix.starts[i] > offset }) - 1
	if i < 0 {
		i = 0
	}
	return i + 1, offset - ix.starts[i] + 1
}
