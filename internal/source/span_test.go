package source

import "testing"

func TestSpanContains(t *testing.T) {
	s := Span{Start: 3, End: 6}
	if s.Contains(2) || s.Contains(6) {
		t.Fatal("half-open bounds violated")
	}
	if !s.Contains(3) || !s.Contains(5) {
		t.Fatal("interior offsets should be contained")
	}
}

func TestLineIndexPosition(t *testing.T) {
	ix := NewLineIndex("ab\ncd\n\nef")
	cases := []struct {
		offset, line, col int
	}{
		{0, 1, 1},
		{1, 1, 2},
		{3, 2, 1},
		{4, 2, 2},
		{6, 3, 1},
		{7, 4, 1},
		{8, 4, 2},
	}
	for _, c := range cases {
		line, col := ix.Position(c.offset)
		if line != c.line || col != c.col {
			t.Errorf("offset %d: got %d:%d, want %d:%d", c.offset, line, col, c.line, c.col)
		}
	}
}
