package scope

import "testing"

func TestTracker_BaseSet(t *testing.T) {
	tr := NewTracker([]string{"concat", "t"})
	if !tr.Has("concat") || !tr.Has("t") {
		t.Fatal("base names should be in scope")
	}
	if tr.Has("missing") {
		t.Fatal("unknown name should not be in scope")
	}
}

func TestTracker_Frames(t *testing.T) {
	tr := NewTracker(nil)
	tr.Enter([]string{"item", "index"})
	if !tr.Has("item") || !tr.Has("index") {
		t.Fatal("frame names should be in scope")
	}
	tr.Enter([]string{"inner"})
	if !tr.Has("item") {
		t.Fatal("outer frame should stay visible")
	}
	tr.Leave()
	if tr.Has("inner") {
		t.Fatal("left frame should not be visible")
	}
	tr.Leave()
	if tr.Has("item") {
		t.Fatal("all frames left; nothing should remain")
	}
}

func TestTracker_LeaveWithoutEnterPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	NewTracker(nil).Leave()
}
