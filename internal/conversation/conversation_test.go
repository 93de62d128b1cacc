package conversation

import (
	"testing"
	"time"
)

func TestAppendPreservesOrder(t *testing.T) {
	c := New()

	c.Append(RoleUser, "first", nil)
	c.Append(RoleAgent, "second", nil)
	c.Append(RoleTool, "third", map[string]any{"tool_id": "email_tool"})

	turns := c.Turns()
	if len(turns) != 3 {
		t.Fatalf("expected 3 turns, got %d", len(turns))
	}

	want := []struct {
		role    Role
		content string
	}{
		{RoleUser, "first"},
		{RoleAgent, "second"},
		{RoleTool, "third"},
	}
	for i, w := range want {
		if turns[i].Role != w.role || turns[i].Content != w.content {
			t.Errorf("turn %d = %s %q, want %s %q", i, turns[i].Role, turns[i].Content, w.role, w.content)
		}
	}

	if turns[2].Metadata["tool_id"] != "email_tool" {
		t.Errorf("metadata not preserved: %v", turns[2].Metadata)
	}
}

func TestAppendGrowsByOne(t *testing.T) {
	c := New()
	for i := 0; i < 10; i++ {
		before := c.Len()
		c.Append(RoleUser, "msg", nil)
		if c.Len() != before+1 {
			t.Fatalf("append grew log from %d to %d", before, c.Len())
		}
	}
}

func TestClear(t *testing.T) {
	c := New()
	c.Append(RoleUser, "hello", nil)
	c.Append(RoleAgent, "hi", nil)

	c.Clear()
	if c.Len() != 0 {
		t.Errorf("expected empty context after Clear, got %d turns", c.Len())
	}
	if _, ok := c.Last(); ok {
		t.Error("Last should report empty after Clear")
	}
}

func TestMetadataCopied(t *testing.T) {
	c := New()
	meta := map[string]any{"key": "original"}
	c.Append(RoleTool, "result", meta)

	meta["key"] = "mutated"

	turns := c.Turns()
	if turns[0].Metadata["key"] != "original" {
		t.Error("appended turn shares metadata map with caller")
	}
}

func TestTimestampsMonotonic(t *testing.T) {
	c := New()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	tick := 0
	c.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}

	c.Append(RoleUser, "a", nil)
	c.Append(RoleAgent, "b", nil)

	turns := c.Turns()
	if !turns[0].Timestamp.Before(turns[1].Timestamp) {
		t.Error("timestamps not increasing")
	}
}

func TestTranscript(t *testing.T) {
	c := New()
	c.Append(RoleUser, "schedule a meeting", nil)
	c.Append(RoleAgent, "when?", nil)

	got := c.Transcript()
	want := "user: schedule a meeting\nagent: when?\n"
	if got != want {
		t.Errorf("Transcript = %q, want %q", got, want)
	}
}

func TestSessionIDsUnique(t *testing.T) {
	a, b := New(), New()
	if a.SessionID() == b.SessionID() {
		t.Error("two sessions share an ID")
	}
}
