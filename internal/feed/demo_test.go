package feed

import (
	"context"
	"testing"
)

func TestDemoSourceProducesUniqueFreshIDs(t *testing.T) {
	source := NewDemoSource(5)

	first, err := source.Fetch(context.Background(), "ignored")
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	second, err := source.Fetch(context.Background(), "ignored")
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if len(first) != 5 || len(second) != 5 {
		t.Fatalf("expected 5 comments per batch, got %d and %d", len(first), len(second))
	}

	seen := make(map[string]struct{})
	for _, c := range append(first, second...) {
		if c.ID == "" || c.Author == "" || c.Text == "" {
			t.Fatalf("incomplete comment: %+v", c)
		}
		if _, dup := seen[c.ID]; dup {
			t.Fatalf("duplicate id across batches: %s", c.ID)
		}
		seen[c.ID] = struct{}{}
	}
}

func TestDemoReplySinkAlwaysSucceeds(t *testing.T) {
	sink := NewDemoReplySink(nil)
	if err := sink.Send(context.Background(), "demo-1", "hello"); err != nil {
		t.Fatalf("demo sink should not fail: %v", err)
	}
}
