package comment

import (
	"errors"
	"testing"
	"time"
)

func sample(id string) Comment {
	return NewPending(Raw{
		ID:          id,
		Author:      "viewer",
		Text:        "how do I track my order?",
		PublishedAt: time.Unix(1700000000, 0).UTC(),
	}, "You can track it from the portal.", 90)
}

func TestMergePrependsAndDeduplicates(t *testing.T) {
	store := NewStore()
	if n := store.Merge([]Comment{sample("a"), sample("b")}); n != 2 {
		t.Fatalf("expected 2 accepted, got %d", n)
	}
	if n := store.Merge([]Comment{sample("b"), sample("c")}); n != 1 {
		t.Fatalf("expected 1 accepted, got %d", n)
	}

	all := store.All()
	if len(all) != 3 {
		t.Fatalf("expected 3 comments, got %d", len(all))
	}
	// Newest batch first, feed order preserved inside each batch.
	if all[0].ID != "c" || all[1].ID != "a" || all[2].ID != "b" {
		t.Fatalf("unexpected order: %s %s %s", all[0].ID, all[1].ID, all[2].ID)
	}
}

func TestMergeIsIdempotent(t *testing.T) {
	store := NewStore()
	batch := []Comment{sample("a"), sample("b")}
	store.Merge(batch)
	if n := store.Merge(batch); n != 0 {
		t.Fatalf("expected 0 accepted on re-import, got %d", n)
	}
	if store.Len() != 2 {
		t.Fatalf("expected size unchanged, got %d", store.Len())
	}
}

func TestMergeDropsDuplicateIDsWithinBatch(t *testing.T) {
	store := NewStore()
	if n := store.Merge([]Comment{sample("a"), sample("a")}); n != 1 {
		t.Fatalf("expected 1 accepted, got %d", n)
	}
}

func TestApproveSetsResponseAndOperator(t *testing.T) {
	store := NewStore()
	store.Merge([]Comment{sample("a")})

	updated, err := store.Approve("a", "hello there", "dana")
	if err != nil {
		t.Fatalf("approve failed: %v", err)
	}
	if updated.Status != StatusApproved {
		t.Fatalf("expected approved, got %s", updated.Status)
	}
	if updated.ActualResponse != "hello there" || updated.ApprovedBy != "dana" {
		t.Fatalf("unexpected approve payload: %+v", updated)
	}
	if updated.DraftResponse == "" {
		t.Fatal("draft response should survive approval")
	}
}

func TestRejectKeepsDraft(t *testing.T) {
	store := NewStore()
	store.Merge([]Comment{sample("a")})

	updated, err := store.Reject("a")
	if err != nil {
		t.Fatalf("reject failed: %v", err)
	}
	if updated.Status != StatusRejected {
		t.Fatalf("expected rejected, got %s", updated.Status)
	}
	if updated.ActualResponse != "" {
		t.Fatal("rejected comment must not carry an actual response")
	}
	if updated.DraftResponse == "" {
		t.Fatal("draft response should survive rejection")
	}
}

func TestTerminalStatusIsImmutable(t *testing.T) {
	store := NewStore()
	store.Merge([]Comment{sample("a")})
	if _, err := store.Approve("a", "reply", "dana"); err != nil {
		t.Fatalf("approve failed: %v", err)
	}

	if _, err := store.Approve("a", "again", "eva"); !errors.Is(err, ErrTerminalStatus) {
		t.Fatalf("expected ErrTerminalStatus, got %v", err)
	}
	if _, err := store.Reject("a"); !errors.Is(err, ErrTerminalStatus) {
		t.Fatalf("expected ErrTerminalStatus, got %v", err)
	}

	got, _ := store.Get("a")
	if got.ActualResponse != "reply" || got.ApprovedBy != "dana" {
		t.Fatalf("terminal comment mutated: %+v", got)
	}
}

func TestTransitionsOnUnknownID(t *testing.T) {
	store := NewStore()
	if _, err := store.Approve("ghost", "x", "op"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := store.Reject("ghost"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestStatusInvariantHoldsAcrossLifecycle(t *testing.T) {
	store := NewStore()
	auto := sample("auto").AutoResponded("automated reply")
	store.Merge([]Comment{sample("a"), sample("b"), auto})
	_, _ = store.Approve("a", "manual reply", "dana")
	_, _ = store.Reject("b")

	for _, c := range store.All() {
		hasResponse := c.ActualResponse != ""
		shouldHave := c.Status == StatusApproved || c.Status == StatusAutoResponded
		if hasResponse != shouldHave {
			t.Fatalf("invariant violated for %s: status=%s response=%q", c.ID, c.Status, c.ActualResponse)
		}
		if (c.ApprovedBy != "") != (c.Status == StatusApproved) {
			t.Fatalf("approved_by invariant violated for %s", c.ID)
		}
	}
}

func TestReplaceRestoresSnapshot(t *testing.T) {
	store := NewStore()
	store.Merge([]Comment{sample("old")})

	store.Replace([]Comment{sample("x"), sample("y")})
	if store.Len() != 2 {
		t.Fatalf("expected 2 after replace, got %d", store.Len())
	}
	if store.Contains("old") {
		t.Fatal("replace should drop prior contents")
	}
	if _, ok := store.Get("x"); !ok {
		t.Fatal("expected restored comment to be addressable")
	}
}
