package idea

import (
	"strconv"
	"testing"
	"time"

	"github.com/hitoshi/ideaboard/internal/model"
)

// --- FindIndexByID ---

func TestFindIndexByID_Found(t *testing.T) {
	ideas := []model.Idea{
		{ID: "1"},
		{ID: "2"},
		{ID: "3"},
	}

	if idx := FindIndexByID(ideas, "2"); idx != 1 {
		t.Errorf("index = %d, want 1", idx)
	}
}

func TestFindIndexByID_NotFound(t *testing.T) {
	ideas := []model.Idea{{ID: "1"}}

	if idx := FindIndexByID(ideas, "999"); idx != -1 {
		t.Errorf("index = %d, want -1", idx)
	}
}

func TestFindIndexByID_EmptyCollection(t *testing.T) {
	if idx := FindIndexByID(nil, "1"); idx != -1 {
		t.Errorf("index = %d, want -1", idx)
	}
}

// --- NextID ---

func TestNextID_UsesUnixMillis(t *testing.T) {
	now := time.UnixMilli(1700000000000)

	id := NextID(nil, now)
	if id != "1700000000000" {
		t.Errorf("id = %q, want %q", id, "1700000000000")
	}
}

func TestNextID_CollisionBumpsPastMax(t *testing.T) {
	now := time.UnixMilli(1700000000000)
	ideas := []model.Idea{
		{ID: "1700000000000"},
		{ID: "1700000000005"},
	}

	id := NextID(ideas, now)
	if id != "1700000000006" {
		t.Errorf("id = %q, want %q", id, "1700000000006")
	}
}

func TestNextID_IgnoresNonNumericIDs(t *testing.T) {
	now := time.UnixMilli(1700000000000)
	ideas := []model.Idea{{ID: "not-a-number"}}

	id := NextID(ideas, now)
	if id != "1700000000000" {
		t.Errorf("id = %q, want %q", id, "1700000000000")
	}
}

func TestNextID_MonotonicAcrossSequentialCreates(t *testing.T) {
	now := time.UnixMilli(1700000000000)
	var ideas []model.Idea

	// 同一ミリ秒内で連続採番しても単調増加かつ一意になる
	var prev int64
	for i := 0; i < 10; i++ {
		id := NextID(ideas, now)
		n, err := strconv.ParseInt(id, 10, 64)
		if err != nil {
			t.Fatalf("non-numeric id %q: %v", id, err)
		}
		if n <= prev {
			t.Fatalf("id %d not greater than previous %d", n, prev)
		}
		prev = n
		ideas = append(ideas, model.Idea{ID: id})
	}
}

// --- SortedByVotes ---

func TestSortedByVotes_DescendingOrder(t *testing.T) {
	ideas := []model.Idea{
		{ID: "1", Votes: 1},
		{ID: "2", Votes: 5},
		{ID: "3", Votes: 3},
	}

	sorted := SortedByVotes(ideas)

	wantOrder := []string{"2", "3", "1"}
	for i, want := range wantOrder {
		if sorted[i].ID != want {
			t.Errorf("sorted[%d].ID = %q, want %q", i, sorted[i].ID, want)
		}
	}
}

func TestSortedByVotes_StableForTies(t *testing.T) {
	ideas := []model.Idea{
		{ID: "a", Votes: 2},
		{ID: "b", Votes: 2},
		{ID: "c", Votes: 2},
	}

	sorted := SortedByVotes(ideas)

	// 同数の場合は元の相対順序を保つ
	wantOrder := []string{"a", "b", "c"}
	for i, want := range wantOrder {
		if sorted[i].ID != want {
			t.Errorf("sorted[%d].ID = %q, want %q", i, sorted[i].ID, want)
		}
	}
}

func TestSortedByVotes_DoesNotMutateInput(t *testing.T) {
	ideas := []model.Idea{
		{ID: "1", Votes: 1},
		{ID: "2", Votes: 5},
	}

	SortedByVotes(ideas)

	if ideas[0].ID != "1" || ideas[1].ID != "2" {
		t.Error("input collection was mutated")
	}
}

func TestSortedByVotes_NonIncreasing(t *testing.T) {
	ideas := []model.Idea{
		{ID: "1", Votes: 0},
		{ID: "2", Votes: 7},
		{ID: "3", Votes: 7},
		{ID: "4", Votes: 2},
	}

	sorted := SortedByVotes(ideas)

	for i := 1; i < len(sorted); i++ {
		if sorted[i].Votes > sorted[i-1].Votes {
			t.Errorf("votes increase at index %d: %d > %d", i, sorted[i].Votes, sorted[i-1].Votes)
		}
	}
}
