package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/taskpilot/tasklist/internal/store"
)

func seedQueryFixtures(t *testing.T, s *store.Store) {
	t.Helper()
	fixtures := []store.TaskFields{
		{Title: "Buy milk", Description: "whole milk", Priority: store.PriorityHigh, Tags: []string{"errand", "groceries"}},
		{Title: "Walk the dog", Description: "around the park", Priority: store.PriorityLow, Tags: []string{"errand"}},
		{Title: "File taxes", Description: "before the deadline", Priority: store.PriorityHigh, Tags: []string{"paperwork"}},
		{Title: "Read a book", Description: "", Priority: store.PriorityMedium},
	}
	for _, f := range fixtures {
		mustCreate(t, s, 7, f)
		// Spread created_at so ordering assertions are stable.
		time.Sleep(2 * time.Millisecond)
	}
	mustCreate(t, s, 8, store.TaskFields{Title: "Someone else's task", Priority: store.PriorityHigh})
}

func titles(res *store.QueryResult) []string {
	out := make([]string, 0, len(res.Tasks))
	for _, task := range res.Tasks {
		out = append(out, task.Title)
	}
	return out
}

func TestQueryTasksOwnerIsolation(t *testing.T) {
	s := openTestStore(t)
	seedQueryFixtures(t, s)

	res, err := s.QueryTasks(context.Background(), store.TaskFilter{OwnerID: 7})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if res.Total != 4 {
		t.Fatalf("expected 4 tasks for owner 7, got %d", res.Total)
	}
	for _, task := range res.Tasks {
		if task.OwnerID != 7 {
			t.Fatalf("task %d leaked from owner %d", task.ID, task.OwnerID)
		}
	}
}

func TestQueryTasksSearchMatchesTitleOrDescription(t *testing.T) {
	s := openTestStore(t)
	seedQueryFixtures(t, s)
	ctx := context.Background()

	byTitle, err := s.QueryTasks(ctx, store.TaskFilter{OwnerID: 7, Search: "MILK"})
	if err != nil {
		t.Fatalf("query by title: %v", err)
	}
	if byTitle.Total != 1 || byTitle.Tasks[0].Title != "Buy milk" {
		t.Fatalf("case-insensitive title search failed: %v", titles(byTitle))
	}

	byDesc, err := s.QueryTasks(ctx, store.TaskFilter{OwnerID: 7, Search: "deadline"})
	if err != nil {
		t.Fatalf("query by description: %v", err)
	}
	if byDesc.Total != 1 || byDesc.Tasks[0].Title != "File taxes" {
		t.Fatalf("description search failed: %v", titles(byDesc))
	}
}

func TestQueryTasksSearchEscapesLikeMetacharacters(t *testing.T) {
	s := openTestStore(t)
	mustCreate(t, s, 7, store.TaskFields{Title: "100% done"})
	mustCreate(t, s, 7, store.TaskFields{Title: "100 percent done"})

	res, err := s.QueryTasks(context.Background(), store.TaskFilter{OwnerID: 7, Search: "100%"})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if res.Total != 1 || res.Tasks[0].Title != "100% done" {
		t.Fatalf("expected literal %% match only, got %v", titles(res))
	}
}

func TestQueryTasksFilterCompletedAndPriority(t *testing.T) {
	s := openTestStore(t)
	seedQueryFixtures(t, s)
	ctx := context.Background()

	done := mustCreate(t, s, 7, store.TaskFields{Title: "already done", Completed: true})

	completed := true
	res, err := s.QueryTasks(ctx, store.TaskFilter{OwnerID: 7, Completed: &completed})
	if err != nil {
		t.Fatalf("query completed: %v", err)
	}
	if res.Total != 1 || res.Tasks[0].ID != done.ID {
		t.Fatalf("completed filter failed: %v", titles(res))
	}

	high := store.PriorityHigh
	res, err = s.QueryTasks(ctx, store.TaskFilter{OwnerID: 7, Priority: &high})
	if err != nil {
		t.Fatalf("query priority: %v", err)
	}
	if res.Total != 2 {
		t.Fatalf("expected 2 high-priority tasks, got %d: %v", res.Total, titles(res))
	}
}

func TestQueryTasksTagFilterIsConjunctive(t *testing.T) {
	s := openTestStore(t)
	seedQueryFixtures(t, s)
	ctx := context.Background()

	res, err := s.QueryTasks(ctx, store.TaskFilter{OwnerID: 7, Tags: []string{"errand"}})
	if err != nil {
		t.Fatalf("query one tag: %v", err)
	}
	if res.Total != 2 {
		t.Fatalf("expected 2 errand tasks, got %d", res.Total)
	}

	res, err = s.QueryTasks(ctx, store.TaskFilter{OwnerID: 7, Tags: []string{"errand", "groceries"}})
	if err != nil {
		t.Fatalf("query two tags: %v", err)
	}
	if res.Total != 1 || res.Tasks[0].Title != "Buy milk" {
		t.Fatalf("expected only the task carrying both tags, got %v", titles(res))
	}

	res, err = s.QueryTasks(ctx, store.TaskFilter{OwnerID: 7, Tags: []string{"errand", "nosuch"}})
	if err != nil {
		t.Fatalf("query missing tag: %v", err)
	}
	if res.Total != 0 {
		t.Fatalf("expected no matches with an unknown tag, got %v", titles(res))
	}
}

func TestQueryTasksSortByPriorityRank(t *testing.T) {
	s := openTestStore(t)
	seedQueryFixtures(t, s)

	res, err := s.QueryTasks(context.Background(), store.TaskFilter{
		OwnerID:   7,
		SortBy:    store.SortPriority,
		SortOrder: store.SortAsc,
	})
	if err != nil {
		t.Fatalf("query: %v", err)
	}

	var last = -1
	rank := map[store.Priority]int{store.PriorityLow: 0, store.PriorityMedium: 1, store.PriorityHigh: 2}
	for _, task := range res.Tasks {
		r := rank[task.Priority]
		if r < last {
			t.Fatalf("priority order violated: %v", titles(res))
		}
		last = r
	}
	if res.Tasks[0].Priority != store.PriorityLow {
		t.Fatalf("ascending priority should start at low, got %q", res.Tasks[0].Priority)
	}
}

func TestQueryTasksDefaultSortNewestFirst(t *testing.T) {
	s := openTestStore(t)
	seedQueryFixtures(t, s)

	res, err := s.QueryTasks(context.Background(), store.TaskFilter{OwnerID: 7})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if res.Tasks[0].Title != "Read a book" {
		t.Fatalf("expected newest task first, got %v", titles(res))
	}
}

func TestQueryTasksPagination(t *testing.T) {
	s := openTestStore(t)
	seedQueryFixtures(t, s)
	ctx := context.Background()

	page, err := s.QueryTasks(ctx, store.TaskFilter{OwnerID: 7, Limit: 2})
	if err != nil {
		t.Fatalf("query page 1: %v", err)
	}
	if len(page.Tasks) != 2 {
		t.Fatalf("expected page of 2, got %d", len(page.Tasks))
	}
	if page.Total != 4 {
		t.Fatalf("total must count before pagination, got %d", page.Total)
	}
	if page.Total < len(page.Tasks) {
		t.Fatalf("total %d < returned %d", page.Total, len(page.Tasks))
	}

	rest, err := s.QueryTasks(ctx, store.TaskFilter{OwnerID: 7, Limit: 10, Offset: 2})
	if err != nil {
		t.Fatalf("query page 2: %v", err)
	}
	if len(rest.Tasks) != 2 {
		t.Fatalf("expected remaining 2, got %d", len(rest.Tasks))
	}
	if rest.Tasks[0].ID == page.Tasks[0].ID {
		t.Fatal("pages overlap")
	}
}

func TestQueryTasksClampsLimitAndOffset(t *testing.T) {
	s := openTestStore(t)
	seedQueryFixtures(t, s)
	ctx := context.Background()

	res, err := s.QueryTasks(ctx, store.TaskFilter{OwnerID: 7, Limit: 100000, Offset: -5})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(res.Tasks) != 4 {
		t.Fatalf("expected clamped query to return all 4, got %d", len(res.Tasks))
	}

	empty, err := s.QueryTasks(ctx, store.TaskFilter{OwnerID: 7, Offset: 50})
	if err != nil {
		t.Fatalf("query past end: %v", err)
	}
	if len(empty.Tasks) != 0 || empty.Total != 4 {
		t.Fatalf("offset past end should return empty page with full total, got %d/%d", len(empty.Tasks), empty.Total)
	}
}

func TestParseSortField(t *testing.T) {
	if _, err := store.ParseSortField("created_at"); err != nil {
		t.Fatalf("created_at should parse: %v", err)
	}
	if _, err := store.ParseSortField("owner_id"); err == nil {
		t.Fatal("fields outside the allow-list must be rejected")
	}
	if _, err := store.ParseSortOrder("sideways"); err == nil {
		t.Fatal("invalid sort order must be rejected")
	}
}
