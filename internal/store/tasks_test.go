package store

import (
	"context"
	"errors"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestTaskCreateAndGet(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	due := time.Date(2026, 9, 15, 12, 0, 0, 0, time.UTC)
	task := &Task{
		UserID:      "u1",
		Title:       "Buy groceries",
		Description: "milk and eggs",
		Priority:    "high",
		Tags:        []string{"errands"},
		DueDate:     &due,
	}
	if err := s.Tasks.Create(ctx, task); err != nil {
		t.Fatalf("create: %v", err)
	}
	if task.ID == 0 {
		t.Fatal("expected id to be assigned")
	}

	got, err := s.Tasks.Get(ctx, "u1", task.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Title != "Buy groceries" {
		t.Errorf("title = %q", got.Title)
	}
	if got.Priority != "high" {
		t.Errorf("priority = %q", got.Priority)
	}
	if len(got.Tags) != 1 || got.Tags[0] != "errands" {
		t.Errorf("tags = %v", got.Tags)
	}
	if got.DueDate == nil || !got.DueDate.Equal(due) {
		t.Errorf("due_date = %v", got.DueDate)
	}
	if got.Completed {
		t.Error("new task should not be completed")
	}
}

func TestTaskOwnershipScoping(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	task := &Task{UserID: "alice", Title: "secret"}
	if err := s.Tasks.Create(ctx, task); err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := s.Tasks.Get(ctx, "bob", task.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for other user, got %v", err)
	}
	if err := s.Tasks.Delete(ctx, "bob", task.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound deleting other user's task, got %v", err)
	}
	if _, err := s.Tasks.Get(ctx, "alice", task.ID); err != nil {
		t.Errorf("owner should still see the task: %v", err)
	}
}

func TestTaskListFilters(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for _, spec := range []struct {
		title     string
		completed bool
		priority  string
	}{
		{"a", false, "high"},
		{"b", true, "low"},
		{"c", false, "low"},
	} {
		task := &Task{UserID: "u1", Title: spec.title, Completed: spec.completed, Priority: spec.priority}
		if err := s.Tasks.Create(ctx, task); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	all, err := s.Tasks.List(ctx, "u1", TaskFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 tasks, got %d", len(all))
	}

	done := true
	completed, err := s.Tasks.List(ctx, "u1", TaskFilter{Completed: &done})
	if err != nil {
		t.Fatalf("list completed: %v", err)
	}
	if len(completed) != 1 || completed[0].Title != "b" {
		t.Errorf("completed filter returned %d tasks", len(completed))
	}

	low, err := s.Tasks.List(ctx, "u1", TaskFilter{Priority: "low"})
	if err != nil {
		t.Fatalf("list low: %v", err)
	}
	if len(low) != 2 {
		t.Errorf("expected 2 low tasks, got %d", len(low))
	}
}

func TestTaskListSearch(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for _, task := range []*Task{
		{UserID: "u1", Title: "Buy milk", Description: "from the corner shop"},
		{UserID: "u1", Title: "Gym", Description: "leg day"},
		{UserID: "u1", Title: "Call plumber", Description: "kitchen sink leaks milk white water"},
	} {
		if err := s.Tasks.Create(ctx, task); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	// Matches title or description, case-insensitively.
	got, err := s.Tasks.List(ctx, "u1", TaskFilter{Search: "MILK"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("expected 2 matches, got %d", len(got))
	}

	got, err = s.Tasks.List(ctx, "u1", TaskFilter{Search: "nothing here"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected no matches, got %d", len(got))
	}
}

func TestTaskListSort(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for _, spec := range []struct {
		title    string
		priority string
	}{
		{"bravo", "low"},
		{"alpha", "high"},
		{"charlie", "medium"},
	} {
		task := &Task{UserID: "u1", Title: spec.title, Priority: spec.priority}
		if err := s.Tasks.Create(ctx, task); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	byTitle, err := s.Tasks.List(ctx, "u1", TaskFilter{Sort: "title"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if byTitle[0].Title != "alpha" || byTitle[2].Title != "charlie" {
		t.Errorf("title sort order: %s, %s, %s", byTitle[0].Title, byTitle[1].Title, byTitle[2].Title)
	}

	byPriority, err := s.Tasks.List(ctx, "u1", TaskFilter{Sort: "priority"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if byPriority[0].Priority != "high" || byPriority[2].Priority != "low" {
		t.Errorf("priority sort order: %s, %s, %s",
			byPriority[0].Priority, byPriority[1].Priority, byPriority[2].Priority)
	}

	asc, err := s.Tasks.List(ctx, "u1", TaskFilter{Sort: "created_asc"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if asc[0].Title != "bravo" {
		t.Errorf("created_asc first = %s", asc[0].Title)
	}
}

func TestTaskFindByTitle(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	task := &Task{UserID: "u1", Title: "Call the Dentist"}
	if err := s.Tasks.Create(ctx, task); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := s.Tasks.FindByTitle(ctx, "u1", "dentist")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.ID != task.ID {
		t.Errorf("found wrong task %d", got.ID)
	}

	if _, err := s.Tasks.FindByTitle(ctx, "u1", "nonexistent"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestTaskBulkOps(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	var ids []int64
	for _, title := range []string{"a", "b", "c"} {
		task := &Task{UserID: "u1", Title: title}
		if err := s.Tasks.Create(ctx, task); err != nil {
			t.Fatalf("create: %v", err)
		}
		ids = append(ids, task.ID)
	}

	// One valid id plus one that does not exist: count reports actual rows.
	n, err := s.Tasks.BulkSetCompleted(ctx, "u1", []int64{ids[0], 9999}, true)
	if err != nil {
		t.Fatalf("bulk complete: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 completed, got %d", n)
	}

	n, err = s.Tasks.BulkDelete(ctx, "u1", []int64{ids[1], ids[2], 9999})
	if err != nil {
		t.Fatalf("bulk delete: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 deleted, got %d", n)
	}

	remaining, err := s.Tasks.List(ctx, "u1", TaskFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(remaining) != 1 {
		t.Errorf("expected 1 remaining task, got %d", len(remaining))
	}
}

func TestTaskUpdate(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	task := &Task{UserID: "u1", Title: "draft"}
	if err := s.Tasks.Create(ctx, task); err != nil {
		t.Fatalf("create: %v", err)
	}

	task.Title = "final"
	task.Priority = "high"
	task.Tags = []string{"work"}
	if err := s.Tasks.Update(ctx, task); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, err := s.Tasks.Get(ctx, "u1", task.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Title != "final" || got.Priority != "high" {
		t.Errorf("update not persisted: %+v", got)
	}
}

func TestListCompletedRecurring(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	recurring := &Task{UserID: "u1", Title: "water plants", Completed: true,
		IsRecurring: true, RecurrenceInterval: "daily"}
	plain := &Task{UserID: "u1", Title: "one-off", Completed: true}
	for _, task := range []*Task{recurring, plain} {
		if err := s.Tasks.Create(ctx, task); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	got, err := s.Tasks.ListCompletedRecurring(ctx)
	if err != nil {
		t.Fatalf("list recurring: %v", err)
	}
	if len(got) != 1 || got[0].ID != recurring.ID {
		t.Errorf("expected only the recurring task, got %d rows", len(got))
	}
}
