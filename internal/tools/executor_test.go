package tools

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/todoevolve/server/internal/llm"
	"github.com/todoevolve/server/internal/store"
	"github.com/todoevolve/server/internal/weather"
)

type fakeCompleter struct {
	text     string
	degraded bool
}

func (f *fakeCompleter) Complete(ctx context.Context, messages []llm.Message) llm.Result {
	if f.degraded {
		return llm.Result{Text: llm.DegradedMessage, Provider: llm.DegradedProvider, Status: llm.StatusDegraded}
	}
	return llm.Result{Text: f.text, Provider: "test", Status: llm.StatusOK}
}

func newTestExecutor(t *testing.T, completer Completer) (*Executor, *store.Store) {
	t.Helper()
	s, err := store.Open(":memory:")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	if completer == nil {
		completer = &fakeCompleter{}
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	wc := weather.New("http://127.0.0.1:0/geocode", "http://127.0.0.1:0/forecast")
	planner := NewPlanner(completer, s.Tasks)
	return NewExecutor(s.Tasks, wc, planner, logger), s
}

func mustExecute(t *testing.T, e *Executor, name, userID string, args Args) Result {
	t.Helper()
	res, err := e.Execute(context.Background(), name, userID, args)
	if err != nil {
		t.Fatalf("execute %s: %v", name, err)
	}
	return res
}

func TestExecuteUnknownTool(t *testing.T) {
	e, _ := newTestExecutor(t, nil)
	_, err := e.Execute(context.Background(), "fly_to_moon", "u1", Args{})
	if !errors.Is(err, ErrUnknownTool) {
		t.Fatalf("expected ErrUnknownTool, got %v", err)
	}
}

func TestAddAndListTasks(t *testing.T) {
	e, _ := newTestExecutor(t, nil)

	res := mustExecute(t, e, "add_task", "u1", Args{
		"title":    "Buy milk",
		"priority": "high",
		"tags":     []any{"errands"},
	})
	if res.IsError() {
		t.Fatalf("add_task failed: %v", res["message"])
	}
	if !strings.Contains(res["message"].(string), "Buy milk") {
		t.Errorf("message = %v", res["message"])
	}

	res = mustExecute(t, e, "list_tasks", "u1", Args{"status": "pending"})
	if res.IsError() {
		t.Fatalf("list_tasks failed: %v", res["message"])
	}
	tasks := res["tasks"].([]*store.Task)
	if len(tasks) != 1 || tasks[0].Title != "Buy milk" {
		t.Errorf("unexpected tasks %v", tasks)
	}
}

func TestAddTaskRequiresTitle(t *testing.T) {
	e, _ := newTestExecutor(t, nil)
	res := mustExecute(t, e, "add_task", "u1", Args{})
	if !res.IsError() {
		t.Error("expected error result for missing title")
	}
}

func TestListTasksEmpty(t *testing.T) {
	e, _ := newTestExecutor(t, nil)
	res := mustExecute(t, e, "list_tasks", "u1", Args{})
	if res.IsError() {
		t.Fatalf("list failed: %v", res["message"])
	}
	if res["message"] != "No tasks found." {
		t.Errorf("message = %v", res["message"])
	}
}

func TestCompleteTask(t *testing.T) {
	e, s := newTestExecutor(t, nil)

	task := &store.Task{UserID: "u1", Title: "Gym"}
	if err := s.Tasks.Create(context.Background(), task); err != nil {
		t.Fatal(err)
	}

	res := mustExecute(t, e, "complete_task", "u1", Args{"task_id": float64(task.ID)})
	if res.IsError() {
		t.Fatalf("complete failed: %v", res["message"])
	}
	if !strings.Contains(res["message"].(string), "completed") {
		t.Errorf("message = %v", res["message"])
	}

	// Toggle back to pending.
	res = mustExecute(t, e, "complete_task", "u1", Args{"task_id": float64(task.ID), "completed": false})
	if !strings.Contains(res["message"].(string), "marked as pending") {
		t.Errorf("message = %v", res["message"])
	}

	res = mustExecute(t, e, "complete_task", "u1", Args{"task_id": float64(9999)})
	if !res.IsError() {
		t.Error("expected error for missing task")
	}
}

func TestBulkCompleteReportsActualCount(t *testing.T) {
	e, s := newTestExecutor(t, nil)
	ctx := context.Background()

	t1 := &store.Task{UserID: "u1", Title: "a"}
	t2 := &store.Task{UserID: "u1", Title: "b"}
	other := &store.Task{UserID: "u2", Title: "not yours"}
	for _, task := range []*store.Task{t1, t2, other} {
		if err := s.Tasks.Create(ctx, task); err != nil {
			t.Fatal(err)
		}
	}

	res := mustExecute(t, e, "bulk_complete_tasks", "u1", Args{
		"task_ids": []any{float64(t1.ID), float64(t2.ID), float64(other.ID)},
	})
	if res.IsError() {
		t.Fatalf("bulk complete failed: %v", res["message"])
	}
	if res["message"] != "2 tasks completed." {
		t.Errorf("message = %v", res["message"])
	}
}

func TestBulkCompleteNoIDs(t *testing.T) {
	e, _ := newTestExecutor(t, nil)
	res := mustExecute(t, e, "bulk_complete_tasks", "u1", Args{})
	if !res.IsError() || res["message"] != "No task IDs provided." {
		t.Errorf("unexpected result %v", res)
	}
}

func TestDeleteTaskByIDAndTitle(t *testing.T) {
	e, s := newTestExecutor(t, nil)
	ctx := context.Background()

	t1 := &store.Task{UserID: "u1", Title: "Call the dentist"}
	t2 := &store.Task{UserID: "u1", Title: "Water plants"}
	for _, task := range []*store.Task{t1, t2} {
		if err := s.Tasks.Create(ctx, task); err != nil {
			t.Fatal(err)
		}
	}

	res := mustExecute(t, e, "delete_task", "u1", Args{"task_id": float64(t1.ID)})
	if res.IsError() {
		t.Fatalf("delete by id failed: %v", res["message"])
	}

	res = mustExecute(t, e, "delete_task", "u1", Args{"title": "water"})
	if res.IsError() {
		t.Fatalf("delete by title failed: %v", res["message"])
	}
	if !strings.Contains(res["message"].(string), "Water plants") {
		t.Errorf("message = %v", res["message"])
	}
}

func TestDeleteTaskWithoutSelector(t *testing.T) {
	e, _ := newTestExecutor(t, nil)
	res := mustExecute(t, e, "delete_task", "u1", Args{})
	if !res.IsError() || res["message"] != "Please provide either task_id or title to delete." {
		t.Errorf("unexpected result %v", res)
	}
}

func TestBulkDeleteCountsOnlyOwnedRows(t *testing.T) {
	e, s := newTestExecutor(t, nil)
	ctx := context.Background()

	t1 := &store.Task{UserID: "u1", Title: "a"}
	other := &store.Task{UserID: "u2", Title: "b"}
	for _, task := range []*store.Task{t1, other} {
		if err := s.Tasks.Create(ctx, task); err != nil {
			t.Fatal(err)
		}
	}

	res := mustExecute(t, e, "bulk_delete_tasks", "u1", Args{
		"task_ids": []any{float64(t1.ID), float64(other.ID)},
	})
	if res["message"] != "Deleted 1 tasks." {
		t.Errorf("message = %v", res["message"])
	}

	// Other user's task survives.
	if _, err := s.Tasks.Get(ctx, "u2", other.ID); err != nil {
		t.Errorf("other user's task should survive: %v", err)
	}
}

func TestUpdateTask(t *testing.T) {
	e, s := newTestExecutor(t, nil)
	ctx := context.Background()

	task := &store.Task{UserID: "u1", Title: "draft", Description: "keep me"}
	if err := s.Tasks.Create(ctx, task); err != nil {
		t.Fatal(err)
	}

	res := mustExecute(t, e, "update_task", "u1", Args{
		"task_id":  float64(task.ID),
		"title":    "final",
		"priority": "high",
	})
	if res.IsError() {
		t.Fatalf("update failed: %v", res["message"])
	}

	got, err := s.Tasks.Get(ctx, "u1", task.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Title != "final" || got.Priority != "high" {
		t.Errorf("update not applied: %+v", got)
	}
	// Omitted field untouched.
	if got.Description != "keep me" {
		t.Errorf("description should be unchanged, got %q", got.Description)
	}
}

func TestSkillTools(t *testing.T) {
	e, _ := newTestExecutor(t, nil)

	res := mustExecute(t, e, "detect_language", "u1", Args{"text": "ضروری"})
	if res["language"] != "ur" {
		t.Errorf("language = %v", res["language"])
	}

	res = mustExecute(t, e, "suggest_priority", "u1", Args{"text": "urgent fix"})
	if res["priority"] != "high" {
		t.Errorf("priority = %v", res["priority"])
	}

	res = mustExecute(t, e, "schedule_reminder", "u1", Args{"text": "remind me tomorrow"})
	if res["reminder_date"] == nil {
		t.Error("expected reminder_date for 'tomorrow'")
	}

	res = mustExecute(t, e, "schedule_reminder", "u1", Args{"text": "no date"})
	if res["reminder_date"] != nil {
		t.Errorf("expected nil reminder_date, got %v", res["reminder_date"])
	}

	res = mustExecute(t, e, "get_deployment_blueprint", "u1", Args{"type": "scale"})
	if !strings.Contains(res["blueprint"].(string), "kubectl scale") {
		t.Errorf("blueprint = %v", res["blueprint"])
	}
}

func TestGetWeatherDegradesToErrorResult(t *testing.T) {
	// Unreachable endpoints: the tool must answer with an error Result,
	// never a Go error that would abort the conversation.
	e, _ := newTestExecutor(t, nil)
	res := mustExecute(t, e, "get_weather", "u1", Args{"city": "Karachi"})
	if !res.IsError() {
		t.Error("expected error result for unreachable weather API")
	}

	res = mustExecute(t, e, "get_weather", "u1", Args{})
	if !res.IsError() || res["message"] != "City name is required." {
		t.Errorf("unexpected result %v", res)
	}
}

func TestGetWeatherSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if strings.HasPrefix(r.URL.Path, "/geo") {
			w.Write([]byte(`{"results":[{"name":"London","latitude":51.5,"longitude":-0.1}]}`))
			return
		}
		w.Write([]byte(`{"current":{"temperature_2m":12.0,"weather_code":61},"current_units":{"temperature_2m":"°C"}}`))
	}))
	defer srv.Close()

	s, err := store.Open(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	wc := weather.New(srv.URL+"/geo", srv.URL+"/forecast")
	e := NewExecutor(s.Tasks, wc, NewPlanner(&fakeCompleter{}, s.Tasks), logger)

	res := mustExecute(t, e, "get_weather", "u1", Args{"city": "London"})
	if res.IsError() {
		t.Fatalf("weather failed: %v", res["message"])
	}
	if !strings.Contains(res["message"].(string), "Rain") {
		t.Errorf("message = %v", res["message"])
	}
}
