package tools

import (
	"context"
	"errors"
	"fmt"

	"github.com/todoevolve/server/internal/store"
)

type taskHandlers struct {
	tasks *store.TaskStore
}

func (h *taskHandlers) add(ctx context.Context, userID string, args Args) Result {
	title := args.String("title")
	if title == "" {
		return Errorf("Title is required.")
	}

	task := &store.Task{
		UserID:      userID,
		Title:       title,
		Description: args.String("description"),
		Priority:    args.StringOr("priority", "medium"),
		Tags:        args.Strings("tags"),
	}
	if err := h.tasks.Create(ctx, task); err != nil {
		return Errorf("Failed to create task: %v", err)
	}
	return Success(formatCreated(task)).With("task", task)
}

func formatCreated(task *store.Task) string {
	return fmt.Sprintf("Task created: '%s' with %s priority (ID: %d)", task.Title, task.Priority, task.ID)
}

func (h *taskHandlers) list(ctx context.Context, userID string, args Args) Result {
	status := args.StringOr("status", "all")
	limit := args.IntOr("limit", 20)

	filter := store.TaskFilter{}
	switch status {
	case "pending":
		f := false
		filter.Completed = &f
	case "completed":
		t := true
		filter.Completed = &t
	}

	tasks, err := h.tasks.List(ctx, userID, filter)
	if err != nil {
		return Errorf("Failed to list tasks: %v", err)
	}
	if limit > 0 && len(tasks) > limit {
		tasks = tasks[:limit]
	}
	if len(tasks) == 0 {
		return Success("No tasks found.").With("tasks", []*store.Task{})
	}
	return Success(fmt.Sprintf("Found %d tasks.", len(tasks))).With("tasks", tasks)
}

func (h *taskHandlers) complete(ctx context.Context, userID string, args Args) Result {
	taskID, ok := args.Int64("task_id")
	if !ok {
		return Errorf("task_id is required.")
	}
	completed := args.BoolOr("completed", true)

	task, err := h.tasks.Get(ctx, userID, taskID)
	if err != nil {
		return Errorf("Task with ID %d not found.", taskID)
	}
	if err := h.tasks.SetCompleted(ctx, userID, taskID, completed); err != nil {
		return Errorf("Failed to update task: %v", err)
	}
	return Success(fmt.Sprintf("Task '%s' has been %s.", task.Title, completionText(completed)))
}

func (h *taskHandlers) bulkComplete(ctx context.Context, userID string, args Args) Result {
	ids := args.Int64s("task_ids")
	if len(ids) == 0 {
		return Errorf("No task IDs provided.")
	}
	completed := args.BoolOr("completed", true)

	count, err := h.tasks.BulkSetCompleted(ctx, userID, ids, completed)
	if err != nil {
		return Errorf("Failed to update tasks: %v", err)
	}
	if count == 0 {
		return Errorf("No valid tasks found.")
	}
	return Success(fmt.Sprintf("%d tasks %s.", count, completionText(completed)))
}

func (h *taskHandlers) delete(ctx context.Context, userID string, args Args) Result {
	taskID, hasID := args.Int64("task_id")
	title := args.String("title")

	var task *store.Task
	var err error
	switch {
	case hasID:
		task, err = h.tasks.Get(ctx, userID, taskID)
	case title != "":
		task, err = h.tasks.FindByTitle(ctx, userID, title)
	default:
		return Errorf("Please provide either task_id or title to delete.")
	}
	if err != nil {
		return Errorf("Task not found.")
	}

	if err := h.tasks.Delete(ctx, userID, task.ID); err != nil {
		return Errorf("Failed to delete task: %v", err)
	}
	return Success(fmt.Sprintf("Task '%s' has been deleted.", task.Title))
}

func (h *taskHandlers) bulkDelete(ctx context.Context, userID string, args Args) Result {
	ids := args.Int64s("task_ids")
	if len(ids) == 0 {
		return Errorf("No task IDs provided.")
	}

	count, err := h.tasks.BulkDelete(ctx, userID, ids)
	if err != nil {
		return Errorf("Failed to delete tasks: %v", err)
	}
	if count == 0 {
		return Errorf("No valid tasks found to delete.")
	}
	return Success(fmt.Sprintf("Deleted %d tasks.", count))
}

func (h *taskHandlers) update(ctx context.Context, userID string, args Args) Result {
	taskID, ok := args.Int64("task_id")
	if !ok {
		return Errorf("task_id is required.")
	}

	task, err := h.tasks.Get(ctx, userID, taskID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return Errorf("Task with ID %d not found.", taskID)
		}
		return Errorf("Failed to load task: %v", err)
	}

	if args.Has("title") {
		task.Title = args.String("title")
	}
	if args.Has("description") {
		task.Description = args.String("description")
	}
	if args.Has("priority") {
		task.Priority = args.String("priority")
	}

	if err := h.tasks.Update(ctx, task); err != nil {
		return Errorf("Failed to update task: %v", err)
	}
	return Success(fmt.Sprintf("Task #%d has been updated: '%s' (%s)", task.ID, task.Title, task.Priority))
}

func completionText(completed bool) string {
	if completed {
		return "completed"
	}
	return "marked as pending"
}
