package dispatch

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/taskpilot/tasklist/internal/logging"
	"github.com/taskpilot/tasklist/internal/store"
)

// ListData is the payload of a successful List.
type ListData struct {
	Tasks []*store.Task `json:"tasks"`
	Total int           `json:"total"`
}

// DeleteData is the payload of a successful Delete. It carries the
// title because the record is gone afterwards.
type DeleteData struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

// Dispatcher executes operations against a task store. It is stateless
// and safe for concurrent use; concurrent mutations of the same task
// are last-write-wins, each call committing independently.
type Dispatcher struct {
	store  *store.Store
	logger *slog.Logger
}

// New returns a Dispatcher over st. A nil logger defaults to slog's
// package default.
func New(st *store.Store, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{store: st, logger: logger}
}

// Dispatch runs one operation and returns its result envelope. Every
// outcome, success or failure, uses the same envelope shape.
func (d *Dispatcher) Dispatch(ctx context.Context, op Operation) *Result {
	switch p := op.(type) {
	case AddParams:
		return d.add(ctx, p)
	case ListParams:
		return d.list(ctx, p)
	case CompleteParams:
		return d.complete(ctx, p)
	case DeleteParams:
		return d.delete(ctx, p)
	case UpdateParams:
		return d.update(ctx, p)
	default:
		return failure(CodeValidation, "Unsupported operation %T", op)
	}
}

func (d *Dispatcher) add(ctx context.Context, p AddParams) *Result {
	if res := requireOwner(p.Owner); res != nil {
		return res
	}
	title, res := validTitle(p.Title)
	if res != nil {
		return res
	}
	description, res := validDescription(p.Description)
	if res != nil {
		return res
	}
	priority := store.DefaultPriority
	if p.Priority != "" {
		parsed, err := store.ParsePriority(p.Priority)
		if err != nil {
			return failure(CodeValidation, "%s", capitalize(err.Error()))
		}
		priority = parsed
	}

	task, err := d.store.CreateTask(ctx, p.Owner, store.TaskFields{
		Title:       title,
		Description: description,
		Priority:    priority,
		Tags:        p.Tags,
	})
	if err != nil {
		return d.storageFailure(ctx, "add", err, "Failed to create task")
	}
	return success(task, "Task '%s' created successfully with ID %d", task.Title, task.ID)
}

func (d *Dispatcher) list(ctx context.Context, p ListParams) *Result {
	if res := requireOwner(p.Owner); res != nil {
		return res
	}

	filter := store.TaskFilter{
		OwnerID: p.Owner,
		Search:  p.Search,
		Tags:    p.Tags,
		Limit:   p.Limit,
		Offset:  p.Offset,
	}

	status := p.Status
	if status == "" {
		status = StatusAll
	}
	switch status {
	case StatusAll:
	case StatusPending:
		completed := false
		filter.Completed = &completed
	case StatusCompleted:
		completed := true
		filter.Completed = &completed
	default:
		return failure(CodeValidation, "Invalid status %q (must be all, pending or completed)", string(p.Status))
	}

	if p.Priority != "" {
		priority, err := store.ParsePriority(p.Priority)
		if err != nil {
			return failure(CodeValidation, "%s", capitalize(err.Error()))
		}
		filter.Priority = &priority
	}

	// Unrecognized sort inputs fall back to the default ordering
	// rather than failing the call.
	if field, err := store.ParseSortField(p.SortBy); err == nil {
		filter.SortBy = field
	}
	if order, err := store.ParseSortOrder(p.SortOrder); err == nil {
		filter.SortOrder = order
	}

	result, err := d.store.QueryTasks(ctx, filter)
	if err != nil {
		return d.storageFailure(ctx, "list", err, "Failed to list tasks")
	}
	return success(&ListData{Tasks: result.Tasks, Total: result.Total},
		"Found %d %s task(s)", len(result.Tasks), status)
}

func (d *Dispatcher) complete(ctx context.Context, p CompleteParams) *Result {
	task, res := d.resolve(ctx, p.Owner, p.Ref, "complete")
	if res != nil {
		return res
	}

	// Always a patch to completed=true, never the raw toggle, so a
	// repeated call stays a success instead of un-completing the task.
	completed := true
	updated, err := d.store.PatchTask(ctx, task.ID, store.TaskPatch{Completed: &completed})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return notFound(p.Ref)
		}
		return d.storageFailure(ctx, "complete", err, "Failed to complete task")
	}
	return success(updated, "Task '%s' marked as complete", updated.Title)
}

func (d *Dispatcher) delete(ctx context.Context, p DeleteParams) *Result {
	task, res := d.resolve(ctx, p.Owner, p.Ref, "delete")
	if res != nil {
		return res
	}

	if err := d.store.DeleteTask(ctx, task.ID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return notFound(p.Ref)
		}
		return d.storageFailure(ctx, "delete", err, "Failed to delete task")
	}
	return success(&DeleteData{ID: task.ID, Title: task.Title},
		"Task '%s' deleted successfully", task.Title)
}

func (d *Dispatcher) update(ctx context.Context, p UpdateParams) *Result {
	if p.Title == nil && p.Description == nil && p.Priority == nil && p.Tags == nil {
		return failure(CodeValidation, "No fields to update")
	}

	patch := store.TaskPatch{Tags: p.Tags}
	if p.Title != nil {
		title, res := validTitle(*p.Title)
		if res != nil {
			return res
		}
		patch.Title = &title
	}
	if p.Description != nil {
		description, res := validDescription(*p.Description)
		if res != nil {
			return res
		}
		patch.Description = &description
	}
	if p.Priority != nil {
		priority, err := store.ParsePriority(*p.Priority)
		if err != nil {
			return failure(CodeValidation, "%s", capitalize(err.Error()))
		}
		patch.Priority = &priority
	}

	task, res := d.resolve(ctx, p.Owner, p.Ref, "update")
	if res != nil {
		return res
	}

	updated, err := d.store.PatchTask(ctx, task.ID, patch)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return notFound(p.Ref)
		}
		return d.storageFailure(ctx, "update", err, "Failed to update task")
	}
	return success(updated, "Task '%s' updated successfully", updated.Title)
}

// resolve turns a TaskRef into a task the caller is allowed to touch.
// A second return value other than nil is the terminal failure
// envelope for this call.
func (d *Dispatcher) resolve(ctx context.Context, owner int64, ref TaskRef, verb string) (*store.Task, *Result) {
	if res := requireOwner(owner); res != nil {
		return nil, res
	}
	if ref.isZero() {
		return nil, failure(CodeValidation, "A task id or title is required")
	}

	if ref.ID != 0 {
		task, err := d.store.GetTask(ctx, ref.ID)
		if errors.Is(err, store.ErrNotFound) {
			return nil, notFound(ref)
		}
		if err != nil {
			return nil, d.storageFailure(ctx, verb, err, "Failed to %s task", verb)
		}
		if task.OwnerID != owner {
			// Same message whether or not the task exists for someone
			// else; the caller learns nothing about other owners' data.
			return nil, failure(CodePermissionDenied, "You don't have permission to %s this task", verb)
		}
		return task, nil
	}

	task, err := d.store.ResolveByTitle(ctx, owner, strings.TrimSpace(ref.Title))
	if errors.Is(err, store.ErrNotFound) {
		return nil, notFound(ref)
	}
	if err != nil {
		return nil, d.storageFailure(ctx, verb, err, "Failed to %s task", verb)
	}
	return task, nil
}

func (d *Dispatcher) storageFailure(ctx context.Context, op string, err error, format string, args ...any) *Result {
	d.logger.ErrorContext(ctx, "store operation failed",
		slog.String(logging.KeyOperation, op),
		logging.Err(err),
	)
	return failure(CodeStorage, format, args...)
}

func requireOwner(owner int64) *Result {
	if owner <= 0 {
		return failure(CodeValidation, "Owner is required")
	}
	return nil
}

func notFound(ref TaskRef) *Result {
	if ref.ID != 0 {
		return failure(CodeNotFound, "Task with ID %d not found", ref.ID)
	}
	return failure(CodeNotFound, "Task '%s' not found", strings.TrimSpace(ref.Title))
}

func validTitle(raw string) (string, *Result) {
	title := strings.TrimSpace(raw)
	if title == "" {
		return "", failure(CodeValidation, "Title must not be empty")
	}
	if len(title) > MaxTitleLen {
		return "", failure(CodeValidation, "Title must be at most %d characters", MaxTitleLen)
	}
	return title, nil
}

func validDescription(raw string) (string, *Result) {
	description := strings.TrimSpace(raw)
	if len(description) > MaxDescriptionLen {
		return "", failure(CodeValidation, "Description must be at most %d characters", MaxDescriptionLen)
	}
	return description, nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
