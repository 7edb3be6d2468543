package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sakif/taskora/internal/apperror"
	"github.com/sakif/taskora/internal/model"
	"github.com/sakif/taskora/internal/repository"
)

// dueDateLayout is the only accepted due date shape: a bare ISO-8601
// calendar date, no time-of-day, no zone.
const dueDateLayout = "2006-01-02"

// TaskService handles the business rules around tasks: required fields,
// due date shape, category defaulting, and the derived views (overview,
// category summary) the screens used to compute client-side.
type TaskService struct {
	tasks  repository.TaskRepository
	logger *slog.Logger
}

// NewTaskService creates a TaskService.
func NewTaskService(tasks repository.TaskRepository, logger *slog.Logger) *TaskService {
	return &TaskService{
		tasks:  tasks,
		logger: logger,
	}
}

// Overview is a user's task list split the way the home screen shows it:
// tasks still to do first, done tasks below. Both halves keep the
// newest-first order of the underlying list.
type Overview struct {
	Active    []model.Task `json:"active"`
	Completed []model.Task `json:"completed"`
}

// Create validates and stores a new task for the given user.
//
// description and dueDate may be nil (absent); category falls back to
// "Personal" when empty. A present dueDate must parse as YYYY-MM-DD —
// anything else would silently break the date display on every screen.
func (s *TaskService) Create(ctx context.Context, userID int64, title string, description, dueDate *string, category string) (*model.Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, apperror.ValidationFailed("title", "Title is required")
	}
	if err := validateDueDate(dueDate); err != nil {
		return nil, err
	}

	task := &model.Task{
		UserID:      userID,
		Title:       title,
		Description: description,
		DueDate:     dueDate,
		Category:    category, // repository applies the default when empty
	}

	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("service/task: creating task: %w", err)
	}

	s.logger.Info("task created",
		slog.Int64("taskID", task.ID),
		slog.Int64("userID", userID),
		slog.String("category", task.Category),
	)

	return task, nil
}

// List returns all of a user's tasks, newest first.
func (s *TaskService) List(ctx context.Context, userID int64) ([]model.Task, error) {
	tasks, err := s.tasks.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service/task: listing tasks: %w", err)
	}
	return tasks, nil
}

// ListByCategory returns the user's tasks in one category, newest first.
func (s *TaskService) ListByCategory(ctx context.Context, userID int64, category string) ([]model.Task, error) {
	tasks, err := s.tasks.ListByCategory(ctx, userID, category)
	if err != nil {
		return nil, fmt.Errorf("service/task: listing tasks by category: %w", err)
	}
	return tasks, nil
}

// Get returns a single task by id. apperror.ErrNotFound passes through —
// "task not found" is a branch the caller renders, not a fault.
func (s *TaskService) Get(ctx context.Context, id int64) (*model.Task, error) {
	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("service/task: getting task: %w", err)
	}
	return task, nil
}

// Update rewrites a task's editable fields. Same validation as Create;
// apperror.ErrNotFound when the id matches no row.
func (s *TaskService) Update(ctx context.Context, id int64, title string, description, dueDate *string, category string, completed bool) (*model.Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, apperror.ValidationFailed("title", "Title is required")
	}
	if err := validateDueDate(dueDate); err != nil {
		return nil, err
	}

	task := &model.Task{
		ID:          id,
		Title:       title,
		Description: description,
		DueDate:     dueDate,
		Category:    category,
		Completed:   completed,
	}

	if err := s.tasks.Update(ctx, task); err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("service/task: updating task: %w", err)
	}

	// Read the row back so the caller gets the stored state (user_id,
	// created_at, applied category default) rather than what it sent.
	updated, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service/task: reloading updated task: %w", err)
	}

	return updated, nil
}

// SetCompleted flips the done flag. apperror.ErrNotFound when the id
// matches no row; nothing is mutated in that case.
func (s *TaskService) SetCompleted(ctx context.Context, id int64, completed bool) error {
	if err := s.tasks.SetCompleted(ctx, id, completed); err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return err
		}
		return fmt.Errorf("service/task: toggling task: %w", err)
	}

	s.logger.Info("task completion toggled",
		slog.Int64("taskID", id),
		slog.Bool("completed", completed),
	)

	return nil
}

// Delete removes a task. Deleting an already-deleted id returns
// apperror.ErrNotFound.
func (s *TaskService) Delete(ctx context.Context, id int64) error {
	if err := s.tasks.Delete(ctx, id); err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return err
		}
		return fmt.Errorf("service/task: deleting task: %w", err)
	}

	s.logger.Info("task deleted", slog.Int64("taskID", id))

	return nil
}

// GetOverview partitions the user's tasks into active and completed.
// A single linear pass over the already-ordered list — the partition
// preserves the newest-first order within each half.
func (s *TaskService) GetOverview(ctx context.Context, userID int64) (*Overview, error) {
	tasks, err := s.tasks.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service/task: loading overview: %w", err)
	}

	ov := &Overview{
		Active:    []model.Task{},
		Completed: []model.Task{},
	}
	for _, t := range tasks {
		if t.Completed {
			ov.Completed = append(ov.Completed, t)
		} else {
			ov.Active = append(ov.Active, t)
		}
	}

	return ov, nil
}

// CategorySummary returns a task count for every category the UI offers —
// zero included — followed by any other categories found in storage (the
// column is open TEXT, so rows imported from elsewhere may carry names
// outside the standard set).
func (s *TaskService) CategorySummary(ctx context.Context, userID int64) ([]model.CategoryCount, error) {
	counts, err := s.tasks.CountByCategory(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service/task: counting categories: %w", err)
	}

	byName := make(map[string]int, len(counts))
	for _, c := range counts {
		byName[c.Name] = c.Count
	}

	summary := make([]model.CategoryCount, 0, len(model.Categories))
	for _, name := range model.Categories {
		summary = append(summary, model.CategoryCount{Name: name, Count: byName[name]})
		delete(byName, name)
	}
	// Leftovers are non-standard categories; the repository returned them
	// alphabetically, so re-walk the ordered slice to keep that order.
	for _, c := range counts {
		if _, ok := byName[c.Name]; ok {
			summary = append(summary, c)
		}
	}

	return summary, nil
}

// validateDueDate accepts nil (no due date) or a strict YYYY-MM-DD string.
func validateDueDate(dueDate *string) error {
	if dueDate == nil {
		return nil
	}
	if _, err := time.Parse(dueDateLayout, *dueDate); err != nil {
		return apperror.ValidationFailed("dueDate", "Due date must be in YYYY-MM-DD format")
	}
	return nil
}
