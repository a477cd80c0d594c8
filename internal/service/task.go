package service

import (
	"context"
	"log/slog"

	"github.com/Berserk-Vl/TaskManagement/internal/model"
)

// TaskStore is the persistence surface the engines need. Get returns
// (nil, nil) when no task with the given id exists.
type TaskStore interface {
	Get(ctx context.Context, id uint64) (*model.Task, error)
	Save(ctx context.Context, task *model.Task) error
	Delete(ctx context.Context, id uint64) error
	ListAll(ctx context.Context) ([]model.Task, error)
}

// CommentStore persists comments. FindByTaskID returns comments in
// insertion order.
type CommentStore interface {
	FindByTaskID(ctx context.Context, taskID uint64) ([]model.Comment, error)
	Save(ctx context.Context, comment *model.Comment) error
}

// UserDirectory answers whether an email belongs to a registered user.
type UserDirectory interface {
	Exists(ctx context.Context, email string) (bool, error)
}

// TaskService validates and executes task mutations, queries and comment
// appends. Callers are identified by their resolved email; the service
// never sees credentials.
type TaskService struct {
	tasks    TaskStore
	comments CommentStore
	users    UserDirectory
	logger   *slog.Logger
}

func NewTaskService(tasks TaskStore, comments CommentStore, users UserDirectory, logger *slog.Logger) *TaskService {
	return &TaskService{
		tasks:    tasks,
		comments: comments,
		users:    users,
		logger:   logger,
	}
}

// Add creates a task from the given fields. Author, title and description
// are required; status/priority default to PENDING/LOW when absent;
// performer is optional, nullable and must reference a registered user.
// Nothing is persisted on a validation failure.
func (s *TaskService) Add(ctx context.Context, fields Fields) (*model.Task, error) {
	task := &model.Task{
		Status:   model.StatusPending,
		Priority: model.PriorityLow,
	}
	if err := s.applyTextField(ctx, task, fields, "author", true); err != nil {
		return nil, err
	}
	if err := s.applyTextField(ctx, task, fields, "title", true); err != nil {
		return nil, err
	}
	if err := s.applyTextField(ctx, task, fields, "description", true); err != nil {
		return nil, err
	}
	if err := applyEnumField(task, fields, "status", false); err != nil {
		return nil, err
	}
	if err := applyEnumField(task, fields, "priority", false); err != nil {
		return nil, err
	}
	if err := s.applyTextField(ctx, task, fields, "performer", false); err != nil {
		return nil, err
	}
	if err := s.tasks.Save(ctx, task); err != nil {
		return nil, err
	}
	s.logger.Info("task created", slog.Uint64("id", task.ID), slog.String("author", task.Author))
	return task, nil
}

// Update applies a partial update to the task. Only the caller who
// authored the task may update it; supplied keys are validated with the
// same rules as Add, untouched fields keep their prior value.
func (s *TaskService) Update(ctx context.Context, id uint64, caller string, fields Fields) (*model.Task, error) {
	task, err := s.getTask(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := requireAuthor(task, caller); err != nil {
		return nil, err
	}
	if err := s.applyTextField(ctx, task, fields, "title", false); err != nil {
		return nil, err
	}
	if err := s.applyTextField(ctx, task, fields, "description", false); err != nil {
		return nil, err
	}
	if err := applyEnumField(task, fields, "status", false); err != nil {
		return nil, err
	}
	if err := applyEnumField(task, fields, "priority", false); err != nil {
		return nil, err
	}
	if err := s.applyTextField(ctx, task, fields, "performer", false); err != nil {
		return nil, err
	}
	if err := s.tasks.Save(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// SetStatus changes the task status. Both the author and the performer may
// do this; the status key must be supplied.
func (s *TaskService) SetStatus(ctx context.Context, id uint64, caller string, fields Fields) (*model.Task, error) {
	task, err := s.getTask(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := requireAuthorOrPerformer(task, caller); err != nil {
		return nil, err
	}
	if err := applyEnumField(task, fields, "status", true); err != nil {
		return nil, err
	}
	if err := s.tasks.Save(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// SetPerformer assigns or clears the task performer (author only). The
// performer key must be present; a null value clears the assignment.
func (s *TaskService) SetPerformer(ctx context.Context, id uint64, caller string, fields Fields) (*model.Task, error) {
	task, err := s.getTask(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := requireAuthor(task, caller); err != nil {
		return nil, err
	}
	if err := s.applyTextField(ctx, task, fields, "performer", true); err != nil {
		return nil, err
	}
	if err := s.tasks.Save(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// Delete removes the task (author only) and returns the removed record as
// confirmation.
func (s *TaskService) Delete(ctx context.Context, id uint64, caller string) (*model.Task, error) {
	task, err := s.getTask(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := requireAuthor(task, caller); err != nil {
		return nil, err
	}
	if err := s.tasks.Delete(ctx, id); err != nil {
		return nil, err
	}
	s.logger.Info("task deleted", slog.Uint64("id", id), slog.String("author", caller))
	return task, nil
}

func (s *TaskService) getTask(ctx context.Context, id uint64) (*model.Task, error) {
	task, err := s.tasks.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, errTaskNotFound(id)
	}
	return task, nil
}

func requireAuthor(task *model.Task, caller string) error {
	if caller == "" || task.Author != caller {
		return errNotAuthor(task.ID)
	}
	return nil
}

func requireAuthorOrPerformer(task *model.Task, caller string) error {
	if caller == "" {
		return errUnidentifiedRequester()
	}
	if task.Author == caller {
		return nil
	}
	if task.Performer != nil && *task.Performer == caller {
		return nil
	}
	return errNotAuthorOrPerformer(task.ID)
}
