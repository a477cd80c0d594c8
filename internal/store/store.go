// Package store provides the gorm-backed persistence behind the service
// interfaces. Each store is a thin wrapper; all validation lives in the
// service layer.
package store

import (
	"context"
	"errors"

	"github.com/Berserk-Vl/TaskManagement/internal/model"

	"gorm.io/gorm"
)

type TaskStore struct {
	db *gorm.DB
}

func NewTaskStore(db *gorm.DB) *TaskStore {
	return &TaskStore{db: db}
}

// Get loads a task by id, returning (nil, nil) when it does not exist.
func (s *TaskStore) Get(ctx context.Context, id uint64) (*model.Task, error) {
	var task model.Task
	err := s.db.WithContext(ctx).First(&task, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// Save inserts the task when it has no id yet, updates it otherwise.
func (s *TaskStore) Save(ctx context.Context, task *model.Task) error {
	return s.db.WithContext(ctx).Save(task).Error
}

func (s *TaskStore) Delete(ctx context.Context, id uint64) error {
	return s.db.WithContext(ctx).Delete(&model.Task{}, id).Error
}

// ListAll returns every task in stored (id) order.
func (s *TaskStore) ListAll(ctx context.Context) ([]model.Task, error) {
	tasks := []model.Task{}
	if err := s.db.WithContext(ctx).Order("id").Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

type CommentStore struct {
	db *gorm.DB
}

func NewCommentStore(db *gorm.DB) *CommentStore {
	return &CommentStore{db: db}
}

// FindByTaskID returns the task's comments in insertion order.
func (s *CommentStore) FindByTaskID(ctx context.Context, taskID uint64) ([]model.Comment, error) {
	comments := []model.Comment{}
	if err := s.db.WithContext(ctx).Where("task_id = ?", taskID).Order("id").Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}

func (s *CommentStore) Save(ctx context.Context, comment *model.Comment) error {
	return s.db.WithContext(ctx).Create(comment).Error
}

type UserStore struct {
	db *gorm.DB
}

func NewUserStore(db *gorm.DB) *UserStore {
	return &UserStore{db: db}
}

// Exists reports whether a user with the given email is registered.
func (s *UserStore) Exists(ctx context.Context, email string) (bool, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&model.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindByEmail loads a user by email, returning (nil, nil) when absent.
func (s *UserStore) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *UserStore) Create(ctx context.Context, user *model.User) error {
	return s.db.WithContext(ctx).Create(user).Error
}
