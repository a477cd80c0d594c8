package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sort"
	"strings"
	"testing"

	"github.com/Berserk-Vl/TaskManagement/internal/model"
)

type mockTaskStore struct {
	tasks   map[uint64]model.Task
	nextID  uint64
	saveErr error
}

func newMockTaskStore() *mockTaskStore {
	return &mockTaskStore{tasks: map[uint64]model.Task{}}
}

func (m *mockTaskStore) Get(ctx context.Context, id uint64) (*model.Task, error) {
	if task, ok := m.tasks[id]; ok {
		copied := task
		return &copied, nil
	}
	return nil, nil
}

func (m *mockTaskStore) Save(ctx context.Context, task *model.Task) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	if task.ID == 0 {
		m.nextID++
		task.ID = m.nextID
	}
	m.tasks[task.ID] = *task
	return nil
}

func (m *mockTaskStore) Delete(ctx context.Context, id uint64) error {
	delete(m.tasks, id)
	return nil
}

func (m *mockTaskStore) ListAll(ctx context.Context) ([]model.Task, error) {
	ids := make([]uint64, 0, len(m.tasks))
	for id := range m.tasks {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	tasks := make([]model.Task, 0, len(ids))
	for _, id := range ids {
		tasks = append(tasks, m.tasks[id])
	}
	return tasks, nil
}

type mockCommentStore struct {
	comments []model.Comment
	nextID   uint64
	saveErr  error
}

func (m *mockCommentStore) FindByTaskID(ctx context.Context, taskID uint64) ([]model.Comment, error) {
	found := []model.Comment{}
	for _, comment := range m.comments {
		if comment.TaskID == taskID {
			found = append(found, comment)
		}
	}
	return found, nil
}

func (m *mockCommentStore) Save(ctx context.Context, comment *model.Comment) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.nextID++
	comment.ID = m.nextID
	m.comments = append(m.comments, *comment)
	return nil
}

type mockUserDirectory struct {
	emails map[string]bool
}

func (m *mockUserDirectory) Exists(ctx context.Context, email string) (bool, error) {
	return m.emails[email], nil
}

const (
	authorEmail    = "admin@sb.ru"
	performerEmail = "user@mail.ru"
)

func newTestService(taskStore *mockTaskStore, commentStore *mockCommentStore) *TaskService {
	users := &mockUserDirectory{emails: map[string]bool{authorEmail: true, performerEmail: true}}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewTaskService(taskStore, commentStore, users, logger)
}

func str(s string) *string { return &s }

func assertCoreError(t *testing.T, err error, code int, message string) {
	t.Helper()
	var coreErr *Error
	if !errors.As(err, &coreErr) {
		t.Fatalf("expected core error, got %v", err)
	}
	if coreErr.Code != code {
		t.Fatalf("expected code %d, got %d (%s)", code, coreErr.Code, coreErr.Message)
	}
	if coreErr.Message != message {
		t.Fatalf("expected message %q, got %q", message, coreErr.Message)
	}
}

func fullTaskFields() Fields {
	return Fields{
		"title":       str("Task"),
		"description": str("Description"),
		"status":      str("PENDING"),
		"priority":    str("LOW"),
		"performer":   str(performerEmail),
		"author":      str(authorEmail),
	}
}

func savedTask(t *testing.T, store *mockTaskStore, svc *TaskService) *model.Task {
	t.Helper()
	task, err := svc.Add(context.Background(), fullTaskFields())
	if err != nil {
		t.Fatalf("add task: %v", err)
	}
	return task
}

func TestAddTask_AllFields(t *testing.T) {
	store := newMockTaskStore()
	svc := newTestService(store, &mockCommentStore{})

	task, err := svc.Add(context.Background(), fullTaskFields())
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if task.ID == 0 {
		t.Fatalf("expected generated id")
	}
	if task.Title != "Task" || task.Description != "Description" {
		t.Fatalf("unexpected text fields: %+v", task)
	}
	if task.Status != model.StatusPending || task.Priority != model.PriorityLow {
		t.Fatalf("unexpected enums: %+v", task)
	}
	if task.Author != authorEmail {
		t.Fatalf("unexpected author %q", task.Author)
	}
	if task.Performer == nil || *task.Performer != performerEmail {
		t.Fatalf("unexpected performer %v", task.Performer)
	}
}

func TestAddTask_DefaultsApplied(t *testing.T) {
	store := newMockTaskStore()
	svc := newTestService(store, &mockCommentStore{})

	fields := fullTaskFields()
	delete(fields, "status")
	delete(fields, "priority")
	delete(fields, "performer")

	task, err := svc.Add(context.Background(), fields)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if task.Status != model.StatusPending {
		t.Fatalf("expected default status PENDING, got %s", task.Status)
	}
	if task.Priority != model.PriorityLow {
		t.Fatalf("expected default priority LOW, got %s", task.Priority)
	}
	if task.Performer != nil {
		t.Fatalf("expected unset performer, got %v", *task.Performer)
	}
}

func TestAddTask_RequiredTextMissing(t *testing.T) {
	for _, name := range []string{"author", "title", "description"} {
		store := newMockTaskStore()
		svc := newTestService(store, &mockCommentStore{})

		fields := fullTaskFields()
		delete(fields, name)

		_, err := svc.Add(context.Background(), fields)
		assertCoreError(t, err, 400, "Field("+name+") not found.")
		if len(store.tasks) != 0 {
			t.Fatalf("expected nothing persisted for missing %s", name)
		}
	}
}

func TestAddTask_NullField(t *testing.T) {
	for _, name := range []string{"title", "description", "status", "priority"} {
		svc := newTestService(newMockTaskStore(), &mockCommentStore{})

		fields := fullTaskFields()
		fields[name] = nil

		_, err := svc.Add(context.Background(), fields)
		assertCoreError(t, err, 400, "Field("+name+") can not be null.")
	}
}

func TestAddTask_TitleTooLong(t *testing.T) {
	svc := newTestService(newMockTaskStore(), &mockCommentStore{})

	fields := fullTaskFields()
	long := make([]byte, 51)
	for i := range long {
		long[i] = 'a'
	}
	fields["title"] = str(string(long))

	_, err := svc.Add(context.Background(), fields)
	assertCoreError(t, err, 400, "Field(title) exceeds max length(51 > 50).")
}

func TestAddTask_LengthCountsCharacters(t *testing.T) {
	store := newMockTaskStore()
	svc := newTestService(store, &mockCommentStore{})

	// 50 Cyrillic characters are 100 bytes and still a legal title.
	fields := fullTaskFields()
	fields["title"] = str(strings.Repeat("ц", 50))
	if _, err := svc.Add(context.Background(), fields); err != nil {
		t.Fatalf("50-character title rejected: %v", err)
	}

	fields = fullTaskFields()
	fields["title"] = str(strings.Repeat("ц", 51))
	_, err := svc.Add(context.Background(), fields)
	assertCoreError(t, err, 400, "Field(title) exceeds max length(51 > 50).")
}

func TestAddTask_EmailTooLong(t *testing.T) {
	svc := newTestService(newMockTaskStore(), &mockCommentStore{})

	fields := fullTaskFields()
	fields["performer"] = str(strings.Repeat("ц", 23) + "@mail.ru")
	_, err := svc.Add(context.Background(), fields)
	assertCoreError(t, err, 400, "Field(performer) exceeds max length(31 > 30).")

	fields = fullTaskFields()
	fields["author"] = str(strings.Repeat("a", 25) + "@sb.ru")
	_, err = svc.Add(context.Background(), fields)
	assertCoreError(t, err, 400, "Field(author) exceeds max length(31 > 30).")
}

func TestAddTask_InvalidEnum(t *testing.T) {
	svc := newTestService(newMockTaskStore(), &mockCommentStore{})

	fields := fullTaskFields()
	fields["status"] = str("UNKNOWN")
	_, err := svc.Add(context.Background(), fields)
	assertCoreError(t, err, 400, "Invalid value for status, valid values are [PENDING, IN_PROCESS, DONE].")

	fields = fullTaskFields()
	fields["priority"] = str("UNKNOWN")
	_, err = svc.Add(context.Background(), fields)
	assertCoreError(t, err, 400, "Invalid value for priority, valid values are [LOW, MEDIUM, HIGH].")
}

func TestAddTask_EnumCaseInsensitive(t *testing.T) {
	store := newMockTaskStore()
	svc := newTestService(store, &mockCommentStore{})

	fields := fullTaskFields()
	fields["status"] = str("in_process")
	fields["priority"] = str("high")

	task, err := svc.Add(context.Background(), fields)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if task.Status != model.StatusInProcess || task.Priority != model.PriorityHigh {
		t.Fatalf("expected normalized symbols, got %s/%s", task.Status, task.Priority)
	}
}

func TestAddTask_UnknownPerformer(t *testing.T) {
	store := newMockTaskStore()
	svc := newTestService(store, &mockCommentStore{})

	fields := fullTaskFields()
	fields["performer"] = str("unknown@email.me")

	_, err := svc.Add(context.Background(), fields)
	assertCoreError(t, err, 400,
		"Field(performer) can't be set, because user with specified email(unknown@email.me) not exists.")
	if len(store.tasks) != 0 {
		t.Fatalf("expected nothing persisted")
	}
}

func TestUpdateTask_NoOp(t *testing.T) {
	store := newMockTaskStore()
	svc := newTestService(store, &mockCommentStore{})
	created := savedTask(t, store, svc)

	updated, err := svc.Update(context.Background(), created.ID, authorEmail, Fields{})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Title != created.Title || updated.Description != created.Description ||
		updated.Status != created.Status || updated.Priority != created.Priority ||
		updated.Author != created.Author {
		t.Fatalf("expected unchanged task, got %+v", updated)
	}
	if updated.Performer == nil || *updated.Performer != *created.Performer {
		t.Fatalf("expected unchanged performer")
	}
}

func TestUpdateTask_PartialFields(t *testing.T) {
	store := newMockTaskStore()
	svc := newTestService(store, &mockCommentStore{})
	created := savedTask(t, store, svc)

	updated, err := svc.Update(context.Background(), created.ID, authorEmail, Fields{
		"title":     str("T"),
		"status":    str("DONE"),
		"performer": nil,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Title != "T" {
		t.Fatalf("expected new title, got %q", updated.Title)
	}
	if updated.Description != created.Description {
		t.Fatalf("description should be untouched")
	}
	if updated.Status != model.StatusDone {
		t.Fatalf("expected DONE, got %s", updated.Status)
	}
	if updated.Performer != nil {
		t.Fatalf("expected cleared performer")
	}
}

func TestUpdateTask_NotFound(t *testing.T) {
	svc := newTestService(newMockTaskStore(), &mockCommentStore{})

	_, err := svc.Update(context.Background(), 77, authorEmail, Fields{})
	assertCoreError(t, err, 404, "A task(77) not exists.")
}

func TestUpdateTask_NotAuthor(t *testing.T) {
	store := newMockTaskStore()
	svc := newTestService(store, &mockCommentStore{})
	created := savedTask(t, store, svc)

	_, err := svc.Update(context.Background(), created.ID, performerEmail, Fields{"title": str("T")})
	assertCoreError(t, err, 403, "You are not an author of the task(1).")
	if store.tasks[created.ID].Title != "Task" {
		t.Fatalf("task should be unchanged")
	}
}

func TestSetStatus_ByPerformer(t *testing.T) {
	store := newMockTaskStore()
	svc := newTestService(store, &mockCommentStore{})
	created := savedTask(t, store, svc)

	task, err := svc.SetStatus(context.Background(), created.ID, performerEmail, Fields{"status": str("DONE")})
	if err != nil {
		t.Fatalf("set status: %v", err)
	}
	if task.Status != model.StatusDone {
		t.Fatalf("expected DONE, got %s", task.Status)
	}
}

func TestSetStatus_RequiredKey(t *testing.T) {
	store := newMockTaskStore()
	svc := newTestService(store, &mockCommentStore{})
	created := savedTask(t, store, svc)

	_, err := svc.SetStatus(context.Background(), created.ID, authorEmail, Fields{})
	assertCoreError(t, err, 400, "Field(status) not found.")

	_, err = svc.SetStatus(context.Background(), created.ID, authorEmail, Fields{"status": nil})
	assertCoreError(t, err, 400, "Field(status) can not be null.")
}

func TestSetStatus_Stranger(t *testing.T) {
	store := newMockTaskStore()
	svc := newTestService(store, &mockCommentStore{})
	created := savedTask(t, store, svc)

	_, err := svc.SetStatus(context.Background(), created.ID, "stranger@mail.ru", Fields{"status": str("DONE")})
	assertCoreError(t, err, 403, "You are not an author or a performer of the task(1).")

	_, err = svc.SetStatus(context.Background(), created.ID, "", Fields{"status": str("DONE")})
	assertCoreError(t, err, 401, "Can't identify requester.")
}

func TestSetPerformer_ClearWithNull(t *testing.T) {
	store := newMockTaskStore()
	svc := newTestService(store, &mockCommentStore{})
	created := savedTask(t, store, svc)

	task, err := svc.SetPerformer(context.Background(), created.ID, authorEmail, Fields{"performer": nil})
	if err != nil {
		t.Fatalf("set performer: %v", err)
	}
	if task.Performer != nil {
		t.Fatalf("expected cleared performer")
	}
}

func TestSetPerformer_RequiredKey(t *testing.T) {
	store := newMockTaskStore()
	svc := newTestService(store, &mockCommentStore{})
	created := savedTask(t, store, svc)

	_, err := svc.SetPerformer(context.Background(), created.ID, authorEmail, Fields{})
	assertCoreError(t, err, 400, "Field(performer) not found.")
}

func TestSetPerformer_NotAuthor(t *testing.T) {
	store := newMockTaskStore()
	svc := newTestService(store, &mockCommentStore{})
	created := savedTask(t, store, svc)

	_, err := svc.SetPerformer(context.Background(), created.ID, performerEmail, Fields{"performer": str(authorEmail)})
	assertCoreError(t, err, 403, "You are not an author of the task(1).")
}

func TestDeleteTask(t *testing.T) {
	store := newMockTaskStore()
	svc := newTestService(store, &mockCommentStore{})
	created := savedTask(t, store, svc)

	removed, err := svc.Delete(context.Background(), created.ID, authorEmail)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if removed.ID != created.ID {
		t.Fatalf("expected removed task echoed")
	}
	if len(store.tasks) != 0 {
		t.Fatalf("task should be gone")
	}
}

func TestDeleteTask_NotAuthor(t *testing.T) {
	store := newMockTaskStore()
	svc := newTestService(store, &mockCommentStore{})
	created := savedTask(t, store, svc)

	_, err := svc.Delete(context.Background(), created.ID, performerEmail)
	assertCoreError(t, err, 403, "You are not an author of the task(1).")
	if len(store.tasks) != 1 {
		t.Fatalf("task should remain in store")
	}
}
