package service

import (
	"context"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/Berserk-Vl/TaskManagement/internal/model"
)

// AddComment appends a comment to an existing task. The text key must be
// present, non-null and at most 300 chars; the author is the resolved
// caller identity. The stored comment is returned with its generated id
// and creation timestamp.
func (s *TaskService) AddComment(ctx context.Context, taskID uint64, author string, fields Fields) (*model.Comment, error) {
	if _, err := s.getTask(ctx, taskID); err != nil {
		return nil, err
	}
	switch fields.State("text") {
	case FieldAbsent:
		return nil, errMissingField("text")
	case FieldNull:
		return nil, errNullCommentText()
	}
	text := fields.Value("text")
	if n := utf8.RuneCountInString(text); n > maxCommentLength {
		return nil, errCommentTextTooLong(n, maxCommentLength)
	}

	comment := &model.Comment{
		TaskID:    taskID,
		Author:    author,
		Text:      text,
		Timestamp: time.Now().Format(time.RFC3339),
	}
	if err := s.comments.Save(ctx, comment); err != nil {
		return nil, err
	}
	s.logger.Info("comment added", slog.Uint64("task_id", taskID), slog.String("author", author))
	return comment, nil
}
