package service

import (
	"context"
	"strconv"
	"strings"

	"github.com/Berserk-Vl/TaskManagement/internal/model"
)

// The "ME" filter token substitutes the caller's own email in author and
// performer filters.
const filterSelf = "ME"

// QueryResult is a filtered, paginated page of tasks. Total counts the
// filtered set before pagination. Comments runs parallel to Tasks when the
// comments filter was enabled and is nil otherwise.
type QueryResult struct {
	Tasks        []model.Task
	Comments     [][]model.Comment
	Total        int64
	WithComments bool
}

// Query filters and paginates the task collection. Filters are the raw
// query parameters; caller is the requester email used for "ME"
// substitution. Pagination treats limit as the page size and offset as a
// zero-based page index into the filtered set.
func (s *TaskService) Query(ctx context.Context, filters map[string]string, caller string) (*QueryResult, error) {
	author, err := identityFilter(filters, "author", caller)
	if err != nil {
		return nil, err
	}
	if strings.EqualFold(author, "null") {
		return nil, errFilterNull("author")
	}
	performer, err := identityFilter(filters, "performer", caller)
	if err != nil {
		return nil, err
	}
	status, err := enumFilter(filters, "status", model.StatusValues)
	if err != nil {
		return nil, err
	}
	priority, err := enumFilter(filters, "priority", model.PriorityValues)
	if err != nil {
		return nil, err
	}
	offset, err := longFilter(filters, "offset")
	if err != nil {
		return nil, err
	}
	limit, err := longFilter(filters, "limit")
	if err != nil {
		return nil, err
	}
	if offset > 0 && limit == 0 {
		return nil, errOffsetRequiresLimit()
	}
	withComments, err := booleanFilter(filters, "comments")
	if err != nil {
		return nil, err
	}

	all, err := s.tasks.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	filtered := make([]model.Task, 0, len(all))
	for _, task := range all {
		if author != "" && task.Author != author {
			continue
		}
		if !matchPerformer(&task, performer) {
			continue
		}
		if status != "" && !strings.EqualFold(string(task.Status), status) {
			continue
		}
		if priority != "" && !strings.EqualFold(string(task.Priority), priority) {
			continue
		}
		filtered = append(filtered, task)
	}

	total := int64(len(filtered))
	skip := offset * limit
	if skip > 0 && skip >= total {
		return nil, errOffsetBeyondRange(skip, total)
	}
	page := filtered
	if limit != 0 {
		if skip > total {
			skip = total
		}
		end := skip + limit
		if end > total {
			end = total
		}
		page = filtered[skip:end]
	}

	result := &QueryResult{Tasks: page, Total: total, WithComments: withComments}
	if withComments {
		result.Comments = make([][]model.Comment, len(page))
		for i, task := range page {
			comments, err := s.comments.FindByTaskID(ctx, task.ID)
			if err != nil {
				return nil, err
			}
			result.Comments[i] = comments
		}
	}
	return result, nil
}

// matchPerformer applies the performer filter: empty means no constraint,
// the literal "null" matches tasks without a performer.
func matchPerformer(task *model.Task, performer string) bool {
	if performer == "" {
		return true
	}
	if strings.EqualFold(performer, "null") {
		return task.Performer == nil
	}
	return task.Performer != nil && *task.Performer == performer
}

// identityFilter reads an email-valued filter, substituting the caller for
// the literal "ME". Absent filters resolve to "" (no constraint).
func identityFilter(filters map[string]string, name, caller string) (string, error) {
	value, ok := filters[name]
	if !ok {
		return "", nil
	}
	if value == filterSelf {
		if caller == "" {
			return "", errFilterUnidentified(name)
		}
		return caller, nil
	}
	return value, nil
}

// enumFilter reads an enum-valued filter; any value outside the symbol set
// (the literal "null" included) is rejected with the accepted symbols.
func enumFilter(filters map[string]string, name string, values func() []string) (string, error) {
	value, ok := filters[name]
	if !ok || value == "" {
		return "", nil
	}
	if !validSymbol(value, values()) {
		return "", errFilterNotEnum(name, values())
	}
	return value, nil
}

// longFilter reads a non-negative integer filter, defaulting to 0.
func longFilter(filters map[string]string, name string) (int64, error) {
	raw, ok := filters[name]
	if !ok {
		return 0, nil
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, errFilterNotLong(name)
	}
	if value < 0 {
		return 0, errFilterNegative(name)
	}
	return value, nil
}

// booleanFilter reads a case-insensitive boolean filter, defaulting to false.
func booleanFilter(filters map[string]string, name string) (bool, error) {
	raw, ok := filters[name]
	if !ok {
		return false, nil
	}
	switch {
	case strings.EqualFold(raw, "true"):
		return true, nil
	case strings.EqualFold(raw, "false"):
		return false, nil
	default:
		return false, errFilterNotBoolean(name)
	}
}
