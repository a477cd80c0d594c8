package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/Berserk-Vl/TaskManagement/internal/model"
)

// Per-field size limits, matching the persisted column widths.
const (
	maxTitleLength       = 50
	maxDescriptionLength = 300
	maxEmailLength       = 30
	maxCommentLength     = 300
)

// FieldState is the tri-state resolution of a key in a request body: the
// key may be absent, present with an explicit null, or present with a value.
type FieldState int

const (
	FieldAbsent FieldState = iota
	FieldNull
	FieldPresent
)

// Fields is a request body viewed as a tri-state field map. A missing key
// reads as FieldAbsent, a key bound to nil as FieldNull.
type Fields map[string]*string

// State reports the tri-state resolution of name.
func (f Fields) State(name string) FieldState {
	v, ok := f[name]
	switch {
	case !ok:
		return FieldAbsent
	case v == nil:
		return FieldNull
	default:
		return FieldPresent
	}
}

// Value returns the bound value of name. Only meaningful for FieldPresent.
func (f Fields) Value(name string) string {
	if v, ok := f[name]; ok && v != nil {
		return *v
	}
	return ""
}

// Set binds name to value, replacing any prior binding.
func (f Fields) Set(name, value string) {
	v := value
	f[name] = &v
}

type fieldKind int

const (
	kindText fieldKind = iota
	kindEnum
)

// fieldRule declares how one task field is validated and applied. The rule
// table replaces per-field dispatch: one generic applier walks the rule.
type fieldRule struct {
	kind        fieldKind
	maxLength   int                             // kindText
	validValues func() []string                 // kindEnum
	nullable    bool                            // explicit null clears the field
	checkUser   bool                            // value must reference a registered user
	assignText  func(t *model.Task, v *string)  // kindText
	assignEnum  func(t *model.Task, sym string) // kindEnum, sym is a valid symbol
}

var taskFieldRules = map[string]fieldRule{
	"title": {
		kind:       kindText,
		maxLength:  maxTitleLength,
		assignText: func(t *model.Task, v *string) { t.Title = *v },
	},
	"description": {
		kind:       kindText,
		maxLength:  maxDescriptionLength,
		assignText: func(t *model.Task, v *string) { t.Description = *v },
	},
	"author": {
		kind:       kindText,
		maxLength:  maxEmailLength,
		assignText: func(t *model.Task, v *string) { t.Author = *v },
	},
	"performer": {
		kind:       kindText,
		maxLength:  maxEmailLength,
		nullable:   true,
		checkUser:  true,
		assignText: func(t *model.Task, v *string) { t.Performer = v },
	},
	"status": {
		kind:        kindEnum,
		validValues: model.StatusValues,
		assignEnum: func(t *model.Task, sym string) {
			s, _ := model.ParseStatus(sym)
			t.Status = s
		},
	},
	"priority": {
		kind:        kindEnum,
		validValues: model.PriorityValues,
		assignEnum: func(t *model.Task, sym string) {
			p, _ := model.ParsePriority(sym)
			t.Priority = p
		},
	},
}

// applyTextField validates fields[name] against its rule and mutates task.
// Absent keys are an error only when required; null is applied only for
// nullable rules. The task is never persisted here.
func (s *TaskService) applyTextField(ctx context.Context, task *model.Task, fields Fields, name string, required bool) error {
	rule := taskFieldRules[name]
	switch fields.State(name) {
	case FieldAbsent:
		if required {
			return errMissingField(name)
		}
	case FieldNull:
		if !rule.nullable {
			return errNullField(name)
		}
		rule.assignText(task, nil)
	case FieldPresent:
		value := fields.Value(name)
		// Limits are in characters, not bytes.
		if n := utf8.RuneCountInString(value); n > rule.maxLength {
			return errLengthExceeded(name, n, rule.maxLength)
		}
		if rule.checkUser {
			exists, err := s.users.Exists(ctx, value)
			if err != nil {
				return err
			}
			if !exists {
				return errUnknownUser(name, value)
			}
		}
		rule.assignText(task, &value)
	}
	return nil
}

// applyEnumField validates fields[name] as a case-insensitive enum symbol
// and mutates task. Invalid symbols report the full valid-value set.
func applyEnumField(task *model.Task, fields Fields, name string, required bool) error {
	rule := taskFieldRules[name]
	switch fields.State(name) {
	case FieldAbsent:
		if required {
			return errMissingField(name)
		}
	case FieldNull:
		if !rule.nullable {
			return errNullField(name)
		}
	case FieldPresent:
		value := fields.Value(name)
		if !validSymbol(value, rule.validValues()) {
			return errInvalidEnumValue(name, rule.validValues())
		}
		rule.assignEnum(task, value)
	}
	return nil
}

func validSymbol(value string, valid []string) bool {
	for _, v := range valid {
		if strings.EqualFold(value, v) {
			return true
		}
	}
	return false
}
