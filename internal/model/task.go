package model

import "strings"

// Task is a unit of work created by an author and optionally assigned
// to a performer. Both are referenced by their user email.
type Task struct {
	ID          uint64   `gorm:"primaryKey" json:"id"`
	Title       string   `gorm:"type:varchar(50);not null" json:"title"`
	Description string   `gorm:"type:varchar(300);not null" json:"description"`
	Status      Status   `gorm:"type:varchar(16);not null;default:PENDING" json:"status"`
	Priority    Priority `gorm:"type:varchar(16);not null;default:LOW" json:"priority"`
	Author      string   `gorm:"type:varchar(30);not null" json:"author"`
	Performer   *string  `gorm:"type:varchar(30)" json:"performer"`
}

// Status is a task lifecycle state, persisted by its symbolic name.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusInProcess Status = "IN_PROCESS"
	StatusDone      Status = "DONE"
)

// Priority is a task urgency level, persisted by its symbolic name.
type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
)

// StatusValues lists the valid status symbols in declaration order.
func StatusValues() []string {
	return []string{string(StatusPending), string(StatusInProcess), string(StatusDone)}
}

// PriorityValues lists the valid priority symbols in declaration order.
func PriorityValues() []string {
	return []string{string(PriorityLow), string(PriorityMedium), string(PriorityHigh)}
}

// ParseStatus matches a status symbol case-insensitively.
func ParseStatus(s string) (Status, bool) {
	for _, v := range StatusValues() {
		if strings.EqualFold(s, v) {
			return Status(v), true
		}
	}
	return "", false
}

// ParsePriority matches a priority symbol case-insensitively.
func ParsePriority(s string) (Priority, bool) {
	for _, v := range PriorityValues() {
		if strings.EqualFold(s, v) {
			return Priority(v), true
		}
	}
	return "", false
}
