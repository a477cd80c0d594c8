package model

// Comment is an append-only note attached to a task. Comments are never
// updated or deleted.
type Comment struct {
	ID        uint64 `gorm:"primaryKey" json:"id"`
	TaskID    uint64 `gorm:"column:task_id;not null;index" json:"taskId"`
	Author    string `gorm:"type:varchar(30);not null" json:"author"`
	Text      string `gorm:"type:varchar(300);not null" json:"text"`
	Timestamp string `gorm:"column:timestamp;type:varchar(40)" json:"timestamp"` // RFC3339, set at creation
}
