package model

import "time"

// User represents a registered account. The email doubles as the identity
// referenced by task author/performer fields and JWT subjects.
type User struct {
	ID        uint64    `gorm:"primaryKey" json:"id"`
	Email     string    `gorm:"type:varchar(30);uniqueIndex;not null" json:"email"`
	Password  string    `gorm:"not null" json:"-"` // bcrypt hash
	CreatedAt time.Time `json:"-"`
}
