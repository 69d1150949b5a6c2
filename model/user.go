package model

import (
	"time"
)

// User represents a login identity keyed by phone number. A single user can
// hold student profiles in several schools (a guardian registering children
// in different schools under one phone), so users are not tenant-owned.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Phone        string    `gorm:"type:varchar(20);uniqueIndex;not null" json:"phone"` // normalized digits
	PasswordHash string    `gorm:"not null" json:"-"`

	// Relationships
	Students []Student `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"students,omitempty"`
}

// TableName specifies the table name for User
func (User) TableName() string {
	return "users"
}
