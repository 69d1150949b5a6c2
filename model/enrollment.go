package model

import (
	"time"

	"gorm.io/datatypes"
)

// Enrollment records a student's membership in a class. At most one row may
// exist per (student, class) pair; leaving a class flips IsActive to false
// and re-joining reactivates the same row instead of inserting a second one.
// Inactive rows persist as history until a hard delete removes them.
type Enrollment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	StudentID uint      `gorm:"not null;uniqueIndex:idx_enrollments_student_class,priority:1" json:"student_id"`
	ClassID   uint      `gorm:"not null;uniqueIndex:idx_enrollments_student_class,priority:2" json:"class_id"`

	EnrollmentDate datatypes.Date `json:"enrollment_date"`
	IsActive       bool           `gorm:"not null;default:true" json:"is_active"`

	// Relationships
	Student Student `gorm:"foreignKey:StudentID;constraint:OnDelete:CASCADE" json:"student,omitempty"`
	Class   Class   `gorm:"foreignKey:ClassID;constraint:OnDelete:CASCADE" json:"class,omitempty"`
}

// TableName specifies the table name for Enrollment
func (Enrollment) TableName() string {
	return "enrollments"
}
