package model

import (
	"time"

	"gorm.io/datatypes"
)

// StudentStatus enumerates a student's lifecycle state. Any status may move
// to any other; no transition order is enforced.
type StudentStatus string

const (
	StudentStatusActive      StudentStatus = "active"
	StudentStatusInactive    StudentStatus = "inactive"
	StudentStatusSuspended   StudentStatus = "suspended"
	StudentStatusGraduated   StudentStatus = "graduated"
	StudentStatusTransferred StudentStatus = "transferred"
)

// ValidStudentStatus reports whether s is a known student status.
func ValidStudentStatus(s StudentStatus) bool {
	switch s {
	case StudentStatusActive, StudentStatusInactive, StudentStatusSuspended,
		StudentStatusGraduated, StudentStatusTransferred:
		return true
	}
	return false
}

// Student is a per-school profile of a User. The composite unique index on
// (user_id, school_id) guarantees at most one profile per user per school
// even when two registration requests race past the application pre-check.
type Student struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	SchoolID  uint      `gorm:"not null;uniqueIndex:idx_students_user_school,priority:2" json:"school_id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_students_user_school,priority:1" json:"user_id"`

	Name         string          `gorm:"not null" json:"name"`
	Gender       string          `gorm:"type:varchar(20)" json:"gender,omitempty"`
	DateOfBirth  *datatypes.Date `json:"date_of_birth,omitempty"`
	GuardianName string          `gorm:"type:varchar(255)" json:"guardian_name,omitempty"`
	Address      string          `gorm:"type:text" json:"address,omitempty"`
	Status       StudentStatus   `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
	// EnrollmentDate marks when the profile was admitted. It is a soft
	// marker on the profile, not tied to any Enrollment row.
	EnrollmentDate datatypes.Date `json:"enrollment_date"`

	// Relationships
	School      School       `gorm:"foreignKey:SchoolID;constraint:OnDelete:CASCADE" json:"school,omitempty"`
	User        User         `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Enrollments []Enrollment `gorm:"foreignKey:StudentID;constraint:OnDelete:CASCADE" json:"enrollments,omitempty"`
}

// TableName specifies the table name for Student
func (Student) TableName() string {
	return "students"
}
