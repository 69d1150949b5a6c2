package model

import (
	"time"
)

// Stream values for classes 11 and 12. Lower classes carry no stream.
const (
	StreamScience  = "science"
	StreamArts     = "arts"
	StreamCommerce = "commerce"
)

// ClassList is a curriculum-defined grade/stream template, e.g. "9" or
// "11-SCIENCE". Templates are seeded reference data and belong to no school.
type ClassList struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	ClassNumber int       `gorm:"not null" json:"class_number"` // 1..12
	Stream      string    `gorm:"type:varchar(20)" json:"stream,omitempty"`
	Code        string    `gorm:"type:varchar(20);uniqueIndex;not null" json:"code"` // e.g. "11-SCIENCE"
	Name        string    `gorm:"not null" json:"name"`                              // e.g. "Class 11 (Science)"

	// Relationships
	SubjectClasses []SubjectClass `gorm:"foreignKey:ClassListID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name for ClassList
func (ClassList) TableName() string {
	return "class_lists"
}

// Class is a school's concrete instantiation of a ClassList template for one
// academic session and section. The composite unique index stops a school
// from creating two "9th, 2024-25, Section A" rows off the same template.
type Class struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	SchoolID    uint      `gorm:"not null;uniqueIndex:idx_classes_school_template,priority:1" json:"school_id"`
	ClassListID uint      `gorm:"not null;uniqueIndex:idx_classes_school_template,priority:3" json:"class_list_id"`
	Session     string    `gorm:"type:varchar(20);not null;uniqueIndex:idx_classes_school_template,priority:2" json:"session"` // e.g. "2024-25"
	Section     string    `gorm:"type:varchar(10);not null;uniqueIndex:idx_classes_school_template,priority:4" json:"section"` // stored uppercase

	// Relationships
	School      School       `gorm:"foreignKey:SchoolID;constraint:OnDelete:CASCADE" json:"-"`
	ClassList   ClassList    `gorm:"foreignKey:ClassListID;constraint:OnDelete:CASCADE" json:"class_list,omitempty"`
	Enrollments []Enrollment `gorm:"foreignKey:ClassID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name for Class
func (Class) TableName() string {
	return "classes"
}
