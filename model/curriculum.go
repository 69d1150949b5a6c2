package model

import (
	"time"
)

// Subject is a globally defined academic subject, e.g. "Mathematics".
type Subject struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Name      string    `gorm:"not null" json:"name"`
	Code      string    `gorm:"type:varchar(20);uniqueIndex;not null" json:"code"`

	// Relationships
	SubjectClasses []SubjectClass `gorm:"foreignKey:SubjectID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name for Subject
func (Subject) TableName() string {
	return "subjects"
}

// SubjectClass links a Subject to a ClassList template: the set of subjects
// taught at each grade/stream.
type SubjectClass struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	SubjectID   uint      `gorm:"not null;uniqueIndex:idx_subject_classes_link,priority:1" json:"subject_id"`
	ClassListID uint      `gorm:"not null;uniqueIndex:idx_subject_classes_link,priority:2" json:"class_list_id"`

	// Relationships
	Subject   Subject   `gorm:"foreignKey:SubjectID;constraint:OnDelete:CASCADE" json:"subject,omitempty"`
	ClassList ClassList `gorm:"foreignKey:ClassListID;constraint:OnDelete:CASCADE" json:"-"`
	Chapters  []Chapter `gorm:"foreignKey:SubjectClassID;constraint:OnDelete:CASCADE" json:"chapters,omitempty"`
}

// TableName specifies the table name for SubjectClass
func (SubjectClass) TableName() string {
	return "subject_classes"
}

// Chapter belongs to one SubjectClass link.
type Chapter struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
	SubjectClassID uint      `gorm:"not null;index" json:"subject_class_id"`
	Number         int       `gorm:"not null" json:"number"`
	Title          string    `gorm:"not null" json:"title"`

	// Relationships
	SubjectClass SubjectClass `gorm:"foreignKey:SubjectClassID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name for Chapter
func (Chapter) TableName() string {
	return "chapters"
}
