package model

import (
	"time"
)

// Teacher is a staff profile owned by one school.
type Teacher struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	SchoolID  uint      `gorm:"not null;index" json:"school_id"`
	Name      string    `gorm:"not null" json:"name"`
	Phone     string    `gorm:"type:varchar(20);not null" json:"phone"`
	Email     string    `gorm:"type:varchar(254)" json:"email,omitempty"`
	// Specialization is a free-form subject label, e.g. "Mathematics".
	Specialization string `gorm:"type:varchar(100)" json:"specialization,omitempty"`

	// Relationships
	School School `gorm:"foreignKey:SchoolID;constraint:OnDelete:CASCADE" json:"school,omitempty"`
}

// TableName specifies the table name for Teacher
func (Teacher) TableName() string {
	return "teachers"
}
