package model

import (
	"time"
)

// School represents a tenant. Every student, teacher and class belongs to
// exactly one school; users (login identities) are shared across tenants.
type School struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Code      string    `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"` // stored uppercase
	Name      string    `gorm:"not null" json:"name"`
	Phone     string    `gorm:"type:varchar(20);not null" json:"phone"`
	Email     string    `gorm:"type:varchar(254)" json:"email,omitempty"`
	City      string    `gorm:"type:varchar(100)" json:"city,omitempty"`
	Address   string    `gorm:"type:text" json:"address,omitempty"`
	PinCode   string    `gorm:"type:varchar(10)" json:"pin_code,omitempty"`
	// PasswordHash is set when the school owner can log in as school admin.
	PasswordHash string `json:"-"`

	// Relationships
	Students []Student `gorm:"foreignKey:SchoolID;constraint:OnDelete:CASCADE" json:"-"`
	Teachers []Teacher `gorm:"foreignKey:SchoolID;constraint:OnDelete:CASCADE" json:"-"`
	Classes  []Class   `gorm:"foreignKey:SchoolID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name for School
func (School) TableName() string {
	return "schools"
}
