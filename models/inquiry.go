package models

import "time"

// Inquiry is a contact-form message. UserID is set when the sender was logged in.
type Inquiry struct {
	ID      uint          `gorm:"primaryKey" json:"id"`
	UserID  *uint         `gorm:"index" json:"user_id,omitempty"`
	Name    string        `gorm:"size:150;not null" json:"name"`
	Email   string        `gorm:"size:255;not null" json:"email"`
	Subject string        `gorm:"size:255" json:"subject"`
	Message string        `gorm:"type:text;not null" json:"message"`
	Status  InquiryStatus `gorm:"size:20;default:open;not null" json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
