package models

import (
	"time"
)

type User struct {
	ID       uint       `gorm:"primaryKey" json:"id"`
	Username string     `gorm:"uniqueIndex;size:150;not null" json:"username"`
	Email    string     `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Password string     `gorm:"size:255" json:"-"` // bcrypt hash, never returned in JSON
	Role     UserRole   `gorm:"size:20;default:user;not null" json:"role"`
	Status   UserStatus `gorm:"size:20;default:active;not null" json:"status"`
	Avatar   string     `gorm:"size:512" json:"avatar"`

	ResetCode        *string    `gorm:"size:16;index" json:"-"`
	ResetCodeExpires *time.Time `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type UserSummary struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Avatar   string `json:"avatar,omitempty"`
}

func (u *User) Summary() *UserSummary {
	if u == nil || u.ID == 0 {
		return nil
	}
	return &UserSummary{ID: u.ID, Username: u.Username, Email: u.Email, Avatar: u.Avatar}
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
