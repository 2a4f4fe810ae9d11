package models

import "time"

type Review struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	RoomID  uint   `gorm:"index;not null" json:"room_id"`
	UserID  uint   `gorm:"index;not null" json:"user_id"`
	Rating  int    `gorm:"not null" json:"rating"`
	Comment string `gorm:"type:text" json:"comment"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Room *Room `gorm:"foreignKey:RoomID;constraint:OnDelete:CASCADE" json:"-"`
	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
}
