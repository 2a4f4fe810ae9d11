package models

import (
	"time"

	"gorm.io/datatypes"
)

const (
	RoomMinPrice = 7000
	RoomMaxPrice = 50000
)

type Room struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name        string       `gorm:"size:100;uniqueIndex;not null" json:"name"`
	Slug        string       `gorm:"size:120;uniqueIndex" json:"slug"`
	Description string       `gorm:"type:text" json:"description"`
	Price       float64      `gorm:"type:decimal(10,2);not null" json:"price"`
	Capacity    int          `gorm:"not null" json:"capacity"`
	Category    RoomCategory `gorm:"size:20;index;not null" json:"category"`
	Status      RoomStatus   `gorm:"size:20;index;default:available" json:"status"`

	// ManualOverride pins an admin-chosen status; the status synchronizer leaves such rooms alone.
	ManualOverride bool `gorm:"column:manual_override;default:false" json:"manual_override"`
	IsFeatured     bool `gorm:"column:is_featured;default:false" json:"is_featured"`

	Images datatypes.JSONSlice[string] `gorm:"column:images" json:"images"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RoomSummary is the nested room shape returned with bookings.
type RoomSummary struct {
	ID       uint         `json:"id"`
	Name     string       `json:"name"`
	Slug     string       `json:"slug"`
	Price    float64      `json:"price"`
	Category RoomCategory `json:"category"`
	Status   RoomStatus   `json:"status"`
}

func (r *Room) Summary() *RoomSummary {
	if r == nil || r.ID == 0 {
		return nil
	}
	return &RoomSummary{
		ID:       r.ID,
		Name:     r.Name,
		Slug:     r.Slug,
		Price:    r.Price,
		Category: r.Category,
		Status:   r.Status,
	}
}
