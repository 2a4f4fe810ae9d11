package models

import (
	"time"
)

// Booking is a reservation of one room for a half-open date range [StartDate, EndDate).
// Bookings are hard-deleted.
type Booking struct {
	ID uint `gorm:"primaryKey" json:"id"`

	UserID uint `gorm:"index;not null;column:user_id" json:"user_id"`
	RoomID uint `gorm:"index:idx_booking_room_range;not null;column:room_id" json:"room_id"`

	StartDate time.Time `gorm:"type:date;index:idx_booking_room_range;not null;column:start_date" json:"start_date"`
	EndDate   time.Time `gorm:"type:date;index:idx_booking_room_range;not null;column:end_date" json:"end_date"`

	Status        BookingStatus `gorm:"size:20;index;default:pending;not null" json:"status"`
	PaymentStatus PaymentStatus `gorm:"size:20;default:pending_payment;not null;column:payment_status" json:"payment_status"`
	PaymentMethod PaymentMethod `gorm:"size:20;default:pay_at_hotel;not null;column:payment_method" json:"payment_method"`
	TotalPrice    float64       `gorm:"type:decimal(12,2);column:total_price" json:"total_price"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Room *Room `gorm:"foreignKey:RoomID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
	User *User `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
}

// BookingResource is the wire shape of a booking: the row plus nested summaries.
type BookingResource struct {
	ID            uint          `json:"id"`
	UserID        uint          `json:"user_id"`
	RoomID        uint          `json:"room_id"`
	StartDate     string        `json:"start_date"`
	EndDate       string        `json:"end_date"`
	Nights        int           `json:"nights"`
	Status        BookingStatus `json:"status"`
	PaymentStatus PaymentStatus `json:"payment_status"`
	PaymentMethod PaymentMethod `json:"payment_method"`
	TotalPrice    float64       `json:"total_price"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
	Room          *RoomSummary  `json:"room,omitempty"`
	User          *UserSummary  `json:"user,omitempty"`
}

const DateLayout = "2006-01-02"

func (b *Booking) Resource(nights int) BookingResource {
	res := BookingResource{
		ID:            b.ID,
		UserID:        b.UserID,
		RoomID:        b.RoomID,
		StartDate:     b.StartDate.Format(DateLayout),
		EndDate:       b.EndDate.Format(DateLayout),
		Nights:        nights,
		Status:        b.Status,
		PaymentStatus: b.PaymentStatus,
		PaymentMethod: b.PaymentMethod,
		TotalPrice:    b.TotalPrice,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
	if b.Room != nil {
		res.Room = b.Room.Summary()
	}
	if b.User != nil {
		res.User = b.User.Summary()
	}
	return res
}
