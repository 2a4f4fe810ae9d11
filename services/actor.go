package services

import "hotel-booking/models"

// Actor is the authenticated caller of a service operation.
type Actor struct {
	UserID uint
	Role   models.UserRole
}

func (a Actor) IsAdmin() bool {
	return a.Role == models.RoleAdmin
}

func (a Actor) owns(b *models.Booking) bool {
	return a.IsAdmin() || b.UserID == a.UserID
}
