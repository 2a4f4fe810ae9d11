package services

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"hotel-booking/logger"
	"hotel-booking/models"
)

// SyncRoomStatus recomputes a room's status from its live bookings. It must run
// inside the transaction of the booking write that triggered it.
//
// Rooms under manual override are left alone. A room that no longer exists is
// logged and skipped; the booking write itself already succeeded.
func SyncRoomStatus(tx *gorm.DB, roomID uint) error {
	lg := logger.FromContext(tx.Statement.Context)

	var room models.Room
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&room, roomID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		lg.Warn().Uint("room_id", roomID).Msg("room status sync skipped: room no longer exists")
		return nil
	}
	if err != nil {
		return err
	}
	if room.ManualOverride {
		return nil
	}

	var live int64
	if err := tx.Model(&models.Booking{}).
		Where("room_id = ? AND status IN ?", roomID, models.LiveBookingStatuses).
		Count(&live).Error; err != nil {
		return err
	}

	next := models.RoomStatusAvailable
	if live > 0 {
		next = models.RoomStatusBooked
	}
	if room.Status == next {
		return nil
	}

	if err := tx.Model(&room).Update("status", next).Error; err != nil {
		return err
	}
	lg.Debug().
		Uint("room_id", roomID).
		Str("from", string(room.Status)).
		Str("to", string(next)).
		Msg("room status synchronized")
	return nil
}

func lockRoom(tx *gorm.DB, roomID uint) (*models.Room, error) {
	var room models.Room
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&room, roomID).Error; err != nil {
		return nil, notFound(err, ErrRoomNotFound)
	}
	return &room, nil
}
