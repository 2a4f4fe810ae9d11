package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"hotel-booking/logger"
	"hotel-booking/models"
)

// ExpireOverdue completes every approved booking whose end date has passed.
// Dates are stored as midnight UTC, so a stay ending today is overdue as soon
// as the day starts and its room can be rebooked from end_date. Each booking is completed in its own transaction through the
// normal status change, so its room status is resynchronized as well.
// Running it again right away changes nothing.
func (s *BookingService) ExpireOverdue(ctx context.Context) (int, error) {
	now := s.now().UTC()

	var ids []uint
	if err := s.DB.WithContext(ctx).Model(&models.Booking{}).
		Where("status = ? AND end_date < ?", models.BookingApproved, now).
		Order("id").
		Pluck("id", &ids).Error; err != nil {
		return 0, err
	}

	completed := 0
	var errs []error
	for _, id := range ids {
		done, err := s.expireOne(ctx, id, now)
		if err != nil {
			errs = append(errs, fmt.Errorf("booking %d: %w", id, err))
			continue
		}
		if done {
			completed++
		}
	}

	if completed > 0 {
		logger.FromContext(ctx).Info().Int("completed", completed).Msg("overdue bookings completed")
		s.invalidateRooms(ctx)
	}
	return completed, errors.Join(errs...)
}

func (s *BookingService) expireOne(ctx context.Context, id uint, now time.Time) (bool, error) {
	done := false
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		booking, _, err := lockBooking(tx, id)
		if errors.Is(err, ErrBookingNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		// re-check under the lock; another request may have moved it already
		if booking.Status != models.BookingApproved || !booking.EndDate.Before(now) {
			return nil
		}
		if err := applyStatus(booking, models.BookingCompleted); err != nil {
			return err
		}
		if err := tx.Save(booking).Error; err != nil {
			return translateDBError(err)
		}
		done = true
		return SyncRoomStatus(tx, booking.RoomID)
	})
	return done, err
}
