package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"hotel-booking/logger"
	"hotel-booking/models"
)

// RoomCacheInvalidator drops cached room listings after a room's status may have changed.
type RoomCacheInvalidator interface {
	Invalidate(ctx context.Context) error
}

// Mailer delivers plain-text notifications.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// BookingService owns booking validation, pricing and the booking lifecycle.
type BookingService struct {
	DB     *gorm.DB
	Cache  RoomCacheInvalidator
	Mailer Mailer

	// RevalidateOverlapOnUpdate makes date edits pass the same overlap check as creation.
	// When false, overlaps introduced by an edit are only logged.
	RevalidateOverlapOnUpdate bool

	now func() time.Time
}

func NewBookingService(db *gorm.DB) *BookingService {
	return &BookingService{DB: db, now: time.Now}
}

type CreateBookingInput struct {
	UserID        uint                 `json:"user_id"`
	RoomID        uint                 `json:"room_id" binding:"required"`
	StartDate     string               `json:"start_date" binding:"required"`
	EndDate       string               `json:"end_date" binding:"required"`
	Status        models.BookingStatus `json:"status" binding:"omitempty,booking_status"`
	PaymentMethod models.PaymentMethod `json:"payment_method" binding:"omitempty,payment_method"`
	PaymentStatus models.PaymentStatus `json:"payment_status" binding:"omitempty,payment_status"`
}

type UpdateBookingInput struct {
	StartDate     *string               `json:"start_date"`
	EndDate       *string               `json:"end_date"`
	Status        *models.BookingStatus `json:"status" binding:"omitempty,booking_status"`
	PaymentStatus *models.PaymentStatus `json:"payment_status" binding:"omitempty,payment_status"`
	PaymentMethod *models.PaymentMethod `json:"payment_method" binding:"omitempty,payment_method"`
}

// cancelOnly reports whether the update does nothing but cancel the booking.
func (in UpdateBookingInput) cancelOnly() bool {
	return in.Status != nil && *in.Status == models.BookingCancelled &&
		in.StartDate == nil && in.EndDate == nil &&
		in.PaymentStatus == nil && in.PaymentMethod == nil
}

type BookingFilter struct {
	UserID uint                 `form:"user_id"`
	RoomID uint                 `form:"room_id"`
	Status models.BookingStatus `form:"status" binding:"omitempty,booking_status"`
}

// ValidateAndPrice checks that [start, end) is an admissible stay in room and
// returns its total price. excludingID skips the booking being edited.
func ValidateAndPrice(tx *gorm.DB, room *models.Room, start, end time.Time, excludingID uint) (float64, error) {
	if room == nil || room.ID == 0 {
		return 0, ErrRoomNotFound
	}
	if start.IsZero() || end.IsZero() {
		return 0, newValidationMessage("start_date and end_date are required")
	}
	if end.Before(start) {
		return 0, validationError(ErrInvalidDateRange)
	}

	overlapping, err := hasOverlap(tx, room.ID, start, end, excludingID)
	if err != nil {
		return 0, err
	}
	if overlapping {
		return 0, validationError(ErrRoomUnavailable)
	}
	return TotalPrice(start, end, room.Price), nil
}

// hasOverlap looks for any non-cancelled booking of the room intersecting [start, end).
func hasOverlap(tx *gorm.DB, roomID uint, start, end time.Time, excludingID uint) (bool, error) {
	q := tx.Model(&models.Booking{}).
		Where("room_id = ? AND status <> ?", roomID, models.BookingCancelled).
		Where("start_date < ? AND end_date > ?", end, start)
	if excludingID != 0 {
		q = q.Where("id <> ?", excludingID)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Create books a room. The room row is locked for the whole check-then-insert,
// so two requests for the same room are serialized.
func (s *BookingService) Create(ctx context.Context, actor Actor, in CreateBookingInput) (*models.Booking, error) {
	start, end, err := parseRange(in.StartDate, in.EndDate)
	if err != nil {
		return nil, err
	}

	userID := actor.UserID
	if in.UserID != 0 && in.UserID != actor.UserID {
		if !actor.IsAdmin() {
			return nil, ErrForbidden
		}
		userID = in.UserID
	}

	booking := models.Booking{
		UserID:        userID,
		RoomID:        in.RoomID,
		StartDate:     start,
		EndDate:       end,
		Status:        models.BookingPending,
		PaymentStatus: models.PaymentPending,
		PaymentMethod: models.PayAtHotel,
	}
	if in.PaymentMethod != "" {
		booking.PaymentMethod = in.PaymentMethod
	}
	if actor.IsAdmin() {
		if in.Status != "" {
			booking.Status = in.Status
		}
		if in.PaymentStatus != "" {
			booking.PaymentStatus = in.PaymentStatus
		}
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		room, err := lockRoom(tx, booking.RoomID)
		if err != nil {
			return err
		}
		if err := tx.Select("id").First(&models.User{}, userID).Error; err != nil {
			return notFound(err, ErrUserNotFound)
		}

		total, err := ValidateAndPrice(tx, room, start, end, 0)
		if err != nil {
			return err
		}
		booking.TotalPrice = total

		if err := tx.Create(&booking).Error; err != nil {
			return translateDBError(err)
		}
		return SyncRoomStatus(tx, booking.RoomID)
	})
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info().
		Uint("booking_id", booking.ID).
		Uint("room_id", booking.RoomID).
		Uint("user_id", booking.UserID).
		Float64("total_price", booking.TotalPrice).
		Msg("booking created")

	s.invalidateRooms(ctx)

	created, err := s.load(ctx, booking.ID)
	if err != nil {
		return nil, err
	}
	s.sendConfirmation(ctx, created)
	return created, nil
}

// Update applies a partial edit. Guests may only cancel their own bookings.
// The price is recomputed when the dates change; the room status is always resynchronized.
func (s *BookingService) Update(ctx context.Context, actor Actor, id uint, in UpdateBookingInput) (*models.Booking, error) {
	if !actor.IsAdmin() && !in.cancelOnly() {
		return nil, ErrForbidden
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		booking, room, err := lockBooking(tx, id)
		if err != nil {
			return err
		}
		if !actor.owns(booking) {
			return ErrBookingNotFound
		}

		if in.StartDate != nil || in.EndDate != nil {
			if err := s.changeDates(ctx, tx, booking, room, in.StartDate, in.EndDate); err != nil {
				return err
			}
		}
		if in.Status != nil {
			if err := applyStatus(booking, *in.Status); err != nil {
				return err
			}
		}
		if in.PaymentStatus != nil {
			booking.PaymentStatus = *in.PaymentStatus
		}
		if in.PaymentMethod != nil {
			booking.PaymentMethod = *in.PaymentMethod
		}

		if err := tx.Save(booking).Error; err != nil {
			return translateDBError(err)
		}
		return SyncRoomStatus(tx, booking.RoomID)
	})
	if err != nil {
		return nil, err
	}

	s.invalidateRooms(ctx)
	return s.load(ctx, id)
}

func (s *BookingService) changeDates(ctx context.Context, tx *gorm.DB, booking *models.Booking, room *models.Room, rawStart, rawEnd *string) error {
	start, end := booking.StartDate, booking.EndDate
	verr := &ValidationError{}
	if rawStart != nil {
		t, err := ParseDate(*rawStart)
		if err != nil {
			verr.Add(nil, "start_date must be a valid date (YYYY-MM-DD)")
		}
		start = t
	}
	if rawEnd != nil {
		t, err := ParseDate(*rawEnd)
		if err != nil {
			verr.Add(nil, "end_date must be a valid date (YYYY-MM-DD)")
		}
		end = t
	}
	if err := verr.orNil(); err != nil {
		return err
	}

	if start.Equal(booking.StartDate) && end.Equal(booking.EndDate) {
		return nil
	}
	if room == nil {
		return ErrRoomNotFound
	}

	var total float64
	if s.RevalidateOverlapOnUpdate {
		var err error
		if total, err = ValidateAndPrice(tx, room, start, end, booking.ID); err != nil {
			return err
		}
	} else {
		if end.Before(start) {
			return validationError(ErrInvalidDateRange)
		}
		overlapping, err := hasOverlap(tx, room.ID, start, end, booking.ID)
		if err != nil {
			return err
		}
		// on postgres the exclusion constraint still rejects this at Save
		if overlapping {
			logger.FromContext(ctx).Warn().
				Uint("booking_id", booking.ID).
				Uint("room_id", room.ID).
				Str("start_date", start.Format(models.DateLayout)).
				Str("end_date", end.Format(models.DateLayout)).
				Msg("booking dates now overlap another active booking")
		}
		total = TotalPrice(start, end, room.Price)
	}

	booking.StartDate = start
	booking.EndDate = end
	booking.TotalPrice = total
	return nil
}

// Cancel cancels a booking and marks an unsettled payment as failed.
// Cancelling an already cancelled booking is a no-op.
func (s *BookingService) Cancel(ctx context.Context, actor Actor, id uint) (*models.Booking, error) {
	changed := false
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		booking, _, err := lockBooking(tx, id)
		if err != nil {
			return err
		}
		if !actor.owns(booking) {
			return ErrBookingNotFound
		}
		if booking.Status == models.BookingCancelled {
			return nil
		}

		if err := applyStatus(booking, models.BookingCancelled); err != nil {
			return err
		}
		if booking.PaymentStatus != models.PaymentPaid && booking.PaymentStatus != models.PaymentRefunded {
			booking.PaymentStatus = models.PaymentFailed
		}

		if err := tx.Save(booking).Error; err != nil {
			return translateDBError(err)
		}
		changed = true
		return SyncRoomStatus(tx, booking.RoomID)
	})
	if err != nil {
		return nil, err
	}

	if changed {
		logger.FromContext(ctx).Info().Uint("booking_id", id).Msg("booking cancelled")
		s.invalidateRooms(ctx)
	}
	return s.load(ctx, id)
}

// Delete hard-deletes a booking and resynchronizes its room. Admin only.
func (s *BookingService) Delete(ctx context.Context, actor Actor, id uint) error {
	if !actor.IsAdmin() {
		return ErrForbidden
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		booking, _, err := lockBooking(tx, id)
		if err != nil {
			return err
		}
		if err := tx.Delete(booking).Error; err != nil {
			return err
		}
		return SyncRoomStatus(tx, booking.RoomID)
	})
	if err != nil {
		return err
	}

	logger.FromContext(ctx).Info().Uint("booking_id", id).Msg("booking deleted")
	s.invalidateRooms(ctx)
	return nil
}

// List returns bookings matching f after expiring overdue ones. Guests only see their own.
func (s *BookingService) List(ctx context.Context, actor Actor, f BookingFilter) ([]models.Booking, error) {
	s.sweepBeforeRead(ctx)

	if !actor.IsAdmin() {
		f.UserID = actor.UserID
	}

	q := s.DB.WithContext(ctx).Preload("Room").Preload("User")
	if f.UserID != 0 {
		q = q.Where("user_id = ?", f.UserID)
	}
	if f.RoomID != 0 {
		q = q.Where("room_id = ?", f.RoomID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}

	var bookings []models.Booking
	if err := q.Order("start_date DESC").Order("id DESC").Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

// Get returns one booking after expiring overdue ones. A guest asking for
// someone else's booking gets ErrBookingNotFound.
func (s *BookingService) Get(ctx context.Context, actor Actor, id uint) (*models.Booking, error) {
	s.sweepBeforeRead(ctx)

	booking, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.owns(booking) {
		return nil, ErrBookingNotFound
	}
	return booking, nil
}

func (s *BookingService) sweepBeforeRead(ctx context.Context) {
	if _, err := s.ExpireOverdue(ctx); err != nil {
		logger.FromContext(ctx).Error().Err(err).Msg("expiry sweep failed")
	}
}

func (s *BookingService) load(ctx context.Context, id uint) (*models.Booking, error) {
	var booking models.Booking
	if err := s.DB.WithContext(ctx).Preload("Room").Preload("User").First(&booking, id).Error; err != nil {
		return nil, notFound(err, ErrBookingNotFound)
	}
	return &booking, nil
}

func (s *BookingService) invalidateRooms(ctx context.Context) {
	if s.Cache == nil {
		return
	}
	if err := s.Cache.Invalidate(ctx); err != nil {
		logger.FromContext(ctx).Warn().Err(err).Msg("room cache invalidation failed")
	}
}

func (s *BookingService) sendConfirmation(ctx context.Context, b *models.Booking) {
	if s.Mailer == nil || b.User == nil || b.Room == nil {
		return
	}
	body := fmt.Sprintf(
		"Hello %s,\n\nWe received your booking #%d for %s from %s to %s (%d night(s)).\nTotal: %.2f\nStatus: %s\n",
		b.User.Username, b.ID, b.Room.Name,
		b.StartDate.Format(models.DateLayout), b.EndDate.Format(models.DateLayout),
		Nights(b.StartDate, b.EndDate), b.TotalPrice, b.Status,
	)
	if err := s.Mailer.Send(ctx, b.User.Email, "Booking received", body); err != nil {
		logger.FromContext(ctx).Warn().Err(err).Uint("booking_id", b.ID).Msg("booking confirmation not sent")
	}
}

// lockBooking locks the booking's room and then the booking, the same order
// Create uses. room is nil when the room row is gone.
func lockBooking(tx *gorm.DB, id uint) (*models.Booking, *models.Room, error) {
	var ref models.Booking
	if err := tx.Select("id", "room_id").First(&ref, id).Error; err != nil {
		return nil, nil, notFound(err, ErrBookingNotFound)
	}

	room, err := lockRoom(tx, ref.RoomID)
	if err != nil && !errors.Is(err, ErrRoomNotFound) {
		return nil, nil, err
	}

	var booking models.Booking
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&booking, id).Error; err != nil {
		return nil, nil, notFound(err, ErrBookingNotFound)
	}
	return &booking, room, nil
}

func applyStatus(b *models.Booking, next models.BookingStatus) error {
	if !next.Valid() {
		return newValidationMessage("status must be one of pending, approved, cancelled, completed")
	}
	if !b.Status.CanTransitionTo(next) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, b.Status, next)
	}
	b.Status = next
	return nil
}

func parseRange(rawStart, rawEnd string) (time.Time, time.Time, error) {
	verr := &ValidationError{}
	start, err := ParseDate(rawStart)
	if err != nil {
		verr.Add(nil, "start_date must be a valid date (YYYY-MM-DD)")
	}
	end, err := ParseDate(rawEnd)
	if err != nil {
		verr.Add(nil, "end_date must be a valid date (YYYY-MM-DD)")
	}
	return start, end, verr.orNil()
}
