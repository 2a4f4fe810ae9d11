package services

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/gosimple/slug"
	"gorm.io/gorm"

	"hotel-booking/logger"
	"hotel-booking/models"
)

// RoomListCache caches public room listings keyed by the canonical filter.
type RoomListCache interface {
	Get(ctx context.Context, query string, dest any) (bool, error)
	Set(ctx context.Context, query string, value any) error
	Invalidate(ctx context.Context) error
}

type RoomService struct {
	DB     *gorm.DB
	Cache  RoomListCache
	Images *ImageService
}

func NewRoomService(db *gorm.DB) *RoomService {
	return &RoomService{DB: db}
}

type CreateRoomInput struct {
	Name        string              `json:"name" binding:"required,max=100"`
	Description string              `json:"description"`
	Price       float64             `json:"price" binding:"required"`
	Capacity    int                 `json:"capacity" binding:"required"`
	Category    models.RoomCategory `json:"category" binding:"required,room_category"`
	Status      models.RoomStatus   `json:"status" binding:"omitempty,room_status"`
	IsFeatured  bool                `json:"is_featured"`
	Images      []string            `json:"images"`
}

type UpdateRoomInput struct {
	Name           *string              `json:"name" binding:"omitempty,max=100"`
	Description    *string              `json:"description"`
	Price          *float64             `json:"price"`
	Capacity       *int                 `json:"capacity"`
	Category       *models.RoomCategory `json:"category" binding:"omitempty,room_category"`
	Status         *models.RoomStatus   `json:"status" binding:"omitempty,room_status"`
	ManualOverride *bool                `json:"manual_override"`
	IsFeatured     *bool                `json:"is_featured"`
	Images         *[]string            `json:"images"`
}

type RoomFilter struct {
	Category      models.RoomCategory `form:"category" binding:"omitempty,room_category"`
	Status        models.RoomStatus   `form:"status" binding:"omitempty,room_status"`
	Featured      *bool               `form:"featured"`
	MinPrice      *float64            `form:"min_price"`
	MaxPrice      *float64            `form:"max_price"`
	Capacity      int                 `form:"capacity"`
	AvailableFrom string              `form:"available_from"`
	AvailableTo   string              `form:"available_to"`
}

// cacheKey is stable for equal filters.
func (f RoomFilter) cacheKey() string {
	parts := []string{
		"category=" + string(f.Category),
		"status=" + string(f.Status),
		"capacity=" + strconv.Itoa(f.Capacity),
		"from=" + f.AvailableFrom,
		"to=" + f.AvailableTo,
	}
	if f.Featured != nil {
		parts = append(parts, "featured="+strconv.FormatBool(*f.Featured))
	}
	if f.MinPrice != nil {
		parts = append(parts, "min="+strconv.FormatFloat(*f.MinPrice, 'f', 2, 64))
	}
	if f.MaxPrice != nil {
		parts = append(parts, "max="+strconv.FormatFloat(*f.MaxPrice, 'f', 2, 64))
	}
	return strings.Join(parts, "&")
}

func validateRoomFields(v *ValidationError, price float64, capacity int) {
	if price < models.RoomMinPrice || price > models.RoomMaxPrice {
		v.Add(nil, fmt.Sprintf("price must be between %d and %d", models.RoomMinPrice, models.RoomMaxPrice))
	}
	if capacity <= 0 {
		v.Add(nil, "capacity must be greater than 0")
	}
}

func (s *RoomService) List(ctx context.Context, f RoomFilter) ([]models.Room, error) {
	key := f.cacheKey()
	var rooms []models.Room
	if hit, err := s.cache().Get(ctx, key, &rooms); err != nil {
		logger.FromContext(ctx).Warn().Err(err).Msg("room cache read failed")
	} else if hit {
		return rooms, nil
	}

	q := s.DB.WithContext(ctx).Model(&models.Room{})
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Featured != nil {
		q = q.Where("is_featured = ?", *f.Featured)
	}
	if f.MinPrice != nil {
		q = q.Where("price >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		q = q.Where("price <= ?", *f.MaxPrice)
	}
	if f.Capacity > 0 {
		q = q.Where("capacity >= ?", f.Capacity)
	}

	if f.AvailableFrom != "" || f.AvailableTo != "" {
		if f.AvailableFrom == "" || f.AvailableTo == "" {
			return nil, newValidationMessage("available_from and available_to must be given together")
		}
		start, end, err := parseRange(f.AvailableFrom, f.AvailableTo)
		if err != nil {
			return nil, err
		}
		if end.Before(start) {
			return nil, validationError(ErrInvalidDateRange)
		}
		busy := s.DB.Model(&models.Booking{}).
			Select("1").
			Where("bookings.room_id = rooms.id").
			Where("bookings.status <> ?", models.BookingCancelled).
			Where("bookings.start_date < ? AND bookings.end_date > ?", end, start)
		q = q.Where("rooms.status <> ?", models.RoomStatusUnavailable).
			Where("NOT EXISTS (?)", busy)
	}

	rooms = nil
	if err := q.Order("rooms.id ASC").Find(&rooms).Error; err != nil {
		return nil, err
	}

	if err := s.cache().Set(ctx, key, rooms); err != nil {
		logger.FromContext(ctx).Warn().Err(err).Msg("room cache write failed")
	}
	return rooms, nil
}

// Get looks a room up by numeric id or by slug.
func (s *RoomService) Get(ctx context.Context, idOrSlug string) (*models.Room, error) {
	var room models.Room
	q := s.DB.WithContext(ctx)
	var err error
	if id, convErr := strconv.ParseUint(idOrSlug, 10, 64); convErr == nil {
		err = q.First(&room, uint(id)).Error
	} else {
		err = q.Where("slug = ?", idOrSlug).First(&room).Error
	}
	if err != nil {
		return nil, notFound(err, ErrRoomNotFound)
	}
	return &room, nil
}

func (s *RoomService) Create(ctx context.Context, in CreateRoomInput) (*models.Room, error) {
	verr := &ValidationError{}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		verr.Add(nil, "name is required")
	}
	validateRoomFields(verr, in.Price, in.Capacity)
	if !in.Category.Valid() {
		verr.Add(nil, "category must be one of single, couple, family, presidential")
	}
	if err := verr.orNil(); err != nil {
		return nil, err
	}

	room := models.Room{
		Name:        name,
		Slug:        slug.Make(name),
		Description: in.Description,
		Price:       in.Price,
		Capacity:    in.Capacity,
		Category:    in.Category,
		Status:      models.RoomStatusAvailable,
		IsFeatured:  in.IsFeatured,
		Images:      in.Images,
	}
	if room.Images == nil {
		room.Images = []string{}
	}
	if in.Status == models.RoomStatusUnavailable {
		room.Status = models.RoomStatusUnavailable
		room.ManualOverride = true
	}

	if err := s.DB.WithContext(ctx).Create(&room).Error; err != nil {
		return nil, translateDBError(err)
	}
	s.invalidate(ctx)
	return &room, nil
}

// Update edits a room. Setting status to unavailable pins it under manual
// override; setting available/booked, or manual_override=false, releases the
// pin and recomputes the status from live bookings.
func (s *RoomService) Update(ctx context.Context, id uint, in UpdateRoomInput) (*models.Room, error) {
	var room *models.Room
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if room, err = lockRoom(tx, id); err != nil {
			return err
		}

		verr := &ValidationError{}
		if in.Name != nil {
			name := strings.TrimSpace(*in.Name)
			if name == "" {
				verr.Add(nil, "name is required")
			}
			room.Name = name
			room.Slug = slug.Make(name)
		}
		if in.Description != nil {
			room.Description = *in.Description
		}
		if in.Price != nil {
			room.Price = *in.Price
		}
		if in.Capacity != nil {
			room.Capacity = *in.Capacity
		}
		if in.Category != nil {
			if !in.Category.Valid() {
				verr.Add(nil, "category must be one of single, couple, family, presidential")
			}
			room.Category = *in.Category
		}
		if in.IsFeatured != nil {
			room.IsFeatured = *in.IsFeatured
		}
		if in.Images != nil {
			room.Images = *in.Images
		}
		validateRoomFields(verr, room.Price, room.Capacity)
		if err := verr.orNil(); err != nil {
			return err
		}

		resync := false
		if in.ManualOverride != nil {
			room.ManualOverride = *in.ManualOverride
			resync = !room.ManualOverride
		}
		if in.Status != nil {
			switch *in.Status {
			case models.RoomStatusUnavailable:
				room.Status = models.RoomStatusUnavailable
				room.ManualOverride = true
				resync = false
			case models.RoomStatusAvailable, models.RoomStatusBooked:
				room.ManualOverride = false
				resync = true
			default:
				return newValidationMessage("status must be one of available, booked, unavailable")
			}
		}

		if err := tx.Save(room).Error; err != nil {
			return translateDBError(err)
		}
		if resync {
			if err := SyncRoomStatus(tx, room.ID); err != nil {
				return err
			}
			return tx.First(room, room.ID).Error
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	return room, nil
}

// Delete removes a room together with its bookings and reviews.
func (s *RoomService) Delete(ctx context.Context, id uint) error {
	var room models.Room
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&room, id).Error; err != nil {
			return notFound(err, ErrRoomNotFound)
		}
		if err := tx.Where("room_id = ?", id).Delete(&models.Review{}).Error; err != nil {
			return err
		}
		if err := tx.Where("room_id = ?", id).Delete(&models.Booking{}).Error; err != nil {
			return err
		}
		return tx.Delete(&room).Error
	})
	if err != nil {
		return err
	}

	for _, url := range room.Images {
		s.Images.Remove(ctx, url)
	}
	s.invalidate(ctx)
	logger.FromContext(ctx).Info().Uint("room_id", id).Msg("room deleted")
	return nil
}

// AddImage stores an uploaded picture and appends its URL to the room.
func (s *RoomService) AddImage(ctx context.Context, id uint, r io.Reader) (*models.Room, error) {
	if _, err := s.Get(ctx, strconv.FormatUint(uint64(id), 10)); err != nil {
		return nil, err
	}
	if s.Images == nil {
		return nil, fmt.Errorf("image storage is not configured")
	}

	url, err := s.Images.SaveImage(ctx, r, fmt.Sprintf("rooms/%d", id))
	if err != nil {
		return nil, err
	}

	var room *models.Room
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if room, err = lockRoom(tx, id); err != nil {
			return err
		}
		room.Images = append(room.Images, url)
		return tx.Model(room).Update("images", room.Images).Error
	})
	if err != nil {
		s.Images.Remove(ctx, url)
		return nil, err
	}

	s.invalidate(ctx)
	return room, nil
}

func (s *RoomService) cache() RoomListCache {
	if s.Cache == nil {
		return noopCache{}
	}
	return s.Cache
}

func (s *RoomService) invalidate(ctx context.Context) {
	if err := s.cache().Invalidate(ctx); err != nil {
		logger.FromContext(ctx).Warn().Err(err).Msg("room cache invalidation failed")
	}
}

type noopCache struct{}

func (noopCache) Get(context.Context, string, any) (bool, error) { return false, nil }
func (noopCache) Set(context.Context, string, any) error         { return nil }
func (noopCache) Invalidate(context.Context) error               { return nil }
