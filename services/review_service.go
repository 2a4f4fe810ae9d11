package services

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"hotel-booking/models"
)

type ReviewService struct {
	DB *gorm.DB
}

func NewReviewService(db *gorm.DB) *ReviewService {
	return &ReviewService{DB: db}
}

type CreateReviewInput struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment" binding:"max=2000"`
}

func (s *ReviewService) ListForRoom(ctx context.Context, roomID uint) ([]models.Review, error) {
	if err := s.DB.WithContext(ctx).Select("id").First(&models.Room{}, roomID).Error; err != nil {
		return nil, notFound(err, ErrRoomNotFound)
	}

	var reviews []models.Review
	if err := s.DB.WithContext(ctx).
		Preload("User").
		Where("room_id = ?", roomID).
		Order("created_at DESC").
		Find(&reviews).Error; err != nil {
		return nil, err
	}
	return reviews, nil
}

func (s *ReviewService) Create(ctx context.Context, actor Actor, roomID uint, in CreateReviewInput) (*models.Review, error) {
	if in.Rating < 1 || in.Rating > 5 {
		return nil, newValidationMessage("rating must be between 1 and 5")
	}
	if err := s.DB.WithContext(ctx).Select("id").First(&models.Room{}, roomID).Error; err != nil {
		return nil, notFound(err, ErrRoomNotFound)
	}

	review := models.Review{
		RoomID:  roomID,
		UserID:  actor.UserID,
		Rating:  in.Rating,
		Comment: strings.TrimSpace(in.Comment),
	}
	if err := s.DB.WithContext(ctx).Create(&review).Error; err != nil {
		return nil, translateDBError(err)
	}
	if err := s.DB.WithContext(ctx).Preload("User").First(&review, review.ID).Error; err != nil {
		return nil, err
	}
	return &review, nil
}

// Delete removes a review. Only its author or an admin may do so.
func (s *ReviewService) Delete(ctx context.Context, actor Actor, id uint) error {
	var review models.Review
	if err := s.DB.WithContext(ctx).First(&review, id).Error; err != nil {
		return notFound(err, ErrReviewNotFound)
	}
	if !actor.IsAdmin() && review.UserID != actor.UserID {
		return ErrForbidden
	}
	return s.DB.WithContext(ctx).Delete(&review).Error
}
