package services

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"hotel-booking/logger"
	"hotel-booking/models"
)

type InquiryService struct {
	DB *gorm.DB
}

func NewInquiryService(db *gorm.DB) *InquiryService {
	return &InquiryService{DB: db}
}

type CreateInquiryInput struct {
	Name    string `json:"name" binding:"required,max=150"`
	Email   string `json:"email" binding:"required,email"`
	Subject string `json:"subject" binding:"max=255"`
	Message string `json:"message" binding:"required,max=5000"`
}

type UpdateInquiryInput struct {
	Status models.InquiryStatus `json:"status" binding:"required,inquiry_status"`
}

type InquiryFilter struct {
	Status models.InquiryStatus `form:"status" binding:"omitempty,inquiry_status"`
}

// Create stores a contact message. actor is nil for anonymous senders.
func (s *InquiryService) Create(ctx context.Context, actor *Actor, in CreateInquiryInput) (*models.Inquiry, error) {
	inquiry := models.Inquiry{
		Name:    strings.TrimSpace(in.Name),
		Email:   normalizeEmail(in.Email),
		Subject: strings.TrimSpace(in.Subject),
		Message: strings.TrimSpace(in.Message),
		Status:  models.InquiryOpen,
	}
	if actor != nil {
		uid := actor.UserID
		inquiry.UserID = &uid
	}
	if inquiry.Message == "" {
		return nil, newValidationMessage("message is required")
	}

	if err := s.DB.WithContext(ctx).Create(&inquiry).Error; err != nil {
		return nil, translateDBError(err)
	}
	logger.FromContext(ctx).Info().Uint("inquiry_id", inquiry.ID).Msg("inquiry received")
	return &inquiry, nil
}

func (s *InquiryService) List(ctx context.Context, f InquiryFilter) ([]models.Inquiry, error) {
	q := s.DB.WithContext(ctx)
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	var inquiries []models.Inquiry
	if err := q.Order("created_at DESC").Find(&inquiries).Error; err != nil {
		return nil, err
	}
	return inquiries, nil
}

func (s *InquiryService) UpdateStatus(ctx context.Context, id uint, in UpdateInquiryInput) (*models.Inquiry, error) {
	if !in.Status.Valid() {
		return nil, newValidationMessage("status must be one of open, answered, closed")
	}
	var inquiry models.Inquiry
	if err := s.DB.WithContext(ctx).First(&inquiry, id).Error; err != nil {
		return nil, notFound(err, ErrInquiryNotFound)
	}
	if err := s.DB.WithContext(ctx).Model(&inquiry).Update("status", in.Status).Error; err != nil {
		return nil, err
	}
	inquiry.Status = in.Status
	return &inquiry, nil
}

func (s *InquiryService) Delete(ctx context.Context, id uint) error {
	res := s.DB.WithContext(ctx).Delete(&models.Inquiry{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrInquiryNotFound
	}
	return nil
}
