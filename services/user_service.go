package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"hotel-booking/logger"
	"hotel-booking/models"
	"hotel-booking/utils"
)

const resetCodeLength = 6

// TokenIssuer signs access tokens for authenticated users.
type TokenIssuer interface {
	Issue(user *models.User) (string, time.Time, error)
}

type UserService struct {
	DB     *gorm.DB
	Tokens TokenIssuer
	Mailer Mailer
	Images *ImageService
	Cache  RoomCacheInvalidator

	ResetCodeTTL time.Duration

	now func() time.Time
}

func NewUserService(db *gorm.DB, tokens TokenIssuer) *UserService {
	return &UserService{DB: db, Tokens: tokens, ResetCodeTTL: 15 * time.Minute, now: time.Now}
}

type RegisterInput struct {
	Username string `json:"username" binding:"required,min=3,max=150"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=72"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type ForgotPasswordInput struct {
	Email string `json:"email" binding:"required,email"`
}

type ResetPasswordInput struct {
	Email    string `json:"email" binding:"required,email"`
	Code     string `json:"code" binding:"required,len=6,numeric"`
	Password string `json:"password" binding:"required,min=8,max=72"`
}

type UpdateUserInput struct {
	Role   *models.UserRole   `json:"role" binding:"omitempty,user_role"`
	Status *models.UserStatus `json:"status" binding:"omitempty,user_status"`
}

type AuthResult struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *models.User `json:"user"`
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *UserService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := models.User{
		Username: strings.TrimSpace(in.Username),
		Email:    normalizeEmail(in.Email),
		Password: string(hash),
		Role:     models.RoleUser,
		Status:   models.UserActive,
	}
	if err := s.DB.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, translateDBError(err)
	}
	logger.FromContext(ctx).Info().Uint("user_id", user.ID).Msg("user registered")
	return s.issue(&user)
}

func (s *UserService) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	var user models.User
	if err := s.DB.WithContext(ctx).Where("email = ?", normalizeEmail(in.Email)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.Password)) != nil {
		return nil, ErrInvalidCredentials
	}
	if user.Status == models.UserBlocked {
		return nil, ErrAccountBlocked
	}
	return s.issue(&user)
}

func (s *UserService) issue(user *models.User) (*AuthResult, error) {
	token, exp, err := s.Tokens.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &AuthResult{Token: token, ExpiresAt: exp, User: user}, nil
}

// ForgotPassword stores a fresh numeric reset code and mails it. Unknown
// emails succeed silently so the endpoint does not reveal which accounts exist.
func (s *UserService) ForgotPassword(ctx context.Context, in ForgotPasswordInput) error {
	var user models.User
	err := s.DB.WithContext(ctx).Where("email = ?", normalizeEmail(in.Email)).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	code, err := utils.GenerateNumericCode(resetCodeLength)
	if err != nil {
		return fmt.Errorf("generate reset code: %w", err)
	}
	expires := s.now().UTC().Add(s.ResetCodeTTL)
	if err := s.DB.WithContext(ctx).Model(&user).Updates(map[string]interface{}{
		"reset_code":         code,
		"reset_code_expires": expires,
	}).Error; err != nil {
		return err
	}

	if s.Mailer != nil {
		body := fmt.Sprintf("Hello %s,\n\nYour password reset code is %s. It expires in %d minutes.\n",
			user.Username, code, int(s.ResetCodeTTL.Minutes()))
		if err := s.Mailer.Send(ctx, user.Email, "Password reset code", body); err != nil {
			logger.FromContext(ctx).Warn().Err(err).Uint("user_id", user.ID).Msg("reset code email not sent")
		}
	}
	return nil
}

func (s *UserService) ResetPassword(ctx context.Context, in ResetPasswordInput) error {
	var user models.User
	if err := s.DB.WithContext(ctx).Where("email = ?", normalizeEmail(in.Email)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvalidResetCode
		}
		return err
	}

	if user.ResetCode == nil || user.ResetCodeExpires == nil ||
		subtle.ConstantTimeCompare([]byte(*user.ResetCode), []byte(in.Code)) != 1 ||
		!s.now().Before(*user.ResetCodeExpires) {
		return ErrInvalidResetCode
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.DB.WithContext(ctx).Model(&user).Updates(map[string]interface{}{
		"password":           string(hash),
		"reset_code":         nil,
		"reset_code_expires": nil,
	}).Error
}

func (s *UserService) Get(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.DB.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, notFound(err, ErrUserNotFound)
	}
	return &user, nil
}

func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := s.DB.WithContext(ctx).Order("id ASC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// Update changes a user's role or status. Admins cannot demote or block themselves.
func (s *UserService) Update(ctx context.Context, actor Actor, id uint, in UpdateUserInput) (*models.User, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if id == actor.UserID {
		if (in.Role != nil && *in.Role != models.RoleAdmin) || (in.Status != nil && *in.Status == models.UserBlocked) {
			return nil, ErrForbidden
		}
	}

	updates := map[string]interface{}{}
	if in.Role != nil {
		updates["role"] = *in.Role
	}
	if in.Status != nil {
		updates["status"] = *in.Status
	}
	if len(updates) == 0 {
		return user, nil
	}
	if err := s.DB.WithContext(ctx).Model(user).Updates(updates).Error; err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// Delete removes a user with their bookings and reviews; inquiries are kept
// but detached. Rooms of removed bookings are resynchronized.
func (s *UserService) Delete(ctx context.Context, actor Actor, id uint) error {
	if id == actor.UserID {
		return ErrForbidden
	}

	var avatar string
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, id).Error; err != nil {
			return notFound(err, ErrUserNotFound)
		}
		avatar = user.Avatar

		var roomIDs []uint
		if err := tx.Model(&models.Booking{}).Where("user_id = ?", id).
			Distinct("room_id").Pluck("room_id", &roomIDs).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.Booking{}).Error; err != nil {
			return err
		}
		for _, roomID := range roomIDs {
			if err := SyncRoomStatus(tx, roomID); err != nil {
				return err
			}
		}

		if err := tx.Where("user_id = ?", id).Delete(&models.Review{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Inquiry{}).Where("user_id = ?", id).Update("user_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&user).Error
	})
	if err != nil {
		return err
	}

	s.Images.Remove(ctx, avatar)
	if s.Cache != nil {
		if err := s.Cache.Invalidate(ctx); err != nil {
			logger.FromContext(ctx).Warn().Err(err).Msg("room cache invalidation failed")
		}
	}
	logger.FromContext(ctx).Info().Uint("user_id", id).Msg("user deleted")
	return nil
}

// UpdateAvatar stores a new avatar for the acting user and drops the old file.
func (s *UserService) UpdateAvatar(ctx context.Context, actor Actor, r io.Reader) (*models.User, error) {
	if s.Images == nil {
		return nil, fmt.Errorf("image storage is not configured")
	}
	user, err := s.Get(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}

	url, err := s.Images.SaveImage(ctx, r, fmt.Sprintf("avatars/%d", user.ID))
	if err != nil {
		return nil, err
	}
	old := user.Avatar
	if err := s.DB.WithContext(ctx).Model(user).Update("avatar", url).Error; err != nil {
		s.Images.Remove(ctx, url)
		return nil, err
	}
	user.Avatar = url
	s.Images.Remove(ctx, old)
	return user, nil
}
