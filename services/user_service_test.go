package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotel-booking/models"
)

type stubTokens struct{}

func (stubTokens) Issue(user *models.User) (string, time.Time, error) {
	return fmt.Sprintf("token-%d", user.ID), time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC), nil
}

func newUserFixture(t *testing.T) (*UserService, *recordingMailer) {
	t.Helper()
	svc := NewUserService(newTestDB(t), stubTokens{})
	mailer := &recordingMailer{}
	svc.Mailer = mailer
	return svc, mailer
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _ := newUserFixture(t)
	ctx := context.Background()

	res, err := svc.Register(ctx, RegisterInput{Username: "alice", Email: " Alice@Example.com ", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", res.User.Email)
	assert.Equal(t, models.RoleUser, res.User.Role)
	assert.Equal(t, fmt.Sprintf("token-%d", res.User.ID), res.Token)
	assert.NotEqual(t, "password123", res.User.Password)

	_, err = svc.Register(ctx, RegisterInput{Username: "alice2", Email: "alice@example.com", Password: "password123"})
	assert.ErrorIs(t, err, ErrDuplicate)

	res, err = svc.Login(ctx, LoginInput{Email: "ALICE@example.com", Password: "password123"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)

	_, err = svc.Login(ctx, LoginInput{Email: "alice@example.com", Password: "wrong-password"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(ctx, LoginInput{Email: "nobody@example.com", Password: "password123"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	require.NoError(t, svc.DB.Model(&models.User{}).Where("id = ?", res.User.ID).Update("status", models.UserBlocked).Error)
	_, err = svc.Login(ctx, LoginInput{Email: "alice@example.com", Password: "password123"})
	assert.ErrorIs(t, err, ErrAccountBlocked)
}

func TestPasswordReset(t *testing.T) {
	svc, mailer := newUserFixture(t)
	ctx := context.Background()
	svc.now = fixedClock("2026-03-01T12:00:00Z")

	reg, err := svc.Register(ctx, RegisterInput{Username: "bob", Email: "bob@example.com", Password: "password123"})
	require.NoError(t, err)

	require.NoError(t, svc.ForgotPassword(ctx, ForgotPasswordInput{Email: "ghost@example.com"}))
	assert.Empty(t, mailer.sent)

	require.NoError(t, svc.ForgotPassword(ctx, ForgotPasswordInput{Email: "bob@example.com"}))
	user, err := svc.Get(ctx, reg.User.ID)
	require.NoError(t, err)
	require.NotNil(t, user.ResetCode)
	code := *user.ResetCode
	assert.Len(t, code, 6)
	assert.Contains(t, mailer.last().Body, code)

	err = svc.ResetPassword(ctx, ResetPasswordInput{Email: "bob@example.com", Code: "000000x", Password: "newpassword1"})
	assert.ErrorIs(t, err, ErrInvalidResetCode)

	svc.now = fixedClock("2026-03-01T13:00:00Z")
	err = svc.ResetPassword(ctx, ResetPasswordInput{Email: "bob@example.com", Code: code, Password: "newpassword1"})
	assert.ErrorIs(t, err, ErrInvalidResetCode, "code is past its TTL")

	svc.now = fixedClock("2026-03-01T12:05:00Z")
	require.NoError(t, svc.ResetPassword(ctx, ResetPasswordInput{Email: "bob@example.com", Code: code, Password: "newpassword1"}))

	_, err = svc.Login(ctx, LoginInput{Email: "bob@example.com", Password: "newpassword1"})
	require.NoError(t, err)

	err = svc.ResetPassword(ctx, ResetPasswordInput{Email: "bob@example.com", Code: code, Password: "another-pass"})
	assert.ErrorIs(t, err, ErrInvalidResetCode, "codes are single use")
}

func TestAdminCannotLockThemselvesOut(t *testing.T) {
	svc, _ := newUserFixture(t)
	ctx := context.Background()
	admin := mustUser(t, svc.DB, "root", models.RoleAdmin)
	other := mustUser(t, svc.DB, "carol", models.RoleUser)
	self := Actor{UserID: admin.ID, Role: models.RoleAdmin}

	role := models.RoleUser
	_, err := svc.Update(ctx, self, admin.ID, UpdateUserInput{Role: &role})
	assert.ErrorIs(t, err, ErrForbidden)

	blocked := models.UserBlocked
	_, err = svc.Update(ctx, self, admin.ID, UpdateUserInput{Status: &blocked})
	assert.ErrorIs(t, err, ErrForbidden)
	assert.ErrorIs(t, svc.Delete(ctx, self, admin.ID), ErrForbidden)

	updated, err := svc.Update(ctx, self, other.ID, UpdateUserInput{Status: &blocked})
	require.NoError(t, err)
	assert.Equal(t, models.UserBlocked, updated.Status)

	_, err = svc.Update(ctx, self, 999, UpdateUserInput{Status: &blocked})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestDeleteUserCleansUp(t *testing.T) {
	svc, _ := newUserFixture(t)
	ctx := context.Background()
	cache := &countingCache{}
	svc.Cache = cache

	admin := mustUser(t, svc.DB, "root", models.RoleAdmin)
	guest := mustUser(t, svc.DB, "dave", models.RoleUser)
	room := mustRoom(t, svc.DB, "Ocean Couple", 15000)
	mustBooking(t, svc.DB, guest, room, "2026-03-01", "2026-03-05", models.BookingApproved)
	require.NoError(t, SyncRoomStatus(svc.DB, room.ID))
	require.NoError(t, svc.DB.Create(&models.Review{RoomID: room.ID, UserID: guest.ID, Rating: 4}).Error)
	uid := guest.ID
	require.NoError(t, svc.DB.Create(&models.Inquiry{UserID: &uid, Name: "Dave", Email: "dave@example.com", Message: "hi", Status: models.InquiryOpen}).Error)

	require.NoError(t, svc.Delete(ctx, Actor{UserID: admin.ID, Role: models.RoleAdmin}, guest.ID))

	_, err := svc.Get(ctx, guest.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.Equal(t, models.RoomStatusAvailable, reloadRoom(t, svc.DB, room.ID).Status)

	var inquiry models.Inquiry
	require.NoError(t, svc.DB.First(&inquiry).Error)
	assert.Nil(t, inquiry.UserID)
	assert.Equal(t, 1, cache.count())
}
