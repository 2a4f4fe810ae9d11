package routes

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"hotel-booking/config"
	"hotel-booking/controllers"
	"hotel-booking/models"
	"hotel-booking/services"
	"hotel-booking/storage"
	"hotel-booking/utils"
)

type apiFixture struct {
	router *gin.Engine
	db     *gorm.DB

	guest, stranger, admin *models.User
	guestToken             string
	strangerToken          string
	adminToken             string
	room                   *models.Room
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, config.Migrate(db))

	cfg := &config.Config{
		CORSOrigins: []string{"*"},
		Storage:     config.StorageConfig{Driver: "local", UploadDir: t.TempDir(), PublicBaseURL: "http://localhost:8080"},
	}
	tokens := utils.NewTokenManager("test-secret", time.Hour)
	store, err := storage.New(context.Background(), cfg.Storage)
	require.NoError(t, err)

	bookings := services.NewBookingService(db)
	users := services.NewUserService(db, tokens)
	users.Images = services.NewImageService(store)
	router := SetupRouter(cfg, tokens, Handlers{
		Health:    controllers.NewHealthController(db),
		Auth:      controllers.NewAuthController(users),
		Users:     controllers.NewUserController(users),
		Rooms:     controllers.NewRoomController(services.NewRoomService(db)),
		Reviews:   controllers.NewReviewController(services.NewReviewService(db)),
		Bookings:  controllers.NewBookingController(bookings),
		Inquiries: controllers.NewInquiryController(services.NewInquiryService(db)),
		Stats:     controllers.NewStatsController(services.NewStatsService(db, bookings)),
	})

	f := &apiFixture{router: router, db: db}
	f.guest = f.user(t, "guest", models.RoleUser)
	f.stranger = f.user(t, "stranger", models.RoleUser)
	f.admin = f.user(t, "admin", models.RoleAdmin)
	f.guestToken = f.token(t, tokens, f.guest)
	f.strangerToken = f.token(t, tokens, f.stranger)
	f.adminToken = f.token(t, tokens, f.admin)

	f.room = &models.Room{
		Name: "Ocean Couple", Slug: "ocean-couple", Price: 15000, Capacity: 2,
		Category: models.RoomCategoryCouple, Status: models.RoomStatusAvailable, Images: []string{},
	}
	require.NoError(t, db.Create(f.room).Error)
	return f
}

func (f *apiFixture) user(t *testing.T, name string, role models.UserRole) *models.User {
	u := &models.User{Username: name, Email: name + "@example.com", Password: "x", Role: role, Status: models.UserActive}
	require.NoError(t, f.db.Create(u).Error)
	return u
}

func (f *apiFixture) token(t *testing.T, tokens *utils.TokenManager, u *models.User) string {
	tok, _, err := tokens.Issue(u)
	require.NoError(t, err)
	return tok
}

func (f *apiFixture) do(method, path, token, body string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	f := newAPIFixture(t)
	w := f.do(http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "up", gjson.Get(w.Body.String(), "database").String())
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestBookingsRequireToken(t *testing.T) {
	f := newAPIFixture(t)

	w := f.do(http.MethodGet, "/api/bookings", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, gjson.Get(w.Body.String(), "success").Bool())

	w = f.do(http.MethodGet, "/api/bookings", "not-a-token", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreateBookingEndpoint(t *testing.T) {
	f := newAPIFixture(t)
	body := fmt.Sprintf(`{"room_id":%d,"start_date":"2026-03-01","end_date":"2026-03-04"}`, f.room.ID)

	w := f.do(http.MethodPost, "/api/bookings", f.guestToken, body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	res := w.Body.String()
	assert.True(t, gjson.Get(res, "success").Bool())
	assert.Equal(t, 45000.0, gjson.Get(res, "data.total_price").Float())
	assert.EqualValues(t, 3, gjson.Get(res, "data.nights").Int())
	assert.Equal(t, "2026-03-01", gjson.Get(res, "data.start_date").String())
	assert.Equal(t, "pending", gjson.Get(res, "data.status").String())
	assert.Equal(t, "Ocean Couple", gjson.Get(res, "data.room.name").String())
	assert.Equal(t, "guest", gjson.Get(res, "data.user.username").String())

	body = fmt.Sprintf(`{"room_id":%d,"start_date":"2026-03-03","end_date":"2026-03-06"}`, f.room.ID)
	w = f.do(http.MethodPost, "/api/bookings", f.strangerToken, body)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "Room is not available for the selected dates", gjson.Get(w.Body.String(), "errors.0").String())

	w = f.do(http.MethodGet, "/api/rooms/"+fmt.Sprint(f.room.ID), "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "booked", gjson.Get(w.Body.String(), "data.status").String())
}

func TestCreateBookingRejectsBadPayloads(t *testing.T) {
	f := newAPIFixture(t)

	w := f.do(http.MethodPost, "/api/bookings", f.guestToken, `{"room_id":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(http.MethodPost, "/api/bookings", f.guestToken, `{"start_date":"2026-03-01","end_date":"2026-03-02"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, gjson.Get(w.Body.String(), "errors").String(), "room_id is required")

	body := fmt.Sprintf(`{"room_id":%d,"start_date":"2026-03-01","end_date":"2026-03-02","payment_method":"bitcoin"}`, f.room.ID)
	w = f.do(http.MethodPost, "/api/bookings", f.guestToken, body)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, gjson.Get(w.Body.String(), "errors.0").String(), "payment_method must be one of")

	body = fmt.Sprintf(`{"room_id":%d,"start_date":"2026-03-05","end_date":"2026-03-01"}`, f.room.ID)
	w = f.do(http.MethodPost, "/api/bookings", f.guestToken, body)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = f.do(http.MethodPost, "/api/bookings", f.guestToken, `{"room_id":999,"start_date":"2026-03-01","end_date":"2026-03-02"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBookingAccessControl(t *testing.T) {
	f := newAPIFixture(t)
	body := fmt.Sprintf(`{"room_id":%d,"start_date":"2026-03-01","end_date":"2026-03-04"}`, f.room.ID)
	w := f.do(http.MethodPost, "/api/bookings", f.guestToken, body)
	require.Equal(t, http.StatusCreated, w.Code)
	id := gjson.Get(w.Body.String(), "data.id").Int()
	path := fmt.Sprintf("/api/bookings/%d", id)

	assert.Equal(t, http.StatusNotFound, f.do(http.MethodGet, path, f.strangerToken, "").Code)
	assert.Equal(t, http.StatusOK, f.do(http.MethodGet, path, f.guestToken, "").Code)
	assert.Equal(t, http.StatusForbidden, f.do(http.MethodDelete, path, f.guestToken, "").Code)
	assert.Equal(t, http.StatusForbidden, f.do(http.MethodPatch, path, f.guestToken, `{"status":"approved"}`).Code)

	w = f.do(http.MethodGet, "/api/bookings", f.strangerToken, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 0, gjson.Get(w.Body.String(), "data.#").Int())

	w = f.do(http.MethodPatch, path, f.adminToken, `{"status":"completed"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = f.do(http.MethodPost, path+"/cancel", f.guestToken, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "cancelled", gjson.Get(w.Body.String(), "data.status").String())
	assert.Equal(t, "failed", gjson.Get(w.Body.String(), "data.payment_status").String())

	assert.Equal(t, http.StatusOK, f.do(http.MethodDelete, path, f.adminToken, "").Code)
	assert.Equal(t, http.StatusNotFound, f.do(http.MethodGet, path, f.adminToken, "").Code)
}

func TestAdminRoutes(t *testing.T) {
	f := newAPIFixture(t)

	assert.Equal(t, http.StatusForbidden, f.do(http.MethodGet, "/api/admin/stats", f.guestToken, "").Code)

	w := f.do(http.MethodGet, "/api/admin/stats", f.adminToken, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 3, gjson.Get(w.Body.String(), "data.users").Int())

	w = f.do(http.MethodPost, "/api/rooms", f.adminToken, `{"name":"Garden Single","price":7500,"capacity":1,"category":"single"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "garden-single", gjson.Get(w.Body.String(), "data.slug").String())

	w = f.do(http.MethodPost, "/api/rooms", f.adminToken, `{"name":"Broom Closet","price":100,"capacity":1,"category":"single"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = f.do(http.MethodGet, "/api/rooms?category=single", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, gjson.Get(w.Body.String(), "data.#").Int())

	w = f.do(http.MethodPatch, fmt.Sprintf("/api/users/%d", f.admin.ID), f.adminToken, `{"role":"user"}`)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRegisterLoginAndMe(t *testing.T) {
	f := newAPIFixture(t)

	w := f.do(http.MethodPost, "/api/auth/register", "", `{"username":"ivy","email":"ivy@example.com","password":"password123"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Empty(t, gjson.Get(w.Body.String(), "data.user.password").String())

	w = f.do(http.MethodPost, "/api/auth/register", "", `{"username":"ivy2","email":"ivy@example.com","password":"password123"}`)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = f.do(http.MethodPost, "/api/auth/login", "", `{"email":"ivy@example.com","password":"bad-password"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = f.do(http.MethodPost, "/api/auth/login", "", `{"email":"ivy@example.com","password":"password123"}`)
	require.Equal(t, http.StatusOK, w.Code)
	token := gjson.Get(w.Body.String(), "data.token").String()
	require.NotEmpty(t, token)

	w = f.do(http.MethodGet, "/api/auth/me", token, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ivy", gjson.Get(w.Body.String(), "data.username").String())
}

func TestInquiryOptionalAuth(t *testing.T) {
	f := newAPIFixture(t)

	w := f.do(http.MethodPost, "/api/inquiries", "", `{"name":"Jo","email":"jo@example.com","message":"Is breakfast included?"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.False(t, gjson.Get(w.Body.String(), "data.user_id").Exists())

	w = f.do(http.MethodPost, "/api/inquiries", f.guestToken, `{"name":"Guest","email":"guest@example.com","message":"Parking?"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.EqualValues(t, f.guest.ID, gjson.Get(w.Body.String(), "data.user_id").Int())

	assert.Equal(t, http.StatusForbidden, f.do(http.MethodGet, "/api/inquiries", f.guestToken, "").Code)
	w = f.do(http.MethodGet, "/api/inquiries", f.adminToken, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 2, gjson.Get(w.Body.String(), "data.#").Int())
}

func TestUploadAvatarFromDataURL(t *testing.T) {
	f := newAPIFixture(t)

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 64, 64))))
	payload := fmt.Sprintf(`{"image":"data:image/png;base64,%s"}`, base64.StdEncoding.EncodeToString(buf.Bytes()))

	w := f.do(http.MethodPost, "/api/users/me/avatar", f.guestToken, payload)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	avatar := gjson.Get(w.Body.String(), "data.avatar").String()
	assert.True(t, strings.HasPrefix(avatar, fmt.Sprintf("http://localhost:8080/uploads/avatars/%d/", f.guest.ID)), avatar)

	w = f.do(http.MethodPost, "/api/users/me/avatar", f.guestToken, `{"image":"%%%not-base64"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}
