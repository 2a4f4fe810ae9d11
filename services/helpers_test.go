package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"hotel-booking/config"
	"hotel-booking/models"
)

// newTestDB opens a private in-memory sqlite database. A single connection
// serializes transactions the way row locks do on mysql/postgres.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, config.Migrate(db))
	return db
}

func date(t *testing.T, raw string) time.Time {
	t.Helper()
	d, err := ParseDate(raw)
	require.NoError(t, err)
	return d
}

func mustUser(t *testing.T, db *gorm.DB, username string, role models.UserRole) *models.User {
	t.Helper()
	u := &models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: "x",
		Role:     role,
		Status:   models.UserActive,
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

func mustRoom(t *testing.T, db *gorm.DB, name string, price float64) *models.Room {
	t.Helper()
	r := &models.Room{
		Name:     name,
		Slug:     strings.ToLower(strings.ReplaceAll(name, " ", "-")),
		Price:    price,
		Capacity: 2,
		Category: models.RoomCategoryCouple,
		Status:   models.RoomStatusAvailable,
		Images:   []string{},
	}
	require.NoError(t, db.Create(r).Error)
	return r
}

func mustBooking(t *testing.T, db *gorm.DB, user *models.User, room *models.Room, start, end string, status models.BookingStatus) *models.Booking {
	t.Helper()
	s, e := date(t, start), date(t, end)
	b := &models.Booking{
		UserID:        user.ID,
		RoomID:        room.ID,
		StartDate:     s,
		EndDate:       e,
		Status:        status,
		PaymentStatus: models.PaymentPending,
		PaymentMethod: models.PayAtHotel,
		TotalPrice:    TotalPrice(s, e, room.Price),
	}
	require.NoError(t, db.Create(b).Error)
	return b
}

func reloadRoom(t *testing.T, db *gorm.DB, id uint) *models.Room {
	t.Helper()
	var r models.Room
	require.NoError(t, db.First(&r, id).Error)
	return &r
}

func reloadBooking(t *testing.T, db *gorm.DB, id uint) *models.Booking {
	t.Helper()
	var b models.Booking
	require.NoError(t, db.First(&b, id).Error)
	return &b
}

func fixedClock(raw string) func() time.Time {
	ts, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		panic(err)
	}
	return func() time.Time { return ts }
}

type countingCache struct {
	mu          sync.Mutex
	invalidated int
}

func (c *countingCache) Invalidate(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidated++
	return nil
}

func (c *countingCache) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.invalidated
}

type sentMail struct {
	To, Subject, Body string
}

type recordingMailer struct {
	mu   sync.Mutex
	sent []sentMail
}

func (m *recordingMailer) Send(_ context.Context, to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMail{To: to, Subject: subject, Body: body})
	return nil
}

func (m *recordingMailer) last() sentMail {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.sent) == 0 {
		return sentMail{}
	}
	return m.sent[len(m.sent)-1]
}
