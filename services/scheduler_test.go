package services

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotel-booking/logger"
	"hotel-booking/models"
)

type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestExpirySchedulerSweepsWithContextLogger(t *testing.T) {
	svc, guest, _, room := newBookingFixture(t)
	svc.now = fixedClock("2026-03-10T09:00:00Z")
	b := mustBooking(t, svc.DB, guest, room, "2026-03-05", "2026-03-09", models.BookingApproved)

	var out lockedBuffer
	l := zerolog.New(&out).Level(zerolog.DebugLevel).With().Str("job", "expiry").Logger()
	ctx := logger.WithContext(context.Background(), &l)

	sched, err := StartExpiryScheduler(ctx, svc, time.Hour)
	require.NoError(t, err)
	t.Cleanup(func() { _ = sched.Shutdown() })

	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "scheduled expiry sweep finished")
	}, 5*time.Second, 20*time.Millisecond)

	assert.Contains(t, out.String(), `"job":"expiry"`)
	assert.Equal(t, models.BookingCompleted, reloadBooking(t, svc.DB, b.ID).Status)
}
