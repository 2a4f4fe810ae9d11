package services

import (
	"context"
	"time"

	"github.com/go-co-op/gocron/v2"

	"hotel-booking/logger"
)

// StartExpiryScheduler runs ExpireOverdue every interval on top of the
// read-time sweep. The caller owns the returned scheduler and must Shutdown it.
func StartExpiryScheduler(ctx context.Context, bookings *BookingService, interval time.Duration) (gocron.Scheduler, error) {
	log := logger.FromContext(ctx)
	sched, err := gocron.NewScheduler(gocron.WithLocation(time.UTC))
	if err != nil {
		return nil, err
	}

	_, err = sched.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			n, err := bookings.ExpireOverdue(ctx)
			if err != nil {
				log.Error().Err(err).Msg("scheduled expiry sweep failed")
				return
			}
			log.Debug().Int("completed", n).Msg("scheduled expiry sweep finished")
		}),
		gocron.WithName("booking-expiry-sweep"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		_ = sched.Shutdown()
		return nil, err
	}

	sched.Start()
	log.Info().Dur("interval", interval).Msg("booking expiry scheduler started")
	return sched, nil
}
