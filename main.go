package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-co-op/gocron/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"hotel-booking/cache"
	"hotel-booking/config"
	"hotel-booking/controllers"
	"hotel-booking/logger"
	"hotel-booking/routes"
	"hotel-booking/services"
	"hotel-booking/storage"
	"hotel-booking/utils"
)

func main() {
	root := &cobra.Command{
		Use:           "hotel-booking",
		Short:         "Hotel booking API server",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context())
		},
	}

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run migrations and start the HTTP server",
			RunE: func(cmd *cobra.Command, args []string) error {
				return serve(cmd.Context())
			},
		},
		&cobra.Command{
			Use:   "migrate",
			Short: "Create or update the database schema",
			RunE: func(cmd *cobra.Command, args []string) error {
				_, db, err := bootstrap()
				if err != nil {
					return err
				}
				defer closeDB(db)
				return config.Migrate(db)
			},
		},
		&cobra.Command{
			Use:   "seed",
			Short: "Insert the default admin and sample rooms into an empty database",
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg, db, err := bootstrap()
				if err != nil {
					return err
				}
				defer closeDB(db)
				if err := config.Migrate(db); err != nil {
					return err
				}
				return config.SeedDatabase(db, cfg)
			},
		},
		&cobra.Command{
			Use:   "sweep",
			Short: "Complete approved bookings whose end date has passed",
			RunE: func(cmd *cobra.Command, args []string) error {
				_, db, err := bootstrap()
				if err != nil {
					return err
				}
				defer closeDB(db)
				n, err := services.NewBookingService(db).ExpireOverdue(cmd.Context())
				log.Info().Int("completed", n).Msg("sweep finished")
				return err
			},
		},
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := root.ExecuteContext(ctx); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

func bootstrap() (*config.Config, *gorm.DB, error) {
	cfg := config.Load()
	logger.Init(logger.Config{Level: cfg.LogLevel, Environment: cfg.Env, LogFile: cfg.LogFile})

	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("database connect failed: %w", err)
	}
	return cfg, db, nil
}

func closeDB(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

func serve(ctx context.Context) error {
	cfg, db, err := bootstrap()
	if err != nil {
		return err
	}
	defer closeDB(db)

	if err := config.Migrate(db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	if err := config.SeedDatabase(db, cfg); err != nil {
		return fmt.Errorf("seed: %w", err)
	}

	redisClient, err := cache.NewRedis(cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("redis: %w", err)
	}
	defer closeRedis(redisClient)
	roomCache := cache.NewRoomCache(redisClient, cfg.RoomCacheTTL)

	store, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	images := services.NewImageService(store)
	mailer := utils.NewMailer(cfg.SMTP)
	tokens := utils.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL)

	bookingService := services.NewBookingService(db)
	bookingService.Cache = roomCache
	bookingService.Mailer = mailer
	bookingService.RevalidateOverlapOnUpdate = cfg.RevalidateOverlapOnUpdate

	roomService := services.NewRoomService(db)
	roomService.Cache = roomCache
	roomService.Images = images

	userService := services.NewUserService(db, tokens)
	userService.Mailer = mailer
	userService.Images = images
	userService.Cache = roomCache
	userService.ResetCodeTTL = cfg.ResetCodeTTL

	var sched gocron.Scheduler
	if cfg.SweepInterval > 0 {
		if sched, err = services.StartExpiryScheduler(ctx, bookingService, cfg.SweepInterval); err != nil {
			return fmt.Errorf("scheduler: %w", err)
		}
	}

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := routes.SetupRouter(cfg, tokens, routes.Handlers{
		Health:    controllers.NewHealthController(db),
		Auth:      controllers.NewAuthController(userService),
		Users:     controllers.NewUserController(userService),
		Rooms:     controllers.NewRoomController(roomService),
		Reviews:   controllers.NewReviewController(services.NewReviewService(db)),
		Bookings:  controllers.NewBookingController(bookingService),
		Inquiries: controllers.NewInquiryController(services.NewInquiryService(db)),
		Stats:     controllers.NewStatsController(services.NewStatsService(db, bookingService)),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
	case <-ctx.Done():
		log.Warn().Msg("shutdown signal received, shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if sched != nil {
		if err := sched.Shutdown(); err != nil {
			log.Error().Err(err).Msg("scheduler shutdown failed")
		}
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info().Msg("server stopped gracefully")
	return nil
}

func closeRedis(client *redis.Client) {
	if client == nil {
		return
	}
	if err := client.Close(); err != nil {
		log.Error().Err(err).Msg("error closing redis connection")
	}
}
