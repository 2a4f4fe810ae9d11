package config

import (
	"github.com/gosimple/slug"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"hotel-booking/models"
)

// SeedDatabase inserts a default admin and a starter room catalogue into an empty database.
func SeedDatabase(db *gorm.DB, cfg *Config) error {
	var adminCount int64
	if err := db.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&adminCount).Error; err != nil {
		return err
	}
	if adminCount == 0 {
		if cfg.SeedAdminPassword == "" {
			log.Warn().Msg("no admin user and SEED_ADMIN_PASSWORD is empty; skipping admin seed")
		} else {
			hash, err := bcrypt.GenerateFromPassword([]byte(cfg.SeedAdminPassword), bcrypt.DefaultCost)
			if err != nil {
				return err
			}
			admin := models.User{
				Username: "admin",
				Email:    cfg.SeedAdminEmail,
				Password: string(hash),
				Role:     models.RoleAdmin,
				Status:   models.UserVerified,
			}
			if err := db.Create(&admin).Error; err != nil {
				return err
			}
			log.Info().Str("email", admin.Email).Msg("default admin seeded")
		}
	}

	var roomCount int64
	if err := db.Model(&models.Room{}).Count(&roomCount).Error; err != nil {
		return err
	}
	if roomCount > 0 {
		return nil
	}

	rooms := []models.Room{
		{Name: "Garden Single", Description: "Single room facing the garden", Price: 7500, Capacity: 1, Category: models.RoomCategorySingle},
		{Name: "Ocean Couple", Description: "Double bed with a sea view", Price: 15000, Capacity: 2, Category: models.RoomCategoryCouple, IsFeatured: true},
		{Name: "Family Suite", Description: "Two bedrooms and a lounge", Price: 24000, Capacity: 4, Category: models.RoomCategoryFamily},
		{Name: "Presidential Suite", Description: "Top floor suite with terrace", Price: 50000, Capacity: 4, Category: models.RoomCategoryPresidential, IsFeatured: true},
	}
	for i := range rooms {
		rooms[i].Slug = slug.Make(rooms[i].Name)
		rooms[i].Status = models.RoomStatusAvailable
		rooms[i].Images = []string{}
	}
	if err := db.Create(&rooms).Error; err != nil {
		return err
	}
	log.Info().Int("count", len(rooms)).Msg("rooms seeded")
	return nil
}
