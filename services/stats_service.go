package services

import (
	"context"

	"gorm.io/gorm"

	"hotel-booking/models"
)

type StatsService struct {
	DB       *gorm.DB
	Bookings *BookingService
}

func NewStatsService(db *gorm.DB, bookings *BookingService) *StatsService {
	return &StatsService{DB: db, Bookings: bookings}
}

type DashboardStats struct {
	Rooms         map[models.RoomStatus]int64    `json:"rooms"`
	Bookings      map[models.BookingStatus]int64 `json:"bookings"`
	Revenue       float64                        `json:"revenue"`
	Users         int64                          `json:"users"`
	OpenInquiries int64                          `json:"open_inquiries"`
}

type statusCount struct {
	Status string
	Count  int64
}

// Dashboard summarizes rooms, bookings, paid revenue, users and open inquiries.
func (s *StatsService) Dashboard(ctx context.Context) (*DashboardStats, error) {
	if s.Bookings != nil {
		s.Bookings.sweepBeforeRead(ctx)
	}
	db := s.DB.WithContext(ctx)

	stats := &DashboardStats{
		Rooms:    map[models.RoomStatus]int64{},
		Bookings: map[models.BookingStatus]int64{},
	}

	var rows []statusCount
	if err := db.Model(&models.Room{}).Select("status, COUNT(*) AS count").Group("status").Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, r := range rows {
		stats.Rooms[models.RoomStatus(r.Status)] = r.Count
	}

	rows = nil
	if err := db.Model(&models.Booking{}).Select("status, COUNT(*) AS count").Group("status").Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, r := range rows {
		stats.Bookings[models.BookingStatus(r.Status)] = r.Count
	}

	if err := db.Model(&models.Booking{}).
		Where("payment_status = ?", models.PaymentPaid).
		Select("COALESCE(SUM(total_price), 0)").
		Scan(&stats.Revenue).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.User{}).Count(&stats.Users).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Inquiry{}).Where("status = ?", models.InquiryOpen).Count(&stats.OpenInquiries).Error; err != nil {
		return nil, err
	}
	return stats, nil
}
