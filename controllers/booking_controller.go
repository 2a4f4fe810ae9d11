package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hotel-booking/models"
	"hotel-booking/services"
	"hotel-booking/utils"
)

type BookingController struct {
	BookingSvc *services.BookingService
}

func NewBookingController(svc *services.BookingService) *BookingController {
	return &BookingController{BookingSvc: svc}
}

func bookingResource(b *models.Booking) models.BookingResource {
	return b.Resource(services.Nights(b.StartDate, b.EndDate))
}

// POST /api/bookings
func (bc *BookingController) CreateBooking(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	var in services.CreateBookingInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondBindError(c, err)
		return
	}

	booking, err := bc.BookingSvc.Create(c.Request.Context(), actor, in)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, bookingResource(booking))
}

// GET /api/bookings
func (bc *BookingController) ListBookings(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	var filter services.BookingFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		respondBindError(c, err)
		return
	}

	bookings, err := bc.BookingSvc.List(c.Request.Context(), actor, filter)
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]models.BookingResource, 0, len(bookings))
	for i := range bookings {
		out = append(out, bookingResource(&bookings[i]))
	}
	utils.JSONSuccess(c, http.StatusOK, out)
}

// GET /api/bookings/:id
func (bc *BookingController) GetBooking(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	booking, err := bc.BookingSvc.Get(c.Request.Context(), actor, id)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, bookingResource(booking))
}

// PATCH /api/bookings/:id
func (bc *BookingController) UpdateBooking(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var in services.UpdateBookingInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondBindError(c, err)
		return
	}

	booking, err := bc.BookingSvc.Update(c.Request.Context(), actor, id, in)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, bookingResource(booking))
}

// POST /api/bookings/:id/cancel
func (bc *BookingController) CancelBooking(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	booking, err := bc.BookingSvc.Cancel(c.Request.Context(), actor, id)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, bookingResource(booking))
}

// DELETE /api/bookings/:id
func (bc *BookingController) DeleteBooking(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := bc.BookingSvc.Delete(c.Request.Context(), actor, id); err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"id": id, "deleted": true})
}
