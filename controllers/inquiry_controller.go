package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hotel-booking/middleware"
	"hotel-booking/models"
	"hotel-booking/services"
	"hotel-booking/utils"
)

type InquiryController struct {
	InquirySvc *services.InquiryService
}

func NewInquiryController(svc *services.InquiryService) *InquiryController {
	return &InquiryController{InquirySvc: svc}
}

// POST /api/inquiries  (public; linked to the user when a token is sent)
func (ic *InquiryController) CreateInquiry(c *gin.Context) {
	var in services.CreateInquiryInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondBindError(c, err)
		return
	}
	var actor *services.Actor
	if a, ok := middleware.ActorFrom(c); ok {
		actor = &a
	}
	inquiry, err := ic.InquirySvc.Create(c.Request.Context(), actor, in)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, inquiry)
}

// GET /api/inquiries
func (ic *InquiryController) ListInquiries(c *gin.Context) {
	var filter services.InquiryFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		respondBindError(c, err)
		return
	}
	inquiries, err := ic.InquirySvc.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	if inquiries == nil {
		inquiries = []models.Inquiry{}
	}
	utils.JSONSuccess(c, http.StatusOK, inquiries)
}

// PATCH /api/inquiries/:id
func (ic *InquiryController) UpdateInquiry(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var in services.UpdateInquiryInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondBindError(c, err)
		return
	}
	inquiry, err := ic.InquirySvc.UpdateStatus(c.Request.Context(), id, in)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, inquiry)
}

// DELETE /api/inquiries/:id
func (ic *InquiryController) DeleteInquiry(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := ic.InquirySvc.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"id": id, "deleted": true})
}
