package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hotel-booking/models"
	"hotel-booking/services"
	"hotel-booking/utils"
)

type ReviewController struct {
	ReviewSvc *services.ReviewService
}

func NewReviewController(svc *services.ReviewService) *ReviewController {
	return &ReviewController{ReviewSvc: svc}
}

// GET /api/rooms/:id/reviews
func (rc *ReviewController) ListRoomReviews(c *gin.Context) {
	roomID, ok := parseID(c, "id")
	if !ok {
		return
	}
	reviews, err := rc.ReviewSvc.ListForRoom(c.Request.Context(), roomID)
	if err != nil {
		respondError(c, err)
		return
	}
	if reviews == nil {
		reviews = []models.Review{}
	}
	utils.JSONSuccess(c, http.StatusOK, reviews)
}

// POST /api/rooms/:id/reviews
func (rc *ReviewController) CreateReview(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	roomID, ok := parseID(c, "id")
	if !ok {
		return
	}
	var in services.CreateReviewInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondBindError(c, err)
		return
	}
	review, err := rc.ReviewSvc.Create(c.Request.Context(), actor, roomID, in)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, review)
}

// DELETE /api/reviews/:id
func (rc *ReviewController) DeleteReview(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := rc.ReviewSvc.Delete(c.Request.Context(), actor, id); err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"id": id, "deleted": true})
}
