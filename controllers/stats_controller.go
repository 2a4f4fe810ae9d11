package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hotel-booking/services"
	"hotel-booking/utils"
)

type StatsController struct {
	StatsSvc *services.StatsService
}

func NewStatsController(svc *services.StatsService) *StatsController {
	return &StatsController{StatsSvc: svc}
}

// GET /api/admin/stats
func (sc *StatsController) Dashboard(c *gin.Context) {
	stats, err := sc.StatsSvc.Dashboard(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, stats)
}
