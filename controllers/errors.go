package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"hotel-booking/logger"
	"hotel-booking/middleware"
	"hotel-booking/services"
	"hotel-booking/utils"
)

// respondError maps service errors onto HTTP responses.
func respondError(c *gin.Context, err error) {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		utils.JSONErrors(c, http.StatusUnprocessableEntity, verr.Error(), verr.Messages)
	case errors.Is(err, services.ErrInvalidTransition),
		errors.Is(err, services.ErrInvalidReference):
		utils.JSONErrors(c, http.StatusUnprocessableEntity, err.Error(), []string{err.Error()})

	case errors.Is(err, services.ErrBookingNotFound),
		errors.Is(err, services.ErrRoomNotFound),
		errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrReviewNotFound),
		errors.Is(err, services.ErrInquiryNotFound):
		utils.JSONError(c, http.StatusNotFound, err.Error())

	case errors.Is(err, services.ErrBookingConflict),
		errors.Is(err, services.ErrDuplicate):
		utils.JSONError(c, http.StatusConflict, err.Error())

	case errors.Is(err, services.ErrInvalidCredentials):
		utils.JSONError(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, services.ErrForbidden),
		errors.Is(err, services.ErrAccountBlocked):
		utils.JSONError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, services.ErrInvalidResetCode):
		utils.JSONError(c, http.StatusBadRequest, err.Error())

	default:
		_ = c.Error(err)
		logger.FromContext(c.Request.Context()).Error().Err(err).
			Str("path", c.FullPath()).
			Msg("request failed")
		utils.JSONError(c, http.StatusInternalServerError, "internal server error")
	}
}

func respondBindError(c *gin.Context, err error) {
	msgs, invalid := bindingMessages(err)
	code := http.StatusBadRequest
	if invalid {
		code = http.StatusUnprocessableEntity
	}
	utils.JSONErrors(c, code, "invalid request payload", msgs)
}

func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		utils.JSONError(c, http.StatusBadRequest, "invalid "+name)
		return 0, false
	}
	return uint(id), true
}

// mustActor is for routes behind RequireAuth.
func mustActor(c *gin.Context) (services.Actor, bool) {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "authorization header missing")
		return services.Actor{}, false
	}
	return actor, true
}
