package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hotel-booking/services"
	"hotel-booking/utils"
)

type AuthController struct {
	UserSvc *services.UserService
}

func NewAuthController(svc *services.UserService) *AuthController {
	return &AuthController{UserSvc: svc}
}

// POST /api/auth/register
func (ac *AuthController) Register(c *gin.Context) {
	var in services.RegisterInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondBindError(c, err)
		return
	}
	res, err := ac.UserSvc.Register(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, res)
}

// POST /api/auth/login
func (ac *AuthController) Login(c *gin.Context) {
	var in services.LoginInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondBindError(c, err)
		return
	}
	res, err := ac.UserSvc.Login(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, res)
}

// POST /api/auth/password/forgot
func (ac *AuthController) ForgotPassword(c *gin.Context) {
	var in services.ForgotPasswordInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondBindError(c, err)
		return
	}
	if err := ac.UserSvc.ForgotPassword(c.Request.Context(), in); err != nil {
		respondError(c, err)
		return
	}
	// same answer whether or not the account exists
	utils.JSONSuccess(c, http.StatusOK, gin.H{"message": "if the email is registered, a reset code has been sent"})
}

// POST /api/auth/password/reset
func (ac *AuthController) ResetPassword(c *gin.Context) {
	var in services.ResetPasswordInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondBindError(c, err)
		return
	}
	if err := ac.UserSvc.ResetPassword(c.Request.Context(), in); err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"message": "password updated"})
}

// GET /api/auth/me
func (ac *AuthController) Me(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	user, err := ac.UserSvc.Get(c.Request.Context(), actor.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, user)
}
