package controllers

import (
	"encoding/base64"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"hotel-booking/services"
	"hotel-booking/utils"
)

type UserController struct {
	UserSvc *services.UserService
}

func NewUserController(svc *services.UserService) *UserController {
	return &UserController{UserSvc: svc}
}

// GET /api/users
func (uc *UserController) ListUsers(c *gin.Context) {
	users, err := uc.UserSvc.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, users)
}

// GET /api/users/:id
func (uc *UserController) GetUser(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	user, err := uc.UserSvc.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, user)
}

// PATCH /api/users/:id
func (uc *UserController) UpdateUser(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var in services.UpdateUserInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondBindError(c, err)
		return
	}
	user, err := uc.UserSvc.Update(c.Request.Context(), actor, id, in)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, user)
}

// DELETE /api/users/:id
func (uc *UserController) DeleteUser(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := uc.UserSvc.Delete(c.Request.Context(), actor, id); err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"id": id, "deleted": true})
}

// POST /api/users/me/avatar
// Accepts multipart field "avatar" or JSON {"image": "<base64 or data URL>"}.
func (uc *UserController) UploadAvatar(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}

	var src io.Reader
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		fh, err := c.FormFile("avatar")
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "multipart field \"avatar\" is required")
			return
		}
		f, err := fh.Open()
		if err != nil {
			respondError(c, err)
			return
		}
		defer f.Close()
		src = f
	} else {
		var body struct {
			Image string `json:"image" binding:"required"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			respondBindError(c, err)
			return
		}
		src = decodeDataURL(body.Image)
	}

	user, err := uc.UserSvc.UpdateAvatar(c.Request.Context(), actor, src)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, user)
}

// decodeDataURL streams the bytes of a raw or "data:image/...;base64," string.
func decodeDataURL(b64 string) io.Reader {
	if idx := strings.Index(b64, "base64,"); idx >= 0 {
		b64 = b64[idx+7:]
	}
	return base64.NewDecoder(base64.StdEncoding, strings.NewReader(strings.TrimSpace(b64)))
}
