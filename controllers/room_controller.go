package controllers

import (
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"hotel-booking/models"
	"hotel-booking/services"
	"hotel-booking/utils"
)

const maxImagesPerUpload = 10

type RoomController struct {
	RoomSvc *services.RoomService
}

func NewRoomController(svc *services.RoomService) *RoomController {
	return &RoomController{RoomSvc: svc}
}

// GET /api/rooms
func (rc *RoomController) GetRooms(c *gin.Context) {
	var filter services.RoomFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		respondBindError(c, err)
		return
	}
	rooms, err := rc.RoomSvc.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	if rooms == nil {
		rooms = []models.Room{}
	}
	utils.JSONSuccess(c, http.StatusOK, rooms)
}

// GET /api/rooms/:id  (numeric id or slug)
func (rc *RoomController) GetRoom(c *gin.Context) {
	room, err := rc.RoomSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, room)
}

// POST /api/rooms
func (rc *RoomController) CreateRoom(c *gin.Context) {
	var in services.CreateRoomInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondBindError(c, err)
		return
	}
	room, err := rc.RoomSvc.Create(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, room)
}

// PATCH /api/rooms/:id
func (rc *RoomController) UpdateRoom(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var in services.UpdateRoomInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondBindError(c, err)
		return
	}
	room, err := rc.RoomSvc.Update(c.Request.Context(), id, in)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, room)
}

// DELETE /api/rooms/:id
func (rc *RoomController) DeleteRoom(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := rc.RoomSvc.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"id": id, "deleted": true})
}

// POST /api/rooms/:id/images  multipart field "images" (repeatable)
func (rc *RoomController) UploadImages(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	form, err := c.MultipartForm()
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "multipart form with field \"images\" is required")
		return
	}
	files := form.File["images"]
	if len(files) == 0 {
		files = form.File["image"]
	}
	if len(files) == 0 {
		utils.JSONError(c, http.StatusBadRequest, "no images uploaded")
		return
	}
	if len(files) > maxImagesPerUpload {
		utils.JSONError(c, http.StatusBadRequest, "too many images in one upload")
		return
	}

	var room *models.Room
	for _, fh := range files {
		room, err = rc.addImage(c, id, fh)
		if err != nil {
			respondError(c, err)
			return
		}
	}
	utils.JSONSuccess(c, http.StatusCreated, room)
}

func (rc *RoomController) addImage(c *gin.Context, id uint, fh *multipart.FileHeader) (*models.Room, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return rc.RoomSvc.AddImage(c.Request.Context(), id, f)
}
