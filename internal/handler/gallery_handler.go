package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/saborconflow/studio-backend/internal/model"
	"github.com/saborconflow/studio-backend/internal/response"
	"github.com/saborconflow/studio-backend/internal/service"
	"github.com/saborconflow/studio-backend/internal/validator"
)

// GalleryHandler handles the media gallery and gallery uploads.
type GalleryHandler struct {
	galleryService *service.GalleryService
}

// NewGalleryHandler creates a new GalleryHandler.
func NewGalleryHandler(galleryService *service.GalleryService) *GalleryHandler {
	return &GalleryHandler{galleryService: galleryService}
}

// galleryUploadForm carries the metadata sent alongside an uploaded file.
type galleryUploadForm struct {
	Title        string `form:"title" binding:"required,max=200"`
	Caption      string `form:"caption" binding:"max=2000"`
	Category     string `form:"category" binding:"max=50"`
	IsFeatured   bool   `form:"is_featured"`
	DisplayOrder int    `form:"display_order" binding:"min=0"`
}

// List godoc
// GET /api/v1/gallery?category=performances&type=photo
// GET /api/v1/admin/gallery
func (h *GalleryHandler) List(c *gin.Context) {
	mediaType := model.MediaType(c.Query("type"))
	if mediaType != "" && mediaType != model.MediaPhoto && mediaType != model.MediaVideo {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, map[string]string{
			"type": "type must be one of photo, video",
		})
		return
	}

	items, err := h.galleryService.List(c.Request.Context(), c.Query("category"), mediaType)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"items": items})
}

// Get godoc
// GET /api/v1/admin/gallery/:id
func (h *GalleryHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	item, err := h.galleryService.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, item)
}

// Create godoc
// POST /api/v1/admin/gallery
// Adds an item hosted elsewhere, by URL.
func (h *GalleryHandler) Create(c *gin.Context) {
	var req model.MediaItemRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	item, err := h.galleryService.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, item)
}

// Upload godoc
// POST /api/v1/admin/gallery/upload
// Uploads an image or video file (multipart field "file") and adds it to the gallery.
func (h *GalleryHandler) Upload(c *gin.Context) {
	var form galleryUploadForm
	if err := c.ShouldBind(&form); err != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, validator.TranslateErrors(err))
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrFileRequired)
		return
	}
	defer file.Close()

	item, err := h.galleryService.Upload(c.Request.Context(), model.MediaItemRequest{
		Title:        form.Title,
		Caption:      form.Caption,
		Category:     form.Category,
		IsFeatured:   form.IsFeatured,
		DisplayOrder: form.DisplayOrder,
	}, file, header)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, item)
}

// Update godoc
// PUT /api/v1/admin/gallery/:id
func (h *GalleryHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req model.MediaItemRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	item, err := h.galleryService.Update(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, item)
}

// Delete godoc
// DELETE /api/v1/admin/gallery/:id
func (h *GalleryHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.galleryService.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "gallery item deleted"})
}
