package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/saborconflow/studio-backend/internal/model"
	"github.com/saborconflow/studio-backend/internal/response"
	"github.com/saborconflow/studio-backend/internal/service"
	"github.com/saborconflow/studio-backend/internal/validator"
)

// PlaylistHandler handles the practice playlists page and its admin management.
type PlaylistHandler struct {
	playlistService *service.PlaylistService
}

func NewPlaylistHandler(playlistService *service.PlaylistService) *PlaylistHandler {
	return &PlaylistHandler{playlistService: playlistService}
}

// ListActive godoc
// GET /api/v1/playlists
func (h *PlaylistHandler) ListActive(c *gin.Context) {
	playlists, err := h.playlistService.ListActive(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"playlists": playlists})
}

// ListAll godoc
// GET /api/v1/admin/playlists
func (h *PlaylistHandler) ListAll(c *gin.Context) {
	playlists, err := h.playlistService.ListAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"playlists": playlists})
}

// Save godoc
// POST /api/v1/admin/playlists
// Creates the playlist, or updates the one with the same spotify_id.
func (h *PlaylistHandler) Save(c *gin.Context) {
	var req model.PlaylistRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	playlist, inserted, err := h.playlistService.Save(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	status := http.StatusOK
	if inserted {
		status = http.StatusCreated
	}
	response.Success(c, status, playlist)
}

// Update godoc
// PUT /api/v1/admin/playlists/:id
func (h *PlaylistHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req model.PlaylistRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	playlist, err := h.playlistService.Update(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, playlist)
}

// Delete godoc
// DELETE /api/v1/admin/playlists/:id
func (h *PlaylistHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.playlistService.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "playlist deleted"})
}
