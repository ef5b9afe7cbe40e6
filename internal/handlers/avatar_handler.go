package handlers

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tarpaulin-edu/course-service/internal/services"
	"github.com/tarpaulin-edu/course-service/internal/utils"
)

// Uploads larger than this are rejected before reaching storage.
const maxAvatarBytes = 5 << 20

type AvatarHandler struct {
	BaseHandler
	users services.UserService
}

func NewAvatarHandler(users services.UserService, logger utils.Logger) *AvatarHandler {
	return &AvatarHandler{
		BaseHandler: NewBaseHandler(logger),
		users:       users,
	}
}

// GetAvatar handles GET /users/{user_id}/avatar.
func (h *AvatarHandler) GetAvatar(c *gin.Context) {
	id := h.parseIDParam(c, "user_id")
	if id == 0 {
		return
	}

	data, err := h.users.GetAvatar(c.Request.Context(), CurrentUser(c), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.Data(http.StatusOK, "image/png", data)
}

// UploadAvatar handles POST /users/{user_id}/avatar. The body is the raw
// PNG; either as-is or as the "avatar" field of a multipart form.
func (h *AvatarHandler) UploadAvatar(c *gin.Context) {
	id := h.parseIDParam(c, "user_id")
	if id == 0 {
		return
	}

	data, err := readAvatarBody(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "the request body is invalid", Details: err.Error()})
		return
	}

	if err := h.users.UploadAvatar(c.Request.Context(), CurrentUser(c), id, data); err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.LogRequest(c, "avatar uploaded", "user_id", id, "bytes", len(data))
	c.JSON(http.StatusOK, gin.H{
		"avatar_url": absoluteURL(c, fmt.Sprintf("/users/%d/avatar", id)),
	})
}

// DeleteAvatar handles DELETE /users/{user_id}/avatar.
func (h *AvatarHandler) DeleteAvatar(c *gin.Context) {
	id := h.parseIDParam(c, "user_id")
	if id == 0 {
		return
	}

	if err := h.users.DeleteAvatar(c.Request.Context(), CurrentUser(c), id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.LogRequest(c, "avatar deleted", "user_id", id)
	c.Status(http.StatusNoContent)
}

func readAvatarBody(c *gin.Context) ([]byte, error) {
	if file, err := c.FormFile("avatar"); err == nil {
		if file.Size > maxAvatarBytes {
			return nil, fmt.Errorf("avatar exceeds %d bytes", maxAvatarBytes)
		}
		f, err := file.Open()
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return io.ReadAll(io.LimitReader(f, maxAvatarBytes))
	}

	data, err := io.ReadAll(io.LimitReader(c.Request.Body, maxAvatarBytes+1))
	if err != nil {
		return nil, err
	}
	if len(data) > maxAvatarBytes {
		return nil, fmt.Errorf("avatar exceeds %d bytes", maxAvatarBytes)
	}
	return data, nil
}
