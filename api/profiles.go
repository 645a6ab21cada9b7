package api

import (
	"net/http"

	"github.com/Domenick1991/restate/internal/auth"
	"github.com/Domenick1991/restate/internal/service/profiles"
	"github.com/gin-gonic/gin"
)

type ProfileHandler struct {
	service profiles.ProfileUseCase
}

func NewProfileHandler(service profiles.ProfileUseCase) *ProfileHandler {
	return &ProfileHandler{service: service}
}

func (h *ProfileHandler) Register(router *gin.RouterGroup) {
	router.GET("/profile", h.me)
	router.PATCH("/profile", h.update)
	router.POST("/profile/avatar", h.uploadAvatar)
	router.GET("/profiles/:id", h.get)
}

func (h *ProfileHandler) me(c *gin.Context) {
	profile, err := h.service.Get(c.Request.Context(), auth.UserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// get exposes a counterparty's contact details.
func (h *ProfileHandler) get(c *gin.Context) {
	profile, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *ProfileHandler) update(c *gin.Context) {
	var req profiles.UpdateProfileInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	req.Email = auth.Email(c)

	profile, err := h.service.Update(c.Request.Context(), auth.UserID(c), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *ProfileHandler) uploadAvatar(c *gin.Context) {
	filename, data, err := readUpload(c)
	if err != nil {
		badRequest(c, err)
		return
	}

	profile, err := h.service.UploadAvatar(c.Request.Context(), auth.UserID(c), filename, data)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}
