package api

import (
	"net/http"
	"strconv"

	"github.com/Domenick1991/restate/internal/auth"
	"github.com/Domenick1991/restate/internal/domain"
	"github.com/Domenick1991/restate/internal/service/properties"
	"github.com/gin-gonic/gin"
)

type PropertyHandler struct {
	service properties.PropertyUseCase
}

func NewPropertyHandler(service properties.PropertyUseCase) *PropertyHandler {
	return &PropertyHandler{service: service}
}

func (h *PropertyHandler) Register(router *gin.RouterGroup) {
	router.GET("/properties", h.list)
	router.GET("/properties/latest", h.latest)
	router.GET("/properties/:id", h.get)
	router.POST("/properties", h.create)
	router.DELETE("/properties/:id", h.delete)
	router.POST("/properties/:id/images", h.attachImage)
}

func (h *PropertyHandler) list(c *gin.Context) {
	filter := domain.PropertyFilter{
		Type:  c.Query("filter"),
		Query: c.Query("q"),
	}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		filter.Limit = limit
	}

	list, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *PropertyHandler) latest(c *gin.Context) {
	list, err := h.service.Latest(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *PropertyHandler) get(c *gin.Context) {
	property, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, property)
}

func (h *PropertyHandler) create(c *gin.Context) {
	var req properties.CreatePropertyInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	property, err := h.service.Create(c.Request.Context(), auth.UserID(c), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, property)
}

func (h *PropertyHandler) delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), auth.UserID(c), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *PropertyHandler) attachImage(c *gin.Context) {
	filename, data, err := readUpload(c)
	if err != nil {
		badRequest(c, err)
		return
	}

	property, err := h.service.AttachImage(c.Request.Context(), auth.UserID(c), c.Param("id"), filename, data)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, property)
}
