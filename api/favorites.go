package api

import (
	"net/http"

	"github.com/Domenick1991/restate/internal/auth"
	"github.com/Domenick1991/restate/internal/service/favorites"
	"github.com/gin-gonic/gin"
)

type FavoriteHandler struct {
	service favorites.FavoriteUseCase
}

func NewFavoriteHandler(service favorites.FavoriteUseCase) *FavoriteHandler {
	return &FavoriteHandler{service: service}
}

func (h *FavoriteHandler) Register(router *gin.RouterGroup) {
	router.GET("/favorites", h.list)
	router.GET("/favorites/ids", h.ids)
	router.GET("/favorites/:id", h.status)
	router.PUT("/favorites/:id", h.add)
	router.DELETE("/favorites/:id", h.remove)
}

func (h *FavoriteHandler) list(c *gin.Context) {
	list, err := h.service.List(c.Request.Context(), auth.UserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *FavoriteHandler) ids(c *gin.Context) {
	ids, err := h.service.IDs(c.Request.Context(), auth.UserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	c.JSON(http.StatusOK, ids)
}

func (h *FavoriteHandler) status(c *gin.Context) {
	ok, err := h.service.IsFavorite(c.Request.Context(), auth.UserID(c), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"property_id": c.Param("id"), "favorite": ok})
}

func (h *FavoriteHandler) add(c *gin.Context) {
	if err := h.service.Add(c.Request.Context(), auth.UserID(c), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"property_id": c.Param("id"), "favorite": true})
}

func (h *FavoriteHandler) remove(c *gin.Context) {
	if err := h.service.Remove(c.Request.Context(), auth.UserID(c), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"property_id": c.Param("id"), "favorite": false})
}
