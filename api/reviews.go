package api

import (
	"net/http"

	"github.com/Domenick1991/restate/internal/auth"
	"github.com/Domenick1991/restate/internal/service/reviews"
	"github.com/gin-gonic/gin"
)

type ReviewHandler struct {
	service reviews.ReviewUseCase
}

func NewReviewHandler(service reviews.ReviewUseCase) *ReviewHandler {
	return &ReviewHandler{service: service}
}

func (h *ReviewHandler) Register(router *gin.RouterGroup) {
	router.POST("/reviews", h.create)
	router.PUT("/reviews/:id", h.update)
	router.DELETE("/reviews/:id", h.delete)
	router.POST("/reviews/:id/like", h.toggleLike)
	router.GET("/properties/:id/reviews", h.listForProperty)
	router.GET("/properties/:id/reviews/mine", h.mine)
	router.GET("/properties/:id/rating", h.rating)
}

func (h *ReviewHandler) create(c *gin.Context) {
	var req reviews.CreateReviewInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	review, err := h.service.Create(c.Request.Context(), auth.UserID(c), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, review)
}

func (h *ReviewHandler) update(c *gin.Context) {
	var req reviews.UpdateReviewInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	review, err := h.service.Update(c.Request.Context(), auth.UserID(c), c.Param("id"), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, review)
}

func (h *ReviewHandler) delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), auth.UserID(c), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ReviewHandler) toggleLike(c *gin.Context) {
	review, err := h.service.ToggleLike(c.Request.Context(), auth.UserID(c), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, review)
}

func (h *ReviewHandler) listForProperty(c *gin.Context) {
	list, err := h.service.ListForProperty(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *ReviewHandler) mine(c *gin.Context) {
	review, err := h.service.UserReviewForProperty(c.Request.Context(), auth.UserID(c), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, review)
}

func (h *ReviewHandler) rating(c *gin.Context) {
	summary, err := h.service.Rating(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}
