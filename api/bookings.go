package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/Domenick1991/restate/internal/auth"
	"github.com/Domenick1991/restate/internal/domain"
	"github.com/Domenick1991/restate/internal/service/booking"
	"github.com/gin-gonic/gin"
)

const dateLayout = "2006-01-02"

type BookingHandler struct {
	service booking.BookingUseCase
}

type createBookingRequest struct {
	PropertyID      string `json:"property_id" binding:"required"`
	CheckIn         string `json:"check_in" binding:"required"`
	CheckOut        string `json:"check_out" binding:"required"`
	NumberOfGuests  int    `json:"number_of_guests"`
	SpecialRequests string `json:"special_requests"`
}

type rejectBookingRequest struct {
	Reason string `json:"reason"`
}

type refundResponse struct {
	domain.Refund
	Message string `json:"message"`
}

func NewBookingHandler(service booking.BookingUseCase) *BookingHandler {
	return &BookingHandler{service: service}
}

func (h *BookingHandler) Register(router *gin.RouterGroup) {
	router.POST("/bookings", h.create)
	router.GET("/bookings", h.list)
	router.GET("/bookings/:id", h.get)
	router.POST("/bookings/:id/accept", h.accept)
	router.POST("/bookings/:id/reject", h.reject)
	router.POST("/bookings/:id/cancel", h.cancel)
	router.GET("/bookings/:id/cancellation", h.cancellationQuote)
}

func (h *BookingHandler) create(c *gin.Context) {
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	checkIn, err := parseDate(req.CheckIn)
	if err != nil {
		badRequest(c, err)
		return
	}
	checkOut, err := parseDate(req.CheckOut)
	if err != nil {
		badRequest(c, err)
		return
	}

	b, err := h.service.Create(c.Request.Context(), auth.UserID(c), booking.CreateBookingInput{
		PropertyID:      req.PropertyID,
		CheckIn:         checkIn,
		CheckOut:        checkOut,
		NumberOfGuests:  req.NumberOfGuests,
		SpecialRequests: req.SpecialRequests,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, b)
}

// list returns the caller's trips, or the requests on their listings with role=agent.
func (h *BookingHandler) list(c *gin.Context) {
	ctx := c.Request.Context()
	userID := auth.UserID(c)
	status := c.Query("status")

	var (
		list []domain.Booking
		err  error
	)
	switch c.DefaultQuery("role", "guest") {
	case "guest":
		list, err = h.service.ListForGuest(ctx, userID, status)
	case "agent":
		list, err = h.service.ListForAgent(ctx, userID, status)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "role must be guest or agent"})
		return
	}
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *BookingHandler) get(c *gin.Context) {
	b, err := h.service.Get(c.Request.Context(), auth.UserID(c), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (h *BookingHandler) accept(c *gin.Context) {
	b, err := h.service.Accept(c.Request.Context(), auth.UserID(c), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (h *BookingHandler) reject(c *gin.Context) {
	var req rejectBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	b, err := h.service.Reject(c.Request.Context(), auth.UserID(c), c.Param("id"), req.Reason)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (h *BookingHandler) cancel(c *gin.Context) {
	b, err := h.service.Cancel(c.Request.Context(), auth.UserID(c), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (h *BookingHandler) cancellationQuote(c *gin.Context) {
	refund, err := h.service.CancellationQuote(c.Request.Context(), auth.UserID(c), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, refundResponse{Refund: *refund, Message: refund.Message()})
}

func parseDate(value string) (time.Time, error) {
	if t, err := time.Parse(dateLayout, value); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", value)
	}
	return t, nil
}
