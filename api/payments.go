package api

import (
	"net/http"

	"github.com/Domenick1991/restate/internal/auth"
	"github.com/Domenick1991/restate/internal/domain"
	"github.com/Domenick1991/restate/internal/service/payments"
	"github.com/Domenick1991/restate/internal/service/payouts"
	"github.com/gin-gonic/gin"
)

type PaymentHandler struct {
	payments payments.PaymentUseCase
	payouts  payouts.PayoutUseCase
}

type paymentView struct {
	domain.Payment
	MethodLabel string `json:"method_label"`
	Last4       string `json:"last4,omitempty"`
}

type paymentResultResponse struct {
	Payment paymentView     `json:"payment"`
	Booking *domain.Booking `json:"booking"`
}

func NewPaymentHandler(payments payments.PaymentUseCase, payouts payouts.PayoutUseCase) *PaymentHandler {
	return &PaymentHandler{payments: payments, payouts: payouts}
}

func (h *PaymentHandler) Register(router *gin.RouterGroup) {
	router.POST("/payments", h.pay)
	router.GET("/payments", h.listMine)
	router.GET("/payments/received", h.listReceived)
	router.POST("/payments/:id/settle", h.settle)
	router.GET("/earnings", h.earnings)
	router.GET("/payouts", h.listPayouts)
}

func (h *PaymentHandler) pay(c *gin.Context) {
	var req payments.PayInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	payment, b, err := h.payments.Pay(c.Request.Context(), auth.UserID(c), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, paymentResultResponse{Payment: viewPayment(*payment), Booking: b})
}

func (h *PaymentHandler) settle(c *gin.Context) {
	payment, b, err := h.payments.Settle(c.Request.Context(), auth.UserID(c), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, paymentResultResponse{Payment: viewPayment(*payment), Booking: b})
}

func (h *PaymentHandler) listMine(c *gin.Context) {
	list, err := h.payments.ListForUser(c.Request.Context(), auth.UserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, viewPayments(list))
}

func (h *PaymentHandler) listReceived(c *gin.Context) {
	list, err := h.payments.ListForAgent(c.Request.Context(), auth.UserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, viewPayments(list))
}

func (h *PaymentHandler) earnings(c *gin.Context) {
	earnings, err := h.payments.Earnings(c.Request.Context(), auth.UserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, earnings)
}

func (h *PaymentHandler) listPayouts(c *gin.Context) {
	list, err := h.payouts.ListForAgent(c.Request.Context(), auth.UserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func viewPayment(p domain.Payment) paymentView {
	return paymentView{Payment: p, MethodLabel: p.MethodLabel(), Last4: p.Last4()}
}

func viewPayments(list []domain.Payment) []paymentView {
	views := make([]paymentView, 0, len(list))
	for _, p := range list {
		views = append(views, viewPayment(p))
	}
	return views
}
