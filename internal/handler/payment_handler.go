package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/academia-sys/academia-api/internal/dto"
	"github.com/academia-sys/academia-api/internal/service"
	appErrors "github.com/academia-sys/academia-api/pkg/errors"
	"github.com/academia-sys/academia-api/pkg/response"
)

// PaymentHandler exposes payment plans and installment payments.
type PaymentHandler struct {
	payments *service.PaymentService
	metrics  *service.MetricsService
}

// NewPaymentHandler constructs PaymentHandler.
func NewPaymentHandler(payments *service.PaymentService, metrics *service.MetricsService) *PaymentHandler {
	return &PaymentHandler{payments: payments, metrics: metrics}
}

// Plan godoc
// @Summary Get an enrollment's payment plan and schedule
// @Tags Payments
// @Produce json
// @Param id path int true "Enrollment ID"
// @Success 200 {object} response.Envelope
// @Router /enrollments/{id}/payment-plan [get]
func (h *PaymentHandler) Plan(c *gin.Context) {
	enrollmentID, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	plan, err := h.payments.PlanForEnrollment(c.Request.Context(), enrollmentID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, plan, nil)
}

// Pay godoc
// @Summary Mark an installment paid
// @Tags Payments
// @Accept json
// @Produce json
// @Param id path int true "Installment ID"
// @Param payload body dto.PayInstallmentRequest false "Voucher reference"
// @Success 200 {object} response.Envelope
// @Router /installments/{id}/pay [patch]
func (h *PaymentHandler) Pay(c *gin.Context) {
	installmentID, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.PayInstallmentRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
			return
		}
	}
	installment, err := h.payments.PayInstallment(c.Request.Context(), installmentID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.metrics.CountPayment()
	response.JSON(c, http.StatusOK, installment, nil)
}

// Overdue godoc
// @Summary List overdue installments with contact details
// @Tags Payments
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /installments/overdue [get]
func (h *PaymentHandler) Overdue(c *gin.Context) {
	overdue, err := h.payments.Overdue(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, overdue, nil)
}
