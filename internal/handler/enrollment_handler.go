package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/academia-sys/academia-api/internal/dto"
	"github.com/academia-sys/academia-api/internal/service"
	appErrors "github.com/academia-sys/academia-api/pkg/errors"
	"github.com/academia-sys/academia-api/pkg/response"
)

// EnrollmentHandler exposes batch enrollment and cancellation.
type EnrollmentHandler struct {
	enrollments *service.EnrollmentService
	metrics     *service.MetricsService
}

// NewEnrollmentHandler constructs EnrollmentHandler.
func NewEnrollmentHandler(enrollments *service.EnrollmentService, metrics *service.MetricsService) *EnrollmentHandler {
	return &EnrollmentHandler{enrollments: enrollments, metrics: metrics}
}

// Enroll godoc
// @Summary Enroll a student in a batch of courses and packages
// @Tags Enrollments
// @Accept json
// @Produce json
// @Param id path int true "Student ID"
// @Param payload body dto.EnrollRequest true "Enrollment items"
// @Success 201 {object} response.Envelope
// @Router /students/{id}/enrollments [post]
func (h *EnrollmentHandler) Enroll(c *gin.Context) {
	studentID, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.EnrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	result, err := h.enrollments.Enroll(c.Request.Context(), studentID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	for _, entry := range result.Created {
		h.metrics.CountEnrollment(string(entry.Type))
	}
	response.Created(c, result)
}

// Cancel godoc
// @Summary Cancel a pending enrollment
// @Tags Enrollments
// @Param id path int true "Student ID"
// @Param enrollmentID path int true "Enrollment ID"
// @Success 204
// @Router /students/{id}/enrollments/{enrollmentID} [delete]
func (h *EnrollmentHandler) Cancel(c *gin.Context) {
	studentID, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	enrollmentID, err := pathID(c, "enrollmentID")
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.enrollments.Cancel(c.Request.Context(), studentID, enrollmentID); err != nil {
		response.Error(c, err)
		return
	}
	h.metrics.CountCancellation()
	response.NoContent(c)
}
