package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/academia-sys/academia-api/internal/dto"
	"github.com/academia-sys/academia-api/internal/service"
	appErrors "github.com/academia-sys/academia-api/pkg/errors"
	"github.com/academia-sys/academia-api/pkg/response"
)

// CycleHandler exposes academic cycle endpoints.
type CycleHandler struct {
	cycles *service.CycleService
}

// NewCycleHandler constructs CycleHandler.
func NewCycleHandler(cycles *service.CycleService) *CycleHandler {
	return &CycleHandler{cycles: cycles}
}

// List godoc
// @Summary List cycles
// @Tags Cycles
// @Produce json
// @Param active query bool false "Only open and in-progress cycles"
// @Success 200 {object} response.Envelope
// @Router /cycles [get]
func (h *CycleHandler) List(c *gin.Context) {
	cycles, err := h.cycles.List(c.Request.Context(), c.Query("active") == "true")
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, cycles, nil)
}

// Get godoc
// @Summary Get cycle detail
// @Tags Cycles
// @Produce json
// @Param id path int true "Cycle ID"
// @Success 200 {object} response.Envelope
// @Router /cycles/{id} [get]
func (h *CycleHandler) Get(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	cycle, err := h.cycles.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, cycle, nil)
}

// Create godoc
// @Summary Create cycle
// @Tags Cycles
// @Accept json
// @Produce json
// @Param payload body dto.CreateCycleRequest true "Cycle payload"
// @Success 201 {object} response.Envelope
// @Router /cycles [post]
func (h *CycleHandler) Create(c *gin.Context) {
	var req dto.CreateCycleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	cycle, err := h.cycles.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, cycle)
}

// Update godoc
// @Summary Update cycle
// @Tags Cycles
// @Accept json
// @Produce json
// @Param id path int true "Cycle ID"
// @Param payload body dto.CreateCycleRequest true "Cycle payload"
// @Success 200 {object} response.Envelope
// @Router /cycles/{id} [put]
func (h *CycleHandler) Update(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.CreateCycleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	cycle, err := h.cycles.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, cycle, nil)
}

// Delete godoc
// @Summary Delete cycle
// @Tags Cycles
// @Param id path int true "Cycle ID"
// @Success 204
// @Router /cycles/{id} [delete]
func (h *CycleHandler) Delete(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.cycles.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
