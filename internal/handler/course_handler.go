package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/academia-sys/academia-api/internal/dto"
	"github.com/academia-sys/academia-api/internal/models"
	"github.com/academia-sys/academia-api/internal/service"
	appErrors "github.com/academia-sys/academia-api/pkg/errors"
	"github.com/academia-sys/academia-api/pkg/response"
)

const courseCachePrefix = "catalog:courses"

// CourseHandler exposes the course catalog and its offerings. Catalog list
// responses are cached; every mutation drops the cached entries.
type CourseHandler struct {
	courses *service.CourseService
	cache   *service.CacheService
}

// NewCourseHandler constructs CourseHandler.
func NewCourseHandler(courses *service.CourseService, cache *service.CacheService) *CourseHandler {
	return &CourseHandler{courses: courses, cache: cache}
}

// List godoc
// @Summary List courses
// @Tags Courses
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /courses [get]
func (h *CourseHandler) List(c *gin.Context) {
	var cached []models.Course
	if hit, _ := h.cache.Get(c.Request.Context(), courseCachePrefix, &cached); hit {
		response.JSON(c, http.StatusOK, cached, nil)
		return
	}
	courses, err := h.courses.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	_ = h.cache.Set(c.Request.Context(), courseCachePrefix, courses, 0)
	response.JSON(c, http.StatusOK, courses, nil)
}

// Get godoc
// @Summary Get course detail
// @Tags Courses
// @Produce json
// @Param id path int true "Course ID"
// @Success 200 {object} response.Envelope
// @Router /courses/{id} [get]
func (h *CourseHandler) Get(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	course, err := h.courses.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, course, nil)
}

// Create godoc
// @Summary Create course
// @Tags Courses
// @Accept json
// @Produce json
// @Param payload body dto.CreateCourseRequest true "Course payload"
// @Success 201 {object} response.Envelope
// @Router /courses [post]
func (h *CourseHandler) Create(c *gin.Context) {
	var req dto.CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	course, err := h.courses.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	_ = h.cache.Invalidate(c.Request.Context(), courseCachePrefix+"*")
	response.Created(c, course)
}

// Update godoc
// @Summary Update course
// @Tags Courses
// @Accept json
// @Produce json
// @Param id path int true "Course ID"
// @Param payload body dto.CreateCourseRequest true "Course payload"
// @Success 200 {object} response.Envelope
// @Router /courses/{id} [put]
func (h *CourseHandler) Update(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	course, err := h.courses.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	_ = h.cache.Invalidate(c.Request.Context(), courseCachePrefix+"*")
	response.JSON(c, http.StatusOK, course, nil)
}

// Delete godoc
// @Summary Delete course
// @Tags Courses
// @Param id path int true "Course ID"
// @Success 204
// @Router /courses/{id} [delete]
func (h *CourseHandler) Delete(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.courses.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	_ = h.cache.Invalidate(c.Request.Context(), courseCachePrefix+"*")
	response.NoContent(c)
}

// ListOfferings godoc
// @Summary List course offerings
// @Tags Courses
// @Produce json
// @Param courseId query int false "Filter by course"
// @Success 200 {object} response.Envelope
// @Router /course-offerings [get]
func (h *CourseHandler) ListOfferings(c *gin.Context) {
	var courseID *int64
	if raw := c.Query("courseId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid courseId parameter"))
			return
		}
		courseID = &id
	}
	offerings, err := h.courses.ListOfferings(c.Request.Context(), courseID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, offerings, nil)
}

// CreateOffering godoc
// @Summary Schedule a course in a cycle
// @Tags Courses
// @Accept json
// @Produce json
// @Param payload body dto.CreateCourseOfferingRequest true "Offering payload"
// @Success 201 {object} response.Envelope
// @Router /course-offerings [post]
func (h *CourseHandler) CreateOffering(c *gin.Context) {
	var req dto.CreateCourseOfferingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	offering, err := h.courses.CreateOffering(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, offering)
}

// UpdateOffering godoc
// @Summary Update a course offering
// @Tags Courses
// @Accept json
// @Produce json
// @Param id path int true "Offering ID"
// @Param payload body dto.CreateCourseOfferingRequest true "Offering payload"
// @Success 200 {object} response.Envelope
// @Router /course-offerings/{id} [put]
func (h *CourseHandler) UpdateOffering(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.CreateCourseOfferingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	offering, err := h.courses.UpdateOffering(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, offering, nil)
}

// DeleteOffering godoc
// @Summary Delete a course offering
// @Tags Courses
// @Param id path int true "Offering ID"
// @Success 204
// @Router /course-offerings/{id} [delete]
func (h *CourseHandler) DeleteOffering(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.courses.DeleteOffering(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
