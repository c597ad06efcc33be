package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/academia-sys/academia-api/internal/dto"
	"github.com/academia-sys/academia-api/internal/models"
	"github.com/academia-sys/academia-api/internal/service"
	appErrors "github.com/academia-sys/academia-api/pkg/errors"
	"github.com/academia-sys/academia-api/pkg/response"
)

const packageCachePrefix = "catalog:packages"

// PackageHandler exposes packages, their offerings and the expansion
// mapping.
type PackageHandler struct {
	packages *service.PackageService
	cache    *service.CacheService
}

// NewPackageHandler constructs PackageHandler.
func NewPackageHandler(packages *service.PackageService, cache *service.CacheService) *PackageHandler {
	return &PackageHandler{packages: packages, cache: cache}
}

// List godoc
// @Summary List packages with their courses
// @Tags Packages
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /packages [get]
func (h *PackageHandler) List(c *gin.Context) {
	var cached []models.PackageDetail
	if hit, _ := h.cache.Get(c.Request.Context(), packageCachePrefix, &cached); hit {
		response.JSON(c, http.StatusOK, cached, nil)
		return
	}
	packages, err := h.packages.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	_ = h.cache.Set(c.Request.Context(), packageCachePrefix, packages, 0)
	response.JSON(c, http.StatusOK, packages, nil)
}

// Get godoc
// @Summary Get package detail
// @Tags Packages
// @Produce json
// @Param id path int true "Package ID"
// @Success 200 {object} response.Envelope
// @Router /packages/{id} [get]
func (h *PackageHandler) Get(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	pkg, err := h.packages.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, pkg, nil)
}

// Create godoc
// @Summary Create package
// @Tags Packages
// @Accept json
// @Produce json
// @Param payload body dto.CreatePackageRequest true "Package payload"
// @Success 201 {object} response.Envelope
// @Router /packages [post]
func (h *PackageHandler) Create(c *gin.Context) {
	var req dto.CreatePackageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	pkg, err := h.packages.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	_ = h.cache.Invalidate(c.Request.Context(), packageCachePrefix+"*")
	response.Created(c, pkg)
}

// Update godoc
// @Summary Update package
// @Tags Packages
// @Accept json
// @Produce json
// @Param id path int true "Package ID"
// @Param payload body dto.CreatePackageRequest true "Package payload"
// @Success 200 {object} response.Envelope
// @Router /packages/{id} [put]
func (h *PackageHandler) Update(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.CreatePackageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	pkg, err := h.packages.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	_ = h.cache.Invalidate(c.Request.Context(), packageCachePrefix+"*")
	response.JSON(c, http.StatusOK, pkg, nil)
}

// Delete godoc
// @Summary Delete package
// @Tags Packages
// @Param id path int true "Package ID"
// @Success 204
// @Router /packages/{id} [delete]
func (h *PackageHandler) Delete(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.packages.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	_ = h.cache.Invalidate(c.Request.Context(), packageCachePrefix+"*")
	response.NoContent(c)
}

// AddCourse godoc
// @Summary Attach a course to a package
// @Tags Packages
// @Accept json
// @Param id path int true "Package ID"
// @Param payload body dto.LinkPackageCourseRequest true "Course link"
// @Success 204
// @Router /packages/{id}/courses [post]
func (h *PackageHandler) AddCourse(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.LinkPackageCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	if err := h.packages.AddCourse(c.Request.Context(), id, req.CourseID); err != nil {
		response.Error(c, err)
		return
	}
	_ = h.cache.Invalidate(c.Request.Context(), packageCachePrefix+"*")
	response.NoContent(c)
}

// RemoveCourse godoc
// @Summary Detach a course from a package
// @Tags Packages
// @Param id path int true "Package ID"
// @Param courseID path int true "Course ID"
// @Success 204
// @Router /packages/{id}/courses/{courseID} [delete]
func (h *PackageHandler) RemoveCourse(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	courseID, err := pathID(c, "courseID")
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.packages.RemoveCourse(c.Request.Context(), id, courseID); err != nil {
		response.Error(c, err)
		return
	}
	_ = h.cache.Invalidate(c.Request.Context(), packageCachePrefix+"*")
	response.NoContent(c)
}

// ListOfferings godoc
// @Summary List package offerings
// @Tags Packages
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /package-offerings [get]
func (h *PackageHandler) ListOfferings(c *gin.Context) {
	offerings, err := h.packages.ListOfferings(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, offerings, nil)
}

// CreateOffering godoc
// @Summary Price a package for a cycle
// @Tags Packages
// @Accept json
// @Produce json
// @Param payload body dto.CreatePackageOfferingRequest true "Offering payload"
// @Success 201 {object} response.Envelope
// @Router /package-offerings [post]
func (h *PackageHandler) CreateOffering(c *gin.Context) {
	var req dto.CreatePackageOfferingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	offering, err := h.packages.CreateOffering(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, offering)
}

// UpdateOffering godoc
// @Summary Update a package offering
// @Tags Packages
// @Accept json
// @Produce json
// @Param id path int true "Offering ID"
// @Param payload body dto.CreatePackageOfferingRequest true "Offering payload"
// @Success 200 {object} response.Envelope
// @Router /package-offerings/{id} [put]
func (h *PackageHandler) UpdateOffering(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.CreatePackageOfferingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	offering, err := h.packages.UpdateOffering(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, offering, nil)
}

// DeleteOffering godoc
// @Summary Delete a package offering
// @Tags Packages
// @Param id path int true "Offering ID"
// @Success 204
// @Router /package-offerings/{id} [delete]
func (h *PackageHandler) DeleteOffering(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.packages.DeleteOffering(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// LinkOfferingCourse godoc
// @Summary Pin a course offering into a package offering's expansion set
// @Tags Packages
// @Accept json
// @Param id path int true "Package offering ID"
// @Param payload body dto.LinkOfferingCourseRequest true "Course offering link"
// @Success 204
// @Router /package-offerings/{id}/courses [post]
func (h *PackageHandler) LinkOfferingCourse(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.LinkOfferingCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	if err := h.packages.LinkOfferingCourse(c.Request.Context(), id, req.CourseOfferingID); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// UnlinkOfferingCourse godoc
// @Summary Remove a pinned course offering
// @Tags Packages
// @Param id path int true "Package offering ID"
// @Param courseOfferingID path int true "Course offering ID"
// @Success 204
// @Router /package-offerings/{id}/courses/{courseOfferingID} [delete]
func (h *PackageHandler) UnlinkOfferingCourse(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	courseOfferingID, err := pathID(c, "courseOfferingID")
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.packages.UnlinkOfferingCourse(c.Request.Context(), id, courseOfferingID); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
