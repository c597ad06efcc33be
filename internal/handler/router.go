package handler

import (
	"github.com/gin-gonic/gin"
)

// Handlers bundles every HTTP handler for route registration.
type Handlers struct {
	Students    *StudentHandler
	Teachers    *TeacherHandler
	Cycles      *CycleHandler
	Courses     *CourseHandler
	Packages    *PackageHandler
	Enrollments *EnrollmentHandler
	Payments    *PaymentHandler
}

// RegisterRoutes mounts the API surface under the given prefix.
func RegisterRoutes(r *gin.Engine, prefix string, h Handlers) {
	api := r.Group(prefix)

	students := api.Group("/students")
	students.GET("", h.Students.List)
	students.POST("", h.Students.Create)
	students.GET("/:id", h.Students.Get)
	students.PUT("/:id", h.Students.Update)
	students.DELETE("/:id", h.Students.Delete)
	students.GET("/:id/enrollments", h.Students.ListEnrollments)
	students.POST("/:id/enrollments", h.Enrollments.Enroll)
	students.DELETE("/:id/enrollments/:enrollmentID", h.Enrollments.Cancel)

	teachers := api.Group("/teachers")
	teachers.GET("", h.Teachers.List)
	teachers.POST("", h.Teachers.Create)
	teachers.GET("/:id", h.Teachers.Get)
	teachers.PUT("/:id", h.Teachers.Update)
	teachers.DELETE("/:id", h.Teachers.Delete)

	cycles := api.Group("/cycles")
	cycles.GET("", h.Cycles.List)
	cycles.POST("", h.Cycles.Create)
	cycles.GET("/:id", h.Cycles.Get)
	cycles.PUT("/:id", h.Cycles.Update)
	cycles.DELETE("/:id", h.Cycles.Delete)

	courses := api.Group("/courses")
	courses.GET("", h.Courses.List)
	courses.POST("", h.Courses.Create)
	courses.GET("/:id", h.Courses.Get)
	courses.PUT("/:id", h.Courses.Update)
	courses.DELETE("/:id", h.Courses.Delete)

	courseOfferings := api.Group("/course-offerings")
	courseOfferings.GET("", h.Courses.ListOfferings)
	courseOfferings.POST("", h.Courses.CreateOffering)
	courseOfferings.PUT("/:id", h.Courses.UpdateOffering)
	courseOfferings.DELETE("/:id", h.Courses.DeleteOffering)

	packages := api.Group("/packages")
	packages.GET("", h.Packages.List)
	packages.POST("", h.Packages.Create)
	packages.GET("/:id", h.Packages.Get)
	packages.PUT("/:id", h.Packages.Update)
	packages.DELETE("/:id", h.Packages.Delete)
	packages.POST("/:id/courses", h.Packages.AddCourse)
	packages.DELETE("/:id/courses/:courseID", h.Packages.RemoveCourse)

	packageOfferings := api.Group("/package-offerings")
	packageOfferings.GET("", h.Packages.ListOfferings)
	packageOfferings.POST("", h.Packages.CreateOffering)
	packageOfferings.PUT("/:id", h.Packages.UpdateOffering)
	packageOfferings.DELETE("/:id", h.Packages.DeleteOffering)
	packageOfferings.POST("/:id/courses", h.Packages.LinkOfferingCourse)
	packageOfferings.DELETE("/:id/courses/:courseOfferingID", h.Packages.UnlinkOfferingCourse)

	api.GET("/enrollments/:id/payment-plan", h.Payments.Plan)
	api.PATCH("/installments/:id/pay", h.Payments.Pay)
	api.GET("/installments/overdue", h.Payments.Overdue)
}
