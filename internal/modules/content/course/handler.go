package course

import (
	"errors"

	"github.com/eduspace/core/internal/middleware"
	"github.com/eduspace/core/internal/models"
	"github.com/eduspace/core/internal/modules/processing/markdown"
	"github.com/eduspace/core/internal/pkg/pagination"
	"github.com/eduspace/core/internal/pkg/response"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW, optionalAuthMW gin.HandlerFunc) {
	g := rg.Group("/courses")

	staffMW := middleware.RequireRoles(h.svc.db, models.RoleInstructor, models.RoleAdmin)

	g.GET("", optionalAuthMW, h.list)
	g.GET("/my", authMW, h.myCourses)
	g.GET("/teaching", authMW, staffMW, h.teaching)
	g.GET("/slug/:slug", optionalAuthMW, h.getBySlug)
	g.GET("/:id", optionalAuthMW, h.get)

	g.POST("", authMW, staffMW, h.create)
	g.PATCH("/:id", authMW, staffMW, h.update)
	g.DELETE("/:id", authMW, staffMW, h.delete)

	g.POST("/:id/enroll", authMW, h.enroll)
}

func (h *Handler) list(c *gin.Context) {
	var query ListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	staff := h.isStaff(c)
	courses, meta, err := h.svc.List(&query, pagination.FromContext(c), staff)
	if err != nil {
		response.InternalError(c, err)
		return
	}

	items := make([]*courseResponse, len(courses))
	for i := range courses {
		items[i] = toResponse(&courses[i])
	}
	response.Paged(c, items, meta)
}

func (h *Handler) get(c *gin.Context) {
	m, err := h.svc.GetByID(c.Param("id"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	h.renderCourse(c, m)
}

func (h *Handler) getBySlug(c *gin.Context) {
	m, err := h.svc.GetBySlug(c.Param("slug"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	h.renderCourse(c, m)
}

func (h *Handler) renderCourse(c *gin.Context, m *models.CourseModel) {
	if m == nil {
		response.NotFound(c)
		return
	}
	if !m.IsPublished && !h.canManage(c, m) {
		response.NotFound(c)
		return
	}

	resp := toResponse(m)
	if c.Query("rich") == "true" {
		resp.DescriptionHTML = markdown.Render(m.Description)
	}
	response.OK(c, resp)
}

func (h *Handler) create(c *gin.Context) {
	var dto CreateCourseDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	m, err := h.svc.Create(middleware.CurrentUserID(c), &dto)
	if err != nil {
		if errors.Is(err, errSlugTaken) {
			response.Conflict(c, "A course with this slug already exists.")
			return
		}
		response.InternalError(c, err)
		return
	}
	response.Created(c, toResponse(m))
}

func (h *Handler) update(c *gin.Context) {
	var dto UpdateCourseDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	isAdmin := middleware.CurrentUserRole(c, h.svc.db) == models.RoleAdmin
	m, err := h.svc.Update(c.Param("id"), middleware.CurrentUserID(c), isAdmin, &dto)
	if err != nil {
		switch {
		case errors.Is(err, errSlugTaken):
			response.Conflict(c, "A course with this slug already exists.")
		case errors.Is(err, errNotOwner):
			response.ForbiddenMsg(c, "Only the course instructor can edit this course.")
		default:
			response.InternalError(c, err)
		}
		return
	}
	if m == nil {
		response.NotFound(c)
		return
	}
	response.OK(c, toResponse(m))
}

func (h *Handler) delete(c *gin.Context) {
	isAdmin := middleware.CurrentUserRole(c, h.svc.db) == models.RoleAdmin
	force := c.Query("force") == "true"

	err := h.svc.Delete(c.Param("id"), middleware.CurrentUserID(c), isAdmin, force)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			response.NotFound(c)
		case errors.Is(err, errNotOwner):
			response.ForbiddenMsg(c, "Only the course instructor can delete this course.")
		case errors.Is(err, errHasEnrollments):
			response.Conflict(c, "Students are enrolled in this course. Unpublish it instead.")
		default:
			response.InternalError(c, err)
		}
		return
	}
	response.NoContent(c)
}

func (h *Handler) enroll(c *gin.Context) {
	err := h.svc.EnrollFree(middleware.CurrentUserID(c), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			response.NotFound(c)
		case errors.Is(err, errNotFree):
			response.BadRequest(c, "This course is paid. Complete checkout to enroll.")
		case errors.Is(err, errAlreadyJoined):
			response.Conflict(c, "You are already enrolled in this course.")
		default:
			response.InternalError(c, err)
		}
		return
	}
	response.OK(c, gin.H{"enrolled": true})
}

func (h *Handler) myCourses(c *gin.Context) {
	courses, meta, err := h.svc.MyCourses(middleware.CurrentUserID(c), pagination.FromContext(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	items := make([]*courseResponse, len(courses))
	for i := range courses {
		items[i] = toResponse(&courses[i])
	}
	response.Paged(c, items, meta)
}

func (h *Handler) teaching(c *gin.Context) {
	courses, meta, err := h.svc.Teaching(middleware.CurrentUserID(c), pagination.FromContext(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	items := make([]*courseResponse, len(courses))
	for i := range courses {
		items[i] = toResponse(&courses[i])
	}
	response.Paged(c, items, meta)
}

func (h *Handler) isStaff(c *gin.Context) bool {
	if !middleware.IsAuthenticated(c) {
		return false
	}
	role := middleware.CurrentUserRole(c, h.svc.db)
	return role == models.RoleInstructor || role == models.RoleAdmin
}

func (h *Handler) canManage(c *gin.Context, m *models.CourseModel) bool {
	if !middleware.IsAuthenticated(c) {
		return false
	}
	uid := middleware.CurrentUserID(c)
	if uid == m.InstructorID {
		return true
	}
	return middleware.CurrentUserRole(c, h.svc.db) == models.RoleAdmin
}
