package payment

import (
	"errors"

	"github.com/eduspace/core/internal/middleware"
	"github.com/eduspace/core/internal/models"
	"github.com/eduspace/core/internal/pkg/pagination"
	"github.com/eduspace/core/internal/pkg/response"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW, adminMW gin.HandlerFunc) {
	g := rg.Group("/payments", authMW)

	g.POST("/orders", h.createOrder)
	g.POST("/verify", h.verify)
	g.GET("/my", h.history)

	a := g.Group("", adminMW)
	a.GET("", h.listAll)
	a.GET("/revenue", h.revenue)
}

func (h *Handler) createOrder(c *gin.Context) {
	var dto CreateOrderDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	order, err := h.svc.CreateOrder(middleware.CurrentUserID(c), dto.CourseID)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			response.NotFound(c)
		case errors.Is(err, errPaymentsDisabled):
			response.ForbiddenMsg(c, "Payments are not enabled on this site.")
		case errors.Is(err, errCourseFree):
			response.BadRequest(c, "This course is free. Enroll directly.")
		case errors.Is(err, errAlreadyEnrolled):
			response.Conflict(c, "You are already enrolled in this course.")
		default:
			response.InternalError(c, err)
		}
		return
	}
	response.Created(c, order)
}

func (h *Handler) verify(c *gin.Context) {
	var dto VerifyDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	p, err := h.svc.Verify(middleware.CurrentUserID(c), &dto)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			response.NotFound(c)
		case errors.Is(err, errPaymentsDisabled):
			response.ForbiddenMsg(c, "Payments are not enabled on this site.")
		case errors.Is(err, errBadSignature):
			response.BadRequest(c, "Payment could not be verified.")
		case errors.Is(err, errOrderNotOpen):
			response.Conflict(c, "This order has already been settled.")
		default:
			response.InternalError(c, err)
		}
		return
	}
	response.OK(c, toResponse(p))
}

func (h *Handler) history(c *gin.Context) {
	payments, meta, err := h.svc.History(middleware.CurrentUserID(c), pagination.FromContext(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	items := make([]*paymentResponse, len(payments))
	for i := range payments {
		items[i] = toResponse(&payments[i])
	}
	response.Paged(c, items, meta)
}

func (h *Handler) listAll(c *gin.Context) {
	status := c.Query("status")
	switch status {
	case "", models.PaymentPending, models.PaymentCompleted, models.PaymentFailed:
	default:
		response.BadRequest(c, "Unknown payment status filter.")
		return
	}

	payments, meta, err := h.svc.ListAll(status, pagination.FromContext(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	items := make([]*paymentResponse, len(payments))
	for i := range payments {
		items[i] = toResponse(&payments[i])
	}
	response.Paged(c, items, meta)
}

func (h *Handler) revenue(c *gin.Context) {
	totals, err := h.svc.Revenue()
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, gin.H{"revenue": totals})
}
