package auth

import (
	"errors"

	"github.com/eduspace/core/internal/middleware"
	"github.com/eduspace/core/internal/models"
	jwtpkg "github.com/eduspace/core/internal/pkg/jwt"
	"github.com/eduspace/core/internal/pkg/response"
	sessionpkg "github.com/eduspace/core/internal/pkg/session"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	a := rg.Group("/auth")

	a.POST("/register", h.register)
	a.POST("/login", h.login)
	a.POST("/logout", h.logout)
	a.GET("/me", authMW, h.me)
	a.PATCH("/me", authMW, h.updateProfile)

	a.GET("/sessions", authMW, h.listSessions)
	a.DELETE("/sessions/:id", authMW, h.revokeSession)
	a.DELETE("/sessions", authMW, h.revokeOtherSessions)

	tok := a.Group("/tokens", authMW)
	tok.GET("", h.listTokens)
	tok.POST("", h.createToken)
	tok.DELETE("/:id", h.deleteToken)

	adminMW := middleware.RequireRoles(h.svc.db, models.RoleAdmin)
	a.PATCH("/users/:id/role", authMW, adminMW, h.changeRole)
}

func (h *Handler) register(c *gin.Context) {
	var dto RegisterDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	u, err := h.svc.Register(&dto)
	if err != nil {
		switch {
		case errors.Is(err, errEmailTaken):
			response.Conflict(c, "An account with this email already exists.")
		case errors.Is(err, errRegistrationClosed):
			response.ForbiddenMsg(c, "Registration is currently closed.")
		default:
			response.InternalError(c, err)
		}
		return
	}
	response.Created(c, profileOf(u))
}

func (h *Handler) login(c *gin.Context) {
	var dto LoginDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	disabled, err := h.svc.passwordLoginDisabled()
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if disabled {
		response.BadRequest(c, "Password login is disabled.")
		return
	}
	token, user, err := h.svc.Login(dto.Email, dto.Password, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		if errors.Is(err, errUserNotFound) || errors.Is(err, errWrongPassword) {
			response.ForbiddenMsg(c, "Invalid email or password.")
			return
		}
		response.InternalError(c, err)
		return
	}
	response.OK(c, loginResponse{Token: token, User: profileOf(user)})
}

func (h *Handler) logout(c *gin.Context) {
	if token := middleware.NormalizeToken(c.GetHeader("Authorization")); token != "" {
		if claims, err := jwtpkg.Parse(token); err == nil && claims.SessionID != "" {
			_ = sessionpkg.Revoke(h.svc.db, claims.UserID, claims.SessionID)
		}
	}
	response.OK(c, gin.H{"success": true})
}

func (h *Handler) me(c *gin.Context) {
	u, err := h.svc.GetProfile(middleware.CurrentUserID(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if u == nil {
		response.NotFound(c)
		return
	}
	response.OK(c, profileOf(u))
}

func (h *Handler) updateProfile(c *gin.Context) {
	var dto UpdateProfileDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	u, err := h.svc.UpdateProfile(middleware.CurrentUserID(c), &dto)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, profileOf(u))
}

func (h *Handler) listSessions(c *gin.Context) {
	sessions, err := sessionpkg.ListActive(h.svc.db, middleware.CurrentUserID(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	items := make([]gin.H, 0, len(sessions))
	current := middleware.CurrentSessionID(c)
	for _, s := range sessions {
		items = append(items, gin.H{
			"id":         s.ID,
			"ip":         s.IP,
			"ua":         s.UA,
			"expires_at": s.ExpiresAt,
			"created":    s.CreatedAt,
			"current":    s.ID == current,
		})
	}
	response.OK(c, items)
}

func (h *Handler) revokeSession(c *gin.Context) {
	err := sessionpkg.Revoke(h.svc.db, middleware.CurrentUserID(c), c.Param("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c)
			return
		}
		response.InternalError(c, err)
		return
	}
	response.NoContent(c)
}

func (h *Handler) revokeOtherSessions(c *gin.Context) {
	if err := sessionpkg.RevokeAllExcept(h.svc.db, middleware.CurrentUserID(c), middleware.CurrentSessionID(c)); err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, gin.H{"status": true})
}

func (h *Handler) listTokens(c *gin.Context) {
	tokens, err := h.svc.ListTokens(middleware.CurrentUserID(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	items := make([]tokenResponse, len(tokens))
	for i, t := range tokens {
		items[i] = tokenResponse{
			ID: t.ID, Name: t.Name, Token: t.Token,
			Expired: t.ExpiredAt, Created: t.CreatedAt,
		}
	}
	response.OK(c, items)
}

func (h *Handler) createToken(c *gin.Context) {
	var dto CreateTokenDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	t, err := h.svc.CreateToken(middleware.CurrentUserID(c), &dto)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Created(c, tokenResponse{
		ID: t.ID, Name: t.Name, Token: t.Token,
		Expired: t.ExpiredAt, Created: t.CreatedAt,
	})
}

func (h *Handler) deleteToken(c *gin.Context) {
	if err := h.svc.DeleteToken(middleware.CurrentUserID(c), c.Param("id")); err != nil {
		response.NotFoundMsg(c, err.Error())
		return
	}
	response.NoContent(c)
}

func (h *Handler) changeRole(c *gin.Context) {
	var dto ChangeRoleDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if err := h.svc.ChangeRole(c.Param("id"), dto.Role); err != nil {
		switch {
		case errors.Is(err, errInvalidRole):
			response.BadRequest(c, "Role must be student, instructor or admin.")
		case errors.Is(err, gorm.ErrRecordNotFound):
			response.NotFound(c)
		default:
			response.InternalError(c, err)
		}
		return
	}
	response.OK(c, gin.H{"status": true})
}

func profileOf(u *models.UserModel) userProfile {
	return userProfile{
		ID:      u.ID,
		Email:   u.Email,
		Name:    u.Name,
		Avatar:  u.Avatar,
		Role:    u.Role,
		Created: u.CreatedAt,
	}
}
