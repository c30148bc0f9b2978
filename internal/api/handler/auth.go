package handler

import (
	"net/http"
	"strings"
	"time"

	"ethereal/backend/internal/api/middleware"
	"ethereal/backend/internal/auth"
	"ethereal/backend/internal/config"

	"github.com/gin-gonic/gin"
)

func (h *Handler) setSessionCookie(c *gin.Context, token string, expires time.Time) {
	maxAge := int(time.Until(expires).Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, token, maxAge, "/", "", h.SecureCookies, true)
}

func (h *Handler) clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", h.SecureCookies, true)
}

// SignUp handles POST /api/auth/signup.
func (h *Handler) SignUp(c *gin.Context) {
	var in auth.SignUpInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.badRequest(c, err)
		return
	}

	user, err := h.Auth.SignUp(c.Request.Context(), in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"user_id": user.ID,
		"email":   user.Email,
		"message": h.message(c, "account_created"),
	})
}

type signInRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// SignIn handles POST /api/auth/signin and sets the session cookie.
func (h *Handler) SignIn(c *gin.Context) {
	var req signInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	session, err := h.Auth.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.setSessionCookie(c, session.Token, session.ExpiresAt)
	c.JSON(http.StatusOK, session)
}

// SignOut handles POST /api/auth/signout. Browsers posting the nav form are redirected.
func (h *Handler) SignOut(c *gin.Context) {
	claims, _ := middleware.ClaimsFrom(c)

	if err := h.Auth.SignOut(c.Request.Context(), claims); err != nil {
		h.fail(c, err)
		return
	}
	h.clearSessionCookie(c)

	if strings.Contains(c.GetHeader("Accept"), "text/html") {
		c.Redirect(http.StatusSeeOther, config.RouteAuth)
		return
	}
	c.JSON(http.StatusOK, gin.H{"route": config.RouteAuth})
}

// Refresh handles POST /api/auth/refresh.
func (h *Handler) Refresh(c *gin.Context) {
	claims, _ := middleware.ClaimsFrom(c)

	session, err := h.Auth.Refresh(c.Request.Context(), claims)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.setSessionCookie(c, session.Token, session.ExpiresAt)
	c.JSON(http.StatusOK, session)
}

// Session handles GET /api/auth/session.
func (h *Handler) Session(c *gin.Context) {
	claims, _ := middleware.ClaimsFrom(c)

	c.JSON(http.StatusOK, gin.H{
		"user_id":    claims.UserID,
		"roles":      claims.Roles,
		"route":      auth.DashboardRoute(claims.Roles),
		"expires_at": claims.ExpiresAt.Time,
	})
}

type updateUserRequest struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

// UpdateUser handles PATCH /api/auth/user (email and/or password).
func (h *Handler) UpdateUser(c *gin.Context) {
	claims, _ := middleware.ClaimsFrom(c)

	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	if err := h.Auth.UpdateAccount(c.Request.Context(), claims, req.Email, req.Password, req.ConfirmPassword); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type createAdminRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	FullName string `json:"full_name"`
}

// CreateAdmin handles POST /api/admin/users.
func (h *Handler) CreateAdmin(c *gin.Context) {
	claims, _ := middleware.ClaimsFrom(c)

	var req createAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	user, err := h.Auth.CreateAdmin(c.Request.Context(), claims, req.Email, req.Password, req.FullName)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"user_id": user.ID, "email": user.Email})
}
