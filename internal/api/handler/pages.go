package handler

import (
	"net/http"
	"strings"

	"ethereal/backend/internal/api/middleware"
	"ethereal/backend/internal/auth"
	"ethereal/backend/internal/complaint"
	"ethereal/backend/internal/config"
	"ethereal/backend/internal/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// pageSession is what the templates know about the signed-in user.
type pageSession struct {
	UserID   string
	Route    string
	Elevated bool
}

type pageData struct {
	Title   string
	Session *pageSession
	Notice  string

	Query     string
	Complaint *models.Complaint
	Timeline  []complaint.TimelineStep

	Categories  []models.Category
	Departments []models.Department

	Dashboard any
}

func currentSession(c *gin.Context) (*auth.Claims, *pageSession) {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		return nil, nil
	}
	return claims, &pageSession{
		UserID:   claims.UserID,
		Route:    auth.DashboardRoute(claims.Roles),
		Elevated: claims.Elevated(),
	}
}

func (h *Handler) render(c *gin.Context, status int, name string, data pageData) {
	_, data.Session = currentSession(c)
	c.HTML(status, name, data)
}

// renderError shows a failed page load without exposing backend detail.
func (h *Handler) renderError(c *gin.Context, title string, err error) {
	h.Logger.Error("page failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
	h.render(c, http.StatusInternalServerError, "not_found.html", pageData{
		Title:  title,
		Notice: h.message(c, "unexpected_error"),
	})
}

// HomePage serves /.
func (h *Handler) HomePage(c *gin.Context) {
	h.render(c, http.StatusOK, "home.html", pageData{Title: "Home"})
}

// SubmitPage serves /submit.
func (h *Handler) SubmitPage(c *gin.Context) {
	data := pageData{Title: "Submit a complaint", Categories: models.Categories}
	if _, ok := middleware.ClaimsFrom(c); ok {
		departments, err := h.Departments.ListDepartments(c.Request.Context())
		if err != nil {
			h.renderError(c, data.Title, err)
			return
		}
		data.Departments = departments
	}
	h.render(c, http.StatusOK, "submit.html", data)
}

// TrackPage serves /track; ?id= pre-fills the form and runs the lookup.
func (h *Handler) TrackPage(c *gin.Context) {
	data := pageData{Title: "Track a complaint", Query: strings.TrimSpace(c.Query("id"))}
	if data.Query == "" {
		h.render(c, http.StatusOK, "track.html", data)
		return
	}

	ctx := c.Request.Context()
	found, err := h.Complaints.Track(ctx, data.Query)
	if err != nil {
		h.renderError(c, data.Title, err)
		return
	}
	if found == nil {
		data.Notice = h.message(c, "complaint_not_found")
		h.render(c, http.StatusOK, "track.html", data)
		return
	}

	timeline, err := h.Complaints.Timeline(ctx, found)
	if err != nil {
		h.renderError(c, data.Title, err)
		return
	}
	data.Complaint = found
	data.Timeline = timeline
	h.render(c, http.StatusOK, "track.html", data)
}

// AuthPage serves /auth. A signed-in user goes straight to their dashboard.
func (h *Handler) AuthPage(c *gin.Context) {
	if _, session := currentSession(c); session != nil {
		c.Redirect(http.StatusFound, session.Route)
		return
	}
	h.render(c, http.StatusOK, "auth.html", pageData{Title: "Sign in"})
}

// StudentDashboardPage serves /dashboard/student.
func (h *Handler) StudentDashboardPage(c *gin.Context) {
	claims, _ := currentSession(c)
	if claims == nil {
		c.Redirect(http.StatusFound, config.RouteAuth)
		return
	}

	dash, err := h.Complaints.StudentDashboard(c.Request.Context(), claims.UserID)
	if err != nil {
		h.renderError(c, "My complaints", err)
		return
	}
	h.render(c, http.StatusOK, "student_dashboard.html", pageData{Title: "My complaints", Dashboard: dash})
}

// AdminDashboardPage serves /dashboard/admin.
func (h *Handler) AdminDashboardPage(c *gin.Context) {
	claims, _ := currentSession(c)
	if claims == nil {
		c.Redirect(http.StatusFound, config.RouteAuth)
		return
	}
	if !claims.Elevated() {
		c.Redirect(http.StatusFound, config.RouteStudentDashboard)
		return
	}

	dash, err := h.Complaints.AdminDashboard(c.Request.Context(), claims.UserID)
	if err != nil {
		h.renderError(c, "Administration", err)
		return
	}
	h.render(c, http.StatusOK, "admin_dashboard.html", pageData{Title: "Administration", Dashboard: dash})
}

// NotFound answers unknown paths: JSON under /api, the 404 page elsewhere.
func (h *Handler) NotFound(c *gin.Context) {
	h.Logger.Debug("404: non-existent route", zap.String("path", c.Request.URL.Path))
	if strings.HasPrefix(c.Request.URL.Path, "/api/") {
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found"})
		return
	}
	h.render(c, http.StatusNotFound, "not_found.html", pageData{
		Title:  "Not found",
		Notice: h.message(c, "page_not_found"),
	})
}
