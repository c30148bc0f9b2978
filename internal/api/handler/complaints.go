package handler

import (
	"net/http"

	"ethereal/backend/internal/api/middleware"
	"ethereal/backend/internal/complaint"
	"ethereal/backend/internal/models"

	"github.com/gin-gonic/gin"
)

// SubmitComplaint handles POST /api/complaints.
func (h *Handler) SubmitComplaint(c *gin.Context) {
	claims, _ := middleware.ClaimsFrom(c)

	var in complaint.SubmitInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.badRequest(c, err)
		return
	}

	res, err := h.Complaints.Submit(c.Request.Context(), claims.UserID, in)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"tracking_id":       res.TrackingID,
		"complaint":         res.Complaint,
		"redirect_to":       res.RedirectTo,
		"redirect_after_ms": res.RedirectAfter.Milliseconds(),
		"message":           h.Localizer.Format(h.lang(c), "complaint_submitted", res.TrackingID),
	})
}

// TrackComplaint handles GET /api/complaints/track/:id. A miss is a 200 with a notice.
func (h *Handler) TrackComplaint(c *gin.Context) {
	ctx := c.Request.Context()
	found, err := h.Complaints.Track(ctx, c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	if found == nil {
		c.JSON(http.StatusOK, gin.H{"found": false, "notice": h.message(c, "complaint_not_found")})
		return
	}

	timeline, err := h.Complaints.Timeline(ctx, found)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"found": true, "complaint": found, "timeline": timeline})
}

// SubmitFeedback handles POST /api/complaints/:id/feedback.
func (h *Handler) SubmitFeedback(c *gin.Context) {
	claims, _ := middleware.ClaimsFrom(c)

	var in complaint.FeedbackInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.badRequest(c, err)
		return
	}

	fb, err := h.Complaints.SubmitFeedback(c.Request.Context(), claims.UserID, c.Param("id"), in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, fb)
}

type statusRequest struct {
	Status models.Status `json:"status" binding:"required"`
	Note   string        `json:"note"`
}

// UpdateStatus handles POST /api/admin/complaints/:id/status.
func (h *Handler) UpdateStatus(c *gin.Context) {
	claims, _ := middleware.ClaimsFrom(c)

	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	updated, err := h.Complaints.Transition(c.Request.Context(), claims.UserID, c.Param("id"), req.Status, req.Note)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// StudentDashboard handles GET /api/dashboard/student.
func (h *Handler) StudentDashboard(c *gin.Context) {
	claims, _ := middleware.ClaimsFrom(c)

	dash, err := h.Complaints.StudentDashboard(c.Request.Context(), claims.UserID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, dash)
}

// AdminDashboard handles GET /api/dashboard/admin.
func (h *Handler) AdminDashboard(c *gin.Context) {
	claims, _ := middleware.ClaimsFrom(c)

	dash, err := h.Complaints.AdminDashboard(c.Request.Context(), claims.UserID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, dash)
}

// ListDepartments handles GET /api/departments.
func (h *Handler) ListDepartments(c *gin.Context) {
	departments, err := h.Departments.ListDepartments(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	if departments == nil {
		departments = []models.Department{}
	}
	c.JSON(http.StatusOK, departments)
}
