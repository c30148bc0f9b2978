package handler

import (
	"errors"
	"net/http"

	"ethereal/backend/internal/auth"
	"ethereal/backend/internal/complaint"
	"ethereal/backend/internal/storage"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// lang picks the response language from Accept-Language.
func (h *Handler) lang(c *gin.Context) string {
	return h.Localizer.Pick(c.GetHeader("Accept-Language"))
}

func (h *Handler) message(c *gin.Context, key string) string {
	return h.Localizer.GetString(h.lang(c), key)
}

// validationKeys names the notice for each rejected field.
var validationKeys = []struct {
	err error
	key string
}{
	{complaint.ErrMissingCategory, "category_required"},
	{complaint.ErrInvalidCategory, "category_invalid"},
	{complaint.ErrMissingTitle, "title_required"},
	{complaint.ErrMissingDescription, "description_required"},
	{complaint.ErrInvalidBuilding, "building_invalid"},
	{complaint.ErrMissingSubmitter, "submitter_required"},
	{complaint.ErrMissingTrackingID, "tracking_id_required"},
	{complaint.ErrInvalidStatus, "status_invalid"},
	{complaint.ErrInvalidFeedback, "feedback_invalid"},
	{complaint.ErrInvalidRating, "rating_invalid"},
	{auth.ErrInvalidEmail, "email_invalid"},
	{auth.ErrInvalidPhone, "phone_invalid"},
	{auth.ErrPasswordMismatch, "password_mismatch"},
	{auth.ErrPasswordTooShort, "password_too_short"},
	{auth.ErrMissingField, "field_required"},
	{auth.ErrInvalidRole, "role_invalid"},
	{auth.ErrNothingToUpdate, "nothing_to_update"},
}

func validationKey(err error) string {
	for _, v := range validationKeys {
		if errors.Is(err, v.err) {
			return v.key
		}
	}
	return "validation_failed"
}

// classify maps an error to its HTTP status, error kind and localization key.
// An empty key means the error text itself is shown.
func classify(err error) (status int, kind, key string) {
	switch {
	case errors.Is(err, complaint.ErrValidation), errors.Is(err, auth.ErrValidation):
		return http.StatusBadRequest, "validation_failed", validationKey(err)
	case errors.Is(err, complaint.ErrInvalidDepartment):
		return http.StatusUnprocessableEntity, "invalid_department", "invalid_department"
	case errors.Is(err, complaint.ErrDuplicateTrackingID):
		return http.StatusConflict, "duplicate_tracking_id", "duplicate_tracking_id"
	case errors.Is(err, complaint.ErrUnexpected):
		return http.StatusInternalServerError, "unexpected_error", "unexpected_error"
	case errors.Is(err, complaint.ErrComplaintNotFound):
		return http.StatusNotFound, "complaint_not_found", "complaint_not_found"
	case errors.Is(err, complaint.ErrNotResolved):
		return http.StatusConflict, "not_resolved", "not_resolved"
	case errors.Is(err, storage.ErrInvalidTransition):
		return http.StatusConflict, "invalid_transition", "invalid_transition"
	case errors.Is(err, complaint.ErrForbidden), errors.Is(err, auth.ErrForbidden):
		return http.StatusForbidden, "forbidden", "forbidden"
	case errors.Is(err, auth.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid_credentials", "invalid_credentials"
	case errors.Is(err, auth.ErrSessionRevoked):
		return http.StatusUnauthorized, "session_revoked", "session_revoked"
	case errors.Is(err, auth.ErrUnauthenticated):
		return http.StatusUnauthorized, "unauthenticated", "unauthenticated"
	case errors.Is(err, auth.ErrEmailTaken):
		return http.StatusConflict, "email_taken", "email_taken"
	case errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound, "not_found", ""
	}
	return http.StatusInternalServerError, "backend_error", ""
}

// fail writes {"error": kind, "message": text}.
func (h *Handler) fail(c *gin.Context, err error) {
	status, kind, key := classify(err)
	msg := err.Error()
	if key != "" {
		msg = h.message(c, key)
	}
	if status >= http.StatusInternalServerError {
		h.Logger.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, gin.H{"error": kind, "message": msg})
}

// badRequest reports a body that could not be decoded.
func (h *Handler) badRequest(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
		"error":   "validation_failed",
		"message": h.message(c, "validation_failed"),
		"detail":  err.Error(),
	})
}
