// Package handler serves the JSON API, the page shell and the auth-state websocket.
package handler

import (
	"context"
	"html/template"

	"ethereal/backend/internal/auth"
	"ethereal/backend/internal/authhub"
	"ethereal/backend/internal/complaint"
	"ethereal/backend/internal/localization"
	"ethereal/backend/internal/models"

	"go.uber.org/zap"
)

// DepartmentLister is the reference data the forms need.
type DepartmentLister interface {
	ListDepartments(ctx context.Context) ([]models.Department, error)
}

// Handler holds the services behind every route.
type Handler struct {
	Complaints  *complaint.Service
	Auth        *auth.Service
	Hub         *authhub.ManagerService
	Departments DepartmentLister
	Localizer   *localization.Localizer
	Templates   *template.Template
	Logger      *zap.Logger

	// SecureCookies marks the session cookie Secure (production).
	SecureCookies bool
}

func NewHandler(
	complaints *complaint.Service,
	authService *auth.Service,
	hub *authhub.ManagerService,
	departments DepartmentLister,
	localizer *localization.Localizer,
	templates *template.Template,
	logger *zap.Logger,
) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		Complaints:  complaints,
		Auth:        authService,
		Hub:         hub,
		Departments: departments,
		Localizer:   localizer,
		Templates:   templates,
		Logger:      logger,
	}
}
