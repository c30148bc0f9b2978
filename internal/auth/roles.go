package auth

import (
	"ethereal/backend/internal/config"
	"ethereal/backend/internal/models"
)

// IsElevated is true when any role is admin, ombudsperson or department officer.
func IsElevated(roles []models.AppRole) bool {
	for _, r := range roles {
		if r.Elevated() {
			return true
		}
	}
	return false
}

// DashboardRoute picks the landing page for a signed-in user.
func DashboardRoute(roles []models.AppRole) string {
	if IsElevated(roles) {
		return config.RouteAdminDashboard
	}
	return config.RouteStudentDashboard
}

// HasRole reports whether role is among roles.
func HasRole(roles []models.AppRole, role models.AppRole) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}
