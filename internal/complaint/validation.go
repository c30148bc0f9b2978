package complaint

import (
	"regexp"
	"strings"

	"ethereal/backend/internal/models"

	"github.com/google/uuid"
)

var buildingPattern = regexp.MustCompile(`^[A-Za-z0-9\- ]+$`)

// SubmitInput is what the submission form collects.
type SubmitInput struct {
	Category    models.Category `json:"category"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Department  string          `json:"department,omitempty"`
	Building    string          `json:"building,omitempty"`
	Anonymous   bool            `json:"anonymous,omitempty"`
}

// ValidBuilding reports whether the building/office text passes the allow-list.
// Empty text is valid because the field is optional.
func ValidBuilding(building string) bool {
	return building == "" || buildingPattern.MatchString(building)
}

// Validate checks the form locally.
func (in SubmitInput) Validate() error {
	if in.Category == "" {
		return ErrMissingCategory
	}
	if !in.Category.Valid() {
		return ErrInvalidCategory
	}
	if strings.TrimSpace(in.Title) == "" {
		return ErrMissingTitle
	}
	if strings.TrimSpace(in.Description) == "" {
		return ErrMissingDescription
	}
	if !ValidBuilding(strings.TrimSpace(in.Building)) {
		return ErrInvalidBuilding
	}
	if dept := strings.TrimSpace(in.Department); dept != "" {
		if _, err := uuid.Parse(dept); err != nil {
			return ErrInvalidDepartment
		}
	}
	return nil
}

// ComposeDescription appends the building/office line when one was given.
func ComposeDescription(description, building string) string {
	description = strings.TrimSpace(description)
	building = strings.TrimSpace(building)
	if building == "" {
		return description
	}
	return description + "\n\nBuilding/Office: " + building
}

// NormalizeTrackingID makes lookups case-insensitive.
func NormalizeTrackingID(trackingID string) string {
	return strings.ToUpper(strings.TrimSpace(trackingID))
}
