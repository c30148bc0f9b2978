package complaint

import (
	"errors"
	"fmt"
)

// ErrValidation marks input rejected before any storage call.
var ErrValidation = errors.New("validation failed")

var (
	ErrMissingCategory    = fmt.Errorf("%w: category is required", ErrValidation)
	ErrInvalidCategory    = fmt.Errorf("%w: unknown category", ErrValidation)
	ErrMissingTitle       = fmt.Errorf("%w: title is required", ErrValidation)
	ErrMissingDescription = fmt.Errorf("%w: description is required", ErrValidation)
	ErrInvalidBuilding    = fmt.Errorf("%w: building/office may only contain letters, numbers, hyphens and spaces", ErrValidation)
	ErrMissingSubmitter   = fmt.Errorf("%w: submitter is required", ErrValidation)
	ErrMissingTrackingID  = fmt.Errorf("%w: tracking id is required", ErrValidation)
	ErrInvalidStatus      = fmt.Errorf("%w: unknown status", ErrValidation)
	ErrInvalidFeedback    = fmt.Errorf("%w: unknown feedback status", ErrValidation)
	ErrInvalidRating      = fmt.Errorf("%w: rating must be between 1 and 5", ErrValidation)
)

var (
	// ErrInvalidDepartment is a referential error: the department does not exist.
	ErrInvalidDepartment = errors.New("the selected department does not exist")
	// ErrDuplicateTrackingID is reported once every attempt hit a tracking id conflict.
	ErrDuplicateTrackingID = errors.New("a complaint with this tracking id already exists, please try again")
	// ErrUnexpected is reported when retries ran out for any other reason.
	ErrUnexpected = errors.New("an unexpected error occurred while submitting the complaint")

	ErrComplaintNotFound = errors.New("complaint not found")
	ErrForbidden         = errors.New("not allowed to act on this complaint")
	ErrNotResolved       = errors.New("feedback is only accepted once a complaint is resolved")
)
