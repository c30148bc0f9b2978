package config

import "time"

const (
	// Submission
	SubmitMaxAttempts = 3
	SubmitBackoffBase = 500 * time.Millisecond
	SubmitRedirectTo  = "/dashboard/student"
	SubmitRedirectIn  = 2 * time.Second

	// Tracking ids
	TrackingPrefix    = "EN"
	TrackingSeqDigits = 5

	// Dashboards
	AdminPageSize = 10

	// Accounts
	MinPasswordLength = 6
	SessionDuration   = 72 * time.Hour

	// Public lookup throttling
	DefaultTrackRateLimit = 30
	TrackRateWindow       = time.Minute
)

// Routes of the page shell.
const (
	RouteHome             = "/"
	RouteSubmit           = "/submit"
	RouteTrack            = "/track"
	RouteAuth             = "/auth"
	RouteStudentDashboard = "/dashboard/student"
	RouteAdminDashboard   = "/dashboard/admin"
)
