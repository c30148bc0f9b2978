// Package analysis derives dashboard figures from complaint collections.
package analysis

import "ethereal/backend/internal/models"

// Counts partitions a complaint set by status. Every complaint lands in
// exactly one bucket, so Pending+InProgress+Resolved+Other == Total.
type Counts struct {
	Total      int `json:"total"`
	Pending    int `json:"pending"`
	InProgress int `json:"in_progress"`
	Resolved   int `json:"resolved"`
	// Other holds side states (Reopened, Escalated) and unknown values.
	Other int `json:"other"`

	ByStatus map[models.Status]int `json:"by_status"`
}

// Bucket names the dashboard bucket a status is counted in.
type Bucket string

const (
	BucketPending    Bucket = "pending"
	BucketInProgress Bucket = "in_progress"
	BucketResolved   Bucket = "resolved"
	BucketOther      Bucket = "other"
)

// BucketOf maps a status to its bucket by exact enum equality.
func BucketOf(s models.Status) Bucket {
	switch s {
	case models.StatusSubmitted, models.StatusReviewed:
		return BucketPending
	case models.StatusInProgress, models.StatusAssigned:
		return BucketInProgress
	case models.StatusResolved, models.StatusClosed:
		return BucketResolved
	}
	return BucketOther
}

// Summarize counts complaints per bucket and per status.
func Summarize(complaints []models.Complaint) Counts {
	counts := Counts{ByStatus: make(map[models.Status]int)}
	for _, c := range complaints {
		counts.Total++
		counts.ByStatus[c.Status]++
		switch BucketOf(c.Status) {
		case BucketPending:
			counts.Pending++
		case BucketInProgress:
			counts.InProgress++
		case BucketResolved:
			counts.Resolved++
		default:
			counts.Other++
		}
	}
	return counts
}
