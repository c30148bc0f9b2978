package analysis

import (
	"math/rand"
	"testing"

	"ethereal/backend/internal/models"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func complaintsWith(statuses ...models.Status) []models.Complaint {
	out := make([]models.Complaint, len(statuses))
	for i, s := range statuses {
		out[i] = models.Complaint{Status: s}
	}
	return out
}

func TestSummarize_Buckets(t *testing.T) {
	got := Summarize(complaintsWith(
		models.StatusSubmitted,
		models.StatusReviewed,
		models.StatusAssigned,
		models.StatusInProgress,
		models.StatusInProgress,
		models.StatusResolved,
		models.StatusClosed,
		models.StatusEscalated,
	))

	want := Counts{
		Total:      8,
		Pending:    2,
		InProgress: 3,
		Resolved:   2,
		Other:      1,
		ByStatus: map[models.Status]int{
			models.StatusSubmitted:  1,
			models.StatusReviewed:   1,
			models.StatusAssigned:   1,
			models.StatusInProgress: 2,
			models.StatusResolved:   1,
			models.StatusClosed:     1,
			models.StatusEscalated:  1,
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Summarize mismatch (-want +got):\n%s", diff)
	}
}

func TestSummarize_Empty(t *testing.T) {
	got := Summarize(nil)
	assert.Equal(t, 0, got.Total)
	assert.Empty(t, got.ByStatus)
}

func TestSummarize_ExactMatchOnly(t *testing.T) {
	got := Summarize(complaintsWith("submitted", "In progress", models.StatusReopened))
	assert.Equal(t, 0, got.Pending)
	assert.Equal(t, 0, got.InProgress)
	assert.Equal(t, 3, got.Other)
}

// Every fixture partitions without double counting.
func TestSummarize_PartitionProperty(t *testing.T) {
	all := []models.Status{
		models.StatusSubmitted, models.StatusReviewed, models.StatusAssigned, models.StatusInProgress,
		models.StatusResolved, models.StatusClosed, models.StatusReopened, models.StatusEscalated,
	}
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 200; i++ {
		n := rng.Intn(40)
		statuses := make([]models.Status, n)
		for j := range statuses {
			statuses[j] = all[rng.Intn(len(all))]
		}
		c := Summarize(complaintsWith(statuses...))
		assert.Equal(t, n, c.Total)
		assert.Equal(t, c.Total, c.Pending+c.InProgress+c.Resolved+c.Other)

		sum := 0
		for _, v := range c.ByStatus {
			sum += v
		}
		assert.Equal(t, c.Total, sum)
	}
}

func TestBucketOf(t *testing.T) {
	assert.Equal(t, BucketPending, BucketOf(models.StatusReviewed))
	assert.Equal(t, BucketInProgress, BucketOf(models.StatusAssigned))
	assert.Equal(t, BucketResolved, BucketOf(models.StatusClosed))
	assert.Equal(t, BucketOther, BucketOf(models.StatusReopened))
}
