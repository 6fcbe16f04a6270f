package domain_test

import (
	"testing"
	"time"

	"github.com/firehallhq/cadintel/internal/domain"
)

func TestComputeReviewStatus(t *testing.T) {
	earlier := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	later := time.Date(2026, 3, 15, 3, 0, 0, 0, time.UTC)

	testCases := []struct {
		name           string
		hasSubstantive bool
		reviewedAt     *time.Time
		trainedAt      *time.Time
		want           domain.ReviewStatus
	}{
		{
			name:           "noise-only bundle has no status",
			hasSubstantive: false,
			reviewedAt:     &earlier,
			trainedAt:      &later,
			want:           domain.StatusNone,
		},
		{
			name:           "never reviewed",
			hasSubstantive: true,
			want:           domain.StatusPending,
		},
		{
			name:           "reviewed, never trained",
			hasSubstantive: true,
			reviewedAt:     &earlier,
			want:           domain.StatusValidated,
		},
		{
			name:           "reviewed after the last retrain",
			hasSubstantive: true,
			reviewedAt:     &later,
			trainedAt:      &earlier,
			want:           domain.StatusValidated,
		},
		{
			name:           "retrained after review",
			hasSubstantive: true,
			reviewedAt:     &earlier,
			trainedAt:      &later,
			want:           domain.StatusTrained,
		},
		{
			name:           "retrain at exactly review time still validated",
			hasSubstantive: true,
			reviewedAt:     &earlier,
			trainedAt:      &earlier,
			want:           domain.StatusValidated,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := domain.ComputeReviewStatus(tc.hasSubstantive, tc.reviewedAt, tc.trainedAt)
			if got != tc.want {
				t.Errorf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestCommentBundle_UnresolvedReviewItems(t *testing.T) {
	bundle := &domain.CommentBundle{
		Comments: []domain.Comment{
			{Index: 0, NeedsReview: true},
			{Index: 1, NeedsReview: true, IsNoise: true}, // noise never counts
			{Index: 2},
		},
		DetectedTimestamps: []domain.DetectedTimestamp{
			{Confidence: domain.ConfidenceHigh, MappedTo: "time_water_on_fire"}, // auto-applied
			{Confidence: domain.ConfidenceHigh},                                 // auto-apply failed, open
			{Confidence: domain.ConfidenceMedium},                               // open
			{Confidence: domain.ConfidenceLow, MappedTo: domain.MappedIgnored},  // decided
			{Confidence: domain.ConfidenceLow, MappedTo: "time_all_clear"},      // decided
		},
	}

	if got := bundle.UnresolvedReviewItems(); got != 3 {
		t.Errorf("UnresolvedReviewItems() = %d, want 3", got)
	}
}
