package comment

import "math"

// DashboardMetrics are derived figures recomputed from the store on every
// read; they are never persisted independently.
type DashboardMetrics struct {
	TotalComments      int `json:"total_comments"`
	ApprovalRate       int `json:"approval_rate"`
	AverageAccuracy    int `json:"average_accuracy"`
	AutoRespondedCount int `json:"auto_responded_count"`
	ManualReviewCount  int `json:"manual_review_count"`
	PendingCount       int `json:"pending_count"`
}

// ComputeMetrics rolls the comment list up into dashboard figures. An
// empty list yields zeroes for every rate-based metric.
func ComputeMetrics(comments []Comment) DashboardMetrics {
	m := DashboardMetrics{TotalComments: len(comments)}
	if len(comments) == 0 {
		return m
	}

	responded := 0
	scoreSum := 0
	for _, c := range comments {
		scoreSum += c.AccuracyScore
		switch c.Status {
		case StatusApproved:
			responded++
			m.ManualReviewCount++
		case StatusRejected:
			m.ManualReviewCount++
		case StatusAutoResponded:
			responded++
			m.AutoRespondedCount++
		default:
			m.PendingCount++
		}
	}

	total := float64(len(comments))
	m.ApprovalRate = int(math.Round(float64(responded) / total * 100))
	m.AverageAccuracy = int(math.Round(float64(scoreSum) / total))
	return m
}
