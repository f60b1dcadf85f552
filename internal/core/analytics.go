package core

import (
	"time"

	"revuverse-backend-go/internal/models"
)

// analyticsWindow is the trailing window of review request analytics.
const analyticsWindow = 30 * 24 * time.Hour

// StartOfMonthUTC returns the first instant of t's calendar month in UTC.
func StartOfMonthUTC(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// ComputeReviewRequestAnalytics reduces requests to the funnel counts. "Pending" counts
// requests in the sent state, i.e. delivered but not yet answered.
func ComputeReviewRequestAnalytics(requests []*models.ReviewRequest) models.ReviewRequestAnalytics {
	var a models.ReviewRequestAnalytics
	a.TotalRequests = len(requests)
	for _, r := range requests {
		switch r.Status {
		case models.RequestCompleted:
			a.CompletedRequests++
		case models.RequestSent:
			a.PendingRequests++
		}
		switch r.RequestMethod {
		case models.MethodEmail:
			a.RequestsByMethod.Email++
		case models.MethodSMS:
			a.RequestsByMethod.SMS++
		case models.MethodBoth:
			a.RequestsByMethod.Both++
		}
	}
	if a.TotalRequests > 0 {
		a.ResponseRate = float64(a.CompletedRequests) / float64(a.TotalRequests) * 100
	}
	return a
}

// ComputeFeedbackAnalytics returns the count, mean rating and 1..5 histogram of feedback.
func ComputeFeedbackAnalytics(feedback []*models.Feedback) models.FeedbackAnalytics {
	a := models.FeedbackAnalytics{
		Total:              len(feedback),
		RatingDistribution: map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 0},
	}
	sum := 0
	for _, f := range feedback {
		sum += f.Rating
		if _, ok := a.RatingDistribution[f.Rating]; ok {
			a.RatingDistribution[f.Rating]++
		}
	}
	if a.Total > 0 {
		a.AverageRating = float64(sum) / float64(a.Total)
	}
	return a
}
