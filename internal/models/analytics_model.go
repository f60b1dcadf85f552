package models

// RequestsByMethod counts review requests per delivery method.
type RequestsByMethod struct {
	Email int `json:"email"`
	SMS   int `json:"sms"`
	Both  int `json:"both"`
}

// ReviewRequestAnalytics is the 30-day funnel of a business.
type ReviewRequestAnalytics struct {
	TotalRequests     int              `json:"totalRequests"`
	CompletedRequests int              `json:"completedRequests"`
	PendingRequests   int              `json:"pendingRequests"`
	ResponseRate      float64          `json:"responseRate"`
	RequestsByMethod  RequestsByMethod `json:"requestsByMethod"`
}

// FeedbackAnalytics summarizes the ratings of a business. RatingDistribution is keyed 1..5.
type FeedbackAnalytics struct {
	Total              int         `json:"total"`
	AverageRating      float64     `json:"averageRating"`
	RatingDistribution map[int]int `json:"ratingDistribution"`
}
