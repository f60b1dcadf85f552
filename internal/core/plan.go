package core

import "revuverse-backend-go/internal/models"

// freeReviewRequestsLimit is the monthly per-business review request allowance on the free plan.
const freeReviewRequestsLimit = 50

// FeaturesForPlan is the single source of the plan to feature mapping. Unknown plans get
// the free features.
func FeaturesForPlan(plan string) models.Features {
	if plan == models.PlanPremium {
		return models.Features{
			ReviewRequestsLimit: models.UnlimitedReviewRequests,
			APIIntegrations:     true,
			AdvancedAnalytics:   true,
			MultipleBusinesses:  true,
		}
	}
	return models.Features{ReviewRequestsLimit: freeReviewRequestsLimit}
}

// IsValidPlan reports whether plan names a known plan.
func IsValidPlan(plan string) bool {
	return plan == models.PlanFree || plan == models.PlanPremium
}
