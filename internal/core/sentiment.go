package core

import "revuverse-backend-go/internal/models"

// SentimentForRating derives the sentiment stored with every feedback write.
func SentimentForRating(rating int) string {
	switch {
	case rating >= 4:
		return models.SentimentPositive
	case rating == 3:
		return models.SentimentNeutral
	default:
		return models.SentimentNegative
	}
}
