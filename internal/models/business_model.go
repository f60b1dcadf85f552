package models

import "time"

// Business categories.
const (
	CategoryRestaurant  = "restaurant"
	CategorySalon       = "salon"
	CategoryRetail      = "retail"
	CategoryService     = "service"
	CategoryHealthcare  = "healthcare"
	CategoryFitness     = "fitness"
	CategoryEducation   = "education"
	CategoryHospitality = "hospitality"
	CategoryOther       = "other"
)

// Address is the postal address of a business.
type Address struct {
	Street  string `json:"street,omitempty" bson:"street,omitempty" firestore:"street,omitempty"`
	City    string `json:"city,omitempty" bson:"city,omitempty" firestore:"city,omitempty"`
	State   string `json:"state,omitempty" bson:"state,omitempty" firestore:"state,omitempty"`
	ZipCode string `json:"zipCode,omitempty" bson:"zipCode,omitempty" firestore:"zipCode,omitempty"`
	Country string `json:"country,omitempty" bson:"country,omitempty" firestore:"country,omitempty"`
}

// ContactInfo holds public contact channels.
type ContactInfo struct {
	Phone   string `json:"phone,omitempty" bson:"phone,omitempty" firestore:"phone,omitempty"`
	Email   string `json:"email,omitempty" bson:"email,omitempty" firestore:"email,omitempty" validate:"omitempty,email"`
	Website string `json:"website,omitempty" bson:"website,omitempty" firestore:"website,omitempty" validate:"omitempty,url"`
}

// GoogleProfile links a business to a Google place.
type GoogleProfile struct {
	PlaceID string `json:"placeId,omitempty" bson:"placeId,omitempty" firestore:"placeId,omitempty"`
	URL     string `json:"url,omitempty" bson:"url,omitempty" firestore:"url,omitempty"`
}

// FacebookProfile links a business to a Facebook page.
type FacebookProfile struct {
	PageID string `json:"pageId,omitempty" bson:"pageId,omitempty" firestore:"pageId,omitempty"`
	URL    string `json:"url,omitempty" bson:"url,omitempty" firestore:"url,omitempty"`
}

// ListingProfile links a business to a listing on a review site.
type ListingProfile struct {
	BusinessID string `json:"businessId,omitempty" bson:"businessId,omitempty" firestore:"businessId,omitempty"`
	URL        string `json:"url,omitempty" bson:"url,omitempty" firestore:"url,omitempty"`
}

// SocialProfiles groups the review platform references of a business.
type SocialProfiles struct {
	Google      GoogleProfile   `json:"google" bson:"google" firestore:"google"`
	Facebook    FacebookProfile `json:"facebook" bson:"facebook" firestore:"facebook"`
	Yelp        ListingProfile  `json:"yelp" bson:"yelp" firestore:"yelp"`
	TripAdvisor ListingProfile  `json:"tripadvisor" bson:"tripadvisor" firestore:"tripadvisor"`
	Trustpilot  ListingProfile  `json:"trustpilot" bson:"trustpilot" firestore:"trustpilot"`
}

// Business is a local business owned by exactly one user.
type Business struct {
	ID             string         `json:"id" bson:"_id" firestore:"-"`
	UserID         string         `json:"user" bson:"user" firestore:"user"`
	Name           string         `json:"name" bson:"name" firestore:"name"`
	Description    string         `json:"description,omitempty" bson:"description,omitempty" firestore:"description,omitempty"`
	Category       string         `json:"category" bson:"category" firestore:"category"`
	Address        Address        `json:"address" bson:"address" firestore:"address"`
	ContactInfo    ContactInfo    `json:"contactInfo" bson:"contactInfo" firestore:"contactInfo"`
	SocialProfiles SocialProfiles `json:"socialProfiles" bson:"socialProfiles" firestore:"socialProfiles"`
	Logo           string         `json:"logo,omitempty" bson:"logo,omitempty" firestore:"logo,omitempty"`
	CoverImage     string         `json:"coverImage,omitempty" bson:"coverImage,omitempty" firestore:"coverImage,omitempty"`
	Active         bool           `json:"active" bson:"active" firestore:"active"`
	CreatedAt      time.Time      `json:"createdAt" bson:"createdAt" firestore:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt" bson:"updatedAt" firestore:"updatedAt"`
}

// OwnedBy reports whether the caller may read or mutate the business.
func (b *Business) OwnedBy(caller Caller) bool {
	return b.UserID == caller.UserID || caller.IsAdmin()
}
