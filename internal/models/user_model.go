package models

import (
	"strings"
	"time"
)

// Roles recognized by ownership checks.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents an authenticated account. The ID is the identity provider's subject
// (Firebase UID or the JWT "user_id" claim) and doubles as the document ID.
type User struct {
	ID               string    `json:"id" bson:"_id" firestore:"-"`
	Email            string    `json:"email" bson:"email" firestore:"email"`
	FirstName        string    `json:"firstName,omitempty" bson:"firstName,omitempty" firestore:"firstName,omitempty"`
	LastName         string    `json:"lastName,omitempty" bson:"lastName,omitempty" firestore:"lastName,omitempty"`
	DisplayName      string    `json:"displayName,omitempty" bson:"displayName,omitempty" firestore:"displayName,omitempty"`
	PhotoURL         string    `json:"photoURL,omitempty" bson:"photoURL,omitempty" firestore:"photoURL,omitempty"`
	Role             string    `json:"role" bson:"role" firestore:"role"`
	Subscription     string    `json:"subscription" bson:"subscription" firestore:"subscription"` // mirror of Subscription.Plan
	StripeCustomerID string    `json:"stripeCustomerId,omitempty" bson:"stripeCustomerId,omitempty" firestore:"stripeCustomerId,omitempty"`
	CreatedAt        time.Time `json:"createdAt" bson:"createdAt" firestore:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt" bson:"updatedAt" firestore:"updatedAt"`
}

// IsAdmin reports whether the user bypasses ownership checks.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// FullName is the name handed to the billing provider.
func (u *User) FullName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.DisplayName
	}
	return name
}

// Caller is the identity attached to an authenticated request.
type Caller struct {
	UserID string
	Role   string
	Plan   string
}

// IsAdmin reports whether the caller has the admin role.
func (c Caller) IsAdmin() bool {
	return c.Role == RoleAdmin
}
