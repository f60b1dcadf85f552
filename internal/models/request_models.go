package models

// BusinessInput is the full document accepted by create and update.
type BusinessInput struct {
	Name           string         `json:"name" validate:"required"`
	Description    string         `json:"description"`
	Category       string         `json:"category" validate:"required,oneof=restaurant salon retail service healthcare fitness education hospitality other"`
	Address        Address        `json:"address"`
	ContactInfo    ContactInfo    `json:"contactInfo"`
	SocialProfiles SocialProfiles `json:"socialProfiles"`
	Logo           string         `json:"logo"`
	CoverImage     string         `json:"coverImage"`
	Active         *bool          `json:"active"`
}

// CreateReviewRequestRequest is the body of POST /review-request.
type CreateReviewRequestRequest struct {
	BusinessID    string `json:"businessId" validate:"required"`
	CustomerName  string `json:"customerName" validate:"required"`
	CustomerEmail string `json:"customerEmail" validate:"omitempty,customeremail"`
	CustomerPhone string `json:"customerPhone"`
	RequestMethod string `json:"requestMethod" validate:"required,oneof=email sms both"`
	Message       string `json:"message"`
}

// UpdateReviewRequestRequest is the body of PUT /review-request/:id. Nil fields are left unchanged.
type UpdateReviewRequestRequest struct {
	CustomerName  *string `json:"customerName" validate:"omitempty,min=1"`
	CustomerEmail *string `json:"customerEmail" validate:"omitempty,customeremail"`
	CustomerPhone *string `json:"customerPhone"`
	RequestMethod *string `json:"requestMethod" validate:"omitempty,oneof=email sms both"`
	Message       *string `json:"message"`
	Status        *string `json:"status" validate:"omitempty,oneof=pending sent clicked completed failed"`
}

// SubmitFeedbackRequest is the public feedback form body. Comment and Content are aliases.
type SubmitFeedbackRequest struct {
	Rating        int    `json:"rating" validate:"required,min=1,max=5"`
	Comment       string `json:"comment"`
	Content       string `json:"content"`
	CustomerName  string `json:"customerName" validate:"required"`
	CustomerEmail string `json:"customerEmail" validate:"required,customeremail"`
	CustomerPhone string `json:"customerPhone"`
	IsPublic      bool   `json:"isPublic"`
	Platform      string `json:"platform" validate:"omitempty,oneof=google facebook yelp tripadvisor trustpilot internal other"`
}

// Text returns the comment, falling back to the content alias.
func (r SubmitFeedbackRequest) Text() string {
	if r.Comment != "" {
		return r.Comment
	}
	return r.Content
}

// UpdateFeedbackStatusRequest is the body of PUT /feedback/:id.
type UpdateFeedbackStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=new in_progress resolved ignored"`
}

// RespondFeedbackRequest is the body of POST /feedback/:id/respond.
type RespondFeedbackRequest struct {
	Response string `json:"response" validate:"required"`
}

// ChangePlanRequest is the body of PUT /subscription and POST /subscription/checkout.
type ChangePlanRequest struct {
	Plan string `json:"plan"`
}

// SendSMSRequest is the body of POST /sms/send.
type SendSMSRequest struct {
	To      string `json:"to"`
	Message string `json:"message"`
}

// PhoneVerificationRequest is the body of the phone verification endpoints.
type PhoneVerificationRequest struct {
	PhoneNumber string `json:"phoneNumber"`
	Code        string `json:"code"`
}

// InitializeUserRequest carries optional profile fields for POST /users/initialize.
type InitializeUserRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}
