package api

// Response is the envelope of every successful response.
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
	Count   *int        `json:"count,omitempty"`
}

// ErrorResponse is the envelope of every failed response. Error carries diagnostic detail
// outside production only.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

func dataResponse(data interface{}) Response {
	return Response{Success: true, Data: data}
}

func messageResponse(message string) Response {
	return Response{Success: true, Message: message}
}

func listResponse[T any](items []T) Response {
	if items == nil {
		items = []T{}
	}
	n := len(items)
	return Response{Success: true, Data: items, Count: &n}
}

// SMSConfigResponse is returned by GET /sms/test-config.
type SMSConfigResponse struct {
	Success       bool   `json:"success"`
	Message       string `json:"message"`
	AccountName   string `json:"accountName"`
	AccountStatus string `json:"accountStatus"`
}

// WebhookAck acknowledges a billing webhook.
type WebhookAck struct {
	Received bool `json:"received"`
}
