package dto

// ErrorResponse represents the standard error response structure.
// The body shape is part of the wire contract: clients match on "detail".
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// NewErrorResponse creates a standard error response
func NewErrorResponse(detail string) *ErrorResponse {
	return &ErrorResponse{Detail: detail}
}
