package dto

// ErrorResponse is the uniform error body: a domain error code plus a message
// safe to show to the caller
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
