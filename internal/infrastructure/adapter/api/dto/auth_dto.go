package dto

// SignupRequest represents the API request for creating an account
type SignupRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Username string `json:"username" binding:"required,min=3,max=32"`
	RefCode  string `json:"refCode"`
}

// SignupResponse represents the API response for a created account
type SignupResponse struct {
	User  UserResponse `json:"user"`
	Token string       `json:"token"`
}
