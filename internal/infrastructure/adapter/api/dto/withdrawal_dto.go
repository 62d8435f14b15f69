package dto

// WithdrawalRequest represents the API request for a withdrawal
type WithdrawalRequest struct {
	Amount  string `json:"amount" binding:"required"`
	Address string `json:"address" binding:"required"`
}

// WithdrawalResponse represents a withdrawal in API responses
type WithdrawalResponse struct {
	ID          uint64 `json:"id"`
	UserID      uint64 `json:"userId"`
	Amount      string `json:"amount"`
	Address     string `json:"address"`
	Status      string `json:"status"`
	Note        string `json:"note,omitempty"`
	PayoutID    string `json:"payoutId,omitempty"`
	RequestedAt string `json:"requestedAt"`
	ProcessedAt string `json:"processedAt,omitempty"`
}

// WithdrawalRejectRequest carries the optional rejection reason
type WithdrawalRejectRequest struct {
	Reason string `json:"reason"`
}

// AvailableResponse represents the withdrawable earnings of a user
type AvailableResponse struct {
	Available string `json:"available"`
}
