package dto

// DepositVerifyRequest represents the API request for confirming a deposit
type DepositVerifyRequest struct {
	Amount string `json:"amount" binding:"required"`
}

// DepositVerifyResponse represents the API response for a confirmed deposit
type DepositVerifyResponse struct {
	TxID            string `json:"txId"`
	FromAddress     string `json:"fromAddress"`
	Amount          string `json:"amount"`
	NewBalance      string `json:"newBalance"`
	BecameEligible  bool   `json:"becameEligible"`
	AlreadyCredited bool   `json:"alreadyCredited"`
}
