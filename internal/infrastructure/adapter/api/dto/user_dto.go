package dto

// UserResponse represents a user account in API responses
type UserResponse struct {
	ID            uint64 `json:"id"`
	Email         string `json:"email"`
	Username      string `json:"username"`
	RefCode       string `json:"refCode"`
	Balance       string `json:"balance"`
	BonusEarned   string `json:"bonusEarned"`
	DailyProfit   string `json:"dailyProfit"`
	Level         int    `json:"level"`
	Rank          string `json:"rank"`
	ReferralCount int    `json:"referralCount"`
	DailyEligible bool   `json:"dailyEligible"`
	CreatedAt     string `json:"createdAt"`
}

// ReferralEventResponse represents one earnings event in API responses
type ReferralEventResponse struct {
	ID         uint64  `json:"id"`
	FromUserID *uint64 `json:"fromUserId,omitempty"`
	Depth      int     `json:"depth"`
	Amount     string  `json:"amount"`
	Status     string  `json:"status"`
	Reason     string  `json:"reason"`
	CreatedAt  string  `json:"createdAt"`
}

// ProfileResponse represents the API response for the account view
type ProfileResponse struct {
	User        UserResponse            `json:"user"`
	Events      []ReferralEventResponse `json:"events"`
	TotalProfit string                  `json:"totalProfit"`
}

// NetworkNodeResponse represents one direct referral and their directs
type NetworkNodeResponse struct {
	User     UserResponse   `json:"user"`
	Children []UserResponse `json:"children"`
}

// ReferralLinkResponse represents the API response for a referral link
type ReferralLinkResponse struct {
	RefCode string `json:"refCode"`
	Link    string `json:"link"`
}

// DailyProfitResponse represents the API response for a daily profit claim
type DailyProfitResponse struct {
	DailyProfit string `json:"dailyProfit"`
}
