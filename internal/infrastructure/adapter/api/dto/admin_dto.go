package dto

// StatsResponse represents the API response for platform-wide totals
type StatsResponse struct {
	UserCount        int64  `json:"userCount"`
	TotalDailyProfit string `json:"totalDailyProfit"`
	TotalBonus       string `json:"totalBonus"`
	TotalCommission  string `json:"totalCommission"`
	TotalPaidOut     string `json:"totalPaidOut"`
}
