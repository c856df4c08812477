package model

// SystemStats 系统统计数据
type SystemStats struct {
	TotalAccounts   int   `json:"total_accounts"`
	TotalCampaigns  int   `json:"total_campaigns"`
	TotalDonations  int   `json:"total_donations"`
	TotalRaised     int64 `json:"total_raised"`
	ActiveCampaigns int   `json:"active_campaigns"`
}
