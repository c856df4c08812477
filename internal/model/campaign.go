package model

import "time"

// Campaign 以 (owner_address, campaign_id) 为主键，campaign_id 在每个发起人
// 名下从 1 开始顺序分配
type Campaign struct {
	ID           int64     `json:"id"`
	Owner        string    `json:"owner"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	TargetAmount int64     `json:"target_amount"`
	RaisedAmount int64     `json:"raised_amount"`
	Balance      int64     `json:"balance"`
	Deadline     time.Time `json:"deadline"`
	IsCompleted  bool      `json:"is_completed"`
	IsCancelled  bool      `json:"is_cancelled"`
	CreatedAt    time.Time `json:"created_at"`
}

// DonationRecord 捐赠记录，追加后不可变
type DonationRecord struct {
	ID         int64     `json:"id"`
	Owner      string    `json:"owner"`
	CampaignID int64     `json:"campaign_id"`
	Donor      string    `json:"donor"`
	Amount     int64     `json:"amount"`
	CreatedAt  time.Time `json:"created_at"`
}

// WithdrawalRecord 提款记录
type WithdrawalRecord struct {
	ID          int64     `json:"id"`
	Owner       string    `json:"owner"`
	CampaignID  int64     `json:"campaign_id"`
	By          string    `json:"by"`
	Beneficiary string    `json:"beneficiary"`
	Amount      int64     `json:"amount"`
	CreatedAt   time.Time `json:"created_at"`
}

// CampaignDetails 活动详情视图：活动本身、捐赠人数和按插入顺序排列的捐赠记录
type CampaignDetails struct {
	Campaign   *Campaign         `json:"campaign"`
	DonorCount int               `json:"donor_count"`
	Donations  []*DonationRecord `json:"donations"`
}
