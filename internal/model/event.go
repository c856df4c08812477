package model

import "time"

// 活动事件类型，供外部索引器消费
const (
	EventCampaignCreated  = "campaign_created"
	EventDonationReceived = "donation_received"
	EventFundsWithdrawn   = "funds_withdrawn"
	EventDonorsRefunded   = "donors_refunded"
)

// CampaignEvent 持久化的活动事件，与产生它的状态变更在同一事务中写入
type CampaignEvent struct {
	ID         int64     `json:"id"`
	Owner      string    `json:"owner"`
	CampaignID int64     `json:"campaign_id"`
	EventType  string    `json:"event_type"`
	Payload    string    `json:"payload"`
	CreatedAt  time.Time `json:"created_at"`
}

// CampaignCreatedPayload 活动创建事件内容
type CampaignCreatedPayload struct {
	ID           int64     `json:"id"`
	Owner        string    `json:"owner"`
	Title        string    `json:"title"`
	TargetAmount int64     `json:"target_amount"`
	Deadline     time.Time `json:"deadline"`
}

// DonationReceivedPayload 收到捐赠事件内容
type DonationReceivedPayload struct {
	Donor      string `json:"donor"`
	Amount     int64  `json:"amount"`
	Owner      string `json:"owner"`
	CampaignID int64  `json:"campaign_id"`
}

// FundsWithdrawnPayload 提款事件内容
type FundsWithdrawnPayload struct {
	Amount      int64  `json:"amount"`
	By          string `json:"by"`
	Beneficiary string `json:"beneficiary"`
	Owner       string `json:"owner"`
	CampaignID  int64  `json:"campaign_id"`
}

// DonorsRefundedPayload 退款事件内容，每处理一个捐赠人产生一条
type DonorsRefundedPayload struct {
	Owner      string `json:"owner"`
	CampaignID int64  `json:"campaign_id"`
	Donor      string `json:"donor"`
	Amount     int64  `json:"amount"`
}
