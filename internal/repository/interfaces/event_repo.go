package interfaces

import "charity-donation-backend/internal/model"

// EventRepository 只负责读取事件日志；
// 事件的写入与状态变更同事务，在服务层完成
type EventRepository interface {
	ListByCampaign(owner string, campaignID int64) ([]*model.CampaignEvent, error)
}
