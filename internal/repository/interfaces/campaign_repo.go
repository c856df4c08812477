package interfaces

import "charity-donation-backend/internal/model"

type CampaignRepository interface {
	FindByOwnerAndID(owner string, id int64) (*model.Campaign, error)
	FindByOwner(owner string) ([]*model.Campaign, error)
	TitleExists(owner, title string) (bool, error)
	MarkCancelled(owner string, id int64) (bool, error)
	FindExpiredActive() ([]*model.Campaign, error)
	Count() (int, error)
	CountActive() (int, error)
	TotalRaised() (int64, error)
}
