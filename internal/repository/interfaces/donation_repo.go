package interfaces

import "charity-donation-backend/internal/model"

type DonationRepository interface {
	ListByCampaign(owner string, campaignID int64) ([]*model.DonationRecord, error)
	ListByDonor(donor string) ([]*model.DonationRecord, error)
	ListWithdrawalsByOwner(owner string) ([]*model.WithdrawalRecord, error)
	Count() (int, error)
}
