package service

import (
	"charity-donation-backend/internal/model"
	"charity-donation-backend/internal/repository/interfaces"
	errs "charity-donation-backend/internal/service/errors"
)

// StatsService 汇总系统级统计数据
type StatsService struct {
	accountRepo  interfaces.AccountRepository
	campaignRepo interfaces.CampaignRepository
	donationRepo interfaces.DonationRepository
}

func NewStatsService(
	accountRepo interfaces.AccountRepository,
	campaignRepo interfaces.CampaignRepository,
	donationRepo interfaces.DonationRepository,
) *StatsService {
	return &StatsService{
		accountRepo:  accountRepo,
		campaignRepo: campaignRepo,
		donationRepo: donationRepo,
	}
}

func (s *StatsService) GetSystemStats() (*model.SystemStats, error) {
	accounts, err := s.accountRepo.Count()
	if err != nil {
		return nil, errs.Wrap(errs.ErrDatabase, "统计账户数量失败", err)
	}

	campaigns, err := s.campaignRepo.Count()
	if err != nil {
		return nil, errs.Wrap(errs.ErrDatabase, "统计活动数量失败", err)
	}

	active, err := s.campaignRepo.CountActive()
	if err != nil {
		return nil, errs.Wrap(errs.ErrDatabase, "统计进行中活动失败", err)
	}

	donations, err := s.donationRepo.Count()
	if err != nil {
		return nil, errs.Wrap(errs.ErrDatabase, "统计捐赠数量失败", err)
	}

	raised, err := s.campaignRepo.TotalRaised()
	if err != nil {
		return nil, errs.Wrap(errs.ErrDatabase, "统计筹集总额失败", err)
	}

	return &model.SystemStats{
		TotalAccounts:   accounts,
		TotalCampaigns:  campaigns,
		TotalDonations:  donations,
		TotalRaised:     raised,
		ActiveCampaigns: active,
	}, nil
}
