package service

import (
	"charity-donation-backend/internal/common"
	"charity-donation-backend/internal/model"
	"charity-donation-backend/internal/repository/interfaces"
	errs "charity-donation-backend/internal/service/errors"
	"charity-donation-backend/internal/util"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// AdminService 维护每个发起人名下的管理员集合。
// 发起人本身始终有权限，不会被写入集合，也无法被移除
type AdminService struct {
	adminRepo    interfaces.AdminRepository
	campaignRepo interfaces.CampaignRepository
	accountRepo  interfaces.AccountRepository
	emailService *EmailService

	// 已通知过的过期活动，避免每轮检查重复发信
	notifiedMu sync.Mutex
	notified   map[string]bool
}

func NewAdminService(
	adminRepo interfaces.AdminRepository,
	campaignRepo interfaces.CampaignRepository,
	accountRepo interfaces.AccountRepository,
	emailService *EmailService,
) *AdminService {
	return &AdminService{
		adminRepo:    adminRepo,
		campaignRepo: campaignRepo,
		accountRepo:  accountRepo,
		emailService: emailService,
		notified:     make(map[string]bool),
	}
}

// AddAdmin 将候选账户加入发起人的管理员集合
func (s *AdminService) AddAdmin(owner, candidate string) error {
	exists, err := s.adminRepo.IsAdmin(owner, candidate)
	if err != nil {
		return errs.Wrap(errs.ErrDatabase, "查询管理员失败", err)
	}
	if exists {
		return errs.New(errs.ErrAlreadyAdmin, "This Address Is Already An Admin!")
	}

	if err := s.adminRepo.Add(owner, candidate); err != nil {
		return errs.Wrap(errs.ErrDatabase, "添加管理员失败", err)
	}
	return nil
}

// RemoveAdmin 将账户移出管理员集合，立即生效：
// 此后该账户的任何管理操作都会被拒绝
func (s *AdminService) RemoveAdmin(owner, candidate string) error {
	removed, err := s.adminRepo.Remove(owner, candidate)
	if err != nil {
		return errs.Wrap(errs.ErrDatabase, "移除管理员失败", err)
	}
	if !removed {
		return errs.New(errs.ErrNotAdmin, "This Address Is Not An Admin!")
	}
	return nil
}

// IsAuthorized 权限检查：发起人本身或其管理员集合中的账户
func (s *AdminService) IsAuthorized(owner, account string) (bool, error) {
	if account == owner {
		return true, nil
	}
	return s.adminRepo.IsAdmin(owner, account)
}

func (s *AdminService) ListAdmins(owner string) ([]string, error) {
	admins, err := s.adminRepo.List(owner)
	if err != nil {
		return nil, errs.Wrap(errs.ErrDatabase, "查询管理员列表失败", err)
	}
	return admins, nil
}

// CheckExpiredCampaigns 检查已过截止时间但未完成的活动并通知发起人。
// 只做观察与通知，捐赠路径上的截止检查始终以 deadline 字段为准
func (s *AdminService) CheckExpiredCampaigns() error {
	var campaigns []*model.Campaign
	err := common.WithRetry(func() error {
		var listErr error
		campaigns, listErr = s.campaignRepo.FindExpiredActive()
		return listErr
	}, 3)
	if err != nil {
		return err
	}

	for _, campaign := range campaigns {
		key := fmt.Sprintf("%s/%d", campaign.Owner, campaign.ID)
		s.notifiedMu.Lock()
		seen := s.notified[key]
		s.notified[key] = true
		s.notifiedMu.Unlock()
		if seen {
			continue
		}

		util.Logger.Info("活动已过截止时间且未达标",
			zap.String("owner", campaign.Owner),
			zap.Int64("campaign_id", campaign.ID),
			zap.String("title", campaign.Title),
			zap.Int64("raised_amount", campaign.RaisedAmount),
			zap.Int64("target_amount", campaign.TargetAmount))

		account, err := s.accountRepo.FindByAddress(campaign.Owner)
		if err != nil || account == nil {
			continue
		}
		s.emailService.SendCampaignExpiredEmail(account.Email, campaign.Title, campaign.Deadline)
	}

	return nil
}
