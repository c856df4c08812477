package service

import (
	"charity-donation-backend/internal/model"
	"charity-donation-backend/internal/repository/interfaces"
	errs "charity-donation-backend/internal/service/errors"
	"charity-donation-backend/internal/storage"
	"charity-donation-backend/internal/util"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// AuditSnapshot 活动的完整审计快照：活动状态、捐赠日志、提款历史和事件日志
type AuditSnapshot struct {
	Campaign    *model.Campaign           `json:"campaign"`
	Donations   []*model.DonationRecord   `json:"donations"`
	Withdrawals []*model.WithdrawalRecord `json:"withdrawals"`
	Events      []*model.CampaignEvent    `json:"events"`
	ExportedAt  time.Time                 `json:"exported_at"`
	ExportedBy  string                    `json:"exported_by"`
}

// AuditService 将活动审计快照导出到可插拔的存储后端
type AuditService struct {
	campaignRepo interfaces.CampaignRepository
	donationRepo interfaces.DonationRepository
	eventRepo    interfaces.EventRepository
	adminService *AdminService
	storage      storage.Storage
}

func NewAuditService(
	campaignRepo interfaces.CampaignRepository,
	donationRepo interfaces.DonationRepository,
	eventRepo interfaces.EventRepository,
	adminService *AdminService,
	store storage.Storage,
) *AuditService {
	return &AuditService{
		campaignRepo: campaignRepo,
		donationRepo: donationRepo,
		eventRepo:    eventRepo,
		adminService: adminService,
		storage:      store,
	}
}

// ExportCampaign 导出活动审计快照，仅发起人或其管理员可操作
func (s *AuditService) ExportCampaign(owner string, id int64, caller string) (string, error) {
	authorized, err := s.adminService.IsAuthorized(owner, caller)
	if err != nil {
		return "", errs.Wrap(errs.ErrDatabase, "权限检查失败", err)
	}
	if !authorized {
		return "", errs.New(errs.ErrUnauthorized, "Only Admins Can Perform This Action!")
	}

	campaign, err := s.campaignRepo.FindByOwnerAndID(owner, id)
	if err != nil {
		return "", errs.Wrap(errs.ErrDatabase, "查询活动失败", err)
	}
	if campaign == nil {
		return "", errs.New(errs.ErrNotFound, "Campaign Does Not Exist!")
	}

	donations, err := s.donationRepo.ListByCampaign(owner, id)
	if err != nil {
		return "", errs.Wrap(errs.ErrDatabase, "查询捐赠记录失败", err)
	}

	withdrawals, err := s.donationRepo.ListWithdrawalsByOwner(owner)
	if err != nil {
		return "", errs.Wrap(errs.ErrDatabase, "查询提款记录失败", err)
	}
	// 提款历史按发起人存储，这里只保留当前活动的部分
	filtered := []*model.WithdrawalRecord{}
	for _, w := range withdrawals {
		if w.CampaignID == id {
			filtered = append(filtered, w)
		}
	}

	events, err := s.eventRepo.ListByCampaign(owner, id)
	if err != nil {
		return "", errs.Wrap(errs.ErrDatabase, "查询活动事件失败", err)
	}

	snapshot := &AuditSnapshot{
		Campaign:    campaign,
		Donations:   donations,
		Withdrawals: filtered,
		Events:      events,
		ExportedAt:  time.Now(),
		ExportedBy:  caller,
	}

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return "", errs.Wrap(errs.ErrInternal, "序列化审计快照失败", err)
	}

	path := fmt.Sprintf("%s/campaign-%d-%d.json", owner, id, snapshot.ExportedAt.Unix())
	location, err := s.storage.Save(path, data, "application/json")
	if err != nil {
		return "", errs.Wrap(errs.ErrInternal, "保存审计快照失败", err)
	}

	util.Logger.Info("审计快照导出成功",
		zap.String("owner", owner),
		zap.Int64("campaign_id", id),
		zap.String("caller", caller),
		zap.String("location", location))
	return location, nil
}
