package service

import (
	"charity-donation-backend/internal/model"
	"charity-donation-backend/internal/repository/interfaces"
	errs "charity-donation-backend/internal/service/errors"
	"charity-donation-backend/internal/util"
	"database/sql"
	"time"

	"go.uber.org/zap"
)

// FundsService 执行提款和退款。两者都要求调用方通过管理员授权检查，
// 并与账户转账在同一事务中提交
type FundsService struct {
	donationRepo interfaces.DonationRepository
	accountRepo  interfaces.AccountRepository
	adminService *AdminService
	emailService *EmailService
	db           *sql.DB
}

func NewFundsService(
	donationRepo interfaces.DonationRepository,
	accountRepo interfaces.AccountRepository,
	adminService *AdminService,
	emailService *EmailService,
	db *sql.DB,
) *FundsService {
	return &FundsService{
		donationRepo: donationRepo,
		accountRepo:  accountRepo,
		adminService: adminService,
		emailService: emailService,
		db:           db,
	}
}

// Withdraw 从已完成的活动中提款到受益人账户。
// 活动被取消不阻止提取已筹集的资金：取消只停止新的捐赠
func (s *FundsService) Withdraw(owner string, id int64, caller string, amount int64, beneficiary string) error {
	authorized, err := s.adminService.IsAuthorized(owner, caller)
	if err != nil {
		return errs.Wrap(errs.ErrDatabase, "权限检查失败", err)
	}
	if !authorized {
		return errs.New(errs.ErrUnauthorized, "Only Admins Can Perform This Action!")
	}
	if amount <= 0 {
		return errs.New(errs.ErrInvalidInput, "提款金额必须大于零")
	}

	tx, err := s.db.Begin()
	if err != nil {
		util.Logger.Error("开始事务失败", zap.Error(err))
		return errs.Wrap(errs.ErrDatabase, "开始事务失败", err)
	}
	defer tx.Rollback()

	campaign, err := lockCampaign(tx, owner, id)
	if err != nil {
		return errs.Wrap(errs.ErrDatabase, "查询活动失败", err)
	}
	if campaign == nil {
		return errs.New(errs.ErrNotFound, "Campaign Does Not Exist!")
	}
	if !campaign.IsCompleted {
		return errs.New(errs.ErrCampaignStillActive, "You Can't Withdraw Funds from an Active Campaign")
	}
	if amount > campaign.Balance {
		return errs.New(errs.ErrInsufficientBalance, "Insufficient Campaign Balance!")
	}

	_, err = tx.Exec(
		`UPDATE campaigns SET balance = balance - ? WHERE owner_address = ? AND campaign_id = ?`,
		amount, owner, id)
	if err != nil {
		return errs.Wrap(errs.ErrDatabase, "更新活动余额失败", err)
	}

	if err := creditAccountTx(tx, beneficiary, amount); err != nil {
		return err
	}

	now := time.Now()
	_, err = tx.Exec(
		`INSERT INTO withdrawals (owner_address, campaign_id, by_address, beneficiary_address, amount, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		owner, id, caller, beneficiary, amount, now)
	if err != nil {
		return errs.Wrap(errs.ErrDatabase, "写入提款记录失败", err)
	}

	err = appendEventTx(tx, owner, id, model.EventFundsWithdrawn, model.FundsWithdrawnPayload{
		Amount:      amount,
		By:          caller,
		Beneficiary: beneficiary,
		Owner:       owner,
		CampaignID:  id,
	})
	if err != nil {
		return errs.Wrap(errs.ErrDatabase, "写入活动事件失败", err)
	}

	if err := tx.Commit(); err != nil {
		return errs.Wrap(errs.ErrDatabase, "提交事务失败", err)
	}

	util.Logger.Info("提款成功",
		zap.String("owner", owner),
		zap.Int64("campaign_id", id),
		zap.String("caller", caller),
		zap.String("beneficiary", beneficiary),
		zap.Int64("amount", amount))
	return nil
}

// Refund 按插入顺序将捐赠记录中的金额逐笔退回捐赠人，然后清零活动余额。
// 任何一笔转账失败则整个退款回滚，不存在部分退款的中间状态。
// raisedAmount 保留不动，捐赠日志作为审计历史不被清除
func (s *FundsService) Refund(owner string, id int64, caller string) error {
	authorized, err := s.adminService.IsAuthorized(owner, caller)
	if err != nil {
		return errs.Wrap(errs.ErrDatabase, "权限检查失败", err)
	}
	if !authorized {
		return errs.New(errs.ErrUnauthorized, "Only Admins Can Perform This Action!")
	}

	tx, err := s.db.Begin()
	if err != nil {
		util.Logger.Error("开始事务失败", zap.Error(err))
		return errs.Wrap(errs.ErrDatabase, "开始事务失败", err)
	}
	defer tx.Rollback()

	campaign, err := lockCampaign(tx, owner, id)
	if err != nil {
		return errs.Wrap(errs.ErrDatabase, "查询活动失败", err)
	}
	if campaign == nil {
		return errs.New(errs.ErrNotFound, "Campaign Does Not Exist!")
	}

	donations, err := listDonationsTx(tx, owner, id)
	if err != nil {
		return errs.Wrap(errs.ErrDatabase, "查询捐赠记录失败", err)
	}

	// 活动余额必须足以覆盖全部捐赠记录，否则拒绝退款，
	// 保证余额不会被扣成负数（比如已经发生过提款或退款）
	var total int64
	for _, d := range donations {
		total += d.Amount
	}
	if total > campaign.Balance {
		return errs.New(errs.ErrInsufficientBalance, "Insufficient Campaign Balance!")
	}

	for _, d := range donations {
		if err := creditAccountTx(tx, d.Donor, d.Amount); err != nil {
			return err
		}
		err = appendEventTx(tx, owner, id, model.EventDonorsRefunded, model.DonorsRefundedPayload{
			Owner:      owner,
			CampaignID: id,
			Donor:      d.Donor,
			Amount:     d.Amount,
		})
		if err != nil {
			return errs.Wrap(errs.ErrDatabase, "写入活动事件失败", err)
		}
	}

	_, err = tx.Exec(
		`UPDATE campaigns SET balance = 0 WHERE owner_address = ? AND campaign_id = ?`,
		owner, id)
	if err != nil {
		return errs.Wrap(errs.ErrDatabase, "清零活动余额失败", err)
	}

	if err := tx.Commit(); err != nil {
		return errs.Wrap(errs.ErrDatabase, "提交事务失败", err)
	}

	util.Logger.Info("退款完成",
		zap.String("owner", owner),
		zap.Int64("campaign_id", id),
		zap.String("caller", caller),
		zap.Int("donor_count", len(donations)),
		zap.Int64("total_amount", total))

	s.notifyDonorsRefunded(campaign, donations)
	return nil
}

// ViewWithdrawals 返回发起人名下的提款历史和管理员列表
func (s *FundsService) ViewWithdrawals(owner string) ([]*model.WithdrawalRecord, []string, error) {
	withdrawals, err := s.donationRepo.ListWithdrawalsByOwner(owner)
	if err != nil {
		return nil, nil, errs.Wrap(errs.ErrDatabase, "查询提款记录失败", err)
	}

	admins, err := s.adminService.ListAdmins(owner)
	if err != nil {
		return nil, nil, err
	}
	return withdrawals, admins, nil
}

func (s *FundsService) notifyDonorsRefunded(campaign *model.Campaign, donations []*model.DonationRecord) {
	for _, d := range donations {
		account, err := s.accountRepo.FindByAddress(d.Donor)
		if err != nil || account == nil {
			continue
		}
		s.emailService.SendRefundEmail(account.Email, campaign.Title, d.Amount)
	}
}

// listDonationsTx 在事务内按插入顺序读取活动的捐赠记录
func listDonationsTx(tx *sql.Tx, owner string, campaignID int64) ([]*model.DonationRecord, error) {
	rows, err := tx.Query(
		`SELECT id, owner_address, campaign_id, donor_address, amount, created_at
		 FROM donations WHERE owner_address = ? AND campaign_id = ? ORDER BY id ASC`,
		owner, campaignID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	donations := []*model.DonationRecord{}
	for rows.Next() {
		d := &model.DonationRecord{}
		err := rows.Scan(&d.ID, &d.Owner, &d.CampaignID, &d.Donor, &d.Amount, &d.CreatedAt)
		if err != nil {
			return nil, err
		}
		donations = append(donations, d)
	}
	return donations, rows.Err()
}
