package service

import (
	"charity-donation-backend/internal/model"
	"charity-donation-backend/internal/repository/interfaces"
	errs "charity-donation-backend/internal/service/errors"
	"charity-donation-backend/internal/util"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"go.uber.org/zap"
)

// CampaignService 管理活动的创建、查询、取消和捐赠受理。
// 所有变更都在单个数据库事务中执行：状态、余额和事件日志要么全部提交，
// 要么全部回滚
type CampaignService struct {
	campaignRepo interfaces.CampaignRepository
	donationRepo interfaces.DonationRepository
	eventRepo    interfaces.EventRepository
	accountRepo  interfaces.AccountRepository
	adminService *AdminService
	emailService *EmailService
	db           *sql.DB
}

func NewCampaignService(
	campaignRepo interfaces.CampaignRepository,
	donationRepo interfaces.DonationRepository,
	eventRepo interfaces.EventRepository,
	accountRepo interfaces.AccountRepository,
	adminService *AdminService,
	emailService *EmailService,
	db *sql.DB,
) *CampaignService {
	return &CampaignService{
		campaignRepo: campaignRepo,
		donationRepo: donationRepo,
		eventRepo:    eventRepo,
		accountRepo:  accountRepo,
		adminService: adminService,
		emailService: emailService,
		db:           db,
	}
}

// CreateCampaign 创建新活动。活动编号在发起人名下从 1 开始顺序分配，
// 标题在创建时不得与该发起人已有活动重复
func (s *CampaignService) CreateCampaign(owner, title, description string, targetAmount, durationDays int64) (*model.Campaign, error) {
	if targetAmount <= 0 {
		return nil, errs.New(errs.ErrInvalidInput, "目标金额必须大于零")
	}
	if durationDays <= 0 {
		return nil, errs.New(errs.ErrInvalidInput, "活动持续天数必须大于零")
	}

	exists, err := s.campaignRepo.TitleExists(owner, title)
	if err != nil {
		return nil, errs.Wrap(errs.ErrDatabase, "查询活动标题失败", err)
	}
	if exists {
		return nil, errs.Newf(errs.ErrDuplicateTitle, "Campaign %s already exists!", title)
	}

	tx, err := s.db.Begin()
	if err != nil {
		util.Logger.Error("开始事务失败", zap.Error(err))
		return nil, errs.Wrap(errs.ErrDatabase, "开始事务失败", err)
	}
	defer tx.Rollback()

	// 编号分配与插入同事务，锁住发起人名下的活动行，
	// 并发创建拿不到同一个编号
	id, err := nextCampaignIDTx(tx, owner)
	if err != nil {
		return nil, errs.Wrap(errs.ErrDatabase, "分配活动编号失败", err)
	}

	now := time.Now()
	campaign := &model.Campaign{
		ID:           id,
		Owner:        owner,
		Title:        title,
		Description:  description,
		TargetAmount: targetAmount,
		Deadline:     now.Add(time.Duration(durationDays) * 24 * time.Hour),
		CreatedAt:    now,
	}

	_, err = tx.Exec(
		`INSERT INTO campaigns (owner_address, campaign_id, title, description, target_amount,
			raised_amount, balance, deadline, is_completed, is_cancelled, created_at)
		 VALUES (?, ?, ?, ?, ?, 0, 0, ?, FALSE, FALSE, ?)`,
		campaign.Owner, campaign.ID, campaign.Title, campaign.Description,
		campaign.TargetAmount, campaign.Deadline, campaign.CreatedAt)
	if err != nil {
		// 唯一键兜底：预检查之后、提交之前的并发创建在这里被拦下
		if isDuplicateKeyErr(err, "uq_campaigns_owner_title") {
			return nil, errs.Newf(errs.ErrDuplicateTitle, "Campaign %s already exists!", title)
		}
		util.Logger.Error("创建活动失败", zap.Error(err), zap.String("owner", owner))
		return nil, errs.Wrap(errs.ErrDatabase, "创建活动失败", err)
	}

	err = appendEventTx(tx, owner, id, model.EventCampaignCreated, model.CampaignCreatedPayload{
		ID:           id,
		Owner:        owner,
		Title:        title,
		TargetAmount: targetAmount,
		Deadline:     campaign.Deadline,
	})
	if err != nil {
		return nil, errs.Wrap(errs.ErrDatabase, "写入活动事件失败", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, errs.Wrap(errs.ErrDatabase, "提交事务失败", err)
	}

	util.Logger.Info("活动创建成功",
		zap.String("owner", owner),
		zap.Int64("campaign_id", id),
		zap.String("title", title),
		zap.Int64("target_amount", targetAmount))
	return campaign, nil
}

// Donate 受理捐赠。检查顺序：活动存在 → 截止时间 → 已完成 → 已取消，
// 第一个失败的检查决定返回的错误。捐赠人扣款、活动入账、捐赠记录和事件
// 在同一事务中提交
func (s *CampaignService) Donate(owner string, id int64, donor string, amount int64) (*model.Campaign, error) {
	tx, err := s.db.Begin()
	if err != nil {
		util.Logger.Error("开始事务失败", zap.Error(err))
		return nil, errs.Wrap(errs.ErrDatabase, "开始事务失败", err)
	}
	defer tx.Rollback()

	campaign, err := lockCampaign(tx, owner, id)
	if err != nil {
		return nil, errs.Wrap(errs.ErrDatabase, "查询活动失败", err)
	}
	if campaign == nil {
		return nil, errs.New(errs.ErrNotFound, "Campaign Does Not Exist!")
	}

	now := time.Now()
	if now.After(campaign.Deadline) {
		return nil, errs.New(errs.ErrDeadlinePassed, "This Campaign's Deadline Has Passed!")
	}
	if campaign.IsCompleted {
		return nil, errs.Newf(errs.ErrAlreadyCompleted, "'%s' Campaign Has Already Been Completed!", campaign.Title)
	}
	if campaign.IsCancelled {
		return nil, errs.Newf(errs.ErrAlreadyCancelled, "'%s' Campaign Has Been Cancelled!", campaign.Title)
	}
	if amount <= 0 {
		return nil, errs.New(errs.ErrInvalidInput, "捐赠金额必须大于零")
	}

	// 从捐赠人账户扣款，与活动入账构成一次原子价值转移
	if err := debitAccountTx(tx, donor, amount); err != nil {
		return nil, err
	}

	campaign.RaisedAmount += amount
	campaign.Balance += amount
	if campaign.RaisedAmount >= campaign.TargetAmount {
		campaign.IsCompleted = true
	}

	_, err = tx.Exec(
		`UPDATE campaigns SET raised_amount = ?, balance = ?, is_completed = ?
		 WHERE owner_address = ? AND campaign_id = ?`,
		campaign.RaisedAmount, campaign.Balance, campaign.IsCompleted, owner, id)
	if err != nil {
		return nil, errs.Wrap(errs.ErrDatabase, "更新活动失败", err)
	}

	_, err = tx.Exec(
		`INSERT INTO donations (owner_address, campaign_id, donor_address, amount, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		owner, id, donor, amount, now)
	if err != nil {
		return nil, errs.Wrap(errs.ErrDatabase, "写入捐赠记录失败", err)
	}

	err = appendEventTx(tx, owner, id, model.EventDonationReceived, model.DonationReceivedPayload{
		Donor:      donor,
		Amount:     amount,
		Owner:      owner,
		CampaignID: id,
	})
	if err != nil {
		return nil, errs.Wrap(errs.ErrDatabase, "写入活动事件失败", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, errs.Wrap(errs.ErrDatabase, "提交事务失败", err)
	}

	util.Logger.Info("捐赠成功",
		zap.String("donor", donor),
		zap.String("owner", owner),
		zap.Int64("campaign_id", id),
		zap.Int64("amount", amount),
		zap.Bool("is_completed", campaign.IsCompleted))

	if campaign.IsCompleted {
		s.notifyCampaignCompleted(campaign)
	}
	return campaign, nil
}

// CancelCampaign 取消活动。取消后该活动永久拒绝新的捐赠；
// 已取消的活动不允许再次取消
func (s *CampaignService) CancelCampaign(owner string, id int64, caller string) error {
	authorized, err := s.adminService.IsAuthorized(owner, caller)
	if err != nil {
		return errs.Wrap(errs.ErrDatabase, "权限检查失败", err)
	}
	if !authorized {
		return errs.New(errs.ErrUnauthorized, "Only Admins Can Perform This Action!")
	}

	campaign, err := s.campaignRepo.FindByOwnerAndID(owner, id)
	if err != nil {
		return errs.Wrap(errs.ErrDatabase, "查询活动失败", err)
	}
	if campaign == nil {
		return errs.New(errs.ErrNotFound, "Campaign Does Not Exist!")
	}
	if campaign.IsCancelled {
		return errs.Newf(errs.ErrAlreadyCancelled, "'%s' Campaign Has Been Cancelled!", campaign.Title)
	}

	// 条件更新只命中未取消的行，并发的重复取消同样被拒绝
	marked, err := s.campaignRepo.MarkCancelled(owner, id)
	if err != nil {
		return errs.Wrap(errs.ErrDatabase, "取消活动失败", err)
	}
	if !marked {
		return errs.Newf(errs.ErrAlreadyCancelled, "'%s' Campaign Has Been Cancelled!", campaign.Title)
	}

	util.Logger.Info("活动取消成功",
		zap.String("owner", owner),
		zap.Int64("campaign_id", id),
		zap.String("caller", caller))
	return nil
}

func (s *CampaignService) GetCampaign(owner string, id int64) (*model.Campaign, error) {
	campaign, err := s.campaignRepo.FindByOwnerAndID(owner, id)
	if err != nil {
		return nil, errs.Wrap(errs.ErrDatabase, "查询活动失败", err)
	}
	if campaign == nil {
		return nil, errs.New(errs.ErrNotFound, "Campaign Does Not Exist!")
	}
	return campaign, nil
}

// ViewCampaigns 按创建顺序返回发起人名下的全部活动
func (s *CampaignService) ViewCampaigns(owner string) ([]*model.Campaign, error) {
	campaigns, err := s.campaignRepo.FindByOwner(owner)
	if err != nil {
		return nil, errs.Wrap(errs.ErrDatabase, "查询活动列表失败", err)
	}
	return campaigns, nil
}

// GetCampaignDetails 返回活动详情：活动本身、捐赠人数和按插入顺序排列的捐赠记录
func (s *CampaignService) GetCampaignDetails(owner string, id int64) (*model.CampaignDetails, error) {
	campaign, err := s.GetCampaign(owner, id)
	if err != nil {
		return nil, err
	}

	donations, err := s.donationRepo.ListByCampaign(owner, id)
	if err != nil {
		return nil, errs.Wrap(errs.ErrDatabase, "查询捐赠记录失败", err)
	}

	return &model.CampaignDetails{
		Campaign:   campaign,
		DonorCount: len(donations),
		Donations:  donations,
	}, nil
}

// ViewDonations 返回捐赠人在所有发起人、所有活动中的捐赠记录
func (s *CampaignService) ViewDonations(donor string) ([]*model.DonationRecord, error) {
	donations, err := s.donationRepo.ListByDonor(donor)
	if err != nil {
		return nil, errs.Wrap(errs.ErrDatabase, "查询捐赠记录失败", err)
	}
	return donations, nil
}

// ListEvents 返回活动的事件日志，供外部索引器消费
func (s *CampaignService) ListEvents(owner string, id int64) ([]*model.CampaignEvent, error) {
	events, err := s.eventRepo.ListByCampaign(owner, id)
	if err != nil {
		return nil, errs.Wrap(errs.ErrDatabase, "查询活动事件失败", err)
	}
	return events, nil
}

func (s *CampaignService) notifyCampaignCompleted(campaign *model.Campaign) {
	account, err := s.accountRepo.FindByAddress(campaign.Owner)
	if err != nil || account == nil {
		return
	}
	s.emailService.SendCampaignCompletedEmail(account.Email, campaign.Title, campaign.RaisedAmount)
}

// nextCampaignIDTx 在事务内加行锁分配发起人名下的下一个顺序编号，
// 编号从 1 开始且无空洞
func nextCampaignIDTx(tx *sql.Tx, owner string) (int64, error) {
	var next int64
	err := tx.QueryRow(
		`SELECT COALESCE(MAX(campaign_id), 0) + 1 FROM campaigns WHERE owner_address = ? FOR UPDATE`,
		owner).Scan(&next)
	if err != nil {
		return 0, err
	}
	return next, nil
}

// isDuplicateKeyErr 判断是否为指定唯一键上的重复键错误
func isDuplicateKeyErr(err error, key string) bool {
	if myErr, ok := err.(*mysql.MySQLError); ok {
		return myErr.Number == 1062 && strings.Contains(myErr.Message, key)
	}
	return false
}

// lockCampaign 在事务内加行锁读取活动，活动不存在时返回 nil
func lockCampaign(tx *sql.Tx, owner string, id int64) (*model.Campaign, error) {
	c := &model.Campaign{}
	err := tx.QueryRow(
		`SELECT owner_address, campaign_id, title, description, target_amount,
			raised_amount, balance, deadline, is_completed, is_cancelled, created_at
		 FROM campaigns WHERE owner_address = ? AND campaign_id = ? FOR UPDATE`,
		owner, id).Scan(
		&c.Owner, &c.ID, &c.Title, &c.Description, &c.TargetAmount,
		&c.RaisedAmount, &c.Balance, &c.Deadline, &c.IsCompleted, &c.IsCancelled, &c.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

// debitAccountTx 在事务内从账户扣款；账户不存在或余额不足都视为转账失败
func debitAccountTx(tx *sql.Tx, address string, amount int64) error {
	result, err := tx.Exec(
		`UPDATE accounts SET balance = balance - ? WHERE address = ? AND balance >= ?`,
		amount, address, amount)
	if err != nil {
		return errs.Wrap(errs.ErrDatabase, "账户扣款失败", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return errs.Wrap(errs.ErrDatabase, "账户扣款失败", err)
	}
	if rows == 0 {
		return errs.New(errs.ErrValueTransferFailed, "Value Transfer Failed!")
	}
	return nil
}

// creditAccountTx 在事务内为账户入账；账户不存在视为转账失败
func creditAccountTx(tx *sql.Tx, address string, amount int64) error {
	result, err := tx.Exec(
		`UPDATE accounts SET balance = balance + ? WHERE address = ?`,
		amount, address)
	if err != nil {
		return errs.Wrap(errs.ErrDatabase, "账户入账失败", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return errs.Wrap(errs.ErrDatabase, "账户入账失败", err)
	}
	if rows == 0 {
		return errs.New(errs.ErrValueTransferFailed, "Value Transfer Failed!")
	}
	return nil
}

// appendEventTx 在事务内写入活动事件，与状态变更一同提交
func appendEventTx(tx *sql.Tx, owner string, campaignID int64, eventType string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	_, err = tx.Exec(
		`INSERT INTO campaign_events (owner_address, campaign_id, event_type, payload, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		owner, campaignID, eventType, string(data), time.Now())
	return err
}
