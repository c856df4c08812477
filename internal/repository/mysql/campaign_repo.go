package mysql

import (
	"charity-donation-backend/internal/model"
	"charity-donation-backend/internal/util"
	"database/sql"

	"go.uber.org/zap"
)

type CampaignRepository struct {
	db *sql.DB
}

func NewCampaignRepository(db *sql.DB) *CampaignRepository {
	return &CampaignRepository{db}
}

const campaignColumns = `owner_address, campaign_id, title, description, target_amount,
	raised_amount, balance, deadline, is_completed, is_cancelled, created_at`

func scanCampaign(row interface {
	Scan(dest ...interface{}) error
}) (*model.Campaign, error) {
	c := &model.Campaign{}
	err := row.Scan(
		&c.Owner,
		&c.ID,
		&c.Title,
		&c.Description,
		&c.TargetAmount,
		&c.RaisedAmount,
		&c.Balance,
		&c.Deadline,
		&c.IsCompleted,
		&c.IsCancelled,
		&c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *CampaignRepository) FindByOwnerAndID(owner string, id int64) (*model.Campaign, error) {
	query := `SELECT ` + campaignColumns + ` FROM campaigns
			  WHERE owner_address = ? AND campaign_id = ?`

	campaign, err := scanCampaign(r.db.QueryRow(query, owner, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		util.Logger.Error("查询活动失败",
			zap.Error(err),
			zap.String("owner", owner),
			zap.Int64("campaign_id", id))
		return nil, err
	}
	return campaign, nil
}

// FindByOwner 按创建顺序返回发起人名下的全部活动
func (r *CampaignRepository) FindByOwner(owner string) ([]*model.Campaign, error) {
	query := `SELECT ` + campaignColumns + ` FROM campaigns
			  WHERE owner_address = ? ORDER BY campaign_id ASC`

	rows, err := r.db.Query(query, owner)
	if err != nil {
		util.Logger.Error("查询活动列表失败", zap.Error(err), zap.String("owner", owner))
		return nil, err
	}
	defer rows.Close()

	var campaigns []*model.Campaign
	for rows.Next() {
		campaign, err := scanCampaign(rows)
		if err != nil {
			return nil, err
		}
		campaigns = append(campaigns, campaign)
	}
	return campaigns, rows.Err()
}

func (r *CampaignRepository) TitleExists(owner, title string) (bool, error) {
	var count int
	err := r.db.QueryRow(
		`SELECT COUNT(*) FROM campaigns WHERE owner_address = ? AND title = ?`,
		owner, title).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// MarkCancelled 条件更新：只有未取消的活动会被置为已取消。
// 返回是否确实发生了状态变更，供服务层区分并发重复取消
func (r *CampaignRepository) MarkCancelled(owner string, id int64) (bool, error) {
	result, err := r.db.Exec(
		`UPDATE campaigns SET is_cancelled = TRUE
		 WHERE owner_address = ? AND campaign_id = ? AND is_cancelled = FALSE`,
		owner, id)
	if err != nil {
		util.Logger.Error("取消活动失败",
			zap.Error(err),
			zap.String("owner", owner),
			zap.Int64("campaign_id", id))
		return false, err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	if rows == 0 {
		return false, nil
	}

	util.Logger.Info("活动已取消",
		zap.String("owner", owner),
		zap.Int64("campaign_id", id))
	return true, nil
}

// FindExpiredActive 返回已过截止时间但既未完成也未取消的活动
func (r *CampaignRepository) FindExpiredActive() ([]*model.Campaign, error) {
	query := `SELECT ` + campaignColumns + ` FROM campaigns
			  WHERE deadline < NOW() AND is_completed = FALSE AND is_cancelled = FALSE
			  ORDER BY owner_address, campaign_id`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var campaigns []*model.Campaign
	for rows.Next() {
		campaign, err := scanCampaign(rows)
		if err != nil {
			return nil, err
		}
		campaigns = append(campaigns, campaign)
	}
	return campaigns, rows.Err()
}

func (r *CampaignRepository) Count() (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM campaigns`).Scan(&count)
	return count, err
}

func (r *CampaignRepository) CountActive() (int, error) {
	var count int
	err := r.db.QueryRow(
		`SELECT COUNT(*) FROM campaigns
		 WHERE deadline >= NOW() AND is_completed = FALSE AND is_cancelled = FALSE`).Scan(&count)
	return count, err
}

func (r *CampaignRepository) TotalRaised() (int64, error) {
	var total int64
	err := r.db.QueryRow(`SELECT COALESCE(SUM(raised_amount), 0) FROM campaigns`).Scan(&total)
	return total, err
}
