package mysql

import (
	"charity-donation-backend/internal/model"
	"charity-donation-backend/internal/util"
	"database/sql"

	"go.uber.org/zap"
)

type DonationRepository struct {
	db *sql.DB
}

func NewDonationRepository(db *sql.DB) *DonationRepository {
	return &DonationRepository{db}
}

func (r *DonationRepository) queryDonations(query string, args ...interface{}) ([]*model.DonationRecord, error) {
	rows, err := r.db.Query(query, args...)
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

// ListByCampaign 按插入顺序返回活动的捐赠记录
func (r *DonationRepository) ListByCampaign(owner string, campaignID int64) ([]*model.DonationRecord, error) {
	donations, err := r.queryDonations(
		`SELECT id, owner_address, campaign_id, donor_address, amount, created_at
		 FROM donations WHERE owner_address = ? AND campaign_id = ? ORDER BY id ASC`,
		owner, campaignID)
	if err != nil {
		util.Logger.Error("查询活动捐赠记录失败",
			zap.Error(err),
			zap.String("owner", owner),
			zap.Int64("campaign_id", campaignID))
		return nil, err
	}
	return donations, nil
}

// ListByDonor 按插入顺序返回捐赠人在所有活动中的捐赠记录
func (r *DonationRepository) ListByDonor(donor string) ([]*model.DonationRecord, error) {
	donations, err := r.queryDonations(
		`SELECT id, owner_address, campaign_id, donor_address, amount, created_at
		 FROM donations WHERE donor_address = ? ORDER BY id ASC`,
		donor)
	if err != nil {
		util.Logger.Error("查询捐赠人记录失败",
			zap.Error(err),
			zap.String("donor", donor))
		return nil, err
	}
	return donations, nil
}

func (r *DonationRepository) ListWithdrawalsByOwner(owner string) ([]*model.WithdrawalRecord, error) {
	rows, err := r.db.Query(
		`SELECT id, owner_address, campaign_id, by_address, beneficiary_address, amount, created_at
		 FROM withdrawals WHERE owner_address = ? ORDER BY id ASC`,
		owner)
	if err != nil {
		util.Logger.Error("查询提款记录失败", zap.Error(err), zap.String("owner", owner))
		return nil, err
	}
	defer rows.Close()

	withdrawals := []*model.WithdrawalRecord{}
	for rows.Next() {
		w := &model.WithdrawalRecord{}
		err := rows.Scan(&w.ID, &w.Owner, &w.CampaignID, &w.By, &w.Beneficiary, &w.Amount, &w.CreatedAt)
		if err != nil {
			return nil, err
		}
		withdrawals = append(withdrawals, w)
	}
	return withdrawals, rows.Err()
}

func (r *DonationRepository) Count() (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM donations`).Scan(&count)
	return count, err
}
