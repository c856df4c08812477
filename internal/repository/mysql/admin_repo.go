package mysql

import (
	"charity-donation-backend/internal/util"
	"database/sql"
	"time"

	"go.uber.org/zap"
)

type AdminRepository struct {
	db *sql.DB
}

func NewAdminRepository(db *sql.DB) *AdminRepository {
	return &AdminRepository{db}
}

func (r *AdminRepository) Add(owner, admin string) error {
	_, err := r.db.Exec(
		`INSERT INTO campaign_admins (owner_address, admin_address, created_at) VALUES (?, ?, ?)`,
		owner, admin, time.Now())
	if err != nil {
		util.Logger.Error("添加管理员失败",
			zap.Error(err),
			zap.String("owner", owner),
			zap.String("admin", admin))
		return err
	}

	util.Logger.Info("管理员添加成功",
		zap.String("owner", owner),
		zap.String("admin", admin))
	return nil
}

// Remove 返回是否确实删除了记录，供服务层区分"不是管理员"的情况
func (r *AdminRepository) Remove(owner, admin string) (bool, error) {
	result, err := r.db.Exec(
		`DELETE FROM campaign_admins WHERE owner_address = ? AND admin_address = ?`,
		owner, admin)
	if err != nil {
		util.Logger.Error("移除管理员失败",
			zap.Error(err),
			zap.String("owner", owner),
			zap.String("admin", admin))
		return false, err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	if rows == 0 {
		return false, nil
	}

	util.Logger.Info("管理员移除成功",
		zap.String("owner", owner),
		zap.String("admin", admin))
	return true, nil
}

func (r *AdminRepository) IsAdmin(owner, admin string) (bool, error) {
	var count int
	err := r.db.QueryRow(
		`SELECT COUNT(*) FROM campaign_admins WHERE owner_address = ? AND admin_address = ?`,
		owner, admin).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *AdminRepository) List(owner string) ([]string, error) {
	rows, err := r.db.Query(
		`SELECT admin_address FROM campaign_admins WHERE owner_address = ? ORDER BY created_at ASC`,
		owner)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	admins := []string{}
	for rows.Next() {
		var admin string
		if err := rows.Scan(&admin); err != nil {
			return nil, err
		}
		admins = append(admins, admin)
	}
	return admins, rows.Err()
}
