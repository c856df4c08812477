package mysql

import (
	"charity-donation-backend/internal/model"
	"charity-donation-backend/internal/util"
	"database/sql"

	"go.uber.org/zap"
)

type AccountRepository struct {
	db *sql.DB
}

func NewAccountRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{db}
}

func (r *AccountRepository) Create(account *model.Account) error {
	query := `INSERT INTO accounts (address, email, password_hash, balance, created_at)
			  VALUES (?, ?, ?, ?, ?)`

	_, err := r.db.Exec(query,
		account.Address,
		account.Email,
		account.PasswordHash,
		account.Balance,
		account.CreatedAt)
	if err != nil {
		util.Logger.Error("创建账户失败",
			zap.Error(err),
			zap.String("address", account.Address))
		return err
	}

	util.Logger.Info("账户创建成功", zap.String("address", account.Address))
	return nil
}

func (r *AccountRepository) FindByAddress(address string) (*model.Account, error) {
	query := `SELECT address, email, password_hash, balance, created_at
			  FROM accounts WHERE address = ?`

	account := &model.Account{}
	err := r.db.QueryRow(query, address).Scan(
		&account.Address,
		&account.Email,
		&account.PasswordHash,
		&account.Balance,
		&account.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		util.Logger.Error("查询账户失败",
			zap.Error(err),
			zap.String("address", address))
		return nil, err
	}

	return account, nil
}

// Credit 为账户入账，仅用于充值等单账户操作；
// 与活动状态相关的转账在服务层事务中执行
func (r *AccountRepository) Credit(address string, amount int64) error {
	result, err := r.db.Exec(`UPDATE accounts SET balance = balance + ? WHERE address = ?`,
		amount, address)
	if err != nil {
		util.Logger.Error("账户入账失败",
			zap.Error(err),
			zap.String("address", address),
			zap.Int64("amount", amount))
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return sql.ErrNoRows
	}

	util.Logger.Info("账户入账成功",
		zap.String("address", address),
		zap.Int64("amount", amount))
	return nil
}

func (r *AccountRepository) Count() (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM accounts`).Scan(&count)
	return count, err
}
