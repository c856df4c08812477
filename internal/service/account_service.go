package service

import (
	"charity-donation-backend/internal/model"
	"charity-donation-backend/internal/repository/interfaces"
	errs "charity-donation-backend/internal/service/errors"
	"charity-donation-backend/internal/util"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// AccountService 管理账本中的价值账户：注册、登录、充值与余额查询
type AccountService struct {
	accountRepo interfaces.AccountRepository

	blacklistMu sync.RWMutex
	blacklist   map[string]bool
}

func NewAccountService(accountRepo interfaces.AccountRepository) *AccountService {
	return &AccountService{
		accountRepo: accountRepo,
		blacklist:   make(map[string]bool),
	}
}

// Register 创建一个新账户并为其分配地址
func (s *AccountService) Register(email, password string) (*model.Account, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errs.Wrap(errs.ErrInternal, "密码加密失败", err)
	}

	address, err := generateAddress()
	if err != nil {
		return nil, errs.Wrap(errs.ErrInternal, "生成账户地址失败", err)
	}

	account := &model.Account{
		Address:      address,
		Email:        email,
		PasswordHash: string(hash),
		Balance:      0,
		CreatedAt:    time.Now(),
	}

	if err := s.accountRepo.Create(account); err != nil {
		return nil, errs.Wrap(errs.ErrDatabase, "创建账户失败", err)
	}

	util.Logger.Info("新账户注册成功", zap.String("address", address))
	return account, nil
}

// Login 校验密码并签发令牌
func (s *AccountService) Login(address, password string) (string, error) {
	account, err := s.accountRepo.FindByAddress(address)
	if err != nil {
		return "", errs.Wrap(errs.ErrDatabase, "查询账户失败", err)
	}
	if account == nil {
		return "", errs.New(errs.ErrNotFound, "Account Does Not Exist!")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return "", errs.New(errs.ErrUnauthorized, "地址或密码错误")
	}

	token, err := util.GenerateToken(address)
	if err != nil {
		return "", errs.Wrap(errs.ErrInternal, "签发令牌失败", err)
	}
	return token, nil
}

// Deposit 为账户充值可支配余额
func (s *AccountService) Deposit(address string, amount int64) error {
	if amount <= 0 {
		return errs.New(errs.ErrInvalidInput, "充值金额必须大于零")
	}

	err := s.accountRepo.Credit(address, amount)
	if err == sql.ErrNoRows {
		return errs.New(errs.ErrNotFound, "Account Does Not Exist!")
	}
	if err != nil {
		return errs.Wrap(errs.ErrDatabase, "充值失败", err)
	}

	util.Logger.Info("账户充值成功",
		zap.String("address", address),
		zap.Int64("amount", amount))
	return nil
}

func (s *AccountService) GetAccount(address string) (*model.Account, error) {
	account, err := s.accountRepo.FindByAddress(address)
	if err != nil {
		return nil, errs.Wrap(errs.ErrDatabase, "查询账户失败", err)
	}
	if account == nil {
		return nil, errs.New(errs.ErrNotFound, "Account Does Not Exist!")
	}
	return account, nil
}

// BlacklistToken 将令牌加入黑名单，登出后立即失效
func (s *AccountService) BlacklistToken(token string) {
	s.blacklistMu.Lock()
	defer s.blacklistMu.Unlock()
	s.blacklist[token] = true
}

func (s *AccountService) IsTokenBlacklisted(token string) bool {
	s.blacklistMu.RLock()
	defer s.blacklistMu.RUnlock()
	return s.blacklist[token]
}

// generateAddress 生成 20 字节随机地址，与外部账本的地址格式保持一致
func generateAddress() (string, error) {
	buf := make([]byte, 20)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return fmt.Sprintf("0x%s", hex.EncodeToString(buf)), nil
}
