package service

import (
	"charity-donation-backend/internal/model"
	errs "charity-donation-backend/internal/service/errors"
	"charity-donation-backend/internal/util"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
)

// TestAccountRegister 测试账户注册：地址格式与密码哈希
func TestAccountRegister(t *testing.T) {
	mockRepo := new(MockAccountRepository)
	service := NewAccountService(mockRepo)

	var created *model.Account
	mockRepo.On("Create", mock.AnythingOfType("*model.Account")).
		Run(func(args mock.Arguments) {
			created = args.Get(0).(*model.Account)
		}).Return(nil).Once()

	account, err := service.Register("donor@example.com", "password123")
	assert.NoError(t, err)
	assert.True(t, util.IsValidAddress(account.Address))
	assert.Equal(t, int64(0), account.Balance)
	assert.NotEqual(t, "password123", created.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.PasswordHash), []byte("password123")))
}

// TestAccountLogin 测试登录校验
func TestAccountLogin(t *testing.T) {
	mockRepo := new(MockAccountRepository)
	service := NewAccountService(mockRepo)

	hash, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	account := &model.Account{Address: testDonor, PasswordHash: string(hash)}

	// 密码正确签发令牌
	mockRepo.On("FindByAddress", testDonor).Return(account, nil)
	token, err := service.Login(testDonor, "password123")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	// 密码错误
	_, err = service.Login(testDonor, "wrong-password")
	assert.True(t, errs.Is(err, errs.ErrUnauthorized))

	// 账户不存在
	mockRepo.On("FindByAddress", testAdmin).Return(nil, nil)
	_, err = service.Login(testAdmin, "password123")
	assert.True(t, errs.Is(err, errs.ErrNotFound))
	assert.Equal(t, "Account Does Not Exist!", err.Error())
}

// TestDeposit 测试充值
func TestDeposit(t *testing.T) {
	mockRepo := new(MockAccountRepository)
	service := NewAccountService(mockRepo)

	// 测试成功充值
	mockRepo.On("Credit", testDonor, int64(500)).Return(nil).Once()
	err := service.Deposit(testDonor, 500)
	assert.NoError(t, err)

	// 金额必须为正
	err = service.Deposit(testDonor, 0)
	assert.True(t, errs.Is(err, errs.ErrInvalidInput))

	// 账户不存在
	mockRepo.On("Credit", testAdmin, int64(500)).Return(sql.ErrNoRows).Once()
	err = service.Deposit(testAdmin, 500)
	assert.True(t, errs.Is(err, errs.ErrNotFound))
	assert.Equal(t, "Account Does Not Exist!", err.Error())
}

// TestTokenBlacklist 测试令牌黑名单
func TestTokenBlacklist(t *testing.T) {
	service := NewAccountService(new(MockAccountRepository))

	assert.False(t, service.IsTokenBlacklisted("some-token"))
	service.BlacklistToken("some-token")
	assert.True(t, service.IsTokenBlacklisted("some-token"))
}
