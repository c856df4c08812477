package service

import (
	"charity-donation-backend/internal/model"
	errs "charity-donation-backend/internal/service/errors"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func newTestFundsService(t *testing.T) (*FundsService, sqlmock.Sqlmock, *MockDonationRepository, *MockAccountRepository, *MockAdminRepository, *sql.DB) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)

	mockDonationRepo := new(MockDonationRepository)
	mockAccountRepo := new(MockAccountRepository)
	mockAdminRepo := new(MockAdminRepository)
	adminService := newTestAdminService(mockAdminRepo, new(MockCampaignRepository), mockAccountRepo)

	service := NewFundsService(mockDonationRepo, mockAccountRepo, adminService, &EmailService{}, db)
	return service, mock, mockDonationRepo, mockAccountRepo, mockAdminRepo, db
}

var donationColumns = []string{"id", "owner_address", "campaign_id", "donor_address", "amount", "created_at"}

// TestWithdraw 测试提款：活动余额减少，受益人账户入账，记录与事件同事务写入
func TestWithdraw(t *testing.T) {
	service, mock, _, _, _, db := newTestFundsService(t)
	defer db.Close()

	campaign := &model.Campaign{
		ID: 1, Owner: testOwner, Title: "Clean Water",
		TargetAmount: 1000, RaisedAmount: 1000, Balance: 1000,
		IsCompleted: true,
		Deadline:    time.Now().Add(24 * time.Hour),
		CreatedAt:   time.Now(),
	}

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM campaigns WHERE (.+) FOR UPDATE").
		WillReturnRows(campaignRows(campaign))
	mock.ExpectExec("UPDATE campaigns SET balance = balance -").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE accounts SET balance = balance \\+").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO withdrawals").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO campaign_events").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err := service.Withdraw(testOwner, 1, testOwner, 400, testAdmin)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestWithdrawRejections 测试提款被拒绝的各种情况
func TestWithdrawRejections(t *testing.T) {
	t.Run("非管理员提款", func(t *testing.T) {
		service, _, _, _, mockAdminRepo, db := newTestFundsService(t)
		defer db.Close()

		mockAdminRepo.On("IsAdmin", testOwner, testDonor).Return(false, nil).Once()
		err := service.Withdraw(testOwner, 1, testDonor, 100, testDonor)
		assert.True(t, errs.Is(err, errs.ErrUnauthorized))
		assert.Equal(t, "Only Admins Can Perform This Action!", err.Error())
	})

	t.Run("活动未完成", func(t *testing.T) {
		service, mock, _, _, _, db := newTestFundsService(t)
		defer db.Close()

		campaign := &model.Campaign{
			ID: 1, Owner: testOwner, Title: "Clean Water",
			TargetAmount: 1000, RaisedAmount: 500, Balance: 500,
			Deadline:  time.Now().Add(24 * time.Hour),
			CreatedAt: time.Now(),
		}

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT (.+) FROM campaigns WHERE (.+) FOR UPDATE").
			WillReturnRows(campaignRows(campaign))
		mock.ExpectRollback()

		err := service.Withdraw(testOwner, 1, testOwner, 100, testOwner)
		assert.True(t, errs.Is(err, errs.ErrCampaignStillActive))
		assert.Equal(t, "You Can't Withdraw Funds from an Active Campaign", err.Error())
	})

	t.Run("活动余额不足", func(t *testing.T) {
		service, mock, _, _, _, db := newTestFundsService(t)
		defer db.Close()

		campaign := &model.Campaign{
			ID: 1, Owner: testOwner, Title: "Clean Water",
			TargetAmount: 1000, RaisedAmount: 1000, Balance: 300,
			IsCompleted: true,
			Deadline:    time.Now().Add(24 * time.Hour),
			CreatedAt:   time.Now(),
		}

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT (.+) FROM campaigns WHERE (.+) FOR UPDATE").
			WillReturnRows(campaignRows(campaign))
		mock.ExpectRollback()

		err := service.Withdraw(testOwner, 1, testOwner, 400, testOwner)
		assert.True(t, errs.Is(err, errs.ErrInsufficientBalance))
		assert.Equal(t, "Insufficient Campaign Balance!", err.Error())
	})

	t.Run("受益人账户不存在", func(t *testing.T) {
		service, mock, _, _, _, db := newTestFundsService(t)
		defer db.Close()

		campaign := &model.Campaign{
			ID: 1, Owner: testOwner, Title: "Clean Water",
			TargetAmount: 1000, RaisedAmount: 1000, Balance: 1000,
			IsCompleted: true,
			Deadline:    time.Now().Add(24 * time.Hour),
			CreatedAt:   time.Now(),
		}

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT (.+) FROM campaigns WHERE (.+) FOR UPDATE").
			WillReturnRows(campaignRows(campaign))
		mock.ExpectExec("UPDATE campaigns SET balance = balance -").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("UPDATE accounts SET balance = balance \\+").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		err := service.Withdraw(testOwner, 1, testOwner, 400, testAdmin)
		assert.True(t, errs.Is(err, errs.ErrValueTransferFailed))
		assert.Equal(t, "Value Transfer Failed!", err.Error())
	})
}

// TestRefund 测试退款：按捐赠记录逐笔退回后清零活动余额
func TestRefund(t *testing.T) {
	service, mock, _, mockAccountRepo, _, db := newTestFundsService(t)
	defer db.Close()

	campaign := &model.Campaign{
		ID: 1, Owner: testOwner, Title: "Clean Water",
		TargetAmount: 1000, RaisedAmount: 300, Balance: 300,
		IsCancelled: true,
		Deadline:    time.Now().Add(-time.Hour),
		CreatedAt:   time.Now(),
	}
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM campaigns WHERE (.+) FOR UPDATE").
		WillReturnRows(campaignRows(campaign))
	mock.ExpectQuery("SELECT (.+) FROM donations WHERE (.+) ORDER BY id ASC").
		WillReturnRows(sqlmock.NewRows(donationColumns).
			AddRow(1, testOwner, 1, testDonor, 200, now).
			AddRow(2, testOwner, 1, testAdmin, 100, now))
	// 第一笔退款
	mock.ExpectExec("UPDATE accounts SET balance = balance \\+").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO campaign_events").
		WillReturnResult(sqlmock.NewResult(1, 1))
	// 第二笔退款
	mock.ExpectExec("UPDATE accounts SET balance = balance \\+").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO campaign_events").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("UPDATE campaigns SET balance = 0").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	// 退款完成后通知捐赠人
	mockAccountRepo.On("FindByAddress", testDonor).Return(&model.Account{
		Address: testDonor, Email: "donor@example.com",
	}, nil).Once()
	mockAccountRepo.On("FindByAddress", testAdmin).Return(&model.Account{
		Address: testAdmin, Email: "admin@example.com",
	}, nil).Once()

	err := service.Refund(testOwner, 1, testOwner)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestRefundInsufficientBalance 测试余额不足以覆盖捐赠记录时拒绝退款
func TestRefundInsufficientBalance(t *testing.T) {
	service, mock, _, _, _, db := newTestFundsService(t)
	defer db.Close()

	// 已经提款过一部分，余额低于捐赠总额
	campaign := &model.Campaign{
		ID: 1, Owner: testOwner, Title: "Clean Water",
		TargetAmount: 1000, RaisedAmount: 1000, Balance: 400,
		IsCompleted: true,
		Deadline:    time.Now().Add(24 * time.Hour),
		CreatedAt:   time.Now(),
	}
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM campaigns WHERE (.+) FOR UPDATE").
		WillReturnRows(campaignRows(campaign))
	mock.ExpectQuery("SELECT (.+) FROM donations WHERE (.+) ORDER BY id ASC").
		WillReturnRows(sqlmock.NewRows(donationColumns).
			AddRow(1, testOwner, 1, testDonor, 600, now).
			AddRow(2, testOwner, 1, testAdmin, 400, now))
	mock.ExpectRollback()

	err := service.Refund(testOwner, 1, testOwner)
	assert.True(t, errs.Is(err, errs.ErrInsufficientBalance))
	assert.Equal(t, "Insufficient Campaign Balance!", err.Error())
}

// TestRefundAtomicity 测试任何一笔转账失败则整个退款回滚
func TestRefundAtomicity(t *testing.T) {
	service, mock, _, _, _, db := newTestFundsService(t)
	defer db.Close()

	campaign := &model.Campaign{
		ID: 1, Owner: testOwner, Title: "Clean Water",
		TargetAmount: 1000, RaisedAmount: 300, Balance: 300,
		IsCancelled: true,
		Deadline:    time.Now().Add(-time.Hour),
		CreatedAt:   time.Now(),
	}
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM campaigns WHERE (.+) FOR UPDATE").
		WillReturnRows(campaignRows(campaign))
	mock.ExpectQuery("SELECT (.+) FROM donations WHERE (.+) ORDER BY id ASC").
		WillReturnRows(sqlmock.NewRows(donationColumns).
			AddRow(1, testOwner, 1, testDonor, 200, now).
			AddRow(2, testOwner, 1, testAdmin, 100, now))
	mock.ExpectExec("UPDATE accounts SET balance = balance \\+").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO campaign_events").
		WillReturnResult(sqlmock.NewResult(1, 1))
	// 第二笔入账失败，整个事务回滚
	mock.ExpectExec("UPDATE accounts SET balance = balance \\+").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := service.Refund(testOwner, 1, testOwner)
	assert.True(t, errs.Is(err, errs.ErrValueTransferFailed))
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestViewWithdrawals 测试提款历史与管理员名单一并返回
func TestViewWithdrawals(t *testing.T) {
	service, _, mockDonationRepo, _, mockAdminRepo, db := newTestFundsService(t)
	defer db.Close()

	records := []*model.WithdrawalRecord{
		{ID: 1, Owner: testOwner, CampaignID: 1, By: testOwner, Beneficiary: testAdmin, Amount: 400},
	}
	mockDonationRepo.On("ListWithdrawalsByOwner", testOwner).Return(records, nil).Once()
	mockAdminRepo.On("List", testOwner).Return([]string{testAdmin}, nil).Once()

	withdrawals, admins, err := service.ViewWithdrawals(testOwner)
	assert.NoError(t, err)
	assert.Len(t, withdrawals, 1)
	assert.Equal(t, []string{testAdmin}, admins)
}
