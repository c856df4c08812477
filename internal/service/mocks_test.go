package service

import (
	"charity-donation-backend/internal/model"
	"charity-donation-backend/internal/util"
	"os"
	"testing"

	"github.com/stretchr/testify/mock"
)

func TestMain(m *testing.M) {
	util.InitLogger("error")
	os.Exit(m.Run())
}

// MockAccountRepository 是 AccountRepository 接口的模拟实现
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) Create(account *model.Account) error {
	args := m.Called(account)
	return args.Error(0)
}

func (m *MockAccountRepository) FindByAddress(address string) (*model.Account, error) {
	args := m.Called(address)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Account), args.Error(1)
}

func (m *MockAccountRepository) Credit(address string, amount int64) error {
	args := m.Called(address, amount)
	return args.Error(0)
}

func (m *MockAccountRepository) Count() (int, error) {
	args := m.Called()
	return args.Int(0), args.Error(1)
}

// MockCampaignRepository 是 CampaignRepository 接口的模拟实现
type MockCampaignRepository struct {
	mock.Mock
}

func (m *MockCampaignRepository) FindByOwnerAndID(owner string, id int64) (*model.Campaign, error) {
	args := m.Called(owner, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Campaign), args.Error(1)
}

func (m *MockCampaignRepository) FindByOwner(owner string) ([]*model.Campaign, error) {
	args := m.Called(owner)
	return args.Get(0).([]*model.Campaign), args.Error(1)
}

func (m *MockCampaignRepository) TitleExists(owner, title string) (bool, error) {
	args := m.Called(owner, title)
	return args.Bool(0), args.Error(1)
}

func (m *MockCampaignRepository) MarkCancelled(owner string, id int64) (bool, error) {
	args := m.Called(owner, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockCampaignRepository) FindExpiredActive() ([]*model.Campaign, error) {
	args := m.Called()
	return args.Get(0).([]*model.Campaign), args.Error(1)
}

func (m *MockCampaignRepository) Count() (int, error) {
	args := m.Called()
	return args.Int(0), args.Error(1)
}

func (m *MockCampaignRepository) CountActive() (int, error) {
	args := m.Called()
	return args.Int(0), args.Error(1)
}

func (m *MockCampaignRepository) TotalRaised() (int64, error) {
	args := m.Called()
	return args.Get(0).(int64), args.Error(1)
}

// MockAdminRepository 是 AdminRepository 接口的模拟实现
type MockAdminRepository struct {
	mock.Mock
}

func (m *MockAdminRepository) Add(owner, admin string) error {
	args := m.Called(owner, admin)
	return args.Error(0)
}

func (m *MockAdminRepository) Remove(owner, admin string) (bool, error) {
	args := m.Called(owner, admin)
	return args.Bool(0), args.Error(1)
}

func (m *MockAdminRepository) IsAdmin(owner, admin string) (bool, error) {
	args := m.Called(owner, admin)
	return args.Bool(0), args.Error(1)
}

func (m *MockAdminRepository) List(owner string) ([]string, error) {
	args := m.Called(owner)
	return args.Get(0).([]string), args.Error(1)
}

// MockDonationRepository 是 DonationRepository 接口的模拟实现
type MockDonationRepository struct {
	mock.Mock
}

func (m *MockDonationRepository) ListByCampaign(owner string, campaignID int64) ([]*model.DonationRecord, error) {
	args := m.Called(owner, campaignID)
	return args.Get(0).([]*model.DonationRecord), args.Error(1)
}

func (m *MockDonationRepository) ListByDonor(donor string) ([]*model.DonationRecord, error) {
	args := m.Called(donor)
	return args.Get(0).([]*model.DonationRecord), args.Error(1)
}

func (m *MockDonationRepository) ListWithdrawalsByOwner(owner string) ([]*model.WithdrawalRecord, error) {
	args := m.Called(owner)
	return args.Get(0).([]*model.WithdrawalRecord), args.Error(1)
}

func (m *MockDonationRepository) Count() (int, error) {
	args := m.Called()
	return args.Int(0), args.Error(1)
}

// MockEventRepository 是 EventRepository 接口的模拟实现
type MockEventRepository struct {
	mock.Mock
}

func (m *MockEventRepository) ListByCampaign(owner string, campaignID int64) ([]*model.CampaignEvent, error) {
	args := m.Called(owner, campaignID)
	return args.Get(0).([]*model.CampaignEvent), args.Error(1)
}
