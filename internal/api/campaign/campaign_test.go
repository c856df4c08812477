package campaign

import (
	"charity-donation-backend/internal/model"
	"charity-donation-backend/internal/service"
	"charity-donation-backend/internal/util"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	util.InitLogger("error")
	os.Exit(m.Run())
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

const testOwner = "0x1111111111111111111111111111111111111111"

func setupRouter(campaignRepo *MockCampaignRepository, donationRepo *MockDonationRepository) *gin.Engine {
	campaignService := service.NewCampaignService(
		campaignRepo, donationRepo, new(MockEventRepository),
		nil, nil, &service.EmailService{}, nil)
	handler := NewCampaignHandler(campaignService)

	r := gin.New()
	r.GET("/api/campaigns/:owner", handler.ViewCampaigns)
	r.GET("/api/campaigns/:owner/:id", handler.GetCampaignDetails)
	return r
}

// TestViewCampaignsHandler 测试活动列表接口
func TestViewCampaignsHandler(t *testing.T) {
	mockCampaignRepo := new(MockCampaignRepository)
	r := setupRouter(mockCampaignRepo, new(MockDonationRepository))

	campaigns := []*model.Campaign{
		{ID: 1, Owner: testOwner, Title: "Clean Water", TargetAmount: 1000},
		{ID: 2, Owner: testOwner, Title: "School Books", TargetAmount: 500},
	}
	mockCampaignRepo.On("FindByOwner", testOwner).Return(campaigns, nil).Once()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/campaigns/"+testOwner, nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Code int               `json:"code"`
		Data []*model.Campaign `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Len(t, response.Data, 2)
	assert.Equal(t, "Clean Water", response.Data[0].Title)
}

// TestViewCampaignsHandlerBadAddress 测试非法地址返回 400
func TestViewCampaignsHandlerBadAddress(t *testing.T) {
	r := setupRouter(new(MockCampaignRepository), new(MockDonationRepository))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/campaigns/not-an-address", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// TestGetCampaignDetailsHandlerNotFound 测试活动不存在返回 404
func TestGetCampaignDetailsHandlerNotFound(t *testing.T) {
	mockCampaignRepo := new(MockCampaignRepository)
	r := setupRouter(mockCampaignRepo, new(MockDonationRepository))

	mockCampaignRepo.On("FindByOwnerAndID", testOwner, int64(9)).Return(nil, nil).Once()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/campaigns/"+testOwner+"/9", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)

	var response struct {
		Message string `json:"message"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "Campaign Does Not Exist!", response.Message)
}
