package campaign

import (
	"charity-donation-backend/internal/errors"
	"charity-donation-backend/internal/middleware"
	"charity-donation-backend/internal/service"
	"charity-donation-backend/internal/util"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type CampaignHandler struct {
	campaignService *service.CampaignService
}

func NewCampaignHandler(campaignService *service.CampaignService) *CampaignHandler {
	return &CampaignHandler{campaignService}
}

// ownerAndID 解析路径中的筹款人地址与活动编号
func ownerAndID(c *gin.Context) (string, int64, bool) {
	owner := c.Param("owner")
	if !util.IsValidAddress(owner) {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "Invalid account address",
		})
		return "", 0, false
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "Invalid campaign id",
		})
		return "", 0, false
	}

	return owner, id, true
}

// CreateCampaign 以当前账户为筹款人创建新活动
func (h *CampaignHandler) CreateCampaign(c *gin.Context) {
	var input struct {
		Title        string `json:"title" binding:"required,max=200"`
		Description  string `json:"description" binding:"max=2000"`
		TargetAmount int64  `json:"target_amount" binding:"required,gt=0"`
		DurationDays int64  `json:"duration_days" binding:"required,gt=0"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		util.Logger.Error("无效的活动创建数据", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "Invalid input data",
			"details": err.Error(),
		})
		return
	}

	caller := middleware.CallerAddress(c)
	campaign, err := h.campaignService.CreateCampaign(caller, input.Title, input.Description, input.TargetAmount, input.DurationDays)
	if err != nil {
		errors.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"code":    201,
		"data":    campaign,
		"message": "Campaign created successfully",
	})
}

// ViewCampaigns 列出某筹款人名下的全部活动
func (h *CampaignHandler) ViewCampaigns(c *gin.Context) {
	owner := c.Param("owner")
	if !util.IsValidAddress(owner) {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "Invalid account address",
		})
		return
	}

	campaigns, err := h.campaignService.ViewCampaigns(owner)
	if err != nil {
		errors.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code": 200,
		"data": campaigns,
	})
}

// GetCampaignDetails 返回单个活动及其捐款明细
func (h *CampaignHandler) GetCampaignDetails(c *gin.Context) {
	owner, id, ok := ownerAndID(c)
	if !ok {
		return
	}

	details, err := h.campaignService.GetCampaignDetails(owner, id)
	if err != nil {
		errors.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code": 200,
		"data": details,
	})
}

// Donate 以当前账户向指定活动捐款
func (h *CampaignHandler) Donate(c *gin.Context) {
	owner, id, ok := ownerAndID(c)
	if !ok {
		return
	}

	var input struct {
		Amount int64 `json:"amount" binding:"required,gt=0"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "Invalid input data",
			"details": err.Error(),
		})
		return
	}

	caller := middleware.CallerAddress(c)
	campaign, err := h.campaignService.Donate(owner, id, caller, input.Amount)
	if err != nil {
		errors.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    200,
		"data":    campaign,
		"message": "Donation received",
	})
}

// CancelCampaign 取消活动，仅筹款人或其管理员可操作
func (h *CampaignHandler) CancelCampaign(c *gin.Context) {
	owner, id, ok := ownerAndID(c)
	if !ok {
		return
	}

	caller := middleware.CallerAddress(c)
	if err := h.campaignService.CancelCampaign(owner, id, caller); err != nil {
		errors.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    200,
		"message": "Campaign cancelled",
	})
}

// ViewDonations 返回当前账户的全部捐款记录
func (h *CampaignHandler) ViewDonations(c *gin.Context) {
	caller := middleware.CallerAddress(c)

	donations, err := h.campaignService.ViewDonations(caller)
	if err != nil {
		errors.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code": 200,
		"data": donations,
	})
}

// ListEvents 返回活动的事件流水
func (h *CampaignHandler) ListEvents(c *gin.Context) {
	owner, id, ok := ownerAndID(c)
	if !ok {
		return
	}

	events, err := h.campaignService.ListEvents(owner, id)
	if err != nil {
		errors.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code": 200,
		"data": events,
	})
}
