package funds

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

type FundsHandler struct {
	fundsService *service.FundsService
}

func NewFundsHandler(fundsService *service.FundsService) *FundsHandler {
	return &FundsHandler{fundsService}
}

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

// Withdraw 从已完成的活动中提取善款到指定受益人
func (h *FundsHandler) Withdraw(c *gin.Context) {
	owner, id, ok := ownerAndID(c)
	if !ok {
		return
	}

	var input struct {
		Amount      int64  `json:"amount" binding:"required,gt=0"`
		Beneficiary string `json:"beneficiary" binding:"required,account_addr"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		util.Logger.Error("无效的提款数据", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "Invalid input data",
			"details": err.Error(),
		})
		return
	}

	caller := middleware.CallerAddress(c)
	if err := h.fundsService.Withdraw(owner, id, caller, input.Amount, input.Beneficiary); err != nil {
		errors.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    200,
		"message": "Withdrawal successful",
	})
}

// Refund 将活动余额按捐款记录退还全部捐款人
func (h *FundsHandler) Refund(c *gin.Context) {
	owner, id, ok := ownerAndID(c)
	if !ok {
		return
	}

	caller := middleware.CallerAddress(c)
	if err := h.fundsService.Refund(owner, id, caller); err != nil {
		errors.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    200,
		"message": "Donors refunded",
	})
}

// ViewWithdrawals 返回筹款人的提款记录及其管理员名单
func (h *FundsHandler) ViewWithdrawals(c *gin.Context) {
	owner := c.Param("owner")
	if !util.IsValidAddress(owner) {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "Invalid account address",
		})
		return
	}

	withdrawals, admins, err := h.fundsService.ViewWithdrawals(owner)
	if err != nil {
		errors.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code": 200,
		"data": gin.H{
			"withdrawals": withdrawals,
			"admins":      admins,
		},
	})
}
