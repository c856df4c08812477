package account

import (
	"charity-donation-backend/internal/errors"
	"charity-donation-backend/internal/middleware"
	"charity-donation-backend/internal/service"
	"charity-donation-backend/internal/util"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AccountHandler struct {
	accountService *service.AccountService
}

func NewAccountHandler(accountService *service.AccountService) *AccountHandler {
	return &AccountHandler{accountService}
}

// Register 注册新账户并返回分配的地址
func (h *AccountHandler) Register(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"omitempty,email"`
		Password string `json:"password" binding:"required,min=8"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		util.Logger.Error("无效的注册数据", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "Invalid input data",
			"details": err.Error(),
		})
		return
	}

	account, err := h.accountService.Register(input.Email, input.Password)
	if err != nil {
		errors.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"code": 201,
		"data": gin.H{
			"address": account.Address,
			"balance": account.Balance,
		},
		"message": "Account registered successfully",
	})
}

func (h *AccountHandler) Login(c *gin.Context) {
	var input struct {
		Address  string `json:"address" binding:"required,account_addr"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "Invalid input data",
			"details": err.Error(),
		})
		return
	}

	token, err := h.accountService.Login(input.Address, input.Password)
	if err != nil {
		errors.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code": 200,
		"data": gin.H{"token": token},
	})
}

// RefreshToken 用当前令牌换发新令牌，旧令牌立即失效
func (h *AccountHandler) RefreshToken(c *gin.Context) {
	tokenVal, exists := c.Get("token")
	if !exists {
		errors.HandleError(c, errors.New(errors.ErrUnauthorized, "需要认证"))
		return
	}
	oldToken := tokenVal.(string)

	newToken, err := util.RefreshToken(oldToken)
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrInvalidToken, "无效或过期的令牌", err))
		return
	}

	h.accountService.BlacklistToken(oldToken)

	c.JSON(http.StatusOK, gin.H{
		"code": 200,
		"data": gin.H{"token": newToken},
	})
}

func (h *AccountHandler) Logout(c *gin.Context) {
	if token, exists := c.Get("token"); exists {
		h.accountService.BlacklistToken(token.(string))
	}
	c.JSON(http.StatusOK, gin.H{
		"code":    200,
		"message": "Logged out successfully",
	})
}

// Deposit 为当前账户充值可支配余额
func (h *AccountHandler) Deposit(c *gin.Context) {
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
	if err := h.accountService.Deposit(caller, input.Amount); err != nil {
		errors.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    200,
		"message": "Deposit successful",
	})
}

// GetAccount 返回当前账户信息
func (h *AccountHandler) GetAccount(c *gin.Context) {
	caller := middleware.CallerAddress(c)

	account, err := h.accountService.GetAccount(caller)
	if err != nil {
		errors.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code": 200,
		"data": account,
	})
}
