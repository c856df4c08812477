package admin

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

type AdminHandler struct {
	adminService *service.AdminService
	statsService *service.StatsService
	auditService *service.AuditService
	errorMonitor *middleware.ErrorMonitor
}

func NewAdminHandler(adminService *service.AdminService, statsService *service.StatsService, auditService *service.AuditService, errorMonitor *middleware.ErrorMonitor) *AdminHandler {
	return &AdminHandler{adminService, statsService, auditService, errorMonitor}
}

// AddAdmin 为当前筹款人追加一名管理员
func (h *AdminHandler) AddAdmin(c *gin.Context) {
	var input struct {
		Address string `json:"address" binding:"required,account_addr"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		util.Logger.Error("无效的管理员数据", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "Invalid input data",
			"details": err.Error(),
		})
		return
	}

	caller := middleware.CallerAddress(c)
	if err := h.adminService.AddAdmin(caller, input.Address); err != nil {
		errors.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    200,
		"message": "Admin added",
	})
}

// RemoveAdmin 移除当前筹款人的一名管理员
func (h *AdminHandler) RemoveAdmin(c *gin.Context) {
	address := c.Param("address")
	if !util.IsValidAddress(address) {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "Invalid account address",
		})
		return
	}

	caller := middleware.CallerAddress(c)
	if err := h.adminService.RemoveAdmin(caller, address); err != nil {
		errors.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    200,
		"message": "Admin removed",
	})
}

// ListAdmins 列出某筹款人的管理员名单
func (h *AdminHandler) ListAdmins(c *gin.Context) {
	owner := c.Param("owner")
	if !util.IsValidAddress(owner) {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "Invalid account address",
		})
		return
	}

	admins, err := h.adminService.ListAdmins(owner)
	if err != nil {
		errors.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code": 200,
		"data": admins,
	})
}

// GetSystemStats 返回平台汇总统计
func (h *AdminHandler) GetSystemStats(c *gin.Context) {
	stats, err := h.statsService.GetSystemStats()
	if err != nil {
		errors.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code": 200,
		"data": stats,
	})
}

// GetErrorStats 返回请求错误的汇总统计
func (h *AdminHandler) GetErrorStats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"code": 200,
		"data": h.errorMonitor.GetStats(),
	})
}

// ExportAudit 导出活动的审计快照并返回存储位置
func (h *AdminHandler) ExportAudit(c *gin.Context) {
	owner := c.Param("owner")
	if !util.IsValidAddress(owner) {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "Invalid account address",
		})
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "Invalid campaign id",
		})
		return
	}

	caller := middleware.CallerAddress(c)
	location, err := h.auditService.ExportCampaign(owner, id, caller)
	if err != nil {
		errors.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code": 200,
		"data": gin.H{"location": location},
	})
}
