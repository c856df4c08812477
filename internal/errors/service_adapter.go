package errors

import (
	svcerrors "charity-donation-backend/internal/service/errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// 服务层错误码与HTTP状态码映射
var serviceStatusMap = map[svcerrors.ErrorCode]int{
	svcerrors.ErrNotFound:            http.StatusNotFound,
	svcerrors.ErrDuplicateTitle:      http.StatusConflict,
	svcerrors.ErrUnauthorized:        http.StatusForbidden,
	svcerrors.ErrAlreadyAdmin:        http.StatusConflict,
	svcerrors.ErrNotAdmin:            http.StatusNotFound,
	svcerrors.ErrDeadlinePassed:      http.StatusBadRequest,
	svcerrors.ErrAlreadyCompleted:    http.StatusBadRequest,
	svcerrors.ErrAlreadyCancelled:    http.StatusBadRequest,
	svcerrors.ErrCampaignStillActive: http.StatusBadRequest,
	svcerrors.ErrInsufficientBalance: http.StatusBadRequest,
	svcerrors.ErrValueTransferFailed: http.StatusBadRequest,
	svcerrors.ErrInvalidInput:        http.StatusBadRequest,
	svcerrors.ErrDatabase:            http.StatusInternalServerError,
	svcerrors.ErrInternal:            http.StatusInternalServerError,
}

// HandleServiceError 将服务层错误转换为统一的HTTP错误响应，
// 业务拒绝原因以可读字符串原样返回给调用方
func HandleServiceError(c *gin.Context, err error) {
	if se, ok := err.(*svcerrors.ServiceError); ok {
		_ = c.Error(se)

		status := serviceStatusMap[se.Code]
		if status == 0 {
			status = http.StatusInternalServerError
		}

		c.JSON(status, gin.H{
			"code":    status,
			"message": se.Message,
		})
		return
	}

	HandleError(c, err)
}
