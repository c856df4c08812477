package middleware

import (
	"charity-donation-backend/internal/errors"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ErrorMonitor struct {
	errorCounts map[errors.ErrorCode]int
	analytics   *errors.ErrorAnalytics
	mu          sync.RWMutex
}

func NewErrorMonitor() *ErrorMonitor {
	return &ErrorMonitor{
		errorCounts: make(map[errors.ErrorCode]int),
		analytics:   errors.NewErrorAnalytics(),
	}
}

// RecordError 记录一次请求错误及其上下文
func (m *ErrorMonitor) RecordError(err error, ctx errors.ErrorContext) {
	traced := errors.NewTracedError(err, ctx)
	m.analytics.Record(traced)

	m.mu.Lock()
	m.errorCounts[traced.Code]++
	m.mu.Unlock()
}

func (m *ErrorMonitor) GetErrorCounts() map[errors.ErrorCode]int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	counts := make(map[errors.ErrorCode]int)
	for code, count := range m.errorCounts {
		counts[code] = count
	}
	return counts
}

// GetStats 返回按错误码和请求路径汇总的错误统计
func (m *ErrorMonitor) GetStats() map[string]interface{} {
	return m.analytics.GetStats()
}

func ErrorMonitorMiddleware(monitor *ErrorMonitor) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 {
			ctx := errors.ErrorContext{
				Account:   CallerAddress(c),
				Path:      c.Request.URL.Path,
				Method:    c.Request.Method,
				Timestamp: time.Now(),
			}
			for _, e := range c.Errors {
				monitor.RecordError(e.Err, ctx)
				if appErr, ok := e.Err.(*errors.AppError); ok {
					zap.L().Error("请求处理错误",
						zap.Int("error_code", int(appErr.Code)),
						zap.String("error_message", appErr.Message),
						zap.Error(appErr.Err),
						zap.String("path", c.Request.URL.Path),
						zap.String("method", c.Request.Method))
				}
			}
		}
	}
}
