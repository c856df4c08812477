package errors

import "fmt"

// ServiceError 定义服务层错误
type ServiceError struct {
	Code    ErrorCode
	Message string
	Err     error
}

// ErrorCode 定义错误码类型
type ErrorCode int

const (
	// 数据库错误
	ErrDatabase ErrorCode = iota + 1000

	// 业务逻辑错误：活动与资金
	ErrNotFound
	ErrDuplicateTitle
	ErrUnauthorized
	ErrAlreadyAdmin
	ErrNotAdmin
	ErrDeadlinePassed
	ErrAlreadyCompleted
	ErrAlreadyCancelled
	ErrCampaignStillActive
	ErrInsufficientBalance
	ErrValueTransferFailed

	// 输入与系统错误
	ErrInvalidInput
	ErrInternal
)

func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// New 创建新的服务错误
func New(code ErrorCode, message string) error {
	return &ServiceError{
		Code:    code,
		Message: message,
	}
}

// Newf 创建带格式化消息的服务错误
func Newf(code ErrorCode, format string, args ...interface{}) error {
	return &ServiceError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap 包装已有错误
func Wrap(code ErrorCode, message string, err error) error {
	return &ServiceError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// IsServiceError 判断是否为服务错误
func IsServiceError(err error) bool {
	_, ok := err.(*ServiceError)
	return ok
}

// GetErrorCode 获取错误码
func GetErrorCode(err error) ErrorCode {
	if se, ok := err.(*ServiceError); ok {
		return se.Code
	}
	return ErrInternal
}

// Is 判断错误是否属于指定错误码
func Is(err error, code ErrorCode) bool {
	se, ok := err.(*ServiceError)
	return ok && se.Code == code
}
