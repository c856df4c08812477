package util

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

var addressPattern = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)

// IsValidAddress 判断字符串是否为合法的账户地址
func IsValidAddress(s string) bool {
	return addressPattern.MatchString(s)
}

// ValidateAccountAddress 验证请求字段是否为合法的账户地址
func ValidateAccountAddress(fl validator.FieldLevel) bool {
	value, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	return IsValidAddress(value)
}
