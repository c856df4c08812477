package util

import (
	"charity-donation-backend/config"
	"errors"
	"time"

	"github.com/dgrijalva/jwt-go"
)

// GenerateToken 为指定账户地址签发令牌
func GenerateToken(address string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"address": address,
		"exp":     time.Now().Add(time.Hour * 24).Unix(),
	})

	return token.SignedString([]byte(config.AppConfig.JWTSecret))
}

// ValidateToken 校验令牌并返回其中的账户地址
func ValidateToken(tokenString string) (string, error) {
	if tokenString == "" {
		return "", errors.New("令牌为空")
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return []byte(config.AppConfig.JWTSecret), nil
	})

	if err != nil {
		return "", err
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		address, ok := claims["address"].(string)
		if !ok || address == "" {
			return "", errors.New("无效的账户地址")
		}
		return address, nil
	}

	return "", errors.New("无效的令牌")
}

func RefreshToken(tokenString string) (string, error) {
	address, err := ValidateToken(tokenString)
	if err != nil {
		return "", err
	}
	return GenerateToken(address)
}
