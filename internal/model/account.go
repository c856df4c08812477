package model

import "time"

// Account 表示账本中的一个价值账户，地址是全局唯一标识
type Account struct {
	Address      string    `json:"address"`
	Email        string    `json:"email,omitempty"`
	PasswordHash string    `json:"-"`
	Balance      int64     `json:"balance"` // 不可分割的价值单位
	CreatedAt    time.Time `json:"created_at"`
}
