package interfaces

import "charity-donation-backend/internal/model"

type AccountRepository interface {
	Create(account *model.Account) error
	FindByAddress(address string) (*model.Account, error)
	Credit(address string, amount int64) error
	Count() (int, error)
}
