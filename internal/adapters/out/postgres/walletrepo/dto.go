// Package walletrepo provides data transfer objects and mapping functions
// for wallet persistence.
package walletrepo

import (
	"canteen/internal/core/domain/model/kernel"
	"canteen/internal/core/domain/model/wallet"
)

// WalletDTO represents the database structure for persisting wallets.
// The owner identity is the natural key; the balance is stored in minor
// currency units.
type WalletDTO struct {
	Owner   string `gorm:"primaryKey"`
	Balance int64
}

// TableName specifies the database table name for wallet entities.
func (WalletDTO) TableName() string {
	return "wallets"
}

// fromDomain converts a wallet aggregate to its database representation.
func fromDomain(aggregate *wallet.Wallet) WalletDTO {
	return WalletDTO{
		Owner:   aggregate.Owner(),
		Balance: aggregate.Balance().Amount(),
	}
}

// toDomain converts a database DTO back to a wallet aggregate.
func toDomain(dto WalletDTO) (*wallet.Wallet, error) {
	balance, err := kernel.NewMoney(dto.Balance)
	if err != nil {
		return nil, err
	}

	return wallet.RestoreWallet(dto.Owner, balance)
}
