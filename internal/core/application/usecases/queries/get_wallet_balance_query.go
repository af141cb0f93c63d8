package queries

import (
	"errors"

	"canteen/internal/pkg/errs"
	"canteen/internal/pkg/guard"
)

var (
	ErrGetWalletBalanceQueryIsNotConstructed = errors.New(
		"GetWalletBalanceQuery must be created via NewGetWalletBalanceQuery constructor",
	)
)

// GetWalletBalanceQuery retrieves the current balance of one wallet.
type GetWalletBalanceQuery struct { //nolint:recvcheck //using for validation
	owner string

	guard guard.ConstructorGuard
}

// NewGetWalletBalanceQuery creates a query for the given wallet owner.
func NewGetWalletBalanceQuery(owner string) (GetWalletBalanceQuery, error) {
	if owner == "" {
		return GetWalletBalanceQuery{}, errs.NewValueIsRequiredError("owner")
	}

	return GetWalletBalanceQuery{
		owner: owner,
		guard: guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetWalletBalanceQuery) Validate() error {
	return q.guard.Validate(ErrGetWalletBalanceQueryIsNotConstructed)
}

// Owner returns the wallet owner identity.
func (q GetWalletBalanceQuery) Owner() string {
	return q.owner
}

// GetWalletBalanceQueryResponse is the read model for a wallet balance.
type GetWalletBalanceQueryResponse struct {
	Owner   string `json:"owner"`
	Balance int64  `json:"balance"`
}
