package queries

import (
	"context"
	"database/sql"
	"errors"

	"canteen/internal/pkg/errs"

	"gorm.io/gorm"
)

// GetWalletBalanceQueryHandler reads one wallet balance from the database.
type GetWalletBalanceQueryHandler struct {
	db *gorm.DB
}

// NewGetWalletBalanceQueryHandler creates a handler for wallet balance reads.
func NewGetWalletBalanceQueryHandler(db *gorm.DB) GetWalletBalanceQueryHandler {
	return GetWalletBalanceQueryHandler{db: db}
}

// Handle executes the query. Returns an ObjectNotFoundError for an unknown
// owner.
func (h GetWalletBalanceQueryHandler) Handle(
	ctx context.Context,
	query GetWalletBalanceQuery,
) (GetWalletBalanceQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetWalletBalanceQueryResponse{}, err
	}

	row := h.db.WithContext(ctx).Raw(`
		SELECT owner, balance
		FROM wallets
		WHERE owner = ?
	`, query.Owner()).Row()

	var (
		owner   string
		balance int64
	)

	if err := row.Scan(&owner, &balance); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) || errors.Is(err, sql.ErrNoRows) {
			return GetWalletBalanceQueryResponse{}, errs.NewObjectNotFoundError("wallet", query.Owner())
		}
		return GetWalletBalanceQueryResponse{}, err
	}

	return GetWalletBalanceQueryResponse{
		Owner:   owner,
		Balance: balance,
	}, nil
}
