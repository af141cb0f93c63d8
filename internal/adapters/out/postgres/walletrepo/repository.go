package walletrepo

import (
	"context"
	"errors"

	"canteen/internal/adapters/out/postgres/pgerrors"
	"canteen/internal/core/domain/model/wallet"
	"canteen/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormWalletRepository implements WalletRepository using GORM.
type GormWalletRepository struct {
	db *gorm.DB
}

// NewGormWalletRepository creates a new GORM wallet repository.
func NewGormWalletRepository(db *gorm.DB) *GormWalletRepository {
	return &GormWalletRepository{db: db}
}

// Add saves a new wallet to the database.
func (r *GormWalletRepository) Add(ctx context.Context, aggregate *wallet.Wallet) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	return r.db.WithContext(ctx).Create(&dto).Error
}

// Update saves a changed balance to the database.
func (r *GormWalletRepository) Update(ctx context.Context, aggregate *wallet.Wallet) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).Model(&WalletDTO{}).
		Where("owner = ?", dto.Owner).
		Update("balance", dto.Balance)
	if result.Error != nil {
		return pgerrors.WrapTransient(result.Error)
	}

	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("wallet", dto.Owner)
	}

	return nil
}

// Get retrieves a wallet by owner identity without locking.
func (r *GormWalletRepository) Get(ctx context.Context, owner string) (*wallet.Wallet, error) {
	return r.get(ctx, owner, false)
}

// GetForUpdate retrieves a wallet by owner identity with a row lock held
// until the surrounding transaction ends. Concurrent debits against the
// same wallet serialize on this lock.
func (r *GormWalletRepository) GetForUpdate(ctx context.Context, owner string) (*wallet.Wallet, error) {
	return r.get(ctx, owner, true)
}

func (r *GormWalletRepository) get(ctx context.Context, owner string, forUpdate bool) (*wallet.Wallet, error) {
	if owner == "" {
		return nil, errs.NewValueIsRequiredError("owner")
	}

	db := r.db.WithContext(ctx)
	if forUpdate {
		db = db.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var dto WalletDTO
	if err := db.First(&dto, "owner = ?", owner).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("wallet", owner)
		}
		return nil, pgerrors.WrapTransient(err)
	}

	return toDomain(dto)
}
