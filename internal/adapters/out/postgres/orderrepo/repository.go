package orderrepo

import (
	"context"
	"errors"
	"time"

	"canteen/internal/adapters/out/postgres/pgerrors"
	"canteen/internal/core/domain/model/kernel"
	"canteen/internal/core/domain/model/order"
	"canteen/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormOrderRepository implements OrderRepository using GORM.
type GormOrderRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormOrderRepository creates a new GORM order repository.
func NewGormOrderRepository(db *gorm.DB, tracker aggregateTracker) *GormOrderRepository {
	return &GormOrderRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new order to the database.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto, err := fromDomain(aggregate)
	if err != nil {
		return err
	}

	if err = r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update saves an existing order to the database.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto, err := fromDomain(aggregate)
	if err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Model(&OrderDTO{}).Where("id = ?", dto.ID).Updates(&dto)
	if result.Error != nil {
		return pgerrors.WrapTransient(result.Error)
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves an order by its token without locking.
func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	return r.get(ctx, id, false)
}

// GetForUpdate retrieves an order by its token with a row lock held until
// the surrounding transaction ends. A locked read that waited on another
// transaction observes that transaction's committed status, so a concurrent
// cancellation or progression tick cannot act on a stale one.
func (r *GormOrderRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	return r.get(ctx, id, true)
}

func (r *GormOrderRepository) get(ctx context.Context, id kernel.UUID, forUpdate bool) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	db := r.db.WithContext(ctx)
	if forUpdate {
		db = db.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var dto OrderDTO
	if err := db.First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id.String())
		}
		return nil, pgerrors.WrapTransient(err)
	}

	return toDomain(dto)
}

// GetAllDueForPreparation retrieves Pending orders whose buffer window has
// ended at or before now.
func (r *GormOrderRepository) GetAllDueForPreparation(ctx context.Context, now time.Time) ([]*order.Order, error) {
	return r.findAll(ctx, "status = ? AND buffer_end <= ?", order.Pending, now)
}

// GetAllDueForDispatch retrieves Preparing orders whose preparation deadline
// has passed at or before now.
func (r *GormOrderRepository) GetAllDueForDispatch(ctx context.Context, now time.Time) ([]*order.Order, error) {
	return r.findAll(ctx, "status = ? AND preparation_end <= ?", order.Preparing, now)
}

// GetAllDueForDelivery retrieves OnTheWay orders whose delivery deadline has
// passed at or before now.
func (r *GormOrderRepository) GetAllDueForDelivery(ctx context.Context, now time.Time) ([]*order.Order, error) {
	return r.findAll(ctx, "status = ? AND delivery_end <= ?", order.OnTheWay, now)
}

// GetAllStale retrieves active orders created before the cutoff.
func (r *GormOrderRepository) GetAllStale(ctx context.Context, cutoff time.Time) ([]*order.Order, error) {
	return r.findAll(ctx, "status IN (?, ?, ?) AND created_at < ?",
		order.Pending, order.Preparing, order.OnTheWay, cutoff)
}

// findAll selects a progression batch with row locks. The lock makes a
// fetch that waited on a concurrent writer re-check the status condition
// against the committed row, so an order cancelled mid-tick drops out of
// the batch instead of being transitioned over.
func (r *GormOrderRepository) findAll(ctx context.Context, cond string, args ...any) ([]*order.Order, error) {
	var dtos []OrderDTO
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where(cond, args...).
		Order("created_at").
		Find(&dtos).Error
	if err != nil {
		return nil, pgerrors.WrapTransient(err)
	}

	orders := make([]*order.Order, 0, len(dtos))
	for _, dto := range dtos {
		o, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}

	return orders, nil
}
