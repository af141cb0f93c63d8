package cmd

import (
	"time"

	"canteen/internal/adapters/out/fanout"
	"canteen/internal/adapters/out/postgres"
	"canteen/internal/core/application/usecases/commands"
	"canteen/internal/core/application/usecases/queries"
	"canteen/internal/core/domain/model/order"
	"canteen/internal/core/domain/services"

	"gorm.io/gorm"
)

// stalenessThreshold is how old an active order must be before the sweep
// force-cancels it.
const stalenessThreshold = 24 * time.Hour

type CompositionRoot struct {
	gormDB     *gorm.DB
	uowFactory postgres.GormUnitOfWorkFactory
	planner    services.CyclePlanner
	policies   order.PolicySet
	fanout     *fanout.Service
}

func NewCompositionRoot(_ Config, gormDB *gorm.DB) CompositionRoot {
	return CompositionRoot{
		gormDB:     gormDB,
		uowFactory: *postgres.NewGormUnitOfWorkFactory(gormDB),
		planner:    services.NewCyclePlanner(services.DefaultPlannerConfig()),
		policies:   order.DefaultPolicies(),
		fanout:     fanout.NewService(),
	}
}

// FanoutService returns the event fanout shared by command handlers and the
// WebSocket stream.
func (c *CompositionRoot) FanoutService() *fanout.Service {
	return c.fanout
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewCreateOrderCommandHandler(f, c.planner, c.policies, c.fanout)
}

func (c *CompositionRoot) CreateCancelOrderCommandHandler() commands.CancelOrderCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewCancelOrderCommandHandler(f, c.policies, c.fanout)
}

func (c *CompositionRoot) CreateUpdateOrderStatusCommandHandler() commands.UpdateOrderStatusCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewUpdateOrderStatusCommandHandler(f, c.fanout)
}

func (c *CompositionRoot) CreateProgressOrdersCommandHandler() commands.ProgressOrdersCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewProgressOrdersCommandHandler(f, c.fanout, stalenessThreshold)
}

func (c *CompositionRoot) CreateRebuildSnapshotCommandHandler() commands.RebuildSnapshotCommandHandler {
	var f commands.InventoryUoWFactory = FuncInventoryUoWFactory(func() commands.InventoryUoW {
		return c.uowFactory.Create()
	})
	return commands.NewRebuildSnapshotCommandHandler(f)
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateListQueueQueryHandler() queries.ListQueueQueryHandler {
	return queries.NewListQueueQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetWalletBalanceQueryHandler() queries.GetWalletBalanceQueryHandler {
	return queries.NewGetWalletBalanceQueryHandler(c.gormDB)
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncInventoryUoWFactory func() commands.InventoryUoW

func (f FuncInventoryUoWFactory) Create() commands.InventoryUoW {
	return f()
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}
