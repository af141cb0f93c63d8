package commands_test

import (
	"errors"
	"testing"
	"time"

	"canteen/internal/core/application/usecases/commands"
	"canteen/internal/core/domain/model/inventory"
	"canteen/internal/core/domain/model/kernel"
	"canteen/internal/core/domain/model/order"
	"canteen/internal/core/domain/model/wallet"
	"canteen/internal/core/domain/services"
	"canteen/internal/core/ports"
	"canteen/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testPlanner() services.CyclePlanner {
	return services.NewCyclePlanner(services.DefaultPlannerConfig())
}

func mustWallet(t *testing.T, owner string, balanceMinor int64) *wallet.Wallet {
	t.Helper()

	balance, err := kernel.NewMoney(balanceMinor)
	require.NoError(t, err)

	w, err := wallet.NewWallet(owner, balance)
	require.NoError(t, err)
	return w
}

func mustStock(t *testing.T, name string, quantity int) *inventory.InventoryItem {
	t.Helper()

	i, err := inventory.NewItem(name, quantity)
	require.NoError(t, err)
	return i
}

func TestCreateOrderCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	now := time.Date(2026, 3, 10, 9, 10, 0, 0, time.UTC)
	items := []order.Item{
		mustItem(t, "veg thali", 2, 4500),
		mustItem(t, "samosa", 3, 1500),
	}
	cmd, err := commands.NewCreateOrderCommand("student-42", order.KindRegular, items, "Ground Floor", now)
	require.NoError(t, err)

	samosaStock := mustStock(t, "samosa", 10)
	thaliStock := mustStock(t, "veg thali", 10)
	payer := mustWallet(t, "student-42", 20000)

	orderRepo := new(MockOrderRepository)
	walletRepo := new(MockWalletRepository)
	invRepo := new(MockInventoryRepository)
	uow := new(MockUoW)
	factory := new(MockUoWFactory)

	// Items are locked alphabetically: samosa before veg thali.
	mock.InOrder(
		factory.On("Create").Return(uow).Once(),
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("InventoryRepository").Return(invRepo).Once(),
		invRepo.On("GetForUpdate", ctx, "samosa").Return(samosaStock, nil).Once(),
		invRepo.On("Update", ctx, samosaStock).Return(nil).Once(),
		invRepo.On("GetForUpdate", ctx, "veg thali").Return(thaliStock, nil).Once(),
		invRepo.On("Update", ctx, thaliStock).Return(nil).Once(),
		uow.On("WalletRepository").Return(walletRepo).Once(),
		walletRepo.On("GetForUpdate", ctx, "student-42").Return(payer, nil).Once(),
		walletRepo.On("Update", ctx, payer).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Add", ctx, mock.AnythingOfType("*order.Order")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	publisher := &recordingPublisher{}
	h := commands.NewCreateOrderCommandHandler(factory, testPlanner(), order.DefaultPolicies(), publisher)

	result, err := h.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, int64(13500), result.TotalPrice.Amount())
	assert.Equal(t, 65, result.TotalMinutes)
	assert.Equal(t, time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC), result.Timeline.CycleStart())
	assert.Equal(t, time.Date(2026, 3, 10, 10, 5, 0, 0, time.UTC), result.Timeline.DeliveryEnd())

	// Reservation and debit applied
	assert.Equal(t, 7, samosaStock.Quantity())
	assert.Equal(t, 8, thaliStock.Quantity())
	assert.Equal(t, int64(6500), payer.Balance().Amount())

	// Creation event fanned out to the owner and the admin dashboard
	ownerEvents := publisher.byTopic("student-42")
	require.Len(t, ownerEvents, 1)
	assert.Equal(t, "order_created", ownerEvents[0].Name)
	assert.Equal(t, "Pending", ownerEvents[0].Payload["status"])
	assert.Equal(t, "ground", ownerEvents[0].Payload["floor"])
	assert.Equal(t, int64(13500), ownerEvents[0].Payload["totalPrice"])
	assert.Len(t, publisher.byTopic(ports.TopicAdmin), 1)

	orderRepo.AssertExpectations(t)
	walletRepo.AssertExpectations(t)
	invRepo.AssertExpectations(t)
	uow.AssertExpectations(t)
	factory.AssertExpectations(t)
}

func TestCreateOrderCommandHandler_Handle_ValidationError(t *testing.T) {
	ctx := t.Context()
	cmd := commands.CreateOrderCommand{} // not constructed properly

	factory := new(MockUoWFactory)
	publisher := &recordingPublisher{}
	h := commands.NewCreateOrderCommandHandler(factory, testPlanner(), order.DefaultPolicies(), publisher)

	_, err := h.Handle(ctx, cmd)

	require.Error(t, err)
	assert.Zero(t, publisher.count())
	factory.AssertExpectations(t)
}

func TestCreateOrderCommandHandler_Handle_BulkBelowMinimum(t *testing.T) {
	ctx := t.Context()
	now := time.Date(2026, 3, 10, 9, 10, 0, 0, time.UTC)
	items := []order.Item{mustItem(t, "samosa", 2, 1500)}
	cmd, err := commands.NewCreateOrderCommand("hostel-3", order.KindBulk, items, "Second", now)
	require.NoError(t, err)

	factory := new(MockUoWFactory)
	publisher := &recordingPublisher{}
	h := commands.NewCreateOrderCommandHandler(factory, testPlanner(), order.DefaultPolicies(), publisher)

	_, err = h.Handle(ctx, cmd)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires at least 6 per item")
	// Rejected before any storage work
	factory.AssertNotCalled(t, "Create")
	assert.Zero(t, publisher.count())
}

func TestCreateOrderCommandHandler_Handle_InsufficientFunds(t *testing.T) {
	ctx := t.Context()
	now := time.Date(2026, 3, 10, 9, 10, 0, 0, time.UTC)
	items := []order.Item{mustItem(t, "veg thali", 2, 4500)}
	cmd, err := commands.NewCreateOrderCommand("student-42", order.KindRegular, items, "Ground", now)
	require.NoError(t, err)

	thaliStock := mustStock(t, "veg thali", 10)
	payer := mustWallet(t, "student-42", 5000) // order costs 9000

	walletRepo := new(MockWalletRepository)
	invRepo := new(MockInventoryRepository)
	uow := new(MockUoW)
	factory := new(MockUoWFactory)

	mock.InOrder(
		factory.On("Create").Return(uow).Once(),
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("InventoryRepository").Return(invRepo).Once(),
		invRepo.On("GetForUpdate", ctx, "veg thali").Return(thaliStock, nil).Once(),
		invRepo.On("Update", ctx, thaliStock).Return(nil).Once(),
		uow.On("WalletRepository").Return(walletRepo).Once(),
		walletRepo.On("GetForUpdate", ctx, "student-42").Return(payer, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	publisher := &recordingPublisher{}
	h := commands.NewCreateOrderCommandHandler(factory, testPlanner(), order.DefaultPolicies(), publisher)

	_, err = h.Handle(ctx, cmd)

	require.Error(t, err)
	assert.True(t, errors.Is(err, wallet.ErrInsufficientFunds))
	assert.True(t, errors.Is(err, errs.ErrConflict))
	assert.Equal(t, int64(5000), payer.Balance().Amount())
	assert.Zero(t, publisher.count())

	walletRepo.AssertExpectations(t)
	invRepo.AssertExpectations(t)
	uow.AssertExpectations(t)
	factory.AssertExpectations(t)
}

func TestCreateOrderCommandHandler_Handle_InsufficientStock(t *testing.T) {
	ctx := t.Context()
	now := time.Date(2026, 3, 10, 9, 10, 0, 0, time.UTC)
	items := []order.Item{mustItem(t, "veg thali", 5, 4500)}
	cmd, err := commands.NewCreateOrderCommand("student-42", order.KindRegular, items, "Ground", now)
	require.NoError(t, err)

	thaliStock := mustStock(t, "veg thali", 2)

	invRepo := new(MockInventoryRepository)
	uow := new(MockUoW)
	factory := new(MockUoWFactory)

	mock.InOrder(
		factory.On("Create").Return(uow).Once(),
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("InventoryRepository").Return(invRepo).Once(),
		invRepo.On("GetForUpdate", ctx, "veg thali").Return(thaliStock, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	publisher := &recordingPublisher{}
	h := commands.NewCreateOrderCommandHandler(factory, testPlanner(), order.DefaultPolicies(), publisher)

	_, err = h.Handle(ctx, cmd)

	require.Error(t, err)
	assert.True(t, errors.Is(err, inventory.ErrInsufficientStock))
	assert.Equal(t, 2, thaliStock.Quantity())
	assert.Zero(t, publisher.count())

	invRepo.AssertExpectations(t)
	uow.AssertExpectations(t)
	factory.AssertExpectations(t)
}

func TestCreateOrderCommandHandler_Handle_BeginError(t *testing.T) {
	ctx := t.Context()
	now := time.Date(2026, 3, 10, 9, 10, 0, 0, time.UTC)
	items := []order.Item{mustItem(t, "veg thali", 1, 4500)}
	cmd, err := commands.NewCreateOrderCommand("student-42", order.KindRegular, items, "Ground", now)
	require.NoError(t, err)

	uow := new(MockUoW)
	factory := new(MockUoWFactory)
	mock.InOrder(
		factory.On("Create").Return(uow).Once(),
		uow.On("Begin", ctx).Return(errors.New("begin error")).Once(),
		uow.On("Rollback", ctx).Return(errors.New("no transaction")).Once(),
	)

	publisher := &recordingPublisher{}
	h := commands.NewCreateOrderCommandHandler(factory, testPlanner(), order.DefaultPolicies(), publisher)

	_, err = h.Handle(ctx, cmd)

	require.Error(t, err)
	assert.Zero(t, publisher.count())
}

func TestCreateOrderCommandHandler_Handle_TransientCommitRetriesThenFails(t *testing.T) {
	ctx := t.Context()
	now := time.Date(2026, 3, 10, 9, 10, 0, 0, time.UTC)
	items := []order.Item{mustItem(t, "veg thali", 1, 4500)}
	cmd, err := commands.NewCreateOrderCommand("student-42", order.KindRegular, items, "Ground", now)
	require.NoError(t, err)

	// Initial attempt plus three retries, each re-running the full unit.
	const attempts = 4

	thaliStock := mustStock(t, "veg thali", 20)
	payer := mustWallet(t, "student-42", 100000)

	orderRepo := new(MockOrderRepository)
	walletRepo := new(MockWalletRepository)
	invRepo := new(MockInventoryRepository)
	uow := new(MockUoW)
	factory := new(MockUoWFactory)

	factory.On("Create").Return(uow).Times(attempts)
	uow.On("Begin", ctx).Return(nil).Times(attempts)
	uow.On("InventoryRepository").Return(invRepo).Times(attempts)
	invRepo.On("GetForUpdate", ctx, "veg thali").Return(thaliStock, nil).Times(attempts)
	invRepo.On("Update", ctx, thaliStock).Return(nil).Times(attempts)
	uow.On("WalletRepository").Return(walletRepo).Times(attempts)
	walletRepo.On("GetForUpdate", ctx, "student-42").Return(payer, nil).Times(attempts)
	walletRepo.On("Update", ctx, payer).Return(nil).Times(attempts)
	uow.On("OrderRepository").Return(orderRepo).Times(attempts)
	orderRepo.On("Add", ctx, mock.AnythingOfType("*order.Order")).Return(nil).Times(attempts)
	uow.On("Commit", ctx).Return(errs.NewTransientError(errors.New("deadlock detected"))).Times(attempts)
	uow.On("Rollback", ctx).Return(errors.New("no transaction")).Times(attempts)

	publisher := &recordingPublisher{}
	h := commands.NewCreateOrderCommandHandler(factory, testPlanner(), order.DefaultPolicies(), publisher)

	_, err = h.Handle(ctx, cmd)

	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrTransient))
	assert.Zero(t, publisher.count())

	uow.AssertExpectations(t)
	factory.AssertExpectations(t)
}
