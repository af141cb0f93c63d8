package orderrepo_test

import (
	"context"
	"testing"
	"time"

	"canteen/internal/adapters/out/postgres/orderrepo"
	"canteen/internal/core/domain/model/kernel"
	"canteen/internal/core/domain/model/order"
	"canteen/internal/pkg/errs"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// MockAggregateTracker is a mock implementation of aggregateTracker interface.
type MockAggregateTracker struct {
	mock.Mock
}

func (m *MockAggregateTracker) TrackAggregate(id kernel.UUID, aggregate any) {
	m.Called(id, aggregate)
}

// OrderRepositoryIntegrationTestSuite provides integration tests for
// GormOrderRepository using PostgreSQL containers to verify persistence
// behavior, including the progression batch queries.
type OrderRepositoryIntegrationTestSuite struct {
	suite.Suite
	container  *postgres.PostgresContainer
	db         *gorm.DB
	repository *orderrepo.GormOrderRepository
	tracker    *MockAggregateTracker
}

func (suite *OrderRepositoryIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(postgresdriver.Open(connStr), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(db.AutoMigrate(&orderrepo.OrderDTO{}))
}

func (suite *OrderRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE orders").Error)

	suite.tracker = new(MockAggregateTracker)
	suite.repository = orderrepo.NewGormOrderRepository(suite.db, suite.tracker)
}

func (suite *OrderRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *OrderRepositoryIntegrationTestSuite) TestAdd_ValidOrder_Success() {
	ctx := context.Background()

	testOrder := suite.createTestOrder("student-42")

	suite.tracker.On("TrackAggregate", testOrder.ID(), testOrder).Once()

	err := suite.repository.Add(ctx, testOrder)
	suite.Require().NoError(err)

	suite.assertOrderCount(1)
	suite.tracker.AssertExpectations(suite.T())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGet_ExistingOrder_RoundTripsAllFields() {
	ctx := context.Background()

	original := suite.createTestOrder("student-42")
	suite.tracker.On("TrackAggregate", original.ID(), original).Once()
	suite.Require().NoError(suite.repository.Add(ctx, original))

	retrieved, err := suite.repository.Get(ctx, original.ID())
	suite.Require().NoError(err)

	suite.Equal(original.ID(), retrieved.ID())
	suite.Equal("student-42", retrieved.Owner())
	suite.Equal(order.KindRegular, retrieved.Kind())
	suite.Equal("ground", retrieved.Floor())
	suite.Equal(order.Pending, retrieved.Status())
	suite.Equal(original.TotalPrice().Amount(), retrieved.TotalPrice().Amount())
	suite.Require().Len(retrieved.Items(), 2)
	suite.Equal("veg thali", retrieved.Items()[0].Name())
	suite.Equal(2, retrieved.Items()[0].Quantity())
	suite.True(original.Timeline().CycleStart().Equal(retrieved.Timeline().CycleStart()))
	suite.True(original.Timeline().BufferEnd().Equal(retrieved.Timeline().BufferEnd()))
	suite.True(original.Timeline().DeliveryEnd().Equal(retrieved.Timeline().DeliveryEnd()))

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGet_NonExistentOrder_ReturnsNotFoundError() {
	ctx := context.Background()

	retrieved, err := suite.repository.Get(ctx, kernel.NewUUID())

	suite.Nil(retrieved)
	suite.Require().Error(err)

	var notFoundErr *errs.ObjectNotFoundError
	suite.Require().ErrorAs(err, &notFoundErr)

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGetForUpdate_ExistingOrder_ReturnsOrder() {
	ctx := context.Background()

	testOrder := suite.createTestOrder("student-42")
	suite.tracker.On("TrackAggregate", testOrder.ID(), testOrder).Once()
	suite.Require().NoError(suite.repository.Add(ctx, testOrder))

	retrieved, err := suite.repository.GetForUpdate(ctx, testOrder.ID())
	suite.Require().NoError(err)

	suite.Equal(testOrder.ID(), retrieved.ID())
	suite.Equal(order.Pending, retrieved.Status())

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGetForUpdate_NonExistentOrder_ReturnsNotFoundError() {
	ctx := context.Background()

	retrieved, err := suite.repository.GetForUpdate(ctx, kernel.NewUUID())

	suite.Nil(retrieved)
	suite.Require().Error(err)

	var notFoundErr *errs.ObjectNotFoundError
	suite.Require().ErrorAs(err, &notFoundErr)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_StatusAndCancelReasonPersist() {
	ctx := context.Background()

	testOrder := suite.createTestOrder("student-42")
	suite.tracker.On("TrackAggregate", testOrder.ID(), testOrder).Twice()
	suite.Require().NoError(suite.repository.Add(ctx, testOrder))

	suite.Require().NoError(testOrder.Cancel("cancelled by owner"))
	suite.Require().NoError(suite.repository.Update(ctx, testOrder))

	retrieved, err := suite.repository.Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Equal(order.Cancelled, retrieved.Status())
	suite.Equal("cancelled by owner", retrieved.CancelReason())

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_NonExistentOrder_ReturnsError() {
	ctx := context.Background()

	missing := suite.createTestOrder("student-42")

	err := suite.repository.Update(ctx, missing)
	suite.Require().Error(err)
	suite.ErrorIs(err, gorm.ErrRecordNotFound)

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestProgressionQueries_SelectByStatusAndDeadline() {
	ctx := context.Background()
	now := time.Date(2026, 3, 10, 10, 30, 0, 0, time.UTC)

	suite.tracker.On("TrackAggregate", mock.AnythingOfType("kernel.UUID"), mock.Anything).Times(5)

	// Pending with buffer already over, qualifies for preparation
	duePending := suite.createTestOrder("student-1")
	suite.Require().NoError(suite.repository.Add(ctx, duePending))

	// Preparing with the preparation deadline passed, qualifies for dispatch
	dueDispatch := suite.createTestOrder("student-2")
	suite.Require().NoError(dueDispatch.StartPreparing(dueDispatch.Timeline().BufferEnd()))
	suite.Require().NoError(suite.repository.Add(ctx, dueDispatch))

	// OnTheWay with the delivery deadline passed, qualifies for delivery
	dueDelivery := suite.createTestOrder("student-3")
	suite.Require().NoError(dueDelivery.StartPreparing(dueDelivery.Timeline().BufferEnd()))
	suite.Require().NoError(dueDelivery.Dispatch(dueDelivery.Timeline().PreparationEnd()))
	suite.Require().NoError(suite.repository.Add(ctx, dueDelivery))

	// Pending but in a future cycle, qualifies for nothing yet
	futureOrder := suite.createTestOrderInCycle("student-4", now.Add(time.Hour))
	suite.Require().NoError(suite.repository.Add(ctx, futureOrder))

	// Terminal, never selected
	cancelledOrder := suite.createTestOrder("student-5")
	suite.Require().NoError(cancelledOrder.Cancel("cancelled by owner"))
	suite.Require().NoError(suite.repository.Add(ctx, cancelledOrder))

	forPreparation, err := suite.repository.GetAllDueForPreparation(ctx, now)
	suite.Require().NoError(err)
	suite.Require().Len(forPreparation, 1)
	suite.Equal(duePending.ID(), forPreparation[0].ID())

	forDispatch, err := suite.repository.GetAllDueForDispatch(ctx, now)
	suite.Require().NoError(err)
	suite.Require().Len(forDispatch, 1)
	suite.Equal(dueDispatch.ID(), forDispatch[0].ID())

	forDelivery, err := suite.repository.GetAllDueForDelivery(ctx, now)
	suite.Require().NoError(err)
	suite.Require().Len(forDelivery, 1)
	suite.Equal(dueDelivery.ID(), forDelivery[0].ID())

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGetAllStale_SelectsOnlyOldActiveOrders() {
	ctx := context.Background()
	now := time.Date(2026, 3, 12, 10, 0, 0, 0, time.UTC)
	cutoff := now.Add(-24 * time.Hour)

	suite.tracker.On("TrackAggregate", mock.AnythingOfType("kernel.UUID"), mock.Anything).Times(3)

	// Two days old and still pending
	staleOrder := suite.createTestOrder("student-1")
	suite.Require().NoError(suite.repository.Add(ctx, staleOrder))

	// Two days old but already cancelled
	oldCancelled := suite.createTestOrder("student-2")
	suite.Require().NoError(oldCancelled.Cancel("cancelled by owner"))
	suite.Require().NoError(suite.repository.Add(ctx, oldCancelled))

	// Fresh
	freshOrder := suite.createTestOrderInCycle("student-3", now)
	suite.Require().NoError(suite.repository.Add(ctx, freshOrder))

	stale, err := suite.repository.GetAllStale(ctx, cutoff)
	suite.Require().NoError(err)
	suite.Require().Len(stale, 1)
	suite.Equal(staleOrder.ID(), stale[0].ID())

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGetAllDueForPreparation_Empty_ReturnsEmptySlice() {
	ctx := context.Background()

	due, err := suite.repository.GetAllDueForPreparation(ctx, time.Now().UTC())
	suite.Require().NoError(err)
	suite.Empty(due)
}

// createTestOrder creates a pending order placed at 09:10 on 2026-03-10 to
// the ground floor, cycle 09:00-09:45, delivery due 10:05.
func (suite *OrderRepositoryIntegrationTestSuite) createTestOrder(owner string) *order.Order {
	return suite.createTestOrderInCycle(owner, time.Date(2026, 3, 10, 9, 10, 0, 0, time.UTC))
}

// createTestOrderInCycle creates a pending order whose timeline starts at the
// given placement time.
func (suite *OrderRepositoryIntegrationTestSuite) createTestOrderInCycle(
	owner string, placedAt time.Time,
) *order.Order {
	timeline, err := order.NewTimeline(
		placedAt.Add(-10*time.Minute),
		placedAt.Add(35*time.Minute),
		placedAt.Add(5*time.Minute),
		placedAt.Add(55*time.Minute),
	)
	suite.Require().NoError(err)

	price, err := kernel.NewMoney(4500)
	suite.Require().NoError(err)
	thali, err := order.NewItem("veg thali", 2, price)
	suite.Require().NoError(err)

	price, err = kernel.NewMoney(1500)
	suite.Require().NoError(err)
	samosa, err := order.NewItem("samosa", 3, price)
	suite.Require().NoError(err)

	testOrder, err := order.NewOrder(
		kernel.NewUUID(), owner, order.KindRegular,
		[]order.Item{thali, samosa}, "ground", timeline, placedAt,
	)
	suite.Require().NoError(err)
	return testOrder
}

// assertOrderCount verifies the number of orders in the database.
func (suite *OrderRepositoryIntegrationTestSuite) assertOrderCount(expected int) {
	var count int64
	err := suite.db.Model(&orderrepo.OrderDTO{}).Count(&count).Error
	suite.Require().NoError(err)
	suite.Equal(int64(expected), count)
}

func TestOrderRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(OrderRepositoryIntegrationTestSuite))
}
