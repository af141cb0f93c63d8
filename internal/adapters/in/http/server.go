// Package http exposes the order lifecycle over a JSON REST API.
// Handlers translate requests into commands and queries and map the error
// taxonomy onto HTTP status codes.
package http

import (
	"errors"
	"net/http"
	"time"

	"canteen/internal/core/application/usecases/commands"
	"canteen/internal/core/application/usecases/queries"
	"canteen/internal/core/domain/model/kernel"
	"canteen/internal/core/domain/model/order"
	"canteen/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	// Command handlers
	createOrderHandler       commands.CreateOrderCommandHandler
	cancelOrderHandler       commands.CancelOrderCommandHandler
	updateOrderStatusHandler commands.UpdateOrderStatusCommandHandler

	// Query handlers
	getOrderHandler         queries.GetOrderQueryHandler
	listQueueHandler        queries.ListQueueQueryHandler
	getWalletBalanceHandler queries.GetWalletBalanceQueryHandler
}

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(
	createOrderHandler commands.CreateOrderCommandHandler,
	cancelOrderHandler commands.CancelOrderCommandHandler,
	updateOrderStatusHandler commands.UpdateOrderStatusCommandHandler,
	getOrderHandler queries.GetOrderQueryHandler,
	listQueueHandler queries.ListQueueQueryHandler,
	getWalletBalanceHandler queries.GetWalletBalanceQueryHandler,
) *Server {
	return &Server{
		createOrderHandler:       createOrderHandler,
		cancelOrderHandler:       cancelOrderHandler,
		updateOrderStatusHandler: updateOrderStatusHandler,
		getOrderHandler:          getOrderHandler,
		listQueueHandler:         listQueueHandler,
		getWalletBalanceHandler:  getWalletBalanceHandler,
	}
}

// RegisterRoutes attaches all API routes to the echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api/v1")

	api.POST("/orders", s.CreateOrder)
	api.GET("/orders/queue", s.GetQueue)
	api.GET("/orders/:id", s.GetOrder)
	api.POST("/orders/:id/cancel", s.CancelOrder)
	api.PATCH("/orders/:id/status", s.UpdateOrderStatus)
	api.GET("/wallets/:owner/balance", s.GetWalletBalance)

	e.GET("/health", s.Health)
}

// Response is the uniform envelope every endpoint replies with.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// orderItemRequest is one line item of an order submission.
type orderItemRequest struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Price    int64  `json:"price"`
}

// createOrderRequest is the body of POST /api/v1/orders.
type createOrderRequest struct {
	Owner string             `json:"owner"`
	Kind  string             `json:"kind"`
	Items []orderItemRequest `json:"items"`
	Floor string             `json:"floor"`
}

// cancelOrderRequest is the body of POST /api/v1/orders/:id/cancel.
type cancelOrderRequest struct {
	Requester string `json:"requester"`
}

// updateOrderStatusRequest is the body of PATCH /api/v1/orders/:id/status.
type updateOrderStatusRequest struct {
	Status string `json:"status"`
}

// CreateOrder handles POST /api/v1/orders.
func (s *Server) CreateOrder(ctx echo.Context) error {
	var req createOrderRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	kind := order.KindRegular
	if req.Kind != "" {
		var err error
		if kind, err = order.KindFromString(req.Kind); err != nil {
			return badRequest(ctx, "Unknown order kind: "+req.Kind)
		}
	}

	items := make([]order.Item, 0, len(req.Items))
	for _, raw := range req.Items {
		price, err := kernel.NewMoney(raw.Price)
		if err != nil {
			return badRequest(ctx, "Invalid item price: "+err.Error())
		}

		item, err := order.NewItem(raw.Name, raw.Quantity, price)
		if err != nil {
			return badRequest(ctx, "Invalid item: "+err.Error())
		}

		items = append(items, item)
	}

	cmd, err := commands.NewCreateOrderCommand(req.Owner, kind, items, req.Floor, time.Now())
	if err != nil {
		return badRequest(ctx, "Invalid order data: "+err.Error())
	}

	result, err := s.createOrderHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return mapError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, Response{
		Success: true,
		Data: map[string]any{
			"orderId":     result.OrderID.String(),
			"totalPrice":  result.TotalPrice.Amount(),
			"totalTime":   result.TotalMinutes,
			"cycleStart":  result.Timeline.CycleStart(),
			"cycleEnd":    result.Timeline.CycleEnd(),
			"bufferEnd":   result.Timeline.BufferEnd(),
			"deliveryEnd": result.Timeline.DeliveryEnd(),
		},
	})
}

// CancelOrder handles POST /api/v1/orders/:id/cancel.
func (s *Server) CancelOrder(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid order token")
	}

	var req cancelOrderRequest
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	cmd, err := commands.NewCancelOrderCommand(orderID, req.Requester, time.Now())
	if err != nil {
		return badRequest(ctx, "Invalid cancellation data: "+err.Error())
	}

	result, err := s.cancelOrderHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return mapError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, Response{
		Success: true,
		Message: "Order cancelled",
		Data: map[string]any{
			"refundAmount": result.RefundAmount.Amount(),
			"newBalance":   result.NewBalance.Amount(),
		},
	})
}

// UpdateOrderStatus handles PATCH /api/v1/orders/:id/status.
func (s *Server) UpdateOrderStatus(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid order token")
	}

	var req updateOrderStatusRequest
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	target, err := order.StatusFromString(req.Status)
	if err != nil {
		return badRequest(ctx, "Unknown status: "+req.Status)
	}

	cmd, err := commands.NewUpdateOrderStatusCommand(orderID, target, time.Now())
	if err != nil {
		return badRequest(ctx, "Invalid status data: "+err.Error())
	}

	if err = s.updateOrderStatusHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return mapError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, Response{
		Success: true,
		Message: "Order moved to " + target.String(),
	})
}

// GetOrder handles GET /api/v1/orders/:id.
func (s *Server) GetOrder(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid order token")
	}

	query, err := queries.NewGetOrderQuery(orderID)
	if err != nil {
		return badRequest(ctx, "Invalid order token")
	}

	resp, err := s.getOrderHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return mapError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, Response{Success: true, Data: resp})
}

// GetQueue handles GET /api/v1/orders/queue.
func (s *Server) GetQueue(ctx echo.Context) error {
	queue, err := s.listQueueHandler.Handle(ctx.Request().Context(), queries.NewListQueueQuery())
	if err != nil {
		return mapError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, Response{Success: true, Data: queue})
}

// GetWalletBalance handles GET /api/v1/wallets/:owner/balance.
func (s *Server) GetWalletBalance(ctx echo.Context) error {
	query, err := queries.NewGetWalletBalanceQuery(ctx.Param("owner"))
	if err != nil {
		return badRequest(ctx, "Invalid owner")
	}

	resp, err := s.getWalletBalanceHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return mapError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, Response{Success: true, Data: resp})
}

// Health handles GET /health.
func (s *Server) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, Response{Success: true, Message: "ok"})
}

func badRequest(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusBadRequest, Response{Success: false, Message: message})
}

// mapError translates the error taxonomy onto HTTP status codes. Internal
// failures are reported without detail; the cause stays in the server logs.
func mapError(ctx echo.Context, err error) error {
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		return ctx.JSON(http.StatusNotFound, Response{Success: false, Message: err.Error()})
	case errors.Is(err, errs.ErrConflict):
		return ctx.JSON(http.StatusConflict, Response{Success: false, Message: err.Error()})
	case errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		return ctx.JSON(http.StatusBadRequest, Response{Success: false, Message: err.Error()})
	default:
		ctx.Logger().Error(err)
		return ctx.JSON(http.StatusInternalServerError, Response{Success: false, Message: "Internal server error"})
	}
}
