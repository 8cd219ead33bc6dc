package service

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spec-kit/shop-service/internal/domain"
	"github.com/spec-kit/shop-service/internal/events"
	"github.com/spec-kit/shop-service/internal/observability"
	"github.com/spec-kit/shop-service/internal/repository"
	apperrors "github.com/spec-kit/shop-service/pkg/util"
)

const defaultMaxParallelWrites = 8

// OrderService places orders and serves the caller's order history.
type OrderService struct {
	orders      repository.OrderRepository
	items       repository.OrderItemRepository
	products    repository.ProductRepository
	dispatcher  events.Dispatcher
	metrics     *observability.Metrics
	logger      *zap.Logger
	maxParallel int
}

// OrderDependencies bundles collaborators for the order service.
type OrderDependencies struct {
	OrderRepo         repository.OrderRepository
	OrderItemRepo     repository.OrderItemRepository
	ProductRepo       repository.ProductRepository
	Dispatcher        events.Dispatcher
	Metrics           *observability.Metrics
	Logger            *zap.Logger
	MaxParallelWrites int
}

// OrderLineInput is one requested line of a new order.
type OrderLineInput struct {
	ProductID string
	Quantity  int
}

// PlaceOrderInput describes an order placement request.
type PlaceOrderInput struct {
	Shipping domain.ShippingInfo
	Items    []OrderLineInput
}

// NewOrderService constructs the service.
func NewOrderService(deps OrderDependencies) *OrderService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	maxParallel := deps.MaxParallelWrites
	if maxParallel <= 0 {
		maxParallel = defaultMaxParallelWrites
	}
	return &OrderService{
		orders:      deps.OrderRepo,
		items:       deps.OrderItemRepo,
		products:    deps.ProductRepo,
		dispatcher:  deps.Dispatcher,
		metrics:     deps.Metrics,
		logger:      logger,
		maxParallel: maxParallel,
	}
}

// PlaceOrder persists one order item per line, prices each against the
// product catalog and then persists the order referencing them in input order.
// The two phases are not atomic: items written before a failure stay behind
// unreferenced until the orphan sweeper removes them.
func (s *OrderService) PlaceOrder(ctx context.Context, userID string, input PlaceOrderInput) (*domain.Order, error) {
	if err := validateOrderLines(input.Items); err != nil {
		return nil, err
	}

	// a disconnecting client must not abandon a half-written order
	writeCtx := context.WithoutCancel(ctx)

	n := len(input.Items)
	items := make([]domain.OrderItem, n)
	lineTotals := make([]decimal.Decimal, n)
	written := make([]bool, n)

	var g errgroup.Group
	g.SetLimit(s.maxParallel)
	for i, line := range input.Items {
		i, line := i, line
		g.Go(func() error {
			item := domain.OrderItem{
				ID:        uuid.NewString(),
				ProductID: line.ProductID,
				Quantity:  line.Quantity,
			}
			if err := s.items.Create(writeCtx, &item); err != nil {
				if errors.Is(err, domain.ErrProductNotFound) {
					return apperrors.NewInvalidReference("product not found", map[string]any{"product": line.ProductID})
				}
				return apperrors.NewPersistenceError("failed to create order item", err)
			}
			items[i] = item
			written[i] = true

			product, err := s.products.GetByID(writeCtx, item.ProductID)
			if err != nil {
				if errors.Is(err, domain.ErrProductNotFound) {
					return apperrors.NewInvalidReference("product not found", map[string]any{"product": line.ProductID})
				}
				return errors.Wrapf(err, "resolve price of product %s", item.ProductID)
			}
			lineTotals[i] = product.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.reportOrphans(userID, items, written, err)
		return nil, err
	}

	ids := make([]string, n)
	total := decimal.Zero
	for i := range items {
		ids[i] = items[i].ID
		total = total.Add(lineTotals[i])
	}

	order := &domain.Order{
		ID:           uuid.NewString(),
		OrderItemIDs: ids,
		Items:        items,
		Shipping:     input.Shipping,
		TotalPrice:   total,
		UserID:       userID,
		Status:       domain.OrderStatusPending,
	}
	if err := s.orders.Create(writeCtx, order); err != nil {
		s.reportOrphans(userID, items, written, err)
		return nil, apperrors.NewPersistenceError("failed to create order", err)
	}

	s.metrics.OrderPlaced()
	s.publishEvent(writeCtx, events.Event{
		Type:    events.EventOrderPlaced,
		OrderID: order.ID,
		UserID:  userID,
		Payload: events.OrderPlacedPayload{
			ItemCount:  n,
			TotalPrice: total,
			Status:     order.Status,
		},
	})
	return order, nil
}

// ListOrders returns the caller's orders, oldest first.
func (s *OrderService) ListOrders(ctx context.Context, userID string) ([]domain.Order, error) {
	orders, err := s.orders.ListByUser(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "list orders")
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	return orders, nil
}

// GetOrder returns one order owned by the caller.
func (s *OrderService) GetOrder(ctx context.Context, userID, orderID string) (*domain.Order, error) {
	order, err := s.orders.GetForUser(ctx, userID, orderID)
	if err != nil {
		return nil, mapOrderLookupError(err, orderID)
	}
	return order, nil
}

// UpdateOrder applies the allow-listed fields of patch to an order owned by the caller.
func (s *OrderService) UpdateOrder(ctx context.Context, userID, orderID string, patch domain.OrderPatch) (*domain.Order, error) {
	if patch.IsEmpty() {
		return nil, apperrors.NewInvalidInput("no updatable fields supplied", nil)
	}

	order, err := s.orders.UpdateForUser(ctx, userID, orderID, patch)
	if err != nil {
		return nil, mapOrderLookupError(err, orderID)
	}

	s.publishEvent(ctx, events.Event{
		Type:    events.EventOrderUpdated,
		OrderID: order.ID,
		UserID:  userID,
		Payload: events.OrderUpdatedPayload{
			Fields: patchedFields(patch),
			Status: order.Status,
		},
	})
	return order, nil
}

func validateOrderLines(lines []OrderLineInput) error {
	if len(lines) == 0 {
		return apperrors.NewInvalidInput("order must contain at least one item", nil)
	}
	for i, line := range lines {
		if line.ProductID == "" {
			return apperrors.NewInvalidInput("product is required", map[string]any{"index": i})
		}
		if line.Quantity <= 0 {
			return apperrors.NewInvalidInput("quantity must be positive", map[string]any{"index": i})
		}
	}
	return nil
}

func mapOrderLookupError(err error, orderID string) error {
	if errors.Is(err, domain.ErrOrderNotFound) {
		return apperrors.NewNotFound("order not found")
	}
	return errors.Wrapf(err, "order %s", orderID)
}

func (s *OrderService) reportOrphans(userID string, items []domain.OrderItem, written []bool, cause error) {
	orphans := make([]string, 0, len(items))
	for i, ok := range written {
		if ok {
			orphans = append(orphans, items[i].ID)
		}
	}
	if len(orphans) == 0 {
		return
	}
	s.metrics.ItemsOrphaned(len(orphans))
	s.logger.Warn("order placement failed after writing items",
		zap.String("user_id", userID),
		zap.Strings("orphaned_item_ids", orphans),
		zap.Error(cause))
}

func patchedFields(p domain.OrderPatch) []string {
	fields := []string{}
	for _, f := range []struct {
		name  string
		value *string
	}{
		{"shipping_address1", p.ShippingAddress1},
		{"shipping_address2", p.ShippingAddress2},
		{"city", p.City},
		{"zip", p.Zip},
		{"country", p.Country},
		{"phone", p.Phone},
		{"status", p.Status},
	} {
		if f.value != nil {
			fields = append(fields, f.name)
		}
	}
	return fields
}

func (s *OrderService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
