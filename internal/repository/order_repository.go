package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/shop-service/internal/domain"
)

// OrderRepository encapsulates order persistence. Every read and write is
// scoped to the owning user; a foreign order behaves exactly like a missing one.
type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	ListByUser(ctx context.Context, userID string) ([]domain.Order, error)
	GetForUser(ctx context.Context, userID, orderID string) (*domain.Order, error)
	UpdateForUser(ctx context.Context, userID, orderID string, patch domain.OrderPatch) (*domain.Order, error)
}

type orderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository instantiates repository.
func NewOrderRepository(pool *pgxpool.Pool) OrderRepository {
	return &orderRepository{pool: pool}
}

const orderSelect = `
        SELECT o.id, o.user_id, o.order_item_ids::text[], o.shipping_address1, o.shipping_address2,
               o.city, o.zip, o.country, o.phone, o.total_price, o.status, o.created_at, o.updated_at,
               u.name, u.email, u.phone
        FROM orders o
        JOIN users u ON u.id = o.user_id`

const orderItemsSelect = `
        SELECT o.id, oi.id, oi.product_id, oi.quantity, oi.created_at, p.name, p.description, p.price
        FROM orders o
        CROSS JOIN LATERAL unnest(o.order_item_ids) WITH ORDINALITY AS t(item_id, pos)
        JOIN order_items oi ON oi.id = t.item_id
        JOIN products p ON p.id = oi.product_id
        WHERE o.id = ANY($1::text[]::uuid[])
        ORDER BY o.id, t.pos`

func (r *orderRepository) Create(ctx context.Context, order *domain.Order) error {
	const query = `
        INSERT INTO orders (id, user_id, order_item_ids, shipping_address1, shipping_address2,
            city, zip, country, phone, total_price, status)
        VALUES ($1, $2, $3::text[]::uuid[], $4, $5, $6, $7, $8, $9, $10, $11)
        RETURNING created_at, updated_at`

	err := r.pool.QueryRow(ctx, query,
		order.ID,
		order.UserID,
		order.OrderItemIDs,
		order.Shipping.Address1,
		order.Shipping.Address2,
		order.Shipping.City,
		order.Shipping.Zip,
		order.Shipping.Country,
		order.Shipping.Phone,
		order.TotalPrice,
		order.Status,
	).Scan(&order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return fmt.Errorf("creating order %q: %w", order.ID, err)
	}
	return nil
}

func (r *orderRepository) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	query := orderSelect + ` WHERE o.user_id = $1 ORDER BY o.created_at, o.id`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("listing orders: %w", err)
	}
	orders, err := pgx.CollectRows(rows, scanOrder)
	if err != nil {
		return nil, fmt.Errorf("listing orders: %w", err)
	}
	if err := r.attachItems(ctx, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *orderRepository) GetForUser(ctx context.Context, userID, orderID string) (*domain.Order, error) {
	if !isUUID(orderID) {
		return nil, domain.ErrOrderNotFound
	}
	query := orderSelect + ` WHERE o.id = $1 AND o.user_id = $2`
	rows, err := r.pool.Query(ctx, query, orderID, userID)
	if err != nil {
		return nil, fmt.Errorf("getting order %q: %w", orderID, err)
	}
	order, err := pgx.CollectExactlyOneRow(rows, scanOrder)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || pgErrorCode(err) == pgInvalidText {
			return nil, domain.ErrOrderNotFound
		}
		return nil, fmt.Errorf("getting order %q: %w", orderID, err)
	}

	orders := []domain.Order{order}
	if err := r.attachItems(ctx, orders); err != nil {
		return nil, err
	}
	return &orders[0], nil
}

func (r *orderRepository) UpdateForUser(ctx context.Context, userID, orderID string, patch domain.OrderPatch) (*domain.Order, error) {
	if !isUUID(orderID) {
		return nil, domain.ErrOrderNotFound
	}
	sets := []string{}
	args := []any{orderID, userID}

	add := func(column string, value *string) {
		if value == nil {
			return
		}
		args = append(args, *value)
		sets = append(sets, fmt.Sprintf("%s=$%d", column, len(args)))
	}
	add("shipping_address1", patch.ShippingAddress1)
	add("shipping_address2", patch.ShippingAddress2)
	add("city", patch.City)
	add("zip", patch.Zip)
	add("country", patch.Country)
	add("phone", patch.Phone)
	add("status", patch.Status)

	if len(sets) == 0 {
		return nil, errors.New("order patch has no fields")
	}

	query := fmt.Sprintf(`UPDATE orders SET %s, updated_at=NOW() WHERE id=$1 AND user_id=$2 RETURNING id`,
		strings.Join(sets, ", "))

	var id string
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) || pgErrorCode(err) == pgInvalidText {
			return nil, domain.ErrOrderNotFound
		}
		return nil, fmt.Errorf("updating order %q: %w", orderID, err)
	}
	return r.GetForUser(ctx, userID, id)
}

// attachItems expands order items with their products, preserving placement order.
func (r *orderRepository) attachItems(ctx context.Context, orders []domain.Order) error {
	if len(orders) == 0 {
		return nil
	}

	ids := make([]string, len(orders))
	index := make(map[string]int, len(orders))
	for i := range orders {
		ids[i] = orders[i].ID
		index[orders[i].ID] = i
	}

	rows, err := r.pool.Query(ctx, orderItemsSelect, ids)
	if err != nil {
		return fmt.Errorf("loading order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			orderID string
			item    domain.OrderItem
			product domain.Product
		)
		if err := rows.Scan(
			&orderID,
			&item.ID,
			&item.ProductID,
			&item.Quantity,
			&item.CreatedAt,
			&product.Name,
			&product.Description,
			&product.Price,
		); err != nil {
			return fmt.Errorf("scanning order item: %w", err)
		}
		product.ID = item.ProductID
		item.Product = &product

		i, ok := index[orderID]
		if !ok {
			continue
		}
		orders[i].Items = append(orders[i].Items, item)
	}
	return rows.Err()
}

func scanOrder(row pgx.CollectableRow) (domain.Order, error) {
	var (
		o     domain.Order
		owner domain.UserSummary
	)
	err := row.Scan(
		&o.ID,
		&o.UserID,
		&o.OrderItemIDs,
		&o.Shipping.Address1,
		&o.Shipping.Address2,
		&o.Shipping.City,
		&o.Shipping.Zip,
		&o.Shipping.Country,
		&o.Shipping.Phone,
		&o.TotalPrice,
		&o.Status,
		&o.CreatedAt,
		&o.UpdatedAt,
		&owner.Name,
		&owner.Email,
		&owner.Phone,
	)
	owner.ID = o.UserID
	o.User = &owner
	return o, err
}
