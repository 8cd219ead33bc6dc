package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/shop-service/internal/domain"
)

// OrderItemRepository is the order item ledger. Items are write-once.
type OrderItemRepository interface {
	Create(ctx context.Context, item *domain.OrderItem) error
	// DeleteOrphans removes items created before cutoff that no order references.
	DeleteOrphans(ctx context.Context, cutoff time.Time) (int64, error)
}

type orderItemRepository struct {
	pool *pgxpool.Pool
}

// NewOrderItemRepository returns a Postgres-backed implementation.
func NewOrderItemRepository(pool *pgxpool.Pool) OrderItemRepository {
	return &orderItemRepository{pool: pool}
}

func (r *orderItemRepository) Create(ctx context.Context, item *domain.OrderItem) error {
	if !isUUID(item.ProductID) {
		return domain.ErrProductNotFound
	}
	const query = `
        INSERT INTO order_items (id, product_id, quantity)
        VALUES ($1, $2, $3)
        RETURNING created_at`

	err := r.pool.QueryRow(ctx, query, item.ID, item.ProductID, item.Quantity).Scan(&item.CreatedAt)
	switch pgErrorCode(err) {
	case pgForeignKeyViolation, pgInvalidText:
		return domain.ErrProductNotFound
	}
	if err != nil {
		return fmt.Errorf("creating order item %q: %w", item.ID, err)
	}
	return nil
}

func (r *orderItemRepository) DeleteOrphans(ctx context.Context, cutoff time.Time) (int64, error) {
	const query = `
        DELETE FROM order_items oi
        WHERE oi.created_at < $1
          AND NOT EXISTS (SELECT 1 FROM orders o WHERE o.order_item_ids @> ARRAY[oi.id])`

	cmd, err := r.pool.Exec(ctx, query, cutoff)
	if err != nil {
		return 0, fmt.Errorf("deleting orphaned order items: %w", err)
	}
	return cmd.RowsAffected(), nil
}
