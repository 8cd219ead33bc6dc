package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/shop-service/internal/config"
	"github.com/spec-kit/shop-service/internal/domain"
	"github.com/spec-kit/shop-service/internal/persistence"
)

// testPool connects to the database named by POSTGRES_TEST_DSN, applies the
// schema and empties every table. Tests are skipped when the variable is unset.
func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("POSTGRES_TEST_DSN")
	if dsn == "" {
		t.Skip("POSTGRES_TEST_DSN not set")
	}

	ctx := context.Background()
	pg, err := persistence.NewPostgres(ctx, config.PostgresConfig{DSN: dsn, MaxConns: 4}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(pg.Close)

	require.NoError(t, persistence.RunMigrations(ctx, pg.Pool, zap.NewNop()))
	_, err = pg.Pool.Exec(ctx, `TRUNCATE orders, order_items, products, users CASCADE`)
	require.NoError(t, err)
	return pg.Pool
}

func seedUser(t *testing.T, pool *pgxpool.Pool, email string) *domain.User {
	t.Helper()
	user := &domain.User{Name: "User " + email, Email: email, PasswordHash: "hash", Phone: "+100"}
	require.NoError(t, NewUserRepository(pool).Create(context.Background(), user))
	return user
}

func seedProduct(t *testing.T, pool *pgxpool.Pool, name, price string) string {
	t.Helper()
	var id string
	err := pool.QueryRow(context.Background(),
		`INSERT INTO products (name, description, price) VALUES ($1, $2, $3) RETURNING id::text`,
		name, name+" description", decimal.RequireFromString(price),
	).Scan(&id)
	require.NoError(t, err)
	return id
}

func seedItems(t *testing.T, pool *pgxpool.Pool, productIDs ...string) []string {
	t.Helper()
	repo := NewOrderItemRepository(pool)
	ids := make([]string, 0, len(productIDs))
	for _, pid := range productIDs {
		item := &domain.OrderItem{ID: uuid.NewString(), ProductID: pid, Quantity: 2}
		require.NoError(t, repo.Create(context.Background(), item))
		ids = append(ids, item.ID)
	}
	return ids
}

func seedOrder(t *testing.T, pool *pgxpool.Pool, userID string, itemIDs []string) *domain.Order {
	t.Helper()
	order := &domain.Order{
		ID:           uuid.NewString(),
		OrderItemIDs: itemIDs,
		Shipping:     domain.ShippingInfo{Address1: "1 Main St", City: "Berlin", Zip: "10115", Country: "DE", Phone: "+49"},
		TotalPrice:   decimal.RequireFromString("42.50"),
		UserID:       userID,
		Status:       domain.OrderStatusPending,
	}
	require.NoError(t, NewOrderRepository(pool).Create(context.Background(), order))
	return order
}

func TestOrderRepository_ScopesReadsToOwner(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	repo := NewOrderRepository(pool)

	alice := seedUser(t, pool, "alice@example.com")
	bob := seedUser(t, pool, "bob@example.com")
	product := seedProduct(t, pool, "Keyboard", "10.00")
	order := seedOrder(t, pool, alice.ID, seedItems(t, pool, product))

	got, err := repo.GetForUser(ctx, alice.ID, order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.ID, got.ID)
	assert.True(t, decimal.RequireFromString("42.50").Equal(got.TotalPrice))
	require.NotNil(t, got.User)
	assert.Equal(t, "alice@example.com", got.User.Email)

	_, err = repo.GetForUser(ctx, bob.ID, order.ID)
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
	_, err = repo.GetForUser(ctx, alice.ID, uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
	_, err = repo.GetForUser(ctx, alice.ID, "not-a-uuid")
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)

	bobs, err := repo.ListByUser(ctx, bob.ID)
	require.NoError(t, err)
	assert.Empty(t, bobs)
	alices, err := repo.ListByUser(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, alices, 1)
	assert.Equal(t, order.ID, alices[0].ID)
}

func TestOrderRepository_ItemsKeepPlacementOrder(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	repo := NewOrderRepository(pool)

	alice := seedUser(t, pool, "alice@example.com")
	p1 := seedProduct(t, pool, "Keyboard", "10.00")
	p2 := seedProduct(t, pool, "Mouse", "5.00")
	p3 := seedProduct(t, pool, "Cable", "1.25")

	// created out of order on purpose; the id array decides the order
	items := seedItems(t, pool, p3, p1, p2)
	order := seedOrder(t, pool, alice.ID, []string{items[1], items[2], items[0]})

	got, err := repo.GetForUser(ctx, alice.ID, order.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{items[1], items[2], items[0]}, got.OrderItemIDs)
	require.Len(t, got.Items, 3)
	assert.Equal(t, []string{p1, p2, p3}, []string{got.Items[0].ProductID, got.Items[1].ProductID, got.Items[2].ProductID})
	require.NotNil(t, got.Items[2].Product)
	assert.Equal(t, "Cable", got.Items[2].Product.Name)
	assert.True(t, decimal.RequireFromString("1.25").Equal(got.Items[2].Product.Price))

	listed, err := repo.ListByUser(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, got.Items, listed[0].Items)
}

func TestOrderRepository_UpdateAppliesOnlyPatchedColumns(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	repo := NewOrderRepository(pool)

	alice := seedUser(t, pool, "alice@example.com")
	bob := seedUser(t, pool, "bob@example.com")
	order := seedOrder(t, pool, alice.ID, seedItems(t, pool, seedProduct(t, pool, "Keyboard", "10.00")))

	city, status := "Hamburg", "shipped"
	updated, err := repo.UpdateForUser(ctx, alice.ID, order.ID, domain.OrderPatch{City: &city, Status: &status})
	require.NoError(t, err)
	assert.Equal(t, "Hamburg", updated.Shipping.City)
	assert.Equal(t, "shipped", updated.Status)
	assert.Equal(t, "1 Main St", updated.Shipping.Address1)
	assert.Equal(t, "10115", updated.Shipping.Zip)
	assert.True(t, order.TotalPrice.Equal(updated.TotalPrice))
	assert.Equal(t, order.OrderItemIDs, updated.OrderItemIDs)

	cancelled := "cancelled"
	_, err = repo.UpdateForUser(ctx, bob.ID, order.ID, domain.OrderPatch{Status: &cancelled})
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
	_, err = repo.UpdateForUser(ctx, alice.ID, "not-a-uuid", domain.OrderPatch{Status: &cancelled})
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)

	after, err := repo.GetForUser(ctx, alice.ID, order.ID)
	require.NoError(t, err)
	assert.Equal(t, "shipped", after.Status)

	_, err = repo.UpdateForUser(ctx, alice.ID, order.ID, domain.OrderPatch{})
	assert.Error(t, err)
}

func TestOrderItemRepository_UnknownProduct(t *testing.T) {
	pool := testPool(t)
	repo := NewOrderItemRepository(pool)

	err := repo.Create(context.Background(), &domain.OrderItem{ID: uuid.NewString(), ProductID: uuid.NewString(), Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrProductNotFound)

	err = repo.Create(context.Background(), &domain.OrderItem{ID: uuid.NewString(), ProductID: "not-a-uuid", Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestOrderItemRepository_DeleteOrphans(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	repo := NewOrderItemRepository(pool)

	alice := seedUser(t, pool, "alice@example.com")
	product := seedProduct(t, pool, "Keyboard", "10.00")
	items := seedItems(t, pool, product, product, product)
	referenced, oldOrphan, freshOrphan := items[0], items[1], items[2]
	seedOrder(t, pool, alice.ID, []string{referenced})

	_, err := pool.Exec(ctx,
		`UPDATE order_items SET created_at = NOW() - INTERVAL '1 hour' WHERE id = ANY($1::text[]::uuid[])`,
		[]string{referenced, oldOrphan})
	require.NoError(t, err)

	deleted, err := repo.DeleteOrphans(ctx, time.Now().Add(-30*time.Minute))
	require.NoError(t, err)
	assert.EqualValues(t, 1, deleted)

	var remaining []string
	rows, err := pool.Query(ctx, `SELECT id::text FROM order_items ORDER BY id`)
	require.NoError(t, err)
	for rows.Next() {
		var id string
		require.NoError(t, rows.Scan(&id))
		remaining = append(remaining, id)
	}
	require.NoError(t, rows.Err())
	assert.ElementsMatch(t, []string{referenced, freshOrphan}, remaining)
}

func TestUserRepository_EmailIsCaseInsensitive(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	repo := NewUserRepository(pool)

	alice := seedUser(t, pool, "alice@example.com")
	err := repo.Create(ctx, &domain.User{Name: "Dup", Email: "ALICE@example.com", PasswordHash: "h"})
	assert.ErrorIs(t, err, domain.ErrEmailTaken)

	got, err := repo.GetByEmail(ctx, "Alice@Example.com")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, got.ID)

	_, err = repo.GetByID(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	seedUser(t, pool, "bob@example.com")
	users, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 2)
}
