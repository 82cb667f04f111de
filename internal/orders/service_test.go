package orders

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lineacommerce/backoffice-backend/internal/cart"
	"github.com/lineacommerce/backoffice-backend/internal/inventory"
	"github.com/lineacommerce/backoffice-backend/pkg/config"
	"github.com/lineacommerce/backoffice-backend/pkg/db"
	"github.com/lineacommerce/backoffice-backend/pkg/db/models"
	"github.com/lineacommerce/backoffice-backend/pkg/enums"
	pkgerrors "github.com/lineacommerce/backoffice-backend/pkg/errors"
)

// The checkout and cancel paths are exercised against a real in-memory
// database so the transaction semantics are what production sees.

type orderTestEnv struct {
	client    *db.Client
	service   Service
	inventory inventory.Service
	carts     cart.Repository
}

func setupOrderTestEnv(t *testing.T) *orderTestEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	client, err := db.New(context.Background(), config.DBConfig{DSN: dsn}, true, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	schema := []string{
		`CREATE TABLE IF NOT EXISTS products (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			price TEXT NOT NULL DEFAULT '0',
			stock INTEGER NOT NULL DEFAULT 0,
			image_url TEXT,
			download_url TEXT,
			type TEXT NOT NULL DEFAULT 'General',
			category_id TEXT,
			is_active INTEGER NOT NULL DEFAULT 1,
			created_at DATETIME,
			updated_at DATETIME
		);`,
		`CREATE TABLE IF NOT EXISTS stock_movements (
			id TEXT PRIMARY KEY,
			product_id TEXT NOT NULL,
			type TEXT NOT NULL,
			quantity INTEGER NOT NULL,
			previous_stock INTEGER NOT NULL,
			new_stock INTEGER NOT NULL,
			reason TEXT NOT NULL DEFAULT '',
			user_id TEXT,
			created_at DATETIME
		);`,
		`CREATE TABLE IF NOT EXISTS carts (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL UNIQUE,
			created_at DATETIME,
			updated_at DATETIME
		);`,
		`CREATE TABLE IF NOT EXISTS cart_items (
			id TEXT PRIMARY KEY,
			cart_id TEXT NOT NULL,
			product_id TEXT NOT NULL,
			quantity INTEGER NOT NULL DEFAULT 1,
			created_at DATETIME,
			updated_at DATETIME,
			UNIQUE (cart_id, product_id)
		);`,
		`CREATE TABLE IF NOT EXISTS orders (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'pending',
			total TEXT NOT NULL DEFAULT '0',
			placed_at DATETIME,
			created_at DATETIME,
			updated_at DATETIME
		);`,
		`CREATE TABLE IF NOT EXISTS order_details (
			id TEXT PRIMARY KEY,
			order_id TEXT NOT NULL,
			product_id TEXT NOT NULL,
			quantity INTEGER NOT NULL,
			unit_price TEXT NOT NULL,
			created_at DATETIME
		);`,
	}
	for _, stmt := range schema {
		require.NoError(t, client.DB().Exec(stmt).Error)
	}

	inventoryService, err := inventory.NewService(inventory.NewRepository(client.DB()), client, nil)
	require.NoError(t, err)

	carts := cart.NewRepository(client.DB())
	service, err := NewService(NewRepository(client.DB()), carts, inventoryService, client)
	require.NoError(t, err)

	return &orderTestEnv{
		client:    client,
		service:   service,
		inventory: inventoryService,
		carts:     carts,
	}
}

func (e *orderTestEnv) createProduct(t *testing.T, price decimal.Decimal, stock int) *models.Product {
	t.Helper()
	product := &models.Product{
		ID:       uuid.New(),
		Name:     "Order Test Product",
		Price:    price,
		Stock:    stock,
		IsActive: true,
	}
	require.NoError(t, e.client.DB().Create(product).Error)
	return product
}

type cartLine struct {
	productID uuid.UUID
	quantity  int
}

// fillCart inserts lines in slice order so the debit order during
// checkout is deterministic.
func (e *orderTestEnv) fillCart(t *testing.T, userID uuid.UUID, lines []cartLine) {
	t.Helper()
	ctx := context.Background()

	userCart := &models.Cart{UserID: userID}
	require.NoError(t, e.carts.CreateCart(ctx, userCart))
	for _, line := range lines {
		require.NoError(t, e.carts.CreateItem(ctx, &models.CartItem{
			CartID:    userCart.ID,
			ProductID: line.productID,
			Quantity:  line.quantity,
		}))
	}
}

func (e *orderTestEnv) productStock(t *testing.T, productID uuid.UUID) int {
	t.Helper()
	var stock int
	require.NoError(t, e.client.DB().Table("products").Select("stock").Where("id = ?", productID).Take(&stock).Error)
	return stock
}

func (e *orderTestEnv) countRows(t *testing.T, table string) int64 {
	t.Helper()
	var count int64
	require.NoError(t, e.client.DB().Table(table).Count(&count).Error)
	return count
}

func TestCreateFromCartHappyPath(t *testing.T) {
	env := setupOrderTestEnv(t)
	ctx := context.Background()

	productA := env.createProduct(t, decimal.RequireFromString("10.50"), 10)
	productB := env.createProduct(t, decimal.RequireFromString("3.25"), 8)
	userID := uuid.New()
	env.fillCart(t, userID, []cartLine{{productA.ID, 2}, {productB.ID, 4}})

	order, err := env.service.CreateFromCart(ctx, CheckoutInput{UserID: userID})
	require.NoError(t, err)

	assert.Equal(t, enums.OrderStatusPending, order.Status)
	assert.Len(t, order.Items, 2)
	// 2 * 10.50 + 4 * 3.25 = 34.00
	assert.True(t, order.Total.Equal(decimal.RequireFromString("34.00")), "total %s", order.Total)

	assert.Equal(t, 8, env.productStock(t, productA.ID))
	assert.Equal(t, 4, env.productStock(t, productB.ID))

	// One ledger entry per line, tagged with the order.
	var movements []models.StockMovement
	require.NoError(t, env.client.DB().Find(&movements).Error)
	require.Len(t, movements, 2)
	for _, movement := range movements {
		assert.Equal(t, enums.MovementTypeOut, movement.Type)
		assert.Contains(t, movement.Reason, order.ID.String())
	}

	// The cart is emptied inside the same transaction.
	assert.EqualValues(t, 0, env.countRows(t, "cart_items"))
}

func TestCreateFromCartSnapshotsUnitPrice(t *testing.T) {
	env := setupOrderTestEnv(t)
	ctx := context.Background()

	product := env.createProduct(t, decimal.RequireFromString("5.00"), 10)
	userID := uuid.New()
	env.fillCart(t, userID, []cartLine{{product.ID, 1}})

	order, err := env.service.CreateFromCart(ctx, CheckoutInput{UserID: userID})
	require.NoError(t, err)

	// A later price change must not affect the placed order.
	require.NoError(t, env.client.DB().Table("products").Where("id = ?", product.ID).Update("price", "9.99").Error)

	reloaded, err := env.service.RecalculateTotal(ctx, order.ID)
	require.NoError(t, err)
	assert.True(t, reloaded.Total.Equal(decimal.RequireFromString("5.00")), "total %s", reloaded.Total)
}

func TestCreateFromCartEmptyCart(t *testing.T) {
	env := setupOrderTestEnv(t)
	ctx := context.Background()
	userID := uuid.New()

	// No cart at all.
	_, err := env.service.CreateFromCart(ctx, CheckoutInput{UserID: userID})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeEmptyCart, typed.Code())

	// A cart with no lines behaves the same.
	env.fillCart(t, userID, nil)
	_, err = env.service.CreateFromCart(ctx, CheckoutInput{UserID: userID})
	typed = pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeEmptyCart, typed.Code())
}

func TestCreateFromCartRollsBackOnInsufficientStock(t *testing.T) {
	env := setupOrderTestEnv(t)
	ctx := context.Background()

	productA := env.createProduct(t, decimal.NewFromInt(2), 10)
	productB := env.createProduct(t, decimal.NewFromInt(3), 1)
	userID := uuid.New()
	// The short-stocked product is second so the first debit lands
	// before the failure that has to roll it back.
	env.fillCart(t, userID, []cartLine{{productA.ID, 2}, {productB.ID, 5}})

	_, err := env.service.CreateFromCart(ctx, CheckoutInput{UserID: userID})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeInsufficientStock, typed.Code())

	// Nothing moved: stocks, orders, ledger and cart are all untouched.
	assert.Equal(t, 10, env.productStock(t, productA.ID))
	assert.Equal(t, 1, env.productStock(t, productB.ID))
	assert.EqualValues(t, 0, env.countRows(t, "orders"))
	assert.EqualValues(t, 0, env.countRows(t, "order_details"))
	assert.EqualValues(t, 0, env.countRows(t, "stock_movements"))
	assert.EqualValues(t, 2, env.countRows(t, "cart_items"))
}

func TestCancelRestoresStock(t *testing.T) {
	env := setupOrderTestEnv(t)
	ctx := context.Background()

	product := env.createProduct(t, decimal.NewFromInt(4), 6)
	userID := uuid.New()
	env.fillCart(t, userID, []cartLine{{product.ID, 5}})

	order, err := env.service.CreateFromCart(ctx, CheckoutInput{UserID: userID})
	require.NoError(t, err)
	require.Equal(t, 1, env.productStock(t, product.ID))

	cancelled, err := env.service.Cancel(ctx, CancelInput{
		OrderID:     order.ID,
		ActorUserID: userID,
		ActorRole:   enums.UserRoleClient,
	})
	require.NoError(t, err)

	assert.Equal(t, enums.OrderStatusCancelled, cancelled.Status)
	assert.Equal(t, 6, env.productStock(t, product.ID))

	var movements []models.StockMovement
	require.NoError(t, env.client.DB().Where("type = ?", enums.MovementTypeIn).Find(&movements).Error)
	require.Len(t, movements, 1)
	assert.Contains(t, movements[0].Reason, "cancellation")
	assert.Contains(t, movements[0].Reason, order.ID.String())
}

func TestCancelTwiceConflicts(t *testing.T) {
	env := setupOrderTestEnv(t)
	ctx := context.Background()

	product := env.createProduct(t, decimal.NewFromInt(1), 3)
	userID := uuid.New()
	env.fillCart(t, userID, []cartLine{{product.ID, 2}})

	order, err := env.service.CreateFromCart(ctx, CheckoutInput{UserID: userID})
	require.NoError(t, err)

	_, err = env.service.Cancel(ctx, CancelInput{OrderID: order.ID, ActorUserID: userID, ActorRole: enums.UserRoleClient})
	require.NoError(t, err)

	_, err = env.service.Cancel(ctx, CancelInput{OrderID: order.ID, ActorUserID: userID, ActorRole: enums.UserRoleClient})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeStateConflict, typed.Code())

	// Stock is restored exactly once.
	assert.Equal(t, 3, env.productStock(t, product.ID))
}

func TestCancelConfirmedOrderRejected(t *testing.T) {
	env := setupOrderTestEnv(t)
	ctx := context.Background()

	product := env.createProduct(t, decimal.NewFromInt(2), 5)
	userID := uuid.New()
	env.fillCart(t, userID, []cartLine{{product.ID, 3}})

	order, err := env.service.CreateFromCart(ctx, CheckoutInput{UserID: userID})
	require.NoError(t, err)

	_, err = env.service.UpdateStatus(ctx, StatusInput{OrderID: order.ID, Status: enums.OrderStatusConfirmed})
	require.NoError(t, err)

	_, err = env.service.Cancel(ctx, CancelInput{OrderID: order.ID, ActorUserID: userID, ActorRole: enums.UserRoleClient})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeStateConflict, typed.Code())

	// The order keeps its status and no stock comes back.
	reloaded, err := env.service.Get(ctx, GetInput{OrderID: order.ID, ActorUserID: userID, ActorRole: enums.UserRoleClient})
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusConfirmed, reloaded.Status)
	assert.Equal(t, 2, env.productStock(t, product.ID))

	var credits int64
	require.NoError(t, env.client.DB().Table("stock_movements").Where("type = ?", enums.MovementTypeIn).Count(&credits).Error)
	assert.EqualValues(t, 0, credits)
}

func TestCancelForbiddenForOtherUsers(t *testing.T) {
	env := setupOrderTestEnv(t)
	ctx := context.Background()

	product := env.createProduct(t, decimal.NewFromInt(1), 3)
	owner := uuid.New()
	env.fillCart(t, owner, []cartLine{{product.ID, 1}})

	order, err := env.service.CreateFromCart(ctx, CheckoutInput{UserID: owner})
	require.NoError(t, err)

	_, err = env.service.Cancel(ctx, CancelInput{OrderID: order.ID, ActorUserID: uuid.New(), ActorRole: enums.UserRoleClient})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeForbidden, typed.Code())

	// Staff may cancel on the user's behalf.
	_, err = env.service.Cancel(ctx, CancelInput{OrderID: order.ID, ActorUserID: uuid.New(), ActorRole: enums.UserRoleManager})
	require.NoError(t, err)
}

func TestUpdateStatusTransitions(t *testing.T) {
	env := setupOrderTestEnv(t)
	ctx := context.Background()

	product := env.createProduct(t, decimal.NewFromInt(1), 5)
	userID := uuid.New()
	env.fillCart(t, userID, []cartLine{{product.ID, 1}})

	order, err := env.service.CreateFromCart(ctx, CheckoutInput{UserID: userID})
	require.NoError(t, err)

	// Shipping before confirmation is rejected.
	_, err = env.service.UpdateStatus(ctx, StatusInput{OrderID: order.ID, Status: enums.OrderStatusShipped})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeStateConflict, typed.Code())

	for _, status := range []enums.OrderStatus{
		enums.OrderStatusConfirmed,
		enums.OrderStatusShipped,
		enums.OrderStatusDelivered,
	} {
		updated, err := env.service.UpdateStatus(ctx, StatusInput{OrderID: order.ID, Status: status})
		require.NoError(t, err)
		assert.Equal(t, status, updated.Status)
	}

	// Delivered orders cannot be cancelled.
	_, err = env.service.Cancel(ctx, CancelInput{OrderID: order.ID, ActorUserID: userID, ActorRole: enums.UserRoleAdmin})
	typed = pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeStateConflict, typed.Code())
}

func TestListOrdersScopesNonStaffToOwn(t *testing.T) {
	env := setupOrderTestEnv(t)
	ctx := context.Background()

	product := env.createProduct(t, decimal.NewFromInt(1), 10)
	alice := uuid.New()
	bob := uuid.New()
	env.fillCart(t, alice, []cartLine{{product.ID, 1}})
	env.fillCart(t, bob, []cartLine{{product.ID, 1}})

	_, err := env.service.CreateFromCart(ctx, CheckoutInput{UserID: alice})
	require.NoError(t, err)
	_, err = env.service.CreateFromCart(ctx, CheckoutInput{UserID: bob})
	require.NoError(t, err)

	page, err := env.service.List(ctx, ListInput{ActorUserID: alice, ActorRole: enums.UserRoleClient})
	require.NoError(t, err)
	require.Len(t, page.Orders, 1)
	assert.Equal(t, alice, page.Orders[0].UserID)

	staffPage, err := env.service.List(ctx, ListInput{ActorUserID: uuid.New(), ActorRole: enums.UserRoleAdmin})
	require.NoError(t, err)
	assert.Len(t, staffPage.Orders, 2)
}
