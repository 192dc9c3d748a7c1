package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CyberG247/cafebyabujacar/internal/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, s.InitSchema())
	t.Cleanup(func() { s.DB.Close() })
	return s
}

func newTestOrder() *models.Order {
	now := time.Now().UTC().Truncate(time.Second)
	return &models.Order{
		OrderRef:        "CAF-2025-0042",
		GuestToken:      "ab12cd34",
		CustomerName:    "Amaka Obi",
		CustomerEmail:   "amaka@example.com",
		CustomerPhone:   "+2348012345678",
		DeliveryAddress: "12 Example Street, Abuja",
		Notes:           "Ring the bell twice",
		Items: []models.OrderItem{
			{ProductName: "Signature Cappuccino", Quantity: 2, UnitPrice: 2500},
			{ProductName: "Chocolate Croissant", Quantity: 1, UnitPrice: 1800},
		},
		Subtotal:      6800,
		DeliveryFee:   500,
		Total:         7300,
		Status:        models.StatusPending,
		PaymentStatus: models.PaymentPending,
		CreatedAt:     now,
		Date:          now.Format("Jan 2, 2006 3:04 PM"),
	}
}

func TestCreateAndGetOrder(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	order := newTestOrder()
	require.NoError(t, s.CreateOrder(ctx, order))
	assert.NotZero(t, order.ID)

	got, err := s.GetOrderByRef(ctx, order.OrderRef)
	require.NoError(t, err)

	assert.Equal(t, order.OrderRef, got.OrderRef)
	assert.Equal(t, order.GuestToken, got.GuestToken)
	assert.Equal(t, order.Total, got.Total)
	assert.Equal(t, models.StatusPending, got.Status)
	require.Len(t, got.Items, 2)
	assert.Equal(t, "Signature Cappuccino", got.Items[0].ProductName)
	assert.Equal(t, float64(5000), got.Items[0].Subtotal())
}

func TestDuplicateOrderRefRejected(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateOrder(ctx, newTestOrder()))
	err := s.CreateOrder(ctx, newTestOrder())
	assert.Error(t, err, "order_ref is unique")
}

func TestUpdateOrderPayment(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	order := newTestOrder()
	require.NoError(t, s.CreateOrder(ctx, order))
	require.NoError(t, s.UpdateOrderPayment(ctx, order.OrderRef, models.MethodCard, models.PaymentPaid, models.StatusConfirmed))

	got, err := s.GetOrderByRef(ctx, order.OrderRef)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPaid, got.PaymentStatus)
	assert.Equal(t, models.StatusConfirmed, got.Status)
	assert.Equal(t, models.MethodCard, got.PaymentMethod)
}

func TestUpdateOrderStatusPublishesEvent(t *testing.T) {
	s := newTestStore(t)
	s.Notifier = NewNotifier()
	ctx := context.Background()

	order := newTestOrder()
	require.NoError(t, s.CreateOrder(ctx, order))

	events, cancel := s.Notifier.Subscribe(order.OrderRef)
	defer cancel()

	require.NoError(t, s.UpdateOrderStatus(ctx, order.OrderRef, models.StatusPreparing))

	select {
	case event := <-events:
		assert.Equal(t, order.OrderRef, event.OrderRef)
		assert.Equal(t, models.StatusPreparing, event.Status)
	case <-time.After(time.Second):
		t.Fatal("no order event received")
	}
}

func TestUpdateOrderStatusUnknownOrder(t *testing.T) {
	s := newTestStore(t)
	err := s.UpdateOrderStatus(context.Background(), "CAF-2025-9999", models.StatusPreparing)
	assert.Error(t, err)
}

func TestSeedProductsIsIdempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SeedProducts(ctx))
	require.NoError(t, s.SeedProducts(ctx))

	products, err := s.GetPublicProducts(ctx, "")
	require.NoError(t, err)
	assert.Len(t, products, 8)
}

func TestGetPublicProductsByCategory(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.SeedProducts(ctx))

	coffee, err := s.GetPublicProducts(ctx, "coffee")
	require.NoError(t, err)
	require.Len(t, coffee, 3)
	for _, p := range coffee {
		assert.Equal(t, "coffee", p.Category)
	}
}

func TestArchiveProductHidesFromMenu(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.SeedProducts(ctx))

	products, err := s.GetPublicProducts(ctx, "")
	require.NoError(t, err)
	require.NoError(t, s.ArchiveProduct(ctx, products[0].ID))

	after, err := s.GetPublicProducts(ctx, "")
	require.NoError(t, err)
	assert.Len(t, after, len(products)-1)
}

func TestDashboardStats(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.SeedProducts(ctx))

	order := newTestOrder()
	require.NoError(t, s.CreateOrder(ctx, order))
	require.NoError(t, s.UpdateOrderPayment(ctx, order.OrderRef, models.MethodCard, models.PaymentPaid, models.StatusConfirmed))

	stats, err := s.GetDashboardStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 8, stats.TotalProducts)
	assert.Equal(t, 1, stats.TotalOrders)
	assert.Equal(t, 1, stats.OrdersByStatus[models.StatusConfirmed])
	assert.Equal(t, float64(7300), stats.PaidRevenue)
}

func TestUsers(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateUser(ctx, "barista", "hashed-secret"))

	user, err := s.GetUserByUsername(ctx, "barista")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "hashed-secret", user.Password)

	missing, err := s.GetUserByUsername(ctx, "ghost")
	require.NoError(t, err)
	assert.Nil(t, missing)
}
