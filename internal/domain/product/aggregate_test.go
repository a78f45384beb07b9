package product

import (
	"context"
	"testing"

	"github.com/example/storefront/internal/infrastructure/store/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProductService() (*Service, *mocks.MockEventStore) {
	eventStore := mocks.NewMockEventStore()
	service := NewService(eventStore)
	return service, eventStore
}

func createTestProduct(t *testing.T, service *Service) *Product {
	t.Helper()
	p, err := service.Create(context.Background(), "Test Product", 10000, 20)
	require.NoError(t, err)
	return p
}

// ============================================
// Create Tests
// ============================================

func TestService_Create_Success(t *testing.T) {
	service, eventStore := newTestProductService()
	ctx := context.Background()

	p, err := service.Create(ctx, "Product 1", 10000, 20)

	require.NoError(t, err)
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, "Product 1", p.Name)
	assert.Equal(t, 10000, p.Price)
	assert.Equal(t, 20, p.Stock)

	assert.Len(t, eventStore.AppendCalls, 1)
	assert.Equal(t, EventProductCreated, eventStore.AppendCalls[0].EventType)
	assert.Equal(t, AggregateType, eventStore.AppendCalls[0].AggregateType)
	assert.Equal(t, p.ID, eventStore.AppendCalls[0].AggregateID)
}

func TestService_Create_EmptyName(t *testing.T) {
	service, eventStore := newTestProductService()
	ctx := context.Background()

	_, err := service.Create(ctx, "", 10000, 20)

	assert.ErrorIs(t, err, ErrInvalidName)
	assert.Empty(t, eventStore.AppendCalls)
}

func TestService_Create_NegativePrice(t *testing.T) {
	service, eventStore := newTestProductService()
	ctx := context.Background()

	_, err := service.Create(ctx, "Product 1", -100, 20)

	assert.ErrorIs(t, err, ErrInvalidPrice)
	assert.Empty(t, eventStore.AppendCalls)
}

func TestService_Create_NegativeStock(t *testing.T) {
	service, eventStore := newTestProductService()
	ctx := context.Background()

	_, err := service.Create(ctx, "Product 1", 10000, -1)

	assert.ErrorIs(t, err, ErrInvalidStock)
	assert.Empty(t, eventStore.AppendCalls)
}

func TestService_Create_ZeroPriceAndStock(t *testing.T) {
	service, _ := newTestProductService()
	ctx := context.Background()

	// Zero price (free item) and zero stock are both allowed
	p, err := service.Create(ctx, "Freebie", 0, 0)

	require.NoError(t, err)
	assert.Equal(t, 0, p.Price)
	assert.Equal(t, 0, p.Stock)
}

func TestService_Create_UniqueIDs(t *testing.T) {
	service, _ := newTestProductService()
	ctx := context.Background()

	p1, err := service.Create(ctx, "Product 1", 10000, 20)
	require.NoError(t, err)
	p2, err := service.Create(ctx, "Product 2", 20000, 20)
	require.NoError(t, err)

	assert.NotEqual(t, p1.ID, p2.ID)
}

// ============================================
// Update Tests
// ============================================

func TestService_UpdateName_Success(t *testing.T) {
	service, eventStore := newTestProductService()
	p := createTestProduct(t, service)

	err := service.UpdateName(context.Background(), p.ID, "Renamed")

	require.NoError(t, err)
	assert.Equal(t, EventProductNameChanged, eventStore.AppendCalls[1].EventType)
	data := eventStore.AppendCalls[1].Data.(ProductNameChanged)
	assert.Equal(t, "Renamed", data.Name)
}

func TestService_UpdateName_EmptyName(t *testing.T) {
	service, eventStore := newTestProductService()
	p := createTestProduct(t, service)

	err := service.UpdateName(context.Background(), p.ID, "")

	assert.ErrorIs(t, err, ErrInvalidName)
	assert.Len(t, eventStore.AppendCalls, 1) // only the create
}

func TestService_UpdateName_NotFound(t *testing.T) {
	service, _ := newTestProductService()

	err := service.UpdateName(context.Background(), "missing", "Renamed")

	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestService_UpdatePrice_Success(t *testing.T) {
	service, eventStore := newTestProductService()
	p := createTestProduct(t, service)

	err := service.UpdatePrice(context.Background(), p.ID, 15000)

	require.NoError(t, err)
	data := eventStore.AppendCalls[1].Data.(ProductPriceChanged)
	assert.Equal(t, 15000, data.Price)
}

func TestService_UpdatePrice_Negative(t *testing.T) {
	service, _ := newTestProductService()
	p := createTestProduct(t, service)

	err := service.UpdatePrice(context.Background(), p.ID, -1)

	assert.ErrorIs(t, err, ErrInvalidPrice)
}

func TestService_UpdateStock_Success(t *testing.T) {
	service, eventStore := newTestProductService()
	p := createTestProduct(t, service)

	err := service.UpdateStock(context.Background(), p.ID, 5)

	require.NoError(t, err)
	data := eventStore.AppendCalls[1].Data.(ProductStockChanged)
	assert.Equal(t, 5, data.Stock)
}

func TestService_UpdateStock_Negative(t *testing.T) {
	service, _ := newTestProductService()
	p := createTestProduct(t, service)

	err := service.UpdateStock(context.Background(), p.ID, -5)

	assert.ErrorIs(t, err, ErrInvalidStock)
}

// ============================================
// Discount Tier Tests
// ============================================

func TestService_AddDiscountTier_Success(t *testing.T) {
	service, eventStore := newTestProductService()
	p := createTestProduct(t, service)

	err := service.AddDiscountTier(context.Background(), p.ID, DiscountTier{Quantity: 10, Rate: 0.1})

	require.NoError(t, err)
	assert.Equal(t, EventDiscountTierAdded, eventStore.AppendCalls[1].EventType)
	data := eventStore.AppendCalls[1].Data.(DiscountTierAdded)
	assert.Equal(t, 10, data.Quantity)
	assert.Equal(t, 0.1, data.Rate)
}

func TestService_AddDiscountTier_InvalidQuantity(t *testing.T) {
	service, _ := newTestProductService()
	p := createTestProduct(t, service)

	err := service.AddDiscountTier(context.Background(), p.ID, DiscountTier{Quantity: 0, Rate: 0.1})

	assert.ErrorIs(t, err, ErrInvalidTierQuantity)
}

func TestService_AddDiscountTier_InvalidRate(t *testing.T) {
	service, _ := newTestProductService()
	p := createTestProduct(t, service)
	ctx := context.Background()

	assert.ErrorIs(t, service.AddDiscountTier(ctx, p.ID, DiscountTier{Quantity: 10, Rate: -0.1}), ErrInvalidTierRate)
	assert.ErrorIs(t, service.AddDiscountTier(ctx, p.ID, DiscountTier{Quantity: 10, Rate: 1.5}), ErrInvalidTierRate)
}

func TestService_AddDiscountTier_BoundaryRates(t *testing.T) {
	service, _ := newTestProductService()
	p := createTestProduct(t, service)
	ctx := context.Background()

	// 0 and 1 are both valid rates
	require.NoError(t, service.AddDiscountTier(ctx, p.ID, DiscountTier{Quantity: 10, Rate: 0}))
	require.NoError(t, service.AddDiscountTier(ctx, p.ID, DiscountTier{Quantity: 20, Rate: 1}))
}

func TestService_AddDiscountTier_NotFound(t *testing.T) {
	service, _ := newTestProductService()

	err := service.AddDiscountTier(context.Background(), "missing", DiscountTier{Quantity: 10, Rate: 0.1})

	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestService_RemoveDiscountTier_Success(t *testing.T) {
	service, eventStore := newTestProductService()
	p := createTestProduct(t, service)
	ctx := context.Background()

	require.NoError(t, service.AddDiscountTier(ctx, p.ID, DiscountTier{Quantity: 10, Rate: 0.1}))
	require.NoError(t, service.AddDiscountTier(ctx, p.ID, DiscountTier{Quantity: 20, Rate: 0.2}))

	err := service.RemoveDiscountTier(ctx, p.ID, 0)

	require.NoError(t, err)
	data := eventStore.AppendCalls[3].Data.(DiscountTierRemoved)
	assert.Equal(t, 0, data.Index)

	// The remaining tier is the one that was at index 1
	rebuilt := rebuildProduct(t, eventStore, p.ID)
	require.Len(t, rebuilt.Discounts, 1)
	assert.Equal(t, 20, rebuilt.Discounts[0].Quantity)
	assert.Equal(t, 0.2, rebuilt.Discounts[0].Rate)
}

func TestService_RemoveDiscountTier_IndexOutOfRange(t *testing.T) {
	service, _ := newTestProductService()
	p := createTestProduct(t, service)
	ctx := context.Background()

	require.NoError(t, service.AddDiscountTier(ctx, p.ID, DiscountTier{Quantity: 10, Rate: 0.1}))

	assert.ErrorIs(t, service.RemoveDiscountTier(ctx, p.ID, -1), ErrTierIndexOutOfRange)
	assert.ErrorIs(t, service.RemoveDiscountTier(ctx, p.ID, 1), ErrTierIndexOutOfRange)
}

func TestService_RemoveDiscountTier_NotFound(t *testing.T) {
	service, _ := newTestProductService()

	err := service.RemoveDiscountTier(context.Background(), "missing", 0)

	assert.ErrorIs(t, err, ErrProductNotFound)
}

// ============================================
// Delete Tests
// ============================================

func TestService_Delete_Success(t *testing.T) {
	service, eventStore := newTestProductService()
	p := createTestProduct(t, service)

	err := service.Delete(context.Background(), p.ID)

	require.NoError(t, err)
	assert.Equal(t, EventProductDeleted, eventStore.AppendCalls[1].EventType)
}

func TestService_Delete_NotFound(t *testing.T) {
	service, _ := newTestProductService()

	err := service.Delete(context.Background(), "missing")

	assert.ErrorIs(t, err, ErrProductNotFound)
}

// ============================================
// Event Replay Tests
// ============================================

func TestProduct_ApplyEvent_FullHistory(t *testing.T) {
	service, eventStore := newTestProductService()
	ctx := context.Background()

	p := createTestProduct(t, service)
	require.NoError(t, service.UpdateName(ctx, p.ID, "Renamed"))
	require.NoError(t, service.UpdatePrice(ctx, p.ID, 15000))
	require.NoError(t, service.UpdateStock(ctx, p.ID, 7))
	require.NoError(t, service.AddDiscountTier(ctx, p.ID, DiscountTier{Quantity: 10, Rate: 0.1}))

	rebuilt := rebuildProduct(t, eventStore, p.ID)
	assert.Equal(t, p.ID, rebuilt.ID)
	assert.Equal(t, "Renamed", rebuilt.Name)
	assert.Equal(t, 15000, rebuilt.Price)
	assert.Equal(t, 7, rebuilt.Stock)
	require.Len(t, rebuilt.Discounts, 1)
	assert.Equal(t, 5, rebuilt.Version)
}

func rebuildProduct(t *testing.T, eventStore *mocks.MockEventStore, productID string) *Product {
	t.Helper()
	p := &Product{}
	for _, event := range eventStore.GetEvents(productID) {
		require.NoError(t, p.ApplyEvent(event))
	}
	return p
}
