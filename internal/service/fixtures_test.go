package service_test

import (
	"context"
	"testing"

	"bclick/internal/dto"
	"bclick/internal/model"
	"bclick/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// mockNotifier records order lifecycle events.
type mockNotifier struct{ mock.Mock }

func (m *mockNotifier) NotifyOrderCreated(_ context.Context, orderID uuid.UUID) error {
	return m.Called(orderID).Error(0)
}

func (m *mockNotifier) NotifyStatusChanged(_ context.Context, orderID uuid.UUID, from, to model.OrderStatus) error {
	return m.Called(orderID, from, to).Error(0)
}

var _ service.OrderNotifier = (*mockNotifier)(nil)

var taxRate = decimal.RequireFromString("0.17")

// world wires every service on top of the in-memory stubs.
type world struct {
	ctx context.Context

	users      *stubUserRepo
	products   *stubProductRepo
	categories *stubCategoryRepo
	carts      *stubCartRepo
	orders     *stubOrderRepo
	movements  *stubMovementRepo
	prices     *stubPriceRepo
	notifier   *mockNotifier

	cartSvc     service.CartService
	orderSvc    service.OrderService
	productSvc  service.ProductService
	categorySvc service.CategoryService

	supplier    service.Actor
	client      service.Actor
	otherClient service.Actor
	admin       service.Actor
}

func newWorld(t *testing.T) *world {
	t.Helper()
	w := &world{
		ctx:        context.Background(),
		users:      newStubUserRepo(),
		products:   newStubProductRepo(),
		categories: newStubCategoryRepo(),
		orders:     newStubOrderRepo(),
		movements:  &stubMovementRepo{},
		prices:     &stubPriceRepo{},
		notifier:   &mockNotifier{},
	}
	w.carts = newStubCartRepo(w.products)
	w.notifier.On("NotifyOrderCreated", mock.Anything).Return(nil).Maybe()
	w.notifier.On("NotifyStatusChanged", mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()

	w.cartSvc = service.NewCartService(w.carts, w.products)
	w.orderSvc = service.NewOrderService(w.orders, w.carts, w.products, w.movements, w.users, w.notifier, nil, taxRate)
	w.productSvc = service.NewProductService(w.products, w.categories, w.movements, w.prices, nil)
	w.categorySvc = service.NewCategoryService(w.categories, w.products)

	w.supplier = w.addUser(t, "idp|supplier", model.RoleSupplier, "Acme Wholesale")
	w.client = w.addUser(t, "idp|client", model.RoleClient, "Corner Store")
	w.otherClient = w.addUser(t, "idp|other", model.RoleClient, "Other Store")
	w.admin = w.addUser(t, "idp|admin", model.RoleAdmin, "Ops")
	return w
}

func (w *world) addUser(t *testing.T, subject string, role model.Role, name string) service.Actor {
	t.Helper()
	u := &model.User{ExternalID: subject, Role: role, Name: name, Email: subject + "@example.com", Active: true}
	require.NoError(t, w.users.Upsert(w.ctx, u))
	return service.Actor{ID: u.ID, Role: role}
}

// addProduct seeds an active product owned by the world's supplier.
func (w *world) addProduct(t *testing.T, name, barCode, price string, stock int) *model.Product {
	t.Helper()
	p := &model.Product{
		SupplierID: w.supplier.ID,
		Name:       name,
		BarCode:    barCode,
		Price:      decimal.RequireFromString(price),
		Stock:      stock,
		Status:     model.ProductActive,
	}
	require.NoError(t, w.products.Create(w.ctx, p))
	return p
}

func (w *world) addToCart(t *testing.T, p *model.Product, qty int) *dto.CartMutationResponse {
	t.Helper()
	resp, err := w.cartSvc.AddItem(w.ctx, w.client, dto.CartItemRequest{
		SupplierID: w.supplier.ID.String(),
		ProductID:  p.ID.String(),
		Quantity:   qty,
	})
	require.NoError(t, err)
	return resp
}

func (w *world) submit(t *testing.T) *dto.OrderResponse {
	t.Helper()
	resp, err := w.orderSvc.SubmitCart(w.ctx, w.client, dto.CartRefRequest{SupplierID: w.supplier.ID.String()})
	require.NoError(t, err)
	return resp
}

func (w *world) transition(actor service.Actor, orderID, status, note string) (*dto.OrderResponse, error) {
	return w.orderSvc.UpdateOrder(w.ctx, actor, dto.UpdateOrderRequest{
		OrderID: orderID,
		Status:  &status,
		Note:    note,
	})
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }
