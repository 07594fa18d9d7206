package service_test

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"bclick/internal/dto"
	"bclick/internal/model"
	"bclick/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ── Stubs ─────────────────────────────────────────────────────────────────────
// In-memory repositories. DB() returns nil so services run their transaction
// bodies directly (see runTx).

// stubUserRepo is an in-memory UserRepository.
type stubUserRepo struct {
	mu    sync.Mutex
	byID  map[uuid.UUID]*model.User
	finds int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{byID: make(map[uuid.UUID]*model.User)}
}

func (r *stubUserRepo) FindByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *stubUserRepo) FindByExternalID(_ context.Context, externalID string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.finds++
	for _, u := range r.byID {
		if u.ExternalID == externalID {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUserRepo) Upsert(_ context.Context, u *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.byID {
		if existing.ExternalID == u.ExternalID {
			existing.Name = u.Name
			existing.Email = u.Email
			existing.BusinessName = u.BusinessName
			existing.Phone = u.Phone
			existing.Logo = u.Logo
			*u = *existing
			return nil
		}
	}
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	cp := *u
	r.byID[u.ID] = &cp
	return nil
}

var _ repository.UserRepository = (*stubUserRepo)(nil)

// stubProductRepo is an in-memory ProductRepository.
type stubProductRepo struct {
	mu       sync.Mutex
	products map[uuid.UUID]*model.Product
	// beforeAddStock runs before each conditional stock update; tests use it
	// to simulate a concurrent writer.
	beforeAddStock func(id uuid.UUID)
}

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{products: make(map[uuid.UUID]*model.Product)}
}

func (r *stubProductRepo) Create(_ context.Context, p *model.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	cp := *p
	r.products[p.ID] = &cp
	return nil
}

func (r *stubProductRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *stubProductRepo) FindByIDs(_ context.Context, ids []uuid.UUID) ([]model.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Product
	for _, id := range ids {
		if p, ok := r.products[id]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *stubProductRepo) FindByBarcode(_ context.Context, barcode string) (*model.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.products {
		if p.BarCode == barcode && p.Status != model.ProductHidden && p.Status != model.ProductDraft {
			cp := *p
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubProductRepo) List(_ context.Context, filter dto.ProductFilter) ([]model.Product, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Product
	for _, p := range r.products {
		if filter.SupplierID != "" && p.SupplierID.String() != filter.SupplierID {
			continue
		}
		if filter.Name != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(filter.Name)) {
			continue
		}
		if (p.Status == model.ProductHidden || p.Status == model.ProductDraft) && p.SupplierID.String() != filter.OwnerID {
			continue
		}
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, int64(len(out)), nil
}

func (r *stubProductRepo) CountByCategory(_ context.Context, categoryID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, p := range r.products {
		if p.CategoryID != nil && *p.CategoryID == categoryID {
			n++
		}
	}
	return n, nil
}

func (r *stubProductRepo) UpdateFieldsTx(_ *gorm.DB, p *model.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.products[p.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	stock := cur.Stock
	cp := *p
	cp.Stock = stock
	r.products[p.ID] = &cp
	return nil
}

func (r *stubProductRepo) AddStockTx(_ *gorm.DB, id uuid.UUID, delta int) (int, bool, error) {
	if r.beforeAddStock != nil {
		r.beforeAddStock(id)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return 0, false, nil
	}
	if p.Stock+delta < 0 {
		return p.Stock, false, nil
	}
	p.Stock += delta
	return p.Stock, true, nil
}

func (r *stubProductRepo) DB() *gorm.DB { return nil }

func (r *stubProductRepo) stock(id uuid.UUID) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.products[id].Stock
}

func (r *stubProductRepo) setStock(id uuid.UUID, stock int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products[id].Stock = stock
}

var _ repository.ProductRepository = (*stubProductRepo)(nil)

// stubCategoryRepo is an in-memory CategoryRepository.
type stubCategoryRepo struct {
	cats map[uuid.UUID]*model.Category
}

func newStubCategoryRepo() *stubCategoryRepo {
	return &stubCategoryRepo{cats: make(map[uuid.UUID]*model.Category)}
}

func (r *stubCategoryRepo) Create(_ context.Context, c *model.Category) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	cp := *c
	r.cats[c.ID] = &cp
	return nil
}

func (r *stubCategoryRepo) List(_ context.Context, supplierID *uuid.UUID, includeHidden bool) ([]model.Category, error) {
	var out []model.Category
	for _, c := range r.cats {
		if supplierID != nil && c.SupplierID != *supplierID {
			continue
		}
		if !includeHidden && c.Status == model.CategoryHidden {
			continue
		}
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *stubCategoryRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Category, error) {
	c, ok := r.cats[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *stubCategoryRepo) FindByName(_ context.Context, supplierID uuid.UUID, name string) (*model.Category, error) {
	for _, c := range r.cats {
		if c.SupplierID == supplierID && strings.EqualFold(c.Name, name) {
			cp := *c
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubCategoryRepo) Update(_ context.Context, c *model.Category) error {
	cp := *c
	r.cats[c.ID] = &cp
	return nil
}

func (r *stubCategoryRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.cats, id)
	return nil
}

var _ repository.CategoryRepository = (*stubCategoryRepo)(nil)

// stubCartRepo keeps carts keyed by (client, supplier) and joins live product
// data on read, like the preload in the real repository.
type cartKey struct{ client, supplier uuid.UUID }

type stubCartRepo struct {
	mu       sync.Mutex
	carts    map[cartKey]*model.Cart
	products *stubProductRepo
	// setCalls counts SetItemQuantity writes.
	setCalls int
	// beforeConsume runs before a submitted cart gives up its lines; tests
	// use it to change the cart after it was read.
	beforeConsume func()
}

func newStubCartRepo(products *stubProductRepo) *stubCartRepo {
	return &stubCartRepo{carts: make(map[cartKey]*model.Cart), products: products}
}

func (r *stubCartRepo) view(c *model.Cart) *model.Cart {
	cp := *c
	cp.Items = make([]model.CartItem, len(c.Items))
	copy(cp.Items, c.Items)
	sort.SliceStable(cp.Items, func(i, j int) bool { return cp.Items[i].Position < cp.Items[j].Position })
	for i := range cp.Items {
		if p, err := r.products.FindByID(context.Background(), cp.Items[i].ProductID); err == nil {
			cp.Items[i].Product = p
		}
	}
	return &cp
}

func (r *stubCartRepo) FindByPair(_ context.Context, clientID, supplierID uuid.UUID) (*model.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.carts[cartKey{clientID, supplierID}]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return r.view(c), nil
}

func (r *stubCartRepo) ListByClient(_ context.Context, clientID uuid.UUID) ([]model.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Cart
	for k, c := range r.carts {
		if k.client == clientID {
			out = append(out, *r.view(c))
		}
	}
	return out, nil
}

func (r *stubCartRepo) EnsureTx(_ *gorm.DB, clientID, supplierID uuid.UUID) (*model.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := cartKey{clientID, supplierID}
	if c, ok := r.carts[k]; ok {
		return r.view(c), nil
	}
	c := &model.Cart{ID: uuid.New(), ClientID: clientID, SupplierID: supplierID, CreatedAt: time.Now(), UpdatedAt: time.Now()}
	r.carts[k] = c
	return r.view(c), nil
}

func (r *stubCartRepo) byID(cartID uuid.UUID) (cartKey, *model.Cart) {
	for k, c := range r.carts {
		if c.ID == cartID {
			return k, c
		}
	}
	return cartKey{}, nil
}

func (r *stubCartRepo) IncrementItemTx(_ *gorm.DB, cartID, productID uuid.UUID, qty, position int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, c := r.byID(cartID)
	if c == nil {
		return 0, gorm.ErrRecordNotFound
	}
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items[i].Quantity += qty
			return c.Items[i].Quantity, nil
		}
	}
	c.Items = append(c.Items, model.CartItem{ID: uuid.New(), CartID: cartID, ProductID: productID, Quantity: qty, Position: position})
	return qty, nil
}

func (r *stubCartRepo) SetItemQuantity(_ context.Context, cartID, productID uuid.UUID, qty int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.setCalls++
	_, c := r.byID(cartID)
	if c == nil {
		return gorm.ErrRecordNotFound
	}
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items[i].Quantity = qty
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *stubCartRepo) RemoveItemTx(_ *gorm.DB, cartID, productID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, c := r.byID(cartID)
	if c == nil {
		return 0, nil
	}
	kept := c.Items[:0]
	for _, it := range c.Items {
		if it.ProductID != productID {
			kept = append(kept, it)
		}
	}
	c.Items = kept
	return int64(len(c.Items)), nil
}

func (r *stubCartRepo) DeleteTx(_ *gorm.DB, cartID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if k, c := r.byID(cartID); c != nil {
		delete(r.carts, k)
	}
	return nil
}

func (r *stubCartRepo) DeleteByPairTx(_ *gorm.DB, clientID, supplierID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.carts, cartKey{clientID, supplierID})
	return nil
}

func (r *stubCartRepo) ConsumeItemsTx(_ *gorm.DB, cartID uuid.UUID, items []model.CartItem) (bool, error) {
	if hook := r.beforeConsume; hook != nil {
		r.beforeConsume = nil
		hook()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	k, c := r.byID(cartID)
	if c == nil {
		return false, nil
	}
	want := make(map[uuid.UUID]int, len(items))
	for _, it := range items {
		want[it.ProductID] = it.Quantity
	}
	matched := 0
	kept := make([]model.CartItem, 0, len(c.Items))
	for _, it := range c.Items {
		q, ordered := want[it.ProductID]
		if !ordered {
			kept = append(kept, it)
			continue
		}
		if q != it.Quantity {
			return false, nil
		}
		matched++
	}
	if matched != len(want) {
		return false, nil
	}
	c.Items = kept
	if len(kept) == 0 {
		delete(r.carts, k)
	}
	return true, nil
}

func (r *stubCartRepo) DB() *gorm.DB { return nil }

func (r *stubCartRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.carts)
}

var _ repository.CartRepository = (*stubCartRepo)(nil)

// stubOrderRepo is an in-memory OrderRepository with versioned
// compare-and-swap writes.
type stubOrderRepo struct {
	mu     sync.Mutex
	orders map[uuid.UUID]*model.Order
	seq    int64
	// onUpdateStatus and onUpdateTotals run before the CAS; tests use them
	// to sneak in a concurrent write.
	onUpdateStatus func(id uuid.UUID)
	onUpdateTotals func(id uuid.UUID)
}

func newStubOrderRepo() *stubOrderRepo {
	return &stubOrderRepo{orders: make(map[uuid.UUID]*model.Order), seq: 999}
}

func cloneOrder(o *model.Order) *model.Order {
	cp := *o
	cp.Items = append([]model.OrderItem(nil), o.Items...)
	cp.Notes = append([]model.OrderNote(nil), o.Notes...)
	return &cp
}

func (r *stubOrderRepo) NextOrderNumberTx(_ *gorm.DB) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	return r.seq, nil
}

func (r *stubOrderRepo) CreateTx(_ *gorm.DB, o *model.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	now := time.Now()
	o.CreatedAt, o.UpdatedAt = now, now
	for i := range o.Items {
		o.Items[i].ID = uuid.New()
		o.Items[i].OrderID = o.ID
	}
	for i := range o.Notes {
		o.Notes[i].ID = uuid.New()
		o.Notes[i].OrderID = o.ID
		o.Notes[i].CreatedAt = now
	}
	r.orders[o.ID] = cloneOrder(o)
	return nil
}

func (r *stubOrderRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return cloneOrder(o), nil
}

func (r *stubOrderRepo) List(_ context.Context, f repository.OrderListFilter) ([]model.Order, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Order
	for _, o := range r.orders {
		if f.ParticipantID != nil && !o.HasParticipant(*f.ParticipantID) {
			continue
		}
		if f.SupplierID != nil && o.SupplierID != *f.SupplierID {
			continue
		}
		if f.Status != "" && string(o.Status) != f.Status {
			continue
		}
		out = append(out, *cloneOrder(o))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OrderNumber > out[j].OrderNumber })
	return out, int64(len(out)), nil
}

func (r *stubOrderRepo) UpdateStatusTx(_ *gorm.DB, id uuid.UUID, version int, from, to model.OrderStatus) (bool, error) {
	if hook := r.onUpdateStatus; hook != nil {
		r.onUpdateStatus = nil
		hook(id)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok || o.Status != from || o.Version != version {
		return false, nil
	}
	o.Status = to
	o.Version++
	o.UpdatedAt = time.Now()
	return true, nil
}

func (r *stubOrderRepo) UpdateTotalsTx(_ *gorm.DB, id uuid.UUID, version int, total, tax decimal.Decimal) (bool, error) {
	if hook := r.onUpdateTotals; hook != nil {
		r.onUpdateTotals = nil
		hook(id)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok || o.Status != model.OrderPending || o.Version != version {
		return false, nil
	}
	o.Total, o.Tax = total, tax
	o.Version++
	return true, nil
}

func (r *stubOrderRepo) UpdateItemQuantityTx(_ *gorm.DB, itemID uuid.UUID, qty int, total decimal.Decimal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range r.orders {
		for i := range o.Items {
			if o.Items[i].ID == itemID {
				o.Items[i].Quantity = qty
				o.Items[i].Total = total
				return nil
			}
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *stubOrderRepo) AppendNoteTx(_ *gorm.DB, n *model.OrderNote) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[n.OrderID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	n.ID = uuid.New()
	n.CreatedAt = time.Now()
	o.Notes = append(o.Notes, *n)
	return nil
}

func (r *stubOrderRepo) DeletePendingTx(_ *gorm.DB, id uuid.UUID, version int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok || o.Status != model.OrderPending || o.Version != version {
		return false, nil
	}
	delete(r.orders, id)
	return true, nil
}

func (r *stubOrderRepo) DB() *gorm.DB { return nil }

var _ repository.OrderRepository = (*stubOrderRepo)(nil)

// stubMovementRepo captures stock movements for assertion.
type stubMovementRepo struct {
	mu        sync.Mutex
	movements []model.StockMovement
}

func (r *stubMovementRepo) CreateTx(_ *gorm.DB, m *model.StockMovement) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m.ID = uuid.New()
	m.CreatedAt = time.Now()
	r.movements = append(r.movements, *m)
	return nil
}

func (r *stubMovementRepo) List(_ context.Context, f repository.StockMovementFilter) ([]model.StockMovement, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.StockMovement
	for _, m := range r.movements {
		if f.ProductID != nil && m.ProductID != *f.ProductID {
			continue
		}
		if f.Kind != "" && string(m.Kind) != f.Kind {
			continue
		}
		out = append(out, m)
	}
	return out, int64(len(out)), nil
}

func (r *stubMovementRepo) byKind(kind model.StockMovementKind) []model.StockMovement {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.StockMovement
	for _, m := range r.movements {
		if m.Kind == kind {
			out = append(out, m)
		}
	}
	return out
}

var _ repository.StockMovementRepository = (*stubMovementRepo)(nil)

// stubPriceRepo captures price history rows.
type stubPriceRepo struct {
	rows []model.PriceHistory
}

func (r *stubPriceRepo) CreateTx(_ *gorm.DB, h *model.PriceHistory) error {
	h.ID = uuid.New()
	h.CreatedAt = time.Now()
	r.rows = append(r.rows, *h)
	return nil
}

func (r *stubPriceRepo) ListByProduct(_ context.Context, productID uuid.UUID, _, _ int) ([]model.PriceHistory, int64, error) {
	var out []model.PriceHistory
	for _, h := range r.rows {
		if h.ProductID == productID {
			out = append(out, h)
		}
	}
	return out, int64(len(out)), nil
}

var _ repository.PriceHistoryRepository = (*stubPriceRepo)(nil)
