package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"bclick/internal/dto"
	"bclick/internal/infra"
	"bclick/internal/model"
	"bclick/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderNotifier receives lifecycle events after commit. Implementations must
// not block; failures are logged and never undo the order change.
type OrderNotifier interface {
	NotifyOrderCreated(ctx context.Context, orderID uuid.UUID) error
	NotifyStatusChanged(ctx context.Context, orderID uuid.UUID, from, to model.OrderStatus) error
}

type OrderService interface {
	SubmitCart(ctx context.Context, actor Actor, req dto.CartRefRequest) (*dto.OrderResponse, error)
	CreateOrder(ctx context.Context, actor Actor, req dto.CreateOrderRequest) (*dto.OrderResponse, error)
	UpdateOrder(ctx context.Context, actor Actor, req dto.UpdateOrderRequest) (*dto.OrderResponse, error)
	DeleteOrder(ctx context.Context, actor Actor, req dto.DeleteOrderRequest) error
	ValidateStock(ctx context.Context, req dto.ValidateStockRequest) (*dto.ValidateStockResponse, error)
	List(ctx context.Context, actor Actor, filter dto.OrderFilter) (*dto.OrderListResponse, error)
	Get(ctx context.Context, actor Actor, id uuid.UUID) (*dto.OrderResponse, error)
	PDF(ctx context.Context, actor Actor, id uuid.UUID) ([]byte, *model.Order, error)
}

type orderService struct {
	orders    repository.OrderRepository
	carts     repository.CartRepository
	products  repository.ProductRepository
	movements repository.StockMovementRepository
	users     repository.UserRepository
	notifier  OrderNotifier
	cache     *ProductCache
	taxRate   decimal.Decimal
}

func NewOrderService(
	orders repository.OrderRepository,
	carts repository.CartRepository,
	products repository.ProductRepository,
	movements repository.StockMovementRepository,
	users repository.UserRepository,
	notifier OrderNotifier,
	cache *ProductCache,
	taxRate decimal.Decimal,
) OrderService {
	return &orderService{
		orders:    orders,
		carts:     carts,
		products:  products,
		movements: movements,
		users:     users,
		notifier:  notifier,
		cache:     cache,
		taxRate:   taxRate,
	}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// ── Submission ──────────────────────────────────────────────────────────────
// Both entry points end in placeOrder:
//   1. load products, run the stock validator (any shortage aborts)
//   2. snapshot name/price/bar code, compute total and tax
//   3. BEGIN TX: take the ordered lines out of the cart (a submitted cart
//      must still hold them as read), nextval order number, insert order,
//      conditional stock decrement per line, stock movements
//   4. COMMIT, then notify (best-effort)
// Nothing is written before step 3, and step 3 is all-or-nothing.

func (s *orderService) SubmitCart(ctx context.Context, actor Actor, req dto.CartRefRequest) (*dto.OrderResponse, error) {
	clientID, err := cartOwner(actor, req.ClientID)
	if err != nil {
		return nil, err
	}
	supplierID, err := parseID(req.SupplierID, "supplierId")
	if err != nil {
		return nil, err
	}

	cart, err := s.carts.FindByPair(ctx, clientID, supplierID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEmptyCart
		}
		return nil, err
	}
	if len(cart.Items) == 0 {
		return nil, ErrEmptyCart
	}

	lines := make([]LineRequest, 0, len(cart.Items))
	for _, it := range cart.Items {
		lines = append(lines, LineRequest{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	return s.placeOrder(ctx, clientID, supplierID, lines, req.Note, nil, cart)
}

func (s *orderService) CreateOrder(ctx context.Context, actor Actor, req dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	clientID, err := cartOwner(actor, req.ClientID)
	if err != nil {
		return nil, err
	}
	supplierID, err := parseID(req.SupplierID, "supplierId")
	if err != nil {
		return nil, err
	}
	if len(req.Items) == 0 {
		return nil, ErrEmptyCart
	}
	lines, err := toLines(req.Items)
	if err != nil {
		return nil, err
	}
	return s.placeOrder(ctx, clientID, supplierID, lines, req.Note, req.Total, nil)
}

func toLines(items []dto.LineItemRequest) ([]LineRequest, error) {
	lines := make([]LineRequest, 0, len(items))
	for _, it := range items {
		if it.Quantity < 1 {
			return nil, ErrInvalidQuantity
		}
		id, err := parseID(it.ProductID, "productId")
		if err != nil {
			return nil, err
		}
		lines = append(lines, LineRequest{ProductID: id, Quantity: it.Quantity})
	}
	return lines, nil
}

// mergeLines sums repeated products, keeping first-appearance order.
func mergeLines(lines []LineRequest) []LineRequest {
	idx := make(map[uuid.UUID]int, len(lines))
	out := make([]LineRequest, 0, len(lines))
	for _, l := range lines {
		if i, ok := idx[l.ProductID]; ok {
			out[i].Quantity += l.Quantity
			continue
		}
		idx[l.ProductID] = len(out)
		out = append(out, l)
	}
	return out
}

func (s *orderService) stockSnapshot(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*model.Product, map[uuid.UUID]int, error) {
	products, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, nil, err
	}
	byID := make(map[uuid.UUID]*model.Product, len(products))
	stock := make(map[uuid.UUID]int, len(products))
	for i := range products {
		p := &products[i]
		byID[p.ID] = p
		if p.Orderable() {
			stock[p.ID] = p.Stock
		}
	}
	return byID, stock, nil
}

func (s *orderService) placeOrder(
	ctx context.Context,
	clientID, supplierID uuid.UUID,
	lines []LineRequest,
	note *string,
	advisoryTotal *decimal.Decimal,
	cart *model.Cart,
) (*dto.OrderResponse, error) {
	lines = mergeLines(lines)
	ids := make([]uuid.UUID, 0, len(lines))
	for _, l := range lines {
		ids = append(ids, l.ProductID)
	}

	products, stock, err := s.stockSnapshot(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, l := range lines {
		p, ok := products[l.ProductID]
		if !ok {
			continue
		}
		if p.SupplierID != supplierID {
			return nil, ErrSupplierMismatch
		}
		if !p.Orderable() {
			return nil, ErrProductUnavailable
		}
	}

	// 1. Stock validator
	if report := ValidateStock(lines, stock); !report.Valid {
		return nil, stockShortage(report.Shortages)
	}

	// 2. Snapshot
	order := model.Order{
		ClientID:   clientID,
		SupplierID: supplierID,
		Status:     model.OrderPending,
	}
	for _, l := range lines {
		p := products[l.ProductID]
		order.Items = append(order.Items, model.OrderItem{
			ProductID: p.ID,
			Name:      p.Name,
			BarCode:   p.BarCode,
			Quantity:  l.Quantity,
			Price:     p.Price,
		})
	}
	order.Recalculate(s.taxRate)

	if advisoryTotal != nil && !advisoryTotal.Equal(order.Total) {
		return nil, priceChanged(order.Total, order.Tax)
	}
	if note != nil && strings.TrimSpace(*note) != "" {
		pending := model.OrderPending
		order.Notes = append(order.Notes, model.OrderNote{
			Message:  strings.TrimSpace(*note),
			UserID:   clientID,
			StatusTo: &pending,
		})
	}

	// 3. Transaction
	txErr := runTx(ctx, s.orders.DB(), func(tx *gorm.DB) error {
		// a submitted cart gives up exactly the lines that were read
		if cart != nil {
			ok, err := s.carts.ConsumeItemsTx(tx, cart.ID, cart.Items)
			if err != nil {
				return err
			}
			if !ok {
				return ErrConcurrentUpdate
			}
		}

		num, err := s.orders.NextOrderNumberTx(tx)
		if err != nil {
			return err
		}
		order.OrderNumber = num

		if err := s.orders.CreateTx(tx, &order); err != nil {
			return err
		}
		if err := s.applyStock(ctx, tx, order.ID, model.MovementOrderCreated, consumeDeltas(order.Items)); err != nil {
			return err
		}
		if cart == nil {
			return s.carts.DeleteByPairTx(tx, clientID, supplierID)
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	s.forgetCached(ctx, order.Items)
	log.Info().
		Str("order_id", order.ID.String()).
		Int64("order_number", order.OrderNumber).
		Str("client_id", clientID.String()).
		Str("total", order.Total.StringFixed(2)).
		Msg("order created")

	if s.notifier != nil {
		if err := s.notifier.NotifyOrderCreated(ctx, order.ID); err != nil {
			log.Warn().Err(err).Str("order_id", order.ID.String()).Msg("order created notification not enqueued")
		}
	}

	return toOrderResponse(&order), nil
}

// forgetCached drops bar-code lookups whose stock just moved.
func (s *orderService) forgetCached(ctx context.Context, items []model.OrderItem) {
	codes := make([]string, 0, len(items))
	for _, it := range items {
		codes = append(codes, it.BarCode)
	}
	s.cache.Forget(ctx, codes...)
}

// stockDelta is a signed stock change for one product. Negative consumes.
type stockDelta struct {
	productID uuid.UUID
	delta     int
}

func consumeDeltas(items []model.OrderItem) []stockDelta {
	out := make([]stockDelta, 0, len(items))
	for _, it := range items {
		out = append(out, stockDelta{productID: it.ProductID, delta: -it.Quantity})
	}
	return out
}

func restoreDeltas(items []model.OrderItem) []stockDelta {
	out := make([]stockDelta, 0, len(items))
	for _, it := range items {
		out = append(out, stockDelta{productID: it.ProductID, delta: it.Quantity})
	}
	return out
}

// applyStock moves stock with the conditional update and records a movement
// per line. Rows are touched in product id order so concurrent orders lock
// them in the same sequence. A rejected decrement aborts the transaction
// with a StockShortage.
func (s *orderService) applyStock(ctx context.Context, tx *gorm.DB, orderID uuid.UUID, kind model.StockMovementKind, deltas []stockDelta) error {
	sort.Slice(deltas, func(i, j int) bool {
		return bytes.Compare(deltas[i].productID[:], deltas[j].productID[:]) < 0
	})
	ref := orderID
	for _, d := range deltas {
		if d.delta == 0 {
			continue
		}
		after, ok, err := s.products.AddStockTx(tx, d.productID, d.delta)
		if err != nil {
			return err
		}
		if !ok {
			available := 0
			if p, err := s.products.FindByID(ctx, d.productID); err == nil {
				available = p.Stock
			}
			return stockShortage([]Shortage{{ProductID: d.productID, Requested: -d.delta, Available: available}})
		}
		if err := s.movements.CreateTx(tx, &model.StockMovement{
			ProductID:   d.productID,
			Kind:        kind,
			Quantity:    d.delta,
			StockBefore: after - d.delta,
			StockAfter:  after,
			Reason:      string(kind),
			ReferenceID: &ref,
		}); err != nil {
			return err
		}
	}
	return nil
}

// ── UpdateOrder ─────────────────────────────────────────────────────────────
// A request may edit quantities (pending only), move the status, or both; the
// edit is applied first. Validation and stock deltas are planned from the
// order as read; every write compares the version of that read, so any
// interleaved change surfaces as ConcurrentUpdate and the transaction rolls
// back.

func (s *orderService) UpdateOrder(ctx context.Context, actor Actor, req dto.UpdateOrderRequest) (*dto.OrderResponse, error) {
	if err := crossCheckActor(actor, req.UserID, req.UserRole); err != nil {
		return nil, err
	}
	orderID, err := parseID(req.OrderID, "orderId")
	if err != nil {
		return nil, err
	}
	o, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, mapNotFound(err, "order")
	}

	editing := len(req.Items) > 0
	// an unchanged status next to an edit is just the client echoing it back
	var target *model.OrderStatus
	if req.Status != nil {
		st, ok := model.ParseOrderStatus(*req.Status)
		if !ok {
			return nil, ErrInvalidTransition
		}
		if st != o.Status || !editing {
			target = &st
		}
	}
	if target == nil && !editing {
		return nil, invalidInput("nothing to update")
	}

	if editing {
		if err := authorizeOrder(actor, o, actionEdit); err != nil {
			return nil, err
		}
	}
	if target != nil {
		if err := authorizeOrder(actor, o, actionAdvance); err != nil {
			return nil, err
		}
	}
	if o.Status.IsFinal() {
		return nil, ErrOrderIsFinal
	}

	var edits []itemEdit
	if editing {
		if o.Status != model.OrderPending {
			return nil, ErrInvalidTransition
		}
		if edits, err = s.planEdit(ctx, o, req.Items); err != nil {
			return nil, err
		}
	}
	if target != nil {
		if err := checkTransition(o.Status, *target, req.Note); err != nil {
			return nil, err
		}
	}

	from := o.Status
	txErr := runTx(ctx, s.orders.DB(), func(tx *gorm.DB) error {
		if editing {
			if err := s.applyEdit(ctx, tx, o, edits); err != nil {
				return err
			}
			if target == nil && strings.TrimSpace(req.Note) != "" {
				if err := s.orders.AppendNoteTx(tx, &model.OrderNote{
					OrderID: o.ID,
					Message: strings.TrimSpace(req.Note),
					UserID:  actor.ID,
				}); err != nil {
					return err
				}
			}
		}
		if target != nil {
			ok, err := s.orders.UpdateStatusTx(tx, o.ID, o.Version, from, *target)
			if err != nil {
				return err
			}
			if !ok {
				return ErrConcurrentUpdate
			}
			if err := s.orders.AppendNoteTx(tx, transitionNote(o.ID, actor.ID, from, *target, req.Note)); err != nil {
				return err
			}
			if *target == model.OrderRejected {
				if err := s.applyStock(ctx, tx, o.ID, model.MovementOrderRejected, restoreDeltas(o.Items)); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	if editing || (target != nil && *target == model.OrderRejected) {
		s.forgetCached(ctx, o.Items)
	}
	if target != nil {
		log.Info().
			Str("order_id", o.ID.String()).
			Str("from", string(from)).
			Str("to", string(*target)).
			Str("actor", actor.ID.String()).
			Msg("order status changed")
		if s.notifier != nil {
			if err := s.notifier.NotifyStatusChanged(ctx, o.ID, from, *target); err != nil {
				log.Warn().Err(err).Str("order_id", o.ID.String()).Msg("status change notification not enqueued")
			}
		}
	}

	updated, err := s.orders.FindByID(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	return toOrderResponse(updated), nil
}

func crossCheckActor(actor Actor, userID, userRole string) error {
	if userID != "" && userID != actor.ID.String() {
		return ErrForbidden
	}
	if userRole != "" && userRole != string(actor.Role) {
		return ErrForbidden
	}
	return nil
}

type itemEdit struct {
	item   *model.OrderItem
	newQty int
}

// planEdit validates a quantity edit. Only lines already on the order can be
// edited. Increases must fit in live stock; the maximum allowed for a line is
// its current quantity plus the live stock.
func (s *orderService) planEdit(ctx context.Context, o *model.Order, items []dto.LineItemRequest) ([]itemEdit, error) {
	lines, err := toLines(items)
	if err != nil {
		return nil, err
	}
	byProduct := make(map[uuid.UUID]*model.OrderItem, len(o.Items))
	for i := range o.Items {
		byProduct[o.Items[i].ProductID] = &o.Items[i]
	}

	seen := make(map[uuid.UUID]bool, len(lines))
	ids := make([]uuid.UUID, 0, len(lines))
	for _, l := range lines {
		if byProduct[l.ProductID] == nil {
			return nil, invalidInput("product %s is not part of this order", l.ProductID)
		}
		if seen[l.ProductID] {
			return nil, invalidInput("product %s is listed twice", l.ProductID)
		}
		seen[l.ProductID] = true
		ids = append(ids, l.ProductID)
	}

	products, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	ceiling := make(map[uuid.UUID]int, len(products))
	for _, p := range products {
		ceiling[p.ID] = p.Stock + byProduct[p.ID].Quantity
	}
	if report := ValidateStock(lines, ceiling); !report.Valid {
		return nil, stockShortage(report.Shortages)
	}

	edits := make([]itemEdit, 0, len(lines))
	for _, l := range lines {
		edits = append(edits, itemEdit{item: byProduct[l.ProductID], newQty: l.Quantity})
	}
	return edits, nil
}

// applyEdit claims the order version with the new totals before any line or
// stock write, so deltas computed from a stale read are never applied.
func (s *orderService) applyEdit(ctx context.Context, tx *gorm.DB, o *model.Order, edits []itemEdit) error {
	deltas := make([]stockDelta, 0, len(edits))
	changed := make([]*model.OrderItem, 0, len(edits))
	for _, e := range edits {
		diff := e.newQty - e.item.Quantity
		if diff == 0 {
			continue
		}
		deltas = append(deltas, stockDelta{productID: e.item.ProductID, delta: -diff})
		e.item.Quantity = e.newQty
		changed = append(changed, e.item)
	}
	if len(deltas) == 0 {
		return nil
	}

	o.Recalculate(o.TaxRate)
	ok, err := s.orders.UpdateTotalsTx(tx, o.ID, o.Version, o.Total, o.Tax)
	if err != nil {
		return err
	}
	if !ok {
		return ErrConcurrentUpdate
	}
	o.Version++

	for _, it := range changed {
		if err := s.orders.UpdateItemQuantityTx(tx, it.ID, it.Quantity, it.Total); err != nil {
			return err
		}
	}
	return s.applyStock(ctx, tx, o.ID, model.MovementOrderEdited, deltas)
}

// ── DeleteOrder ─────────────────────────────────────────────────────────────

func (s *orderService) DeleteOrder(ctx context.Context, actor Actor, req dto.DeleteOrderRequest) error {
	if err := crossCheckActor(actor, "", req.UserRole); err != nil {
		return err
	}
	orderID, err := parseID(req.OrderID, "orderId")
	if err != nil {
		return err
	}
	o, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return mapNotFound(err, "order")
	}
	if err := authorizeOrder(actor, o, actionDelete); err != nil {
		return err
	}
	if o.Status.IsFinal() {
		return ErrOrderIsFinal
	}
	if o.Status != model.OrderPending {
		return ErrInvalidTransition
	}

	txErr := runTx(ctx, s.orders.DB(), func(tx *gorm.DB) error {
		ok, err := s.orders.DeletePendingTx(tx, o.ID, o.Version)
		if err != nil {
			return err
		}
		if !ok {
			return ErrConcurrentUpdate
		}
		return s.applyStock(ctx, tx, o.ID, model.MovementOrderDeleted, restoreDeltas(o.Items))
	})
	if txErr != nil {
		return txErr
	}

	s.forgetCached(ctx, o.Items)
	log.Info().Str("order_id", o.ID.String()).Int64("order_number", o.OrderNumber).Msg("pending order deleted")
	return nil
}

// ── Reads ───────────────────────────────────────────────────────────────────

func (s *orderService) ValidateStock(ctx context.Context, req dto.ValidateStockRequest) (*dto.ValidateStockResponse, error) {
	lines, err := toLines(req.Items)
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, 0, len(lines))
	for _, l := range lines {
		ids = append(ids, l.ProductID)
	}
	_, stock, err := s.stockSnapshot(ctx, ids)
	if err != nil {
		return nil, err
	}

	report := ValidateStock(lines, stock)
	resp := &dto.ValidateStockResponse{Valid: report.Valid, Shortages: make([]dto.ShortageResponse, 0, len(report.Shortages))}
	for _, sh := range report.Shortages {
		resp.Shortages = append(resp.Shortages, dto.ShortageResponse{
			ProductID: sh.ProductID.String(),
			Requested: sh.Requested,
			Available: sh.Available,
		})
	}
	return resp, nil
}

func (s *orderService) List(ctx context.Context, actor Actor, filter dto.OrderFilter) (*dto.OrderListResponse, error) {
	f := repository.OrderListFilter{Status: filter.Status, Page: filter.Page, Limit: filter.Limit}
	switch actor.Role {
	case model.RoleAdmin:
	case model.RoleClient, model.RoleSupplier:
		id := actor.ID
		f.ParticipantID = &id
	default:
		return nil, ErrForbidden
	}
	if filter.SupplierID != "" {
		id, err := parseID(filter.SupplierID, "supplierId")
		if err != nil {
			return nil, err
		}
		f.SupplierID = &id
	}

	orders, total, err := s.orders.List(ctx, f)
	if err != nil {
		return nil, err
	}
	resp := &dto.OrderListResponse{
		Data:  make([]dto.OrderResponse, 0, len(orders)),
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}
	for i := range orders {
		resp.Data = append(resp.Data, *toOrderResponse(&orders[i]))
	}
	return resp, nil
}

func (s *orderService) load(ctx context.Context, actor Actor, id uuid.UUID) (*model.Order, error) {
	o, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err, "order")
	}
	if err := authorizeOrder(actor, o, actionView); err != nil {
		return nil, err
	}
	return o, nil
}

func (s *orderService) Get(ctx context.Context, actor Actor, id uuid.UUID) (*dto.OrderResponse, error) {
	o, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	return toOrderResponse(o), nil
}

func (s *orderService) PDF(ctx context.Context, actor Actor, id uuid.UUID) ([]byte, *model.Order, error) {
	o, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, nil, err
	}
	doc := infra.OrderDocument{Order: o}
	if u, err := s.users.FindByID(ctx, o.ClientID); err == nil {
		doc.ClientName = displayName(u)
	}
	if u, err := s.users.FindByID(ctx, o.SupplierID); err == nil {
		doc.SupplierName = displayName(u)
	}
	var buf bytes.Buffer
	if err := infra.RenderOrderPDF(doc, &buf); err != nil {
		return nil, nil, fmt.Errorf("render order %d: %w", o.OrderNumber, err)
	}
	return buf.Bytes(), o, nil
}

func displayName(u *model.User) string {
	if u.BusinessName != nil && *u.BusinessName != "" {
		return *u.BusinessName
	}
	return u.Name
}

func toOrderResponse(o *model.Order) *dto.OrderResponse {
	resp := &dto.OrderResponse{
		ID:          o.ID.String(),
		OrderNumber: o.OrderNumber,
		ClientID:    o.ClientID.String(),
		SupplierID:  o.SupplierID.String(),
		Items:       make([]dto.OrderItemResponse, 0, len(o.Items)),
		Total:       o.Total,
		Tax:         o.Tax,
		Status:      string(o.Status),
		Notes:       make([]dto.OrderNoteResponse, 0, len(o.Notes)),
		CreatedAt:   o.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   o.UpdatedAt.Format(time.RFC3339),
	}
	for _, it := range o.Items {
		resp.Items = append(resp.Items, dto.OrderItemResponse{
			ProductID: it.ProductID.String(),
			Name:      it.Name,
			BarCode:   it.BarCode,
			Quantity:  it.Quantity,
			Price:     it.Price,
			Total:     it.Total,
		})
	}
	for _, n := range o.Notes {
		nr := dto.OrderNoteResponse{
			Message: n.Message,
			Date:    n.CreatedAt.Format(time.RFC3339),
			UserID:  n.UserID.String(),
		}
		if n.StatusFrom != nil {
			v := string(*n.StatusFrom)
			nr.StatusFrom = &v
		}
		if n.StatusTo != nil {
			v := string(*n.StatusTo)
			nr.StatusTo = &v
		}
		resp.Notes = append(resp.Notes, nr)
	}
	return resp
}
