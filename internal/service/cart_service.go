package service

import (
	"context"
	"errors"
	"time"

	"bclick/internal/dto"
	"bclick/internal/model"
	"bclick/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CartService interface {
	AddItem(ctx context.Context, actor Actor, req dto.CartItemRequest) (*dto.CartMutationResponse, error)
	SetQuantity(ctx context.Context, actor Actor, req dto.CartItemRequest) (*dto.CartMutationResponse, error)
	// RemoveItem returns nil when the last line was removed and the cart deleted.
	RemoveItem(ctx context.Context, actor Actor, req dto.CartRemoveRequest) (*dto.CartResponse, error)
	Clear(ctx context.Context, actor Actor, req dto.CartRefRequest) error
	Get(ctx context.Context, actor Actor, supplierID uuid.UUID) (*dto.CartResponse, error)
	List(ctx context.Context, actor Actor) ([]dto.CartResponse, error)
}

type cartService struct {
	carts    repository.CartRepository
	products repository.ProductRepository
}

func NewCartService(carts repository.CartRepository, products repository.ProductRepository) CartService {
	return &cartService{carts: carts, products: products}
}

// cartOwner returns the client that owns the cart for this request. Only
// clients own carts; a clientId in the body must name the caller.
func cartOwner(actor Actor, clientID string) (uuid.UUID, error) {
	switch actor.Role {
	case model.RoleClient:
		if clientID != "" {
			id, err := uuid.Parse(clientID)
			if err != nil || id != actor.ID {
				return uuid.Nil, ErrForbidden
			}
		}
		return actor.ID, nil
	case model.RoleSupplier, model.RoleAdmin:
		return uuid.Nil, ErrForbidden
	}
	return uuid.Nil, ErrForbidden
}

func parseID(raw, field string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, invalidInput("%s is not a valid id", field)
	}
	return id, nil
}

// loadOrderable fetches the product and checks it can be ordered from supplierID.
func (s *cartService) loadOrderable(ctx context.Context, supplierID, productID uuid.UUID) (*model.Product, error) {
	p, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return nil, mapNotFound(err, "product")
	}
	if p.SupplierID != supplierID {
		return nil, ErrSupplierMismatch
	}
	if !p.Orderable() {
		return nil, ErrProductUnavailable
	}
	return p, nil
}

func (s *cartService) findCart(ctx context.Context, clientID, supplierID uuid.UUID) (*model.Cart, error) {
	cart, err := s.carts.FindByPair(ctx, clientID, supplierID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return cart, err
}

// ── AddItem ─────────────────────────────────────────────────────────────────
// The resulting line quantity (existing + added) must fit in live stock.
// The increment itself is a single upsert, so concurrent adds to the same
// line never lose an update; the stock guard is re-checked on its result.

func (s *cartService) AddItem(ctx context.Context, actor Actor, req dto.CartItemRequest) (*dto.CartMutationResponse, error) {
	clientID, err := cartOwner(actor, req.ClientID)
	if err != nil {
		return nil, err
	}
	if req.Quantity < 1 {
		return nil, ErrInvalidQuantity
	}
	supplierID, err := parseID(req.SupplierID, "supplierId")
	if err != nil {
		return nil, err
	}
	productID, err := parseID(req.ProductID, "productId")
	if err != nil {
		return nil, err
	}

	product, err := s.loadOrderable(ctx, supplierID, productID)
	if err != nil {
		return nil, err
	}

	existing, err := s.findCart(ctx, clientID, supplierID)
	if err != nil {
		return nil, err
	}
	inCart, position := 0, 0
	if existing != nil {
		if line := existing.Item(productID); line != nil {
			inCart = line.Quantity
		}
		for _, it := range existing.Items {
			if it.Position >= position {
				position = it.Position + 1
			}
		}
	}
	if inCart+req.Quantity > product.Stock {
		return nil, insufficientStock(product.Stock - inCart)
	}

	var lineQty int
	txErr := runTx(ctx, s.carts.DB(), func(tx *gorm.DB) error {
		cart, err := s.carts.EnsureTx(tx, clientID, supplierID)
		if err != nil {
			return err
		}
		lineQty, err = s.carts.IncrementItemTx(tx, cart.ID, productID, req.Quantity, position)
		if err != nil {
			return err
		}
		if lineQty > product.Stock {
			return insufficientStock(product.Stock - (lineQty - req.Quantity))
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	cart, err := s.carts.FindByPair(ctx, clientID, supplierID)
	if err != nil {
		return nil, err
	}
	return &dto.CartMutationResponse{Cart: toCartResponse(cart), Available: product.Stock - lineQty}, nil
}

// ── SetQuantity ─────────────────────────────────────────────────────────────

func (s *cartService) SetQuantity(ctx context.Context, actor Actor, req dto.CartItemRequest) (*dto.CartMutationResponse, error) {
	clientID, err := cartOwner(actor, req.ClientID)
	if err != nil {
		return nil, err
	}
	if req.Quantity < 1 {
		return nil, ErrInvalidQuantity
	}
	supplierID, err := parseID(req.SupplierID, "supplierId")
	if err != nil {
		return nil, err
	}
	productID, err := parseID(req.ProductID, "productId")
	if err != nil {
		return nil, err
	}

	cart, err := s.findCart(ctx, clientID, supplierID)
	if err != nil {
		return nil, err
	}
	if cart == nil || cart.Item(productID) == nil {
		return nil, ErrItemNotInCart
	}
	line := cart.Item(productID)

	product, err := s.loadOrderable(ctx, supplierID, productID)
	if err != nil {
		return nil, err
	}
	if req.Quantity > product.Stock {
		return nil, insufficientStock(product.Stock)
	}

	// replaying the same quantity issues no write
	if line.Quantity != req.Quantity {
		if err := s.carts.SetItemQuantity(ctx, cart.ID, productID, req.Quantity); err != nil {
			return nil, err
		}
		line.Quantity = req.Quantity
	}
	line.Product = product

	return &dto.CartMutationResponse{Cart: toCartResponse(cart), Available: product.Stock - req.Quantity}, nil
}

// ── RemoveItem / Clear ──────────────────────────────────────────────────────

func (s *cartService) RemoveItem(ctx context.Context, actor Actor, req dto.CartRemoveRequest) (*dto.CartResponse, error) {
	clientID, err := cartOwner(actor, req.ClientID)
	if err != nil {
		return nil, err
	}
	supplierID, err := parseID(req.SupplierID, "supplierId")
	if err != nil {
		return nil, err
	}
	productID, err := parseID(req.ProductID, "productId")
	if err != nil {
		return nil, err
	}

	cart, err := s.findCart(ctx, clientID, supplierID)
	if err != nil {
		return nil, err
	}
	if cart == nil || cart.Item(productID) == nil {
		return nil, ErrItemNotInCart
	}

	var emptied bool
	txErr := runTx(ctx, s.carts.DB(), func(tx *gorm.DB) error {
		remaining, err := s.carts.RemoveItemTx(tx, cart.ID, productID)
		if err != nil {
			return err
		}
		if remaining == 0 {
			emptied = true
			return s.carts.DeleteTx(tx, cart.ID)
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	if emptied {
		log.Debug().Str("cart_id", cart.ID.String()).Msg("cart emptied and removed")
		return nil, nil
	}

	cart, err = s.carts.FindByPair(ctx, clientID, supplierID)
	if err != nil {
		return nil, err
	}
	return toCartResponse(cart), nil
}

func (s *cartService) Clear(ctx context.Context, actor Actor, req dto.CartRefRequest) error {
	clientID, err := cartOwner(actor, req.ClientID)
	if err != nil {
		return err
	}
	supplierID, err := parseID(req.SupplierID, "supplierId")
	if err != nil {
		return err
	}
	return runTx(ctx, s.carts.DB(), func(tx *gorm.DB) error {
		return s.carts.DeleteByPairTx(tx, clientID, supplierID)
	})
}

// ── Reads ───────────────────────────────────────────────────────────────────

func (s *cartService) Get(ctx context.Context, actor Actor, supplierID uuid.UUID) (*dto.CartResponse, error) {
	clientID, err := cartOwner(actor, "")
	if err != nil {
		return nil, err
	}
	cart, err := s.carts.FindByPair(ctx, clientID, supplierID)
	if err != nil {
		return nil, mapNotFound(err, "cart")
	}
	return toCartResponse(cart), nil
}

func (s *cartService) List(ctx context.Context, actor Actor) ([]dto.CartResponse, error) {
	clientID, err := cartOwner(actor, "")
	if err != nil {
		return nil, err
	}
	carts, err := s.carts.ListByClient(ctx, clientID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CartResponse, 0, len(carts))
	for i := range carts {
		out = append(out, *toCartResponse(&carts[i]))
	}
	return out, nil
}

// toCartResponse joins each line with live product data. totalPrice is
// derived here and never stored.
func toCartResponse(c *model.Cart) *dto.CartResponse {
	resp := &dto.CartResponse{
		ID:         c.ID.String(),
		ClientID:   c.ClientID.String(),
		SupplierID: c.SupplierID.String(),
		Items:      make([]dto.CartItemResponse, 0, len(c.Items)),
		TotalPrice: decimal.Zero,
		UpdatedAt:  c.UpdatedAt.Format(time.RFC3339),
	}
	for _, it := range c.Items {
		line := dto.CartItemResponse{ProductID: it.ProductID.String(), Quantity: it.Quantity}
		if it.Product != nil {
			line.Name = it.Product.Name
			line.Price = it.Product.Price
			line.Stock = it.Product.Stock
			line.Status = string(it.Product.EffectiveStatus())
			line.Total = it.Product.Price.Mul(decimal.NewFromInt(int64(it.Quantity)))
			resp.TotalPrice = resp.TotalPrice.Add(line.Total)
		}
		resp.Items = append(resp.Items, line)
	}
	return resp
}
