// products.go - Product catalog management

package service

import (
	"context"
	"errors"
	"fmt"

	"store-manager/events"
	"store-manager/logger"
	"store-manager/models"
	"store-manager/store"
)

// ProductInput creates a product. Pointers tell a missing field from a zero.
type ProductInput struct {
	Name     string `json:"name" label:"Product name" validate:"required"`
	UnitCost *int   `json:"unit_cost" label:"Product price" validate:"required,gt=0"`
	Quantity *int   `json:"quantity" label:"Product quantity" validate:"required,gte=0"`
}

// ProductUpdate changes only the fields that are set.
type ProductUpdate struct {
	Name     *string `json:"name" label:"Product name" validate:"omitempty,min=1"`
	UnitCost *int    `json:"unit_cost" label:"Product price" validate:"omitempty,gt=0"`
	Quantity *int    `json:"quantity" label:"Product quantity" validate:"omitempty,gte=0"`
}

type Products struct {
	products store.ProductStore
	events   events.Publisher
	log      logger.Logger
}

func NewProducts(products store.ProductStore, pub events.Publisher, log logger.Logger) *Products {
	return &Products{products: products, events: pub, log: log.With("component", "products")}
}

func (s *Products) Create(ctx context.Context, in ProductInput) (*models.Product, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	if err := s.checkNameFree(ctx, in.Name, 0); err != nil {
		return nil, err
	}

	p := &models.Product{Name: in.Name, UnitCost: *in.UnitCost, Quantity: *in.Quantity}
	if err := s.products.CreateProduct(ctx, p); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, productExists()
		}
		return nil, fmt.Errorf("create product: %w", err)
	}

	s.publish(ctx, events.ProductCreated, p)
	return p, nil
}

func (s *Products) Get(ctx context.Context, id uint) (*models.Product, error) {
	p, err := s.products.GetProduct(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, NotFound("Product not found")
	}
	if err != nil {
		return nil, fmt.Errorf("get product %d: %w", id, err)
	}
	return p, nil
}

func (s *Products) List(ctx context.Context) ([]models.Product, error) {
	products, err := s.products.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

// Update applies in to product id. A missing product is reported before any
// field is validated against the catalog and nothing is written.
func (s *Products) Update(ctx context.Context, id uint, in ProductUpdate) (*models.Product, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil && *in.Name != p.Name {
		if err := s.checkNameFree(ctx, *in.Name, p.ID); err != nil {
			return nil, err
		}
		p.Name = *in.Name
	}
	if in.UnitCost != nil {
		p.UnitCost = *in.UnitCost
	}
	if in.Quantity != nil {
		p.Quantity = *in.Quantity
	}

	if err := s.products.UpdateProduct(ctx, p); err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			return nil, NotFound("Product not found")
		case errors.Is(err, store.ErrDuplicate):
			return nil, productExists()
		}
		return nil, fmt.Errorf("update product %d: %w", id, err)
	}

	s.publish(ctx, events.ProductUpdated, p)
	return p, nil
}

// checkNameFree fails with a ConflictError when another product (not self) uses name.
func (s *Products) checkNameFree(ctx context.Context, name string, self uint) error {
	existing, err := s.products.GetProductByName(ctx, name)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return nil
	case err != nil:
		return fmt.Errorf("lookup product %q: %w", name, err)
	case existing.ID != self:
		return productExists()
	}
	return nil
}

func productExists() *Error {
	return Conflict("Product with this name already exists")
}

func (s *Products) publish(ctx context.Context, eventType string, p *models.Product) {
	if err := s.events.Publish(ctx, events.New(eventType, p)); err != nil {
		s.log.Warn("publish product event failed", "type", eventType, "product_id", p.ID, "err", err)
	}
}
