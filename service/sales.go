// sales.go - Recording and reading sales
//
// Sales are immutable once recorded. The total is fixed at creation time and
// every reader goes through the record-level access check in auth.

package service

import (
	"context"
	"errors"
	"fmt"
	"math"

	"store-manager/auth"
	"store-manager/events"
	"store-manager/logger"
	"store-manager/models"
	"store-manager/store"
)

type CartItem struct {
	Name     string `json:"name" label:"Item name" validate:"required"`
	Price    *int   `json:"price" label:"Item price" validate:"required,gt=0"`
	Quantity *int   `json:"quantity" label:"Item quantity" validate:"required,gt=0"`
}

// SaleInput is a cart submitted by an attendant. An empty cart is allowed.
type SaleInput struct {
	CartItems []CartItem `json:"cart_items" label:"Cart items" validate:"required,dive"`
}

// SaleEvent is the payload published when a sale is recorded.
type SaleEvent struct {
	ID             uint   `json:"id"`
	AttendantEmail string `json:"attendant_email"`
	Total          int    `json:"total"`
	Items          int    `json:"items"`
}

type Sales struct {
	sales  store.SaleStore
	events events.Publisher
	log    logger.Logger
}

func NewSales(sales store.SaleStore, pub events.Publisher, log logger.Logger) *Sales {
	return &Sales{sales: sales, events: pub, log: log.With("component", "sales")}
}

// Total is the sum of the item prices. Quantities are not multiplied in.
// A sum that does not fit in an int is a ValidationError.
func Total(items []models.SaleItem) (int, error) {
	total := 0
	for _, item := range items {
		if item.Price > math.MaxInt-total {
			return 0, Validation("cart total is too large")
		}
		total += item.Price
	}
	return total, nil
}

// Create records a sale made by id. Role checks happen before this is called;
// id is only needed for the attendant email.
func (s *Sales) Create(ctx context.Context, id *auth.Identity, in SaleInput) (*models.Sale, error) {
	if id == nil {
		return nil, Authentication(auth.ReasonLoginAttendant)
	}
	if err := validateInput(in); err != nil {
		return nil, err
	}

	items := make([]models.SaleItem, 0, len(in.CartItems))
	for _, item := range in.CartItems {
		items = append(items, models.SaleItem{Name: item.Name, Price: *item.Price, Quantity: *item.Quantity})
	}
	total, err := Total(items)
	if err != nil {
		return nil, err
	}
	sale := &models.Sale{
		AttendantEmail: id.Email,
		CartItems:      items,
		Total:          total,
	}
	if err := s.sales.CreateSale(ctx, sale); err != nil {
		return nil, fmt.Errorf("create sale: %w", err)
	}

	s.log.Info("sale recorded", "sale_id", sale.ID, "attendant", sale.AttendantEmail, "total", sale.Total)
	evt := SaleEvent{ID: sale.ID, AttendantEmail: sale.AttendantEmail, Total: sale.Total, Items: len(items)}
	if err := s.events.Publish(ctx, events.New(events.SaleRecorded, evt)); err != nil {
		s.log.Warn("publish sale event failed", "sale_id", sale.ID, "err", err)
	}
	return sale, nil
}

// Get returns one sale if id may see it: owners see every sale, attendants
// only their own.
func (s *Sales) Get(ctx context.Context, id *auth.Identity, saleID uint) (*models.Sale, error) {
	if id == nil {
		return nil, Authentication(auth.ReasonLogin)
	}
	sale, err := s.sales.GetSale(ctx, saleID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, NotFound("Sale not found")
	}
	if err != nil {
		return nil, fmt.Errorf("get sale %d: %w", saleID, err)
	}
	if err := fromDecision(auth.AuthorizeSaleAccess(id, sale.AttendantEmail)); err != nil {
		return nil, err
	}
	return sale, nil
}

func (s *Sales) List(ctx context.Context) ([]models.Sale, error) {
	sales, err := s.sales.ListSales(ctx)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	return sales, nil
}
