// Package store defines the persistence collaborators used by the services and
// a gorm implementation of all of them.
package store

import (
	"context"
	"errors"

	"store-manager/models"
)

var (
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a unique column (email, product name) clashes.
	ErrDuplicate = errors.New("record already exists")
)

// UserStore holds owners and attendants.
type UserStore interface {
	GetUser(ctx context.Context, email string) (*models.User, error)
	CreateUser(ctx context.Context, u *models.User) error
	CountOwners(ctx context.Context) (int64, error)
}

// ProductStore holds the product catalog.
type ProductStore interface {
	CreateProduct(ctx context.Context, p *models.Product) error
	GetProduct(ctx context.Context, id uint) (*models.Product, error)
	GetProductByName(ctx context.Context, name string) (*models.Product, error)
	ListProducts(ctx context.Context) ([]models.Product, error)
	UpdateProduct(ctx context.Context, p *models.Product) error
}

// SaleStore is append-only.
type SaleStore interface {
	CreateSale(ctx context.Context, s *models.Sale) error
	GetSale(ctx context.Context, id uint) (*models.Sale, error)
	ListSales(ctx context.Context) ([]models.Sale, error)
}
