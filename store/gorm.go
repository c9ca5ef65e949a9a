// gorm.go - GORM implementation of the stores

package store

import (
	"context"
	"errors"

	"store-manager/models"

	"gorm.io/gorm"
)

// Gorm implements UserStore, ProductStore and SaleStore on a gorm connection.
type Gorm struct {
	db *gorm.DB
}

func NewGorm(db *gorm.DB) *Gorm {
	return &Gorm{db: db}
}

var (
	_ UserStore    = (*Gorm)(nil)
	_ ProductStore = (*Gorm)(nil)
	_ SaleStore    = (*Gorm)(nil)
)

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	default:
		return err
	}
}

func (s *Gorm) GetUser(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (s *Gorm) CreateUser(ctx context.Context, u *models.User) error {
	return translate(s.db.WithContext(ctx).Create(u).Error)
}

func (s *Gorm) CountOwners(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.User{}).Where("is_admin = ?", true).Count(&count).Error
	return count, translate(err)
}

func (s *Gorm) CreateProduct(ctx context.Context, p *models.Product) error {
	return translate(s.db.WithContext(ctx).Create(p).Error)
}

func (s *Gorm) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	var p models.Product
	if err := s.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (s *Gorm) GetProductByName(ctx context.Context, name string) (*models.Product, error) {
	var p models.Product
	if err := s.db.WithContext(ctx).Where("name = ?", name).First(&p).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (s *Gorm) ListProducts(ctx context.Context) ([]models.Product, error) {
	products := []models.Product{}
	if err := s.db.WithContext(ctx).Order("id").Find(&products).Error; err != nil {
		return nil, translate(err)
	}
	return products, nil
}

// UpdateProduct writes every mutable column of p. A missing row is ErrNotFound;
// it is never inserted.
func (s *Gorm) UpdateProduct(ctx context.Context, p *models.Product) error {
	res := s.db.WithContext(ctx).Model(&models.Product{}).Where("id = ?", p.ID).Updates(map[string]any{
		"name":      p.Name,
		"unit_cost": p.UnitCost,
		"quantity":  p.Quantity,
	})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// CreateSale inserts the sale and its cart items in one transaction.
func (s *Gorm) CreateSale(ctx context.Context, sale *models.Sale) error {
	for i := range sale.CartItems {
		sale.CartItems[i].Position = i
	}
	return translate(s.db.WithContext(ctx).Create(sale).Error)
}

func (s *Gorm) GetSale(ctx context.Context, id uint) (*models.Sale, error) {
	var sale models.Sale
	if err := s.withItems(ctx).First(&sale, id).Error; err != nil {
		return nil, translate(err)
	}
	return &sale, nil
}

func (s *Gorm) ListSales(ctx context.Context) ([]models.Sale, error) {
	sales := []models.Sale{}
	if err := s.withItems(ctx).Order("id").Find(&sales).Error; err != nil {
		return nil, translate(err)
	}
	return sales, nil
}

func (s *Gorm) withItems(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).Preload("CartItems", func(db *gorm.DB) *gorm.DB {
		return db.Order("position")
	})
}
