package service

import (
	"context"

	"store-manager/events"
	"store-manager/models"
	"store-manager/store"
)

// ---- in-memory fakes implementing the store interfaces ----

type fakeUserStore struct {
	users     map[string]*models.User
	GetUserFn func(ctx context.Context, email string) (*models.User, error)
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: map[string]*models.User{}}
}

func (f *fakeUserStore) GetUser(ctx context.Context, email string) (*models.User, error) {
	if f.GetUserFn != nil {
		return f.GetUserFn(ctx, email)
	}
	if u, ok := f.users[email]; ok {
		return u, nil
	}
	return nil, store.ErrNotFound
}

func (f *fakeUserStore) CreateUser(_ context.Context, u *models.User) error {
	if _, ok := f.users[u.Email]; ok {
		return store.ErrDuplicate
	}
	u.ID = uint(len(f.users) + 1)
	f.users[u.Email] = u
	return nil
}

func (f *fakeUserStore) CountOwners(context.Context) (int64, error) {
	var n int64
	for _, u := range f.users {
		if u.IsAdmin {
			n++
		}
	}
	return n, nil
}

type fakeProductStore struct {
	products map[uint]models.Product
	updates  int
}

func newFakeProductStore(seed ...models.Product) *fakeProductStore {
	f := &fakeProductStore{products: map[uint]models.Product{}}
	for _, p := range seed {
		f.products[p.ID] = p
	}
	return f
}

func (f *fakeProductStore) CreateProduct(_ context.Context, p *models.Product) error {
	p.ID = uint(len(f.products) + 1)
	f.products[p.ID] = *p
	return nil
}

func (f *fakeProductStore) GetProduct(_ context.Context, id uint) (*models.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &p, nil
}

func (f *fakeProductStore) GetProductByName(_ context.Context, name string) (*models.Product, error) {
	for _, p := range f.products {
		if p.Name == name {
			return &p, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeProductStore) ListProducts(context.Context) ([]models.Product, error) {
	out := []models.Product{}
	for _, p := range f.products {
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeProductStore) UpdateProduct(_ context.Context, p *models.Product) error {
	if _, ok := f.products[p.ID]; !ok {
		return store.ErrNotFound
	}
	f.updates++
	f.products[p.ID] = *p
	return nil
}

type fakeSaleStore struct {
	sales []models.Sale
}

func (f *fakeSaleStore) CreateSale(_ context.Context, s *models.Sale) error {
	s.ID = uint(len(f.sales) + 1)
	f.sales = append(f.sales, *s)
	return nil
}

func (f *fakeSaleStore) GetSale(_ context.Context, id uint) (*models.Sale, error) {
	if id == 0 || int(id) > len(f.sales) {
		return nil, store.ErrNotFound
	}
	s := f.sales[id-1]
	return &s, nil
}

func (f *fakeSaleStore) ListSales(context.Context) ([]models.Sale, error) {
	return f.sales, nil
}

type recordingPublisher struct {
	events []events.Event
	err    error
}

func (r *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	r.events = append(r.events, e)
	return r.err
}

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }
