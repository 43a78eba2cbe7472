package api

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mdmahmu/toolstun-server/internal/models"
	"github.com/mdmahmu/toolstun-server/internal/payment"
	"github.com/mdmahmu/toolstun-server/internal/repository"
)

// store is an in-memory stand-in for every repository the router needs.
type store struct {
	mu       sync.Mutex
	reviews  []models.Review
	products map[uuid.UUID]models.Product
	orders   map[uuid.UUID]models.Order
	users    map[string]models.User
}

func newStore() *store {
	return &store{
		reviews:  make([]models.Review, 0),
		products: make(map[uuid.UUID]models.Product),
		orders:   make(map[uuid.UUID]models.Order),
		users:    make(map[string]models.User),
	}
}

type reviewRepo struct{ *store }

func (s reviewRepo) Create(_ context.Context, r *models.Review) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r.ID = uuid.New()
	s.reviews = append(s.reviews, *r)
	return nil
}

func (s reviewRepo) GetAll(context.Context) ([]models.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Review{}, s.reviews...), nil
}

type productRepo struct{ *store }

func (s productRepo) Create(_ context.Context, p *models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.ID = uuid.New()
	s.products[p.ID] = *p
	return nil
}

func (s productRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok {
		return nil, repository.ErrProductNotFound
	}
	return &p, nil
}

func (s productRepo) GetAll(context.Context) ([]models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Product, 0, len(s.products))
	for _, p := range s.products {
		out = append(out, p)
	}
	return out, nil
}

type orderRepo struct{ *store }

func (s orderRepo) Create(_ context.Context, o *models.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.products[o.ProductID]; !ok {
		return repository.ErrProductNotFound
	}
	o.ID = uuid.New()
	o.Paid = false
	o.TransactionID = ""
	s.orders[o.ID] = *o
	return nil
}

func (s orderRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok {
		return nil, repository.ErrOrderNotFound
	}
	return &o, nil
}

func (s orderRepo) GetByOwner(_ context.Context, emailOrUID string) ([]models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Order, 0)
	for _, o := range s.orders {
		if o.EmailOrUID == emailOrUID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (s orderRepo) Delete(_ context.Context, id uuid.UUID) (models.DeleteResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.orders[id]; !ok {
		return models.DeleteResult{Acknowledged: true}, nil
	}
	delete(s.orders, id)
	return models.DeleteResult{Acknowledged: true, DeletedCount: 1}, nil
}

type userRepo struct{ *store }

func (s userRepo) Upsert(_ context.Context, u *models.User) (models.UpdateResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UTC()
	existing, ok := s.users[u.EmailOrUID]
	if !ok {
		u.CreatedAt, u.UpdatedAt = now, now
		s.users[u.EmailOrUID] = *u
		return models.UpdateResult{Acknowledged: true, UpsertedCount: 1, UpsertedID: u.EmailOrUID}, nil
	}
	if u.Name != "" {
		existing.Name = u.Name
	}
	existing.UpdatedAt = now
	s.users[u.EmailOrUID] = existing
	*u = existing
	return models.Modified(1), nil
}

func (s userRepo) GetByEmailOrUID(_ context.Context, emailOrUID string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[emailOrUID]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return &u, nil
}

func (s userRepo) GetAll(context.Context) ([]models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u)
	}
	return out, nil
}

func (s userRepo) SetRole(_ context.Context, emailOrUID, role string) (models.UpdateResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[emailOrUID]
	if !ok {
		return models.UpdateResult{}, repository.ErrUserNotFound
	}
	u.Role = role
	s.users[emailOrUID] = u
	return models.Modified(1), nil
}

// settlementRepo applies the sale under the store lock, so both writes land
// together or not at all.
type settlementRepo struct{ *store }

func (s settlementRepo) Settle(_ context.Context, st models.Settlement) (*models.SettlementResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[st.ProductID]
	if !ok {
		return nil, repository.ErrProductNotFound
	}
	o, ok := s.orders[st.OrderID]
	if !ok {
		return nil, repository.ErrOrderNotFound
	}
	p.Quantity, p.Sold = models.ApplySale(p.Quantity, p.Sold, st.Bought)
	o.Paid = true
	o.TransactionID = st.TransactionID
	s.products[p.ID] = p
	s.orders[o.ID] = o
	return &models.SettlementResult{
		Product:  models.Modified(1),
		Order:    models.Modified(1),
		Quantity: p.Quantity,
		Sold:     p.Sold,
	}, nil
}

type fakePayments struct {
	calls int
	err   error
}

func (f *fakePayments) CreateIntent(_ context.Context, price float64) (string, error) {
	if _, err := payment.ToMinorUnits(price); err != nil {
		return "", err
	}
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return "pi_test_secret", nil
}

type fakePinger struct{ err error }

func (f fakePinger) Ping(context.Context) error { return f.err }
