// ABOUTME: In-memory Store implementation for testing
// ABOUTME: Mirrors MongoStore semantics, including the category aggregation pipeline

package store

import (
	"context"
	"math"
	"sort"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MockStore is an in-memory Store implementation for tests. Safe for
// concurrent use. Generated ids are real ObjectIds so id round-trips behave
// like the Mongo-backed store.
type MockStore struct {
	mu       sync.RWMutex
	users    map[string]*User     // keyed by hex id
	products map[string]*Product  // keyed by hex or legacy string id
	reviews  map[string]*Review   // keyed by hex id
	carts    map[string]*CartItem // keyed by hex id
	payments []*Payment
}

// NewMockStore creates an empty MockStore.
func NewMockStore() *MockStore {
	return &MockStore{
		users:    make(map[string]*User),
		products: make(map[string]*Product),
		reviews:  make(map[string]*Review),
		carts:    make(map[string]*CartItem),
	}
}

// Users

func (m *MockStore) ListUsers(ctx context.Context) ([]User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	users := make([]User, 0, len(m.users))
	for _, u := range m.users {
		users = append(users, *u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Email < users[j].Email })
	return users, nil
}

func (m *MockStore) GetUser(ctx context.Context, id string) (*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *MockStore) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MockStore) CreateUser(ctx context.Context, user *User) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	cp := *user
	m.users[cp.ID.Hex()] = &cp
	return cp.ID.Hex(), nil
}

func (m *MockStore) DeleteUser(ctx context.Context, id string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[id]; !ok {
		return 0, nil
	}
	delete(m.users, id)
	return 1, nil
}

func (m *MockStore) PromoteUser(ctx context.Context, id string) (int64, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[id]
	if !ok {
		return 0, 0, nil
	}
	if u.Role == RoleAdmin {
		return 1, 0, nil
	}
	u.Role = RoleAdmin
	return 1, 1, nil
}

// Products

func (m *MockStore) ListProducts(ctx context.Context) ([]Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	products := make([]Product, 0, len(m.products))
	for _, p := range m.products {
		products = append(products, *p)
	}
	sort.Slice(products, func(i, j int) bool { return products[i].Name < products[j].Name })
	return products, nil
}

func (m *MockStore) GetProduct(ctx context.Context, id string) (*Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.products[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *MockStore) CreateProduct(ctx context.Context, product *Product) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := productKey(product.ID)
	if key == "" {
		oid := primitive.NewObjectID()
		product.ID = oid
		key = oid.Hex()
	}
	cp := *product
	m.products[key] = &cp
	return key, nil
}

func (m *MockStore) UpdateProduct(ctx context.Context, id string, product *Product) (int64, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.products[id]
	if !ok {
		return 0, 0, nil
	}
	existing.Name = product.Name
	existing.Category = product.Category
	existing.Price = product.Price
	existing.Description = product.Description
	existing.Image = product.Image
	return 1, 1, nil
}

func (m *MockStore) DeleteProduct(ctx context.Context, id string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.products[id]; !ok {
		return 0, nil
	}
	delete(m.products, id)
	return 1, nil
}

// Reviews

func (m *MockStore) ListReviews(ctx context.Context) ([]Review, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	reviews := make([]Review, 0, len(m.reviews))
	for _, r := range m.reviews {
		reviews = append(reviews, *r)
	}
	return reviews, nil
}

// AddReview seeds a review for tests. Not part of the Store interface; the
// storefront only lists reviews.
func (m *MockStore) AddReview(review *Review) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if review.ID.IsZero() {
		review.ID = primitive.NewObjectID()
	}
	cp := *review
	m.reviews[cp.ID.Hex()] = &cp
}

// Carts

func (m *MockStore) ListCartItems(ctx context.Context, email string) ([]CartItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	items := []CartItem{}
	for _, it := range m.carts {
		if it.Email == email {
			items = append(items, *it)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID.Hex() < items[j].ID.Hex() })
	return items, nil
}

func (m *MockStore) AddCartItem(ctx context.Context, item *CartItem) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if item.ID.IsZero() {
		item.ID = primitive.NewObjectID()
	}
	cp := *item
	m.carts[cp.ID.Hex()] = &cp
	return cp.ID.Hex(), nil
}

func (m *MockStore) DeleteCartItem(ctx context.Context, id string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.carts[id]; !ok {
		return 0, nil
	}
	delete(m.carts, id)
	return 1, nil
}

func (m *MockStore) DeleteCartItems(ctx context.Context, ids []string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var deleted int64
	for _, id := range ids {
		if _, ok := m.carts[id]; ok {
			delete(m.carts, id)
			deleted++
		}
	}
	return deleted, nil
}

// Payments

func (m *MockStore) ListPayments(ctx context.Context) ([]Payment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	payments := make([]Payment, 0, len(m.payments))
	for _, p := range m.payments {
		payments = append(payments, *p)
	}
	return payments, nil
}

func (m *MockStore) ListPaymentsByEmail(ctx context.Context, email string) ([]Payment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	payments := []Payment{}
	for _, p := range m.payments {
		if p.Email == email {
			payments = append(payments, *p)
		}
	}
	return payments, nil
}

func (m *MockStore) GetPaymentByTransactionID(ctx context.Context, transactionID string) (*Payment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, p := range m.payments {
		if p.TransactionID == transactionID {
			cp := *p
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MockStore) InsertPayment(ctx context.Context, payment *Payment) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if payment.ID.IsZero() {
		payment.ID = primitive.NewObjectID()
	}
	cp := *payment
	m.payments = append(m.payments, &cp)
	return cp.ID.Hex(), nil
}

// Stats

func (m *MockStore) CountUsers(ctx context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.users)), nil
}

func (m *MockStore) CountProducts(ctx context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.products)), nil
}

func (m *MockStore) CountPayments(ctx context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.payments)), nil
}

// CategoryStats mirrors the Mongo pipeline: one row per sold item that still
// resolves to a product, grouped by category, totals rounded to 2 decimals at
// the end. Sold items whose product was deleted contribute nothing.
func (m *MockStore) CategoryStats(ctx context.Context) ([]CategoryStat, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	type bucket struct {
		count int64
		total float64
	}
	buckets := make(map[string]*bucket)

	for _, payment := range m.payments {
		for _, oid := range payment.ProductItemIDs {
			product, ok := m.products[oid.Hex()]
			if !ok {
				continue
			}
			b, ok := buckets[product.Category]
			if !ok {
				b = &bucket{}
				buckets[product.Category] = b
			}
			b.count++
			b.total += product.Price
		}
	}

	stats := make([]CategoryStat, 0, len(buckets))
	for category, b := range buckets {
		stats = append(stats, CategoryStat{
			Category: category,
			Count:    b.count,
			Total:    math.Round(b.total*100) / 100,
		})
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].Category < stats[j].Category })
	return stats, nil
}

// productKey canonicalizes a product id (ObjectId or legacy string) to its
// map key form.
func productKey(id any) string {
	switch v := id.(type) {
	case primitive.ObjectID:
		if v.IsZero() {
			return ""
		}
		return v.Hex()
	case string:
		return v
	default:
		return ""
	}
}
