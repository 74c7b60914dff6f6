// ABOUTME: Store interfaces and document types for fashiond persistence
// ABOUTME: Defines User, Product, CartItem, Payment models and per-consumer store interfaces

package store

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrNotFound is returned when a requested document does not exist
var ErrNotFound = errors.New("not found")

// ErrInvalidID is returned when an identifier cannot be resolved to any document
var ErrInvalidID = errors.New("invalid id")

// RoleAdmin is the only role with elevated access. Every other value
// (including absence) is an ordinary user.
const RoleAdmin = "admin"

// User represents an account keyed by email. The email is the identity key
// carried in signed tokens; it is matched case-sensitively.
type User struct {
	ID    primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Name  string             `bson:"name,omitempty" json:"name,omitempty"`
	Email string             `bson:"email" json:"email"`
	Role  string             `bson:"role,omitempty" json:"role,omitempty"`
}

// IsAdmin returns true if the user carries the admin role.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// Product represents a catalog item. The ID is deliberately untyped: early
// records were imported with plain string ids while new records carry
// ObjectIds, and both shapes are still live (migration artifact). Lookups
// resolve the ObjectId form first and fall back to the raw string.
type Product struct {
	ID          any     `bson:"_id,omitempty" json:"_id,omitempty"`
	Name        string  `bson:"name" json:"name"`
	Category    string  `bson:"category" json:"category"`
	Price       float64 `bson:"price" json:"price"`
	Description string  `bson:"description,omitempty" json:"description,omitempty"`
	Image       string  `bson:"image,omitempty" json:"image,omitempty"`
}

// Review represents a customer review shown on the storefront.
type Review struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Name    string             `bson:"name,omitempty" json:"name,omitempty"`
	Details string             `bson:"details,omitempty" json:"details,omitempty"`
	Rating  float64            `bson:"rating,omitempty" json:"rating,omitempty"`
}

// CartItem represents a product placed in a user's cart. Cart items are
// destroyed when the payment that consumed them is recorded.
type CartItem struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Email     string             `bson:"email" json:"email"`
	ProductID string             `bson:"productId" json:"productId"`
	Name      string             `bson:"name,omitempty" json:"name,omitempty"`
	Image     string             `bson:"image,omitempty" json:"image,omitempty"`
	Price     float64            `bson:"price,omitempty" json:"price,omitempty"`
}

// Payment is one entry in the append-only ledger of completed transactions.
// Price is the authoritative amount charged; it is never re-derived from the
// cart. CartItemIDs lists the cart entries the payment consumed,
// ProductItemIDs the products bought (joined against the catalog for stats).
type Payment struct {
	ID             primitive.ObjectID   `bson:"_id,omitempty" json:"_id,omitempty"`
	Email          string               `bson:"email" json:"email"`
	TransactionID  string               `bson:"transactionId,omitempty" json:"transactionId,omitempty"`
	Price          float64              `bson:"price" json:"price"`
	Date           string               `bson:"date,omitempty" json:"date,omitempty"`
	CartItemIDs    []string             `bson:"cartItems" json:"cartItems"`
	ProductItemIDs []primitive.ObjectID `bson:"productItems" json:"productItems"`
	Status         string               `bson:"status,omitempty" json:"status,omitempty"`
}

// CategoryStat is one row of the order-stats breakdown: all sold line items
// grouped by product category. Total is rounded to 2 decimal places.
type CategoryStat struct {
	Category string  `bson:"category" json:"category"`
	Count    int64   `bson:"count" json:"count"`
	Total    float64 `bson:"total" json:"total"`
}

// UserStore provides access to user accounts.
type UserStore interface {
	ListUsers(ctx context.Context) ([]User, error)
	GetUser(ctx context.Context, id string) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	CreateUser(ctx context.Context, user *User) (string, error)
	DeleteUser(ctx context.Context, id string) (int64, error)
	PromoteUser(ctx context.Context, id string) (matched, modified int64, err error)
}

// ProductStore provides access to the product catalog.
type ProductStore interface {
	ListProducts(ctx context.Context) ([]Product, error)
	GetProduct(ctx context.Context, id string) (*Product, error)
	CreateProduct(ctx context.Context, product *Product) (string, error)
	UpdateProduct(ctx context.Context, id string, product *Product) (matched, modified int64, err error)
	DeleteProduct(ctx context.Context, id string) (int64, error)
}

// ReviewStore provides access to storefront reviews.
type ReviewStore interface {
	ListReviews(ctx context.Context) ([]Review, error)
}

// CartStore provides access to live cart entries.
type CartStore interface {
	ListCartItems(ctx context.Context, email string) ([]CartItem, error)
	AddCartItem(ctx context.Context, item *CartItem) (string, error)
	DeleteCartItem(ctx context.Context, id string) (int64, error)
	DeleteCartItems(ctx context.Context, ids []string) (int64, error)
}

// PaymentStore provides access to the payment ledger.
type PaymentStore interface {
	ListPayments(ctx context.Context) ([]Payment, error)
	ListPaymentsByEmail(ctx context.Context, email string) ([]Payment, error)
	GetPaymentByTransactionID(ctx context.Context, transactionID string) (*Payment, error)
	InsertPayment(ctx context.Context, payment *Payment) (string, error)
}

// StatsStore provides aggregate counts and the category breakdown pipeline.
// Counts are estimates (collection metadata), cheap but approximate.
type StatsStore interface {
	CountUsers(ctx context.Context) (int64, error)
	CountProducts(ctx context.Context) (int64, error)
	CountPayments(ctx context.Context) (int64, error)
	CategoryStats(ctx context.Context) ([]CategoryStat, error)
}

// Store composes every store interface. MongoStore implements it for
// production, MockStore for tests.
type Store interface {
	UserStore
	ProductStore
	ReviewStore
	CartStore
	PaymentStore
	StatsStore
}
