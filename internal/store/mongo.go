// ABOUTME: MongoDB implementation of the Store interface using the official driver
// ABOUTME: One client per process, connected at startup and held for the process lifetime

package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore implements the Store interface backed by MongoDB.
// The underlying client is shared process-wide: connected once at startup and
// never explicitly released (process lifetime equals connection lifetime).
type MongoStore struct {
	client   *mongo.Client
	users    *mongo.Collection
	products *mongo.Collection
	reviews  *mongo.Collection
	carts    *mongo.Collection
	payments *mongo.Collection
	logger   *slog.Logger
}

// NewMongoStore connects to MongoDB at the given URI and returns a store bound
// to the named database. The connection is verified with a ping.
func NewMongoStore(ctx context.Context, uri, dbName string) (*MongoStore, error) {
	logger := slog.Default().With("component", "store")

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connecting to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("pinging mongodb: %w", err)
	}

	db := client.Database(dbName)
	s := &MongoStore{
		client:   client,
		users:    db.Collection("users"),
		products: db.Collection("products"),
		reviews:  db.Collection("reviews"),
		carts:    db.Collection("carts"),
		payments: db.Collection("payments"),
		logger:   logger,
	}

	logger.Info("mongodb store initialized", "database", dbName)
	return s, nil
}

// Close disconnects the underlying client. Only used by tests and tooling;
// the server holds the connection for its whole lifetime.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// idFilters returns the filters to try for a lookup by id, in order. Hex ids
// resolve to an ObjectId filter first with the raw string as fallback; early
// imported records still carry plain string ids (migration artifact).
func idFilters(id string) []bson.M {
	if oid, err := primitive.ObjectIDFromHex(id); err == nil {
		return []bson.M{{"_id": oid}, {"_id": id}}
	}
	return []bson.M{{"_id": id}}
}

// objectIDFilter resolves ids for collections that only ever held ObjectIds.
func objectIDFilter(id string) (bson.M, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return bson.M{"_id": oid}, nil
}

// Users

func (s *MongoStore) ListUsers(ctx context.Context) ([]User, error) {
	cursor, err := s.users.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}

	users := []User{}
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("decoding users: %w", err)
	}
	return users, nil
}

func (s *MongoStore) GetUser(ctx context.Context, id string) (*User, error) {
	filter, err := objectIDFilter(id)
	if err != nil {
		return nil, err
	}

	var user User
	err = s.users.FindOne(ctx, filter).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting user: %w", err)
	}
	return &user, nil
}

func (s *MongoStore) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	var user User
	err := s.users.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting user by email: %w", err)
	}
	return &user, nil
}

func (s *MongoStore) CreateUser(ctx context.Context, user *User) (string, error) {
	res, err := s.users.InsertOne(ctx, user)
	if err != nil {
		return "", fmt.Errorf("inserting user: %w", err)
	}
	return insertedHex(res.InsertedID), nil
}

func (s *MongoStore) DeleteUser(ctx context.Context, id string) (int64, error) {
	filter, err := objectIDFilter(id)
	if err != nil {
		return 0, err
	}

	res, err := s.users.DeleteOne(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("deleting user: %w", err)
	}
	return res.DeletedCount, nil
}

func (s *MongoStore) PromoteUser(ctx context.Context, id string) (int64, int64, error) {
	filter, err := objectIDFilter(id)
	if err != nil {
		return 0, 0, err
	}

	res, err := s.users.UpdateOne(ctx, filter, bson.M{"$set": bson.M{"role": RoleAdmin}})
	if err != nil {
		return 0, 0, fmt.Errorf("promoting user: %w", err)
	}
	return res.MatchedCount, res.ModifiedCount, nil
}

// Products

func (s *MongoStore) ListProducts(ctx context.Context) ([]Product, error) {
	cursor, err := s.products.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}

	products := []Product{}
	if err := cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("decoding products: %w", err)
	}
	return products, nil
}

func (s *MongoStore) GetProduct(ctx context.Context, id string) (*Product, error) {
	for _, filter := range idFilters(id) {
		var product Product
		err := s.products.FindOne(ctx, filter).Decode(&product)
		if errors.Is(err, mongo.ErrNoDocuments) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("getting product: %w", err)
		}
		return &product, nil
	}
	return nil, ErrNotFound
}

func (s *MongoStore) CreateProduct(ctx context.Context, product *Product) (string, error) {
	res, err := s.products.InsertOne(ctx, product)
	if err != nil {
		return "", fmt.Errorf("inserting product: %w", err)
	}
	return insertedHex(res.InsertedID), nil
}

func (s *MongoStore) UpdateProduct(ctx context.Context, id string, product *Product) (int64, int64, error) {
	update := bson.M{"$set": bson.M{
		"name":        product.Name,
		"category":    product.Category,
		"price":       product.Price,
		"description": product.Description,
		"image":       product.Image,
	}}

	for _, filter := range idFilters(id) {
		res, err := s.products.UpdateOne(ctx, filter, update)
		if err != nil {
			return 0, 0, fmt.Errorf("updating product: %w", err)
		}
		if res.MatchedCount > 0 {
			return res.MatchedCount, res.ModifiedCount, nil
		}
	}
	return 0, 0, nil
}

func (s *MongoStore) DeleteProduct(ctx context.Context, id string) (int64, error) {
	for _, filter := range idFilters(id) {
		res, err := s.products.DeleteOne(ctx, filter)
		if err != nil {
			return 0, fmt.Errorf("deleting product: %w", err)
		}
		if res.DeletedCount > 0 {
			return res.DeletedCount, nil
		}
	}
	return 0, nil
}

// Reviews

func (s *MongoStore) ListReviews(ctx context.Context) ([]Review, error) {
	cursor, err := s.reviews.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("listing reviews: %w", err)
	}

	reviews := []Review{}
	if err := cursor.All(ctx, &reviews); err != nil {
		return nil, fmt.Errorf("decoding reviews: %w", err)
	}
	return reviews, nil
}

// Carts

func (s *MongoStore) ListCartItems(ctx context.Context, email string) ([]CartItem, error) {
	cursor, err := s.carts.Find(ctx, bson.M{"email": email})
	if err != nil {
		return nil, fmt.Errorf("listing cart items: %w", err)
	}

	items := []CartItem{}
	if err := cursor.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("decoding cart items: %w", err)
	}
	return items, nil
}

func (s *MongoStore) AddCartItem(ctx context.Context, item *CartItem) (string, error) {
	res, err := s.carts.InsertOne(ctx, item)
	if err != nil {
		return "", fmt.Errorf("inserting cart item: %w", err)
	}
	return insertedHex(res.InsertedID), nil
}

func (s *MongoStore) DeleteCartItem(ctx context.Context, id string) (int64, error) {
	filter, err := objectIDFilter(id)
	if err != nil {
		return 0, err
	}

	res, err := s.carts.DeleteOne(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("deleting cart item: %w", err)
	}
	return res.DeletedCount, nil
}

// DeleteCartItems removes every cart entry whose id is in ids. Ids that parse
// as ObjectIds are matched as such, the rest as raw strings. Deleting an
// already-removed id is a no-op, so the call is safely re-runnable.
func (s *MongoStore) DeleteCartItems(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	values := make([]any, 0, len(ids))
	for _, id := range ids {
		if oid, err := primitive.ObjectIDFromHex(id); err == nil {
			values = append(values, oid)
		} else {
			values = append(values, id)
		}
	}

	res, err := s.carts.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": values}})
	if err != nil {
		return 0, fmt.Errorf("deleting cart items: %w", err)
	}
	return res.DeletedCount, nil
}

// Payments

func (s *MongoStore) ListPayments(ctx context.Context) ([]Payment, error) {
	cursor, err := s.payments.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("listing payments: %w", err)
	}

	payments := []Payment{}
	if err := cursor.All(ctx, &payments); err != nil {
		return nil, fmt.Errorf("decoding payments: %w", err)
	}
	return payments, nil
}

func (s *MongoStore) ListPaymentsByEmail(ctx context.Context, email string) ([]Payment, error) {
	cursor, err := s.payments.Find(ctx, bson.M{"email": email})
	if err != nil {
		return nil, fmt.Errorf("listing payments by email: %w", err)
	}

	payments := []Payment{}
	if err := cursor.All(ctx, &payments); err != nil {
		return nil, fmt.Errorf("decoding payments: %w", err)
	}
	return payments, nil
}

func (s *MongoStore) GetPaymentByTransactionID(ctx context.Context, transactionID string) (*Payment, error) {
	var payment Payment
	err := s.payments.FindOne(ctx, bson.M{"transactionId": transactionID}).Decode(&payment)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting payment by transaction id: %w", err)
	}
	return &payment, nil
}

func (s *MongoStore) InsertPayment(ctx context.Context, payment *Payment) (string, error) {
	res, err := s.payments.InsertOne(ctx, payment)
	if err != nil {
		return "", fmt.Errorf("inserting payment: %w", err)
	}
	return insertedHex(res.InsertedID), nil
}

// Stats

func (s *MongoStore) CountUsers(ctx context.Context) (int64, error) {
	return s.users.EstimatedDocumentCount(ctx)
}

func (s *MongoStore) CountProducts(ctx context.Context) (int64, error) {
	return s.products.EstimatedDocumentCount(ctx)
}

func (s *MongoStore) CountPayments(ctx context.Context) (int64, error) {
	return s.payments.EstimatedDocumentCount(ctx)
}

// CategoryStats joins each payment's product items against the catalog,
// expands the join to one row per sold item, and groups by category. Products
// that no longer exist simply produce no row (inner-join semantics of $unwind).
func (s *MongoStore) CategoryStats(ctx context.Context) ([]CategoryStat, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: "products"},
			{Key: "localField", Value: "productItems"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "productItemsData"},
		}}},
		bson.D{{Key: "$unwind", Value: "$productItemsData"}},
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$productItemsData.category"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
			{Key: "total", Value: bson.D{{Key: "$sum", Value: "$productItemsData.price"}}},
		}}},
		bson.D{{Key: "$project", Value: bson.D{
			{Key: "category", Value: "$_id"},
			{Key: "count", Value: 1},
			{Key: "total", Value: bson.D{{Key: "$round", Value: bson.A{"$total", 2}}}},
			{Key: "_id", Value: 0},
		}}},
	}

	cursor, err := s.payments.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregating order stats: %w", err)
	}

	stats := []CategoryStat{}
	if err := cursor.All(ctx, &stats); err != nil {
		return nil, fmt.Errorf("decoding order stats: %w", err)
	}
	return stats, nil
}

// insertedHex renders a driver InsertedID as the hex string handed back to
// API clients.
func insertedHex(id any) string {
	if oid, ok := id.(primitive.ObjectID); ok {
		return oid.Hex()
	}
	return fmt.Sprintf("%v", id)
}
