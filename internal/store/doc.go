// Package store provides persistent storage for fashiond using MongoDB.
//
// # Architecture
//
// The package uses an interface-driven architecture with narrow, per-consumer
// interfaces:
//
//   - UserStore: accounts and role elevation
//   - ProductStore: catalog CRUD with two-step id resolution
//   - ReviewStore: storefront reviews
//   - CartStore: live cart entries, including bulk deletion by id set
//   - PaymentStore: the append-only payment ledger
//   - StatsStore: estimated counts and the category aggregation pipeline
//
// MongoStore implements all interfaces in a single struct; Store composes them
// for callers that need everything.
//
// # Identifier Resolution
//
// Early catalog records were imported with plain string _id values while
// everything written since carries ObjectIds. Product lookups therefore try
// the ObjectId form of an id first and fall back to the raw string. This is a
// migration artifact, confined to idFilters(); collections created after the
// migration (users, carts, payments) resolve ObjectIds only.
//
// # Connection Lifecycle
//
// One mongo.Client is created at startup, verified with a ping, and shared by
// every component for the life of the process. There is no teardown path;
// process exit releases the connection.
//
// # Error Handling
//
// Common errors:
//
//   - ErrNotFound: requested document does not exist
//   - ErrInvalidID: id cannot address any document in the collection
//
// All methods accept context.Context.
//
// # Testing
//
// Use NewMockStore() for unit tests:
//
//	s := store.NewMockStore()
//	// s implements all Store interfaces in memory
//
// MockStore reproduces MongoStore semantics, including the category
// aggregation (inner-join behavior, end-of-pipeline rounding).
package store
