// Package bookcatalog provides the core abstractions and types for an
// in-memory book catalog with filtering, sorting, pagination and
// aggregations.
//
// This package defines the domain model, the storage contract and the
// CatalogStore facade used across different storage implementations,
// including filters, patches, and common error definitions.
//
// The catalog supports multi-stage narrowing of the result set based on:
//   - Genres (any-of) and tags (all-of)
//   - Minimum average rating and availability
//   - Last-updated date ranges
//   - Exact or fuzzy text search over selected fields
//
// Key types:
//   - Book: One catalog entry with ratings, pricing and publisher data
//   - BookFilter: Criteria for narrowing the catalog, built via BuildBookFilter
//   - CatalogStore: The domain facade running on a BookStorage
//   - BookConnection: One result page plus paging metadata and aggregations
//
// Common usage pattern:
//
//	store, err := bookcatalog.NewCatalogStore(memoryengine.New())
//	if err != nil {
//		// handle error
//	}
//
//	filter := bookcatalog.BuildBookFilter().
//		Matching().
//		AnyGenreOf(bookcatalog.GenreFiction, bookcatalog.GenreMystery).
//		AndAllTagsOf("bestseller").
//		AndThatAreAvailable().
//		Finalize()
//
//	connection, err := store.FilterBooks(ctx, &filter, nil, nil, 0, nil, nil)
//	if err != nil {
//		// handle error
//	}
package bookcatalog
