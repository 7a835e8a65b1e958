package bookcatalog

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"
)

// CatalogStore is the domain facade over a BookStorage.
//
// It owns validation, default stamping, the multi-stage query pipeline and
// the translation of storage failures into DomainErrors. All observability
// collaborators are optional; a CatalogStore with none configured is silent.
type CatalogStore struct {
	storage          BookStorage
	clock            func() time.Time
	logger           Logger
	contextualLogger ContextualLogger
	metricsCollector MetricsCollector
	tracingCollector TracingCollector
}

// NewCatalogStore creates a CatalogStore on top of the given storage,
// applying the supplied options.
func NewCatalogStore(storage BookStorage, options ...Option) (*CatalogStore, error) {
	if storage == nil {
		return nil, ErrNilStorage
	}

	catalogStore := &CatalogStore{
		storage: storage,
		clock:   time.Now,
	}

	for _, option := range options {
		if err := option(catalogStore); err != nil {
			return nil, err
		}
	}

	return catalogStore, nil
}

// Create validates and persists a new book built from data.
//
// The storage assigns the ID. LastUpdated is stamped with the current time
// regardless of input and ModifiedBy falls back to "system". Validation
// failures surface unchanged; any other construction failure is reported as
// a validation error with a generic prefix so storage internals never leak.
func (cs *CatalogStore) Create(ctx context.Context, data BookData) (Book, error) {
	start := cs.clock()
	ctx, span := cs.startSpan(ctx, operationCreate)

	book, err := cs.create(ctx, data)
	if err != nil {
		cs.observeError(ctx, span, operationCreate, err, cs.clock().Sub(start))
		return Book{}, err
	}

	cs.observeSuccess(ctx, span, operationCreate, cs.clock().Sub(start), map[string]string{spanAttrBookID: book.ID})
	cs.logOperation(ctx, "book created", logAttrBookID, book.ID)

	return book, nil
}

func (cs *CatalogStore) create(ctx context.Context, data BookData) (Book, error) {
	if err := ctx.Err(); err != nil {
		return Book{}, NewTimeoutError("operation canceled")
	}

	data.LastUpdated = cs.clock()

	candidate := BuildBook("", data)
	if err := candidate.Validate(); err != nil {
		return Book{}, err
	}

	book, err := cs.storage.Insert(ctx, candidate)
	if err != nil {
		if domainErr, ok := AsDomainError(err); ok {
			return Book{}, domainErr
		}

		return Book{}, NewValidationError(fmt.Sprintf("failed to create book: %s", err.Error()), "")
	}

	return book, nil
}

// FindByID returns the book with the given ID, or a NOT_FOUND DomainError.
func (cs *CatalogStore) FindByID(ctx context.Context, id string) (Book, error) {
	start := cs.clock()
	ctx, span := cs.startSpan(ctx, operationGet)

	book, err := cs.findByID(ctx, id)
	if err != nil {
		cs.observeError(ctx, span, operationGet, err, cs.clock().Sub(start))
		return Book{}, err
	}

	cs.observeSuccess(ctx, span, operationGet, cs.clock().Sub(start), map[string]string{spanAttrBookID: book.ID})

	return book, nil
}

func (cs *CatalogStore) findByID(ctx context.Context, id string) (Book, error) {
	if err := ctx.Err(); err != nil {
		return Book{}, NewTimeoutError("operation canceled")
	}

	book, err := cs.storage.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrBookNotFound) {
			return Book{}, NewNotFoundError("Book not found")
		}

		return Book{}, NewInternalError(err)
	}

	return book, nil
}

// Update applies a partial patch to the book with the given ID.
//
// The merge is all-or-nothing: the patched candidate is validated as a whole
// before anything is written, so a failed update leaves the stored book
// untouched. LastUpdated is re-stamped on every successful update. A nil
// Ratings field keeps the existing ratings; an explicitly supplied empty
// slice clears them.
func (cs *CatalogStore) Update(ctx context.Context, id string, patch BookPatch) (Book, error) {
	start := cs.clock()
	ctx, span := cs.startSpan(ctx, operationUpdate)

	book, err := cs.update(ctx, id, patch)
	if err != nil {
		cs.observeError(ctx, span, operationUpdate, err, cs.clock().Sub(start))
		return Book{}, err
	}

	cs.observeSuccess(ctx, span, operationUpdate, cs.clock().Sub(start), map[string]string{spanAttrBookID: book.ID})
	cs.logOperation(ctx, "book updated", logAttrBookID, book.ID)

	return book, nil
}

func (cs *CatalogStore) update(ctx context.Context, id string, patch BookPatch) (Book, error) {
	existing, err := cs.findByID(ctx, id)
	if err != nil {
		return Book{}, err
	}

	merged := patch.apply(existing)
	merged.LastUpdated = cs.clock()

	candidate := BuildBook(id, merged)
	if err := candidate.Validate(); err != nil {
		return Book{}, err
	}

	if err := ctx.Err(); err != nil {
		return Book{}, NewTimeoutError("operation canceled")
	}

	if err := cs.storage.Replace(ctx, candidate); err != nil {
		if errors.Is(err, ErrBookNotFound) {
			return Book{}, NewNotFoundError("Book not found")
		}

		return Book{}, NewInternalError(err)
	}

	return candidate, nil
}

// Delete removes the book with the given ID.
// It returns true on success and a NOT_FOUND DomainError for an unknown ID.
func (cs *CatalogStore) Delete(ctx context.Context, id string) (bool, error) {
	start := cs.clock()
	ctx, span := cs.startSpan(ctx, operationDelete)

	if err := cs.delete(ctx, id); err != nil {
		cs.observeError(ctx, span, operationDelete, err, cs.clock().Sub(start))
		return false, err
	}

	cs.observeSuccess(ctx, span, operationDelete, cs.clock().Sub(start), map[string]string{spanAttrBookID: id})
	cs.logOperation(ctx, "book deleted", logAttrBookID, id)

	return true, nil
}

func (cs *CatalogStore) delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return NewTimeoutError("operation canceled")
	}

	if err := cs.storage.Remove(ctx, id); err != nil {
		if errors.Is(err, ErrBookNotFound) {
			return NewNotFoundError("Book not found")
		}

		return NewInternalError(err)
	}

	return nil
}

// FilterBooks runs the multi-stage query pipeline over the whole catalog.
//
// The stages apply in a fixed order: genre narrowing, the filter's own
// minimum rating, required tags, availability, the separate ratingThreshold
// (compounding with the filter's minimum, the stricter wins effectively),
// date range on LastUpdated, then search. The surviving set is sorted,
// aggregated as a whole and only then cut down to the requested page.
//
// Nil parameters mean "skip that stage"; a nil pagination falls back to page
// 1 with 10 items. A ratingThreshold of 0 is treated as unset.
func (cs *CatalogStore) FilterBooks(
	ctx context.Context,
	filter *BookFilter,
	pagination *Pagination,
	sorting *Sorting,
	ratingThreshold float64,
	dateRange *DateRange,
	search *SearchQuery,
) (BookConnection, error) {

	start := cs.clock()
	ctx, span := cs.startSpan(ctx, operationFilter)

	connection, err := cs.filterBooks(ctx, filter, pagination, sorting, ratingThreshold, dateRange, search)
	if err != nil {
		cs.observeError(ctx, span, operationFilter, err, cs.clock().Sub(start))
		return BookConnection{}, err
	}

	duration := cs.clock().Sub(start)
	cs.observeSuccess(ctx, span, operationFilter, duration, map[string]string{
		spanAttrResultCount: strconv.Itoa(len(connection.Items)),
		spanAttrTotalCount:  strconv.Itoa(connection.PageInfo.TotalCount),
	})
	cs.recordResultCountMetrics(ctx, len(connection.Items))
	cs.logOperation(ctx, "books filtered",
		logAttrCount, len(connection.Items),
		"total_count", connection.PageInfo.TotalCount,
		logAttrDurationMS, cs.toMilliseconds(duration),
	)

	return connection, nil
}

func (cs *CatalogStore) filterBooks(
	ctx context.Context,
	filter *BookFilter,
	pagination *Pagination,
	sorting *Sorting,
	ratingThreshold float64,
	dateRange *DateRange,
	search *SearchQuery,
) (BookConnection, error) {

	if err := ctx.Err(); err != nil {
		return BookConnection{}, NewTimeoutError("operation canceled")
	}

	books, err := cs.storage.List(ctx)
	if err != nil {
		return BookConnection{}, NewInternalError(err)
	}

	if filter != nil {
		books = applyFilter(books, *filter)
	}

	if ratingThreshold > 0 {
		books = keepBooks(books, func(b Book) bool {
			return b.AverageRating() >= ratingThreshold
		})
	}

	if dateRange != nil {
		books = keepBooks(books, func(b Book) bool {
			return dateRange.contains(b.LastUpdated)
		})
	}

	if search != nil {
		books = applySearch(books, *search)
	}

	if sorting != nil {
		sortBooks(books, *sorting)
	}

	totalCount := len(books)

	page := DefaultPagination()
	if pagination != nil {
		page = pagination.sanitized()
	}

	pageInfo := PageInfo{
		TotalCount:      totalCount,
		HasNextPage:     page.Page*page.PageSize < totalCount,
		HasPreviousPage: page.Page > 1,
		CurrentPage:     page.Page,
		TotalPages:      (totalCount + page.PageSize - 1) / page.PageSize,
	}

	aggregations := CalculateAggregations(books)

	return BookConnection{
		Items:        paginate(books, page),
		PageInfo:     pageInfo,
		Aggregations: aggregations,
	}, nil
}

func applyFilter(books []Book, filter BookFilter) []Book {
	if genres := filter.Genres(); len(genres) > 0 {
		books = keepBooks(books, func(b Book) bool {
			return slices.Contains(genres, b.Genre)
		})
	}

	if minRating := filter.MinRating(); minRating > 0 {
		books = keepBooks(books, func(b Book) bool {
			return b.AverageRating() >= minRating
		})
	}

	if tags := filter.Tags(); len(tags) > 0 {
		books = keepBooks(books, func(b Book) bool {
			for _, tag := range tags {
				if !slices.Contains(b.Tags, tag) {
					return false
				}
			}

			return true
		})
	}

	if availability, set := filter.Availability(); set {
		books = keepBooks(books, func(b Book) bool {
			return b.IsAvailable == availability
		})
	}

	return books
}

func applySearch(books []Book, search SearchQuery) []Book {
	if search.SearchTerm == "" || len(search.Fields) == 0 {
		return books
	}

	return keepBooks(books, func(b Book) bool {
		for _, field := range search.Fields {
			if matchesSearch(searchableValue(b, field), search.SearchTerm, search.FuzzyMatch) {
				return true
			}
		}

		return false
	})
}

func searchableValue(b Book, field SearchField) string {
	switch field {
	case SearchInID:
		return b.ID
	case SearchInTitle:
		return b.Title
	case SearchInAuthor:
		return b.Author
	case SearchInGenre:
		return string(b.Genre)
	case SearchInPublishedYear:
		return strconv.Itoa(b.PublishedYear)
	case SearchInModifiedBy:
		return b.ModifiedBy
	default:
		return ""
	}
}

func matchesSearch(value, term string, fuzzy bool) bool {
	if fuzzy {
		return strings.Contains(strings.ToLower(value), strings.ToLower(term))
	}

	return value == term
}

// sortBooks orders books in place. The sort is stable, so books comparing
// equal keep their relative input order. An unknown sort field leaves the
// input order untouched.
func sortBooks(books []Book, sorting Sorting) {
	compare := comparatorFor(sorting.Field)
	if compare == nil {
		return
	}

	if sorting.Direction == SortDescending {
		ascending := compare
		compare = func(a, b Book) int {
			return ascending(b, a)
		}
	}

	slices.SortStableFunc(books, compare)
}

func comparatorFor(field SortField) func(a, b Book) int {
	switch field {
	case SortByID:
		return compareIDs
	case SortByTitle:
		return func(a, b Book) int { return cmp.Compare(a.Title, b.Title) }
	case SortByAuthor:
		return func(a, b Book) int { return cmp.Compare(a.Author, b.Author) }
	case SortByGenre:
		return func(a, b Book) int { return cmp.Compare(a.Genre, b.Genre) }
	case SortByPublishedYear:
		return func(a, b Book) int { return cmp.Compare(a.PublishedYear, b.PublishedYear) }
	case SortByAverageRating:
		return func(a, b Book) int { return cmp.Compare(a.AverageRating(), b.AverageRating()) }
	case SortByTotalRatings:
		return func(a, b Book) int { return cmp.Compare(a.TotalRatings, b.TotalRatings) }
	case SortByFinalPrice:
		return func(a, b Book) int { return cmp.Compare(sortablePrice(a), sortablePrice(b)) }
	case SortByLastUpdated:
		return func(a, b Book) int { return a.LastUpdated.Compare(b.LastUpdated) }
	default:
		return nil
	}
}

// compareIDs orders numerically when both IDs parse as integers, so "10"
// sorts after "9"; otherwise it falls back to lexicographic order.
func compareIDs(a, b Book) int {
	numA, errA := strconv.Atoi(a.ID)
	numB, errB := strconv.Atoi(b.ID)

	if errA == nil && errB == nil {
		return cmp.Compare(numA, numB)
	}

	return cmp.Compare(a.ID, b.ID)
}

// sortablePrice treats unpriced books as 0 for ordering purposes.
func sortablePrice(b Book) float64 {
	finalPrice := b.FinalPrice()
	if finalPrice == nil {
		return 0
	}

	return *finalPrice
}

func paginate(books []Book, page Pagination) []Book {
	start := (page.Page - 1) * page.PageSize
	if start >= len(books) {
		return []Book{}
	}

	end := min(start+page.PageSize, len(books))

	return books[start:end]
}

func keepBooks(books []Book, keep func(Book) bool) []Book {
	kept := make([]Book, 0, len(books))
	for _, book := range books {
		if keep(book) {
			kept = append(kept, book)
		}
	}

	return kept
}

// observeSuccess records metrics and finishes the span for a successful operation.
func (cs *CatalogStore) observeSuccess(
	ctx context.Context,
	span SpanContext,
	operation string,
	duration time.Duration,
	attrs map[string]string,
) {
	cs.recordDurationMetrics(ctx, duration, operation, statusSuccess)
	cs.finishSpanSuccess(span, attrs)
}

// observeError records metrics, logs and finishes the span for a failed operation.
func (cs *CatalogStore) observeError(
	ctx context.Context,
	span SpanContext,
	operation string,
	err error,
	duration time.Duration,
) {
	errorType := errorTypeOf(err)
	cs.recordDurationMetrics(ctx, duration, operation, statusError)
	cs.recordErrorMetrics(ctx, operation, errorType)
	cs.finishSpanError(span, errorType)
	cs.logError(ctx, operation+" failed", err)
}
