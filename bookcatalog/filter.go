package bookcatalog

import (
	"slices"
	"time"
)

/***** BookFilter *****/

// BookFilter holds the multi-criteria narrowing applied by FilterBooks.
// The zero value matches every book. Construct it with BuildBookFilter.
type BookFilter struct {
	genres       []Genre
	tags         []string
	minRating    float64
	availability *bool
}

// Genres returns the genre set a book must belong to; empty means no genre narrowing.
func (f BookFilter) Genres() []Genre {
	return f.genres
}

// Tags returns the tags a book must ALL carry (intersection-required semantics).
func (f BookFilter) Tags() []string {
	return f.tags
}

// MinRating returns the minimum average rating; 0 means no rating narrowing.
func (f BookFilter) MinRating() float64 {
	return f.minRating
}

// Availability returns the required availability flag and whether it is set.
func (f BookFilter) Availability() (value bool, set bool) {
	if f.availability == nil {
		return false, false
	}

	return *f.availability, true
}

/***** BookFilterBuilder *****/

// BookFilterBuilder builds a BookFilter for the catalog's query pipeline.
// It is designed to only allow "useful" filter combinations:
//
//   - empty filter (every book matches)
//   - (genre OR genre...)
//   - (tag AND tag...)
//   - minimum average rating
//   - availability
//   - any AND-combination of the above criteria
type BookFilterBuilder interface {
	// Matching starts the criteria chain.
	Matching() EmptyBookFilterBuilder

	// MatchingAnyBook directly creates an empty BookFilter.
	MatchingAnyBook() BookFilter
}

type EmptyBookFilterBuilder interface {
	// AnyGenreOf adds one or multiple genres; a book matches if its genre is ANY of them.
	//
	// It sanitizes the input:
	//	- removing invalid genres
	//	- sorting the genres
	//	- removing duplicate genres
	AnyGenreOf(genre Genre, genres ...Genre) CompletedBookFilterBuilder

	// AllTagsOf adds one or multiple tags; a book matches only if it carries ALL of them.
	//
	// It sanitizes the input:
	//	- removing empty tags ("")
	//	- sorting the tags
	//	- removing duplicate tags
	AllTagsOf(tag string, tags ...string) CompletedBookFilterBuilder

	// MinRatingOf requires a book's average rating to be at least rating.
	MinRatingOf(rating float64) CompletedBookFilterBuilder

	// ThatAreAvailable requires a book to be available.
	ThatAreAvailable() CompletedBookFilterBuilder

	// ThatAreUnavailable requires a book to be unavailable.
	ThatAreUnavailable() CompletedBookFilterBuilder
}

type CompletedBookFilterBuilder interface {
	AndAnyGenreOf(genre Genre, genres ...Genre) CompletedBookFilterBuilder

	AndAllTagsOf(tag string, tags ...string) CompletedBookFilterBuilder

	AndMinRatingOf(rating float64) CompletedBookFilterBuilder

	AndThatAreAvailable() CompletedBookFilterBuilder

	AndThatAreUnavailable() CompletedBookFilterBuilder

	// Finalize returns the BookFilter with all accumulated criteria.
	Finalize() BookFilter
}

// bookFilterBuilder implements all the interfaces of BookFilterBuilder.
type bookFilterBuilder struct {
	filter BookFilter
}

// BuildBookFilter creates a BookFilterBuilder which must eventually be
// finalized with Finalize() or MatchingAnyBook().
func BuildBookFilter() BookFilterBuilder {
	return bookFilterBuilder{}
}

// Matching starts the criteria chain.
func (fb bookFilterBuilder) Matching() EmptyBookFilterBuilder {
	return fb
}

// MatchingAnyBook directly creates an empty BookFilter.
func (fb bookFilterBuilder) MatchingAnyBook() BookFilter {
	return fb.filter
}

// AnyGenreOf adds one or multiple genres; a book matches if its genre is ANY of them.
func (fb bookFilterBuilder) AnyGenreOf(genre Genre, genres ...Genre) CompletedBookFilterBuilder {
	fb.filter.genres = append(fb.filter.genres, fb.sanitizeGenres(genre, genres...)...)

	return fb
}

// AndAnyGenreOf adds one or multiple genres; a book matches if its genre is ANY of them.
func (fb bookFilterBuilder) AndAnyGenreOf(genre Genre, genres ...Genre) CompletedBookFilterBuilder {
	return fb.AnyGenreOf(genre, genres...)
}

func (fb bookFilterBuilder) sanitizeGenres(genre Genre, genres ...Genre) []Genre {
	allGenres := append([]Genre{genre}, genres...)
	allGenres = slices.DeleteFunc(
		allGenres,
		func(g Genre) bool {
			return !g.IsValid()
		})
	slices.Sort(allGenres)
	allGenres = slices.Compact(allGenres)
	allGenres = slices.Clip(allGenres)

	return allGenres
}

// AllTagsOf adds one or multiple tags; a book matches only if it carries ALL of them.
func (fb bookFilterBuilder) AllTagsOf(tag string, tags ...string) CompletedBookFilterBuilder {
	fb.filter.tags = append(fb.filter.tags, fb.sanitizeTags(tag, tags...)...)

	return fb
}

// AndAllTagsOf adds one or multiple tags; a book matches only if it carries ALL of them.
func (fb bookFilterBuilder) AndAllTagsOf(tag string, tags ...string) CompletedBookFilterBuilder {
	return fb.AllTagsOf(tag, tags...)
}

func (fb bookFilterBuilder) sanitizeTags(tag string, tags ...string) []string {
	allTags := append([]string{tag}, tags...)
	allTags = slices.DeleteFunc(
		allTags,
		func(t string) bool {
			return t == ""
		})
	slices.Sort(allTags)
	allTags = slices.Compact(allTags)
	allTags = slices.Clip(allTags)

	return allTags
}

// MinRatingOf requires a book's average rating to be at least rating.
func (fb bookFilterBuilder) MinRatingOf(rating float64) CompletedBookFilterBuilder {
	fb.filter.minRating = rating

	return fb
}

// AndMinRatingOf requires a book's average rating to be at least rating.
func (fb bookFilterBuilder) AndMinRatingOf(rating float64) CompletedBookFilterBuilder {
	return fb.MinRatingOf(rating)
}

// ThatAreAvailable requires a book to be available.
func (fb bookFilterBuilder) ThatAreAvailable() CompletedBookFilterBuilder {
	available := true
	fb.filter.availability = &available

	return fb
}

// AndThatAreAvailable requires a book to be available.
func (fb bookFilterBuilder) AndThatAreAvailable() CompletedBookFilterBuilder {
	return fb.ThatAreAvailable()
}

// ThatAreUnavailable requires a book to be unavailable.
func (fb bookFilterBuilder) ThatAreUnavailable() CompletedBookFilterBuilder {
	unavailable := false
	fb.filter.availability = &unavailable

	return fb
}

// AndThatAreUnavailable requires a book to be unavailable.
func (fb bookFilterBuilder) AndThatAreUnavailable() CompletedBookFilterBuilder {
	return fb.ThatAreUnavailable()
}

// Finalize returns the BookFilter with all accumulated criteria.
func (fb bookFilterBuilder) Finalize() BookFilter {
	return fb.filter
}

/***** Query parameter types *****/

// SortDirection selects the ordering of a sorted result set.
type SortDirection string

const (
	SortAscending  SortDirection = "ASC"
	SortDescending SortDirection = "DESC"
)

// SortField names a Book attribute the result set can be ordered by.
type SortField string

const (
	SortByID            SortField = "id"
	SortByTitle         SortField = "title"
	SortByAuthor        SortField = "author"
	SortByGenre         SortField = "genre"
	SortByPublishedYear SortField = "publishedYear"
	SortByAverageRating SortField = "averageRating"
	SortByTotalRatings  SortField = "totalRatings"
	SortByFinalPrice    SortField = "finalPrice"
	SortByLastUpdated   SortField = "lastUpdated"
)

// Sorting orders the filtered result set by one field.
// Ordering is ascending unless Direction is SortDescending; ties preserve
// the relative input order.
type Sorting struct {
	Field     SortField
	Direction SortDirection
}

// Pagination slices the sorted result set into 1-based pages.
type Pagination struct {
	Page     int
	PageSize int
}

// DefaultPagination is applied when FilterBooks receives no pagination.
func DefaultPagination() Pagination {
	return Pagination{Page: 1, PageSize: 10}
}

// sanitized falls back to the defaults for non-positive page or page size.
func (p Pagination) sanitized() Pagination {
	defaults := DefaultPagination()

	if p.Page < 1 {
		p.Page = defaults.Page
	}

	if p.PageSize < 1 {
		p.PageSize = defaults.PageSize
	}

	return p
}

// DateRange keeps books whose LastUpdated timestamp falls within
// [Start, End], both ends inclusive.
type DateRange struct {
	Start time.Time
	End   time.Time
}

func (r DateRange) contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

// SearchField names a Book attribute the search stage can match against.
type SearchField string

const (
	SearchInID            SearchField = "id"
	SearchInTitle         SearchField = "title"
	SearchInAuthor        SearchField = "author"
	SearchInGenre         SearchField = "genre"
	SearchInPublishedYear SearchField = "publishedYear"
	SearchInModifiedBy    SearchField = "modifiedBy"
)

// SearchQuery keeps books where ANY of the named fields matches SearchTerm.
// With FuzzyMatch the match is a case-insensitive substring containment test,
// otherwise it is exact case-sensitive string equality.
type SearchQuery struct {
	SearchTerm string
	Fields     []SearchField
	FuzzyMatch bool
}
