package bookcatalog

import (
	"slices"
	"time"
	"unicode/utf8"
)

// Genre enumerates the catalog's book genres.
type Genre string

const (
	GenreFiction        Genre = "FICTION"
	GenreNonFiction     Genre = "NON_FICTION"
	GenreScienceFiction Genre = "SCIENCE_FICTION"
	GenreClassic        Genre = "CLASSIC"
	GenreMystery        Genre = "MYSTERY"
)

// IsValid reports whether g is one of the enumerated genres.
func (g Genre) IsValid() bool {
	switch g {
	case GenreFiction, GenreNonFiction, GenreScienceFiction, GenreClassic, GenreMystery:
		return true
	default:
		return false
	}
}

const maxTitleLength = 255

const defaultModifiedBy = "system"

var allowedCurrencies = []string{"USD", "EUR", "GBP"}

// Publisher identifies the publishing house of a Book.
type Publisher struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Country string `json:"country"`
}

// BookMetadata holds bibliographic passthrough data; it is never validated.
type BookMetadata struct {
	ISBN      string `json:"isbn"`
	Edition   string `json:"edition"`
	Language  string `json:"language"`
	Format    string `json:"format"`
	PageCount int    `json:"pageCount"`
}

// Pricing holds the commercial attributes of a Book.
// Discount is a fraction in [0,1] applied to RetailPrice.
type Pricing struct {
	RetailPrice float64 `json:"retailPrice"`
	Discount    float64 `json:"discount"`
	Currency    string  `json:"currency"`
}

// Rating is one individual user score for a Book, distinct from the
// book-level average.
type Rating struct {
	UserID    string    `json:"userId"`
	Score     float64   `json:"score"`
	Review    string    `json:"review,omitempty"`
	DateRated time.Time `json:"dateRated"`
}

// Book represents one catalog entry.
//
// TotalRatings is computed once at construction from len(Ratings) and is NOT
// re-derived after later in-place mutation; call sites must rebuild the entity
// (via BuildBook) to refresh it. The CatalogStore does this on every update.
type Book struct {
	ID            string       `json:"id"`
	Title         string       `json:"title"`
	Author        string       `json:"author"`
	Genre         Genre        `json:"genre"`
	PublishedYear int          `json:"publishedYear"`
	Tags          []string     `json:"tags"`
	Ratings       []Rating     `json:"ratings"`
	IsAvailable   bool         `json:"isAvailable"`
	Publisher     Publisher    `json:"publisher"`
	Metadata      BookMetadata `json:"metadata"`
	Pricing       *Pricing     `json:"pricing,omitempty"`
	LastUpdated   time.Time    `json:"lastUpdated"`
	ModifiedBy    string       `json:"modifiedBy"`
	TotalRatings  int          `json:"totalRatings"`
}

// BookData is the plain input bag for constructing a Book.
// Optional fields left at their zero value receive defaults in BuildBook.
type BookData struct {
	Title         string
	Author        string
	Genre         Genre
	PublishedYear int
	Tags          []string
	Ratings       []Rating
	IsAvailable   bool
	Publisher     Publisher
	Metadata      BookMetadata
	Pricing       *Pricing
	LastUpdated   time.Time
	ModifiedBy    string
}

// BuildBook is a factory method for Book.
//
// It applies the entity defaults: nil tags and ratings become empty slices,
// a zero LastUpdated becomes the current time and an empty ModifiedBy becomes
// "system". The input slices are cloned so the Book never aliases caller state.
func BuildBook(id string, data BookData) Book {
	tags := slices.Clone(data.Tags)
	if tags == nil {
		tags = []string{}
	}

	ratings := slices.Clone(data.Ratings)
	if ratings == nil {
		ratings = []Rating{}
	}

	lastUpdated := data.LastUpdated
	if lastUpdated.IsZero() {
		lastUpdated = time.Now()
	}

	modifiedBy := data.ModifiedBy
	if modifiedBy == "" {
		modifiedBy = defaultModifiedBy
	}

	var pricing *Pricing
	if data.Pricing != nil {
		pricingCopy := *data.Pricing
		pricing = &pricingCopy
	}

	return Book{
		ID:            id,
		Title:         data.Title,
		Author:        data.Author,
		Genre:         data.Genre,
		PublishedYear: data.PublishedYear,
		Tags:          tags,
		Ratings:       ratings,
		IsAvailable:   data.IsAvailable,
		Publisher:     data.Publisher,
		Metadata:      data.Metadata,
		Pricing:       pricing,
		LastUpdated:   lastUpdated,
		ModifiedBy:    modifiedBy,
		TotalRatings:  len(ratings),
	}
}

// AverageRating returns the mean of all rating scores.
// It returns 0 when the book has no ratings - never a null-ish sentinel, so
// callers can compare against thresholds without a presence check.
func (b Book) AverageRating() float64 {
	if len(b.Ratings) == 0 {
		return 0
	}

	sum := 0.0
	for _, rating := range b.Ratings {
		sum += rating.Score
	}

	return sum / float64(len(b.Ratings))
}

// FinalPrice returns the discounted retail price, or nil when the book
// carries no pricing.
func (b Book) FinalPrice() *float64 {
	if b.Pricing == nil {
		return nil
	}

	finalPrice := b.Pricing.RetailPrice * (1 - b.Pricing.Discount)

	return &finalPrice
}

// Clone returns a deep copy of the Book so the store's records are never
// aliased by callers.
func (b Book) Clone() Book {
	clone := b
	clone.Tags = slices.Clone(b.Tags)
	clone.Ratings = slices.Clone(b.Ratings)

	if b.Pricing != nil {
		pricingCopy := *b.Pricing
		clone.Pricing = &pricingCopy
	}

	return clone
}

// Validate enforces the business invariants of a Book.
//
// It short-circuits on the first failing rule, in this priority order:
// title presence/length, author presence, negative retail price, published
// year in the future, invalid currency, discount outside [0,1], any rating
// score outside [0,5]. The returned error is always a DomainError with code
// VALIDATION_ERROR and the offending field path.
func (b Book) Validate() error {
	if b.Title == "" {
		return NewValidationError("title must be provided", "title")
	}

	if utf8.RuneCountInString(b.Title) > maxTitleLength {
		return NewValidationError("title must not be longer than 255 characters", "title")
	}

	if b.Author == "" {
		return NewValidationError("author must be provided", "author")
	}

	if b.Pricing != nil && b.Pricing.RetailPrice < 0 {
		return NewValidationError("retail price must not be negative", "pricing.retailPrice")
	}

	if b.PublishedYear > time.Now().Year() {
		return NewValidationError("published year must not be in the future", "publishedYear")
	}

	if b.Pricing != nil && !slices.Contains(allowedCurrencies, b.Pricing.Currency) {
		return NewValidationError("currency must be one of USD, EUR, GBP", "pricing.currency")
	}

	if b.Pricing != nil && (b.Pricing.Discount < 0 || b.Pricing.Discount > 1) {
		return NewValidationError("discount must be between 0 and 1", "pricing.discount")
	}

	for _, rating := range b.Ratings {
		if rating.Score < 0 || rating.Score > 5 {
			return NewValidationError("rating score must be between 0 and 5", "ratings.score")
		}
	}

	return nil
}
