package fixtures

import (
	"time"

	"github.com/google/uuid"

	"github.com/pagebound/bookcatalog-go/bookcatalog"
)

// DataOption mutates a fixture BookData before it is returned.
type DataOption func(*bookcatalog.BookData)

// SomeBookData returns a canonical valid book input, customizable via options.
func SomeBookData(opts ...DataOption) bookcatalog.BookData {
	data := bookcatalog.BookData{
		Title:         "The Left Hand of Darkness",
		Author:        "Ursula K. Le Guin",
		Genre:         bookcatalog.GenreScienceFiction,
		PublishedYear: 1969,
		Tags:          []string{"classic", "award-winner"},
		Ratings: []bookcatalog.Rating{
			SomeRating(4.5),
			SomeRating(5),
		},
		IsAvailable: true,
		Publisher: bookcatalog.Publisher{
			ID:      "pub-ace",
			Name:    "Ace Books",
			Country: "US",
		},
		Metadata: bookcatalog.BookMetadata{
			ISBN:      "978-0441478125",
			Edition:   "1st",
			Language:  "en",
			Format:    "paperback",
			PageCount: 304,
		},
		Pricing: &bookcatalog.Pricing{
			RetailPrice: 15.99,
			Discount:    0.1,
			Currency:    "USD",
		},
	}

	for _, opt := range opts {
		opt(&data)
	}

	return data
}

// SomeRating returns a rating with the given score and a random user.
func SomeRating(score float64) bookcatalog.Rating {
	return bookcatalog.Rating{
		UserID:    uuid.NewString(),
		Score:     score,
		DateRated: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

// WithTitle overrides the fixture title.
func WithTitle(title string) DataOption {
	return func(d *bookcatalog.BookData) { d.Title = title }
}

// WithAuthor overrides the fixture author.
func WithAuthor(author string) DataOption {
	return func(d *bookcatalog.BookData) { d.Author = author }
}

// WithGenre overrides the fixture genre.
func WithGenre(genre bookcatalog.Genre) DataOption {
	return func(d *bookcatalog.BookData) { d.Genre = genre }
}

// WithPublishedYear overrides the fixture published year.
func WithPublishedYear(year int) DataOption {
	return func(d *bookcatalog.BookData) { d.PublishedYear = year }
}

// WithTags overrides the fixture tags.
func WithTags(tags ...string) DataOption {
	return func(d *bookcatalog.BookData) { d.Tags = tags }
}

// WithRatingScores replaces the fixture ratings with one rating per score.
func WithRatingScores(scores ...float64) DataOption {
	return func(d *bookcatalog.BookData) {
		ratings := make([]bookcatalog.Rating, 0, len(scores))
		for _, score := range scores {
			ratings = append(ratings, SomeRating(score))
		}
		d.Ratings = ratings
	}
}

// WithoutRatings clears the fixture ratings.
func WithoutRatings() DataOption {
	return func(d *bookcatalog.BookData) { d.Ratings = nil }
}

// WithAvailability overrides the fixture availability flag.
func WithAvailability(available bool) DataOption {
	return func(d *bookcatalog.BookData) { d.IsAvailable = available }
}

// WithPublisher overrides the fixture publisher.
func WithPublisher(id, name, country string) DataOption {
	return func(d *bookcatalog.BookData) {
		d.Publisher = bookcatalog.Publisher{ID: id, Name: name, Country: country}
	}
}

// WithPricing overrides the fixture pricing.
func WithPricing(retailPrice, discount float64, currency string) DataOption {
	return func(d *bookcatalog.BookData) {
		d.Pricing = &bookcatalog.Pricing{
			RetailPrice: retailPrice,
			Discount:    discount,
			Currency:    currency,
		}
	}
}

// WithoutPricing clears the fixture pricing.
func WithoutPricing() DataOption {
	return func(d *bookcatalog.BookData) { d.Pricing = nil }
}

// WithLastUpdated overrides the fixture last-updated timestamp.
func WithLastUpdated(t time.Time) DataOption {
	return func(d *bookcatalog.BookData) { d.LastUpdated = t }
}

// WithModifiedBy overrides the fixture modified-by attribution.
func WithModifiedBy(actor string) DataOption {
	return func(d *bookcatalog.BookData) { d.ModifiedBy = actor }
}
