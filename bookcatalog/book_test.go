package bookcatalog_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/pagebound/bookcatalog-go/bookcatalog"
	"github.com/pagebound/bookcatalog-go/testutil/fixtures"
)

func Test_BuildBook_AppliesDefaults(t *testing.T) {
	before := time.Now()
	book := bookcatalog.BuildBook("1", bookcatalog.BookData{
		Title:  "Solaris",
		Author: "Stanislaw Lem",
		Genre:  bookcatalog.GenreScienceFiction,
	})
	after := time.Now()

	assert.Equal(t, "1", book.ID)
	assert.NotNil(t, book.Tags)
	assert.Empty(t, book.Tags)
	assert.NotNil(t, book.Ratings)
	assert.Empty(t, book.Ratings)
	assert.Equal(t, "system", book.ModifiedBy)
	assert.Equal(t, 0, book.TotalRatings)
	assert.False(t, book.LastUpdated.Before(before))
	assert.False(t, book.LastUpdated.After(after))
}

func Test_BuildBook_DoesNotAliasInputSlices(t *testing.T) {
	tags := []string{"classic"}
	ratings := []bookcatalog.Rating{fixtures.SomeRating(4)}

	book := bookcatalog.BuildBook("1", fixtures.SomeBookData(func(d *bookcatalog.BookData) {
		d.Tags = tags
		d.Ratings = ratings
	}))

	tags[0] = "mutated"
	ratings[0].Score = 1

	assert.Equal(t, "classic", book.Tags[0])
	assert.Equal(t, float64(4), book.Ratings[0].Score)
}

func Test_BuildBook_TotalRatingsMatchesRatings(t *testing.T) {
	book := bookcatalog.BuildBook("1", fixtures.SomeBookData(fixtures.WithRatingScores(3, 4, 5)))

	assert.Equal(t, 3, book.TotalRatings)
}

func Test_AverageRating(t *testing.T) {
	tests := []struct {
		name     string
		scores   []float64
		expected float64
	}{
		{name: "no_ratings_yields_zero", scores: nil, expected: 0},
		{name: "single_rating", scores: []float64{4}, expected: 4},
		{name: "mean_of_scores", scores: []float64{3, 4, 5}, expected: 4},
		{name: "fractional_mean", scores: []float64{4, 5}, expected: 4.5},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			book := bookcatalog.BuildBook("1", fixtures.SomeBookData(fixtures.WithRatingScores(tc.scores...)))
			assert.InDelta(t, tc.expected, book.AverageRating(), 1e-9)
		})
	}
}

func Test_FinalPrice_NilWithoutPricing(t *testing.T) {
	book := bookcatalog.BuildBook("1", fixtures.SomeBookData(fixtures.WithoutPricing()))

	assert.Nil(t, book.FinalPrice())
}

func Test_FinalPrice_AppliesDiscount(t *testing.T) {
	book := bookcatalog.BuildBook("1", fixtures.SomeBookData(fixtures.WithPricing(20, 0.25, "USD")))

	price := book.FinalPrice()
	require.NotNil(t, price)
	assert.InDelta(t, 15.0, *price, 1e-9)
}

func Test_FinalPrice_Property_BoundedByRetailPrice(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		retail := rapid.Float64Range(0, 10000).Draw(t, "retail")
		discount := rapid.Float64Range(0, 1).Draw(t, "discount")

		book := bookcatalog.BuildBook("1", fixtures.SomeBookData(
			fixtures.WithPricing(retail, discount, "USD"),
		))

		price := book.FinalPrice()
		if price == nil {
			t.Fatalf("final price must not be nil when pricing is set")
		}

		if *price < 0 || *price > retail {
			t.Fatalf("final price %f outside [0, %f]", *price, retail)
		}
	})
}

func Test_Clone_IsDeep(t *testing.T) {
	original := bookcatalog.BuildBook("1", fixtures.SomeBookData())
	clone := original.Clone()

	clone.Tags[0] = "mutated"
	clone.Ratings[0].Score = 0
	clone.Pricing.RetailPrice = 1

	assert.Equal(t, "classic", original.Tags[0])
	assert.Equal(t, 4.5, original.Ratings[0].Score)
	assert.Equal(t, 15.99, original.Pricing.RetailPrice)
}

//nolint:funlen
func Test_Validate(t *testing.T) {
	tests := []struct {
		name          string
		data          bookcatalog.BookData
		expectedField string
	}{
		{
			name: "valid_book_passes",
			data: fixtures.SomeBookData(),
		},
		{
			name:          "empty_title",
			data:          fixtures.SomeBookData(fixtures.WithTitle("")),
			expectedField: "title",
		},
		{
			name:          "title_longer_than_255_characters",
			data:          fixtures.SomeBookData(fixtures.WithTitle(strings.Repeat("x", 256))),
			expectedField: "title",
		},
		{
			name: "title_of_exactly_255_characters_passes",
			data: fixtures.SomeBookData(fixtures.WithTitle(strings.Repeat("x", 255))),
		},
		{
			name:          "empty_author",
			data:          fixtures.SomeBookData(fixtures.WithAuthor("")),
			expectedField: "author",
		},
		{
			name:          "negative_retail_price",
			data:          fixtures.SomeBookData(fixtures.WithPricing(-1, 0, "USD")),
			expectedField: "pricing.retailPrice",
		},
		{
			name:          "published_year_in_the_future",
			data:          fixtures.SomeBookData(fixtures.WithPublishedYear(time.Now().Year() + 1)),
			expectedField: "publishedYear",
		},
		{
			name: "current_year_passes",
			data: fixtures.SomeBookData(fixtures.WithPublishedYear(time.Now().Year())),
		},
		{
			name:          "unknown_currency",
			data:          fixtures.SomeBookData(fixtures.WithPricing(10, 0, "JPY")),
			expectedField: "pricing.currency",
		},
		{
			name:          "discount_above_one",
			data:          fixtures.SomeBookData(fixtures.WithPricing(10, 1.5, "USD")),
			expectedField: "pricing.discount",
		},
		{
			name:          "rating_score_above_five",
			data:          fixtures.SomeBookData(fixtures.WithRatingScores(4, 5.5)),
			expectedField: "ratings.score",
		},
		{
			name:          "negative_rating_score",
			data:          fixtures.SomeBookData(fixtures.WithRatingScores(-0.5)),
			expectedField: "ratings.score",
		},
		{
			name: "no_pricing_skips_pricing_rules",
			data: fixtures.SomeBookData(fixtures.WithoutPricing()),
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			book := bookcatalog.BuildBook("1", tc.data)
			err := book.Validate()

			if tc.expectedField == "" {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			domainErr, ok := bookcatalog.AsDomainError(err)
			require.True(t, ok)
			assert.Equal(t, bookcatalog.ErrorCodeValidation, domainErr.Code)
			assert.Equal(t, tc.expectedField, domainErr.Field)
		})
	}
}

func Test_Validate_ShortCircuitsOnFirstFailure(t *testing.T) {
	// Both the title and the currency are invalid; the title rule wins.
	book := bookcatalog.BuildBook("1", fixtures.SomeBookData(
		fixtures.WithTitle(""),
		fixtures.WithPricing(10, 0, "JPY"),
	))

	err := book.Validate()
	require.Error(t, err)

	domainErr, ok := bookcatalog.AsDomainError(err)
	require.True(t, ok)
	assert.Equal(t, "title", domainErr.Field)
}
