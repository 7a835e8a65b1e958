package bookcatalog

import (
	"math"
	"slices"
)

// GenreCount is the number of filtered books in one genre.
type GenreCount struct {
	Genre Genre `json:"genre"`
	Count int   `json:"count"`
}

// PriceRange summarizes the final prices of the filtered set.
// Books without pricing contribute nothing; an all-unpriced set yields zeros.
type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
	Avg float64 `json:"avg"`
}

// RatingBucket is one half-point histogram bucket of individual rating scores.
type RatingBucket struct {
	Rating float64 `json:"rating"`
	Count  int     `json:"count"`
}

// PublisherStats is the per-publisher book count of the filtered set.
type PublisherStats struct {
	PublisherID   string `json:"publisherId"`
	PublisherName string `json:"publisherName"`
	BookCount     int    `json:"bookCount"`
}

// Aggregations summarizes the COMPLETE filtered set, independent of which
// page of it the caller requested.
type Aggregations struct {
	GenreCounts        []GenreCount     `json:"genreCounts"`
	PriceRange         PriceRange       `json:"priceRange"`
	RatingDistribution []RatingBucket   `json:"ratingDistribution"`
	TotalPublishers    int              `json:"totalPublishers"`
	TopPublishers      []PublisherStats `json:"topPublishers"`
}

// CalculateAggregations computes the summary statistics over books.
//
// Genre counts are reported in order of first appearance. The rating
// distribution buckets individual scores to the nearest half point and is
// sorted by descending bucket value. Publishers are keyed by their ID, carry
// the name first seen for that ID and are sorted by descending book count;
// ties keep first-appearance order.
func CalculateAggregations(books []Book) Aggregations {
	topPublishers := rankPublishers(books)

	return Aggregations{
		GenreCounts:        countGenres(books),
		PriceRange:         summarizePrices(books),
		RatingDistribution: bucketRatings(books),
		TotalPublishers:    len(topPublishers),
		TopPublishers:      topPublishers,
	}
}

func countGenres(books []Book) []GenreCount {
	counts := make(map[Genre]int)
	order := make([]Genre, 0)

	for _, book := range books {
		if _, seen := counts[book.Genre]; !seen {
			order = append(order, book.Genre)
		}

		counts[book.Genre]++
	}

	genreCounts := make([]GenreCount, 0, len(order))
	for _, genre := range order {
		genreCounts = append(genreCounts, GenreCount{Genre: genre, Count: counts[genre]})
	}

	return genreCounts
}

func summarizePrices(books []Book) PriceRange {
	var (
		priced bool
		min    float64
		max    float64
		sum    float64
		count  int
	)

	for _, book := range books {
		finalPrice := book.FinalPrice()
		if finalPrice == nil {
			continue
		}

		price := *finalPrice

		if !priced {
			priced = true
			min = price
			max = price
		} else {
			min = math.Min(min, price)
			max = math.Max(max, price)
		}

		sum += price
		count++
	}

	if !priced {
		return PriceRange{}
	}

	return PriceRange{Min: min, Max: max, Avg: sum / float64(count)}
}

func bucketRatings(books []Book) []RatingBucket {
	counts := make(map[float64]int)

	for _, book := range books {
		for _, rating := range book.Ratings {
			bucket := math.Round(rating.Score*2) / 2
			counts[bucket]++
		}
	}

	buckets := make([]RatingBucket, 0, len(counts))
	for rating, count := range counts {
		buckets = append(buckets, RatingBucket{Rating: rating, Count: count})
	}

	slices.SortFunc(buckets, func(a, b RatingBucket) int {
		switch {
		case a.Rating > b.Rating:
			return -1
		case a.Rating < b.Rating:
			return 1
		default:
			return 0
		}
	})

	return buckets
}

func rankPublishers(books []Book) []PublisherStats {
	counts := make(map[string]*PublisherStats)
	order := make([]string, 0)

	for _, book := range books {
		stats, seen := counts[book.Publisher.ID]
		if !seen {
			stats = &PublisherStats{
				PublisherID:   book.Publisher.ID,
				PublisherName: book.Publisher.Name,
			}
			counts[book.Publisher.ID] = stats
			order = append(order, book.Publisher.ID)
		}

		stats.BookCount++
	}

	publishers := make([]PublisherStats, 0, len(order))
	for _, id := range order {
		publishers = append(publishers, *counts[id])
	}

	slices.SortStableFunc(publishers, func(a, b PublisherStats) int {
		return b.BookCount - a.BookCount
	})

	return publishers
}
