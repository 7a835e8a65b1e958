package bookcatalog

import "slices"

// PricingPatch describes a partial update to a Book's pricing.
// Nil fields leave the existing value untouched.
type PricingPatch struct {
	RetailPrice *float64
	Discount    *float64
	Currency    *string
}

// BookPatch describes a partial update to a Book.
//
// Every field is optional; nil means "no change". The explicit pointer form
// replaces the duck-typed object merge of earlier designs, so unknown fields
// cannot slip through and the ratings tri-state is unambiguous: a nil Ratings
// keeps the existing list, an explicitly supplied empty slice clears it.
type BookPatch struct {
	Title         *string
	Author        *string
	Genre         *Genre
	PublishedYear *int
	Tags          *[]string
	Ratings       *[]Rating
	IsAvailable   *bool
	Publisher     *Publisher
	Metadata      *BookMetadata
	Pricing       *PricingPatch
}

// apply merges the patch over an immutable snapshot of the existing book and
// returns the fully merged input bag. The candidate is validated by the
// caller before anything is committed.
func (p BookPatch) apply(existing Book) BookData {
	snapshot := existing.Clone()

	merged := BookData{
		Title:         snapshot.Title,
		Author:        snapshot.Author,
		Genre:         snapshot.Genre,
		PublishedYear: snapshot.PublishedYear,
		Tags:          snapshot.Tags,
		Ratings:       snapshot.Ratings,
		IsAvailable:   snapshot.IsAvailable,
		Publisher:     snapshot.Publisher,
		Metadata:      snapshot.Metadata,
		Pricing:       snapshot.Pricing,
		LastUpdated:   snapshot.LastUpdated,
		ModifiedBy:    snapshot.ModifiedBy,
	}

	if p.Title != nil {
		merged.Title = *p.Title
	}

	if p.Author != nil {
		merged.Author = *p.Author
	}

	if p.Genre != nil {
		merged.Genre = *p.Genre
	}

	if p.PublishedYear != nil {
		merged.PublishedYear = *p.PublishedYear
	}

	if p.Tags != nil {
		merged.Tags = slices.Clone(*p.Tags)
	}

	if p.Ratings != nil {
		merged.Ratings = slices.Clone(*p.Ratings)
	}

	if p.IsAvailable != nil {
		merged.IsAvailable = *p.IsAvailable
	}

	if p.Publisher != nil {
		merged.Publisher = *p.Publisher
	}

	if p.Metadata != nil {
		merged.Metadata = *p.Metadata
	}

	if p.Pricing != nil {
		merged.Pricing = p.Pricing.applyTo(snapshot.Pricing)
	}

	return merged
}

// applyTo merges the pricing patch over the existing pricing, creating a new
// pricing object when the book had none. A pricing created this way without a
// currency fails validation downstream, which is the intended signal.
func (p PricingPatch) applyTo(existing *Pricing) *Pricing {
	merged := Pricing{}
	if existing != nil {
		merged = *existing
	}

	if p.RetailPrice != nil {
		merged.RetailPrice = *p.RetailPrice
	}

	if p.Discount != nil {
		merged.Discount = *p.Discount
	}

	if p.Currency != nil {
		merged.Currency = *p.Currency
	}

	return &merged
}
