package bookcatalog

// PageInfo describes the position of one page within the full filtered set.
//
// TotalCount and TotalPages always refer to the set BEFORE pagination, so a
// client can render page controls from any page's result.
type PageInfo struct {
	TotalCount      int  `json:"totalCount"`
	HasNextPage     bool `json:"hasNextPage"`
	HasPreviousPage bool `json:"hasPreviousPage"`
	CurrentPage     int  `json:"currentPage"`
	TotalPages      int  `json:"totalPages"`
}

// BookConnection is the result envelope of FilterBooks: one page of items
// plus paging metadata and aggregations computed over the complete filtered
// set, not just the returned page.
type BookConnection struct {
	Items        []Book       `json:"items"`
	PageInfo     PageInfo     `json:"pageInfo"`
	Aggregations Aggregations `json:"aggregations"`
}
