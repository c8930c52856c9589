package model

import "math"

// Pagination limits. Limit is clamped, not rejected, so over-eager UI
// page sizes degrade to the maximum instead of failing.
const (
	DefaultQueryLimit = 20
	MaxQueryLimit     = 100
)

// VulnerabilityFilters are combined conjunctively by the query engine.
// Vendor and Product are case-insensitive substring matches; Search spans
// identifier, name, description, vendor and product.
type VulnerabilityFilters struct {
	DateFrom string `json:"date_from,omitempty" query:"dateFrom"`
	DateTo   string `json:"date_to,omitempty" query:"dateTo"`
	Vendor   string `json:"vendor,omitempty" query:"vendor"`
	Product  string `json:"product,omitempty" query:"product"`
	Search   string `json:"search,omitempty" query:"search"`
}

// VulnerabilityQuery is built per request from untrusted input, validated
// by the query engine, and discarded once the response is assembled.
type VulnerabilityQuery struct {
	Limit     int                  `json:"limit" query:"limit"`
	Offset    int                  `json:"offset" query:"offset"`
	SortBy    string               `json:"sort_by" query:"sortBy"`
	SortOrder string               `json:"sort_order" query:"sortOrder"`
	Filters   VulnerabilityFilters `json:"filters"`
}

// Pagination describes the page a query returned relative to the filtered
// total. The total comes from a second count query run with the same
// predicates, so it can lag concurrent inserts; that staleness is accepted.
type Pagination struct {
	Total      int  `json:"total"`
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	TotalPages int  `json:"total_pages"`
	HasNext    bool `json:"has_next"`
	HasPrev    bool `json:"has_prev"`
}

// NewPagination derives page metadata from the filtered total and the
// clamped limit/offset actually used.
func NewPagination(total, limit, offset int) Pagination {
	totalPages := int(math.Ceil(float64(total) / float64(limit)))
	page := offset/limit + 1
	return Pagination{
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}
}
