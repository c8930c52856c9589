package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/arangodb/go-driver/v2/arangodb"
	"github.com/vulnwatch/vulnwatch-backend/internal/apperr"
	"github.com/vulnwatch/vulnwatch-backend/model"
)

// sortColumns is the allow-list of sortable columns. Keys are the API
// names, values the stored column names; anything not in this map is a
// validation error, never passed through to AQL.
var sortColumns = map[string]string{
	"dateAdded":     "date_added",
	"cveID":         "cve_id",
	"vendorProject": "vendor_project",
	"product":       "product",
}

// searchColumns lists the columns the free-text search spans. The filter
// is generated from this list so the searchable surface is an explicit
// capability, not inline string interpolation.
var searchColumns = []string{
	"cve_id",
	"vulnerability_name",
	"short_description",
	"vendor_project",
	"product",
}

// VulnQueryEngine composes dynamic filter predicates, an allow-listed
// sort column, and offset/limit pagination into one page query plus one
// count query over the vulnerability collection. User-controlled values
// travel exclusively through bind variables.
type VulnQueryEngine struct {
	db DBConnection
}

// NewVulnQueryEngine builds an engine over the given connection.
func NewVulnQueryEngine(db DBConnection) *VulnQueryEngine {
	return &VulnQueryEngine{db: db}
}

// normalizeVulnQuery validates and defaults the untrusted query: limit
// clamped to [1,MaxQueryLimit] defaulting to DefaultQueryLimit, offset
// floored at 0, sort column checked against the allow-list, sort order
// normalized to ASC/DESC.
func normalizeVulnQuery(q model.VulnerabilityQuery) (model.VulnerabilityQuery, string, string, error) {
	if q.Limit <= 0 {
		q.Limit = model.DefaultQueryLimit
	}
	if q.Limit > model.MaxQueryLimit {
		q.Limit = model.MaxQueryLimit
	}
	if q.Offset < 0 {
		q.Offset = 0
	}

	if q.SortBy == "" {
		q.SortBy = "dateAdded"
	}
	column, ok := sortColumns[q.SortBy]
	if !ok {
		return q, "", "", apperr.Validation("sortBy", "unsupported sort column: "+q.SortBy)
	}

	order := strings.ToUpper(q.SortOrder)
	switch order {
	case "":
		order = "DESC"
	case "ASC", "DESC":
	default:
		return q, "", "", apperr.Validation("sortOrder", "sort order must be asc or desc")
	}
	q.SortOrder = strings.ToLower(order)

	return q, column, order, nil
}

// parseFilterDate accepts a bare date or an RFC3339 timestamp.
func parseFilterDate(field, value string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, apperr.Validation(field, "date must be YYYY-MM-DD or RFC3339")
	}
	return t, nil
}

// buildVulnFilters renders the conjunctive FILTER block and its bind
// variables. Every predicate is ANDed; absent filters contribute nothing.
func buildVulnFilters(f model.VulnerabilityFilters) (string, map[string]interface{}, error) {
	var clauses []string
	bind := map[string]interface{}{}

	if f.DateFrom != "" {
		t, err := parseFilterDate("dateFrom", f.DateFrom)
		if err != nil {
			return "", nil, err
		}
		clauses = append(clauses, "FILTER v.date_added >= @date_from")
		bind["date_from"] = t
	}
	if f.DateTo != "" {
		t, err := parseFilterDate("dateTo", f.DateTo)
		if err != nil {
			return "", nil, err
		}
		clauses = append(clauses, "FILTER v.date_added <= @date_to")
		bind["date_to"] = t
	}
	if f.Vendor != "" {
		clauses = append(clauses, "FILTER CONTAINS(LOWER(v.vendor_project), @vendor)")
		bind["vendor"] = strings.ToLower(f.Vendor)
	}
	if f.Product != "" {
		clauses = append(clauses, "FILTER CONTAINS(LOWER(v.product), @product)")
		bind["product"] = strings.ToLower(f.Product)
	}
	if f.Search != "" {
		var terms []string
		for _, col := range searchColumns {
			terms = append(terms, fmt.Sprintf("CONTAINS(LOWER(v.%s), @search)", col))
		}
		clauses = append(clauses, "FILTER ("+strings.Join(terms, " OR ")+")")
		bind["search"] = strings.ToLower(f.Search)
	}

	if len(clauses) == 0 {
		return "", bind, nil
	}
	return strings.Join(clauses, "\n\t\t\t") + "\n\t\t\t", bind, nil
}

// Run validates the query, executes the count and page queries with the
// same predicates, and returns the rows with pagination metadata. The two
// round trips are not atomic; a concurrent insert between them can make
// the total stale by the time the page is read. Accepted as eventual
// consistency.
func (e *VulnQueryEngine) Run(ctx context.Context, q model.VulnerabilityQuery) ([]model.VulnerabilitySummary, model.Pagination, error) {
	q, column, order, err := normalizeVulnQuery(q)
	if err != nil {
		return nil, model.Pagination{}, err
	}

	filters, bind, err := buildVulnFilters(q.Filters)
	if err != nil {
		return nil, model.Pagination{}, err
	}

	countQuery := fmt.Sprintf(`
		FOR v IN vulnerability
			%sCOLLECT WITH COUNT INTO total
			RETURN total
	`, filters)

	total := 0
	countCursor, err := e.db.Database.Query(ctx, countQuery, &arangodb.QueryOptions{BindVars: bind})
	if err != nil {
		return nil, model.Pagination{}, apperr.Store(err, "vulnerability count query failed")
	}
	if countCursor.HasMore() {
		if _, err := countCursor.ReadDocument(ctx, &total); err != nil {
			countCursor.Close()
			return nil, model.Pagination{}, apperr.Store(err, "failed to read vulnerability count")
		}
	}
	countCursor.Close()

	// The sort column comes from the allow-list map above, never from
	// caller input.
	pageQuery := fmt.Sprintf(`
		FOR v IN vulnerability
			%sSORT v.%s %s
			LIMIT @offset, @limit
			RETURN {
				cve_id: v.cve_id,
				vendor_project: v.vendor_project,
				product: v.product,
				vulnerability_name: v.vulnerability_name,
				date_added: v.date_added,
				due_date: v.due_date
			}
	`, filters, column, order)

	pageBind := map[string]interface{}{"offset": q.Offset, "limit": q.Limit}
	for k, v := range bind {
		pageBind[k] = v
	}

	cursor, err := e.db.Database.Query(ctx, pageQuery, &arangodb.QueryOptions{BindVars: pageBind})
	if err != nil {
		return nil, model.Pagination{}, apperr.Store(err, "vulnerability page query failed")
	}
	defer cursor.Close()

	rows := []model.VulnerabilitySummary{}
	for cursor.HasMore() {
		var row model.VulnerabilitySummary
		if _, err := cursor.ReadDocument(ctx, &row); err != nil {
			return nil, model.Pagination{}, apperr.Store(err, "failed to read vulnerability row")
		}
		rows = append(rows, row)
	}

	return rows, model.NewPagination(total, q.Limit, q.Offset), nil
}
