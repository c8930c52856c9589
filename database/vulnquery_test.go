package database

import (
	"strings"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/vulnwatch/vulnwatch-backend/internal/apperr"
	"github.com/vulnwatch/vulnwatch-backend/model"
)

func TestNormalizeVulnQuery(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		q, column, order, err := normalizeVulnQuery(model.VulnerabilityQuery{})
		gt.NoError(t, err)
		gt.Equal(t, q.Limit, model.DefaultQueryLimit)
		gt.Equal(t, q.Offset, 0)
		gt.Equal(t, column, "date_added")
		gt.Equal(t, order, "DESC")
	})

	t.Run("clamps oversized limit", func(t *testing.T) {
		q, _, _, err := normalizeVulnQuery(model.VulnerabilityQuery{Limit: 500})
		gt.NoError(t, err)
		gt.Equal(t, q.Limit, model.MaxQueryLimit)
	})

	t.Run("floors negative offset", func(t *testing.T) {
		q, _, _, err := normalizeVulnQuery(model.VulnerabilityQuery{Offset: -5})
		gt.NoError(t, err)
		gt.Equal(t, q.Offset, 0)
	})

	t.Run("maps allow-listed sort columns", func(t *testing.T) {
		q, column, order, err := normalizeVulnQuery(model.VulnerabilityQuery{
			SortBy:    "vendorProject",
			SortOrder: "asc",
		})
		gt.NoError(t, err)
		gt.Equal(t, column, "vendor_project")
		gt.Equal(t, order, "ASC")
		gt.Equal(t, q.SortOrder, "asc")
	})

	t.Run("rejects unknown sort column", func(t *testing.T) {
		_, _, _, err := normalizeVulnQuery(model.VulnerabilityQuery{SortBy: "droptable"})
		gt.Error(t, err)
		gt.True(t, apperr.IsValidation(err))
	})

	t.Run("rejects unknown sort order", func(t *testing.T) {
		_, _, _, err := normalizeVulnQuery(model.VulnerabilityQuery{SortOrder: "sideways"})
		gt.Error(t, err)
		gt.True(t, apperr.IsValidation(err))
	})
}

func TestBuildVulnFilters(t *testing.T) {
	t.Run("empty filters produce no clauses", func(t *testing.T) {
		block, bind, err := buildVulnFilters(model.VulnerabilityFilters{})
		gt.NoError(t, err)
		gt.Equal(t, block, "")
		gt.Equal(t, len(bind), 0)
	})

	t.Run("all filters bind their values", func(t *testing.T) {
		block, bind, err := buildVulnFilters(model.VulnerabilityFilters{
			DateFrom: "2025-01-01",
			DateTo:   "2025-06-30",
			Vendor:   "Microsoft",
			Product:  "Windows",
			Search:   "RCE",
		})
		gt.NoError(t, err)
		gt.Equal(t, len(bind), 5)
		gt.Equal(t, bind["vendor"], "microsoft")
		gt.Equal(t, bind["search"], "rce")
		gt.Equal(t, strings.Count(block, "FILTER"), 5)
	})

	t.Run("search spans every search column", func(t *testing.T) {
		block, _, err := buildVulnFilters(model.VulnerabilityFilters{Search: "log4j"})
		gt.NoError(t, err)
		for _, col := range searchColumns {
			gt.True(t, strings.Contains(block, "v."+col))
		}
		gt.Equal(t, strings.Count(block, "@search"), len(searchColumns))
	})

	t.Run("accepts RFC3339 dates", func(t *testing.T) {
		_, bind, err := buildVulnFilters(model.VulnerabilityFilters{DateFrom: "2025-01-01T12:00:00Z"})
		gt.NoError(t, err)
		gt.Equal(t, len(bind), 1)
	})

	t.Run("rejects malformed dates", func(t *testing.T) {
		_, _, err := buildVulnFilters(model.VulnerabilityFilters{DateTo: "soon"})
		gt.Error(t, err)
		gt.True(t, apperr.IsValidation(err))
	})
}

func TestNewPagination(t *testing.T) {
	t.Run("middle page", func(t *testing.T) {
		p := model.NewPagination(45, 20, 20)
		gt.Equal(t, p.Page, 2)
		gt.Equal(t, p.TotalPages, 3)
		gt.True(t, p.HasNext)
		gt.True(t, p.HasPrev)
	})

	t.Run("first page of empty result", func(t *testing.T) {
		p := model.NewPagination(0, 20, 0)
		gt.Equal(t, p.Page, 1)
		gt.Equal(t, p.TotalPages, 0)
		gt.True(t, !p.HasNext)
		gt.True(t, !p.HasPrev)
	})

	t.Run("exact page boundary", func(t *testing.T) {
		p := model.NewPagination(40, 20, 20)
		gt.Equal(t, p.Page, 2)
		gt.Equal(t, p.TotalPages, 2)
		gt.True(t, !p.HasNext)
	})
}
