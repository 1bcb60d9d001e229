package validation

import (
	"errors"
	"testing"

	"github.com/somesh-13/leaderBoardProject-sub001/internal/model"
)

// TestParseLeaderboardQueryDefaults verifies an empty parameter set yields
// the documented defaults.
func TestParseLeaderboardQueryDefaults(t *testing.T) {
	query, err := ParseLeaderboardQuery(map[string]string{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if query.Period != model.PeriodAll {
		t.Errorf("Expected default period ALL, got %s", query.Period)
	}
	if query.Sort != model.SortTotalReturnPct {
		t.Errorf("Expected default sort totalReturnPct, got %s", query.Sort)
	}
	if query.Order != model.OrderDesc {
		t.Errorf("Expected default order desc, got %s", query.Order)
	}
	if query.Page != 1 || query.PageSize != DefaultPageSize {
		t.Errorf("Expected page 1 size %d, got page %d size %d", DefaultPageSize, query.Page, query.PageSize)
	}
}

// TestParseLeaderboardQueryValues verifies explicit parameters are parsed
// and normalized.
func TestParseLeaderboardQueryValues(t *testing.T) {
	query, err := ParseLeaderboardQuery(map[string]string{
		"period":   "1w",
		"sort":     "pnl",
		"order":    "ASC",
		"page":     "3",
		"pageSize": "50",
		"q":        " alice ",
		"sector":   "Technology",
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if query.Period != model.PeriodWeek {
		t.Errorf("Expected period 1W, got %s", query.Period)
	}
	if query.Sort != model.SortPnL {
		t.Errorf("Expected sort pnl, got %s", query.Sort)
	}
	if query.Order != model.OrderAsc {
		t.Errorf("Expected order asc, got %s", query.Order)
	}
	if query.Page != 3 || query.PageSize != 50 {
		t.Errorf("Expected page 3 size 50, got page %d size %d", query.Page, query.PageSize)
	}
	if query.Query != "alice" {
		t.Errorf("Expected trimmed query 'alice', got %q", query.Query)
	}
	if query.Sector != "Technology" {
		t.Errorf("Expected sector Technology, got %q", query.Sector)
	}
}

// TestParseLeaderboardQueryRejections verifies each invalid parameter is
// reported against its own field name.
func TestParseLeaderboardQueryRejections(t *testing.T) {
	tests := []struct {
		name   string
		params map[string]string
		field  string
	}{
		{"unknown period", map[string]string{"period": "1Y"}, "period"},
		{"unknown sort key", map[string]string{"sort": "luck"}, "sort"},
		{"unknown order", map[string]string{"order": "sideways"}, "order"},
		{"non-numeric page", map[string]string{"page": "first"}, "page"},
		{"zero page", map[string]string{"page": "0"}, "page"},
		{"negative page", map[string]string{"page": "-2"}, "page"},
		{"zero page size", map[string]string{"pageSize": "0"}, "pageSize"},
		{"oversized page size", map[string]string{"pageSize": "101"}, "pageSize"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseLeaderboardQuery(tt.params)
			if err == nil {
				t.Fatal("Expected a validation error")
			}

			var vErr *Error
			if !errors.As(err, &vErr) {
				t.Fatalf("Expected a *validation.Error, got %T", err)
			}
			if _, ok := vErr.Fields[tt.field]; !ok {
				t.Errorf("Expected the %s field flagged, got %v", tt.field, vErr.Fields)
			}
		})
	}

	t.Run("multiple violations reported together", func(t *testing.T) {
		_, err := ParseLeaderboardQuery(map[string]string{"period": "1Y", "sort": "luck"})

		var vErr *Error
		if !errors.As(err, &vErr) {
			t.Fatalf("Expected a *validation.Error, got %T", err)
		}
		if len(vErr.Fields) != 2 {
			t.Errorf("Expected 2 flagged fields, got %v", vErr.Fields)
		}
	})
}
