package validation

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/somesh-13/leaderBoardProject-sub001/internal/model"
)

// ValidPeriod contains the allowed leaderboard period values.
var ValidPeriod = map[string]bool{
	model.PeriodDay: true, model.PeriodWeek: true, model.PeriodMonth: true, model.PeriodAll: true,
}

// ValidSortKey contains the allowed leaderboard sort keys.
var ValidSortKey = map[string]bool{
	model.SortPnL: true, model.SortWinRate: true, model.SortSharpe: true,
	model.SortAvgReturn: true, model.SortTrades: true, model.SortTotalValue: true,
	model.SortTotalReturnPct: true, model.SortDayChangePct: true,
}

// Leaderboard pagination bounds.
const (
	DefaultPageSize = 25
	MaxPageSize     = 100
)

// ParseLeaderboardQuery validates raw query parameters and applies defaults:
// period ALL, sort totalReturnPct, order desc, page 1, pageSize 25. Every
// violation is reported with its field name; an invalid query is rejected
// before any valuation work starts.
func ParseLeaderboardQuery(params map[string]string) (model.LeaderboardQuery, error) {
	errors := make(map[string]string)

	query := model.LeaderboardQuery{
		Period:   model.PeriodAll,
		Sort:     model.SortTotalReturnPct,
		Order:    model.OrderDesc,
		Page:     1,
		PageSize: DefaultPageSize,
		Query:    strings.TrimSpace(params["q"]),
		Sector:   strings.TrimSpace(params["sector"]),
	}

	if v := strings.TrimSpace(params["period"]); v != "" {
		if !ValidPeriod[strings.ToUpper(v)] {
			errors["period"] = fmt.Sprintf("invalid period: %s", v)
		} else {
			query.Period = strings.ToUpper(v)
		}
	}

	if v := strings.TrimSpace(params["sort"]); v != "" {
		if !ValidSortKey[v] {
			errors["sort"] = fmt.Sprintf("invalid sort key: %s", v)
		} else {
			query.Sort = v
		}
	}

	if v := strings.TrimSpace(params["order"]); v != "" {
		switch strings.ToLower(v) {
		case model.OrderAsc, model.OrderDesc:
			query.Order = strings.ToLower(v)
		default:
			errors["order"] = fmt.Sprintf("invalid order: %s", v)
		}
	}

	if v := strings.TrimSpace(params["page"]); v != "" {
		page, err := strconv.Atoi(v)
		if err != nil || page < 1 {
			errors["page"] = "page must be a positive integer"
		} else {
			query.Page = page
		}
	}

	if v := strings.TrimSpace(params["pageSize"]); v != "" {
		size, err := strconv.Atoi(v)
		if err != nil || size < 1 || size > MaxPageSize {
			errors["pageSize"] = fmt.Sprintf("pageSize must be between 1 and %d", MaxPageSize)
		} else {
			query.PageSize = size
		}
	}

	if len(errors) > 0 {
		return model.LeaderboardQuery{}, &Error{Fields: errors}
	}

	return query, nil
}
