package query

import (
	"net/url"
	"strconv"
	"time"

	"kirana/utils"

	"go.mongodb.org/mongo-driver/bson"
)

const (
	DefaultPage    = 1
	DefaultLimit   = 10
	DefaultSortKey = "createdAt"
)

// control keys consumed by Parse; everything else becomes an equality filter.
var controlKeys = map[string]bool{
	"page":      true,
	"limit":     true,
	"sortkey":   true,
	"sortdir":   true,
	"search":    true,
	"searchkey": true,
	"startDate": true,
	"endDate":   true,
}

// Spec is the normalized description of a list query: pagination, sort,
// substring search, createdAt bounds and exact-match filters.
type Spec struct {
	Page      int
	Limit     int
	SortKey   string
	SortAsc   bool
	Search    string
	SearchKey string
	StartDate *time.Time
	EndDate   *time.Time
	Filters   bson.M
}

// Parse normalizes raw query parameters into a Spec. It never mutates the
// input. Non-numeric or out-of-range page/limit silently fall back to the
// defaults; "asc" is the only value that sorts ascending.
func Parse(values url.Values) Spec {
	spec := Spec{
		Page:      DefaultPage,
		Limit:     DefaultLimit,
		SortKey:   DefaultSortKey,
		Search:    values.Get("search"),
		SearchKey: values.Get("searchkey"),
		Filters:   bson.M{},
	}

	if page, err := strconv.Atoi(values.Get("page")); err == nil && page >= 1 {
		spec.Page = page
	}
	if limit, err := strconv.Atoi(values.Get("limit")); err == nil && limit >= 1 {
		spec.Limit = limit
	}

	if key := values.Get("sortkey"); key != "" {
		spec.SortKey = key
	}
	spec.SortAsc = values.Get("sortdir") == "asc"

	spec.StartDate = utils.ParseDate(values.Get("startDate"))
	spec.EndDate = utils.ParseDate(values.Get("endDate"))

	for key, vals := range values {
		if controlKeys[key] || len(vals) == 0 {
			continue
		}
		spec.Filters[key] = vals[0]
	}

	return spec
}
