package social

import (
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/goliatone/go-errors"
)

// Page size bounds shared by every listing endpoint.
const (
	DefaultPageSize = 10
	MinPageSize     = 1
	MaxPageSize     = 100
)

// ErrInvalidLimit is returned for a non-numeric limit parameter.
var ErrInvalidLimit = errors.New("Invalid limit value", errors.CategoryValidation).
	WithCode(errors.CodeBadRequest).
	WithMetadata(map[string]any{"field": "limit"})

// ErrInvalidPage is returned for a non-numeric or non-positive page parameter.
var ErrInvalidPage = errors.New("Invalid page number value", errors.CategoryValidation).
	WithCode(errors.CodeBadRequest).
	WithMetadata(map[string]any{"field": "page"})

// ErrLimitTooSmall and ErrLimitTooLarge bound the page size.
var ErrLimitTooSmall = errors.New("Minimum page size is 1 item(s)", errors.CategoryValidation).
	WithCode(errors.CodeBadRequest).
	WithMetadata(map[string]any{"field": "limit"})

var ErrLimitTooLarge = errors.New("Maximum page size is 100 item(s)", errors.CategoryValidation).
	WithCode(errors.CodeBadRequest).
	WithMetadata(map[string]any{"field": "limit"})

// ListParams are the resolved query parameters every listing accepts.
type ListParams struct {
	Query    string
	Limit    int
	Page     int
	Ordering string
}

// ParseListParams validates raw query values into ListParams. Raw values
// come straight off the URL, so every numeric conversion failure is a
// validation error, never a crash.
func ParseListParams(values url.Values) (ListParams, error) {
	params := ListParams{
		Query:    values.Get("q"),
		Limit:    DefaultPageSize,
		Page:     1,
		Ordering: values.Get("ordering"),
	}

	if raw := values.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			return params, ErrInvalidLimit
		}
		params.Limit = limit
	}

	if params.Limit < MinPageSize {
		return params, ErrLimitTooSmall
	}

	if params.Limit > MaxPageSize {
		return params, ErrLimitTooLarge
	}

	if raw := values.Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			return params, ErrInvalidPage
		}
		params.Page = page
	}

	return params, nil
}

// Page is the pagination envelope returned by every listing endpoint.
// PageSize is the actual number of items on this page, which may be smaller
// than the requested limit on the final page.
type Page[T any] struct {
	Items      []T `json:"items"`
	TotalItems int `json:"totalItems"`
	TotalPages int `json:"totalPages"`
	PageSize   int `json:"pageSize"`
	PageNumber int `json:"pageNumber"`
}

// Matcher reports whether an item matches the free-text query. Each resource
// decides which of its fields participate.
type Matcher[T any] func(item T, query string) bool

// Less orders two items ascending for one ordering field.
type Less[T any] func(a, b T) bool

// ListConfig describes how one resource plugs into the pipeline: its search
// predicate, its supported orderings, and a stable key used to break ties so
// pages never drift between requests.
type ListConfig[T any] struct {
	Match     Matcher[T]
	Orderings map[string]Less[T]
	Key       func(item T) string
}

// Paginate runs the shared filter/search/order/paginate algorithm over a
// snapshot of the base collection. It is pure: identical snapshots and
// parameters always produce identical pages.
func Paginate[T any](items []T, params ListParams, cfg ListConfig[T]) (*Page[T], error) {
	if params.Limit == 0 {
		params.Limit = DefaultPageSize
	}
	if params.Limit < MinPageSize {
		return nil, ErrLimitTooSmall
	}
	if params.Limit > MaxPageSize {
		return nil, ErrLimitTooLarge
	}
	if params.Page < 1 {
		return nil, ErrInvalidPage
	}

	var filtered []T
	if params.Query != "" && cfg.Match != nil {
		filtered = make([]T, 0, len(items))
		for _, item := range items {
			if cfg.Match(item, params.Query) {
				filtered = append(filtered, item)
			}
		}
	} else {
		filtered = append([]T(nil), items...)
	}

	applyOrdering(filtered, params.Ordering, cfg)

	totalItems := len(filtered)
	totalPages := (totalItems + params.Limit - 1) / params.Limit

	start := (params.Page - 1) * params.Limit
	end := start + params.Limit
	if start > totalItems {
		start = totalItems
	}
	if end > totalItems {
		end = totalItems
	}

	pageItems := filtered[start:end]

	return &Page[T]{
		Items:      pageItems,
		TotalItems: totalItems,
		TotalPages: totalPages,
		PageSize:   len(pageItems),
		PageNumber: params.Page,
	}, nil
}

// applyOrdering sorts in place. An unsupported or empty ordering keeps the
// snapshot's default order. Ties fall back to the stable key so pagination
// stays deterministic under equal sort values.
func applyOrdering[T any](items []T, ordering string, cfg ListConfig[T]) {
	if ordering == "" || len(cfg.Orderings) == 0 {
		return
	}

	field := ordering
	descending := false
	if strings.HasPrefix(field, "-") {
		field = field[1:]
		descending = true
	}

	less, ok := cfg.Orderings[field]
	if !ok {
		return
	}

	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if descending {
			a, b = b, a
		}
		if less(a, b) {
			return true
		}
		if less(b, a) {
			return false
		}
		if cfg.Key == nil {
			return false
		}
		return cfg.Key(items[i]) < cfg.Key(items[j])
	})
}

// ContainsFold is the case-insensitive substring match used by every
// "contains" style search predicate.
func ContainsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
