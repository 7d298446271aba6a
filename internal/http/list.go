package httpx

import (
	"net/url"
	"sort"
	"strconv"
	"strings"
)

const (
	// SortDirAsc represents ascending sort direction.
	SortDirAsc = "asc"
	// SortDirDesc represents descending sort direction.
	SortDirDesc = "desc"

	defaultPageSize = 12
	maxPageSize     = 60
)

// ParseSortParam extracts and validates sort field and direction from URL
// query parameters. It supports two formats:
//  1. Combined format: ?sort=field:dir (e.g., ?sort=price:desc)
//  2. Separate format: ?sort=field&dir=direction
//
// The direction is normalized to lowercase; invalid directions come back as
// an empty string.
func ParseSortParam(q url.Values, sortKey, dirKey string) (string, string) {
	sortParam := strings.TrimSpace(q.Get(sortKey))
	dirParam := strings.ToLower(strings.TrimSpace(q.Get(dirKey)))

	parts := strings.SplitN(sortParam, ":", 2)
	if len(parts) == 2 {
		fieldPart := strings.TrimSpace(parts[0])
		dirPart := strings.ToLower(strings.TrimSpace(parts[1]))
		if dirPart == SortDirAsc || dirPart == SortDirDesc {
			return fieldPart, dirPart
		}
		return fieldPart, ""
	}

	if dirParam == SortDirAsc || dirParam == SortDirDesc {
		return sortParam, dirParam
	}
	return sortParam, ""
}

// Pagination describes one rendered page of an in-memory list. The upstream
// endpoints return full collections; slicing happens here.
type Pagination struct {
	Page     int
	PageSize int
	Total    int
	HasPrev  bool
	HasNext  bool
	PrevPage int
	NextPage int
}

// parsePage reads the page number from the query, clamped to >= 1.
func parsePage(q url.Values) int {
	page, err := strconv.Atoi(q.Get("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// parsePageSize reads the page size from the query, clamped to sane bounds.
func parsePageSize(q url.Values) int {
	size, err := strconv.Atoi(q.Get("size"))
	if err != nil || size < 1 {
		return defaultPageSize
	}
	if size > maxPageSize {
		return maxPageSize
	}
	return size
}

// Paginate slices one page out of items per the query's page/size params.
func Paginate[T any](items []T, q url.Values) ([]T, Pagination) {
	page := parsePage(q)
	size := parsePageSize(q)

	total := len(items)
	start := (page - 1) * size
	if start > total {
		start = total
	}
	end := start + size
	if end > total {
		end = total
	}

	p := Pagination{
		Page:     page,
		PageSize: size,
		Total:    total,
		HasPrev:  page > 1,
		HasNext:  end < total,
		PrevPage: page - 1,
		NextPage: page + 1,
	}
	return items[start:end], p
}

// SortBy orders items with the named comparator when one exists. Unknown
// fields leave the upstream order untouched.
func SortBy[T any](items []T, field, dir string, less map[string]func(a, b T) bool) {
	cmp, ok := less[field]
	if !ok {
		return
	}
	sort.SliceStable(items, func(i, j int) bool {
		if dir == SortDirDesc {
			return cmp(items[j], items[i])
		}
		return cmp(items[i], items[j])
	})
}
