package query

import (
	"strings"
)

const (
	DefaultSort  = "-createdAt"
	DefaultPage  = 1
	DefaultLimit = 10
)

// Scope restricts a listing to one author, or spans the whole store when
// unrestricted (admin listings).
type Scope struct {
	AuthorID int64
}

// ScopeOwner limits results to entries authored by the given user.
func ScopeOwner(authorID int64) Scope {
	return Scope{AuthorID: authorID}
}

// ScopeAll spans every entry in the store.
func ScopeAll() Scope {
	return Scope{}
}

func (s Scope) Unrestricted() bool {
	return s.AuthorID == 0
}

// Sort is a resolved field+direction pair, safe to interpolate into an
// ORDER BY clause.
type Sort struct {
	Column string
	Desc   bool
}

func (s Sort) Clause() string {
	if s.Desc {
		return s.Column + " DESC"
	}
	return s.Column + " ASC"
}

// sortColumns whitelists the sortable fields and maps the wire names to
// column names. Unknown fields fall back to the default sort rather than
// reaching the database.
var sortColumns = map[string]string{
	"createdAt": "created_at",
	"updatedAt": "updated_at",
	"views":     "views",
	"title":     "title",
}

// ParseSort resolves a wire-format sort key ("-createdAt", "views", ...) to a
// Sort. A leading '-' means descending. Empty or unknown keys resolve to the
// default, newest first.
func ParseSort(raw string) Sort {
	key := strings.TrimSpace(raw)
	if key == "" {
		key = DefaultSort
	}

	desc := strings.HasPrefix(key, "-")
	field := strings.TrimPrefix(key, "-")

	column, ok := sortColumns[field]
	if !ok {
		return Sort{Column: "created_at", Desc: true}
	}
	return Sort{Column: column, Desc: desc}
}

// ParseTags splits a comma-separated tag list, trimming and lowercasing each
// term and dropping empties. "A,b , C" becomes ["a","b","c"].
func ParseTags(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	tags := make([]string, 0, len(parts))
	for _, part := range parts {
		tag := strings.ToLower(strings.TrimSpace(part))
		if tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// Pagination is a sanitized page/limit pair.
type Pagination struct {
	Page  int
	Limit int
}

// NewPagination clamps page and limit to their minimums, substituting the
// given default limit when the input is missing or non-positive.
func NewPagination(page, limit, defaultLimit int) Pagination {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = defaultLimit
	}
	return Pagination{Page: page, Limit: limit}
}

func (p Pagination) Offset() int {
	return (p.Page - 1) * p.Limit
}

// TotalPages computes ceil(count / limit) for the filtered set.
func (p Pagination) TotalPages(count int64) int {
	return int((count + int64(p.Limit) - 1) / int64(p.Limit))
}

// Options is the full shape of a composed listing: scope, optional filters,
// sort and pagination. Term and Tags are both optional for plain listings;
// the dedicated search operation requires at least one of them.
type Options struct {
	Scope      Scope
	Term       string
	Tags       []string
	Sort       Sort
	Pagination Pagination
}

// HasCriteria reports whether at least one search filter is present.
func (o Options) HasCriteria() bool {
	return o.Term != "" || len(o.Tags) > 0
}
