// Package service implements the account, authentication and review
// operations on top of the repository interfaces.
package service

import "strings"

// DefaultPageLimit is used when a listing is requested without a limit.
const DefaultPageLimit = 10

// Page selects a window of an ordered list.
type Page struct {
	Limit  int
	Offset int
}

// NormalizeEmail trims and lowercases an address before it is stored,
// looked up or used as salt.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// paginate returns the window of items selected by p. Offsets past the end
// give an empty, non-nil slice.
func paginate[T any](items []T, p Page) []T {
	limit := p.Limit
	if limit <= 0 {
		limit = DefaultPageLimit
	}
	offset := max(p.Offset, 0)
	if offset >= len(items) {
		return []T{}
	}
	end := min(offset+limit, len(items))
	return items[offset:end]
}

func valueOr(p *string, fallback string) string {
	if p != nil {
		return *p
	}
	return fallback
}
