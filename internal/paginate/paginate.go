// Package paginate slices a filtered result list into pages.
//
// The "filters changed -> page 1" rule lives with the caller: whoever holds
// the filter state must request page 1 after any change to it.
package paginate

import "applyboard-engine/internal/domain"

type Page struct {
	Items       []domain.FlattenedApplication `json:"items"`
	TotalPages  int                           `json:"totalPages"`
	CurrentPage int                           `json:"currentPage"`
	TotalItems  int                           `json:"totalItems"`
}

// Slice clamps requestedPage into [1, totalPages] and returns that page.
// totalPages is never below 1, so an empty result still has a valid page 1.
func Slice(results []domain.FlattenedApplication, pageSize, requestedPage int) Page {
	if pageSize < 1 {
		pageSize = 1
	}

	total := (len(results) + pageSize - 1) / pageSize
	if total < 1 {
		total = 1
	}

	current := requestedPage
	if current < 1 {
		current = 1
	}
	if current > total {
		current = total
	}

	lo := (current - 1) * pageSize
	hi := lo + pageSize
	if lo > len(results) {
		lo = len(results)
	}
	if hi > len(results) {
		hi = len(results)
	}

	return Page{
		Items:       results[lo:hi],
		TotalPages:  total,
		CurrentPage: current,
		TotalItems:  len(results),
	}
}
