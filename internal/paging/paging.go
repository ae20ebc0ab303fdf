// package paging computes page counts and the windowed set of page numbers
// shown by listing views.
package paging

import "sort"

// DefaultPageSize is the fixed page size used by catalog listings.
const DefaultPageSize = 10

// PageCount returns max(1, ceil(total/pageSize)). An empty result set still
// has one (empty) page.
func PageCount(total, pageSize int) int {
	if pageSize <= 0 {
		return 1
	}
	count := (total + pageSize - 1) / pageSize
	if count < 1 {
		return 1
	}
	return count
}

// PageNumbers returns the ascending, deduplicated subset of
// {1, page-1, page, page+1, pageCount} that lies within [1, pageCount].
// Callers render an ellipsis wherever two adjacent numbers differ by more
// than one. Out-of-range current pages are the caller's job to clamp first.
func PageNumbers(page, pageCount int) []int {
	seen := map[int]bool{}
	out := []int{}
	push := func(n int) {
		if n >= 1 && n <= pageCount && !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}

	push(1)
	push(page - 1)
	push(page)
	push(page + 1)
	push(pageCount)

	sort.Ints(out)
	return out
}

// Paginate slices one page out of a local slice. Pages are 1-based.
func Paginate[T any](items []T, page, pageSize int) []T {
	if page < 1 || pageSize <= 0 {
		return nil
	}
	start := (page - 1) * pageSize
	if start >= len(items) {
		return nil
	}
	end := start + pageSize
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
