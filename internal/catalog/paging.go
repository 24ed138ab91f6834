package catalog

// Ellipsis marks a gap in a PageWindow.
const Ellipsis = 0

const maxVisiblePages = 5

// TotalPages is ceil(n/perPage); zero items means zero pages.
func TotalPages(n, perPage int) int {
	if n <= 0 || perPage <= 0 {
		return 0
	}
	return (n + perPage - 1) / perPage
}

// ClampPage keeps a 1-based page inside [1, total]. With no pages it returns 1.
func ClampPage(page, total int) int {
	if total <= 0 || page < 1 {
		return 1
	}
	if page > total {
		return total
	}
	return page
}

// Paginate returns the [start, end) slice bounds of a 1-based page.
func Paginate(n, page, perPage int) (int, int) {
	if n <= 0 || perPage <= 0 {
		return 0, 0
	}
	page = ClampPage(page, TotalPages(n, perPage))
	start := (page - 1) * perPage
	end := start + perPage
	if end > n {
		end = n
	}
	return start, end
}

// PageWindow lists the page buttons to show for current out of total, with
// Ellipsis standing for skipped runs. Up to five pages are listed in full;
// beyond that the first and last page are kept along with the pages
// around current.
func PageWindow(current, total int) []int {
	if total <= 0 {
		return nil
	}
	current = ClampPage(current, total)
	var pages []int
	if total <= maxVisiblePages {
		for i := 1; i <= total; i++ {
			pages = append(pages, i)
		}
		return pages
	}
	switch {
	case current <= 3:
		for i := 1; i <= 4; i++ {
			pages = append(pages, i)
		}
		pages = append(pages, Ellipsis, total)
	case current >= total-2:
		pages = append(pages, 1, Ellipsis)
		for i := total - 3; i <= total; i++ {
			pages = append(pages, i)
		}
	default:
		pages = append(pages, 1, Ellipsis, current-1, current, current+1, Ellipsis, total)
	}
	return pages
}
