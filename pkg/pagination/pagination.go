// Package pagination turns limit/page query parameters into offsets and page
// counts for list pages.
package pagination

// Query is the pagination part of a list request.
type Query struct {
	Limit int `query:"limit"`
	Page  int `query:"page"`
}

// Page describes one page of a list.
type Page struct {
	Limit  int
	Number int
	Offset int
	Total  int
	Pages  int
}

// Clamp applies the default page size and caps it at maxLimit. Out of range
// values are clamped rather than rejected, and pages start at 1.
func (q Query) Clamp(defaultLimit, maxLimit int) Query {
	if q.Limit <= 0 {
		q.Limit = defaultLimit
	}
	if q.Limit > maxLimit {
		q.Limit = maxLimit
	}
	if q.Page < 1 {
		q.Page = 1
	}
	return q
}

// Offset is the number of items before the requested page.
func (q Query) Offset() int {
	return (q.Page - 1) * q.Limit
}

// New describes the page requested by q for a list of total items.
func New(q Query, total int) Page {
	pages := 0
	if q.Limit > 0 {
		pages = (total + q.Limit - 1) / q.Limit
	}
	return Page{
		Limit:  q.Limit,
		Number: q.Page,
		Offset: q.Offset(),
		Total:  total,
		Pages:  pages,
	}
}

func (p Page) HasPrev() bool {
	return p.Number > 1
}

func (p Page) HasNext() bool {
	return p.Number < p.Pages
}

func (p Page) Prev() int {
	return p.Number - 1
}

func (p Page) Next() int {
	return p.Number + 1
}
