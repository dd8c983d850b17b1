// Package pagination holds the page arithmetic shared by the album listings.
package pagination

import (
	"math"
	"strconv"
	"strings"
)

// DisplayMsg is the summary line rendered above a paginated listing.
const DisplayMsg = "Displaying <b>{start} - {end}</b> of <b>{total}</b>"

// MaxPage is the highest page number a listing accepts. Larger values are
// clamped to it.
const MaxPage = 1 << 30

func clampPage(page int) int {
	if page < 1 {
		return 1
	}
	return min(page, MaxPage)
}

// ParsePage reads a "page" query value. Anything that is not a positive
// integer yields page 1.
func ParsePage(raw string) int {
	page, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 1
	}
	return clampPage(page)
}

// Offset returns the number of records to skip before page. It saturates at
// math.MaxInt instead of overflowing.
func Offset(page, limit int) int {
	page = clampPage(page)
	if limit <= 0 {
		return 0
	}
	if page-1 > math.MaxInt/limit {
		return math.MaxInt
	}
	return (page - 1) * limit
}

// Pagination describes one page of a listing for the templates.
type Pagination struct {
	Page       int
	PerPage    int
	Total      int
	TotalPages int
	HasPrev    bool
	HasNext    bool
	PrevPage   int
	NextPage   int
	Start      int
	End        int
}

func New(page, perPage, total int) *Pagination {
	page = clampPage(page)
	if perPage < 1 {
		perPage = 1
	}
	totalPages := (total + perPage - 1) / perPage
	if totalPages == 0 {
		totalPages = 1
	}

	p := &Pagination{
		Page:       page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: totalPages,
		HasPrev:    page > 1,
		HasNext:    page < totalPages,
		PrevPage:   page - 1,
		NextPage:   page + 1,
	}
	if total > 0 && page <= totalPages {
		p.Start = Offset(page, perPage) + 1
		p.End = min(Offset(page, perPage)+perPage, total)
	}
	return p
}

// Pages lists every page number, for rendering the page links.
func (p *Pagination) Pages() []int {
	pages := make([]int, p.TotalPages)
	for i := range pages {
		pages[i] = i + 1
	}
	return pages
}

// Info renders DisplayMsg, or format when it is not empty. The result holds
// markup and is meant to be marked safe by the caller.
func (p *Pagination) Info(format string) string {
	if format == "" {
		format = DisplayMsg
	}
	r := strings.NewReplacer(
		"{start}", strconv.Itoa(p.Start),
		"{end}", strconv.Itoa(p.End),
		"{total}", strconv.Itoa(p.Total),
	)
	return r.Replace(format)
}
