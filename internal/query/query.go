// Package query filters, sorts and paginates listings. It has no side effects.
package query

import (
	"sort"
	"strings"

	"github.com/MOULOUNDOU/Senchambre/internal/models"
)

const DefaultPageSize = 12

type Sort string

const (
	SortRecent    Sort = "recent"
	SortPopular   Sort = "popular"
	SortPriceAsc  Sort = "price-asc"
	SortPriceDesc Sort = "price-desc"
)

// ParseSort maps a request value to a Sort, defaulting to SortRecent.
func ParseSort(s string) Sort {
	switch Sort(s) {
	case SortPopular, SortPriceAsc, SortPriceDesc:
		return Sort(s)
	}
	return SortRecent
}

type Params struct {
	Criteria models.SearchCriteria
	Sort     Sort
	Page     int
	PageSize int
}

type Page struct {
	Items    []models.Listing `json:"items"`
	Total    int              `json:"total"`
	Page     int              `json:"page"`
	Pages    int              `json:"pages"`
	PageSize int              `json:"pageSize"`
}

// Matches reports whether l satisfies every set field of c.
func Matches(c models.SearchCriteria, l models.Listing) bool {
	if s := strings.ToLower(strings.TrimSpace(c.Search)); s != "" {
		if !strings.Contains(strings.ToLower(l.Title), s) &&
			!strings.Contains(strings.ToLower(l.City), s) &&
			!strings.Contains(strings.ToLower(l.District), s) {
			return false
		}
	}
	if c.City != "" && l.City != c.City {
		return false
	}
	if c.Type != "" && l.Type != c.Type {
		return false
	}
	if c.PriceMin > 0 && l.Price < c.PriceMin {
		return false
	}
	if c.PriceMax > 0 && l.Price > c.PriceMax {
		return false
	}
	return true
}

// Filter returns the listings matching c, in input order.
func Filter(listings []models.Listing, c models.SearchCriteria) []models.Listing {
	out := make([]models.Listing, 0, len(listings))
	for _, l := range listings {
		if Matches(c, l) {
			out = append(out, l)
		}
	}
	return out
}

// SortListings orders listings in place. likeCounts is only read for SortPopular.
func SortListings(listings []models.Listing, by Sort, likeCounts map[string]int) {
	switch by {
	case SortPopular:
		sort.SliceStable(listings, func(i, j int) bool {
			return likeCounts[listings[i].ID] > likeCounts[listings[j].ID]
		})
	case SortPriceAsc:
		sort.SliceStable(listings, func(i, j int) bool {
			return listings[i].Price < listings[j].Price
		})
	case SortPriceDesc:
		sort.SliceStable(listings, func(i, j int) bool {
			return listings[i].Price > listings[j].Price
		})
	default:
		sort.SliceStable(listings, func(i, j int) bool {
			return listings[i].CreatedAt.After(listings[j].CreatedAt)
		})
	}
}

// Run filters, sorts and slices listings into one page. The page number is
// clamped to the valid range.
func Run(listings []models.Listing, p Params, likeCounts map[string]int) Page {
	size := p.PageSize
	if size <= 0 {
		size = DefaultPageSize
	}

	matched := Filter(listings, p.Criteria)
	SortListings(matched, ParseSort(string(p.Sort)), likeCounts)

	total := len(matched)
	pages := (total + size - 1) / size
	page := p.Page
	if page > pages {
		page = pages
	}
	if page < 1 {
		page = 1
	}

	start := (page - 1) * size
	end := start + size
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	return Page{
		Items:    matched[start:end],
		Total:    total,
		Page:     page,
		Pages:    pages,
		PageSize: size,
	}
}
