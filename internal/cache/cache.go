package cache

import (
	"context"
	"fmt"
	"io"
	"slices"

	"holidaytracker/internal/model"
	"holidaytracker/internal/nager"
)

// YearCache maps a year to the holidays loaded for it.
//
// A year that was never requested is absent. A requested year whose fetch
// failed is present with zero records. After Load returns the cache is
// only read, so it needs no locking.
type YearCache struct {
	byYear map[int][]model.Holiday
	order  []int
}

// New returns an empty cache.
func New() *YearCache {
	return &YearCache{byYear: make(map[int][]model.Holiday)}
}

// Set stores holidays for year. A nil slice is stored as an empty one so
// the year counts as present. Setting an existing year replaces it in place.
func (c *YearCache) Set(year int, holidays []model.Holiday) {
	if holidays == nil {
		holidays = []model.Holiday{}
	}
	if _, ok := c.byYear[year]; !ok {
		c.order = append(c.order, year)
	}
	c.byYear[year] = holidays
}

// Has reports whether year was requested.
func (c *YearCache) Has(year int) bool {
	_, ok := c.byYear[year]
	return ok
}

// Get returns a copy of the holidays for year, and whether it is present.
func (c *YearCache) Get(year int) ([]model.Holiday, bool) {
	hs, ok := c.byYear[year]
	if !ok {
		return nil, false
	}
	return slices.Clone(hs), true
}

// Years returns the cached years in insertion order.
func (c *YearCache) Years() []int {
	return slices.Clone(c.order)
}

// All flattens every year in insertion order into a new slice.
func (c *YearCache) All() []model.Holiday {
	n := 0
	for _, hs := range c.byYear {
		n += len(hs)
	}
	out := make([]model.Holiday, 0, n)
	for _, year := range c.order {
		out = append(out, c.byYear[year]...)
	}
	return out
}

// Len is the total number of records across all years.
func (c *YearCache) Len() int {
	n := 0
	for _, hs := range c.byYear {
		n += len(hs)
	}
	return n
}

// Fetcher is the part of nager.Client the loader needs.
type Fetcher interface {
	FetchAll(ctx context.Context, years []int) []nager.FetchResult
}

// Load fetches every year missing from c and reports one line per year to
// out. Failed years are stored empty and are not retried.
func Load(ctx context.Context, c *YearCache, f Fetcher, years []int, out io.Writer) {
	missing := make([]int, 0, len(years))
	for _, year := range years {
		if !c.Has(year) && !slices.Contains(missing, year) {
			missing = append(missing, year)
		}
	}
	if len(missing) == 0 {
		return
	}

	for _, res := range f.FetchAll(ctx, missing) {
		if !res.OK() {
			c.Set(res.Year, nil)
			fmt.Fprintf(out, "%d yılı yüklenirken hata: %v\n", res.Year, res.Err)
			continue
		}
		c.Set(res.Year, res.Holidays)
		fmt.Fprintf(out, "%d yılı yüklendi. (%d adet tatil)\n", res.Year, len(res.Holidays))
	}
}
