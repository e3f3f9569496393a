package query

import (
	"errors"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"holidaytracker/internal/model"
)

var (
	// ErrYearNotFound means the year was never loaded, as opposed to
	// loaded with no holidays.
	ErrYearNotFound = errors.New("year not found")
	// ErrEmptyTerm is returned for blank search terms.
	ErrEmptyTerm = errors.New("search term is empty")
	// ErrInvalidDayMonth is returned by ParseDayMonth.
	ErrInvalidDayMonth = errors.New("expected DD-MM with day 1-31 and month 1-12")
)

// Source is the read side of the year cache.
type Source interface {
	Get(year int) ([]model.Holiday, bool)
	All() []model.Holiday
}

// Engine answers read-only queries over a loaded cache. Every result is a
// new slice sorted by date; records sharing a date keep cache order.
type Engine struct {
	src Source
}

// New returns an Engine reading from src.
func New(src Source) *Engine {
	return &Engine{src: src}
}

// ListByYear returns the holidays of year, or ErrYearNotFound.
func (e *Engine) ListByYear(year int) ([]model.Holiday, error) {
	hs, ok := e.src.Get(year)
	if !ok {
		return nil, ErrYearNotFound
	}
	sortByDate(hs)
	return hs, nil
}

// FilterByDayMonth matches day and month in any loaded year. Impossible
// combinations such as 31 February simply match nothing.
func (e *Engine) FilterByDayMonth(day, month int) []model.Holiday {
	out := make([]model.Holiday, 0)
	for _, h := range e.src.All() {
		if h.Date.Day() == day && int(h.Date.Month()) == month {
			out = append(out, h)
		}
	}
	sortByDate(out)
	return out
}

// FilterByNameSubstring matches term case-insensitively against the local
// and English names.
func (e *Engine) FilterByNameSubstring(term string) ([]model.Holiday, error) {
	if strings.TrimSpace(term) == "" {
		return nil, ErrEmptyTerm
	}

	needle := foldCase(term)
	out := make([]model.Holiday, 0)
	for _, h := range e.src.All() {
		if strings.Contains(foldCase(h.LocalName), needle) || strings.Contains(foldCase(h.Name), needle) {
			out = append(out, h)
		}
	}
	sortByDate(out)
	return out, nil
}

// ListAll returns every loaded holiday.
func (e *Engine) ListAll() []model.Holiday {
	out := e.src.All()
	sortByDate(out)
	return out
}

func sortByDate(hs []model.Holiday) {
	sort.SliceStable(hs, func(i, j int) bool {
		return hs[i].Date.Before(hs[j].Date)
	})
}

// foldCase maps s to a form where Turkish dotted/dotless i variants and
// ASCII case compare equal: "yılbaşı", "yilbaşi" and "YILBAŞI" all fold
// to "YILBAŞI". The root upper-caser maps ı to I; İ is folded by hand.
func foldCase(s string) string {
	upper := cases.Upper(language.Und).String(s)
	return strings.ReplaceAll(upper, "İ", "I")
}

// ParseDayMonth parses "DD-MM" (e.g. "23-04"). Both parts must be integers,
// day in 1..31 and month in 1..12.
func ParseDayMonth(input string) (day, month int, err error) {
	parts := strings.Split(strings.TrimSpace(input), "-")
	if len(parts) != 2 {
		return 0, 0, ErrInvalidDayMonth
	}

	day, err = strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, ErrInvalidDayMonth
	}
	month, err = strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, ErrInvalidDayMonth
	}

	if day < 1 || day > 31 || month < 1 || month > 12 {
		return 0, 0, ErrInvalidDayMonth
	}
	return day, month, nil
}

// FormatLine renders a holiday as "DD-MM-YYYY - localName (name)".
func FormatLine(h model.Holiday) string {
	return h.Date.Format(displayDateLayout) + " - " + h.LocalName + " (" + h.Name + ")"
}

const displayDateLayout = "02-01-2006"

// ParseYear parses a year typed by the user.
func ParseYear(input string) (int, error) {
	return strconv.Atoi(strings.TrimSpace(input))
}
