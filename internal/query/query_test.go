package query

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"holidaytracker/internal/cache"
	"holidaytracker/internal/model"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newYear(y int) model.Holiday {
	return model.Holiday{Date: day(y, 1, 1), LocalName: "Yılbaşı", Name: "New Year's Day", CountryCode: "TR", Fixed: true, Global: true}
}

// sampleCache has records out of date order within a year, an empty
// year, and two holidays on the same date.
func sampleCache() *cache.YearCache {
	c := cache.New()
	c.Set(2023, []model.Holiday{
		{Date: day(2023, 4, 23), LocalName: "Ulusal Egemenlik ve Çocuk Bayramı", Name: "National Sovereignty and Children's Day"},
		newYear(2023),
		{Date: day(2023, 4, 21), LocalName: "Ramazan Bayramı (1. Gün)", Name: "Ramadan Feast"},
	})
	c.Set(2024, nil)
	c.Set(2025, []model.Holiday{
		{Date: day(2025, 10, 29), LocalName: "Cumhuriyet Bayramı", Name: "Republic Day"},
		{Date: day(2025, 1, 1), LocalName: "İkinci kayıt", Name: "Same Day B"},
		newYear(2025),
	})
	return c
}

func dates(hs []model.Holiday) []string {
	out := make([]string, 0, len(hs))
	for _, h := range hs {
		out = append(out, h.Date.Format(model.DateLayout))
	}
	return out
}

func TestListByYear(t *testing.T) {
	e := New(sampleCache())

	hs, err := e.ListByYear(2023)
	if err != nil {
		t.Fatalf("ListByYear(2023): %v", err)
	}
	want := []string{"2023-01-01", "2023-04-21", "2023-04-23"}
	if got := dates(hs); !reflect.DeepEqual(got, want) {
		t.Errorf("dates = %v, want %v", got, want)
	}

	hs, err = e.ListByYear(2024)
	if err != nil {
		t.Errorf("empty year should not be an error: %v", err)
	}
	if len(hs) != 0 {
		t.Errorf("expected no holidays for 2024, got %d", len(hs))
	}

	for _, year := range []int{2022, 2026, 2099, 0, -1} {
		if _, err := e.ListByYear(year); !errors.Is(err, ErrYearNotFound) {
			t.Errorf("ListByYear(%d) err = %v, want ErrYearNotFound", year, err)
		}
	}
}

func TestListByYearStableOnSameDate(t *testing.T) {
	hs, err := New(sampleCache()).ListByYear(2025)
	if err != nil {
		t.Fatal(err)
	}
	if hs[0].Name != "Same Day B" || hs[1].Name != "New Year's Day" {
		t.Errorf("same-date records should keep insertion order, got %q then %q", hs[0].Name, hs[1].Name)
	}
}

func TestFilterByDayMonth(t *testing.T) {
	e := New(sampleCache())

	got := dates(e.FilterByDayMonth(1, 1))
	want := []string{"2023-01-01", "2025-01-01", "2025-01-01"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("FilterByDayMonth(1,1) = %v, want %v", got, want)
	}

	if hs := e.FilterByDayMonth(31, 2); len(hs) != 0 {
		t.Errorf("31 February must match nothing, got %v", dates(hs))
	}
	if hs := e.FilterByDayMonth(2, 1); len(hs) != 0 {
		t.Errorf("2 January: got %v", dates(hs))
	}
}

func TestFilterByNameSubstringCaseInsensitive(t *testing.T) {
	e := New(sampleCache())

	base, err := e.FilterByNameSubstring("yilbaşi")
	if err != nil {
		t.Fatal(err)
	}
	if len(base) != 2 {
		t.Fatalf("expected 2 Yılbaşı records, got %v", dates(base))
	}

	for _, term := range []string{"YILBAŞI", "Yılbaşı", "yılbaşı", "yIlBaŞi"} {
		got, err := e.FilterByNameSubstring(term)
		if err != nil {
			t.Fatalf("%q: %v", term, err)
		}
		if !reflect.DeepEqual(dates(got), dates(base)) {
			t.Errorf("%q: got %v, want %v", term, dates(got), dates(base))
		}
	}
}

func TestFilterByNameSubstringMatchesEitherName(t *testing.T) {
	e := New(sampleCache())

	got, err := e.FilterByNameSubstring("republic")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].LocalName != "Cumhuriyet Bayramı" {
		t.Errorf("english name match failed: %+v", got)
	}

	got, err = e.FilterByNameSubstring("bayram")
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"2023-04-21", "2023-04-23", "2025-10-29"}
	if !reflect.DeepEqual(dates(got), want) {
		t.Errorf("local name match = %v, want %v", dates(got), want)
	}

	got, err = e.FilterByNameSubstring("ikinci")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Errorf("dotted capital İ should match i, got %d results", len(got))
	}

	got, err = e.FilterByNameSubstring("christmas")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("expected no match, got %v", dates(got))
	}
}

func TestFilterByNameSubstringRejectsBlank(t *testing.T) {
	e := New(sampleCache())
	for _, term := range []string{"", " ", "\t \t"} {
		if _, err := e.FilterByNameSubstring(term); !errors.Is(err, ErrEmptyTerm) {
			t.Errorf("%q: err = %v, want ErrEmptyTerm", term, err)
		}
	}
}

func TestListAllSortedAndIdempotent(t *testing.T) {
	e := New(sampleCache())

	first := e.ListAll()
	second := e.ListAll()

	want := []string{"2023-01-01", "2023-04-21", "2023-04-23", "2025-01-01", "2025-01-01", "2025-10-29"}
	if got := dates(first); !reflect.DeepEqual(got, want) {
		t.Errorf("ListAll = %v, want %v", got, want)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("ListAll is not idempotent")
	}
}

func TestQueriesDoNotMutateCache(t *testing.T) {
	c := sampleCache()
	before := c.All()

	e := New(c)
	_, _ = e.ListByYear(2023)
	e.ListAll()
	e.FilterByDayMonth(1, 1)

	if !reflect.DeepEqual(before, c.All()) {
		t.Error("queries reordered the cache")
	}
}

func TestParseDayMonth(t *testing.T) {
	cases := []struct {
		in         string
		day, month int
		ok         bool
	}{
		{"01-01", 1, 1, true},
		{"23-04", 23, 4, true},
		{" 31-12 ", 31, 12, true},
		{"31-02", 31, 2, true},
		{"1-1", 1, 1, true},
		{"00-01", 0, 0, false},
		{"32-01", 0, 0, false},
		{"01-13", 0, 0, false},
		{"01-00", 0, 0, false},
		{"01/01", 0, 0, false},
		{"01-01-2023", 0, 0, false},
		{"aa-bb", 0, 0, false},
		{"", 0, 0, false},
	}
	for _, tc := range cases {
		d, m, err := ParseDayMonth(tc.in)
		if tc.ok != (err == nil) {
			t.Errorf("ParseDayMonth(%q) err = %v, want ok=%v", tc.in, err, tc.ok)
			continue
		}
		if !tc.ok {
			if !errors.Is(err, ErrInvalidDayMonth) {
				t.Errorf("ParseDayMonth(%q) err = %v", tc.in, err)
			}
			continue
		}
		if d != tc.day || m != tc.month {
			t.Errorf("ParseDayMonth(%q) = %d,%d want %d,%d", tc.in, d, m, tc.day, tc.month)
		}
	}
}

func TestFormatLine(t *testing.T) {
	got := FormatLine(newYear(2023))
	want := "01-01-2023 - Yılbaşı (New Year's Day)"
	if got != want {
		t.Errorf("FormatLine = %q, want %q", got, want)
	}
}

func TestParseYear(t *testing.T) {
	if y, err := ParseYear(" 2024 "); err != nil || y != 2024 {
		t.Errorf("ParseYear = %d, %v", y, err)
	}
	if _, err := ParseYear("yirmi"); err == nil {
		t.Error("expected error")
	}
}
