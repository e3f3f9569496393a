package ics

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/google/uuid"
	"github.com/teambition/rrule-go"

	appLog "holidaytracker/internal/log"
	"holidaytracker/internal/model"
)

const (
	productService = "holidaytracker"
	calendarName   = "Türkiye Resmi Tatilleri"
)

// uidNamespace seeds name-based UIDs so re-exports keep the same UID per holiday.
var uidNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://date.nager.at/"))

// Result describes what Build produced.
type Result struct {
	Calendar *ical.Calendar
	// Events is the number of VEVENTs written.
	Events int
	// Recurring is how many of them carry a yearly RRULE.
	Recurring int
}

// Build turns holidays into an iCalendar of all-day events.
//
// Fixed holidays that appear on the same day/month with the same local
// name in consecutive years are written once with RRULE:FREQ=YEARLY and a
// COUNT, everything else becomes a single event. now stamps DTSTAMP.
func Build(holidays []model.Holiday, now time.Time) Result {
	cal := ical.NewCalendarFor(productService)
	cal.SetMethod(ical.MethodPublish)
	cal.SetCalscale("GREGORIAN")
	cal.SetXWRCalName(calendarName)

	sorted := make([]model.Holiday, len(holidays))
	copy(sorted, holidays)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})

	res := Result{Calendar: cal}
	for _, run := range groupRuns(sorted) {
		first := run[0]
		ev := cal.AddEvent(eventUID(first))
		ev.SetDtStampTime(now)
		ev.SetAllDayStartAt(first.Date)
		ev.SetAllDayEndAt(first.Date.AddDate(0, 0, 1))
		ev.SetSummary(summary(first))
		ev.SetDescription(description(first))
		ev.SetClass(ical.ClassificationPublic)
		ev.SetTimeTransparency(ical.TransparencyTransparent)
		for _, typ := range first.Types {
			ev.AddCategory(typ)
		}

		if len(run) > 1 {
			ev.AddRrule(yearlyRule(len(run)))
			res.Recurring++
		}
		res.Events++
	}

	return res
}

// Export writes the calendar for holidays to w.
func Export(w io.Writer, holidays []model.Holiday, now time.Time) (Result, error) {
	res := Build(holidays, now)
	if err := res.Calendar.SerializeTo(w); err != nil {
		return res, fmt.Errorf("serialize calendar: %w", err)
	}
	return res, nil
}

// WriteFile exports holidays to path via a temp file + rename.
func WriteFile(path string, holidays []model.Holiday, now time.Time) (Result, error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".holidaytracker-*.ics.tmp")
	if err != nil {
		return Result{}, err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	res, err := Export(tmp, holidays, now)
	if err != nil {
		tmp.Close()
		return res, err
	}
	if err := tmp.Close(); err != nil {
		return res, err
	}
	if err := os.Rename(tmpName, path); err != nil {
		return res, err
	}

	appLog.Info("ics export written", "path", path, "events", res.Events, "recurring", res.Recurring)
	return res, nil
}

// groupRuns splits date-sorted holidays into emit units. A unit is either
// a single holiday or a run of fixed holidays in consecutive years whose
// dates an RRULE reproduces exactly.
func groupRuns(sorted []model.Holiday) [][]model.Holiday {
	type key struct {
		month time.Month
		day   int
		name  string
	}

	runs := make([][]model.Holiday, 0, len(sorted))
	open := make(map[key]int) // key -> index into runs of the run still growing

	for _, h := range sorted {
		if !h.Fixed {
			runs = append(runs, []model.Holiday{h})
			continue
		}

		k := key{month: h.Date.Month(), day: h.Date.Day(), name: h.LocalName}
		if idx, ok := open[k]; ok {
			run := runs[idx]
			last := run[len(run)-1]
			candidate := append(run[:len(run):len(run)], h)
			if last.Date.Year()+1 == h.Date.Year() && ruleMatches(run[0].Date, candidate) {
				runs[idx] = candidate
				continue
			}
		}

		runs = append(runs, []model.Holiday{h})
		open[k] = len(runs) - 1
	}
	return runs
}

// ruleMatches expands a yearly rule from start and checks it lands on
// exactly the dates of run. This rules out 29 February, which a yearly
// rule skips in common years.
func ruleMatches(start time.Time, run []model.Holiday) bool {
	r, err := rrule.NewRRule(rrule.ROption{
		Freq:    rrule.YEARLY,
		Dtstart: start,
		Count:   len(run),
	})
	if err != nil {
		appLog.Error("ics: build yearly rule failed", err, "start", start.Format(model.DateLayout))
		return false
	}

	got := r.All()
	if len(got) != len(run) {
		return false
	}
	for i, t := range got {
		if !t.Equal(run[i].Date) {
			return false
		}
	}
	return true
}

func yearlyRule(count int) string {
	opt := rrule.ROption{
		Freq:  rrule.YEARLY,
		Count: count,
	}
	return opt.RRuleString()
}

func eventUID(h model.Holiday) string {
	name := h.CountryCode + "|" + h.Date.Format(model.DateLayout) + "|" + h.LocalName
	return uuid.NewSHA1(uidNamespace, []byte(name)).String() + "@" + productService
}

func summary(h model.Holiday) string {
	if h.Name == "" || h.Name == h.LocalName {
		return h.LocalName
	}
	return h.LocalName + " (" + h.Name + ")"
}

func description(h model.Holiday) string {
	parts := []string{h.Name}
	if h.Fixed {
		parts = append(parts, "fixed date")
	}
	if h.Global {
		parts = append(parts, "nationwide")
	} else if len(h.Counties) > 0 {
		parts = append(parts, "regions "+strings.Join(h.Counties, " "))
	}
	if h.LaunchYear != nil {
		parts = append(parts, fmt.Sprintf("since %d", *h.LaunchYear))
	}
	return strings.Join(parts, " / ")
}
