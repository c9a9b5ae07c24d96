// Package pricing implements the dynamic flight-pricing engine: feature
// extraction, the rule-based multiplier, model inference with graceful
// fallback, prediction assembly and fleet-wide batch repricing.
package pricing

import (
	"math"
	"time"

	"skyfare/internal/models"
)

// Holiday is one entry in the static holiday calendar. Movable festivals
// are pinned to their most common dates.
type Holiday struct {
	Name  string
	Month time.Month
	Day   int
	// Impact is the demand multiplier associated with the holiday
	Impact float64
}

// extensionDampening scales the impact of a Tue/Thu holiday match that
// falls outside the exact ±1-day core but inside the ±3-day long-weekend
// window.
const extensionDampening = 0.8

var holidayTable = []Holiday{
	{Name: "New Year's Day", Month: time.January, Day: 1, Impact: 1.30},
	{Name: "Republic Day", Month: time.January, Day: 26, Impact: 1.20},
	{Name: "Holi", Month: time.March, Day: 14, Impact: 1.25},
	{Name: "Independence Day", Month: time.August, Day: 15, Impact: 1.20},
	{Name: "Gandhi Jayanti", Month: time.October, Day: 2, Impact: 1.15},
	{Name: "Dussehra", Month: time.October, Day: 12, Impact: 1.25},
	{Name: "Diwali", Month: time.October, Day: 31, Impact: 1.40},
	{Name: "Christmas", Month: time.December, Day: 25, Impact: 1.35},
}

// seasonRange maps an inclusive month/day range to a demand index.
// Ranges do not wrap across the year boundary; the holiday season is split
// into a December entry and a January entry instead.
type seasonRange struct {
	startMonth time.Month
	startDay   int
	endMonth   time.Month
	endDay     int
	factor     float64
}

// defaultSeasonality is returned when no range matches
const defaultSeasonality = 0.6

var seasonTable = []seasonRange{
	{time.January, 1, time.January, 10, 0.90},
	{time.April, 15, time.June, 30, 0.85},
	{time.July, 1, time.September, 15, 0.45},
	{time.October, 1, time.November, 15, 0.95},
	{time.December, 15, time.December, 31, 1.00},
}

// mondayIndex converts Go's Sunday=0 weekday to the engine's Monday=0
// convention.
func mondayIndex(d time.Weekday) int {
	return (int(d) + 6) % 7
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// absDaysBetween returns the absolute calendar-day distance between two
// instants.
func absDaysBetween(a, b time.Time) int {
	d := dateOnly(a).Sub(dateOnly(b)).Hours() / 24
	return int(math.Abs(math.Round(d)))
}

// HolidayMatch describes how a date relates to the holiday calendar
type HolidayMatch struct {
	Holiday Holiday
	// Impact is the effective multiplier, dampened when the match comes
	// from the long-weekend extension window
	Impact float64
}

// MatchHoliday checks a date against the holiday table. A date within one
// day of a holiday matches with the full impact. Holidays landing on a
// Tuesday or Thursday additionally match the surrounding ±3-day bridge
// window with a dampened impact. The first table entry that matches wins;
// overlapping holidays are never merged.
func MatchHoliday(date time.Time) (HolidayMatch, bool) {
	for _, h := range holidayTable {
		// A late-December date can sit next to a holiday in the following
		// year, so check the adjacent years too.
		for _, yr := range []int{date.Year() - 1, date.Year(), date.Year() + 1} {
			occurrence := time.Date(yr, h.Month, h.Day, 0, 0, 0, 0, date.Location())
			dist := absDaysBetween(date, occurrence)

			if dist <= 1 {
				return HolidayMatch{Holiday: h, Impact: h.Impact}, true
			}

			dow := mondayIndex(occurrence.Weekday())
			if (dow == 1 || dow == 3) && dist <= 3 {
				return HolidayMatch{Holiday: h, Impact: h.Impact * extensionDampening}, true
			}
		}
	}
	return HolidayMatch{}, false
}

// SeasonalityIndex returns the demand index of the first season range
// containing the date's month/day, or the default when none matches.
// Comparison is lexicographic on (month, day), inclusive on both ends.
func SeasonalityIndex(date time.Time) float64 {
	m, d := date.Month(), date.Day()
	for _, r := range seasonTable {
		if !beforeMonthDay(m, d, r.startMonth, r.startDay) &&
			!beforeMonthDay(r.endMonth, r.endDay, m, d) {
			return r.factor
		}
	}
	return defaultSeasonality
}

// beforeMonthDay reports whether (m1, d1) sorts strictly before (m2, d2)
func beforeMonthDay(m1 time.Month, d1 int, m2 time.Month, d2 int) bool {
	if m1 != m2 {
		return m1 < m2
	}
	return d1 < d2
}

// TimeOfDay buckets a departure hour into its category and the fixed
// normalized constant the model was trained on.
func TimeOfDay(hour int) (string, float64) {
	switch {
	case hour >= 5 && hour < 12:
		return models.TimeOfDayMorning, 0.25
	case hour >= 12 && hour < 17:
		return models.TimeOfDayAfternoon, 0.5
	case hour >= 17 && hour < 21:
		return models.TimeOfDayEvening, 0.75
	default:
		return models.TimeOfDayNight, 1.0
	}
}
