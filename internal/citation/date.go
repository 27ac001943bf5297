package citation

import (
	"regexp"
	"strconv"
	"time"
)

// DateLayout is the normalized citation date format.
const DateLayout = "2006-01-02"

var months = map[string]time.Month{
	"Jan": time.January,
	"Feb": time.February,
	"Mar": time.March,
	"Apr": time.April,
	"May": time.May,
	"Jun": time.June,
	"Jul": time.July,
	"Aug": time.August,
	"Sep": time.September,
	"Oct": time.October,
	"Nov": time.November,
	"Dec": time.December,
}

var seasons = map[string]time.Month{
	"Spring": time.March,
	"Summer": time.June,
	"Fall":   time.September,
	"Autumn": time.September,
	"Winter": time.December,
}

const (
	monthNames = `Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec`

	yearPat       = `([12][0-9]{3})`
	monthPat      = `(` + monthNames + `)`
	dayPat        = `([0-9]{1,2})`
	monthRangeEnd = `(?:` + monthNames + `)` // End of a month range, not captured
)

// rangeKind says how the end of a ranged form is captured.
type rangeKind int

const (
	noRange rangeKind = iota
	// "12-15": end day in the start month
	dayRange
	// "29-Feb 4": end month and day
	monthDayRange
)

// dateForm is one accepted grammar. The first capture groups of re are year,
// month (or season) and day; missing trailing groups default to the first of
// the period. Ranged forms capture their end after the day.
type dateForm struct {
	re     *regexp.Regexp
	season bool
	rng    rangeKind
}

// Ordered from most to least specific; the first match wins.
var dateForms = []dateForm{
	{re: regexp.MustCompile(`^` + yearPat + ` ` + monthPat + ` ` + dayPat + `$`)},
	{re: regexp.MustCompile(`^` + yearPat + ` ` + monthPat + ` ` + dayPat + `-` + dayPat + `$`), rng: dayRange},
	{re: regexp.MustCompile(`^` + yearPat + ` ` + monthPat + ` ` + dayPat + `-` + monthPat + ` ` + dayPat + `$`), rng: monthDayRange},
	{re: regexp.MustCompile(`^` + yearPat + ` ` + monthPat + `-` + monthRangeEnd + `$`)},
	{re: regexp.MustCompile(`^` + yearPat + ` ` + monthPat + `$`)},
	{re: regexp.MustCompile(`^` + yearPat + ` (Spring|Summer|Fall|Autumn|Winter)$`), season: true},
	{re: regexp.MustCompile(`^` + yearPat + `$`)},
}

// SanitizeDate normalizes a free-text publication date such as "1998 May"
// or "2005 Jan 29-Feb 4" to YYYY-MM-DD. Ranges resolve to their first day.
// It returns false when s matches no accepted form, names a day that does
// not exist, or ends a day range before it starts.
func SanitizeDate(s string) (string, bool) {
	for _, f := range dateForms {
		m := f.re.FindStringSubmatch(s)
		if m == nil {
			continue
		}
		parts := m[1:]
		var end []string
		if f.rng != noRange {
			parts, end = parts[:3], parts[3:]
		}
		t, ok := buildDate(parts, f.season)
		if !ok {
			return "", false
		}
		if f.rng != noRange && !validRangeEnd(t, end) {
			return "", false
		}
		return t.Format(DateLayout), true
	}
	return "", false
}

func buildDate(parts []string, season bool) (time.Time, bool) {
	y, err := strconv.Atoi(parts[0])
	if err != nil {
		return time.Time{}, false
	}

	mon, d := time.January, 1
	if len(parts) > 1 {
		var ok bool
		if season {
			mon, ok = seasons[parts[1]]
		} else {
			mon, ok = months[parts[1]]
		}
		if !ok {
			return time.Time{}, false
		}
	}
	if len(parts) > 2 {
		if d, err = strconv.Atoi(parts[2]); err != nil {
			return time.Time{}, false
		}
	}
	return calendarDate(y, mon, d)
}

// validRangeEnd reports whether end ([month,] day) names a real day on or
// after start. An end month earlier than the start month falls in the next
// year ("Dec 29-Jan 4").
func validRangeEnd(start time.Time, end []string) bool {
	y, mon := start.Year(), start.Month()
	if len(end) == 2 {
		endMon, ok := months[end[0]]
		if !ok {
			return false
		}
		if endMon < mon {
			y++
		}
		mon, end = endMon, end[1:]
	}
	d, err := strconv.Atoi(end[0])
	if err != nil {
		return false
	}
	t, ok := calendarDate(y, mon, d)
	return ok && !t.Before(start)
}

// calendarDate builds y-mon-d, failing if time.Date had to normalize it.
func calendarDate(y int, mon time.Month, d int) (time.Time, bool) {
	t := time.Date(y, mon, d, 0, 0, 0, 0, time.UTC)
	if t.Year() != y || t.Month() != mon || t.Day() != d {
		return time.Time{}, false
	}
	return t, true
}
