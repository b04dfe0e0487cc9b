package extract

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Deadline texts on government sites arrive in several regional formats.
// Each family is tried in order; the first one producing a valid date
// strictly in the future wins. No match returns ok=false and the caller
// substitutes the today+30 default.
var (
	dmyPattern      = regexp.MustCompile(`(\d{1,2})[/\-.](\d{1,2})[/\-.](\d{4})`)
	ymdPattern      = regexp.MustCompile(`(\d{4})[/\-](\d{1,2})[/\-](\d{1,2})`)
	dayMonthPattern = regexp.MustCompile(`(?i)(\d{1,2})(?:st|nd|rd|th)?\s+(January|February|March|April|May|June|July|August|September|October|November|December|Jan|Feb|Mar|Apr|Jun|Jul|Aug|Sep|Sept|Oct|Nov|Dec)\.?,?\s+(\d{4})`)
	monthDayPattern = regexp.MustCompile(`(?i)(January|February|March|April|May|June|July|August|September|October|November|December|Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Sept|Oct|Nov|Dec)\.?\s+(\d{1,2})(?:st|nd|rd|th)?,?\s+(\d{4})`)
	isoPattern      = regexp.MustCompile(`\b(\d{4})-(\d{2})-(\d{2})\b`)
)

var monthsByPrefix = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

// ParseDeadline converts free-form date text into an ISO calendar date.
// Only dates strictly after now are accepted. The function never panics;
// malformed input is simply a non-match.
func ParseDeadline(text string, now time.Time) (string, bool) {
	if text == "" {
		return "", false
	}

	type family struct {
		re    *regexp.Regexp
		build func(m []string) (time.Time, bool)
	}

	families := []family{
		{dmyPattern, func(m []string) (time.Time, bool) {
			return makeDate(m[3], m[2], m[1])
		}},
		{ymdPattern, func(m []string) (time.Time, bool) {
			return makeDate(m[1], m[2], m[3])
		}},
		{dayMonthPattern, func(m []string) (time.Time, bool) {
			return makeMonthDate(m[3], m[2], m[1])
		}},
		{monthDayPattern, func(m []string) (time.Time, bool) {
			return makeMonthDate(m[3], m[1], m[2])
		}},
		{isoPattern, func(m []string) (time.Time, bool) {
			return makeDate(m[1], m[2], m[3])
		}},
	}

	for _, f := range families {
		m := f.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		d, ok := f.build(m)
		if !ok {
			continue
		}
		if d.After(now) {
			return d.Format("2006-01-02"), true
		}
	}

	return "", false
}

// makeDate builds a date from numeric tokens, rejecting combinations that
// do not round-trip (e.g. 31/02).
func makeDate(yearStr, monthStr, dayStr string) (time.Time, bool) {
	year, err := strconv.Atoi(yearStr)
	if err != nil {
		return time.Time{}, false
	}
	month, err := strconv.Atoi(monthStr)
	if err != nil {
		return time.Time{}, false
	}
	day, err := strconv.Atoi(dayStr)
	if err != nil {
		return time.Time{}, false
	}
	return validDate(year, time.Month(month), day)
}

func makeMonthDate(yearStr, monthName, dayStr string) (time.Time, bool) {
	year, err := strconv.Atoi(yearStr)
	if err != nil {
		return time.Time{}, false
	}
	day, err := strconv.Atoi(dayStr)
	if err != nil {
		return time.Time{}, false
	}
	prefix := strings.ToLower(monthName)
	if len(prefix) > 3 {
		prefix = prefix[:3]
	}
	month, ok := monthsByPrefix[prefix]
	if !ok {
		return time.Time{}, false
	}
	return validDate(year, month, day)
}

func validDate(year int, month time.Month, day int) (time.Time, bool) {
	if year < 1900 || year > 2200 || month < time.January || month > time.December || day < 1 || day > 31 {
		return time.Time{}, false
	}
	d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	// time.Date normalizes overflow, so verify the components held.
	if d.Year() != year || d.Month() != month || d.Day() != day {
		return time.Time{}, false
	}
	return d, true
}
