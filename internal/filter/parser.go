package filter

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const monthAlternation = `(jan|january|feb|february|mar|march|apr|april|may|jun|june|jul|july|aug|august|sep|sept|september|oct|october|nov|november|dec|december)`

var (
	sameMonthRange  = regexp.MustCompile(`(?i)^` + monthAlternation + `\s+(\d{1,2})\s*-\s*(\d{1,2})$`)
	crossMonthRange = regexp.MustCompile(`(?i)^` + monthAlternation + `\s+(\d{1,2})\s*-\s*` + monthAlternation + `\s+(\d{1,2})$`)
	singleDay       = regexp.MustCompile(`(?i)^` + monthAlternation + `\s+(\d{1,2})$`)
	wholeMonth      = regexp.MustCompile(`(?i)^` + monthAlternation + `$`)
)

// ParseDateRange parses a date range string into start and end times.
//
// Supported formats:
//   - "Mar 1-15" or "March 1-15" - Same month, different days
//   - "March 1 - April 15" - Different months
//   - "Feb 5" - A single day
//   - "March" - Entire month
//
// Schedule cards carry no year and are dated in the current year, so ranges are too.
// For cross-month ranges whose end month is before the start month, the end falls in
// the next year.
//
// Times are in loc. Start time is at 00:00:00, end time is at 23:59:59.
func ParseDateRange(input string, now time.Time, loc *time.Location) (*time.Time, *time.Time, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, nil, fmt.Errorf("date range cannot be empty")
	}
	if loc == nil {
		loc = time.UTC
	}
	year := now.In(loc).Year()

	// Format 1: "Mar 1-15" or "March 1-15"
	if matches := sameMonthRange.FindStringSubmatch(input); matches != nil {
		month := parseMonth(matches[1])
		day1, err := parseDay(matches[2])
		if err != nil {
			return nil, nil, err
		}
		day2, err := parseDay(matches[3])
		if err != nil {
			return nil, nil, err
		}

		from, err := civilDate(year, month, day1, 0, 0, 0, loc)
		if err != nil {
			return nil, nil, err
		}
		to, err := civilDate(year, month, day2, 23, 59, 59, loc)
		if err != nil {
			return nil, nil, err
		}

		if from.After(to) {
			return nil, nil, fmt.Errorf("start date must be before end date")
		}

		return &from, &to, nil
	}

	// Format 2: "Mar 1 - Apr 15" or "March 1 - April 15"
	if matches := crossMonthRange.FindStringSubmatch(input); matches != nil {
		month1 := parseMonth(matches[1])
		day1, err := parseDay(matches[2])
		if err != nil {
			return nil, nil, err
		}
		month2 := parseMonth(matches[3])
		day2, err := parseDay(matches[4])
		if err != nil {
			return nil, nil, err
		}

		year2 := year
		// If month2 < month1, assume month2 is in the next year
		if month2 < month1 {
			year2++
		}

		from, err := civilDate(year, month1, day1, 0, 0, 0, loc)
		if err != nil {
			return nil, nil, err
		}
		to, err := civilDate(year2, month2, day2, 23, 59, 59, loc)
		if err != nil {
			return nil, nil, err
		}

		if from.After(to) {
			return nil, nil, fmt.Errorf("start date must be before end date")
		}

		return &from, &to, nil
	}

	// Format 3: Single day "Feb 5"
	if matches := singleDay.FindStringSubmatch(input); matches != nil {
		month := parseMonth(matches[1])
		day, err := parseDay(matches[2])
		if err != nil {
			return nil, nil, err
		}

		from, err := civilDate(year, month, day, 0, 0, 0, loc)
		if err != nil {
			return nil, nil, err
		}
		to := time.Date(year, month, day, 23, 59, 59, 0, loc)
		return &from, &to, nil
	}

	// Format 4: Single month "March" or "Mar" (entire month)
	if matches := wholeMonth.FindStringSubmatch(input); matches != nil {
		month := parseMonth(matches[1])
		from := time.Date(year, month, 1, 0, 0, 0, 0, loc)
		// Last day of month
		to := time.Date(year, month+1, 0, 23, 59, 59, 0, loc)

		return &from, &to, nil
	}

	return nil, nil, fmt.Errorf("invalid date range format. Use 'Mar 1-15', 'March 1 - April 15', 'Feb 5', or 'March'")
}

func parseDay(s string) (int, error) {
	day, err := strconv.Atoi(s)
	if err != nil || day < 1 || day > 31 {
		return 0, fmt.Errorf("invalid day: %s", s)
	}
	return day, nil
}

// civilDate builds the time and rejects days the month does not have, such as Feb 31.
func civilDate(year int, month time.Month, day, hour, minute, sec int, loc *time.Location) (time.Time, error) {
	t := time.Date(year, month, day, hour, minute, sec, 0, loc)
	if t.Month() != month || t.Day() != day {
		return time.Time{}, fmt.Errorf("invalid day: %s %d has no day %d", month, year, day)
	}
	return t, nil
}

// parseMonth converts a month name to time.Month
func parseMonth(name string) time.Month {
	name = strings.ToLower(strings.TrimSpace(name))

	months := map[string]time.Month{
		"jan": time.January, "january": time.January,
		"feb": time.February, "february": time.February,
		"mar": time.March, "march": time.March,
		"apr": time.April, "april": time.April,
		"may": time.May,
		"jun": time.June, "june": time.June,
		"jul": time.July, "july": time.July,
		"aug": time.August, "august": time.August,
		"sep": time.September, "sept": time.September, "september": time.September,
		"oct": time.October, "october": time.October,
		"nov": time.November, "november": time.November,
		"dec": time.December, "december": time.December,
	}

	return months[name]
}
