package query

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/mr1hm/go-disaster-reports/internal/models"
)

var ErrInvalidDateFormat = errors.New("invalid date format, expected DD/MM/YYYY")

type DateRange struct {
	Start time.Time
	End   time.Time
}

// ParseDate reads DD/MM/YYYY as local midnight of that day.
func ParseDate(s string) (time.Time, error) {
	return ParseDateIn(s, time.Local)
}

// ParseDateIn reads DD/MM/YYYY as midnight of that day in loc. Single digit
// day and month are accepted. Day overflow is normalized the way time.Date
// does it, so 31/02/2024 is 02/03/2024.
func ParseDateIn(s string, loc *time.Location) (time.Time, error) {
	parts := strings.Split(strings.TrimSpace(s), "/")
	if len(parts) != 3 {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDateFormat, s)
	}

	var fields [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDateFormat, s)
		}
		fields[i] = n
	}

	day, month, year := fields[0], fields[1], fields[2]
	if day < 1 || day > 31 || month < 1 || month > 12 || year < 1 || year > 9999 {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDateFormat, s)
	}

	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, loc), nil
}

// ParseDateRange parses both bounds. The end bound is midnight at the start of
// the end date, so reports later that day fall outside the range, unless
// wholeEndDay moves it to the last instant of that day.
func ParseDateRange(start, end string, wholeEndDay bool) (DateRange, error) {
	s, err := ParseDate(start)
	if err != nil {
		return DateRange{}, fmt.Errorf("start date: %w", err)
	}
	e, err := ParseDate(end)
	if err != nil {
		return DateRange{}, fmt.Errorf("end date: %w", err)
	}

	if wholeEndDay {
		e = e.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	return DateRange{Start: s, End: e}, nil
}

func (r DateRange) String() string {
	return fmt.Sprintf("%s - %s", r.Start.Format(models.DateLayout), r.End.Format(models.DateLayout))
}
