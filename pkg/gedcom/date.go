package gedcom

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrBadDate is returned by [ParseDate] for values that do not follow the
// GEDCOM date grammar.
var ErrBadDate = errors.New("unparseable date value")

// DateKind identifies the qualifier of a [DateValue]. The set is closed:
// formatting code switches exhaustively over these constants.
type DateKind int

const (
	// DateSimple is an unqualified date.
	DateSimple DateKind = iota
	// DatePeriod is "FROM a TO b".
	DatePeriod
	// DateRange is "BET a AND b".
	DateRange
	// DateFrom is an open-ended "FROM a".
	DateFrom
	// DateTo is an open-ended "TO a".
	DateTo
	// DateAfter is "AFT a".
	DateAfter
	// DateBefore is "BEF a".
	DateBefore
	// DateAbout is the approximate "ABT a".
	DateAbout
	// DateCalculated is "CAL a".
	DateCalculated
	// DateEstimated is "EST a".
	DateEstimated
	// DateInterpreted is "INT a (phrase)".
	DateInterpreted
	// DatePhrase is a free-text "(phrase)" with no calendar date.
	DatePhrase
)

// CalendarDate is a (possibly partial) calendar date. A negative Year
// denotes BC. Month is 1-12 or 0 when absent; Day is 0 when absent.
type CalendarDate struct {
	Year  int
	Month int
	Day   int
}

// DateValue is a parsed GEDCOM date qualifier with its embedded calendar
// dates. Date2 is only set for DatePeriod and DateRange; Phrase is only
// set for DateInterpreted and DatePhrase.
type DateValue struct {
	Kind   DateKind
	Date   CalendarDate
	Date2  CalendarDate
	Phrase string
}

// monthNumber maps GEDCOM month names to their number.
var monthNumber = map[string]int{
	"JAN": 1, "FEB": 2, "MAR": 3, "APR": 4,
	"MAY": 5, "JUN": 6, "JUL": 7, "AUG": 8,
	"SEP": 9, "OCT": 10, "NOV": 11, "DEC": 12,
}

// ParseDate parses a GEDCOM date value such as "1 JAN 1900",
// "BET 1900 AND 1910", "ABT 1850" or "(unknown)".
func ParseDate(s string) (*DateValue, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("%w: empty value", ErrBadDate)
	}

	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		return &DateValue{Kind: DatePhrase, Phrase: strings.Trim(s, "()")}, nil
	}

	upper := strings.ToUpper(s)

	if rest, ok := strings.CutPrefix(upper, "FROM "); ok {
		if first, second, found := cutKeyword(rest, " TO "); found {
			return twoDates(DatePeriod, s, first, second)
		}
		return oneDate(DateFrom, s, rest)
	}
	if rest, ok := strings.CutPrefix(upper, "TO "); ok {
		return oneDate(DateTo, s, rest)
	}
	if rest, ok := strings.CutPrefix(upper, "BET "); ok {
		first, second, found := cutKeyword(rest, " AND ")
		if !found {
			return nil, fmt.Errorf("%w: %q", ErrBadDate, s)
		}
		return twoDates(DateRange, s, first, second)
	}
	if rest, ok := strings.CutPrefix(upper, "AFT "); ok {
		return oneDate(DateAfter, s, rest)
	}
	if rest, ok := strings.CutPrefix(upper, "BEF "); ok {
		return oneDate(DateBefore, s, rest)
	}
	if rest, ok := strings.CutPrefix(upper, "ABT "); ok {
		return oneDate(DateAbout, s, rest)
	}
	if rest, ok := strings.CutPrefix(upper, "CAL "); ok {
		return oneDate(DateCalculated, s, rest)
	}
	if rest, ok := strings.CutPrefix(upper, "EST "); ok {
		return oneDate(DateEstimated, s, rest)
	}
	if rest, ok := strings.CutPrefix(upper, "INT "); ok {
		datePart := rest
		var phrase string
		if idx := strings.Index(rest, "("); idx >= 0 {
			datePart = strings.TrimSpace(rest[:idx])
			// Recover the phrase from the original string to preserve case.
			orig := s[len(s)-len(rest):]
			phrase = strings.Trim(orig[idx:], "() ")
		}
		dv, err := oneDate(DateInterpreted, s, datePart)
		if err != nil {
			return nil, err
		}
		dv.Phrase = phrase
		return dv, nil
	}

	return oneDate(DateSimple, s, upper)
}

// cutKeyword splits s around the first occurrence of kw.
func cutKeyword(s, kw string) (before, after string, found bool) {
	idx := strings.Index(s, kw)
	if idx < 0 {
		return s, "", false
	}
	return s[:idx], s[idx+len(kw):], true
}

func oneDate(kind DateKind, orig, date string) (*DateValue, error) {
	d, err := parseCalendarDate(date)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrBadDate, orig)
	}
	return &DateValue{Kind: kind, Date: d}, nil
}

func twoDates(kind DateKind, orig, first, second string) (*DateValue, error) {
	d1, err := parseCalendarDate(first)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrBadDate, orig)
	}
	d2, err := parseCalendarDate(second)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrBadDate, orig)
	}
	return &DateValue{Kind: kind, Date: d1, Date2: d2}, nil
}

// parseCalendarDate parses "[day] [month] year" with an optional trailing
// BC era marker. The year may carry a dual-year suffix ("1700/01"); only
// the first year is kept.
func parseCalendarDate(s string) (CalendarDate, error) {
	tokens := strings.Fields(strings.TrimSpace(s))
	if len(tokens) == 0 {
		return CalendarDate{}, fmt.Errorf("empty date")
	}

	bc := false
	last := strings.ToUpper(tokens[len(tokens)-1])
	if last == "BC" || last == "B.C." || last == "BCE" {
		bc = true
		tokens = tokens[:len(tokens)-1]
		if len(tokens) == 0 {
			return CalendarDate{}, fmt.Errorf("era without year")
		}
	}

	var d CalendarDate
	switch len(tokens) {
	case 1:
		year, err := parseYear(tokens[0])
		if err != nil {
			return CalendarDate{}, err
		}
		d.Year = year
	case 2:
		month, ok := monthNumber[strings.ToUpper(tokens[0])]
		if !ok {
			return CalendarDate{}, fmt.Errorf("unknown month %q", tokens[0])
		}
		year, err := parseYear(tokens[1])
		if err != nil {
			return CalendarDate{}, err
		}
		d.Month = month
		d.Year = year
	case 3:
		day, err := strconv.Atoi(tokens[0])
		if err != nil || day < 1 || day > 31 {
			return CalendarDate{}, fmt.Errorf("bad day %q", tokens[0])
		}
		month, ok := monthNumber[strings.ToUpper(tokens[1])]
		if !ok {
			return CalendarDate{}, fmt.Errorf("unknown month %q", tokens[1])
		}
		year, err := parseYear(tokens[2])
		if err != nil {
			return CalendarDate{}, err
		}
		d.Day = day
		d.Month = month
		d.Year = year
	default:
		return CalendarDate{}, fmt.Errorf("too many tokens in %q", s)
	}

	if bc {
		d.Year = -d.Year
	}
	return d, nil
}

func parseYear(s string) (int, error) {
	// Dual years like "1700/01" keep the first year.
	if idx := strings.IndexByte(s, '/'); idx >= 0 {
		s = s[:idx]
	}
	year, err := strconv.Atoi(s)
	if err != nil || year == 0 {
		return 0, fmt.Errorf("bad year %q", s)
	}
	return year, nil
}
