package gtr

import (
	"fmt"

	"github.com/gedtree/gedtree/pkg/gedcom"
)

// FormatDate renders a parsed GEDCOM date value in genealogytree's date
// syntax. A nil value and phrase-only dates render as the empty string.
//
// Qualifier handling:
//   - simple dates render as "(CAL)YYYY[-MM[-DD]]"
//   - periods and ranges render as "date1/date2"
//   - open-ended from/after render as "date/", to/before as "/date"
//   - about, calculated, estimated and interpreted dates render like
//     simple dates with a "ca" uncertainty prefix on the era token; the
//     phrase of an interpreted date is dropped
func FormatDate(dv *gedcom.DateValue) string {
	if dv == nil {
		return ""
	}
	switch dv.Kind {
	case gedcom.DateSimple:
		return formatCalendarDate(dv.Date, false)
	case gedcom.DatePeriod, gedcom.DateRange:
		return formatCalendarDate(dv.Date, false) + "/" + formatCalendarDate(dv.Date2, false)
	case gedcom.DateFrom, gedcom.DateAfter:
		return formatCalendarDate(dv.Date, false) + "/"
	case gedcom.DateTo, gedcom.DateBefore:
		return "/" + formatCalendarDate(dv.Date, false)
	case gedcom.DateAbout, gedcom.DateCalculated, gedcom.DateEstimated, gedcom.DateInterpreted:
		return formatCalendarDate(dv.Date, true)
	case gedcom.DatePhrase:
		return ""
	default:
		return ""
	}
}

// formatCalendarDate renders one calendar date with its era token. The era
// is always resolved to AD or BC (caAD/caBC for uncertain dates), derived
// from the sign of the year. Month and day are zero-padded to two digits;
// the year is never padded.
func formatCalendarDate(d gedcom.CalendarDate, uncertain bool) string {
	era := "AD"
	year := d.Year
	if year < 0 {
		year = -year
		era = "BC"
	}
	if uncertain {
		era = "ca" + era
	}

	s := fmt.Sprintf("(%s)%d", era, year)
	if d.Month > 0 {
		s += fmt.Sprintf("-%02d", d.Month)
		if d.Day > 0 {
			s += fmt.Sprintf("-%02d", d.Day)
		}
	}
	return s
}
