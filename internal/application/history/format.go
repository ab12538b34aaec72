package history

import (
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// DefaultTimeZone is used when no location is configured
const DefaultTimeZone = "Asia/Seoul"

var koreanWeekdays = [...]string{"일", "월", "화", "수", "목", "금", "토"}

// Formatter renders dates and amounts for display rows
type Formatter struct {
	loc     *time.Location
	printer *message.Printer
}

// NewFormatter creates a formatter for the given location. A nil location means DefaultTimeZone.
func NewFormatter(loc *time.Location) *Formatter {
	if loc == nil {
		loc = defaultLocation()
	}
	return &Formatter{
		loc:     loc,
		printer: message.NewPrinter(language.Korean),
	}
}

// LoadFormatter creates a formatter for a named time zone
func LoadFormatter(tz string) (*Formatter, error) {
	if tz == "" {
		tz = DefaultTimeZone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, err
	}
	return NewFormatter(loc), nil
}

func defaultLocation() *time.Location {
	loc, err := time.LoadLocation(DefaultTimeZone)
	if err != nil {
		// tzdata missing; KST has no DST
		return time.FixedZone("KST", 9*60*60)
	}
	return loc
}

// Date formats t as "2006-01-02(요일) 15:04" in the formatter's location
func (f *Formatter) Date(t time.Time) string {
	local := t.In(f.loc)
	return local.Format("2006-01-02") + "(" + koreanWeekdays[local.Weekday()] + ") " + local.Format("15:04")
}

// Amount formats a decimal with Korean digit grouping, e.g. 1,234,500
func (f *Formatter) Amount(d decimal.Decimal) string {
	if d.IsInteger() {
		return f.printer.Sprint(number.Decimal(d.IntPart()))
	}
	return f.printer.Sprint(number.Decimal(d.InexactFloat64(), number.MaxFractionDigits(2)))
}
