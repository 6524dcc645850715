// ABOUTME: Display formatting for money, dates and tonnage
// ABOUTME: Follows en-UG conventions: UGX without decimals, day/month/year dates

package format

import (
	"strings"
	"time"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var (
	printer = message.NewPrinter(language.English)
	ugx     = currency.MustParseISO("UGX")
)

// Currency formats amount as whole Uganda shillings, e.g. "UGX 1,500,000".
func Currency(amount float64) string {
	return printer.Sprintf("%s %v", ugx.String(), number.Decimal(amount, number.MaxFractionDigits(0)))
}

// Number groups thousands and keeps up to two decimals.
func Number(v float64) string {
	return printer.Sprint(number.Decimal(v, number.MaxFractionDigits(2)))
}

// Tonnes formats a tonnage, e.g. "12.5 t".
func Tonnes(v float64) string {
	return Number(v) + " t"
}

const (
	dateLayout     = "02/01/2006"
	dateTimeLayout = "02/01/2006, 15:04:05"
)

// Date formats t as dd/mm/yyyy in local time.
func Date(t time.Time) string {
	return t.Local().Format(dateLayout)
}

// DateTime formats t as "dd/mm/yyyy, hh:mm:ss" in local time.
func DateTime(t time.Time) string {
	return t.Local().Format(dateTimeLayout)
}

var inputLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTime accepts the timestamp shapes the backend returns.
func ParseTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range inputLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// DateString formats a backend timestamp as a date. Unparseable input is
// returned unchanged; empty input becomes "-".
func DateString(s string) string {
	if s == "" {
		return "-"
	}
	if t, ok := ParseTime(s); ok {
		return Date(t)
	}
	return s
}

// DateTimeString is DateString with the time of day.
func DateTimeString(s string) string {
	if s == "" {
		return "-"
	}
	if t, ok := ParseTime(s); ok {
		return DateTime(t)
	}
	return s
}

// Since renders how long ago t was, e.g. "5m ago".
func Since(t time.Time) string {
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return printer.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return printer.Sprintf("%dh ago", int(d.Hours()))
	default:
		return printer.Sprintf("%dd ago", int(d.Hours()/24))
	}
}

// Until renders the time left before t, e.g. "expires in 3h". A past t
// renders "expired".
func Until(t time.Time) string {
	d := time.Until(t)
	switch {
	case d <= 0:
		return "expired"
	case d < time.Minute:
		return "expires in <1m"
	case d < time.Hour:
		return printer.Sprintf("expires in %dm", int(d.Minutes()))
	case d < 24*time.Hour:
		return printer.Sprintf("expires in %dh", int(d.Hours()))
	default:
		return printer.Sprintf("expires in %dd", int(d.Hours()/24))
	}
}
