package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ParseDate parses a date string in ISO format (YYYY-MM-DD).
func ParseDate(dateStr string) (time.Time, error) {
	parsedTime, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date format: expected YYYY-MM-DD")
	}
	return parsedTime, nil
}

// CalculateDeadline adds whole calendar days to a date.
func CalculateDeadline(from time.Time, days int) time.Time {
	return from.AddDate(0, 0, days)
}

var lithuanianMonthsGenitive = [12]string{
	"sausio", "vasario", "kovo", "balandžio", "gegužės", "birželio",
	"liepos", "rugpjūčio", "rugsėjo", "spalio", "lapkričio", "gruodžio",
}

// FormatDateLT renders a date the way Lithuanian documents write it,
// e.g. "2024 m. kovo 5 d.".
func FormatDateLT(t time.Time) string {
	return fmt.Sprintf("%d m. %s %d d.", t.Year(), lithuanianMonthsGenitive[t.Month()-1], t.Day())
}

// FormatEUR renders an amount as "1 234,50 €".
func FormatEUR(amount decimal.Decimal) string {
	fixed := amount.StringFixed(2)
	neg := strings.HasPrefix(fixed, "-")
	fixed = strings.TrimPrefix(fixed, "-")

	intPart, frac, _ := strings.Cut(fixed, ".")
	var grouped strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			grouped.WriteRune(' ')
		}
		grouped.WriteRune(r)
	}

	out := grouped.String() + "," + frac + " €"
	if neg {
		return "-" + out
	}
	return out
}

// FormatFileSize renders a byte count with a binary unit suffix.
func FormatFileSize(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(size)/float64(div), "KMGT"[exp])
}
