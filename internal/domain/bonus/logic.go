package bonus

import (
	"math"
	"strconv"
	"strings"
)

// Sum adds approved and pending amounts separately.
func Sum(items []Bonus) Totals {
	var out Totals
	for _, b := range items {
		switch b.Status {
		case StatusApproved:
			out.Earned += b.Amount.Float()
		case StatusPending:
			out.Pending += b.Amount.Float()
		}
	}
	return out
}

func IsType(value string) bool {
	for _, t := range Types {
		if t == value {
			return true
		}
	}
	return false
}

// FormatMoney renders an amount with thousands separators and cents only
// when they are not zero, e.g. 12,500 or 1,250.50.
func FormatMoney(amount float64) string {
	negative := amount < 0
	amount = math.Abs(amount)
	cents := int64(math.Round(amount * 100))
	whole := strconv.FormatInt(cents/100, 10)

	var b strings.Builder
	if negative {
		b.WriteByte('-')
	}
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if frac := cents % 100; frac != 0 {
		b.WriteByte('.')
		if frac < 10 {
			b.WriteByte('0')
		}
		b.WriteString(strconv.FormatInt(frac, 10))
	}
	return b.String()
}
