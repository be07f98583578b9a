package overtime

import (
	"time"

	"hrmportal/internal/hrapi"
)

// Summarize counts approved hours dated in now's month, plus pending and
// approved requests overall.
func Summarize(items []Request, now time.Time) Summary {
	var out Summary
	year, month, _ := now.Date()
	for _, item := range items {
		switch item.Status {
		case StatusPending:
			out.Pending++
		case StatusApproved:
			out.Approved++
			if d, ok := hrapi.ParseDate(item.Date); ok {
				d = d.In(now.Location())
				if d.Year() == year && d.Month() == month {
					out.HoursThisMonth += item.Hours.Float()
				}
			}
		}
	}
	return out
}

func CountPending(items []Request) int {
	n := 0
	for _, item := range items {
		if item.Pending() {
			n++
		}
	}
	return n
}

func IsDecision(status string) bool {
	for _, s := range Decisions {
		if s == status {
			return true
		}
	}
	return false
}
