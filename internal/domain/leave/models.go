package leave

import "hrmportal/internal/hrapi"

const (
	TypeSick   = "SICK"
	TypeCasual = "CASUAL"
	TypeEarned = "EARNED"
	TypeOther  = "OTHER"

	StatusPending  = "PENDING"
	StatusApproved = "APPROVED"
	StatusRejected = "REJECTED"
)

var Types = []string{TypeSick, TypeCasual, TypeEarned, TypeOther}

// Decisions are the statuses a manager may move a pending request to.
var Decisions = []string{StatusApproved, StatusRejected}

type Leave struct {
	ID        hrapi.ID      `json:"id"`
	Type      string        `json:"type"`
	StartDate string        `json:"startDate"`
	EndDate   string        `json:"endDate"`
	Reason    string        `json:"reason"`
	Status    string        `json:"status"`
	User      *hrapi.Person `json:"user,omitempty"`
}

type ApplyInput struct {
	Type      string `json:"type"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Reason    string `json:"reason"`
}

type statusUpdate struct {
	Status string `json:"status"`
}

// Days is the inclusive length of the leave, or 0 when the dates are not
// readable.
func (l Leave) Days() float64 {
	start, ok := hrapi.ParseDate(l.StartDate)
	if !ok {
		return 0
	}
	end, ok := hrapi.ParseDate(l.EndDate)
	if !ok {
		return 0
	}
	days, err := CalculateDays(start, end)
	if err != nil {
		return 0
	}
	return days
}

func (l Leave) Applicant() string {
	return l.User.DisplayName()
}

func (l Leave) RoleTitle() string {
	if l.User == nil {
		return ""
	}
	for _, e := range l.User.Employee {
		if e.RoleTitle != "" {
			return e.RoleTitle
		}
	}
	return ""
}

func (l Leave) Pending() bool {
	return l.Status == StatusPending
}
