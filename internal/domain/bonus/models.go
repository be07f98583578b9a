package bonus

import "hrmportal/internal/hrapi"

const (
	TypePerformance = "PERFORMANCE"
	TypeFestival    = "FESTIVAL"
	TypeSpot        = "SPOT"
	TypeCustom      = "CUSTOM"

	StatusPending  = "PENDING"
	StatusApproved = "APPROVED"
)

var Types = []string{TypePerformance, TypeFestival, TypeSpot, TypeCustom}

type Bonus struct {
	ID        hrapi.ID      `json:"id"`
	Amount    hrapi.Decimal `json:"amount"`
	Reason    string        `json:"reason"`
	Period    string        `json:"period"`
	Type      string        `json:"type"`
	Status    string        `json:"status"`
	UserID    hrapi.ID      `json:"userId"`
	CreatedAt string        `json:"createdAt,omitempty"`
	User      *hrapi.Person `json:"user,omitempty"`
	Approver  *hrapi.Person `json:"approver,omitempty"`
}

func (b Bonus) Pending() bool {
	return b.Status == StatusPending
}

// Recipient falls back to "Unknown" when the HR API omits the user.
func (b Bonus) Recipient() string {
	if name := b.User.DisplayName(); name != "" {
		return name
	}
	return "Unknown"
}

type Candidate struct {
	ID     hrapi.ID `json:"id"`
	UserID hrapi.ID `json:"userId"`
	Name   string   `json:"name"`
	Role   string   `json:"role"`
}

type Stats struct {
	TotalApproved  hrapi.Decimal `json:"totalApproved"`
	TotalPending   hrapi.Decimal `json:"totalPending"`
	TotalAllocated hrapi.Decimal `json:"totalAllocated"`
	PendingCount   int           `json:"pendingCount"`
}

type AssignInput struct {
	UserID string  `json:"userId"`
	Amount float64 `json:"amount"`
	Type   string  `json:"type"`
	Reason string  `json:"reason"`
	Period string  `json:"period"`
}

// Totals is the "my bonuses" card row.
type Totals struct {
	Earned  float64 `json:"earned"`
	Pending float64 `json:"pending"`
}
