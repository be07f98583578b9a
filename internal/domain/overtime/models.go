package overtime

import "hrmportal/internal/hrapi"

const (
	StatusPending  = "PENDING"
	StatusApproved = "APPROVED"
	StatusRejected = "REJECTED"
)

var Decisions = []string{StatusApproved, StatusRejected}

type Request struct {
	ID        hrapi.ID      `json:"id"`
	Date      string        `json:"date"`
	Hours     hrapi.Decimal `json:"hours"`
	Reason    string        `json:"reason"`
	Status    string        `json:"status"`
	Remarks   string        `json:"remarks,omitempty"`
	CreatedAt string        `json:"createdAt,omitempty"`
	User      *hrapi.Person `json:"user,omitempty"`
}

func (r Request) Pending() bool {
	return r.Status == StatusPending
}

func (r Request) Requester() string {
	return r.User.DisplayName()
}

type LogInput struct {
	Date   string  `json:"date"`
	Hours  float64 `json:"hours"`
	Reason string  `json:"reason"`
}

type StatusInput struct {
	Status  string `json:"status"`
	Remarks string `json:"remarks,omitempty"`
}

// Summary is the "my overtime" card row.
type Summary struct {
	HoursThisMonth float64 `json:"totalHoursMonth"`
	Pending        int     `json:"pending"`
	Approved       int     `json:"approved"`
}
