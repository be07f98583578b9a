package render

import (
	"hrmportal/internal/domain/announcement"
	"hrmportal/internal/domain/bonus"
	"hrmportal/internal/domain/feedback"
	"hrmportal/internal/domain/leave"
	"hrmportal/internal/domain/overtime"
)

// DemoLogin is a quick-fill credential pair shown on the login page when
// enabled.
type DemoLogin struct {
	Label    string
	Email    string
	Password string
}

var DemoLogins = []DemoLogin{
	{Label: "Project Manager", Email: "pm@dotspeaks.com", Password: "pm123456"},
	{Label: "Manager", Email: "manager@dotspeaks.com", Password: "manager123"},
	{Label: "Employee", Email: "employee@dotspeaks.com", Password: "employee123"},
}

type LoginView struct {
	Email      string
	Error      string
	DemoLogins []DemoLogin
}

type BonusesView struct {
	Mine       []bonus.Bonus
	Totals     bonus.Totals
	All        []bonus.Bonus
	Candidates []bonus.Candidate
	Stats      *bonus.Stats
	Types      []string
}

type UpdatesView struct {
	Announcements []announcement.Announcement
	Feedback      []feedback.Feedback
	Audiences     []string
}

type LeavesView struct {
	Mine    []leave.Leave
	Pending []leave.Leave
	Types   []string
}

type OvertimeView struct {
	Mine          []overtime.Request
	Summary       overtime.Summary
	Pending       []overtime.Request
	PendingLoaded bool
}

type HRMView struct {
	RedirectURL string
	Error       string
}

type ErrorView struct {
	Status  int
	Message string
}
