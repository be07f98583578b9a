package render

import (
	"hrmportal/internal/domain/auth"
	"hrmportal/internal/viewstate"
)

const (
	ScopeMyBonuses       viewstate.Scope = "bonuses.mine"
	ScopeAllBonuses      viewstate.Scope = "bonuses.all"
	ScopeBonusCandidates viewstate.Scope = "bonuses.candidates"
	ScopeBonusStats      viewstate.Scope = "bonuses.stats"
	ScopeAnnouncements   viewstate.Scope = "announcements"
	ScopeFeedback        viewstate.Scope = "feedback"
	ScopeMyLeaves        viewstate.Scope = "leaves.mine"
	ScopePendingLeaves   viewstate.Scope = "leaves.pending"
	ScopeMyOvertime      viewstate.Scope = "overtime.mine"
	ScopePendingOvertime viewstate.Scope = "overtime.pending"
)

const (
	PageBonuses  = "bonuses"
	PageUpdates  = "updates"
	PageLeaves   = "leaves"
	PageOvertime = "overtime"
)

// Tab is one tab of a page. Perm gates the tab itself; Scopes are read on
// every activation.
type Tab struct {
	Key    string
	Label  string
	Perm   string
	Scopes []viewstate.Scope
}

type Page struct {
	Key   string
	Title string
	Path  string
	Tabs  []Tab
}

var Pages = map[string]Page{
	PageBonuses: {
		Key: PageBonuses, Title: "Bonuses", Path: "/bonuses",
		Tabs: []Tab{
			{Key: "my-bonuses", Label: "My Bonuses", Perm: auth.PermBonusReadOwn, Scopes: []viewstate.Scope{ScopeMyBonuses}},
			{Key: "manage-bonuses", Label: "Manage Bonuses", Perm: auth.PermBonusManage, Scopes: []viewstate.Scope{ScopeAllBonuses, ScopeBonusCandidates, ScopeBonusStats}},
		},
	},
	PageUpdates: {
		Key: PageUpdates, Title: "Company Updates", Path: "/updates",
		Tabs: []Tab{
			{Key: "announcements", Label: "Announcements", Perm: auth.PermAnnouncementRead, Scopes: []viewstate.Scope{ScopeAnnouncements}},
			{Key: "feedback", Label: "Feedback", Perm: auth.PermFeedbackSubmit, Scopes: []viewstate.Scope{ScopeFeedback}},
		},
	},
	PageLeaves: {
		Key: PageLeaves, Title: "Leaves", Path: "/leaves",
		Tabs: []Tab{
			{Key: "my-leaves", Label: "My Leaves", Perm: auth.PermLeaveReadOwn, Scopes: []viewstate.Scope{ScopeMyLeaves}},
			{Key: "team-requests", Label: "Team Requests", Perm: auth.PermLeaveApprove, Scopes: []viewstate.Scope{ScopePendingLeaves}},
		},
	},
	PageOvertime: {
		Key: PageOvertime, Title: "Overtime", Path: "/overtime",
		Tabs: []Tab{
			{Key: "my-overtime", Label: "My Overtime", Perm: auth.PermOvertimeReadOwn, Scopes: []viewstate.Scope{ScopeMyOvertime}},
			{Key: "team-requests", Label: "Team Requests", Perm: auth.PermOvertimeApprove, Scopes: []viewstate.Scope{ScopePendingOvertime}},
		},
	},
}

// NavOrder is the sidebar order.
var NavOrder = []string{PageBonuses, PageUpdates, PageLeaves, PageOvertime}

// VisibleTabs returns the tabs of page that role may open.
func VisibleTabs(authz viewstate.Authorizer, role auth.Role, page Page) []Tab {
	out := make([]Tab, 0, len(page.Tabs))
	for _, tab := range page.Tabs {
		if tab.Perm == "" || authz.Can(role, tab.Perm) {
			out = append(out, tab)
		}
	}
	return out
}

// ResolveTab returns the requested tab when role can see it and the page's
// first visible tab otherwise.
func ResolveTab(authz viewstate.Authorizer, role auth.Role, page Page, requested string) (Tab, bool) {
	visible := VisibleTabs(authz, role, page)
	if len(visible) == 0 {
		return Tab{}, false
	}
	for _, tab := range visible {
		if tab.Key == requested {
			return tab, true
		}
	}
	return visible[0], true
}
