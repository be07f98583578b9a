package announcement

import "hrmportal/internal/hrapi"

const (
	AudienceAll       = "ALL"
	AudienceEmployees = "EMPLOYEES"
	AudienceManagers  = "MANAGERS"
)

var Audiences = []string{AudienceAll, AudienceEmployees, AudienceManagers}

type Announcement struct {
	ID             hrapi.ID      `json:"id"`
	Title          string        `json:"title"`
	Message        string        `json:"message"`
	IsPinned       bool          `json:"isPinned"`
	TargetAudience string        `json:"targetAudience,omitempty"`
	CreatedAt      string        `json:"createdAt,omitempty"`
	Author         *hrapi.Person `json:"author,omitempty"`
}

func (a Announcement) AuthorEmail() string {
	if a.Author == nil {
		return ""
	}
	return a.Author.Email
}

type CreateInput struct {
	Title          string `json:"title"`
	Message        string `json:"message"`
	IsPinned       bool   `json:"isPinned"`
	TargetAudience string `json:"targetAudience"`
}

type pinUpdate struct {
	IsPinned bool `json:"isPinned"`
}

// SortPinnedFirst orders pinned announcements ahead of the rest and keeps
// the HR API order otherwise.
func SortPinnedFirst(items []Announcement) []Announcement {
	out := make([]Announcement, 0, len(items))
	for _, a := range items {
		if a.IsPinned {
			out = append(out, a)
		}
	}
	for _, a := range items {
		if !a.IsPinned {
			out = append(out, a)
		}
	}
	return out
}

func IsAudience(value string) bool {
	for _, a := range Audiences {
		if a == value {
			return true
		}
	}
	return false
}
