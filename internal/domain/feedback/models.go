package feedback

import "hrmportal/internal/hrapi"

const AnonymousAuthor = "Anonymous Employee"

type Feedback struct {
	ID          hrapi.ID      `json:"id"`
	Message     string        `json:"message"`
	IsAnonymous bool          `json:"isAnonymous"`
	CreatedAt   string        `json:"createdAt,omitempty"`
	User        *hrapi.Person `json:"user,omitempty"`
}

// Author hides the submitter of anonymous feedback even when the HR API
// returns the user.
func (f Feedback) Author() string {
	if f.IsAnonymous || f.User == nil {
		return AnonymousAuthor
	}
	return f.User.Email
}

func (f Feedback) AuthorRole() string {
	if f.IsAnonymous || f.User == nil {
		return ""
	}
	return f.User.Role
}

type SubmitInput struct {
	Message     string `json:"message"`
	IsAnonymous bool   `json:"isAnonymous"`
}
