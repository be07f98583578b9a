package updateshandler

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"hrmportal/internal/domain/announcement"
	"hrmportal/internal/domain/auth"
	"hrmportal/internal/domain/feedback"
	"hrmportal/internal/mutation"
	"hrmportal/internal/render"
	"hrmportal/internal/transport/http/middleware"
	"hrmportal/internal/transport/http/shared"
	"hrmportal/internal/viewstate"
)

// Handler serves the company updates page: announcements and feedback.
type Handler struct {
	Announcements *announcement.Service
	Feedback      *feedback.Service
	Portal        *shared.Portal
}

func NewHandler(announcements *announcement.Service, fb *feedback.Service, portal *shared.Portal) *Handler {
	h := &Handler{Announcements: announcements, Feedback: fb, Portal: portal}
	portal.Register(render.PageUpdates, h.view, h.loaders()...)
	return h
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	manage := middleware.RequirePermission(auth.PermAnnouncementManage, h.Portal.Gate, h.Portal.Deny)
	r.Get("/updates", h.handleShow)
	r.With(manage).Post("/announcements", h.handleCreate)
	r.With(manage).Post("/announcements/{announcementID}/pin", h.handlePin)
	r.With(manage).Post("/announcements/{announcementID}/delete", h.handleDelete)
	r.With(middleware.RequirePermission(auth.PermFeedbackSubmit, h.Portal.Gate, h.Portal.Deny)).Post("/feedback", h.handleFeedback)
}

func (h *Handler) loaders() []viewstate.Loader {
	return []viewstate.Loader{
		{
			Scope: render.ScopeAnnouncements,
			Perm:  auth.PermAnnouncementRead,
			Load: func(ctx context.Context, sess *auth.Session) (any, error) {
				items, err := h.Announcements.List(ctx, sess.Token)
				if err != nil {
					return nil, err
				}
				return announcement.SortPinnedFirst(items), nil
			},
		},
		{
			Scope: render.ScopeFeedback,
			Perm:  auth.PermFeedbackRead,
			Load: func(ctx context.Context, sess *auth.Session) (any, error) {
				return h.Feedback.List(ctx, sess.Token)
			},
		},
	}
}

func (h *Handler) view(slots map[viewstate.Scope]viewstate.Slot) any {
	return render.UpdatesView{
		Announcements: shared.Slot[[]announcement.Announcement](slots, render.ScopeAnnouncements),
		Feedback:      shared.Slot[[]feedback.Feedback](slots, render.ScopeFeedback),
		Audiences:     announcement.Audiences,
	}
}

func (h *Handler) handleShow(w http.ResponseWriter, r *http.Request) {
	h.Portal.ShowTab(w, r, render.PageUpdates)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	shared.ParseForm(r)
	var in announcement.CreateInput
	h.Portal.Mutate(w, r, mutation.Mutation{
		Control: "announcement.create",
		Form:    "announcement.create",
		Validate: func() error {
			v := shared.NewValidator()
			in = announcement.CreateInput{
				Title:          strings.TrimSpace(r.PostForm.Get("title")),
				Message:        strings.TrimSpace(r.PostForm.Get("message")),
				IsPinned:       r.PostForm.Get("isPinned") == "true",
				TargetAudience: strings.ToUpper(strings.TrimSpace(r.PostForm.Get("targetAudience"))),
			}
			if in.TargetAudience == "" {
				in.TargetAudience = announcement.AudienceAll
			}
			v.Required("title", in.Title, "is required")
			v.Required("message", in.Message, "is required")
			v.Enum("targetAudience", in.TargetAudience, announcement.Audiences, "is not a known audience")
			return v.Err(announcement.OpCreate, "Title and message are required")
		},
		Call: func(ctx context.Context, sess *auth.Session) error {
			_, err := h.Announcements.Create(ctx, sess.Token, in)
			return err
		},
		Invalidates: []viewstate.Scope{render.ScopeAnnouncements},
		Success:     "Announcement posted!",
		Failure:     "Failed to post announcement",
	}, "/updates?tab=announcements")
}

// handlePin toggles the pin. The form carries the desired state so a stale
// page cannot flip it twice.
func (h *Handler) handlePin(w http.ResponseWriter, r *http.Request) {
	shared.ParseForm(r)
	id := chi.URLParam(r, "announcementID")
	pinned := r.PostForm.Get("isPinned") == "true"
	h.Portal.Mutate(w, r, mutation.Mutation{
		Control: "announcement.pin." + id,
		Call: func(ctx context.Context, sess *auth.Session) error {
			return h.Announcements.SetPinned(ctx, sess.Token, id, pinned)
		},
		Invalidates: []viewstate.Scope{render.ScopeAnnouncements},
		Failure:     "Failed to update announcement",
	}, "/updates?tab=announcements")
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "announcementID")
	h.Portal.Mutate(w, r, mutation.Mutation{
		Control: "announcement.delete." + id,
		Call: func(ctx context.Context, sess *auth.Session) error {
			return h.Announcements.Delete(ctx, sess.Token, id)
		},
		Invalidates:  []viewstate.Scope{render.ScopeAnnouncements},
		SuccessTitle: "Deleted",
		Success:      "Announcement removed.",
		Failure:      "Failed to delete",
	}, "/updates?tab=announcements")
}

func (h *Handler) handleFeedback(w http.ResponseWriter, r *http.Request) {
	shared.ParseForm(r)
	var in feedback.SubmitInput
	h.Portal.Mutate(w, r, mutation.Mutation{
		Control: "feedback.submit",
		Form:    "feedback.submit",
		Validate: func() error {
			v := shared.NewValidator()
			in = feedback.SubmitInput{
				Message:     strings.TrimSpace(r.PostForm.Get("message")),
				IsAnonymous: r.PostForm.Get("isAnonymous") == "true",
			}
			v.Required("message", in.Message, "is required")
			return v.Err(feedback.OpSubmit, "Feedback message is required")
		},
		Call: func(ctx context.Context, sess *auth.Session) error {
			_, err := h.Feedback.Submit(ctx, sess.Token, in)
			return err
		},
		Invalidates:  []viewstate.Scope{render.ScopeFeedback},
		SuccessTitle: "Received",
		Success:      "Thank you for your feedback!",
		Failure:      "Failed to submit feedback",
	}, "/updates?tab=feedback")
}
