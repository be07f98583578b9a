package leavehandler

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"hrmportal/internal/domain/auth"
	"hrmportal/internal/domain/leave"
	"hrmportal/internal/mutation"
	"hrmportal/internal/render"
	"hrmportal/internal/transport/http/middleware"
	"hrmportal/internal/transport/http/shared"
	"hrmportal/internal/viewstate"
)

const ledgerKind = "leave"

type Handler struct {
	Service *leave.Service
	Portal  *shared.Portal
}

func NewHandler(service *leave.Service, portal *shared.Portal) *Handler {
	h := &Handler{Service: service, Portal: portal}
	portal.Register(render.PageLeaves, h.view, h.loaders()...)
	return h
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/leaves", h.handleShow)
	r.With(middleware.RequirePermission(auth.PermLeaveApply, h.Portal.Gate, h.Portal.Deny)).Post("/leaves", h.handleApply)
	r.With(middleware.RequirePermission(auth.PermLeaveApprove, h.Portal.Gate, h.Portal.Deny)).Post("/leaves/{leaveID}/status", h.handleUpdateStatus)
}

func (h *Handler) loaders() []viewstate.Loader {
	return []viewstate.Loader{
		{
			Scope: render.ScopeMyLeaves,
			Perm:  auth.PermLeaveReadOwn,
			Load: func(ctx context.Context, sess *auth.Session) (any, error) {
				return h.Service.ListMine(ctx, sess.Token)
			},
			Settle: settle,
		},
		{
			Scope: render.ScopePendingLeaves,
			Perm:  auth.PermLeaveApprove,
			Load: func(ctx context.Context, sess *auth.Session) (any, error) {
				return h.Service.ListPending(ctx, sess.Token)
			},
			Settle: settle,
		},
	}
}

func settle(value any, ledger *viewstate.Ledger) any {
	items, ok := value.([]leave.Leave)
	if !ok {
		return value
	}
	return viewstate.SettleAll(ledger, ledgerKind, items, func(l *leave.Leave) (string, *string) {
		return l.ID.String(), &l.Status
	})
}

func (h *Handler) view(slots map[viewstate.Scope]viewstate.Slot) any {
	return render.LeavesView{
		Mine:    shared.Slot[[]leave.Leave](slots, render.ScopeMyLeaves),
		Pending: shared.Slot[[]leave.Leave](slots, render.ScopePendingLeaves),
		Types:   leave.Types,
	}
}

func (h *Handler) handleShow(w http.ResponseWriter, r *http.Request) {
	h.Portal.ShowTab(w, r, render.PageLeaves)
}

func (h *Handler) handleApply(w http.ResponseWriter, r *http.Request) {
	shared.ParseForm(r)
	var in leave.ApplyInput
	h.Portal.Mutate(w, r, mutation.Mutation{
		Control: "leave.apply",
		Form:    "leave.apply",
		Validate: func() error {
			v := shared.NewValidator()
			in = leave.ApplyInput{
				Type:      strings.ToUpper(strings.TrimSpace(r.PostForm.Get("type"))),
				StartDate: strings.TrimSpace(r.PostForm.Get("startDate")),
				EndDate:   strings.TrimSpace(r.PostForm.Get("endDate")),
				Reason:    strings.TrimSpace(r.PostForm.Get("reason")),
			}
			v.Required("type", in.Type, "is required")
			v.Required("startDate", in.StartDate, "is required")
			v.Required("endDate", in.EndDate, "is required")
			v.Required("reason", in.Reason, "is required")
			if err := v.Err(leave.OpApply, "All fields are required"); err != nil {
				return err
			}
			v.Enum("type", in.Type, leave.Types, "is not a leave type")
			start, okStart := v.Date("startDate", in.StartDate)
			end, okEnd := v.Date("endDate", in.EndDate)
			if okStart && okEnd {
				v.DateOrder("startDate", start, "endDate", end)
			}
			return v.Err(leave.OpApply, "Check the leave type and dates")
		},
		Call: func(ctx context.Context, sess *auth.Session) error {
			_, err := h.Service.Apply(ctx, sess.Token, in)
			return err
		},
		Invalidates: []viewstate.Scope{render.ScopeMyLeaves},
		Success:     "Leave application submitted",
		Failure:     "Failed to apply",
	}, "/leaves?tab=my-leaves")
}

func (h *Handler) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	shared.ParseForm(r)
	id := chi.URLParam(r, "leaveID")
	status := strings.ToUpper(strings.TrimSpace(r.PostForm.Get("status")))
	h.Portal.Mutate(w, r, mutation.Mutation{
		Control: "leave.status." + id,
		Call: func(ctx context.Context, sess *auth.Session) error {
			return h.Service.UpdateStatus(ctx, sess.Token, id, status)
		},
		Invalidates: []viewstate.Scope{render.ScopePendingLeaves},
		Success:     "Leave status updated",
		Failure:     "Failed to update status",
	}, "/leaves?tab=team-requests")
}
