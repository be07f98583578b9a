package overtimehandler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"hrmportal/internal/domain/auth"
	"hrmportal/internal/domain/overtime"
	"hrmportal/internal/mutation"
	"hrmportal/internal/render"
	"hrmportal/internal/transport/http/middleware"
	"hrmportal/internal/transport/http/shared"
	"hrmportal/internal/viewstate"
)

const ledgerKind = "overtime"

type Handler struct {
	Service *overtime.Service
	Portal  *shared.Portal
	Now     func() time.Time
}

func NewHandler(service *overtime.Service, portal *shared.Portal) *Handler {
	h := &Handler{Service: service, Portal: portal, Now: time.Now}
	portal.Register(render.PageOvertime, h.view, h.loaders()...)
	return h
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/overtime", h.handleShow)
	r.With(middleware.RequirePermission(auth.PermOvertimeLog, h.Portal.Gate, h.Portal.Deny)).Post("/overtime", h.handleLog)
	r.With(middleware.RequirePermission(auth.PermOvertimeApprove, h.Portal.Gate, h.Portal.Deny)).Post("/overtime/{requestID}/status", h.handleUpdateStatus)
}

func (h *Handler) loaders() []viewstate.Loader {
	return []viewstate.Loader{
		{
			Scope: render.ScopeMyOvertime,
			Perm:  auth.PermOvertimeReadOwn,
			Load: func(ctx context.Context, sess *auth.Session) (any, error) {
				return h.Service.ListMine(ctx, sess.Token)
			},
			Settle: settle,
		},
		{
			Scope: render.ScopePendingOvertime,
			Perm:  auth.PermOvertimeApprove,
			Load: func(ctx context.Context, sess *auth.Session) (any, error) {
				return h.Service.ListPending(ctx, sess.Token)
			},
			Settle: settle,
		},
	}
}

func settle(value any, ledger *viewstate.Ledger) any {
	items, ok := value.([]overtime.Request)
	if !ok {
		return value
	}
	return viewstate.SettleAll(ledger, ledgerKind, items, func(o *overtime.Request) (string, *string) {
		return o.ID.String(), &o.Status
	})
}

func (h *Handler) view(slots map[viewstate.Scope]viewstate.Slot) any {
	mine := shared.Slot[[]overtime.Request](slots, render.ScopeMyOvertime)
	pending, loaded := viewstate.Value[[]overtime.Request](slots, render.ScopePendingOvertime)
	return render.OvertimeView{
		Mine:          mine,
		Summary:       overtime.Summarize(mine, h.Now()),
		Pending:       pending,
		PendingLoaded: loaded,
	}
}

func (h *Handler) handleShow(w http.ResponseWriter, r *http.Request) {
	h.Portal.ShowTab(w, r, render.PageOvertime)
}

func (h *Handler) handleLog(w http.ResponseWriter, r *http.Request) {
	shared.ParseForm(r)
	var in overtime.LogInput
	h.Portal.Mutate(w, r, mutation.Mutation{
		Control: "overtime.log",
		Form:    "overtime.log",
		Validate: func() error {
			v := shared.NewValidator()
			in.Date = strings.TrimSpace(r.PostForm.Get("date"))
			in.Reason = strings.TrimSpace(r.PostForm.Get("reason"))
			v.Required("date", in.Date, "is required")
			v.Required("hours", r.PostForm.Get("hours"), "is required")
			v.Required("reason", in.Reason, "is required")
			if err := v.Err(overtime.OpLog, "All fields are required"); err != nil {
				return err
			}
			v.Date("date", in.Date)
			in.Hours, _ = v.Positive("hours", r.PostForm.Get("hours"))
			return v.Err(overtime.OpLog, "Enter a valid date and number of hours")
		},
		Call: func(ctx context.Context, sess *auth.Session) error {
			_, err := h.Service.Log(ctx, sess.Token, in)
			return err
		},
		Invalidates: []viewstate.Scope{render.ScopeMyOvertime},
		Success:     "Overtime request submitted!",
		Failure:     "Action failed",
	}, "/overtime?tab=my-overtime")
}

func (h *Handler) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	shared.ParseForm(r)
	id := chi.URLParam(r, "requestID")
	in := overtime.StatusInput{
		Status:  strings.ToUpper(strings.TrimSpace(r.PostForm.Get("status"))),
		Remarks: r.PostForm.Get("remarks"),
	}
	success := "Request updated"
	switch in.Status {
	case overtime.StatusApproved:
		success = "Request approved"
	case overtime.StatusRejected:
		success = "Request rejected"
	}
	h.Portal.Mutate(w, r, mutation.Mutation{
		Control: "overtime.status." + id,
		Form:    "overtime.review." + id,
		Call: func(ctx context.Context, sess *auth.Session) error {
			return h.Service.UpdateStatus(ctx, sess.Token, id, in)
		},
		Invalidates: []viewstate.Scope{render.ScopePendingOvertime},
		Success:     success,
		Failure:     "Action failed",
	}, "/overtime?tab=team-requests")
}
