package bonushandler

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"hrmportal/internal/domain/auth"
	"hrmportal/internal/domain/bonus"
	"hrmportal/internal/mutation"
	"hrmportal/internal/render"
	"hrmportal/internal/transport/http/middleware"
	"hrmportal/internal/transport/http/shared"
	"hrmportal/internal/viewstate"
)

const ledgerKind = "bonus"

// manageScopes are refreshed after every assign or approve.
var manageScopes = []viewstate.Scope{render.ScopeAllBonuses, render.ScopeBonusCandidates, render.ScopeBonusStats}

type Handler struct {
	Service *bonus.Service
	Portal  *shared.Portal
	Now     func() time.Time
}

func NewHandler(service *bonus.Service, portal *shared.Portal) *Handler {
	h := &Handler{Service: service, Portal: portal, Now: time.Now}
	portal.Register(render.PageBonuses, h.view, h.loaders()...)
	return h
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	manage := middleware.RequirePermission(auth.PermBonusManage, h.Portal.Gate, h.Portal.Deny)
	r.Get("/bonuses", h.handleShow)
	r.With(middleware.RequirePermission(auth.PermBonusStatement, h.Portal.Gate, h.Portal.Deny)).Get("/bonuses/statement.pdf", h.handleStatement)
	r.With(manage).Post("/bonuses/assign", h.handleAssign)
	r.With(manage).Post("/bonuses/{bonusID}/approve", h.handleApprove)
}

func (h *Handler) loaders() []viewstate.Loader {
	return []viewstate.Loader{
		{
			Scope: render.ScopeMyBonuses,
			Perm:  auth.PermBonusReadOwn,
			Load: func(ctx context.Context, sess *auth.Session) (any, error) {
				return h.Service.ListMine(ctx, sess.Token)
			},
			Settle: settle,
		},
		{
			Scope: render.ScopeAllBonuses,
			Perm:  auth.PermBonusManage,
			Load: func(ctx context.Context, sess *auth.Session) (any, error) {
				return h.Service.ListAll(ctx, sess.Token)
			},
			Settle: settle,
		},
		{
			Scope: render.ScopeBonusCandidates,
			Perm:  auth.PermBonusManage,
			Load: func(ctx context.Context, sess *auth.Session) (any, error) {
				return h.Service.ListCandidates(ctx, sess.Token)
			},
		},
		{
			Scope: render.ScopeBonusStats,
			Perm:  auth.PermBonusManage,
			Load: func(ctx context.Context, sess *auth.Session) (any, error) {
				stats, err := h.Service.Stats(ctx, sess.Token)
				if err != nil {
					return nil, err
				}
				return &stats, nil
			},
		},
	}
}

func settle(value any, ledger *viewstate.Ledger) any {
	items, ok := value.([]bonus.Bonus)
	if !ok {
		return value
	}
	return viewstate.SettleAll(ledger, ledgerKind, items, func(b *bonus.Bonus) (string, *string) {
		return b.ID.String(), &b.Status
	})
}

func (h *Handler) view(slots map[viewstate.Scope]viewstate.Slot) any {
	mine := shared.Slot[[]bonus.Bonus](slots, render.ScopeMyBonuses)
	return render.BonusesView{
		Mine:       mine,
		Totals:     bonus.Sum(mine),
		All:        shared.Slot[[]bonus.Bonus](slots, render.ScopeAllBonuses),
		Candidates: shared.Slot[[]bonus.Candidate](slots, render.ScopeBonusCandidates),
		Stats:      shared.Slot[*bonus.Stats](slots, render.ScopeBonusStats),
		Types:      bonus.Types,
	}
}

func (h *Handler) handleShow(w http.ResponseWriter, r *http.Request) {
	h.Portal.ShowTab(w, r, render.PageBonuses)
}

func (h *Handler) handleAssign(w http.ResponseWriter, r *http.Request) {
	shared.ParseForm(r)
	var in bonus.AssignInput
	h.Portal.Mutate(w, r, mutation.Mutation{
		Control: "bonus.assign",
		Form:    "bonus.assign",
		Validate: func() error {
			v := shared.NewValidator()
			in.UserID = strings.TrimSpace(r.PostForm.Get("userId"))
			in.Type = strings.ToUpper(strings.TrimSpace(r.PostForm.Get("type")))
			in.Reason = strings.TrimSpace(r.PostForm.Get("reason"))
			in.Period = strings.TrimSpace(r.PostForm.Get("period"))
			v.Required("userId", in.UserID, "is required")
			v.Required("amount", r.PostForm.Get("amount"), "is required")
			v.Required("period", in.Period, "is required")
			v.Required("reason", in.Reason, "is required")
			if err := v.Err(bonus.OpAssign, "All fields are required"); err != nil {
				return err
			}
			amount, _ := v.Positive("amount", r.PostForm.Get("amount"))
			in.Amount = amount
			if in.Type == "" {
				in.Type = bonus.TypePerformance
			}
			v.Enum("type", in.Type, bonus.Types, "is not a bonus type")
			return v.Err(bonus.OpAssign, "Enter a valid amount and bonus type")
		},
		Call: func(ctx context.Context, sess *auth.Session) error {
			_, err := h.Service.Assign(ctx, sess.Token, in)
			return err
		},
		Invalidates: manageScopes,
		Success:     "Bonus assigned!",
		Failure:     "Failed to assign bonus",
	}, "/bonuses?tab=manage-bonuses")
}

func (h *Handler) handleApprove(w http.ResponseWriter, r *http.Request) {
	shared.ParseForm(r)
	id := chi.URLParam(r, "bonusID")
	h.Portal.Mutate(w, r, mutation.Mutation{
		Control: "bonus.approve." + id,
		Call: func(ctx context.Context, sess *auth.Session) error {
			return h.Service.Approve(ctx, sess.Token, id)
		},
		Invalidates: manageScopes,
		Success:     "Bonus approved successfully",
		Failure:     "Failed to approve",
	}, "/bonuses?tab=manage-bonuses")
}

// handleStatement streams the caller's bonus history as a PDF.
func (h *Handler) handleStatement(w http.ResponseWriter, r *http.Request) {
	sess, ok := shared.SessionFrom(r)
	if !ok {
		http.Redirect(w, r, shared.LoginPath, http.StatusSeeOther)
		return
	}
	items, err := h.Service.ListMine(r.Context(), sess.Token)
	if err != nil {
		if shared.IsAuth(err) {
			h.Portal.Expire(w, r, sess)
			return
		}
		slog.Warn("bonus statement read failed", "err", err)
		h.Portal.Views.State(sess.ID).Notify(viewstate.Notice{Kind: viewstate.NoticeError, Title: "Error", Message: "Failed to load bonuses"})
		http.Redirect(w, r, "/bonuses", http.StatusSeeOther)
		return
	}
	items = settle(items, h.Portal.Views.State(sess.ID).Ledger()).([]bonus.Bonus)

	var buf bytes.Buffer
	if err := bonus.WriteStatement(&buf, sess.Email, items, h.Now()); err != nil {
		slog.Warn("bonus statement render failed", "err", err)
		http.Error(w, "failed to render statement", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "bonus-statement-"+h.Now().Format("2006-01-02")+".pdf"))
	_, _ = buf.WriteTo(w)
}
