package hrmhandler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"hrmportal/internal/domain/auth"
	"hrmportal/internal/domain/hrm"
	"hrmportal/internal/render"
	"hrmportal/internal/requestctx"
	"hrmportal/internal/transport/http/middleware"
	"hrmportal/internal/transport/http/shared"
)

var page = render.Page{Key: "hrm", Title: "HRM Dashboard", Path: "/hrm"}

type Handler struct {
	Service *hrm.Service
	Portal  *shared.Portal
}

func NewHandler(service *hrm.Service, portal *shared.Portal) *Handler {
	return &Handler{Service: service, Portal: portal}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.With(middleware.RequirePermission(auth.PermHRMDashboard, h.Portal.Gate, h.Portal.Deny)).Get("/hrm", h.handleShow)
}

// handleShow embeds the HRM dashboard. The frame source is opened to the
// handoff URL's origin for this response only.
func (h *Handler) handleShow(w http.ResponseWriter, r *http.Request) {
	sess, ok := shared.SessionFrom(r)
	if !ok {
		http.Redirect(w, r, shared.LoginPath, http.StatusSeeOther)
		return
	}

	target, err := h.Service.Handoff(r.Context(), sess.Token, sess.HTTPCookies())
	if err != nil {
		if shared.IsAuth(err) {
			h.Portal.Expire(w, r, sess)
			return
		}
		slog.Warn("hrm handoff failed", "err", err, "requestId", requestctx.GetRequestID(r.Context()))
		h.Portal.RenderPage(w, r, http.StatusOK, "hrm", page, render.HRMView{Error: hrm.Message(err)})
		return
	}

	middleware.AllowFrameSource(w, hrm.Origin(target))
	h.Portal.RenderPage(w, r, http.StatusOK, "hrm", page, render.HRMView{RedirectURL: target.String()})
}
