package viewshandler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"hrmportal/internal/render"
	"hrmportal/internal/requestctx"
	"hrmportal/internal/transport/http/api"
	"hrmportal/internal/transport/http/shared"
	"hrmportal/internal/viewstate"
)

// Handler exposes the same tab activation the pages use as JSON, for
// clients that render on their own.
type Handler struct {
	Portal *shared.Portal
}

func NewHandler(portal *shared.Portal) *Handler {
	return &Handler{Portal: portal}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/api/views/{page}", h.handleGet)
}

type tabInfo struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

type viewResponse struct {
	Page    string             `json:"page"`
	Tab     string             `json:"tab"`
	Tabs    []tabInfo          `json:"tabs"`
	View    any                `json:"view"`
	Notices []viewstate.Notice `json:"notices,omitempty"`
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())
	sess, ok := shared.SessionFrom(r)
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}

	snap, found, err := h.Portal.Activate(r.Context(), sess, chi.URLParam(r, "page"), r.URL.Query().Get("tab"))
	if err != nil {
		h.Portal.EndSession(w, r, sess)
		api.Fail(w, http.StatusUnauthorized, "session_expired", "session expired", requestID)
		return
	}
	if !found {
		api.Fail(w, http.StatusNotFound, "not_found", "unknown page", requestID)
		return
	}

	api.Success(w, viewResponse{
		Page:    snap.Page.Key,
		Tab:     snap.Tab.Key,
		Tabs:    tabInfos(snap.Tabs),
		View:    snap.View,
		Notices: h.Portal.Views.State(sess.ID).TakeNotices(),
	}, requestID)
}

func tabInfos(tabs []render.Tab) []tabInfo {
	out := make([]tabInfo, 0, len(tabs))
	for _, t := range tabs {
		out = append(out, tabInfo{Key: t.Key, Label: t.Label})
	}
	return out
}
