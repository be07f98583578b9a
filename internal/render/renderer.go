package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"hrmportal/internal/domain/auth"
	"hrmportal/internal/domain/bonus"
	"hrmportal/internal/hrapi"
	"hrmportal/internal/viewstate"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Static returns the embedded CSS and JS, rooted at static/.
func Static() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

// BusyChecker reports whether a control has a mutation in flight.
type BusyChecker interface {
	Busy(sessionID, control string) bool
}

// PageData is what every template receives. View holds the page's own
// view model.
type PageData struct {
	Title   string
	Page    Page
	Tab     Tab
	Tabs    []Tab
	Nav     []Page
	Session *auth.Session
	Notices []viewstate.Notice
	Drafts  map[string]url.Values
	View    any
}

type Renderer struct {
	gate viewstate.Authorizer
	busy BusyChecker
}

func New(gate viewstate.Authorizer, busy BusyChecker) *Renderer {
	return &Renderer{gate: gate, busy: busy}
}

// Nav returns the pages shown in the sidebar.
func (rd *Renderer) Nav() []Page {
	out := make([]Page, 0, len(NavOrder))
	for _, key := range NavOrder {
		out = append(out, Pages[key])
	}
	return out
}

// Render executes templates/<name>.html inside the layout and writes it with
// status. Output is buffered so a template error never leaves a half page.
func (rd *Renderer) Render(w http.ResponseWriter, status int, name string, data PageData) {
	var buf bytes.Buffer
	if err := rd.Execute(&buf, name, data); err != nil {
		slog.Warn("render failed", "template", name, "err", err)
		http.Error(w, "render error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func (rd *Renderer) Execute(buf *bytes.Buffer, name string, data PageData) error {
	if data.Nav == nil && data.Session != nil {
		data.Nav = rd.Nav()
	}
	tpl, err := template.New("layout.html").
		Funcs(rd.funcs(data)).
		ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
	if err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}
	return tpl.Execute(buf, data)
}

func (rd *Renderer) funcs(data PageData) template.FuncMap {
	sess := data.Session
	return template.FuncMap{
		"can": func(perm string) bool {
			return sess != nil && rd.gate != nil && rd.gate.Can(sess.Role, perm)
		},
		"isLoggedIn":   func() bool { return sess != nil },
		"isManager":    func() bool { return sess.IsManager() },
		"currentRole":  func() string { return roleLabel(sess) },
		"currentEmail": func() string { return email(sess) },
		"busy": func(control string) bool {
			return sess != nil && rd.busy != nil && rd.busy.Busy(sess.ID, control)
		},
		"draft": func(form, field string) string {
			return data.Drafts[form].Get(field)
		},
		"drafted": func(form, field, value string) bool {
			for _, v := range data.Drafts[form][field] {
				if v == value {
					return true
				}
			}
			return false
		},
		"formatDate": hrapi.FormatDate,
		"money":      money,
		"hours":      hours,
		"lower":      strings.ToLower,
		"title":      titleCase,
		"tabURL": func(page Page, tab string) string {
			return page.Path + "?tab=" + url.QueryEscape(tab)
		},
	}
}

func roleLabel(sess *auth.Session) string {
	if sess == nil {
		return ""
	}
	return sess.Role.Label()
}

func email(sess *auth.Session) string {
	if sess == nil {
		return ""
	}
	return sess.Email
}

func money(v any) string {
	switch n := v.(type) {
	case hrapi.Decimal:
		return bonus.FormatMoney(n.Float())
	case float64:
		return bonus.FormatMoney(n)
	case int:
		return bonus.FormatMoney(float64(n))
	default:
		return fmt.Sprint(v)
	}
}

func hours(v any) string {
	var f float64
	switch n := v.(type) {
	case hrapi.Decimal:
		f = n.Float()
	case float64:
		f = n
	default:
		return fmt.Sprint(v)
	}
	return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.2f", f), "0"), ".")
}

// titleCase turns SICK or PERFORMANCE into Sick or Performance.
func titleCase(s string) string {
	if s == "" {
		return s
	}
	lower := strings.ToLower(strings.ReplaceAll(s, "_", " "))
	return strings.ToUpper(lower[:1]) + lower[1:]
}
