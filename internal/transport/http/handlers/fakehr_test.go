package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
)

type fakeUser struct {
	ID       int
	Email    string
	Password string
	Role     string
	Name     string
}

type fakeLeave struct {
	ID        int    `json:"id"`
	Type      string `json:"type"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Reason    string `json:"reason"`
	Status    string `json:"status"`
	UserID    int    `json:"-"`
}

type fakeOvertime struct {
	ID      int     `json:"id"`
	Date    string  `json:"date"`
	Hours   float64 `json:"hours"`
	Reason  string  `json:"reason"`
	Status  string  `json:"status"`
	Remarks string  `json:"remarks,omitempty"`
	UserID  int     `json:"-"`
}

// fakeHR is an in-memory HR API. Tokens are "tok-<userID>"; a revoked token
// answers 401 on every call.
type fakeHR struct {
	t      *testing.T
	mu     sync.Mutex
	users  []fakeUser
	leaves []fakeLeave
	ot     []fakeOvertime
	nextID int

	revoked        map[string]bool
	statusBodies   map[string]map[string]string
	handoffExpired bool
}

func newFakeHR(t *testing.T) (*fakeHR, *httptest.Server) {
	t.Helper()
	f := &fakeHR{
		t: t,
		users: []fakeUser{
			{ID: 1, Email: "employee@dotspeaks.com", Password: "employee123", Role: "EMPLOYEE", Name: "Erin Employee"},
			{ID: 2, Email: "manager@dotspeaks.com", Password: "manager123", Role: "MANAGER", Name: "Morgan Manager"},
		},
		ot: []fakeOvertime{
			{ID: 42, Date: "2024-06-10", Hours: 3, Reason: "release night", Status: "PENDING", UserID: 1},
		},
		nextID:       100,
		revoked:      map[string]bool{},
		statusBodies: map[string]map[string]string{},
	}
	srv := httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(srv.Close)
	return f, srv
}

func (f *fakeHR) revoke(token string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.revoked[token] = true
}

func (f *fakeHR) expireHandoff() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handoffExpired = true
}

func (f *fakeHR) statusBody(path string) map[string]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.statusBodies[path]
}

func (f *fakeHR) serve(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if r.Method == http.MethodPost && r.URL.Path == "/auth/login" {
		f.login(w, r)
		return
	}

	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	user, ok := f.userForToken(token)
	if !ok || f.revoked[token] {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Unauthorized"})
		return
	}

	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/leaves/my":
		out := []fakeLeave{}
		for _, l := range f.leaves {
			if l.UserID == user.ID {
				out = append(out, l)
			}
		}
		writeJSON(w, http.StatusOK, out)
	case r.Method == http.MethodGet && r.URL.Path == "/leaves/pending":
		out := []fakeLeave{}
		for _, l := range f.leaves {
			if l.Status == "PENDING" {
				out = append(out, l)
			}
		}
		writeJSON(w, http.StatusOK, out)
	case r.Method == http.MethodPost && r.URL.Path == "/leaves":
		var in fakeLeave
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"message": "bad body"})
			return
		}
		f.nextID++
		in.ID = f.nextID
		in.Status = "PENDING"
		in.UserID = user.ID
		f.leaves = append(f.leaves, in)
		writeJSON(w, http.StatusCreated, in)
	case r.Method == http.MethodGet && r.URL.Path == "/overtime/my":
		out := []fakeOvertime{}
		for _, o := range f.ot {
			if o.UserID == user.ID {
				out = append(out, o)
			}
		}
		writeJSON(w, http.StatusOK, out)
	case r.Method == http.MethodGet && r.URL.Path == "/overtime/pending":
		out := []fakeOvertime{}
		for _, o := range f.ot {
			if o.Status == "PENDING" {
				out = append(out, o)
			}
		}
		writeJSON(w, http.StatusOK, out)
	case r.Method == http.MethodPatch && strings.HasPrefix(r.URL.Path, "/overtime/") && strings.HasSuffix(r.URL.Path, "/status"):
		id, err := strconv.Atoi(strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/overtime/"), "/status"))
		if err != nil {
			writeJSON(w, http.StatusNotFound, map[string]string{"message": "not found"})
			return
		}
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		f.statusBodies[r.URL.Path] = body
		for i := range f.ot {
			if f.ot[i].ID == id {
				f.ot[i].Status = body["status"]
				f.ot[i].Remarks = body["remarks"]
				writeJSON(w, http.StatusOK, f.ot[i])
				return
			}
		}
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "not found"})
	case r.Method == http.MethodGet && r.URL.Path == "/auth/go-to-hrm":
		if f.handoffExpired {
			writeJSON(w, http.StatusOK, map[string]string{"error": "Session expired, login again."})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"redirectUrl": "https://hrm.example.com/sso?tenant=" + r.URL.Query().Get("tenantCode")})
	case r.Method == http.MethodGet && r.URL.Path == "/bonuses/my":
		writeJSON(w, http.StatusOK, []map[string]any{
			{"id": 5, "amount": "1500.00", "type": "SPOT", "status": "APPROVED", "reason": "launch weekend", "period": "2024-06"},
			{"id": 6, "amount": 250, "type": "FESTIVAL", "status": "PENDING", "reason": "diwali", "period": "2024-10"},
		})
	case r.Method == http.MethodGet:
		writeJSON(w, http.StatusOK, []any{})
	default:
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "not found"})
	}
}

func (f *fakeHR) login(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "bad body"})
		return
	}
	for _, u := range f.users {
		if u.Email == in.Email && u.Password == in.Password {
			writeJSON(w, http.StatusOK, map[string]any{
				"token":  "tok-" + strconv.Itoa(u.ID),
				"role":   u.Role,
				"userId": u.ID,
				"email":  u.Email,
			})
			return
		}
	}
	writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Invalid credentials"})
}

func (f *fakeHR) userForToken(token string) (fakeUser, bool) {
	for _, u := range f.users {
		if token == "tok-"+strconv.Itoa(u.ID) {
			return u, true
		}
	}
	return fakeUser{}, false
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
