package handlers_test

import (
	"net/http"
	"strings"
	"testing"
)

func TestHRMDashboardFramesHandoffOrigin(t *testing.T) {
	_, hr := newFakeHR(t)
	p := startPortal(t, hr.URL)
	p.login("employee@dotspeaks.com", "employee123")

	resp, body := p.get("/hrm")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if csp := resp.Header.Get("Content-Security-Policy"); !strings.Contains(csp, "frame-src https://hrm.example.com") {
		t.Fatalf("expected frame-src for the hrm origin, got %q", csp)
	}
	if !strings.Contains(body, `<iframe class="hrm-frame" src="https://hrm.example.com/sso?tenant=`) {
		t.Fatal("expected the dashboard iframe")
	}
}

func TestHRMHandoffSessionExpiredSignsOut(t *testing.T) {
	fake, hr := newFakeHR(t)
	p := startPortal(t, hr.URL)
	p.login("employee@dotspeaks.com", "employee123")
	fake.expireHandoff()

	resp, _ := p.get("/hrm")
	if resp.Request.URL.Path != "/login" || resp.Request.URL.Query().Get("expired") != "1" {
		t.Fatalf("expected expired login redirect, got %s", resp.Request.URL)
	}
	if p.hasSessionCookie() {
		t.Fatal("expected session cookie cleared")
	}
}

func TestOtherPagesKeepFramesBlocked(t *testing.T) {
	_, hr := newFakeHR(t)
	p := startPortal(t, hr.URL)
	p.login("employee@dotspeaks.com", "employee123")

	resp, body := p.get("/bonuses")
	if csp := resp.Header.Get("Content-Security-Policy"); !strings.Contains(csp, "frame-src 'none'") {
		t.Fatalf("expected frames blocked, got %q", csp)
	}
	if !strings.Contains(body, "launch weekend") {
		t.Fatal("expected own bonuses listed")
	}
	if strings.Contains(body, "/bonuses/assign") {
		t.Fatal("expected no assign form for an employee")
	}
}

func TestBonusStatementPDF(t *testing.T) {
	_, hr := newFakeHR(t)
	p := startPortal(t, hr.URL)
	p.login("employee@dotspeaks.com", "employee123")

	resp, body := p.get("/bonuses/statement.pdf")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/pdf" {
		t.Fatalf("unexpected content type %q", ct)
	}
	if !strings.HasPrefix(body, "%PDF") {
		t.Fatal("expected a pdf document")
	}
}
