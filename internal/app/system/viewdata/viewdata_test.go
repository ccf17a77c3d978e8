package viewdata_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/asceticjourney/journey/internal/app/system/auth"
	"github.com/asceticjourney/journey/internal/app/system/consent"
	"github.com/asceticjourney/journey/internal/app/system/viewdata"
	"go.uber.org/zap"
)

func TestNewBaseVM_Anonymous(t *testing.T) {
	viewdata.Init(nil)

	r := httptest.NewRequest("GET", "/privacy", nil)
	r.AddCookie(&http.Cookie{Name: "theme", Value: "monastic"})

	vm := viewdata.NewBaseVM(r, "Privacy Policy")

	if vm.IsLoggedIn || vm.UserEmail != "" {
		t.Errorf("expected anonymous VM, got %+v", vm)
	}
	if vm.Title != "Privacy Policy" || vm.SiteName != viewdata.SiteName {
		t.Errorf("title/site: %+v", vm)
	}
	if vm.Theme != "monastic" {
		t.Errorf("Theme = %q", vm.Theme)
	}
	if vm.ShowConsent {
		t.Error("no consent manager configured, banner should be off")
	}
}

func TestNewBaseVM_SignedInWithConsentPending(t *testing.T) {
	m, err := consent.NewManager("consent-key-that-is-at-least-32-bytes!", false, zap.NewNop())
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	viewdata.Init(m)
	t.Cleanup(func() { viewdata.Init(nil) })

	r := httptest.NewRequest("GET", "/dashboard", nil)
	r = auth.WithTestUser(r, &auth.SessionUser{ID: "u1", Email: "seeker@example.com"})

	vm := viewdata.NewBaseVM(r, "Dashboard")
	if !vm.IsLoggedIn || vm.UserEmail != "seeker@example.com" {
		t.Errorf("expected signed-in VM, got %+v", vm)
	}
	if !vm.ShowConsent {
		t.Error("banner should show without a consent cookie")
	}
	if vm.Theme != "light" {
		t.Errorf("Theme = %q, want light default", vm.Theme)
	}

	rec := httptest.NewRecorder()
	if _, err := m.Accept(rec, time.Now()); err != nil {
		t.Fatalf("Accept: %v", err)
	}
	r2 := httptest.NewRequest("GET", "/dashboard", nil)
	for _, c := range rec.Result().Cookies() {
		r2.AddCookie(c)
	}
	if viewdata.NewBaseVM(r2, "Dashboard").ShowConsent {
		t.Error("banner should hide after consent")
	}
}
