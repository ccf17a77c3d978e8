// internal/app/system/viewdata/viewdata.go
package viewdata

import (
	"net/http"

	"github.com/asceticjourney/journey/internal/app/system/auth"
	"github.com/asceticjourney/journey/internal/app/system/consent"
	"github.com/asceticjourney/journey/internal/app/system/themes"
	"github.com/dalemusser/waffle/pantry/httpnav"
)

// SiteName is shown in the header, page titles and email.
const SiteName = "Ascetic Journey"

// BaseVM contains common fields for all view models.
// Embed this struct in your feature-specific view models.
//
//	type myPageData struct {
//	    viewdata.BaseVM
//	    // page-specific fields...
//	}
//
//	data := myPageData{BaseVM: viewdata.NewBaseVM(r, "Page Title")}
type BaseVM struct {
	SiteName string

	// User context (from auth middleware)
	IsLoggedIn bool
	UserEmail  string

	// Page context
	Title       string
	CurrentPath string
	Theme       string

	// Cookie-consent banner
	ShowConsent bool
}

// consentMgr is set by Init and decides whether the banner is shown.
var consentMgr *consent.Manager

// Init sets the consent manager. Call this once at startup from bootstrap.
func Init(m *consent.Manager) {
	consentMgr = m
}

// NewBaseVM creates a fully populated BaseVM for a page.
func NewBaseVM(r *http.Request, title string) BaseVM {
	vm := BaseVM{
		SiteName:    SiteName,
		Title:       title,
		CurrentPath: httpnav.CurrentPath(r),
		Theme:       string(themes.FromRequest(r)),
		ShowConsent: consentMgr.ShowBanner(r),
	}
	if u, ok := auth.CurrentUser(r); ok {
		vm.IsLoggedIn = true
		vm.UserEmail = u.Email
	}
	return vm
}
