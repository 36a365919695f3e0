// internal/app/system/viewdata/viewdata.go
package viewdata

import (
	"html/template"
	"net/http"
	"sync"

	"github.com/dalemusser/clinicoutcomes/internal/app/system/htmlsanitize"
	"github.com/dalemusser/clinicoutcomes/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/httpnav"
	"github.com/gorilla/csrf"
)

// BaseVM contains common fields for all view models.
// Embed this struct in your feature-specific view models.
//
// Usage:
//
//	type myPageData struct {
//	    viewdata.BaseVM
//	    // page-specific fields...
//	}
//
//	data := myPageData{BaseVM: viewdata.New(r)}
//	data.Title = "Page Title"
type BaseVM struct {
	// Site settings (from configuration)
	SiteName   string
	NoticeHTML template.HTML
	FooterHTML template.HTML

	// Page context
	Title       string
	CurrentPath string

	// Security
	CSRFToken string // CSRF token for forms (use in hidden input field)
}

var (
	mu       sync.RWMutex
	settings = models.SiteSettings{}.WithDefaults()
)

// Init sets the site settings used by every BaseVM.
// Call this once at startup from bootstrap.
func Init(s models.SiteSettings) {
	mu.Lock()
	defer mu.Unlock()
	settings = s.WithDefaults()
}

// Settings returns the current site settings.
func Settings() models.SiteSettings {
	mu.RLock()
	defer mu.RUnlock()
	return settings
}

// New creates a BaseVM for the request.
func New(r *http.Request) BaseVM {
	s := Settings()
	return BaseVM{
		SiteName:    s.SiteName,
		NoticeHTML:  htmlsanitize.PrepareForDisplay(s.NoticeHTML),
		FooterHTML:  htmlsanitize.PrepareForDisplay(s.FooterHTML),
		CurrentPath: httpnav.CurrentPath(r),
		CSRFToken:   csrf.Token(r),
	}
}
