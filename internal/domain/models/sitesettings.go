// internal/domain/models/sitesettings.go
package models

// Default display settings used when configuration leaves them blank.
const (
	DefaultSiteName   = "Clinic Outcomes"
	DefaultFooterHTML = `<p>Figures are aggregated across all enrolled patients for the selected range.</p>`
)

// SiteSettings holds site-wide display settings. They are loaded from
// configuration at startup and do not change while the process runs.
type SiteSettings struct {
	SiteName string

	// NoticeHTML is an optional banner shown above the dashboard
	// (maintenance windows, data caveats). Sanitized before display.
	NoticeHTML string

	FooterHTML string
}

// WithDefaults returns s with blank fields filled from the package defaults.
func (s SiteSettings) WithDefaults() SiteSettings {
	if s.SiteName == "" {
		s.SiteName = DefaultSiteName
	}
	if s.FooterHTML == "" {
		s.FooterHTML = DefaultFooterHTML
	}
	return s
}
