package viewdata

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dalemusser/clinicoutcomes/internal/domain/models"
)

func TestNew_Defaults(t *testing.T) {
	Init(models.SiteSettings{})
	t.Cleanup(func() { Init(models.SiteSettings{}) })

	vm := New(httptest.NewRequest("GET", "/print?range=30", nil))

	if vm.SiteName != models.DefaultSiteName {
		t.Errorf("SiteName = %q, want %q", vm.SiteName, models.DefaultSiteName)
	}
	if vm.NoticeHTML != "" {
		t.Errorf("NoticeHTML = %q, want empty", vm.NoticeHTML)
	}
	if !strings.Contains(string(vm.FooterHTML), "aggregated across all enrolled patients") {
		t.Errorf("FooterHTML = %q", vm.FooterHTML)
	}
	if vm.CurrentPath != "/print" {
		t.Errorf("CurrentPath = %q, want /print", vm.CurrentPath)
	}
}

func TestNew_SanitizesNotice(t *testing.T) {
	Init(models.SiteSettings{
		SiteName:   "Eastside Diabetes Clinic",
		NoticeHTML: `<strong>Data refresh</strong> tonight<script>alert(1)</script>`,
	})
	t.Cleanup(func() { Init(models.SiteSettings{}) })

	vm := New(httptest.NewRequest("GET", "/", nil))

	if vm.SiteName != "Eastside Diabetes Clinic" {
		t.Errorf("SiteName = %q", vm.SiteName)
	}
	notice := string(vm.NoticeHTML)
	if !strings.Contains(notice, "<strong>Data refresh</strong>") {
		t.Errorf("notice lost its formatting: %q", notice)
	}
	if strings.Contains(notice, "<script>") {
		t.Errorf("notice kept a script tag: %q", notice)
	}
}

func TestSettings_ReturnsInitialized(t *testing.T) {
	Init(models.SiteSettings{SiteName: "North Clinic", FooterHTML: "Plain footer"})
	t.Cleanup(func() { Init(models.SiteSettings{}) })

	s := Settings()
	if s.SiteName != "North Clinic" || s.FooterHTML != "Plain footer" {
		t.Errorf("Settings() = %+v", s)
	}
}
