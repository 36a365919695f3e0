package models

import "testing"

func TestClinicData_Validate(t *testing.T) {
	ok := ClinicData{
		Patients:     10,
		Range40_54:   2,
		Range54_70:   5,
		Range70_180:  68,
		Range180_240: 18,
		Range240_400: 7,
		GMIBelow:     12,
		GMIInRange:   64,
		GMIAbove:     24,
	}
	if err := ok.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}

	rounded := ok
	rounded.Range70_180 = 68.3
	if err := rounded.Validate(); err != nil {
		t.Errorf("Validate() within tolerance error = %v", err)
	}

	badTIR := ok
	badTIR.Range70_180 = 60
	if err := badTIR.Validate(); err == nil {
		t.Error("Validate() accepted time in range sum of 92")
	}

	badGMI := ok
	badGMI.GMIAbove = 30
	if err := badGMI.Validate(); err == nil {
		t.Error("Validate() accepted GMI sum of 106")
	}

	negative := ok
	negative.Patients = -1
	if err := negative.Validate(); err == nil {
		t.Error("Validate() accepted negative patients")
	}
}

func TestIsSupportedRange(t *testing.T) {
	for _, r := range []int{7, 14, 30, 90} {
		if !IsSupportedRange(r) {
			t.Errorf("IsSupportedRange(%d) = false", r)
		}
	}
	for _, r := range []int{0, 1, 31, 365, -30} {
		if IsSupportedRange(r) {
			t.Errorf("IsSupportedRange(%d) = true", r)
		}
	}
	if !IsSupportedRange(DefaultRange) {
		t.Error("DefaultRange must be supported")
	}
}

func TestSiteSettings_WithDefaults(t *testing.T) {
	s := SiteSettings{}.WithDefaults()
	if s.SiteName != DefaultSiteName {
		t.Errorf("SiteName = %q", s.SiteName)
	}
	if s.FooterHTML != DefaultFooterHTML {
		t.Errorf("FooterHTML = %q", s.FooterHTML)
	}

	custom := SiteSettings{SiteName: "North Clinic"}.WithDefaults()
	if custom.SiteName != "North Clinic" {
		t.Errorf("SiteName = %q, want North Clinic", custom.SiteName)
	}
}
