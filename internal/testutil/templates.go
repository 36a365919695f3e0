package testutil

import (
	"sync"

	"github.com/dalemusser/clinicoutcomes/internal/app/resources"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

var (
	bootOnce sync.Once
	bootErr  error
)

// BootTemplatesOnce installs the shared layout and every registered page
// template into the package-level engine. The dashboard and error pages
// register their templates from init, so importing the feature under test
// is enough for its pages to render.
func BootTemplatesOnce() error {
	bootOnce.Do(func() {
		resources.LoadSharedTemplates()

		logger := zap.NewNop()
		eng := templates.New(false)
		if bootErr = eng.Boot(logger); bootErr != nil {
			return
		}
		templates.UseEngine(eng, logger)
	})
	return bootErr
}

// MustBootTemplates is BootTemplatesOnce for handler tests that render pages.
func MustBootTemplates(t interface{ Fatalf(string, ...any) }) {
	if err := BootTemplatesOnce(); err != nil {
		t.Fatalf("boot templates: %v", err)
	}
}
