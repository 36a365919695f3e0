// internal/app/features/dashboard/pages.go
package dashboard

import (
	"fmt"
	"net/http"

	"github.com/dalemusser/clinicoutcomes/internal/app/system/flash"
	"github.com/dalemusser/clinicoutcomes/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

const chooseRangeMessage = "Choose 7, 14, 30, or 90 days."

// ServeDashboard renders the dashboard for the selected range, loading it
// on first visit. GET never changes the range: a ?range=N query redirects
// back to the page, where the selector form posts to /range.
func (h *Handler) ServeDashboard(w http.ResponseWriter, r *http.Request) {
	if raw := r.URL.Query().Get("range"); raw != "" {
		h.logger.Debug("range query redirected to the selector", zap.String("range", raw))
		http.Redirect(w, r, "/#range", http.StatusSeeOther)
		return
	}

	vm, _ := h.EnsureLoaded(r.Context())
	h.render(w, r, "dashboard/index", "Clinic Outcomes", vm, false)
}

// HandleRangeChange processes the range selector form (Post/Redirect/Get).
func (h *Handler) HandleRangeChange(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.errLog.Log(r, "failed to parse range form", err)
		h.addFlash(w, r, flash.LevelError, chooseRangeMessage)
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	days, err := parseRange(r.PostFormValue("range"))
	if err != nil {
		h.addFlash(w, r, flash.LevelError, chooseRangeMessage)
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	if _, err := h.LoadData(r.Context(), days); err == nil {
		h.addFlash(w, r, flash.LevelInfo, fmt.Sprintf("Showing outcomes for the last %d days.", days))
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// ServePrint renders the printable report for the selected range. The page
// opens the browser print dialog once its charts have drawn.
func (h *Handler) ServePrint(w http.ResponseWriter, r *http.Request) {
	vm, _ := h.EnsureLoaded(r.Context())
	h.render(w, r, "dashboard/print", "Clinic Outcomes Report", vm, true)
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, name, title string, vm ViewModel, autoPrint bool) {
	page := pageVM{
		BaseVM:    viewdata.New(r),
		ViewModel: vm,
		AutoPrint: autoPrint,
	}
	page.Title = title
	if h.flash != nil {
		page.Flash = h.flash.Pop(w, r)
	}

	templates.Render(w, r, name, page)
}

func (h *Handler) addFlash(w http.ResponseWriter, r *http.Request, level, text string) {
	if h.flash == nil {
		return
	}
	h.flash.Add(w, r, level, text)
}
