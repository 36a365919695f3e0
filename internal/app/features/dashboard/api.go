// internal/app/features/dashboard/api.go
package dashboard

import (
	"net/http"

	"github.com/dalemusser/clinicoutcomes/internal/app/system/clinicstate"
	"github.com/dalemusser/clinicoutcomes/internal/app/system/jsonutil"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

// ServeSnapshot returns the current state as JSON. The API is read-only:
// a ?range=N query is refused with 400 and the unchanged snapshot as details.
// Range changes go through the CSRF-protected POST /range form.
func (h *Handler) ServeSnapshot(w http.ResponseWriter, r *http.Request) {
	st := clinicstate.Select(h.state, clinicstate.SelectState)
	if r.URL.Query().Has("range") {
		jsonutil.ErrorWithDetails(w, http.StatusBadRequest, "read_only",
			"the outcomes API is read-only; change the range with POST /range", h.snapshot(r, st))
		return
	}
	jsonutil.OK(w, h.snapshot(r, st))
}

// ServeHistory returns the recent state actions, oldest first.
func (h *Handler) ServeHistory(w http.ResponseWriter, r *http.Request) {
	entries := h.state.History()
	jsonutil.OK(w, HistoryResponse{Count: len(entries), Entries: entries})
}

func (h *Handler) snapshot(r *http.Request, st clinicstate.State) Snapshot {
	vm := newViewModel(st)
	return Snapshot{
		RequestID:     requestID(r),
		SelectedRange: st.SelectedRange,
		Status:        st.Status(),
		Data:          st.Data,
		TimeInRange:   vm.TimeInRange,
		GMI:           vm.GMI,
		AverageGMI:    st.AverageGMI,
		LoadError:     st.LoadError,
		Version:       st.Version,
	}
}

// requestID returns the chi request id, or a fresh one when the RequestID
// middleware is not installed.
func requestID(r *http.Request) string {
	if id := chimw.GetReqID(r.Context()); id != "" {
		return id
	}
	return uuid.NewString()
}
