package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	errorsfeature "github.com/dalemusser/clinicoutcomes/internal/app/features/errors"
	"github.com/dalemusser/clinicoutcomes/internal/app/system/apicors"
	"github.com/dalemusser/clinicoutcomes/internal/app/system/clinicstate"
	"github.com/dalemusser/clinicoutcomes/internal/app/system/flash"
	"github.com/dalemusser/clinicoutcomes/internal/app/system/metrics"
	"github.com/dalemusser/clinicoutcomes/internal/app/system/outcomes"
	"github.com/dalemusser/clinicoutcomes/internal/domain/models"
	"github.com/dalemusser/clinicoutcomes/internal/testutil"
	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T, provider outcomes.Provider) (*Handler, *clinicstate.Store) {
	t.Helper()
	if provider == nil {
		p, err := outcomes.NewFixtureProvider()
		if err != nil {
			t.Fatalf("NewFixtureProvider: %v", err)
		}
		provider = p
	}
	logger := zap.NewNop()
	st := clinicstate.New(models.DefaultRange, clinicstate.WithHistorySize(200))
	fl := flash.New("test-flash-key-0123456789abcdef0123", "", false, logger)
	h := NewHandler(provider, st, fl, metrics.New(), errorsfeature.NewErrorLogger(logger), logger)
	return h, st
}

// failingProvider simulates a records backend that is down.
type failingProvider struct{}

func (failingProvider) DataForRange(_ context.Context, days int) (models.ClinicData, error) {
	return models.ClinicData{}, &outcomes.RangeError{Range: days, Kind: outcomes.ErrDataUnavailable, Err: errors.New("connection refused")}
}

func TestLoadData_ThirtyDayFixture(t *testing.T) {
	h, st := newTestHandler(t, nil)

	vm, err := h.LoadData(context.Background(), models.Range30Days)
	if err != nil {
		t.Fatalf("LoadData: %v", err)
	}

	if vm.ShowingPatients != 1254 {
		t.Errorf("ShowingPatients = %d, want 1254", vm.ShowingPatients)
	}
	if vm.DateRangeText != "Mar 1 - Mar 30, 2024" {
		t.Errorf("DateRangeText = %q", vm.DateRangeText)
	}
	if vm.LastUpdated != "Mar 31, 2024 8:00 AM" {
		t.Errorf("LastUpdated = %q", vm.LastUpdated)
	}
	if vm.AverageGMI != 7.1 || vm.AverageGMIText != "7.1%" {
		t.Errorf("AverageGMI = %v (%q), want 7.1 (7.1%%)", vm.AverageGMI, vm.AverageGMIText)
	}

	if vm.TimeInRange == nil || len(vm.TimeInRange.Data.Datasets) != 5 {
		t.Fatalf("time in range chart should have 5 datasets, got %+v", vm.TimeInRange)
	}
	var colors, labels []string
	var values []float64
	for _, ds := range vm.TimeInRange.Data.Datasets {
		colors = append(colors, ds.BackgroundColor)
		labels = append(labels, ds.Label)
		values = append(values, ds.Data...)
	}
	if diff := cmp.Diff([]string{"#F44336", "#FF9800", "#4CAF50", "#2196F3", "#9C27B0"}, colors); diff != "" {
		t.Errorf("bar colors (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"40-54", "54-70", "70-180", "180-240", "240-400"}, labels); diff != "" {
		t.Errorf("bar labels (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]float64{2, 5, 68, 18, 7}, values); diff != "" {
		t.Errorf("bar values (-want +got):\n%s", diff)
	}

	if vm.GMI == nil || len(vm.GMI.Data.Datasets) != 1 {
		t.Fatalf("GMI chart should have 1 dataset, got %+v", vm.GMI)
	}
	pie := vm.GMI.Data.Datasets[0]
	if diff := cmp.Diff([]float64{12, 64, 24}, pie.Data); diff != "" {
		t.Errorf("pie values (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"#F4694D", "#5DBB5B", "#F8B76C"}, pie.BackgroundColor); diff != "" {
		t.Errorf("pie colors (-want +got):\n%s", diff)
	}

	if vm.TimeInRangeLegend[2].Tooltip != "70-180: 68%" {
		t.Errorf("legend tooltip = %q, want %q", vm.TimeInRangeLegend[2].Tooltip, "70-180: 68%")
	}

	s := st.State()
	if s.SelectedRange != 30 || s.Status() != clinicstate.StatusLoaded || s.AverageGMI != 7.1 {
		t.Errorf("state = %+v", s)
	}
	if s.TimeInRangeChartData != vm.TimeInRange.Data {
		t.Error("view model should draw from the chart data held in state")
	}

	var types []string
	for _, e := range st.History() {
		types = append(types, e.Type)
	}
	want := []string{clinicstate.TypeUpdateSelectedRange, clinicstate.TypeLoadClinicOutcomesSuccess}
	if diff := cmp.Diff(want, types); diff != "" {
		t.Errorf("action order (-want +got):\n%s", diff)
	}
}

func TestLoadData_UnsupportedRangeKeepsLastGoodData(t *testing.T) {
	h, st := newTestHandler(t, nil)

	if _, err := h.LoadData(context.Background(), 30); err != nil {
		t.Fatalf("LoadData(30): %v", err)
	}
	before := st.State()

	vm, err := h.LoadData(context.Background(), 45)
	if !errors.Is(err, outcomes.ErrRangeNotSupported) {
		t.Fatalf("LoadData(45) err = %v, want ErrRangeNotSupported", err)
	}

	if vm.SelectedRange != 45 {
		t.Errorf("SelectedRange = %d, want 45", vm.SelectedRange)
	}
	if vm.ShowingPatients != 1254 || !vm.Loaded {
		t.Errorf("last good data should stay visible, got patients=%d loaded=%v", vm.ShowingPatients, vm.Loaded)
	}
	if vm.Error == "" || vm.ErrorKind != "range_not_supported" {
		t.Errorf("Error = %q kind = %q", vm.Error, vm.ErrorKind)
	}
	if len(vm.Ranges) != 5 {
		t.Fatalf("ranges = %+v, want placeholder plus 4 supported", vm.Ranges)
	}
	if p := vm.Ranges[0]; p.Days != 45 || !p.Selected || !p.Disabled {
		t.Errorf("placeholder = %+v, want selected disabled 45", p)
	}
	for _, opt := range vm.Ranges[1:] {
		if opt.Selected || opt.Disabled {
			t.Errorf("supported range %d should be selectable and unselected", opt.Days)
		}
	}

	after := st.State()
	if after.Data != before.Data {
		t.Error("data pointer should be unchanged by a failed load")
	}
	if after.LoadError == nil || after.LoadError.Range != 45 {
		t.Errorf("LoadError = %+v", after.LoadError)
	}
}

func TestLoadData_UnsupportedRangeBeforeAnyData(t *testing.T) {
	h, st := newTestHandler(t, nil)

	vm, err := h.LoadData(context.Background(), 3)
	if err == nil {
		t.Fatal("expected an error for a 3-day range")
	}
	if vm.Loaded || vm.TimeInRange != nil || vm.GMI != nil {
		t.Errorf("nothing should be loaded: %+v", vm)
	}
	if st.State().Status() != clinicstate.StatusUninitialized {
		t.Error("status should remain uninitialized")
	}
}

func TestRefresh_SkipsRejectedRange(t *testing.T) {
	h, st := newTestHandler(t, nil)

	if err := h.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if st.State().Status() != clinicstate.StatusLoaded {
		t.Fatal("Refresh should load the selected range")
	}

	_, _ = h.LoadData(context.Background(), 45)
	v := st.State().Version
	if err := h.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if st.State().Version != v {
		t.Error("Refresh should not retry a rejected range")
	}
}

func TestLoadData_ConcurrentLoadsStayPaired(t *testing.T) {
	h, st := newTestHandler(t, nil)
	fixtures, err := outcomes.Fixtures()
	if err != nil {
		t.Fatalf("Fixtures: %v", err)
	}

	ranges := models.SupportedRanges()
	var wg sync.WaitGroup
	for i := 0; i < 40; i++ {
		wg.Add(1)
		go func(days int) {
			defer wg.Done()
			_, _ = h.LoadData(context.Background(), days)
		}(ranges[i%len(ranges)])
	}
	wg.Wait()

	hist := st.History()
	if len(hist) != 80 {
		t.Fatalf("history length = %d, want 80", len(hist))
	}
	for i := 0; i < len(hist); i += 2 {
		upd, ok := hist[i].Action.(clinicstate.UpdateSelectedRange)
		if !ok {
			t.Fatalf("entry %d = %s, want update_selected_range", i, hist[i].Type)
		}
		succ, ok := hist[i+1].Action.(clinicstate.LoadClinicOutcomesSuccess)
		if !ok {
			t.Fatalf("entry %d = %s, want load success", i+1, hist[i+1].Type)
		}
		if diff := cmp.Diff(fixtures[upd.Range], succ.Data); diff != "" {
			t.Fatalf("entries %d/%d pair range %d with other data (-want +got):\n%s", i, i+1, upd.Range, diff)
		}
	}

	final := st.State()
	if diff := cmp.Diff(fixtures[final.SelectedRange], *final.Data); diff != "" {
		t.Errorf("final data does not match final range (-want +got):\n%s", diff)
	}
}

/*─────────────────────────────────────────────────────────────────────────────*
| HTML pages                                                                  |
*─────────────────────────────────────────────────────────────────────────────*/

func serve(h *Handler, req *http.Request) *testutil.ResponseRecorder {
	rec := testutil.NewRecorder()
	Routes(h).ServeHTTP(rec, testutil.WithCSRFToken(req))
	return rec
}

func TestServeDashboard_FirstVisitLoadsDefaultRange(t *testing.T) {
	testutil.MustBootTemplates(t)
	h, st := newTestHandler(t, nil)

	rec := serve(h, httptest.NewRequest(http.MethodGet, "/", nil))

	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, "1254")
	rec.AssertContains(t, "Mar 1 - Mar 30, 2024")
	rec.AssertContains(t, "Last updated Mar 31, 2024 8:00 AM")
	rec.AssertContains(t, "7.1%")
	rec.AssertContains(t, `id="time-in-range-config"`)
	rec.AssertContains(t, "#4CAF50")
	rec.AssertContains(t, "data-print")

	if st.State().Status() != clinicstate.StatusLoaded {
		t.Error("first visit should load data")
	}

	// A second visit renders from state without another load.
	v := st.State().Version
	serve(h, httptest.NewRequest(http.MethodGet, "/", nil))
	if st.State().Version != v {
		t.Error("second visit should not dispatch")
	}
}

func TestServeDashboard_RangeQueryDoesNotChangeState(t *testing.T) {
	h, st := newTestHandler(t, nil)

	for _, q := range []string{"7", "45", "soon"} {
		req := httptest.NewRequest(http.MethodGet, "/?range="+q, nil)
		req.Header.Set("Origin", "https://elsewhere.example")

		rec := serve(h, req)
		rec.AssertRedirect(t, "/#range")
	}
	if got := st.State(); got.SelectedRange != models.DefaultRange || got.Version != 0 {
		t.Errorf("state = range %d version %d, want default range and no dispatch", got.SelectedRange, got.Version)
	}
}

func TestServeDashboard_UnsupportedRangeShowsNotice(t *testing.T) {
	testutil.MustBootTemplates(t)
	h, _ := newTestHandler(t, nil)

	serve(h, httptest.NewRequest(http.MethodGet, "/", nil))
	serve(h, testutil.NewFormRequest("/range", url.Values{"range": {"45"}}))
	rec := serve(h, httptest.NewRequest(http.MethodGet, "/", nil))

	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, "45-day view is not available")
	rec.AssertContains(t, "1254")
	rec.AssertContains(t, `<option value="45" selected disabled>Last 45 days (unavailable)</option>`)
	rec.AssertContains(t, `<option value="7">Last 7 days</option>`)
}

func TestServeDashboard_BackendDown(t *testing.T) {
	testutil.MustBootTemplates(t)
	h, _ := newTestHandler(t, failingProvider{})

	rec := serve(h, httptest.NewRequest(http.MethodGet, "/", nil))

	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, "could not be loaded")
	rec.AssertContains(t, "No outcome data has loaded yet.")
}

func TestHandleRangeChange_PostRedirectGet(t *testing.T) {
	testutil.MustBootTemplates(t)
	h, st := newTestHandler(t, nil)

	rec := serve(h, testutil.NewFormRequest("/range", url.Values{"range": {"14"}}))
	rec.AssertRedirect(t, "/")
	if st.State().SelectedRange != 14 {
		t.Fatalf("SelectedRange = %d, want 14", st.State().SelectedRange)
	}

	get := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Cookies() {
		get.AddCookie(c)
	}
	page := serve(h, get)
	page.AssertStatus(t, http.StatusOK)
	page.AssertContains(t, "Showing outcomes for the last 14 days.")
	page.AssertContains(t, "1219")
}

func TestHandleRangeChange_InvalidInput(t *testing.T) {
	testutil.MustBootTemplates(t)
	h, st := newTestHandler(t, nil)

	rec := serve(h, testutil.NewFormRequest("/range", url.Values{"range": {"-3"}}))
	rec.AssertRedirect(t, "/")
	if st.State().Version != 0 {
		t.Error("invalid input should not dispatch")
	}

	get := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Cookies() {
		get.AddCookie(c)
	}
	serve(h, get).AssertContains(t, chooseRangeMessage)
}

func TestServePrint(t *testing.T) {
	testutil.MustBootTemplates(t)
	h, _ := newTestHandler(t, nil)

	rec := serve(h, httptest.NewRequest(http.MethodGet, "/print", nil))

	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, `data-autoprint="true"`)
	rec.AssertContains(t, "1254")
	rec.AssertContains(t, "40-54: 2%")
}

/*─────────────────────────────────────────────────────────────────────────────*
| JSON API                                                                    |
*─────────────────────────────────────────────────────────────────────────────*/

func serveAPI(h *Handler, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	APIRoutes(h).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func decodeSnapshot(t *testing.T, rec *httptest.ResponseRecorder) Snapshot {
	t.Helper()
	var snap Snapshot
	if err := json.NewDecoder(rec.Body).Decode(&snap); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	return snap
}

func TestServeSnapshot_ReadOnlyBeforeLoad(t *testing.T) {
	h, st := newTestHandler(t, nil)

	rec := serveAPI(h, "/")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	snap := decodeSnapshot(t, rec)
	if snap.Status != clinicstate.StatusUninitialized || snap.Data != nil || snap.TimeInRange != nil {
		t.Errorf("snapshot = %+v", snap)
	}
	if snap.RequestID == "" {
		t.Error("snapshot should carry a request id")
	}
	if st.State().Version != 0 {
		t.Error("plain snapshot read should not dispatch")
	}
}

func TestServeSnapshot_AfterLoad(t *testing.T) {
	h, _ := newTestHandler(t, nil)
	if _, err := h.LoadData(context.Background(), 30); err != nil {
		t.Fatalf("LoadData: %v", err)
	}

	rec := serveAPI(h, "/")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}

	var raw map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &raw); err != nil {
		t.Fatalf("decode: %v", err)
	}
	data := raw["data"].(map[string]any)
	if data["patients"] != float64(1254) || data["range70_180"] != float64(68) {
		t.Errorf("data = %v", data)
	}
	tir := raw["timeInRangeChart"].(map[string]any)
	if tir["format"].(map[string]any)["suffix"] != "%" {
		t.Errorf("format = %v", tir["format"])
	}
	datasets := tir["data"].(map[string]any)["datasets"].([]any)
	if len(datasets) != 5 || datasets[0].(map[string]any)["stack"] != "1" {
		t.Errorf("datasets = %v", datasets)
	}
}

func TestServeSnapshot_AfterRejectedRange(t *testing.T) {
	h, _ := newTestHandler(t, nil)
	_, _ = h.LoadData(context.Background(), 30)
	_, _ = h.LoadData(context.Background(), 45)

	snap := decodeSnapshot(t, serveAPI(h, "/"))
	if snap.SelectedRange != 45 || snap.Data == nil || snap.Data.Patients != 1254 {
		t.Errorf("snapshot = %+v", snap)
	}
	if snap.LoadError == nil || snap.LoadError.Range != 45 || snap.LoadError.Kind != "range_not_supported" {
		t.Errorf("loadError = %+v", snap.LoadError)
	}

	down, _ := newTestHandler(t, failingProvider{})
	_, _ = down.LoadData(context.Background(), 30)
	snap = decodeSnapshot(t, serveAPI(down, "/"))
	if snap.LoadError == nil || snap.LoadError.Kind != "data_unavailable" {
		t.Errorf("loadError = %+v, want data_unavailable", snap.LoadError)
	}
}

func TestServeSnapshot_CrossOriginRangeQueryIsReadOnly(t *testing.T) {
	h, st := newTestHandler(t, nil)
	if _, err := h.LoadData(context.Background(), 30); err != nil {
		t.Fatalf("LoadData: %v", err)
	}
	before := st.State()
	api := apicors.Middleware()(APIRoutes(h))

	for _, q := range []string{"7", "45", "2999", "thirty"} {
		req := httptest.NewRequest(http.MethodGet, "/?range="+q, nil)
		req.Header.Set("Origin", "https://elsewhere.example")
		rec := httptest.NewRecorder()
		api.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("range=%s status = %d, want 400", q, rec.Code)
		}
		var body struct {
			Kind    string   `json:"kind"`
			Details Snapshot `json:"details"`
		}
		if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if body.Kind != "read_only" || body.Details.SelectedRange != 30 {
			t.Errorf("range=%s body = kind %q range %d", q, body.Kind, body.Details.SelectedRange)
		}
	}

	after := st.State()
	if after.SelectedRange != 30 || after.Version != before.Version {
		t.Errorf("state changed: range %d version %d -> %d", after.SelectedRange, before.Version, after.Version)
	}
	if n := len(st.History()); n != 2 {
		t.Errorf("history length = %d, want 2", n)
	}
}

func TestServeHistory(t *testing.T) {
	h, _ := newTestHandler(t, nil)
	for _, d := range []int{7, 14} {
		if _, err := h.LoadData(context.Background(), d); err != nil {
			t.Fatalf("LoadData(%d): %v", d, err)
		}
	}

	rec := serveAPI(h, "/history")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body struct {
		Count   int `json:"count"`
		Entries []struct {
			Type    string          `json:"type"`
			Version uint64          `json:"version"`
			Payload json.RawMessage `json:"payload"`
		} `json:"entries"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Count != 4 || len(body.Entries) != 4 {
		t.Fatalf("count = %d, entries = %d, want 4", body.Count, len(body.Entries))
	}
	for i, e := range body.Entries {
		if e.Version != uint64(i+1) {
			t.Errorf("entry %d version = %d", i, e.Version)
		}
	}
	if got := string(body.Entries[2].Payload); got != `{"range":14}` {
		t.Errorf("payload = %s", got)
	}
}

func TestParseRange(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"30", 30, false},
		{" 7 ", 7, false},
		{"", 0, true},
		{"0", 0, true},
		{"-14", 0, true},
		{"abc", 0, true},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%q", tt.in), func(t *testing.T) {
			got, err := parseRange(tt.in)
			if (err != nil) != tt.wantErr || got != tt.want {
				t.Errorf("parseRange(%q) = (%d, %v)", tt.in, got, err)
			}
		})
	}
}
