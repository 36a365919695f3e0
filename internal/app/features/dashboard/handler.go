// internal/app/features/dashboard/handler.go
package dashboard

import (
	"sync"
	"time"

	errorsfeature "github.com/dalemusser/clinicoutcomes/internal/app/features/errors"
	"github.com/dalemusser/clinicoutcomes/internal/app/system/clinicstate"
	"github.com/dalemusser/clinicoutcomes/internal/app/system/flash"
	"github.com/dalemusser/clinicoutcomes/internal/app/system/metrics"
	"github.com/dalemusser/clinicoutcomes/internal/app/system/outcomes"
	"go.uber.org/zap"
)

// Handler provides the clinic outcomes dashboard handlers.
type Handler struct {
	provider outcomes.Provider
	state    *clinicstate.Store
	flash    *flash.Store
	metrics  *metrics.Recorder
	errLog   *errorsfeature.ErrorLogger
	logger   *zap.Logger

	// loadMu keeps the range update and its data update adjacent in the
	// action log when loads overlap.
	loadMu sync.Mutex
	now    func() time.Time
}

// NewHandler creates a new dashboard Handler. flashStore and m may be nil.
func NewHandler(
	provider outcomes.Provider,
	state *clinicstate.Store,
	flashStore *flash.Store,
	m *metrics.Recorder,
	errLog *errorsfeature.ErrorLogger,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		provider: provider,
		state:    state,
		flash:    flashStore,
		metrics:  m,
		errLog:   errLog,
		logger:   logger,
		now:      time.Now,
	}
}
