// internal/app/features/errors/errors.go
package errors

import (
	"net/http"

	"github.com/dalemusser/clinicoutcomes/internal/app/system/network"
	"github.com/dalemusser/clinicoutcomes/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

// ErrorLogger wraps the zap logger for error logging.
type ErrorLogger struct {
	logger *zap.Logger
}

// NewErrorLogger creates a new ErrorLogger.
func NewErrorLogger(logger *zap.Logger) *ErrorLogger {
	return &ErrorLogger{logger: logger}
}

// Log logs an error with the given message and error.
func (e *ErrorLogger) Log(r *http.Request, msg string, err error) {
	e.logger.Error(msg,
		zap.Error(err),
		zap.String("path", r.URL.Path),
		zap.String("method", r.Method),
		zap.String("client_ip", network.ClientIP(r)),
	)
}

// LogWithFields logs an error with additional fields.
func (e *ErrorLogger) LogWithFields(r *http.Request, msg string, err error, fields ...zap.Field) {
	allFields := append([]zap.Field{
		zap.Error(err),
		zap.String("path", r.URL.Path),
		zap.String("method", r.Method),
		zap.String("client_ip", network.ClientIP(r)),
	}, fields...)
	e.logger.Error(msg, allFields...)
}

// ErrorVM is the view model for error pages.
type ErrorVM struct {
	viewdata.BaseVM
	Status  int
	Message string
}

// Handler provides error page handlers.
type Handler struct{}

// NewHandler creates a new error Handler.
func NewHandler() *Handler {
	return &Handler{}
}

// NotFound renders the 404 not found page.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	vm := ErrorVM{BaseVM: viewdata.New(r), Status: http.StatusNotFound}
	vm.Title = "Not Found"
	vm.Message = "The page you requested does not exist."

	w.WriteHeader(http.StatusNotFound)
	templates.Render(w, r, "errors/not_found", vm)
}

// MethodNotAllowed renders the 405 page.
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	vm := ErrorVM{BaseVM: viewdata.New(r), Status: http.StatusMethodNotAllowed}
	vm.Title = "Method Not Allowed"
	vm.Message = "That action is not available on this page."

	w.WriteHeader(http.StatusMethodNotAllowed)
	templates.Render(w, r, "errors/not_found", vm)
}

// InternalError renders the 500 internal server error page.
func (h *Handler) InternalError(w http.ResponseWriter, r *http.Request) {
	vm := ErrorVM{BaseVM: viewdata.New(r), Status: http.StatusInternalServerError}
	vm.Title = "Server Error"
	vm.Message = "Something went wrong while building the dashboard. Please try again."

	w.WriteHeader(http.StatusInternalServerError)
	templates.Render(w, r, "errors/internal", vm)
}
