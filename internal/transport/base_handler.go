package transport

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	appErrors "github.com/idlidosa1206/Fusion-System-Administrator/internal"
	"github.com/idlidosa1206/Fusion-System-Administrator/pkg/logger"
)

// BaseHandler provides common functionality for HTTP handlers
type BaseHandler struct {
	Logger *slog.Logger
}

// NewBaseHandler creates a base handler with logger
func NewBaseHandler(lg *slog.Logger) *BaseHandler {
	if lg == nil {
		lg = logger.LoggerWrapper()
	}
	return &BaseHandler{Logger: lg}
}

// WriteJSON writes a JSON response
func (h *BaseHandler) WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.Logger.Error("failed to encode JSON response", "error", err)
	}
}

// WriteError writes {"error": message}.
func (h *BaseHandler) WriteError(w http.ResponseWriter, status int, message string) {
	h.WriteJSON(w, status, appErrors.Response{Error: message})
}

// HandleServiceError maps service errors onto the error body. Anything that is not
// an AppError is logged and reported as a generic 500.
func (h *BaseHandler) HandleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	appErr, ok := appErrors.IsAppError(err)
	if !ok {
		h.Logger.ErrorContext(r.Context(), "unhandled service error",
			"error", err, "path", r.URL.Path, "request_id", logger.RequestID(r.Context()))
		h.WriteJSON(w, http.StatusInternalServerError, appErrors.Response{
			Error: appErrors.GenericInternalMessage,
			Code:  appErrors.ErrCodeInternal,
		})
		return
	}

	status, body := appErr.ToHTTPResponse()
	if status >= http.StatusInternalServerError {
		h.Logger.ErrorContext(r.Context(), "internal error",
			"error", appErr.Error(), "path", r.URL.Path, "request_id", logger.RequestID(r.Context()))
	} else {
		h.Logger.DebugContext(r.Context(), "request rejected", "status", status, "code", appErr.Code, "path", r.URL.Path)
	}
	h.WriteJSON(w, status, body)
}

// DecodeJSON reads a JSON body into dst. An empty body is reported as missing.
func (h *BaseHandler) DecodeJSON(r *http.Request, dst interface{}) error {
	if r.Body == nil {
		return appErrors.NewValidationError("request body is required", appErrors.ErrCodeInvalidBody)
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return appErrors.NewValidationError("request body is required", appErrors.ErrCodeInvalidBody)
		}
		if appErr, ok := appErrors.IsAppError(err); ok {
			return appErr
		}
		return appErrors.NewValidationError("invalid request body", appErrors.ErrCodeInvalidBody).WithCause(err)
	}
	return nil
}
