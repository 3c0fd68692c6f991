package bulk

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	errors "github.com/idlidosa1206/Fusion-System-Administrator/internal"
	"github.com/idlidosa1206/Fusion-System-Administrator/internal/transport"
)

type ImporterAPI interface {
	Import(ctx context.Context, src io.Reader, mode string) (*ImportResult, error)
}

type ExporterAPI interface {
	Export(ctx context.Context, w io.Writer, format string) (int, error)
}

type Handler struct {
	*transport.BaseHandler
	Importer       ImporterAPI
	Exporter       ExporterAPI
	MaxUploadBytes int64
}

func NewHandler(baseHandler *transport.BaseHandler, importer ImporterAPI, exporter ExporterAPI, maxUploadBytes int64) *Handler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = errors.DefaultMaxUploadBytes
	}
	return &Handler{
		BaseHandler:    baseHandler,
		Importer:       importer,
		Exporter:       exporter,
		MaxUploadBytes: maxUploadBytes,
	}
}

// ImportUsers handles POST /users/import
func (h *Handler) ImportUsers(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.MaxUploadBytes)
	if err := r.ParseMultipartForm(h.MaxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			h.HandleServiceError(w, r, errors.NewValidationError(
				fmt.Sprintf("File exceeds the %d byte upload limit.", h.MaxUploadBytes), errors.ErrCodeInvalidFile))
			return
		}
		if !stderrors.Is(err, http.ErrNotMultipart) {
			h.Logger.Debug("ImportUsers: bad multipart body", "error", err)
		}
		h.HandleServiceError(w, r, errors.NewValidationError("No file provided.", errors.ErrCodeInvalidFile))
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		h.HandleServiceError(w, r, errors.NewValidationError("No file provided.", errors.ErrCodeInvalidFile))
		return
	}
	defer file.Close()

	if !strings.EqualFold(filepath.Ext(header.Filename), ".csv") {
		h.HandleServiceError(w, r, errors.NewValidationError("Please upload a valid CSV file.", errors.ErrCodeInvalidFile))
		return
	}

	result, err := h.Importer.Import(r.Context(), file, r.URL.Query().Get("mode"))
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.Logger.Info("ImportUsers: import finished", "file", header.Filename, "created", result.Created, "failed", result.Failed)
	h.WriteJSON(w, http.StatusCreated, result)
}

// ExportUsers handles GET /users/export
func (h *Handler) ExportUsers(w http.ResponseWriter, r *http.Request) {
	format := strings.ToLower(r.URL.Query().Get("format"))
	if format == "" {
		format = FormatCSV
	}

	aw := &attachmentWriter{w: w, filename: Filename(format), contentType: ContentType(format)}
	if _, err := h.Exporter.Export(r.Context(), aw, format); err != nil {
		if aw.started {
			// headers are gone, the client sees a truncated file
			h.Logger.Error("ExportUsers: export aborted mid-stream", "error", err)
			return
		}
		h.HandleServiceError(w, r, err)
		return
	}
	aw.start()
}

// attachmentWriter sends the download headers on the first write, so an export
// that fails before producing output can still answer with a JSON error.
type attachmentWriter struct {
	w           http.ResponseWriter
	filename    string
	contentType string
	started     bool
}

func (a *attachmentWriter) start() {
	if a.started {
		return
	}
	a.started = true
	a.w.Header().Set("Content-Type", a.contentType)
	a.w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", a.filename))
	a.w.WriteHeader(http.StatusOK)
}

func (a *attachmentWriter) Write(p []byte) (int, error) {
	a.start()
	return a.w.Write(p)
}
