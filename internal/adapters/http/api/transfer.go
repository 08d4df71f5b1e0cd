package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/m-mizutani/goerr/v2"
	"github.com/okian/riskgauge/pkg/logger"
)

// TransferHandler serves export downloads and import uploads.
type TransferHandler struct {
	deps     Dependencies
	maxBytes int64
	logger   logger.Logger
}

// NewTransferHandler creates a new transfer handler.
func NewTransferHandler(deps Dependencies, maxBytes int64, log logger.Logger) *TransferHandler {
	return &TransferHandler{deps: deps, maxBytes: maxBytes, logger: log}
}

// HandleExport handles GET /export as a file attachment.
func (h *TransferHandler) HandleExport(w http.ResponseWriter, r *http.Request) {
	name, data, err := h.deps.Export(r.Context())
	if err != nil {
		writeFailure(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// HandleImport handles POST /import. The body is an export document.
func (h *TransferHandler) HandleImport(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeFailure(w, goerr.Wrap(ErrBodyTooLarge, "read import", goerr.V("limit", tooLarge.Limit)))
			return
		}
		writeFailure(w, goerr.Wrap(ErrBadRequest, "read import", goerr.V("cause", err.Error())))
		return
	}

	report, err := h.deps.Import(r.Context(), body)
	if err != nil {
		writeFailure(w, err)
		return
	}
	if len(report.Failures) > 0 {
		h.logger.Warn(r.Context(), "import finished with failed writes",
			logger.String("importID", report.ID), logger.Int("failed", len(report.Failures)))
	}
	writeJSON(w, http.StatusOK, report)
}
