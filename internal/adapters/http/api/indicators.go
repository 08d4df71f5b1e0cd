package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"
	"github.com/okian/riskgauge/internal/domain/model"
	"github.com/okian/riskgauge/internal/domain/numeric"
	"github.com/okian/riskgauge/pkg/logger"
)

// IndicatorHandler serves reads and edits of the indicator store.
type IndicatorHandler struct {
	deps   Dependencies
	logger logger.Logger
}

// NewIndicatorHandler creates a new indicator handler.
func NewIndicatorHandler(deps Dependencies, log logger.Logger) *IndicatorHandler {
	return &IndicatorHandler{deps: deps, logger: log}
}

// editRequest accepts numbers either as JSON numbers or as strings.
type editRequest struct {
	Value  json.RawMessage `json:"value"`
	Weight json.RawMessage `json:"weight"`
}

type weightRequest struct {
	Weight json.RawMessage `json:"weight"`
}

type snapshotResponse struct {
	Indicators model.Categories `json:"indicators"`
}

type saveResponse struct {
	Category  string `json:"category"`
	Indicator string `json:"indicator"`
	model.Record
}

// HandleReport handles GET /report.
func (h *IndicatorHandler) HandleReport(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.deps.Report(r.Context()))
}

// HandleSnapshot handles GET /indicators.
func (h *IndicatorHandler) HandleSnapshot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, snapshotResponse{Indicators: h.deps.Snapshot()})
}

// HandleEdit handles PUT /indicators/{category}/{indicator}. Both numbers
// are validated before either is applied.
func (h *IndicatorHandler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	category, id := chi.URLParam(r, "category"), chi.URLParam(r, "indicator")

	var req editRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFailure(w, goerr.Wrap(ErrBadRequest, "decode edit", goerr.V("cause", err.Error())))
		return
	}
	if req.Value == nil && req.Weight == nil {
		writeFailure(w, ErrEmptyEdit)
		return
	}

	var (
		value, weight float64
		err           error
	)
	if req.Value != nil {
		if value, err = numeric.ParseJSON(req.Value); err != nil {
			writeFailure(w, err)
			return
		}
	}
	if req.Weight != nil {
		if weight, err = numeric.ParseJSON(req.Weight); err != nil {
			writeFailure(w, err)
			return
		}
		if weight, err = numeric.Weight(weight); err != nil {
			writeFailure(w, err)
			return
		}
	}

	ctx := r.Context()
	if req.Value != nil {
		if err := h.deps.SetIndicatorValue(ctx, category, id, value); err != nil {
			writeFailure(w, err)
			return
		}
	}
	if req.Weight != nil {
		if err := h.deps.SetIndicatorWeight(ctx, category, id, weight); err != nil {
			writeFailure(w, err)
			return
		}
	}

	ind, _ := h.deps.Snapshot().Indicator(category, id)
	writeJSON(w, http.StatusOK, ind)
}

// HandleCategoryWeight handles PUT /categories/{category}/weight.
func (h *IndicatorHandler) HandleCategoryWeight(w http.ResponseWriter, r *http.Request) {
	category := chi.URLParam(r, "category")

	var req weightRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFailure(w, goerr.Wrap(ErrBadRequest, "decode weight", goerr.V("cause", err.Error())))
		return
	}
	weight, err := numeric.ParseJSON(req.Weight)
	if err != nil {
		writeFailure(w, err)
		return
	}
	if err := h.deps.SetCategoryWeight(r.Context(), category, weight); err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"category": category, "weight": weight})
}

// HandleSave handles POST /indicators/{category}/{indicator}/save.
func (h *IndicatorHandler) HandleSave(w http.ResponseWriter, r *http.Request) {
	category, id := chi.URLParam(r, "category"), chi.URLParam(r, "indicator")

	rec, err := h.deps.Save(r.Context(), category, id)
	if err != nil {
		h.logger.Warn(r.Context(), "save request failed",
			logger.String("category", category), logger.String("indicator", id), logger.Error(err))
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, saveResponse{Category: category, Indicator: id, Record: rec})
}
