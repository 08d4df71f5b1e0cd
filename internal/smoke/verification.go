package smoke

import (
	"bytes"
	"context"
	"encoding/json"
	"math"
	"net/http"

	"github.com/m-mizutani/goerr/v2"
	"github.com/okian/riskgauge/internal/domain/model"
	"github.com/okian/riskgauge/internal/domain/scoring"
	"github.com/okian/riskgauge/internal/domain/transfer"
	"github.com/okian/riskgauge/internal/domain/types"
)

const scoreTolerance = 1e-9

// verifyScores recomputes every score from /indicators and compares it with
// /report, and checks the last edit of each saved indicator stuck.
func verifyScores(ctx context.Context, c *client, edits []Edit, saved map[string]bool, stats *Stats) error {
	var snap snapshot
	if _, err := c.do(ctx, http.MethodGet, "/indicators", nil, http.StatusOK, &snap); err != nil {
		return err
	}
	var rep types.Report
	if _, err := c.do(ctx, http.MethodGet, "/report", nil, http.StatusOK, &rep); err != nil {
		return err
	}

	want := scoring.Evaluate(snap.Indicators)
	if !sameScore(want.Overall, rep.Overall) {
		return goerr.Wrap(ErrMismatch, "overall score differs", goerr.V("want", want.Overall), goerr.V("got", rep.Overall))
	}
	stats.ScoresChecked++
	for _, cat := range rep.Categories {
		res, ok := want.Category(cat.Key)
		if !ok {
			return goerr.Wrap(ErrMismatch, "report has unknown category", goerr.V("category", cat.Key))
		}
		if !sameScore(res.Score, cat.Score) {
			return goerr.Wrap(ErrMismatch, "category score differs",
				goerr.V("category", cat.Key), goerr.V("want", res.Score), goerr.V("got", cat.Score))
		}
		stats.ScoresChecked++
	}

	last := make(map[string]Edit)
	for _, e := range edits {
		last[e.Category+"/"+e.Indicator] = e
	}
	for key, e := range last {
		ind, ok := snap.Indicators.Indicator(e.Category, e.Indicator)
		if !ok {
			return goerr.Wrap(ErrMismatch, "edited indicator disappeared", goerr.V("indicator", key))
		}
		if ind.Value != e.Value || ind.Weight != e.Weight {
			return goerr.Wrap(ErrMismatch, "edit not applied",
				goerr.V("indicator", key), goerr.V("want", e), goerr.V("got", ind))
		}
		if saved[key] && ind.LastUpdated == nil {
			return goerr.Wrap(ErrMismatch, "saved indicator has no lastUpdated", goerr.V("indicator", key))
		}
	}
	return nil
}

// verifyRoundTrip exports, changes every edited indicator again, imports the
// export and expects the exported structure back.
func verifyRoundTrip(ctx context.Context, c *client, edits []Edit, stats *Stats) error {
	exported, err := c.do(ctx, http.MethodGet, "/export", nil, http.StatusOK, nil)
	if err != nil {
		return err
	}
	doc, err := transfer.Parse(exported)
	if err != nil {
		return goerr.Wrap(err, "service produced an unreadable export")
	}

	for _, e := range edits {
		disturb := map[string]any{"value": math.Mod(e.Value+37, maxValue)}
		if _, err := c.do(ctx, http.MethodPut, "/indicators/"+e.Category+"/"+e.Indicator, disturb, http.StatusOK, nil); err != nil {
			return err
		}
	}

	var rep types.ImportReport
	if _, err := c.do(ctx, http.MethodPost, "/import", exported, http.StatusOK, &rep); err != nil {
		return err
	}
	stats.ImportWritten = rep.Written
	if len(rep.Failures) > 0 {
		return goerr.Wrap(ErrMismatch, "import reported failed writes", goerr.V("failures", rep.Failures))
	}

	var after snapshot
	if _, err := c.do(ctx, http.MethodGet, "/indicators", nil, http.StatusOK, &after); err != nil {
		return err
	}
	return compareCategories(doc.Indicators, after.Indicators)
}

func compareCategories(want, got model.Categories) error {
	a, err := json.Marshal(want)
	if err != nil {
		return goerr.Wrap(err, "encode expected categories")
	}
	b, err := json.Marshal(got)
	if err != nil {
		return goerr.Wrap(err, "encode actual categories")
	}
	if !bytes.Equal(a, b) {
		return goerr.Wrap(ErrMismatch, "store after import differs from export",
			goerr.V("want", string(a)), goerr.V("got", string(b)))
	}
	return nil
}

func sameScore(a, b scoring.Score) bool {
	if a.Defined != b.Defined {
		return false
	}
	return !a.Defined || math.Abs(a.Value-b.Value) <= scoreTolerance
}
