// Package smoke drives a running dashboard over HTTP and checks that edits,
// saves, scores, exports and imports agree with a local recomputation.
package smoke

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
	"github.com/okian/riskgauge/internal/domain/types"
	"github.com/okian/riskgauge/pkg/logger"
	"golang.org/x/sync/errgroup"
)

const healthPollInterval = 250 * time.Millisecond

// Run executes the complete smoke scenario.
func Run(ctx context.Context, config *Config) (*Stats, error) {
	stats := &Stats{RunID: uuid.NewString(), StartTime: time.Now()}
	log := logger.Named("smoke")
	c := newClient(config.BaseURL, config.Timeout)

	log.Info(ctx, "starting smoke run",
		logger.String("runID", stats.RunID),
		logger.String("baseURL", config.BaseURL),
		logger.Int("edits", config.Edits),
		logger.Int("workers", config.Workers),
		logger.Bool("restore", config.Restore))

	// Step 1: Wait until hydration finished
	if err := waitHealthy(ctx, c, config.Timeout); err != nil {
		return stats, err
	}

	// Step 2: Keep the starting state for the import check and the restore
	baseline, err := c.do(ctx, http.MethodGet, "/export", nil, http.StatusOK, nil)
	if err != nil {
		return stats, goerr.Wrap(err, "baseline export failed")
	}
	if config.Restore {
		defer func() {
			var rep types.ImportReport
			if _, err := c.do(context.WithoutCancel(ctx), http.MethodPost, "/import", baseline, http.StatusOK, &rep); err != nil {
				log.Error(ctx, "failed to restore baseline", logger.Error(err))
				return
			}
			log.Info(ctx, "baseline restored", logger.Int("written", rep.Written))
		}()
	}

	var before snapshot
	if _, err := c.do(ctx, http.MethodGet, "/indicators", nil, http.StatusOK, &before); err != nil {
		return stats, err
	}

	// Step 3: Apply random edits
	edits := generateEdits(ctx, before.Indicators, config.Edits)
	for _, e := range edits {
		if _, err := c.do(ctx, http.MethodPut, "/indicators/"+e.Category+"/"+e.Indicator, e.body(), http.StatusOK, nil); err != nil {
			return stats, goerr.Wrap(err, "edit failed", goerr.V("edit", e))
		}
		stats.EditsApplied++
		if config.Verbose {
			log.Info(ctx, "edit applied", logger.Any("edit", e))
		}
	}

	// Step 4: Save every edited indicator concurrently
	saved, err := saveEdited(ctx, c, edits, config.Workers, stats)
	if err != nil {
		return stats, err
	}

	// Step 5: Scores and saved records must match the snapshot
	if err := verifyScores(ctx, c, edits, saved, stats); err != nil {
		return stats, err
	}

	// Step 6: Export, disturb, import, compare
	if err := verifyRoundTrip(ctx, c, edits, stats); err != nil {
		return stats, err
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(ctx, stats)
	return stats, nil
}

func waitHealthy(ctx context.Context, c *client, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for {
		_, err := c.do(ctx, http.MethodGet, "/healthz", nil, http.StatusOK, nil)
		if err == nil {
			return nil
		}
		if time.Now().After(deadline) {
			return goerr.Wrap(ErrUnhealthy, "health check timed out", goerr.V("cause", err.Error()))
		}
		select {
		case <-ctx.Done():
			return goerr.Wrap(ctx.Err(), "health check cancelled")
		case <-time.After(healthPollInterval):
		}
	}
}

// saveEdited saves each distinct edited indicator once and returns the keys saved.
func saveEdited(ctx context.Context, c *client, edits []Edit, workers int, stats *Stats) (map[string]bool, error) {
	keys := make(map[string]bool)
	var order []Edit
	for _, e := range edits {
		k := e.Category + "/" + e.Indicator
		if !keys[k] {
			keys[k] = true
			order = append(order, e)
		}
	}

	results := make([]error, len(order))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(workers, 1))
	for i, e := range order {
		g.Go(func() error {
			_, results[i] = c.do(gctx, http.MethodPost, "/indicators/"+e.Category+"/"+e.Indicator+"/save", nil, http.StatusOK, nil)
			return nil
		})
	}
	_ = g.Wait()

	for i, err := range results {
		if err != nil {
			stats.SavesFailed++
			logger.Get().Warn(ctx, "save failed", logger.String("indicator", order[i].Category+"/"+order[i].Indicator), logger.Error(err))
			continue
		}
		stats.SavesSucceeded++
	}
	if stats.SavesFailed > 0 {
		return keys, goerr.Wrap(ErrMismatch, fmt.Sprintf("%d of %d saves failed", stats.SavesFailed, len(order)))
	}
	return keys, nil
}

// displayFinalStats logs the final run statistics.
func displayFinalStats(ctx context.Context, stats *Stats) {
	logger.Get().Info(ctx, "final statistics",
		logger.String("runID", stats.RunID),
		logger.Int("editsApplied", stats.EditsApplied),
		logger.Int("savesSucceeded", stats.SavesSucceeded),
		logger.Int("savesFailed", stats.SavesFailed),
		logger.Int("scoresChecked", stats.ScoresChecked),
		logger.Int("importWritten", stats.ImportWritten),
		logger.String("duration", stats.Duration.String()))
}
