package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/okian/riskgauge/internal/adapters/persistence"
	"github.com/okian/riskgauge/internal/domain/model"
	"github.com/okian/riskgauge/internal/domain/transfer"
	"github.com/okian/riskgauge/internal/domain/types"
	"github.com/okian/riskgauge/pkg/logger"
	"github.com/okian/riskgauge/pkg/metrics"
	"golang.org/x/sync/errgroup"
)

// Export encodes the whole store. It performs no writes.
func (s *Service) Export(ctx context.Context) (string, []byte, error) {
	now := s.now()
	data, err := transfer.Export(s.store.Snapshot(), now)
	if err != nil {
		return "", nil, err
	}
	metrics.RecordExport()
	name := transfer.Filename(now)
	s.logger.Info(ctx, "store exported", logger.String("file", name), logger.Int("bytes", len(data)))
	return name, data, nil
}

// Import parses data, writes every indicator it contains through the
// persistence adapter with its own lastUpdated, and then replaces the store
// with the imported structure. Only a parse failure aborts the import;
// individual write failures are reported and the replacement still happens.
func (s *Service) Import(ctx context.Context, data []byte) (types.ImportReport, error) {
	doc, err := transfer.Parse(data)
	if err != nil {
		metrics.RecordImport(metrics.ResultParseError)
		s.logger.Warn(ctx, "import rejected", logger.Error(err))
		return types.ImportReport{}, err
	}

	type job struct {
		category string
		id       string
		rec      model.Record
	}
	var jobs []job
	for _, c := range doc.Indicators {
		for _, ind := range c.Indicators {
			jobs = append(jobs, job{category: c.Key, id: ind.ID, rec: ind.Record()})
		}
	}

	report := types.ImportReport{
		ID:         uuid.NewString(),
		Categories: len(doc.Indicators),
		Indicators: len(jobs),
		Failures:   []types.ImportFailure{},
	}

	// Writes run to completion regardless of ctx; errors are collected per slot.
	wctx := context.WithoutCancel(ctx)
	errs := make([]error, len(jobs))
	var g errgroup.Group
	g.SetLimit(s.loadConcurrency)
	for n, j := range jobs {
		g.Go(func() error {
			unlock := s.locks.Lock(persistence.Key(j.category, j.id))
			defer unlock()
			errs[n] = s.persist.Put(wctx, j.category, j.id, j.rec)
			return nil
		})
	}
	_ = g.Wait()

	for n, j := range jobs {
		if errs[n] != nil {
			metrics.RecordImportWrite(metrics.ResultError)
			report.Failures = append(report.Failures, types.ImportFailure{
				Category:  j.category,
				Indicator: j.id,
				Error:     errs[n].Error(),
			})
			continue
		}
		metrics.RecordImportWrite(metrics.ResultOK)
		report.Written++
	}

	s.store.ReplaceAll(doc.Indicators)
	metrics.RecordImport(metrics.ResultOK)
	s.logger.Info(ctx, "store imported",
		logger.String("importID", report.ID),
		logger.Int("indicators", report.Indicators),
		logger.Int("written", report.Written),
		logger.Int("failed", len(report.Failures)),
	)
	return report, nil
}
