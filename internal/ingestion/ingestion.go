package ingestion

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ovolkov/spimexpulse/internal/domain/models"
	"github.com/ovolkov/spimexpulse/internal/logger"
	"github.com/ovolkov/spimexpulse/internal/storage"
)

// maxParallelDates bounds concurrent bulletin downloads. The exchange site
// is not verified to tolerate aggressive fan-out, so the default is 1.
const maxParallelDates = 4

// Ingestor orchestrates one ingestion run: date range generation, per-date
// fetch/extract/map, a single batch insert, and temp file cleanup.
type Ingestor struct {
	fetcher  Fetcher
	repo     storage.ResultsRepository
	parallel int
}

// NewIngestor wires an Ingestor with its collaborators. parallel is clamped
// to 1..maxParallelDates; 1 keeps processing strictly sequential.
func NewIngestor(fetcher Fetcher, repo storage.ResultsRepository, parallel int) *Ingestor {
	if parallel < 1 {
		parallel = 1
	}
	if parallel > maxParallelDates {
		parallel = maxParallelDates
	}
	return &Ingestor{fetcher: fetcher, repo: repo, parallel: parallel}
}

// Run ingests every bulletin from today back to the target date.
//
// Per-date failures (no bulletin published, broken layout, malformed rows)
// are logged and counted as skipped; they never fail the run or affect other
// dates. The accumulated batch is persisted once, atomically, after all
// dates are processed; only that insert can fail the run. Downloaded temp
// files are removed regardless of the outcome.
func (in *Ingestor) Run(ctx context.Context, target time.Time) (models.IngestReport, error) {
	report := models.IngestReport{StartedAt: time.Now()}

	dates := DatesBack(target, report.StartedAt)
	report.DatesAttempted = len(dates)
	logger.L().Info().
		Str("target", DateKey(target)).
		Int("dates", len(dates)).
		Int("parallel", in.parallel).
		Msg("ingestion start")

	var (
		mu    sync.Mutex
		batch []models.TradingResult
		files []string
	)

	defer func() {
		for _, f := range files {
			if err := os.Remove(f); err != nil && !os.IsNotExist(err) {
				logger.L().Warn().Str("file", f).Err(err).Msg("temp file cleanup failed")
			}
		}
	}()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(in.parallel)

	for _, date := range dates {
		d := date
		g.Go(func() error {
			rows, path := in.processDate(gctx, d)
			mu.Lock()
			defer mu.Unlock()
			if path != "" {
				files = append(files, path)
			}
			if len(rows) == 0 {
				report.DatesSkipped++
				return nil
			}
			batch = append(batch, rows...)
			return nil
		})
	}
	// Per-date errors are handled inside processDate; nothing propagates.
	_ = g.Wait()

	if len(batch) > 0 {
		if err := in.repo.InsertResultsBatch(batch); err != nil {
			report.FinishedAt = time.Now()
			logger.L().Error().Err(err).Int("rows", len(batch)).Msg("batch insert failed")
			return report, fmt.Errorf("persist batch: %w", err)
		}
		report.RowsPersisted = len(batch)
	}
	report.FinishedAt = time.Now()

	if err := in.repo.RecordIngestRun(report); err != nil {
		logger.L().Warn().Err(err).Msg("record ingest run failed")
	}

	logger.L().Info().
		Int("dates", report.DatesAttempted).
		Int("skipped", report.DatesSkipped).
		Int("rows", report.RowsPersisted).
		Dur("elapsed", report.FinishedAt.Sub(report.StartedAt)).
		Msg("ingestion done")
	return report, nil
}

// processDate runs fetch → extract → map for one date. It returns the mapped
// records plus the temp file path for cleanup ("" when nothing was fetched).
// Every failure mode here is per-date: logged, swallowed, empty result.
func (in *Ingestor) processDate(ctx context.Context, date time.Time) ([]models.TradingResult, string) {
	key := DateKey(date)

	path, ok := in.fetcher.Fetch(ctx, date)
	if !ok {
		return nil, ""
	}

	raws, err := ExtractBulletin(path)
	if err != nil {
		logger.L().Warn().Str("date", key).Err(err).Msg("bulletin extraction failed")
		return nil, path
	}

	out := make([]models.TradingResult, 0, len(raws))
	for i, raw := range raws {
		rec, err := MapRow(raw, date)
		if err != nil {
			logger.L().Warn().Str("date", key).Int("row", i).Err(err).Msg("bulletin row rejected")
			continue
		}
		out = append(out, rec)
	}

	logger.L().Info().Str("date", key).Int("rows", len(out)).Msg("bulletin processed")
	return out, path
}
