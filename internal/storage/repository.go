package storage

import (
	"database/sql"
	"fmt"
	"time"

	pq "github.com/lib/pq"

	"github.com/ovolkov/spimexpulse/internal/domain/models"
)

// ResultsRepository defines the persistence contract for trading results.
//
// InsertResultsBatch is the only capability the ingestion pipeline needs;
// the query methods back the read-only API.
type ResultsRepository interface {
	InsertResultsBatch(results []models.TradingResult) error
	RecordIngestRun(report models.IngestReport) error
	LastTradingDates(limit int) ([]time.Time, error)
	GetTradingResults(filter ResultsFilter) ([]models.TradingResult, error)
	GetDynamics(filter ResultsFilter, start, end time.Time) ([]models.TradingResult, error)
}

// ResultsFilter narrows queries by the identifier-derived columns.
// Empty fields are not filtered on; Limit <= 0 falls back to a default.
type ResultsFilter struct {
	OilID           string
	DeliveryTypeID  string
	DeliveryBasisID string
	Limit           int
}

const defaultQueryLimit = 100

const resultColumns = `exchange_product_id, exchange_product_name, oil_id,
		delivery_basis_id, delivery_basis_name, delivery_type_id,
		volume, total, count, date`

type resultsRepository struct {
	db *sql.DB
}

func NewResultsRepository(db *sql.DB) ResultsRepository {
	return &resultsRepository{db: db}
}

// InsertResultsBatch inserts the whole batch in a single transaction via
// COPY. The batch either commits completely or not at all.
func (r *resultsRepository) InsertResultsBatch(results []models.TradingResult) error {
	if len(results) == 0 {
		return nil
	}

	tx, err := r.db.Begin()
	if err != nil {
		return err
	}

	// Small optimization for bulk load
	if _, err := tx.Exec(`SET LOCAL synchronous_commit = OFF`); err != nil {
		_ = tx.Rollback()
		return err
	}

	stmt, err := tx.Prepare(pq.CopyIn(
		"spimex_trading_results",
		"exchange_product_id",
		"exchange_product_name",
		"oil_id",
		"delivery_basis_id",
		"delivery_basis_name",
		"delivery_type_id",
		"volume",
		"total",
		"count",
		"date",
	))
	if err != nil {
		_ = tx.Rollback()
		return err
	}

	for _, rec := range results {
		if _, err := stmt.Exec(
			rec.ExchangeProductID,
			rec.ExchangeProductName,
			rec.OilID,
			rec.DeliveryBasisID,
			rec.DeliveryBasisName,
			rec.DeliveryTypeID,
			rec.Volume,
			rec.Total,
			rec.Count,
			rec.TradeDate,
		); err != nil {
			_ = stmt.Close()
			_ = tx.Rollback()
			return err
		}
	}

	if _, err := stmt.Exec(); err != nil {
		_ = stmt.Close()
		_ = tx.Rollback()
		return err
	}
	if err := stmt.Close(); err != nil {
		_ = tx.Rollback()
		return err
	}

	return tx.Commit()
}

// RecordIngestRun appends one run summary to the ingest log. The log is
// informational only; it never gates re-ingestion of a date.
func (r *resultsRepository) RecordIngestRun(report models.IngestReport) error {
	_, err := r.db.Exec(`
		INSERT INTO ingest_runs (started_at, finished_at, dates_attempted, dates_skipped, rows_persisted)
		VALUES ($1, $2, $3, $4, $5)
	`, report.StartedAt, report.FinishedAt, report.DatesAttempted, report.DatesSkipped, report.RowsPersisted)
	return err
}

// LastTradingDates returns the most recent distinct trade dates, newest first.
func (r *resultsRepository) LastTradingDates(limit int) ([]time.Time, error) {
	if limit <= 0 {
		limit = defaultQueryLimit
	}
	rows, err := r.db.Query(`
		SELECT DISTINCT date FROM spimex_trading_results
		ORDER BY date DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var dates []time.Time
	for rows.Next() {
		var d time.Time
		if err := rows.Scan(&d); err != nil {
			return nil, err
		}
		dates = append(dates, d)
	}
	return dates, rows.Err()
}

// GetTradingResults returns the latest results matching the filter,
// newest first.
func (r *resultsRepository) GetTradingResults(filter ResultsFilter) ([]models.TradingResult, error) {
	conditions, args := buildFilter(filter, nil)
	limit := filter.Limit
	if limit <= 0 {
		limit = defaultQueryLimit
	}
	args = append(args, limit)

	query := fmt.Sprintf(`
		SELECT %s
		FROM spimex_trading_results
		WHERE %s
		ORDER BY date DESC, id DESC
		LIMIT $%d
	`, resultColumns, conditions, len(args))

	return r.queryResults(query, args...)
}

// GetDynamics returns results matching the filter within [start, end],
// oldest first.
func (r *resultsRepository) GetDynamics(filter ResultsFilter, start, end time.Time) ([]models.TradingResult, error) {
	conditions, args := buildFilter(filter, nil)
	args = append(args, start)
	conditions += fmt.Sprintf(" AND date >= $%d", len(args))
	args = append(args, end)
	conditions += fmt.Sprintf(" AND date <= $%d", len(args))

	query := fmt.Sprintf(`
		SELECT %s
		FROM spimex_trading_results
		WHERE %s
		ORDER BY date ASC, id ASC
	`, resultColumns, conditions)

	return r.queryResults(query, args...)
}

// buildFilter renders the optional filter fields as positional conditions.
func buildFilter(filter ResultsFilter, args []interface{}) (string, []interface{}) {
	conditions := "1=1"
	if filter.OilID != "" {
		args = append(args, filter.OilID)
		conditions += fmt.Sprintf(" AND oil_id = $%d", len(args))
	}
	if filter.DeliveryTypeID != "" {
		args = append(args, filter.DeliveryTypeID)
		conditions += fmt.Sprintf(" AND delivery_type_id = $%d", len(args))
	}
	if filter.DeliveryBasisID != "" {
		args = append(args, filter.DeliveryBasisID)
		conditions += fmt.Sprintf(" AND delivery_basis_id = $%d", len(args))
	}
	return conditions, args
}

func (r *resultsRepository) queryResults(query string, args ...interface{}) ([]models.TradingResult, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []models.TradingResult
	for rows.Next() {
		var rec models.TradingResult
		if err := rows.Scan(
			&rec.ExchangeProductID,
			&rec.ExchangeProductName,
			&rec.OilID,
			&rec.DeliveryBasisID,
			&rec.DeliveryBasisName,
			&rec.DeliveryTypeID,
			&rec.Volume,
			&rec.Total,
			&rec.Count,
			&rec.TradeDate,
		); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
