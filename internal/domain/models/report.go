package models

import "time"

// IngestReport summarizes one ingestion run.
//
// Fields:
//   - StartedAt / FinishedAt: wall-clock bounds of the run.
//   - DatesAttempted: number of calendar dates in the generated range.
//   - DatesSkipped: dates with no bulletin or a failed extraction.
//   - RowsPersisted: trading-result rows handed to storage in the final batch.
type IngestReport struct {
	StartedAt      time.Time
	FinishedAt     time.Time
	DatesAttempted int
	DatesSkipped   int
	RowsPersisted  int
}
