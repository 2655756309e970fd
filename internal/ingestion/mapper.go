package ingestion

import (
	"fmt"
	"strings"
	"time"

	"github.com/ovolkov/spimexpulse/internal/domain/models"
)

// minProductIDLen is the shortest exchange product id whose basis and type
// slices are unambiguous.
const minProductIDLen = 7

// MapRow converts one extracted bulletin row into a TradingResult for the
// given bulletin date. Pure function, no I/O; the same row and date always
// produce the identical record.
//
// A product id shorter than minProductIDLen is bad bulletin data, not a
// system fault, and rejects just that row.
func MapRow(row RawRow, date time.Time) (models.TradingResult, error) {
	id := strings.TrimSpace(row[0])
	if len(id) < minProductIDLen {
		return models.TradingResult{}, fmt.Errorf("exchange product id %q shorter than %d characters", id, minProductIDLen)
	}

	volume, err := coerceVolume(row[3])
	if err != nil {
		return models.TradingResult{}, err
	}
	total, err := coerceTotal(row[4])
	if err != nil {
		return models.TradingResult{}, err
	}
	count, err := coerceCount(row[5])
	if err != nil {
		return models.TradingResult{}, err
	}

	return models.TradingResult{
		ExchangeProductID:   id,
		ExchangeProductName: strings.TrimSpace(row[1]),
		OilID:               id[:4],
		DeliveryBasisID:     id[4:7],
		DeliveryBasisName:   strings.TrimSpace(row[2]),
		DeliveryTypeID:      id[len(id)-1:],
		Volume:              volume,
		Total:               total,
		Count:               count,
		TradeDate:           truncateToDate(date),
	}, nil
}
