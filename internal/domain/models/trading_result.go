package models

import "time"

// TradingResult represents one product line of a daily SPIMEX oil bulletin.
//
// The identifier-derived fields are sliced out of ExchangeProductID:
//
//	oil_id            = first 4 characters
//	delivery_basis_id = characters 5-7
//	delivery_type_id  = last character
//
// TradeDate comes from the bulletin's date, never from spreadsheet content.
type TradingResult struct {
	ExchangeProductID   string
	ExchangeProductName string
	OilID               string
	DeliveryBasisID     string
	DeliveryBasisName   string
	DeliveryTypeID      string
	Volume              int64
	Total               int64
	Count               int64
	TradeDate           time.Time
}
