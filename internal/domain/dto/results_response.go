package dto

// TradingResultResponse represents one trading-result row as returned by the
// GET /api/v1/results and GET /api/v1/dynamics endpoints.
//
// Fields match the API contract and may differ from internal domain models.
type TradingResultResponse struct {
	ExchangeProductID   string `json:"exchange_product_id" example:"A100ANK060F"`
	ExchangeProductName string `json:"exchange_product_name" example:"Бензин (АИ-100-К5)"`
	OilID               string `json:"oil_id" example:"A100"`
	DeliveryBasisID     string `json:"delivery_basis_id" example:"ANK"`
	DeliveryBasisName   string `json:"delivery_basis_name" example:"ст. Аникеевка"`
	DeliveryTypeID      string `json:"delivery_type_id" example:"F"`
	Volume              int64  `json:"volume" example:"120"`
	Total               int64  `json:"total" example:"9213360"`
	Count               int64  `json:"count" example:"2"`
	TradeDate           string `json:"trade_date" example:"2024-04-01"`
}

// TradingDatesResponse wraps the list returned by GET /api/v1/dates.
type TradingDatesResponse struct {
	Dates []string `json:"dates" example:"2024-04-01,2024-03-29"`
}
