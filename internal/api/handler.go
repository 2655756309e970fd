package api

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ovolkov/spimexpulse/internal/domain/dto"
	"github.com/ovolkov/spimexpulse/internal/domain/models"
	"github.com/ovolkov/spimexpulse/internal/service"
	"github.com/ovolkov/spimexpulse/internal/storage"
)

const dateParamLayout = "2006-01-02"

// Handler provides HTTP handlers for the trading-results endpoints.
//
// Responsibilities:
//   - Validate incoming HTTP query parameters
//   - Delegate to the service layer
//   - Translate results into response DTOs with appropriate status codes
type Handler struct {
	svc service.TradingResultsService
}

// NewHandler constructs a Handler backed by the given service.
func NewHandler(svc service.TradingResultsService) *Handler {
	return &Handler{svc: svc}
}

// GetLastTradingDates handles GET /api/v1/dates requests.
//
// GetLastTradingDates godoc
// @Summary      Last trading dates
// @Description  Returns the most recent dates that have persisted trading results
// @Tags         results
// @Produce      json
// @Param        limit  query     int  false  "Maximum number of dates"  example(10)
// @Success      200    {object}  dto.TradingDatesResponse  "Success"
// @Failure      400    {object}  dto.ErrorResponse         "Bad Request"
// @Failure      500    {object}  dto.ErrorResponse         "Internal Error"
// @Router       /api/v1/dates [get]
func (h *Handler) GetLastTradingDates(c *gin.Context) {
	limit, ok := parseLimit(c)
	if !ok {
		return
	}

	dates, err := h.svc.LastTradingDates(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse("failed to fetch trading dates", err))
		return
	}

	resp := dto.TradingDatesResponse{Dates: make([]string, 0, len(dates))}
	for _, d := range dates {
		resp.Dates = append(resp.Dates, d.Format(dateParamLayout))
	}
	c.JSON(http.StatusOK, resp)
}

// GetTradingResults handles GET /api/v1/results requests.
//
// GetTradingResults godoc
// @Summary      Latest trading results
// @Description  Returns the latest persisted trading results, optionally filtered by product attributes
// @Tags         results
// @Produce      json
// @Param        oil_id             query     string  false  "Oil identifier (first 4 chars of product id)"  example(A100)
// @Param        delivery_type_id   query     string  false  "Delivery type (last char of product id)"       example(F)
// @Param        delivery_basis_id  query     string  false  "Delivery basis (chars 5-7 of product id)"      example(ANK)
// @Param        limit              query     int     false  "Maximum number of rows"                        example(100)
// @Success      200  {array}   dto.TradingResultResponse  "Success"
// @Failure      400  {object}  dto.ErrorResponse          "Bad Request"
// @Failure      500  {object}  dto.ErrorResponse          "Internal Error"
// @Router       /api/v1/results [get]
func (h *Handler) GetTradingResults(c *gin.Context) {
	limit, ok := parseLimit(c)
	if !ok {
		return
	}
	filter := parseFilter(c)
	filter.Limit = limit

	results, err := h.svc.GetTradingResults(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse("failed to fetch trading results", err))
		return
	}
	c.JSON(http.StatusOK, toResultResponses(results))
}

// GetDynamics handles GET /api/v1/dynamics requests.
//
// GetDynamics godoc
// @Summary      Trading results over a period
// @Description  Returns trading results between start_date and end_date, optionally filtered by product attributes
// @Tags         results
// @Produce      json
// @Param        start_date         query     string  true   "Period start in YYYY-MM-DD"  example(2024-03-01)
// @Param        end_date           query     string  false  "Period end in YYYY-MM-DD (defaults to today)"  example(2024-04-01)
// @Param        oil_id             query     string  false  "Oil identifier"       example(A100)
// @Param        delivery_type_id   query     string  false  "Delivery type"        example(F)
// @Param        delivery_basis_id  query     string  false  "Delivery basis"       example(ANK)
// @Success      200  {array}   dto.TradingResultResponse  "Success"
// @Failure      400  {object}  dto.ErrorResponse          "Bad Request"
// @Failure      500  {object}  dto.ErrorResponse          "Internal Error"
// @Router       /api/v1/dynamics [get]
func (h *Handler) GetDynamics(c *gin.Context) {
	s := c.Query("start_date")
	if s == "" {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse("start_date is required", nil))
		return
	}
	start, err := time.Parse(dateParamLayout, s)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse("invalid start_date format, expected YYYY-MM-DD", err))
		return
	}

	end := time.Now().UTC().Truncate(24 * time.Hour)
	if e := c.Query("end_date"); e != "" {
		end, err = time.Parse(dateParamLayout, e)
		if err != nil {
			c.JSON(http.StatusBadRequest, dto.NewErrorResponse("invalid end_date format, expected YYYY-MM-DD", err))
			return
		}
	}
	if end.Before(start) {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse("end_date is before start_date", nil))
		return
	}

	results, err := h.svc.GetDynamics(c.Request.Context(), parseFilter(c), start, end)
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse("failed to fetch dynamics", err))
		return
	}
	c.JSON(http.StatusOK, toResultResponses(results))
}

func parseFilter(c *gin.Context) storage.ResultsFilter {
	return storage.ResultsFilter{
		OilID:           strings.ToUpper(strings.TrimSpace(c.Query("oil_id"))),
		DeliveryTypeID:  strings.ToUpper(strings.TrimSpace(c.Query("delivery_type_id"))),
		DeliveryBasisID: strings.ToUpper(strings.TrimSpace(c.Query("delivery_basis_id"))),
	}
}

// parseLimit reads the optional limit parameter; on a malformed value it
// writes a 400 response and reports !ok.
func parseLimit(c *gin.Context) (int, bool) {
	s := c.Query("limit")
	if s == "" {
		return 0, true
	}
	limit, err := strconv.Atoi(s)
	if err != nil || limit < 1 {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse("limit must be a positive integer", err))
		return 0, false
	}
	return limit, true
}

func toResultResponses(results []models.TradingResult) []dto.TradingResultResponse {
	out := make([]dto.TradingResultResponse, 0, len(results))
	for _, r := range results {
		out = append(out, dto.TradingResultResponse{
			ExchangeProductID:   r.ExchangeProductID,
			ExchangeProductName: r.ExchangeProductName,
			OilID:               r.OilID,
			DeliveryBasisID:     r.DeliveryBasisID,
			DeliveryBasisName:   r.DeliveryBasisName,
			DeliveryTypeID:      r.DeliveryTypeID,
			Volume:              r.Volume,
			Total:               r.Total,
			Count:               r.Count,
			TradeDate:           r.TradeDate.Format(dateParamLayout),
		})
	}
	return out
}
