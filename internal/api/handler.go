package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/tickerrank/internal/domain/dto"
	"github.com/guttosm/tickerrank/internal/metrics"
	"github.com/guttosm/tickerrank/internal/middleware"
	"github.com/guttosm/tickerrank/internal/service"
)

// maxWindow bounds the window query parameter.
const maxWindow = 5000

// Defaults apply when a request omits symbols or window.
type Defaults struct {
	Symbols       []string
	Window        int
	SkipMalformed bool
}

// Handler provides HTTP handlers for the ranking endpoints.
//
// Responsibilities:
//   - Validate incoming query parameters and bodies
//   - Run the analysis service
//   - Translate results into response DTOs (NaN becomes null)
type Handler struct {
	svc      service.AnalysisService
	defaults Defaults
}

func NewHandler(svc service.AnalysisService, defaults Defaults) *Handler {
	return &Handler{svc: svc, defaults: defaults}
}

// parseRequest reads symbols, window and skip_malformed from the query string.
func (h *Handler) parseRequest(c *gin.Context) (service.AnalysisRequest, error) {
	req := service.AnalysisRequest{
		Symbols:       h.defaults.Symbols,
		Window:        h.defaults.Window,
		SkipMalformed: h.defaults.SkipMalformed,
	}
	if s := strings.TrimSpace(c.Query("symbols")); s != "" {
		req.Symbols = service.NormalizeSymbols(strings.Split(s, ","))
	}
	if s := c.Query("window"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 || n > maxWindow {
			return req, errors.New("window must be an integer between 1 and 5000")
		}
		req.Window = n
	}
	if s := c.Query("skip_malformed"); s != "" {
		b, err := strconv.ParseBool(s)
		if err != nil {
			return req, errors.New("skip_malformed must be a boolean")
		}
		req.SkipMalformed = b
	}
	if len(service.NormalizeSymbols(req.Symbols)) == 0 {
		return req, service.ErrNoSymbols
	}
	return req, nil
}

// GetMetrics handles GET /api/v1/metrics.
//
// Responses:
//   - 200 OK: at least one symbol was analyzed; failures are listed alongside.
//   - 400 Bad Request: invalid query parameters.
//   - 502 Bad Gateway: no symbol could be analyzed.
//
// GetMetrics godoc
// @Summary      Per-symbol metrics and winner
// @Description  Computes mean return, mean price, mean volume, variance, standard deviation and momentum over the last N trading days of each symbol, and ranks them by mean return over mean price
// @Tags         metrics
// @Produce      json
// @Param        symbols         query     string  false  "Comma separated symbols" example(IBM,AAPL)
// @Param        window          query     int     false  "Trading days" example(30)
// @Param        skip_malformed  query     bool    false  "Skip malformed days instead of failing the symbol"
// @Success      200  {object}  dto.AnalysisResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      502  {object}  dto.AnalysisResponse
// @Router       /api/v1/metrics [get]
func (h *Handler) GetMetrics(c *gin.Context) {
	req, err := h.parseRequest(c)
	if err != nil {
		middleware.AbortWithError(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	analysis, err := h.svc.Analyze(c.Request.Context(), req)
	if err != nil {
		middleware.AbortWithError(c, http.StatusGatewayTimeout, "analysis did not complete", err)
		return
	}

	status := http.StatusOK
	if len(analysis.Reports) == 0 {
		status = http.StatusBadGateway
	}
	c.JSON(status, dto.NewAnalysisResponse(analysis))
}

// GetRank handles GET /api/v1/rank.
//
// GetRank godoc
// @Summary      Rank symbols
// @Description  Returns every analyzed symbol ordered by score, best first, and the winner
// @Tags         metrics
// @Produce      json
// @Param        symbols  query     string  false  "Comma separated symbols" example(IBM,AAPL)
// @Param        window   query     int     false  "Trading days" example(30)
// @Success      200  {object}  dto.RankResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      502  {object}  dto.RankResponse
// @Router       /api/v1/rank [get]
func (h *Handler) GetRank(c *gin.Context) {
	req, err := h.parseRequest(c)
	if err != nil {
		middleware.AbortWithError(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	analysis, err := h.svc.Analyze(c.Request.Context(), req)
	if err != nil {
		middleware.AbortWithError(c, http.StatusGatewayTimeout, "analysis did not complete", err)
		return
	}

	status := http.StatusOK
	if analysis.Winner == nil {
		status = http.StatusBadGateway
	}
	ordered := metrics.Order(metrics.Candidates(analysis.Reports))
	c.JSON(status, dto.NewRankResponse(analysis, ordered))
}

// ComputeMetrics handles POST /api/v1/metrics/compute.
//
// ComputeMetrics godoc
// @Summary      Metrics over supplied prices
// @Description  Runs the pipeline over caller supplied dates, closing prices and volumes
// @Tags         metrics
// @Accept       json
// @Produce      json
// @Param        body  body      dto.ComputeRequest  true  "Columns matched by position"
// @Success      200   {object}  dto.MetricsResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/v1/metrics/compute [post]
func (h *Handler) ComputeMetrics(c *gin.Context) {
	var body dto.ComputeRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		middleware.AbortWithError(c, http.StatusBadRequest, "invalid body", err)
		return
	}

	records, err := metrics.Zip(body.Dates, body.ClosingPrices, body.Volumes)
	if err != nil {
		middleware.AbortWithError(c, http.StatusUnprocessableEntity, "invalid columns", err)
		return
	}
	report, err := h.svc.ComputeRecords(body.Symbol, records)
	if err != nil {
		middleware.AbortWithError(c, http.StatusUnprocessableEntity, "metrics could not be computed", err)
		return
	}
	c.JSON(http.StatusOK, dto.NewMetricsResponse(report))
}
