package api

import (
	"fmt"
	"net/http"
	"time"

	models "MomentumLab/internal/domain/models"
	icache "MomentumLab/internal/service/cache"
	"MomentumLab/internal/service/metrics"
	"MomentumLab/internal/service/ratelimit"
	"MomentumLab/internal/services/export"
	"MomentumLab/internal/usecase"
	pkgcache "MomentumLab/pkg/cache"
	xhttp "MomentumLab/pkg/http"
	xlogger "MomentumLab/pkg/logger"
	"MomentumLab/pkg/queue"
	"MomentumLab/pkg/util"

	"github.com/labstack/echo/v4"
)

// BacktestEchoHandler exposes the backtest, price and export endpoints.
type BacktestEchoHandler struct {
	logger  *xlogger.Logger
	bt      *usecase.BacktestUseCase
	prices  *usecase.PricesUseCase
	jobs    queue.QueueService // nil when the async queue is disabled
	results pkgcache.Service
	charts  icache.BytesCache
	rl      *ratelimit.Limiter
	ttl     time.Duration
}

func NewBacktestEchoHandler(
	logger *xlogger.Logger,
	bt *usecase.BacktestUseCase,
	prices *usecase.PricesUseCase,
	jobs queue.QueueService,
	results pkgcache.Service,
	chartTTL time.Duration,
) *BacktestEchoHandler {
	metrics.Register()
	if chartTTL <= 0 {
		chartTTL = 5 * time.Minute
	}
	return &BacktestEchoHandler{
		logger:  logger,
		bt:      bt,
		prices:  prices,
		jobs:    jobs,
		results: results,
		rl:      ratelimit.New(),
		ttl:     chartTTL,
	}
}

// SetChartCache injects a byte cache for rendered PNGs.
func (h *BacktestEchoHandler) SetChartCache(c icache.BytesCache) { h.charts = c }

func (h *BacktestEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.POST("/backtest", h.Run)
	g.POST("/backtest/jobs", h.Enqueue)
	g.GET("/backtest/jobs/:id", h.JobStatus)
	g.GET("/backtest/report.csv", h.ReportCSV)
	g.GET("/backtest/weights.csv", h.WeightsCSV)
	g.GET("/backtest/returns.csv", h.ReturnsCSV)
	g.GET("/backtest/chart", h.Chart)
	g.GET("/prices", h.Prices)
}

func (h *BacktestEchoHandler) observe(endpoint string, start time.Time) {
	metrics.EndpointLatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
}

func (h *BacktestEchoHandler) runFromRequest(c echo.Context, req *models.BacktestRequest) (*models.BacktestResult, error) {
	spec, err := usecase.SpecFromRequest(req)
	if err != nil {
		return nil, xhttp.BadRequestError(err.Error())
	}
	return h.bt.Run(c.Request().Context(), spec)
}

func (h *BacktestEchoHandler) Run(c echo.Context) error {
	start := time.Now()
	defer h.observe("backtest", start)

	if !h.rl.Allow(c.RealIP()+":backtest", 5, 1) {
		return xhttp.DataResponse(c, http.StatusTooManyRequests, "rate limited")
	}
	req := &models.BacktestRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	result, err := h.runFromRequest(c, req)
	if err != nil {
		metrics.EndpointErrors.WithLabelValues("backtest").Inc()
		h.logger.Error("backtest usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}

	resp := &models.BacktestResponse{Spec: result.Spec, Summaries: result.Summaries}
	if req.IncludeSeries {
		resp.Result = result
	}
	return xhttp.SuccessResponse(c, resp)
}

func (h *BacktestEchoHandler) Enqueue(c echo.Context) error {
	start := time.Now()
	defer h.observe("backtest_enqueue", start)

	if h.jobs == nil {
		return xhttp.DataResponse(c, http.StatusServiceUnavailable, "job queue disabled")
	}
	req := &models.BacktestRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	spec, err := usecase.SpecFromRequest(req)
	if err != nil {
		return xhttp.BadRequestResponse(c, err.Error())
	}

	id := fmt.Sprintf("bt-%d", time.Now().UnixNano())
	payload := usecase.BacktestJobPayload{ID: id, Spec: spec}
	if err := h.jobs.PublishMessage(c.Request().Context(), usecase.BacktestJobType, payload); err != nil {
		metrics.EndpointErrors.WithLabelValues("backtest_enqueue").Inc()
		h.logger.Error("backtest enqueue error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	if h.results != nil {
		queued := &models.BacktestJobResult{ID: id, Status: models.JobStatusQueued, EnqueuedAt: time.Now().UTC()}
		if err := h.results.Set(c.Request().Context(), usecase.ResultKey(id), queued, time.Hour); err != nil {
			h.logger.Warn("job placeholder store failed", xlogger.Error(err))
		}
	}
	return xhttp.CreatedResponse(c, &models.JobAccepted{ID: id, Status: models.JobStatusQueued})
}

func (h *BacktestEchoHandler) JobStatus(c echo.Context) error {
	start := time.Now()
	defer h.observe("backtest_job_status", start)

	id := c.Param("id")
	if id == "" {
		return xhttp.BadRequestResponse(c, "id required")
	}
	var res models.BacktestJobResult
	if err := h.results.Get(c.Request().Context(), usecase.ResultKey(id), &res); err != nil {
		return xhttp.NotFoundResponse(c, "unknown job id")
	}
	return xhttp.SuccessResponse(c, &res)
}

func (h *BacktestEchoHandler) ReportCSV(c echo.Context) error {
	return h.csvEndpoint(c, "report_csv", "performance_metrics.csv",
		func(result *models.BacktestResult) ([]byte, error) {
			return export.PerformanceCSV(result.Summaries)
		})
}

func (h *BacktestEchoHandler) WeightsCSV(c echo.Context) error {
	return h.csvEndpoint(c, "weights_csv", "daily_weights.csv", export.WeightsCSV)
}

func (h *BacktestEchoHandler) ReturnsCSV(c echo.Context) error {
	return h.csvEndpoint(c, "returns_csv", "daily_returns.csv", export.ReturnsCSV)
}

func (h *BacktestEchoHandler) csvEndpoint(c echo.Context, endpoint, filename string, render func(*models.BacktestResult) ([]byte, error)) error {
	start := time.Now()
	defer h.observe(endpoint, start)

	req := &models.BacktestRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	result, err := h.runFromRequest(c, req)
	if err != nil {
		metrics.EndpointErrors.WithLabelValues(endpoint).Inc()
		h.logger.Error("csv export error", xlogger.String("endpoint", endpoint), xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	b, err := render(result)
	if err != nil {
		metrics.EndpointErrors.WithLabelValues(endpoint).Inc()
		return xhttp.AppErrorResponse(c, err)
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Blob(http.StatusOK, "text/csv", b)
}

func (h *BacktestEchoHandler) Chart(c echo.Context) error {
	start := time.Now()
	defer h.observe("chart", start)

	req := &models.ChartRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	key := pkgcache.GenerateKeyWithParams("momentumlab:chart", req.Kind,
		fmt.Sprintf("%v", req.Symbols), req.Benchmark, req.Start, req.End,
		req.Window, req.Annualization)
	if h.charts != nil {
		if b, ok, err := h.charts.GetBytes(key); err == nil && ok {
			return c.Blob(http.StatusOK, "image/png", b)
		}
	}

	result, err := h.runFromRequest(c, &req.BacktestRequest)
	if err != nil {
		metrics.EndpointErrors.WithLabelValues("chart").Inc()
		h.logger.Error("chart backtest error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	b, err := export.Chart(result, req.Kind)
	if err != nil {
		metrics.EndpointErrors.WithLabelValues("chart").Inc()
		return xhttp.AppErrorResponse(c, err)
	}
	if h.charts != nil {
		if err := h.charts.SetBytes(key, b, h.ttl); err != nil {
			h.logger.Warn("chart cache set failed", xlogger.Error(err))
		}
	}
	return c.Blob(http.StatusOK, "image/png", b)
}

func (h *BacktestEchoHandler) Prices(c echo.Context) error {
	start := time.Now()
	defer h.observe("prices", start)

	req := &models.PricesRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	from := xhttp.ParseTimeDefault(req.Start, time.Time{})
	to := xhttp.ParseTimeDefault(req.End, time.Now())

	res, err := h.prices.GetPrices(c.Request().Context(), usecase.GetPricesParams{
		Symbol: req.Symbol,
		From:   from,
		To:     to,
		Limit:  util.ParseIntDefault(c.QueryParam("limit"), 0),
	})
	if err != nil {
		metrics.EndpointErrors.WithLabelValues("prices").Inc()
		h.logger.Error("prices usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, res)
}
