package yahoo

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"MomentumLab/internal/domain/models"
	drepo "MomentumLab/internal/domain/repository"
	"MomentumLab/internal/service/ratelimit"
	xhttp "MomentumLab/pkg/http"
	applogger "MomentumLab/pkg/logger"
	"MomentumLab/pkg/util"
)

const defaultBaseURL = "https://query1.finance.yahoo.com"

// Client fetches daily adjusted-close history from the Yahoo v8 chart API.
// It implements HistorySource; requests are token-bucket limited so a burst
// of uncached backtests does not hammer the endpoint.
type Client struct {
	baseURL   string
	userAgent string
	maxRPS    float64
	http      *xhttp.Client
	rl        *ratelimit.Limiter
	l         *applogger.Logger
}

// New creates a Yahoo history client. Zero-valued options fall back to
// defaults.
func New(baseURL, userAgent string, timeout time.Duration, maxRPS float64) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if userAgent == "" {
		userAgent = "curl/8"
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if maxRPS <= 0 {
		maxRPS = 2
	}
	return &Client{
		baseURL:   baseURL,
		userAgent: userAgent,
		maxRPS:    maxRPS,
		http:      xhttp.NewClient(xhttp.WithTimeout(timeout)),
		rl:        ratelimit.New(),
	}
}

// SetLogger injects a structured logger.
func (c *Client) SetLogger(l *applogger.Logger) { c.l = l }

type chartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close  []*float64 `json:"close"`
					Volume []*float64 `json:"volume"`
				} `json:"quote"`
				AdjClose []struct {
					AdjClose []*float64 `json:"adjclose"`
				} `json:"adjclose"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// FetchDailyBars downloads daily bars for [from, to]. Null slots in the
// response (halts, unlisted days) are skipped, not zero-filled; the kernel's
// aligner is what decides how gaps behave.
func (c *Client) FetchDailyBars(ctx context.Context, symbol string, from, to time.Time) ([]models.DailyBar, error) {
	for !c.rl.Allow("yahoo", c.maxRPS, c.maxRPS) {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(100 * time.Millisecond):
		}
	}

	start := time.Now()
	var cr chartResponse
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method:  xhttp.MethodGet,
		URL:     fmt.Sprintf("%s/v8/finance/chart/%s", c.baseURL, url.PathEscape(symbol)),
		Headers: map[string]string{"User-Agent": c.userAgent},
		QueryParams: map[string][]string{
			"period1": {fmt.Sprintf("%d", util.Day(from).Unix())},
			// period2 is exclusive upstream; push it past the last requested day
			"period2":  {fmt.Sprintf("%d", util.Day(to).AddDate(0, 0, 1).Unix())},
			"interval": {"1d"},
			"events":   {"div,split"},
		},
	}, &cr)
	if err != nil {
		return nil, fmt.Errorf("yahoo fetch %s: %w", symbol, err)
	}
	if cr.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo %s: %s (%s)", symbol, cr.Chart.Error.Description, cr.Chart.Error.Code)
	}
	if len(cr.Chart.Result) == 0 || len(cr.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, fmt.Errorf("yahoo %s: empty chart result", symbol)
	}

	res := cr.Chart.Result[0]
	quote := res.Indicators.Quote[0]
	var adj []*float64
	if len(res.Indicators.AdjClose) > 0 {
		adj = res.Indicators.AdjClose[0].AdjClose
	}

	bars := make([]models.DailyBar, 0, len(res.Timestamp))
	for i, ts := range res.Timestamp {
		if i >= len(quote.Close) || quote.Close[i] == nil {
			continue
		}
		b := models.DailyBar{
			Symbol:   symbol,
			Day:      util.Day(time.Unix(ts, 0)),
			Close:    *quote.Close[i],
			AdjClose: *quote.Close[i],
			Source:   "yahoo",
		}
		if adj != nil && i < len(adj) && adj[i] != nil {
			b.AdjClose = *adj[i]
		}
		if i < len(quote.Volume) && quote.Volume[i] != nil {
			b.Volume = *quote.Volume[i]
		}
		bars = append(bars, b)
	}
	if c.l != nil {
		c.l.Debug("yahoo history fetched",
			applogger.String("symbol", symbol),
			applogger.Int("bars", len(bars)),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return bars, nil
}

var _ drepo.HistorySource = (*Client)(nil)
