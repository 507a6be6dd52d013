package smoke

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/okian/unirank/internal/domain/query"
	"github.com/okian/unirank/pkg/logger"
)

// HTTPClient wraps http.Client with timeout
type HTTPClient struct {
	client  *http.Client
	baseURL string
}

// newHTTPClient creates a new HTTP client with timeout
func newHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
	}
}

func (c *HTTPClient) do(ctx context.Context, method, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, http.NoBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-Request-ID", "smoke-"+uuid.NewString())
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %s %s returned %d: %s", ErrStatus, method, path, resp.StatusCode, body)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// Get performs a GET request and decodes the JSON body into out.
func (c *HTTPClient) Get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, out)
}

// Post performs a body-less POST request and decodes the JSON body into out.
func (c *HTTPClient) Post(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodPost, path, out)
}

// pageRequest is one page and query string to fetch.
type pageRequest struct {
	page  query.Page
	query url.Values
}

func (p pageRequest) path() string {
	if len(p.query) == 0 {
		return "/api/pages/" + string(p.page)
	}
	return "/api/pages/" + string(p.page) + "?" + p.query.Encode()
}

// sweepRequests lists a request per page and option of the generated data.
func sweepRequests(ds *Dataset, years []int) []pageRequest {
	var out []pageRequest
	for _, ind := range query.Indicators {
		out = append(out, pageRequest{page: query.PageGlobalTrends, query: url.Values{"indicator": {string(ind)}}})
	}
	for _, pair := range query.Pairs {
		out = append(out, pageRequest{page: query.PageCriteria, query: url.Values{"pair": {string(pair)}}})
	}
	for _, c := range countries {
		out = append(out, pageRequest{page: query.PageCriteria, query: url.Values{"country": {c}}})
	}
	names := ds.universities()
	for _, u := range names {
		out = append(out, pageRequest{page: query.PageUniversity, query: url.Values{"university": {u}}})
	}
	for _, y := range years {
		q := url.Values{"year": {strconv.Itoa(y)}}
		for _, u := range names[:min(len(names), query.DefaultMaxCompare)] {
			q.Add("university", u)
		}
		out = append(out, pageRequest{page: query.PageComparison, query: q})
	}
	return out
}

// sweepPages requests every page concurrently using a worker pool.
func sweepPages(ctx context.Context, cfg *Config, client *HTTPClient, reqs []pageRequest, stats *Stats) {
	logger.Get().Info(ctx, "sweeping dashboard pages", logger.Int("requests", len(reqs)), logger.Int("workers", cfg.Workers))

	var requested, failed, charts, noData int64
	reqChan := make(chan pageRequest, cfg.Workers*2)
	var wg sync.WaitGroup

	for i := 0; i < cfg.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for req := range reqChan {
				atomic.AddInt64(&requested, 1)
				var res query.PageResult
				if err := client.Get(ctx, req.path(), &res); err != nil {
					atomic.AddInt64(&failed, 1)
					logger.Get().Warn(ctx, "page request failed", logger.String("path", req.path()), logger.Error(err))
					continue
				}
				atomic.AddInt64(&charts, int64(len(res.Charts)))
				for _, c := range res.Charts {
					if c.NoData {
						atomic.AddInt64(&noData, 1)
					}
				}
				if cfg.Verbose {
					logger.Get().Debug(ctx, "page ok", logger.String("path", req.path()), logger.Int("charts", len(res.Charts)))
				}
			}
		}()
	}

	go func() {
		defer close(reqChan)
		for _, r := range reqs {
			select {
			case <-ctx.Done():
				return
			case reqChan <- r:
			}
		}
	}()
	wg.Wait()

	stats.PagesRequested = int(atomic.LoadInt64(&requested))
	stats.PagesFailed = int(atomic.LoadInt64(&failed))
	stats.ChartsReceived = int(atomic.LoadInt64(&charts))
	stats.ChartsNoData = int(atomic.LoadInt64(&noData))
}
