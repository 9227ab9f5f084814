package transport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goliatone/go-cancel-accounts/core"
	goerrors "github.com/goliatone/go-errors"
)

const KindHTTP = "http"

const defaultHTTPClientTimeout = 30 * time.Second
const defaultResponseBodyLimit int64 = core.DefaultMaxResponseBodySize

type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// HTTPAdapter performs one exchange with the administration endpoint and
// hands back the status, headers and a size-capped body. Non-2xx statuses are
// responses, not errors; the GraphQL layer decides what they mean.
type HTTPAdapter struct {
	Client               HTTPDoer
	DefaultHeaders       map[string]string
	MaxResponseBodyBytes int64
}

func NewHTTPAdapter(client HTTPDoer) *HTTPAdapter {
	if client == nil {
		client = &http.Client{Timeout: defaultHTTPClientTimeout}
	}
	return &HTTPAdapter{
		Client:               client,
		DefaultHeaders:       map[string]string{},
		MaxResponseBodyBytes: defaultResponseBodyLimit,
	}
}

func (*HTTPAdapter) Kind() string {
	return KindHTTP
}

func (a *HTTPAdapter) Do(ctx context.Context, req core.TransportRequest) (core.TransportResponse, error) {
	if a == nil || a.Client == nil {
		return core.TransportResponse{}, adapterError(nil, goerrors.CategoryInternal,
			"transport: http adapter requires an http client",
			http.StatusInternalServerError, map[string]any{"adapter": KindHTTP})
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if req.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}

	httpReq, err := a.newRequest(ctx, req)
	if err != nil {
		return core.TransportResponse{}, err
	}
	fields := map[string]any{"adapter": KindHTTP, "method": httpReq.Method, "url": httpReq.URL.String()}

	startedAt := time.Now()
	httpRes, err := a.Client.Do(httpReq)
	if err != nil {
		return core.TransportResponse{}, adapterError(err, goerrors.CategoryExternal,
			"transport: execute http request", http.StatusBadGateway, fields)
	}
	defer httpRes.Body.Close()

	body, err := readCapped(httpRes, resolveResponseBodyLimit(req.MaxResponseBodyBytes, a.MaxResponseBodyBytes))
	if err != nil {
		return core.TransportResponse{}, err
	}
	return core.TransportResponse{
		StatusCode: httpRes.StatusCode,
		Headers:    flattenHeaders(httpRes.Header),
		Body:       body,
		Metadata: map[string]any{
			"duration_ms": time.Since(startedAt).Milliseconds(),
			"kind":        KindHTTP,
		},
	}, nil
}

func (a *HTTPAdapter) newRequest(ctx context.Context, req core.TransportRequest) (*http.Request, error) {
	endpoint := strings.TrimSpace(req.URL)
	if endpoint == "" {
		return nil, adapterError(nil, goerrors.CategoryBadInput, "transport: request url is required",
			http.StatusBadRequest, map[string]any{"adapter": KindHTTP})
	}
	method := strings.ToUpper(strings.TrimSpace(req.Method))
	if method == "" {
		method = http.MethodPost
	}
	httpReq, err := http.NewRequestWithContext(ctx, method, endpoint, bytes.NewReader(req.Body))
	if err != nil {
		return nil, adapterError(err, goerrors.CategoryBadInput, "transport: create http request",
			http.StatusBadRequest, map[string]any{"adapter": KindHTTP, "method": method, "url": endpoint})
	}
	setHeaders(httpReq.Header, a.DefaultHeaders)
	setHeaders(httpReq.Header, req.Headers)
	return httpReq, nil
}

// readCapped reads at most limit bytes; a longer body is an error rather than
// a silently truncated document.
func readCapped(res *http.Response, limit int64) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(res.Body, limit+1))
	if err != nil {
		return nil, adapterError(err, goerrors.CategoryExternal, "transport: read response body",
			http.StatusBadGateway, map[string]any{"adapter": KindHTTP, "status_code": res.StatusCode})
	}
	if int64(len(body)) > limit {
		return nil, adapterError(nil, goerrors.CategoryExternal,
			fmt.Sprintf("transport: response body exceeds limit of %d bytes", limit),
			http.StatusBadGateway, map[string]any{
				"adapter":          KindHTTP,
				"status_code":      res.StatusCode,
				"response_limit_b": limit,
			})
	}
	return body, nil
}

func setHeaders(target http.Header, headers map[string]string) {
	for key, value := range headers {
		if key = strings.TrimSpace(key); key != "" {
			target.Set(key, strings.TrimSpace(value))
		}
	}
}

func flattenHeaders(headers http.Header) map[string]string {
	flat := make(map[string]string, len(headers))
	for key, values := range headers {
		flat[key] = strings.Join(values, ",")
	}
	return flat
}

func resolveResponseBodyLimit(requestLimit int64, adapterLimit int64) int64 {
	switch {
	case requestLimit > 0:
		return requestLimit
	case adapterLimit > 0:
		return adapterLimit
	default:
		return defaultResponseBodyLimit
	}
}

var _ core.TransportAdapter = (*HTTPAdapter)(nil)
