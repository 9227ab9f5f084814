package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/goliatone/go-cancel-accounts/core"
	goerrors "github.com/goliatone/go-errors"
)

const KindGraphQL = "graphql"

const (
	metadataQuery         = "query"
	metadataOperationName = "operation_name"
	metadataVariables     = "variables"
)

const apiKeyHeader = "API-Key"

type GraphQLOption func(*GraphQLAdapter)

// WithAPIKey sends key in the API-Key header on every request.
func WithAPIKey(key string) GraphQLOption {
	return func(a *GraphQLAdapter) {
		if key = strings.TrimSpace(key); key != "" {
			a.HTTP.DefaultHeaders[apiKeyHeader] = key
		}
	}
}

func WithTimeout(timeout time.Duration) GraphQLOption {
	return func(a *GraphQLAdapter) {
		a.Timeout = timeout
	}
}

func WithMaxResponseBytes(limit int64) GraphQLOption {
	return func(a *GraphQLAdapter) {
		if limit > 0 {
			a.HTTP.MaxResponseBodyBytes = limit
		}
	}
}

// GraphQLAdapter posts GraphQL documents to a single endpoint. The document,
// operation name and variables travel in the request metadata; see
// NewGraphQLRequest.
type GraphQLAdapter struct {
	Endpoint string
	Timeout  time.Duration
	HTTP     *HTTPAdapter
}

func NewGraphQLAdapter(endpoint string, client HTTPDoer, opts ...GraphQLOption) *GraphQLAdapter {
	adapter := &GraphQLAdapter{
		Endpoint: strings.TrimSpace(endpoint),
		HTTP:     NewHTTPAdapter(client),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(adapter)
		}
	}
	return adapter
}

// NewGraphQLRequest packs a named document and its variables into a
// transport request understood by GraphQLAdapter.
func NewGraphQLRequest(operationName string, query string, variables map[string]any) core.TransportRequest {
	metadata := map[string]any{
		metadataQuery:         query,
		metadataOperationName: operationName,
	}
	if variables != nil {
		metadata[metadataVariables] = variables
	}
	return core.TransportRequest{Method: http.MethodPost, Metadata: metadata}
}

func (*GraphQLAdapter) Kind() string {
	return KindGraphQL
}

func (a *GraphQLAdapter) Do(ctx context.Context, req core.TransportRequest) (core.TransportResponse, error) {
	if a == nil || a.HTTP == nil {
		return core.TransportResponse{}, adapterError(
			nil,
			goerrors.CategoryInternal,
			"transport: graphql adapter requires an http adapter",
			http.StatusInternalServerError,
			map[string]any{"adapter": KindGraphQL},
		)
	}

	endpoint := strings.TrimSpace(req.URL)
	if endpoint == "" {
		endpoint = a.Endpoint
	}
	if endpoint == "" {
		return core.TransportResponse{}, adapterError(
			nil,
			goerrors.CategoryBadInput,
			"transport: graphql endpoint is required",
			http.StatusBadRequest,
			map[string]any{"adapter": KindGraphQL},
		)
	}

	query, ok := readGraphQLQuery(req)
	if !ok {
		return core.TransportResponse{}, adapterError(
			nil,
			goerrors.CategoryBadInput,
			"transport: graphql query is required",
			http.StatusBadRequest,
			map[string]any{"adapter": KindGraphQL, "endpoint": endpoint},
		)
	}
	payload := map[string]any{"query": query}
	operationName := readGraphQLOperationName(req.Metadata)
	if operationName != "" {
		payload["operationName"] = operationName
	}
	if variables, ok := req.Metadata[metadataVariables].(map[string]any); ok {
		payload["variables"] = variables
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return core.TransportResponse{}, adapterError(
			err,
			goerrors.CategoryBadInput,
			"transport: marshal graphql payload",
			http.StatusBadRequest,
			map[string]any{"adapter": KindGraphQL, "operation": operationName},
		)
	}

	headers := map[string]string{
		"Content-Type": "application/json",
		"Accept":       "application/json",
	}
	for key, value := range req.Headers {
		headers[key] = value
	}
	timeout := req.Timeout
	if timeout <= 0 {
		timeout = a.Timeout
	}

	response, err := a.HTTP.Do(ctx, core.TransportRequest{
		Method:               http.MethodPost,
		URL:                  endpoint,
		Headers:              headers,
		Body:                 body,
		Metadata:             req.Metadata,
		Timeout:              timeout,
		MaxResponseBodyBytes: req.MaxResponseBodyBytes,
	})
	if err != nil {
		return core.TransportResponse{}, adapterError(
			err,
			goerrors.CategoryExternal,
			"transport: graphql request failed",
			http.StatusBadGateway,
			map[string]any{"adapter": KindGraphQL, "operation": operationName},
		)
	}
	if response.Metadata == nil {
		response.Metadata = map[string]any{}
	}
	response.Metadata["kind"] = KindGraphQL
	if operationName != "" {
		response.Metadata["operation"] = operationName
	}
	return response, nil
}

func readGraphQLQuery(req core.TransportRequest) (string, bool) {
	query := metadataString(req.Metadata, metadataQuery)
	return query, query != ""
}

func readGraphQLOperationName(metadata map[string]any) string {
	return metadataString(metadata, metadataOperationName)
}

func metadataString(metadata map[string]any, key string) string {
	if len(metadata) == 0 {
		return ""
	}
	value, ok := metadata[key]
	if !ok || value == nil {
		return ""
	}
	return strings.TrimSpace(fmt.Sprint(value))
}

var _ core.TransportAdapter = (*GraphQLAdapter)(nil)
