package accountapi

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/goliatone/go-cancel-accounts/core"
	"github.com/goliatone/go-cancel-accounts/transport"
)

type Option func(*Client)

func WithLogger(logger core.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

func WithLoggerProvider(provider core.LoggerProvider) Option {
	return func(c *Client) {
		if provider != nil {
			c.loggerProvider = provider
		}
	}
}

// Client runs the account management documents against a GraphQL transport.
type Client struct {
	transport      core.TransportAdapter
	logger         core.Logger
	loggerProvider core.LoggerProvider
}

func NewClient(adapter core.TransportAdapter, opts ...Option) (*Client, error) {
	if adapter == nil {
		return nil, core.NewInternalError("accountapi: transport adapter is required")
	}
	client := &Client{transport: adapter}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	client.logger = core.ResolveLogger("accountapi", client.loggerProvider, client.logger)
	return client, nil
}

// execute sends doc and returns the raw data member. Transport faults, non-2xx
// statuses and GraphQL errors are reported as remote operation failures.
func (c *Client) execute(
	ctx context.Context,
	doc document,
	variables map[string]any,
	fields map[string]any,
) (json.RawMessage, error) {
	if c == nil || c.transport == nil {
		return nil, core.NewInternalError("accountapi: client is not configured")
	}
	startedAt := time.Now()
	fields = core.MergeFields(fields, map[string]any{"operation": doc.operation})

	res, err := c.transport.Do(ctx, transport.NewGraphQLRequest(doc.name, doc.query, variables))
	if err != nil {
		return nil, core.NewRemoteOperationError(err, doc.operation, fields)
	}
	envelope, err := transport.DecodeGraphQLResponse(res)
	if err != nil {
		return nil, core.NewRemoteOperationError(err, doc.operation, core.MergeFields(fields, map[string]any{
			"status_code": res.StatusCode,
		}))
	}
	if envelope.HasErrors() {
		messages := envelope.ErrorMessages()
		return nil, core.NewRemoteOperationError(nil, doc.operation, core.MergeFields(fields, map[string]any{
			"graphql_errors": strings.Join(messages, "; "),
		}))
	}

	core.LogEvent(ctx, c.logger, core.LevelDebug, "graphql operation completed", core.MergeFields(fields, map[string]any{
		"document":    doc.name,
		"duration_ms": time.Since(startedAt).Milliseconds(),
	}))
	if !envelope.HasData() {
		return nil, core.NewResponseShapeError(doc.operation, "data", fields)
	}
	return envelope.Data, nil
}

func decodeData(doc document, data json.RawMessage, target any, fields map[string]any) error {
	if err := json.Unmarshal(data, target); err != nil {
		return core.NewResponseShapeError(doc.operation, "data", core.MergeFields(fields, map[string]any{
			"document":     doc.name,
			"decode_error": err.Error(),
		}))
	}
	return nil
}
