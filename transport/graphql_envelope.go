package transport

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/goliatone/go-cancel-accounts/core"
	goerrors "github.com/goliatone/go-errors"
)

type GraphQLError struct {
	Message    string         `json:"message"`
	Path       []any          `json:"path,omitempty"`
	Extensions map[string]any `json:"extensions,omitempty"`
}

// GraphQLEnvelope is the top level of a GraphQL response body.
type GraphQLEnvelope struct {
	Data   json.RawMessage `json:"data"`
	Errors []GraphQLError  `json:"errors"`
}

func (e GraphQLEnvelope) HasErrors() bool {
	return len(e.Errors) > 0
}

func (e GraphQLEnvelope) ErrorMessages() []string {
	messages := make([]string, 0, len(e.Errors))
	for _, item := range e.Errors {
		if message := strings.TrimSpace(item.Message); message != "" {
			messages = append(messages, message)
		}
	}
	return messages
}

func (e GraphQLEnvelope) HasData() bool {
	data := strings.TrimSpace(string(e.Data))
	return data != "" && data != "null"
}

// DecodeGraphQLResponse checks the HTTP status and decodes the response body.
// GraphQL level errors are left on the envelope for the caller to inspect.
func DecodeGraphQLResponse(res core.TransportResponse) (GraphQLEnvelope, error) {
	if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
		return GraphQLEnvelope{}, adapterError(
			nil,
			goerrors.CategoryExternal,
			fmt.Sprintf("transport: graphql endpoint returned status %d", res.StatusCode),
			http.StatusBadGateway,
			map[string]any{
				"adapter":     KindGraphQL,
				"status_code": res.StatusCode,
				"body":        truncateBody(res.Body, 512),
			},
		)
	}
	var envelope GraphQLEnvelope
	if err := json.Unmarshal(res.Body, &envelope); err != nil {
		return GraphQLEnvelope{}, adapterError(
			err,
			goerrors.CategoryExternal,
			"transport: decode graphql response",
			http.StatusBadGateway,
			map[string]any{"adapter": KindGraphQL, "status_code": res.StatusCode},
		)
	}
	return envelope, nil
}

func truncateBody(body []byte, limit int) string {
	if len(body) <= limit {
		return string(body)
	}
	return string(body[:limit]) + "..."
}
