package devkit

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/goliatone/go-cancel-accounts/core"
)

// Reply is one scripted answer of a FakeEndpoint.
type Reply struct {
	Status int
	Body   string
	Err    error
}

// Data answers 200 with body as the GraphQL document.
func Data(body string) Reply {
	return Reply{Status: http.StatusOK, Body: body}
}

// Errors answers 200 with a null data member and one error per message.
func Errors(messages ...string) Reply {
	parts := make([]string, 0, len(messages))
	for _, message := range messages {
		parts = append(parts, fmt.Sprintf(`{"message":%q}`, message))
	}
	return Data(`{"data":null,"errors":[` + strings.Join(parts, ",") + `]}`)
}

func Status(code int, body string) Reply {
	return Reply{Status: code, Body: body}
}

// Unreachable fails the exchange before any response exists.
func Unreachable(err error) Reply {
	return Reply{Err: err}
}

// GraphQLCall is what the account client asked for on one exchange.
type GraphQLCall struct {
	OperationName string
	Query         string
	Variables     map[string]any
}

// FakeEndpoint stands in for the administration GraphQL endpoint. Replies are
// consumed in order and the last one keeps answering once they run out.
type FakeEndpoint struct {
	mu      sync.Mutex
	replies []Reply
	calls   []GraphQLCall
}

func NewFakeEndpoint(replies ...Reply) *FakeEndpoint {
	return &FakeEndpoint{replies: append([]Reply(nil), replies...)}
}

func (*FakeEndpoint) Kind() string {
	return "graphql"
}

func (e *FakeEndpoint) Do(_ context.Context, req core.TransportRequest) (core.TransportResponse, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.calls = append(e.calls, callFromRequest(req))
	reply := Data(`{"data":{}}`)
	switch n := len(e.calls) - 1; {
	case n < len(e.replies):
		reply = e.replies[n]
	case len(e.replies) > 0:
		reply = e.replies[len(e.replies)-1]
	}
	if reply.Err != nil {
		return core.TransportResponse{}, reply.Err
	}
	return core.TransportResponse{
		StatusCode: reply.Status,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       []byte(reply.Body),
	}, nil
}

func (e *FakeEndpoint) Calls() []GraphQLCall {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]GraphQLCall(nil), e.calls...)
}

func callFromRequest(req core.TransportRequest) GraphQLCall {
	call := GraphQLCall{Variables: map[string]any{}}
	call.OperationName, _ = req.Metadata["operation_name"].(string)
	call.Query, _ = req.Metadata["query"].(string)
	if vars, ok := req.Metadata["variables"].(map[string]any); ok {
		for key, value := range vars {
			call.Variables[key] = value
		}
	}
	return call
}

var _ core.TransportAdapter = (*FakeEndpoint)(nil)
