package core

import (
	"context"
	"time"

	glog "github.com/goliatone/go-logger/glog"
)

type Logger = glog.Logger

type LoggerProvider = glog.LoggerProvider

type FieldsLogger = glog.FieldsLogger

type TransportRequest struct {
	Method               string
	URL                  string
	Headers              map[string]string
	Body                 []byte
	Metadata             map[string]any
	Timeout              time.Duration
	MaxResponseBodyBytes int64
}

type TransportResponse struct {
	StatusCode int
	Headers    map[string]string
	Body       []byte
	Metadata   map[string]any
}

type TransportAdapter interface {
	Kind() string
	Do(ctx context.Context, req TransportRequest) (TransportResponse, error)
}

// RateLimiter paces outbound calls. Admit blocks until a call may proceed.
type RateLimiter interface {
	Admit(ctx context.Context) error
}

// AccountSource loads the ids of the accounts a run should cancel.
type AccountSource interface {
	ReadIDs(ctx context.Context) ([]AccountID, error)
}

// AccountOperations are the four remote operations a cancellation run needs.
type AccountOperations interface {
	ListCanceled(ctx context.Context, isCanceled bool) ([]AccountID, error)
	GetShares(ctx context.Context, accountID AccountID) ([]AccountShare, error)
	RevokeShare(ctx context.Context, shareID string) (AccountShare, error)
	Cancel(ctx context.Context, accountID AccountID) (CancellationResult, error)
}
