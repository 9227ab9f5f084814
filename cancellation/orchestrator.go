package cancellation

import (
	"context"
	"time"

	"github.com/goliatone/go-cancel-accounts/core"
	"github.com/google/uuid"
)

type Option func(*Orchestrator)

func WithLogger(logger core.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

func WithLoggerProvider(provider core.LoggerProvider) Option {
	return func(o *Orchestrator) {
		if provider != nil {
			o.loggerProvider = provider
		}
	}
}

// WithDryRun keeps reads but replaces revoke and cancel calls with log lines.
func WithDryRun(enabled bool) Option {
	return func(o *Orchestrator) {
		o.DryRun = enabled
	}
}

func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) {
		if now != nil {
			o.Now = now
		}
	}
}

func WithRunIDGenerator(next func() string) Option {
	return func(o *Orchestrator) {
		if next != nil {
			o.NewRunID = next
		}
	}
}

// Orchestrator walks the target accounts one at a time: skip the already
// canceled ones, revoke shares, then cancel. Every remote call is admitted by
// the limiter first.
type Orchestrator struct {
	Operations core.AccountOperations
	Limiter    core.RateLimiter
	DryRun     bool
	Now        func() time.Time
	NewRunID   func() string

	logger         core.Logger
	loggerProvider core.LoggerProvider
}

func NewOrchestrator(ops core.AccountOperations, limiter core.RateLimiter, opts ...Option) (*Orchestrator, error) {
	if ops == nil {
		return nil, core.NewInternalError("cancellation: account operations are required")
	}
	if limiter == nil {
		return nil, core.NewInternalError("cancellation: rate limiter is required")
	}
	o := &Orchestrator{
		Operations: ops,
		Limiter:    limiter,
		Now:        func() time.Time { return time.Now().UTC() },
		NewRunID:   uuid.NewString,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	o.logger = core.ResolveLogger("cancellation", o.loggerProvider, o.logger)
	return o, nil
}

// Run processes targets in order. It fails only when the limiter refuses or
// ctx is done. Remote failures, including the canceled-account lookup, are
// logged and recorded in the report.
func (o *Orchestrator) Run(ctx context.Context, targets []core.AccountID) (Report, error) {
	if o == nil || o.Operations == nil || o.Limiter == nil {
		return Report{}, core.NewInternalError("cancellation: orchestrator is not configured")
	}
	report := Report{
		RunID:     o.NewRunID(),
		DryRun:    o.DryRun,
		StartedAt: o.now(),
		Requested: len(targets),
		Outcomes:  []AccountOutcome{},
	}
	base := map[string]any{"run_id": report.RunID}
	o.log(ctx, core.LevelInfo, "cancellation run started", core.MergeFields(base, map[string]any{
		"accounts": len(targets),
		"dry_run":  o.DryRun,
	}))

	err := o.run(ctx, targets, &report, base)
	report.FinishedAt = o.now()
	if err != nil {
		o.log(ctx, core.LevelError, "cancellation run aborted", core.MergeFields(base, core.ErrorFields(err)))
	}
	o.log(ctx, core.LevelInfo, "cancellation run finished", report.Fields())
	return report, err
}

func (o *Orchestrator) run(ctx context.Context, targets []core.AccountID, report *Report, base map[string]any) error {
	if len(targets) == 0 {
		o.log(ctx, core.LevelInfo, "no accounts to cancel", base)
		return nil
	}

	if err := o.Limiter.Admit(ctx); err != nil {
		return err
	}
	canceled := core.ResultOf(o.Operations.ListCanceled(ctx, true))
	exclude := canceled.Value
	if canceled.Failed() {
		report.CanceledLookupFailed = true
		exclude = nil
		o.log(ctx, core.LevelWarn, "canceled account lookup failed, processing every target", core.MergeFields(base,
			map[string]any{"operation": "list_canceled"}, core.ErrorFields(canceled.Err)))
	}
	remaining := core.FilterAccounts(targets, exclude)
	report.AlreadyCanceled = core.FilterAccounts(targets, remaining)
	for _, id := range report.AlreadyCanceled {
		o.log(ctx, core.LevelInfo, "account already canceled, skipping", core.MergeFields(base, map[string]any{
			"account_id": id.String(),
		}))
	}

	for _, id := range remaining {
		if err := ctx.Err(); err != nil {
			report.Interrupted = true
			return err
		}
		outcome, err := o.processAccount(ctx, id, base)
		if err != nil {
			report.Interrupted = true
			return err
		}
		report.Outcomes = append(report.Outcomes, outcome)
	}
	return nil
}

// processAccount only returns an error when the limiter refuses admission.
func (o *Orchestrator) processAccount(ctx context.Context, id core.AccountID, base map[string]any) (AccountOutcome, error) {
	fields := core.MergeFields(base, map[string]any{"account_id": id.String()})
	outcome := AccountOutcome{AccountID: id}

	if err := o.Limiter.Admit(ctx); err != nil {
		return outcome, err
	}
	shares := core.ResultOf(o.Operations.GetShares(ctx, id))
	if shares.Failed() {
		outcome.Status = StatusShareCheckFailed
		outcome.Err = shares.Err
		o.log(ctx, core.LevelError, "share lookup failed, account not canceled", core.MergeFields(fields,
			map[string]any{"operation": "get_shares"}, core.ErrorFields(shares.Err)))
		return outcome, nil
	}
	outcome.SharesFound = len(shares.Value)

	for _, share := range shares.Value {
		shareFields := core.MergeFields(fields, map[string]any{"share_id": share.ID, "share_name": share.Name})
		if o.DryRun {
			o.log(ctx, core.LevelInfo, "dry run: would revoke share", shareFields)
			continue
		}
		if err := o.Limiter.Admit(ctx); err != nil {
			return outcome, err
		}
		revoked := core.ResultOf(o.Operations.RevokeShare(ctx, share.ID))
		if revoked.Failed() {
			outcome.RevokeFailed = append(outcome.RevokeFailed, share.ID)
			o.log(ctx, core.LevelError, "share revoke failed", core.MergeFields(shareFields,
				map[string]any{"operation": "revoke_share"}, core.ErrorFields(revoked.Err)))
			continue
		}
		outcome.SharesRevoked++
		o.log(ctx, core.LevelInfo, "share revoked", core.MergeFields(shareFields, map[string]any{
			"target_organization_id": revoked.Value.TargetOrganizationID,
		}))
	}

	if o.DryRun {
		outcome.Status = StatusDryRun
		o.log(ctx, core.LevelInfo, "dry run: would cancel account", core.MergeFields(fields, map[string]any{
			"shares": outcome.SharesFound,
		}))
		return outcome, nil
	}

	if err := o.Limiter.Admit(ctx); err != nil {
		return outcome, err
	}
	result := core.ResultOf(o.Operations.Cancel(ctx, id))
	outcome.Result = result.Value
	switch {
	case result.Failed():
		outcome.Status = StatusCancelFailed
		outcome.Err = result.Err
		o.log(ctx, core.LevelError, "account cancel failed", core.MergeFields(fields,
			map[string]any{"operation": "cancel"}, core.ErrorFields(result.Err)))
	case result.Value.Known() && result.Value.Canceled():
		outcome.Status = StatusCanceled
		o.log(ctx, core.LevelInfo, "account canceled", core.MergeFields(fields, map[string]any{
			"name":           *result.Value.Name,
			"revoked_shares": outcome.SharesRevoked,
		}))
	default:
		outcome.Status = StatusCancelUnknown
		o.log(ctx, core.LevelWarn, "account cancel sent, state unconfirmed", fields)
	}
	return outcome, nil
}

func (o *Orchestrator) now() time.Time {
	if o.Now != nil {
		return o.Now().UTC()
	}
	return time.Now().UTC()
}

func (o *Orchestrator) log(ctx context.Context, level string, message string, fields map[string]any) {
	core.LogEvent(ctx, o.logger, level, message, fields)
}
