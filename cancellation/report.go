package cancellation

import (
	"time"

	"github.com/goliatone/go-cancel-accounts/core"
)

type AccountStatus string

const (
	StatusCanceled         AccountStatus = "canceled"
	StatusCancelUnknown    AccountStatus = "cancel_unknown"
	StatusCancelFailed     AccountStatus = "cancel_failed"
	StatusShareCheckFailed AccountStatus = "share_check_failed"
	StatusDryRun           AccountStatus = "dry_run"
)

// AccountOutcome is what happened to one account during a run.
type AccountOutcome struct {
	AccountID     core.AccountID
	Status        AccountStatus
	SharesFound   int
	SharesRevoked int
	RevokeFailed  []string
	Result        core.CancellationResult
	Err           error
}

// Report summarises a run. It lives in memory only.
type Report struct {
	RunID           string
	DryRun          bool
	StartedAt       time.Time
	FinishedAt      time.Time
	Requested       int
	AlreadyCanceled []core.AccountID
	Outcomes        []AccountOutcome
	Interrupted     bool
	// CanceledLookupFailed is set when no account could be skipped because the
	// canceled-account lookup failed.
	CanceledLookupFailed bool
}

func (r Report) Count(status AccountStatus) int {
	count := 0
	for _, outcome := range r.Outcomes {
		if outcome.Status == status {
			count++
		}
	}
	return count
}

func (r Report) Pending() int {
	return r.Requested - len(r.AlreadyCanceled)
}

func (r Report) Fields() map[string]any {
	fields := map[string]any{
		"run_id":             r.RunID,
		"dry_run":            r.DryRun,
		"requested":          r.Requested,
		"already_canceled":   len(r.AlreadyCanceled),
		"processed":          len(r.Outcomes),
		"canceled":           r.Count(StatusCanceled),
		"cancel_unknown":     r.Count(StatusCancelUnknown),
		"cancel_failed":      r.Count(StatusCancelFailed),
		"share_check_failed": r.Count(StatusShareCheckFailed),
		"interrupted":        r.Interrupted,
	}
	if r.CanceledLookupFailed {
		fields["canceled_lookup_failed"] = true
	}
	if r.DryRun {
		fields["would_cancel"] = r.Count(StatusDryRun)
	}
	if !r.StartedAt.IsZero() && !r.FinishedAt.IsZero() {
		fields["duration_ms"] = r.FinishedAt.Sub(r.StartedAt).Milliseconds()
	}
	return fields
}
