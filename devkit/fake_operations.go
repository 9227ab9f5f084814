package devkit

import (
	"context"
	"sync"

	"github.com/goliatone/go-cancel-accounts/core"
)

// CallLog is an ordered record of calls shared between fakes so tests can
// assert the interleaving of admissions and remote operations.
type CallLog struct {
	mu    sync.Mutex
	calls []string
}

func (l *CallLog) Record(call string) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, call)
}

func (l *CallLog) Calls() []string {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.calls...)
}

func (l *CallLog) Count(call string) int {
	count := 0
	for _, item := range l.Calls() {
		if item == call {
			count++
		}
	}
	return count
}

// FakeLimiter admits immediately and records "admit".
type FakeLimiter struct {
	Log *CallLog
	Err error
}

func (l *FakeLimiter) Admit(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	l.Log.Record("admit")
	return l.Err
}

// FakeOperations serves scripted results for the four account operations.
// Calls are recorded as "list_canceled", "get_shares:<id>", "revoke:<share>"
// and "cancel:<id>".
type FakeOperations struct {
	Log *CallLog

	Canceled      []core.AccountID
	ListErr       error
	Shares        map[core.AccountID][]core.AccountShare
	SharesErr     map[core.AccountID]error
	RevokeErr     map[string]error
	CancelErr     map[core.AccountID]error
	CancelResults map[core.AccountID]core.CancellationResult
}

func NewFakeOperations(log *CallLog) *FakeOperations {
	return &FakeOperations{
		Log:           log,
		Shares:        map[core.AccountID][]core.AccountShare{},
		SharesErr:     map[core.AccountID]error{},
		RevokeErr:     map[string]error{},
		CancelErr:     map[core.AccountID]error{},
		CancelResults: map[core.AccountID]core.CancellationResult{},
	}
}

func (f *FakeOperations) ListCanceled(_ context.Context, _ bool) ([]core.AccountID, error) {
	f.Log.Record("list_canceled")
	if f.ListErr != nil {
		return []core.AccountID{}, f.ListErr
	}
	return append([]core.AccountID{}, f.Canceled...), nil
}

func (f *FakeOperations) GetShares(_ context.Context, accountID core.AccountID) ([]core.AccountShare, error) {
	f.Log.Record("get_shares:" + accountID.String())
	if err := f.SharesErr[accountID]; err != nil {
		return nil, err
	}
	return append([]core.AccountShare(nil), f.Shares[accountID]...), nil
}

func (f *FakeOperations) RevokeShare(_ context.Context, shareID string) (core.AccountShare, error) {
	f.Log.Record("revoke:" + shareID)
	if err := f.RevokeErr[shareID]; err != nil {
		return core.AccountShare{}, err
	}
	for _, shares := range f.Shares {
		for _, share := range shares {
			if share.ID == shareID {
				return share, nil
			}
		}
	}
	return core.AccountShare{ID: shareID}, nil
}

func (f *FakeOperations) Cancel(_ context.Context, accountID core.AccountID) (core.CancellationResult, error) {
	f.Log.Record("cancel:" + accountID.String())
	if err := f.CancelErr[accountID]; err != nil {
		return core.UnknownCancellationResult(), err
	}
	if result, ok := f.CancelResults[accountID]; ok {
		return result, nil
	}
	id := accountID
	canceled := true
	name := "account " + accountID.String()
	return core.CancellationResult{ID: &id, IsCanceled: &canceled, Name: &name}, nil
}

var (
	_ core.RateLimiter       = (*FakeLimiter)(nil)
	_ core.AccountOperations = (*FakeOperations)(nil)
)
