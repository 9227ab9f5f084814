package core

import (
	"strconv"
	"strings"
)

// AccountID identifies a managed account on the remote administration API.
type AccountID int64

func (id AccountID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

func (id AccountID) Valid() bool {
	return id > 0
}

// ParseAccountID converts a raw identifier (as found in an account list) into
// an AccountID. Surrounding whitespace is ignored.
func ParseAccountID(raw string) (AccountID, error) {
	value, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, err
	}
	return AccountID(value), nil
}

// AccountShare is a cross-organization sharing relationship on an account.
// Shares are created by the remote system and must be revoked before the
// account can be canceled.
type AccountShare struct {
	ID                     string
	AccountID              AccountID
	Name                   string
	SourceOrganizationID   string
	SourceOrganizationName string
	TargetOrganizationID   string
	TargetOrganizationName string
}

// CancellationResult is the post-cancellation state reported by the remote
// system. A nil field means the response did not carry it.
type CancellationResult struct {
	ID         *AccountID
	IsCanceled *bool
	Name       *string
}

func UnknownCancellationResult() CancellationResult {
	return CancellationResult{}
}

func (r CancellationResult) Known() bool {
	return r.ID != nil && r.IsCanceled != nil && r.Name != nil
}

func (r CancellationResult) Canceled() bool {
	return r.IsCanceled != nil && *r.IsCanceled
}

type ManagedAccount struct {
	ID         AccountID
	Name       string
	IsCanceled bool
	RegionCode string
}

// FilterAccounts returns the targets that are not members of exclude, in their
// original order.
func FilterAccounts(targets []AccountID, exclude []AccountID) []AccountID {
	skip := make(map[AccountID]struct{}, len(exclude))
	for _, id := range exclude {
		skip[id] = struct{}{}
	}
	out := make([]AccountID, 0, len(targets))
	for _, id := range targets {
		if _, ok := skip[id]; ok {
			continue
		}
		out = append(out, id)
	}
	return out
}
