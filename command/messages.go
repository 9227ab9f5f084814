package command

import (
	"strings"

	"github.com/goliatone/go-cancel-accounts/core"
)

const (
	TypeCancelAccount = "accounts.command.cancel"
	TypeRevokeShare   = "accounts.command.share.revoke"
)

type CancelAccountMessage struct {
	AccountID core.AccountID
}

func (CancelAccountMessage) Type() string { return TypeCancelAccount }

func (m CancelAccountMessage) Validate() error {
	if !m.AccountID.Valid() {
		return core.NewMessageValidationError(TypeCancelAccount, "account_id", "account id must be positive")
	}
	return nil
}

type RevokeShareMessage struct {
	ShareID string
	// AccountID is the account the share belongs to; informational only.
	AccountID core.AccountID
}

func (RevokeShareMessage) Type() string { return TypeRevokeShare }

func (m RevokeShareMessage) Validate() error {
	if strings.TrimSpace(m.ShareID) == "" {
		return core.NewMessageValidationError(TypeRevokeShare, "share_id", "share id is required")
	}
	return nil
}
