package query

import "github.com/goliatone/go-cancel-accounts/core"

const (
	TypeListCanceledAccounts = "accounts.query.canceled.list"
	TypeGetAccountShares     = "accounts.query.shares.get"
)

type ListCanceledAccountsMessage struct {
	IsCanceled bool
}

func (ListCanceledAccountsMessage) Type() string { return TypeListCanceledAccounts }

func (ListCanceledAccountsMessage) Validate() error { return nil }

type GetAccountSharesMessage struct {
	AccountID core.AccountID
}

func (GetAccountSharesMessage) Type() string { return TypeGetAccountShares }

func (m GetAccountSharesMessage) Validate() error {
	if !m.AccountID.Valid() {
		return core.NewMessageValidationError(TypeGetAccountShares, "account_id", "account id must be positive")
	}
	return nil
}
