package query

import (
	"github.com/goliatone/go-cancel-accounts/core"
	gocmd "github.com/goliatone/go-command"
)

var (
	_ gocmd.Querier[ListCanceledAccountsMessage, []core.AccountID] = (*ListCanceledAccountsQuery)(nil)
	_ gocmd.Querier[GetAccountSharesMessage, []core.AccountShare]  = (*GetAccountSharesQuery)(nil)
)
