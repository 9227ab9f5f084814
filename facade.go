package cancelaccounts

import (
	"context"

	accountscommand "github.com/goliatone/go-cancel-accounts/command"
	"github.com/goliatone/go-cancel-accounts/core"
	accountsquery "github.com/goliatone/go-cancel-accounts/query"
	gocmd "github.com/goliatone/go-command"
)

type CommandQueryService interface {
	accountscommand.MutatingService
	accountsquery.AccountReader
}

type Commands struct {
	CancelAccount *accountscommand.CancelAccountCommand
	RevokeShare   *accountscommand.RevokeShareCommand
}

type Queries struct {
	ListCanceledAccounts *accountsquery.ListCanceledAccountsQuery
	GetAccountShares     *accountsquery.GetAccountSharesQuery
}

// Facade exposes the account operations through the command and query
// handlers, so every call is validated as a message before it reaches the
// remote API.
type Facade struct {
	service  CommandQueryService
	commands Commands
	queries  Queries
}

func NewFacade(service CommandQueryService) (*Facade, error) {
	if service == nil {
		return nil, core.NewInternalError("cancelaccounts: command/query service is required")
	}
	facade := &Facade{service: service}
	facade.commands = Commands{
		CancelAccount: accountscommand.NewCancelAccountCommand(service),
		RevokeShare:   accountscommand.NewRevokeShareCommand(service),
	}
	facade.queries = Queries{
		ListCanceledAccounts: accountsquery.NewListCanceledAccountsQuery(service),
		GetAccountShares:     accountsquery.NewGetAccountSharesQuery(service),
	}
	return facade, nil
}

func (f *Facade) Commands() Commands {
	if f == nil {
		return Commands{}
	}
	return f.commands
}

func (f *Facade) Queries() Queries {
	if f == nil {
		return Queries{}
	}
	return f.queries
}

func (f *Facade) Service() CommandQueryService {
	if f == nil {
		return nil
	}
	return f.service
}

func (f *Facade) ListCanceled(ctx context.Context, isCanceled bool) ([]core.AccountID, error) {
	ids, err := f.Queries().ListCanceledAccounts.Query(ctx, accountsquery.ListCanceledAccountsMessage{IsCanceled: isCanceled})
	if ids == nil {
		ids = []core.AccountID{}
	}
	return ids, err
}

func (f *Facade) GetShares(ctx context.Context, accountID core.AccountID) ([]core.AccountShare, error) {
	return f.Queries().GetAccountShares.Query(ctx, accountsquery.GetAccountSharesMessage{AccountID: accountID})
}

func (f *Facade) RevokeShare(ctx context.Context, shareID string) (core.AccountShare, error) {
	collector := gocmd.NewResult[core.AccountShare]()
	err := f.Commands().RevokeShare.Execute(gocmd.ContextWithResult(ctx, collector), accountscommand.RevokeShareMessage{
		ShareID: shareID,
	})
	if err != nil {
		return core.AccountShare{}, err
	}
	return revokedShare(collector)
}

// revokedShare reads the share stored by the revoke command. An empty
// collector means the command reported success without a result.
func revokedShare(collector interface {
	Load() (core.AccountShare, bool)
}) (core.AccountShare, error) {
	share, ok := collector.Load()
	if !ok {
		return core.AccountShare{}, core.NewInternalError("facade: revoke share command stored no result")
	}
	return share, nil
}

func (f *Facade) Cancel(ctx context.Context, accountID core.AccountID) (core.CancellationResult, error) {
	collector := gocmd.NewResult[core.CancellationResult]()
	err := f.Commands().CancelAccount.Execute(gocmd.ContextWithResult(ctx, collector), accountscommand.CancelAccountMessage{
		AccountID: accountID,
	})
	if err != nil {
		return core.UnknownCancellationResult(), err
	}
	result, ok := collector.Load()
	if !ok {
		return core.UnknownCancellationResult(), nil
	}
	return result, nil
}

var _ core.AccountOperations = (*Facade)(nil)
