package query

import (
	"context"

	"github.com/goliatone/go-cancel-accounts/core"
)

type AccountReader interface {
	ListCanceled(ctx context.Context, isCanceled bool) ([]core.AccountID, error)
	GetShares(ctx context.Context, accountID core.AccountID) ([]core.AccountShare, error)
}

type ListCanceledAccountsQuery struct {
	reader AccountReader
}

func NewListCanceledAccountsQuery(reader AccountReader) *ListCanceledAccountsQuery {
	return &ListCanceledAccountsQuery{reader: reader}
}

func (q *ListCanceledAccountsQuery) Query(
	ctx context.Context,
	msg ListCanceledAccountsMessage,
) ([]core.AccountID, error) {
	if q == nil || q.reader == nil {
		return []core.AccountID{}, core.NewInternalError("query: account reader is required")
	}
	return q.reader.ListCanceled(ctx, msg.IsCanceled)
}

type GetAccountSharesQuery struct {
	reader AccountReader
}

func NewGetAccountSharesQuery(reader AccountReader) *GetAccountSharesQuery {
	return &GetAccountSharesQuery{reader: reader}
}

func (q *GetAccountSharesQuery) Query(ctx context.Context, msg GetAccountSharesMessage) ([]core.AccountShare, error) {
	if q == nil || q.reader == nil {
		return nil, core.NewInternalError("query: account reader is required")
	}
	if err := msg.Validate(); err != nil {
		return nil, err
	}
	return q.reader.GetShares(ctx, msg.AccountID)
}
