package accountapi

import (
	"context"
	"strings"

	"github.com/goliatone/go-cancel-accounts/core"
)

type managedAccountRow struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	IsCanceled bool   `json:"isCanceled"`
	RegionCode string `json:"regionCode"`
}

type canceledAccountsData struct {
	Actor *struct {
		Organization *struct {
			AccountManagement *struct {
				ManagedAccounts *[]managedAccountRow `json:"managedAccounts"`
			} `json:"accountManagement"`
		} `json:"organization"`
	} `json:"actor"`
}

type shareRow struct {
	AccountID              int64  `json:"accountId"`
	ID                     string `json:"id"`
	Name                   string `json:"name"`
	SourceOrganizationID   string `json:"sourceOrganizationId"`
	SourceOrganizationName string `json:"sourceOrganizationName"`
	TargetOrganizationID   string `json:"targetOrganizationId"`
	TargetOrganizationName string `json:"targetOrganizationName"`
}

func (r shareRow) toShare() core.AccountShare {
	return core.AccountShare{
		ID:                     r.ID,
		AccountID:              core.AccountID(r.AccountID),
		Name:                   r.Name,
		SourceOrganizationID:   r.SourceOrganizationID,
		SourceOrganizationName: r.SourceOrganizationName,
		TargetOrganizationID:   r.TargetOrganizationID,
		TargetOrganizationName: r.TargetOrganizationName,
	}
}

type accountSharesData struct {
	CustomerAdministration *struct {
		AccountShares *struct {
			Items *[]shareRow `json:"items"`
		} `json:"accountShares"`
	} `json:"customerAdministration"`
}

type revokeShareData struct {
	OrganizationRevokeSharedAccount *struct {
		SharedAccount *shareRow `json:"sharedAccount"`
	} `json:"organizationRevokeSharedAccount"`
}

type cancelAccountData struct {
	AccountManagementCancelAccount *struct {
		ID         *int64  `json:"id"`
		IsCanceled *bool   `json:"isCanceled"`
		Name       *string `json:"name"`
	} `json:"accountManagementCancelAccount"`
}

// ListManagedAccounts returns the managed accounts the remote system reports
// for the isCanceled filter.
func (c *Client) ListManagedAccounts(ctx context.Context, isCanceled bool) ([]core.ManagedAccount, error) {
	fields := map[string]any{"is_canceled": isCanceled}
	data, err := c.execute(ctx, getCanceledAccounts, map[string]any{"isCanceled": isCanceled}, fields)
	if err != nil {
		return []core.ManagedAccount{}, asRemoteFailure(OperationListCanceled, err, fields)
	}
	var decoded canceledAccountsData
	if err := decodeData(getCanceledAccounts, data, &decoded, fields); err != nil {
		return []core.ManagedAccount{}, asRemoteFailure(OperationListCanceled, err, fields)
	}
	if decoded.Actor == nil || decoded.Actor.Organization == nil ||
		decoded.Actor.Organization.AccountManagement == nil ||
		decoded.Actor.Organization.AccountManagement.ManagedAccounts == nil {
		return []core.ManagedAccount{}, asRemoteFailure(OperationListCanceled, core.NewResponseShapeError(OperationListCanceled,
			"actor.organization.accountManagement.managedAccounts", fields), fields)
	}
	rows := *decoded.Actor.Organization.AccountManagement.ManagedAccounts
	accounts := make([]core.ManagedAccount, 0, len(rows))
	for _, row := range rows {
		accounts = append(accounts, core.ManagedAccount{
			ID:         core.AccountID(row.ID),
			Name:       row.Name,
			IsCanceled: row.IsCanceled,
			RegionCode: row.RegionCode,
		})
	}
	return accounts, nil
}

// ListCanceled returns the ids of managed accounts the remote system reports
// as canceled. isCanceled is passed through as the remote filter; accounts not
// flagged canceled are never returned. On failure the slice is empty, never nil.
func (c *Client) ListCanceled(ctx context.Context, isCanceled bool) ([]core.AccountID, error) {
	accounts, err := c.ListManagedAccounts(ctx, isCanceled)
	if err != nil {
		return []core.AccountID{}, err
	}
	ids := make([]core.AccountID, 0, len(accounts))
	for _, account := range accounts {
		if !account.IsCanceled {
			continue
		}
		ids = append(ids, account.ID)
	}
	return ids, nil
}

func (c *Client) GetShares(ctx context.Context, accountID core.AccountID) ([]core.AccountShare, error) {
	fields := map[string]any{"account_id": accountID.String()}
	if !accountID.Valid() {
		return nil, core.NewBadInputError("accountapi: account id must be positive", fields)
	}
	data, err := c.execute(ctx, getAccountShares, map[string]any{"accountId": int64(accountID)}, fields)
	if err != nil {
		return nil, asRemoteFailure(OperationGetShares, err, fields)
	}
	var decoded accountSharesData
	if err := decodeData(getAccountShares, data, &decoded, fields); err != nil {
		return nil, asRemoteFailure(OperationGetShares, err, fields)
	}
	if decoded.CustomerAdministration == nil || decoded.CustomerAdministration.AccountShares == nil ||
		decoded.CustomerAdministration.AccountShares.Items == nil {
		return nil, asRemoteFailure(OperationGetShares, core.NewResponseShapeError(OperationGetShares,
			"customerAdministration.accountShares.items", fields), fields)
	}
	items := *decoded.CustomerAdministration.AccountShares.Items
	shares := make([]core.AccountShare, 0, len(items))
	for _, item := range items {
		shares = append(shares, item.toShare())
	}
	return shares, nil
}

func (c *Client) RevokeShare(ctx context.Context, shareID string) (core.AccountShare, error) {
	shareID = strings.TrimSpace(shareID)
	fields := map[string]any{"share_id": shareID}
	if shareID == "" {
		return core.AccountShare{}, core.NewBadInputError("accountapi: share id is required", fields)
	}
	data, err := c.execute(ctx, revokeSharedAccount, map[string]any{"sharedAccountId": shareID}, fields)
	if err != nil {
		return core.AccountShare{}, asRemoteFailure(OperationRevokeShare, err, fields)
	}
	var decoded revokeShareData
	if err := decodeData(revokeSharedAccount, data, &decoded, fields); err != nil {
		return core.AccountShare{}, asRemoteFailure(OperationRevokeShare, err, fields)
	}
	if decoded.OrganizationRevokeSharedAccount == nil || decoded.OrganizationRevokeSharedAccount.SharedAccount == nil {
		return core.AccountShare{}, asRemoteFailure(OperationRevokeShare, core.NewResponseShapeError(OperationRevokeShare,
			"organizationRevokeSharedAccount.sharedAccount", fields), fields)
	}
	return decoded.OrganizationRevokeSharedAccount.SharedAccount.toShare(), nil
}

// Cancel cancels accountID. A response that does not carry the expected
// fields yields the unknown result rather than an error.
func (c *Client) Cancel(ctx context.Context, accountID core.AccountID) (core.CancellationResult, error) {
	fields := map[string]any{"account_id": accountID.String()}
	if !accountID.Valid() {
		return core.UnknownCancellationResult(), core.NewBadInputError("accountapi: account id must be positive", fields)
	}
	data, err := c.execute(ctx, cancelAccount, map[string]any{"id": int64(accountID)}, fields)
	if err != nil {
		if core.IsResponseShapeInvalid(err) {
			c.logUnknownCancellation(ctx, fields, err)
			return core.UnknownCancellationResult(), nil
		}
		return core.UnknownCancellationResult(), err
	}
	var decoded cancelAccountData
	if err := decodeData(cancelAccount, data, &decoded, fields); err != nil || decoded.AccountManagementCancelAccount == nil {
		c.logUnknownCancellation(ctx, fields, err)
		return core.UnknownCancellationResult(), nil
	}

	payload := decoded.AccountManagementCancelAccount
	result := core.CancellationResult{IsCanceled: payload.IsCanceled, Name: payload.Name}
	if payload.ID != nil {
		id := core.AccountID(*payload.ID)
		result.ID = &id
	}
	return result, nil
}

// asRemoteFailure reports a response shape problem as a failed remote
// operation. The shape error stays in the chain.
func asRemoteFailure(operation string, err error, fields map[string]any) error {
	if err == nil || core.TextCode(err) != core.ErrorResponseShapeInvalid {
		return err
	}
	return core.NewRemoteOperationError(err, operation, fields)
}

func (c *Client) logUnknownCancellation(ctx context.Context, fields map[string]any, err error) {
	entry := core.MergeFields(fields, map[string]any{"operation": OperationCancel})
	if err != nil {
		entry = core.MergeFields(entry, core.ErrorFields(err))
	}
	core.LogEvent(ctx, c.logger, core.LevelWarn, "cancel response could not be parsed, result unknown", entry)
}

var _ core.AccountOperations = (*Client)(nil)
