package accountapi

// Operation names used in logs and error metadata.
const (
	OperationListCanceled = "list_canceled"
	OperationGetShares    = "get_shares"
	OperationRevokeShare  = "revoke_share"
	OperationCancel       = "cancel"
)

const cancelAccountDocument = `mutation CancelAccount($id: Int!) {
  accountManagementCancelAccount(id: $id) {
    id
    isCanceled
    name
  }
}`

const getAccountSharesDocument = `query GetAccountShares($accountId: Int!) {
  customerAdministration {
    accountShares(filter: {accountId: {eq: $accountId}}) {
      items {
        accountId
        id
        name
      }
    }
  }
}`

const revokeSharedAccountDocument = `mutation RevokeSharedAccount($sharedAccountId: String!) {
  organizationRevokeSharedAccount(sharedAccount: {id: $sharedAccountId}) {
    sharedAccount {
      accountId
      id
      name
      sourceOrganizationId
      sourceOrganizationName
      targetOrganizationId
      targetOrganizationName
    }
  }
}`

const getCanceledAccountsDocument = `query GetCanceledAccounts($isCanceled: Boolean!) {
  actor {
    organization {
      accountManagement {
        managedAccounts(isCanceled: $isCanceled) {
          id
          name
          isCanceled
          regionCode
        }
      }
    }
  }
}`

type document struct {
	operation string
	name      string
	query     string
}

var (
	cancelAccount       = document{operation: OperationCancel, name: "CancelAccount", query: cancelAccountDocument}
	getAccountShares    = document{operation: OperationGetShares, name: "GetAccountShares", query: getAccountSharesDocument}
	revokeSharedAccount = document{operation: OperationRevokeShare, name: "RevokeSharedAccount", query: revokeSharedAccountDocument}
	getCanceledAccounts = document{operation: OperationListCanceled, name: "GetCanceledAccounts", query: getCanceledAccountsDocument}
)
