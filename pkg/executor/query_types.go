package executor

import "github.com/lebdron/iroha/pkg/wsv"

// Query carries a read request with its creator and the hash of the original
// signed query, echoed back in every error response.
type Query struct {
	CreatorID string
	Hash      string
	Payload   QueryPayload
}

// QueryPayload is the closed sum type of supported reads.
type QueryPayload interface {
	Name() string
}

type GetAccount struct {
	AccountID string
}

type GetSignatories struct {
	AccountID string
}

type GetRolePermissions struct {
	RoleID string
}

// AssetPagination narrows a GetAccountAssets scan. FirstAssetID positions
// the scan; PageSize caps the number of returned entries.
type AssetPagination struct {
	FirstAssetID string
	PageSize     uint32
}

type GetAccountAssets struct {
	AccountID  string
	Pagination *AssetPagination
}

type GetRoles struct{}

type GetAssetInfo struct {
	AssetID string
}

type GetAccountDetail struct {
	AccountID string
	Key       string
	Writer    string
}

type GetPeers struct{}

type GetBlock struct {
	Height uint64
}

type GetPendingTransactions struct{}

type GetEngineReceipts struct {
	TxHash string
}

func (GetAccount) Name() string             { return "GetAccount" }
func (GetSignatories) Name() string         { return "GetSignatories" }
func (GetRolePermissions) Name() string     { return "GetRolePermissions" }
func (GetAccountAssets) Name() string       { return "GetAccountAssets" }
func (GetRoles) Name() string               { return "GetRoles" }
func (GetAssetInfo) Name() string           { return "GetAssetInfo" }
func (GetAccountDetail) Name() string       { return "GetAccountDetail" }
func (GetPeers) Name() string               { return "GetPeers" }
func (GetBlock) Name() string               { return "GetBlock" }
func (GetPendingTransactions) Name() string { return "GetPendingTransactions" }
func (GetEngineReceipts) Name() string      { return "GetEngineReceipts" }

// QueryResponse is implemented by every query result, including errors.
type QueryResponse interface {
	queryResponse()
}

// ErrorReason classifies failed queries.
type ErrorReason int

const (
	ReasonStatefulFailed ErrorReason = iota
	ReasonNoAccount
	ReasonNoSignatories
	ReasonNoRoles
	ReasonNotSupported
)

func (r ErrorReason) String() string {
	switch r {
	case ReasonStatefulFailed:
		return "StatefulFailed"
	case ReasonNoAccount:
		return "NoAccount"
	case ReasonNoSignatories:
		return "NoSignatories"
	case ReasonNoRoles:
		return "NoRoles"
	case ReasonNotSupported:
		return "NotSupported"
	}
	return "Unknown"
}

// ErrorResponse reports a failed query together with the original query hash.
type ErrorResponse struct {
	Reason    ErrorReason
	Detail    string
	Code      int
	QueryHash string
}

type AccountResponse struct {
	AccountID  string
	DomainID   string
	Quorum     uint64
	JSONDetail string
	Roles      []string
}

type SignatoriesResponse struct {
	Keys []string
}

type RolePermissionsResponse struct {
	Permissions wsv.RolePermissionSet
}

type AccountAsset struct {
	AccountID string
	AssetID   string
	Balance   wsv.Amount
}

type AccountAssetsResponse struct {
	Assets      []AccountAsset
	TotalCount  uint64
	NextAssetID string
}

func (*ErrorResponse) queryResponse()           {}
func (*AccountResponse) queryResponse()         {}
func (*SignatoriesResponse) queryResponse()     {}
func (*RolePermissionsResponse) queryResponse() {}
func (*AccountAssetsResponse) queryResponse()   {}
