package executor

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lebdron/iroha/pkg/db"
	"github.com/lebdron/iroha/pkg/wsv"
)

// QueryExecutor runs read-only queries against the world state view. Every
// error response carries the original query hash so clients can correlate.
// Not safe for concurrent use.
type QueryExecutor struct {
	common *wsv.Common
}

func NewQueryExecutor(tx *db.Transaction) *QueryExecutor {
	return &QueryExecutor{
		common: wsv.NewCommon(tx),
	}
}

func (e *QueryExecutor) Execute(query Query) QueryResponse {
	creatorName, creatorDomain, err := wsv.ParseID(query.CreatorID)
	if err != nil {
		return e.errorResponse(query, ReasonStatefulFailed, err.Error(), 1)
	}
	if err := e.common.Get(wsv.KeyPermissions, creatorDomain, creatorName); err != nil {
		return e.errorResponse(query, ReasonStatefulFailed, err.Error(), 1)
	}
	creatorPermissions, err := wsv.ParseRolePermissionSet(string(e.common.Value()))
	if err != nil {
		return e.errorResponse(query, ReasonStatefulFailed, err.Error(), 1)
	}

	switch q := query.Payload.(type) {
	case GetAccount:
		return e.getAccount(query, q, creatorDomain, creatorPermissions)
	case GetSignatories:
		return e.getSignatories(query, q, creatorDomain, creatorPermissions)
	case GetRolePermissions:
		return e.getRolePermissions(query, q, creatorPermissions)
	case GetAccountAssets:
		return e.getAccountAssets(query, q, creatorDomain, creatorPermissions)
	}
	return e.errorResponse(query, ReasonNotSupported, query.Payload.Name(), 0)
}

// hasAnyPermission implements the shared access rule: a global permission, a
// domain permission when the target domain is the creator's, or a "my"
// permission when the target is the creator itself.
func hasAnyPermission(
	perms wsv.RolePermissionSet,
	all, domain, my wsv.RolePermission,
	targetDomain, creatorDomain string,
	targetID, creatorID string,
) bool {
	if perms.IsSet(all) {
		return true
	}
	if targetDomain == creatorDomain && perms.IsSet(domain) {
		return true
	}
	return targetID == creatorID && perms.IsSet(my)
}

func (e *QueryExecutor) getAccount(query Query, q GetAccount, creatorDomain string, creatorPermissions wsv.RolePermissionSet) QueryResponse {
	accountName, domainID, err := wsv.ParseID(q.AccountID)
	if err != nil {
		return e.errorResponse(query, ReasonStatefulFailed, err.Error(), 1)
	}

	if !hasAnyPermission(creatorPermissions,
		wsv.RoleGetAllAccounts, wsv.RoleGetDomainAccounts, wsv.RoleGetMyAccount,
		domainID, creatorDomain, q.AccountID, query.CreatorID) {
		return e.errorResponse(query, ReasonStatefulFailed, query.Payload.Name(), 2)
	}

	if resp := e.getOrError(query, ReasonNoAccount, 0, wsv.KeyQuorum, domainID, accountName); resp != nil {
		return resp
	}
	quorum, err := e.common.DecodeUint()
	if err != nil {
		return e.errorResponse(query, ReasonStatefulFailed, err.Error(), 1)
	}

	roles, resp := e.scanKeys(query, wsv.KeyAccountRole, domainID, accountName, "")
	if resp != nil {
		return resp
	}

	return &AccountResponse{
		AccountID:  q.AccountID,
		DomainID:   domainID,
		Quorum:     quorum,
		JSONDetail: "{}",
		Roles:      roles,
	}
}

func (e *QueryExecutor) getSignatories(query Query, q GetSignatories, creatorDomain string, creatorPermissions wsv.RolePermissionSet) QueryResponse {
	accountName, domainID, err := wsv.ParseID(q.AccountID)
	if err != nil {
		return e.errorResponse(query, ReasonStatefulFailed, err.Error(), 1)
	}

	if !hasAnyPermission(creatorPermissions,
		wsv.RoleGetAllSignatories, wsv.RoleGetDomainSignatories, wsv.RoleGetMySignatories,
		domainID, creatorDomain, q.AccountID, query.CreatorID) {
		return e.errorResponse(query, ReasonStatefulFailed, query.Payload.Name(), 2)
	}

	signatories, resp := e.scanKeys(query, wsv.KeySignatory, domainID, accountName, "")
	if resp != nil {
		return resp
	}
	if len(signatories) == 0 {
		return e.errorResponse(query, ReasonNoSignatories, query.Payload.Name(), 0)
	}
	return &SignatoriesResponse{
		Keys: signatories,
	}
}

func (e *QueryExecutor) getRolePermissions(query Query, q GetRolePermissions, creatorPermissions wsv.RolePermissionSet) QueryResponse {
	if !creatorPermissions.IsSet(wsv.RoleGetRoles) {
		return e.errorResponse(query, ReasonStatefulFailed, query.Payload.Name(), 2)
	}

	if resp := e.getOrError(query, ReasonNoRoles, 0, wsv.KeyRole, q.RoleID); resp != nil {
		return resp
	}
	permissions, err := wsv.ParseRolePermissionSet(string(e.common.Value()))
	if err != nil {
		return e.errorResponse(query, ReasonStatefulFailed, err.Error(), 1)
	}
	return &RolePermissionsResponse{
		Permissions: permissions,
	}
}

func (e *QueryExecutor) getAccountAssets(query Query, q GetAccountAssets, creatorDomain string, creatorPermissions wsv.RolePermissionSet) QueryResponse {
	accountName, domainID, err := wsv.ParseID(q.AccountID)
	if err != nil {
		return e.errorResponse(query, ReasonStatefulFailed, err.Error(), 1)
	}

	if !hasAnyPermission(creatorPermissions,
		wsv.RoleGetAllAccAst, wsv.RoleGetDomainAccAst, wsv.RoleGetMyAccAst,
		domainID, creatorDomain, q.AccountID, query.CreatorID) {
		return e.errorResponse(query, ReasonStatefulFailed, query.Payload.Name(), 2)
	}

	totalCount := uint64(0)
	if err := e.common.Get(wsv.KeyAccountAssetSize, domainID, accountName); err == nil {
		if totalCount, err = e.common.DecodeUint(); err != nil {
			return e.errorResponse(query, ReasonStatefulFailed, err.Error(), 1)
		}
	} else if !errors.Is(err, db.ErrDataNotFound) {
		return e.errorResponse(query, ReasonStatefulFailed, err.Error(), 1)
	}

	firstAssetID := ""
	pageSize := -1
	if q.Pagination != nil {
		firstAssetID = q.Pagination.FirstAssetID
		pageSize = int(q.Pagination.PageSize)
	}

	iter := e.common.Seek(wsv.KeyAccountAsset, domainID, accountName, firstAssetID)
	defer iter.Close()
	prefix := string(e.common.Key())
	prefix = prefix[:len(prefix)-len(firstAssetID)]

	assets := []AccountAsset{}
	nextAssetID := ""
	for ; iter.Valid(); iter.Next() {
		key := string(iter.Key())
		if !strings.HasPrefix(key, prefix) {
			break
		}
		assetID := key[len(prefix):]
		if pageSize >= 0 && len(assets) >= pageSize {
			nextAssetID = assetID
			break
		}
		balance, err := wsv.ParseAmount(string(iter.Value()))
		if err != nil {
			return e.errorResponse(query, ReasonStatefulFailed, err.Error(), 1)
		}
		assets = append(assets, AccountAsset{
			AccountID: q.AccountID,
			AssetID:   assetID,
			Balance:   balance,
		})
	}
	if err := iter.Err(); err != nil {
		return e.errorResponse(query, ReasonStatefulFailed, err.Error(), 1)
	}

	if len(assets) == 0 && firstAssetID != "" {
		return e.errorResponse(query, ReasonStatefulFailed, query.Payload.Name(), 4)
	}

	return &AccountAssetsResponse{
		Assets:      assets,
		TotalCount:  totalCount,
		NextAssetID: nextAssetID,
	}
}

// scanKeys collects the key suffixes under the formatted prefix.
func (e *QueryExecutor) scanKeys(query Query, format string, args ...interface{}) ([]string, QueryResponse) {
	iter := e.common.Seek(format, args...)
	defer iter.Close()
	prefix := string(e.common.Key())

	suffixes := []string{}
	for ; iter.Valid(); iter.Next() {
		key := string(iter.Key())
		if !strings.HasPrefix(key, prefix) {
			break
		}
		suffixes = append(suffixes, key[len(prefix):])
	}
	if err := iter.Err(); err != nil {
		return nil, e.errorResponse(query, ReasonStatefulFailed, err.Error(), 1)
	}
	return suffixes, nil
}

func (e *QueryExecutor) getOrError(query Query, reason ErrorReason, code int, format string, args ...interface{}) QueryResponse {
	if err := e.common.Get(format, args...); err != nil {
		if errors.Is(err, db.ErrDataNotFound) {
			return e.errorResponse(query, reason, fmt.Sprintf("%s not found", e.common.Key()), code)
		}
		return e.errorResponse(query, ReasonStatefulFailed, err.Error(), 1)
	}
	return nil
}

func (e *QueryExecutor) errorResponse(query Query, reason ErrorReason, detail string, code int) *ErrorResponse {
	return &ErrorResponse{
		Reason:    reason,
		Detail:    detail,
		Code:      code,
		QueryHash: query.Hash,
	}
}
