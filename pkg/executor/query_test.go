package executor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lebdron/iroha/pkg/wsv"
)

func query(creator string, payload QueryPayload) Query {
	return Query{
		CreatorID: creator,
		Hash:      "deadbeef",
		Payload:   payload,
	}
}

func TestGetAccount(t *testing.T) {
	tx := newTestTransaction(t)
	e := NewCommandExecutor(tx)
	q := NewQueryExecutor(tx)
	bootstrap(t, e)

	newRole(t, e, "observer", wsv.RoleGetMyAccount)
	newAccount(t, e, "alice", "observer")

	resp := q.Execute(query("alice@test", GetAccount{AccountID: "alice@test"}))
	account, ok := resp.(*AccountResponse)
	require.True(t, ok, "unexpected response %#v", resp)
	assert.Equal(t, "alice@test", account.AccountID)
	assert.Equal(t, "test", account.DomainID)
	assert.Equal(t, uint64(1), account.Quorum)
	assert.Equal(t, "{}", account.JSONDetail)
	assert.ElementsMatch(t, []string{"user", "observer"}, account.Roles)
}

func TestGetAccountAccessControl(t *testing.T) {
	tx := newTestTransaction(t)
	e := NewCommandExecutor(tx)
	q := NewQueryExecutor(tx)
	bootstrap(t, e)

	newRole(t, e, "observer", wsv.RoleGetMyAccount)
	newAccount(t, e, "alice", "observer")
	newAccount(t, e, "bob")

	// alice can see herself but not bob
	resp := q.Execute(query("alice@test", GetAccount{AccountID: "bob@test"}))
	errResp, ok := resp.(*ErrorResponse)
	require.True(t, ok)
	assert.Equal(t, ReasonStatefulFailed, errResp.Reason)
	assert.Equal(t, 2, errResp.Code)
	assert.Equal(t, "deadbeef", errResp.QueryHash)

	// a domain-wide permission reaches bob
	newRole(t, e, "domainobserver", wsv.RoleGetDomainAccounts)
	require.Nil(t, e.Execute(AppendRole{AccountID: "alice@test", RoleName: "domainobserver"}, admin, true))
	resp = q.Execute(query("alice@test", GetAccount{AccountID: "bob@test"}))
	_, ok = resp.(*AccountResponse)
	assert.True(t, ok)
}

func TestGetAccountMissing(t *testing.T) {
	tx := newTestTransaction(t)
	e := NewCommandExecutor(tx)
	q := NewQueryExecutor(tx)
	bootstrap(t, e)

	resp := q.Execute(query(admin, GetAccount{AccountID: "ghost@test"}))
	errResp, ok := resp.(*ErrorResponse)
	require.True(t, ok)
	assert.Equal(t, ReasonNoAccount, errResp.Reason)
}

func TestGetSignatories(t *testing.T) {
	tx := newTestTransaction(t)
	e := NewCommandExecutor(tx)
	q := NewQueryExecutor(tx)
	bootstrap(t, e)

	newAccount(t, e, "alice")

	resp := q.Execute(query(admin, GetSignatories{AccountID: "alice@test"}))
	signatories, ok := resp.(*SignatoriesResponse)
	require.True(t, ok, "unexpected response %#v", resp)
	assert.Equal(t, []string{"bb"}, signatories.Keys)

	resp = q.Execute(query(admin, GetSignatories{AccountID: "ghost@test"}))
	errResp, ok := resp.(*ErrorResponse)
	require.True(t, ok)
	assert.Equal(t, ReasonNoSignatories, errResp.Reason)
}

func TestGetRolePermissions(t *testing.T) {
	tx := newTestTransaction(t)
	e := NewCommandExecutor(tx)
	q := NewQueryExecutor(tx)
	bootstrap(t, e)

	newRole(t, e, "sender", wsv.RoleTransfer)

	resp := q.Execute(query(admin, GetRolePermissions{RoleID: "sender"}))
	perms, ok := resp.(*RolePermissionsResponse)
	require.True(t, ok, "unexpected response %#v", resp)
	assert.True(t, perms.Permissions.IsSet(wsv.RoleTransfer))
	assert.False(t, perms.Permissions.IsSet(wsv.RoleReceive))

	resp = q.Execute(query(admin, GetRolePermissions{RoleID: "ghost"}))
	errResp, ok := resp.(*ErrorResponse)
	require.True(t, ok)
	assert.Equal(t, ReasonNoRoles, errResp.Reason)

	// GetRoles permission is required
	newAccount(t, e, "alice")
	resp = q.Execute(query("alice@test", GetRolePermissions{RoleID: "sender"}))
	errResp, ok = resp.(*ErrorResponse)
	require.True(t, ok)
	assert.Equal(t, 2, errResp.Code)
}

func setupAssets(t *testing.T, e *CommandExecutor) {
	t.Helper()
	for _, name := range []string{"alpha", "beta", "gamma"} {
		require.Nil(t, e.Execute(CreateAsset{AssetName: name, DomainID: "test", Precision: 1}, admin, true))
		require.Nil(t, e.Execute(AddAssetQuantity{AssetID: name + "#test", Amount: mustAmount(t, "1.0")}, admin, true))
	}
}

func TestGetAccountAssets(t *testing.T) {
	tx := newTestTransaction(t)
	e := NewCommandExecutor(tx)
	q := NewQueryExecutor(tx)
	bootstrap(t, e)
	setupAssets(t, e)

	resp := q.Execute(query(admin, GetAccountAssets{AccountID: admin}))
	assets, ok := resp.(*AccountAssetsResponse)
	require.True(t, ok, "unexpected response %#v", resp)
	require.Len(t, assets.Assets, 3)
	assert.Equal(t, "alpha#test", assets.Assets[0].AssetID)
	assert.Equal(t, "beta#test", assets.Assets[1].AssetID)
	assert.Equal(t, "gamma#test", assets.Assets[2].AssetID)
	assert.Equal(t, uint64(3), assets.TotalCount)
	assert.Empty(t, assets.NextAssetID)
}

func TestGetAccountAssetsPagination(t *testing.T) {
	tx := newTestTransaction(t)
	e := NewCommandExecutor(tx)
	q := NewQueryExecutor(tx)
	bootstrap(t, e)
	setupAssets(t, e)

	resp := q.Execute(query(admin, GetAccountAssets{
		AccountID:  admin,
		Pagination: &AssetPagination{PageSize: 2},
	}))
	assets, ok := resp.(*AccountAssetsResponse)
	require.True(t, ok)
	require.Len(t, assets.Assets, 2)
	assert.Equal(t, "gamma#test", assets.NextAssetID)
	assert.Equal(t, uint64(3), assets.TotalCount)

	resp = q.Execute(query(admin, GetAccountAssets{
		AccountID:  admin,
		Pagination: &AssetPagination{FirstAssetID: "gamma#test", PageSize: 2},
	}))
	assets, ok = resp.(*AccountAssetsResponse)
	require.True(t, ok)
	require.Len(t, assets.Assets, 1)
	assert.Equal(t, "gamma#test", assets.Assets[0].AssetID)
	assert.Empty(t, assets.NextAssetID)

	// scan positioned past the data
	resp = q.Execute(query(admin, GetAccountAssets{
		AccountID:  admin,
		Pagination: &AssetPagination{FirstAssetID: "zeta#test", PageSize: 2},
	}))
	errResp, ok := resp.(*ErrorResponse)
	require.True(t, ok)
	assert.Equal(t, ReasonStatefulFailed, errResp.Reason)
	assert.Equal(t, 4, errResp.Code)
}

func TestUnsupportedQueries(t *testing.T) {
	tx := newTestTransaction(t)
	e := NewCommandExecutor(tx)
	q := NewQueryExecutor(tx)
	bootstrap(t, e)

	payloads := []QueryPayload{
		GetRoles{},
		GetAssetInfo{},
		GetAccountDetail{},
		GetPeers{},
		GetBlock{},
		GetPendingTransactions{},
		GetEngineReceipts{},
	}
	for _, payload := range payloads {
		resp := q.Execute(query(admin, payload))
		errResp, ok := resp.(*ErrorResponse)
		require.True(t, ok, payload.Name())
		assert.Equal(t, ReasonNotSupported, errResp.Reason, payload.Name())
	}
}

func TestQueryUnknownCreator(t *testing.T) {
	tx := newTestTransaction(t)
	q := NewQueryExecutor(tx)

	resp := q.Execute(query("ghost@test", GetAccount{AccountID: "ghost@test"}))
	errResp, ok := resp.(*ErrorResponse)
	require.True(t, ok)
	assert.Equal(t, ReasonStatefulFailed, errResp.Reason)
	assert.Equal(t, 1, errResp.Code)
}
