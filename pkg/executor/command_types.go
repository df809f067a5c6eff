package executor

import "github.com/lebdron/iroha/pkg/wsv"

// Command is the closed sum type of ledger commands. Each variant carries
// only its payload; dispatch is a type switch in CommandExecutor.Execute.
type Command interface {
	Name() string
}

type AddAssetQuantity struct {
	AssetID string
	Amount  wsv.Amount
}

type AddPeer struct {
	Address string
	PubKey  string
}

type AddSignatory struct {
	AccountID string
	PubKey    string
}

type AppendRole struct {
	AccountID string
	RoleName  string
}

type CallEngine struct {
	Caller string
	Callee string
	Input  string
}

type CompareAndSetAccountDetail struct {
	AccountID string
	Key       string
	Value     string
	OldValue  string
}

type CreateAccount struct {
	AccountName string
	DomainID    string
	PubKey      string
}

type CreateAsset struct {
	AssetName string
	DomainID  string
	Precision uint32
}

type CreateDomain struct {
	DomainID        string
	UserDefaultRole string
}

type CreateRole struct {
	RoleName    string
	Permissions wsv.RolePermissionSet
}

type DetachRole struct {
	AccountID string
	RoleName  string
}

type GrantPermission struct {
	AccountID  string
	Permission wsv.GrantablePermission
}

type RemovePeer struct {
	PubKey string
}

type RemoveSignatory struct {
	AccountID string
	PubKey    string
}

type RevokePermission struct {
	AccountID  string
	Permission wsv.GrantablePermission
}

type SetAccountDetail struct {
	AccountID string
	Key       string
	Value     string
}

type SetQuorum struct {
	AccountID string
	Quorum    uint32
}

type SetSettingValue struct {
	Key   string
	Value string
}

type SubtractAssetQuantity struct {
	AssetID string
	Amount  wsv.Amount
}

type TransferAsset struct {
	SrcAccountID  string
	DestAccountID string
	AssetID       string
	Description   string
	Amount        wsv.Amount
}

func (AddAssetQuantity) Name() string           { return "AddAssetQuantity" }
func (AddPeer) Name() string                    { return "AddPeer" }
func (AddSignatory) Name() string               { return "AddSignatory" }
func (AppendRole) Name() string                 { return "AppendRole" }
func (CallEngine) Name() string                 { return "CallEngine" }
func (CompareAndSetAccountDetail) Name() string { return "CompareAndSetAccountDetail" }
func (CreateAccount) Name() string              { return "CreateAccount" }
func (CreateAsset) Name() string                { return "CreateAsset" }
func (CreateDomain) Name() string               { return "CreateDomain" }
func (CreateRole) Name() string                 { return "CreateRole" }
func (DetachRole) Name() string                 { return "DetachRole" }
func (GrantPermission) Name() string            { return "GrantPermission" }
func (RemovePeer) Name() string                 { return "RemovePeer" }
func (RemoveSignatory) Name() string            { return "RemoveSignatory" }
func (RevokePermission) Name() string           { return "RevokePermission" }
func (SetAccountDetail) Name() string           { return "SetAccountDetail" }
func (SetQuorum) Name() string                  { return "SetQuorum" }
func (SetSettingValue) Name() string            { return "SetSettingValue" }
func (SubtractAssetQuantity) Name() string      { return "SubtractAssetQuantity" }
func (TransferAsset) Name() string              { return "TransferAsset" }
