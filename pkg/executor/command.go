package executor

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lebdron/iroha/pkg/db"
	"github.com/lebdron/iroha/pkg/wsv"
)

// CommandExecutor applies commands against the world state view under a
// single snapshot-isolated transaction. Any returned error leaves the
// transaction to be rolled back by the caller. Not safe for concurrent use.
type CommandExecutor struct {
	common *wsv.Common
}

func NewCommandExecutor(tx *db.Transaction) *CommandExecutor {
	return &CommandExecutor{
		common: wsv.NewCommon(tx),
	}
}

// Execute runs one command on behalf of creatorID. With doValidation false
// the permission and existence preconditions marked as validation-only are
// skipped; state lookups required by the mutation still run.
func (e *CommandExecutor) Execute(cmd Command, creatorID string, doValidation bool) *CommandError {
	creatorPermissions := wsv.NewRolePermissionSet()
	if doValidation {
		creatorName, creatorDomain, err := wsv.ParseID(creatorID)
		if err != nil {
			return newCommandError(cmd, CodeKV, err.Error())
		}
		if err := e.common.Get(wsv.KeyPermissions, creatorDomain, creatorName); err != nil {
			return newCommandError(cmd, CodeKV, err.Error())
		}
		creatorPermissions, err = wsv.ParseRolePermissionSet(string(e.common.Value()))
		if err != nil {
			return newCommandError(cmd, CodeKV, err.Error())
		}
	}

	switch c := cmd.(type) {
	case AddAssetQuantity:
		return e.addAssetQuantity(c, creatorID, doValidation, creatorPermissions)
	case AppendRole:
		return e.appendRole(c, doValidation, creatorPermissions)
	case CreateAccount:
		return e.createAccount(c, doValidation, creatorPermissions)
	case CreateAsset:
		return e.createAsset(c, doValidation, creatorPermissions)
	case CreateDomain:
		return e.createDomain(c, doValidation, creatorPermissions)
	case CreateRole:
		return e.createRole(c, doValidation, creatorPermissions)
	case DetachRole:
		return e.detachRole(c, doValidation, creatorPermissions)
	case GrantPermission:
		return e.grantPermission(c, creatorID, doValidation, creatorPermissions)
	case SetAccountDetail:
		return e.setAccountDetail(c, creatorID, doValidation, creatorPermissions)
	case SetSettingValue:
		return e.setSettingValue(c)
	case TransferAsset:
		return e.transferAsset(c, creatorID, doValidation, creatorPermissions)
	case AddPeer, AddSignatory, CallEngine, CompareAndSetAccountDetail, RemovePeer,
		RemoveSignatory, RevokePermission, SetQuorum, SubtractAssetQuantity:
		return newCommandError(cmd, CodeNotImplemented, "")
	}
	return newCommandError(cmd, CodeNotImplemented, "unknown command")
}

func (e *CommandExecutor) createRole(cmd CreateRole, doValidation bool, creatorPermissions wsv.RolePermissionSet) *CommandError {
	rolePermissions := cmd.Permissions
	if rolePermissions.IsSet(wsv.RoleRoot) {
		rolePermissions.SetAll()
	}

	if doValidation {
		if !creatorPermissions.IsSet(wsv.RoleCreateRole) {
			return newCommandError(cmd, CodeNoPermission, "")
		}
		if !rolePermissions.IsSubsetOf(creatorPermissions) {
			return newCommandError(cmd, CodeNoPermission, "")
		}
		if cmdErr := e.errIfFound(cmd, 3, wsv.KeyRole, cmd.RoleName); cmdErr != nil {
			return cmdErr
		}
	}

	e.common.SetValueString(rolePermissions.Bitstring())
	return e.put(cmd, wsv.KeyRole, cmd.RoleName)
}

func (e *CommandExecutor) createDomain(cmd CreateDomain, doValidation bool, creatorPermissions wsv.RolePermissionSet) *CommandError {
	if doValidation {
		// no privilege escalation check here
		if !creatorPermissions.IsSet(wsv.RoleCreateDomain) {
			return newCommandError(cmd, CodeNoPermission, "")
		}
		if cmdErr := e.errIfFound(cmd, 3, wsv.KeyDomain, cmd.DomainID); cmdErr != nil {
			return cmdErr
		}
		if cmdErr := e.getOrErr(cmd, 4, wsv.KeyRole, cmd.UserDefaultRole); cmdErr != nil {
			return cmdErr
		}
	}

	e.common.SetValueString(cmd.UserDefaultRole)
	return e.put(cmd, wsv.KeyDomain, cmd.DomainID)
}

func (e *CommandExecutor) createAccount(cmd CreateAccount, doValidation bool, creatorPermissions wsv.RolePermissionSet) *CommandError {
	pubkey := strings.ToLower(cmd.PubKey)

	if doValidation {
		if !creatorPermissions.IsSet(wsv.RoleCreateAccount) {
			return newCommandError(cmd, CodeNoPermission, "")
		}
	}

	if cmdErr := e.getOrErr(cmd, 3, wsv.KeyDomain, cmd.DomainID); cmdErr != nil {
		return cmdErr
	}
	defaultRole := string(e.common.Value())

	if cmdErr := e.getOrErr(cmd, CodeKV, wsv.KeyRole, defaultRole); cmdErr != nil {
		return cmdErr
	}
	rolePermissions, err := wsv.ParseRolePermissionSet(string(e.common.Value()))
	if err != nil {
		return newCommandError(cmd, CodeKV, err.Error())
	}

	if doValidation {
		if !rolePermissions.IsSubsetOf(creatorPermissions) {
			return newCommandError(cmd, CodeNoPermission, "")
		}
		if cmdErr := e.errIfFound(cmd, 4, wsv.KeyQuorum, cmd.DomainID, cmd.AccountName); cmdErr != nil {
			return cmdErr
		}
	}

	e.common.SetValueString("")
	if cmdErr := e.put(cmd, wsv.KeyAccountRole, cmd.DomainID, cmd.AccountName, defaultRole); cmdErr != nil {
		return cmdErr
	}

	e.common.SetValueString(rolePermissions.Bitstring())
	if cmdErr := e.put(cmd, wsv.KeyPermissions, cmd.DomainID, cmd.AccountName); cmdErr != nil {
		return cmdErr
	}

	e.common.SetValueString("")
	if cmdErr := e.put(cmd, wsv.KeySignatory, cmd.DomainID, cmd.AccountName, pubkey); cmdErr != nil {
		return cmdErr
	}

	e.common.EncodeUint(1)
	return e.put(cmd, wsv.KeyQuorum, cmd.DomainID, cmd.AccountName)
}

func (e *CommandExecutor) createAsset(cmd CreateAsset, doValidation bool, creatorPermissions wsv.RolePermissionSet) *CommandError {
	if doValidation {
		if !creatorPermissions.IsSet(wsv.RoleCreateAsset) {
			return newCommandError(cmd, CodeNoPermission, "")
		}
		if cmdErr := e.errIfFound(cmd, 3, wsv.KeyAsset, cmd.DomainID, cmd.AssetName); cmdErr != nil {
			return cmdErr
		}
		if cmdErr := e.getOrErr(cmd, 4, wsv.KeyDomain, cmd.DomainID); cmdErr != nil {
			return cmdErr
		}
	}

	e.common.EncodeUint(uint64(cmd.Precision))
	return e.put(cmd, wsv.KeyAsset, cmd.DomainID, cmd.AssetName)
}

func (e *CommandExecutor) appendRole(cmd AppendRole, doValidation bool, creatorPermissions wsv.RolePermissionSet) *CommandError {
	accountName, domainID, err := wsv.ParseID(cmd.AccountID)
	if err != nil {
		return newCommandError(cmd, CodeKV, err.Error())
	}

	if doValidation {
		if !creatorPermissions.IsSet(wsv.RoleAppendRole) {
			return newCommandError(cmd, CodeNoPermission, "")
		}
	}

	if cmdErr := e.getOrErr(cmd, 3, wsv.KeyPermissions, domainID, accountName); cmdErr != nil {
		return cmdErr
	}
	accountPermissions, err := wsv.ParseRolePermissionSet(string(e.common.Value()))
	if err != nil {
		return newCommandError(cmd, CodeKV, err.Error())
	}

	if cmdErr := e.getOrErr(cmd, 4, wsv.KeyRole, cmd.RoleName); cmdErr != nil {
		return cmdErr
	}
	rolePermissions, err := wsv.ParseRolePermissionSet(string(e.common.Value()))
	if err != nil {
		return newCommandError(cmd, CodeKV, err.Error())
	}

	if doValidation {
		if cmdErr := e.errIfFound(cmd, CodeAlreadyExists, wsv.KeyAccountRole, domainID, accountName, cmd.RoleName); cmdErr != nil {
			return cmdErr
		}
		if !rolePermissions.IsSubsetOf(creatorPermissions) {
			return newCommandError(cmd, CodeNoPermission, "")
		}
	}

	accountPermissions.Union(rolePermissions)
	e.common.SetValueString(accountPermissions.Bitstring())
	if cmdErr := e.put(cmd, wsv.KeyPermissions, domainID, accountName); cmdErr != nil {
		return cmdErr
	}

	e.common.SetValueString("")
	return e.put(cmd, wsv.KeyAccountRole, domainID, accountName, cmd.RoleName)
}

func (e *CommandExecutor) detachRole(cmd DetachRole, doValidation bool, creatorPermissions wsv.RolePermissionSet) *CommandError {
	accountName, domainID, err := wsv.ParseID(cmd.AccountID)
	if err != nil {
		return newCommandError(cmd, CodeKV, err.Error())
	}

	if doValidation {
		if !creatorPermissions.IsSet(wsv.RoleDetachRole) {
			return newCommandError(cmd, CodeNoPermission, "")
		}
	}

	if cmdErr := e.getOrErr(cmd, 3, wsv.KeyPermissions, domainID, accountName); cmdErr != nil {
		return cmdErr
	}
	if cmdErr := e.getOrErr(cmd, 5, wsv.KeyRole, cmd.RoleName); cmdErr != nil {
		return cmdErr
	}

	if doValidation {
		if cmdErr := e.getOrErr(cmd, 4, wsv.KeyAccountRole, domainID, accountName, cmd.RoleName); cmdErr != nil {
			return cmdErr
		}
	}

	if cmdErr := e.del(cmd, wsv.KeyAccountRole, domainID, accountName, cmd.RoleName); cmdErr != nil {
		return cmdErr
	}

	// permissions are recomputed as the union of the role bitstrings still
	// linked to the account
	roles, cmdErr := e.accountRoles(cmd, domainID, accountName)
	if cmdErr != nil {
		return cmdErr
	}
	accountPermissions := wsv.NewRolePermissionSet()
	for _, role := range roles {
		if cmdErr := e.getOrErr(cmd, CodeKV, wsv.KeyRole, role); cmdErr != nil {
			return cmdErr
		}
		rolePermissions, err := wsv.ParseRolePermissionSet(string(e.common.Value()))
		if err != nil {
			return newCommandError(cmd, CodeKV, err.Error())
		}
		accountPermissions.Union(rolePermissions)
	}

	e.common.SetValueString(accountPermissions.Bitstring())
	return e.put(cmd, wsv.KeyPermissions, domainID, accountName)
}

func (e *CommandExecutor) grantPermission(cmd GrantPermission, creatorID string, doValidation bool, creatorPermissions wsv.RolePermissionSet) *CommandError {
	granteeName, granteeDomain, err := wsv.ParseID(creatorID)
	if err != nil {
		return newCommandError(cmd, CodeKV, err.Error())
	}
	accountName, domainID, err := wsv.ParseID(cmd.AccountID)
	if err != nil {
		return newCommandError(cmd, CodeKV, err.Error())
	}

	if doValidation {
		if !creatorPermissions.IsSet(wsv.PermissionFor(cmd.Permission)) {
			return newCommandError(cmd, CodeNoPermission, "")
		}
		if cmdErr := e.getOrErr(cmd, 3, wsv.KeyQuorum, domainID, accountName); cmdErr != nil {
			return cmdErr
		}
	}

	granted := wsv.NewGrantablePermissionSet()
	found, cmdErr := e.getOptional(cmd, wsv.KeyGranted, domainID, accountName, granteeDomain, granteeName)
	if cmdErr != nil {
		return cmdErr
	}
	if found {
		granted, err = wsv.ParseGrantablePermissionSet(string(e.common.Value()))
		if err != nil {
			return newCommandError(cmd, CodeKV, err.Error())
		}
	}

	if granted.IsSet(cmd.Permission) {
		return newCommandError(cmd, CodeAlreadyExists, "")
	}
	granted.Set(cmd.Permission)

	e.common.SetValueString(granted.Bitstring())
	return e.put(cmd, wsv.KeyGranted, domainID, accountName, granteeDomain, granteeName)
}

func (e *CommandExecutor) setAccountDetail(cmd SetAccountDetail, creatorID string, doValidation bool, creatorPermissions wsv.RolePermissionSet) *CommandError {
	creatorName, creatorDomain, err := wsv.ParseID(creatorID)
	if err != nil {
		return newCommandError(cmd, CodeKV, err.Error())
	}
	accountName, domainID, err := wsv.ParseID(cmd.AccountID)
	if err != nil {
		return newCommandError(cmd, CodeKV, err.Error())
	}

	if doValidation {
		if cmd.AccountID != creatorID {
			granted := wsv.NewGrantablePermissionSet()
			found, cmdErr := e.getOptional(cmd, wsv.KeyGranted, creatorDomain, creatorName, domainID, accountName)
			if cmdErr != nil {
				return cmdErr
			}
			if found {
				granted, err = wsv.ParseGrantablePermissionSet(string(e.common.Value()))
				if err != nil {
					return newCommandError(cmd, CodeKV, err.Error())
				}
			}
			if !creatorPermissions.IsSet(wsv.RoleSetDetail) && !granted.IsSet(wsv.GrantableSetMyAccountDetail) {
				return newCommandError(cmd, CodeNoPermission, "")
			}
		}
		if cmdErr := e.getOrErr(cmd, 3, wsv.KeyQuorum, domainID, accountName); cmdErr != nil {
			return cmdErr
		}
	}

	e.common.SetValueString(cmd.Value)
	return e.put(cmd, wsv.KeyAccountDetail, domainID, accountName, creatorDomain, creatorName, cmd.Key)
}

func (e *CommandExecutor) addAssetQuantity(cmd AddAssetQuantity, creatorID string, doValidation bool, creatorPermissions wsv.RolePermissionSet) *CommandError {
	creatorName, creatorDomain, err := wsv.ParseID(creatorID)
	if err != nil {
		return newCommandError(cmd, CodeKV, err.Error())
	}
	assetName, domainID, err := wsv.ParseID(cmd.AssetID)
	if err != nil {
		return newCommandError(cmd, CodeKV, err.Error())
	}

	if doValidation {
		if !creatorPermissions.IsSet(wsv.RoleAddAssetQty) &&
			!(domainID == creatorDomain && creatorPermissions.IsSet(wsv.RoleAddDomainAssetQty)) {
			return newCommandError(cmd, CodeNoPermission, "")
		}
	}

	if cmdErr := e.getOrErr(cmd, 3, wsv.KeyAsset, domainID, assetName); cmdErr != nil {
		return cmdErr
	}
	precision, err := e.common.DecodeUint()
	if err != nil {
		return newCommandError(cmd, CodeKV, err.Error())
	}
	balance := wsv.NewAmount(uint32(precision))

	accountAssetSize := uint64(0)
	found, cmdErr := e.getOptional(cmd, wsv.KeyAccountAssetSize, creatorDomain, creatorName)
	if cmdErr != nil {
		return cmdErr
	}
	if found {
		if accountAssetSize, err = e.common.DecodeUint(); err != nil {
			return newCommandError(cmd, CodeKV, err.Error())
		}
	}

	found, cmdErr = e.getOptional(cmd, wsv.KeyAccountAsset, creatorDomain, creatorName, cmd.AssetID)
	if cmdErr != nil {
		return cmdErr
	}
	if found {
		if balance, err = wsv.ParseAmount(string(e.common.Value())); err != nil {
			return newCommandError(cmd, CodeKV, err.Error())
		}
	} else {
		accountAssetSize++
	}

	result, err := balance.Add(cmd.Amount)
	if err != nil {
		return newCommandError(cmd, 4, "")
	}

	e.common.SetValueString(result.String())
	if cmdErr := e.put(cmd, wsv.KeyAccountAsset, creatorDomain, creatorName, cmd.AssetID); cmdErr != nil {
		return cmdErr
	}

	e.common.EncodeUint(accountAssetSize)
	return e.put(cmd, wsv.KeyAccountAssetSize, creatorDomain, creatorName)
}

func (e *CommandExecutor) transferAsset(cmd TransferAsset, creatorID string, doValidation bool, creatorPermissions wsv.RolePermissionSet) *CommandError {
	creatorName, creatorDomain, err := wsv.ParseID(creatorID)
	if err != nil {
		return newCommandError(cmd, CodeKV, err.Error())
	}
	sourceName, sourceDomain, err := wsv.ParseID(cmd.SrcAccountID)
	if err != nil {
		return newCommandError(cmd, CodeKV, err.Error())
	}
	destName, destDomain, err := wsv.ParseID(cmd.DestAccountID)
	if err != nil {
		return newCommandError(cmd, CodeKV, err.Error())
	}
	assetName, domainID, err := wsv.ParseID(cmd.AssetID)
	if err != nil {
		return newCommandError(cmd, CodeKV, err.Error())
	}

	if doValidation {
		if cmdErr := e.getOrErr(cmd, 4, wsv.KeyQuorum, destDomain, destName); cmdErr != nil {
			return cmdErr
		}

		if cmdErr := e.getOrErr(cmd, CodeKV, wsv.KeyPermissions, destDomain, destName); cmdErr != nil {
			return cmdErr
		}
		destPermissions, err := wsv.ParseRolePermissionSet(string(e.common.Value()))
		if err != nil {
			return newCommandError(cmd, CodeKV, err.Error())
		}
		if !destPermissions.IsSet(wsv.RoleReceive) {
			return newCommandError(cmd, CodeNoPermission, "")
		}

		if cmd.SrcAccountID != creatorID {
			if cmdErr := e.getOrErr(cmd, 3, wsv.KeyQuorum, sourceDomain, sourceName); cmdErr != nil {
				return cmdErr
			}
			granted := wsv.NewGrantablePermissionSet()
			found, cmdErr := e.getOptional(cmd, wsv.KeyGranted, creatorDomain, creatorName, sourceDomain, sourceName)
			if cmdErr != nil {
				return cmdErr
			}
			if found {
				if granted, err = wsv.ParseGrantablePermissionSet(string(e.common.Value())); err != nil {
					return newCommandError(cmd, CodeKV, err.Error())
				}
			}
			if !creatorPermissions.IsSet(wsv.RoleRoot) && !granted.IsSet(wsv.GrantableTransferMyAssets) {
				return newCommandError(cmd, CodeNoPermission, "")
			}
		} else if !creatorPermissions.IsSet(wsv.RoleTransfer) {
			return newCommandError(cmd, CodeNoPermission, "")
		}

		if cmdErr := e.getOrErr(cmd, 5, wsv.KeyAsset, domainID, assetName); cmdErr != nil {
			return cmdErr
		}

		found, cmdErr := e.getOptional(cmd, wsv.KeySetting, wsv.SettingMaxDescriptionSize)
		if cmdErr != nil {
			return cmdErr
		}
		if found {
			maxDescriptionSize, err := e.common.DecodeUint()
			if err != nil {
				return newCommandError(cmd, CodeKV, err.Error())
			}
			if uint64(len(cmd.Description)) > maxDescriptionSize {
				return newCommandError(cmd, 8, "")
			}
		}
	}

	if cmdErr := e.getOrErr(cmd, 6, wsv.KeyAccountAsset, sourceDomain, sourceName, cmd.AssetID); cmdErr != nil {
		return cmdErr
	}
	sourceBalance, err := wsv.ParseAmount(string(e.common.Value()))
	if err != nil {
		return newCommandError(cmd, CodeKV, err.Error())
	}
	sourceBalance, err = sourceBalance.Sub(cmd.Amount)
	if err != nil {
		return newCommandError(cmd, 6, "")
	}

	accountAssetSize := uint64(0)
	found, cmdErr := e.getOptional(cmd, wsv.KeyAccountAssetSize, destDomain, destName)
	if cmdErr != nil {
		return cmdErr
	}
	if found {
		if accountAssetSize, err = e.common.DecodeUint(); err != nil {
			return newCommandError(cmd, CodeKV, err.Error())
		}
	}

	destBalance := wsv.NewAmount(sourceBalance.Precision())
	found, cmdErr = e.getOptional(cmd, wsv.KeyAccountAsset, destDomain, destName, cmd.AssetID)
	if cmdErr != nil {
		return cmdErr
	}
	if found {
		if destBalance, err = wsv.ParseAmount(string(e.common.Value())); err != nil {
			return newCommandError(cmd, CodeKV, err.Error())
		}
	} else {
		accountAssetSize++
	}

	destBalance, err = destBalance.Add(cmd.Amount)
	if err != nil {
		return newCommandError(cmd, 7, "")
	}

	e.common.SetValueString(sourceBalance.String())
	if cmdErr := e.put(cmd, wsv.KeyAccountAsset, sourceDomain, sourceName, cmd.AssetID); cmdErr != nil {
		return cmdErr
	}

	e.common.SetValueString(destBalance.String())
	if cmdErr := e.put(cmd, wsv.KeyAccountAsset, destDomain, destName, cmd.AssetID); cmdErr != nil {
		return cmdErr
	}

	e.common.EncodeUint(accountAssetSize)
	return e.put(cmd, wsv.KeyAccountAssetSize, destDomain, destName)
}

func (e *CommandExecutor) setSettingValue(cmd SetSettingValue) *CommandError {
	e.common.SetValueString(cmd.Value)
	return e.put(cmd, wsv.KeySetting, cmd.Key)
}

// accountRoles lists the role names currently linked to the account.
func (e *CommandExecutor) accountRoles(cmd Command, domainID, accountName string) ([]string, *CommandError) {
	iter := e.common.Seek(wsv.KeyAccountRole, domainID, accountName, "")
	defer iter.Close()
	prefix := string(e.common.Key())

	roles := []string{}
	for ; iter.Valid(); iter.Next() {
		key := string(iter.Key())
		if !strings.HasPrefix(key, prefix) {
			break
		}
		roles = append(roles, key[len(prefix):])
	}
	if err := iter.Err(); err != nil {
		return nil, newCommandError(cmd, CodeKV, err.Error())
	}
	return roles, nil
}

// getOrErr reads the formatted key, mapping a missing key to notFoundCode
// and any other failure to the KV error code.
func (e *CommandExecutor) getOrErr(cmd Command, notFoundCode int, format string, args ...interface{}) *CommandError {
	if err := e.common.Get(format, args...); err != nil {
		if errors.Is(err, db.ErrDataNotFound) {
			return newCommandError(cmd, notFoundCode, fmt.Sprintf("%s not found", e.common.Key()))
		}
		return newCommandError(cmd, CodeKV, err.Error())
	}
	return nil
}

// errIfFound fails with foundCode when the formatted key exists or the read
// fails with anything but not-found.
func (e *CommandExecutor) errIfFound(cmd Command, foundCode int, format string, args ...interface{}) *CommandError {
	err := e.common.Get(format, args...)
	if err == nil {
		return newCommandError(cmd, foundCode, fmt.Sprintf("%s already exists", e.common.Key()))
	}
	if !errors.Is(err, db.ErrDataNotFound) {
		return newCommandError(cmd, foundCode, err.Error())
	}
	return nil
}

// getOptional reads the formatted key, reporting whether it exists; only
// unexpected failures produce an error.
func (e *CommandExecutor) getOptional(cmd Command, format string, args ...interface{}) (bool, *CommandError) {
	if err := e.common.Get(format, args...); err != nil {
		if errors.Is(err, db.ErrDataNotFound) {
			return false, nil
		}
		return false, newCommandError(cmd, CodeKV, err.Error())
	}
	return true, nil
}

func (e *CommandExecutor) put(cmd Command, format string, args ...interface{}) *CommandError {
	if err := e.common.Put(format, args...); err != nil {
		return newCommandError(cmd, CodeKV, err.Error())
	}
	return nil
}

func (e *CommandExecutor) del(cmd Command, format string, args ...interface{}) *CommandError {
	if err := e.common.Del(format, args...); err != nil {
		return newCommandError(cmd, CodeKV, err.Error())
	}
	return nil
}
