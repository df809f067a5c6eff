package wsv

import (
	"fmt"
)

// RolePermission enumerates role permissions. The integer value is the bit
// position in the stored bitstring and must never change.
type RolePermission int

const (
	RoleAppendRole RolePermission = iota
	RoleCreateRole
	RoleDetachRole
	RoleAddAssetQty
	RoleSubtractAssetQty
	RoleAddPeer
	RoleRemovePeer
	RoleAddSignatory
	RoleRemoveSignatory
	RoleSetQuorum
	RoleCreateAccount
	RoleSetDetail
	RoleCreateAsset
	RoleTransfer
	RoleReceive
	RoleCreateDomain
	RoleReadAssets
	RoleGetRoles
	RoleGetMyAccount
	RoleGetAllAccounts
	RoleGetDomainAccounts
	RoleGetMySignatories
	RoleGetAllSignatories
	RoleGetDomainSignatories
	RoleGetMyAccAst
	RoleGetAllAccAst
	RoleGetDomainAccAst
	RoleGetMyAccDetail
	RoleGetAllAccDetail
	RoleGetDomainAccDetail
	RoleGetBlocks
	RoleGetPeers
	RoleAddDomainAssetQty
	RoleSubtractDomainAssetQty
	RoleGrantSetMyQuorum
	RoleGrantAddMySignatory
	RoleGrantRemoveMySignatory
	RoleGrantTransferMyAssets
	RoleGrantSetMyAccountDetail
	RoleGrantCallEngineOnMyBehalf
	RoleCallEngine
	RoleGetEngineReceipts
	RoleRoot

	rolePermissionCount
)

// GrantablePermission enumerates capabilities one account delegates to
// another. Values are bit positions in the stored bitstring.
type GrantablePermission int

const (
	GrantableAddMySignatory GrantablePermission = iota
	GrantableRemoveMySignatory
	GrantableSetMyQuorum
	GrantableSetMyAccountDetail
	GrantableTransferMyAssets
	GrantableCallEngineOnMyBehalf

	grantablePermissionCount
)

// PermissionFor returns the role permission required to grant the given
// grantable permission.
func PermissionFor(grantable GrantablePermission) RolePermission {
	switch grantable {
	case GrantableAddMySignatory:
		return RoleGrantAddMySignatory
	case GrantableRemoveMySignatory:
		return RoleGrantRemoveMySignatory
	case GrantableSetMyQuorum:
		return RoleGrantSetMyQuorum
	case GrantableSetMyAccountDetail:
		return RoleGrantSetMyAccountDetail
	case GrantableTransferMyAssets:
		return RoleGrantTransferMyAssets
	case GrantableCallEngineOnMyBehalf:
		return RoleGrantCallEngineOnMyBehalf
	}
	return RoleRoot
}

// permissionSet is a fixed-width bitset. The stored form is one ASCII '0' or
// '1' per bit, leftmost character is bit 0.
type permissionSet struct {
	bits []bool
}

func newPermissionSet(size int) permissionSet {
	return permissionSet{
		bits: make([]bool, size),
	}
}

func (p permissionSet) isSet(bit int) bool {
	return bit >= 0 && bit < len(p.bits) && p.bits[bit]
}

func (p permissionSet) set(bit int) {
	if bit >= 0 && bit < len(p.bits) {
		p.bits[bit] = true
	}
}

func (p permissionSet) setAll() {
	for i := range p.bits {
		p.bits[i] = true
	}
}

func (p permissionSet) isSubsetOf(other permissionSet) bool {
	for i, bit := range p.bits {
		if bit && !other.isSet(i) {
			return false
		}
	}
	return true
}

func (p permissionSet) union(other permissionSet) {
	for i, bit := range other.bits {
		if bit {
			p.set(i)
		}
	}
}

func (p permissionSet) bitstring() string {
	out := make([]byte, len(p.bits))
	for i, bit := range p.bits {
		if bit {
			out[i] = '1'
		} else {
			out[i] = '0'
		}
	}
	return string(out)
}

func parsePermissionSet(s string, size int) (permissionSet, error) {
	if len(s) != size {
		return permissionSet{}, fmt.Errorf("bitstring length %d, expected %d", len(s), size)
	}
	set := newPermissionSet(size)
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '1':
			set.bits[i] = true
		case '0':
		default:
			return permissionSet{}, fmt.Errorf("invalid bitstring character %q", s[i])
		}
	}
	return set, nil
}

// RolePermissionSet is a set of role permissions.
type RolePermissionSet struct {
	permissionSet
}

func NewRolePermissionSet(perms ...RolePermission) RolePermissionSet {
	set := RolePermissionSet{newPermissionSet(int(rolePermissionCount))}
	for _, perm := range perms {
		set.Set(perm)
	}
	return set
}

// ParseRolePermissionSet parses the stored bitstring form.
func ParseRolePermissionSet(s string) (RolePermissionSet, error) {
	set, err := parsePermissionSet(s, int(rolePermissionCount))
	if err != nil {
		return RolePermissionSet{}, err
	}
	return RolePermissionSet{set}, nil
}

func (p RolePermissionSet) IsSet(perm RolePermission) bool { return p.isSet(int(perm)) }
func (p RolePermissionSet) Set(perm RolePermission)        { p.set(int(perm)) }
func (p RolePermissionSet) SetAll()                        { p.setAll() }
func (p RolePermissionSet) Bitstring() string              { return p.bitstring() }

func (p RolePermissionSet) IsSubsetOf(other RolePermissionSet) bool {
	return p.isSubsetOf(other.permissionSet)
}

// Union adds all permissions of other to p.
func (p RolePermissionSet) Union(other RolePermissionSet) {
	p.union(other.permissionSet)
}

// GrantablePermissionSet is a set of grantable permissions.
type GrantablePermissionSet struct {
	permissionSet
}

func NewGrantablePermissionSet(perms ...GrantablePermission) GrantablePermissionSet {
	set := GrantablePermissionSet{newPermissionSet(int(grantablePermissionCount))}
	for _, perm := range perms {
		set.Set(perm)
	}
	return set
}

// ParseGrantablePermissionSet parses the stored bitstring form.
func ParseGrantablePermissionSet(s string) (GrantablePermissionSet, error) {
	set, err := parsePermissionSet(s, int(grantablePermissionCount))
	if err != nil {
		return GrantablePermissionSet{}, err
	}
	return GrantablePermissionSet{set}, nil
}

func (p GrantablePermissionSet) IsSet(perm GrantablePermission) bool { return p.isSet(int(perm)) }
func (p GrantablePermissionSet) Set(perm GrantablePermission)        { p.set(int(perm)) }
func (p GrantablePermissionSet) Bitstring() string                   { return p.bitstring() }

func (p GrantablePermissionSet) IsSubsetOf(other GrantablePermissionSet) bool {
	return p.isSubsetOf(other.permissionSet)
}

func (p GrantablePermissionSet) Union(other GrantablePermissionSet) {
	p.union(other.permissionSet)
}
