package wsv

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRolePermissionSet(t *testing.T) {
	set := NewRolePermissionSet(RoleTransfer, RoleReceive)
	assert.True(t, set.IsSet(RoleTransfer))
	assert.True(t, set.IsSet(RoleReceive))
	assert.False(t, set.IsSet(RoleCreateRole))

	superset := NewRolePermissionSet(RoleTransfer, RoleReceive, RoleCreateRole)
	assert.True(t, set.IsSubsetOf(superset))
	assert.False(t, superset.IsSubsetOf(set))
}

func TestRolePermissionSetBitstring(t *testing.T) {
	set := NewRolePermissionSet(RoleAppendRole, RoleRoot)
	encoded := set.Bitstring()
	assert.Equal(t, byte('1'), encoded[RoleAppendRole])
	assert.Equal(t, byte('1'), encoded[RoleRoot])
	assert.Equal(t, byte('0'), encoded[RoleTransfer])

	parsed, err := ParseRolePermissionSet(encoded)
	require.NoError(t, err)
	assert.Equal(t, encoded, parsed.Bitstring())

	_, err = ParseRolePermissionSet("01")
	assert.Error(t, err)
	_, err = ParseRolePermissionSet(string(make([]byte, len(encoded))))
	assert.Error(t, err)
}

func TestRolePermissionSetUnion(t *testing.T) {
	left := NewRolePermissionSet(RoleTransfer)
	right := NewRolePermissionSet(RoleReceive)
	left.Union(right)
	assert.True(t, left.IsSet(RoleTransfer))
	assert.True(t, left.IsSet(RoleReceive))
	assert.False(t, right.IsSet(RoleTransfer))
}

func TestRolePermissionSetSetAll(t *testing.T) {
	set := NewRolePermissionSet()
	set.SetAll()
	for perm := RolePermission(0); perm < rolePermissionCount; perm++ {
		assert.True(t, set.IsSet(perm))
	}
}

func TestGrantablePermissionSet(t *testing.T) {
	set := NewGrantablePermissionSet(GrantableTransferMyAssets)
	assert.True(t, set.IsSet(GrantableTransferMyAssets))
	assert.False(t, set.IsSet(GrantableSetMyAccountDetail))

	parsed, err := ParseGrantablePermissionSet(set.Bitstring())
	require.NoError(t, err)
	assert.True(t, parsed.IsSet(GrantableTransferMyAssets))
}

func TestPermissionFor(t *testing.T) {
	assert.Equal(t, RoleGrantTransferMyAssets, PermissionFor(GrantableTransferMyAssets))
	assert.Equal(t, RoleGrantSetMyAccountDetail, PermissionFor(GrantableSetMyAccountDetail))
	assert.Equal(t, RoleGrantSetMyQuorum, PermissionFor(GrantableSetMyQuorum))
}
