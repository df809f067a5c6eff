// Package wsv implements the world state view: the key-value schema of the
// ledger state, a formatting façade over a storage transaction, the
// permission model and asset amount arithmetic.
package wsv

// Key templates of the state schema. The layout is bit-stable: clients and
// migrations depend on the exact byte form, delimiter is '/'. Numeric values
// are ASCII base-10 with no leading zeros.
const (
	// domain_id/account_name -> quorum
	KeyQuorum = "quorum/%s/%s"
	// domain_id/account_name/role_name -> ""
	KeyAccountRole = "account_role/%s/%s/%s"
	// role_name -> permission bitstring
	KeyRole = "role/%s"
	// domain_id -> default role name
	KeyDomain = "domain/%s"
	// domain_id/account_name/pubkey -> ""
	KeySignatory = "signatory/%s/%s/%s"
	// domain_id/asset_name -> precision
	KeyAsset = "asset/%s/%s"
	// account_domain_id/account_name/asset_id -> amount
	KeyAccountAsset = "account_asset/%s/%s/%s"
	// account_domain_id/account_name -> number of account assets
	KeyAccountAssetSize = "account_asset_size/%s/%s"
	// domain_id/account_name/writer_domain_id/writer_account_name/key -> value
	KeyAccountDetail = "account_detail/%s/%s/%s/%s/%s"
	// pubkey -> address
	KeyPeer = "peer/%s"
	// domain_id/account_name -> permission bitstring
	KeyPermissions = "permissions/%s/%s"
	// domain_id/account_name/grantee_domain_id/grantee_account_name -> grantable bitstring
	KeyGranted = "granted/%s/%s/%s/%s"
	// key -> value
	KeySetting = "setting/%s"
)

// SettingMaxDescriptionSize bounds transfer descriptions when present.
const SettingMaxDescriptionSize = "MaxDescriptionSize"
