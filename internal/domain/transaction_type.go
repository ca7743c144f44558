package domain

type TransactionType string

const (
	TransactionTypeDeposit         TransactionType = "deposit"
	TransactionTypeWithdrawal      TransactionType = "withdrawal"
	TransactionTypeTransfer        TransactionType = "transfer"
	TransactionTypeVaultTransfer   TransactionType = "vault_transfer"
	TransactionTypeCheckCashing    TransactionType = "check_cashing"
	TransactionTypeDraft           TransactionType = "draft"
	TransactionTypeMiscReceipt     TransactionType = "misc_receipt"
	TransactionTypeReversal        TransactionType = "reversal"
	TransactionTypeHandoffVariance TransactionType = "handoff_variance"
	TransactionTypeCloseVariance   TransactionType = "close_variance"
)

func (t TransactionType) Valid() bool {
	switch t {
	case TransactionTypeDeposit,
		TransactionTypeWithdrawal,
		TransactionTypeTransfer,
		TransactionTypeVaultTransfer,
		TransactionTypeCheckCashing,
		TransactionTypeDraft,
		TransactionTypeMiscReceipt,
		TransactionTypeReversal,
		TransactionTypeHandoffVariance,
		TransactionTypeCloseVariance:
		return true
	}
	return false
}

// RequiresDrawer reports whether the type is cash-affecting by definition.
// Types that touch the drawer only through their legs (vault transfers,
// variance corrections) are caught by the per-leg policy check instead.
func (t TransactionType) RequiresDrawer() bool {
	switch t {
	case TransactionTypeDeposit, TransactionTypeWithdrawal, TransactionTypeCheckCashing:
		return true
	}
	return false
}

// IsVarianceCorrection reports whether the type is a session-variance
// correction. Those postings must not re-record a cash movement for the
// drawer count they are correcting.
func (t TransactionType) IsVarianceCorrection() bool {
	return t == TransactionTypeHandoffVariance || t == TransactionTypeCloseVariance
}

func (t TransactionType) Label() string {
	switch t {
	case TransactionTypeDeposit:
		return "Deposit"
	case TransactionTypeWithdrawal:
		return "Withdrawal"
	case TransactionTypeTransfer:
		return "Transfer"
	case TransactionTypeVaultTransfer:
		return "Vault Transfer"
	case TransactionTypeCheckCashing:
		return "Check Cashing"
	case TransactionTypeDraft:
		return "Bank Draft"
	case TransactionTypeMiscReceipt:
		return "Miscellaneous Receipt"
	case TransactionTypeReversal:
		return "Reversal"
	case TransactionTypeHandoffVariance:
		return "Drawer Handoff Variance"
	case TransactionTypeCloseVariance:
		return "Session Close Variance"
	}
	return string(t)
}

type VaultDirection string

const (
	VaultDirectionDrawerToVault VaultDirection = "drawer_to_vault"
	VaultDirectionVaultToDrawer VaultDirection = "vault_to_drawer"
	VaultDirectionVaultToVault  VaultDirection = "vault_to_vault"
)

func (d VaultDirection) Valid() bool {
	switch d {
	case VaultDirectionDrawerToVault, VaultDirectionVaultToDrawer, VaultDirectionVaultToVault:
		return true
	}
	return false
}
