package errors

import (
	"errors"

	"github.com/heirloom-labs/heirloom/jsonx"
)

// VaultErrorCode represents standardized error codes for vault operations
type VaultErrorCode string

const (
	// General errors
	ErrCodeInternal VaultErrorCode = "internal_error"

	// Construction errors - local, never retried
	ErrCodeInvalidAsset      VaultErrorCode = "construction_invalid_asset"
	ErrCodeInvalidDeadline   VaultErrorCode = "construction_invalid_deadline"
	ErrCodeScriptCompile     VaultErrorCode = "construction_script_compile"
	ErrCodeMalformedNote     VaultErrorCode = "construction_malformed_note"
	ErrCodeMalformedRequest  VaultErrorCode = "construction_malformed_request"

	// Ledger-side rejections - propagated verbatim, caller decides
	ErrCodeSubmissionRejected VaultErrorCode = "submission_rejected"
	ErrCodeInsufficientFunds  VaultErrorCode = "insufficient_funds"
	ErrCodeConditionRejected  VaultErrorCode = "condition_rejected"
	ErrCodeDuplicateNullifier VaultErrorCode = "duplicate_nullifier"
	ErrCodeUnknownNote        VaultErrorCode = "unknown_note"
	ErrCodeUnknownAccount     VaultErrorCode = "unknown_account"
	ErrCodeSupplyExceeded     VaultErrorCode = "supply_exceeded"

	// Transport and state-refresh errors
	ErrCodeNetwork    VaultErrorCode = "network_error"
	ErrCodeSyncFailed VaultErrorCode = "sync_failed"
)

// VaultError represents a standardized vault error
type VaultError struct {
	Code    VaultErrorCode `json:"code"`
	Message string         `json:"message"`
}

// Error implements the error interface
func (e *VaultError) Error() string {
	err, _ := jsonx.Marshal(VaultError{
		Code:    e.Code,
		Message: e.Message,
	})
	return string(err)
}

// Error message constants - user-friendly and concise
const (
	ErrMsgInvalidAsset       = "Asset amount is zero or exceeds issuance limits"
	ErrMsgInvalidDeadline    = "Deadline height must be above the current ledger height"
	ErrMsgScriptCompile      = "Condition script failed to compile"
	ErrMsgMalformedNote      = "Note inputs are malformed"
	ErrMsgInsufficientFunds  = "Not enough balance to back the note"
	ErrMsgConditionRejected  = "Condition script rejected the consumption"
	ErrMsgDuplicateNullifier = "Note has already been consumed"
	ErrMsgUnknownNote        = "Note does not exist on the ledger"
	ErrMsgUnknownAccount     = "Account does not exist"
	ErrMsgSupplyExceeded     = "Mint amount exceeds remaining faucet supply"
	ErrMsgNetwork            = "Could not reach the ledger"
	ErrMsgSyncFailed         = "Ledger state refresh failed"
	ErrMsgInternal           = "Server error, please try again"
)

// NewError creates a new VaultError and returns it as error interface
func NewError(code VaultErrorCode, message string) error {
	return &VaultError{
		Code:    code,
		Message: message,
	}
}

// CodeOf extracts the vault error code from err, or ErrCodeInternal when
// err carries no code.
func CodeOf(err error) VaultErrorCode {
	var ve *VaultError
	if errors.As(err, &ve) {
		return ve.Code
	}
	return ErrCodeInternal
}

// IsConstruction reports whether err is a local construction failure.
func IsConstruction(err error) bool {
	switch CodeOf(err) {
	case ErrCodeInvalidAsset, ErrCodeInvalidDeadline, ErrCodeScriptCompile,
		ErrCodeMalformedNote, ErrCodeMalformedRequest:
		return true
	}
	return false
}

// IsSubmissionRejected reports whether err is a ledger-side rejection.
func IsSubmissionRejected(err error) bool {
	switch CodeOf(err) {
	case ErrCodeSubmissionRejected, ErrCodeInsufficientFunds, ErrCodeConditionRejected,
		ErrCodeDuplicateNullifier, ErrCodeUnknownNote, ErrCodeUnknownAccount,
		ErrCodeSupplyExceeded:
		return true
	}
	return false
}

// IsNetwork reports whether err is a transport failure.
func IsNetwork(err error) bool {
	return CodeOf(err) == ErrCodeNetwork
}

// IsSyncFailure reports whether err is a state-refresh failure.
func IsSyncFailure(err error) bool {
	return CodeOf(err) == ErrCodeSyncFailed
}
