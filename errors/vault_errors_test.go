package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodeOf(t *testing.T) {
	err := NewError(ErrCodeConditionRejected, ErrMsgConditionRejected)
	assert.Equal(t, ErrCodeConditionRejected, CodeOf(err))

	wrapped := fmt.Errorf("submitting transaction: %w", err)
	assert.Equal(t, ErrCodeConditionRejected, CodeOf(wrapped), "codes must survive wrapping")

	assert.Equal(t, ErrCodeInternal, CodeOf(errors.New("plain")))
	assert.Equal(t, ErrCodeInternal, CodeOf(nil))
}

func TestErrorRendersAsJSON(t *testing.T) {
	err := NewError(ErrCodeInvalidDeadline, ErrMsgInvalidDeadline)
	msg := err.Error()
	assert.Contains(t, msg, `"construction_invalid_deadline"`)
	assert.Contains(t, msg, ErrMsgInvalidDeadline)
}

func TestClassification(t *testing.T) {
	cases := []struct {
		code         VaultErrorCode
		construction bool
		rejected     bool
		network      bool
		sync         bool
	}{
		{ErrCodeInvalidAsset, true, false, false, false},
		{ErrCodeInvalidDeadline, true, false, false, false},
		{ErrCodeScriptCompile, true, false, false, false},
		{ErrCodeMalformedNote, true, false, false, false},
		{ErrCodeMalformedRequest, true, false, false, false},
		{ErrCodeSubmissionRejected, false, true, false, false},
		{ErrCodeInsufficientFunds, false, true, false, false},
		{ErrCodeConditionRejected, false, true, false, false},
		{ErrCodeDuplicateNullifier, false, true, false, false},
		{ErrCodeUnknownNote, false, true, false, false},
		{ErrCodeUnknownAccount, false, true, false, false},
		{ErrCodeSupplyExceeded, false, true, false, false},
		{ErrCodeNetwork, false, false, true, false},
		{ErrCodeSyncFailed, false, false, false, true},
		{ErrCodeInternal, false, false, false, false},
	}
	for _, c := range cases {
		err := NewError(c.code, "x")
		assert.Equal(t, c.construction, IsConstruction(err), string(c.code))
		assert.Equal(t, c.rejected, IsSubmissionRejected(err), string(c.code))
		assert.Equal(t, c.network, IsNetwork(err), string(c.code))
		assert.Equal(t, c.sync, IsSyncFailure(err), string(c.code))
	}
}

func TestClassesAreDisjoint(t *testing.T) {
	codes := []VaultErrorCode{
		ErrCodeInvalidAsset, ErrCodeInvalidDeadline, ErrCodeScriptCompile,
		ErrCodeMalformedNote, ErrCodeMalformedRequest, ErrCodeSubmissionRejected,
		ErrCodeInsufficientFunds, ErrCodeConditionRejected, ErrCodeDuplicateNullifier,
		ErrCodeUnknownNote, ErrCodeUnknownAccount, ErrCodeSupplyExceeded,
		ErrCodeNetwork, ErrCodeSyncFailed,
	}
	for _, code := range codes {
		err := NewError(code, "x")
		n := 0
		for _, is := range []bool{IsConstruction(err), IsSubmissionRejected(err), IsNetwork(err), IsSyncFailure(err)} {
			if is {
				n++
			}
		}
		require.Equal(t, 1, n, "code %s must fall in exactly one class", code)
	}
}
