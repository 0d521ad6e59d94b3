package script

import (
	"testing"

	"github.com/heirloom-labs/heirloom/errors"
	"github.com/heirloom-labs/heirloom/interfaces"
	"github.com/heirloom-labs/heirloom/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileRejectsUnknownInstruction(t *testing.T) {
	_, err := Compile("push.ctx.height\nfrobnicate\nassert")
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeScriptCompile, errors.CodeOf(err))
}

func TestCompileRejectsEmptyScript(t *testing.T) {
	_, err := Compile("# just a comment\n\n")
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeScriptCompile, errors.CodeOf(err))
}

func TestCompileRequiresTrailingAssert(t *testing.T) {
	_, err := Compile("push.1\npush.1\neq")
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeScriptCompile, errors.CodeOf(err))
}

func TestRootIgnoresFormatting(t *testing.T) {
	a, err := Compile("push.1\npush.1\neq\nassert")
	require.NoError(t, err)

	b, err := Compile("  push.1   # one\n\n\tpush.1\n eq\nassert # done")
	require.NoError(t, err)

	assert.Equal(t, a.Root(), b.Root(), "root must commit to instructions, not formatting")
}

func TestRootDistinguishesPrograms(t *testing.T) {
	a, err := Compile("push.1\npush.1\neq\nassert")
	require.NoError(t, err)

	b, err := Compile("push.1\npush.2\neq\nassert")
	require.NoError(t, err)

	assert.NotEqual(t, a.Root(), b.Root())
}

func vaultContext(t *testing.T, height uint64, consumer, beneficiary types.AccountID, deadline uint64) interfaces.EvalContext {
	t.Helper()
	inputs, err := VaultInputs(deadline, beneficiary)
	require.NoError(t, err)
	return interfaces.EvalContext{
		BlockHeight: height,
		Consumer:    consumer,
		Inputs:      inputs,
	}
}

func TestVaultPredicateLockedRejectsEveryone(t *testing.T) {
	predicate, err := CompileVault()
	require.NoError(t, err)

	owner := types.NewAccountID(types.AccountTypeBasicWallet, types.StoragePublic, []byte("owner"))
	beneficiary := types.NewAccountID(types.AccountTypeBasicWallet, types.StoragePublic, []byte("heir"))

	const deadline = 100
	for _, consumer := range []types.AccountID{owner, beneficiary} {
		assert.False(t, predicate.Evaluate(vaultContext(t, deadline-1, consumer, beneficiary, deadline)),
			"locked state must reject every consumer, including the beneficiary")
	}
}

func TestVaultPredicateReleasableAcceptsOnlyBeneficiary(t *testing.T) {
	predicate, err := CompileVault()
	require.NoError(t, err)

	owner := types.NewAccountID(types.AccountTypeBasicWallet, types.StoragePublic, []byte("owner"))
	beneficiary := types.NewAccountID(types.AccountTypeBasicWallet, types.StoragePublic, []byte("heir"))
	stranger := types.NewAccountID(types.AccountTypeBasicWallet, types.StoragePublic, []byte("stranger"))

	const deadline = 100
	assert.True(t, predicate.Evaluate(vaultContext(t, deadline, beneficiary, beneficiary, deadline)),
		"beneficiary must pass exactly at the deadline height")
	assert.True(t, predicate.Evaluate(vaultContext(t, deadline+50, beneficiary, beneficiary, deadline)))

	assert.False(t, predicate.Evaluate(vaultContext(t, deadline, owner, beneficiary, deadline)),
		"owner is never a valid consumer")
	assert.False(t, predicate.Evaluate(vaultContext(t, deadline+50, stranger, beneficiary, deadline)))
}

func TestVaultPredicateRejectsShortInputs(t *testing.T) {
	predicate, err := CompileVault()
	require.NoError(t, err)

	consumer := types.NewAccountID(types.AccountTypeBasicWallet, types.StoragePublic, []byte("c"))
	assert.False(t, predicate.Evaluate(interfaces.EvalContext{
		BlockHeight: 1000,
		Consumer:    consumer,
		Inputs:      types.NoteInputs{500},
	}), "missing beneficiary inputs must evaluate to rejection")
}
