package types

import (
	"fmt"

	"github.com/heirloom-labs/heirloom/errors"
)

// MaxFungibleAmount bounds a single asset unit count so amounts always fit
// a felt without wrapping.
const MaxFungibleAmount = uint64(1)<<63 - 1

// TokenSymbolMaxLen is the longest accepted faucet ticker.
const TokenSymbolMaxLen = 6

// TokenSymbol is a short uppercase ticker naming a faucet's asset.
type TokenSymbol string

// NewTokenSymbol validates and returns a ticker symbol.
func NewTokenSymbol(s string) (TokenSymbol, error) {
	if len(s) == 0 || len(s) > TokenSymbolMaxLen {
		return "", errors.NewError(errors.ErrCodeMalformedRequest,
			fmt.Sprintf("token symbol must be 1-%d characters", TokenSymbolMaxLen))
	}
	for _, c := range s {
		if c < 'A' || c > 'Z' {
			return "", errors.NewError(errors.ErrCodeMalformedRequest, "token symbol must be uppercase A-Z")
		}
	}
	return TokenSymbol(s), nil
}

// FungibleAsset is a quantity of a faucet-issued asset.
type FungibleAsset struct {
	FaucetID AccountID `json:"faucet_id"`
	Amount   uint64    `json:"amount"`
}

// NewFungibleAsset builds an asset unit. Amount must be positive and within
// the felt-representable bound; the per-faucet supply cap is enforced where
// the faucet state is known (issuance and note construction).
func NewFungibleAsset(faucetID AccountID, amount uint64) (FungibleAsset, error) {
	if faucetID.Type() != AccountTypeFungibleFaucet {
		return FungibleAsset{}, errors.NewError(errors.ErrCodeInvalidAsset, "issuer is not a faucet account")
	}
	if amount == 0 || amount > MaxFungibleAmount {
		return FungibleAsset{}, errors.NewError(errors.ErrCodeInvalidAsset, errors.ErrMsgInvalidAsset)
	}
	return FungibleAsset{FaucetID: faucetID, Amount: amount}, nil
}
