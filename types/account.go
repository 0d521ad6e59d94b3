package types

import (
	"bytes"
	"crypto/ed25519"
	"encoding/binary"

	"github.com/heirloom-labs/heirloom/errors"
	"github.com/holiman/uint256"
	"github.com/mr-tron/base58"
	"golang.org/x/crypto/blake2b"
)

// AccountType distinguishes ordinary wallets from asset-issuing faucets.
type AccountType uint8

const (
	AccountTypeBasicWallet AccountType = iota
	AccountTypeFungibleFaucet
)

// StorageMode is the on-ledger visibility of an account's state.
type StorageMode uint8

const (
	StoragePublic StorageMode = iota
	StoragePrivate
)

// AccountIDSize is the raw identifier width: an 8-byte prefix carrying the
// type and storage-mode bits followed by a 7-byte suffix.
const AccountIDSize = 15

// AccountID identifies an account. The (prefix, suffix) felt pair is the
// identity condition scripts check at consumption time.
type AccountID [AccountIDSize]byte

// NewAccountID derives an identifier from a seed. The top nibble of the
// first byte encodes the account type and storage mode so an ID is
// self-describing.
func NewAccountID(accountType AccountType, storageMode StorageMode, seed []byte) AccountID {
	digest := blake2b.Sum256(seed)

	var id AccountID
	copy(id[:], digest[:AccountIDSize])
	id[0] = (id[0] & 0x0f) | (uint8(accountType)&0x03)<<6 | (uint8(storageMode)&0x03)<<4
	return id
}

func (id AccountID) Type() AccountType {
	return AccountType(id[0] >> 6 & 0x03)
}

func (id AccountID) StorageMode() StorageMode {
	return StorageMode(id[0] >> 4 & 0x03)
}

// Prefix returns the first eight identifier bytes as a felt.
func (id AccountID) Prefix() Felt {
	return Felt(binary.BigEndian.Uint64(id[:8]))
}

// Suffix returns the trailing seven identifier bytes as a felt.
func (id AccountID) Suffix() Felt {
	var buf [8]byte
	copy(buf[1:], id[8:])
	return Felt(binary.BigEndian.Uint64(buf[:]))
}

func (id AccountID) Equal(other AccountID) bool {
	return bytes.Equal(id[:], other[:])
}

func (id AccountID) String() string {
	return base58.Encode(id[:])
}

// ParseAccountID decodes a base58 identifier produced by String.
func ParseAccountID(s string) (AccountID, error) {
	raw, err := base58.Decode(s)
	if err != nil {
		return AccountID{}, errors.NewError(errors.ErrCodeMalformedRequest, "account id is not valid base58")
	}
	if len(raw) != AccountIDSize {
		return AccountID{}, errors.NewError(errors.ErrCodeMalformedRequest, "account id has wrong length")
	}
	var id AccountID
	copy(id[:], raw)
	return id, nil
}

func (id AccountID) MarshalJSON() ([]byte, error) {
	return []byte(`"` + id.String() + `"`), nil
}

func (id *AccountID) UnmarshalJSON(data []byte) error {
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return errors.NewError(errors.ErrCodeMalformedRequest, "account id must be a string")
	}
	parsed, err := ParseAccountID(string(data[1 : len(data)-1]))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// Account is the ledger-side record for a wallet or faucet. Balances are
// kept per issuing faucet since every asset unit is faucet-tagged.
type Account struct {
	ID       AccountID                `json:"id"`
	AuthKey  ed25519.PublicKey        `json:"auth_key"`
	Balances map[string]*uint256.Int  `json:"balances"`
	Faucet   *FaucetState             `json:"faucet,omitempty"`
}

// FaucetState is present only on faucet accounts and tracks issuance
// against the declared maximum supply.
type FaucetState struct {
	Symbol    TokenSymbol  `json:"symbol"`
	Decimals  uint8        `json:"decimals"`
	MaxSupply uint64       `json:"max_supply"`
	Minted    *uint256.Int `json:"minted"`
}

// NewAccount builds an in-memory account record with an empty balance book.
func NewAccount(id AccountID, authKey ed25519.PublicKey) *Account {
	return &Account{
		ID:       id,
		AuthKey:  authKey,
		Balances: make(map[string]*uint256.Int),
	}
}

// Balance returns the account's holding of the given faucet's asset.
func (a *Account) Balance(faucetID AccountID) *uint256.Int {
	if bal, ok := a.Balances[faucetID.String()]; ok {
		return bal.Clone()
	}
	return uint256.NewInt(0)
}

// Credit adds amount of the faucet's asset to the account.
func (a *Account) Credit(faucetID AccountID, amount uint64) {
	key := faucetID.String()
	bal, ok := a.Balances[key]
	if !ok {
		bal = uint256.NewInt(0)
		a.Balances[key] = bal
	}
	bal.Add(bal, uint256.NewInt(amount))
}

// Debit removes amount of the faucet's asset, failing when the holding
// cannot back it.
func (a *Account) Debit(faucetID AccountID, amount uint64) error {
	key := faucetID.String()
	bal, ok := a.Balances[key]
	if !ok || bal.Lt(uint256.NewInt(amount)) {
		return errors.NewError(errors.ErrCodeInsufficientFunds, errors.ErrMsgInsufficientFunds)
	}
	bal.Sub(bal, uint256.NewInt(amount))
	return nil
}
