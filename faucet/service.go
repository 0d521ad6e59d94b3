// Package faucet deploys fungible-faucet accounts and mints their asset to
// target accounts, bounded by declared supply.
package faucet

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"fmt"
	"sync"
	"time"

	"github.com/heirloom-labs/heirloom/errors"
	"github.com/heirloom-labs/heirloom/interfaces"
	"github.com/heirloom-labs/heirloom/logx"
	"github.com/heirloom-labs/heirloom/types"
)

// Service fronts a deployed faucet account. Minting is rate-limited per
// target to keep demo and test environments from draining supply by
// accident; a zero cooldown disables the limit.
type Service struct {
	client      interfaces.LedgerClient
	faucetID    types.AccountID
	symbol      types.TokenSymbol
	decimals    uint8
	maxSupply   uint64
	cooldown    time.Duration
	mu          sync.Mutex
	lastRequest map[string]time.Time
}

// Deploy creates a new fungible-faucet account on the ledger, stores its
// signing key and returns a service bound to it.
func Deploy(ctx context.Context, client interfaces.LedgerClient, keystore interfaces.KeyStore, symbol string, decimals uint8, maxSupply uint64, cooldown time.Duration) (*Service, error) {
	tokenSymbol, err := types.NewTokenSymbol(symbol)
	if err != nil {
		return nil, err
	}
	if maxSupply == 0 || maxSupply > types.MaxFungibleAmount {
		return nil, errors.NewError(errors.ErrCodeInvalidAsset, "faucet max supply out of range")
	}

	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("could not generate faucet key: %w", err)
	}

	faucetID, err := client.CreateAccount(ctx, interfaces.CreateAccountRequest{
		Type:        types.AccountTypeFungibleFaucet,
		StorageMode: types.StoragePublic,
		AuthKey:     pub,
		Faucet: &types.FaucetState{
			Symbol:    tokenSymbol,
			Decimals:  decimals,
			MaxSupply: maxSupply,
		},
	})
	if err != nil {
		return nil, err
	}
	if err := keystore.AddKey(faucetID, priv); err != nil {
		return nil, fmt.Errorf("could not store faucet key: %w", err)
	}
	if _, err := client.Synchronize(ctx); err != nil {
		return nil, err
	}

	logx.Info("FAUCET", "deployed faucet ", faucetID.String(), " symbol=", symbol, " max_supply=", maxSupply)
	return &Service{
		client:      client,
		faucetID:    faucetID,
		symbol:      tokenSymbol,
		decimals:    decimals,
		maxSupply:   maxSupply,
		cooldown:    cooldown,
		lastRequest: make(map[string]time.Time),
	}, nil
}

// ID returns the faucet's account identifier.
func (s *Service) ID() types.AccountID {
	return s.faucetID
}

// Symbol returns the faucet's ticker.
func (s *Service) Symbol() types.TokenSymbol {
	return s.symbol
}

// MaxSupply returns the declared supply cap.
func (s *Service) MaxSupply() uint64 {
	return s.maxSupply
}

// State returns the faucet parameters as ledger-side faucet state.
func (s *Service) State() *types.FaucetState {
	return &types.FaucetState{
		Symbol:    s.symbol,
		Decimals:  s.decimals,
		MaxSupply: s.maxSupply,
	}
}

// Mint issues amount units to the target account and resynchronizes so the
// caller observes the credited balance.
func (s *Service) Mint(ctx context.Context, target types.AccountID, amount uint64) (types.FungibleAsset, error) {
	if err := s.checkCooldown(target); err != nil {
		return types.FungibleAsset{}, err
	}

	asset, err := s.client.IssueAsset(ctx, s.faucetID, target, amount)
	if err != nil {
		return types.FungibleAsset{}, err
	}
	if _, err := s.client.Synchronize(ctx); err != nil {
		return types.FungibleAsset{}, err
	}

	logx.Info("FAUCET", "minted ", amount, " ", string(s.symbol), " to ", target.String())
	return asset, nil
}

func (s *Service) checkCooldown(target types.AccountID) error {
	if s.cooldown == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := target.String()
	if last, ok := s.lastRequest[key]; ok && time.Since(last) < s.cooldown {
		return errors.NewError(errors.ErrCodeSubmissionRejected, "faucet cooldown active for target")
	}
	s.lastRequest[key] = time.Now()
	return nil
}
