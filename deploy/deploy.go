package deploy

import (
	"context"
	"errors"
	"fmt"

	"github.com/holiman/uint256"
	"github.com/quigiaosu103/htpc/common"
	"github.com/quigiaosu103/htpc/contracts/ft"
	"github.com/quigiaosu103/htpc/host"
	"go.uber.org/zap"
)

// Runtime groups services of the token contract host required for its
// deployment. *host.Runtime satisfies it.
type Runtime interface {
	// Initialized checks whether the token contract is initialized.
	Initialized(context.Context) (bool, error)

	// Init initializes the token contract.
	Init(context.Context, ft.InitPrm) (*host.Outcome, error)

	// StorageBalanceBounds returns registration cost.
	StorageBalanceBounds(context.Context) (ft.StorageBalanceBounds, error)

	// StorageBalanceOf returns storage balance of the account or nil if it
	// is not registered.
	StorageBalanceOf(context.Context, common.AccountID) (*ft.StorageBalance, error)

	// StorageDeposit registers the account.
	StorageDeposit(ctx context.Context, call host.Call, account *common.AccountID, registrationOnly bool) (ft.StorageBalance, *host.Outcome, error)

	// CheckSupply checks that balances sum up to the total supply.
	CheckSupply(context.Context) error
}

// TokenPrm groups parameters of the token issuance.
type TokenPrm struct {
	// Owner receives the whole supply.
	Owner common.AccountID

	TotalSupply *uint256.Int

	// Optional metadata, ft.DefaultMetadata is used if nil.
	Metadata *ft.FungibleTokenMetadata
}

// Prm groups all parameters of the token deployment procedure.
type Prm struct {
	// Writes progress into the log.
	Logger *zap.Logger

	// Host of the token contract.
	Runtime Runtime

	Token TokenPrm

	// Accounts to register on behalf of the token owner. The owner pays
	// their storage.
	Accounts []common.AccountID
}

// Deploy brings the token contract to the state described by Prm.
//
// Deploy is idempotent: the initialized contract is left as is, registered
// accounts are skipped. Summary of stages:
//  1. contract initialization with the initial supply minted to the owner
//  2. registration of the listed accounts
//  3. total supply check
func Deploy(ctx context.Context, prm Prm) error {
	if prm.Runtime == nil {
		return errors.New("missing runtime")
	}

	log := prm.Logger
	if log == nil {
		log = zap.NewNop()
	}

	initialized, err := prm.Runtime.Initialized(ctx)
	if err != nil {
		return fmt.Errorf("check contract initialization: %w", err)
	}

	if !initialized {
		if prm.Token.TotalSupply == nil {
			return errors.New("missing total supply of the token")
		}

		log.Info("initializing token contract...",
			zap.Stringer("owner", prm.Token.Owner), zap.String("total supply", prm.Token.TotalSupply.Dec()))

		err = initToken(ctx, prm.Runtime, prm.Token)
		if err != nil {
			return fmt.Errorf("init token contract: %w", err)
		}

		log.Info("token contract successfully initialized")
	} else {
		log.Debug("token contract is already initialized")
	}

	if len(prm.Accounts) > 0 {
		log.Info("registering accounts...", zap.Int("count", len(prm.Accounts)))

		err = registerAccounts(ctx, log, prm.Runtime, prm.Token.Owner, prm.Accounts)
		if err != nil {
			return fmt.Errorf("register accounts: %w", err)
		}

		log.Info("accounts successfully registered")
	}

	err = prm.Runtime.CheckSupply(ctx)
	if err != nil {
		return fmt.Errorf("check total supply: %w", err)
	}

	return nil
}

func initToken(ctx context.Context, r Runtime, prm TokenPrm) error {
	meta := ft.DefaultMetadata()
	if prm.Metadata != nil {
		meta = *prm.Metadata
	}

	_, err := r.Init(ctx, ft.InitPrm{
		Owner:       prm.Owner,
		TotalSupply: prm.TotalSupply,
		Metadata:    meta,
	})

	return err
}

func registerAccounts(ctx context.Context, log *zap.Logger, r Runtime, payer common.AccountID, accounts []common.AccountID) error {
	bounds, err := r.StorageBalanceBounds(ctx)
	if err != nil {
		return fmt.Errorf("get storage balance bounds: %w", err)
	}

	for i := range accounts {
		acc := accounts[i]

		sb, err := r.StorageBalanceOf(ctx, acc)
		if err != nil {
			return fmt.Errorf("get storage balance of %s: %w", acc, err)
		}
		if sb != nil {
			log.Debug("account is already registered, skip", zap.Stringer("account", acc))
			continue
		}

		_, _, err = r.StorageDeposit(ctx, host.Call{Caller: payer, Deposit: bounds.Min}, &acc, true)
		if err != nil {
			return fmt.Errorf("register %s: %w", acc, err)
		}

		log.Info("account registered", zap.Stringer("account", acc), zap.String("deposit", bounds.Min.Dec()))
	}

	return nil
}
