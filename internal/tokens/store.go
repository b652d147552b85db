// Package tokens holds account token balances. The blackjack table only sees
// the Store interface; purchases credit the same store out of band.
package tokens

import (
	"context"
	"errors"
	"fmt"
)

// PackSize is the number of tokens in one purchased pack ($1 buys 100 tokens)
const PackSize = 100

var (
	// ErrUnknownAccount is returned for an account with no balance record
	ErrUnknownAccount = errors.New("unknown account")
	// ErrInsufficientTokens is returned when a debit exceeds the balance
	ErrInsufficientTokens = errors.New("insufficient tokens")
	// ErrInvalidAmount is returned for negative credits or debits
	ErrInvalidAmount = errors.New("invalid token amount")
)

// Account is the opaque authenticated-account handle supplied by the identity
// layer. It is only used as a key.
type Account string

// Store reads and adjusts token balances
type Store interface {
	Balance(ctx context.Context, account Account) (int, error)
	Credit(ctx context.Context, account Account, amount int) error
	Debit(ctx context.Context, account Account, amount int) error
}

// Purchase credits packs × PackSize tokens, returning the new balance
func Purchase(ctx context.Context, store Store, account Account, packs int) (int, error) {
	if packs <= 0 {
		return 0, fmt.Errorf("purchase %d packs: %w", packs, ErrInvalidAmount)
	}
	if err := store.Credit(ctx, account, packs*PackSize); err != nil {
		return 0, fmt.Errorf("purchase for %s: %w", account, err)
	}
	return store.Balance(ctx, account)
}

func checkAmount(amount int) error {
	if amount < 0 {
		return fmt.Errorf("%d: %w", amount, ErrInvalidAmount)
	}
	return nil
}
