package tokens

import (
	"context"
	"sync"
)

// MemoryStore keeps balances in process memory
type MemoryStore struct {
	mu       sync.Mutex
	balances map[Account]int
}

// NewMemoryStore creates an empty store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{balances: make(map[Account]int)}
}

// EnsureAccount creates the account with starting tokens if it does not exist
func (s *MemoryStore) EnsureAccount(_ context.Context, account Account, starting int) (bool, error) {
	if err := checkAmount(starting); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.balances[account]; ok {
		return false, nil
	}
	s.balances[account] = starting
	return true, nil
}

// Balance returns the current balance
func (s *MemoryStore) Balance(_ context.Context, account Account) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	balance, ok := s.balances[account]
	if !ok {
		return 0, ErrUnknownAccount
	}
	return balance, nil
}

// Credit adds amount tokens
func (s *MemoryStore) Credit(_ context.Context, account Account, amount int) error {
	if err := checkAmount(amount); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.balances[account]; !ok {
		return ErrUnknownAccount
	}
	s.balances[account] += amount
	return nil
}

// Debit removes amount tokens; the balance never goes negative
func (s *MemoryStore) Debit(_ context.Context, account Account, amount int) error {
	if err := checkAmount(amount); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	balance, ok := s.balances[account]
	if !ok {
		return ErrUnknownAccount
	}
	if balance < amount {
		return ErrInsufficientTokens
	}
	s.balances[account] = balance - amount
	return nil
}
