package tokens

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"
)

// accountRecord is the persisted balance row
type accountRecord struct {
	ID        string    `gorm:"primaryKey;type:varchar(255)"`
	Tokens    int       `gorm:"not null;default:0"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"`
}

func (accountRecord) TableName() string { return "accounts" }

// SQLStore keeps balances in a SQL database through GORM
type SQLStore struct {
	db *gorm.DB
}

// OpenSQLite opens (creating if needed) a SQLite database at dsn and migrates it
func OpenSQLite(dsn string) (*SQLStore, error) {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return nil, fmt.Errorf("tokens: empty dsn")
	}

	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("tokens: open sqlite: %w", err)
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return nil, fmt.Errorf("tokens: open sqlite sql: %w", err)
	}
	// One connection keeps ":memory:" databases shared and serializes writers
	sqlDB.SetMaxOpenConns(1)

	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("tokens: ping: %w", err)
	}

	return NewSQLStore(conn)
}

// NewSQLStore wraps an open connection, migrating the accounts table
func NewSQLStore(db *gorm.DB) (*SQLStore, error) {
	if err := db.AutoMigrate(&accountRecord{}); err != nil {
		return nil, fmt.Errorf("tokens: migrate: %w", err)
	}
	return &SQLStore{db: db}, nil
}

// Close releases the underlying connection pool
func (s *SQLStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// EnsureAccount inserts the account with starting tokens unless it exists
func (s *SQLStore) EnsureAccount(ctx context.Context, account Account, starting int) (bool, error) {
	if err := checkAmount(starting); err != nil {
		return false, err
	}
	rec := accountRecord{ID: string(account), Tokens: starting}
	res := s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&rec)
	if res.Error != nil {
		return false, fmt.Errorf("tokens: create account %s: %w", account, res.Error)
	}
	return res.RowsAffected == 1, nil
}

// Balance returns the current balance
func (s *SQLStore) Balance(ctx context.Context, account Account) (int, error) {
	var rec accountRecord
	err := s.db.WithContext(ctx).Where("id = ?", string(account)).Take(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, ErrUnknownAccount
	}
	if err != nil {
		return 0, fmt.Errorf("tokens: balance %s: %w", account, err)
	}
	return rec.Tokens, nil
}

// Credit adds amount tokens with a single increment statement
func (s *SQLStore) Credit(ctx context.Context, account Account, amount int) error {
	if err := checkAmount(amount); err != nil {
		return err
	}
	res := s.db.WithContext(ctx).
		Model(&accountRecord{}).
		Where("id = ?", string(account)).
		Update("tokens", gorm.Expr("tokens + ?", amount))
	if res.Error != nil {
		return fmt.Errorf("tokens: credit %s: %w", account, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrUnknownAccount
	}
	return nil
}

// Debit removes amount tokens only if the balance covers it
func (s *SQLStore) Debit(ctx context.Context, account Account, amount int) error {
	if err := checkAmount(amount); err != nil {
		return err
	}
	res := s.db.WithContext(ctx).
		Model(&accountRecord{}).
		Where("id = ? AND tokens >= ?", string(account), amount).
		Update("tokens", gorm.Expr("tokens - ?", amount))
	if res.Error != nil {
		return fmt.Errorf("tokens: debit %s: %w", account, res.Error)
	}
	if res.RowsAffected == 0 {
		if _, err := s.Balance(ctx, account); err != nil {
			return err
		}
		return ErrInsufficientTokens
	}
	return nil
}
