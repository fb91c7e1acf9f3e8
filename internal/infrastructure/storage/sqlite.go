package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/cyrusai/agent-console/internal/domain"
)

const (
	credKeySessionID     = "session_id"
	credKeyWalletAddress = "wallet_address"
)

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		return nil, err
	}

	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS credentials (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS trades (
			id TEXT PRIMARY KEY,
			token TEXT NOT NULL,
			direction TEXT NOT NULL,
			entry_price TEXT NOT NULL,
			exit_price TEXT NOT NULL,
			entry_time DATETIME NOT NULL,
			exit_time DATETIME NOT NULL,
			amount TEXT NOT NULL,
			profit_loss TEXT NOT NULL,
			profit_loss_pct TEXT NOT NULL,
			factor_technical INTEGER NOT NULL,
			factor_fundamental INTEGER NOT NULL,
			factor_sentiment INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_trades_token ON trades(token);`,
	}

	for _, q := range queries {
		if _, err := s.db.Exec(q); err != nil {
			return fmt.Errorf("failed to exec query %s: %w", q, err)
		}
	}

	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// CredentialStore Implementation

func (s *SQLiteStore) SaveCredentials(ctx context.Context, creds domain.Credentials) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `INSERT INTO credentials (key, value) VALUES (?, ?)
			  ON CONFLICT(key) DO UPDATE SET value = excluded.value`
	for key, value := range map[string]string{
		credKeySessionID:     creds.SessionID,
		credKeyWalletAddress: creds.WalletAddress,
	} {
		if _, err := tx.ExecContext(ctx, query, key, value); err != nil {
			return fmt.Errorf("failed to save credential %s: %w", key, err)
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) LoadCredentials(ctx context.Context) (*domain.Credentials, error) {
	query := `SELECT key, value FROM credentials WHERE key IN (?, ?)`
	rows, err := s.db.QueryContext(ctx, query, credKeySessionID, credKeyWalletAddress)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var creds domain.Credentials
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		switch key {
		case credKeySessionID:
			creds.SessionID = value
		case credKeyWalletAddress:
			creds.WalletAddress = value
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Both keys or nothing; a half-written pair counts as absent.
	if creds.SessionID == "" || creds.WalletAddress == "" {
		return nil, nil
	}
	return &creds, nil
}

func (s *SQLiteStore) ClearCredentials(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM credentials WHERE key IN (?, ?)`,
		credKeySessionID, credKeyWalletAddress)
	return err
}

// TradeLedger Implementation
//
// Decimal columns are stored as TEXT and parsed with shopspring/decimal so
// round-tripping never loses precision.

func (s *SQLiteStore) ListTrades(ctx context.Context) ([]*domain.Trade, error) {
	query := `SELECT id, token, direction, entry_price, exit_price, entry_time, exit_time,
			  amount, profit_loss, profit_loss_pct, factor_technical, factor_fundamental, factor_sentiment
			  FROM trades ORDER BY exit_time DESC`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trades []*domain.Trade
	for rows.Next() {
		t, err := scanTrade(rows)
		if err != nil {
			return nil, err
		}
		trades = append(trades, t)
	}
	return trades, rows.Err()
}

func (s *SQLiteStore) SeedTrades(ctx context.Context, trades []*domain.Trade) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `INSERT OR REPLACE INTO trades (id, token, direction, entry_price, exit_price, entry_time, exit_time,
			  amount, profit_loss, profit_loss_pct, factor_technical, factor_fundamental, factor_sentiment)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	for _, t := range trades {
		if _, err := tx.ExecContext(ctx, query,
			t.ID, t.Token, string(t.Direction),
			t.EntryPrice.String(), t.ExitPrice.String(),
			t.EntryTime.UTC(), t.ExitTime.UTC(),
			t.Amount.String(), t.ProfitLoss.String(), t.ProfitLossPct.String(),
			t.Factors.Technical, t.Factors.Fundamental, t.Factors.Sentiment,
		); err != nil {
			return fmt.Errorf("failed to seed trade %s: %w", t.ID, err)
		}
	}
	return tx.Commit()
}

func scanTrade(rows *sql.Rows) (*domain.Trade, error) {
	var t domain.Trade
	var direction string
	var entryPrice, exitPrice, amount, pl, plPct string
	var entryTime, exitTime time.Time
	if err := rows.Scan(&t.ID, &t.Token, &direction, &entryPrice, &exitPrice,
		&entryTime, &exitTime, &amount, &pl, &plPct,
		&t.Factors.Technical, &t.Factors.Fundamental, &t.Factors.Sentiment); err != nil {
		return nil, err
	}

	t.Direction = domain.Direction(direction)
	t.EntryTime = entryTime
	t.ExitTime = exitTime

	var err error
	if t.EntryPrice, err = decimal.NewFromString(entryPrice); err != nil {
		return nil, fmt.Errorf("bad entry_price for trade %s: %w", t.ID, err)
	}
	if t.ExitPrice, err = decimal.NewFromString(exitPrice); err != nil {
		return nil, fmt.Errorf("bad exit_price for trade %s: %w", t.ID, err)
	}
	if t.Amount, err = decimal.NewFromString(amount); err != nil {
		return nil, fmt.Errorf("bad amount for trade %s: %w", t.ID, err)
	}
	if t.ProfitLoss, err = decimal.NewFromString(pl); err != nil {
		return nil, fmt.Errorf("bad profit_loss for trade %s: %w", t.ID, err)
	}
	if t.ProfitLossPct, err = decimal.NewFromString(plPct); err != nil {
		return nil, fmt.Errorf("bad profit_loss_pct for trade %s: %w", t.ID, err)
	}
	return &t, nil
}
