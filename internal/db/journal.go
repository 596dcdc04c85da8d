package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"github.com/Stattrackrr/stattrackr/pkg/models"
)

// JournalDB defines the interface for journal database operations
type JournalDB interface {
	Ping(ctx context.Context) error
	CreateEntry(ctx context.Context, entry *models.JournalEntry, userID string) (*models.JournalEntry, error)
	GetEntries(ctx context.Context, filters models.JournalFilters) ([]*models.JournalEntry, error)
	GetEntryByID(ctx context.Context, id string) (*models.JournalEntry, error)
	SettleEntry(ctx context.Context, id, status string, userID string) (*models.JournalEntry, error)
	DeleteEntry(ctx context.Context, id, userID string) error
	GetSummary(ctx context.Context) (*models.JournalSummary, error)
	GetSettings(ctx context.Context, userID string) (*models.Settings, error)
	UpdateSettings(ctx context.Context, settings *models.Settings) error
	Close() error
}

// JournalPostgres implements JournalDB for PostgreSQL
type JournalPostgres struct {
	db *sql.DB
}

// NewJournalPostgres creates a new journal database client
func NewJournalPostgres(dsn string) (*JournalPostgres, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Configure connection pool
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	return &JournalPostgres{db: db}, nil
}

// Ping checks database connectivity
func (j *JournalPostgres) Ping(ctx context.Context) error {
	return j.db.PingContext(ctx)
}

// EnsureSchema creates the journal tables when they do not exist yet
func (j *JournalPostgres) EnsureSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS journal_entries (
			id UUID PRIMARY KEY,
			description TEXT NOT NULL,
			odds NUMERIC(10,4) NOT NULL,
			stake NUMERIC(12,2) NOT NULL,
			currency TEXT NOT NULL DEFAULT 'USD',
			status TEXT NOT NULL DEFAULT 'pending',
			payout_amount NUMERIC(12,2),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			settled_at TIMESTAMPTZ
		)`,
		`CREATE TABLE IF NOT EXISTS user_settings (
			user_id TEXT PRIMARY KEY,
			odds_format TEXT NOT NULL DEFAULT 'american',
			default_currency TEXT NOT NULL DEFAULT 'USD',
			bankroll NUMERIC(12,2) NOT NULL DEFAULT 0,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_journal_entries_status ON journal_entries(status)`,
		`CREATE INDEX IF NOT EXISTS idx_journal_entries_created_at ON journal_entries(created_at DESC)`,
	}

	for _, stmt := range statements {
		if _, err := j.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}

	return nil
}

// CreateEntry atomically inserts a journal entry and deducts the stake
// from the user's bankroll
func (j *JournalPostgres) CreateEntry(ctx context.Context, entry *models.JournalEntry, userID string) (*models.JournalEntry, error) {
	tx, err := j.db.BeginTx(ctx, &sql.TxOptions{
		Isolation: sql.LevelSerializable,
	})
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Lock the settings row so concurrent entries cannot double-spend
	var bankroll float64
	err = tx.QueryRowContext(ctx,
		`SELECT bankroll FROM user_settings WHERE user_id = $1 FOR UPDATE`,
		userID,
	).Scan(&bankroll)

	if err == sql.ErrNoRows {
		// First entry before any settings were saved: seed a default row
		_, err = tx.ExecContext(ctx,
			`INSERT INTO user_settings (user_id) VALUES ($1)`,
			userID,
		)
		if err != nil {
			return nil, fmt.Errorf("seed user settings: %w", err)
		}
		bankroll = 0
	} else if err != nil {
		return nil, fmt.Errorf("get bankroll: %w", err)
	}

	if bankroll > 0 && bankroll < entry.Stake {
		return nil, fmt.Errorf(
			"insufficient bankroll: have %.2f, need %.2f",
			bankroll, entry.Stake,
		)
	}

	created := *entry
	created.ID = uuid.New().String()
	created.Status = models.StatusPending
	created.CreatedAt = time.Now().UTC()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO journal_entries (id, description, odds, stake, currency, status, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		created.ID, created.Description, created.Odds, created.Stake,
		created.Currency, created.Status, created.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert entry: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE user_settings
		 SET bankroll = bankroll - $1, updated_at = NOW()
		 WHERE user_id = $2`,
		created.Stake, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("deduct stake: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}

	return &created, nil
}

// GetEntries retrieves journal entries with optional filters
func (j *JournalPostgres) GetEntries(ctx context.Context, filters models.JournalFilters) ([]*models.JournalEntry, error) {
	query := `
		SELECT id, description, odds, stake, currency, status, payout_amount, created_at, settled_at
		FROM journal_entries
		WHERE 1=1
	`

	args := []interface{}{}
	argPos := 1

	if filters.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", argPos)
		args = append(args, filters.Status)
		argPos++
	}

	query += " ORDER BY created_at DESC"

	if filters.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argPos)
		args = append(args, filters.Limit)
		argPos++
	}

	if filters.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argPos)
		args = append(args, filters.Offset)
	}

	rows, err := j.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query entries: %w", err)
	}
	defer rows.Close()

	var entries []*models.JournalEntry
	for rows.Next() {
		entry := &models.JournalEntry{}
		err := rows.Scan(
			&entry.ID, &entry.Description, &entry.Odds, &entry.Stake,
			&entry.Currency, &entry.Status, &entry.PayoutAmount,
			&entry.CreatedAt, &entry.SettledAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

// GetEntryByID retrieves a single journal entry, nil when absent
func (j *JournalPostgres) GetEntryByID(ctx context.Context, id string) (*models.JournalEntry, error) {
	entry := &models.JournalEntry{}
	err := j.db.QueryRowContext(ctx,
		`SELECT id, description, odds, stake, currency, status, payout_amount, created_at, settled_at
		 FROM journal_entries WHERE id = $1`,
		id,
	).Scan(
		&entry.ID, &entry.Description, &entry.Odds, &entry.Stake,
		&entry.Currency, &entry.Status, &entry.PayoutAmount,
		&entry.CreatedAt, &entry.SettledAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query entry: %w", err)
	}

	return entry, nil
}

// SettleEntry marks a pending entry won, lost or void and credits the
// payout back to the bankroll in the same transaction.
// Won pays stake times odds, void refunds the stake, lost pays nothing.
func (j *JournalPostgres) SettleEntry(ctx context.Context, id, status, userID string) (*models.JournalEntry, error) {
	if status != models.StatusWon && status != models.StatusLost && status != models.StatusVoid {
		return nil, fmt.Errorf("invalid settlement status: %s", status)
	}

	tx, err := j.db.BeginTx(ctx, &sql.TxOptions{
		Isolation: sql.LevelSerializable,
	})
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	entry := &models.JournalEntry{}
	err = tx.QueryRowContext(ctx,
		`SELECT id, description, odds, stake, currency, status, created_at
		 FROM journal_entries WHERE id = $1 FOR UPDATE`,
		id,
	).Scan(
		&entry.ID, &entry.Description, &entry.Odds, &entry.Stake,
		&entry.Currency, &entry.Status, &entry.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("entry not found: %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("lock entry: %w", err)
	}

	if entry.Status != models.StatusPending {
		return nil, fmt.Errorf("entry already settled: %s", entry.Status)
	}

	var payout float64
	switch status {
	case models.StatusWon:
		payout = entry.Stake * entry.Odds
	case models.StatusVoid:
		payout = entry.Stake
	case models.StatusLost:
		payout = 0
	}

	settledAt := time.Now().UTC()
	_, err = tx.ExecContext(ctx,
		`UPDATE journal_entries
		 SET status = $1, payout_amount = $2, settled_at = $3
		 WHERE id = $4`,
		status, payout, settledAt, id,
	)
	if err != nil {
		return nil, fmt.Errorf("settle entry: %w", err)
	}

	if payout > 0 {
		_, err = tx.ExecContext(ctx,
			`UPDATE user_settings
			 SET bankroll = bankroll + $1, updated_at = NOW()
			 WHERE user_id = $2`,
			payout, userID,
		)
		if err != nil {
			return nil, fmt.Errorf("credit payout: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}

	entry.Status = status
	entry.PayoutAmount = &payout
	entry.SettledAt = &settledAt
	return entry, nil
}

// DeleteEntry removes an unsettled entry and refunds its stake
func (j *JournalPostgres) DeleteEntry(ctx context.Context, id, userID string) error {
	tx, err := j.db.BeginTx(ctx, &sql.TxOptions{
		Isolation: sql.LevelSerializable,
	})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	var status string
	var stake float64
	err = tx.QueryRowContext(ctx,
		`SELECT status, stake FROM journal_entries WHERE id = $1 FOR UPDATE`,
		id,
	).Scan(&status, &stake)

	if err == sql.ErrNoRows {
		return fmt.Errorf("entry not found: %s", id)
	}
	if err != nil {
		return fmt.Errorf("lock entry: %w", err)
	}

	if status != models.StatusPending {
		return fmt.Errorf("cannot delete settled entry: %s", status)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM journal_entries WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE user_settings
		 SET bankroll = bankroll + $1, updated_at = NOW()
		 WHERE user_id = $2`,
		stake, userID,
	)
	if err != nil {
		return fmt.Errorf("refund stake: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

// GetSummary retrieves aggregate P&L statistics
func (j *JournalPostgres) GetSummary(ctx context.Context) (*models.JournalSummary, error) {
	query := `
		SELECT
			COUNT(*) as total_entries,
			COALESCE(SUM(stake), 0) as total_wagered,
			COALESCE(SUM(CASE WHEN payout_amount IS NOT NULL THEN payout_amount ELSE 0 END), 0) as total_returned,
			COALESCE(
				SUM(CASE WHEN status = 'won' THEN 1 ELSE 0 END)::float /
				NULLIF(SUM(CASE WHEN status IN ('won', 'lost') THEN 1 ELSE 0 END), 0) * 100,
				0
			) as win_rate_pct
		FROM journal_entries
	`

	summary := &models.JournalSummary{}
	err := j.db.QueryRowContext(ctx, query).Scan(
		&summary.TotalEntries,
		&summary.TotalWagered,
		&summary.TotalReturned,
		&summary.WinRatePct,
	)
	if err != nil {
		return nil, fmt.Errorf("query summary: %w", err)
	}

	summary.NetProfit = summary.TotalReturned - summary.TotalWagered
	if summary.TotalWagered > 0 {
		summary.ROIPct = (summary.NetProfit / summary.TotalWagered) * 100
	}

	return summary, nil
}

// GetSettings retrieves user settings, nil when none were saved yet
func (j *JournalPostgres) GetSettings(ctx context.Context, userID string) (*models.Settings, error) {
	settings := &models.Settings{}
	err := j.db.QueryRowContext(ctx,
		`SELECT user_id, odds_format, default_currency, bankroll, updated_at
		 FROM user_settings WHERE user_id = $1`,
		userID,
	).Scan(
		&settings.UserID,
		&settings.OddsFormat,
		&settings.DefaultCurrency,
		&settings.Bankroll,
		&settings.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query settings: %w", err)
	}

	return settings, nil
}

// UpdateSettings upserts user settings
func (j *JournalPostgres) UpdateSettings(ctx context.Context, settings *models.Settings) error {
	query := `
		INSERT INTO user_settings (user_id, odds_format, default_currency, bankroll)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO UPDATE SET
			odds_format = EXCLUDED.odds_format,
			default_currency = EXCLUDED.default_currency,
			bankroll = EXCLUDED.bankroll,
			updated_at = NOW()
	`

	_, err := j.db.ExecContext(
		ctx, query,
		settings.UserID,
		settings.OddsFormat,
		settings.DefaultCurrency,
		settings.Bankroll,
	)
	if err != nil {
		return fmt.Errorf("update settings: %w", err)
	}

	return nil
}

// Close closes the database connection
func (j *JournalPostgres) Close() error {
	return j.db.Close()
}
