package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"deltaspread/internal/errors"
	"deltaspread/internal/models"
)

// SQLiteRepository implements TradeRepository using SQLite.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository opens (or creates) the trades database at dbPath
// and initializes the schema.
func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	repo := &SQLiteRepository{db: db}
	if err := repo.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return repo, nil
}

func (r *SQLiteRepository) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS trades (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL UNIQUE,
		underlier_symbol TEXT NOT NULL,
		underlier_spot REAL NOT NULL,
		underlier_multiplier INTEGER NOT NULL,
		underlier_currency TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		notes TEXT
	);

	CREATE TABLE IF NOT EXISTS trade_legs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		trade_id INTEGER NOT NULL,
		expiry TEXT NOT NULL,
		strike REAL NOT NULL,
		option_type TEXT NOT NULL,
		side TEXT NOT NULL,
		quantity INTEGER NOT NULL,
		entry_price REAL,
		notes TEXT,
		FOREIGN KEY (trade_id) REFERENCES trades(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_trades_name ON trades(name);
	CREATE INDEX IF NOT EXISTS idx_trades_symbol ON trades(underlier_symbol);
	CREATE INDEX IF NOT EXISTS idx_trade_legs_trade ON trade_legs(trade_id);
	`
	if _, err := r.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Save persists a trade under a unique name and returns its ID.
func (r *SQLiteRepository) Save(ctx context.Context, trade *models.Strategy, name, notes string) (int64, error) {
	exists, err := r.NameExists(ctx, name)
	if err != nil {
		return 0, err
	}
	if exists {
		return 0, errors.Wrapf(errors.ErrTradeNameTaken, "%q", name)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, errors.Wrap(err, "begin save")
	}
	defer tx.Rollback()

	now := time.Now().Format(time.RFC3339)
	res, err := tx.ExecContext(ctx, `
		INSERT INTO trades (
			name, underlier_symbol, underlier_spot,
			underlier_multiplier, underlier_currency,
			created_at, updated_at, notes
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		name,
		trade.Underlier.Symbol,
		trade.Underlier.Spot,
		trade.Underlier.Multiplier,
		trade.Underlier.Currency,
		now,
		now,
		nullable(notes),
	)
	if err != nil {
		return 0, errors.Wrap(err, "insert trade")
	}
	tradeID, err := res.LastInsertId()
	if err != nil {
		return 0, errors.Wrap(err, "trade id")
	}

	if err := insertLegs(ctx, tx, tradeID, trade.Legs); err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, errors.Wrap(err, "commit save")
	}
	return tradeID, nil
}

// Update replaces an existing trade's underlier, legs and notes.
func (r *SQLiteRepository) Update(ctx context.Context, tradeID int64, trade *models.Strategy, notes string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin update")
	}
	defer tx.Rollback()

	now := time.Now().Format(time.RFC3339)
	res, err := tx.ExecContext(ctx, `
		UPDATE trades SET
			underlier_symbol = ?,
			underlier_spot = ?,
			underlier_multiplier = ?,
			underlier_currency = ?,
			updated_at = ?,
			notes = ?
		WHERE id = ?`,
		trade.Underlier.Symbol,
		trade.Underlier.Spot,
		trade.Underlier.Multiplier,
		trade.Underlier.Currency,
		now,
		nullable(notes),
		tradeID,
	)
	if err != nil {
		return errors.Wrap(err, "update trade")
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "rows affected")
	}
	if affected == 0 {
		return errors.Wrapf(errors.ErrTradeNotFound, "id %d", tradeID)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM trade_legs WHERE trade_id = ?", tradeID); err != nil {
		return errors.Wrap(err, "delete old legs")
	}
	if err := insertLegs(ctx, tx, tradeID, trade.Legs); err != nil {
		return err
	}
	return errors.Wrap(tx.Commit(), "commit update")
}

// Delete removes a trade and its legs.
func (r *SQLiteRepository) Delete(ctx context.Context, tradeID int64) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM trades WHERE id = ?", tradeID)
	return errors.Wrap(err, "delete trade")
}

// GetByID loads a trade by its database ID.
func (r *SQLiteRepository) GetByID(ctx context.Context, tradeID int64) (*models.Strategy, string, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, underlier_symbol, underlier_spot,
		       underlier_multiplier, underlier_currency, notes
		FROM trades WHERE id = ?`, tradeID)
	return r.scanTrade(ctx, row)
}

// GetByName loads a trade by its unique name.
func (r *SQLiteRepository) GetByName(ctx context.Context, name string) (*models.Strategy, string, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, underlier_symbol, underlier_spot,
		       underlier_multiplier, underlier_currency, notes
		FROM trades WHERE name = ?`, name)
	return r.scanTrade(ctx, row)
}

// ListAll returns summaries of every saved trade, most recently updated
// first.
func (r *SQLiteRepository) ListAll(ctx context.Context) ([]TradeSummary, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT t.id, t.name, t.underlier_symbol, COUNT(tl.id) as leg_count,
		       t.created_at, t.updated_at, t.notes
		FROM trades t
		LEFT JOIN trade_legs tl ON t.id = tl.trade_id
		GROUP BY t.id
		ORDER BY t.updated_at DESC`)
	if err != nil {
		return nil, errors.Wrap(err, "list trades")
	}
	defer rows.Close()
	return scanSummaries(rows)
}

// ListBySymbol returns summaries of trades on one underlier symbol.
func (r *SQLiteRepository) ListBySymbol(ctx context.Context, symbol string) ([]TradeSummary, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT t.id, t.name, t.underlier_symbol, COUNT(tl.id) as leg_count,
		       t.created_at, t.updated_at, t.notes
		FROM trades t
		LEFT JOIN trade_legs tl ON t.id = tl.trade_id
		WHERE t.underlier_symbol = ?
		GROUP BY t.id
		ORDER BY t.updated_at DESC`, symbol)
	if err != nil {
		return nil, errors.Wrap(err, "list trades by symbol")
	}
	defer rows.Close()
	return scanSummaries(rows)
}

// NameExists reports whether a trade name is already in use.
func (r *SQLiteRepository) NameExists(ctx context.Context, name string) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx, "SELECT 1 FROM trades WHERE name = ?", name).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrap(err, "name lookup")
	}
	return true, nil
}

// Close closes the underlying database.
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

func insertLegs(ctx context.Context, tx *sql.Tx, tradeID int64, legs []models.OptionLeg) error {
	for _, leg := range legs {
		var entry interface{}
		if leg.EntryPrice != nil {
			entry = *leg.EntryPrice
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO trade_legs (
				trade_id, expiry, strike, option_type,
				side, quantity, entry_price, notes
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			tradeID,
			leg.Contract.Expiry.Format("2006-01-02"),
			leg.Contract.Strike,
			string(leg.Contract.Type),
			string(leg.Side),
			leg.Quantity,
			entry,
			nullable(leg.Notes),
		)
		if err != nil {
			return errors.Wrap(err, "insert leg")
		}
	}
	return nil
}

func (r *SQLiteRepository) scanTrade(ctx context.Context, row *sql.Row) (*models.Strategy, string, error) {
	var (
		id         int64
		name       string
		symbol     string
		spot       float64
		multiplier int
		currency   string
		notes      sql.NullString
	)
	err := row.Scan(&id, &name, &symbol, &spot, &multiplier, &currency, &notes)
	if err == sql.ErrNoRows {
		return nil, "", errors.ErrTradeNotFound
	}
	if err != nil {
		return nil, "", errors.Wrap(err, "scan trade")
	}

	underlier, err := models.NewUnderlier(symbol, spot, multiplier, currency)
	if err != nil {
		return nil, "", errors.Wrap(err, "stored underlier invalid")
	}

	legs, err := r.loadLegs(ctx, id, underlier)
	if err != nil {
		return nil, "", err
	}

	strategy, err := models.NewStrategy(name, underlier, legs)
	if err != nil {
		return nil, "", errors.Wrap(err, "stored trade invalid")
	}
	return strategy, notes.String, nil
}

func (r *SQLiteRepository) loadLegs(ctx context.Context, tradeID int64, underlier models.Underlier) ([]models.OptionLeg, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT expiry, strike, option_type, side, quantity, entry_price, notes
		FROM trade_legs WHERE trade_id = ? ORDER BY id`, tradeID)
	if err != nil {
		return nil, errors.Wrap(err, "load legs")
	}
	defer rows.Close()

	var legs []models.OptionLeg
	for rows.Next() {
		var (
			expiryStr string
			strike    float64
			typ       string
			side      string
			quantity  int
			entry     sql.NullFloat64
			notes     sql.NullString
		)
		if err := rows.Scan(&expiryStr, &strike, &typ, &side, &quantity, &entry, &notes); err != nil {
			return nil, errors.Wrap(err, "scan leg")
		}

		expiry, err := time.Parse("2006-01-02", expiryStr)
		if err != nil {
			return nil, errors.Wrap(err, "stored expiry invalid")
		}
		contract, err := models.NewOptionContract(underlier, expiry, strike, models.OptionType(typ))
		if err != nil {
			return nil, errors.Wrap(err, "stored contract invalid")
		}
		var entryPrice *float64
		if entry.Valid {
			v := entry.Float64
			entryPrice = &v
		}
		leg, err := models.NewOptionLeg(contract, models.Side(side), quantity, entryPrice, notes.String)
		if err != nil {
			return nil, errors.Wrap(err, "stored leg invalid")
		}
		legs = append(legs, leg)
	}
	return legs, rows.Err()
}

func scanSummaries(rows *sql.Rows) ([]TradeSummary, error) {
	var summaries []TradeSummary
	for rows.Next() {
		var (
			s         TradeSummary
			createdAt string
			updatedAt string
			notes     sql.NullString
		)
		if err := rows.Scan(&s.ID, &s.Name, &s.Symbol, &s.LegCount, &createdAt, &updatedAt, &notes); err != nil {
			return nil, errors.Wrap(err, "scan summary")
		}
		s.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		s.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
		s.Notes = notes.String
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
