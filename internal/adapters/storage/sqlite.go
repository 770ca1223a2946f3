package storage

// sqlite.go: almacén de datos de referencia (fondos y tabla de supervivencia).
//
// Estrategia:
//   - `funds`: una fila por ticker (UPSERT). Lo que se importe desde el YAML
//     del catálogo reemplaza los parámetros previos del mismo ticker.
//   - `mortality`: una fila por edad. Importar una tabla reemplaza la anterior
//     completa dentro de una transacción.
//   - Los resultados de simulación NO se persisten: viven solo durante el run.

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alejandrodnm/ulmorte/internal/domain"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS funds (
    ticker     TEXT PRIMARY KEY,
    name       TEXT    NOT NULL DEFAULT '',
    isin       TEXT    NOT NULL DEFAULT '',
    mu         REAL    NOT NULL,
    sigma      REAL    NOT NULL,
    s0         REAL    NOT NULL,
    risk_class INTEGER NOT NULL DEFAULT 0,
    updated_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS mortality (
    age      INTEGER PRIMARY KEY,
    survival REAL NOT NULL
);
`

// SQLiteStore implementa ports.FundCatalog y ports.MortalityProvider
// usando SQLite (pure Go, sin CGo).
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore abre (o crea) la base de datos en la ruta dada y aplica el schema.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("storage.NewSQLiteStore: open %q: %w", path, err)
	}
	db.SetMaxOpenConns(1) // SQLite es single-writer
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage.NewSQLiteStore: apply schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// ImportFunds hace upsert de los fondos dados. Valida cada fondo antes de
// abrir la transacción: o entran todos o ninguno.
func (s *SQLiteStore) ImportFunds(ctx context.Context, funds []domain.Fund) error {
	for _, f := range funds {
		if err := f.Validate(); err != nil {
			return fmt.Errorf("storage.ImportFunds: %w", err)
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("storage.ImportFunds: begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO funds (ticker, name, isin, mu, sigma, s0, risk_class, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(ticker) DO UPDATE SET
			name       = excluded.name,
			isin       = excluded.isin,
			mu         = excluded.mu,
			sigma      = excluded.sigma,
			s0         = excluded.s0,
			risk_class = excluded.risk_class,
			updated_at = excluded.updated_at
	`)
	if err != nil {
		return fmt.Errorf("storage.ImportFunds: prepare: %w", err)
	}
	defer stmt.Close()

	for _, f := range funds {
		if _, err := stmt.ExecContext(ctx, f.Ticker, f.Name, f.ISIN, f.Mu, f.Sigma, f.S0, f.RiskClass); err != nil {
			return fmt.Errorf("storage.ImportFunds: upsert %s: %w", f.Ticker, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage.ImportFunds: commit: %w", err)
	}
	return nil
}

// ImportMortality reemplaza la tabla de supervivencia completa.
func (s *SQLiteStore) ImportMortality(ctx context.Context, table domain.MortalityTable) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("storage.ImportMortality: begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM mortality`); err != nil {
		return fmt.Errorf("storage.ImportMortality: clear: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO mortality (age, survival) VALUES (?, ?)`)
	if err != nil {
		return fmt.Errorf("storage.ImportMortality: prepare: %w", err)
	}
	defer stmt.Close()

	for _, age := range table.Ages() {
		p, _ := table.Survival(age)
		if _, err := stmt.ExecContext(ctx, age, p); err != nil {
			return fmt.Errorf("storage.ImportMortality: insert age %d: %w", age, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage.ImportMortality: commit: %w", err)
	}
	return nil
}

// Fund implementa ports.FundProvider.
func (s *SQLiteStore) Fund(ctx context.Context, ticker string) (domain.Fund, error) {
	var f domain.Fund
	err := s.db.QueryRowContext(ctx, `
		SELECT ticker, name, isin, mu, sigma, s0, risk_class
		FROM funds WHERE ticker = ?
	`, ticker).Scan(&f.Ticker, &f.Name, &f.ISIN, &f.Mu, &f.Sigma, &f.S0, &f.RiskClass)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Fund{}, fmt.Errorf("storage.Fund: %s: %w", ticker, domain.ErrUnknownFund)
	}
	if err != nil {
		return domain.Fund{}, fmt.Errorf("storage.Fund: query %s: %w", ticker, err)
	}
	return f, nil
}

// Funds devuelve todos los fondos ordenados por ticker.
func (s *SQLiteStore) Funds(ctx context.Context) ([]domain.Fund, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT ticker, name, isin, mu, sigma, s0, risk_class
		FROM funds ORDER BY ticker
	`)
	if err != nil {
		return nil, fmt.Errorf("storage.Funds: query: %w", err)
	}
	defer rows.Close()

	var funds []domain.Fund
	for rows.Next() {
		var f domain.Fund
		if err := rows.Scan(&f.Ticker, &f.Name, &f.ISIN, &f.Mu, &f.Sigma, &f.S0, &f.RiskClass); err != nil {
			return nil, fmt.Errorf("storage.Funds: scan row: %w", err)
		}
		funds = append(funds, f)
	}
	return funds, rows.Err()
}

// MortalityTable implementa ports.MortalityProvider.
func (s *SQLiteStore) MortalityTable(ctx context.Context) (domain.MortalityTable, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT age, survival FROM mortality`)
	if err != nil {
		return domain.MortalityTable{}, fmt.Errorf("storage.MortalityTable: query: %w", err)
	}
	defer rows.Close()

	table := make(map[int]float64)
	for rows.Next() {
		var age int
		var p float64
		if err := rows.Scan(&age, &p); err != nil {
			return domain.MortalityTable{}, fmt.Errorf("storage.MortalityTable: scan row: %w", err)
		}
		table[age] = p
	}
	if err := rows.Err(); err != nil {
		return domain.MortalityTable{}, fmt.Errorf("storage.MortalityTable: %w", err)
	}
	if len(table) == 0 {
		return domain.MortalityTable{}, errors.New("storage.MortalityTable: no mortality data imported")
	}
	return domain.NewMortalityTable(table), nil
}

// Close cierra la conexión a la base de datos.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
