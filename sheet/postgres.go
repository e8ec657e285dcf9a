package sheet

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq" // also registers the postgres driver
)

// Postgres is a Service backed by a PostgreSQL database: sheets are rows in
// a sheets table, their data rows live in sheet_rows with the columns stored
// as a text array. It gives a self-hosted alternative to a cloud spreadsheet
// while speaking the same port.
type Postgres struct {
	db *sql.DB
}

// OpenPostgres connects to the database and ensures the schema exists.
func OpenPostgres(dsn string) (*Postgres, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, Permanent(err.Error())
	}
	p := &Postgres{db: db}
	if err := p.init(); err != nil {
		db.Close()
		return nil, err
	}
	return p, nil
}

// NewPostgres wraps an existing connection pool and ensures the schema.
func NewPostgres(db *sql.DB) (*Postgres, error) {
	p := &Postgres{db: db}
	if err := p.init(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Postgres) init() error {
	const schema = `
CREATE TABLE IF NOT EXISTS sheets (
	id     SERIAL PRIMARY KEY,
	title  TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS sheet_rows (
	sheet_id  INTEGER NOT NULL REFERENCES sheets(id),
	idx       INTEGER NOT NULL,
	cols      TEXT[] NOT NULL,
	PRIMARY KEY (sheet_id, idx)
);
CREATE TABLE IF NOT EXISTS sheet_shares (
	sheet_id  INTEGER NOT NULL REFERENCES sheets(id),
	email     TEXT NOT NULL
);`
	if _, err := p.db.Exec(schema); err != nil {
		return Transient(err.Error())
	}
	return nil
}

// Close releases the underlying connection pool.
func (p *Postgres) Close() error { return p.db.Close() }

func (p *Postgres) CreateSheet(title string) (string, error) {
	var id int
	err := p.db.QueryRow(`INSERT INTO sheets (title) VALUES ($1) RETURNING id`, title).Scan(&id)
	if err != nil {
		return "", Transient(err.Error())
	}
	return fmt.Sprint(id), nil
}

func (p *Postgres) sheetExists(sheetID string) error {
	var one int
	err := p.db.QueryRow(`SELECT 1 FROM sheets WHERE id = $1::int`, sheetID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrSheetNotFound
	}
	if err != nil {
		return Transient(err.Error())
	}
	return nil
}

func (p *Postgres) AppendRow(sheetID string, values []string) error {
	return p.AppendRows(sheetID, [][]string{values})
}

func (p *Postgres) AppendRows(sheetID string, rows [][]string) error {
	if err := p.sheetExists(sheetID); err != nil {
		return err
	}
	tx, err := p.db.Begin()
	if err != nil {
		return Transient(err.Error())
	}
	defer tx.Rollback()
	const insert = `
INSERT INTO sheet_rows (sheet_id, idx, cols)
SELECT $1::int, COALESCE(MAX(idx) + 1, 0), $2
FROM sheet_rows WHERE sheet_id = $1::int`
	for _, row := range rows {
		if _, err := tx.Exec(insert, sheetID, pq.Array(row)); err != nil {
			return Transient(err.Error())
		}
	}
	if err := tx.Commit(); err != nil {
		return Transient(err.Error())
	}
	return nil
}

func (p *Postgres) ReadRow(sheetID string, index int) ([]string, error) {
	if err := p.sheetExists(sheetID); err != nil {
		return nil, err
	}
	var cols []string
	err := p.db.QueryRow(
		`SELECT cols FROM sheet_rows WHERE sheet_id = $1::int AND idx = $2`,
		sheetID, index,
	).Scan(pq.Array(&cols))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRowNotFound
	}
	if err != nil {
		return nil, Transient(err.Error())
	}
	return cols, nil
}

func (p *Postgres) ListRows(sheetID string) ([][]string, error) {
	if err := p.sheetExists(sheetID); err != nil {
		return nil, err
	}
	rows, err := p.db.Query(
		`SELECT cols FROM sheet_rows WHERE sheet_id = $1::int ORDER BY idx`,
		sheetID,
	)
	if err != nil {
		return nil, Transient(err.Error())
	}
	defer rows.Close()
	var out [][]string
	for rows.Next() {
		var cols []string
		if err := rows.Scan(pq.Array(&cols)); err != nil {
			return nil, Transient(err.Error())
		}
		out = append(out, cols)
	}
	if err := rows.Err(); err != nil {
		return nil, Transient(err.Error())
	}
	return out, nil
}

func (p *Postgres) ShareSheet(sheetID, email string) error {
	if err := p.sheetExists(sheetID); err != nil {
		return ErrShareFailed
	}
	if _, err := p.db.Exec(
		`INSERT INTO sheet_shares (sheet_id, email) VALUES ($1::int, $2)`,
		sheetID, email,
	); err != nil {
		return ErrShareFailed
	}
	return nil
}

var _ Service = (*Postgres)(nil)
