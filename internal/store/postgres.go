package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
)

const snapshotSchema = `
CREATE TABLE IF NOT EXISTS energy_snapshot (
	id         smallint PRIMARY KEY CHECK (id = 1),
	doc        jsonb NOT NULL,
	updated_at timestamptz NOT NULL DEFAULT now()
)`

// PostgresPersister stores the snapshot document as a single jsonb row; the
// contract is the same wholesale replace-all as the file variant.
type PostgresPersister struct {
	db *sqlx.DB
}

func OpenPostgres(dsn string) (*PostgresPersister, error) {
	db, err := sqlx.Connect("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres connect: %w", err)
	}
	if _, err := db.Exec(snapshotSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("postgres schema: %w", err)
	}
	return &PostgresPersister{db: db}, nil
}

func (p *PostgresPersister) Load() (*Snapshot, error) {
	var doc []byte
	err := p.db.Get(&doc, `SELECT doc FROM energy_snapshot WHERE id = 1`)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("postgres load: %w", err)
	}
	var snap Snapshot
	if err := json.Unmarshal(doc, &snap); err != nil {
		return nil, fmt.Errorf("postgres decode: %w", err)
	}
	return &snap, nil
}

func (p *PostgresPersister) Save(snap *Snapshot) error {
	doc, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	_, err = p.db.Exec(`
		INSERT INTO energy_snapshot (id, doc) VALUES (1, $1)
		ON CONFLICT (id) DO UPDATE SET doc = EXCLUDED.doc, updated_at = now()`,
		doc)
	if err != nil {
		return fmt.Errorf("postgres save: %w", err)
	}
	return nil
}

func (p *PostgresPersister) Close() error { return p.db.Close() }
