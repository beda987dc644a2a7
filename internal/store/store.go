package store

import (
	"context"
	"fmt"

	"msgdict/internal/textutil"
	"msgdict/msg"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog/log"
)

// Querier is the subset of pgx implemented by *pgxpool.Pool, pgx.Tx and the
// pgxmock pool, so the store is testable without a database.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// EntryRecord is one dictionary slot flattened for storage and export. Text
// slots carry Value; raw-byte slots carry Raw instead.
type EntryRecord struct {
	Hash     string `json:"hash"`
	File     string `json:"file"`
	Index    uint32 `json:"index"`
	SubIndex uint32 `json:"sub_index"`
	Value    string `json:"value"`
	IsText   bool   `json:"is_text"`
	Raw      []byte `json:"raw,omitempty"`
}

// NewRecord flattens one dictionary slot into a storable record. The hash
// covers file, composite key and raw content, so re-ingesting the same tree
// is a no-op.
func NewRecord(file string, index, sub uint32, v msg.Value) EntryRecord {
	r := EntryRecord{File: file, Index: index, SubIndex: sub}
	if text, ok := v.Text(); ok {
		r.Value = text
		r.IsText = true
	} else {
		r.Raw = v.Raw()
	}
	r.Hash = textutil.Hash(fmt.Sprintf("%s:%d:%d:%s", file, index, sub, v.Raw()))
	return r
}

// Store persists parsed msg entries in PostgreSQL.
type Store struct {
	db Querier
}

func New(db Querier) *Store {
	return &Store{db: db}
}

const schemaSQL = `
CREATE TABLE IF NOT EXISTS msg_entries (
	hash       TEXT PRIMARY KEY,
	file       TEXT NOT NULL,
	msg_index  BIGINT NOT NULL,
	sub_index  BIGINT NOT NULL,
	value      TEXT NOT NULL,
	is_text    BOOLEAN NOT NULL,
	raw        BYTEA
)`

// EnsureSchema creates the entries table if it does not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("ensure msg_entries schema: %w", err)
	}
	return nil
}

const upsertSQL = `
INSERT INTO msg_entries (hash, file, msg_index, sub_index, value, is_text, raw)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (hash) DO NOTHING`

// Upsert stores records, deduplicating by content hash. Returns the number
// of rows actually inserted.
func (s *Store) Upsert(ctx context.Context, records []EntryRecord) (int, error) {
	inserted := 0
	for _, r := range records {
		tag, err := s.db.Exec(ctx, upsertSQL,
			r.Hash, r.File, int64(r.Index), int64(r.SubIndex), r.Value, r.IsText, r.Raw)
		if err != nil {
			return inserted, fmt.Errorf("upsert msg entry: %w", err)
		}
		if tag.RowsAffected() > 0 {
			inserted++
		}
	}

	log.Info().Int("inserted", inserted).Int("total", len(records)).Msg("Upserted msg entries")
	return inserted, nil
}

const getAllSQL = `
SELECT hash, file, msg_index, sub_index, value, is_text, raw
FROM msg_entries
ORDER BY file, msg_index, sub_index`

// GetAll retrieves every stored record ordered by file, index, sub-index.
func (s *Store) GetAll(ctx context.Context) ([]EntryRecord, error) {
	rows, err := s.db.Query(ctx, getAllSQL)
	if err != nil {
		return nil, fmt.Errorf("query msg entries: %w", err)
	}
	defer rows.Close()

	var records []EntryRecord
	for rows.Next() {
		var r EntryRecord
		var index, sub int64
		if err := rows.Scan(&r.Hash, &r.File, &index, &sub, &r.Value, &r.IsText, &r.Raw); err != nil {
			return nil, fmt.Errorf("scan msg entry: %w", err)
		}
		r.Index = uint32(index)
		r.SubIndex = uint32(sub)
		records = append(records, r)
	}

	return records, rows.Err()
}

const countByFileSQL = `
SELECT file, COUNT(*)
FROM msg_entries
GROUP BY file
ORDER BY file`

// CountByFile returns per-file entry counts.
func (s *Store) CountByFile(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.Query(ctx, countByFileSQL)
	if err != nil {
		return nil, fmt.Errorf("count msg entries: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var file string
		var n int64
		if err := rows.Scan(&file, &n); err != nil {
			return nil, fmt.Errorf("scan msg entry count: %w", err)
		}
		counts[file] = int(n)
	}

	return counts, rows.Err()
}
