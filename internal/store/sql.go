package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/uptrace/bun"
)

// KVRecord is the single-table schema used by the SQL-backed store. The engine
// never queries by anything other than the slot key, so one keyed blob column
// is all the schema there is.
type KVRecord struct {
	bun.BaseModel `bun:"table:kv_slots"`

	Key   string `bun:"key,pk"`
	Value []byte `bun:"value"`
}

// SQL is a Store backed by a relational database through bun. SQLite serves
// tests and single-node deployments, Postgres the shared ones; the dialect is
// chosen by the caller when constructing the bun.DB. SetMulti runs inside one
// database transaction.
type SQL struct {
	Bun *bun.DB
}

func NewSQL(bunDB *bun.DB) *SQL {
	return &SQL{Bun: bunDB}
}

// Init creates the slot table if it does not exist yet.
func (s *SQL) Init(ctx context.Context) error {
	_, err := s.Bun.NewCreateTable().
		Model((*KVRecord)(nil)).
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("create kv_slots table: %w", err)
	}
	return nil
}

func (s *SQL) Get(ctx context.Context, key string) ([]byte, error) {
	var rec KVRecord
	err := s.Bun.NewSelect().
		Model(&rec).
		Where("key = ?", key).
		Limit(1).
		Scan(ctx)
	if err == sql.ErrNoRows {
		return nil, ErrKeyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("sql get %s: %w", key, err)
	}
	return rec.Value, nil
}

func (s *SQL) SetMulti(ctx context.Context, writes map[string][]byte) error {
	return s.Bun.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		for key, val := range writes {
			rec := KVRecord{Key: key, Value: val}
			_, err := tx.NewInsert().
				Model(&rec).
				On("CONFLICT (key) DO UPDATE").
				Set("value = EXCLUDED.value").
				Exec(ctx)
			if err != nil {
				return fmt.Errorf("sql set %s: %w", key, err)
			}
		}
		return nil
	})
}
