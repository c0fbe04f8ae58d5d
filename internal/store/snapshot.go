package store

import (
	"context"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

// snapshotRepo implements SnapshotRepo with the ent SQL builder.
type snapshotRepo struct {
	drv *entsql.Driver
}

func (r *snapshotRepo) Save(ctx context.Context, key string, data []byte) error {
	query, args := entsql.Dialect(dialect.SQLite).
		Insert(tableSnapshots).
		Columns("key", "data", "updated_at").
		Values(key, string(data), time.Now().UTC().UnixMilli()).
		OnConflict(
			entsql.ConflictColumns("key"),
			entsql.ResolveWithNewValues(),
		).
		Query()

	if err := r.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("save snapshot %q: %w", key, err)
	}
	return nil
}

func (r *snapshotRepo) Load(ctx context.Context, key string) ([]byte, error) {
	b := entsql.Dialect(dialect.SQLite)
	t := b.Table(tableSnapshots)
	query, args := b.Select(t.C("data")).
		From(t).
		Where(entsql.EQ(t.C("key"), key)).
		Limit(1).
		Query()

	var rows entsql.Rows
	if err := r.drv.Query(ctx, query, args, &rows); err != nil {
		return nil, fmt.Errorf("query snapshot %q: %w", key, err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("query snapshot %q: %w", key, err)
		}
		return nil, nil
	}

	var data string
	if err := rows.Scan(&data); err != nil {
		return nil, fmt.Errorf("scan snapshot %q: %w", key, err)
	}
	return []byte(data), nil
}

func (r *snapshotRepo) Delete(ctx context.Context, key string) error {
	query, args := entsql.Dialect(dialect.SQLite).
		Delete(tableSnapshots).
		Where(entsql.EQ("key", key)).
		Query()

	if err := r.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("delete snapshot %q: %w", key, err)
	}
	return nil
}
