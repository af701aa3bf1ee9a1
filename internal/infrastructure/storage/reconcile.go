package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ReferenceSource lists every blob identifier a database row points at.
type ReferenceSource interface {
	ReferencedKeys(ctx context.Context) (map[string]struct{}, error)
}

// FindOrphans returns the objects under the managed folders that refs does
// not contain, sorted per folder.
func FindOrphans(ctx context.Context, store BlobStore, refs map[string]struct{}) ([]string, error) {
	var orphans []string
	for _, folder := range ManagedFolders {
		keys, err := store.ListKeys(ctx, folder+"/")
		if err != nil {
			return nil, fmt.Errorf("list %s: %w", folder, err)
		}
		for _, key := range keys {
			if _, ok := refs[key]; !ok {
				orphans = append(orphans, key)
			}
		}
	}
	return orphans, nil
}

type PostgresReferences struct {
	pool *pgxpool.Pool
}

func NewPostgresReferences(pool *pgxpool.Pool) *PostgresReferences {
	return &PostgresReferences{pool: pool}
}

const referencedKeysQuery = `
	SELECT cover_image_id FROM books WHERE cover_image_id IS NOT NULL
	UNION SELECT book_file_id FROM books WHERE book_file_id IS NOT NULL
	UNION SELECT public_id FROM audios WHERE public_id IS NOT NULL
	UNION SELECT cover_image_id FROM audios WHERE cover_image_id IS NOT NULL
	UNION SELECT unnest(segment_ids) FROM audios
	UNION SELECT public_id FROM audio_parts WHERE public_id IS NOT NULL`

func (r *PostgresReferences) ReferencedKeys(ctx context.Context) (map[string]struct{}, error) {
	rows, err := r.pool.Query(ctx, referencedKeysQuery)
	if err != nil {
		return nil, fmt.Errorf("query blob references: %w", err)
	}
	keys, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("collect blob references: %w", err)
	}

	out := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		if k = strings.TrimSpace(k); k != "" {
			out[k] = struct{}{}
		}
	}
	return out, nil
}
