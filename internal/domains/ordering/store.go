package ordering

import (
	"context"
	"errors"
	"fmt"

	"talenta-backend/internal/shared/apperror"
	"talenta-backend/pkg/database"
	"talenta-backend/pkg/logger"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Querier is satisfied by *pgxpool.Pool and pgx.Tx.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store applies ordering changes to the datastore. Every multi-row write
// runs in a single transaction.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Siblings loads the children of parentID sorted by order.
func (s *Store) Siblings(ctx context.Context, t Table, parentID uuid.UUID) ([]Sibling, error) {
	return loadSiblings(ctx, s.pool, t, parentID, false)
}

func loadSiblings(ctx context.Context, q Querier, t Table, parentID uuid.UUID, lock bool) ([]Sibling, error) {
	query := fmt.Sprintf(`SELECT id, "order" FROM %s WHERE %s = $1 ORDER BY "order" ASC`, t.Name, t.ParentColumn)
	if lock {
		query += " FOR UPDATE"
	}

	rows, err := q.Query(ctx, query, parentID)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", t.Name, err)
	}
	defer rows.Close()

	var siblings []Sibling
	for rows.Next() {
		var sib Sibling
		if err := rows.Scan(&sib.ID, &sib.Order); err != nil {
			return nil, fmt.Errorf("scan %s: %w", t.Name, err)
		}
		siblings = append(siblings, sib)
	}
	return siblings, rows.Err()
}

// apply writes the orders in changes. Rows are first moved to negative
// positions so the (parent, order) unique index never sees a transient
// duplicate.
func apply(ctx context.Context, tx pgx.Tx, t Table, parentID uuid.UUID, changes []Sibling) error {
	if len(changes) == 0 {
		return nil
	}

	park := fmt.Sprintf(`UPDATE %s SET "order" = -"order" WHERE id = $1 AND %s = $2`, t.Name, t.ParentColumn)
	place := fmt.Sprintf(`UPDATE %s SET "order" = $1, updated_at = NOW() WHERE id = $2 AND %s = $3`, t.Name, t.ParentColumn)

	batch := &pgx.Batch{}
	for _, c := range changes {
		batch.Queue(park, c.ID, parentID)
	}
	for _, c := range changes {
		batch.Queue(place, c.Order, c.ID, parentID)
	}

	br := tx.SendBatch(ctx, batch)
	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil {
			br.Close()
			return mapWriteError(t, err)
		}
	}
	return br.Close()
}

// Reorder assigns order i+1 to ids[i]. The permutation is validated against
// the locked sibling set inside the transaction; on any failure nothing is
// written.
func (s *Store) Reorder(ctx context.Context, t Table, parentID uuid.UUID, ids []uuid.UUID) ([]Sibling, error) {
	return database.WithTransactionResult(ctx, s.pool, func(tx pgx.Tx) ([]Sibling, error) {
		current, err := loadSiblings(ctx, tx, t, parentID, true)
		if err != nil {
			return nil, err
		}
		if err := t.ValidatePermutation(current, ids); err != nil {
			return nil, err
		}

		next := Assign(ids)
		if err := apply(ctx, tx, t, parentID, Changed(current, next)); err != nil {
			return nil, err
		}
		return next, nil
	})
}

// DeleteAndDensify removes childID from parentID and closes the gap it
// leaves, in one transaction. before, when non-nil, runs inside the same
// transaction ahead of the delete.
func (s *Store) DeleteAndDensify(ctx context.Context, t Table, parentID, childID uuid.UUID, before func(pgx.Tx) error) error {
	return database.WithTransaction(ctx, s.pool, func(tx pgx.Tx) error {
		if before != nil {
			if err := before(tx); err != nil {
				return err
			}
		}

		del := fmt.Sprintf(`DELETE FROM %s WHERE id = $1 AND %s = $2`, t.Name, t.ParentColumn)
		tag, err := tx.Exec(ctx, del, childID, parentID)
		if err != nil {
			return fmt.Errorf("delete from %s: %w", t.Name, err)
		}
		if tag.RowsAffected() == 0 {
			return apperror.NotFound(fmt.Sprintf("%s not found", capitalize(t.Noun)))
		}

		return densify(ctx, tx, t, parentID)
	})
}

// DensifyParent renumbers one parent's children 1..N.
func (s *Store) DensifyParent(ctx context.Context, t Table, parentID uuid.UUID) error {
	return database.WithTransaction(ctx, s.pool, func(tx pgx.Tx) error {
		return densify(ctx, tx, t, parentID)
	})
}

// DensifyAll repairs every parent of the table whose children are not
// dense and returns how many parents were rewritten.
func (s *Store) DensifyAll(ctx context.Context, t Table) (int, error) {
	query := fmt.Sprintf(`
		SELECT %[2]s FROM %[1]s
		GROUP BY %[2]s
		HAVING MIN("order") <> 1 OR MAX("order") <> COUNT(*) OR COUNT(DISTINCT "order") <> COUNT(*)`,
		t.Name, t.ParentColumn)

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("find gapped parents in %s: %w", t.Name, err)
	}
	parents, err := pgx.CollectRows(rows, pgx.RowTo[uuid.UUID])
	if err != nil {
		return 0, fmt.Errorf("collect gapped parents in %s: %w", t.Name, err)
	}

	for _, parentID := range parents {
		if err := s.DensifyParent(ctx, t, parentID); err != nil {
			return 0, err
		}
		logger.Info("Densified sibling order", map[string]interface{}{
			"table":     t.Name,
			"parent_id": parentID.String(),
		})
	}
	return len(parents), nil
}

func densify(ctx context.Context, tx pgx.Tx, t Table, parentID uuid.UUID) error {
	remaining, err := loadSiblings(ctx, tx, t, parentID, true)
	if err != nil {
		return err
	}
	return apply(ctx, tx, t, parentID, Changed(remaining, Densify(remaining)))
}

func mapWriteError(t Table, err error) error {
	if mapped := MapInsertError(t, err); mapped != err {
		return mapped
	}
	return fmt.Errorf("update %s order: %w", t.Name, err)
}

// MapInsertError translates a unique violation on the order index into the
// table's duplicate-order error. Other errors are returned unchanged.
func MapInsertError(t Table, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == t.UniqueIndex() {
		return t.ErrDuplicateOrder()
	}
	return err
}
