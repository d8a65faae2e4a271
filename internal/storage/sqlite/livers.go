package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/untoldecay/Catnip/internal/storage"
	"github.com/untoldecay/Catnip/internal/types"
)

type liverStore struct {
	q queryer
}

func scanLiver(row scanner) (types.Liver, error) {
	var (
		id   int64
		aff  sql.NullInt64
		name string
		loc  string
		sig  int64
	)
	if err := row.Scan(&id, &aff, &name, &loc, &sig); err != nil {
		return types.Liver{}, err
	}
	var affID *int64
	if aff.Valid {
		affID = &aff.Int64
	}
	return types.NewLiver(id, affID, name, loc, sig), nil
}

func nullableAffiliation(id *types.AffiliationID) sql.NullInt64 {
	if id == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*id), Valid: true}
}

func (st *liverStore) Insert(ctx context.Context, l types.Liver) (types.Liver, error) {
	row := st.q.QueryRowContext(ctx, `
		INSERT INTO livers (liver_id, affiliation_id, name, localized_name, update_signatures)
		VALUES (?, ?, ?, ?, ?)
		RETURNING liver_id, affiliation_id, name, localized_name, update_signatures
	`, int64(l.ID), nullableAffiliation(l.AffiliationID), l.Name, l.LocalizedName, int64(l.Signature))
	ins, err := scanLiver(row)
	if err != nil {
		return types.Liver{}, fmt.Errorf("failed to insert liver %d: %w", int64(l.ID), err)
	}
	return ins, nil
}

func (st *liverStore) Update(ctx context.Context, l types.Liver) (types.Liver, types.Liver, error) {
	before, err := scanLiver(st.q.QueryRowContext(ctx, `
		SELECT liver_id, affiliation_id, name, localized_name, update_signatures FROM livers WHERE liver_id = ?
	`, int64(l.ID)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Liver{}, types.Liver{}, fmt.Errorf("liver %d: %w", int64(l.ID), storage.ErrNotFound)
		}
		return types.Liver{}, types.Liver{}, fmt.Errorf("failed to select liver %d: %w", int64(l.ID), err)
	}

	after, err := scanLiver(st.q.QueryRowContext(ctx, `
		UPDATE livers
		SET affiliation_id = ?, name = ?, localized_name = ?, update_signatures = ?
		WHERE liver_id = ?
		RETURNING liver_id, affiliation_id, name, localized_name, update_signatures
	`, nullableAffiliation(l.AffiliationID), l.Name, l.LocalizedName, int64(l.Signature), int64(l.ID)))
	if err != nil {
		return types.Liver{}, types.Liver{}, fmt.Errorf("failed to update liver %d: %w", int64(l.ID), err)
	}
	return before, after, nil
}

func (st *liverStore) Delete(ctx context.Context, id types.LiverID) (types.LiverID, error) {
	var deleted int64
	err := st.q.QueryRowContext(ctx, `
		DELETE FROM livers WHERE liver_id = ? RETURNING liver_id
	`, int64(id)).Scan(&deleted)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, fmt.Errorf("liver %d: %w", int64(id), storage.ErrNotFound)
		}
		return 0, fmt.Errorf("failed to delete liver %d: %w", int64(id), err)
	}
	return types.LiverID(deleted), nil
}

func (st *liverStore) Exists(ctx context.Context, l types.Liver) (bool, error) {
	var exists bool
	err := st.q.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM livers WHERE liver_id = ? OR name = ?)
	`, int64(l.ID), l.Name).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check liver existence: %w", err)
	}
	return exists, nil
}

func (st *liverStore) SignatureOf(ctx context.Context, id types.LiverID) (types.UpdateSignature, error) {
	var sig int64
	err := st.q.QueryRowContext(ctx, `
		SELECT update_signatures FROM livers WHERE liver_id = ?
	`, int64(id)).Scan(&sig)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, fmt.Errorf("liver %d: %w", int64(id), storage.ErrNotFound)
		}
		return 0, fmt.Errorf("failed to read liver signature: %w", err)
	}
	return types.UpdateSignature(sig), nil
}

func (st *liverStore) FetchAll(ctx context.Context) ([]types.Liver, error) {
	return st.fetchMany(ctx, `
		SELECT liver_id, affiliation_id, name, localized_name, update_signatures FROM livers
	`)
}

func (st *liverStore) FetchByID(ctx context.Context, id types.LiverID) (*types.Liver, error) {
	l, err := scanLiver(st.q.QueryRowContext(ctx, `
		SELECT liver_id, affiliation_id, name, localized_name, update_signatures FROM livers WHERE liver_id = ?
	`, int64(id)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch liver %d: %w", int64(id), err)
	}
	return &l, nil
}

func (st *liverStore) FetchByName(ctx context.Context, name string) (*types.Liver, error) {
	l, err := scanLiver(st.q.QueryRowContext(ctx, `
		SELECT liver_id, affiliation_id, name, localized_name, update_signatures FROM livers WHERE name = ? LIMIT 1
	`, name))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch liver %q: %w", name, err)
	}
	return &l, nil
}

func (st *liverStore) FetchByAffiliation(ctx context.Context, id types.AffiliationID) ([]types.Liver, error) {
	return st.fetchMany(ctx, `
		SELECT liver_id, affiliation_id, name, localized_name, update_signatures FROM livers WHERE affiliation_id = ?
	`, int64(id))
}

func (st *liverStore) fetchMany(ctx context.Context, query string, args ...any) ([]types.Liver, error) {
	rows, err := st.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch livers: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var all []types.Liver
	for rows.Next() {
		l, err := scanLiver(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan liver row: %w", err)
		}
		all = append(all, l)
	}
	return all, rows.Err()
}

// liverRepo wraps every liverStore call in its own transaction.
type liverRepo struct {
	s *SQLiteStorage
}

func (r *liverRepo) Insert(ctx context.Context, l types.Liver) (types.Liver, error) {
	return withTx(ctx, r.s, func(tx storage.Transaction) (types.Liver, error) {
		return tx.Livers().Insert(ctx, l)
	})
}

func (r *liverRepo) Update(ctx context.Context, l types.Liver) (before, after types.Liver, err error) {
	err = r.s.RunInTransaction(ctx, func(tx storage.Transaction) error {
		var txErr error
		before, after, txErr = tx.Livers().Update(ctx, l)
		return txErr
	})
	return before, after, err
}

func (r *liverRepo) Delete(ctx context.Context, id types.LiverID) (types.LiverID, error) {
	return withTx(ctx, r.s, func(tx storage.Transaction) (types.LiverID, error) {
		return tx.Livers().Delete(ctx, id)
	})
}

func (r *liverRepo) Exists(ctx context.Context, l types.Liver) (bool, error) {
	return withTx(ctx, r.s, func(tx storage.Transaction) (bool, error) {
		return tx.Livers().Exists(ctx, l)
	})
}

func (r *liverRepo) SignatureOf(ctx context.Context, id types.LiverID) (types.UpdateSignature, error) {
	return withTx(ctx, r.s, func(tx storage.Transaction) (types.UpdateSignature, error) {
		return tx.Livers().SignatureOf(ctx, id)
	})
}

func (r *liverRepo) FetchAll(ctx context.Context) ([]types.Liver, error) {
	return withTx(ctx, r.s, func(tx storage.Transaction) ([]types.Liver, error) {
		return tx.Livers().FetchAll(ctx)
	})
}

func (r *liverRepo) FetchByID(ctx context.Context, id types.LiverID) (*types.Liver, error) {
	return withTx(ctx, r.s, func(tx storage.Transaction) (*types.Liver, error) {
		return tx.Livers().FetchByID(ctx, id)
	})
}

func (r *liverRepo) FetchByName(ctx context.Context, name string) (*types.Liver, error) {
	return withTx(ctx, r.s, func(tx storage.Transaction) (*types.Liver, error) {
		return tx.Livers().FetchByName(ctx, name)
	})
}

func (r *liverRepo) FetchByAffiliation(ctx context.Context, id types.AffiliationID) ([]types.Liver, error) {
	return withTx(ctx, r.s, func(tx storage.Transaction) ([]types.Liver, error) {
		return tx.Livers().FetchByAffiliation(ctx, id)
	})
}
