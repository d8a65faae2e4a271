package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/untoldecay/Catnip/internal/storage"
	"github.com/untoldecay/Catnip/internal/types"
)

type affiliationStore struct {
	q queryer
}

type scanner interface {
	Scan(dest ...any) error
}

func scanAffiliation(row scanner) (types.Affiliation, error) {
	var (
		id   int64
		name string
		sig  int64
	)
	if err := row.Scan(&id, &name, &sig); err != nil {
		return types.Affiliation{}, err
	}
	return types.NewAffiliation(id, name, sig), nil
}

func (st *affiliationStore) Insert(ctx context.Context, a types.Affiliation) (types.Affiliation, error) {
	row := st.q.QueryRowContext(ctx, `
		INSERT INTO affiliations (affiliation_id, name, update_signatures)
		VALUES (?, ?, ?)
		RETURNING affiliation_id, name, update_signatures
	`, int64(a.ID), a.Name, int64(a.Signature))
	ins, err := scanAffiliation(row)
	if err != nil {
		return types.Affiliation{}, fmt.Errorf("failed to insert affiliation %d: %w", int64(a.ID), err)
	}
	return ins, nil
}

func (st *affiliationStore) Update(ctx context.Context, a types.Affiliation) (types.Affiliation, types.Affiliation, error) {
	before, err := scanAffiliation(st.q.QueryRowContext(ctx, `
		SELECT affiliation_id, name, update_signatures FROM affiliations WHERE affiliation_id = ?
	`, int64(a.ID)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Affiliation{}, types.Affiliation{}, fmt.Errorf("affiliation %d: %w", int64(a.ID), storage.ErrNotFound)
		}
		return types.Affiliation{}, types.Affiliation{}, fmt.Errorf("failed to select affiliation %d: %w", int64(a.ID), err)
	}

	after, err := scanAffiliation(st.q.QueryRowContext(ctx, `
		UPDATE affiliations
		SET name = ?, update_signatures = ?
		WHERE affiliation_id = ?
		RETURNING affiliation_id, name, update_signatures
	`, a.Name, int64(a.Signature), int64(a.ID)))
	if err != nil {
		return types.Affiliation{}, types.Affiliation{}, fmt.Errorf("failed to update affiliation %d: %w", int64(a.ID), err)
	}
	return before, after, nil
}

func (st *affiliationStore) Delete(ctx context.Context, id types.AffiliationID) (types.AffiliationID, error) {
	var deleted int64
	err := st.q.QueryRowContext(ctx, `
		DELETE FROM affiliations WHERE affiliation_id = ? RETURNING affiliation_id
	`, int64(id)).Scan(&deleted)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, fmt.Errorf("affiliation %d: %w", int64(id), storage.ErrNotFound)
		}
		return 0, fmt.Errorf("failed to delete affiliation %d: %w", int64(id), err)
	}
	return types.AffiliationID(deleted), nil
}

func (st *affiliationStore) Exists(ctx context.Context, a types.Affiliation) (bool, error) {
	var exists bool
	err := st.q.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM affiliations WHERE affiliation_id = ? OR name = ?)
	`, int64(a.ID), a.Name).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check affiliation existence: %w", err)
	}
	return exists, nil
}

func (st *affiliationStore) SignatureOf(ctx context.Context, id types.AffiliationID) (types.UpdateSignature, error) {
	var sig int64
	err := st.q.QueryRowContext(ctx, `
		SELECT update_signatures FROM affiliations WHERE affiliation_id = ?
	`, int64(id)).Scan(&sig)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, fmt.Errorf("affiliation %d: %w", int64(id), storage.ErrNotFound)
		}
		return 0, fmt.Errorf("failed to read affiliation signature: %w", err)
	}
	return types.UpdateSignature(sig), nil
}

func (st *affiliationStore) FetchAll(ctx context.Context) ([]types.Affiliation, error) {
	rows, err := st.q.QueryContext(ctx, `
		SELECT affiliation_id, name, update_signatures FROM affiliations
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch affiliations: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var all []types.Affiliation
	for rows.Next() {
		a, err := scanAffiliation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan affiliation row: %w", err)
		}
		all = append(all, a)
	}
	return all, rows.Err()
}

func (st *affiliationStore) FetchByID(ctx context.Context, id types.AffiliationID) (*types.Affiliation, error) {
	a, err := scanAffiliation(st.q.QueryRowContext(ctx, `
		SELECT affiliation_id, name, update_signatures FROM affiliations WHERE affiliation_id = ?
	`, int64(id)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch affiliation %d: %w", int64(id), err)
	}
	return &a, nil
}

func (st *affiliationStore) FetchByName(ctx context.Context, name string) (*types.Affiliation, error) {
	a, err := scanAffiliation(st.q.QueryRowContext(ctx, `
		SELECT affiliation_id, name, update_signatures FROM affiliations WHERE name = ? LIMIT 1
	`, name))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch affiliation %q: %w", name, err)
	}
	return &a, nil
}

// affiliationRepo wraps every affiliationStore call in its own
// transaction.
type affiliationRepo struct {
	s *SQLiteStorage
}

func (r *affiliationRepo) Insert(ctx context.Context, a types.Affiliation) (types.Affiliation, error) {
	return withTx(ctx, r.s, func(tx storage.Transaction) (types.Affiliation, error) {
		return tx.Affiliations().Insert(ctx, a)
	})
}

func (r *affiliationRepo) Update(ctx context.Context, a types.Affiliation) (before, after types.Affiliation, err error) {
	err = r.s.RunInTransaction(ctx, func(tx storage.Transaction) error {
		var txErr error
		before, after, txErr = tx.Affiliations().Update(ctx, a)
		return txErr
	})
	return before, after, err
}

func (r *affiliationRepo) Delete(ctx context.Context, id types.AffiliationID) (types.AffiliationID, error) {
	return withTx(ctx, r.s, func(tx storage.Transaction) (types.AffiliationID, error) {
		return tx.Affiliations().Delete(ctx, id)
	})
}

func (r *affiliationRepo) Exists(ctx context.Context, a types.Affiliation) (bool, error) {
	return withTx(ctx, r.s, func(tx storage.Transaction) (bool, error) {
		return tx.Affiliations().Exists(ctx, a)
	})
}

func (r *affiliationRepo) SignatureOf(ctx context.Context, id types.AffiliationID) (types.UpdateSignature, error) {
	return withTx(ctx, r.s, func(tx storage.Transaction) (types.UpdateSignature, error) {
		return tx.Affiliations().SignatureOf(ctx, id)
	})
}

func (r *affiliationRepo) FetchAll(ctx context.Context) ([]types.Affiliation, error) {
	return withTx(ctx, r.s, func(tx storage.Transaction) ([]types.Affiliation, error) {
		return tx.Affiliations().FetchAll(ctx)
	})
}

func (r *affiliationRepo) FetchByID(ctx context.Context, id types.AffiliationID) (*types.Affiliation, error) {
	return withTx(ctx, r.s, func(tx storage.Transaction) (*types.Affiliation, error) {
		return tx.Affiliations().FetchByID(ctx, id)
	})
}

func (r *affiliationRepo) FetchByName(ctx context.Context, name string) (*types.Affiliation, error) {
	return withTx(ctx, r.s, func(tx storage.Transaction) (*types.Affiliation, error) {
		return tx.Affiliations().FetchByName(ctx, name)
	})
}
