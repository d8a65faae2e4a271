package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/untoldecay/Catnip/internal/storage"
	"github.com/untoldecay/Catnip/internal/types"
)

type channelStore struct {
	q queryer
}

func scanChannel(row scanner) (types.Channel, error) {
	var (
		id    string
		liver sql.NullInt64
		logo  string
		pub   time.Time
		desc  string
		sig   int64
	)
	if err := row.Scan(&id, &liver, &logo, &pub, &desc, &sig); err != nil {
		return types.Channel{}, err
	}
	var liverID *types.LiverID
	if liver.Valid {
		v := types.LiverID(liver.Int64)
		liverID = &v
	}
	return types.Channel{
		ID:          types.ChannelID(id),
		LiverID:     liverID,
		LogoURL:     logo,
		PublishedAt: pub,
		Description: desc,
		Signature:   types.UpdateSignature(sig),
	}, nil
}

func nullableLiver(id *types.LiverID) sql.NullInt64 {
	if id == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*id), Valid: true}
}

func (st *channelStore) Insert(ctx context.Context, c types.Channel) (types.Channel, error) {
	row := st.q.QueryRowContext(ctx, `
		INSERT INTO channels (channel_id, liver_id, logo_url, published_at, description, update_signatures)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING channel_id, liver_id, logo_url, published_at, description, update_signatures
	`, string(c.ID), nullableLiver(c.LiverID), c.LogoURL, c.PublishedAt, c.Description, int64(c.Signature))
	ins, err := scanChannel(row)
	if err != nil {
		return types.Channel{}, fmt.Errorf("failed to insert channel %s: %w", string(c.ID), err)
	}
	return ins, nil
}

func (st *channelStore) Update(ctx context.Context, c types.Channel) (types.Channel, types.Channel, error) {
	before, err := scanChannel(st.q.QueryRowContext(ctx, `
		SELECT channel_id, liver_id, logo_url, published_at, description, update_signatures FROM channels WHERE channel_id = ?
	`, string(c.ID)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Channel{}, types.Channel{}, fmt.Errorf("channel %s: %w", string(c.ID), storage.ErrNotFound)
		}
		return types.Channel{}, types.Channel{}, fmt.Errorf("failed to select channel %s: %w", string(c.ID), err)
	}

	after, err := scanChannel(st.q.QueryRowContext(ctx, `
		UPDATE channels
		SET liver_id = ?, logo_url = ?, published_at = ?, description = ?, update_signatures = ?
		WHERE channel_id = ?
		RETURNING channel_id, liver_id, logo_url, published_at, description, update_signatures
	`, nullableLiver(c.LiverID), c.LogoURL, c.PublishedAt, c.Description, int64(c.Signature), string(c.ID)))
	if err != nil {
		return types.Channel{}, types.Channel{}, fmt.Errorf("failed to update channel %s: %w", string(c.ID), err)
	}
	return before, after, nil
}

func (st *channelStore) Delete(ctx context.Context, id types.ChannelID) (types.ChannelID, error) {
	var deleted string
	err := st.q.QueryRowContext(ctx, `
		DELETE FROM channels WHERE channel_id = ? RETURNING channel_id
	`, string(id)).Scan(&deleted)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("channel %s: %w", string(id), storage.ErrNotFound)
		}
		return "", fmt.Errorf("failed to delete channel %s: %w", string(id), err)
	}
	return types.ChannelID(deleted), nil
}

func (st *channelStore) Exists(ctx context.Context, c types.Channel) (bool, error) {
	var exists bool
	err := st.q.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM channels WHERE channel_id = ?)
	`, string(c.ID)).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check channel existence: %w", err)
	}
	return exists, nil
}

func (st *channelStore) SignatureOf(ctx context.Context, id types.ChannelID) (types.UpdateSignature, error) {
	var sig int64
	err := st.q.QueryRowContext(ctx, `
		SELECT update_signatures FROM channels WHERE channel_id = ?
	`, string(id)).Scan(&sig)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, fmt.Errorf("channel %s: %w", string(id), storage.ErrNotFound)
		}
		return 0, fmt.Errorf("failed to read channel signature: %w", err)
	}
	return types.UpdateSignature(sig), nil
}

func (st *channelStore) FetchAll(ctx context.Context) ([]types.Channel, error) {
	rows, err := st.q.QueryContext(ctx, `
		SELECT channel_id, liver_id, logo_url, published_at, description, update_signatures FROM channels
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch channels: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var all []types.Channel
	for rows.Next() {
		c, err := scanChannel(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan channel row: %w", err)
		}
		all = append(all, c)
	}
	return all, rows.Err()
}

func (st *channelStore) FetchByID(ctx context.Context, id types.ChannelID) (*types.Channel, error) {
	c, err := scanChannel(st.q.QueryRowContext(ctx, `
		SELECT channel_id, liver_id, logo_url, published_at, description, update_signatures FROM channels WHERE channel_id = ?
	`, string(id)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch channel %s: %w", string(id), err)
	}
	return &c, nil
}

// channelRepo wraps every channelStore call in its own transaction.
type channelRepo struct {
	s *SQLiteStorage
}

func (r *channelRepo) Insert(ctx context.Context, c types.Channel) (types.Channel, error) {
	return withTx(ctx, r.s, func(tx storage.Transaction) (types.Channel, error) {
		return tx.Channels().Insert(ctx, c)
	})
}

func (r *channelRepo) Update(ctx context.Context, c types.Channel) (before, after types.Channel, err error) {
	err = r.s.RunInTransaction(ctx, func(tx storage.Transaction) error {
		var txErr error
		before, after, txErr = tx.Channels().Update(ctx, c)
		return txErr
	})
	return before, after, err
}

func (r *channelRepo) Delete(ctx context.Context, id types.ChannelID) (types.ChannelID, error) {
	return withTx(ctx, r.s, func(tx storage.Transaction) (types.ChannelID, error) {
		return tx.Channels().Delete(ctx, id)
	})
}

func (r *channelRepo) Exists(ctx context.Context, c types.Channel) (bool, error) {
	return withTx(ctx, r.s, func(tx storage.Transaction) (bool, error) {
		return tx.Channels().Exists(ctx, c)
	})
}

func (r *channelRepo) SignatureOf(ctx context.Context, id types.ChannelID) (types.UpdateSignature, error) {
	return withTx(ctx, r.s, func(tx storage.Transaction) (types.UpdateSignature, error) {
		return tx.Channels().SignatureOf(ctx, id)
	})
}

func (r *channelRepo) FetchAll(ctx context.Context) ([]types.Channel, error) {
	return withTx(ctx, r.s, func(tx storage.Transaction) ([]types.Channel, error) {
		return tx.Channels().FetchAll(ctx)
	})
}

func (r *channelRepo) FetchByID(ctx context.Context, id types.ChannelID) (*types.Channel, error) {
	return withTx(ctx, r.s, func(tx storage.Transaction) (*types.Channel, error) {
		return tx.Channels().FetchByID(ctx, id)
	})
}
