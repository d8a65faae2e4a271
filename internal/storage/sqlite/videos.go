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

type videoStore struct {
	q queryer
}

func scanVideo(row scanner) (types.Video, error) {
	var (
		id      string
		channel sql.NullString
		title   string
		desc    string
		pub     sql.NullTime
		upd     sql.NullTime
		will    sql.NullTime
		started sql.NullTime
		thumb   string
		sig     int64
	)
	if err := row.Scan(&id, &channel, &title, &desc, &pub, &upd, &will, &started, &thumb, &sig); err != nil {
		return types.Video{}, err
	}
	var channelID *types.ChannelID
	if channel.Valid {
		v := types.ChannelID(channel.String)
		channelID = &v
	}
	return types.Video{
		ID:           types.VideoID(id),
		ChannelID:    channelID,
		Title:        title,
		Description:  desc,
		PublishedAt:  nullTimePtr(pub),
		UpdatedAt:    nullTimePtr(upd),
		WillStartAt:  nullTimePtr(will),
		StartedAt:    nullTimePtr(started),
		ThumbnailURL: thumb,
		Signature:    types.UpdateSignature(sig),
	}, nil
}

func nullTimePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}

func nullableTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func nullableChannel(id *types.ChannelID) sql.NullString {
	if id == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: string(*id), Valid: true}
}

const videoColumns = `video_id, channel_id, title, description, published_at, updated_at, will_start_at, started_at, thumbnail_url, update_signatures`

func (st *videoStore) Insert(ctx context.Context, v types.Video) (types.Video, error) {
	row := st.q.QueryRowContext(ctx, `
		INSERT INTO videos (video_id, channel_id, title, description, published_at, updated_at, will_start_at, started_at, thumbnail_url, update_signatures)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING `+videoColumns,
		string(v.ID), nullableChannel(v.ChannelID), v.Title, v.Description,
		nullableTime(v.PublishedAt), nullableTime(v.UpdatedAt), nullableTime(v.WillStartAt), nullableTime(v.StartedAt),
		v.ThumbnailURL, int64(v.Signature))
	ins, err := scanVideo(row)
	if err != nil {
		return types.Video{}, fmt.Errorf("failed to insert video %s: %w", string(v.ID), err)
	}
	return ins, nil
}

func (st *videoStore) Update(ctx context.Context, v types.Video) (types.Video, types.Video, error) {
	before, err := scanVideo(st.q.QueryRowContext(ctx, `
		SELECT `+videoColumns+` FROM videos WHERE video_id = ?
	`, string(v.ID)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Video{}, types.Video{}, fmt.Errorf("video %s: %w", string(v.ID), storage.ErrNotFound)
		}
		return types.Video{}, types.Video{}, fmt.Errorf("failed to select video %s: %w", string(v.ID), err)
	}

	after, err := scanVideo(st.q.QueryRowContext(ctx, `
		UPDATE videos
		SET channel_id = ?, title = ?, description = ?, published_at = ?, updated_at = ?, will_start_at = ?, started_at = ?, thumbnail_url = ?, update_signatures = ?
		WHERE video_id = ?
		RETURNING `+videoColumns,
		nullableChannel(v.ChannelID), v.Title, v.Description,
		nullableTime(v.PublishedAt), nullableTime(v.UpdatedAt), nullableTime(v.WillStartAt), nullableTime(v.StartedAt),
		v.ThumbnailURL, int64(v.Signature), string(v.ID)))
	if err != nil {
		return types.Video{}, types.Video{}, fmt.Errorf("failed to update video %s: %w", string(v.ID), err)
	}
	return before, after, nil
}

func (st *videoStore) Delete(ctx context.Context, id types.VideoID) (types.VideoID, error) {
	var deleted string
	err := st.q.QueryRowContext(ctx, `
		DELETE FROM videos WHERE video_id = ? RETURNING video_id
	`, string(id)).Scan(&deleted)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("video %s: %w", string(id), storage.ErrNotFound)
		}
		return "", fmt.Errorf("failed to delete video %s: %w", string(id), err)
	}
	return types.VideoID(deleted), nil
}

func (st *videoStore) Exists(ctx context.Context, v types.Video) (bool, error) {
	var exists bool
	err := st.q.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM videos WHERE video_id = ?)
	`, string(v.ID)).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check video existence: %w", err)
	}
	return exists, nil
}

func (st *videoStore) SignatureOf(ctx context.Context, id types.VideoID) (types.UpdateSignature, error) {
	var sig int64
	err := st.q.QueryRowContext(ctx, `
		SELECT update_signatures FROM videos WHERE video_id = ?
	`, string(id)).Scan(&sig)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, fmt.Errorf("video %s: %w", string(id), storage.ErrNotFound)
		}
		return 0, fmt.Errorf("failed to read video signature: %w", err)
	}
	return types.UpdateSignature(sig), nil
}

func (st *videoStore) FetchAll(ctx context.Context) ([]types.Video, error) {
	return st.fetchMany(ctx, `SELECT `+videoColumns+` FROM videos`)
}

func (st *videoStore) FetchByID(ctx context.Context, id types.VideoID) (*types.Video, error) {
	v, err := scanVideo(st.q.QueryRowContext(ctx, `
		SELECT `+videoColumns+` FROM videos WHERE video_id = ?
	`, string(id)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch video %s: %w", string(id), err)
	}
	return &v, nil
}

func (st *videoStore) FetchUpcoming(ctx context.Context) ([]types.Video, error) {
	return st.fetchMany(ctx, `
		SELECT `+videoColumns+` FROM videos
		WHERE will_start_at IS NOT NULL AND started_at IS NULL
		ORDER BY will_start_at
	`)
}

func (st *videoStore) fetchMany(ctx context.Context, query string, args ...any) ([]types.Video, error) {
	rows, err := st.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch videos: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var all []types.Video
	for rows.Next() {
		v, err := scanVideo(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan video row: %w", err)
		}
		all = append(all, v)
	}
	return all, rows.Err()
}

// videoRepo wraps every videoStore call in its own transaction.
type videoRepo struct {
	s *SQLiteStorage
}

func (r *videoRepo) Insert(ctx context.Context, v types.Video) (types.Video, error) {
	return withTx(ctx, r.s, func(tx storage.Transaction) (types.Video, error) {
		return tx.Videos().Insert(ctx, v)
	})
}

func (r *videoRepo) Update(ctx context.Context, v types.Video) (before, after types.Video, err error) {
	err = r.s.RunInTransaction(ctx, func(tx storage.Transaction) error {
		var txErr error
		before, after, txErr = tx.Videos().Update(ctx, v)
		return txErr
	})
	return before, after, err
}

func (r *videoRepo) Delete(ctx context.Context, id types.VideoID) (types.VideoID, error) {
	return withTx(ctx, r.s, func(tx storage.Transaction) (types.VideoID, error) {
		return tx.Videos().Delete(ctx, id)
	})
}

func (r *videoRepo) Exists(ctx context.Context, v types.Video) (bool, error) {
	return withTx(ctx, r.s, func(tx storage.Transaction) (bool, error) {
		return tx.Videos().Exists(ctx, v)
	})
}

func (r *videoRepo) SignatureOf(ctx context.Context, id types.VideoID) (types.UpdateSignature, error) {
	return withTx(ctx, r.s, func(tx storage.Transaction) (types.UpdateSignature, error) {
		return tx.Videos().SignatureOf(ctx, id)
	})
}

func (r *videoRepo) FetchAll(ctx context.Context) ([]types.Video, error) {
	return withTx(ctx, r.s, func(tx storage.Transaction) ([]types.Video, error) {
		return tx.Videos().FetchAll(ctx)
	})
}

func (r *videoRepo) FetchByID(ctx context.Context, id types.VideoID) (*types.Video, error) {
	return withTx(ctx, r.s, func(tx storage.Transaction) (*types.Video, error) {
		return tx.Videos().FetchByID(ctx, id)
	})
}

func (r *videoRepo) FetchUpcoming(ctx context.Context) ([]types.Video, error) {
	return withTx(ctx, r.s, func(tx storage.Transaction) ([]types.Video, error) {
		return tx.Videos().FetchUpcoming(ctx)
	})
}
