package reconcile

import (
	"context"
	"fmt"

	"github.com/untoldecay/Catnip/internal/storage"
	"github.com/untoldecay/Catnip/internal/types"
)

// The per-entity drivers bind the engine to one transaction's stores.

type affiliationDriver struct {
	st storage.AffiliationStore
}

// Affiliations returns the engine driver for affiliations bound to tx.
func Affiliations(tx storage.Transaction) Driver[types.Affiliation] {
	return affiliationDriver{st: tx.Affiliations()}
}

func (d affiliationDriver) Exists(ctx context.Context, a types.Affiliation) (bool, error) {
	return d.st.Exists(ctx, a)
}

func (d affiliationDriver) Fetch(ctx context.Context, a types.Affiliation) (types.Affiliation, error) {
	stored, err := d.st.FetchByID(ctx, a.ID)
	if err != nil {
		return types.Affiliation{}, err
	}
	if stored == nil {
		return types.Affiliation{}, fmt.Errorf("affiliation %d: %w", int64(a.ID), storage.ErrNotFound)
	}
	return *stored, nil
}

func (d affiliationDriver) Insert(ctx context.Context, a types.Affiliation) (types.Affiliation, error) {
	return d.st.Insert(ctx, a)
}

func (d affiliationDriver) Update(ctx context.Context, a types.Affiliation) (types.Affiliation, types.Affiliation, error) {
	return d.st.Update(ctx, a)
}

func (d affiliationDriver) Delete(ctx context.Context, a types.Affiliation) error {
	_, err := d.st.Delete(ctx, a.ID)
	return err
}

func (d affiliationDriver) Stamp(a types.Affiliation, sig types.UpdateSignature) types.Affiliation {
	return a.WithSignature(sig)
}

func (d affiliationDriver) Version(a types.Affiliation) types.UpdateSignature { return a.Version() }

func (d affiliationDriver) ContentEqual(a, b types.Affiliation) bool { return a.ContentEquals(b) }

func (d affiliationDriver) PrimaryName(a types.Affiliation) string { return a.PrimaryName() }

func (d affiliationDriver) SecondaryName(a types.Affiliation) string { return a.SecondaryName() }

type liverDriver struct {
	st storage.LiverStore
}

// Livers returns the engine driver for livers bound to tx.
func Livers(tx storage.Transaction) Driver[types.Liver] {
	return liverDriver{st: tx.Livers()}
}

func (d liverDriver) Exists(ctx context.Context, l types.Liver) (bool, error) {
	return d.st.Exists(ctx, l)
}

func (d liverDriver) Fetch(ctx context.Context, l types.Liver) (types.Liver, error) {
	stored, err := d.st.FetchByID(ctx, l.ID)
	if err != nil {
		return types.Liver{}, err
	}
	if stored == nil {
		return types.Liver{}, fmt.Errorf("liver %d: %w", int64(l.ID), storage.ErrNotFound)
	}
	return *stored, nil
}

func (d liverDriver) Insert(ctx context.Context, l types.Liver) (types.Liver, error) {
	return d.st.Insert(ctx, l)
}

func (d liverDriver) Update(ctx context.Context, l types.Liver) (types.Liver, types.Liver, error) {
	return d.st.Update(ctx, l)
}

func (d liverDriver) Delete(ctx context.Context, l types.Liver) error {
	_, err := d.st.Delete(ctx, l.ID)
	return err
}

func (d liverDriver) Stamp(l types.Liver, sig types.UpdateSignature) types.Liver {
	return l.WithSignature(sig)
}

func (d liverDriver) Version(l types.Liver) types.UpdateSignature { return l.Version() }

func (d liverDriver) ContentEqual(a, b types.Liver) bool { return a.ContentEquals(b) }

func (d liverDriver) PrimaryName(l types.Liver) string { return l.PrimaryName() }

func (d liverDriver) SecondaryName(l types.Liver) string { return l.SecondaryName() }

type channelDriver struct {
	st storage.ChannelStore
}

// Channels returns the engine driver for channels bound to tx.
func Channels(tx storage.Transaction) Driver[types.Channel] {
	return channelDriver{st: tx.Channels()}
}

func (d channelDriver) Exists(ctx context.Context, c types.Channel) (bool, error) {
	return d.st.Exists(ctx, c)
}

func (d channelDriver) Fetch(ctx context.Context, c types.Channel) (types.Channel, error) {
	stored, err := d.st.FetchByID(ctx, c.ID)
	if err != nil {
		return types.Channel{}, err
	}
	if stored == nil {
		return types.Channel{}, fmt.Errorf("channel %s: %w", string(c.ID), storage.ErrNotFound)
	}
	return *stored, nil
}

func (d channelDriver) Insert(ctx context.Context, c types.Channel) (types.Channel, error) {
	return d.st.Insert(ctx, c)
}

func (d channelDriver) Update(ctx context.Context, c types.Channel) (types.Channel, types.Channel, error) {
	return d.st.Update(ctx, c)
}

func (d channelDriver) Delete(ctx context.Context, c types.Channel) error {
	_, err := d.st.Delete(ctx, c.ID)
	return err
}

func (d channelDriver) Stamp(c types.Channel, sig types.UpdateSignature) types.Channel {
	return c.WithSignature(sig)
}

func (d channelDriver) Version(c types.Channel) types.UpdateSignature { return c.Version() }

func (d channelDriver) ContentEqual(a, b types.Channel) bool { return a.ContentEquals(b) }

func (d channelDriver) PrimaryName(c types.Channel) string { return c.PrimaryName() }

func (d channelDriver) SecondaryName(c types.Channel) string { return c.SecondaryName() }

type videoDriver struct {
	st storage.VideoStore
}

// Videos returns the engine driver for videos bound to tx.
func Videos(tx storage.Transaction) Driver[types.Video] {
	return videoDriver{st: tx.Videos()}
}

func (d videoDriver) Exists(ctx context.Context, v types.Video) (bool, error) {
	return d.st.Exists(ctx, v)
}

func (d videoDriver) Fetch(ctx context.Context, v types.Video) (types.Video, error) {
	stored, err := d.st.FetchByID(ctx, v.ID)
	if err != nil {
		return types.Video{}, err
	}
	if stored == nil {
		return types.Video{}, fmt.Errorf("video %s: %w", string(v.ID), storage.ErrNotFound)
	}
	return *stored, nil
}

func (d videoDriver) Insert(ctx context.Context, v types.Video) (types.Video, error) {
	return d.st.Insert(ctx, v)
}

func (d videoDriver) Update(ctx context.Context, v types.Video) (types.Video, types.Video, error) {
	return d.st.Update(ctx, v)
}

func (d videoDriver) Delete(ctx context.Context, v types.Video) error {
	_, err := d.st.Delete(ctx, v.ID)
	return err
}

func (d videoDriver) Stamp(v types.Video, sig types.UpdateSignature) types.Video {
	return v.WithSignature(sig)
}

func (d videoDriver) Version(v types.Video) types.UpdateSignature { return v.Version() }

func (d videoDriver) ContentEqual(a, b types.Video) bool { return a.ContentEquals(b) }

func (d videoDriver) PrimaryName(v types.Video) string { return v.PrimaryName() }

func (d videoDriver) SecondaryName(v types.Video) string { return v.SecondaryName() }
