package leads

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felipemolinaphoto-cpu/rosamentaquiz/internal/generation"
	"github.com/felipemolinaphoto-cpu/rosamentaquiz/internal/store"
)

func openStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "leads.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestLedger_AppendPrependsAndPersists(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)

	l, err := Open(ctx, s.SnapshotRepo(), zerolog.Nop())
	require.NoError(t, err)
	assert.Empty(t, l.All())

	a, err := l.Append(ctx, Lead{UserName: "Ana", Answers: []string{"Neutros"}, Result: generation.Result{ProfileName: "A"}})
	require.NoError(t, err)
	b, err := l.Append(ctx, Lead{UserName: "Bia", Result: generation.Result{ProfileName: "B"}})
	require.NoError(t, err)

	assert.NotEmpty(t, a.ID)
	assert.NotEqual(t, a.ID, b.ID)
	assert.False(t, a.Timestamp.IsZero())

	all := l.All()
	require.Len(t, all, 2)
	assert.Equal(t, "Bia", all[0].UserName)
	assert.Equal(t, "Ana", all[1].UserName)

	reopened, err := Open(ctx, s.SnapshotRepo(), zerolog.Nop())
	require.NoError(t, err)
	got := reopened.All()
	require.Len(t, got, 2)
	assert.Equal(t, b.ID, got[0].ID)
	assert.Equal(t, a.ID, got[1].ID)
	assert.Equal(t, []string{"Neutros"}, got[1].Answers)
	assert.Equal(t, "A", got[1].Result.ProfileName)
}

func TestLedger_CorruptSnapshotLoadsEmpty(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)
	require.NoError(t, s.SnapshotRepo().Save(ctx, StorageKey, []byte("{not json")))

	l, err := Open(ctx, s.SnapshotRepo(), zerolog.Nop())
	require.NoError(t, err)
	assert.Empty(t, l.All())

	_, err = l.Append(ctx, Lead{UserName: "Ana"})
	require.NoError(t, err)
	assert.Equal(t, 1, l.Len())
}

func TestLedger_AllReturnsCopy(t *testing.T) {
	ctx := context.Background()
	l, err := Open(ctx, openStore(t).SnapshotRepo(), zerolog.Nop())
	require.NoError(t, err)
	_, err = l.Append(ctx, Lead{UserName: "Ana"})
	require.NoError(t, err)

	all := l.All()
	all[0].UserName = "mutated"
	assert.Equal(t, "Ana", l.All()[0].UserName)
}

func TestLedger_LoadAllPicksUpOtherWriters(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)

	reader, err := Open(ctx, s.SnapshotRepo(), zerolog.Nop())
	require.NoError(t, err)
	writer, err := Open(ctx, s.SnapshotRepo(), zerolog.Nop())
	require.NoError(t, err)

	_, err = writer.Append(ctx, Lead{UserName: "Ana"})
	require.NoError(t, err)
	assert.Empty(t, reader.All())

	got, err := reader.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Ana", got[0].UserName)
	assert.Equal(t, 1, reader.Len())

	require.NoError(t, s.SnapshotRepo().Save(ctx, StorageKey, []byte("garbage")))
	got, err = reader.LoadAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
}

type failingKV struct{ saveErr error }

func (f failingKV) Save(context.Context, string, []byte) error   { return f.saveErr }
func (f failingKV) Load(context.Context, string) ([]byte, error) { return nil, nil }
func (f failingKV) Delete(context.Context, string) error         { return nil }

func TestLedger_SaveFailureLeavesLedgerUnchanged(t *testing.T) {
	ctx := context.Background()
	l, err := Open(ctx, failingKV{saveErr: errors.New("disk full")}, zerolog.Nop())
	require.NoError(t, err)

	_, err = l.Append(ctx, Lead{UserName: "Ana"})
	require.Error(t, err)
	assert.Equal(t, 0, l.Len())
}

func TestLedger_GetAndClear(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)
	l, err := Open(ctx, s.SnapshotRepo(), zerolog.Nop())
	require.NoError(t, err)
	l.newID = func() string { return "0123456789abcdef" }
	l.now = func() time.Time { return time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC) }

	lead, err := l.Append(ctx, Lead{UserName: "Ana"})
	require.NoError(t, err)

	got, ok := l.Get("0123456789abcdef")
	require.True(t, ok)
	assert.Equal(t, lead, got)

	got, ok = l.Get("0123")
	require.True(t, ok, "unique prefix should match")
	assert.Equal(t, "Ana", got.UserName)

	_, ok = l.Get("zzzz")
	assert.False(t, ok)

	require.NoError(t, l.Clear(ctx))
	assert.Equal(t, 0, l.Len())
	data, err := s.SnapshotRepo().Load(ctx, StorageKey)
	require.NoError(t, err)
	assert.Nil(t, data)
}
