package cloud

import (
	"context"
	"path/filepath"
	"questlog/internal/structures"
	"questlog/internal/testutil"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newInMemoryBackend(t *testing.T) *BadgerBackend {
	t.Helper()
	b, err := NewBadgerBackend(structures.BadgerConfig{InMemory: true}, &testutil.MockLogger{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Close() })
	return b
}

func TestBadgerBackend_GetMissing(t *testing.T) {
	b := newInMemoryBackend(t)

	_, err := b.Get(context.Background(), "nobody")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBadgerBackend_PutOverwrites(t *testing.T) {
	b := newInMemoryBackend(t)
	ctx := context.Background()

	require.NoError(t, b.Put(ctx, "dev-a", []byte("first")))
	require.NoError(t, b.Put(ctx, "dev-a", []byte("second")))
	require.NoError(t, b.Put(ctx, "dev-b", []byte("other")))

	got, err := b.Get(ctx, "dev-a")
	require.NoError(t, err)
	assert.Equal(t, []byte("second"), got)

	got, err = b.Get(ctx, "dev-b")
	require.NoError(t, err)
	assert.Equal(t, []byte("other"), got)
}

func TestBadgerBackend_PersistsAcrossReopen(t *testing.T) {
	cfg := structures.BadgerConfig{
		Path:       filepath.Join(t.TempDir(), "cloud"),
		SyncWrites: true,
		GCInterval: time.Minute,
	}
	ctx := context.Background()

	b, err := NewBadgerBackend(cfg, &testutil.MockLogger{})
	require.NoError(t, err)
	require.NoError(t, b.Put(ctx, "dev", []byte("doc")))
	require.NoError(t, b.Close())

	b, err = NewBadgerBackend(cfg, &testutil.MockLogger{})
	require.NoError(t, err)
	defer b.Close()

	got, err := b.Get(ctx, "dev")
	require.NoError(t, err)
	assert.Equal(t, []byte("doc"), got)
	b.runGC()
}

func TestBadgerBackend_RequiresPath(t *testing.T) {
	_, err := NewBadgerBackend(structures.BadgerConfig{}, &testutil.MockLogger{})
	assert.Error(t, err)
}

func TestBadgerBackend_PingAfterClose(t *testing.T) {
	b, err := NewBadgerBackend(structures.BadgerConfig{InMemory: true}, &testutil.MockLogger{})
	require.NoError(t, err)

	assert.NoError(t, b.Ping(context.Background()))
	require.NoError(t, b.Close())
	assert.Error(t, b.Ping(context.Background()))
}

func TestNewBackend_Selects(t *testing.T) {
	conf := &structures.Config{Cloud: structures.CloudConfig{
		Backend: "badger",
		Badger:  structures.BadgerConfig{InMemory: true},
	}}
	b, err := NewBackend(conf, &testutil.MockLogger{})
	require.NoError(t, err)
	defer b.Close()
	assert.IsType(t, &BadgerBackend{}, b)

	conf.Cloud.Backend = "dynamo"
	_, err = NewBackend(conf, &testutil.MockLogger{})
	assert.Error(t, err)
}
