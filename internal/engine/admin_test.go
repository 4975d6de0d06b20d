package engine_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventx/internal/clock"
	"eventx/internal/engine"
	"eventx/internal/models"
	"eventx/internal/store"
)

var testTime = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestEngine(t *testing.T) (*engine.Engine, *store.Memory) {
	t.Helper()
	mem := store.NewMemory()
	return engine.New(mem, clock.NewFixed(testTime)), mem
}

func TestInitialize(t *testing.T) {
	eng, mem := newTestEngine(t)
	ctx := context.Background()

	require.NoError(t, eng.Initialize(ctx, "admin-1"))

	// All five slots land in one commit.
	assert.Equal(t, 5, mem.Len())

	admin, err := eng.Admin(ctx)
	require.NoError(t, err)
	assert.Equal(t, "admin-1", admin)

	events, err := eng.Events(ctx)
	require.NoError(t, err)
	assert.Empty(t, events)
}

// wrappingStore decorates Memory the way a remote backend might, adding its
// own context around every error.
type wrappingStore struct {
	inner *store.Memory
}

func (w wrappingStore) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := w.inner.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("backend get %s: %w", key, err)
	}
	return val, nil
}

func (w wrappingStore) SetMulti(ctx context.Context, writes map[string][]byte) error {
	return w.inner.SetMulti(ctx, writes)
}

func TestNotInitializedThroughWrappedBackendError(t *testing.T) {
	eng := engine.New(wrappingStore{inner: store.NewMemory()}, clock.NewFixed(testTime))

	_, err := eng.Admin(context.Background())
	assert.ErrorIs(t, err, engine.ErrNotInitialized)
}

func TestOperationsBeforeInitialize(t *testing.T) {
	eng, mem := newTestEngine(t)
	ctx := context.Background()

	_, err := eng.Admin(ctx)
	assert.ErrorIs(t, err, engine.ErrNotInitialized)

	_, err = eng.CreateEvent(ctx, "anyone", models.CreateEventParams{Title: "x"})
	assert.ErrorIs(t, err, engine.ErrNotInitialized)

	_, err = eng.MintTicket(ctx, "anyone", "event-0", "buyer")
	assert.ErrorIs(t, err, engine.ErrNotInitialized)

	_, err = eng.GetTicket(ctx, "ticket-0")
	assert.ErrorIs(t, err, engine.ErrNotInitialized)

	// None of the failed operations wrote anything.
	assert.Equal(t, 0, mem.Len())
}

func TestReinitializeResetsState(t *testing.T) {
	eng, _ := newTestEngine(t)
	ctx := context.Background()

	require.NoError(t, eng.Initialize(ctx, "admin-1"))
	_, err := eng.CreateEvent(ctx, "admin-1", models.CreateEventParams{Title: "Show", TotalTickets: 5})
	require.NoError(t, err)

	// Bootstrap is unguarded: a second call wipes everything.
	require.NoError(t, eng.Initialize(ctx, "admin-2"))

	admin, err := eng.Admin(ctx)
	require.NoError(t, err)
	assert.Equal(t, "admin-2", admin)

	events, err := eng.Events(ctx)
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestSetAdmin(t *testing.T) {
	eng, _ := newTestEngine(t)
	ctx := context.Background()

	require.NoError(t, eng.Initialize(ctx, "admin-1"))

	err := eng.SetAdmin(ctx, "intruder", "intruder")
	assert.ErrorIs(t, err, engine.ErrUnauthorized)

	require.NoError(t, eng.SetAdmin(ctx, "admin-1", "admin-2"))

	admin, err := eng.Admin(ctx)
	require.NoError(t, err)
	assert.Equal(t, "admin-2", admin)

	// The old admin lost its privileges with the rotation.
	err = eng.SetAdmin(ctx, "admin-1", "admin-1")
	assert.ErrorIs(t, err, engine.ErrUnauthorized)
}
