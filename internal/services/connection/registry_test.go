package connection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taggamecreator/tag-echobound-servers/internal/model"
	"github.com/taggamecreator/tag-echobound-servers/internal/testutil"
)

func newTestRegistry() *Registry {
	return NewRegistry(testutil.NopLogger())
}

func TestRegisterAssignsUniqueIDs(t *testing.T) {
	r := newTestRegistry()

	a := r.Register()
	b := r.Register()

	assert.NotEmpty(t, a.ID())
	assert.NotEqual(t, a.ID(), b.ID())
	assert.Equal(t, 2, r.Count())
}

func TestBindIdentity(t *testing.T) {
	r := newTestRegistry()
	conn := r.Register()

	assert.Empty(t, conn.PlayerID())

	require.NoError(t, r.BindIdentity(conn.ID(), "p-1", "Alice"))
	assert.Equal(t, model.PlayerID("p-1"), conn.PlayerID())
	assert.Equal(t, "Alice", conn.DisplayName())
}

func TestBindIdentityUnknownConnection(t *testing.T) {
	r := newTestRegistry()

	err := r.BindIdentity("missing", "p-1", "Alice")
	assert.ErrorIs(t, err, model.ErrConnectionNotFound)
}

func TestBindIdentityAllowsDuplicates(t *testing.T) {
	// Identity uniqueness is not validated; two connections may carry
	// the same player id.
	r := newTestRegistry()
	a := r.Register()
	b := r.Register()

	require.NoError(t, r.BindIdentity(a.ID(), "p-1", "Alice"))
	require.NoError(t, r.BindIdentity(b.ID(), "p-1", "Alice again"))

	assert.Equal(t, a.PlayerID(), b.PlayerID())
}

func TestUnregisterClosesConnection(t *testing.T) {
	r := newTestRegistry()
	conn := r.Register()

	r.Unregister(conn.ID())

	_, ok := r.Lookup(conn.ID())
	assert.False(t, ok)
	assert.Equal(t, 0, r.Count())

	select {
	case <-conn.Done():
	default:
		t.Fatal("expected connection to be closed")
	}
}

func TestTrySendDeliversToOpenConnection(t *testing.T) {
	r := newTestRegistry()
	conn := r.Register()

	require.True(t, conn.TrySend([]byte("hello")))

	select {
	case data := <-conn.Outgoing():
		assert.Equal(t, []byte("hello"), data)
	default:
		t.Fatal("expected queued message")
	}
}

func TestTrySendSkipsClosedConnection(t *testing.T) {
	r := newTestRegistry()
	conn := r.Register()
	conn.Close()

	assert.False(t, conn.TrySend([]byte("hello")))
}

func TestTrySendDropsWhenBufferFull(t *testing.T) {
	r := newTestRegistry()
	conn := r.Register()

	for i := 0; i < sendBufferSize; i++ {
		require.True(t, conn.TrySend([]byte("x")))
	}
	assert.False(t, conn.TrySend([]byte("overflow")))
}
