package gateway

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taggamecreator/tag-echobound-servers/internal/model"
	"github.com/taggamecreator/tag-echobound-servers/internal/services/connection"
	"github.com/taggamecreator/tag-echobound-servers/internal/storage/memory"
	"github.com/taggamecreator/tag-echobound-servers/internal/testutil"
)

type testMsg struct {
	Type string `json:"type"`
	Body string `json:"body"`
}

func drainOne(t *testing.T, conn *connection.Conn) *testMsg {
	t.Helper()
	select {
	case data := <-conn.Outgoing():
		var msg testMsg
		require.NoError(t, json.Unmarshal(data, &msg))
		return &msg
	default:
		return nil
	}
}

func setup(t *testing.T) (*Gateway, *connection.Registry, *memory.Storage) {
	t.Helper()
	registry := connection.NewRegistry(testutil.NopLogger())
	store := memory.New()
	return New(registry, store, testutil.NopLogger()), registry, store
}

func TestSendToPartyDeliversToMembers(t *testing.T) {
	gw, registry, store := setup(t)
	ctx := context.Background()

	a := registry.Register()
	b := registry.Register()
	outsider := registry.Register()

	require.NoError(t, store.SaveParty(ctx, &model.Party{
		ID:     "ABC123",
		HostID: "p-1",
		Members: []model.PartyMember{
			{PlayerID: "p-1", ConnectionID: a.ID()},
			{PlayerID: "p-2", ConnectionID: b.ID()},
		},
	}))

	gw.SendToParty(ctx, "ABC123", testMsg{Type: "t", Body: "hi"})

	require.NotNil(t, drainOne(t, a))
	require.NotNil(t, drainOne(t, b))
	assert.Nil(t, drainOne(t, outsider))
}

func TestSendToPartySkipsClosedConnections(t *testing.T) {
	gw, registry, store := setup(t)
	ctx := context.Background()

	open := registry.Register()
	closed := registry.Register()
	closed.Close()

	require.NoError(t, store.SaveParty(ctx, &model.Party{
		ID:     "ABC123",
		HostID: "p-1",
		Members: []model.PartyMember{
			{PlayerID: "p-1", ConnectionID: closed.ID()},
			{PlayerID: "p-2", ConnectionID: open.ID()},
			{PlayerID: "p-3", ConnectionID: "never-registered"},
		},
	}))

	// One closed and one absent recipient must not affect the rest
	gw.SendToParty(ctx, "ABC123", testMsg{Type: "t"})

	require.NotNil(t, drainOne(t, open))
	assert.Nil(t, drainOne(t, closed))
}

func TestSendToPartyUnknownPartyIsNoop(t *testing.T) {
	gw, registry, _ := setup(t)

	conn := registry.Register()
	gw.SendToParty(context.Background(), "NOPE", testMsg{Type: "t"})

	assert.Nil(t, drainOne(t, conn))
}

func TestSendToAll(t *testing.T) {
	gw, registry, _ := setup(t)

	a := registry.Register()
	b := registry.Register()

	gw.SendToAll(testMsg{Type: "t", Body: "everyone"})

	for _, conn := range []*connection.Conn{a, b} {
		msg := drainOne(t, conn)
		require.NotNil(t, msg)
		assert.Equal(t, "everyone", msg.Body)
	}
}

func TestSendToSingleConnection(t *testing.T) {
	gw, registry, _ := setup(t)

	target := registry.Register()
	other := registry.Register()

	gw.SendTo(target.ID(), testMsg{Type: "t"})

	require.NotNil(t, drainOne(t, target))
	assert.Nil(t, drainOne(t, other))
}
