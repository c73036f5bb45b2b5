package control

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taggamecreator/tag-echobound-servers/internal/dependencies/mocks"
	"github.com/taggamecreator/tag-echobound-servers/internal/gateway"
	"github.com/taggamecreator/tag-echobound-servers/internal/model"
	"github.com/taggamecreator/tag-echobound-servers/internal/protocol"
	"github.com/taggamecreator/tag-echobound-servers/internal/services/connection"
	"github.com/taggamecreator/tag-echobound-servers/internal/storage/memory"
	"github.com/taggamecreator/tag-echobound-servers/internal/testutil"
)

const testSecret = "s3cr3t"

type controlFixture struct {
	service  *Service
	registry *connection.Registry
	store    *memory.Storage
	clock    *mocks.MockClock
}

func newFixture(t *testing.T) *controlFixture {
	t.Helper()
	logger := testutil.NopLogger()
	registry := connection.NewRegistry(logger)
	store := memory.New()
	gw := gateway.New(registry, store, logger)
	clk := mocks.NewMockClock(time.UnixMilli(1700000000000))
	return &controlFixture{
		service:  New(testSecret, gw, clk, logger),
		registry: registry,
		store:    store,
		clock:    clk,
	}
}

func receiveBroadcast(t *testing.T, conn *connection.Conn) *protocol.ControllerBroadcast {
	t.Helper()
	select {
	case data := <-conn.Outgoing():
		var msg protocol.ControllerBroadcast
		require.NoError(t, json.Unmarshal(data, &msg))
		return &msg
	default:
		return nil
	}
}

func TestCommandRejectsWrongSecret(t *testing.T) {
	f := newFixture(t)
	conn := f.registry.Register()

	err := f.service.Command(context.Background(), protocol.Controller{
		Secret: "wrong",
		Action: "maintenance",
		Target: TargetAll,
	})

	assert.ErrorIs(t, err, model.ErrUnauthorized)
	// rejection must never leak a broadcast
	assert.Nil(t, receiveBroadcast(t, conn))
}

func TestCommandBroadcastsToAll(t *testing.T) {
	f := newFixture(t)
	a := f.registry.Register()
	b := f.registry.Register()

	meta := json.RawMessage(`{"msg":"restart in 5m"}`)
	err := f.service.Command(context.Background(), protocol.Controller{
		Secret: testSecret,
		Action: "announce",
		Target: TargetAll,
		Meta:   meta,
	})
	require.NoError(t, err)

	for _, conn := range []*connection.Conn{a, b} {
		msg := receiveBroadcast(t, conn)
		require.NotNil(t, msg)
		assert.Equal(t, protocol.TypeControllerBroadcast, msg.Type)
		assert.Equal(t, "announce", msg.Action)
		assert.Equal(t, int64(1700000000000), msg.TS)
		assert.JSONEq(t, string(meta), string(msg.Meta))
	}
}

func TestCommandBroadcastsToParty(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	member := f.registry.Register()
	outsider := f.registry.Register()

	require.NoError(t, f.store.SaveParty(ctx, &model.Party{
		ID:     "ABC123",
		HostID: "p-1",
		Members: []model.PartyMember{
			{PlayerID: "p-1", ConnectionID: member.ID()},
		},
	}))

	err := f.service.Command(ctx, protocol.Controller{
		Secret:  testSecret,
		Action:  "announce",
		Target:  TargetParty,
		PartyID: "ABC123",
	})
	require.NoError(t, err)

	require.NotNil(t, receiveBroadcast(t, member))
	assert.Nil(t, receiveBroadcast(t, outsider))
}

func TestCommandPartyTargetRequiresPartyID(t *testing.T) {
	f := newFixture(t)

	err := f.service.Command(context.Background(), protocol.Controller{
		Secret: testSecret,
		Action: "announce",
		Target: TargetParty,
	})

	assert.ErrorIs(t, err, model.ErrMalformedMessage)
}

func TestCommandUnknownTarget(t *testing.T) {
	f := newFixture(t)
	conn := f.registry.Register()

	err := f.service.Command(context.Background(), protocol.Controller{
		Secret: testSecret,
		Action: "announce",
		Target: "everyone",
	})

	assert.ErrorIs(t, err, model.ErrMalformedMessage)
	assert.Nil(t, receiveBroadcast(t, conn))
}
