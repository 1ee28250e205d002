package service

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/retainflow/retainflow/internal/integration/domain"
	"github.com/retainflow/retainflow/internal/integration/repository"
	"github.com/retainflow/retainflow/pkg/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestService(t *testing.T) (domain.Service, *snowflake.Node) {
	t.Helper()

	dbConn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, dbConn.AutoMigrate(&domain.Integration{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := New(Params{
		DB:    dbConn,
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  repository.Provide(),
	})
	return svc, node
}

func TestConnectNormalizesProvider(t *testing.T) {
	svc, node := newTestService(t)

	integration, err := svc.Connect(context.Background(), domain.ConnectRequest{
		UserID:      node.Generate().String(),
		Provider:    "  Discord ",
		ProviderKey: "guild-123",
		Config:      map[string]any{"channel": "general"},
	})
	require.NoError(t, err)

	assert.Equal(t, "discord", integration.Provider)
	assert.True(t, integration.Active)
	assert.Equal(t, "general", integration.Config["channel"])
}

func TestConnectRequiresProvider(t *testing.T) {
	svc, node := newTestService(t)

	_, err := svc.Connect(context.Background(), domain.ConnectRequest{
		UserID:   node.Generate().String(),
		Provider: "   ",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidProvider)
}

func TestDisconnectSoftDisables(t *testing.T) {
	svc, node := newTestService(t)
	userID := node.Generate().String()

	integration, err := svc.Connect(context.Background(), domain.ConnectRequest{
		UserID:      userID,
		Provider:    "slack",
		ProviderKey: "workspace-1",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Disconnect(context.Background(), domain.DisconnectRequest{ID: integration.ID.String()}))

	listed, err := svc.ListByUser(context.Background(), domain.ListRequest{UserID: userID})
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.False(t, listed[0].Active)
}

func TestDisconnectUnknownIntegration(t *testing.T) {
	svc, node := newTestService(t)

	err := svc.Disconnect(context.Background(), domain.DisconnectRequest{ID: node.Generate().String()})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
