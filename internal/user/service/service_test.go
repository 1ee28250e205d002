package service

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	engagementdomain "github.com/retainflow/retainflow/internal/engagement/domain"
	engagementrepository "github.com/retainflow/retainflow/internal/engagement/repository"
	"github.com/retainflow/retainflow/internal/user/domain"
	"github.com/retainflow/retainflow/internal/user/repository"
	"github.com/retainflow/retainflow/pkg/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (domain.Service, *gorm.DB) {
	t.Helper()

	dbConn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, dbConn.AutoMigrate(&domain.User{}, &engagementdomain.MessageEvent{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := New(Params{
		DB:             dbConn,
		Log:            zap.NewNop(),
		GenID:          node,
		Repo:           repository.Provide(),
		EngagementRepo: engagementrepository.Provide(),
	})
	return svc, dbConn
}

func TestCreateUser(t *testing.T) {
	svc, _ := newTestService(t)

	user, err := svc.Create(context.Background(), domain.CreateUserRequest{
		Email:    "  dana@example.com ",
		Name:     "Dana",
		StripeID: "cus_123",
	})
	require.NoError(t, err)

	assert.NotZero(t, user.ID)
	assert.Equal(t, "dana@example.com", user.Email)
	assert.Equal(t, "cus_123", user.StripeID)
	assert.True(t, user.Active)
	assert.Nil(t, user.LastActiveAt)
}

func TestCreateUserValidation(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Create(context.Background(), domain.CreateUserRequest{Email: "nope", Name: "Dana"})
	assert.ErrorIs(t, err, domain.ErrInvalidEmail)

	_, err = svc.Create(context.Background(), domain.CreateUserRequest{Email: "dana@example.com", Name: "  "})
	assert.ErrorIs(t, err, domain.ErrInvalidName)
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Create(context.Background(), domain.CreateUserRequest{Email: "dana@example.com", Name: "Dana"})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), domain.CreateUserRequest{Email: "dana@example.com", Name: "Other Dana"})
	assert.ErrorIs(t, err, domain.ErrUserExists)
}

func TestGetByID(t *testing.T) {
	svc, _ := newTestService(t)

	created, err := svc.Create(context.Background(), domain.CreateUserRequest{Email: "dana@example.com", Name: "Dana"})
	require.NoError(t, err)

	found, err := svc.GetByID(context.Background(), domain.GetUserRequest{ID: created.ID.String()})
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)

	_, err = svc.GetByID(context.Background(), domain.GetUserRequest{ID: "999999999999999999"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.GetByID(context.Background(), domain.GetUserRequest{ID: "abc"})
	assert.ErrorIs(t, err, domain.ErrInvalidID)
}

func TestRecordActivity(t *testing.T) {
	svc, dbConn := newTestService(t)

	created, err := svc.Create(context.Background(), domain.CreateUserRequest{Email: "dana@example.com", Name: "Dana"})
	require.NoError(t, err)

	require.NoError(t, svc.RecordActivity(context.Background(), created.ID.String()))

	refreshed, err := svc.GetByID(context.Background(), domain.GetUserRequest{ID: created.ID.String()})
	require.NoError(t, err)
	require.NotNil(t, refreshed.LastActiveAt)

	var count int64
	require.NoError(t, dbConn.Model(&engagementdomain.MessageEvent{}).
		Where("user_id = ?", created.ID).
		Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestRecordActivityUnknownUser(t *testing.T) {
	svc, _ := newTestService(t)

	err := svc.RecordActivity(context.Background(), "999999999999999999")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
