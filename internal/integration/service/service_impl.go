package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/retainflow/retainflow/internal/integration/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("integration.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) Connect(ctx context.Context, req domain.ConnectRequest) (domain.Integration, error) {
	userID, err := s.parseID(req.UserID)
	if err != nil {
		return domain.Integration{}, err
	}

	provider := strings.ToLower(strings.TrimSpace(req.Provider))
	if provider == "" {
		return domain.Integration{}, domain.ErrInvalidProvider
	}

	cfg := datatypes.JSONMap{}
	for key, value := range req.Config {
		cfg[key] = value
	}

	now := time.Now().UTC()
	integration := domain.Integration{
		ID:          s.genID.Generate(),
		UserID:      userID,
		Provider:    provider,
		ProviderKey: strings.TrimSpace(req.ProviderKey),
		Config:      cfg,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Insert(ctx, s.db, &integration); err != nil {
		return domain.Integration{}, err
	}

	return integration, nil
}

func (s *Service) Disconnect(ctx context.Context, req domain.DisconnectRequest) error {
	id, err := s.parseID(req.ID)
	if err != nil {
		return err
	}

	ok, err := s.repo.SetActive(ctx, s.db, id, false, time.Now().UTC())
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrNotFound
	}
	return nil
}

func (s *Service) ListByUser(ctx context.Context, req domain.ListRequest) ([]domain.Integration, error) {
	userID, err := s.parseID(req.UserID)
	if err != nil {
		return nil, err
	}

	items, err := s.repo.ListByUser(ctx, s.db, userID)
	if err != nil {
		return nil, err
	}

	integrations := make([]domain.Integration, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		integrations = append(integrations, *item)
	}
	return integrations, nil
}

func (s *Service) parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
