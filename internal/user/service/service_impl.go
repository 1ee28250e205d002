package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	engagementdomain "github.com/retainflow/retainflow/internal/engagement/domain"
	"github.com/retainflow/retainflow/internal/user/domain"
	dbpkg "github.com/retainflow/retainflow/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB             *gorm.DB
	Log            *zap.Logger
	GenID          *snowflake.Node
	Repo           domain.Repository
	EngagementRepo engagementdomain.Repository
}

type Service struct {
	db             *gorm.DB
	log            *zap.Logger
	genID          *snowflake.Node
	repo           domain.Repository
	engagementRepo engagementdomain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:             p.DB,
		log:            p.Log.Named("user.service"),
		genID:          p.GenID,
		repo:           p.Repo,
		engagementRepo: p.EngagementRepo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateUserRequest) (domain.User, error) {
	email := strings.TrimSpace(req.Email)
	if email == "" || !strings.Contains(email, "@") {
		return domain.User{}, domain.ErrInvalidEmail
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.User{}, domain.ErrInvalidName
	}

	now := time.Now().UTC()
	user := domain.User{
		ID:        s.genID.Generate(),
		Email:     email,
		Name:      name,
		DiscordID: strings.TrimSpace(req.DiscordID),
		StripeID:  strings.TrimSpace(req.StripeID),
		GoogleID:  strings.TrimSpace(req.GoogleID),
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Insert(ctx, s.db, &user); err != nil {
		if dbpkg.IsDuplicateKeyErr(err) {
			return domain.User{}, domain.ErrUserExists
		}
		return domain.User{}, err
	}

	return user, nil
}

func (s *Service) GetByID(ctx context.Context, req domain.GetUserRequest) (domain.User, error) {
	id, err := s.parseID(req.ID)
	if err != nil {
		return domain.User{}, err
	}

	item, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.User{}, err
	}
	if item == nil {
		return domain.User{}, domain.ErrNotFound
	}

	return *item, nil
}

func (s *Service) RecordActivity(ctx context.Context, userID string) error {
	id, err := s.parseID(userID)
	if err != nil {
		return err
	}

	item, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return err
	}
	if item == nil {
		return domain.ErrNotFound
	}

	now := time.Now().UTC()
	if err := s.engagementRepo.RecordMessage(ctx, s.db, &engagementdomain.MessageEvent{
		ID:        s.genID.Generate(),
		UserID:    id,
		CreatedAt: now,
	}); err != nil {
		return err
	}

	return s.repo.TouchLastActive(ctx, s.db, id, now)
}

func (s *Service) parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
