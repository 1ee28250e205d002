package service

import (
	"context"
	"crypto/rand"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/retainflow/retainflow/internal/clock"
	"github.com/retainflow/retainflow/internal/offer/domain"
	"github.com/retainflow/retainflow/internal/providers/billing"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	codePrefix   = "RETAIN"
	codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	codeLength   = 8

	offerValidity = 7 * 24 * time.Hour

	couponTimeout = 10 * time.Second
)

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	GenID   *snowflake.Node
	Repo    domain.Repository
	Billing billing.Provider
	Clock   clock.Clock
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	genID   *snowflake.Node
	repo    domain.Repository
	billing billing.Provider
	clock   clock.Clock
}

func New(p Params) domain.Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("offer.service"),
		genID:   p.GenID,
		repo:    p.Repo,
		billing: p.Billing,
		clock:   p.Clock,
	}
}

func (s *Service) Generate(ctx context.Context, req domain.GenerateOfferRequest) (domain.RetentionOffer, error) {
	userID, err := s.parseID(req.UserID)
	if err != nil {
		return domain.RetentionOffer{}, err
	}

	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		return domain.RetentionOffer{}, domain.ErrInvalidReason
	}

	now := s.clock.Now()
	offer := domain.RetentionOffer{
		ID:        s.genID.Generate(),
		UserID:    userID,
		Reason:    reason,
		OfferCode: NewOfferCode(),
		ExpiresAt: now.Add(offerValidity),
		CreatedAt: now,
	}

	switch {
	case req.ChurnScore < 0.3:
		offer.Kind = domain.KindDiscount
		offer.DiscountPercent = 50
		offer.Description = "We'd hate to see you go. Here's 50% off your next month, valid for 7 days."
	case req.ChurnScore < 0.5:
		offer.Kind = domain.KindDiscount
		offer.DiscountPercent = 30
		offer.Description = "Stick around and enjoy 30% off your next month."
	default:
		offer.Kind = domain.KindFeatureUpgrade
		offer.Description = "A free feature upgrade is waiting for you on your next billing cycle."
	}

	if err := s.repo.Insert(ctx, s.db, &offer); err != nil {
		return domain.RetentionOffer{}, err
	}

	if offer.Kind == domain.KindDiscount {
		// Coupon creation is fire-and-forget; the offer stands even when
		// the billing call does not.
		go func(code string, percent int) {
			couponCtx, cancel := context.WithTimeout(context.Background(), couponTimeout)
			defer cancel()
			if err := s.billing.CreateCoupon(couponCtx, code, percent); err != nil {
				s.log.Warn("failed to create billing coupon",
					zap.String("offer_code", code),
					zap.Int("percent_off", percent),
					zap.Error(err),
				)
			}
		}(offer.OfferCode, offer.DiscountPercent)
	}

	return offer, nil
}

func (s *Service) Apply(ctx context.Context, req domain.ApplyOfferRequest) (domain.RetentionOffer, error) {
	code := strings.ToUpper(strings.TrimSpace(req.Code))
	if code == "" {
		return domain.RetentionOffer{}, domain.ErrNotFound
	}

	offer, err := s.repo.FindByCode(ctx, s.db, code)
	if err != nil {
		return domain.RetentionOffer{}, err
	}
	if offer == nil {
		return domain.RetentionOffer{}, domain.ErrNotFound
	}
	if offer.Used {
		return domain.RetentionOffer{}, domain.ErrOfferUsed
	}

	now := s.clock.Now()
	if now.After(offer.ExpiresAt) {
		return domain.RetentionOffer{}, domain.ErrOfferExpired
	}

	ok, err := s.repo.MarkUsed(ctx, s.db, offer.ID, now)
	if err != nil {
		return domain.RetentionOffer{}, err
	}
	if !ok {
		return domain.RetentionOffer{}, domain.ErrOfferUsed
	}

	offer.Used = true
	offer.UsedAt = &now
	return *offer, nil
}

func (s *Service) ListByUser(ctx context.Context, req domain.ListOffersRequest) ([]domain.RetentionOffer, error) {
	userID, err := s.parseID(req.UserID)
	if err != nil {
		return nil, err
	}

	items, err := s.repo.ListByUser(ctx, s.db, userID)
	if err != nil {
		return nil, err
	}

	offers := make([]domain.RetentionOffer, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		offers = append(offers, *item)
	}
	return offers, nil
}

// NewOfferCode returns a fresh RETAIN-prefixed code. There is no explicit
// uniqueness check; the unique column on offer_code surfaces the unlikely
// collision as an insert error.
func NewOfferCode() string {
	buf := make([]byte, codeLength)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand failing means the process has bigger problems.
		panic(err)
	}

	code := make([]byte, codeLength)
	for i, b := range buf {
		code[i] = codeAlphabet[int(b)%len(codeAlphabet)]
	}
	return codePrefix + string(code)
}

func (s *Service) parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
