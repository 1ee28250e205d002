package server

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/retainflow/retainflow/internal/providers/billing"
	"go.uber.org/zap"
)

// HandleBillingWebhook verifies and dispatches Stripe events. Events the
// pipeline does not handle are acknowledged with 200 so Stripe stops
// retrying them.
func (s *Server) HandleBillingWebhook(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, 1<<20))
	if err != nil {
		AbortWithError(c, billing.ErrInvalidPayload)
		return
	}

	if err := billing.VerifyWebhook(payload, c.Request.Header, s.cfg.Billing.StripeWebhookSecret); err != nil {
		AbortWithError(c, err)
		return
	}

	event, err := billing.ParseWebhook(payload)
	if errors.Is(err, billing.ErrEventIgnored) {
		c.JSON(http.StatusOK, gin.H{"received": true})
		return
	}
	if err != nil {
		AbortWithError(c, err)
		return
	}

	user, err := s.userRepo.FindByStripeID(c.Request.Context(), s.db, event.Customer)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if user == nil {
		// Stripe customer without a local user. Acknowledge so the event
		// is not redelivered forever.
		s.log.Warn("billing webhook for unknown customer",
			zap.String("event_id", event.ID),
			zap.String("customer", event.Customer))
		c.JSON(http.StatusOK, gin.H{"received": true})
		return
	}

	userID := user.ID.String()
	email := user.Email
	reason := event.Reason
	go func() {
		ctx, cancel := detachedContext()
		defer cancel()
		s.triggers.TriggerSubscriptionCancelled(ctx, userID, email, reason)
	}()

	c.JSON(http.StatusOK, gin.H{"received": true})
}
