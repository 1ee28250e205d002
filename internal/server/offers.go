package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	churndomain "github.com/retainflow/retainflow/internal/churn/domain"
	offerdomain "github.com/retainflow/retainflow/internal/offer/domain"
)

type generateOfferRequest struct {
	Reason     string   `json:"reason"`
	ChurnScore *float64 `json:"churn_score"`
}

func (s *Server) GenerateOffer(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))

	var req generateOfferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	score := 0.0
	if req.ChurnScore != nil {
		score = *req.ChurnScore
	} else {
		latest, err := s.churnSvc.Latest(c.Request.Context(), churndomain.LatestRequest{UserID: id})
		switch {
		case err == nil:
			score = latest.Score
		case errors.Is(err, churndomain.ErrNotFound):
			// No prediction yet; score the user now so the offer tier
			// reflects their current risk.
			result, scoreErr := s.churnSvc.Score(c.Request.Context(), churndomain.ScoreRequest{UserID: id})
			if scoreErr != nil {
				AbortWithError(c, scoreErr)
				return
			}
			score = result.Prediction.Score
		default:
			AbortWithError(c, err)
			return
		}
	}

	resp, err := s.offerSvc.Generate(c.Request.Context(), offerdomain.GenerateOfferRequest{
		UserID:     id,
		Reason:     strings.TrimSpace(req.Reason),
		ChurnScore: score,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListOffers(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))

	resp, err := s.offerSvc.ListByUser(c.Request.Context(), offerdomain.ListOffersRequest{UserID: id})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ApplyOffer(c *gin.Context) {
	code := strings.TrimSpace(c.Param("code"))

	resp, err := s.offerSvc.Apply(c.Request.Context(), offerdomain.ApplyOfferRequest{Code: code})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
