package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	userdomain "github.com/retainflow/retainflow/internal/user/domain"
)

type createUserRequest struct {
	Email     string `json:"email"`
	Name      string `json:"name"`
	DiscordID string `json:"discord_id"`
	StripeID  string `json:"stripe_id"`
	GoogleID  string `json:"google_id"`
}

func (s *Server) CreateUser(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.userSvc.Create(c.Request.Context(), userdomain.CreateUserRequest{
		Email:     strings.TrimSpace(req.Email),
		Name:      strings.TrimSpace(req.Name),
		DiscordID: strings.TrimSpace(req.DiscordID),
		StripeID:  strings.TrimSpace(req.StripeID),
		GoogleID:  strings.TrimSpace(req.GoogleID),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	go func() {
		ctx, cancel := detachedContext()
		defer cancel()
		s.triggers.TriggerSignup(ctx, resp.ID.String(), resp.Email, resp.Name)
	}()

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetUserByID(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))

	resp, err := s.userSvc.GetByID(c.Request.Context(), userdomain.GetUserRequest{ID: id})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) RecordUserActivity(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))

	if err := s.userSvc.RecordActivity(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"recorded": true}})
}
