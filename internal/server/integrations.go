package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	integrationdomain "github.com/retainflow/retainflow/internal/integration/domain"
)

type connectIntegrationRequest struct {
	Provider    string         `json:"provider"`
	ProviderKey string         `json:"provider_key"`
	Config      map[string]any `json:"config"`
}

func (s *Server) ConnectIntegration(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))

	var req connectIntegrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.integrationSvc.Connect(c.Request.Context(), integrationdomain.ConnectRequest{
		UserID:      id,
		Provider:    strings.TrimSpace(req.Provider),
		ProviderKey: strings.TrimSpace(req.ProviderKey),
		Config:      req.Config,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListIntegrations(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))

	resp, err := s.integrationSvc.ListByUser(c.Request.Context(), integrationdomain.ListRequest{UserID: id})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DisconnectIntegration(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))

	if err := s.integrationSvc.Disconnect(c.Request.Context(), integrationdomain.DisconnectRequest{ID: id}); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"disconnected": true}})
}
