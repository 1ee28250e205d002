package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	churndomain "github.com/retainflow/retainflow/internal/churn/domain"
)

func (s *Server) ScoreUser(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))

	resp, err := s.churnSvc.Score(c.Request.Context(), churndomain.ScoreRequest{UserID: id})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetLatestChurnScore(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))

	resp, err := s.churnSvc.Latest(c.Request.Context(), churndomain.LatestRequest{UserID: id})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
