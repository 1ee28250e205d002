package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/retainflow/retainflow/internal/emailqueue"
	"go.uber.org/zap"
)

// transparent 1x1 GIF, served on every tracking hit regardless of outcome.
var trackingPixel = []byte{
	0x47, 0x49, 0x46, 0x38, 0x39, 0x61, 0x01, 0x00, 0x01, 0x00, 0x80, 0x00,
	0x00, 0x00, 0x00, 0x00, 0xff, 0xff, 0xff, 0x21, 0xf9, 0x04, 0x01, 0x00,
	0x00, 0x00, 0x00, 0x2c, 0x00, 0x00, 0x00, 0x00, 0x01, 0x00, 0x01, 0x00,
	0x00, 0x02, 0x02, 0x44, 0x01, 0x00, 0x3b,
}

// TrackEmailOpen records the first open of a delivered email. The pixel is
// always returned; a bad or unknown id must not break image rendering in
// the recipient's client.
func (s *Server) TrackEmailOpen(c *gin.Context) {
	raw := strings.TrimSuffix(strings.TrimSpace(c.Param("id")), ".gif")

	if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
		opened, markErr := emailqueue.MarkEmailOpened(c.Request.Context(), s.db, snowflake.ID(id), s.clock.Now())
		if markErr != nil {
			s.log.Warn("mark email opened", zap.String("log_id", raw), zap.Error(markErr))
		} else if opened {
			s.log.Debug("email opened", zap.String("log_id", raw))
		}
	}

	c.Header("Cache-Control", "no-store, no-cache, must-revalidate")
	c.Data(http.StatusOK, "image/gif", trackingPixel)
}
