package webserver

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/stake-plus/memberhub/src/api/data"
	"github.com/stake-plus/memberhub/src/api/schema"
	"github.com/stake-plus/memberhub/src/api/types"
)

// AdminMiddleware lets only the admin role through.
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := identityFrom(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"err": "authentication required"})
			return
		}
		if id.Role != types.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"err": "admin access required"})
			return
		}
		c.Next()
	}
}

func (s *Server) respondFeedback(c *gin.Context) {
	var req types.FeedbackResponse
	if err := schema.Bind(c, &req); err != nil {
		s.fail(c, err)
		return
	}
	s.sanitize(&req)

	id := c.Param("id")
	fb, err := s.store.Feedback.Update(c.Request.Context(), id, req.Changes(time.Now().UTC()))
	if err != nil {
		s.fail(c, err)
		return
	}
	s.log.Info("feedback answered",
		slog.String("feedback", id),
		slog.String("admin", subject(c)),
		slog.String("status", string(fb.Status)))
	s.publish(c, s.store.Feedback.Entity(), data.OpUpdate, id)
	s.respond(c, http.StatusOK, fb)
}

func (s *Server) setRole(c *gin.Context) {
	var req struct {
		Role types.Role `json:"role" binding:"required,oneof=admin leadership member"`
	}
	if err := schema.Bind(c, &req); err != nil {
		s.fail(c, err)
		return
	}
	u, err := s.store.Users.SetRole(c.Request.Context(), c.Param("id"), req.Role)
	if err != nil {
		s.fail(c, err)
		return
	}
	s.log.Info("user role changed",
		slog.String("user", u.ID),
		slog.String("admin", subject(c)),
		slog.String("role", string(u.Role)))
	s.respond(c, http.StatusOK, u)
}
