package webserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/stake-plus/memberhub/src/api/data"
	"github.com/stake-plus/memberhub/src/api/schema"
)

type limitQuery struct {
	Limit int `form:"limit" binding:"omitempty,min=1"`
}

func (s *Server) dashboardStats(c *gin.Context) {
	d, err := s.store.Stats.Dashboard(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	s.respond(c, http.StatusOK, d)
}

func (s *Server) memberStats(c *gin.Context) {
	ms, err := s.store.Stats.Members(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	s.respond(c, http.StatusOK, ms)
}

func (s *Server) upcomingEvents(c *gin.Context) {
	var q limitQuery
	if err := schema.BindQuery(c, &q); err != nil {
		s.fail(c, err)
		return
	}
	events, err := s.store.Stats.UpcomingEvents(c.Request.Context(), q.Limit)
	if err != nil {
		s.fail(c, err)
		return
	}
	s.respond(c, http.StatusOK, events)
}

func (s *Server) recentNotices(c *gin.Context) {
	var q limitQuery
	if err := schema.BindQuery(c, &q); err != nil {
		s.fail(c, err)
		return
	}
	notices, err := s.store.Stats.RecentNotices(c.Request.Context(), q.Limit)
	if err != nil {
		s.fail(c, err)
		return
	}
	s.respond(c, http.StatusOK, notices)
}

func (s *Server) viewNotice(c *gin.Context) {
	id := c.Param("id")
	n, err := s.store.Notices.Increment(c.Request.Context(), id, "view_count")
	if err != nil {
		s.fail(c, err)
		return
	}
	s.publish(c, s.store.Notices.Entity(), data.OpUpdate, id)
	s.respond(c, http.StatusOK, n)
}

func (s *Server) health(c *gin.Context) {
	if err := s.store.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
