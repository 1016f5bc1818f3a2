package webserver

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/stake-plus/memberhub/src/api/store"
	"github.com/stake-plus/memberhub/src/api/types"
)

func attachRoutes(r *gin.Engine, s *Server) {
	if len(s.cfg.AllowedOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     s.cfg.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "If-None-Match", requestIDHeader},
			ExposeHeaders:    []string{"Content-Length", "ETag", requestIDHeader},
			AllowCredentials: true,
		}))
	}

	r.GET("/healthz", s.health)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})))

	limiter := RateLimitMiddleware(NewRateLimiter(s.cfg.RateLimit, s.cfg.RateWindow))

	members := newResource[types.Member, types.MemberInput, types.MemberPatch, store.MemberFilter](s, s.store.Members)
	events := newResource[types.Event, types.EventInput, types.EventPatch, store.EventFilter](s, s.store.Events)
	events.beforeCreate = func(c *gin.Context, ev *types.Event) {
		if ev.OrganizerID == "" {
			ev.OrganizerID = subject(c)
		}
	}
	notices := newResource[types.Notice, types.NoticeInput, types.NoticePatch, store.NoticeFilter](s, s.store.Notices)
	notices.beforeCreate = func(c *gin.Context, n *types.Notice) {
		n.AuthorID = subject(c)
	}
	notices.afterCreate = func(n *types.Notice) {
		if n.Priority == types.PriorityUrgent {
			s.broadcast(*n)
		}
	}
	feedback := newResource[types.Feedback, types.FeedbackInput, types.FeedbackPatch, store.FeedbackFilter](s, s.store.Feedback)
	leadership := newResource[types.Leadership, types.LeadershipInput, types.LeadershipPatch, store.LeadershipFilter](s, s.store.Leadership)

	api := r.Group("/api")
	api.GET("/leadership", limiter, leadership.list)

	secured := api.Group("", JWTMiddleware([]byte(s.cfg.JWTSecret)), limiter)
	{
		members.mount(secured, "/members", true)
		events.mount(secured, "/events", true)
		notices.mount(secured, "/notices", true)
		feedback.mount(secured, "/feedback", true)
		leadership.mount(secured, "/leadership", false)

		secured.POST("/notices/:id/view", s.viewNotice)
		secured.POST("/feedback/:id/respond", AdminMiddleware(), s.respondFeedback)

		secured.GET("/auth/user", s.currentUser)
		secured.PUT("/users/:id/role", AdminMiddleware(), s.setRole)

		secured.GET("/dashboard/stats", s.dashboardStats)
		secured.GET("/dashboard/member-stats", s.memberStats)
		secured.GET("/dashboard/upcoming-events", s.upcomingEvents)
		secured.GET("/dashboard/recent-notices", s.recentNotices)
	}
}
