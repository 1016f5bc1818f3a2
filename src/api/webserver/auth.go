package webserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// currentUser mirrors the caller into the users table and returns the row.
// Token claims win over what is stored, role included.
func (s *Server) currentUser(c *gin.Context) {
	id, ok := identityFrom(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"err": "authentication required"})
		return
	}
	u, err := s.store.Users.Upsert(c.Request.Context(), id.User())
	if err != nil {
		s.fail(c, err)
		return
	}
	s.respond(c, http.StatusOK, u)
}
