package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"opsdesk/internal/model"
)

const ctxUserKey = "currentUser"

// requireUser resolves the bearer token and stores the user on the context.
func (s *Server) requireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := s.sessionUser(c)
		if user == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   "authentication required",
			})
			return
		}
		c.Set(ctxUserKey, user)
		c.Next()
	}
}

// requireAdmin gates a route to admin and master_admin. Runs after
// requireUser.
func (s *Server) requireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		if user == nil || !user.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success": false,
				"error":   "admin only",
			})
			return
		}
		c.Next()
	}
}

// sessionUser resolves the Authorization header to a user, or nil.
func (s *Server) sessionUser(c *gin.Context) *model.User {
	token := bearerToken(c)
	if token == "" {
		return nil
	}
	user, err := s.auth.Authenticate(c.Request.Context(), token)
	if err != nil {
		return nil
	}
	return user
}

func currentUser(c *gin.Context) *model.User {
	v, ok := c.Get(ctxUserKey)
	if !ok {
		return nil
	}
	user, _ := v.(*model.User)
	return user
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
