package auth

import (
	"net/http"
	"server/models"

	"github.com/gin-gonic/gin"
)

// HandlerFunc receives the already-authenticated user.
type HandlerFunc func(c *gin.Context, user *models.User)

// Router is a wrapper that adds the auth check + User pre-loading. Fully
// public endpoints register on the base engine directly; read-only endpoints
// that also work for anonymous callers use OptionalGET.
type Router struct {
	Base *gin.Engine
}

func (cr *Router) baseExec(c *gin.Context, handler HandlerFunc) {
	session := LoadSession(c)
	user := session.User()
	if user.ID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "access denied"})
		return
	}
	handler(c, &user)
}

func (cr *Router) POST(path string, handler HandlerFunc) {
	cr.Base.POST(path, func(c *gin.Context) {
		cr.baseExec(c, handler)
	})
}

func (cr *Router) GET(path string, handler HandlerFunc) {
	cr.Base.GET(path, func(c *gin.Context) {
		cr.baseExec(c, handler)
	})
}

func (cr *Router) PUT(path string, handler HandlerFunc) {
	cr.Base.PUT(path, func(c *gin.Context) {
		cr.baseExec(c, handler)
	})
}

// OptionalGET still pre-loads the session user but lets anonymous callers
// through with a zero-ID user. The privacy checks downstream treat that user
// as an outsider who sees public content only.
func (cr *Router) OptionalGET(path string, handler HandlerFunc) {
	cr.Base.GET(path, func(c *gin.Context) {
		user := LoadSession(c).User()
		handler(c, &user)
	})
}
