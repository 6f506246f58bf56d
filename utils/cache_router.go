package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// Cache policies for CacheRouter. The API is JSON over mutable state, so
// no-cache is the default; photo byte endpoints opt out with CacheCustom and
// set their own header.
const (
	CacheNoCache = 0
	CacheCustom  = -1
)

// CacheRouter stamps a cache-control header on every response routed through
// it, unless the policy is CacheCustom.
type CacheRouter struct {
	CacheTime int // seconds, or one of the policies above
}

func (cr *CacheRouter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		switch cr.CacheTime {
		case CacheCustom:
			// the endpoint decides
		case CacheNoCache:
			c.Header("cache-control", "no-cache")
		default:
			c.Header("cache-control", "private, max-age="+strconv.Itoa(cr.CacheTime))
		}
		c.Next()
	}
}
