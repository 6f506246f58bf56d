package utils

import (
	"log"

	"github.com/gin-gonic/gin"
)

type errorLogWriter struct {
	gin.ResponseWriter
}

func (w *errorLogWriter) Write(b []byte) (int, error) {
	if w.Status() >= 400 {
		log.Printf("error response: status %d, body: %s", w.Status(), b)
	}
	return w.ResponseWriter.Write(b)
}

// ErrorLogMiddleware mirrors 4xx and 5xx response bodies into the server log.
// It reads the body as it is written, so it must sit before any middleware
// that compresses the output.
func ErrorLogMiddleware(c *gin.Context) {
	c.Writer = &errorLogWriter{ResponseWriter: c.Writer}
	c.Next()
}
