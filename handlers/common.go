package handlers

import (
	"errors"
	"net/http"
	"server/models"

	"github.com/gin-gonic/gin"
)

type Response struct {
	Error string `json:"error"`
}

var OKResponse = Response{}

// Error maps the models error taxonomy onto HTTP statuses. Anything outside
// the taxonomy is a 500.
func Error(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, models.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, models.ErrPermissionDenied):
		status = http.StatusForbidden
	case errors.Is(err, models.ErrInvalidArgument):
		status = http.StatusBadRequest
	case errors.Is(err, models.ErrConflict):
		status = http.StatusConflict
	case errors.Is(err, models.ErrInvalidState):
		status = http.StatusConflict
	}
	c.JSON(status, Response{Error: err.Error()})
}

// PageRequest is the shared cursor + limit pair every listing accepts.
type PageRequest struct {
	Cursor uint64 `form:"cursor"`
	Limit  int    `form:"limit"`
	Sort   string `form:"sort"`
}
