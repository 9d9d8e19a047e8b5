package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/metalagman/coursellm/internal/db"
	"github.com/metalagman/coursellm/internal/pipeline"
	"github.com/metalagman/coursellm/internal/reasoning"
)

type errorResponse struct {
	Detail string `json:"detail"`
}

func classify(err error) (int, string) {
	switch {
	case pipeline.IsValidationError(err):
		return http.StatusUnprocessableEntity, "validation"
	case errors.Is(err, db.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case reasoning.IsGenerationError(err):
		return http.StatusInternalServerError, "generation"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

func (s *Server) fail(c *gin.Context, err error) {
	status, kind := classify(err)
	s.metrics.IncFailure(c.FullPath(), kind)
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, errorResponse{Detail: err.Error()})
}

// bindJSON decodes the request body into dst. Decoding failures are reported
// as validation errors.
func bindJSON(c *gin.Context, dst any) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		return &pipeline.ValidationError{Field: "body", Reason: err.Error()}
	}
	return nil
}
