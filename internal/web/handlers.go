package web

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/paydesk/finagent/internal/finance"
)

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "online",
		"service": "finagent",
	})
}

func (s *Server) handleListTools(c *gin.Context) {
	defs := s.registry.Definitions()

	listed := make([]gin.H, len(defs))
	for i, def := range defs {
		listed[i] = gin.H{
			"name":         def.Name,
			"description":  def.Description,
			"input_schema": def.InputSchema,
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"tools":   listed,
		"count":   len(listed),
	})
}

func (s *Server) handleInvokeTool(c *gin.Context) {
	name := c.Param("name")

	args := map[string]interface{}{}
	if c.Request.ContentLength > 0 {
		if err := c.BindJSON(&args); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error":   err.Error(),
			})
			return
		}
	}

	result, err := s.registry.Handle(c.Request.Context(), name, args)
	if err != nil {
		status := statusForError(err)
		c.JSON(status, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    result,
	})
}

// statusForError maps engine failures to HTTP statuses: bad input is
// the caller's fault, upstream read/mutation failures are a bad
// gateway, an unknown tool is a 404.
func statusForError(err error) int {
	var validationErr *finance.ValidationError
	var queryErr *finance.QueryError
	var mutationErr *finance.MutationError

	switch {
	case errors.As(err, &validationErr):
		return http.StatusBadRequest
	case errors.As(err, &queryErr), errors.As(err, &mutationErr):
		return http.StatusBadGateway
	case strings.HasPrefix(err.Error(), "unknown tool"):
		return http.StatusNotFound
	case strings.HasSuffix(err.Error(), "is required"):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
