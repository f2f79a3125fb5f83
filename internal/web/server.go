package web

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/paydesk/finagent/internal/tools"
)

// Server is the HTTP surface over the tool registry.
type Server struct {
	registry *tools.Registry
	log      zerolog.Logger
	router   *gin.Engine
}

// NewServer creates the HTTP server and wires its routes.
func NewServer(registry *tools.Registry, log zerolog.Logger) *Server {
	router := gin.New()
	router.Use(gin.Recovery())

	s := &Server{
		registry: registry,
		log:      log,
		router:   router,
	}

	router.GET("/health", s.handleHealth)

	api := router.Group("/api")
	{
		api.GET("/tools", s.handleListTools)
		api.POST("/tools/:name", s.handleInvokeTool)
	}

	return s
}

// Run starts the web server
func (s *Server) Run(addr string) error {
	s.log.Info().Str("addr", addr).Msg("HTTP server starting")
	return s.router.Run(addr)
}
