package ui

import (
	"html/template"
	"net/http"

	"ncclens/internal"
	"ncclens/internal/dashboard"

	"github.com/gin-gonic/gin"
)

// Options configures the dashboard server
type Options struct {
	Source     *dashboard.Source
	ReportFile string // pre-rendered PDF served by /export/report.pdf when present
	Logger     *internal.Logger
}

// Server represents the web server for the NCC dashboard
type Server struct {
	router     *gin.Engine
	source     *dashboard.Source
	reportFile string
	templates  *template.Template
	log        *internal.Logger
}

// NewServer creates a server with parsed templates and registered routes
func NewServer(opts Options) (*Server, error) {
	log := opts.Logger
	if log == nil {
		log = internal.NewNopLogger()
	}

	templates, err := parseTemplates()
	if err != nil {
		return nil, err
	}

	s := &Server{
		router:     gin.New(),
		source:     opts.Source,
		reportFile: opts.ReportFile,
		templates:  templates,
		log:        log,
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s, nil
}

// setupRoutes configures the application routes
func (s *Server) setupRoutes() {
	s.router.GET("/", s.handleIndex)
	s.router.GET("/report", s.handleReport)
	s.router.GET("/healthz", s.handleHealth)

	api := s.router.Group("/api")
	api.GET("/metrics", s.handleMetrics)
	api.GET("/options", s.handleOptions)
	api.GET("/audit", s.handleAudit)

	export := s.router.Group("/export")
	export.GET("/filtered.csv", s.handleExportFiltered)
	export.GET("/full.csv", s.handleExportFull)
	export.GET("/report.pdf", s.handleExportReport)
}

// Handler exposes the router, mainly for httptest
func (s *Server) Handler() http.Handler {
	return s.router
}
