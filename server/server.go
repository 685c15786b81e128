package server

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/novatech-ai/deskrouter/common/logger"
	"github.com/novatech-ai/deskrouter/metrics"
	"github.com/novatech-ai/deskrouter/schema"
)

// Pipeline is the single logical operation exposed to callers.
type Pipeline interface {
	Run(ctx context.Context, query string) (schema.PipelineResult, error)
}

// Router exposes the route-only diagnostic operation.
type Router interface {
	Route(ctx context.Context, query string) schema.RoutingDecision
}

// Server wires the pipeline behind the HTTP boundary.
type Server struct {
	engine   *gin.Engine
	pipeline Pipeline
	router   Router
}

type queryRequest struct {
	Query string `json:"query" binding:"required"`
}

type queryResponse struct {
	Query             string   `json:"query"`
	DepartmentsRouted []string `json:"departments_routed"`
	Answer            string   `json:"answer"`
}

type routeResponse struct {
	Query       string   `json:"query"`
	State       string   `json:"state"`
	Departments []string `json:"departments"`
}

// New builds the HTTP server. A nil registry skips the /metrics route.
func New(pipeline Pipeline, router Router, promReg *prometheus.Registry) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery(), requestLog())

	s := &Server{engine: engine, pipeline: pipeline, router: router}

	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if promReg != nil {
		metrics.Register(promReg)
		engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(promReg, promhttp.HandlerOpts{})))
	}

	v1 := engine.Group("/v1")
	v1.POST("/query", s.handleQuery)
	v1.POST("/route", s.handleRoute)
	return s
}

// Handler returns the underlying http.Handler, used by tests and by Run.
func (s *Server) Handler() http.Handler { return s.engine }

// Run serves until the listener fails.
func (s *Server) Run(addr string) error {
	logger.Infof("server: listening on %s", addr)
	return s.engine.Run(addr)
}

func (s *Server) handleQuery(c *gin.Context) {
	query, ok := bindQuery(c)
	if !ok {
		return
	}
	result, err := s.pipeline.Run(c.Request.Context(), query)
	if err != nil {
		var genErr *schema.GenerationError
		if errors.As(err, &genErr) {
			logger.Errorf("server: %v", genErr)
			c.JSON(http.StatusBadGateway, gin.H{"error": "answer generation failed"})
			return
		}
		logger.Errorf("server: pipeline failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, queryResponse{
		Query:             result.Query,
		DepartmentsRouted: departmentNames(result.DepartmentsRouted),
		Answer:            result.Answer,
	})
}

func (s *Server) handleRoute(c *gin.Context) {
	query, ok := bindQuery(c)
	if !ok {
		return
	}
	decision := s.router.Route(c.Request.Context(), query)
	c.JSON(http.StatusOK, routeResponse{
		Query:       query,
		State:       decision.State.String(),
		Departments: departmentNames(decision.Departments),
	})
}

func bindQuery(c *gin.Context) (string, bool) {
	var req queryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query cannot be empty"})
		return "", false
	}
	query := strings.TrimSpace(req.Query)
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query cannot be empty"})
		return "", false
	}
	return query, true
}

func departmentNames(departments []schema.Department) []string {
	out := make([]string, len(departments))
	for i, d := range departments {
		out[i] = string(d)
	}
	return out
}

// requestLog assigns a request ID and logs method, path, status and latency.
func requestLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.New().String()
		}
		c.Header("X-Request-ID", id)
		start := time.Now()
		c.Next()
		logger.Infof("http: %s %s status=%d latency_ms=%d request_id=%s",
			c.Request.Method, c.Request.URL.Path, c.Writer.Status(),
			time.Since(start).Milliseconds(), id)
	}
}
