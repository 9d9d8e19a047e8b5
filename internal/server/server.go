// Package server exposes the assistant over HTTP.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/metalagman/coursellm/internal/db"
	"github.com/metalagman/coursellm/internal/pipeline"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Service identity reported by the health endpoint.
const (
	ServiceName    = "CourseLLM API"
	ServiceVersion = "1.0.0"
)

// QuizCollection is the document collection holding generated quizzes.
const QuizCollection = "quizzes"

type assistant interface {
	AnswerQuestion(ctx context.Context, req pipeline.AnswerRequest) (pipeline.AnswerResult, error)
	AssessAndProvideFeedback(ctx context.Context, req pipeline.AssessmentRequest) (pipeline.AssessmentResult, error)
	SummarizeMaterials(ctx context.Context, req pipeline.SummarizeRequest) (pipeline.SummaryResult, error)
}

type quizGenerator interface {
	Run(ctx context.Context, req pipeline.QuizRequest) (pipeline.QuizResult, error)
}

// Options configures the HTTP handler.
type Options struct {
	AllowedOrigins []string
	Debug          bool
	// Registerer and Gatherer default to the global Prometheus registry.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// Server routes API requests to the assistant and quiz pipeline.
type Server struct {
	assistant assistant
	quiz      quizGenerator
	store     db.DocumentStore
	metrics   *Metrics
	engine    *gin.Engine
	newID     func() string
	now       func() time.Time
}

// New builds the gin engine with all routes registered.
func New(a *pipeline.Assistant, quiz *pipeline.QuizPipeline, store db.DocumentStore, opts Options) *Server {
	return newServer(a, quiz, store, opts)
}

func newServer(a assistant, quiz quizGenerator, store db.DocumentStore, opts Options) *Server {
	if !opts.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	gatherer := opts.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	s := &Server{
		assistant: a,
		quiz:      quiz,
		store:     store,
		metrics:   MustNewMetrics(opts.Registerer),
		engine:    gin.New(),
		newID:     uuid.NewString,
		now:       time.Now,
	}

	s.engine.Use(gin.Recovery())
	s.engine.Use(requestLogger(s.metrics))
	if len(opts.AllowedOrigins) > 0 {
		corsConfig := cors.DefaultConfig()
		corsConfig.AllowOrigins = opts.AllowedOrigins
		corsConfig.AllowCredentials = true
		corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
		corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
		s.engine.Use(cors.New(corsConfig))
	}

	s.engine.GET("/", s.handleHealth)
	s.engine.POST("/answer", s.handleAnswer)
	s.engine.POST("/assess", s.handleAssess)
	s.engine.POST("/summarize", s.handleSummarize)
	s.engine.POST("/quiz", s.handleQuiz)
	s.engine.GET("/quizzes/:id", s.handleGetQuiz)
	s.engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

type healthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Version string `json:"version"`
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, healthResponse{Status: "healthy", Service: ServiceName, Version: ServiceVersion})
}

func (s *Server) handleAnswer(c *gin.Context) {
	var req pipeline.AnswerRequest
	if err := bindJSON(c, &req); err != nil {
		s.fail(c, err)
		return
	}
	res, err := s.assistant.AnswerQuestion(c.Request.Context(), req)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (s *Server) handleAssess(c *gin.Context) {
	var req pipeline.AssessmentRequest
	if err := bindJSON(c, &req); err != nil {
		s.fail(c, err)
		return
	}
	res, err := s.assistant.AssessAndProvideFeedback(c.Request.Context(), req)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (s *Server) handleSummarize(c *gin.Context) {
	var req pipeline.SummarizeRequest
	if err := bindJSON(c, &req); err != nil {
		s.fail(c, err)
		return
	}
	res, err := s.assistant.SummarizeMaterials(c.Request.Context(), req)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

type quizResponse struct {
	ID        string                  `json:"id"`
	Questions []pipeline.QuizQuestion `json:"questions"`
}

func (s *Server) handleQuiz(c *gin.Context) {
	var req pipeline.QuizRequest
	if err := bindJSON(c, &req); err != nil {
		s.fail(c, err)
		return
	}
	req = req.WithDefaults()
	res, err := s.quiz.Run(c.Request.Context(), req)
	if err != nil {
		s.fail(c, err)
		return
	}

	id := s.newID()
	fields, err := toFields(map[string]any{
		"material_content": req.MaterialContent,
		"difficulty":       req.Difficulty,
		"num_questions":    req.Count(),
		"questions":        res.Questions,
		"created_at":       s.now().UTC().Format(time.RFC3339),
	})
	if err == nil {
		err = s.store.Set(c.Request.Context(), QuizCollection, id, fields)
	}
	if err != nil {
		s.fail(c, fmt.Errorf("store quiz: %w", err))
		return
	}
	s.metrics.IncQuizStored()

	c.JSON(http.StatusOK, quizResponse{ID: id, Questions: res.Questions})
}

func (s *Server) handleGetQuiz(c *gin.Context) {
	doc, err := s.store.Get(c.Request.Context(), QuizCollection, c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

// toFields converts v into plain JSON values accepted by every store.
func toFields(v any) (map[string]any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return fields, nil
}
