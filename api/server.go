package api

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"vnstock-delta-scan/analysis"
	"vnstock-delta-scan/cache"
	"vnstock-delta-scan/config"
	"vnstock-delta-scan/database/bars"
	"vnstock-delta-scan/ingest"
)

// Server handles HTTP API requests
type Server struct {
	analyzer *analysis.Analyzer
	barsRepo *bars.Repository
	redis    *cache.RedisClient
	ingestor IngestorInterface
	cfg      *config.Config
}

// IngestorInterface defines the interface for triggering ingestion runs
type IngestorInterface interface {
	Run(ctx context.Context, reportDate time.Time, years int) (*ingest.Summary, error)
}

// NewServer creates a new API server instance
func NewServer(analyzer *analysis.Analyzer, barsRepo *bars.Repository, redis *cache.RedisClient, cfg *config.Config) *Server {
	return &Server{
		analyzer: analyzer,
		barsRepo: barsRepo,
		redis:    redis,
		cfg:      cfg,
	}
}

// SetIngestor sets the ingestion service
func (s *Server) SetIngestor(ingestor IngestorInterface) {
	s.ingestor = ingestor
}

// Start starts the HTTP server on the specified port
func (s *Server) Start(port int) error {
	mux := http.NewServeMux()

	// Register routes
	mux.HandleFunc("GET /api/analysis", s.handleAnalysis)
	mux.HandleFunc("GET /api/screener", s.handleScreener)
	mux.HandleFunc("GET /api/rankings/volume", s.handleVolumeRanking)
	mux.HandleFunc("GET /api/rankings/value", s.handleValueRanking)
	mux.HandleFunc("POST /api/ingest", s.handleIngest)

	mux.HandleFunc("GET /health", s.handleHealth)

	// Add middleware
	handler := s.corsMiddleware(s.loggingMiddleware(mux))

	serverAddr := fmt.Sprintf("0.0.0.0:%d", port)
	log.Printf("🚀 API Server starting on %s", serverAddr)
	return http.ListenAndServe(serverAddr, handler)
}

// Middleware
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %v", r.Method, r.URL.Path, time.Since(start))
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	barCount, err := s.barsRepo.Count()
	if err != nil {
		respondWithError(w, http.StatusServiceUnavailable, "database unavailable", err)
		return
	}
	respondJSON(w, map[string]interface{}{
		"status":    "ok",
		"bars":      barCount,
		"cache":     s.redis != nil,
		"timestamp": time.Now().UTC(),
	})
}
