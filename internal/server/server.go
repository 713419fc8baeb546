// Package server exposes cases over a JSON HTTP API.
package server

import (
	"log/slog"
	"net/http"

	"github.com/justinas/alice"

	"github.com/joseph-ayodele/case-summarizer/internal/async"
	"github.com/joseph-ayodele/case-summarizer/internal/core/fir"
	"github.com/joseph-ayodele/case-summarizer/internal/export"
	"github.com/joseph-ayodele/case-summarizer/internal/ingest"
	"github.com/joseph-ayodele/case-summarizer/internal/repository"
)

const ServiceName = "FIR case summarizer"

// Deps are the collaborators the handlers need.
type Deps struct {
	Cases     repository.CaseRepository
	Summaries repository.SummaryRepository
	Feedback  repository.FeedbackRepository
	Metrics   repository.MetricsRepository
	Ingestor  ingest.Ingestor
	Queue     async.Queue
	Exporter  *export.Service
	Extractor *fir.Extractor
}

type Server struct {
	Deps
	logger *slog.Logger
}

func New(deps Deps, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if deps.Extractor == nil {
		deps.Extractor = fir.New()
	}
	return &Server{Deps: deps, logger: logger}
}

// Routes returns the API handler with middleware applied.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.root)
	mux.HandleFunc("GET /api/cases", s.listCases)
	mux.HandleFunc("POST /api/upload", s.upload)
	mux.HandleFunc("GET /api/result/{caseId}", s.result)
	mux.HandleFunc("GET /api/cases/{caseId}/summary", s.summary)
	mux.HandleFunc("POST /api/cases/{caseId}/feedback", s.addFeedback)
	mux.HandleFunc("GET /api/cases/{caseId}/feedback", s.listFeedback)
	mux.HandleFunc("GET /api/analytics", s.analytics)
	mux.HandleFunc("GET /api/export.xlsx", s.exportXLSX)

	standard := alice.New(s.recoverPanic, requestID, s.logRequest, cors)
	return standard.Then(mux)
}
