// Package server exposes the question-answering pipeline over HTTP.
package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"sync"

	"go.uber.org/zap"

	"github.com/persona-rag/go-persona/answer"
	"github.com/persona-rag/go-persona/embed"
	"github.com/persona-rag/go-persona/kb"
	"github.com/persona-rag/go-persona/monitor"
	"github.com/persona-rag/go-persona/retrieval"
	"github.com/persona-rag/go-persona/server/store"
)

// Config carries everything the server needs to assemble its pipeline.
type Config struct {
	Provider  embed.Provider
	Generator answer.Generator

	// GeneratorName labels the generator on /stats; the Generator
	// interface itself carries no identity.
	GeneratorName string

	Weights       kb.CategoryWeights
	Thresholds    answer.Thresholds
	MinScore      float64
	DefaultK      int
	MaxContextLen int
	MemorySize    int

	KnowledgePath string
	SnapshotPath  string
	DatabaseDSN   string

	Logger    *zap.Logger
	Collector monitor.Collector
}

// Server owns the knowledge base and the pipeline built on top of it.
// Rebuilds swap both under the write lock; request handlers only take
// the read lock.
type Server struct {
	cfg       Config
	logger    *zap.Logger
	metrics   monitor.Collector
	assembler *answer.Assembler
	answers   store.AnswerLog

	mu           sync.RWMutex
	store        *kb.Store
	pipeline     *answer.Pipeline
	conversation *answer.Conversation
}

// New builds a server and initializes its knowledge base: a compatible
// snapshot is loaded when present, otherwise the profile at
// KnowledgePath is ingested and snapshotted. A snapshot whose dimension
// disagrees with the provider is a configuration error, not something
// to paper over at runtime.
func New(ctx context.Context, cfg Config) (*Server, error) {
	if cfg.Provider == nil {
		return nil, fmt.Errorf("server: embedding provider is required")
	}
	if cfg.Generator == nil {
		return nil, fmt.Errorf("server: generator is required")
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Collector == nil {
		cfg.Collector = monitor.NewInMemoryCollector()
	}
	if cfg.DefaultK < 1 {
		cfg.DefaultK = 5
	}

	answers, err := store.NewAnswerLog(cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("server: open answer log: %w", err)
	}

	s := &Server{
		cfg:       cfg,
		logger:    cfg.Logger,
		metrics:   cfg.Collector,
		assembler: answer.NewAssembler(cfg.Thresholds, cfg.MaxContextLen),
		answers:   answers,
	}

	if err := s.initKnowledge(ctx); err != nil {
		answers.Close()
		return nil, err
	}
	return s, nil
}

func (s *Server) initKnowledge(ctx context.Context) error {
	st := kb.NewStore(s.cfg.Provider)

	if s.cfg.SnapshotPath != "" {
		if _, err := os.Stat(s.cfg.SnapshotPath); err == nil {
			if err := st.LoadSnapshot(s.cfg.SnapshotPath); err != nil {
				return fmt.Errorf("server: load snapshot %s: %w", s.cfg.SnapshotPath, err)
			}
			s.logger.Info("knowledge base loaded from snapshot",
				zap.String("path", s.cfg.SnapshotPath),
				zap.Int("documents", st.Size()))
			s.install(st)
			return nil
		}
	}

	if s.cfg.KnowledgePath != "" {
		if _, err := os.Stat(s.cfg.KnowledgePath); err == nil {
			if err := s.ingest(ctx, st); err != nil {
				return err
			}
			s.install(st)
			return nil
		}
	}

	s.logger.Warn("no snapshot or knowledge file found, starting empty")
	s.install(st)
	return nil
}

func (s *Server) ingest(ctx context.Context, st *kb.Store) error {
	profile, err := kb.LoadProfile(s.cfg.KnowledgePath)
	if err != nil {
		return fmt.Errorf("server: load profile %s: %w", s.cfg.KnowledgePath, err)
	}
	if err := st.AddDocuments(ctx, profile.Flatten()); err != nil {
		return fmt.Errorf("server: build knowledge base: %w", err)
	}
	s.logger.Info("knowledge base built",
		zap.String("path", s.cfg.KnowledgePath),
		zap.Int("documents", st.Size()))

	if s.cfg.SnapshotPath != "" {
		if err := st.SaveSnapshot(s.cfg.SnapshotPath); err != nil {
			s.logger.Warn("snapshot save failed", zap.Error(err))
		}
	}
	return nil
}

// install wires a fresh pipeline on top of st and publishes both.
func (s *Server) install(st *kb.Store) {
	retriever := retrieval.New(st, s.cfg.Provider, retrieval.Options{
		Weights:  s.cfg.Weights,
		MinScore: s.cfg.MinScore,
	})
	pipeline := answer.NewPipeline(retriever, s.assembler, s.cfg.Generator)

	s.mu.Lock()
	s.store = st
	s.pipeline = pipeline
	s.conversation = answer.NewConversation(pipeline, s.cfg.MemorySize)
	s.mu.Unlock()
}

// Rebuild re-ingests the profile into a new store and swaps it in.
// Queries in flight keep using the old store until the swap.
func (s *Server) Rebuild(ctx context.Context) (int, error) {
	st := kb.NewStore(s.cfg.Provider)
	if err := s.ingest(ctx, st); err != nil {
		return 0, err
	}
	s.install(st)
	return st.Size(), nil
}

// Handler returns the HTTP handler with CORS applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /ask", s.handleAsk)
	mux.HandleFunc("GET /stats", s.handleStats)
	mux.HandleFunc("GET /sample-questions", s.handleSampleQuestions)
	mux.HandleFunc("POST /rebuild", s.handleRebuild)
	mux.HandleFunc("POST /conversation/clear", s.handleConversationClear)
	mux.HandleFunc("GET /history", s.handleHistoryList)
	mux.HandleFunc("DELETE /history/{id}", s.handleHistoryDelete)

	return corsMiddleware(mux)
}

// Close releases the answer log.
func (s *Server) Close() error {
	return s.answers.Close()
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
