package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/persona-rag/go-persona/answer"
	"github.com/persona-rag/go-persona/core"
	"github.com/persona-rag/go-persona/monitor"
	"github.com/persona-rag/go-persona/server/store"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	st := s.store
	s.mu.RUnlock()

	writeJSON(w, http.StatusOK, HealthResponse{
		Status:          "healthy",
		Message:         "Personal Q&A service is running",
		DocumentsLoaded: st.Size(),
		Categories:      st.CategoryStats(),
	})
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	var req AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		writeError(w, http.StatusBadRequest, "question must not be empty")
		return
	}
	if req.K < 0 {
		writeError(w, http.StatusBadRequest, "k must be positive")
		return
	}

	k := req.K
	if k == 0 {
		k = s.cfg.DefaultK
	}
	opts := answer.QueryOptions{K: k, Verify: req.Verify}

	s.mu.RLock()
	pipeline := s.pipeline
	conversation := s.conversation
	s.mu.RUnlock()

	var resp *answer.Response
	var err error
	if req.Conversational {
		resp, err = conversation.Query(r.Context(), req.Question, opts)
	} else {
		resp, err = pipeline.Query(r.Context(), req.Question, opts)
	}
	if err != nil {
		s.metrics.Record(monitor.QueryMetrics{Failed: true})
		s.logger.Error("query failed", zap.String("question", req.Question), zap.Error(err))
		switch {
		case errors.Is(err, core.ErrValidation):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, core.ErrProviderUnavailable):
			writeError(w, http.StatusBadGateway, "embedding provider unavailable")
		default:
			writeError(w, http.StatusInternalServerError, "query failed")
		}
		return
	}

	s.metrics.Record(monitor.QueryMetrics{
		Confidence: string(resp.Confidence),
		TopScore:   resp.TopScore,
		Results:    len(resp.Sources),
		ElapsedMs:  resp.ElapsedMs,
	})

	record := store.AnswerRecord{
		ID:          uuid.NewString(),
		Question:    resp.Question,
		Answer:      resp.Answer,
		Confidence:  string(resp.Confidence),
		TopScore:    resp.TopScore,
		SourceCount: len(resp.Sources),
		ElapsedMs:   resp.ElapsedMs,
		Timestamp:   time.Now().UnixMilli(),
	}
	if err := s.answers.Add(r.Context(), record); err != nil {
		s.logger.Warn("answer log write failed", zap.Error(err))
	}

	s.logger.Info("question answered",
		zap.String("confidence", string(resp.Confidence)),
		zap.Float64("top_score", resp.TopScore),
		zap.Int64("elapsed_ms", resp.ElapsedMs))

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	st := s.store
	s.mu.RUnlock()

	logSummary, err := s.answers.Summary(r.Context())
	if err != nil {
		s.logger.Warn("answer log summary failed", zap.Error(err))
	}

	resp := StatsResponse{
		TotalDocuments:    st.Size(),
		Categories:        st.CategoryStats(),
		EmbeddingProvider: s.cfg.Provider.Name(),
		GeneratorModel:    s.cfg.GeneratorName,
		Queries:           s.metrics.Snapshot(),
		AnswerLog:         logSummary,
	}
	writeJSON(w, http.StatusOK, resp)
}

// sampleQuestions seeds the website's question picker.
var sampleQuestions = []string{
	"Who are you? Give me a brief introduction",
	"What technologies are you proficient in?",
	"Tell me about your proudest project",
	"What is your work experience?",
	"What is your education background?",
	"What job opportunities interest you?",
	"What technical blogs have you written?",
	"How can I contact you?",
	"What do you know about RAG systems?",
	"Why did you start writing a technical blog?",
}

func (s *Server) handleSampleQuestions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, SampleQuestionsResponse{Questions: sampleQuestions})
}

func (s *Server) handleRebuild(w http.ResponseWriter, r *http.Request) {
	n, err := s.Rebuild(r.Context())
	if err != nil {
		s.logger.Error("rebuild failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, RebuildResponse{Success: true, Documents: n})
}

func (s *Server) handleConversationClear(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	conversation := s.conversation
	s.mu.RUnlock()

	conversation.ClearHistory()
	writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

func (s *Server) handleHistoryList(w http.ResponseWriter, r *http.Request) {
	records, err := s.answers.List(r.Context(), 0)
	if err != nil {
		s.logger.Error("history list failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to list history")
		return
	}
	writeJSON(w, http.StatusOK, HistoryResponse{Answers: records})
}

func (s *Server) handleHistoryDelete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.answers.Delete(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "answer not found")
			return
		}
		s.logger.Error("history delete failed", zap.String("id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to delete answer")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
