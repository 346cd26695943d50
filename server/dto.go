package server

import (
	"github.com/persona-rag/go-persona/kb"
	"github.com/persona-rag/go-persona/monitor"
	"github.com/persona-rag/go-persona/server/store"
)

type AskRequest struct {
	Question       string `json:"question"`
	K              int    `json:"k,omitempty"`
	Conversational bool   `json:"conversational,omitempty"`
	Verify         bool   `json:"verify,omitempty"`
}

type HealthResponse struct {
	Status          string              `json:"status"`
	Message         string              `json:"message"`
	DocumentsLoaded int                 `json:"documents_loaded"`
	Categories      map[kb.Category]int `json:"categories"`
}

type StatsResponse struct {
	TotalDocuments    int                 `json:"total_documents"`
	Categories        map[kb.Category]int `json:"categories"`
	EmbeddingProvider string              `json:"embedding_provider"`
	GeneratorModel    string              `json:"generator_model,omitempty"`
	Queries           monitor.Summary     `json:"queries"`
	AnswerLog         store.Summary       `json:"answer_log"`
}

type RebuildResponse struct {
	Success   bool `json:"success"`
	Documents int  `json:"documents"`
}

type HistoryResponse struct {
	Answers []store.AnswerRecord `json:"answers"`
}

type SampleQuestionsResponse struct {
	Questions []string `json:"questions"`
}

type errorResponse struct {
	Error string `json:"error"`
}
