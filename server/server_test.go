package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/persona-rag/go-persona/answer"
	"github.com/persona-rag/go-persona/embed"
	"github.com/persona-rag/go-persona/kb"
)

const testProfile = `{
	"personal_info": {
		"name": "Jordan Lee",
		"title": "Software Engineer",
		"location": "Berlin",
		"bio": "Backend engineer focused on distributed systems and Go services."
	},
	"skills": [
		{"category": "Languages", "items": ["Go", "Python", "SQL"]},
		{"category": "Infrastructure", "items": ["Kubernetes", "Postgres", "Kafka"]}
	],
	"faq": [
		{"question": "How can I contact you?", "answer": "Send an email through the contact form."}
	]
}`

func newTestServer(t *testing.T) (*Server, string) {
	t.Helper()
	dir := t.TempDir()

	knowledgePath := filepath.Join(dir, "knowledge.json")
	require.NoError(t, os.WriteFile(knowledgePath, []byte(testProfile), 0644))

	srv, err := New(context.Background(), Config{
		Provider:      embed.NewLexicalProvider(embed.LexicalConfig{}),
		Generator:     answer.NewMockGenerator(),
		Thresholds:    answer.DefaultThresholds(),
		KnowledgePath: knowledgePath,
		SnapshotPath:  filepath.Join(dir, "snapshot.json"),
		DatabaseDSN:   filepath.Join(dir, "answers.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { srv.Close() })
	return srv, dir
}

func doJSON(t *testing.T, handler http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

func TestServerStartupBuildsSnapshot(t *testing.T) {
	_, dir := newTestServer(t)

	// Startup ingested the profile and wrote the snapshot.
	_, err := os.Stat(filepath.Join(dir, "snapshot.json"))
	assert.NoError(t, err)
}

func TestServerStartupPrefersSnapshot(t *testing.T) {
	dir := t.TempDir()
	provider := embed.NewLexicalProvider(embed.LexicalConfig{})

	// Build a snapshot with one document; no knowledge file exists.
	st := kb.NewStore(provider)
	require.NoError(t, st.AddDocuments(context.Background(), []kb.Entry{
		{Text: "snapshot only document", Category: kb.CategoryAbout},
	}))
	snapshotPath := filepath.Join(dir, "snapshot.json")
	require.NoError(t, st.SaveSnapshot(snapshotPath))

	srv, err := New(context.Background(), Config{
		Provider:     provider,
		Generator:    answer.NewMockGenerator(),
		Thresholds:   answer.DefaultThresholds(),
		SnapshotPath: snapshotPath,
		DatabaseDSN:  filepath.Join(dir, "answers.db"),
	})
	require.NoError(t, err)
	defer srv.Close()

	w := doJSON(t, srv.Handler(), http.MethodGet, "/health", nil)
	var health HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &health))
	assert.Equal(t, 1, health.DocumentsLoaded)
}

func TestServerStartupRefusesMismatchedSnapshot(t *testing.T) {
	dir := t.TempDir()

	// Snapshot written with 64-dimensional embeddings.
	small := embed.NewLexicalProvider(embed.LexicalConfig{Dimensions: 64})
	st := kb.NewStore(small)
	require.NoError(t, st.AddDocuments(context.Background(), []kb.Entry{
		{Text: "some document", Category: kb.CategoryAbout},
	}))
	snapshotPath := filepath.Join(dir, "snapshot.json")
	require.NoError(t, st.SaveSnapshot(snapshotPath))

	_, err := New(context.Background(), Config{
		Provider:     embed.NewLexicalProvider(embed.LexicalConfig{}),
		Generator:    answer.NewMockGenerator(),
		Thresholds:   answer.DefaultThresholds(),
		SnapshotPath: snapshotPath,
		DatabaseDSN:  filepath.Join(dir, "answers.db"),
	})
	assert.Error(t, err)
}

func TestHealthEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	w := doJSON(t, srv.Handler(), http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var health HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &health))
	assert.Equal(t, "healthy", health.Status)
	assert.Equal(t, 3, health.DocumentsLoaded) // bio + skills + faq
	assert.Equal(t, 1, health.Categories[kb.CategoryFAQ])
}

func TestAskEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)
	handler := srv.Handler()

	w := doJSON(t, handler, http.MethodPost, "/ask", AskRequest{Question: "How can I contact you?"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp answer.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "How can I contact you?", resp.Question)
	assert.NotEmpty(t, resp.Answer)
	assert.NotEqual(t, answer.LevelNone, resp.Confidence)
	assert.NotEmpty(t, resp.Sources)
}

func TestAskEndpointInsufficientInformation(t *testing.T) {
	srv, _ := newTestServer(t)

	w := doJSON(t, srv.Handler(), http.MethodPost, "/ask", AskRequest{
		Question: "quantum blockchain wizardry rituals",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp answer.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, answer.LevelNone, resp.Confidence)
	assert.Equal(t, answer.InsufficientInformationText, resp.Answer)
}

func TestAskEndpointValidation(t *testing.T) {
	srv, _ := newTestServer(t)
	handler := srv.Handler()

	w := doJSON(t, handler, http.MethodPost, "/ask", AskRequest{Question: "   "})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	req := httptest.NewRequest(http.MethodPost, "/ask", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	w = doJSON(t, handler, http.MethodPost, "/ask", AskRequest{Question: "ok question", K: -3})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAskEndpointRecordsHistory(t *testing.T) {
	srv, _ := newTestServer(t)
	handler := srv.Handler()

	doJSON(t, handler, http.MethodPost, "/ask", AskRequest{Question: "How can I contact you?"})

	w := doJSON(t, handler, http.MethodGet, "/history", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var history HistoryResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &history))
	require.Len(t, history.Answers, 1)
	assert.Equal(t, "How can I contact you?", history.Answers[0].Question)
	assert.NotEmpty(t, history.Answers[0].ID)

	// Delete it and confirm it is gone.
	w = doJSON(t, handler, http.MethodDelete, "/history/"+history.Answers[0].ID, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, handler, http.MethodGet, "/history", nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &history))
	assert.Empty(t, history.Answers)
}

func TestHistoryDeleteUnknownID(t *testing.T) {
	srv, _ := newTestServer(t)

	w := doJSON(t, srv.Handler(), http.MethodDelete, "/history/no-such-id", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestStatsEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)
	handler := srv.Handler()

	doJSON(t, handler, http.MethodPost, "/ask", AskRequest{Question: "How can I contact you?"})

	w := doJSON(t, handler, http.MethodGet, "/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var stats StatsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, 3, stats.TotalDocuments)
	assert.Equal(t, "lexical", stats.EmbeddingProvider)
	assert.Equal(t, 1, stats.Queries.TotalQueries)
	assert.Equal(t, 1, stats.AnswerLog.TotalAnswers)
}

func TestRebuildEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)
	handler := srv.Handler()

	w := doJSON(t, handler, http.MethodPost, "/rebuild", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp RebuildResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, 3, resp.Documents)
}

func TestConversationClearEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)
	handler := srv.Handler()

	doJSON(t, handler, http.MethodPost, "/ask", AskRequest{Question: "How can I contact you?", Conversational: true})

	w := doJSON(t, handler, http.MethodPost, "/conversation/clear", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSampleQuestionsEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	w := doJSON(t, srv.Handler(), http.MethodGet, "/sample-questions", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp SampleQuestionsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Questions)
	assert.Contains(t, resp.Questions, "How can I contact you?")
}

func TestCORSPreflight(t *testing.T) {
	srv, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/ask", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
