package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mikey/llm-doc-router/internal/config"
	"github.com/mikey/llm-doc-router/internal/core"
	"github.com/mikey/llm-doc-router/internal/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeOracle struct {
	classification *core.Classification
	classifyErr    error
	emailErr       error
}

func (o *fakeOracle) Classify(context.Context, string, string) (*core.Classification, error) {
	if o.classifyErr != nil {
		return nil, o.classifyErr
	}
	if o.classification != nil {
		return o.classification, nil
	}
	return &core.Classification{Format: core.FormatText, Intent: "general", Confidence: 0.9}, nil
}

func (o *fakeOracle) ExtractEmail(context.Context, string) (*core.EmailExtraction, error) {
	if o.emailErr != nil {
		return nil, o.emailErr
	}
	return &core.EmailExtraction{
		Sender:     core.EmailSender{Name: "Jane Doe", Email: "jane@example.com"},
		Subject:    "Hello",
		Intent:     "general",
		Urgency:    core.UrgencyLow,
		Confidence: 0.9,
		Sentiment:  "neutral",
	}, nil
}

func (o *fakeOracle) ExtractRecord(context.Context, string) (*core.RecordExtraction, error) {
	return &core.RecordExtraction{
		Record:     core.BusinessRecord{ID: "rec-1", Type: "invoice"},
		Confidence: 0.9,
	}, nil
}

func (o *fakeOracle) Summarize(context.Context, string, string) (*core.Summary, error) {
	return &core.Summary{Summary: "a document", Urgency: core.UrgencyLow}, nil
}

func newTestServer(t *testing.T, oracle core.Oracle) (*Server, core.MemoryRepository) {
	t.Helper()
	logger := zap.NewNop()
	store := memory.NewMemoryStore(logger, 0)
	router := core.NewRouterService(
		oracle,
		store,
		core.NewEmailExtractor(oracle, logger),
		core.NewJSONExtractor(oracle, logger),
		core.NewGenericExtractor(oracle, logger),
		logger,
	)
	cfg := config.NewFromViper(config.NewEmptyViper())
	srv := NewServer(cfg, router, store,
		core.NewEmailExtractor(oracle, logger),
		core.NewJSONExtractor(oracle, logger),
		logger)
	return srv, store
}

func doJSON(srv *Server, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	srv.engine.ServeHTTP(w, req)
	return w
}

func TestHealthEndpoint(t *testing.T) {
	srv, _ := newTestServer(t, &fakeOracle{})
	w := doJSON(srv, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestClassifierEndpoint(t *testing.T) {
	srv, store := newTestServer(t, &fakeOracle{})

	w := doJSON(srv, http.MethodPost, "/agents/classifier", map[string]string{"input": "quarterly report text"})
	require.Equal(t, http.StatusOK, w.Code)

	var result core.ProcessResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, core.FormatText, result.Classification.Format)
	assert.Equal(t, core.AgentBasic, result.ProcessingAgent)
	assert.NotEmpty(t, result.MemoryID)

	all, err := store.GetAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestClassifierEndpoint_RejectsMissingInput(t *testing.T) {
	srv, _ := newTestServer(t, &fakeOracle{})

	for _, body := range []any{map[string]string{}, map[string]string{"input": "  "}} {
		w := doJSON(srv, http.MethodPost, "/agents/classifier", body)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	}
}

func TestClassifierEndpoint_ClassificationFailureIsServerError(t *testing.T) {
	srv, _ := newTestServer(t, &fakeOracle{classifyErr: errors.New("oracle down")})

	w := doJSON(srv, http.MethodPost, "/agents/classifier", map[string]string{"input": "some text"})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Processing failed")
}

func TestClassifierEndpoint_MalformedJSONInputIsBadRequest(t *testing.T) {
	oracle := &fakeOracle{
		classification: &core.Classification{Format: core.FormatJSON, Intent: "webhook", Confidence: 0.9},
	}
	srv, _ := newTestServer(t, oracle)

	w := doJSON(srv, http.MethodPost, "/agents/classifier", map[string]string{"input": `{"broken":`})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestEmailEndpoint(t *testing.T) {
	srv, _ := newTestServer(t, &fakeOracle{})

	w := doJSON(srv, http.MethodPost, "/agents/email", map[string]string{"input": "From: jane@example.com\nSubject: Hello"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		ExtractedData core.CRMLead `json:"extractedData"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, core.FormatEmail, resp.ExtractedData.Source)
	assert.Equal(t, "Jane Doe", resp.ExtractedData.Contact.Name)
}

func TestJSONEndpoint(t *testing.T) {
	srv, _ := newTestServer(t, &fakeOracle{})

	w := doJSON(srv, http.MethodPost, "/agents/json", map[string]string{"input": `{"invoice":"INV-1"}`})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		ExtractedData core.FlowBitRecord `json:"extractedData"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "rec-1", resp.ExtractedData.ID)
	assert.Equal(t, core.AgentJSON, resp.ExtractedData.Source)
}

func TestJSONEndpoint_MalformedInput(t *testing.T) {
	srv, _ := newTestServer(t, &fakeOracle{})

	w := doJSON(srv, http.MethodPost, "/agents/json", map[string]string{"input": "not json"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMemoryEndpoints(t *testing.T) {
	srv, _ := newTestServer(t, &fakeOracle{})

	// Empty history still returns an entries array
	w := doJSON(srv, http.MethodGet, "/memory", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"entries":[]`)

	w = doJSON(srv, http.MethodPost, "/agents/classifier", map[string]string{"input": "a document"})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(srv, http.MethodGet, "/memory", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Entries []core.MemoryEntry `json:"entries"`
		Stats   core.MemoryStats   `json:"stats"`
		Success bool               `json:"success"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Len(t, resp.Entries, 1)
	assert.Equal(t, 1, resp.Stats.Total)

	w = doJSON(srv, http.MethodDelete, "/memory", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Memory cleared successfully")

	w = doJSON(srv, http.MethodGet, "/memory", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total":0`)
}
