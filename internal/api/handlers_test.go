package api

import (
	"context"
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"copy_ai_server/internal/ai"
	"copy_ai_server/internal/session"
	"copy_ai_server/internal/types"
)

type stubBackend struct {
	replies []string
	errs    []error
}

func (b *stubBackend) Name() string { return "stub" }

func (b *stubBackend) StartSession(string, float64) (ai.Session, error) {
	return stubSession{b}, nil
}

type stubSession struct{ b *stubBackend }

func (s stubSession) SendMessage(context.Context, string) (string, error) {
	if len(s.b.errs) > 0 {
		err := s.b.errs[0]
		s.b.errs = s.b.errs[1:]
		if err != nil {
			return "", err
		}
	}
	if len(s.b.replies) == 0 {
		return "ok", nil
	}
	r := s.b.replies[0]
	s.b.replies = s.b.replies[1:]
	return r, nil
}

func newTestRouter(b *stubBackend) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	RegisterRoutes(router, NewAPIHandler(session.NewController(b)))
	return router
}

func doJSON(t *testing.T, router http.Handler, method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var reader *strings.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = strings.NewReader(string(raw))
	} else {
		reader = strings.NewReader("")
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var out map[string]any
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	}
	return w, out
}

func tweetConfig() types.GenerationConfig {
	return types.GenerationConfig{
		ContentType:    types.Tweet,
		ProductName:    "Acme Rocket",
		TargetAudience: "devs",
		Features:       "- fast\n- cheap",
		Tone:           types.Witty,
		Length:         types.Short,
		Creativity:     0.5,
	}
}

func TestIndexShowsConfigurationForm(t *testing.T) {
	router := newTestRouter(&stubBackend{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `action="/generate"`)
	assert.Contains(t, body, `value="SmartHome Hub"`)
	assert.Contains(t, body, `<option value="Product Description" selected>`)
	assert.NotContains(t, body, `action="/reset"`)
}

func TestGenerateJSON(t *testing.T) {
	router := newTestRouter(&stubBackend{replies: []string{"Launch faster with **Acme Rocket**"}})

	w, out := doJSON(t, router, http.MethodPost, "/generate", tweetConfig())
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	assert.Equal(t, "conversation", out["view"])
	msgs := out["messages"].([]any)
	require.Len(t, msgs, 2)
	assert.Equal(t, `Generate a Short Tweet for "Acme Rocket" with a Witty tone.`, msgs[0].(map[string]any)["content"])
	assert.Equal(t, "model", msgs[1].(map[string]any)["role"])
	assert.NotEmpty(t, out["conversationId"])
}

func TestGenerateFormRedirectsAndRendersMarkdown(t *testing.T) {
	router := newTestRouter(&stubBackend{replies: []string{"Meet **Acme Rocket** <script>alert(1)</script>"}})

	form := url.Values{
		"contentType":    {"Tweet"},
		"productName":    {"Acme Rocket"},
		"targetAudience": {"devs"},
		"features":       {"- fast"},
		"tone":           {"Witty"},
		"length":         {"Short"},
		"creativity":     {"0.5"},
	}
	req := httptest.NewRequest(http.MethodPost, "/generate", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	body := w.Body.String()
	assert.Contains(t, body, "<strong>Acme Rocket</strong>")
	assert.NotContains(t, body, "<script>alert(1)</script>")
	assert.Contains(t, body, `action="/chat"`)
	assert.Contains(t, body, `action="/reset"`)
}

func TestGenerateRejectsInvalidConfig(t *testing.T) {
	router := newTestRouter(&stubBackend{})

	cfg := tweetConfig()
	cfg.Tone = "Sarcastic"
	w, out := doJSON(t, router, http.MethodPost, "/generate", cfg)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, out["error"], "invalid request body")

	cfg = tweetConfig()
	cfg.Creativity = 2
	w, _ = doJSON(t, router, http.MethodPost, "/generate", cfg)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGenerateBackendFailure(t *testing.T) {
	router := newTestRouter(&stubBackend{errs: []error{&ai.TransportError{Backend: "stub", Err: errors.New("API key not valid")}}})

	w, out := doJSON(t, router, http.MethodPost, "/generate", tweetConfig())
	assert.Equal(t, http.StatusBadGateway, w.Code)

	state := out["state"].(map[string]any)
	assert.Equal(t, "configuration", state["view"])
	assert.Contains(t, state["error"], "Failed to generate content")
	assert.Contains(t, state["error"], "API key not valid")
	assert.Len(t, state["messages"], 1)
}

func TestChatFlow(t *testing.T) {
	b := &stubBackend{replies: []string{"first"}, errs: []error{nil, errors.New("network down")}}
	router := newTestRouter(b)

	w, _ := doJSON(t, router, http.MethodPost, "/chat", ChatRequest{Message: "hi"})
	assert.Equal(t, http.StatusConflict, w.Code, "no session yet")

	w, _ = doJSON(t, router, http.MethodPost, "/generate", tweetConfig())
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = doJSON(t, router, http.MethodPost, "/chat", ChatRequest{Message: "   "})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, out := doJSON(t, router, http.MethodPost, "/chat", ChatRequest{Message: "Add a hashtag"})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	state := out["state"].(map[string]any)
	assert.Equal(t, "Add a hashtag", state["input"])
	assert.Len(t, state["messages"], 3)

	w, out = doJSON(t, router, http.MethodPost, "/chat", ChatRequest{Message: "Add a hashtag"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, out["input"])
	assert.Len(t, out["messages"], 5)
}

func TestExport(t *testing.T) {
	router := newTestRouter(&stubBackend{replies: []string{"Rocket copy"}})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/export", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	_, _ = doJSON(t, router, http.MethodPost, "/generate", tweetConfig())

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/export", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `attachment; filename=gemini-chat-tweet-acme-rocket.txt`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "User:\nGenerate a Short Tweet for \"Acme Rocket\" with a Witty tone.\n\n----------------------------------------\n\nModel:\nRocket copy", w.Body.String())

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/export?format=yaml", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), ".yaml")

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/export?format=docx", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestExportFilenameWithQuotesAndUnicode(t *testing.T) {
	router := newTestRouter(&stubBackend{})
	cfg := tweetConfig()
	cfg.ProductName = `Acme "Pro" Hüb`
	w, _ := doJSON(t, router, http.MethodPost, "/generate", cfg)
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/export", nil))
	require.Equal(t, http.StatusOK, w.Code)

	disposition, params, err := mime.ParseMediaType(w.Header().Get("Content-Disposition"))
	require.NoError(t, err)
	assert.Equal(t, "attachment", disposition)
	assert.Equal(t, `gemini-chat-tweet-acme-"pro"-hüb.txt`, params["filename"])
}

func TestInput(t *testing.T) {
	router := newTestRouter(&stubBackend{})

	w, out := doJSON(t, router, http.MethodPut, "/api/input", ChatRequest{Message: "Add a hashtag"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Add a hashtag", out["input"])

	_, out = doJSON(t, router, http.MethodGet, "/api/state", nil)
	assert.Equal(t, "Add a hashtag", out["input"])
}

func TestReset(t *testing.T) {
	router := newTestRouter(&stubBackend{})
	_, _ = doJSON(t, router, http.MethodPost, "/generate", tweetConfig())

	w, out := doJSON(t, router, http.MethodPost, "/reset", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "configuration", out["view"])
	assert.Empty(t, out["messages"])
	cfg := out["config"].(map[string]any)
	assert.Equal(t, "Product Description", cfg["contentType"])
	assert.Equal(t, 0.7, cfg["creativity"])
}

func TestOptionsAndPrompt(t *testing.T) {
	router := newTestRouter(&stubBackend{})

	w, out := doJSON(t, router, http.MethodGet, "/api/options", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, out["contentTypes"], 5)
	assert.Len(t, out["tones"], 6)
	assert.Len(t, out["lengths"], 3)

	w, out = doJSON(t, router, http.MethodGet, "/api/prompt", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, out["prompt"], "**Product Name:** SmartHome Hub")
	assert.NotContains(t, out["prompt"], "{{")
	assert.Contains(t, out["systemInstruction"], "e-commerce copywriter")

	w, _ = doJSON(t, router, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
