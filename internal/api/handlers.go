package api

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"log"
	"mime"
	"net/http"

	"github.com/gin-gonic/gin"

	"copy_ai_server/internal/ai"
	"copy_ai_server/internal/ai/prompts"
	"copy_ai_server/internal/session"
	"copy_ai_server/internal/session/export"
	"copy_ai_server/internal/types"
)

// APIHandler holds dependencies for the page and API endpoints.
type APIHandler struct {
	controller *session.Controller
	renderer   *Renderer
}

// NewAPIHandler initializes a new API handler with its dependencies.
func NewAPIHandler(controller *session.Controller) *APIHandler {
	return &APIHandler{
		controller: controller,
		renderer:   NewRenderer(),
	}
}

// --- Structs for API Requests/Responses ---

type ChatRequest struct {
	Message string `form:"message" json:"message"`
}

type OptionsResponse struct {
	ContentTypes []types.ContentType    `json:"contentTypes"`
	Tones        []types.Tone           `json:"tones"`
	Lengths      []types.Length         `json:"lengths"`
	Defaults     types.GenerationConfig `json:"defaults"`
}

type PromptResponse struct {
	SystemInstruction string `json:"systemInstruction"`
	Prompt            string `json:"prompt"`
	DisplayMessage    string `json:"displayMessage"`
}

type pageMessage struct {
	Role  string
	Model bool
	Text  string
	HTML  template.HTML
}

type pageData struct {
	session.Snapshot
	Options  OptionsResponse
	Rendered []pageMessage
}

// --- Page ---

// GET /
func (h *APIHandler) Index(c *gin.Context) {
	snap := h.controller.Snapshot()
	data := pageData{Snapshot: snap, Options: options()}
	for _, m := range snap.Messages {
		pm := pageMessage{Role: m.Role.Title(), Model: m.Role == types.RoleModel, Text: m.Content}
		if pm.Model {
			pm.HTML = h.renderer.Markdown(m.Content)
		}
		data.Rendered = append(data.Rendered, pm)
	}
	c.HTML(http.StatusOK, "index.tmpl", data)
}

// --- Operations ---

// POST /generate
func (h *APIHandler) Generate(c *gin.Context) {
	var cfg types.GenerationConfig
	if err := c.ShouldBind(&cfg); err != nil {
		h.respond(c, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	if err := h.controller.UpdateConfig(cfg); err != nil {
		h.respond(c, statusFor(err), err)
		return
	}

	log.Printf("Received generation request: %s / %q", cfg.ContentType, cfg.ProductName)
	err := h.controller.Generate(c.Request.Context())
	h.respond(c, statusFor(err), err)
}

// POST /chat
func (h *APIHandler) Chat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBind(&req); err != nil {
		h.respond(c, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	err := h.controller.Continue(c.Request.Context(), req.Message)
	h.respond(c, statusFor(err), err)
}

// PUT /api/input keeps the draft follow-up text on the server.
func (h *APIHandler) Input(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBind(&req); err != nil {
		h.respond(c, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	err := h.controller.SetInput(req.Message)
	h.respond(c, statusFor(err), err)
}

// POST /reset
func (h *APIHandler) Reset(c *gin.Context) {
	err := h.controller.Reset()
	h.respond(c, statusFor(err), err)
}

// GET /export?format=text|md|json|yaml
func (h *APIHandler) Export(c *gin.Context) {
	exporter, err := export.NewExporter(c.Query("format"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	snap := h.controller.Snapshot()
	transcript := export.Transcript{
		ConversationID: snap.ConversationID,
		ContentType:    snap.Config.ContentType,
		ProductName:    snap.Config.ProductName,
		StartedAt:      snap.StartedAt,
		Messages:       snap.Messages,
	}

	var buf bytes.Buffer
	if err := exporter.Export(transcript, &buf); err != nil {
		if errors.Is(err, export.ErrEmptyTranscript) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		log.Printf("Error exporting conversation %s: %v", snap.ConversationID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to export conversation"})
		return
	}

	disposition := mime.FormatMediaType("attachment", map[string]string{"filename": export.Filename(exporter, transcript)})
	c.Header("Content-Disposition", disposition)
	c.Data(http.StatusOK, exporter.ContentType(), buf.Bytes())
}

// --- JSON views ---

// GET /api/state
func (h *APIHandler) State(c *gin.Context) {
	c.JSON(http.StatusOK, h.controller.Snapshot())
}

// GET /api/options
func (h *APIHandler) Options(c *gin.Context) {
	c.JSON(http.StatusOK, options())
}

// GET /api/prompt previews what Generate would send for the current draft.
func (h *APIHandler) Prompt(c *gin.Context) {
	cfg := h.controller.Snapshot().Config
	prompt, err := prompts.Build(cfg)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	instruction, err := prompts.SystemInstruction(cfg.ContentType)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, PromptResponse{SystemInstruction: instruction, Prompt: prompt, DisplayMessage: prompts.DisplayMessage(cfg)})
}

// respond answers JSON clients with the new state, and browsers with a
// redirect back to the page, which shows any error from the snapshot.
func (h *APIHandler) respond(c *gin.Context, status int, err error) {
	if !wantsJSON(c) {
		if status == http.StatusBadRequest && err != nil && !errors.Is(err, session.ErrBlankInput) {
			c.String(status, err.Error())
			return
		}
		c.Redirect(http.StatusSeeOther, "/")
		return
	}
	snap := h.controller.Snapshot()
	if err != nil {
		c.JSON(status, gin.H{"error": err.Error(), "state": snap})
		return
	}
	c.JSON(status, snap)
}

func statusFor(err error) int {
	var te *ai.TransportError
	var pe *session.PreconditionError
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, session.ErrBusy), errors.Is(err, session.ErrNoSession) && !errors.As(err, &pe):
		return http.StatusConflict
	case errors.Is(err, session.ErrBlankInput), errors.Is(err, types.ErrInvalidConfig):
		return http.StatusBadRequest
	case errors.As(err, &te), errors.Is(err, ai.ErrEmptyResponse):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func wantsJSON(c *gin.Context) bool {
	return c.ContentType() == gin.MIMEJSON || c.NegotiateFormat(gin.MIMEHTML, gin.MIMEJSON) == gin.MIMEJSON
}

func options() OptionsResponse {
	return OptionsResponse{
		ContentTypes: types.ContentTypes,
		Tones:        types.Tones,
		Lengths:      types.Lengths,
		Defaults:     types.DefaultGenerationConfig(),
	}
}
