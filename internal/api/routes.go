package api

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// RegisterRoutes sets up the page, the form actions and the JSON endpoints.
func RegisterRoutes(router *gin.Engine, h *APIHandler) {
	router.SetHTMLTemplate(template.Must(template.ParseFS(templateFS, "templates/*.tmpl")))

	// --- Page and form actions ---
	router.GET("/", h.Index)
	router.POST("/generate", h.Generate) // Start or continue a generation from the configuration form
	router.POST("/chat", h.Chat)         // Follow-up message in the current conversation
	router.POST("/reset", h.Reset)       // Drop the conversation and restore the default form
	router.GET("/export", h.Export)      // Download the conversation

	// --- JSON ---
	apiGroup := router.Group("/api")
	{
		apiGroup.GET("/state", h.State)
		apiGroup.GET("/options", h.Options)
		apiGroup.GET("/prompt", h.Prompt)
		apiGroup.PUT("/input", h.Input)
	}

	// --- Simple Health Check ---
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}
