package export

import (
	"fmt"
	"io"
	"strings"
)

// MarkdownExporter exports conversations as a Markdown document
type MarkdownExporter struct{}

func (e *MarkdownExporter) Export(t Transcript, w io.Writer) error {
	if len(t.Messages) == 0 {
		return ErrEmptyTranscript
	}
	var b strings.Builder
	fmt.Fprintf(&b, "# %s: %s\n\n", t.ContentType, t.ProductName)
	if t.ConversationID != "" {
		fmt.Fprintf(&b, "**Conversation:** %s\n", t.ConversationID)
	}
	if t.StartedAt != nil {
		fmt.Fprintf(&b, "**Started:** %s\n", t.StartedAt.UTC().Format("2006-01-02T15:04:05Z"))
	}
	fmt.Fprintf(&b, "**Messages:** %d\n\n", len(t.Messages))
	for _, m := range t.Messages {
		fmt.Fprintf(&b, "## %s\n\n%s\n\n", m.Role.Title(), m.Content)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func (e *MarkdownExporter) Extension() string   { return "md" }
func (e *MarkdownExporter) ContentType() string { return "text/markdown; charset=utf-8" }
