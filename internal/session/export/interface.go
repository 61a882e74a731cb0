package export

import (
	"errors"
	"fmt"
	"io"
	"time"

	"copy_ai_server/internal/types"
	"copy_ai_server/internal/utils"
)

// Transcript is everything an exporter needs to write a saved conversation.
type Transcript struct {
	ConversationID string            `json:"conversationId,omitempty" yaml:"conversationId,omitempty"`
	ContentType    types.ContentType `json:"contentType" yaml:"contentType"`
	ProductName    string            `json:"productName" yaml:"productName"`
	StartedAt      *time.Time        `json:"startedAt,omitempty" yaml:"startedAt,omitempty"`
	Messages       []types.Message   `json:"messages" yaml:"messages"`
}

var ErrEmptyTranscript = errors.New("conversation has no messages to save")

// Exporter defines the interface for all export formats
type Exporter interface {
	Export(t Transcript, w io.Writer) error
	Extension() string
	ContentType() string
}

// NewExporter creates a new exporter based on format. An empty format selects
// plain text.
func NewExporter(format string) (Exporter, error) {
	switch format {
	case "", "text", "txt":
		return &TextExporter{}, nil
	case "md", "markdown":
		return &MarkdownExporter{}, nil
	case "json":
		return &JSONExporter{}, nil
	case "yaml", "yml":
		return &YAMLExporter{}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s (supported: text, md, json, yaml)", format)
	}
}

// Filename returns the download name for t in the exporter's format.
func Filename(e Exporter, t Transcript) string {
	return utils.ExportFilename(string(t.ContentType), t.ProductName, e.Extension())
}
