package export

import (
	"io"
	"strings"
)

// Divider separates messages in a plain-text transcript.
const Divider = "\n\n----------------------------------------\n\n"

// TextExporter writes one "<Role>:\n<content>" block per message.
type TextExporter struct{}

func (e *TextExporter) Export(t Transcript, w io.Writer) error {
	if len(t.Messages) == 0 {
		return ErrEmptyTranscript
	}
	blocks := make([]string, len(t.Messages))
	for i, m := range t.Messages {
		blocks[i] = m.Role.Title() + ":\n" + m.Content
	}
	_, err := io.WriteString(w, strings.Join(blocks, Divider))
	return err
}

func (e *TextExporter) Extension() string   { return "txt" }
func (e *TextExporter) ContentType() string { return "text/plain; charset=utf-8" }
