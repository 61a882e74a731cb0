package export

import (
	"encoding/json"
	"io"
)

// JSONExporter exports the transcript as indented JSON
type JSONExporter struct{}

func (e *JSONExporter) Export(t Transcript, w io.Writer) error {
	if len(t.Messages) == 0 {
		return ErrEmptyTranscript
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(t)
}

func (e *JSONExporter) Extension() string   { return "json" }
func (e *JSONExporter) ContentType() string { return "application/json; charset=utf-8" }
