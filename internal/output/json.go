package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/dshills/codereg/internal/engine"
)

// JSONWriter emits the report as indented JSON. File paths and messages
// are written without HTML escaping so "<" and "&" survive verbatim.
type JSONWriter struct{}

func (JSONWriter) Write(w io.Writer, report *engine.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("encoding JSON report: %w", err)
	}
	return nil
}
