package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(strings.ToLower(s)); f {
	case FormatText, FormatJSON:
		return f, nil
	default:
		return "", fmt.Errorf("unknown format: %s", s)
	}
}

// Write writes the message in the specified format
func Write(w io.Writer, m Message, format OutputFormat) error {
	switch format {
	case FormatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(m)
	case FormatText:
		text := m.Text
		if !strings.HasSuffix(text, "\n") {
			text += "\n"
		}
		_, err := io.WriteString(w, text)
		return err
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}
