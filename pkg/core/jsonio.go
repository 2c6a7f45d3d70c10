package core

import (
	"encoding/json"
	"io"

	"github.com/redactyl/anonymizer/internal/report"
)

// MarshalResult writes res as the JSON report: the original text is left
// out and match values are redacted.
func MarshalResult(w io.Writer, res Result) error {
	return report.WriteJSON(w, res)
}

// UnmarshalReport decodes a report written by MarshalResult.
func UnmarshalReport(r io.Reader) (report.Document, error) {
	var doc report.Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return report.Document{}, err
	}
	return doc, nil
}
