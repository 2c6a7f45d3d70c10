package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/redactyl/anonymizer/internal/audit"
	"github.com/redactyl/anonymizer/internal/types"
)

func sampleResult() types.Result {
	return types.Result{
		OriginalText:   "call 07700 900123 or mail ann@example.com",
		AnonymizedText: "call [MASK:PHONE:***** **0123] or mail [MASK:EMAIL:a*n@e*********m]",
		Matches: []types.Match{
			{Type: types.EntityPhone, Value: "07700 900123", Start: 5, End: 17, Confidence: 0.9, Detector: "pattern"},
			{Type: types.EntityEmail, Value: "ann@example.com", Start: 26, End: 41, Confidence: 0.95, Detector: "pattern"},
		},
		Summary: types.Summary{
			TotalMatches:    2,
			ByType:          map[types.EntityType]int{types.EntityPhone: 1, types.EntityEmail: 1},
			ByStrategy:      map[types.StrategyName]int{types.StrategyMask: 2},
			DetectorVersion: "1.0.0+0123456789abcdef",
		},
		DurationMs: 4,
	}
}

func TestPrintSummary_WithMatches(t *testing.T) {
	var buf bytes.Buffer
	if err := PrintSummary(&buf, sampleResult().Summary, PrintOptions{NoColor: true, Input: "notes.txt", Duration: 4 * time.Millisecond}); err != nil {
		t.Fatalf("print: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"notes.txt", "EMAIL", "PHONE", "Matches: 2 (MASK: 2)", "Duration: 4ms", "Detectors: 1.0.0+"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output; got: %q", want, out)
		}
	}
	if strings.Contains(out, "ann@example.com") {
		t.Fatalf("summary must not contain matched values")
	}
}

func TestPrintSummary_NoMatches(t *testing.T) {
	var buf bytes.Buffer
	s := types.Summary{ByType: map[types.EntityType]int{}, ByStrategy: map[types.StrategyName]int{}}
	if err := PrintSummary(&buf, s, PrintOptions{NoColor: true}); err != nil {
		t.Fatalf("print: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "No PII found") || !strings.Contains(out, "Matches: 0") {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestWriteJSON_RedactsValues(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, sampleResult()); err != nil {
		t.Fatalf("write: %v", err)
	}
	if strings.Contains(buf.String(), "07700 900123") || strings.Contains(buf.String(), "originalText") {
		t.Fatalf("report leaked original text: %s", buf.String())
	}
	var doc Document
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(doc.Matches) != 2 || doc.Matches[0].Value != "[REDACTED]" || doc.Matches[1].Start != 26 {
		t.Fatalf("unexpected matches: %+v", doc.Matches)
	}
	if doc.Summary.TotalMatches != 2 || doc.DurationMs != 4 {
		t.Fatalf("unexpected summary: %+v", doc.Summary)
	}
}

func TestPrintHistory(t *testing.T) {
	var buf bytes.Buffer
	if err := PrintHistory(&buf, nil, PrintOptions{}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "No runs recorded") {
		t.Fatalf("unexpected output: %q", buf.String())
	}

	buf.Reset()
	rec := audit.CreateRunRecord("run_7", "a.txt", false, sampleResult())
	if err := PrintHistory(&buf, []audit.RunRecord{rec}, PrintOptions{NoColor: true}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "run_7") || !strings.Contains(buf.String(), "a.txt") {
		t.Fatalf("unexpected output: %q", buf.String())
	}
}

func TestIsTerminal_Buffer(t *testing.T) {
	if IsTerminal(&bytes.Buffer{}) {
		t.Fatalf("buffer is not a terminal")
	}
}
