// Package audit appends one JSON line per anonymization run. Records carry
// counts and match metadata only; matched values are never persisted.
package audit

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/redactyl/anonymizer/internal/types"
)

type RunRecord struct {
	Timestamp       time.Time                  `json:"timestamp"`
	RunID           string                     `json:"run_id"`
	Input           string                     `json:"input"`
	Streaming       bool                       `json:"streaming"`
	TotalMatches    int                        `json:"total_matches"`
	ByType          map[types.EntityType]int   `json:"by_type"`
	ByStrategy      map[types.StrategyName]int `json:"by_strategy"`
	DetectorVersion string                     `json:"detector_version"`
	Duration        string                     `json:"duration"`
	Matches         []types.Match              `json:"matches,omitempty"`
}

// maxRecordSize bounds a single JSON line read back by LoadHistory.
const maxRecordSize = 16 * 1024 * 1024

type AuditLog struct {
	logPath string
}

func NewAuditLog(path string) *AuditLog {
	return &AuditLog{logPath: path}
}

// Path returns the log file location.
func (a *AuditLog) Path() string { return a.logPath }

// LoadHistory returns the records newest first. Lines that fail to decode
// are skipped.
func (a *AuditLog) LoadHistory() ([]RunRecord, error) {
	f, err := os.Open(a.logPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open audit log: %w", err)
	}
	defer f.Close()

	var records []RunRecord
	scanner := bufio.NewScanner(f)
	// records carry their match list, so lines can outgrow the default buffer
	scanner.Buffer(make([]byte, 0, 64*1024), maxRecordSize)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var record RunRecord
		if err := json.Unmarshal(line, &record); err != nil {
			continue
		}
		records = append(records, record)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read audit log: %w", err)
	}

	for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
		records[i], records[j] = records[j], records[i]
	}
	return records, nil
}

func (a *AuditLog) LogRun(record RunRecord) error {
	if record.RunID == "" {
		record.RunID = NewRunID()
	}

	// owner-only: records still reveal where PII was found
	f, err := os.OpenFile(a.logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("failed to open audit log: %w", err)
	}
	defer f.Close()

	encoder := json.NewEncoder(f)
	if err := encoder.Encode(record); err != nil {
		return fmt.Errorf("failed to write audit record: %w", err)
	}
	return nil
}

// NewRunID returns an identifier for one run.
func NewRunID() string {
	return fmt.Sprintf("run_%d", time.Now().UnixNano())
}

func CreateRunRecord(runID, input string, streaming bool, res types.Result) RunRecord {
	return RunRecord{
		Timestamp:       time.Now().UTC(),
		RunID:           runID,
		Input:           input,
		Streaming:       streaming,
		TotalMatches:    res.Summary.TotalMatches,
		ByType:          res.Summary.ByType,
		ByStrategy:      res.Summary.ByStrategy,
		DetectorVersion: res.Summary.DetectorVersion,
		Duration:        (time.Duration(res.DurationMs) * time.Millisecond).String(),
		Matches:         RedactValues(res.Matches),
	}
}

// RedactValues returns a copy of ms with every Value replaced by
// "[REDACTED]".
func RedactValues(ms []types.Match) []types.Match {
	redacted := make([]types.Match, len(ms))
	for i, m := range ms {
		redacted[i] = m
		if m.Value != "" {
			redacted[i].Value = "[REDACTED]"
		}
	}
	return redacted
}
