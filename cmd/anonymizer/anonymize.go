package anonymizer

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/redactyl/anonymizer/internal/audit"
	"github.com/redactyl/anonymizer/internal/cache"
	"github.com/redactyl/anonymizer/internal/engine"
	"github.com/redactyl/anonymizer/internal/report"
	"github.com/redactyl/anonymizer/internal/types"
)

func runAnonymize(cmd *cobra.Command, _ []string) error {
	input := settings.GetString("input")
	if input == "" {
		return errors.New("no input: pass --input <file> or --input - for stdin")
	}
	log, err := newLogger(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	data, name, err := readInput(cmd, input)
	if err != nil {
		return err
	}

	cfg, err := loadProfile(log)
	if err != nil {
		return err
	}
	p, err := engine.New(cfg, log)
	if err != nil {
		return err
	}

	mappings := settings.GetString("mappings")
	if mappings != "" {
		ms, err := cache.LoadMappings(mappings)
		switch {
		case errors.Is(err, os.ErrNotExist):
			log.Info("mapping file not found, starting empty", zap.String("path", mappings))
		case err != nil:
			return err
		default:
			n := p.Pseudonyms().Import(ms)
			log.Info("mappings loaded", zap.String("path", mappings), zap.Int("imported", n), zap.Int("entries", len(ms)))
		}
	}

	runID := audit.NewRunID()
	log = log.WithRun(runID)
	stream := settings.GetBool("stream")
	start := time.Now()
	var res types.Result
	if stream {
		res = p.AnonymizeStreaming(string(data), settings.GetInt("chunk-size"))
	} else {
		res = p.Anonymize(string(data))
	}
	elapsed := time.Since(start)
	log.Info("run complete",
		zap.String("input", name),
		zap.Bool("stream", stream),
		zap.Int("matches", res.Summary.TotalMatches),
		zap.Duration("duration", elapsed),
	)

	var out bytes.Buffer
	if settings.GetBool("json") {
		if err := report.WriteJSON(&out, res); err != nil {
			return err
		}
	} else {
		out.WriteString(res.AnonymizedText)
	}
	if err := writeOutput(cmd, settings.GetString("output"), out.Bytes()); err != nil {
		return err
	}

	if mappings != "" {
		if err := cache.SaveMappings(mappings, p.Pseudonyms().Export()); err != nil {
			return err
		}
	}
	if path := settings.GetString("audit-log"); path != "" {
		if err := audit.NewAuditLog(path).LogRun(audit.CreateRunRecord(runID, name, stream, res)); err != nil {
			// the output is already written; a failed audit append is not fatal
			log.Warn("audit log not written", zap.String("path", path), zap.Error(err))
		}
	}
	if settings.GetBool("verbose") {
		errw := cmd.ErrOrStderr()
		return report.PrintSummary(errw, res.Summary, report.PrintOptions{
			NoColor:  noColor(errw),
			Duration: elapsed,
			Input:    name,
		})
	}
	return nil
}

// readInput returns the input bytes and the name recorded in logs and audit
// records.
func readInput(cmd *cobra.Command, path string) ([]byte, string, error) {
	if path == "-" {
		b, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, "", fmt.Errorf("read stdin: %w", err)
		}
		return b, "<stdin>", nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("read input %s: %w", path, err)
	}
	return b, path, nil
}

func writeOutput(cmd *cobra.Command, path string, b []byte) error {
	if path == "" || path == "-" {
		_, err := cmd.OutOrStdout().Write(b)
		return err
	}
	if err := os.WriteFile(path, b, 0644); err != nil {
		return fmt.Errorf("write output %s: %w", path, err)
	}
	return nil
}
