package anonymizer

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redactyl/anonymizer/internal/audit"
	"github.com/redactyl/anonymizer/internal/cache"
)

// resetFlags restores every flag to its default; cobra keeps parsed values
// on the package-level command tree between executions.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	resetFlags(rootCmd)
	// keep the developer's own profiles out of the run
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())

	var out, errOut bytes.Buffer
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), errOut.String(), err
}

func writeTemp(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return p
}

func TestCLI_AnonymizesFileToStdout(t *testing.T) {
	in := writeTemp(t, t.TempDir(), "in.txt", "Card number: 4532 1234 5678 9012")
	out, _, err := run(t, "", "-i", in)
	require.NoError(t, err)
	assert.Equal(t, "Card number: [REDACTED:CARD]", out)
}

func TestCLI_Stdin(t *testing.T) {
	out, _, err := run(t, "mail john@example.com", "-i", "-")
	require.NoError(t, err)
	assert.Contains(t, out, "[MASK:EMAIL:")
	assert.NotContains(t, out, "john@example.com")
}

func TestCLI_OutputFileAndVerbose(t *testing.T) {
	dir := t.TempDir()
	in := writeTemp(t, dir, "in.txt", "Contact john@example.com or call 07700 900123")
	dst := filepath.Join(dir, "out.txt")

	out, errOut, err := run(t, "", "-i", in, "-o", dst, "-v", "--no-color")
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Contains(t, errOut, "EMAIL")
	assert.Contains(t, errOut, "Matches:")
	assert.NotContains(t, errOut, "john@example.com")

	b, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.NotContains(t, string(b), "john@example.com")
}

func TestCLI_MissingInput(t *testing.T) {
	_, _, err := run(t, "", "-i", filepath.Join(t.TempDir(), "nope.txt"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nope.txt")
	assert.Equal(t, 2, exitCode(err))
	assert.Equal(t, 0, exitCode(nil))

	_, _, err = run(t, "")
	require.Error(t, err)
}

func TestCLI_JSONReport(t *testing.T) {
	in := writeTemp(t, t.TempDir(), "in.txt", "mail john@example.com")
	out, _, err := run(t, "", "-i", in, "--json")
	require.NoError(t, err)
	assert.NotContains(t, out, "john@example.com")

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Contains(t, doc, "anonymizedText")
	assert.Contains(t, doc, "summary")
	assert.NotContains(t, doc, "originalText")
}

func TestCLI_StreamMatchesSinglePass(t *testing.T) {
	body := strings.Repeat("Please email john@example.com about the invoice today. ", 40)
	in := writeTemp(t, t.TempDir(), "in.txt", body)

	single, _, err := run(t, "", "-i", in)
	require.NoError(t, err)
	streamed, _, err := run(t, "", "-i", in, "--stream", "--chunk-size", "200")
	require.NoError(t, err)
	assert.NotContains(t, streamed, "john@example.com")
	assert.Equal(t, strings.Count(single, "[MASK:EMAIL:"), strings.Count(streamed, "[MASK:EMAIL:"))
}

func TestCLI_ChunkSizeFromEnvironment(t *testing.T) {
	body := strings.Repeat("Please email john@example.com about the invoice today. ", 40)
	in := writeTemp(t, t.TempDir(), "in.txt", body)
	t.Setenv("ANONYMIZER_CHUNK_SIZE", "150")
	out, _, err := run(t, "", "-i", in, "--stream")
	require.NoError(t, err)
	assert.Equal(t, 40, strings.Count(out, "[MASK:EMAIL:"))
}

func TestCLI_MappingsPersistAcrossRuns(t *testing.T) {
	dir := t.TempDir()
	mappings := filepath.Join(dir, "m.json")
	first := writeTemp(t, dir, "a.txt", "Dr Smith called.")
	second := writeTemp(t, dir, "b.txt", "Dr Jones called. Later Dr Smith wrote.")
	t.Setenv("ANONYMIZER_HMAC_KEY", "test-key")

	out1, _, err := run(t, "", "-i", first, "--mappings", mappings)
	require.NoError(t, err)
	assert.Contains(t, out1, "Person 001")

	out2, _, err := run(t, "", "-i", second, "--mappings", mappings)
	require.NoError(t, err)
	// Smith keeps its label from the first run, Jones gets the next one
	assert.Contains(t, out2, "Person 002")
	assert.Contains(t, out2, "Person 001")
	assert.Less(t, strings.Index(out2, "Person 002"), strings.Index(out2, "Person 001"))

	ms, err := cache.LoadMappings(mappings)
	require.NoError(t, err)
	assert.Len(t, ms, 2)

	show, _, err := run(t, "", "mappings", "show", mappings)
	require.NoError(t, err)
	assert.Contains(t, show, "2 entries")
	assert.Contains(t, show, "Person 002")
}

func TestCLI_AuditLogAndHistory(t *testing.T) {
	dir := t.TempDir()
	in := writeTemp(t, dir, "in.txt", "mail john@example.com")
	logPath := filepath.Join(dir, "audit.jsonl")

	_, _, err := run(t, "", "-i", in, "--audit-log", logPath)
	require.NoError(t, err)

	raw, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "john@example.com")

	records, err := audit.NewAuditLog(logPath).LoadHistory()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, in, records[0].Input)
	assert.Equal(t, 1, records[0].TotalMatches)

	out, _, err := run(t, "", "history", logPath)
	require.NoError(t, err)
	assert.Contains(t, out, records[0].RunID)
}

func TestCLI_ProfileDisablesType(t *testing.T) {
	dir := t.TempDir()
	profile := writeTemp(t, dir, "p.yaml", "entities:\n  EMAIL:\n    enabled: false\n    strategy: MASK\n")
	in := writeTemp(t, dir, "in.txt", "mail john@example.com")

	out, _, err := run(t, "", "-i", in, "-p", profile)
	require.NoError(t, err)
	assert.Equal(t, "mail john@example.com", out)
}

func TestCLI_BadProfileNamesPath(t *testing.T) {
	dir := t.TempDir()
	profile := writeTemp(t, dir, "broken.json", "{")
	in := writeTemp(t, dir, "in.txt", "x")
	_, _, err := run(t, "", "-i", in, "-p", profile)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken.json")
}

func TestCLI_ConfigInitAndShow(t *testing.T) {
	dir := t.TempDir()
	dst := filepath.Join(dir, "profile.yaml")
	out, _, err := run(t, "", "config", "init", "--format", "yaml", "--output", dst)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote")

	_, _, err = run(t, "", "config", "init", "--format", "yaml", "--output", dst)
	require.Error(t, err, "existing file must not be overwritten without --force")

	t.Setenv("ANONYMIZER_HMAC_KEY", "super-secret")
	out, _, err = run(t, "", "config", "show", "-p", dst)
	require.NoError(t, err)
	assert.Contains(t, out, `"locale": "UK"`)
	assert.Contains(t, out, "********")
	assert.NotContains(t, out, "super-secret")

	_, _, err = run(t, "", "config", "show", "--format", "toml")
	require.Error(t, err)
}

func TestCLI_Detectors(t *testing.T) {
	out, _, err := run(t, "", "detectors")
	require.NoError(t, err)
	assert.Contains(t, out, "pattern")
	assert.Contains(t, out, "names")
	assert.Contains(t, out, "PSEUDONYM")
	assert.Contains(t, out, "detector version")
}

func TestCLI_VersionAndCompletion(t *testing.T) {
	out, _, err := run(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "anonymizer 0.1.0")

	out, _, err = run(t, "", "completion", "bash")
	require.NoError(t, err)
	assert.Contains(t, out, "anonymizer")

	_, _, err = run(t, "", "completion", "tcsh")
	assert.True(t, err != nil && !errors.Is(err, os.ErrNotExist))
}
