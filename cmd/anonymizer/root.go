package anonymizer

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/redactyl/anonymizer/internal/engine"
)

var (
	flagInput     string
	flagOutput    string
	flagProfile   string
	flagStream    bool
	flagChunkSize int
	flagVerbose   bool
	flagJSON      bool
	flagMappings  string
	flagAuditLog  string
	flagLogLevel  string
	flagLogFormat string
	flagNoColor   bool

	version = "0.1.0"
)

// settings layers ANONYMIZER_* environment variables under the flags.
// Flag names map to variables by upper-casing and replacing '-' with '_'.
var settings = newSettings()

func newSettings() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("ANONYMIZER")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	// secrets are environment-only so they stay out of shell history
	_ = v.BindEnv("hmac-key")
	_ = v.BindEnv("salt")
	return v
}

// rootCmd anonymizes one input when run without a subcommand.
var rootCmd = &cobra.Command{
	Use:   "anonymizer",
	Short: "Detect and anonymize PII in text",
	Long: "anonymizer finds personal data (names, emails, phone numbers, cards, national identifiers...) " +
		"in a text file and replaces each value according to a per-type policy: redact, mask, hash or pseudonymize.",
	Example: `  anonymizer -i notes.txt -o notes.safe.txt
  anonymizer -i big.log --stream --chunk-size 20000 -v
  cat notes.txt | anonymizer -i - --mappings .anonymizer-mappings.json`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runAnonymize,
}

// Execute runs the CLI. It should be called by the main package.
func Execute() {
	os.Exit(exitCode(rootCmd.Execute()))
}

func exitCode(err error) int {
	if err == nil {
		return 0
	}
	fmt.Fprintln(os.Stderr, "error:", err)
	return 2
}

func init() {
	rootCmd.Flags().StringVarP(&flagInput, "input", "i", "", "input file (- for stdin)")
	rootCmd.Flags().StringVarP(&flagOutput, "output", "o", "", "output file (default stdout)")
	rootCmd.Flags().BoolVar(&flagStream, "stream", false, "process the input in chunks")
	rootCmd.Flags().IntVar(&flagChunkSize, "chunk-size", engine.DefaultChunkSize, "chunk size in bytes for --stream")
	rootCmd.Flags().BoolVarP(&flagVerbose, "verbose", "v", false, "print a summary table to stderr")
	rootCmd.Flags().BoolVar(&flagJSON, "json", false, "emit a JSON report (values redacted) instead of plain text")
	rootCmd.Flags().StringVar(&flagMappings, "mappings", "", "pseudonym mapping file, loaded before and saved after the run")
	rootCmd.Flags().StringVar(&flagAuditLog, "audit-log", "", "append a JSONL audit record for this run")

	rootCmd.PersistentFlags().StringVarP(&flagProfile, "profile", "p", "", "profile file (JSON or YAML); default: local, then global, then built-in")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "warn", "log level: debug|info|warn|error")
	rootCmd.PersistentFlags().StringVar(&flagLogFormat, "log-format", "console", "log format: console|json")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "disable colorized output")

	_ = settings.BindPFlags(rootCmd.Flags())
	_ = settings.BindPFlags(rootCmd.PersistentFlags())
}
