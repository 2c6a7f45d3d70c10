package anonymizer

import (
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/redactyl/anonymizer/internal/config"
	"github.com/redactyl/anonymizer/internal/logger"
	"github.com/redactyl/anonymizer/internal/report"
)

func newLogger(cmd *cobra.Command) (*logger.Logger, error) {
	return logger.New(logger.Config{
		Level:  settings.GetString("log-level"),
		Format: settings.GetString("log-format"),
		Output: cmd.ErrOrStderr(),
	})
}

// loadProfile resolves the profile (--profile > local > global > built-in)
// and overlays the environment secrets.
func loadProfile(log *logger.Logger) (config.AnonymizationConfig, error) {
	cwd, err := os.Getwd()
	if err != nil {
		cwd = "."
	}
	cfg, src, err := config.Resolve(settings.GetString("profile"), cwd)
	if err != nil {
		return config.AnonymizationConfig{}, err
	}
	if src == "" {
		log.Debug("no profile found, using built-in defaults")
	} else {
		log.Debug("profile loaded", zap.String("path", src))
	}
	cfg.HMACKey = pickString(settings.GetString("hmac-key"), cfg.HMACKey)
	cfg.Salt = pickString(settings.GetString("salt"), cfg.Salt)
	return cfg, nil
}

func pickString(env, profile string) string {
	if env != "" {
		return env
	}
	return profile
}

func noColor(w io.Writer) bool {
	return settings.GetBool("no-color") || !report.IsTerminal(w)
}
