package anonymizer

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/redactyl/anonymizer/internal/config"
	"github.com/redactyl/anonymizer/internal/logger"
)

var (
	cfgFormat string
	cfgOutput string
	cfgForce  bool
)

func init() {
	cfgCmd := &cobra.Command{Use: "config", Short: "Profile helpers"}
	rootCmd.AddCommand(cfgCmd)

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the built-in profile to a file for editing",
		Args:  cobra.NoArgs,
		RunE:  runConfigInit,
	}
	initCmd.Flags().StringVar(&cfgFormat, "format", "json", "profile format: json | yaml")
	initCmd.Flags().StringVar(&cfgOutput, "output", "", "output file (default .anonymizer.<format>)")
	initCmd.Flags().BoolVar(&cfgForce, "force", false, "overwrite an existing file")
	cfgCmd.AddCommand(initCmd)

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the resolved profile after repair",
		Args:  cobra.NoArgs,
		RunE:  runConfigShow,
	}
	showCmd.Flags().StringVar(&cfgFormat, "format", "json", "output format: json | yaml")
	cfgCmd.AddCommand(showCmd)
}

func profileFormat() (string, error) {
	switch f := strings.ToLower(cfgFormat); f {
	case "json":
		return f, nil
	case "yaml", "yml":
		return "yaml", nil
	default:
		return "", fmt.Errorf("unsupported format: %s", cfgFormat)
	}
}

func runConfigInit(cmd *cobra.Command, _ []string) error {
	format, err := profileFormat()
	if err != nil {
		return err
	}
	out := cfgOutput
	if out == "" {
		out = ".anonymizer." + format
	}
	if _, err := os.Stat(out); err == nil && !cfgForce {
		return fmt.Errorf("%s already exists (use --force to overwrite)", out)
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	b, err := config.Marshal(config.Default(), format)
	if err != nil {
		return err
	}
	if err := os.WriteFile(out, b, 0644); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Wrote", out)
	return nil
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	format, err := profileFormat()
	if err != nil {
		return err
	}
	cfg, err := loadProfile(logger.Nop())
	if err != nil {
		return err
	}
	// never echo secrets
	if cfg.HMACKey != "" {
		cfg.HMACKey = "********"
	}
	if cfg.Salt != "" {
		cfg.Salt = "********"
	}
	b, err := config.Marshal(cfg, format)
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(b)
	if err == nil && format == "json" {
		fmt.Fprintln(cmd.OutOrStdout())
	}
	return err
}
