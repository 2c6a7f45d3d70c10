package anonymizer

import (
	"fmt"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/redactyl/anonymizer/internal/engine"
	"github.com/redactyl/anonymizer/internal/logger"
	"github.com/redactyl/anonymizer/internal/policy"
)

func init() {
	cmd := &cobra.Command{
		Use:   "detectors",
		Short: "List detectors and the entity policy of the resolved profile",
		Args:  cobra.NoArgs,
		RunE:  runDetectors,
	}
	rootCmd.AddCommand(cmd)
}

func runDetectors(cmd *cobra.Command, _ []string) error {
	cfg, err := loadProfile(logger.Nop())
	if err != nil {
		return err
	}
	p, err := engine.New(cfg, nil)
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()
	for _, name := range p.DetectorNames() {
		fmt.Fprintln(w, name)
	}
	fmt.Fprintln(w)

	table := tablewriter.NewWriter(w)
	table.Header("Entity", "Enabled", "Strategy", "Threshold")
	cfg = p.Config()
	enabled := map[string]bool{}
	for _, t := range policy.Enabled(cfg) {
		enabled[string(t)] = true
	}
	for _, t := range policy.Types(cfg) {
		ec, _ := cfg.Entity(t)
		threshold := "-"
		if v, ok := ec.Threshold(); ok {
			threshold = fmt.Sprintf("%.2f", v)
		}
		if err := table.Append([]string{string(t), fmt.Sprint(enabled[string(t)]), string(ec.Strategy), threshold}); err != nil {
			return err
		}
	}
	if err := table.Render(); err != nil {
		return err
	}
	fmt.Fprintf(w, "detector version %s\n", p.DetectorVersion())
	return nil
}
