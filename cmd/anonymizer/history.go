package anonymizer

import (
	"github.com/spf13/cobra"

	"github.com/redactyl/anonymizer/internal/audit"
	"github.com/redactyl/anonymizer/internal/report"
)

var historyLimit int

func init() {
	cmd := &cobra.Command{
		Use:   "history <audit-log>",
		Short: "List runs recorded in an audit log, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := audit.NewAuditLog(args[0]).LoadHistory()
			if err != nil {
				return err
			}
			if historyLimit > 0 && len(records) > historyLimit {
				records = records[:historyLimit]
			}
			w := cmd.OutOrStdout()
			return report.PrintHistory(w, records, report.PrintOptions{NoColor: noColor(w)})
		},
	}
	cmd.Flags().IntVar(&historyLimit, "limit", 20, "show at most this many runs (0 = all)")
	rootCmd.AddCommand(cmd)
}
