package anonymizer

import (
	"fmt"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/redactyl/anonymizer/internal/cache"
)

func init() {
	cmd := &cobra.Command{Use: "mappings", Short: "Inspect pseudonym mapping files"}
	rootCmd.AddCommand(cmd)

	show := &cobra.Command{
		Use:   "show <file>",
		Short: "List the labels stored in a mapping file",
		Args:  cobra.ExactArgs(1),
		RunE:  runMappingsShow,
	}
	cmd.AddCommand(show)
}

func runMappingsShow(cmd *cobra.Command, args []string) error {
	st, err := cache.Load(args[0])
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "%s: version %s, saved %s, %d entries\n",
		args[0], st.Version, st.SavedAt.Local().Format("2006-01-02 15:04:05"), len(st.Mappings))
	if len(st.Mappings) == 0 {
		return nil
	}
	table := tablewriter.NewWriter(w)
	table.Header("Type", "Label", "First seen")
	for _, m := range st.Mappings {
		row := []string{string(m.Type), m.Label, m.FirstSeenAt.Local().Format("2006-01-02 15:04:05")}
		if err := table.Append(row); err != nil {
			return err
		}
	}
	return table.Render()
}
