package anonymizer

import (
	"fmt"
	"runtime/debug"

	"github.com/blang/semver/v4"
	"github.com/spf13/cobra"

	"github.com/redactyl/anonymizer/internal/engine"
)

func init() {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the CLI and rule set versions",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "anonymizer %s (rules %s)\n", cliVersion(), engine.Version)
		},
	}
	rootCmd.AddCommand(cmd)
	rootCmd.Version = cliVersion()
}

// cliVersion normalizes the build version; a module build version
// (go install ...@vX.Y.Z) wins over the default.
func cliVersion() string {
	v := version
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		v = info.Main.Version
	}
	sv, err := semver.ParseTolerant(v)
	if err != nil {
		return v
	}
	return sv.String()
}
