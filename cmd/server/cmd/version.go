package cmd

import (
	"encoding/json"
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/agenda-app/server/internal/api"
)

// Set via -ldflags at build time.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var versionJSON bool

func buildInfo() api.BuildInfo {
	return api.BuildInfo{Version: Version, GitCommit: GitCommit, BuildDate: BuildDate}
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build information",
	Long:  "Print build information. With --json the output matches GET /version.",
	RunE: func(cmd *cobra.Command, args []string) error {
		info := buildInfo()
		out := cmd.OutOrStdout()
		if versionJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(struct {
				api.BuildInfo
				GoVersion string `json:"go_version"`
			}{info, runtime.Version()})
		}
		_, err := fmt.Fprintf(out, "agenda %s (commit %s, built %s, %s)\n",
			info.Version, info.GitCommit, info.BuildDate, runtime.Version())
		return err
	},
}

func init() {
	versionCmd.Flags().BoolVar(&versionJSON, "json", false, "print as JSON")
}
