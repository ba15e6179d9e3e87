package cli

import (
	"fmt"
	"io"
	"runtime"

	"github.com/spf13/cobra"
)

type versionInfo struct {
	Version string `json:"version"`
	Go      string `json:"go"`
	API     string `json:"api"`
}

func newVersionCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the client version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			v := versionInfo{Version: a.opts.Version, Go: runtime.Version(), API: a.opts.Config.APIURL}
			if v.Version == "" {
				v.Version = "dev"
			}
			return a.out.print(v, func(w io.Writer) {
				fmt.Fprintf(w, "%s %s (%s)\n", programName, v.Version, v.Go)
				fmt.Fprintf(w, "backend:\t%s\n", v.API)
			})
		},
	}
}
