package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/taskgraph/internal/ux"
	"github.com/felixgeelhaar/taskgraph/internal/version"
)

func newVersionCmd() *cobra.Command {
	var (
		verbose bool
		asJSON  bool
	)
	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long: `Print version information including version number, git commit,
build date, Go version, and platform.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := version.GetInfo()
			out := cmd.OutOrStdout()

			if asJSON {
				f, err := ux.NewFormatter("json", &ux.FormatterOptions{Writer: out})
				if err != nil {
					return err
				}
				return f.Format(info)
			}
			if verbose {
				_, err := fmt.Fprintln(out, info.String())
				return err
			}
			_, err := fmt.Fprintf(out, "taskgraph %s\n", info.Version)
			return err
		},
	}

	versionCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "show detailed version information")
	versionCmd.Flags().BoolVar(&asJSON, "json", false, "output version information as JSON")
	return versionCmd
}
