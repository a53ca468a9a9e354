package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/telekom/ghlogin/pkg/ghctl/output"
	"github.com/telekom/ghlogin/pkg/version"
)

func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show ghlogin version",
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := version.GetBuildInfo()

			rt, _ := getRuntime(cmd)
			writer := cmd.OutOrStdout()
			format := output.FormatTable
			if rt != nil {
				writer = rt.Writer()
				var err error
				if format, err = rt.OutputFormat(); err != nil {
					return err
				}
			}

			switch format {
			case output.FormatJSON, output.FormatYAML:
				return output.WriteObject(writer, format, info)
			default:
				_, _ = fmt.Fprintf(writer, "%s %s (commit: %s, built: %s)\n", version.ApplicationName, info.Version, info.GitCommit, info.BuildDate)
				return nil
			}
		},
	}
}
