package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/averycrespi/vooshi/pkg/project"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of vooshi",
		// Skip config loading so version works with a broken config
		PersistentPreRun: func(cmd *cobra.Command, args []string) {},
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", project.Name, project.Version)
		},
	}
}
