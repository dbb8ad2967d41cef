package start

import (
	"github.com/spf13/cobra"
)

func init() {
	Cmd.AddCommand(serverCmd)
}

var Cmd = &cobra.Command{
	Use:   "start",
	Short: "Start a service",
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}
