package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newStatusCmd creates the status command.
func (a *App) newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check connectivity to the XSOAR server and artifact store",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			client, err := a.buildClient()
			if err != nil {
				return err
			}

			if err := client.TestConnectivity(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "platform: ok")

			provider, err := cfg.BuildProvider()
			if err != nil {
				return err
			}
			if provider == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "artifact store: not configured")
				return nil
			}
			if err := provider.TestConnection(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "artifact store: ok")
			return nil
		},
	}
}
