package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newPlaybookCmd creates the playbook command group.
func (a *App) newPlaybookCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "playbook",
		Short: "Manage playbooks on the server",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "download <playbook-id>",
			Short: "Download a playbook's YAML definition",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				client, err := a.buildClient()
				if err != nil {
					return err
				}
				data, err := client.DownloadItem(cmd.Context(), "playbook", args[0])
				if err != nil {
					return err
				}
				_, err = cmd.OutOrStdout().Write(data)
				return err
			},
		},
		&cobra.Command{
			Use:   "attach <playbook-id>",
			Short: "Attach a playbook, protecting it from content updates",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				client, err := a.buildClient()
				if err != nil {
					return err
				}
				if err := client.AttachItem(cmd.Context(), "playbook", args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "attached %s\n", args[0])
				return nil
			},
		},
		&cobra.Command{
			Use:   "detach <playbook-id>",
			Short: "Detach a playbook so content updates apply again",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				client, err := a.buildClient()
				if err != nil {
					return err
				}
				if err := client.DetachItem(cmd.Context(), "playbook", args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "detached %s\n", args[0])
				return nil
			},
		},
	)

	return cmd
}
