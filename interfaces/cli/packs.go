package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// newPacksCmd creates the packs command group.
func (a *App) newPacksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "packs",
		Short: "Inspect and deploy content packs",
	}
	cmd.AddCommand(
		a.newPacksListCmd(),
		a.newPacksOutdatedCmd(),
		a.newPacksDeployCmd(),
	)
	return cmd
}

// newPacksListCmd creates the packs list command.
func (a *App) newPacksListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List installed content packs",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.buildClient()
			if err != nil {
				return err
			}
			installed, err := client.InstalledPacks(cmd.Context())
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tVERSION\tAUTHOR")
			for _, p := range installed {
				fmt.Fprintf(w, "%s\t%s\t%s\n", p.ID, p.CurrentVersion, p.Author)
			}
			return w.Flush()
		},
	}
}

// newPacksOutdatedCmd creates the packs outdated command.
func (a *App) newPacksOutdatedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "outdated",
		Short: "Report installed packs with newer versions available",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.buildClient()
			if err != nil {
				return err
			}
			report, err := client.OutdatedPacks(cmd.Context())
			if err != nil {
				return err
			}
			if len(report) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "all packs up to date")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tCURRENT\tLATEST\tAUTHOR")
			for _, entry := range report {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", entry.ID, entry.CurrentVersion, entry.Latest, entry.Author)
			}
			return w.Flush()
		},
	}
}

// newPacksDeployCmd creates the packs deploy command.
func (a *App) newPacksDeployCmd() *cobra.Command {
	var custom bool

	cmd := &cobra.Command{
		Use:   "deploy <pack-id> <version>",
		Short: "Download a pack and install it on the server",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.buildClient()
			if err != nil {
				return err
			}
			if err := client.DeployPack(cmd.Context(), args[0], args[1], custom); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deployed %s %s\n", args[0], args[1])
			return nil
		},
	}
	cmd.Flags().BoolVar(&custom, "custom", false, "Source the pack from the private artifact store")
	return cmd
}
