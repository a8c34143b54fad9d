package cmd

import "github.com/spf13/cobra"

func RootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "gridroboman",
		Short:        "Train and compare policies on the gridroboman tasks",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return UpdateFlags(cmd)
		},
	}
	AddFlags(cmd)

	cmd.AddCommand(
		TrainCommand(),
		HierarchyCommand(),
		TasksCommand(),
		PlayCommand(),
		ReportCommand(),
	)

	return cmd
}
