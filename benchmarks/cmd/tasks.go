package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/zeu5/gridroboman/gridworld"
)

func TasksCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "List the registered task ids",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			for _, k := range gridworld.TaskKinds() {
				fmt.Fprintln(out, gridworld.BaseID(k))
			}
			for _, id := range gridworld.Tasks() {
				fmt.Fprintln(out, id)
			}
		},
	}
	return cmd
}
