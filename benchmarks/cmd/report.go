package cmd

import (
	"errors"

	"github.com/spf13/cobra"
	"github.com/zeu5/gridroboman/analysis"
)

func ReportCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report <run-id>",
		Args:  cobra.ExactArgs(1),
		Short: "Summarize a run recorded with --db",
		RunE: func(cmd *cobra.Command, args []string) error {
			if flags.DBPath == "" {
				return errors.New("report needs --db")
			}
			store, err := analysis.OpenStore(flags.DBPath)
			if err != nil {
				return err
			}
			defer store.Close()
			return printSummaries(store, args[0])
		},
	}
	return cmd
}
