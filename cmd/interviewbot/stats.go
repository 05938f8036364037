package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"interviewbot/internal/summarizer"
)

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show a digest of the question dataset",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd, false, false)
			if err != nil {
				return err
			}
			defer a.Close()
			top, _ := cmd.Flags().GetInt("top")
			fmt.Fprintln(cmd.OutOrStdout(), summarizer.NewLabelSummarizer().Summarize(a.corpus, top))
			return nil
		},
	}
	cmd.Flags().Int("top", 5, "Labels listed per field")
	return cmd
}
