package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"interviewbot/internal/summarizer"
	"interviewbot/internal/tui"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "interviewbot",
		Short:         "Classify interview questions and find similar ones",
		Long:          "interviewbot predicts the topic, difficulty and company of an interview or OA question and lists similar questions from a dataset.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runTUI,
	}
	root.PersistentFlags().String("config", "", "Path to YAML config file (default ./config.yaml, then ~/.config/interviewbot/config.yaml)")
	root.PersistentFlags().String("corpus", "", "Path or glob of the question dataset (overrides config)")
	root.PersistentFlags().Float64("threshold", -1, "Similarity threshold below which labels are reported as Unknown (overrides config)")

	root.AddCommand(&cobra.Command{
		Use:   "run",
		Short: "Start the interactive terminal UI",
		Args:  cobra.NoArgs,
		RunE:  runTUI,
	})
	root.AddCommand(newAskCmd())
	root.AddCommand(newStatsCmd())
	return root
}

func runTUI(cmd *cobra.Command, args []string) error {
	a, err := bootstrap(cmd, true)
	if err != nil {
		return err
	}
	defer a.Close()
	summary := summarizer.NewLabelSummarizer().Summarize(a.engine.Corpus(), 3)
	m := tui.New(a.engine, summary)
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}
