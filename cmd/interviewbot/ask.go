package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"interviewbot/internal/domain"
)

func newAskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Classify a single question and print similar ones",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap(cmd, false)
			if err != nil {
				return err
			}
			defer a.Close()
			res, err := a.engine.Resolve(strings.Join(args, " "))
			if err != nil {
				return err
			}
			if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
				return writeJSON(cmd.OutOrStdout(), res)
			}
			writeText(cmd.OutOrStdout(), res)
			return nil
		},
	}
	cmd.Flags().Bool("json", false, "Print the result as JSON")
	return cmd
}

type resultJSON struct {
	Topic          string   `json:"topic"`
	Difficulty     string   `json:"difficulty"`
	Company        string   `json:"company"`
	BestMatchText  string   `json:"best_match_text"`
	BestMatchScore float64  `json:"best_match_score"`
	Similar        []string `json:"similar,omitempty"`
}

func toJSON(res *domain.QueryResult) resultJSON {
	out := resultJSON{
		Topic:          res.Topic,
		Difficulty:     res.Difficulty,
		Company:        res.Company.String(),
		BestMatchText:  res.BestMatch.Question.Text,
		BestMatchScore: res.BestMatch.Score,
	}
	for _, m := range res.Similar {
		out.Similar = append(out.Similar, m.Question.Text)
	}
	return out
}

func writeJSON(w io.Writer, res *domain.QueryResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(toJSON(res))
}

func writeText(w io.Writer, res *domain.QueryResult) {
	if !res.Confident {
		fmt.Fprintln(w, "No exact question found in the database.")
		fmt.Fprintf(w, "Closest question found (similarity %.2f): %s\n", res.BestMatch.Score, res.BestMatch.Question.Text)
		fmt.Fprintf(w, "Topic: %s\nDifficulty: %s\nCompany: %s\n", res.Topic, res.Difficulty, res.Company)
		return
	}
	fmt.Fprintf(w, "Topic: %s\nDifficulty: %s\n", res.Topic, res.Difficulty)
	if company, ok := res.Company.Label(); ok {
		fmt.Fprintf(w, "Company: %s\n", company)
	} else {
		fmt.Fprintln(w, "Company prediction unavailable.")
	}
	fmt.Fprintf(w, "Best match (%.2f): %s\n", res.BestMatch.Score, res.BestMatch.Question.Text)
	fmt.Fprintln(w, "Similar questions:")
	for i, m := range res.Similar {
		fmt.Fprintf(w, "  %d. %s (%.2f)\n", i+1, m.Question.Text, m.Score)
	}
}
