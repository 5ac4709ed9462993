package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/ripasso/internal/session"
	"github.com/abhisek/ripasso/internal/store"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show finished quizzes",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		mode, _ := cmd.Flags().GetString("mode")

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		st, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		ctx := cmd.Context()
		results, err := st.Results().Recent(ctx, store.ResultQuery{Mode: mode, Limit: limit})
		if err != nil {
			return err
		}
		if len(results) == 0 {
			fmt.Println("No finished quizzes found.")
			return nil
		}

		sums, err := st.Results().Summaries(ctx)
		if err != nil {
			return err
		}
		for _, s := range sums {
			if mode != "" && s.Mode != mode {
				continue
			}
			fmt.Printf("%-16s  %d attempt(s), %d passed, best %d/%d\n",
				s.Mode, s.Attempts, s.Passed, s.BestScore, s.MaxScore)
		}
		fmt.Println()

		fmt.Printf("%-16s  %-16s  %-9s  %-7s  %-7s  %-8s  %-13s  %s\n",
			"Finished", "Mode", "Score", "Correct", "Wrong", "Time", "Ended", "Result")
		fmt.Println(strings.Repeat("─", 100))
		for _, r := range results {
			verdict := "PASS"
			if !r.Passed {
				verdict = "FAIL"
			}
			fmt.Printf("%-16s  %-16s  %-9s  %-7d  %-7d  %-8s  %-13s  %s\n",
				r.FinishedAt.Local().Format("2006-01-02 15:04"),
				truncate(r.Mode, 16),
				fmt.Sprintf("%d/%d", r.Score, r.MaxScore),
				r.Correct,
				r.Incorrect,
				session.FormatClock(r.FinishedAt.Sub(r.StartedAt)),
				r.Termination,
				verdict,
			)
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().Int("limit", 20, "Maximum number of quizzes to show")
	historyCmd.Flags().String("mode", "", "Only show quizzes of this mode")
}
