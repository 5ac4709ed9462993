package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/ripasso/internal/bank"
)

var explainCmd = &cobra.Command{
	Use:   "explain <bank> <question-id>",
	Short: "Ask the configured LLM to explain a question",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		bankName, id := args[0], args[1]

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		log := cliLogger(cfg)
		st, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		ctx := cmd.Context()
		qs, err := bankSource(cfg, st).Bank(ctx, bankName)
		if err != nil {
			return err
		}
		q, ok := findQuestion(bankName, id, qs)
		if !ok {
			return fmt.Errorf("bank %q has no question %q", bankName, id)
		}

		svc := explainer(ctx, cfg, st, log)
		if !svc.Enabled() {
			return errors.New("no LLM provider configured; set RIPASSO_LLM_PROVIDER and its API key")
		}
		e, err := svc.Explain(ctx, q)
		if err != nil {
			return err
		}

		printQuestion(1, q)
		fmt.Println(e.Summary)
		fmt.Println()
		fmt.Println(e.WhyCorrect)
		if len(e.Distractors) > 0 {
			fmt.Println()
			for _, d := range e.Distractors {
				fmt.Printf("  %s) %s\n", d.Letter, d.Reason)
			}
		}
		return nil
	},
}

// findQuestion matches id against full question IDs and their part after
// the bank prefix.
func findQuestion(bankName, id string, qs []bank.Question) (bank.Question, bool) {
	for _, q := range qs {
		if q.ID == id || q.ID == bankName+"/"+id || q.ID == bankName+"-"+id {
			return q, true
		}
	}
	return bank.Question{}, false
}
