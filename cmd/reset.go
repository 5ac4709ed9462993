package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete quiz history and cached explanations",
	RunE: func(cmd *cobra.Command, args []string) error {
		history, _ := cmd.Flags().GetBool("history")
		explanations, _ := cmd.Flags().GetBool("explanations")
		if !history && !explanations {
			history, explanations = true, true
		}

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
		if history {
			n, err := st.Results().Clear(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("Deleted %d quiz result(s).\n", n)
		}
		if explanations {
			n, err := st.Explanations().Clear(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("Deleted %d cached explanation(s).\n", n)
		}
		return nil
	},
}

func init() {
	resetCmd.Flags().Bool("history", false, "Only delete quiz history")
	resetCmd.Flags().Bool("explanations", false, "Only delete cached explanations")
}
