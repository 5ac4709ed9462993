package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/ripasso/internal/session"
)

var modesCmd = &cobra.Command{
	Use:   "modes",
	Short: "List the available quiz modes",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		reg, err := loadRegistry(cfg)
		if err != nil {
			return err
		}

		if asYAML, _ := cmd.Flags().GetBool("yaml"); asYAML {
			out, err := reg.Marshal()
			if err != nil {
				return fmt.Errorf("marshal modes: %w", err)
			}
			fmt.Print(string(out))
			return nil
		}

		fmt.Printf("%-16s  %-28s  %-8s  %-24s  %-9s  %-8s  %s\n",
			"Name", "Title", "Kind", "Banks", "Questions", "Time", "Pass")
		fmt.Println(strings.Repeat("─", 108))
		for _, m := range reg.All() {
			fmt.Printf("%-16s  %-28s  %-8s  %-24s  %-9s  %-8s  %.0f%%\n",
				m.Name,
				truncate(m.Label(), 28),
				m.Kind,
				truncate(strings.Join(m.Banks, ","), 24),
				questionCount(m),
				session.FormatClock(m.Duration.Round(time.Second)),
				m.PassThreshold*100,
			)
		}
		return nil
	},
}

func init() {
	modesCmd.Flags().Bool("yaml", false, "Print modes as a YAML file usable with --modes")
}

func questionCount(m session.Mode) string {
	if n := m.ExpectedQuestions(); n >= 0 {
		return fmt.Sprint(n)
	}
	return "all"
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
