package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/ripasso/internal/bank"
)

var banksCmd = &cobra.Command{
	Use:   "banks",
	Short: "Manage question banks",
}

var banksListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every bank the quiz can draw from",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		st, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		infos, err := bankSource(cfg, st).List(cmd.Context())
		if err != nil {
			return fmt.Errorf("list banks: %w", err)
		}
		if len(infos) == 0 {
			fmt.Println("No banks found.")
			return nil
		}

		fmt.Printf("%-20s  %-32s  %-9s  %s\n", "Name", "Title", "Questions", "Origin")
		fmt.Println(strings.Repeat("─", 80))
		for _, info := range infos {
			if info.Err != nil {
				fmt.Printf("%-20s  %-32s  %-9s  %s\n", info.Name, "unreadable: "+truncate(info.Err.Error(), 20), "-", info.Origin)
				continue
			}
			fmt.Printf("%-20s  %-32s  %-9d  %s\n", info.Name, truncate(info.Title, 32), info.Count, info.Origin)
		}
		return nil
	},
}

var banksImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Validate a bank file and store it in the database",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("name")
		if name == "" {
			name = strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
		}
		f, err := readBankFile(name, args[0])
		if err != nil {
			return err
		}

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

		if err := st.Banks().Import(cmd.Context(), name, f); err != nil {
			return fmt.Errorf("import bank: %w", err)
		}
		log.Info().Str("bank", name).Int("questions", len(f.Questions)).Msg("bank imported")
		fmt.Printf("Imported %d question(s) into bank %q.\n", len(f.Questions), name)
		return nil
	},
}

var banksCheckCmd = &cobra.Command{
	Use:   "check <file>",
	Short: "Validate a bank file without importing it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
		f, err := readBankFile(name, args[0])
		if err != nil {
			return err
		}
		title := f.Title
		if title == "" {
			title = name
		}
		fmt.Printf("%s: %d question(s), OK\n", title, len(f.Questions))
		return nil
	},
}

var banksShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Print the questions of a bank with their answers",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		st, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		qs, err := bankSource(cfg, st).Bank(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		for i, q := range qs {
			printQuestion(i+1, q)
		}
		return nil
	},
}

var banksRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Delete an imported bank from the database",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		st, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.Banks().Delete(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Printf("Removed bank %q.\n", args[0])
		return nil
	},
}

func init() {
	banksImportCmd.Flags().String("name", "", "Bank name (default: file name without extension)")

	banksCmd.AddCommand(banksListCmd)
	banksCmd.AddCommand(banksImportCmd)
	banksCmd.AddCommand(banksCheckCmd)
	banksCmd.AddCommand(banksShowCmd)
	banksCmd.AddCommand(banksRemoveCmd)
}

func readBankFile(name, path string) (*bank.File, error) {
	if !bank.ValidName(name) {
		return nil, fmt.Errorf("invalid bank name %q", name)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read bank file: %w", err)
	}
	f, err := bank.Parse(name, data)
	if err != nil {
		return nil, err
	}
	return f, nil
}

func printQuestion(n int, q bank.Question) {
	fmt.Printf("%d. [%s] %s\n", n, q.ID, q.Text)
	for _, opt := range q.Options {
		mark := " "
		if q.IsCorrect(opt.Letter) {
			mark = "✓"
		}
		fmt.Printf("   %s %s) %s\n", mark, opt.Letter, opt.Text)
	}
	if q.Explanation != "" {
		fmt.Printf("   Explanation: %s\n", q.Explanation)
	}
	fmt.Println()
}
