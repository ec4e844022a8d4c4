package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mtaylor99/ChurchRegister-sub001/internal/register"
)

func newMembersCommand() *cobra.Command {
	membersCmd := &cobra.Command{
		Use:   "members",
		Short: "Member directory operations",
	}
	membersCmd.AddCommand(newMembersSeedCommand())
	return membersCmd
}

func newMembersSeedCommand() *cobra.Command {
	var dir string
	var year int

	cmd := &cobra.Command{
		Use:   "seed <members.csv>",
		Short: "Load members and register numbers from a CSV",
		Long: "Loads a CSV of display_name, bank_code, register_number rows into " +
			"the member directory, assigning register numbers for the given year.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(dir)
			if err != nil {
				return err
			}

			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("opening members CSV: %w", err)
			}
			defer f.Close()

			rows, err := register.ReadSeed(f)
			if err != nil {
				return err
			}

			svc := register.NewService(a.store)
			if err := svc.Seed(cmd.Context(), rows, year); err != nil {
				return err
			}

			fmt.Printf("Loaded %d members for %d\n", len(rows), year)
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", ".", "parish register directory")
	cmd.Flags().IntVar(&year, "year", 0, "register year (required)")
	_ = cmd.MarkFlagRequired("year")

	return cmd
}
