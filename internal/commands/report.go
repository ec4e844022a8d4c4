package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mtaylor99/ChurchRegister-sub001/internal/ledger"
	"github.com/mtaylor99/ChurchRegister-sub001/internal/model"
	"github.com/mtaylor99/ChurchRegister-sub001/internal/register"
)

func newReportCommand() *cobra.Command {
	reportCmd := &cobra.Command{
		Use:   "report",
		Short: "Contribution reports",
	}
	reportCmd.AddCommand(newReportRangeCommand())
	reportCmd.AddCommand(newReportStatementCommand())
	reportCmd.AddCommand(newReportUnreconciledCommand())
	return reportCmd
}

func newReportRangeCommand() *cobra.Command {
	var dir string
	var fromStr, toStr, typeStr string

	cmd := &cobra.Command{
		Use:   "range",
		Short: "Total contributions over a date range",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := time.Parse(batchDateFormat, fromStr)
			if err != nil {
				return fmt.Errorf("parsing from date %q: %w", fromStr, err)
			}
			to, err := time.Parse(batchDateFormat, toStr)
			if err != nil {
				return fmt.Errorf("parsing to date %q: %w", toStr, err)
			}

			a, err := openApp(dir)
			if err != nil {
				return err
			}

			svc := ledger.NewService(a.store, currentUser())
			total, err := svc.SumInRange(cmd.Context(), from, to, model.ContributionType(typeStr))
			if err != nil {
				return err
			}

			fmt.Printf("Contributions %s to %s: %s\n", fromStr, toStr, total.StringFixed(2))
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", ".", "parish register directory")
	cmd.Flags().StringVar(&fromStr, "from", "", "start date, YYYY-MM-DD (required)")
	cmd.Flags().StringVar(&toStr, "to", "", "end date, YYYY-MM-DD (required)")
	cmd.Flags().StringVar(&typeStr, "type", "", "contribution type (Cash or Transfer; default all)")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")

	return cmd
}

func newReportStatementCommand() *cobra.Command {
	var dir string
	var registerNumber, year int

	cmd := &cobra.Command{
		Use:   "statement",
		Short: "Annual giving statement for one member",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(dir)
			if err != nil {
				return err
			}

			reg := register.NewService(a.store)
			member, err := reg.MemberForRegisterNumber(cmd.Context(), registerNumber, year)
			if err != nil {
				return fmt.Errorf("resolving register number %d for %d: %w", registerNumber, year, err)
			}

			svc := ledger.NewService(a.store, currentUser())
			stmt, err := svc.StatementForMember(cmd.Context(), member.ID, year)
			if err != nil {
				return err
			}

			fmt.Printf("Giving statement for %s, %d\n", stmt.Member.DisplayName, stmt.Year)
			for _, c := range stmt.Contributions {
				fmt.Printf("  %s  %-10s %8s  %s\n",
					c.ContributionDate.Format(batchDateFormat), c.Type,
					c.Amount.StringFixed(2), c.Reference)
			}
			fmt.Printf("Total: %s\n", stmt.Total.StringFixed(2))
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", ".", "parish register directory")
	cmd.Flags().IntVar(&registerNumber, "register", 0, "member register number (required)")
	cmd.Flags().IntVar(&year, "year", 0, "statement year (required)")
	_ = cmd.MarkFlagRequired("register")
	_ = cmd.MarkFlagRequired("year")

	return cmd
}

func newReportUnreconciledCommand() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "unreconciled",
		Short: "List imported transactions awaiting manual reconciliation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(dir)
			if err != nil {
				return err
			}

			svc := ledger.NewService(a.store, currentUser())
			txns, err := svc.Unreconciled(cmd.Context())
			if err != nil {
				return err
			}

			if len(txns) == 0 {
				fmt.Println("No unreconciled transactions")
				return nil
			}
			for _, txn := range txns {
				fmt.Printf("%s  %8s  %-30s %s\n",
					txn.TxnDate.Format(batchDateFormat), txn.Amount.StringFixed(2),
					txn.Description, txn.Reference)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", ".", "parish register directory")

	return cmd
}
