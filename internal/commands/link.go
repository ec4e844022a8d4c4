package commands

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/mtaylor99/ChurchRegister-sub001/internal/ledger"
	"github.com/mtaylor99/ChurchRegister-sub001/internal/register"
)

func newLinkCommand() *cobra.Command {
	var dir string
	var registerNumber int

	cmd := &cobra.Command{
		Use:   "link <transaction-id>",
		Short: "Manually attribute an unmatched bank transaction to a member",
		Long: "Creates the contribution the importer could not auto-match, linking " +
			"the imported transaction to the member holding the given register " +
			"number for the transaction's year, and marks it processed.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			txnID, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("parsing transaction id %q: %w", args[0], err)
			}

			a, err := openApp(dir)
			if err != nil {
				return err
			}

			txn, err := a.store.GetBankTransaction(cmd.Context(), txnID)
			if err != nil {
				return err
			}

			year := txn.TxnDate.Year()
			reg := register.NewService(a.store)
			member, err := reg.MemberForRegisterNumber(cmd.Context(), registerNumber, year)
			if err != nil {
				return fmt.Errorf("resolving register number %d for %d: %w", registerNumber, year, err)
			}

			svc := ledger.NewService(a.store, currentUser())
			contrib, err := svc.LinkTransaction(cmd.Context(), txnID, member.ID)
			if err != nil {
				return err
			}

			fmt.Printf("Linked %s (%s) to %s as contribution %s\n",
				txn.Reference, txn.Amount.StringFixed(2), member.DisplayName, contrib.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", ".", "parish register directory")
	cmd.Flags().IntVar(&registerNumber, "register", 0, "member register number (required)")
	_ = cmd.MarkFlagRequired("register")

	return cmd
}
