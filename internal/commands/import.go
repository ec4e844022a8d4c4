package commands

import (
	"fmt"
	"os"
	"os/user"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mtaylor99/ChurchRegister-sub001/internal/dedup"
	"github.com/mtaylor99/ChurchRegister-sub001/internal/importer"
	"github.com/mtaylor99/ChurchRegister-sub001/internal/matcher"
	"github.com/mtaylor99/ChurchRegister-sub001/internal/register"
	"github.com/mtaylor99/ChurchRegister-sub001/pkg/logging"
)

func newImportCommand() *cobra.Command {
	var dir string
	var format string

	cmd := &cobra.Command{
		Use:   "import <statement.csv>",
		Short: "Import a bank statement export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(dir)
			if err != nil {
				return err
			}

			if format == "" {
				format = a.cfg.Statement.Format
			}
			registry := importer.DefaultRegistry()
			parser := registry.Get(format)
			if parser == nil {
				return fmt.Errorf("unknown statement format %q (known: %s)",
					format, strings.Join(registry.Formats(), ", "))
			}

			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("opening statement: %w", err)
			}
			defer f.Close()

			rows, err := parser.Parse(f)
			if err != nil {
				return err
			}

			reg := register.NewService(a.store)
			svc := importer.NewService(
				a.store,
				dedup.NewDetector(a.store),
				matcher.NewMatcher(reg),
				logging.ForComponent(a.log, "importer"),
				currentUser(),
			)

			summary, err := svc.Import(cmd.Context(), rows)
			if err != nil {
				return err
			}

			printSummary(summary)
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", ".", "parish register directory")
	cmd.Flags().StringVar(&format, "format", "", "statement format (default from config)")

	return cmd
}

func printSummary(s *importer.Summary) {
	fmt.Printf("Rows processed:     %d\n", s.TotalProcessed)
	fmt.Printf("New transactions:   %d\n", s.NewTransactions)
	fmt.Printf("Duplicates skipped: %d\n", s.DuplicatesSkipped)
	fmt.Printf("No money in:        %d\n", s.IgnoredNoMoneyIn)
	fmt.Printf("Matched:            %d\n", s.MatchedTransactions)
	fmt.Printf("Unmatched:          %d\n", s.UnmatchedTransactions)
	fmt.Printf("Ambiguous:          %d\n", s.AmbiguousTransactions)
	fmt.Printf("Amount processed:   %s\n", s.TotalAmountProcessed.StringFixed(2))

	if len(s.UnmatchedReferences) > 0 {
		fmt.Println("\nUnmatched references for manual reconciliation:")
		for _, ref := range s.UnmatchedReferences {
			fmt.Printf("  %s\n", ref)
		}
	}
	if len(s.AmbiguousReferences) > 0 {
		fmt.Println("\nAmbiguous references (multiple member codes match):")
		for _, ref := range s.AmbiguousReferences {
			fmt.Printf("  %s\n", ref)
		}
	}
}

// currentUser names the operator for audit fields.
func currentUser() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	return "unknown"
}
