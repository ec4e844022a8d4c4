package commands

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/mtaylor99/ChurchRegister-sub001/internal/envelope"
	"github.com/mtaylor99/ChurchRegister-sub001/internal/register"
	"github.com/mtaylor99/ChurchRegister-sub001/pkg/logging"
)

const batchDateFormat = "2006-01-02"

func newBatchCommand() *cobra.Command {
	batchCmd := &cobra.Command{
		Use:   "batch",
		Short: "Envelope batch operations",
	}
	batchCmd.AddCommand(newBatchSubmitCommand())
	batchCmd.AddCommand(newBatchShowCommand())
	return batchCmd
}

func newBatchSubmitCommand() *cobra.Command {
	var dir string
	var dateStr string

	cmd := &cobra.Command{
		Use:   "submit <envelopes.csv>",
		Short: "Commit an envelope batch for one collection date",
		Long: "Reads a CSV of register_number, amount rows and commits them as " +
			"one immutable envelope batch. The whole batch is rejected if any " +
			"row is invalid or the date already has a batch.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := time.Parse(batchDateFormat, dateStr)
			if err != nil {
				return fmt.Errorf("parsing date %q: %w", dateStr, err)
			}

			entries, err := readEnvelopeCSV(args[0])
			if err != nil {
				return err
			}

			a, err := openApp(dir)
			if err != nil {
				return err
			}

			svc := envelope.NewService(
				a.store,
				register.NewService(a.store),
				logging.ForComponent(a.log, "envelope"),
				currentUser(),
			)

			result, err := svc.Submit(cmd.Context(), date, entries)
			if err != nil {
				return err
			}

			fmt.Printf("Batch %s committed for %s: %d envelopes, total %s\n",
				result.BatchID, result.BatchDate.Format(batchDateFormat),
				result.EnvelopeCount, result.TotalAmount.StringFixed(2))
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", ".", "parish register directory")
	cmd.Flags().StringVar(&dateStr, "date", "", "collection date, YYYY-MM-DD (required)")
	_ = cmd.MarkFlagRequired("date")

	return cmd
}

func newBatchShowCommand() *cobra.Command {
	var dir string
	var dateStr string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the committed batch for a collection date",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := time.Parse(batchDateFormat, dateStr)
			if err != nil {
				return fmt.Errorf("parsing date %q: %w", dateStr, err)
			}

			a, err := openApp(dir)
			if err != nil {
				return err
			}

			batch, items, err := a.store.GetBatchByDate(cmd.Context(), date)
			if err != nil {
				return err
			}

			fmt.Printf("Batch %s (%s), %d envelopes, total %s\n",
				batch.ID, batch.BatchDate.Format(batchDateFormat),
				batch.EnvelopeCount, batch.TotalAmount.StringFixed(2))
			for _, c := range items {
				fmt.Printf("  %s  %s\n", c.Reference, c.Amount.StringFixed(2))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", ".", "parish register directory")
	cmd.Flags().StringVar(&dateStr, "date", "", "collection date, YYYY-MM-DD (required)")
	_ = cmd.MarkFlagRequired("date")

	return cmd
}

// readEnvelopeCSV reads register_number, amount rows (with header).
func readEnvelopeCSV(path string) ([]envelope.Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening envelopes CSV: %w", err)
	}
	defer f.Close()

	cr := csv.NewReader(f)
	cr.FieldsPerRecord = 2

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading envelopes CSV: %w", err)
	}
	if len(records) <= 1 {
		return nil, nil
	}

	var entries []envelope.Entry
	for i, rec := range records[1:] {
		regNum, err := strconv.Atoi(rec[0])
		if err != nil {
			return nil, fmt.Errorf("row %d: parsing register number %q: %w", i+2, rec[0], err)
		}
		amount, err := decimal.NewFromString(rec[1])
		if err != nil {
			return nil, fmt.Errorf("row %d: parsing amount %q: %w", i+2, rec[1], err)
		}
		entries = append(entries, envelope.Entry{RegisterNumber: regNum, Amount: amount})
	}
	return entries, nil
}
