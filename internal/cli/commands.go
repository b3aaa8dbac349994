package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/xuri/excelize/v2"

	"github.com/timlee789/account/internal/importer"
	"github.com/timlee789/account/internal/ledger"
	"github.com/timlee789/account/internal/logger"
	"github.com/timlee789/account/internal/report"
)

var (
	importTarget        string
	importAccountSource string
	exportOut           string
	summaryMonth        string
)

var importCmd = &cobra.Command{
	Use:   "import <file.csv>",
	Short: "Import a bank, card or invoice CSV export",
	Long: `Import reads a CSV export, detects its format from the header row and
stores every row that normalizes. Rows that fail are listed with their
row number; the rest of the file is still imported.

Example:
  account import truist_march.csv --target ledger
  account import "US Foods 03-14.csv" --target invoice`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

var exportCmd = &cobra.Command{
	Use:       "export <sales|ledger>",
	Short:     "Write the sales register or the ledgers to a spreadsheet",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"sales", "ledger"},
	RunE:      runExport,
}

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print the dashboard summary as JSON",
	RunE:  runSummary,
}

var recomputeCmd = &cobra.Command{
	Use:   "recompute-sales",
	Short: "Rewrite every sales total from its channels",
	RunE:  runRecompute,
}

func init() {
	importCmd.Flags().StringVar(&importTarget, "target", "", "tab the file belongs on: ledger, credit_card or invoice (default: detect)")
	importCmd.Flags().StringVar(&importAccountSource, "account-source", "", "override the account name stored on each row")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "output file, .xlsx or .csv (default: export dir)")
	summaryCmd.Flags().StringVar(&summaryMonth, "month", "", "month as YYYY-MM (default: all time)")
}

func newStore(a *app) *ledger.Store {
	return ledger.NewStore(a.db, a.log.With("component", logger.ComponentStore))
}

func runImport(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	dup, err := ledger.ParseDuplicatePolicy(a.cfg.Import.DuplicatePolicy)
	if err != nil {
		return err
	}
	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	im := importer.New(newStore(a), dup, a.log.With("component", logger.ComponentImport))
	res, err := im.Import(cmd.Context(), f, importer.Options{
		Target:        importTarget,
		FileName:      filepath.Base(args[0]),
		AccountSource: importAccountSource,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, res.Message)
	for _, s := range res.Skipped {
		fmt.Fprintf(out, "  row %d: %s\n", s.Row, s.Reason)
	}
	for _, w := range res.Warnings {
		fmt.Fprintf(out, "  warning: %s\n", w)
	}
	return nil
}

func runExport(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	what := args[0]
	path := exportOut
	if path == "" {
		if err := os.MkdirAll(a.cfg.Export.Dir, 0o755); err != nil {
			return fmt.Errorf("create export dir: %w", err)
		}
		path = filepath.Join(a.cfg.Export.Dir, fmt.Sprintf("%s_%s.xlsx", what, time.Now().Format("20060102")))
	}

	store := newStore(a)
	ctx := cmd.Context()
	var book *excelize.File
	switch what {
	case "sales":
		rows, err := store.ListSales(ctx)
		if err != nil {
			return err
		}
		rollup := ledger.MonthlySalesRollup(rows)
		if strings.EqualFold(filepath.Ext(path), ".csv") {
			return writeCSV(path, func(f *os.File) error { return report.WriteSalesCSV(f, rollup) })
		}
		if book, err = report.SalesWorkbook(rollup); err != nil {
			return err
		}
	case "ledger":
		txns, err := store.ListTransactions(ctx)
		if err != nil {
			return err
		}
		cards, err := store.ListCreditCards(ctx)
		if err != nil {
			return err
		}
		cash, err := store.ListCash(ctx)
		if err != nil {
			return err
		}
		if book, err = report.LedgerWorkbook(txns, cards, cash); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown export %q: want sales or ledger", what)
	}
	defer book.Close()

	if err := book.SaveAs(path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	a.log.With("component", logger.ComponentCLI).Info("export written", "kind", what, "path", path)
	fmt.Fprintln(cmd.OutOrStdout(), path)
	return nil
}

func writeCSV(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func runSummary(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	balance, err := ledger.NewBalancePolicy(a.cfg.Dashboard.BalancePolicy)
	if err != nil {
		return err
	}
	agg := ledger.NewAggregator(a.db, ledger.Policy{SalesAuthoritative: a.cfg.Dashboard.SalesAuthoritative}, balance)
	sum, err := agg.DashboardSummary(cmd.Context(), summaryMonth)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(sum)
}

func runRecompute(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	n, err := newStore(a).RecomputeSalesTotals(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%d sales totals corrected\n", n)
	return nil
}
