package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"school-library-backend/internal/config"
	"school-library-backend/internal/infrastructure/database"
	"school-library-backend/internal/infrastructure/queue"
	"school-library-backend/pkg/clock"
	"school-library-backend/pkg/container"
	"school-library-backend/pkg/logger"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
)

var verbose bool

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "libctl",
		Short:         "Maintenance commands for the school library backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			env := "production"
			if verbose {
				env = "development"
			}
			logger.Init(env)
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(
		newMigrateCmd(),
		newImportBooksCmd(),
		newAuditLedgerCmd(),
		newOverdueCmd(),
		newHashPasswordCmd(),
	)
	return root
}

// openContainer connects without auto-migrating; only "migrate" changes the schema
func openContainer(ctx context.Context) (*container.Container, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	dbConfig, err := config.LoadDatabaseConfig()
	if err != nil {
		return nil, err
	}
	db, err := container.OpenDatabase(ctx, dbConfig, false)
	if err != nil {
		return nil, err
	}
	return container.New(cfg, db, clock.System()), nil
}

// ========================================
// migrate
// ========================================
func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := openContainer(cmd.Context())
			if err != nil {
				return err
			}
			defer c.Cleanup()

			applied, err := database.Migrate(cmd.Context(), c.DB)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d migration(s) applied\n", applied)
			return nil
		},
	}
}

// ========================================
// import-books
// ========================================
func newImportBooksCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import-books <file.csv|file.xlsx>",
		Short: "Create books from a CSV or XLSX file (all rows or none)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			f, err := os.Open(path)
			if err != nil {
				return err
			}
			defer f.Close()

			c, err := openContainer(cmd.Context())
			if err != nil {
				return err
			}
			defer c.Cleanup()

			svc := c.BulkImportService
			parse := svc.ParseCSV
			switch strings.ToLower(filepath.Ext(path)) {
			case ".csv":
			case ".xlsx":
				parse = svc.ParseXLSX
			default:
				return fmt.Errorf("unsupported file type %q, want .csv or .xlsx", filepath.Ext(path))
			}

			rows, err := parse(f)
			if err != nil {
				return err
			}
			result, err := svc.ImportBooks(cmd.Context(), rows)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if !result.Success {
				w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "ROW\tFIELD\tVALUE\tERROR")
				for _, e := range result.Errors {
					fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", e.Row, e.Field, e.Value, e.Error)
				}
				_ = w.Flush()
				return fmt.Errorf("import rejected: %d of %d rows invalid", result.FailedRows, result.TotalRows)
			}
			fmt.Fprintf(out, "%d book(s) imported\n", result.SuccessRows)
			return nil
		},
	}
}

// ========================================
// audit-ledger
// ========================================
func newAuditLedgerCmd() *cobra.Command {
	var fix, async bool

	cmd := &cobra.Command{
		Use:   "audit-ledger",
		Short: "Compare availability counters with open loans",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			if async {
				cfg, err := config.Load()
				if err != nil {
					return err
				}
				client := queue.NewClient(queue.RedisOpt(cfg.Redis))
				defer client.Close()

				id, err := client.EnqueueLedgerAudit(ctx, fix)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "ledger audit enqueued: %s\n", id)
				return nil
			}

			c, err := openContainer(ctx)
			if err != nil {
				return err
			}
			defer c.Cleanup()

			report, err := c.LedgerService.Audit(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%d book(s) checked, %d drifted\n", report.BooksChecked, len(report.Drifts))

			if len(report.Drifts) > 0 {
				w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "BOOK\tTITLE\tQUANTITY\tAVAILABLE\tLOANS\tEXPECTED")
				for _, d := range report.Drifts {
					fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%d\n",
						d.BookID, d.Title, d.Quantity, d.Available, d.ActiveLoans, d.ExpectedAvailable)
				}
				_ = w.Flush()
			}
			for bookID, n := range report.OrphanLoans {
				fmt.Fprintf(out, "orphan loans: book %s has %d open record(s) but no row\n", bookID, n)
			}

			if !fix {
				return nil
			}
			for _, d := range report.Drifts {
				counts, err := c.LedgerService.Repair(ctx, d.BookID)
				if err != nil {
					fmt.Fprintf(out, "repair %s failed: %v\n", d.BookID, err)
					continue
				}
				fmt.Fprintf(out, "repaired %s: available=%d\n", d.BookID, counts.Available)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&fix, "fix", false, "rewrite drifted counters from open loans")
	cmd.Flags().BoolVar(&async, "async", false, "enqueue the audit on the worker instead of running it here")
	return cmd
}

// ========================================
// overdue
// ========================================
func newOverdueCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "overdue",
		Short: "List open loans past their due date",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := openContainer(cmd.Context())
			if err != nil {
				return err
			}
			defer c.Cleanup()

			items, err := c.ReportService.OverdueItems(cmd.Context())
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "RECORD\tSTUDENT\tBOOK\tDUE\tDAYS")
			for _, it := range items {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\n",
					it.ID, it.StudentName, it.BookTitle, it.DueDate.Format(time.DateOnly), it.DaysOverdue)
			}
			return w.Flush()
		},
	}
}

// ========================================
// hash-password
// ========================================
func newHashPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password <password>",
		Short: "Print a bcrypt hash for LIBRARIAN_PASSWORD_HASH",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := bcrypt.GenerateFromPassword([]byte(args[0]), bcrypt.DefaultCost)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(hash))
			return nil
		},
	}
}
