package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/cleared-dev/conciliador/internal/bills"
	"github.com/cleared-dev/conciliador/internal/config"
	"github.com/cleared-dev/conciliador/internal/importer"
	"github.com/cleared-dev/conciliador/internal/reconcile"
	"github.com/cleared-dev/conciliador/internal/review"
)

type reconcileFlags struct {
	billsPath      string
	format         string
	password       string
	includePartial bool
	inbox          bool
}

func newReconcileCommand(g *globalFlags) *cobra.Command {
	f := &reconcileFlags{}

	cmd := &cobra.Command{
		Use:   "reconcile [statement]",
		Short: "Match a bank statement against pending bills",
		Long: `Match a bank statement against pending bills.

With --inbox every statement in the configured inbox directory is
reconciled in name order and moved to inbox/processed on success.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if f.inbox {
				return cobra.NoArgs(cmd, args)
			}
			return cobra.ExactArgs(1)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := g.load(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("bills") {
				cfg.BillsPath = f.billsPath
			}
			if cmd.Flags().Changed("include-partial") {
				cfg.Matching.IncludePartial = f.includePartial
			}

			svc := reconcile.NewService(bills.File{Path: cfg.BillsPath, Log: log}, reconcile.OptionsFromConfig(cfg), log)
			if f.inbox {
				return reconcileInbox(cmd.Context(), cmd.OutOrStdout(), svc, cfg, f, log)
			}

			report, err := reconcileFile(cmd.Context(), svc, args[0], f.password)
			if err != nil {
				return err
			}
			return writeReport(cmd.OutOrStdout(), svc, report, f.format)
		},
	}

	cmd.Flags().StringVar(&f.billsPath, "bills", "", "bills CSV (default from config bills_path)")
	cmd.Flags().StringVar(&f.format, "format", "table", "output format: table, csv or json")
	cmd.Flags().StringVar(&f.password, "password", "", "password for encrypted PDF statements")
	cmd.Flags().BoolVar(&f.includePartial, "include-partial", false, "also match partially paid bills")
	cmd.Flags().BoolVar(&f.inbox, "inbox", false, "reconcile every statement in the inbox directory")

	return cmd
}

func reconcileFile(ctx context.Context, svc *reconcile.Service, path, password string) (*reconcile.Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading statement: %w", err)
	}
	return svc.Reconcile(ctx, filepath.Base(path), data, password)
}

func reconcileInbox(ctx context.Context, out io.Writer, svc *reconcile.Service, cfg *config.Config, f *reconcileFlags, log zerolog.Logger) error {
	files, err := importer.Scan(cfg.Import.Inbox)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Fprintf(out, "No statements in %s\n", cfg.Import.Inbox)
		return nil
	}

	var failed int
	for _, file := range files {
		report, err := reconcileFile(ctx, svc, file.Path, f.password)
		if err != nil {
			log.Error().Err(err).Str("file", file.Name).Msg("statement not reconciled")
			failed++
			continue
		}
		if err := writeReport(out, svc, report, f.format); err != nil {
			return err
		}
		if err := importer.MarkProcessed(cfg.Import.Inbox, file.Name); err != nil {
			return err
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d statements failed", failed, len(files))
	}
	return nil
}

func writeReport(w io.Writer, svc *reconcile.Service, report *reconcile.Report, format string) error {
	entries := review.Entries(report.Candidates, svc.Thresholds())
	switch format {
	case "csv":
		return review.WriteCSV(w, entries)
	case "json":
		return review.WriteJSON(w, review.Document{File: report.File, Entries: entries, Stats: report.Stats})
	case "table":
	default:
		return fmt.Errorf("unknown format %q (want table, csv or json)", format)
	}

	fmt.Fprintf(w, "%s: %d transactions, %d pending bills\n\n", report.File, report.Stats.TotalTransactions, report.PendingBills)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SCORE\tSTATUS\tAUTO\tDATE\tAMOUNT\tBILL\tDESCRIPTION")
	for _, e := range entries {
		date := e.Date
		if date == "" {
			date = "-"
		}
		bill := e.BillReference
		if bill == "" {
			bill = "-"
		}
		auto := ""
		if e.SafeAutoMatch {
			auto = "yes"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n", e.Score, e.Status, auto, date, e.Amount, bill, e.Description)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	s := report.Stats
	fmt.Fprintf(w, "\nMatched %d/%d (high %d, medium %d, low %d, none %d)\n",
		s.TotalMatches, s.TotalTransactions, s.HighConfidence, s.MediumConfidence, s.LowConfidence, s.NoMatch)
	return nil
}
