package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/conciliador/internal/importer"
	"github.com/cleared-dev/conciliador/internal/model"
	"github.com/cleared-dev/conciliador/internal/reconcile"
)

func newExtractCommand(g *globalFlags) *cobra.Command {
	var format, password string

	cmd := &cobra.Command{
		Use:   "extract <statement>",
		Short: "Print the normalized transactions of a bank statement",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := g.load(cmd)
			if err != nil {
				return err
			}

			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading statement: %w", err)
			}

			svc := reconcile.NewService(nil, reconcile.OptionsFromConfig(cfg), log)
			txns, err := svc.Extract(cmd.Context(), filepath.Base(args[0]), data, password)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch format {
			case "json":
				return writeJSON(out, importer.FormatTransactionsForSystem(txns))
			case "table":
				return writeTransactionTable(out, txns)
			}
			return fmt.Errorf("unknown format %q (want table or json)", format)
		},
	}

	cmd.Flags().StringVar(&format, "format", "table", "output format: table or json")
	cmd.Flags().StringVar(&password, "password", "", "password for encrypted PDF statements")

	return cmd
}

func writeTransactionTable(w io.Writer, txns []model.Transaction) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tTYPE\tAMOUNT\tREFERENCE\tDESCRIPTION")
	for _, t := range txns {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", formatDate(t), t.Type, t.Amount.String(), t.Reference, t.Description)
	}
	return tw.Flush()
}

func formatDate(t model.Transaction) string {
	if !t.HasDate() {
		return "-"
	}
	return t.Date.Format("2006-01-02")
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
