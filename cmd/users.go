package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/idlidosa1206/Fusion-System-Administrator/internal/bulk"
)

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Bulk account operations against the database",
}

type importOptions struct {
	file   string
	mode   string
	report string
}

type exportOptions struct {
	out    string
	format string
}

func newUsersImportCmd() *cobra.Command {
	var opts importOptions

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import accounts from a CSV roster or export file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUsersImport(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.file, "file", "", "CSV file to import (required)")
	cmd.Flags().StringVar(&opts.mode, "mode", "", "atomic or partial (default from config)")
	cmd.Flags().StringVar(&opts.report, "report", "", "write the JSON import report, generated passwords included, to this path")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newUsersExportCmd() *cobra.Command {
	var opts exportOptions

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export every account as CSV or XLSX",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUsersExport(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.out, "out", "", "output file (default users_export.<format>, - for stdout)")
	cmd.Flags().StringVar(&opts.format, "format", bulk.FormatCSV, "csv or xlsx")
	return cmd
}

func runUsersImport(cmd *cobra.Command, opts importOptions) error {
	if !strings.EqualFold(filepath.Ext(opts.file), ".csv") {
		return fmt.Errorf("%s is not a .csv file", opts.file)
	}

	f, err := os.Open(opts.file)
	if err != nil {
		return err
	}
	defer f.Close()

	cfg, err := loadConfig(configDir)
	if err != nil {
		return err
	}
	app, err := newApp(cfg)
	if err != nil {
		return err
	}
	defer app.Close(context.Background())

	result, err := app.Importer.Import(cmd.Context(), f, opts.mode)
	if err != nil {
		return err
	}

	cmd.Println(result.Message)
	for _, rowErr := range result.Errors {
		cmd.PrintErrf("row %d: %s\n", rowErr.Row, rowErr.Reason)
	}

	if opts.report == "" {
		return nil
	}
	return writeReport(opts.report, result)
}

func writeReport(path string, result *bulk.ImportResult) error {
	out, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	defer out.Close()

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

func runUsersExport(cmd *cobra.Command, opts exportOptions) error {
	format := strings.ToLower(opts.format)
	if opts.out == "" {
		opts.out = bulk.Filename(format)
	}

	cfg, err := loadConfig(configDir)
	if err != nil {
		return err
	}
	app, err := newApp(cfg)
	if err != nil {
		return err
	}
	defer app.Close(context.Background())

	var w io.Writer = cmd.OutOrStdout()
	if opts.out != "-" {
		f, err := os.Create(opts.out)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}

	n, err := app.Exporter.Export(cmd.Context(), w, format)
	if err != nil {
		return err
	}
	if opts.out != "-" {
		cmd.Printf("Exported %d users to %s\n", n, opts.out)
	}
	return nil
}

func init() {
	usersCmd.AddCommand(newUsersImportCmd())
	usersCmd.AddCommand(newUsersExportCmd())
}
