package bulk

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"

	"github.com/xuri/excelize/v2"

	errors "github.com/idlidosa1206/Fusion-System-Administrator/internal"
)

const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"

	exportSheet = "Users"
)

// Source streams user rows in the store's natural order.
type Source interface {
	EachUser(ctx context.Context, fn func(ExportRow) error) error
}

type Exporter struct {
	source Source
	logger *slog.Logger
}

func NewExporter(source Source, logger *slog.Logger) *Exporter {
	return &Exporter{source: source, logger: logger}
}

// Filename is the attachment name for a download in the given format.
func Filename(format string) string {
	if format == FormatXLSX {
		return "users_export.xlsx"
	}
	return "users_export.csv"
}

func ContentType(format string) string {
	if format == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv"
}

// Export writes every user to w and returns the number of data rows.
func (ex *Exporter) Export(ctx context.Context, w io.Writer, format string) (int, error) {
	var (
		n   int
		err error
	)
	switch format {
	case "", FormatCSV:
		n, err = ex.writeCSV(ctx, w)
	case FormatXLSX:
		n, err = ex.writeXLSX(ctx, w)
	default:
		return 0, errors.NewValidationFieldError("format", fmt.Sprintf("format must be %q or %q", FormatCSV, FormatXLSX), errors.ErrCodeInvalidField)
	}
	if err != nil {
		ex.logger.Error("export failed", "format", format, "rows_written", n, "error", err)
		return n, errors.NewInternalError("failed to export users", err)
	}
	ex.logger.Info("users exported", "format", format, "rows", n)
	return n, nil
}

func (ex *Exporter) writeCSV(ctx context.Context, w io.Writer) (int, error) {
	cw := csv.NewWriter(w)
	if err := cw.Write(ExportHeader); err != nil {
		return 0, err
	}

	n := 0
	err := ex.source.EachUser(ctx, func(row ExportRow) error {
		n++
		return cw.Write(row.Fields())
	})
	if err != nil {
		return n, err
	}
	cw.Flush()
	return n, cw.Error()
}

func (ex *Exporter) writeXLSX(ctx context.Context, w io.Writer) (int, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return 0, err
	}
	sw, err := f.NewStreamWriter(exportSheet)
	if err != nil {
		return 0, err
	}
	if err := sw.SetColWidth(1, len(ExportHeader), 20); err != nil {
		return 0, err
	}

	header := make([]interface{}, len(ExportHeader))
	for i, col := range ExportHeader {
		header[i] = col
	}
	if err := sw.SetRow("A1", header); err != nil {
		return 0, err
	}

	n := 0
	err = ex.source.EachUser(ctx, func(row ExportRow) error {
		n++
		cell, err := excelize.CoordinatesToCellName(1, n+1)
		if err != nil {
			return err
		}
		return sw.SetRow(cell, []interface{}{
			row.Username, row.FirstName, row.LastName, row.Email,
			formatFlag(row.IsStaff), formatFlag(row.IsSuperuser),
		})
	})
	if err != nil {
		return n, err
	}
	if err := sw.Flush(); err != nil {
		return n, err
	}
	return n, f.Write(w)
}
