// Package bulk imports user accounts from CSV rosters and exports them as CSV or XLSX.
package bulk

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/idlidosa1206/Fusion-System-Administrator/internal/user"
)

// ExportHeader is the column layout written by the exporter.
var ExportHeader = []string{"username", "first_name", "last_name", "email", "is_staff", "is_superuser"}

type Layout int

const (
	// LayoutRoster is rollNo, name, role, is_superuser.
	LayoutRoster Layout = iota
	// LayoutExport is the exporter's own column order.
	LayoutExport
)

func (l Layout) String() string {
	if l == LayoutExport {
		return "export"
	}
	return "roster"
}

func (l Layout) minFields() int {
	if l == LayoutExport {
		return len(ExportHeader)
	}
	return 4
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Record is one data row of an import file. Line is the 1-based record number, header included.
type Record struct {
	Line   int
	Fields []string
}

// RecordReader walks a CSV import one record at a time.
type RecordReader struct {
	r      *csv.Reader
	layout Layout
	line   int
}

// NewRecordReader consumes the header row and picks the layout from it.
func NewRecordReader(src io.Reader) (*RecordReader, error) {
	br := bufio.NewReader(src)
	if prefix, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(prefix, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}

	r := csv.NewReader(br)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	r.ReuseRecord = false

	rr := &RecordReader{r: r}
	header, err := rr.read()
	if err == io.EOF {
		return nil, ErrEmptyFile
	}
	if err != nil {
		return nil, err
	}
	rr.layout = detectLayout(header)
	return rr, nil
}

func (rr *RecordReader) Layout() Layout {
	return rr.layout
}

// Next returns the next record or io.EOF.
func (rr *RecordReader) Next() (*Record, error) {
	fields, err := rr.read()
	if err != nil {
		return nil, err
	}
	return &Record{Line: rr.line, Fields: fields}, nil
}

func (rr *RecordReader) read() ([]string, error) {
	fields, err := rr.r.Read()
	if err != nil {
		if err == io.EOF {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrMalformedCSV, err)
	}
	rr.line++
	for _, f := range fields {
		if !utf8.ValidString(f) {
			return nil, ErrNotUTF8
		}
	}
	return fields, nil
}

func detectLayout(header []string) Layout {
	if len(header) < len(ExportHeader) {
		return LayoutRoster
	}
	for i, col := range ExportHeader {
		if strings.ToLower(strings.TrimSpace(header[i])) != col {
			return LayoutRoster
		}
	}
	return LayoutExport
}

// Account turns a record into account input. ok is false when the record has too few fields.
// A flag column that is not a recognised boolean is reported through err.
func (l Layout) Account(rec *Record) (in user.AccountInput, ok bool, err error) {
	f := rec.Fields
	if len(f) < l.minFields() {
		return in, false, nil
	}

	if l == LayoutExport {
		isStaff, err := parseFlag("is_staff", f[4])
		if err != nil {
			return in, true, err
		}
		isSuperuser, err := parseFlag("is_superuser", f[5])
		if err != nil {
			return in, true, err
		}
		return user.AccountInput{
			RollNo:      strings.TrimSpace(f[0]),
			Name:        strings.TrimSpace(f[1] + " " + f[2]),
			IsSuperuser: isSuperuser,
			IsStaff:     &isStaff,
		}, true, nil
	}

	isSuperuser, err := parseFlag("is_superuser", f[3])
	if err != nil {
		return in, true, err
	}
	return user.AccountInput{
		RollNo:      strings.TrimSpace(f[0]),
		Name:        strings.TrimSpace(f[1]),
		Role:        strings.TrimSpace(f[2]),
		IsSuperuser: isSuperuser,
	}, true, nil
}

var (
	trueValues  = map[string]bool{"t": true, "y": true, "yes": true, "true": true, "on": true, "1": true}
	falseValues = map[string]bool{"": true, "f": true, "n": true, "no": true, "false": true, "off": true, "0": true}
)

func parseFlag(field, raw string) (bool, error) {
	v := strings.ToLower(strings.TrimSpace(raw))
	if trueValues[v] {
		return true, nil
	}
	if falseValues[v] {
		return false, nil
	}
	return false, fmt.Errorf("%s: Must be a valid boolean.", field)
}

func formatFlag(b bool) string {
	if b {
		return "True"
	}
	return "False"
}
