package render

import (
	"bytes"
	"fmt"
	"strings"

	"spearow/internal/report/models"
	pkgerrors "spearow/pkg/errors"
)

// renderCSV flattens record-shaped models into CSV. The column set is the
// first record's keys in insertion order; every subsequent record must carry
// exactly that key set. Data cells are always quoted.
func renderCSV(model any) ([]byte, error) {
	records, err := csvRecords(model)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidInput, "csv output requires at least one record")
	}

	columns := records[0].Keys()

	var buf bytes.Buffer
	buf.WriteString(strings.Join(columns, ","))
	buf.WriteByte('\n')

	for i, rec := range records {
		if err := checkColumns(i, rec, columns); err != nil {
			return nil, err
		}
		for j, col := range columns {
			if j > 0 {
				buf.WriteByte(',')
			}
			value, _ := rec.Get(col)
			writeQuotedCell(&buf, csvCellValue(value))
		}
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}

// csvRecords normalizes the model into a flat record list. Non-record
// shapes (sentinel strings) cannot be tabulated.
func csvRecords(model any) ([]*models.Record, error) {
	switch v := model.(type) {
	case *models.UserReport:
		return []*models.Record{v.AsRecord()}, nil
	case models.UserReport:
		return []*models.Record{v.AsRecord()}, nil
	case *models.Record:
		return []*models.Record{v}, nil
	case []*models.Record:
		return v, nil
	default:
		return nil, pkgerrors.New(pkgerrors.CodeInvalidInput, "csv output requires record-shaped report data")
	}
}

func checkColumns(row int, rec *models.Record, columns []string) error {
	keys := rec.Keys()
	if len(keys) != len(columns) {
		return &SchemaError{Row: row, Reason: fmt.Sprintf("expected %d columns, record has %d keys", len(columns), len(keys))}
	}
	for _, col := range columns {
		if _, ok := rec.Get(col); !ok {
			return &SchemaError{Row: row, Reason: fmt.Sprintf("missing column %q", col)}
		}
	}
	return nil
}

// csvCellValue renders one cell. Nested structures serialize through their
// JSON form so no information is dropped.
func csvCellValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		out, err := renderJSON(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(out)
	}
}

// writeQuotedCell writes a cell in fully quoted form, doubling any embedded
// quote characters.
func writeQuotedCell(buf *bytes.Buffer, cell string) {
	buf.WriteByte('"')
	buf.WriteString(strings.ReplaceAll(cell, `"`, `""`))
	buf.WriteByte('"')
}
