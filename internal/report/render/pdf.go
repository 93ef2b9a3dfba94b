package render

import (
	"bytes"
	"fmt"
	"html"

	gofpdf "github.com/go-pdf/fpdf"

	"spearow/internal/report/models"
	pkgerrors "spearow/pkg/errors"
)

// maxHeadingLevel bounds the recursive walk: nesting deeper than this
// renders at the smallest heading style instead of erroring.
const maxHeadingLevel = 6

var headingSizes = [maxHeadingLevel + 1]float64{0, 18, 16, 14, 12, 11, 10}

// pdfRenderer builds the paginated document form of a report.
type pdfRenderer struct {
	// noCompress disables stream compression so tests can search the raw
	// bytes for rendered text.
	noCompress bool
}

func newPDFRenderer() *pdfRenderer { return &pdfRenderer{} }

func (r *pdfRenderer) render(model any) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "Letter", "")
	if r.noCompress {
		pdf.SetCompression(false)
	}
	pdf.SetMargins(25, 25, 25)
	pdf.SetAutoPageBreak(true, 20)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "BU", headingSizes[1])
	pdf.CellFormat(0, 10, "User Report:", "", 1, "L", false, 0, "")
	pdf.Ln(3)

	rec := headerRecord(model)
	if rec != nil && hasUserShape(rec) {
		r.renderUserHeader(pdf, rec)
	} else {
		// Non-standard payload: render its literal textual form.
		text, err := renderJSON(model)
		if err != nil {
			return nil, err
		}
		r.textLine(pdf, string(text))
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, pkgerrors.Wrap(err, pkgerrors.CodeInternal, "write pdf document")
	}
	return buf.Bytes(), nil
}

func (r *pdfRenderer) renderUserHeader(pdf *gofpdf.Fpdf, rec *models.Record) {
	name, _ := rec.Get("Name")
	email, _ := rec.Get("Email")
	r.labeledLine(pdf, "Name", formatScalar(name))
	r.labeledLine(pdf, "Email", formatScalar(email))

	generatedAt := "N/A"
	if v, ok := rec.Get("ReportGeneratedAt"); ok {
		generatedAt = formatScalar(v)
	}
	r.labeledLine(pdf, "ReportGeneratedAt", generatedAt)
	pdf.Ln(3)

	report, ok := rec.Get("Report")
	if !ok {
		return
	}
	if list := asList(report); len(list) > 0 {
		r.heading(pdf, "Breaches", 3)
		r.walkEntry(pdf, "Breaches", list, 4)
	} else {
		r.labeledLine(pdf, "Report", formatScalar(report))
	}
}

// walkEntry renders one key/value pair of the report tree. Mappings open a
// heading and recurse one level deeper; lists recurse into each element;
// scalars render as a single escaped line.
func (r *pdfRenderer) walkEntry(pdf *gofpdf.Fpdf, key string, value any, level int) {
	switch {
	case isRecord(value):
		r.heading(pdf, key, level)
		r.walkRecord(pdf, asRecord(value), level+1)

	case asList(value) != nil:
		r.heading(pdf, key, level)
		for _, item := range asList(value) {
			if isRecord(item) {
				r.walkRecord(pdf, asRecord(item), level+1)
			} else {
				r.textLine(pdf, "- "+html.EscapeString(formatScalar(item)))
			}
		}

	default:
		r.labeledLine(pdf, key, html.EscapeString(formatScalar(value)))
	}
	pdf.Ln(2)
}

func (r *pdfRenderer) walkRecord(pdf *gofpdf.Fpdf, rec *models.Record, level int) {
	for _, key := range rec.Keys() {
		value, _ := rec.Get(key)
		r.walkEntry(pdf, key, value, level)
	}
}

func (r *pdfRenderer) heading(pdf *gofpdf.Fpdf, text string, level int) {
	if level > maxHeadingLevel {
		level = maxHeadingLevel
	}
	if level < 1 {
		level = 1
	}
	pdf.SetFont("Helvetica", "B", headingSizes[level])
	pdf.CellFormat(0, 8, text+":", "", 1, "L", false, 0, "")
}

func (r *pdfRenderer) labeledLine(pdf *gofpdf.Fpdf, label, value string) {
	pdf.SetFont("Helvetica", "B", 11)
	label += ": "
	pdf.CellFormat(pdf.GetStringWidth(label)+1, 6, label, "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.MultiCell(0, 6, value, "", "L", false)
}

func (r *pdfRenderer) textLine(pdf *gofpdf.Fpdf, text string) {
	pdf.SetFont("Helvetica", "", 11)
	pdf.MultiCell(0, 6, text, "", "L", false)
}

func headerRecord(model any) *models.Record {
	switch v := model.(type) {
	case *models.UserReport:
		return v.AsRecord()
	case models.UserReport:
		return v.AsRecord()
	case *models.Record:
		return v
	default:
		return nil
	}
}

func hasUserShape(rec *models.Record) bool {
	_, hasName := rec.Get("Name")
	_, hasEmail := rec.Get("Email")
	return hasName && hasEmail
}

func isRecord(value any) bool {
	_, ok := value.(*models.Record)
	return ok
}

func asRecord(value any) *models.Record {
	rec, _ := value.(*models.Record)
	return rec
}

// asList normalizes the two list shapes that appear in report trees.
// Returns nil for non-list values.
func asList(value any) []any {
	switch v := value.(type) {
	case []any:
		return v
	case []*models.Record:
		out := make([]any, len(v))
		for i, rec := range v {
			out[i] = rec
		}
		return out
	default:
		return nil
	}
}

func formatScalar(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}
