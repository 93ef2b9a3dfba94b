// Package render projects the canonical report model into output bytes.
// Renderers are pure: they never mutate the model and hold no state between
// calls.
package render

import (
	"fmt"

	"spearow/internal/report/models"
	pkgerrors "spearow/pkg/errors"
)

// Content types emitted per format.
const (
	ContentTypeJSON = "application/json"
	ContentTypeCSV  = "text/csv"
	ContentTypePDF  = "application/pdf"
)

// SchemaError reports a record whose key set diverges from the CSV header
// row. Rendering aborts with no partial output.
type SchemaError struct {
	Row    int
	Reason string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("csv schema mismatch at row %d: %s", e.Row, e.Reason)
}

// Render produces output bytes and a content type for the given model and
// format. The format has already been validated upstream.
func Render(model any, format models.ReportFormat) ([]byte, string, error) {
	switch format {
	case models.FormatJSON:
		out, err := renderJSON(model)
		return out, ContentTypeJSON, err
	case models.FormatCSV:
		out, err := renderCSV(model)
		return out, ContentTypeCSV, err
	case models.FormatPDF:
		out, err := newPDFRenderer().render(model)
		return out, ContentTypePDF, err
	default:
		return nil, "", pkgerrors.New(pkgerrors.CodeInternal, fmt.Sprintf("unreachable report format %q", format))
	}
}
